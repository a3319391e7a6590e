// MCP transport handler for the list editor using the official MCP Go
// SDK. Exposes the session command surface as MCP tools so agent
// clients can drive an editing session the same way the REST API does.
package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"merchlist/internal/model"
	"merchlist/internal/session"
)

// === MCP Tool Input Types ===
// Every session-scoped tool carries the session id explicitly; MCP has
// no path parameters.

// CreateSessionInput is the input schema for the create_session tool.
type CreateSessionInput struct {
	Products []model.Product `json:"products,omitempty" jsonschema:"initial product list to seed the session with"`
}

// SessionInput identifies an existing session.
type SessionInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID,required"`
}

// ReorderInput is the input schema for the reorder_items tool.
type ReorderInput struct {
	SessionID string        `json:"session_id" jsonschema:"session ID,required"`
	Active    model.ItemRef `json:"active" jsonschema:"dragged item (scope + id),required"`
	Over      model.ItemRef `json:"over" jsonschema:"drop target item (scope + id),required"`
}

// ProductDiscountInput is the input schema for set_product_discount.
type ProductDiscountInput struct {
	SessionID string              `json:"session_id" jsonschema:"session ID,required"`
	ProductID int64               `json:"product_id" jsonschema:"product ID,required"`
	Field     model.DiscountField `json:"field" jsonschema:"amount or kind,required"`
	Value     string              `json:"value" jsonschema:"new field value,required"`
}

// VariantDiscountInput is the input schema for set_variant_discount.
type VariantDiscountInput struct {
	SessionID string              `json:"session_id" jsonschema:"session ID,required"`
	VariantID int64               `json:"variant_id" jsonschema:"variant ID,required"`
	Field     model.DiscountField `json:"field" jsonschema:"amount or kind,required"`
	Value     string              `json:"value" jsonschema:"new field value,required"`
}

// RemoveProductInput is the input schema for remove_product.
type RemoveProductInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID,required"`
	ProductID int64  `json:"product_id" jsonschema:"product ID,required"`
}

// RemoveVariantInput is the input schema for remove_variant.
type RemoveVariantInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID,required"`
	ProductID int64  `json:"product_id" jsonschema:"owning product ID,required"`
	VariantID int64  `json:"variant_id" jsonschema:"variant ID,required"`
}

// OpenDialogInput is the input schema for open_dialog.
type OpenDialogInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID,required"`
	Index     int    `json:"index" jsonschema:"list index being edited; -1 adds new entries"`
}

// SearchInput is the input schema for search_products.
type SearchInput struct {
	SessionID string `json:"session_id" jsonschema:"session ID,required"`
	Query     string `json:"query" jsonschema:"search text; empty browses the whole catalog"`
}

// ToggleProductInput is the input schema for toggle_product.
type ToggleProductInput struct {
	SessionID string        `json:"session_id" jsonschema:"session ID,required"`
	Product   model.Product `json:"product" jsonschema:"the result row to toggle,required"`
}

// ToggleVariantInput is the input schema for toggle_variant.
type ToggleVariantInput struct {
	SessionID string        `json:"session_id" jsonschema:"session ID,required"`
	ProductID int64         `json:"product_id" jsonschema:"owning product ID,required"`
	Variant   model.Variant `json:"variant" jsonschema:"the variant to toggle,required"`
}

// DeleteSessionOutput reports a session deletion.
type DeleteSessionOutput struct {
	Deleted bool `json:"deleted"`
}

// NewMCPServer creates an MCP server with the session tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "merchlist",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Merchant product list editor. Create a session, then use the " +
				"reorder, discount and dialog tools to edit the list. Every tool returns " +
				"the full session snapshot after the command.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_session",
		Description: "Create a new editing session, optionally seeded with an existing product list.",
	}, h.mcpCreateSession)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_session",
		Description: "Get the current snapshot of an editing session.",
	}, h.mcpGetSession)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_session",
		Description: "Discard an editing session.",
	}, h.mcpDeleteSession)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reorder_items",
		Description: "Move a product or variant by drag-and-drop semantics: the dragged item lands where the target item was.",
	}, h.mcpReorder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_product_discount",
		Description: "Edit one field of a product discount. The full discount cascades to every variant of the product.",
	}, h.mcpSetProductDiscount)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_variant_discount",
		Description: "Edit one field of a single variant's discount without touching the product or sibling variants.",
	}, h.mcpSetVariantDiscount)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_product",
		Description: "Remove a product from the list.",
	}, h.mcpRemoveProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_variant",
		Description: "Remove one variant from a product in the list.",
	}, h.mcpRemoveVariant)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "open_dialog",
		Description: "Open the product selection dialog. Index -1 adds new entries; an existing index edits that entry and auto-locates its catalog record.",
	}, h.mcpOpenDialog)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "cancel_dialog",
		Description: "Close the selection dialog, discarding the selection.",
	}, h.mcpCancelDialog)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_products",
		Description: "Set the dialog search text and fetch the first page of results.",
	}, h.mcpSearch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "next_page",
		Description: "Fetch the next page of search results.",
	}, h.mcpNextPage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_product",
		Description: "Toggle a search result's selection checkbox.",
	}, h.mcpToggleProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_variant",
		Description: "Toggle one variant checkbox within a selected product.",
	}, h.mcpToggleVariant)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "commit_selection",
		Description: "Land the dialog selection in the list (append, or replace the edited entry) and close the dialog.",
	}, h.mcpCommit)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpCreateSession(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateSessionInput,
) (*mcp.CallToolResult, *createSessionResponse, error) {
	id, e := h.store.Create()
	snap := e.Load(input.Products)
	return nil, &createSessionResponse{ID: id, Snapshot: snap}, nil
}

func (h *Handler) mcpGetSession(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	snap := e.Snapshot()
	return nil, &snap, nil
}

func (h *Handler) mcpDeleteSession(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, *DeleteSessionOutput, error) {
	if !h.store.Delete(input.SessionID) {
		return nil, nil, h.mcpError(model.NewNotFoundError("session " + input.SessionID))
	}
	return nil, &DeleteSessionOutput{Deleted: true}, nil
}

func (h *Handler) mcpReorder(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ReorderInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := model.ParseScope(string(input.Active.Scope)); err != nil {
		return nil, nil, h.mcpError(err)
	}
	if _, err := model.ParseScope(string(input.Over.Scope)); err != nil {
		return nil, nil, h.mcpError(err)
	}
	snap := e.Reorder(input.Active, input.Over)
	return nil, &snap, nil
}

func (h *Handler) mcpSetProductDiscount(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ProductDiscountInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := (discountRequest{Field: input.Field, Value: input.Value}).validate(); err != nil {
		return nil, nil, h.mcpError(err)
	}
	snap := e.SetProductDiscount(input.ProductID, input.Field, input.Value)
	return nil, &snap, nil
}

func (h *Handler) mcpSetVariantDiscount(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input VariantDiscountInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := (discountRequest{Field: input.Field, Value: input.Value}).validate(); err != nil {
		return nil, nil, h.mcpError(err)
	}
	snap := e.SetVariantDiscount(input.VariantID, input.Field, input.Value)
	return nil, &snap, nil
}

func (h *Handler) mcpRemoveProduct(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RemoveProductInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	snap := e.RemoveProduct(input.ProductID)
	return nil, &snap, nil
}

func (h *Handler) mcpRemoveVariant(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RemoveVariantInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	snap := e.RemoveVariant(input.ProductID, input.VariantID)
	return nil, &snap, nil
}

func (h *Handler) mcpOpenDialog(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input OpenDialogInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	snap := e.OpenDialog(ctx, input.Index)
	return nil, &snap, nil
}

func (h *Handler) mcpCancelDialog(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	snap := e.CancelDialog()
	return nil, &snap, nil
}

func (h *Handler) mcpSearch(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	snap := e.SetSearchText(ctx, input.Query)
	return nil, &snap, nil
}

func (h *Handler) mcpNextPage(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	snap := e.RequestNextPage(ctx)
	return nil, &snap, nil
}

func (h *Handler) mcpToggleProduct(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ToggleProductInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if input.Product.ID == 0 {
		return nil, nil, fmt.Errorf("product.id is required")
	}
	snap := e.ToggleProductSelection(input.Product)
	return nil, &snap, nil
}

func (h *Handler) mcpToggleVariant(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ToggleVariantInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if input.ProductID == 0 || input.Variant.ID == 0 {
		return nil, nil, fmt.Errorf("product_id and variant.id are required")
	}
	snap := e.ToggleVariantSelection(input.ProductID, input.Variant)
	return nil, &snap, nil
}

func (h *Handler) mcpCommit(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, *session.Snapshot, error) {
	e, err := h.mcpEditor(input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	snap := e.CommitSelection()
	return nil, &snap, nil
}

// mcpEditor resolves a session id for tool handlers.
func (h *Handler) mcpEditor(sessionID string) (*session.Editor, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	e, ok := h.store.Get(sessionID)
	if !ok {
		return nil, h.mcpError(model.NewNotFoundError("session " + sessionID))
	}
	return e, nil
}

// mcpError converts internal errors to MCP-friendly errors.
func (h *Handler) mcpError(err error) error {
	if apiErr, ok := err.(*model.APIError); ok {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
