package handler

import (
	"log/slog"
	"net/http"

	"merchlist/internal/model"
	"merchlist/internal/session"
)

// createSessionRequest optionally seeds the session with an existing
// product list.
type createSessionRequest struct {
	Products []model.Product `json:"products"`
}

// createSessionResponse carries the new session id alongside the first
// snapshot.
type createSessionResponse struct {
	ID       string           `json:"id"`
	Snapshot session.Snapshot `json:"snapshot"`
}

// handleCreateSession starts a new editing session.
// POST /sessions
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.writeError(w, err)
			return
		}
	}

	id, e := h.store.Create()
	snap := e.Load(req.Products)

	h.logger.InfoContext(ctx, "session created",
		slog.String("session_id", id),
		slog.Int("seeded_products", len(req.Products)),
	)

	h.writeJSON(w, http.StatusCreated, createSessionResponse{ID: id, Snapshot: snap})
}

// handleGetSession returns the current snapshot.
// GET /sessions/{id}
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, e.Snapshot())
}

// handleDeleteSession discards a session.
// DELETE /sessions/{id}
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.store.Delete(id) {
		h.writeError(w, model.NewNotFoundError("session "+id))
		return
	}
	h.logger.InfoContext(r.Context(), "session deleted", slog.String("session_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// reorderRequest is a drag-end event: what was dragged and what it was
// dropped on.
type reorderRequest struct {
	Active model.ItemRef `json:"active"`
	Over   model.ItemRef `json:"over"`
}

// handleReorder applies a drag-and-drop move.
// POST /sessions/{id}/reorder
func (h *Handler) handleReorder(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := model.ParseScope(string(req.Active.Scope)); err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := model.ParseScope(string(req.Over.Scope)); err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "reorder",
		slog.String("active_scope", string(req.Active.Scope)),
		slog.Int64("active_id", req.Active.ID),
		slog.String("over_scope", string(req.Over.Scope)),
		slog.Int64("over_id", req.Over.ID),
	)

	h.writeJSON(w, http.StatusOK, e.Reorder(req.Active, req.Over))
}

// discountRequest edits one field of a discount.
type discountRequest struct {
	Field model.DiscountField `json:"field"`
	Value string              `json:"value"`
}

func (req discountRequest) validate() error {
	switch req.Field {
	case model.FieldAmount:
		if !model.ValidDiscountAmount(req.Value) {
			return model.NewValidationError("value", "amount must be digits with at most one dot")
		}
	case model.FieldKind:
		switch model.DiscountKind(req.Value) {
		case model.DiscountPercentage, model.DiscountFlat:
		default:
			return model.NewValidationError("value", "kind must be \"percentage\" or \"flat\"")
		}
	default:
		return model.NewValidationError("field", "must be \"amount\" or \"kind\"")
	}
	return nil
}

// handleProductDiscount edits a product-level discount, cascading to
// all variants.
// PUT /sessions/{id}/products/{productID}/discount
func (h *Handler) handleProductDiscount(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	productID, err := pathInt64(r, "productID")
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req discountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, e.SetProductDiscount(productID, req.Field, req.Value))
}

// handleVariantDiscount edits a single variant's discount.
// PUT /sessions/{id}/variants/{variantID}/discount
func (h *Handler) handleVariantDiscount(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	variantID, err := pathInt64(r, "variantID")
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req discountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, e.SetVariantDiscount(variantID, req.Field, req.Value))
}

// handleRemoveProduct deletes a list entry.
// DELETE /sessions/{id}/products/{productID}
func (h *Handler) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	productID, err := pathInt64(r, "productID")
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, e.RemoveProduct(productID))
}

// handleRemoveVariant deletes one variant from a list entry.
// DELETE /sessions/{id}/products/{productID}/variants/{variantID}
func (h *Handler) handleRemoveVariant(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	productID, err := pathInt64(r, "productID")
	if err != nil {
		h.writeError(w, err)
		return
	}
	variantID, err := pathInt64(r, "variantID")
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, e.RemoveVariant(productID, variantID))
}

// openDialogRequest names the list position being edited, or -1 to add
// new entries.
type openDialogRequest struct {
	Index int `json:"index"`
}

// handleOpenDialog opens the selection dialog.
// POST /sessions/{id}/dialog
func (h *Handler) handleOpenDialog(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	req := openDialogRequest{Index: -1}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.writeError(w, err)
			return
		}
	}

	h.logger.InfoContext(r.Context(), "dialog opened", slog.Int("index", req.Index))

	h.writeJSON(w, http.StatusOK, e.OpenDialog(r.Context(), req.Index))
}

// handleCancelDialog closes the dialog, discarding the selection.
// DELETE /sessions/{id}/dialog
func (h *Handler) handleCancelDialog(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, e.CancelDialog())
}

// searchRequest sets the dialog's search text.
type searchRequest struct {
	Query string `json:"query"`
}

// handleSearch starts a fresh search. Clients debounce keystrokes; each
// call here resets pagination to page 1.
// POST /sessions/{id}/dialog/search
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, e.SetSearchText(r.Context(), req.Query))
}

// handleNextPage requests the next browse page.
// POST /sessions/{id}/dialog/page
func (h *Handler) handleNextPage(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, e.RequestNextPage(r.Context()))
}

// toggleProductRequest flips a result row's checkbox.
type toggleProductRequest struct {
	Product model.Product `json:"product"`
}

// handleToggleProduct toggles a product in the selection.
// POST /sessions/{id}/dialog/products/toggle
func (h *Handler) handleToggleProduct(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req toggleProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Product.ID == 0 {
		h.writeError(w, model.NewValidationError("product.id", "required"))
		return
	}

	h.writeJSON(w, http.StatusOK, e.ToggleProductSelection(req.Product))
}

// toggleVariantRequest flips one variant checkbox within a selected
// product.
type toggleVariantRequest struct {
	ProductID int64         `json:"product_id"`
	Variant   model.Variant `json:"variant"`
}

// handleToggleVariant toggles a variant in the selection.
// POST /sessions/{id}/dialog/variants/toggle
func (h *Handler) handleToggleVariant(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req toggleVariantRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.ProductID == 0 || req.Variant.ID == 0 {
		h.writeError(w, model.NewValidationError("variant", "product_id and variant.id required"))
		return
	}

	h.writeJSON(w, http.StatusOK, e.ToggleVariantSelection(req.ProductID, req.Variant))
}

// handleCommit lands the selection in the list and closes the dialog.
// POST /sessions/{id}/dialog/commit
func (h *Handler) handleCommit(w http.ResponseWriter, r *http.Request) {
	e, err := h.editor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "selection committed")

	h.writeJSON(w, http.StatusOK, e.CommitSelection())
}
