// Package handler provides HTTP handlers for the list editor session API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"merchlist/internal/model"
	"merchlist/internal/session"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	store  *session.Store
	logger *slog.Logger
}

// New creates a new Handler backed by the given session store.
func New(store *session.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Discovery endpoint
	mux.HandleFunc("GET /.well-known/list-editor", h.handleWellKnown)

	// Session lifecycle
	mux.HandleFunc("POST /sessions", h.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", h.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", h.handleDeleteSession)

	// List commands
	mux.HandleFunc("POST /sessions/{id}/reorder", h.handleReorder)
	mux.HandleFunc("PUT /sessions/{id}/products/{productID}/discount", h.handleProductDiscount)
	mux.HandleFunc("PUT /sessions/{id}/variants/{variantID}/discount", h.handleVariantDiscount)
	mux.HandleFunc("DELETE /sessions/{id}/products/{productID}", h.handleRemoveProduct)
	mux.HandleFunc("DELETE /sessions/{id}/products/{productID}/variants/{variantID}", h.handleRemoveVariant)

	// Selection dialog commands
	mux.HandleFunc("POST /sessions/{id}/dialog", h.handleOpenDialog)
	mux.HandleFunc("DELETE /sessions/{id}/dialog", h.handleCancelDialog)
	mux.HandleFunc("POST /sessions/{id}/dialog/search", h.handleSearch)
	mux.HandleFunc("POST /sessions/{id}/dialog/page", h.handleNextPage)
	mux.HandleFunc("POST /sessions/{id}/dialog/products/toggle", h.handleToggleProduct)
	mux.HandleFunc("POST /sessions/{id}/dialog/variants/toggle", h.handleToggleVariant)
	mux.HandleFunc("POST /sessions/{id}/dialog/commit", h.handleCommit)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// editor resolves the session named in the request path.
func (h *Handler) editor(r *http.Request) (*session.Editor, error) {
	id := r.PathValue("id")
	if id == "" {
		return nil, model.NewValidationError("id", "session ID required")
	}
	e, ok := h.store.Get(id)
	if !ok {
		return nil, model.NewNotFoundError("session " + id)
	}
	return e, nil
}

// pathInt64 parses a numeric path segment.
func pathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, model.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains (e.g., fmt.Errorf wrapping).
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if errors.As(err, &apiErr) {
		// Found APIError in error chain - use it
	} else {
		// Wrap unexpected errors
		apiErr = &model.APIError{
			Code:       "INTERNAL_ERROR",
			Message:    "an internal error occurred",
			StatusCode: http.StatusInternalServerError,
		}
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	// Limit request body size to prevent DoS
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}
