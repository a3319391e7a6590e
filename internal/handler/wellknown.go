package handler

import (
	"net/http"

	"merchlist/internal/catalog"
	"merchlist/internal/clientmeta"
)

// discoveryProfile describes the editor service to clients before they
// open a session.
type discoveryProfile struct {
	Service          string   `json:"service"`
	Version          string   `json:"version"`
	MinClientVersion string   `json:"min_client_version"`
	SearchPageSize   int      `json:"search_page_size"`
	Transports       []string `json:"transports"`
	Capabilities     []string `json:"capabilities"`
}

// handleWellKnown returns the discovery profile.
// GET /.well-known/list-editor
func (h *Handler) handleWellKnown(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, discoveryProfile{
		Service:          "merchlist",
		Version:          "1.0.0",
		MinClientVersion: clientmeta.MinVersion,
		SearchPageSize:   catalog.PageSize,
		Transports:       []string{"rest", "mcp"},
		Capabilities: []string{
			"reorder",
			"discounts",
			"selection-dialog",
			"search-resolve",
		},
	})
}

// handleHealth returns a simple health check response.
// GET /health, GET /healthz
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}
