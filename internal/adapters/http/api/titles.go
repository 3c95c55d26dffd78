// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// titlesResponse mirrors the OpenAPI schema for GET /api/v1/titles.
type titlesResponse struct {
	Titles []string `json:"titles"`
	Count  int      `json:"count"`
}

// TitlesHandler handles catalog title listing requests.
type TitlesHandler struct {
	deps Dependencies
}

// NewTitlesHandler creates a new titles handler.
func NewTitlesHandler(deps Dependencies) *TitlesHandler {
	return &TitlesHandler{deps: deps}
}

// HandleGetTitles handles GET /api/v1/titles requests. The order matches
// the catalog index order so the dropdown stays stable across reloads.
func (h *TitlesHandler) HandleGetTitles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	titles := h.deps.Titles(r.Context())
	writeJSON(w, http.StatusOK, titlesResponse{
		Titles: titles,
		Count:  len(titles),
	})
}
