// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folio/internal/catalog"
	"folio/internal/listing"
	"folio/internal/models"
)

// API serves the same data as the public pages as JSON.
type API struct {
	listing *listing.Service
}

// NewAPI creates a new API handler group.
func NewAPI(svc *listing.Service) *API {
	return &API{listing: svc}
}

// Verticals lists the configured verticals.
func (a *API) Verticals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.listing.Verticals())
}

// Categories returns the reconciled, importance-sorted listing, filtered by
// ?q= when present.
func (a *API) Categories(w http.ResponseWriter, r *http.Request) {
	v, ok := a.vertical(w, r)
	if !ok {
		return
	}
	query := normalizeQuery(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, catalog.Search(a.listing.Categories(r.Context(), v), query))
}

// AllCategories returns the unfiltered registry.
func (a *API) AllCategories(w http.ResponseWriter, r *http.Request) {
	v, ok := a.vertical(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.listing.AllCategories(r.Context(), v))
}

// Items returns the vertical's active items. With ?category={slug} it
// returns that category's items newest first, or 404 when the slug is not
// registered.
func (a *API) Items(w http.ResponseWriter, r *http.Request) {
	v, ok := a.vertical(w, r)
	if !ok {
		return
	}

	categorySlug := r.URL.Query().Get("category")
	if categorySlug == "" {
		writeJSON(w, http.StatusOK, a.listing.ActiveItems(r.Context(), v))
		return
	}

	d, items := a.listing.Category(r.Context(), v, categorySlug)
	if d == nil {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// NotFound answers unknown API paths.
func (a *API) NotFound(w http.ResponseWriter, r *http.Request) {
	writeNotFound(w)
}

func (a *API) vertical(w http.ResponseWriter, r *http.Request) (models.Vertical, bool) {
	v, err := a.listing.Vertical(chi.URLParam(r, "vertical"))
	if err != nil {
		writeNotFound(w)
		return models.Vertical{}, false
	}
	return v, true
}

// errorResponse is the body of every API error.
type errorResponse struct {
	Error string `json:"error"`
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode json response failed", "error", err)
	}
}
