package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ecomart/ecomart/internal/catalog"
	"github.com/ecomart/ecomart/internal/engine"
)

type CatalogHandler struct {
	engine     *engine.Engine
	classifier *catalog.Classifier
	logger     *slog.Logger
}

func NewCatalogHandler(e *engine.Engine, classifier *catalog.Classifier, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{engine: e, classifier: classifier, logger: logger}
}

// Products handles GET /api/products?sustainable=true
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	sustainable := r.URL.Query().Get("sustainable") == "true"
	writeJSON(w, http.StatusOK, catalog.Products(sustainable))
}

// RecyclingCategories handles GET /api/recycling/categories
func (h *CatalogHandler) RecyclingCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.RecyclingCategories())
}

// Classify handles POST /api/recycling/classify. The uploaded image is
// discarded; classification is a simulated delay plus a random pick, as in
// the storefront demo.
func (h *CatalogHandler) Classify(w http.ResponseWriter, r *http.Request) {
	result, err := h.classifier.Classify(r.Context())
	if err != nil {
		writeError(w, http.StatusRequestTimeout, "classification cancelled")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type confirmRecyclingRequest struct {
	Category string `json:"category"`
}

// ConfirmRecycling handles POST /api/recycling/confirm
func (h *CatalogHandler) ConfirmRecycling(w http.ResponseWriter, r *http.Request) {
	var req confirmRecyclingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	points, err := h.engine.ConfirmRecycling(req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown recycling category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"points": points})
}

// ExpiringItems handles GET /api/expiring
func (h *CatalogHandler) ExpiringItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.ExpiringItems())
}
