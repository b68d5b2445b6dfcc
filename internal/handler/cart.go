package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ecomart/ecomart/internal/cart"
	"github.com/ecomart/ecomart/internal/engine"
)

type CartHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewCartHandler(e *engine.Engine, logger *slog.Logger) *CartHandler {
	return &CartHandler{engine: e, logger: logger}
}

type cartResponse struct {
	Lines  any `json:"lines"`
	Totals any `json:"totals"`
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	lines, totals := h.engine.Cart()
	writeJSON(w, http.StatusOK, cartResponse{Lines: lines, Totals: totals})
}

type addItemRequest struct {
	ProductID   int64 `json:"product_id"`
	Sustainable bool  `json:"sustainable"`
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	line, err := h.engine.AddToCart(req.ProductID, req.Sustainable)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownProduct) {
			writeError(w, http.StatusNotFound, "unknown product")
			return
		}
		h.logger.Error("add to cart", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /api/cart/items/{id}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.engine.UpdateCartQuantity(id, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrNegativeQuantity) {
			writeError(w, http.StatusBadRequest, "quantity must not be negative")
			return
		}
		h.logger.Error("update cart quantity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	lines, totals := h.engine.Cart()
	writeJSON(w, http.StatusOK, cartResponse{Lines: lines, Totals: totals})
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	h.engine.RemoveFromCart(id)
	w.WriteHeader(http.StatusNoContent)
}

// ChooseEcoDelivery handles POST /api/cart/eco-delivery
func (h *CartHandler) ChooseEcoDelivery(w http.ResponseWriter, r *http.Request) {
	points, err := h.engine.ChooseEcoDelivery()
	if err != nil {
		h.logger.Error("eco delivery promo", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to apply eco delivery bonus")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"points_awarded": points})
}
