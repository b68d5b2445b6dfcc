package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ecomart/ecomart/internal/auth"
	"github.com/ecomart/ecomart/internal/checkout"
	"github.com/ecomart/ecomart/internal/engine"
	"github.com/ecomart/ecomart/internal/model"
	"github.com/ecomart/ecomart/internal/store"
)

type CheckoutHandler struct {
	engine *engine.Engine
	orders *store.OrderStore
	logger *slog.Logger
}

func NewCheckoutHandler(e *engine.Engine, orders *store.OrderStore, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{engine: e, orders: orders, logger: logger}
}

type checkoutStepResponse struct {
	Step checkout.Step `json:"step"`
}

// Begin handles POST /api/checkout
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	step, err := h.engine.BeginCheckout()
	if err != nil {
		if errors.Is(err, engine.ErrEmptyCart) {
			writeError(w, http.StatusConflict, "cart is empty")
			return
		}
		h.logger.Error("begin checkout", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start checkout")
		return
	}
	writeJSON(w, http.StatusCreated, checkoutStepResponse{Step: step})
}

// State handles GET /api/checkout
func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	step, err := h.engine.CheckoutStep()
	if err != nil {
		writeError(w, http.StatusNotFound, "no checkout in progress")
		return
	}
	totals, err := h.engine.CheckoutTotals()
	if err != nil {
		writeError(w, http.StatusNotFound, "no checkout in progress")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"step": step, "totals": totals})
}

// Next handles POST /api/checkout/next
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.step(w, h.engine.CheckoutNext)
}

// Back handles POST /api/checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.step(w, h.engine.CheckoutBack)
}

func (h *CheckoutHandler) step(w http.ResponseWriter, move func() (checkout.Step, error)) {
	step, err := move()
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNoCheckout):
			writeError(w, http.StatusNotFound, "no checkout in progress")
		case errors.Is(err, checkout.ErrStepBounds):
			writeError(w, http.StatusConflict, "no step in that direction")
		default:
			h.logger.Error("checkout step", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to change step")
		}
		return
	}
	writeJSON(w, http.StatusOK, checkoutStepResponse{Step: step})
}

type deliveryRequest struct {
	Option string `json:"option"`
}

// SetDelivery handles PUT /api/checkout/delivery
func (h *CheckoutHandler) SetDelivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.engine.SetDelivery(req.Option); err != nil {
		switch {
		case errors.Is(err, engine.ErrNoCheckout):
			writeError(w, http.StatusNotFound, "no checkout in progress")
		case errors.Is(err, checkout.ErrInvalidDelivery):
			writeError(w, http.StatusBadRequest, "unknown delivery option")
		default:
			writeError(w, http.StatusInternalServerError, "failed to set delivery")
		}
		return
	}

	totals, _ := h.engine.CheckoutTotals()
	writeJSON(w, http.StatusOK, totals)
}

// SetCustomerInfo handles PUT /api/checkout/customer
func (h *CheckoutHandler) SetCustomerInfo(w http.ResponseWriter, r *http.Request) {
	var info model.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.engine.SetCustomerInfo(info); err != nil {
		writeError(w, http.StatusNotFound, "no checkout in progress")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPaymentInfo handles PUT /api/checkout/payment
func (h *CheckoutHandler) SetPaymentInfo(w http.ResponseWriter, r *http.Request) {
	var info model.PaymentInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.engine.SetPaymentInfo(info); err != nil {
		writeError(w, http.StatusNotFound, "no checkout in progress")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /api/checkout/submit
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	order, err := h.engine.SubmitCheckout(auth.UserID(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNoCheckout):
			writeError(w, http.StatusNotFound, "no checkout in progress")
		case errors.Is(err, checkout.ErrNotAtPayment):
			writeError(w, http.StatusConflict, "submit is only allowed from the payment step")
		default:
			h.logger.Error("submit checkout", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /api/orders
func (h *CheckoutHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListForUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
