package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ecomart/ecomart/internal/auth"
	"github.com/ecomart/ecomart/internal/engine"
	"github.com/ecomart/ecomart/internal/store"
	"github.com/ecomart/ecomart/internal/tradein"
)

type TradeInHandler struct {
	engine   *engine.Engine
	tradeIns *store.TradeInStore
	logger   *slog.Logger
}

func NewTradeInHandler(e *engine.Engine, ts *store.TradeInStore, logger *slog.Logger) *TradeInHandler {
	return &TradeInHandler{engine: e, tradeIns: ts, logger: logger}
}

// Catalog handles GET /api/trade-in/catalog
func (h *TradeInHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": tradein.Categories(),
		"conditions": tradein.Conditions(),
		"reasons":    tradein.Reasons(),
	})
}

type tradeInStepResponse struct {
	Step int `json:"step"`
}

// Begin handles POST /api/trade-in
func (h *TradeInHandler) Begin(w http.ResponseWriter, r *http.Request) {
	step := h.engine.BeginTradeIn()
	writeJSON(w, http.StatusCreated, tradeInStepResponse{Step: step})
}

// State handles GET /api/trade-in
func (h *TradeInHandler) State(w http.ResponseWriter, r *http.Request) {
	step, err := h.engine.TradeInStep()
	if err != nil {
		writeError(w, http.StatusNotFound, "no trade-in in progress")
		return
	}
	estimate, _ := h.engine.TradeInEstimate()
	writeJSON(w, http.StatusOK, map[string]any{"step": step, "estimated_value": estimate})
}

// Next handles POST /api/trade-in/next
func (h *TradeInHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.step(w, h.engine.TradeInNext)
}

// Back handles POST /api/trade-in/back
func (h *TradeInHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.step(w, h.engine.TradeInBack)
}

func (h *TradeInHandler) step(w http.ResponseWriter, move func() (int, error)) {
	step, err := move()
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNoTradeIn):
			writeError(w, http.StatusNotFound, "no trade-in in progress")
		case errors.Is(err, tradein.ErrStepBounds):
			writeError(w, http.StatusConflict, "no step in that direction")
		case errors.Is(err, tradein.ErrCategoryRequired),
			errors.Is(err, tradein.ErrItemRequired),
			errors.Is(err, tradein.ErrConditionRequired):
			writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("trade-in step", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to change step")
		}
		return
	}
	writeJSON(w, http.StatusOK, tradeInStepResponse{Step: step})
}

type tradeInDetailsRequest struct {
	Category    string `json:"category"`
	Item        string `json:"item"`
	Reason      string `json:"reason"`
	Condition   string `json:"condition"`
	Description string `json:"description"`
}

// SetDetails handles PUT /api/trade-in/details
func (h *TradeInHandler) SetDetails(w http.ResponseWriter, r *http.Request) {
	var req tradeInDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	err := h.engine.SetTradeInDetails(req.Category, req.Item, req.Reason, req.Condition, req.Description)
	if err != nil {
		if errors.Is(err, engine.ErrNoTradeIn) {
			writeError(w, http.StatusNotFound, "no trade-in in progress")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	estimate, _ := h.engine.TradeInEstimate()
	writeJSON(w, http.StatusOK, map[string]any{"estimated_value": estimate})
}

// Complete handles POST /api/trade-in/complete
func (h *TradeInHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var userID *string
	if id := auth.UserID(r.Context()); id != "" {
		userID = &id
	}

	record, err := h.engine.CompleteTradeIn(userID)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNoTradeIn):
			writeError(w, http.StatusNotFound, "no trade-in in progress")
		case errors.Is(err, tradein.ErrNotAtConfirmation):
			writeError(w, http.StatusConflict, "complete is only allowed from the confirmation step")
		default:
			h.logger.Error("complete trade-in", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to complete trade-in")
		}
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// List handles GET /api/trade-ins
func (h *TradeInHandler) List(w http.ResponseWriter, r *http.Request) {
	tradeIns, err := h.tradeIns.ListForUser(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list trade-ins", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list trade-ins")
		return
	}
	if tradeIns == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, tradeIns)
}
