package handler

import (
	"log/slog"
	"net/http"

	"github.com/ecomart/ecomart/internal/engine"
)

type RewardHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewRewardHandler(e *engine.Engine, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{engine: e, logger: logger}
}

// State handles GET /api/rewards
func (h *RewardHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Rewards())
}
