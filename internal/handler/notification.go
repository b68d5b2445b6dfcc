package handler

import (
	"log/slog"
	"net/http"

	"github.com/ecomart/ecomart/internal/engine"
)

type NotificationHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewNotificationHandler(e *engine.Engine, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{engine: e, logger: logger}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": h.engine.Notifications(),
		"unread":        h.engine.UnreadCount(),
	})
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if !h.engine.MarkNotificationRead(r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dispatch handles POST /api/notifications/{id}/dispatch
func (h *NotificationHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	cmd, ok := h.engine.DispatchNotification(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"command": cmd.String()})
}

// Toast handles GET /api/toast
func (h *NotificationHandler) Toast(w http.ResponseWriter, r *http.Request) {
	toast := h.engine.ActiveToast()
	if toast == nil {
		writeJSON(w, http.StatusOK, map[string]any{"toast": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"toast": toast})
}

// DismissToast handles DELETE /api/toast
func (h *NotificationHandler) DismissToast(w http.ResponseWriter, r *http.Request) {
	h.engine.DismissToast()
	w.WriteHeader(http.StatusNoContent)
}
