package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecomart/ecomart/internal/auth"
	"github.com/ecomart/ecomart/internal/engine"
	"github.com/ecomart/ecomart/internal/middleware"
	"github.com/ecomart/ecomart/internal/store"
)

type AuthHandler struct {
	engine *engine.Engine
	users  *store.UserStore
	logger *slog.Logger
	secure bool
}

func NewAuthHandler(e *engine.Engine, users *store.UserStore, secure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{engine: e, users: users, secure: secure, logger: logger}
}

type phaseResponse struct {
	Phase auth.Phase `json:"phase"`
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

// SubmitPhone handles POST /api/auth/phone
func (h *AuthHandler) SubmitPhone(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	h.engine.StartLogin()
	if err := h.engine.SubmitPhone(r.Context(), req.Phone); err != nil {
		if errors.Is(err, auth.ErrInvalidPhone) {
			writeError(w, http.StatusBadRequest, "phone number must be at least 10 characters")
			return
		}
		h.logger.Error("submit phone", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to send code")
		return
	}
	writeJSON(w, http.StatusOK, phaseResponse{Phase: h.engine.LoginPhase()})
}

type otpRequest struct {
	Code string `json:"code"`
}

// SubmitOTP handles POST /api/auth/otp
func (h *AuthHandler) SubmitOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.engine.SubmitOTP(r.Context(), req.Code); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidOTP):
			writeError(w, http.StatusBadRequest, "code must be exactly 6 digits")
		case errors.Is(err, auth.ErrWrongPhase):
			writeError(w, http.StatusConflict, "submit a phone number first")
		default:
			h.logger.Error("submit otp", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to verify code")
		}
		return
	}
	// A wrong-but-well-formed code is not an error; the phase simply
	// stays at "otp".
	writeJSON(w, http.StatusOK, phaseResponse{Phase: h.engine.LoginPhase()})
}

// Back handles POST /api/auth/back
func (h *AuthHandler) Back(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.BackToPhone(); err != nil {
		writeError(w, http.StatusConflict, "not in the code entry phase")
		return
	}
	writeJSON(w, http.StatusOK, phaseResponse{Phase: h.engine.LoginPhase()})
}

type profileRequest struct {
	Name string `json:"name"`
}

// CompleteProfile handles POST /api/auth/profile
func (h *AuthHandler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, session, err := h.engine.CompleteProfile(req.Name)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNameRequired):
			writeError(w, http.StatusBadRequest, "name is required")
		case errors.Is(err, auth.ErrWrongPhase):
			writeError(w, http.StatusConflict, "verify your phone first")
		default:
			h.logger.Error("complete profile", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to complete login")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, user)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(auth.UserID(r.Context()))
	if err != nil || user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.engine.Logout(cookie.Value); err != nil {
			h.logger.Error("logout", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
