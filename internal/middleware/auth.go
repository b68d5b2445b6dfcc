package middleware

import (
	"net/http"

	"github.com/ecomart/ecomart/internal/auth"
	"github.com/ecomart/ecomart/internal/store"
)

// SessionCookieName is the login cookie issued after profile completion.
const SessionCookieName = "ecomart_session"

// RequireSession validates the session cookie and populates AuthContext.
// The storefront is a JSON API, so failures return 401 rather than a
// redirect.
func RequireSession(sessions *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			ac := auth.AuthContext{
				UserID:    sess.UserID,
				SessionID: sess.ID,
			}
			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"login required"}`))
}
