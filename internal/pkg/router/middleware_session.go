package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/session"
)

// SessionCookie is the cookie that carries the opaque session token.
// Clients may alternatively send it as a bearer token.
const SessionCookie = "session_token"

// TokenFromRequest extracts the opaque session token from the cookie or
// the Authorization header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	p := strings.Fields(r.Header.Get("Authorization"))
	if len(p) == 2 && strings.EqualFold(p[0], "Bearer") {
		return p[1]
	}

	return ""
}

// middlewareSession resolves the request's session token and attaches the
// session to the context. Requests to non-public endpoints without a valid
// session are rejected; stage enforcement is left to per-route middleware.
func middlewareSession(store session.Store, publicEndpoints map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := matchedRoutePath(r)

			if s, ok := publicEndpoints[r.Method]; ok {
				if _, skip := s[path]; skip {
					next.ServeHTTP(w, r)
					return
				}
			}

			token := TokenFromRequest(r)
			if token == "" {
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			sess, err := store.Get(r.Context(), token)
			if errors.Is(err, session.ErrNotFound) {
				writeJSON(w, errorResponse{Message: "Invalid or expired session"}, http.StatusUnauthorized)
				return
			}
			if err != nil {
				slog.ErrorContext(r.Context(), "session lookup failed", "error", err)
				writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
				return
			}

			ctx := session.SetAuth(r.Context(), session.Auth{Token: token, Session: sess})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireVerified rejects requests whose session has not completed the
// one-time code step.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth, ok := session.GetAuth(r.Context())
		if !ok || !auth.Session.Stage.Verified() {
			writeJSON(w, errorResponse{Message: "Two-factor verification required"}, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
