package router

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ioshacker22/2FA-authentication/internal/pkg/ratelimit"
)

// RateLimit throttles a route per client IP. Apply it to endpoints that
// accept credentials so guessing attempts hit the limiter, not bcrypt.
func RateLimit(limiter ratelimit.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := matchedRoutePath(r) + ":" + r.RemoteAddr

			err := limiter.Allow(r.Context(), key)
			if errors.Is(err, ratelimit.ErrLimited) {
				writeJSON(w, errorResponse{Message: "Too many requests, slow down"}, http.StatusTooManyRequests)
				return
			}
			if err != nil {
				// A broken limiter must not take authentication down.
				slog.WarnContext(r.Context(), "rate limiter unavailable", "error", err)
			}

			next.ServeHTTP(w, r)
		})
	}
}
