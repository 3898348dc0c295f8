// Package admin guards operator endpoints (on-demand sweep, seed reload)
// behind a shared token that is separate from patient/doctor JWTs.
package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"healthbridge/pkg/requestcontext"
)

type contextKeyOperator struct{}

// Operator returns the X-Admin-Actor-ID supplied with an admin request, or "".
func Operator(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyOperator{}).(string)
	return v
}

// RequireAdminToken rejects requests whose X-Admin-Token does not match
// expectedToken. An empty expectedToken disables the routes entirely.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if expectedToken == "" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			token := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}
			if operator := r.Header.Get("X-Admin-Actor-ID"); operator != "" {
				ctx = context.WithValue(ctx, contextKeyOperator{}, operator)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
