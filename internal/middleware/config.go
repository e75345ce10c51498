package middleware

import (
	"net/http"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/config"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
)

// Config adds the sanitized configuration to the request context.
// Secrets and the database URL are never exposed to handlers or templates.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	sanitized := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), sanitized)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
