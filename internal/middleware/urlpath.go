package middleware

import (
	"net/http"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
)

// WithURLPath lets the layout highlight the active navigation entry.
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxkeys.WithURLPath(r.Context(), r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
