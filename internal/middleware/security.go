package middleware

import (
	"net/http"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
)

// SecurityHeaders sets CSP and the usual hardening headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scriptSrc := "script-src 'self'"
		if nonce := GetNonce(r.Context()); nonce != "" {
			scriptSrc += " 'nonce-" + nonce + "'"
		}

		// Provider avatars are hotlinked
		csp := "default-src 'self'; " +
			scriptSrc + "; " +
			"style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data: https:; " +
			"connect-src 'self'; " +
			"frame-ancestors 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"

		h := w.Header()
		h.Set("Content-Security-Policy", csp)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}
