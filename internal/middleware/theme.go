package middleware

import (
	"net/http"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
)

const ThemeCookieName = "theme"

// Themes lists the accepted theme preferences.
var Themes = []string{"light", "dark", "system"}

func ValidTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// Theme copies the theme cookie into the context. Unknown values are ignored.
func Theme(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(ThemeCookieName)
		if err == nil && ValidTheme(cookie.Value) {
			r = r.WithContext(ctxkeys.WithTheme(r.Context(), cookie.Value))
		}
		next.ServeHTTP(w, r)
	})
}
