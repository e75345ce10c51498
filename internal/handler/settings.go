package handler

import (
	"net/http"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/middleware"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ui"
)

type SettingsHandler struct {
	secureCookies bool
}

func NewSettingsHandler(secureCookies bool) *SettingsHandler {
	return &SettingsHandler{secureCookies: secureCookies}
}

func (h *SettingsHandler) SettingsPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.SettingsPage(ctxkeys.User(r.Context()), middleware.Themes))
}

// SaveTheme stores the theme preference in a year-long cookie.
func (h *SettingsHandler) SaveTheme(w http.ResponseWriter, r *http.Request) {
	theme := r.PostFormValue("theme")
	if !middleware.ValidTheme(theme) {
		http.Error(w, "Invalid theme", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.ThemeCookieName,
		Value:    theme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}
