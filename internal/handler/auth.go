package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// User returns the logged in user. A missing session is a plain 401, not an error.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	me, err := h.userService.Me(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, me)
}

func (h *AuthHandler) Providers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"providers": h.authService.Providers()})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	if user := ctxkeys.User(r.Context()); user != nil {
		slog.Info("user logged out", "user_id", user.ID)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Login starts the OAuth flow for ?provider= with a temporary redirect to the consent screen.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("provider")

	state, err := service.GenerateState()
	if err != nil {
		slog.Error("failed to generate oauth state", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	url, err := h.authService.AuthCodeURL(provider, state)
	if errors.Is(err, service.ErrUnknownProvider) {
		writeError(w, http.StatusBadRequest, "unknown login provider")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.authService.SetStateCookie(w, state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Callback finishes the OAuth flow and lands the user on the dashboard.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(service.StateCookieName)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("oauth state validation failed", "provider", provider, "error", err)
		http.Redirect(w, r, "/login?error=state", http.StatusSeeOther)
		return
	}
	h.authService.ClearStateCookie(w)

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		slog.Info("oauth consent declined", "provider", provider, "error", errParam)
		http.Redirect(w, r, "/login?error=declined", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login?error=code", http.StatusSeeOther)
		return
	}

	user, err := h.authService.Exchange(r.Context(), provider, code)
	if err != nil {
		slog.Error("oauth login failed", "provider", provider, "error", err)
		http.Redirect(w, r, "/login?error=oauth", http.StatusSeeOther)
		return
	}

	token, expiry, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate jwt", "error", err, "user_id", user.ID)
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	h.authService.SetJWTCookie(w, token, expiry)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
