package handler

import (
	"net/http"
	"strings"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/service"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ui"
)

type HomeHandler struct {
	authService *service.AuthService
}

func NewHomeHandler(authService *service.AuthService) *HomeHandler {
	return &HomeHandler{authService: authService}
}

func (h *HomeHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, ui.LoginPage(h.authService.Providers()))
}

// NotFound answers JSON for unknown API paths and a page otherwise.
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFoundPage())
}
