package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/service"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ui"
)

type DashboardHandler struct {
	resolutionService *service.ResolutionService
}

func NewDashboardHandler(resolutionService *service.ResolutionService) *DashboardHandler {
	return &DashboardHandler{
		resolutionService: resolutionService,
	}
}

// DashboardPage derives the stats from the same listing it renders.
func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, http.StatusOK, ui.ResolutionForm{})
}

func (h *DashboardHandler) renderDashboard(w http.ResponseWriter, r *http.Request, status int, form ui.ResolutionForm) {
	user := ctxkeys.User(r.Context())

	resolutions, err := h.resolutionService.Resolutions(user.ID, repository.ResolutionFilter{
		Sort: r.URL.Query().Get("sort"),
	})
	if err != nil {
		slog.Error("failed to get resolutions", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	checkIns, err := h.resolutionService.CheckInsThisWeek(user.ID)
	if err != nil {
		slog.Error("failed to count check-ins", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	ui.RenderStatus(w, r, status, ui.DashboardPage(ui.DashboardProps{
		User:             user,
		Stats:            model.ComputeStats(resolutions),
		Resolutions:      resolutions,
		CheckInsThisWeek: checkIns,
		Form:             form,
	}))
}

func (h *DashboardHandler) ResolutionPage(w http.ResponseWriter, r *http.Request) {
	h.renderResolution(w, r, http.StatusOK, nil, ui.CheckInForm{})
}

// renderResolution shows the detail page. A nil edit form is filled from the stored resolution.
func (h *DashboardHandler) renderResolution(w http.ResponseWriter, r *http.Request, status int, edit *ui.ResolutionForm, checkIn ui.CheckInForm) {
	user := ctxkeys.User(r.Context())
	resolutionID := r.PathValue("id")

	resolution, checkIns, err := h.resolutionService.ResolutionWithCheckIns(user.ID, resolutionID)
	if errors.Is(err, repository.ErrResolutionNotFound) {
		ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFoundPage())
		return
	}
	if err != nil {
		slog.Error("failed to get resolution", "error", err, "user_id", user.ID, "resolution_id", resolutionID)
		http.Error(w, "Failed to load resolution", http.StatusInternalServerError)
		return
	}

	props := ui.ResolutionProps{
		Resolution: resolution,
		CheckIns:   checkIns,
		Edit:       ui.EditForm(resolution),
		CheckIn:    checkIn,
	}
	if edit != nil {
		props.Edit = *edit
	}

	ui.RenderStatus(w, r, status, ui.ResolutionPage(props))
}

func readResolutionForm(r *http.Request) ui.ResolutionForm {
	return ui.ResolutionForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Category:    r.PostFormValue("category"),
		Status:      r.PostFormValue("status"),
		Progress:    r.PostFormValue("progress"),
		TargetDate:  r.PostFormValue("targetDate"),
	}
}

// resolutionInput maps a submitted form onto a full update. Status and progress are
// only sent by the edit form, so empty values leave them unchanged.
func resolutionInput(form ui.ResolutionForm) (service.ResolutionInput, error) {
	category := model.Category(form.Category)
	input := service.ResolutionInput{
		Title:       &form.Title,
		Description: &form.Description,
		Category:    &category,
		TargetDate:  &form.TargetDate,
	}

	if form.Status != "" {
		status := model.Status(form.Status)
		input.Status = &status
	}

	if strings.TrimSpace(form.Progress) != "" {
		progress, err := strconv.Atoi(strings.TrimSpace(form.Progress))
		if err != nil {
			return input, fmt.Errorf("%w: progress must be a whole number", service.ErrInvalidInput)
		}
		input.Progress = &progress
	}

	return input, nil
}

func resolutionPath(id string) string {
	return "/resolutions/" + url.PathEscape(id)
}

// CreateResolution handles the dashboard form. A rejected submission re-renders
// the dashboard with the typed values and the reason.
func (h *DashboardHandler) CreateResolution(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	form := readResolutionForm(r)

	input, err := resolutionInput(form)
	if err == nil {
		var resolution *model.Resolution
		resolution, err = h.resolutionService.Create(user.ID, input)
		if err == nil {
			http.Redirect(w, r, resolutionPath(resolution.ID), http.StatusSeeOther)
			return
		}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		form.Error = err.Error()
		h.renderDashboard(w, r, http.StatusBadRequest, form)
		return
	}

	slog.Error("failed to create resolution", "error", err, "user_id", user.ID)
	http.Error(w, "Failed to create resolution", http.StatusInternalServerError)
}

func (h *DashboardHandler) UpdateResolution(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	resolutionID := r.PathValue("id")
	form := readResolutionForm(r)

	input, err := resolutionInput(form)
	if err == nil {
		_, err = h.resolutionService.Update(user.ID, resolutionID, input)
		if err == nil {
			http.Redirect(w, r, resolutionPath(resolutionID), http.StatusSeeOther)
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		form.Error = err.Error()
		h.renderResolution(w, r, http.StatusBadRequest, &form, ui.CheckInForm{})
	case errors.Is(err, repository.ErrResolutionNotFound):
		ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFoundPage())
	default:
		slog.Error("failed to update resolution", "error", err, "user_id", user.ID, "resolution_id", resolutionID)
		http.Error(w, "Failed to update resolution", http.StatusInternalServerError)
	}
}

func (h *DashboardHandler) DeleteResolution(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	resolutionID := r.PathValue("id")

	err := h.resolutionService.Delete(user.ID, resolutionID)
	if errors.Is(err, repository.ErrResolutionNotFound) {
		ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFoundPage())
		return
	}
	if err != nil {
		slog.Error("failed to delete resolution", "error", err, "user_id", user.ID, "resolution_id", resolutionID)
		http.Error(w, "Failed to delete resolution", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *DashboardHandler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	resolutionID := r.PathValue("id")

	form := ui.CheckInForm{
		Note: r.PostFormValue("note"),
		Date: r.PostFormValue("date"),
	}

	_, err := h.resolutionService.AddCheckIn(user.ID, resolutionID, service.CheckInInput{
		Note: form.Note,
		Date: form.Date,
	})
	switch {
	case err == nil:
		http.Redirect(w, r, resolutionPath(resolutionID), http.StatusSeeOther)
	case errors.Is(err, service.ErrInvalidInput):
		form.Error = err.Error()
		h.renderResolution(w, r, http.StatusBadRequest, nil, form)
	case errors.Is(err, repository.ErrResolutionNotFound):
		ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFoundPage())
	default:
		slog.Error("failed to add check-in", "error", err, "user_id", user.ID, "resolution_id", resolutionID)
		http.Error(w, "Failed to add check-in", http.StatusInternalServerError)
	}
}

func (h *DashboardHandler) DeleteCheckIn(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	resolutionID := r.PathValue("id")
	checkInID := r.PathValue("checkInID")

	err := h.resolutionService.DeleteCheckIn(user.ID, resolutionID, checkInID)
	if errors.Is(err, repository.ErrResolutionNotFound) || errors.Is(err, repository.ErrCheckInNotFound) {
		ui.RenderStatus(w, r, http.StatusNotFound, ui.NotFoundPage())
		return
	}
	if err != nil {
		slog.Error("failed to delete check-in", "error", err, "user_id", user.ID, "resolution_id", resolutionID, "check_in_id", checkInID)
		http.Error(w, "Failed to delete check-in", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, resolutionPath(resolutionID), http.StatusSeeOther)
}
