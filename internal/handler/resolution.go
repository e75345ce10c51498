package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/service"
)

type ResolutionHandler struct {
	resolutionService *service.ResolutionService
}

func NewResolutionHandler(resolutionService *service.ResolutionService) *ResolutionHandler {
	return &ResolutionHandler{
		resolutionService: resolutionService,
	}
}

func (h *ResolutionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	query := r.URL.Query()
	filter := repository.ResolutionFilter{
		Category: model.Category(query.Get("category")),
		Status:   model.Status(query.Get("status")),
		Sort:     query.Get("sort"),
	}

	resolutions, err := h.resolutionService.Resolutions(user.ID, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolutions)
}

func (h *ResolutionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.ResolutionInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resolution, err := h.resolutionService.Create(user.ID, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resolution)
}

func (h *ResolutionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	stats, err := h.resolutionService.Stats(user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Export downloads every resolution with its check-ins as a JSON file.
func (h *ResolutionHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	export, err := h.resolutionService.Export(user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("resolutions-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	writeJSON(w, http.StatusOK, export)

	slog.Info("resolutions exported", "user_id", user.ID, "count", len(export))
}

func (h *ResolutionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	resolution, checkIns, err := h.resolutionService.ResolutionWithCheckIns(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &service.ResolutionExport{Resolution: resolution, CheckIns: checkIns})
}

func (h *ResolutionHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.ResolutionInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resolution, err := h.resolutionService.Update(user.ID, r.PathValue("id"), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resolution)
}

func (h *ResolutionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.resolutionService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ResolutionHandler) CheckIns(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	checkIns, err := h.resolutionService.CheckIns(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, checkIns)
}

func (h *ResolutionHandler) CreateCheckIn(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.CheckInInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	checkIn, err := h.resolutionService.AddCheckIn(user.ID, r.PathValue("id"), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, checkIn)
}

func (h *ResolutionHandler) DeleteCheckIn(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.resolutionService.DeleteCheckIn(user.ID, r.PathValue("id"), r.PathValue("checkInID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
