package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/service"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// PageView records a page view from the tracking script. Anonymous visitors are recorded too.
func (h *AnalyticsHandler) PageView(w http.ResponseWriter, r *http.Request) {
	var input service.PageViewInput
	err := decodeJSON(w, r, &input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	userID := ""
	if user := ctxkeys.User(r.Context()); user != nil {
		userID = user.ID
	}

	err = h.analyticsService.RecordPageView(userID, r.UserAgent(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TopPaths is the admin summary over ?days= (default 7) limited to ?limit= rows.
func (h *AnalyticsHandler) TopPaths(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	paths, err := h.analyticsService.TopPaths(days, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Debug("page view summary served", "days", days, "rows", len(paths))
	writeJSON(w, http.StatusOK, map[string]any{"paths": paths})
}
