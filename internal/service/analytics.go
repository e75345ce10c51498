package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/validation"
)

type PageViewInput struct {
	Path     string  `json:"path"`
	Referrer *string `json:"referrer"`
}

type AnalyticsService struct {
	repo repository.PageViewRepository
}

func NewAnalyticsService(repo repository.PageViewRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// RecordPageView stores one page view. userID is empty for anonymous visitors.
// Oversized referrers are rejected and the user agent is truncated.
func (s *AnalyticsService) RecordPageView(userID, userAgent string, input PageViewInput) error {
	err := validation.ValidatePath(input.Path)
	if err != nil {
		return invalid(err)
	}
	if input.Referrer != nil {
		err = validation.ValidateReferrer(*input.Referrer)
		if err != nil {
			return invalid(err)
		}
	}

	view := &model.PageView{
		ID:        uuid.New().String(),
		Path:      input.Path,
		UserAgent: validation.TruncateUserAgent(userAgent),
		CreatedAt: time.Now().UTC(),
	}
	if userID != "" {
		view.UserID = &userID
	}
	if input.Referrer != nil && *input.Referrer != "" {
		referrer := *input.Referrer
		view.Referrer = &referrer
	}

	err = s.repo.Create(view)
	if err != nil {
		return fmt.Errorf("failed to record page view: %w", err)
	}

	return nil
}

// TopPaths summarizes the most viewed paths over the last days.
func (s *AnalyticsService) TopPaths(days, limit int) ([]*model.PathCount, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return s.repo.TopPaths(since, limit)
}
