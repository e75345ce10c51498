package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/validation"
)

// ErrInvalidInput wraps every validation failure so handlers can answer 400.
var ErrInvalidInput = errors.New("invalid input")

// ResolutionInput carries a create or a partial update. Nil fields are left unchanged
// on update; an empty TargetDate clears it.
type ResolutionInput struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Category    *model.Category `json:"category"`
	Status      *model.Status   `json:"status"`
	TargetDate  *string         `json:"targetDate"`
	Progress    *int            `json:"progress"`
}

type CheckInInput struct {
	Note string `json:"note"`
	Date string `json:"date"` // YYYY-MM-DD, defaults to today
}

// ResolutionExport is one resolution with its check-ins, as written by Export.
type ResolutionExport struct {
	*model.Resolution
	CheckIns []*model.CheckIn `json:"checkIns"`
}

type ResolutionService struct {
	repo        repository.ResolutionRepository
	checkInRepo repository.CheckInRepository
	now         func() time.Time
}

func NewResolutionService(
	repo repository.ResolutionRepository,
	checkInRepo repository.CheckInRepository,
) *ResolutionService {
	return &ResolutionService{
		repo:        repo,
		checkInRepo: checkInRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
}

func (s *ResolutionService) Create(userID string, input ResolutionInput) (*model.Resolution, error) {
	if input.Title == nil {
		return nil, invalid(errors.New("title is required"))
	}
	if input.Category == nil {
		return nil, invalid(errors.New("category is required"))
	}

	now := s.now()
	resolution := &model.Resolution{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    model.StatusNotStarted,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := applyInput(resolution, input)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(resolution)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolution: %w", err)
	}

	slog.Info("resolution created", "user_id", userID, "resolution_id", resolution.ID, "category", resolution.Category)
	return resolution, nil
}

// applyInput validates and copies every non-nil field of input onto resolution.
func applyInput(resolution *model.Resolution, input ResolutionInput) error {
	if input.Title != nil {
		err := validation.ValidateTitle(*input.Title)
		if err != nil {
			return invalid(err)
		}
		resolution.Title = strings.TrimSpace(*input.Title)
	}

	if input.Description != nil {
		err := validation.ValidateDescription(*input.Description)
		if err != nil {
			return invalid(err)
		}
		resolution.Description = strings.TrimSpace(*input.Description)
	}

	if input.Category != nil {
		err := validation.ValidateCategory(*input.Category)
		if err != nil {
			return invalid(err)
		}
		resolution.Category = *input.Category
	}

	if input.Status != nil {
		err := validation.ValidateStatus(*input.Status)
		if err != nil {
			return invalid(err)
		}
		resolution.Status = *input.Status
	}

	if input.Progress != nil {
		err := validation.ValidateProgress(*input.Progress)
		if err != nil {
			return invalid(err)
		}
		resolution.Progress = *input.Progress
	}

	if input.TargetDate != nil {
		if strings.TrimSpace(*input.TargetDate) == "" {
			resolution.TargetDate = nil
		} else {
			target, err := model.ParseDate(*input.TargetDate)
			if err != nil {
				return invalid(err)
			}
			resolution.TargetDate = &target
		}
	}

	return nil
}

func (s *ResolutionService) ByID(userID, resolutionID string) (*model.Resolution, error) {
	return s.repo.ByID(userID, resolutionID)
}

func (s *ResolutionService) Resolutions(userID string, filter repository.ResolutionFilter) ([]*model.Resolution, error) {
	if filter.Category != "" {
		err := validation.ValidateCategory(filter.Category)
		if err != nil {
			return nil, invalid(err)
		}
	}
	if filter.Status != "" {
		err := validation.ValidateStatus(filter.Status)
		if err != nil {
			return nil, invalid(err)
		}
	}

	return s.repo.Resolutions(userID, filter)
}

func (s *ResolutionService) ResolutionWithCheckIns(userID, resolutionID string) (*model.Resolution, []*model.CheckIn, error) {
	// Verify ownership
	resolution, err := s.repo.ByID(userID, resolutionID)
	if err != nil {
		return nil, nil, err
	}

	checkIns, err := s.checkInRepo.CheckIns(resolutionID)
	if err != nil {
		return nil, nil, err
	}

	return resolution, checkIns, nil
}

func (s *ResolutionService) Update(userID, resolutionID string, input ResolutionInput) (*model.Resolution, error) {
	// Verify ownership
	resolution, err := s.repo.ByID(userID, resolutionID)
	if err != nil {
		return nil, err
	}

	err = applyInput(resolution, input)
	if err != nil {
		return nil, err
	}

	err = s.repo.Update(resolution)
	if err != nil {
		return nil, err
	}

	return resolution, nil
}

// Delete removes the resolution; its check-ins go with it (ON DELETE CASCADE).
func (s *ResolutionService) Delete(userID, resolutionID string) error {
	err := s.repo.Delete(userID, resolutionID)
	if err != nil {
		return err
	}

	slog.Info("resolution deleted", "user_id", userID, "resolution_id", resolutionID)
	return nil
}

func (s *ResolutionService) Stats(userID string) (model.Stats, error) {
	resolutions, err := s.repo.Resolutions(userID, repository.ResolutionFilter{})
	if err != nil {
		return model.Stats{}, err
	}
	return model.ComputeStats(resolutions), nil
}

func (s *ResolutionService) CheckIns(userID, resolutionID string) ([]*model.CheckIn, error) {
	_, checkIns, err := s.ResolutionWithCheckIns(userID, resolutionID)
	return checkIns, err
}

func (s *ResolutionService) AddCheckIn(userID, resolutionID string, input CheckInInput) (*model.CheckIn, error) {
	// Verify ownership
	_, err := s.repo.ByID(userID, resolutionID)
	if err != nil {
		return nil, err
	}

	err = validation.ValidateNote(input.Note)
	if err != nil {
		return nil, invalid(err)
	}

	now := s.now()
	date := model.NewDate(now)
	if strings.TrimSpace(input.Date) != "" {
		date, err = model.ParseDate(input.Date)
		if err != nil {
			return nil, invalid(err)
		}
	}

	checkIn := &model.CheckIn{
		ID:           uuid.New().String(),
		ResolutionID: resolutionID,
		Note:         strings.TrimSpace(input.Note),
		Date:         date,
		CreatedAt:    now,
	}

	err = s.checkInRepo.Create(checkIn)
	if err != nil {
		return nil, fmt.Errorf("failed to create check-in: %w", err)
	}

	return checkIn, nil
}

func (s *ResolutionService) DeleteCheckIn(userID, resolutionID, checkInID string) error {
	// Verify ownership
	_, err := s.repo.ByID(userID, resolutionID)
	if err != nil {
		return err
	}

	return s.checkInRepo.Delete(resolutionID, checkInID)
}

// CheckInsThisWeek counts the user's check-ins over the last seven days.
func (s *ResolutionService) CheckInsThisWeek(userID string) (int, error) {
	return s.checkInRepo.CountSince(userID, s.now().Add(-7*24*time.Hour))
}

func (s *ResolutionService) Export(userID string) ([]*ResolutionExport, error) {
	resolutions, err := s.repo.Resolutions(userID, repository.ResolutionFilter{})
	if err != nil {
		return nil, err
	}

	export := make([]*ResolutionExport, 0, len(resolutions))
	for _, resolution := range resolutions {
		checkIns, err := s.checkInRepo.CheckIns(resolution.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load check-ins for %s: %w", resolution.ID, err)
		}
		export = append(export, &ResolutionExport{Resolution: resolution, CheckIns: checkIns})
	}

	return export, nil
}
