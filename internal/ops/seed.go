package ops

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/service"
)

var ErrNoSeedUser = errors.New("set SEED_USER_ID or DEV_USER_ID to choose the seeded user")

type seedResolution struct {
	title       string
	description string
	category    model.Category
	status      model.Status
	progress    int
	targetDate  string
	checkIns    []service.CheckInInput
}

var sampleResolutions = []seedResolution{
	{
		title:       "Run a half marathon",
		description: "Build up from 5k to 21k with three runs a week.",
		category:    model.CategoryHealthFitness,
		status:      model.StatusInProgress,
		progress:    40,
		targetDate:  "2026-10-01",
		checkIns: []service.CheckInInput{
			{Note: "First **10k** without walking breaks.", Date: "2026-03-14"},
			{Note: "Easy 5k, legs still sore.", Date: "2026-03-10"},
		},
	},
	{
		title:       "Read 24 books",
		description: "Two books a month, at least six non-fiction.",
		category:    model.CategoryLearning,
		status:      model.StatusInProgress,
		progress:    25,
		targetDate:  "2026-12-31",
		checkIns: []service.CheckInInput{
			{Note: "Finished book 6. Ahead of schedule.", Date: "2026-03-01"},
		},
	},
	{
		title:      "Build a six month emergency fund",
		category:   model.CategoryFinance,
		status:     model.StatusNotStarted,
		targetDate: "2026-12-31",
	},
	{
		title:       "Ship a side project",
		description: "Launch something small that strangers use.",
		category:    model.CategoryCareer,
		status:      model.StatusCompleted,
		progress:    100,
		checkIns: []service.CheckInInput{
			{Note: "Launched! - [x] landing page\n- [x] first ten users", Date: "2026-02-20"},
		},
	},
	{
		title:    "Call my parents every Sunday",
		category: model.CategoryRelationships,
		status:   model.StatusAbandoned,
		progress: 10,
	},
}

type Seeder struct {
	Users       repository.UserRepository
	Resolutions *service.ResolutionService
}

// Seed makes sure ownerID exists and gives it the sample resolutions.
// It returns the number of resolutions created. An owner that already has
// resolutions is left alone, so running it twice does not duplicate the samples.
func (s *Seeder) Seed(ownerID string) (int, error) {
	if ownerID == "" {
		return 0, ErrNoSeedUser
	}

	_, err := s.Users.ByID(ownerID)
	if errors.Is(err, repository.ErrUserNotFound) {
		_, err = s.Users.Upsert(&model.User{
			ID:        ownerID,
			Email:     "seed+" + ownerID + "@example.com",
			FirstName: "Seed",
			LastName:  "User",
			Role:      model.RoleUser,
			Provider:  "seed",
		})
		if err != nil {
			return 0, fmt.Errorf("failed to create seed user: %w", err)
		}
		slog.Info("created seed user", "user_id", ownerID)
	} else if err != nil {
		return 0, fmt.Errorf("failed to look up seed user: %w", err)
	}

	existing, err := s.Resolutions.Resolutions(ownerID, repository.ResolutionFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list existing resolutions: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("seed skipped, user already has resolutions", "user_id", ownerID, "resolutions", len(existing))
		return 0, nil
	}

	created := 0
	for _, sample := range sampleResolutions {
		input := service.ResolutionInput{
			Title:    &sample.title,
			Category: &sample.category,
			Status:   &sample.status,
			Progress: &sample.progress,
		}
		if sample.description != "" {
			input.Description = &sample.description
		}
		if sample.targetDate != "" {
			input.TargetDate = &sample.targetDate
		}

		resolution, err := s.Resolutions.Create(ownerID, input)
		if err != nil {
			return created, fmt.Errorf("failed to seed %q: %w", sample.title, err)
		}
		created++

		for _, checkIn := range sample.checkIns {
			_, err = s.Resolutions.AddCheckIn(ownerID, resolution.ID, checkIn)
			if err != nil {
				return created, fmt.Errorf("failed to seed check-in for %q: %w", sample.title, err)
			}
		}
	}

	slog.Info("seed complete", "user_id", ownerID, "resolutions", created)
	return created, nil
}
