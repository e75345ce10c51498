package service

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func seedUser(t *testing.T, database *sqlx.DB, email string) *model.User {
	t.Helper()
	user, err := repository.NewUserRepository(database).Upsert(&model.User{Email: email})
	require.NoError(t, err)
	return user
}

func newResolutionService(database *sqlx.DB) *ResolutionService {
	return NewResolutionService(
		repository.NewResolutionRepository(database),
		repository.NewCheckInRepository(database),
	)
}
