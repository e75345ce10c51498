package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/db/dbtest"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is an in-memory cache that can be told to fail.
type mapCache struct {
	values map[string][]byte
	fail   bool
	gets   int
}

func newMapCache() *mapCache {
	return &mapCache{values: map[string][]byte{}}
}

var errCacheDown = errors.New("cache down")

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.gets++
	if c.fail {
		return false, errCacheDown
	}
	data, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if c.fail {
		return errCacheDown
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = data
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	if c.fail {
		return errCacheDown
	}
	delete(c.values, key)
	return nil
}

func TestUserServiceCachesLookups(t *testing.T) {
	database := dbtest.New(t)
	user := seedUser(t, database, "ada@example.com")
	c := newMapCache()
	svc := NewUserService(repository.NewUserRepository(database), c, time.Minute)

	got, err := svc.ByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Contains(t, c.values, "user:"+user.ID)

	// served from cache even after the row changed
	_, err = database.Exec(`UPDATE users SET email = 'changed@example.com' WHERE id = $1`, user.ID)
	require.NoError(t, err)
	got, err = svc.ByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)

	svc.Invalidate(context.Background(), user.ID)
	got, err = svc.ByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed@example.com", got.Email)
}

func TestUserServiceSurvivesCacheFailure(t *testing.T) {
	database := dbtest.New(t)
	user := seedUser(t, database, "ada@example.com")
	c := newMapCache()
	c.fail = true
	svc := NewUserService(repository.NewUserRepository(database), c, time.Minute)

	got, err := svc.ByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotPanics(t, func() { svc.Invalidate(context.Background(), user.ID) })
}

func TestUserServiceNotFound(t *testing.T) {
	svc := NewUserService(repository.NewUserRepository(dbtest.New(t)), nil, time.Minute)

	_, err := svc.ByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestMe(t *testing.T) {
	database := dbtest.New(t)
	user, err := repository.NewUserRepository(database).Upsert(&model.User{Email: "root@example.com", FirstName: "Root", Role: model.RoleAdmin})
	require.NoError(t, err)
	svc := NewUserService(repository.NewUserRepository(database), nil, time.Minute)

	me, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, &Me{ID: user.ID, Role: model.RoleAdmin, DisplayName: "Root", IsAdmin: true}, me)
}

func TestAuthenticateOAuthInvalidatesCache(t *testing.T) {
	database := dbtest.New(t)
	users := repository.NewUserRepository(database)
	c := newMapCache()
	userService := NewUserService(users, c, time.Minute)
	auth := NewAuthService(users, userService, testSecret, time.Hour, false)

	user, err := auth.AuthenticateOAuth(&Identity{Email: "ada@example.com", FirstName: "Ada"}, ProviderGoogle)
	require.NoError(t, err)
	_, err = userService.ByID(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = auth.AuthenticateOAuth(&Identity{Email: "ada@example.com", FirstName: "Augusta"}, ProviderGoogle)
	require.NoError(t, err)

	got, err := userService.ByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", got.FirstName)
}
