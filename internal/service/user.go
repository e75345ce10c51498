package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/cache"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
)

type UserService struct {
	userRepository repository.UserRepository
	cache          cache.Cache
	cacheTTL       time.Duration
}

func NewUserService(userRepository repository.UserRepository, c cache.Cache, cacheTTL time.Duration) *UserService {
	if c == nil {
		c = cache.Noop{}
	}
	return &UserService{
		userRepository: userRepository,
		cache:          c,
		cacheTTL:       cacheTTL,
	}
}

func userCacheKey(id string) string {
	return "user:" + id
}

// ByID is called on every authenticated request, so lookups go through the cache.
// A cached user may be up to cacheTTL stale; cache failures fall back to the database.
func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	var cached model.User
	found, err := s.cache.Get(ctx, userCacheKey(id), &cached)
	if err != nil {
		slog.Warn("user cache read failed", "error", err, "user_id", id)
	}
	if found && err == nil {
		return &cached, nil
	}

	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	err = s.cache.Set(ctx, userCacheKey(id), user, s.cacheTTL)
	if err != nil {
		slog.Warn("user cache write failed", "error", err, "user_id", id)
	}

	return user, nil
}

// Invalidate drops the cached copy after the user's identity changed.
func (s *UserService) Invalidate(ctx context.Context, id string) {
	err := s.cache.Delete(ctx, userCacheKey(id))
	if err != nil {
		slog.Warn("user cache delete failed", "error", err, "user_id", id)
	}
}

func (s *UserService) Count() (int, error) {
	return s.userRepository.Count()
}

// Me is the role summary the client uses to decide what to show.
type Me struct {
	ID          string     `json:"id"`
	Role        model.Role `json:"role"`
	DisplayName string     `json:"displayName"`
	IsAdmin     bool       `json:"isAdmin"`
}

func (s *UserService) Me(ctx context.Context, id string) (*Me, error) {
	user, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Me{
		ID:          user.ID,
		Role:        user.Role,
		DisplayName: user.DisplayName(),
		IsAdmin:     user.IsAdmin(),
	}, nil
}
