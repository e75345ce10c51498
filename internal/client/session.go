package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
)

type State int

const (
	// StateUnknown means the session was never checked, i.e. still loading.
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Navigator moves the user to another location, e.g. a browser redirect.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Session caches who is logged in. It only becomes unauthenticated when the
// server said so: a 401 on refresh or a confirmed logout.
type Session struct {
	client    *Client
	navigator Navigator

	mu    sync.RWMutex
	state State
	user  *model.User
}

func NewSession(client *Client, navigator Navigator) *Session {
	return &Session{
		client:    client,
		navigator: navigator,
		state:     StateUnknown,
	}
}

// Refresh asks the server for the current user. Errors other than 401 leave the state as is.
func (s *Session) Refresh(ctx context.Context) error {
	var user model.User
	err := s.client.do(ctx, http.MethodGet, "/api/auth/user", nil, &user)
	if errors.Is(err, ErrUnauthorized) {
		s.set(StateUnauthenticated, nil)
		return nil
	}
	if err != nil {
		return err
	}

	s.set(StateAuthenticated, &user)
	return nil
}

func (s *Session) set(state State, user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.user = user
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User is nil unless authenticated.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

func (s *Session) Loading() bool {
	return s.State() == StateUnknown
}

// Logout ends the server session. When the request fails nothing changes locally and
// there is no navigation; only a confirmed logout clears the user and returns to "/".
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.do(ctx, http.MethodGet, "/api/logout", nil, nil)
	if err != nil {
		slog.Error("logout failed", "error", err)
		return err
	}

	s.set(StateUnauthenticated, nil)
	if s.navigator != nil {
		s.navigator.Navigate("/")
	}
	return nil
}
