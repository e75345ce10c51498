package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/validation"
	"golang.org/x/oauth2"
)

const (
	AuthCookieName  = "auth_token"
	StateCookieName = "oauth_state"
)

var (
	ErrUnknownProvider = errors.New("unknown or disabled oauth provider")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidSession  = errors.New("invalid session token")
)

// Identity is what a provider tells us about the person logging in.
type Identity struct {
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
}

// OAuthProvider is one login option offered on the provider dialog.
type OAuthProvider struct {
	ID     string
	Config *oauth2.Config
	// FetchIdentity reads the user's identity with an authorized client.
	FetchIdentity func(ctx context.Context, client *http.Client) (*Identity, error)
}

type AuthService struct {
	userRepository repository.UserRepository
	userService    *UserService
	providers      []*OAuthProvider
	jwtSecret      string
	jwtExpiry      time.Duration
	isProduction   bool
}

func NewAuthService(
	userRepository repository.UserRepository,
	userService *UserService,
	jwtSecret string,
	jwtExpiry time.Duration,
	isProduction bool,
	providers ...*OAuthProvider,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		userService:    userService,
		providers:      providers,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
		isProduction:   isProduction,
	}
}

// Providers returns the ids of every enabled provider in display order.
func (s *AuthService) Providers() []string {
	ids := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *AuthService) provider(id string) (*OAuthProvider, error) {
	for _, p := range s.providers {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
}

// AuthCodeURL builds the consent screen URL for a provider.
func (s *AuthService) AuthCodeURL(providerID, state string) (string, error) {
	p, err := s.provider(providerID)
	if err != nil {
		return "", err
	}
	return p.Config.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Exchange trades an authorization code for the provider identity and logs the user in.
func (s *AuthService) Exchange(ctx context.Context, providerID, code string) (*model.User, error) {
	p, err := s.provider(providerID)
	if err != nil {
		return nil, err
	}

	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	identity, err := p.FetchIdentity(ctx, p.Config.Client(ctx, token))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch identity: %w", err)
	}

	return s.AuthenticateOAuth(identity, providerID)
}

// AuthenticateOAuth creates the user on first login or refreshes its identity fields.
func (s *AuthService) AuthenticateOAuth(identity *Identity, provider string) (*model.User, error) {
	email, err := validation.NormalizeEmail(identity.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, err.Error())
	}

	user, err := s.userRepository.Upsert(&model.User{
		Email:           email,
		FirstName:       strings.TrimSpace(identity.FirstName),
		LastName:        strings.TrimSpace(identity.LastName),
		ProfileImageURL: identity.ImageURL,
		Provider:        provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	if s.userService != nil {
		s.userService.Invalidate(context.Background(), user.ID)
	}

	slog.Info("user authenticated via OAuth", "user_id", user.ID, "email", user.Email, "provider", provider)
	return user, nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(s.jwtExpiry)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     expiry.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiry, nil
}

// VerifyJWT validates the session token and returns the user id it was issued for.
func (s *AuthService) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidSession
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidSession
	}

	return userID, nil
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetStateCookie stores the OAuth state for the callback check (10 minutes).
func (s *AuthService) SetStateCookie(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
}

func (s *AuthService) ClearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   StateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// GenerateState creates a random OAuth state token for CSRF protection.
func GenerateState() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
