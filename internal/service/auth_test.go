package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/db/dbtest"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-characters-long"

func newAuthService(t *testing.T, expiry time.Duration, providers ...*OAuthProvider) (*AuthService, repository.UserRepository) {
	t.Helper()
	users := repository.NewUserRepository(dbtest.New(t))
	return NewAuthService(users, NewUserService(users, nil, time.Minute), testSecret, expiry, false, providers...), users
}

func TestJWTRoundTrip(t *testing.T) {
	auth, _ := newAuthService(t, time.Hour)
	user := &model.User{ID: "user-1", Role: model.RoleAdmin}

	token, expiry, err := auth.GenerateJWT(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	userID, err := auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyJWTRejects(t *testing.T) {
	auth, _ := newAuthService(t, time.Hour)
	token, _, err := auth.GenerateJWT(&model.User{ID: "user-1", Role: model.RoleUser})
	require.NoError(t, err)

	expired, _ := newAuthService(t, -time.Hour)
	stale, _, err := expired.GenerateJWT(&model.User{ID: "user-1", Role: model.RoleUser})
	require.NoError(t, err)

	otherSecret := NewAuthService(nil, nil, "another-secret-at-least-32-characters", time.Hour, false)
	forged, _, err := otherSecret.GenerateJWT(&model.User{ID: "user-1", Role: model.RoleAdmin})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, candidate := range map[string]string{
		"garbage":      "not-a-token",
		"tampered":     token[:len(token)-2] + "xx",
		"expired":      stale,
		"wrong secret": forged,
		"alg none":     none,
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.VerifyJWT(candidate)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestAuthenticateOAuth(t *testing.T) {
	auth, users := newAuthService(t, time.Hour)

	user, err := auth.AuthenticateOAuth(&Identity{Email: "  Ada@Example.COM ", FirstName: " Ada ", LastName: "Lovelace"}, ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, ProviderGoogle, user.Provider)

	again, err := auth.AuthenticateOAuth(&Identity{Email: "ada@example.com", FirstName: "Augusta"}, ProviderGitHub)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "Augusta", again.FirstName)

	count, err := users.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = auth.AuthenticateOAuth(&Identity{Email: "nope"}, ProviderGoogle)
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestAuthenticateOAuthRequiresFullDomain(t *testing.T) {
	auth, users := newAuthService(t, time.Hour)

	for _, email := range []string{"ada@localhost", "Ada Lovelace <ada@example.com>", "ada@example."} {
		_, err := auth.AuthenticateOAuth(&Identity{Email: email}, ProviderGitHub)
		assert.ErrorIs(t, err, ErrInvalidEmail, email)
	}

	count, err := users.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestProvidersAndAuthCodeURL(t *testing.T) {
	auth, _ := newAuthService(t, time.Hour,
		GoogleProvider("gid", "gsecret", "http://localhost:8080/"),
		GitHubProvider("hid", "hsecret", "http://localhost:8080"),
	)

	assert.Equal(t, []string{ProviderGoogle, ProviderGitHub}, auth.Providers())

	u, err := auth.AuthCodeURL(ProviderGitHub, "state-123")
	require.NoError(t, err)
	assert.Contains(t, u, "client_id=hid")
	assert.Contains(t, u, "state=state-123")
	assert.Contains(t, u, "redirect_uri=http%3A%2F%2Flocalhost%3A8080%2Fapi%2Fcallback%2Fgithub")

	_, err = auth.AuthCodeURL("gitlab", "state")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = auth.Exchange(context.Background(), "gitlab", "code")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNoProviders(t *testing.T) {
	auth, _ := newAuthService(t, time.Hour)
	assert.Empty(t, auth.Providers())
	assert.NotNil(t, auth.Providers())
}

func TestCookies(t *testing.T) {
	auth := NewAuthService(nil, nil, testSecret, time.Hour, true)
	w := httptest.NewRecorder()

	auth.SetJWTCookie(w, "tok", time.Now().Add(time.Hour))
	auth.SetStateCookie(w, "st")
	auth.ClearStateCookie(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 3)

	assert.Equal(t, AuthCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	assert.Equal(t, StateCookieName, cookies[1].Name)
	assert.Equal(t, 600, cookies[1].MaxAge)
	assert.Equal(t, -1, cookies[2].MaxAge)
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	require.NoError(t, err)
	b, err := GenerateState()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
	assert.False(t, strings.ContainsAny(a, "+/="))
}

func TestSplitName(t *testing.T) {
	first, last := splitName("  Grace Brewster Hopper ")
	assert.Equal(t, "Grace", first)
	assert.Equal(t, "Brewster Hopper", last)

	first, last = splitName("")
	assert.Empty(t, first)
	assert.Empty(t, last)
}

func TestFetchGitHubIdentityFallsBackToEmails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"login":"grace","name":"","email":"","avatar_url":"https://avatars.example.com/g"}`))
	})
	mux.HandleFunc("GET /user/emails", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"email":"old@example.com","primary":false,"verified":true},{"email":"grace@example.com","primary":true,"verified":true}]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := &http.Client{Transport: rewriteTransport{target: server.URL}}
	identity, err := fetchGitHubIdentity(context.Background(), client)
	require.NoError(t, err)

	assert.Equal(t, "grace@example.com", identity.Email)
	assert.Equal(t, "grace", identity.FirstName)
	assert.Equal(t, "https://avatars.example.com/g", identity.ImageURL)
}

// rewriteTransport sends every request to target, keeping the path.
type rewriteTransport struct {
	target string
}

func (t rewriteTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	req, err := http.NewRequestWithContext(r.Context(), r.Method, t.target+r.URL.Path, r.Body)
	if err != nil {
		return nil, err
	}
	req.Header = r.Header
	return http.DefaultTransport.RoundTrip(req)
}
