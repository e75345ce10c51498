package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/config"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/db/dbtest"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["error"]
}

func withUser(r *http.Request, user *model.User) *http.Request {
	return r.WithContext(ctxkeys.WithUser(r.Context(), user))
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(okHandler)

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/api/resolutions", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errorBody(t, w))

	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/settings", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	handler(w, withUser(httptest.NewRequest(http.MethodGet, "/api/resolutions", nil), &model.User{ID: "u"}))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(okHandler)

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	handler(w, withUser(httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil), &model.User{Role: model.RoleUser}))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", errorBody(t, w))

	w = httptest.NewRecorder()
	handler(w, withUser(httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil), &model.User{Role: model.RoleAdmin}))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireGuest(t *testing.T) {
	handler := RequireGuest(okHandler)

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler(w, withUser(httptest.NewRequest(http.MethodGet, "/login", nil), &model.User{}))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestAuthMiddleware(t *testing.T) {
	database := dbtest.New(t)
	users := repository.NewUserRepository(database)
	userService := service.NewUserService(users, nil, time.Minute)
	authService := service.NewAuthService(users, userService, "test-secret-at-least-32-characters-long", time.Hour, false)

	user, err := users.Upsert(&model.User{Email: "ada@example.com"})
	require.NoError(t, err)
	token, _, err := authService.GenerateJWT(user)
	require.NoError(t, err)
	ghost, _, err := authService.GenerateJWT(&model.User{ID: "deleted"})
	require.NoError(t, err)

	var seen *model.User
	handler := AuthMiddleware(authService, userService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.User(r.Context())
	}))

	tests := []struct {
		name    string
		cookie  string
		wantID  string
		cleared bool
	}{
		{"no cookie", "", "", false},
		{"valid", token, user.ID, false},
		{"garbage", "garbage", "", true},
		{"unknown user", ghost, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			if tt.wantID == "" {
				assert.Nil(t, seen)
			} else {
				require.NotNil(t, seen)
				assert.Equal(t, tt.wantID, seen.ID)
			}
			assert.Equal(t, tt.cleared, strings.Contains(w.Header().Get("Set-Cookie"), service.AuthCookieName+"="))
		})
	}
}

func csrfRequest(method, path, cookie string) *http.Request {
	r := httptest.NewRequest(method, path, nil)
	if cookie != "" {
		r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: cookie})
	}
	return r
}

func TestCSRFProtection(t *testing.T) {
	var token string
	handler := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = ctxkeys.CSRFToken(r.Context())
	}))

	// a GET issues the token
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, csrfRequest(http.MethodGet, "/", ""))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, token)
	issued := token
	assert.Contains(t, w.Header().Get("Set-Cookie"), csrfCookieName+"="+issued)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, csrfRequest(http.MethodPost, "/api/resolutions", issued))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "invalid csrf token", errorBody(t, w))

	w = httptest.NewRecorder()
	r := csrfRequest(http.MethodPost, "/api/resolutions", issued)
	r.Header.Set(CSRFHeader, issued)
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r = csrfRequest(http.MethodDelete, "/api/resolutions/1", issued)
	r.Header.Set(CSRFHeader, strings.Repeat("x", len(issued)))
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	form := url.Values{"csrf_token": {issued}, "theme": {"dark"}}
	r = httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: csrfCookieName, Value: issued})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, csrfRequest(http.MethodPost, "/settings", issued))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid CSRF token")
}

func TestCSRFExemptions(t *testing.T) {
	handler := CSRFProtection(okHandler)

	for _, path := range []string{"/api/analytics/pageview", "/api/callback/google"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, csrfRequest(http.MethodPost, path, ""))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(NewRateLimiter(2, time.Minute))(okHandler)

	request := func(ip string) int {
		r := httptest.NewRequest(http.MethodGet, "/api/login", nil)
		r.RemoteAddr = ip + ":4321"
		w := httptest.NewRecorder()
		handler(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("1.1.1.1"))
	assert.Equal(t, http.StatusOK, request("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("1.1.1.1"))
	assert.Equal(t, http.StatusOK, request("2.2.2.2"))

	r := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	r.RemoteAddr = "1.1.1.1:4321"
	w := httptest.NewRecorder()
	handler(w, r)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	handler := RateLimit(NewRateLimiter(1, time.Minute))(okHandler)

	request := func(spoofed string) int {
		r := httptest.NewRequest(http.MethodGet, "/api/login", nil)
		r.RemoteAddr = "192.0.2.50:4321"
		r.Header.Set("X-Forwarded-For", spoofed)
		w := httptest.NewRecorder()
		handler(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.3"))
}

func TestRateLimiterWindowSlides(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, time.Minute, func() time.Time { return now })

	ok, _ := rl.Allow("ip")
	assert.True(t, ok)

	now = now.Add(20 * time.Second)
	ok, wait := rl.Allow("ip")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, wait)

	now = now.Add(41 * time.Second)
	ok, _ = rl.Allow("ip")
	assert.True(t, ok)

	ok, _ = rl.Allow("other")
	assert.True(t, ok)
	now = now.Add(2 * time.Minute)
	rl.sweep()
	assert.Empty(t, rl.hits)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", getClientIP(r))

	r.Header.Set("X-Real-IP", " 198.51.100.7 ")
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.7")
	assert.Equal(t, "192.0.2.1", getClientIP(r))

	r = r.WithContext(ctxkeys.WithConfig(r.Context(), &config.Config{}))
	assert.Equal(t, "192.0.2.1", getClientIP(r))
}

func TestGetClientIPBehindTrustedProxy(t *testing.T) {
	newRequest := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.2:1234"
		return r.WithContext(ctxkeys.WithConfig(r.Context(), &config.Config{TrustProxy: true}))
	}

	r := newRequest()
	assert.Equal(t, "10.0.0.2", getClientIP(r))

	r.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", getClientIP(r))

	r.Header.Set("X-Forwarded-For", "1.2.3.4, 203.0.113.9")
	assert.Equal(t, "203.0.113.9", getClientIP(r))

	r = newRequest()
	r.Header.Add("X-Forwarded-For", "1.2.3.4")
	r.Header.Add("X-Forwarded-For", "203.0.113.10")
	assert.Equal(t, "203.0.113.10", getClientIP(r))

	r = newRequest()
	r.Header.Set("X-Forwarded-For", "not-an-ip")
	assert.Equal(t, "10.0.0.2", getClientIP(r))
}

func TestSecurityHeaders(t *testing.T) {
	handler := Chain(okHandler, Config(&config.Config{AppEnv: "production"}), NonceMiddleware, SecurityHeaders)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "'nonce-")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))

	w = httptest.NewRecorder()
	Chain(okHandler, Config(&config.Config{AppEnv: "development"}), SecurityHeaders).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.NotContains(t, w.Header().Get("Content-Security-Policy"), "'nonce-")
}

func TestNonceIsPerRequest(t *testing.T) {
	var nonces []string
	handler := NonceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonces = append(nonces, GetNonce(r.Context()))
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	require.Len(t, nonces, 2)
	assert.NotEmpty(t, nonces[0])
	assert.NotEqual(t, nonces[0], nonces[1])
}

func TestTheme(t *testing.T) {
	var theme string
	handler := Theme(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme = ctxkeys.Theme(r.Context())
	}))

	for cookie, want := range map[string]string{"": "system", "dark": "dark", "neon": "system"} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != "" {
			r.AddCookie(&http.Cookie{Name: ThemeCookieName, Value: cookie})
		}
		handler.ServeHTTP(httptest.NewRecorder(), r)
		assert.Equal(t, want, theme, cookie)
	}
}

func TestConfigExposesSanitizedCopy(t *testing.T) {
	var seen *config.Config
	handler := Config(&config.Config{AppName: "Resolutions", JWTSecret: "secret"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.Config(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, seen)
	assert.Equal(t, "Resolutions", seen.AppName)
	assert.Empty(t, seen.JWTSecret)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(okHandler, mark("a"), mark("b"), mark("c")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestRequestLoggingCapturesStatus(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	rw.WriteHeader(http.StatusTeapot)
	rw.WriteHeader(http.StatusOK)
	assert.Equal(t, http.StatusTeapot, rw.statusCode)

	handler := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
