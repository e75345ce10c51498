package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/app"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/cache"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/config"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/db/dbtest"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/middleware"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/repository"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/routes"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// csrfToken has the length of a generated token so the middleware keeps it.
var csrfToken = strings.Repeat("c", 43)

type testServer struct {
	t       *testing.T
	app     *app.App
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		AppName:            "Resolutions",
		AppEnv:             "test",
		AppURL:             "http://localhost:5000",
		JWTSecret:          "test-secret-at-least-32-characters-long",
		JWTExpiry:          time.Hour,
		UserCacheTTL:       time.Minute,
		GoogleClientID:     "google-id",
		GoogleClientSecret: "google-secret",
	}
	a := app.NewWithDB(cfg, dbtest.New(t), cache.Noop{})
	return &testServer{t: t, app: a, handler: routes.SetupRoutes(a)}
}

func (s *testServer) user(email string, role model.Role) *model.User {
	s.t.Helper()
	user, err := repository.NewUserRepository(s.app.DB).Upsert(&model.User{Email: email, FirstName: "Test", Role: role})
	require.NoError(s.t, err)
	return user
}

type request struct {
	method string
	path   string
	body   any
	form   url.Values
	user   *model.User
	noCSRF bool
}

func (s *testServer) do(req request) *httptest.ResponseRecorder {
	s.t.Helper()

	var body io.Reader
	switch b := req.body.(type) {
	case nil:
	case string:
		body = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		body = bytes.NewReader(data)
	}

	contentType := "application/json"
	if req.form != nil {
		form := url.Values{}
		for k, v := range req.form {
			form[k] = v
		}
		if !req.noCSRF {
			form.Set("csrf_token", csrfToken)
		}
		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	r := httptest.NewRequest(req.method, req.path, body)
	if body != nil {
		r.Header.Set("Content-Type", contentType)
	}
	if !req.noCSRF {
		r.AddCookie(&http.Cookie{Name: "csrf_token", Value: csrfToken})
		if req.form == nil {
			r.Header.Set(middleware.CSRFHeader, csrfToken)
		}
	}
	if req.user != nil {
		token, _, err := s.app.AuthService.GenerateJWT(req.user)
		require.NoError(s.t, err)
		r.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: token})
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(request{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, w))
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.user("root@example.com", model.RoleAdmin)

	w := s.do(request{method: http.MethodGet, path: "/api/auth/user"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(request{method: http.MethodGet, path: "/api/auth/user", user: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, admin.ID, decode[model.User](t, w).ID)

	w = s.do(request{method: http.MethodGet, path: "/api/user/me", user: admin})
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[service.Me](t, w)
	assert.True(t, me.IsAdmin)
	assert.Equal(t, model.RoleAdmin, me.Role)

	w = s.do(request{method: http.MethodGet, path: "/api/auth/providers"})
	assert.Equal(t, map[string][]string{"providers": {"google"}}, decode[map[string][]string](t, w))

	w = s.do(request{method: http.MethodGet, path: "/api/logout", user: admin})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, strings.Join(w.Header().Values("Set-Cookie"), "\n"), service.AuthCookieName+"=;")
	assert.Equal(t, map[string]bool{"ok": true}, decode[map[string]bool](t, w))
}

func TestLoginRedirect(t *testing.T) {
	s := newTestServer(t)

	w := s.do(request{method: http.MethodGet, path: "/api/login?provider=google"})
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", location.Host)
	assert.Equal(t, "google-id", location.Query().Get("client_id"))
	assert.Equal(t, "http://localhost:5000/api/callback/google", location.Query().Get("redirect_uri"))

	state := location.Query().Get("state")
	require.NotEmpty(t, state)
	assert.Contains(t, strings.Join(w.Header().Values("Set-Cookie"), "\n"), service.StateCookieName+"="+state)

	w = s.do(request{method: http.MethodGet, path: "/api/login?provider=github"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallbackRejectsBadState(t *testing.T) {
	s := newTestServer(t)

	w := s.do(request{method: http.MethodGet, path: "/api/callback/google?state=abc&code=xyz"})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?error=state", w.Header().Get("Location"))

	r := httptest.NewRequest(http.MethodGet, "/api/callback/google?state=abc&error=access_denied", nil)
	r.AddCookie(&http.Cookie{Name: service.StateCookieName, Value: "abc"})
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?error=declined", rec.Header().Get("Location"))
}

func TestResolutionLifecycle(t *testing.T) {
	s := newTestServer(t)
	user := s.user("ada@example.com", model.RoleUser)

	w := s.do(request{method: http.MethodPost, path: "/api/resolutions", user: user, body: map[string]any{
		"title":      "Run a marathon",
		"category":   "Health & Fitness",
		"targetDate": "2026-10-01",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.Resolution](t, w)
	assert.Equal(t, model.StatusNotStarted, created.Status)

	w = s.do(request{method: http.MethodPatch, path: "/api/resolutions/" + created.ID, user: user, body: map[string]any{
		"status":   "in_progress",
		"progress": 25,
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 25, decode[model.Resolution](t, w).Progress)

	w = s.do(request{method: http.MethodPost, path: "/api/resolutions/" + created.ID + "/check-ins", user: user, body: map[string]any{
		"note": "First long run",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	checkIn := decode[model.CheckIn](t, w)

	w = s.do(request{method: http.MethodGet, path: "/api/resolutions/" + created.ID, user: user})
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[service.ResolutionExport](t, w)
	assert.Equal(t, "Run a marathon", detail.Title)
	require.Len(t, detail.CheckIns, 1)

	w = s.do(request{method: http.MethodGet, path: "/api/resolutions/" + created.ID + "/check-ins", user: user})
	assert.Len(t, decode[[]model.CheckIn](t, w), 1)

	w = s.do(request{method: http.MethodGet, path: "/api/resolutions?status=in_progress", user: user})
	assert.Len(t, decode[[]model.Resolution](t, w), 1)
	w = s.do(request{method: http.MethodGet, path: "/api/resolutions?status=completed", user: user})
	assert.Empty(t, decode[[]model.Resolution](t, w))

	w = s.do(request{method: http.MethodGet, path: "/api/resolutions/stats", user: user})
	assert.Equal(t, model.Stats{Total: 1, InProgress: 1}, decode[model.Stats](t, w))

	w = s.do(request{method: http.MethodGet, path: "/api/resolutions/export", user: user})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Len(t, decode[[]service.ResolutionExport](t, w), 1)

	w = s.do(request{method: http.MethodDelete, path: "/api/resolutions/" + created.ID + "/check-ins/" + checkIn.ID, user: user})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(request{method: http.MethodDelete, path: "/api/resolutions/" + created.ID, user: user})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(request{method: http.MethodGet, path: "/api/resolutions/" + created.ID, user: user})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTargetDateRoundTrip(t *testing.T) {
	s := newTestServer(t)
	user := s.user("ada@example.com", model.RoleUser)

	w := s.do(request{method: http.MethodPost, path: "/api/resolutions", user: user, body: map[string]any{
		"title": "Read 12 books", "category": "Learning", "targetDate": "2026-10-01",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[model.Resolution](t, w).ID

	w = s.do(request{method: http.MethodGet, path: "/api/resolutions", user: user})
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[[]map[string]any](t, w)
	require.Len(t, listed, 1)
	assert.Equal(t, "2026-10-01", listed[0]["targetDate"])

	w = s.do(request{method: http.MethodPatch, path: "/api/resolutions/" + id, user: user, body: map[string]any{
		"targetDate": listed[0]["targetDate"],
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(request{method: http.MethodPost, path: "/api/resolutions/" + id + "/check-ins", user: user, body: map[string]any{
		"note": "Finished chapter one", "date": "2026-03-02",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "2026-03-02", decode[map[string]any](t, w)["date"])
}

func TestResolutionErrors(t *testing.T) {
	s := newTestServer(t)
	owner := s.user("owner@example.com", model.RoleUser)
	other := s.user("other@example.com", model.RoleUser)

	w := s.do(request{method: http.MethodPost, path: "/api/resolutions", user: owner, body: map[string]any{
		"title": "Mine", "category": "Other",
	}})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[model.Resolution](t, w).ID

	tests := []struct {
		name string
		req  request
		code int
	}{
		{"anonymous", request{method: http.MethodGet, path: "/api/resolutions"}, http.StatusUnauthorized},
		{"other user reads", request{method: http.MethodGet, path: "/api/resolutions/" + id, user: other}, http.StatusNotFound},
		{"other user deletes", request{method: http.MethodDelete, path: "/api/resolutions/" + id, user: other}, http.StatusNotFound},
		{"missing csrf", request{method: http.MethodDelete, path: "/api/resolutions/" + id, user: owner, noCSRF: true}, http.StatusForbidden},
		{"malformed json", request{method: http.MethodPost, path: "/api/resolutions", user: owner, body: "{"}, http.StatusBadRequest},
		{"unknown field", request{method: http.MethodPost, path: "/api/resolutions", user: owner, body: `{"title":"x","category":"Other","owner":"me"}`}, http.StatusBadRequest},
		{"bad category", request{method: http.MethodPost, path: "/api/resolutions", user: owner, body: map[string]any{"title": "x", "category": "Hobbies"}}, http.StatusBadRequest},
		{"progress out of range", request{method: http.MethodPatch, path: "/api/resolutions/" + id, user: owner, body: map[string]any{"progress": 101}}, http.StatusBadRequest},
		{"bad filter", request{method: http.MethodGet, path: "/api/resolutions?status=paused", user: owner}, http.StatusBadRequest},
		{"missing check-in", request{method: http.MethodDelete, path: "/api/resolutions/" + id + "/check-ins/nope", user: owner}, http.StatusNotFound},
		{"unknown api path", request{method: http.MethodGet, path: "/api/nope", user: owner}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.req)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}

	w = s.do(request{method: http.MethodGet, path: "/api/resolutions/" + id, user: owner})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalytics(t *testing.T) {
	s := newTestServer(t)
	user := s.user("ada@example.com", model.RoleUser)
	admin := s.user("root@example.com", model.RoleAdmin)

	w := s.do(request{method: http.MethodPost, path: "/api/analytics/pageview", noCSRF: true, body: map[string]any{"path": "/", "referrer": nil}})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(request{method: http.MethodPost, path: "/api/analytics/pageview", user: user, body: map[string]any{"path": "/settings"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(request{method: http.MethodPost, path: "/api/analytics/pageview", body: map[string]any{"path": "https://evil.example.com"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(request{method: http.MethodPost, path: "/api/analytics/pageview", noCSRF: true, body: map[string]any{
		"path":     "/",
		"referrer": "https://example.com/?q=" + strings.Repeat("a", 4096),
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(request{method: http.MethodGet, path: "/api/admin/analytics/pageviews", user: user})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(request{method: http.MethodGet, path: "/api/admin/analytics/pageviews?days=1", user: admin})
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[map[string][]model.PathCount](t, w)
	assert.ElementsMatch(t, []model.PathCount{{Path: "/", Views: 1}, {Path: "/settings", Views: 1}}, summary["paths"])
}

func TestPages(t *testing.T) {
	s := newTestServer(t)
	user := s.user("ada@example.com", model.RoleUser)

	w := s.do(request{method: http.MethodGet, path: "/"})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = s.do(request{method: http.MethodGet, path: "/login"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-provider="google"`)
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "'nonce-")

	w = s.do(request{method: http.MethodGet, path: "/login", user: user})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = s.do(request{method: http.MethodGet, path: "/", user: user})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome back, Test")
	assert.Contains(t, w.Body.String(), "data-empty-state")

	w = s.do(request{method: http.MethodGet, path: "/resolutions/missing", user: user})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")

	w = s.do(request{method: http.MethodGet, path: "/no/such/page"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestSaveTheme(t *testing.T) {
	s := newTestServer(t)
	user := s.user("ada@example.com", model.RoleUser)

	save := func(theme string) *httptest.ResponseRecorder {
		form := url.Values{"theme": {theme}, "csrf_token": {csrfToken}}
		r := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.AddCookie(&http.Cookie{Name: "csrf_token", Value: csrfToken})
		token, _, err := s.app.AuthService.GenerateJWT(user)
		require.NoError(t, err)
		r.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: token})
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, r)
		return w
	}

	w := save("dark")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/settings", w.Header().Get("Location"))
	assert.Contains(t, strings.Join(w.Header().Values("Set-Cookie"), "\n"), "theme=dark")

	w = save("neon")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	page := s.do(request{method: http.MethodGet, path: "/settings", user: user})
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `<dd data-role>User</dd>`)
}

func TestResolutionForms(t *testing.T) {
	s := newTestServer(t)
	owner := s.user("ada@example.com", model.RoleUser)
	other := s.user("eve@example.com", model.RoleUser)

	w := s.do(request{method: http.MethodPost, path: "/resolutions", user: owner, form: url.Values{
		"title":      {"Read 12 books"},
		"category":   {"Learning"},
		"targetDate": {"2026-12-31"},
	}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/resolutions/"), location)
	id := strings.TrimPrefix(location, "/resolutions/")

	w = s.do(request{method: http.MethodPost, path: "/resolutions", user: owner, form: url.Values{"title": {"No <category>"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "data-form-error")
	assert.Contains(t, w.Body.String(), "unknown category")
	assert.Contains(t, w.Body.String(), `value="No &lt;category&gt;"`)

	w = s.do(request{method: http.MethodPost, path: location, user: owner, form: url.Values{
		"title":      {"Read 15 books"},
		"category":   {"Learning"},
		"status":     {"in_progress"},
		"progress":   {"30"},
		"targetDate": {""},
	}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, location, w.Header().Get("Location"))

	w = s.do(request{method: http.MethodGet, path: "/api/resolutions/" + id, user: owner})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[service.ResolutionExport](t, w)
	assert.Equal(t, "Read 15 books", updated.Title)
	assert.Equal(t, model.StatusInProgress, updated.Status)
	assert.Equal(t, 30, updated.Progress)
	assert.Nil(t, updated.TargetDate)

	w = s.do(request{method: http.MethodPost, path: location, user: owner, form: url.Values{
		"title": {"Read 15 books"}, "category": {"Learning"}, "progress": {"lots"},
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "progress must be a whole number")

	w = s.do(request{method: http.MethodPost, path: location + "/check-ins", user: owner, form: url.Values{
		"note": {"Finished the first one"}, "date": {"2026-03-02"},
	}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, location, w.Header().Get("Location"))

	w = s.do(request{method: http.MethodPost, path: location + "/check-ins", user: owner, form: url.Values{"note": {"  "}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "note is required")

	w = s.do(request{method: http.MethodGet, path: location, user: owner})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `datetime="2026-03-02"`)
	assert.Contains(t, w.Body.String(), `value="30"`)

	w = s.do(request{method: http.MethodGet, path: "/api/resolutions/" + id + "/check-ins", user: owner})
	checkIns := decode[[]model.CheckIn](t, w)
	require.Len(t, checkIns, 1)
	deleteCheckIn := location + "/check-ins/" + checkIns[0].ID + "/delete"

	w = s.do(request{method: http.MethodPost, path: deleteCheckIn, user: owner, form: url.Values{}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	w = s.do(request{method: http.MethodPost, path: deleteCheckIn, user: owner, form: url.Values{}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(request{method: http.MethodPost, path: location + "/delete", user: owner, form: url.Values{}, noCSRF: true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(request{method: http.MethodPost, path: location + "/delete", user: other, form: url.Values{}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(request{method: http.MethodPost, path: location + "/delete", user: owner, form: url.Values{}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = s.do(request{method: http.MethodGet, path: location, user: owner})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
