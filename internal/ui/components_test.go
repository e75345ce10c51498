package ui

import (
	"bytes"
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func TestCategoryStyleCoversEveryCategory(t *testing.T) {
	for _, c := range model.Categories {
		style, ok := CategoryStyle(c)
		require.True(t, ok, c)
		assert.Equal(t, string(c), style.Label)
		assert.NotEmpty(t, style.Class)

		out := render(t, context.Background(), CategoryBadge(c))
		assert.Contains(t, out, html.EscapeString(string(c)))
	}
}

func TestCategoryBadgeUnknownFails(t *testing.T) {
	_, ok := CategoryStyle("Hobbies")
	assert.False(t, ok)

	var buf bytes.Buffer
	err := CategoryBadge("Hobbies").Render(context.Background(), &buf)
	assert.Error(t, err)
}

func TestStatusStyleLabels(t *testing.T) {
	want := map[model.Status]string{
		model.StatusNotStarted: "Not Started",
		model.StatusInProgress: "In Progress",
		model.StatusCompleted:  "Completed",
		model.StatusAbandoned:  "Abandoned",
	}
	for status, label := range want {
		style := StatusStyle(status)
		assert.Equal(t, label, style.Label)
		assert.NotEqual(t, mutedClass, style.Class)
	}
}

func TestStatusStyleFallsBackToMuted(t *testing.T) {
	style := StatusStyle("paused")
	assert.Equal(t, "paused", style.Label)
	assert.Equal(t, mutedClass, style.Class)

	out := render(t, context.Background(), StatusBadge("paused"))
	assert.Contains(t, out, ">paused</span>")
}

func TestBadgeMergesClasses(t *testing.T) {
	out := render(t, context.Background(), StatusBadge(model.StatusCompleted, "px-4"))
	assert.Contains(t, out, "px-4")
	assert.NotContains(t, out, "px-2.5")
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0%", FormatPercent(0))
	assert.Equal(t, "100%", FormatPercent(100))
	assert.Equal(t, "33.5%", FormatPercent(33.5))
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		value float64
		width string
		label string
	}{
		{0, "width: 0%", "0%"},
		{100, "width: 100%", "100%"},
		{33.5, "width: 33.5%", "33.5%"},
		{150, "width: 100%", "150%"},
		{-5, "width: 0%", "-5%"},
	}

	for _, tt := range tests {
		out := render(t, context.Background(), ProgressBar(tt.value, true))
		assert.Contains(t, out, tt.width)
		assert.Contains(t, out, "tabular-nums text-muted-foreground\">"+tt.label+"</span>")
	}
}

func TestProgressBarHidesLabel(t *testing.T) {
	out := render(t, context.Background(), ProgressBar(42, false))
	assert.Contains(t, out, "width: 42%")
	assert.NotContains(t, out, "<span")
}

func TestStatsGrid(t *testing.T) {
	out := render(t, context.Background(), StatsGrid(model.Stats{Total: 4, Completed: 1, InProgress: 2, CompletionRate: 25}))

	for _, title := range []string{"Total Resolutions", "Completed", "In Progress", "Completion Rate"} {
		assert.Contains(t, out, "<span>"+title+"</span>")
	}
	assert.Contains(t, out, ">25%</div>")
}

func TestProviderDialogEmpty(t *testing.T) {
	out := render(t, context.Background(), ProviderDialog(nil))

	assert.Contains(t, out, "data-providers-empty")
	assert.Contains(t, out, html.EscapeString(NoProvidersMessage))
	assert.NotContains(t, out, "data-provider=")
}

func TestProviderDialogOneActionPerProvider(t *testing.T) {
	out := render(t, context.Background(), ProviderDialog([]string{"google", "github", "gitlab"}))

	assert.Equal(t, 3, strings.Count(out, "data-provider="))
	assert.Contains(t, out, `href="/api/login?provider=google"`)
	assert.Contains(t, out, "Continue with Google")
	assert.Contains(t, out, "Continue with GitHub")
	assert.Contains(t, out, "Continue with gitlab")
	assert.NotContains(t, out, "data-providers-empty")
}

func TestCheckInNote(t *testing.T) {
	out := render(t, context.Background(), CheckInNote("did **it** <script>alert(1)</script>"))

	assert.Contains(t, out, "<strong>it</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestResolutionCardEscapes(t *testing.T) {
	r := &model.Resolution{
		ID:       "r1",
		Title:    "<b>Read</b>",
		Category: model.CategoryLearning,
		Status:   model.StatusInProgress,
		Progress: 40,
	}

	out := render(t, context.Background(), ResolutionCard(r))
	assert.Contains(t, out, "&lt;b&gt;Read&lt;/b&gt;")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "width: 40%")
}

func TestLayoutNavigation(t *testing.T) {
	body := templ.Raw("<p>hi</p>")

	anonymous := render(t, templ.WithChildren(context.Background(), body), Layout("Home"))
	assert.Contains(t, anonymous, `href="/login"`)
	assert.NotContains(t, anonymous, "data-logout")
	assert.Equal(t, 1, strings.Count(anonymous, "<script"))
	assert.Contains(t, anonymous, "<p>hi</p>")

	ctx := ctxkeys.WithUser(context.Background(), &model.User{Email: "ada@example.com"})
	ctx = ctxkeys.WithCSRFToken(ctx, "tok")
	ctx = ctxkeys.WithTheme(ctx, "dark")
	ctx = templ.WithNonce(ctx, "n0nce")
	signedIn := render(t, templ.WithChildren(ctx, body), Layout("Home"))

	assert.Contains(t, signedIn, "data-logout")
	assert.Contains(t, signedIn, `<meta name="csrf-token" content="tok">`)
	assert.Contains(t, signedIn, `class="dark"`)
	assert.Contains(t, signedIn, `<script nonce="n0nce">`)
	assert.Contains(t, signedIn, "<p>hi</p>")
	assert.Equal(t, 2, strings.Count(signedIn, "<script"))
}

func TestDashboardPageCreateForm(t *testing.T) {
	ctx := ctxkeys.WithCSRFToken(context.Background(), "tok")
	props := DashboardProps{
		User:             &model.User{FirstName: "Ada", Email: "ada@example.com"},
		CheckInsThisWeek: 3,
		Form:             ResolutionForm{Title: "Run <fast>", Error: "invalid input: category is required"},
	}

	out := render(t, ctx, DashboardPage(props))

	assert.Contains(t, out, "Welcome back, Ada")
	assert.Contains(t, out, "3 check-ins in the last 7 days")
	assert.Contains(t, out, `<form method="POST" action="/resolutions"`)
	assert.Contains(t, out, `<input type="hidden" name="csrf_token" value="tok">`)
	assert.Contains(t, out, `value="Run &lt;fast&gt;"`)
	assert.Contains(t, out, "data-form-error>invalid input: category is required</p>")
	assert.Contains(t, out, "data-empty-state")
	for _, c := range model.Categories {
		assert.Contains(t, out, `<option value="`+html.EscapeString(string(c))+`"`)
	}
}

func TestResolutionPageForms(t *testing.T) {
	ctx := ctxkeys.WithCSRFToken(context.Background(), "tok")
	target := model.NewDate(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	r := &model.Resolution{
		ID:         "r1",
		Title:      "Read more",
		Category:   model.CategoryLearning,
		Status:     model.StatusInProgress,
		Progress:   40,
		TargetDate: &target,
	}
	checkIns := []*model.CheckIn{
		{ID: "c1", ResolutionID: "r1", Note: "Finished **chapter one**", Date: model.NewDate(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))},
	}

	out := render(t, ctx, ResolutionPage(ResolutionProps{Resolution: r, CheckIns: checkIns, Edit: EditForm(r)}))

	assert.Contains(t, out, `action="/resolutions/r1"`)
	assert.Contains(t, out, `action="/resolutions/r1/delete"`)
	assert.Contains(t, out, `action="/resolutions/r1/check-ins"`)
	assert.Contains(t, out, `action="/resolutions/r1/check-ins/c1/delete"`)
	assert.Equal(t, 4, strings.Count(out, `name="csrf_token" value="tok"`))
	assert.Contains(t, out, `name="targetDate" value="2026-12-31"`)
	assert.Contains(t, out, `name="progress" min="0" max="100" value="40"`)
	assert.Contains(t, out, `<option value="in_progress" selected>In Progress</option>`)
	assert.Contains(t, out, `<option value="Learning" selected>`)
	assert.Contains(t, out, `datetime="2026-03-02"`)
	assert.Contains(t, out, "<strong>chapter one</strong>")
	assert.NotContains(t, out, "data-form-error")
}

func TestResolutionPageCheckInError(t *testing.T) {
	r := &model.Resolution{ID: "r1", Title: "Read", Category: model.CategoryLearning, Status: model.StatusNotStarted}

	out := render(t, context.Background(), ResolutionPage(ResolutionProps{
		Resolution: r,
		Edit:       EditForm(r),
		CheckIn:    CheckInForm{Note: "half <done>", Date: "2026-13-01", Error: "invalid date"},
	}))

	assert.Contains(t, out, "data-form-error>invalid date</p>")
	assert.Contains(t, out, "half &lt;done&gt;</textarea>")
	assert.Contains(t, out, `name="date" value="2026-13-01"`)
	assert.Contains(t, out, "No check-ins yet")
}

func TestSettingsPage(t *testing.T) {
	ctx := ctxkeys.WithTheme(context.Background(), "light")
	user := &model.User{Email: "ada@example.com", Role: model.RoleAdmin}

	out := render(t, ctx, SettingsPage(user, []string{"light", "dark", "system"}))

	assert.Contains(t, out, "<dd data-role>Admin</dd>")
	assert.Contains(t, out, `value="light" checked`)
	assert.NotContains(t, out, `value="dark" checked`)
}

func TestRenderStatus(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()

	RenderStatus(w, r, http.StatusNotFound, NotFoundPage())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestRenderFailureAnswers500(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	Render(w, r, CategoryBadge("Hobbies"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "<span")
}
