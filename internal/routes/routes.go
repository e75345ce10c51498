package routes

import (
	"net/http"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/app"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/handler"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.AuthService)
	auth := handler.NewAuthHandler(app.AuthService, app.UserService)
	dashboard := handler.NewDashboardHandler(app.ResolutionService)
	settings := handler.NewSettingsHandler(app.Cfg.IsProduction())
	resolution := handler.NewResolutionHandler(app.ResolutionService)
	analytics := handler.NewAnalyticsHandler(app.AnalyticsService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health.Health)

	// ============================================================================
	// PAGES
	// ============================================================================

	mux.HandleFunc("GET /{$}", middleware.RequireAuth(dashboard.DashboardPage))
	mux.HandleFunc("POST /resolutions", middleware.RequireAuth(dashboard.CreateResolution))
	mux.HandleFunc("GET /resolutions/{id}", middleware.RequireAuth(dashboard.ResolutionPage))
	mux.HandleFunc("POST /resolutions/{id}", middleware.RequireAuth(dashboard.UpdateResolution))
	mux.HandleFunc("POST /resolutions/{id}/delete", middleware.RequireAuth(dashboard.DeleteResolution))
	mux.HandleFunc("POST /resolutions/{id}/check-ins", middleware.RequireAuth(dashboard.CreateCheckIn))
	mux.HandleFunc("POST /resolutions/{id}/check-ins/{checkInID}/delete", middleware.RequireAuth(dashboard.DeleteCheckIn))
	mux.HandleFunc("GET /login", middleware.RequireGuest(home.LoginPage))
	mux.HandleFunc("GET /settings", middleware.RequireAuth(settings.SettingsPage))
	mux.HandleFunc("POST /settings", middleware.RequireAuth(settings.SaveTheme))

	// ============================================================================
	// AUTH API
	// ============================================================================

	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("GET /api/auth/user", auth.User)
	mux.HandleFunc("GET /api/auth/providers", auth.Providers)
	mux.HandleFunc("GET /api/login", rateLimiter(auth.Login))
	mux.HandleFunc("GET /api/callback/{provider}", rateLimiter(auth.Callback))
	mux.HandleFunc("GET /api/logout", auth.Logout)
	mux.HandleFunc("GET /api/user/me", middleware.RequireAuth(auth.Me))

	// ============================================================================
	// RESOLUTIONS API
	// ============================================================================

	mux.HandleFunc("GET /api/resolutions", middleware.RequireAuth(resolution.List))
	mux.HandleFunc("POST /api/resolutions", middleware.RequireAuth(resolution.Create))
	mux.HandleFunc("GET /api/resolutions/stats", middleware.RequireAuth(resolution.Stats))
	mux.HandleFunc("GET /api/resolutions/export", middleware.RequireAuth(resolution.Export))
	mux.HandleFunc("GET /api/resolutions/{id}", middleware.RequireAuth(resolution.Get))
	mux.HandleFunc("PATCH /api/resolutions/{id}", middleware.RequireAuth(resolution.Update))
	mux.HandleFunc("DELETE /api/resolutions/{id}", middleware.RequireAuth(resolution.Delete))
	mux.HandleFunc("GET /api/resolutions/{id}/check-ins", middleware.RequireAuth(resolution.CheckIns))
	mux.HandleFunc("POST /api/resolutions/{id}/check-ins", middleware.RequireAuth(resolution.CreateCheckIn))
	mux.HandleFunc("DELETE /api/resolutions/{id}/check-ins/{checkInID}", middleware.RequireAuth(resolution.DeleteCheckIn))

	// ============================================================================
	// ANALYTICS API
	// ============================================================================

	mux.HandleFunc("POST /api/analytics/pageview", analytics.PageView)
	mux.HandleFunc("GET /api/admin/analytics/pageviews", middleware.RequireAdmin(analytics.TopPaths))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (SecurityHeaders and CSRF read it)
		middleware.NonceMiddleware, // Must run before SecurityHeaders
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection,
		middleware.AuthMiddleware(app.AuthService, app.UserService),
		middleware.Theme,
		middleware.WithURLPath,
	)

	return handler
}
