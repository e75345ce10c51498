package ctxkeys

import (
	"context"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/config"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserKey      contextKey = "user"
	URLPathKey   contextKey = "url_path"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
	ThemeKey     contextKey = "theme"
)

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(UserKey).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}

// Theme is the visitor's saved theme preference, "system" when unset.
func Theme(ctx context.Context) string {
	theme, _ := ctx.Value(ThemeKey).(string)
	if theme == "" {
		return "system"
	}
	return theme
}

func WithTheme(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, ThemeKey, theme)
}
