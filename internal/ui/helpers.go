package ui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/ctxkeys"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/markdown"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultAppName = "Resolutions"

var titleCase = cases.Title(language.English)

// RoleLabel is the human form of a role, e.g. "Admin".
func RoleLabel(role model.Role) string {
	return titleCase.String(string(role))
}

func themeLabel(theme string) string {
	return titleCase.String(theme)
}

// CategoryBadge fails to render for a category without a style.
func CategoryBadge(c model.Category, class ...string) templ.Component {
	style, ok := CategoryStyle(c)
	if !ok {
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return fmt.Errorf("no style for category %q", c)
		})
	}
	return badge(style, strings.Join(class, " "))
}

// FormatPercent prints whole numbers without decimals and keeps any fraction as given.
func FormatPercent(value float64) string {
	return formatNumber(value) + "%"
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func clampPercent(value float64) float64 {
	return min(max(value, 0), 100)
}

// providerLabels are display names for known provider ids; others show the id.
var providerLabels = map[string]string{
	"google": "Google",
	"github": "GitHub",
}

func providerLabel(provider string) string {
	label, ok := providerLabels[provider]
	if !ok {
		return provider
	}
	return label
}

// ProviderLoginURL is the server endpoint that starts the OAuth redirect for a provider.
func ProviderLoginURL(provider string) string {
	return "/api/login?provider=" + url.QueryEscape(provider)
}

// NoProvidersMessage is shown instead of login actions when none are configured.
const NoProvidersMessage = "No login providers are configured. Contact the administrator."

var noteParser = markdown.NewParser()

// noteHTML renders a note as Markdown. Raw HTML in the note is dropped by the parser.
func noteHTML(note string) templ.Component {
	html, err := noteParser.ParseString(note)
	return templ.Raw(html, err)
}

func appName(ctx context.Context) string {
	if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
		return cfg.AppName
	}
	return defaultAppName
}

func pageTitle(ctx context.Context, title string) string {
	return title + " · " + appName(ctx)
}

func themeClass(theme string) string {
	if theme == "dark" {
		return "dark"
	}
	return ""
}

func navLinkClass(ctx context.Context, href string) string {
	if ctxkeys.URLPath(ctx) == href {
		return "text-sm font-medium text-foreground"
	}
	return "text-sm text-muted-foreground hover:text-foreground"
}

func resolutionURL(id string) string {
	return "/resolutions/" + url.PathEscape(id)
}

func checkInDeleteURL(resolutionID, checkInID string) string {
	return resolutionURL(resolutionID) + "/check-ins/" + url.PathEscape(checkInID) + "/delete"
}

func dateValue(d *model.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
