package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// ProvidersFromConfig returns the providers whose credentials are configured.
func ProvidersFromConfig(cfg *config.Config) []*OAuthProvider {
	var providers []*OAuthProvider

	if cfg.GoogleEnabled() {
		providers = append(providers, GoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.AppURL))
	}
	if cfg.GitHubEnabled() {
		providers = append(providers, GitHubProvider(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.AppURL))
	}

	if len(providers) == 0 {
		slog.Warn("no oauth providers configured, login is unavailable")
	}

	return providers
}

func callbackURL(appURL, provider string) string {
	return strings.TrimSuffix(appURL, "/") + "/api/callback/" + provider
}

func GoogleProvider(clientID, clientSecret, appURL string) *OAuthProvider {
	return &OAuthProvider{
		ID: ProviderGoogle,
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL(appURL, ProviderGoogle),
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		FetchIdentity: fetchGoogleIdentity,
	}
}

func GitHubProvider(clientID, clientSecret, appURL string) *OAuthProvider {
	return &OAuthProvider{
		ID: ProviderGitHub,
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL(appURL, ProviderGitHub),
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		FetchIdentity: fetchGitHubIdentity,
	}
}

func getJSON(ctx context.Context, client *http.Client, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

func fetchGoogleIdentity(ctx context.Context, client *http.Client) (*Identity, error) {
	var userInfo struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	err := getJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &userInfo)
	if err != nil {
		return nil, err
	}

	return &Identity{
		Email:     userInfo.Email,
		FirstName: userInfo.GivenName,
		LastName:  userInfo.FamilyName,
		ImageURL:  userInfo.Picture,
	}, nil
}

func fetchGitHubIdentity(ctx context.Context, client *http.Client) (*Identity, error) {
	var userInfo struct {
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	err := getJSON(ctx, client, "https://api.github.com/user", &userInfo)
	if err != nil {
		return nil, err
	}

	// GitHub omits private emails from /user
	if userInfo.Email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		err = getJSON(ctx, client, "https://api.github.com/user/emails", &emails)
		if err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				userInfo.Email = e.Email
				break
			}
		}
	}

	if userInfo.Email == "" {
		return nil, fmt.Errorf("github account %s has no verified primary email", userInfo.Login)
	}

	first, last := splitName(userInfo.Name)
	if first == "" {
		first = userInfo.Login
	}

	return &Identity{
		Email:     userInfo.Email,
		FirstName: first,
		LastName:  last,
		ImageURL:  userInfo.AvatarURL,
	}, nil
}

func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	first, last, _ := strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}
