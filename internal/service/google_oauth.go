package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProviderConfig configures the Google OAuth provider. Endpoint
// and UserInfoURL are overridable so tests can point the flow at an
// httptest server.
type GoogleProviderConfig struct {
	ClientID     string
	ClientSecret string

	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

// GoogleProvider implements OAuthProvider against Google's OAuth2
// endpoints. The redirect URL is supplied per call because it is
// derived from each request's Host header.
type GoogleProvider struct {
	config GoogleProviderConfig
}

var _ OAuthProvider = (*GoogleProvider)(nil)

// NewGoogleProvider creates a GoogleProvider, defaulting to Google's
// production endpoints.
func NewGoogleProvider(config GoogleProviderConfig) *GoogleProvider {
	if config.Endpoint.AuthURL == "" {
		config.Endpoint = google.Endpoint
	}
	if config.UserInfoURL == "" {
		config.UserInfoURL = defaultUserInfoURL
	}
	return &GoogleProvider{config: config}
}

func (p *GoogleProvider) oauthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.config.ClientID,
		ClientSecret: p.config.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     p.config.Endpoint,
	}
}

// AuthCodeURL builds the provider authorization URL. Offline access is
// requested so a refresh token comes back on first consent.
func (p *GoogleProvider) AuthCodeURL(redirectURL, state string) string {
	return p.oauthConfig(redirectURL).AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for tokens.
func (p *GoogleProvider) Exchange(ctx context.Context, redirectURL, code string) (*oauth2.Token, error) {
	token, err := p.oauthConfig(redirectURL).Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("empty access token in provider response")
	}
	return token, nil
}

// FetchProfile retrieves the user's profile with the bearer token.
func (p *GoogleProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user info request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse user info response: %w", err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("empty email in user info response")
	}

	return &profile, nil
}
