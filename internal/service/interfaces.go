package service

import (
	"context"

	"github.com/rhythmicsouls/auth-gateway/internal/domain"
	"github.com/rhythmicsouls/auth-gateway/internal/dto"
	"golang.org/x/oauth2"
)

// AuthService defines the credential and OAuth gateway operations.
// Every successful authentication yields a user plus a freshly minted
// session token.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, string, error)
	GoogleLoginURL(host, forwardedProto string) (string, error)
	HandleGoogleCallback(ctx context.Context, host, forwardedProto, code, state, existingToken string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// OAuthProvider abstracts the OAuth2 provider so the callback flow can
// be exercised against a test server.
type OAuthProvider interface {
	// AuthCodeURL builds the provider authorization URL for the given
	// callback URL and signed state.
	AuthCodeURL(redirectURL, state string) string
	// Exchange trades an authorization code for tokens. The redirect
	// URL must match the one used in AuthCodeURL.
	Exchange(ctx context.Context, redirectURL, code string) (*oauth2.Token, error)
	// FetchProfile retrieves the authenticated user's profile with the
	// bearer access token.
	FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error)
}

// Profile is the subset of the provider's user-info response the
// gateway cares about.
type Profile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}
