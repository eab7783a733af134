package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newFakeGoogle(t *testing.T, tokenStatus int, userInfoStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if tokenStatus != http.StatusOK {
			http.Error(w, `{"error":"invalid_grant"}`, tokenStatus)
			return
		}
		assert.Equal(t, "test-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "ya29.fake",
			"refresh_token": "1//fake",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ya29.fake", r.Header.Get("Authorization"))
		if userInfoStatus != http.StatusOK {
			http.Error(w, "server error", userInfoStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":          "google-123",
			"email":       "alice@example.com",
			"given_name":  "Alice",
			"family_name": "Liddell",
			"picture":     "https://example.com/alice.png",
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newFakeProvider(t *testing.T, server *httptest.Server) *GoogleProvider {
	t.Helper()
	return NewGoogleProvider(GoogleProviderConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:   server.URL + "/auth",
			TokenURL:  server.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserInfoURL: server.URL + "/userinfo",
	})
}

func TestGoogleProviderAuthCodeURL(t *testing.T) {
	server := newFakeGoogle(t, http.StatusOK, http.StatusOK)
	provider := newFakeProvider(t, server)

	raw := provider.AuthCodeURL("https://example.com/api/auth/google", "signed-state")
	assert.True(t, strings.HasPrefix(raw, server.URL+"/auth"))

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, "signed-state", query.Get("state"))
	assert.Equal(t, "https://example.com/api/auth/google", query.Get("redirect_uri"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "offline", query.Get("access_type"))
	assert.Contains(t, query.Get("scope"), "email")
}

func TestGoogleProviderExchangeAndFetchProfile(t *testing.T) {
	server := newFakeGoogle(t, http.StatusOK, http.StatusOK)
	provider := newFakeProvider(t, server)
	ctx := context.Background()

	token, err := provider.Exchange(ctx, "https://example.com/api/auth/google", "test-code")
	require.NoError(t, err)
	assert.Equal(t, "ya29.fake", token.AccessToken)
	assert.Equal(t, "1//fake", token.RefreshToken)

	profile, err := provider.FetchProfile(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.Equal(t, "Alice", profile.GivenName)
	assert.Equal(t, "Liddell", profile.FamilyName)
	assert.Equal(t, "https://example.com/alice.png", profile.Picture)
}

func TestGoogleProviderExchangeFailure(t *testing.T) {
	server := newFakeGoogle(t, http.StatusBadRequest, http.StatusOK)
	provider := newFakeProvider(t, server)

	_, err := provider.Exchange(context.Background(), "https://example.com/api/auth/google", "test-code")
	assert.Error(t, err)
}

func TestGoogleProviderUserInfoFailure(t *testing.T) {
	server := newFakeGoogle(t, http.StatusOK, http.StatusInternalServerError)
	provider := newFakeProvider(t, server)
	ctx := context.Background()

	token, err := provider.Exchange(ctx, "https://example.com/api/auth/google", "test-code")
	require.NoError(t, err)

	_, err = provider.FetchProfile(ctx, token)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
