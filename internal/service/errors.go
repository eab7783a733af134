package service

import "errors"

// Auth flow errors. Handlers map these onto HTTP statuses and OAuth
// error redirects.
var (
	// ErrInvalidCredentials covers both "no such user" and "wrong
	// password"; the two are never distinguished for callers.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidEmail is returned when a registration email fails
	// validation. The only Register error that is the client's fault
	// besides a duplicate email.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidSession is returned for a missing, expired or
	// unresolvable session token.
	ErrInvalidSession = errors.New("invalid or expired session")

	// ErrOAuthNotConfigured is returned when the Google client id or
	// secret is absent from the environment.
	ErrOAuthNotConfigured = errors.New("google oauth is not configured")

	// ErrOAuthState is returned when the callback's state parameter is
	// missing or fails verification.
	ErrOAuthState = errors.New("invalid oauth state")

	// ErrOAuthProvider is returned when the provider redirected back
	// with an error instead of an authorization code.
	ErrOAuthProvider = errors.New("oauth provider returned an error")

	// ErrTokenExchange is returned when the authorization code could
	// not be exchanged for tokens.
	ErrTokenExchange = errors.New("failed to exchange authorization code")

	// ErrProfileFetch is returned when the user-info request failed.
	ErrProfileFetch = errors.New("failed to fetch user profile")
)
