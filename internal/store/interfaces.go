// Package store implements the user/session store behind the auth
// gateway. Two interchangeable backends exist: an in-memory map for
// single-process deployments without a database, and a Postgres-backed
// store for anything that must survive restarts or span instances.
package store

import (
	"context"

	"github.com/rhythmicsouls/auth-gateway/internal/domain"
)

// Store defines user and session persistence. Both backends share the
// same semantics; the backend is selected by configuration, never by
// import choice.
type Store interface {
	// SetUser upserts a user keyed by email. On conflict the profile
	// fields and OAuth tokens are replaced; the record's ID, creation
	// time and password hash are preserved.
	SetUser(ctx context.Context, user *domain.User) error

	// CreateUser inserts a new user. Returns ErrDuplicateEmail if a
	// user with the same email already exists.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUser looks up a user by email. Returns ErrNotFound when absent.
	GetUser(ctx context.Context, email string) (*domain.User, error)

	// CreateSession mints a session for the given email. A non-empty
	// existingToken is reused as the token (re-arming an existing
	// cookie); otherwise a fresh random token is generated. The
	// returned token resolves through GetSession immediately.
	CreateSession(ctx context.Context, email, existingToken string) (string, error)

	// GetSession looks up a session by token. Expired sessions are
	// deleted on sight and reported as ErrNotFound (lazy expiry).
	// LastActivity is refreshed in place; ExpiresAt never moves.
	GetSession(ctx context.Context, token string) (*domain.Session, error)

	// ValidateSession treats an empty token as "no session" and
	// otherwise delegates to GetSession. It returns the session, not
	// the user; callers compose with GetUser explicitly.
	ValidateSession(ctx context.Context, token string) (*domain.Session, error)

	// DeleteSession removes a session. Deleting an absent token is a
	// no-op.
	DeleteSession(ctx context.Context, token string) error

	// DeleteExpiredSessions removes every session past its expiry and
	// reports how many were deleted. Expiry is otherwise lazy; this is
	// the explicit sweep.
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
