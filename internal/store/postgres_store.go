package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rhythmicsouls/auth-gateway/internal/domain"
	"github.com/rhythmicsouls/auth-gateway/pkg/database"
	"go.uber.org/zap"
)

// PostgresStore is the durable Store backend, shared across processes.
type PostgresStore struct {
	db     *database.Postgres
	ttl    time.Duration
	logger *zap.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a Postgres-backed store with the given
// session TTL.
func NewPostgresStore(db *database.Postgres, ttl time.Duration, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl, logger: logger}
}

// SetUser upserts a user keyed by email. On conflict only the profile
// fields and OAuth tokens are replaced; id, created_at and
// password_hash stay as inserted.
func (s *PostgresStore) SetUser(ctx context.Context, user *domain.User) error {
	now := time.Now()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, email, first_name, last_name, phone, profile_image_url, password_hash, access_token, refresh_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			profile_image_url = EXCLUDED.profile_image_url,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.ProfileImageURL,
		user.PasswordHash,
		user.AccessToken,
		user.RefreshToken,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// CreateUser inserts a new user, refusing duplicate emails.
func (s *PostgresStore) CreateUser(ctx context.Context, user *domain.User) error {
	now := time.Now()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, email, first_name, last_name, phone, profile_image_url, password_hash, access_token, refresh_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.ProfileImageURL,
		user.PasswordHash,
		user.AccessToken,
		user.RefreshToken,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUser looks up a user by email.
func (s *PostgresStore) GetUser(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, first_name, last_name, phone, profile_image_url, password_hash, access_token, refresh_token, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user := &domain.User{}
	err := s.db.DB.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.ProfileImageURL,
		&user.PasswordHash,
		&user.AccessToken,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// CreateSession mints a session, reusing existingToken when supplied.
// Re-arming an existing token is a single durable write.
func (s *PostgresStore) CreateSession(ctx context.Context, email, existingToken string) (string, error) {
	token := existingToken
	if token == "" {
		var err error
		token, err = newSessionToken()
		if err != nil {
			return "", err
		}
	}

	now := time.Now()
	query := `
		INSERT INTO sessions (token, email, created_at, last_activity, expires_at)
		VALUES ($1, $2, $3, $3, $4)
		ON CONFLICT (token) DO UPDATE SET
			email = EXCLUDED.email,
			created_at = EXCLUDED.created_at,
			last_activity = EXCLUDED.last_activity,
			expires_at = EXCLUDED.expires_at
	`

	_, err := s.db.DB.ExecContext(ctx, query, token, email, now, now.Add(s.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// GetSession looks up a session by token. Expired sessions are deleted
// on sight; live ones get their last_activity refreshed without moving
// expires_at.
func (s *PostgresStore) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	query := `
		SELECT token, email, created_at, last_activity, expires_at
		FROM sessions
		WHERE token = $1
	`

	session := &domain.Session{}
	err := s.db.DB.QueryRowContext(ctx, query, token).Scan(
		&session.Token,
		&session.Email,
		&session.CreatedAt,
		&session.LastActivity,
		&session.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	now := time.Now()
	if session.IsExpired(now) {
		if err := s.DeleteSession(ctx, token); err != nil {
			s.logger.Warn("Failed to delete expired session", zap.Error(err))
		}
		return nil, ErrNotFound
	}

	session.LastActivity = now
	if _, err := s.db.DB.ExecContext(ctx,
		`UPDATE sessions SET last_activity = $1 WHERE token = $2`, now, token,
	); err != nil {
		// Best effort; activity tracking never blocks a valid session.
		s.logger.Warn("Failed to touch session activity", zap.Error(err))
	}

	return session, nil
}

// ValidateSession treats an empty token as absent.
func (s *PostgresStore) ValidateSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return s.GetSession(ctx, token)
}

// DeleteSession removes a session; absent tokens are a no-op.
func (s *PostgresStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions sweeps every session past its expiry.
func (s *PostgresStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := s.db.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}
