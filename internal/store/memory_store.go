package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rhythmicsouls/auth-gateway/internal/domain"
)

// MemoryStore is the process-local Store backend: two maps behind one
// mutex. State is volatile and invisible to other processes, so this
// backend is only suitable when a single instance runs without a
// database.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	sessions map[string]*domain.Session
	ttl      time.Duration

	now func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store with the given
// session TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*domain.User),
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetUser upserts a user keyed by email.
func (m *MemoryStore) SetUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stored := *user
	stored.UpdatedAt = now
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	// Conflict keeps identity, creation time and the password hash.
	if existing, ok := m.users[user.Email]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
		stored.PasswordHash = existing.PasswordHash
	}

	m.users[user.Email] = &stored
	user.ID = stored.ID
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

// CreateUser inserts a new user, refusing duplicate emails.
func (m *MemoryStore) CreateUser(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Email]; ok {
		return ErrDuplicateEmail
	}

	now := m.now()
	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	m.users[user.Email] = &stored
	user.ID = stored.ID
	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

// GetUser looks up a user by email.
func (m *MemoryStore) GetUser(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// CreateSession mints a session, reusing existingToken when supplied.
func (m *MemoryStore) CreateSession(ctx context.Context, email, existingToken string) (string, error) {
	token := existingToken
	if token == "" {
		var err error
		token, err = newSessionToken()
		if err != nil {
			return "", err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sessions[token] = &domain.Session{
		Token:        token,
		Email:        email,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(m.ttl),
	}
	return token, nil
}

// GetSession looks up a session by token with lazy expiry.
func (m *MemoryStore) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}

	now := m.now()
	if session.IsExpired(now) {
		delete(m.sessions, token)
		return nil, ErrNotFound
	}

	session.LastActivity = now
	copied := *session
	return &copied, nil
}

// ValidateSession treats an empty token as absent.
func (m *MemoryStore) ValidateSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return m.GetSession(ctx, token)
}

// DeleteSession removes a session; absent tokens are a no-op.
func (m *MemoryStore) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}

// DeleteExpiredSessions sweeps every expired session.
func (m *MemoryStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var deleted int64
	for token, session := range m.sessions {
		if session.IsExpired(now) {
			delete(m.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}
