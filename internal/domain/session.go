package domain

import "time"

// Session represents one logged-in browser context. The token is an
// opaque random string carried in the "session" cookie.
//
// ExpiresAt is fixed at creation time and never extended; LastActivity
// is bookkeeping only and does not influence expiry.
type Session struct {
	Token        string    `json:"-" db:"token"`
	Email        string    `json:"email" db:"email"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	LastActivity time.Time `json:"lastActivity" db:"last_activity"`
	ExpiresAt    time.Time `json:"expiresAt" db:"expires_at"`
}

// IsExpired reports whether the session is past its expiration instant.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
