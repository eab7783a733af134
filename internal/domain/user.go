package domain

import "time"

// User represents an authenticated principal. Email is the natural key;
// exactly one user record exists per email at any time.
//
// PasswordHash is set only for accounts created through registration.
// AccessToken/RefreshToken are set only by the Google login flow. None
// of the three ever leave the server.
type User struct {
	ID              string    `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	FirstName       string    `json:"firstName" db:"first_name"`
	LastName        string    `json:"lastName" db:"last_name"`
	Phone           string    `json:"phone" db:"phone"`
	ProfileImageURL string    `json:"profileImageUrl" db:"profile_image_url"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	AccessToken     string    `json:"-" db:"access_token"`
	RefreshToken    string    `json:"-" db:"refresh_token"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}
