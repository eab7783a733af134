package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// stateTTL bounds how long an OAuth authorization round-trip may take.
const stateTTL = 10 * time.Minute

// StateSigner signs and verifies the OAuth "state" parameter. The state
// is a short-lived HS256 token, so the callback can check that the flow
// originated here without any server-side bookkeeping.
type StateSigner struct {
	secret []byte
}

// NewStateSigner creates a StateSigner with the given HMAC secret.
func NewStateSigner(secret string) *StateSigner {
	return &StateSigner{secret: []byte(secret)}
}

// Sign produces a fresh state token.
func (s *StateSigner) Sign() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":     uuid.New().String(),
		"purpose": "oauth_state",
		"iat":     now.Unix(),
		"exp":     now.Add(stateTTL).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return signed, nil
}

// Verify checks a state token's signature and expiry.
func (s *StateSigner) Verify(state string) error {
	token, err := jwt.Parse(state, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid state: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != "oauth_state" {
		return fmt.Errorf("invalid state: wrong purpose")
	}

	return nil
}
