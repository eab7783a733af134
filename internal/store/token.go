package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// newSessionToken generates a cryptographically random session token.
func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
