package utils

import (
	"strings"
	"testing"
)

const testStateSecret = "test-state-secret-that-is-at-least-32-chars"

func TestStateSignVerify(t *testing.T) {
	signer := NewStateSigner(testStateSecret)

	state, err := signer.Sign()
	if err != nil {
		t.Fatalf("Failed to sign state: %v", err)
	}
	if state == "" {
		t.Fatal("Expected non-empty state")
	}

	if err := signer.Verify(state); err != nil {
		t.Errorf("Expected state to verify, got %v", err)
	}
}

func TestStateVerifyRejectsTampered(t *testing.T) {
	signer := NewStateSigner(testStateSecret)

	state, err := signer.Sign()
	if err != nil {
		t.Fatalf("Failed to sign state: %v", err)
	}

	tampered := state + "xx"
	if err := signer.Verify(tampered); err == nil {
		t.Error("Expected tampered state to be rejected")
	}
}

func TestStateVerifyRejectsWrongSecret(t *testing.T) {
	state, err := NewStateSigner(testStateSecret).Sign()
	if err != nil {
		t.Fatalf("Failed to sign state: %v", err)
	}

	other := NewStateSigner("another-secret-that-is-also-32-chars-long")
	if err := other.Verify(state); err == nil {
		t.Error("Expected state signed with a different secret to be rejected")
	}
}

func TestStateVerifyRejectsGarbage(t *testing.T) {
	signer := NewStateSigner(testStateSecret)

	for _, state := range []string{"", "not-a-token", strings.Repeat("a", 64)} {
		if err := signer.Verify(state); err == nil {
			t.Errorf("Expected state %q to be rejected", state)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("pw123", 4)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == "pw123" {
		t.Fatal("Hash must not equal the plaintext password")
	}

	if !CheckPasswordHash("pw123", hash) {
		t.Error("Expected correct password to match")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("Expected wrong password to be rejected")
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"alice@example.com", "a.b+c@sub.example.org"}
	invalid := []string{"", "alice", "alice@", "@example.com", "alice@example"}

	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("Expected %q to be valid", email)
		}
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("Expected %q to be invalid", email)
		}
	}
}

func TestNormalizeEmailKeepsCase(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.com "); got != "Alice@Example.com" {
		t.Errorf("Expected case to be preserved, got %q", got)
	}
}
