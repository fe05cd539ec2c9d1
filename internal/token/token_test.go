package token

import (
	"errors"
	"testing"
	"time"

	"github.com/kanishk-singh19/Wellness/internal/models"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	user := models.User{ID: "user-1", Email: "anna@example.com", Role: models.RolePractitioner}

	tok, err := m.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	identity, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.Subject != "user-1" || identity.Email != "anna@example.com" || identity.Role != models.RolePractitioner {
		t.Fatalf("identity mismatch: %+v", identity)
	}
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager([]byte("test-secret"), -time.Minute)
	tok, err := m.Issue(models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewManager([]byte("right-secret"), time.Hour)
	verifier := NewManager([]byte("wrong-secret"), time.Hour)

	tok, err := issuer.Issue(models.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	for _, raw := range []string{"", "not.a.jwt", "a.b"} {
		if _, err := m.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected ErrInvalidToken, got %v", raw, err)
		}
	}
}
