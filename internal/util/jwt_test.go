package util

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenManagerGenerateAndParse(t *testing.T) {
	manager := NewTokenManager("unit-test-secret")
	userID := uuid.New()

	token, expiresAt, err := manager.Generate(userID, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining := time.Until(expiresAt); remaining < AccessTokenTTL-time.Minute || remaining > AccessTokenTTL {
		t.Fatalf("expected expiry about %v out, got %v", AccessTokenTTL, remaining)
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	parsedID, err := claims.UserID()
	if err != nil || parsedID != userID {
		t.Fatalf("expected subject %v, got %v (%v)", userID, parsedID, err)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected role admin, got %q", claims.Role)
	}
}

func TestTokenManagerRejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenManager("secret-a").Generate(uuid.New(), "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewTokenManager("secret-b").Parse(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestTokenManagerMissingSecret(t *testing.T) {
	manager := NewTokenManager("")

	if _, _, err := manager.Generate(uuid.New(), "user"); !errors.Is(err, ErrSigningKeyMissing) {
		t.Fatalf("expected ErrSigningKeyMissing, got %v", err)
	}
	if _, err := manager.Parse("whatever"); !errors.Is(err, ErrSigningKeyMissing) {
		t.Fatalf("expected ErrSigningKeyMissing, got %v", err)
	}
	if _, err := manager.ParseResetTicket("whatever"); !errors.Is(err, ErrSigningKeyMissing) {
		t.Fatalf("expected ErrSigningKeyMissing, got %v", err)
	}
}

func TestResetTicket(t *testing.T) {
	manager := NewTokenManager("unit-test-secret")
	userID := uuid.New()

	ticket, expiresAt, err := manager.GenerateResetTicket(userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining := time.Until(expiresAt); remaining > ResetTicketTTL {
		t.Fatalf("ticket must not outlive %v, got %v", ResetTicketTTL, remaining)
	}

	parsedID, err := manager.ParseResetTicket(ticket)
	if err != nil || parsedID != userID {
		t.Fatalf("expected subject %v, got %v (%v)", userID, parsedID, err)
	}

	t.Run("access token is not a reset ticket", func(t *testing.T) {
		token, _, err := manager.Generate(userID, "user")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, err := manager.ParseResetTicket(token); err == nil {
			t.Fatal("expected access token to be rejected as reset ticket")
		}
	})

	t.Run("reset ticket is not an access token", func(t *testing.T) {
		if _, err := manager.Parse(ticket); err == nil {
			t.Fatal("expected reset ticket to be rejected for authentication")
		}
	})
}
