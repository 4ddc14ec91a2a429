package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cravecare/internal/database"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(db.SQL, []byte("test-secret"))
}

func TestSignUpAndSignIn(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	userID, token, err := s.SignUp(ctx, "Priya@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if userID == "" || token == "" {
		t.Fatal("Expected user id and token from sign up")
	}

	t.Run("DuplicateEmail", func(t *testing.T) {
		// Same address with different casing is still taken.
		_, _, err := s.SignUp(ctx, "priya@example.com", "another")
		if err != ErrEmailTaken {
			t.Errorf("Expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("SignIn", func(t *testing.T) {
		gotID, gotToken, err := s.SignIn(ctx, "priya@example.com", "hunter22")
		if err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
		if gotID != userID {
			t.Errorf("Expected user id %q, got %q", userID, gotID)
		}
		if gotToken == "" {
			t.Error("Expected a session token")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, _, err := s.SignIn(ctx, "priya@example.com", "wrong")
		if err != ErrInvalidCredentials {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, _, err := s.SignIn(ctx, "nobody@example.com", "hunter22")
		if err != ErrInvalidCredentials {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestVerifyToken(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	userID, token, err := s.SignUp(ctx, "a@b.com", "secret123")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	got, err := s.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if got != userID {
		t.Errorf("Expected user id %q, got %q", userID, got)
	}

	t.Run("Garbage", func(t *testing.T) {
		if _, err := s.VerifyToken("not.a.token"); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		s.now = func() time.Time { return time.Now().Add(-2 * DefaultTokenTTL) }
		_, expired, err := s.SignUp(ctx, "old@b.com", "secret123")
		if err != nil {
			t.Fatalf("SignUp failed: %v", err)
		}
		s.now = time.Now
		if _, err := s.VerifyToken(expired); err != ErrInvalidToken {
			t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
		}
	})
}
