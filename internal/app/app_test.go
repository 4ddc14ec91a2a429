package app

import (
	"context"
	"path/filepath"
	"testing"

	"cravecare/internal/config"
	"cravecare/internal/metrics"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DatabasePath: filepath.Join(dir, "test.db"),
		DataDir:      filepath.Join(dir, "local"),
		JWTSecret:    "test-secret",
	}
	a, err := NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestSessionIdentity(t *testing.T) {
	a := newTestApp(t)

	g, err := a.GuestSession("tg-42")
	if err != nil {
		t.Fatalf("GuestSession failed: %v", err)
	}
	if g.identity != "tg-42" {
		t.Errorf("Expected guest identity tg-42, got %q", g.identity)
	}

	u := a.UserSession("user-1")
	if u.identity != "user-1" {
		t.Errorf("Expected user identity user-1, got %q", u.identity)
	}
}

func TestRecordMetricCarriesIdentity(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	a.recordMetric(ctx, "user-1", metrics.KindRecipe, "gemini-2.5-flash", 2, 1200, true)

	var userID string
	err := a.db.SQL.QueryRowContext(ctx,
		`SELECT user_id FROM generation_metrics`).Scan(&userID)
	if err != nil {
		t.Fatalf("Failed to read metric row: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("Expected user_id user-1, got %q", userID)
	}
}
