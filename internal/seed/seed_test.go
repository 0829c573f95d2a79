package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"teamboard/internal/models"
	"teamboard/internal/storage/sqlite"
)

const sampleSeed = `users:
  - username: Admin
    display_name: Site Admin
    role: admin
    password: change-me-please
  - username: dev
    role: developer
    password: developer-pass
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func newSeedStore(t *testing.T) *sqlite.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), 90, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestParseSeedFile(t *testing.T) {
	f, err := Parse(writeSeedFile(t, sampleSeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(f.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(f.Users))
	}
	if f.Users[0].Username != "Admin" || f.Users[0].Role != "admin" {
		t.Fatalf("unexpected first user: %+v", f.Users[0])
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	store := newSeedStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f, err := Parse(writeSeedFile(t, sampleSeed))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := Apply(ctx, store, f, logger); err != nil {
			t.Fatalf("apply #%d: %v", i+1, err)
		}
	}

	profiles, err := store.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles after double apply, got %d", len(profiles))
	}

	admin, _, err := store.GetProfileByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("lookup admin: %v", err)
	}
	if admin.Role != models.RoleAdmin || admin.DisplayName != "Site Admin" {
		t.Fatalf("unexpected admin profile: %+v", admin)
	}
}

func TestApplyRejectsUnknownRole(t *testing.T) {
	store := newSeedStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := File{Users: []User{{Username: "ghost", Role: "superuser", Password: "password-123"}}}

	if err := Apply(context.Background(), store, f, logger); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
