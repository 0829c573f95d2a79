package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != DefaultAddr {
		t.Errorf("addr = %q, want default", cfg.Addr)
	}
	if cfg.Notifications.RetentionDays != DefaultRetentionDays {
		t.Errorf("retention = %d, want %d", cfg.Notifications.RetentionDays, DefaultRetentionDays)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teamboard.toml")
	body := `
addr = ":9090"
db_path = "/tmp/x.db"
session_ttl = "1h"

[notifications]
retention_days = 7
reminder_window = "48h"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TEAMBOARD_ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("addr = %q, want env override :7070", cfg.Addr)
	}
	if cfg.DBPath != "/tmp/x.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if cfg.SessionTTLDuration() != time.Hour {
		t.Errorf("session ttl = %v, want 1h", cfg.SessionTTLDuration())
	}
	if cfg.Notifications.RetentionDays != 7 {
		t.Errorf("retention = %d, want 7", cfg.Notifications.RetentionDays)
	}
	if cfg.ReminderWindowDuration() != 48*time.Hour {
		t.Errorf("reminder window = %v, want 48h", cfg.ReminderWindowDuration())
	}
}

func TestLoadRejectsBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("addr = [broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
