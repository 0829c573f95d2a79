package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAddr          = ":8080"
	DefaultDBPath        = "data/teamboard.db"
	DefaultStaticDir     = "web/dist"
	DefaultSessionTTL    = 30 * 24 * time.Hour
	DefaultRetentionDays = 90

	DefaultReminderInterval = time.Hour
	DefaultReminderWindow   = 24 * time.Hour

	addrEnvKey      = "TEAMBOARD_ADDR"
	dbPathEnvKey    = "TEAMBOARD_DB_PATH"
	staticEnvKey    = "TEAMBOARD_STATIC_DIR"
	retentionEnvKey = "TEAMBOARD_RETENTION_DAYS"
)

// NotificationConfig controls retention and deadline reminders.
type NotificationConfig struct {
	// RetentionDays bounds how long notification rows are kept; 0 keeps
	// them forever.
	RetentionDays    int      `toml:"retention_days"`
	ReminderInterval duration `toml:"reminder_interval"`
	ReminderWindow   duration `toml:"reminder_window"`
}

// Config defines runtime configuration for teamboard.
type Config struct {
	Addr          string             `toml:"addr"`
	DBPath        string             `toml:"db_path"`
	StaticDir     string             `toml:"static_dir"`
	SessionTTL    duration           `toml:"session_ttl"`
	SeedFile      string             `toml:"seed_file"`
	Notifications NotificationConfig `toml:"notifications"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		Addr:       DefaultAddr,
		DBPath:     DefaultDBPath,
		StaticDir:  DefaultStaticDir,
		SessionTTL: duration(DefaultSessionTTL),
		Notifications: NotificationConfig{
			RetentionDays:    DefaultRetentionDays,
			ReminderInterval: duration(DefaultReminderInterval),
			ReminderWindow:   duration(DefaultReminderWindow),
		},
	}
}

// Load builds the effective configuration: defaults, then the TOML file if
// present, then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(addrEnvKey); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(dbPathEnvKey); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(staticEnvKey); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv(retentionEnvKey); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days >= 0 {
			cfg.Notifications.RetentionDays = days
		}
	}
}

// SessionTTLDuration returns the session lifetime as a time.Duration.
func (c Config) SessionTTLDuration() time.Duration { return time.Duration(c.SessionTTL) }

// ReminderIntervalDuration returns how often the deadline sweep runs.
func (c Config) ReminderIntervalDuration() time.Duration {
	return time.Duration(c.Notifications.ReminderInterval)
}

// ReminderWindowDuration returns how close a due date must be to remind.
func (c Config) ReminderWindowDuration() time.Duration {
	return time.Duration(c.Notifications.ReminderWindow)
}

// duration adds TOML text parsing ("30m", "24h") to time.Duration.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(parsed)
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
