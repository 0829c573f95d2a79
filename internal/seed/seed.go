// Package seed bootstraps user accounts from a YAML file at startup, so a
// fresh database always has at least one admin.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"teamboard/internal/auth"
	"teamboard/internal/models"
	"teamboard/internal/storage/sqlite"
)

// User is one entry of the seed file.
type User struct {
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name"`
	Role        string `yaml:"role"`
	Password    string `yaml:"password"`
}

// File is the root document of the seed file.
type File struct {
	Users []User `yaml:"users"`
}

// Parse reads a seed file from disk.
func Parse(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("parse seed file: %w", err)
	}
	return f, nil
}

// Apply creates each seed user that does not exist yet. Existing usernames
// are left untouched, so running the seed on every startup is safe.
func Apply(ctx context.Context, store *sqlite.Store, f File, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	for _, u := range f.Users {
		username, err := auth.NormalizeUsername(u.Username)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
		role, err := models.ParseRole(u.Role)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", username, err)
		}
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", username, err)
		}

		display := u.DisplayName
		if display == "" {
			display = username
		}

		_, err = store.CreateProfile(ctx, models.Profile{
			Username:    username,
			DisplayName: display,
			Role:        role,
		}, hash)
		if errors.Is(err, sqlite.ErrUsernameTaken) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed user %q: %w", username, err)
		}
		logger.Info("seeded user", slog.String("username", username), slog.String("role", string(role)))
	}
	return nil
}
