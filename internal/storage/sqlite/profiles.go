package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"teamboard/internal/models"
)

// ErrUsernameTaken is returned when creating a profile with a duplicate username.
var ErrUsernameTaken = errors.New("username already exists")

const profileColumns = `id, username, display_name, role, avatar_url, created_at, updated_at`

// ListProfiles returns all user profiles ordered by creation date.
func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// GetProfile fetches a single profile by id.
func (s *Store) GetProfile(ctx context.Context, id int64) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("profile %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// GetProfileByUsername fetches a profile plus its password hash for login.
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (models.Profile, string, error) {
	var p models.Profile
	var role, hash string
	err := s.db.QueryRowContext(ctx, `SELECT id, username, display_name, role, avatar_url, password_hash, created_at, updated_at
        FROM profiles WHERE username = ?`, strings.ToLower(strings.TrimSpace(username))).
		Scan(&p.ID, &p.Username, &p.DisplayName, &role, &p.AvatarURL, &hash, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, "", fmt.Errorf("profile %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("get profile: %w", err)
	}
	p.Role = models.Role(role)
	return p, hash, nil
}

// CreateProfile inserts a new user with a pre-hashed password.
func (s *Store) CreateProfile(ctx context.Context, p models.Profile, passwordHash string) (models.Profile, error) {
	username := strings.ToLower(strings.TrimSpace(p.Username))
	if username == "" {
		return models.Profile{}, fmt.Errorf("username must not be empty")
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO profiles(username, display_name, role, avatar_url, password_hash)
        VALUES(?, ?, ?, ?, ?)`, username, p.DisplayName, string(p.Role), p.AvatarURL, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return models.Profile{}, fmt.Errorf("profile %q: %w", username, ErrUsernameTaken)
		}
		return models.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Profile{}, fmt.Errorf("profile id: %w", err)
	}

	created, err := s.GetProfile(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	s.notifyChange("profiles")
	return created, nil
}

// UpdateProfileRole changes a user's role.
func (s *Store) UpdateProfileRole(ctx context.Context, id int64, role models.Role) (models.Profile, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE profiles SET role = ? WHERE id = ?`, string(role), id)
	if err != nil {
		return models.Profile{}, fmt.Errorf("update role: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Profile{}, err
	}
	if affected == 0 {
		return models.Profile{}, fmt.Errorf("profile %d: %w", id, ErrNotFound)
	}

	updated, err := s.GetProfile(ctx, id)
	if err != nil {
		return models.Profile{}, err
	}
	s.notifyChange("profiles")
	return updated, nil
}

// DeleteProfile removes a user; sessions and notifications cascade.
func (s *Store) DeleteProfile(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("profile %d: %w", id, ErrNotFound)
	}
	s.notifyChange("profiles")
	return nil
}

// CreateSession stores an opaque session token for a user.
func (s *Store) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO sessions(token, user_id, expires_at) VALUES(?, ?, ?)`,
		token, userID, expiresAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession resolves a token to its profile; expired sessions are deleted
// on the way out.
func (s *Store) GetSession(ctx context.Context, token string) (models.Profile, error) {
	var userID int64
	var expiresAt time.Time
	err := s.db.QueryRowContext(ctx, `SELECT user_id, expires_at FROM sessions WHERE token = ?`, token).
		Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("session: %w", ErrNotFound)
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("get session: %w", err)
	}
	if time.Now().After(expiresAt) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
		return models.Profile{}, fmt.Errorf("session expired: %w", ErrNotFound)
	}
	return s.GetProfile(ctx, userID)
}

// DeleteSession logs a session out.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func scanProfile(row rowScanner) (models.Profile, error) {
	var p models.Profile
	var role string
	err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &role, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Profile{}, err
	}
	p.Role = models.Role(role)
	return p, nil
}
