package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"teamboard/internal/models"
)

// CreateNotification persists one notification and opportunistically prunes
// rows past the retention window, so the table never grows unbounded.
func (s *Store) CreateNotification(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO notifications(id, recipient_id, type, title, message, read, related_task_id)
        VALUES(?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.RecipientID, string(n.Type), n.Title, n.Message, n.Read, n.RelatedTaskID)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	s.pruneNotifications(ctx)
	s.notifyChange("notifications")
	return nil
}

// ListNotificationsForUser returns the recipient's notifications, newest
// first, capped at limit (<=0 means the panel default of 20).
func (s *Store) ListNotificationsForUser(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, recipient_id, type, title, message, read, related_task_id, created_at
        FROM notifications WHERE recipient_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var kind string
		if err := rows.Scan(&n.ID, &n.RecipientID, &kind, &n.Title, &n.Message, &n.Read, &n.RelatedTaskID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = models.NotificationType(kind)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flips the read flag; only the recipient may do so,
// which the userID match enforces at the row level.
func (s *Store) MarkNotificationRead(ctx context.Context, id string, userID int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id = ? AND recipient_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	s.notifyChange("notifications")
	return nil
}

// HasRecentNotification reports whether the recipient already received a
// notification of the given type for the task within the window. Used by the
// deadline sweep to avoid duplicate reminders.
func (s *Store) HasRecentNotification(ctx context.Context, userID int64, kind models.NotificationType, taskID int64, since time.Time) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM notifications
        WHERE recipient_id = ? AND type = ? AND related_task_id = ? AND created_at >= ?`,
		userID, string(kind), taskID, since).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count notifications: %w", err)
	}
	return count > 0, nil
}

func (s *Store) pruneNotifications(ctx context.Context) {
	if s.retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE created_at < ?`, cutoff); err != nil {
		s.logger.Warn("notification pruning failed", "error", err.Error())
	}
}
