package server

import (
	"context"
	"fmt"
	"time"

	"teamboard/internal/models"
)

// StartReminders launches a background sweep that notifies assignees of
// tasks whose due date falls within the window. It returns immediately;
// the sweep stops when ctx is cancelled.
func (s *Server) StartReminders(ctx context.Context, interval, window time.Duration) {
	if interval <= 0 || window <= 0 {
		s.logger.Warn("deadline reminders disabled", "interval", interval, "window", window)
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.sweepDeadlines(ctx, window); err != nil {
					s.logger.Error("deadline sweep failed", "error", err)
				}
			}
		}
	}()
}

// sweepDeadlines notifies assignees of unfinished tasks due within the
// window. Each task reminds its assignee at most once per day.
func (s *Server) sweepDeadlines(ctx context.Context, window time.Duration) error {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	cutoff := now.Add(window)
	for _, task := range tasks {
		if task.Status == models.StatusDone || task.AssigneeID == nil || task.DueDate == nil {
			continue
		}
		due := *task.DueDate
		if due.After(cutoff) {
			continue
		}

		assignee := *task.AssigneeID
		recent, err := s.store.HasRecentNotification(ctx, assignee, models.NotifyDeadline, task.ID, now.Add(-24*time.Hour))
		if err != nil {
			return err
		}
		if recent {
			continue
		}

		title := "Deadline approaching"
		msg := fmt.Sprintf("Task %q is due %s", task.Title, due.Format("2006-01-02"))
		if due.Before(now) {
			title = "Task overdue"
			msg = fmt.Sprintf("Task %q is overdue since %s", task.Title, due.Format("2006-01-02"))
		}
		taskID := task.ID
		err = s.store.CreateNotification(ctx, models.Notification{
			RecipientID:   assignee,
			Type:          models.NotifyDeadline,
			Title:         title,
			Message:       msg,
			RelatedTaskID: &taskID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
