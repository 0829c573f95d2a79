package server

import (
	"context"
	"testing"
	"time"

	"teamboard/internal/models"
)

func TestDeadlineSweepNotifiesAssignee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dev := env.seedUser(t, "dev", models.RoleDeveloper)

	due := time.Now().Add(6 * time.Hour)
	task, err := env.store.CreateTask(ctx, models.Task{
		Title:      "Due soon",
		Status:     models.StatusProgress,
		Priority:   models.PriorityHigh,
		AssigneeID: &dev.ID,
		DueDate:    &due,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := env.srv.sweepDeadlines(ctx, 24*time.Hour); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	notes, err := env.store.ListNotificationsForUser(ctx, dev.ID, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected one reminder, got %d", len(notes))
	}
	if notes[0].Type != models.NotifyDeadline {
		t.Fatalf("expected deadline type, got %q", notes[0].Type)
	}
	if notes[0].RelatedTaskID == nil || *notes[0].RelatedTaskID != task.ID {
		t.Fatalf("expected related task %d, got %v", task.ID, notes[0].RelatedTaskID)
	}

	// A second sweep inside the dedup window must not duplicate the reminder.
	if err := env.srv.sweepDeadlines(ctx, 24*time.Hour); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	notes, err = env.store.ListNotificationsForUser(ctx, dev.ID, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected sweep to be idempotent, got %d reminders", len(notes))
	}
}

func TestDeadlineSweepSkipsDoneAndUnassigned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	dev := env.seedUser(t, "dev", models.RoleDeveloper)

	due := time.Now().Add(2 * time.Hour)
	if _, err := env.store.CreateTask(ctx, models.Task{
		Title:      "Already shipped",
		Status:     models.StatusDone,
		Priority:   models.PriorityHigh,
		AssigneeID: &dev.ID,
		DueDate:    &due,
	}); err != nil {
		t.Fatalf("create done task: %v", err)
	}
	if _, err := env.store.CreateTask(ctx, models.Task{
		Title:    "Nobody's problem",
		Status:   models.StatusTodo,
		Priority: models.PriorityLow,
		DueDate:  &due,
	}); err != nil {
		t.Fatalf("create unassigned task: %v", err)
	}
	farOut := time.Now().Add(72 * time.Hour)
	if _, err := env.store.CreateTask(ctx, models.Task{
		Title:      "Plenty of time",
		Status:     models.StatusTodo,
		Priority:   models.PriorityLow,
		AssigneeID: &dev.ID,
		DueDate:    &farOut,
	}); err != nil {
		t.Fatalf("create distant task: %v", err)
	}

	if err := env.srv.sweepDeadlines(ctx, 24*time.Hour); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	notes, err := env.store.ListNotificationsForUser(ctx, dev.ID, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 0 {
		t.Fatalf("expected no reminders, got %+v", notes)
	}
}
