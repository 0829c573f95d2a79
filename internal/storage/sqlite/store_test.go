package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"teamboard/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), 90, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedProfile(t *testing.T, store *Store, username string, role models.Role) models.Profile {
	t.Helper()
	p, err := store.CreateProfile(context.Background(), models.Profile{
		Username:    username,
		DisplayName: username,
		Role:        role,
	}, "hash")
	if err != nil {
		t.Fatalf("seed profile %s: %v", username, err)
	}
	return p
}

func TestTaskRoundTripWithLabels(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	dev := seedProfile(t, store, "dev", models.RoleDeveloper)

	created, err := store.CreateTask(ctx, models.Task{
		Title:      "  Fix login  ",
		Status:     models.StatusTodo,
		Priority:   models.PriorityHigh,
		AssigneeID: &dev.ID,
		Labels:     []string{"Bug", "bug", "auth"},
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if created.Title != "Fix login" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if len(created.Labels) != 2 || created.Labels[0] != "auth" || created.Labels[1] != "bug" {
		t.Fatalf("expected normalized labels [auth bug], got %v", created.Labels)
	}
	if created.AssigneeID == nil || *created.AssigneeID != dev.ID {
		t.Fatalf("expected assignee %d, got %v", dev.ID, created.AssigneeID)
	}

	got, err := store.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != created.Title || len(got.Labels) != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestTaskPartialUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	dev := seedProfile(t, store, "dev", models.RoleDeveloper)

	task, err := store.CreateTask(ctx, models.Task{
		Title:    "Original",
		Status:   models.StatusTodo,
		Priority: models.PriorityMedium,
		Labels:   []string{"one"},
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	updated, err := store.UpdateTask(ctx, task.ID, map[string]any{
		"status":      "progress",
		"assignee_id": &dev.ID,
		"labels":      []string{"two", "three"},
	})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Status != models.StatusProgress {
		t.Fatalf("expected status progress, got %q", updated.Status)
	}
	if updated.Title != "Original" {
		t.Fatalf("untouched field changed: %q", updated.Title)
	}
	if updated.AssigneeID == nil || *updated.AssigneeID != dev.ID {
		t.Fatalf("expected assignee %d, got %v", dev.ID, updated.AssigneeID)
	}
	if len(updated.Labels) != 2 || updated.Labels[0] != "three" || updated.Labels[1] != "two" {
		t.Fatalf("expected replaced label set [three two], got %v", updated.Labels)
	}

	// Clearing the assignee via a nil pointer value.
	var nobody *int64
	cleared, err := store.UpdateTask(ctx, task.ID, map[string]any{"assignee_id": nobody})
	if err != nil {
		t.Fatalf("clear assignee: %v", err)
	}
	if cleared.AssigneeID != nil {
		t.Fatalf("expected nil assignee, got %v", cleared.AssigneeID)
	}
}

func TestTaskNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetTask(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteTask(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
	if _, err := store.UpdateTask(ctx, 9999, map[string]any{"title": "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestCommentsBumpCounter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	dev := seedProfile(t, store, "dev", models.RoleDeveloper)

	task, err := store.CreateTask(ctx, models.Task{Title: "With comments", Status: models.StatusTodo, Priority: models.PriorityLow})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := store.AddComment(ctx, models.Comment{TaskID: task.ID, AuthorID: dev.ID, Body: "note"}); err != nil {
			t.Fatalf("add comment: %v", err)
		}
	}

	got, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.CommentsCount != 2 {
		t.Fatalf("expected comments_count 2, got %d", got.CommentsCount)
	}

	comments, err := store.ListComments(ctx, task.ID)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
}

func TestDuplicateUsernameRejected(t *testing.T) {
	store := newTestStore(t)
	seedProfile(t, store, "alice", models.RoleAdmin)

	_, err := store.CreateProfile(context.Background(), models.Profile{
		Username: "alice",
		Role:     models.RoleViewer,
	}, "hash")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedProfile(t, store, "alice", models.RoleAdmin)

	if err := store.CreateSession(ctx, "tok-valid", alice.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("create session: %v", err)
	}
	got, err := store.GetSession(ctx, "tok-valid")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.ID != alice.ID || got.Role != models.RoleAdmin {
		t.Fatalf("unexpected session profile: %+v", got)
	}

	if err := store.DeleteSession(ctx, "tok-valid"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := store.GetSession(ctx, "tok-valid"); err == nil {
		t.Fatal("expected error for deleted session")
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedProfile(t, store, "alice", models.RoleAdmin)

	if err := store.CreateSession(ctx, "tok-old", alice.ID, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := store.GetSession(ctx, "tok-old"); err == nil {
		t.Fatal("expected expired session to be rejected")
	}
}

func TestSessionReflectsRoleChange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	casper := seedProfile(t, store, "casper", models.RoleViewer)

	if err := store.CreateSession(ctx, "tok", casper.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := store.UpdateProfileRole(ctx, casper.ID, models.RoleDeveloper); err != nil {
		t.Fatalf("update role: %v", err)
	}

	got, err := store.GetSession(ctx, "tok")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Role != models.RoleDeveloper {
		t.Fatalf("expected session to carry the stored role, got %q", got.Role)
	}
}

func TestNotificationReadAndOwnership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedProfile(t, store, "alice", models.RoleAdmin)
	bob := seedProfile(t, store, "bob", models.RoleDeveloper)

	err := store.CreateNotification(ctx, models.Notification{
		ID:          "n1",
		RecipientID: alice.ID,
		Type:        models.NotifyTaskUpdated,
		Title:       "Task updated",
		Message:     "something changed",
	})
	if err != nil {
		t.Fatalf("create notification: %v", err)
	}

	if err := store.MarkNotificationRead(ctx, "n1", bob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign recipient, got %v", err)
	}
	if err := store.MarkNotificationRead(ctx, "n1", alice.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	notes, err := store.ListNotificationsForUser(ctx, alice.ID, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 1 || !notes[0].Read {
		t.Fatalf("expected one read notification, got %+v", notes)
	}
}

func TestNotificationRetentionPrunesOldRows(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), 1, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	alice := seedProfile(t, store, "alice", models.RoleAdmin)

	if err := store.CreateNotification(ctx, models.Notification{ID: "old", RecipientID: alice.ID, Type: models.NotifyTaskUpdated, Title: "t", Message: "m"}); err != nil {
		t.Fatalf("create old notification: %v", err)
	}
	// Age the row beyond the retention window.
	if _, err := store.db.ExecContext(ctx, `UPDATE notifications SET created_at = ? WHERE id = 'old'`, time.Now().AddDate(0, 0, -3)); err != nil {
		t.Fatalf("age notification: %v", err)
	}

	// The next insert triggers pruning.
	if err := store.CreateNotification(ctx, models.Notification{ID: "new", RecipientID: alice.ID, Type: models.NotifyTaskUpdated, Title: "t", Message: "m"}); err != nil {
		t.Fatalf("create new notification: %v", err)
	}

	notes, err := store.ListNotificationsForUser(ctx, alice.ID, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != "new" {
		t.Fatalf("expected only the fresh notification, got %+v", notes)
	}
}

func TestHasRecentNotification(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	alice := seedProfile(t, store, "alice", models.RoleAdmin)

	taskID := int64(7)
	err := store.CreateNotification(ctx, models.Notification{
		RecipientID:   alice.ID,
		Type:          models.NotifyDeadline,
		Title:         "Deadline approaching",
		Message:       "due soon",
		RelatedTaskID: &taskID,
	})
	if err != nil {
		t.Fatalf("create notification: %v", err)
	}

	recent, err := store.HasRecentNotification(ctx, alice.ID, models.NotifyDeadline, taskID, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("has recent: %v", err)
	}
	if !recent {
		t.Fatal("expected a recent deadline notification")
	}

	other, err := store.HasRecentNotification(ctx, alice.ID, models.NotifyDeadline, taskID+1, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("has recent other: %v", err)
	}
	if other {
		t.Fatal("expected no notification for a different task")
	}
}

func TestProjectMembersReplaced(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := seedProfile(t, store, "owner", models.RoleProjectManager)
	dev := seedProfile(t, store, "dev", models.RoleDeveloper)
	tester := seedProfile(t, store, "tester", models.RoleTester)

	project, err := store.CreateProject(ctx, models.Project{
		Name:        "Relaunch",
		Status:      models.ProjectPlanning,
		Priority:    models.ProjectPriorityMedium,
		OwnerID:     owner.ID,
		TeamMembers: []int64{dev.ID},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if len(project.TeamMembers) != 1 || project.TeamMembers[0] != dev.ID {
		t.Fatalf("expected members [%d], got %v", dev.ID, project.TeamMembers)
	}

	updated, err := store.UpdateProject(ctx, project.ID, map[string]any{
		"team_members": []int64{tester.ID},
		"status":       "active",
	})
	if err != nil {
		t.Fatalf("update project: %v", err)
	}
	if len(updated.TeamMembers) != 1 || updated.TeamMembers[0] != tester.ID {
		t.Fatalf("expected members [%d], got %v", tester.ID, updated.TeamMembers)
	}
	if updated.Status != models.ProjectActive {
		t.Fatalf("expected status active, got %q", updated.Status)
	}
}

func TestSubscribeReceivesChangeEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var events []string
	store.Subscribe(func(resource string) { events = append(events, resource) })

	if _, err := store.CreateTask(ctx, models.Task{Title: "Watched", Status: models.StatusTodo, Priority: models.PriorityLow}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	if len(events) == 0 || events[len(events)-1] != "tasks" {
		t.Fatalf("expected a tasks change event, got %v", events)
	}
}

func TestDeletedProfileClearsAssignment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	dev := seedProfile(t, store, "dev", models.RoleDeveloper)

	task, err := store.CreateTask(ctx, models.Task{
		Title:      "Orphaned",
		Status:     models.StatusTodo,
		Priority:   models.PriorityLow,
		AssigneeID: &dev.ID,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := store.DeleteProfile(ctx, dev.ID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}

	got, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.AssigneeID != nil {
		t.Fatalf("expected assignment cleared after profile deletion, got %v", got.AssigneeID)
	}
}
