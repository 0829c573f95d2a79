package board

import (
	"fmt"

	"teamboard/internal/models"
)

// EventKind names the mutation that triggered a fan-out.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventUpdated   EventKind = "updated"
	EventDeleted   EventKind = "deleted"
	EventCommented EventKind = "commented"
)

// ChangeEvent describes one successful task mutation. Task holds the
// post-mutation state (pre-deletion state for deletes).
type ChangeEvent struct {
	Kind            EventKind
	Actor           Actor
	Task            models.Task
	OldStatus       models.TaskStatus
	NewStatus       models.TaskStatus
	PriorityChanged bool
	AssigneeChanged bool
}

// fanOutRoles are the roles that receive board-wide notifications. Viewers
// are excluded.
var fanOutRoles = map[models.Role]bool{
	models.RoleAdmin:          true,
	models.RoleProjectManager: true,
	models.RoleDeveloper:      true,
	models.RoleTester:         true,
}

// DecideNotifications is the pure fan-out policy: given one change event and
// the full profile list, it returns the notifications to persist. The actor
// never receives a notification for their own action. Message selection
// follows a first-match precedence: completion, status change, priority
// change, reassignment, generic update.
func DecideNotifications(event ChangeEvent, profiles []models.Profile) []models.Notification {
	if event.Kind == EventCommented {
		return commentNotifications(event)
	}

	notifType, title, message := describeEvent(event)
	taskID := event.Task.ID
	var out []models.Notification
	for _, p := range profiles {
		if p.ID == event.Actor.ID || !fanOutRoles[p.Role] {
			continue
		}
		out = append(out, models.Notification{
			RecipientID:   p.ID,
			Type:          notifType,
			Title:         title,
			Message:       message,
			RelatedTaskID: &taskID,
		})
	}

	// Assignment gets an extra personal notification on top of the general
	// fan-out, skipped when the actor assigned the task to themselves.
	if assignee := newAssignee(event); assignee != nil && *assignee != event.Actor.ID {
		out = append(out, models.Notification{
			RecipientID:   *assignee,
			Type:          models.NotifyUserAdded,
			Title:         "Task assigned to you",
			Message:       fmt.Sprintf("%s assigned %q to you", actorName(event.Actor), event.Task.Title),
			RelatedTaskID: &taskID,
		})
	}

	return out
}

func describeEvent(event ChangeEvent) (models.NotificationType, string, string) {
	actor := actorName(event.Actor)
	title := event.Task.Title

	switch event.Kind {
	case EventCreated:
		return models.NotifyTaskUpdated, "New task",
			fmt.Sprintf("%s created task %q", actor, title)
	case EventDeleted:
		return models.NotifyTaskUpdated, "Task deleted",
			fmt.Sprintf("%s deleted task %q", actor, title)
	}

	switch {
	case event.OldStatus != event.NewStatus && event.NewStatus == models.StatusDone:
		return models.NotifyTaskCompleted, "Task completed",
			fmt.Sprintf("%q was marked as done by %s", title, actor)
	case event.OldStatus != event.NewStatus:
		return models.NotifyTaskUpdated, "Task status changed",
			fmt.Sprintf("%q moved from %s to %s by %s", title, event.OldStatus, event.NewStatus, actor)
	case event.PriorityChanged:
		return models.NotifyTaskUpdated, "Task priority changed",
			fmt.Sprintf("%q priority set to %s by %s", title, event.Task.Priority, actor)
	case event.AssigneeChanged:
		return models.NotifyTaskUpdated, "Task reassigned",
			fmt.Sprintf("%q was reassigned by %s", title, actor)
	default:
		return models.NotifyTaskUpdated, "Task updated",
			fmt.Sprintf("%q was updated by %s", title, actor)
	}
}

// commentNotifications targets only the people attached to the task: its
// assignee and its creator, minus the commenting actor.
func commentNotifications(event ChangeEvent) []models.Notification {
	taskID := event.Task.ID
	message := fmt.Sprintf("%s commented on %q", actorName(event.Actor), event.Task.Title)

	seen := map[int64]bool{event.Actor.ID: true}
	var out []models.Notification
	for _, ref := range []*int64{event.Task.AssigneeID, event.Task.CreatedBy} {
		if ref == nil || seen[*ref] {
			continue
		}
		seen[*ref] = true
		out = append(out, models.Notification{
			RecipientID:   *ref,
			Type:          models.NotifyComment,
			Title:         "New comment",
			Message:       message,
			RelatedTaskID: &taskID,
		})
	}
	return out
}

// newAssignee reports the assignee deserving a personal notification: the
// assignee on creation, or the new assignee after a reassignment.
func newAssignee(event ChangeEvent) *int64 {
	switch {
	case event.Kind == EventCreated && event.Task.AssigneeID != nil:
		return event.Task.AssigneeID
	case event.Kind == EventUpdated && event.AssigneeChanged && event.Task.AssigneeID != nil:
		return event.Task.AssigneeID
	}
	return nil
}

func actorName(actor Actor) string {
	if actor.DisplayName != "" {
		return actor.DisplayName
	}
	return fmt.Sprintf("user %d", actor.ID)
}
