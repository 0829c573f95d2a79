// Package board implements the task lifecycle coordinator: it gates every
// task, project and comment mutation on the actor's capabilities, applies the
// board's transition rules, and fans out notifications after successful
// store mutations. It owns decisions; stores own effects.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"teamboard/internal/models"
	"teamboard/internal/perm"
)

// TestedLabel is appended to a task by the mark-as-tested transition.
const TestedLabel = "tested"

// Actor is the already-authenticated identity performing an operation.
type Actor struct {
	ID          int64
	Role        models.Role
	DisplayName string
}

// TaskDraft carries the caller-supplied fields for a new task.
type TaskDraft struct {
	Title       string
	Description string
	Status      string
	Priority    string
	AssigneeID  *int64
	DueDate     *string
	Labels      []string
}

// TaskPatch lists optional field updates; nil means "leave unchanged".
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *models.TaskPriority
	AssigneeID  **int64
	DueDate     *string
	Labels      []string
}

// TaskStore is the persistence collaborator for tasks and comments.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, changes map[string]any) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	AddComment(ctx context.Context, c models.Comment) (models.Comment, error)
}

// ProfileStore supplies user records for recipient-set computation.
type ProfileStore interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
}

// NotificationStore persists fan-out results.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n models.Notification) error
}

// ProjectStore is the persistence collaborator for projects.
type ProjectStore interface {
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	UpdateProject(ctx context.Context, id int64, changes map[string]any) (models.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// Coordinator enforces authorized state transitions on tasks and projects.
type Coordinator struct {
	tasks    TaskStore
	profiles ProfileStore
	notifs   NotificationStore
	projects ProjectStore
	logger   *slog.Logger
}

// New constructs a Coordinator over the given stores.
func New(tasks TaskStore, profiles ProfileStore, notifs NotificationStore, projects ProjectStore, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{tasks: tasks, profiles: profiles, notifs: notifs, projects: projects, logger: logger}
}

// CreateTask validates and persists a new task, then fans out notifications.
// Default status is todo, default priority medium.
func (c *Coordinator) CreateTask(ctx context.Context, actor Actor, draft TaskDraft) (models.Task, error) {
	if !perm.Resolve(actor.Role).CanCreateTasks {
		return models.Task{}, deniedf("role %s cannot create tasks", actor.Role)
	}
	if strings.TrimSpace(draft.Title) == "" {
		return models.Task{}, invalidf("title is required")
	}

	status := models.StatusTodo
	if draft.Status != "" {
		parsed, err := models.ParseTaskStatus(draft.Status)
		if err != nil {
			return models.Task{}, invalidf("%v", err)
		}
		status = parsed
	}

	priority := models.PriorityMedium
	if draft.Priority != "" {
		parsed, err := models.ParseTaskPriority(draft.Priority)
		if err != nil {
			return models.Task{}, invalidf("%v", err)
		}
		priority = parsed
	}

	creator := actor.ID
	task := models.Task{
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		Status:      status,
		Priority:    priority,
		AssigneeID:  draft.AssigneeID,
		Labels:      models.NormalizeLabels(draft.Labels),
		CreatedBy:   &creator,
	}
	if draft.DueDate != nil {
		due, err := parseDueDate(*draft.DueDate)
		if err != nil {
			return models.Task{}, err
		}
		task.DueDate = due
	}

	created, err := c.tasks.CreateTask(ctx, task)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}

	c.fanOut(ctx, ChangeEvent{Kind: EventCreated, Actor: actor, Task: created})
	return created, nil
}

// Transition moves a task to another column. Drag-initiated transitions
// require CanDragTasks, other edits CanEditTasks; with the current capability
// table the two flags coincide, but the gate keeps them distinct. Any of the
// four statuses is a legal target, including moves out of done (rework).
func (c *Coordinator) Transition(ctx context.Context, actor Actor, taskID int64, target string, drag bool) (models.Task, error) {
	caps := perm.Resolve(actor.Role)
	if drag && !caps.CanDragTasks {
		return models.Task{}, deniedf("role %s cannot drag tasks", actor.Role)
	}
	if !drag && !caps.CanEditTasks {
		return models.Task{}, deniedf("role %s cannot edit tasks", actor.Role)
	}

	status, err := models.ParseTaskStatus(target)
	if err != nil {
		return models.Task{}, invalidf("%v", err)
	}

	current, err := c.tasks.GetTask(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if current.Status == status {
		return current, nil
	}

	updated, err := c.tasks.UpdateTask(ctx, taskID, map[string]any{"status": string(status)})
	if err != nil {
		return models.Task{}, fmt.Errorf("transition task: %w", err)
	}

	c.fanOut(ctx, ChangeEvent{
		Kind:      EventUpdated,
		Actor:     actor,
		Task:      updated,
		OldStatus: current.Status,
		NewStatus: updated.Status,
	})
	return updated, nil
}

// MarkTested is the compound transition: progress -> review plus the
// "tested" label, with set semantics on the label append. Only
// CanMarkTested holders may invoke it, and only from progress.
func (c *Coordinator) MarkTested(ctx context.Context, actor Actor, taskID int64) (models.Task, error) {
	if !perm.Resolve(actor.Role).CanMarkTested {
		return models.Task{}, deniedf("role %s cannot mark tasks as tested", actor.Role)
	}

	current, err := c.tasks.GetTask(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if current.Status != models.StatusProgress {
		return models.Task{}, invalidf("task %d is %s, only in-progress tasks can be marked tested", taskID, current.Status)
	}

	labels := current.Labels
	if !current.HasLabel(TestedLabel) {
		labels = models.NormalizeLabels(append(append([]string{}, labels...), TestedLabel))
	}

	updated, err := c.tasks.UpdateTask(ctx, taskID, map[string]any{
		"status": string(models.StatusReview),
		"labels": labels,
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("mark tested: %w", err)
	}

	c.fanOut(ctx, ChangeEvent{
		Kind:      EventUpdated,
		Actor:     actor,
		Task:      updated,
		OldStatus: current.Status,
		NewStatus: updated.Status,
	})
	return updated, nil
}

// UpdateTask applies a partial edit. Changing the assignee additionally
// requires CanAssignTasks.
func (c *Coordinator) UpdateTask(ctx context.Context, actor Actor, taskID int64, patch TaskPatch) (models.Task, error) {
	caps := perm.Resolve(actor.Role)
	if !caps.CanEditTasks {
		return models.Task{}, deniedf("role %s cannot edit tasks", actor.Role)
	}
	if patch.AssigneeID != nil && !caps.CanAssignTasks {
		return models.Task{}, deniedf("role %s cannot assign tasks", actor.Role)
	}

	current, err := c.tasks.GetTask(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}

	changes := map[string]any{}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return models.Task{}, invalidf("title is required")
		}
		changes["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		changes["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		changes["priority"] = string(*patch.Priority)
	}
	if patch.AssigneeID != nil {
		changes["assignee_id"] = *patch.AssigneeID
	}
	if patch.DueDate != nil {
		due, err := parseDueDate(*patch.DueDate)
		if err != nil {
			return models.Task{}, err
		}
		changes["due_date"] = due
	}
	if patch.Labels != nil {
		changes["labels"] = models.NormalizeLabels(patch.Labels)
	}
	if len(changes) == 0 {
		return current, nil
	}

	updated, err := c.tasks.UpdateTask(ctx, taskID, changes)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}

	event := ChangeEvent{Kind: EventUpdated, Actor: actor, Task: updated, OldStatus: current.Status, NewStatus: updated.Status}
	if current.Priority != updated.Priority {
		event.PriorityChanged = true
	}
	if patch.AssigneeID != nil && !sameAssignee(current.AssigneeID, updated.AssigneeID) {
		event.AssigneeChanged = true
	}
	c.fanOut(ctx, event)
	return updated, nil
}

// DeleteTask removes a task and announces the deletion.
func (c *Coordinator) DeleteTask(ctx context.Context, actor Actor, taskID int64) error {
	if !perm.Resolve(actor.Role).CanDeleteTasks {
		return deniedf("role %s cannot delete tasks", actor.Role)
	}

	task, err := c.tasks.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if err := c.tasks.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	c.fanOut(ctx, ChangeEvent{Kind: EventDeleted, Actor: actor, Task: task})
	return nil
}

// AddComment records a comment and notifies the task's creator and assignee.
func (c *Coordinator) AddComment(ctx context.Context, actor Actor, taskID int64, body string) (models.Comment, error) {
	if !perm.Resolve(actor.Role).CanComment {
		return models.Comment{}, deniedf("role %s cannot comment", actor.Role)
	}
	if strings.TrimSpace(body) == "" {
		return models.Comment{}, invalidf("comment body is required")
	}

	task, err := c.tasks.GetTask(ctx, taskID)
	if err != nil {
		return models.Comment{}, err
	}

	comment, err := c.tasks.AddComment(ctx, models.Comment{
		TaskID:   taskID,
		AuthorID: actor.ID,
		Body:     strings.TrimSpace(body),
	})
	if err != nil {
		return models.Comment{}, fmt.Errorf("add comment: %w", err)
	}

	c.fanOut(ctx, ChangeEvent{Kind: EventCommented, Actor: actor, Task: task})
	return comment, nil
}

// CreateProject persists a new project for CanCreateProjects holders.
func (c *Coordinator) CreateProject(ctx context.Context, actor Actor, p models.Project) (models.Project, error) {
	if !perm.Resolve(actor.Role).CanCreateProjects {
		return models.Project{}, deniedf("role %s cannot create projects", actor.Role)
	}
	if strings.TrimSpace(p.Name) == "" {
		return models.Project{}, invalidf("project name is required")
	}
	if p.Status == "" {
		p.Status = models.ProjectPlanning
	}
	if p.Priority == "" {
		p.Priority = models.ProjectPriorityMedium
	}
	if p.OwnerID == 0 {
		p.OwnerID = actor.ID
	}
	p.Name = strings.TrimSpace(p.Name)

	created, err := c.projects.CreateProject(ctx, p)
	if err != nil {
		return models.Project{}, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

// UpdateProject applies a partial edit to a project.
func (c *Coordinator) UpdateProject(ctx context.Context, actor Actor, id int64, changes map[string]any) (models.Project, error) {
	if !perm.Resolve(actor.Role).CanEditProjects {
		return models.Project{}, deniedf("role %s cannot edit projects", actor.Role)
	}
	updated, err := c.projects.UpdateProject(ctx, id, changes)
	if err != nil {
		return models.Project{}, err
	}
	return updated, nil
}

// DeleteProject is restricted to CanDeleteProjects holders (admin only).
func (c *Coordinator) DeleteProject(ctx context.Context, actor Actor, id int64) error {
	if !perm.Resolve(actor.Role).CanDeleteProjects {
		return deniedf("role %s cannot delete projects", actor.Role)
	}
	return c.projects.DeleteProject(ctx, id)
}

// fanOut computes the recipient set and persists one notification per
// recipient. Notification failures are logged, never surfaced: the mutation
// already succeeded and must not be rolled back over a side channel.
func (c *Coordinator) fanOut(ctx context.Context, event ChangeEvent) {
	profiles, err := c.profiles.ListProfiles(ctx)
	if err != nil {
		c.logger.Error("fan-out recipient lookup failed", slog.String("error", err.Error()))
		return
	}

	for _, n := range DecideNotifications(event, profiles) {
		if err := c.notifs.CreateNotification(ctx, n); err != nil {
			c.logger.Error("notification create failed",
				slog.Int64("recipient", n.RecipientID),
				slog.String("error", err.Error()))
		}
	}
}

func sameAssignee(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// parseDueDate accepts RFC 3339 or plain dates; empty clears the field.
func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if due, err := time.Parse(layout, raw); err == nil {
			return &due, nil
		}
	}
	return nil, invalidf("invalid due date %q", raw)
}
