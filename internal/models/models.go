package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Role identifies what a user is allowed to do on the board.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleDeveloper      Role = "developer"
	RoleTester         Role = "tester"
	RoleViewer         Role = "viewer"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleAdmin, RoleProjectManager, RoleDeveloper, RoleTester, RoleViewer}

// ParseRole validates a raw role string against the closed enumeration.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.TrimSpace(strings.ToLower(raw)))
	for _, known := range Roles {
		if role == known {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// TaskStatus places a task in exactly one Kanban column.
type TaskStatus string

const (
	StatusTodo     TaskStatus = "todo"
	StatusProgress TaskStatus = "progress"
	StatusReview   TaskStatus = "review"
	StatusDone     TaskStatus = "done"
)

// TaskStatuses lists the board columns in lifecycle order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusProgress, StatusReview, StatusDone}

// ParseTaskStatus validates a raw status string.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(strings.TrimSpace(strings.ToLower(raw)))
	for _, known := range TaskStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown task status %q", raw)
}

// TaskPriority orders tasks within a column.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

var taskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// ParseTaskPriority validates a raw priority string.
func ParseTaskPriority(raw string) (TaskPriority, error) {
	priority := TaskPriority(strings.TrimSpace(strings.ToLower(raw)))
	for _, known := range taskPriorities {
		if priority == known {
			return priority, nil
		}
	}
	return "", fmt.Errorf("unknown task priority %q", raw)
}

// ProjectStatus tracks the overall project phase.
type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "onhold"
	ProjectCompleted ProjectStatus = "completed"
)

var projectStatuses = []ProjectStatus{ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted}

// ParseProjectStatus validates a raw project status string.
func ParseProjectStatus(raw string) (ProjectStatus, error) {
	status := ProjectStatus(strings.TrimSpace(strings.ToLower(raw)))
	for _, known := range projectStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown project status %q", raw)
}

// ProjectPriority has no urgent tier, unlike tasks.
type ProjectPriority string

const (
	ProjectPriorityLow    ProjectPriority = "low"
	ProjectPriorityMedium ProjectPriority = "medium"
	ProjectPriorityHigh   ProjectPriority = "high"
)

var projectPriorities = []ProjectPriority{ProjectPriorityLow, ProjectPriorityMedium, ProjectPriorityHigh}

// ParseProjectPriority validates a raw project priority string.
func ParseProjectPriority(raw string) (ProjectPriority, error) {
	priority := ProjectPriority(strings.TrimSpace(strings.ToLower(raw)))
	for _, known := range projectPriorities {
		if priority == known {
			return priority, nil
		}
	}
	return "", fmt.Errorf("unknown project priority %q", raw)
}

// NotificationType classifies a notification for the panel UI.
type NotificationType string

const (
	NotifyTaskCompleted NotificationType = "task_completed"
	NotifyComment       NotificationType = "comment"
	NotifyUserAdded     NotificationType = "user_added"
	NotifyDeadline      NotificationType = "deadline"
	NotifyTaskUpdated   NotificationType = "task_updated"
)

// Profile is a user record without credentials.
type Profile struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Task represents a single card on the board.
type Task struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	Status           TaskStatus   `json:"status"`
	Priority         TaskPriority `json:"priority"`
	AssigneeID       *int64       `json:"assignee_id,omitempty"`
	DueDate          *time.Time   `json:"due_date,omitempty"`
	Labels           []string     `json:"labels"`
	CommentsCount    int          `json:"comments_count"`
	AttachmentsCount int          `json:"attachments_count"`
	CreatedBy        *int64       `json:"created_by,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// HasLabel reports whether the task already carries the label.
func (t Task) HasLabel(label string) bool {
	for _, l := range t.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Project groups tasks under one owner and team.
type Project struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Status      ProjectStatus   `json:"status"`
	Priority    ProjectPriority `json:"priority"`
	OwnerID     int64           `json:"owner_id"`
	TeamMembers []int64         `json:"team_members"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Notification is a per-recipient message; only the recipient flips Read.
type Notification struct {
	ID            string           `json:"id"`
	RecipientID   int64            `json:"recipient_id"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	Read          bool             `json:"read"`
	RelatedTaskID *int64           `json:"related_task_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// Comment is a short note on a task.
type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeLabels trims, lowercases, deduplicates and sorts a label list.
// The result has set semantics: inserting an existing label is a no-op.
func NormalizeLabels(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	labels := make([]string, 0, len(raw))
	for _, label := range raw {
		label = strings.TrimSpace(strings.ToLower(label))
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
