// Package api defines the request/response contracts shared by the server
// handlers and the CLI client.
package api

import (
	"teamboard/internal/models"
	"teamboard/internal/perm"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// LoginRequest carries credentials for session creation.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse returns the authenticated profile, its capability set and
// the session token. The UI derives every affordance from Capabilities; no
// role logic lives client-side.
type SessionResponse struct {
	Profile      models.Profile    `json:"profile"`
	Capabilities perm.Capabilities `json:"capabilities"`
	Token        string            `json:"token,omitempty"`
}

// TaskCreateRequest carries the fields for a new task.
type TaskCreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	AssigneeID  *int64   `json:"assignee_id,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// TaskUpdateRequest lists optional field updates; nil means unchanged.
// ClearAssignee unassigns the task, since JSON null and an absent field are
// indistinguishable after decoding.
type TaskUpdateRequest struct {
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Priority      *string  `json:"priority,omitempty"`
	AssigneeID    *int64   `json:"assignee_id,omitempty"`
	ClearAssignee bool     `json:"clear_assignee,omitempty"`
	DueDate       *string  `json:"due_date,omitempty"`
	Labels        []string `json:"labels,omitempty"`
}

// TransitionRequest moves a task to another board column. Drag marks the
// transition as drag-initiated.
type TransitionRequest struct {
	Status string `json:"status"`
	Drag   bool   `json:"drag,omitempty"`
}

// CommentRequest adds a comment to a task.
type CommentRequest struct {
	Body string `json:"body"`
}

// ProjectRequest carries project create/update fields.
type ProjectRequest struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	TeamMembers []int64 `json:"team_members,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

// UserCreateRequest creates an account (admin only).
type UserCreateRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role"`
	Password    string `json:"password"`
}

// RoleUpdateRequest changes a user's role (admin only).
type RoleUpdateRequest struct {
	Role string `json:"role"`
}
