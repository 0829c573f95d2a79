// Package perm is the single source of truth for role capabilities.
// Every authorization decision in the application goes through Resolve;
// no other package may branch on role values directly.
package perm

import "teamboard/internal/models"

// Capabilities is the full permission record for one role. Every field is
// always populated, so callers can branch on any flag without nil checks.
type Capabilities struct {
	// User management
	CanManageUsers bool `json:"can_manage_users"`
	CanViewUsers   bool `json:"can_view_users"`
	CanAssignRoles bool `json:"can_assign_roles"`

	// Project management
	CanCreateProjects bool `json:"can_create_projects"`
	CanEditProjects   bool `json:"can_edit_projects"`
	CanDeleteProjects bool `json:"can_delete_projects"`
	CanViewProjects   bool `json:"can_view_projects"`

	// Task management
	CanCreateTasks bool `json:"can_create_tasks"`
	CanEditTasks   bool `json:"can_edit_tasks"`
	CanDeleteTasks bool `json:"can_delete_tasks"`
	CanViewTasks   bool `json:"can_view_tasks"`
	CanDragTasks   bool `json:"can_drag_tasks"`
	CanAssignTasks bool `json:"can_assign_tasks"`

	// Special actions
	CanComment       bool `json:"can_comment"`
	CanMarkTested    bool `json:"can_mark_tested"`
	CanApproveReview bool `json:"can_approve_review"`

	// Access control
	IsReadOnly          bool `json:"is_read_only"`
	CanAccessAdminPanel bool `json:"can_access_admin_panel"`

	// Display
	RoleDisplayName string `json:"role_display_name"`
	RoleColor       string `json:"role_color"`
}

// Resolve maps a role to its fixed capability set. The mapping is total and
// deterministic. Unknown or empty roles degrade to viewer defaults: all
// mutation flags false, read-only true. Unknown roles must never gain
// elevated capabilities.
func Resolve(role models.Role) Capabilities {
	caps := Capabilities{
		CanViewProjects: true,
		CanViewTasks:    true,
		IsReadOnly:      true,
		RoleDisplayName: "Unknown",
		RoleColor:       "gray",
	}

	switch role {
	case models.RoleAdmin:
		caps.CanManageUsers = true
		caps.CanViewUsers = true
		caps.CanAssignRoles = true
		caps.CanCreateProjects = true
		caps.CanEditProjects = true
		caps.CanDeleteProjects = true
		caps.CanCreateTasks = true
		caps.CanEditTasks = true
		caps.CanDeleteTasks = true
		caps.CanDragTasks = true
		caps.CanAssignTasks = true
		caps.CanComment = true
		caps.CanMarkTested = true
		caps.CanApproveReview = true
		caps.IsReadOnly = false
		caps.CanAccessAdminPanel = true
		caps.RoleDisplayName = "Admin"
		caps.RoleColor = "red"

	case models.RoleProjectManager:
		caps.CanViewUsers = true
		caps.CanCreateProjects = true
		caps.CanEditProjects = true
		// Only admin can delete projects.
		caps.CanCreateTasks = true
		caps.CanEditTasks = true
		caps.CanDeleteTasks = true
		caps.CanDragTasks = true
		caps.CanAssignTasks = true
		caps.CanComment = true
		caps.CanMarkTested = true
		caps.CanApproveReview = true
		caps.IsReadOnly = false
		caps.CanAccessAdminPanel = true
		caps.RoleDisplayName = "Project Manager"
		caps.RoleColor = "blue"

	case models.RoleDeveloper:
		caps.CanCreateTasks = true
		caps.CanEditTasks = true
		caps.CanDragTasks = true
		caps.CanComment = true
		caps.IsReadOnly = false
		caps.RoleDisplayName = "Developer"
		caps.RoleColor = "green"

	case models.RoleTester:
		// Testers update task status but do not create tasks.
		caps.CanEditTasks = true
		caps.CanDragTasks = true
		caps.CanComment = true
		caps.CanMarkTested = true
		caps.IsReadOnly = false
		caps.RoleDisplayName = "Tester"
		caps.RoleColor = "yellow"

	case models.RoleViewer:
		caps.RoleDisplayName = "Viewer"

	default:
		if role != "" {
			caps.RoleDisplayName = string(role)
		}
	}

	return caps
}
