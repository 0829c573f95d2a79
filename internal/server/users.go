package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/internal/api"
	"teamboard/internal/auth"
	"teamboard/internal/models"
	"teamboard/internal/perm"
)

// handleListUsers returns every profile; restricted to CanViewUsers holders.
func (s *Server) handleListUsers(c *gin.Context) {
	if !perm.Resolve(currentProfile(c).Role).CanViewUsers {
		s.forbidden(c, "viewing users requires a manager or admin role")
		return
	}

	users, err := s.store.ListProfiles(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if users == nil {
		users = []models.Profile{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"users": users})
}

// handleCreateUser creates an account; admin only.
func (s *Server) handleCreateUser(c *gin.Context) {
	if !perm.Resolve(currentProfile(c).Role).CanManageUsers {
		s.forbidden(c, "managing users requires the admin role")
		return
	}

	var req api.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBadRequest(c, err)
		return
	}

	username, err := auth.NormalizeUsername(req.Username)
	if err != nil {
		s.respondBadRequest(c, err)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		s.respondBadRequest(c, err)
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondBadRequest(c, err)
		return
	}

	display := req.DisplayName
	if display == "" {
		display = username
	}

	user, err := s.store.CreateProfile(c.Request.Context(), models.Profile{
		Username:    username,
		DisplayName: display,
		Role:        role,
	}, hash)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"user": user})
}

// handleUpdateUserRole reassigns a user's role; admin only. The new
// capability set takes effect on the user's next request, since every
// decision point resolves capabilities from the stored role.
func (s *Server) handleUpdateUserRole(c *gin.Context) {
	if !perm.Resolve(currentProfile(c).Role).CanAssignRoles {
		s.forbidden(c, "assigning roles requires the admin role")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req api.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBadRequest(c, err)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		s.respondBadRequest(c, err)
		return
	}

	user, err := s.store.UpdateProfileRole(c.Request.Context(), id, role)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": user})
}

// handleDeleteUser removes an account; admin only. Self-deletion is blocked
// so an admin cannot lock everyone out by accident.
func (s *Server) handleDeleteUser(c *gin.Context) {
	actor := currentProfile(c)
	if !perm.Resolve(actor.Role).CanManageUsers {
		s.forbidden(c, "managing users requires the admin role")
		return
	}

	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if id == actor.ID {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "cannot delete your own account", ErrorCode: ErrCodeInvalidArgument})
		return
	}

	if err := s.store.DeleteProfile(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) forbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{Error: msg, ErrorCode: ErrCodeForbidden})
}
