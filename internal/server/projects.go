package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamboard/internal/api"
	"teamboard/internal/models"
)

// parseDate accepts RFC 3339 or a bare date. An empty string clears the date.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", raw)
}

// handleListProjects returns all projects. Viewing is open to every role.
func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.store.ListProjects(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"projects": projects})
}

// handleCreateProject creates a new project entity.
func (s *Server) handleCreateProject(c *gin.Context) {
	var req api.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBadRequest(c, err)
		return
	}

	project := models.Project{
		Name:        req.Name,
		TeamMembers: req.TeamMembers,
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		status, err := models.ParseProjectStatus(*req.Status)
		if err != nil {
			s.respondBadRequest(c, err)
			return
		}
		project.Status = status
	}
	if req.Priority != nil {
		priority, err := models.ParseProjectPriority(*req.Priority)
		if err != nil {
			s.respondBadRequest(c, err)
			return
		}
		project.Priority = priority
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			s.respondBadRequest(c, err)
			return
		}
		project.DueDate = due
	}

	created, err := s.coord.CreateProject(c.Request.Context(), currentActor(c), project)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"project": created})
}

// handleUpdateProject edits an existing project.
func (s *Server) handleUpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req api.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBadRequest(c, err)
		return
	}

	changes := map[string]any{}
	if req.Name != "" {
		changes["name"] = req.Name
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.Status != nil {
		if _, err := models.ParseProjectStatus(*req.Status); err != nil {
			s.respondBadRequest(c, err)
			return
		}
		changes["status"] = *req.Status
	}
	if req.Priority != nil {
		if _, err := models.ParseProjectPriority(*req.Priority); err != nil {
			s.respondBadRequest(c, err)
			return
		}
		changes["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			s.respondBadRequest(c, err)
			return
		}
		changes["due_date"] = due
	}
	if req.TeamMembers != nil {
		changes["team_members"] = req.TeamMembers
	}

	project, err := s.coord.UpdateProject(c.Request.Context(), currentActor(c), id, changes)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// handleDeleteProject removes a project and its memberships.
func (s *Server) handleDeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.coord.DeleteProject(c.Request.Context(), currentActor(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
