package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/internal/api"
	"teamboard/internal/board"
	"teamboard/internal/models"
)

// handleListTasks returns every task on the board.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": tasks})
}

// handleGetTask returns a single task.
func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	task, err := s.store.GetTask(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleCreateTask inserts a new task into the board.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req api.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBadRequest(c, err)
		return
	}

	task, err := s.coord.CreateTask(c.Request.Context(), currentActor(c), board.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		Labels:      req.Labels,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleUpdateTask applies a partial edit to a task.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req api.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBadRequest(c, err)
		return
	}

	patch := board.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Labels:      req.Labels,
	}
	if req.Priority != nil {
		priority, err := models.ParseTaskPriority(*req.Priority)
		if err != nil {
			s.respondBadRequest(c, err)
			return
		}
		patch.Priority = &priority
	}
	switch {
	case req.ClearAssignee:
		var cleared *int64
		patch.AssigneeID = &cleared
	case req.AssigneeID != nil:
		patch.AssigneeID = &req.AssigneeID
	}

	task, err := s.coord.UpdateTask(c.Request.Context(), currentActor(c), id, patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleTransition moves a task to another column.
func (s *Server) handleTransition(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req api.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBadRequest(c, err)
		return
	}

	task, err := s.coord.Transition(c.Request.Context(), currentActor(c), id, req.Status, req.Drag)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleMarkTested applies the compound tested transition.
func (s *Server) handleMarkTested(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := s.coord.MarkTested(c.Request.Context(), currentActor(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.coord.DeleteTask(c.Request.Context(), currentActor(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// handleListComments returns a task's comments.
func (s *Server) handleListComments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	comments, err := s.store.ListComments(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"comments": comments})
}

// handleAddComment records a new comment on a task.
func (s *Server) handleAddComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req api.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBadRequest(c, err)
		return
	}

	comment, err := s.coord.AddComment(c.Request.Context(), currentActor(c), id, req.Body)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"comment": comment})
}
