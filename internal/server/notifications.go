package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamboard/internal/api"
	"teamboard/internal/models"
)

// handleListNotifications returns the caller's most recent notifications,
// newest first. The limit query parameter caps the page size.
func (s *Server) handleListNotifications(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid limit", ErrorCode: ErrCodeInvalidArgument})
			return
		}
		limit = n
	}

	notes, err := s.store.ListNotificationsForUser(c.Request.Context(), currentProfile(c).ID, limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if notes == nil {
		notes = []models.Notification{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"notifications": notes})
}

// handleMarkNotificationRead marks one of the caller's notifications as read.
// The store enforces recipient ownership, so marking someone else's
// notification reports not found rather than leaking its existence.
func (s *Server) handleMarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid identifier", ErrorCode: ErrCodeInvalidID})
		return
	}

	if err := s.store.MarkNotificationRead(c.Request.Context(), id, currentProfile(c).ID); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "read"})
}
