package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"teamboard/internal/api"
	"teamboard/internal/board"
	"teamboard/internal/storage/sqlite"
)

// Numeric error codes returned alongside HTTP statuses, grouped by class.
const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeInvalidID       = 1002

	// Domain state (2xxx)
	ErrCodeNotFound       = 2001
	ErrCodeUsernameExists = 2101

	// Auth (3xxx)
	ErrCodeUnauthorized = 3001
	ErrCodeForbidden    = 3002

	// Internal/system (4xxx)
	ErrCodeInternal     = 4001
	ErrCodeStoreFailure = 4002
)

// respondError classifies the error into the taxonomy: authorization and
// validation failures are client errors resolved before any store call,
// everything else is a store failure.
func (s *Server) respondError(c *gin.Context, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"path", c.FullPath(),
			"error", err.Error())
	}
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: err.Error(), ErrorCode: code})
}

func classify(err error) (int, int) {
	switch {
	case errors.Is(err, board.ErrDenied):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, board.ErrValidation):
		return http.StatusBadRequest, ErrCodeInvalidArgument
	case errors.Is(err, board.ErrNotFound), errors.Is(err, sqlite.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, sqlite.ErrUsernameTaken):
		return http.StatusConflict, ErrCodeUsernameExists
	default:
		return http.StatusInternalServerError, ErrCodeStoreFailure
	}
}

// respondBadRequest reports a malformed request body.
func (s *Server) respondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), ErrorCode: ErrCodeInvalidJSON})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid identifier", ErrorCode: ErrCodeInvalidID})
		return 0, false
	}
	return id, true
}
