package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"teamboard/internal/api"
	"teamboard/internal/auth"
	"teamboard/internal/board"
	"teamboard/internal/models"
	"teamboard/internal/perm"
)

const (
	sessionCookie = "teamboard_session"
	actorKey      = "teamboard_actor"
)

// handleLogin verifies credentials and issues a session token, returned both
// as a cookie (browser clients) and in the body (CLI clients).
func (s *Server) handleLogin(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondBadRequest(c, err)
		return
	}

	profile, hash, err := s.store.GetProfileByUsername(c.Request.Context(), req.Username)
	if err != nil || !auth.VerifyPassword(hash, req.Password) {
		// Same response for unknown user and wrong password.
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid credentials", ErrorCode: ErrCodeUnauthorized})
		return
	}

	token := auth.NewSessionToken()
	expires := time.Now().Add(s.sessionTTL)
	if err := s.store.CreateSession(c.Request.Context(), token, profile.ID, expires); err != nil {
		s.respondError(c, err)
		return
	}

	c.SetCookie(sessionCookie, token, int(s.sessionTTL.Seconds()), "/", "", false, true)
	respondSuccess(c, http.StatusOK, gin.H{"session": api.SessionResponse{
		Profile:      profile,
		Capabilities: perm.Resolve(profile.Role),
		Token:        token,
	}})
}

// handleLogout deletes the current session.
func (s *Server) handleLogout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		if err := s.store.DeleteSession(c.Request.Context(), token); err != nil {
			s.respondError(c, err)
			return
		}
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	respondSuccess(c, http.StatusOK, gin.H{"status": "logged out"})
}

// handleMe returns the caller's profile and capability set.
func (s *Server) handleMe(c *gin.Context) {
	profile := currentProfile(c)
	respondSuccess(c, http.StatusOK, gin.H{"session": api.SessionResponse{
		Profile:      profile,
		Capabilities: perm.Resolve(profile.Role),
	}})
}

// requireSession resolves the session token (cookie or bearer header) to a
// profile and stores it in the request context.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "authentication required", ErrorCode: ErrCodeUnauthorized})
			return
		}

		profile, err := s.store.GetSession(c.Request.Context(), token)
		if err != nil {
			c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "session invalid or expired", ErrorCode: ErrCodeUnauthorized})
			return
		}

		c.Set(actorKey, profile)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}

func currentProfile(c *gin.Context) models.Profile {
	profile, _ := c.Get(actorKey)
	p, _ := profile.(models.Profile)
	return p
}

func currentActor(c *gin.Context) board.Actor {
	p := currentProfile(c)
	return board.Actor{ID: p.ID, Role: p.Role, DisplayName: p.DisplayName}
}
