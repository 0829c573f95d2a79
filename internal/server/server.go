package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamboard/internal/board"
	"teamboard/internal/storage/sqlite"
)

// Server provides HTTP handlers for the teamboard backend.
type Server struct {
	engine     *gin.Engine
	store      *sqlite.Store
	coord      *board.Coordinator
	logger     *slog.Logger
	staticDir  string
	sessionTTL time.Duration
	events     *eventHub
}

// Options carries server construction knobs.
type Options struct {
	StaticDir  string
	SessionTTL time.Duration
}

// New constructs the HTTP server with routes and middleware configured. The
// store's change subscription is bridged onto the SSE event hub so every
// client can re-fetch after any mutation.
func New(store *sqlite.Store, coord *board.Coordinator, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api"))

	srv := &Server{
		engine:     router,
		store:      store,
		coord:      coord,
		logger:     logger,
		staticDir:  opts.StaticDir,
		sessionTTL: opts.SessionTTL,
		events:     newEventHub(),
	}

	store.Subscribe(srv.events.broadcast)

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.POST("/auth/login", s.handleLogin)

		authed := api.Group("")
		authed.Use(s.requireSession())
		{
			authed.POST("/auth/logout", s.handleLogout)
			authed.GET("/auth/me", s.handleMe)

			authed.GET("/tasks", s.handleListTasks)
			authed.POST("/tasks", s.handleCreateTask)
			authed.GET("/tasks/:id", s.handleGetTask)
			authed.PATCH("/tasks/:id", s.handleUpdateTask)
			authed.DELETE("/tasks/:id", s.handleDeleteTask)
			authed.POST("/tasks/:id/transition", s.handleTransition)
			authed.POST("/tasks/:id/tested", s.handleMarkTested)
			authed.GET("/tasks/:id/comments", s.handleListComments)
			authed.POST("/tasks/:id/comments", s.handleAddComment)

			authed.GET("/projects", s.handleListProjects)
			authed.POST("/projects", s.handleCreateProject)
			authed.PUT("/projects/:id", s.handleUpdateProject)
			authed.DELETE("/projects/:id", s.handleDeleteProject)

			authed.GET("/users", s.handleListUsers)
			authed.POST("/users", s.handleCreateUser)
			authed.PATCH("/users/:id/role", s.handleUpdateUserRole)
			authed.DELETE("/users/:id", s.handleDeleteUser)

			authed.GET("/notifications", s.handleListNotifications)
			authed.POST("/notifications/:id/read", s.handleMarkNotificationRead)

			authed.GET("/events", s.handleEvents)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
