// Package rest exposes the system-generation surface (SPEC_FULL.md §9)
// over HTTP: POST /api/v1/systems kicks off a generation run and returns
// immediately with its id, GET /api/v1/systems/:id fetches a finished
// system, and GET /api/v1/tracks lists the available track catalog.
package rest

import (
	"errors"
	"net/http"

	"github.com/darkdragonsastro/draco-simulator/internal/api/websocket"
	"github.com/darkdragonsastro/draco-simulator/internal/database"
	"github.com/darkdragonsastro/draco-simulator/internal/generation"
	"github.com/gin-gonic/gin"
)

// Config holds HTTP server configuration.
type Config struct {
	Address string
	Debug   bool
}

// Server holds the HTTP router and the generation service it fronts.
type Server struct {
	router  *gin.Engine
	service *generation.Service
	hub     *websocket.Hub
}

// NewServer creates a new HTTP server backed by svc, streaming generation
// progress to clients through hub.
func NewServer(cfg Config, svc *generation.Service, hub *websocket.Hub) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:  gin.New(),
		service: svc,
		hub:     hub,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")

	api.GET("/health", s.healthCheck)

	systemsGroup := api.Group("/systems")
	{
		systemsGroup.POST("", s.createSystem)
		systemsGroup.GET("/:id", s.getSystem)
		systemsGroup.GET("/:id/ws", s.watchSystem)
	}

	api.GET("/tracks", s.listTracks)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	health := s.service.Health()
	c.JSON(http.StatusOK, gin.H{
		"status":  health.Status,
		"message": health.Message,
	})
}

// createSystem handles POST /api/v1/systems: it allocates a system
// identity, launches generation in the background, and returns 202
// immediately with the id a client should open
// /api/v1/systems/:id/ws against to watch progress.
func (s *Server) createSystem(c *gin.Context) {
	var req generation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sys := s.service.NewPendingSystem()
	s.service.StartGeneration(sys, req)

	c.JSON(http.StatusAccepted, gin.H{
		"id":     sys.ID,
		"status": "generating",
	})
}

// getSystem handles GET /api/v1/systems/:id.
func (s *Server) getSystem(c *gin.Context) {
	sys, err := s.service.GetSystem(c.Request.Context(), c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "system not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sys)
}

// watchSystem handles WS /api/v1/systems/:id/ws, upgrading the connection
// and scoping it to that system's generation-progress topic.
func (s *Server) watchSystem(c *gin.Context) {
	s.hub.HandleWebSocket(c.Param("id"), c.Writer, c.Request)
}

// listTracks handles GET /api/v1/tracks.
func (s *Server) listTracks(c *gin.Context) {
	dirs, err := s.service.ListTracks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dirs)
}
