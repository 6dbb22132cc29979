// Package api exposes the question-answering engine over HTTP: load a
// video into a session, check session state, ask questions.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexusai/nexus/internal/core"
	"github.com/nexusai/nexus/pkg/models"
	"github.com/nexusai/nexus/pkg/observability"
)

// Engine is the surface the API needs from the core engine.
type Engine interface {
	LoadVideo(ctx context.Context, sessionID uuid.UUID, videoRef, language string) (core.LoadResult, error)
	Ask(ctx context.Context, sessionID uuid.UUID, question string) (models.Answer, models.RetrievalResult, error)
	Status(sessionID uuid.UUID) (core.SessionStatus, error)
}

// Server is the HTTP server for the question-answering API.
type Server struct {
	cfg    Config
	engine Engine
	logger observability.Logger
	router *gin.Engine
	srv    *http.Server
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(cfg Config, engine Engine, logger observability.Logger) *Server {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger.WithPrefix("http")))
	if cfg.RateLimit.Enabled {
		router.Use(RateLimiter(cfg.RateLimit))
	}
	if cfg.EnableTracing {
		router.Use(Tracing(observability.Tracer("api")))
	}

	s := &Server{
		cfg:    cfg,
		engine: engine,
		logger: logger,
		router: router,
	}

	router.GET("/health", s.handleHealth)
	v1 := router.Group("/api/v1")
	{
		v1.POST("/videos", s.handleLoadVideo)
		v1.GET("/videos/:id", s.handleGetSession)
		v1.POST("/videos/:id/questions", s.handleAsk)
	}

	s.srv = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server listening", map[string]interface{}{
		"address": s.cfg.ListenAddress,
	})
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
