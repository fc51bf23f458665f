package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"seedpipeline/database"
	"seedpipeline/internal/config"
	apperrors "seedpipeline/server/errors"
	"seedpipeline/server/middleware"
)

// Server is the read-only dashboard API over the final variety store.
type Server struct {
	db         *database.DB
	cfg        *config.Config
	engine     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer wires routes and middleware over an open store.
func NewServer(db *database.DB, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		db:     db,
		cfg:    cfg,
		logger: logger,
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(logger))
	engine.Use(gin.Recovery())

	engine.GET("/health", s.handleHealth)

	api := engine.Group("/api/v1")
	{
		api.GET("/varieties", s.handleListVarieties)
		api.GET("/varieties/:id", s.handleGetVariety)
		api.GET("/summary", s.handleSummary)
		api.GET("/duplicates", s.handleDuplicateHistogram)
		api.GET("/export/csv", s.handleExportCSV)
		api.GET("/export/json", s.handleExportJSON)
	}

	s.engine = engine
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// respondError writes an AppError as JSON, logging internal details.
func (s *Server) respondError(c *gin.Context, err *apperrors.AppError) {
	if err.Code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"request_id", middleware.GetRequestID(c), "error", err.Error())
	}
	c.JSON(err.Code, gin.H{
		"status_code": err.Code,
		"message":     err.Message,
		"request_id":  middleware.GetRequestID(c),
	})
}
