// Package server serves the chat page and JSON API over HTTP. Each browser
// gets its own session, identified by a cookie.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/diogo/offsum/internal/models"
	"github.com/diogo/offsum/internal/session"
)

const (
	// CookieName holds the session ID
	CookieName = "offsum_session"

	sessionKey      = "session_id"
	shutdownTimeout = 5 * time.Second
	sweepInterval   = time.Minute
)

// Options configures the server
type Options struct {
	Addr     string
	Variant  models.Variant
	Sessions *session.Manager
	Logger   *zap.Logger
}

// Server is the web surface
type Server struct {
	addr     string
	variant  models.Variant
	sessions *session.Manager
	logger   *zap.Logger
	engine   *gin.Engine
}

// New builds the server and its routes
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewManager(0, logger)
	}
	variant := opts.Variant
	if variant == "" {
		variant = models.DefaultVariant
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		addr:     opts.Addr,
		variant:  variant,
		sessions: sessions,
		logger:   logger,
		engine:   gin.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(recovery(s.logger), requestLogger(s.logger))

	r.GET("/health", s.health)

	page := r.Group("/", s.withSession)
	{
		page.GET("/", s.index)
		page.POST("/chat", s.submitForm)
		page.POST("/clear", s.clearForm)
		page.POST("/style", s.styleForm)
	}

	api := r.Group("/api", s.withSession)
	{
		api.GET("/messages", s.listMessages)
		api.POST("/messages", s.postMessage)
		api.DELETE("/messages", s.clearMessages)
		api.GET("/messages/export", s.exportMessages)
		api.PUT("/style", s.putStyle)
		api.GET("/styles", s.listStyles)
	}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. The session sweeper runs alongside
// the HTTP server and stops with it.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.sessions.RunSweeper(gctx, sweepInterval)
		return nil
	})

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	s.logger.Info("server started", zap.String("addr", ln.Addr().String()))
	return g.Wait()
}
