package sitehttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"buddyfarm/internal/corpus"
	"buddyfarm/internal/logger"
	"buddyfarm/internal/settings"

	"github.com/gin-gonic/gin"
)

// Server serves the companion site API.
type Server struct {
	addr   string
	router *gin.Engine
}

// SnapshotSource yields the current corpus snapshot.
type SnapshotSource interface {
	Snapshot() corpus.Snapshot
}

// HistorySource lists recorded settings changes for a storage key.
type HistorySource interface {
	History(ctx context.Context, key string, limit int) ([]settings.Change, error)
}

// ServerConfig describes the server dependencies.
type ServerConfig struct {
	Addr         string
	Corpus       SnapshotSource
	Settings     settings.Backend
	History      HistorySource
	Namespace    string
	CookieName   string
	CookieMaxAge time.Duration
}

// NewServer builds the HTTP server and registers every route.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Corpus == nil {
		return nil, errors.New("site http server requires a corpus")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "bf_session"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := router.Group("/api")
	api.Use(sessionCookie(cfg.CookieName, cfg.CookieMaxAge))
	NewRouter(cfg).Register(api)

	return &Server{addr: cfg.Addr, router: router}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start serves until ctx is cancelled or listening fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Infof("site http listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
