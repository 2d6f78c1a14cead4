// Package server exposes built reports over HTTP for the rendering layer.
//
// Routes:
//
//	GET /healthz                 → snapshot identity and size
//	GET /views                   → stable view names
//	GET /reports/:key            → full report for a filter key
//	GET /reports/:key/:view      → one view of that report
//
// Reports come from a report.Cache, so repeated requests for the same key
// over the same snapshot are served without rebuilding.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arthurrossibr/general-vision-simplified/internal/report"
	"github.com/arthurrossibr/general-vision-simplified/internal/store"
)

// Config controls server startup.
type Config struct {
	Addr string

	// ShutdownTimeout bounds graceful shutdown. Zero means 10s.
	ShutdownTimeout time.Duration
}

// SnapshotFunc returns the snapshot reports are built from. It may return
// nil before the first load completes.
type SnapshotFunc func() *store.Snapshot

// Server serves reports of the current snapshot.
type Server struct {
	cfg      Config
	engine   *gin.Engine
	cache    *report.Cache
	snapshot SnapshotFunc
	log      *zap.Logger
}

// New builds a Server with its routes. log may be nil.
func New(cfg Config, cache *report.Cache, snapshot SnapshotFunc, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		engine:   gin.New(),
		cache:    cache,
		snapshot: snapshot,
		log:      log,
	}
	// Filter keys are opaque and may hold '/' (formatted CNPJs), so routes
	// match on the escaped path and params are unescaped afterwards.
	s.engine.UseRawPath = true
	s.engine.UnescapePathValues = true
	s.engine.Use(gin.Recovery(), s.accessLog())
	s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("server listening", zap.String("addr", s.cfg.Addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/views", s.handleViews)
	s.engine.GET("/reports/:key", s.handleReport)
	s.engine.GET("/reports/:key/:view", s.handleView)
}

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.snapshot()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"snapshot":  snap.ID,
		"records":   snap.Len(),
		"loaded_at": snap.LoadedAt,
	})
}

func (s *Server) handleViews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"views": report.ViewNames()})
}

func (s *Server) handleReport(c *gin.Context) {
	r, ok := s.report(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) handleView(c *gin.Context) {
	name := c.Param("view")
	if !knownView(name) {
		abort(c, http.StatusNotFound, "UNKNOWN_VIEW", "no view named "+name)
		return
	}
	r, ok := s.report(c)
	if !ok {
		return
	}
	t := r.Views[name]
	c.JSON(http.StatusOK, gin.H{
		"view":        name,
		"run_id":      r.RunID,
		"snapshot_id": r.SnapshotID,
		"filter_key":  r.FilterKey,
		"columns":     t.Columns,
		"rows":        t.Rows,
	})
}

// report writes the error response itself when it returns false.
func (s *Server) report(c *gin.Context) (*report.Report, bool) {
	snap := s.snapshot()
	if snap == nil {
		abort(c, http.StatusServiceUnavailable, "NOT_LOADED", "no snapshot loaded yet")
		return nil, false
	}
	r, err := s.cache.Get(c.Request.Context(), snap, c.Param("key"))
	if err != nil {
		s.log.Error("report build failed", zap.String("filter_key", c.Param("key")), zap.Error(err))
		abort(c, http.StatusInternalServerError, "BUILD_FAILED", "report could not be built")
		return nil, false
	}
	return r, true
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{"code": code, "message": msg},
	})
}

func knownView(name string) bool {
	for _, v := range report.ViewNames() {
		if v == name {
			return true
		}
	}
	return false
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
