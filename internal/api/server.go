// Package api implements the REST control plane spec.md's SPEC_FULL.md
// §4.17 describes: a read-only world/engine surface gated by a static
// API key, and an admin surface additionally gated by a bearer JWT.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/terra-engine/internal/middleware"
	"github.com/annel0/terra-engine/internal/scheduler"
	"github.com/annel0/terra-engine/internal/snapshot"
)

// Server is the REST API server wrapping the engine/world singletons.
type Server struct {
	router          *gin.Engine
	httpServer      *http.Server
	apiKey          string
	adminJWTSecret  []byte
	snapshotPath    string
	redisStore      *snapshot.RedisStore
	schedulerConfig scheduler.Config
	registerSystems func(*scheduler.Scheduler)
	metrics         *serverMetrics
}

// Config configures a Server.
type Config struct {
	Addr           string
	APIKey         string
	AdminJWTSecret []byte
	SnapshotPath   string
	RedisStore     *snapshot.RedisStore // optional

	// SchedulerConfig and RegisterSystems are needed by
	// /admin/snapshot/restore to rebuild the scheduler singleton:
	// Restore's accumulators come back with nil handler slots, and
	// RegisterSystems is the same handler/system wiring main.go runs
	// at startup, invoked again post-restore to rebind them.
	SchedulerConfig scheduler.Config
	RegisterSystems func(*scheduler.Scheduler)
}

// NewServer builds a Server and wires its routes. Grounded on the
// teacher's api.NewRestServer: gin.ReleaseMode, gin.Recovery only (no
// default logger), then request-logging/tracing/Prometheus middleware
// stacked in the same order.
func NewServer(cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	loggerMw := middleware.NewRequestLogger()
	router.Use(loggerMw.Handler())
	router.Use(otelgin.Middleware("terra_rest_api"))

	promMw := middleware.NewPrometheusMiddleware("terra_rest_api")
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	s := &Server{
		router:          router,
		apiKey:          cfg.APIKey,
		adminJWTSecret:  cfg.AdminJWTSecret,
		snapshotPath:    cfg.SnapshotPath,
		redisStore:      cfg.RedisStore,
		schedulerConfig: cfg.SchedulerConfig,
		registerSystems: cfg.RegisterSystems,
		metrics:         newServerMetrics(),
		httpServer:      &http.Server{Addr: cfg.Addr, Handler: router},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	world := s.router.Group("/world")
	world.Use(s.apiKeyMiddleware())
	{
		world.GET("/stats", s.handleWorldStats)
		world.GET("/tile", s.handleWorldTile)
	}

	admin := s.router.Group("/admin")
	admin.Use(s.apiKeyMiddleware(), s.adminJWTMiddleware())
	{
		admin.POST("/snapshot/save", s.handleSnapshotSave)
		admin.POST("/snapshot/restore", s.handleSnapshotRestore)
		admin.POST("/engine/stop", s.handleEngineStop)
	}
}

// Start runs the HTTP server, blocking until it stops or fails.
func (s *Server) Start() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts the HTTP server down, mirroring the teacher's
// cmd/server SIGINT/SIGTERM handling in cmd/server/main.go.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
