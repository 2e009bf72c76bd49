// Command server boots the tick-driven planetary simulation engine: it
// materializes the world singleton, starts the scheduler, registers the
// hydrology cadenced subsystem and tick.completed publisher, and serves
// the REST control plane until it receives SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/annel0/terra-engine/internal/api"
	"github.com/annel0/terra-engine/internal/config"
	"github.com/annel0/terra-engine/internal/engine"
	"github.com/annel0/terra-engine/internal/eventbus"
	"github.com/annel0/terra-engine/internal/logging"
	"github.com/annel0/terra-engine/internal/observability"
	"github.com/annel0/terra-engine/internal/scheduler"
	"github.com/annel0/terra-engine/internal/snapshot"
	syncpkg "github.com/annel0/terra-engine/internal/sync"
)

const hydrologyCadenceSeconds = 2

func main() {
	configPath := flag.String("config", "", "path to YAML config (default: TERRA_CONFIG env, else compiled-in defaults)")
	flag.Parse()

	if err := logging.InitLogger(); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.CloseLogger()

	logging.LogInfo("terra-engine: starting up")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	ctx := context.Background()
	shutdownTelemetry, err := observability.InitTelemetry(ctx, "terra-engine")
	if err != nil {
		logging.LogError("init telemetry: %v", err)
		log.Fatalf("init telemetry: %v", err)
	}
	defer func() {
		if err := shutdownTelemetry(ctx); err != nil {
			logging.LogWarn("shutdown telemetry: %v", err)
		}
	}()

	bus := newEventBus(cfg)
	eventbus.Init(bus)
	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.LogWarn("eventbus: logging listener: %v", err)
	}

	metricsExporter := eventbus.NewMetricsExporter(bus)
	metricsAddr := ":" + strconv.Itoa(cfg.API.GetMetricsPort())
	metricsExporter.StartHTTP(metricsAddr)
	defer metricsExporter.Stop()

	maxResidentTiles := cfg.Cache.MaxResidentTiles
	if maxResidentTiles <= 0 {
		maxResidentTiles = 256
	}

	w, err := engine.InitWorld(engine.WorldConfig{
		Terrain:          cfg.ToTerrainConfig(),
		Hydrology:        cfg.ToHydrologyConfig(),
		MasterSeed:       cfg.World.GetMasterSeed(),
		MaxResidentTiles: maxResidentTiles,
	})
	if err != nil {
		logging.LogError("init world: %v", err)
		log.Fatalf("init world: %v", err)
	}

	batchMgr := newBatchManager(cfg, bus)

	schedCfg := cfg.ToSchedulerConfig()
	registerSystems := func(s *scheduler.Scheduler) {
		if _, err := s.RegisterHandler(eventbus.EventTypeTickCompleted, engine.NewTickCompletedHandler(bus)); err != nil {
			logging.LogWarn("register tick.completed handler: %v", err)
		}
		hydroSystem := engine.NewHydrologySystem(w, bus, batchMgr, cfg.Sync.RegionID, cfg.Hydrology.MinWaterDepthM)
		if err := s.RegisterSystem("hydrology", hydrologyCadenceSeconds, hydroSystem); err != nil {
			logging.LogWarn("register hydrology system: %v", err)
		}
	}

	sched, err := engine.StartEngine(schedCfg)
	if err != nil {
		logging.LogError("start engine: %v", err)
		log.Fatalf("start engine: %v", err)
	}
	registerSystems(sched)

	var redisStore *snapshot.RedisStore
	if cfg.Snapshot.RedisAddr != "" {
		redisStore, err = snapshot.NewRedisStore(cfg.Snapshot.RedisAddr)
		if err != nil {
			logging.LogWarn("snapshot redis store unavailable: %v", err)
		}
	}
	snapshotPath := os.Getenv("TERRA_SNAPSHOT_PATH")
	if snapshotPath == "" {
		snapshotPath = "snapshot.json"
	}

	addr := ":" + strconv.Itoa(cfg.API.GetRESTPort())
	server := api.NewServer(api.Config{
		Addr:            addr,
		APIKey:          cfg.API.GetAPIKey(),
		AdminJWTSecret:  []byte(cfg.API.GetAdminJWTSecret()),
		SnapshotPath:    snapshotPath,
		RedisStore:      redisStore,
		SchedulerConfig: schedCfg,
		RegisterSystems: registerSystems,
	})

	go func() {
		logging.LogInfo("terra-engine: REST API listening on %s", addr)
		if err := server.Start(); err != nil {
			logging.LogError("REST API server: %v", err)
		}
	}()

	logging.LogInfo("terra-engine: engine running, step interval %.1fs", schedCfg.DeltaRealSeconds)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logging.LogInfo("terra-engine: received %v, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logging.LogWarn("stop REST API: %v", err)
	}

	engine.StopEngine()
	if batchMgr != nil {
		batchMgr.Stop()
	}
	engine.StopWorld()

	logging.LogInfo("terra-engine: shutdown complete")
}

// newEventBus builds a JetStreamBus when cfg.EventBus.URL is set,
// falling back to an in-memory bus so single-process/dev runs still get
// the hydrology.summary/tick.completed streams.
func newEventBus(cfg *config.Config) eventbus.EventBus {
	if cfg.EventBus.URL == "" {
		logging.LogInfo("terra-engine: no eventbus.url configured, using in-memory bus")
		return eventbus.NewMemoryBus(1024)
	}
	bus, err := eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.GetStream(), cfg.EventBus.RetentionDuration())
	if err != nil {
		logging.LogWarn("terra-engine: jetstream connect failed (%v), falling back to in-memory bus", err)
		return eventbus.NewMemoryBus(1024)
	}
	return bus
}

// newBatchManager builds the hydrology-delta batching pipeline.
func newBatchManager(cfg *config.Config, bus eventbus.EventBus) *syncpkg.BatchManager {
	capacity := cfg.Sync.BatchSize
	if capacity <= 0 {
		capacity = 256
	}
	flushEvery := time.Duration(cfg.Sync.FlushEvery) * time.Second
	if flushEvery <= 0 {
		flushEvery = 5 * time.Second
	}
	// hydrology.deltas ships gzip-compressed per SPEC_FULL.md §4.16
	// unless an operator opts into an uncompressed debugging stream.
	compressor := syncpkg.DeltaCompressor(syncpkg.NewSmartCompressor())
	if cfg.Sync.DisableCompression {
		compressor = syncpkg.NewPassthroughCompressor()
	}
	regionID := cfg.Sync.RegionID
	if regionID == "" {
		regionID = "region-0"
	}
	return syncpkg.NewBatchManager(bus, regionID, eventbus.EventTypeHydrologyDeltas, capacity, flushEvery, compressor)
}
