package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/annel0/terra-engine/internal/calendar"
	"github.com/annel0/terra-engine/internal/engine"
	"github.com/annel0/terra-engine/internal/eventbus"
	"github.com/annel0/terra-engine/internal/hydrology"
	"github.com/annel0/terra-engine/internal/logging"
	"github.com/annel0/terra-engine/internal/scheduler"
	"github.com/annel0/terra-engine/internal/snapshot"
	"github.com/annel0/terra-engine/internal/terrain"
	"github.com/annel0/terra-engine/internal/worldtile"
)

// publishAdminEvent emits an audit envelope on the process-wide eventbus
// singleton (see eventbus.Init in cmd/server/main.go). The Server has no
// bus reference of its own — admin actions are rare and side-channel, not
// on the hot tick path, so the global convenience wrapper fits better here
// than threading a bus through Config for three call sites.
func publishAdminEvent(ctx context.Context, eventType string, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.LogWarn("api: encode %s audit event: %v", eventType, err)
		return
	}
	if err := eventbus.Publish(ctx, &eventbus.Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    "terra-engine-api",
		EventType: eventType,
		Version:   1,
		Payload:   data,
	}); err != nil {
		logging.LogWarn("api: publish %s audit event: %v", eventType, err)
	}
}

// GenericResponse is the uniform envelope every handler responds with,
// mirroring the teacher's api.GenericResponse shape.
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	cpuPct, err := s.metrics.cpuPercent()
	if err != nil {
		logging.LogWarn("api: cpu metrics unavailable: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"time":       time.Now().Unix(),
		"uptimeSecs": s.metrics.uptimeSeconds(),
		"memoryMB":   s.metrics.memoryMB(),
		"cpuPercent": cpuPct,
		"goroutines": runtime.NumGoroutine(),
	})
}

// handleWorldStats reports the tile cache's LRU statistics and the
// world's tile-grid extent.
func (s *Server) handleWorldStats(c *gin.Context) {
	w, err := engine.GetWorld()
	if err != nil {
		writeEngineError(c, err)
		return
	}

	stats := w.Cache.GetStats()

	data := map[string]interface{}{
		"worldTilesX":   w.Config.Terrain.WorldTilesX(),
		"worldTilesY":   w.Config.Terrain.WorldTilesY(),
		"tileSide":      w.Config.Terrain.TileSide,
		"residentCount": stats.ResidentCount,
		"totalAccesses": stats.TotalAccesses,
		"cacheHits":     stats.CacheHits,
		"cacheMisses":   stats.CacheMisses,
		"evictions":     stats.Evictions,
	}

	if sched, err := engine.GetScheduler(); err == nil {
		state := sched.GetState()
		data["stepNumber"] = state.StepNumber
		data["gameTimeMinutes"] = state.GameTime.TotalMinutes
		data["gameDate"] = calendar.Decompose(state.GameTime.TotalMinutes)
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "world stats",
		Data:    data,
	})
}

// handleWorldTile returns one tile's terrain/water summary, materializing
// it on demand via the cache's usual lazy-fill path.
func (s *Server) handleWorldTile(c *gin.Context) {
	w, err := engine.GetWorld()
	if err != nil {
		writeEngineError(c, err)
		return
	}

	cx, errCx := strconv.Atoi(c.Query("cx"))
	cy, errCy := strconv.Atoi(c.Query("cy"))
	if errCx != nil || errCy != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "cx and cy query parameters must be integers"})
		return
	}

	tile := w.Cache.GetTile(cx, cy)
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "tile",
		Data:    summarizeTile(tile),
	})
}

func summarizeTile(t *worldtile.Tile) map[string]interface{} {
	var minH, maxH float32
	var totalWater float64
	for i, h := range t.TerrainHeightM {
		if i == 0 || h < minH {
			minH = h
		}
		if i == 0 || h > maxH {
			maxH = h
		}
	}
	for _, wd := range t.WaterDepthM {
		totalWater += float64(wd)
	}
	return map[string]interface{}{
		"cx":              t.Cx,
		"cy":              t.Cy,
		"tileSide":        t.T,
		"minHeightM":      minH,
		"maxHeightM":      maxH,
		"totalWaterDepth": totalWater,
	}
}

// handleSnapshotSave writes the current {rng, scheduler} state to the
// server's configured snapshot path, mirroring it to Redis if a store
// is configured.
func (s *Server) handleSnapshotSave(c *gin.Context) {
	w, err := engine.GetWorld()
	if err != nil {
		writeEngineError(c, err)
		return
	}
	sched, err := engine.GetScheduler()
	if err != nil {
		writeEngineError(c, err)
		return
	}

	snap := snapshot.Snapshot{
		RNG:         w.RNG.GetState(),
		Scheduler:   sched.GetState(),
		SavedAtStep: sched.StepNumber(),
	}

	if err := snapshot.SaveFile(s.snapshotPath, snap); err != nil {
		logging.LogError("api: snapshot save: %v", err)
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: "failed to save snapshot"})
		return
	}

	if s.redisStore != nil {
		if err := s.redisStore.Save(c.Request.Context(), snap); err != nil {
			logging.LogWarn("api: snapshot redis mirror: %v", err)
		}
	}

	publishAdminEvent(c.Request.Context(), eventbus.EventTypeAdminSnapshotSaved, map[string]interface{}{"savedAtStep": snap.SavedAtStep})
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "snapshot saved", Data: map[string]interface{}{"savedAtStep": snap.SavedAtStep}})
}

// handleSnapshotRestore stops the running engine, loads a previously
// saved snapshot, restores the RNG manager's stream states and the
// scheduler's tick clock, rebinds systems, and restarts.
func (s *Server) handleSnapshotRestore(c *gin.Context) {
	w, err := engine.GetWorld()
	if err != nil {
		writeEngineError(c, err)
		return
	}

	snap, err := snapshot.LoadFile(s.snapshotPath)
	if err != nil {
		logging.LogError("api: snapshot load: %v", err)
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: "failed to load snapshot"})
		return
	}

	if err := w.RNG.LoadState(snap.RNG); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "snapshot RNG state does not match this world's master seed"})
		return
	}

	engine.StopEngine()
	resumed, err := engine.ResumeEngine(s.schedulerConfig, snap.Scheduler)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	if s.registerSystems != nil {
		s.registerSystems(resumed)
	}

	publishAdminEvent(c.Request.Context(), eventbus.EventTypeAdminSnapshotRestored, map[string]interface{}{"stepNumber": resumed.StepNumber()})
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "snapshot restored", Data: map[string]interface{}{"stepNumber": resumed.StepNumber()}})
}

// handleEngineStop stops the running scheduler without tearing down the
// world singleton, so a subsequent restore or restart can resume
// against the same tile cache.
func (s *Server) handleEngineStop(c *gin.Context) {
	if _, err := engine.GetScheduler(); err != nil {
		writeEngineError(c, err)
		return
	}
	engine.StopEngine()
	publishAdminEvent(c.Request.Context(), eventbus.EventTypeAdminEngineStopped, nil)
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "engine stopped"})
}

// writeEngineError maps a domain error's Kind to the HTTP status
// SPEC_FULL.md §7 assigns it: 400 for invalid input, 409 for
// already-initialized conflicts, 503 for not-yet-initialized state.
func writeEngineError(c *gin.Context, err error) {
	switch {
	case engine.IsKind(err, engine.KindAlreadyInitialized):
		c.JSON(http.StatusConflict, GenericResponse{Success: false, Message: err.Error()})
	case engine.IsKind(err, engine.KindNotInitialized):
		c.JSON(http.StatusServiceUnavailable, GenericResponse{Success: false, Message: err.Error()})
	case isInvalidArgumentOrConfig(err):
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: err.Error()})
	}
}

func isInvalidArgumentOrConfig(err error) bool {
	return scheduler.IsKind(err, scheduler.KindInvalidConfig) ||
		scheduler.IsKind(err, scheduler.KindInvalidArgument) ||
		terrain.IsKind(err, terrain.KindInvalidConfig) ||
		terrain.IsKind(err, terrain.KindInvalidArgument) ||
		hydrology.IsKind(err, hydrology.KindInvalidConfig)
}
