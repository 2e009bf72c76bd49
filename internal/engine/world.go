package engine

import (
	"sync"

	"github.com/annel0/terra-engine/internal/hydrology"
	"github.com/annel0/terra-engine/internal/rng"
	"github.com/annel0/terra-engine/internal/terrain"
	"github.com/annel0/terra-engine/internal/worldtile"
)

// WorldConfig bundles everything needed to materialize a world: the
// terrain generator's config, the hydrology router's config, the master
// seed feeding both C2 and C4, and the tile cache's resident-tile cap.
type WorldConfig struct {
	Terrain          terrain.Config
	Hydrology        hydrology.Config
	MasterSeed       uint32
	MaxResidentTiles int
}

// World is the live handle returned by InitWorld: a terrain generator
// paired with the lazy tile cache it fills on demand.
type World struct {
	Config    WorldConfig
	Generator *terrain.Generator
	Cache     *worldtile.Cache
	RNG       *rng.Manager
}

var (
	worldMu sync.Mutex
	world   *World
)

// InitWorld constructs the world singleton. Fails with
// KindAlreadyInitialized if one is already live.
func InitWorld(cfg WorldConfig) (*World, error) {
	worldMu.Lock()
	defer worldMu.Unlock()

	if world != nil {
		return nil, newError(KindAlreadyInitialized, "world already initialized")
	}

	if err := cfg.Terrain.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Hydrology.Validate(); err != nil {
		return nil, err
	}

	gen, err := terrain.NewGenerator(cfg.Terrain, cfg.MasterSeed)
	if err != nil {
		return nil, err
	}

	cache, err := worldtile.NewCache(
		cfg.Terrain.WorldTilesX(),
		cfg.Terrain.WorldTilesY(),
		cfg.Terrain.TileSide,
		cfg.MaxResidentTiles,
		gen,
	)
	if err != nil {
		return nil, err
	}

	world = &World{Config: cfg, Generator: gen, Cache: cache, RNG: rng.NewManagerFromSeed(cfg.MasterSeed)}
	return world, nil
}

// GetWorld returns the live world singleton, or KindNotInitialized if
// InitWorld has not been called since the last StopWorld.
func GetWorld() (*World, error) {
	worldMu.Lock()
	defer worldMu.Unlock()

	if world == nil {
		return nil, newError(KindNotInitialized, "world not initialized")
	}
	return world, nil
}

// StopWorld clears the world singleton slot.
func StopWorld() {
	worldMu.Lock()
	defer worldMu.Unlock()
	world = nil
}

// ResetWorldForTest force-clears the world slot regardless of state. It
// exists only for test isolation between cases that each want their own
// singleton lifecycle.
func ResetWorldForTest() {
	StopWorld()
}
