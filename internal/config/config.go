package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/annel0/terra-engine/internal/hydrology"
	"github.com/annel0/terra-engine/internal/scheduler"
	"github.com/annel0/terra-engine/internal/terrain"
)

// Config is the root configuration structure, loaded from YAML per the
// shape in SPEC_FULL.md §6. Every field is optional; a zero value falls
// back to the corresponding package's compiled-in default.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Hydrology HydrologyConfig `yaml:"hydrology"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Cache     CacheConfig     `yaml:"cache"`
	API       APIConfig       `yaml:"api"`
	EventBus  EventBusConfig  `yaml:"eventbus"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Sync      SyncConfig      `yaml:"sync"`
}

// WorldConfig carries the world-extent fields spec.md §6 lists alongside
// terrain.Config's placement/belt fields (kept in TerrainConfig below).
type WorldConfig struct {
	WidthM                 float64 `yaml:"width_m"`
	HeightM                float64 `yaml:"height_m"`
	CellSizeM              float64 `yaml:"cell_size_m"`
	TileSideCells          int     `yaml:"tile_side_cells"`
	MinHeightM             float64 `yaml:"min_height_m"`
	MaxHeightM             float64 `yaml:"max_height_m"`
	TargetOceanFraction    float64 `yaml:"target_ocean_fraction"`
	OceanFractionTolerance float64 `yaml:"ocean_fraction_tolerance"`
	MasterSeed             uint32  `yaml:"master_seed"`
}

// GetMasterSeed resolves the world's master seed with config -> env ->
// default precedence, following APIConfig's Get* pattern. Falls back to
// 1, the same value the spec's seed canonicalization promotes 0 to.
func (w *WorldConfig) GetMasterSeed() uint32 {
	if w.MasterSeed != 0 {
		return w.MasterSeed
	}
	if envVal := os.Getenv("TERRA_MASTER_SEED"); envVal != "" {
		if seed, err := strconv.ParseUint(envVal, 10, 32); err == nil && seed != 0 {
			return uint32(seed)
		}
	}
	return 1
}

// TerrainConfig carries the placement/belt/coarse-grid fields of
// terrain.Config.
type TerrainConfig struct {
	CoarseSampleRes        int     `yaml:"coarse_sample_res"`
	MajorContinents        int     `yaml:"major_continents"`
	MajorRadiusKm          float64 `yaml:"major_radius_km"`
	MinorRadiusKm          float64 `yaml:"minor_radius_km"`
	MinorCountMin          int     `yaml:"minor_count_min"`
	MinorCountMax          int     `yaml:"minor_count_max"`
	DomainWarpAmplitudeKm  float64 `yaml:"domain_warp_amplitude_km"`
	CoastlineDetailScaleKm float64 `yaml:"coastline_detail_scale_km"`
	MainBelts              int     `yaml:"main_belts"`
	SecondaryBelts         int     `yaml:"secondary_belts"`
	ShelfDepthM            float64 `yaml:"shelf_depth_m"`
	SlopeDepthM            float64 `yaml:"slope_depth_m"`
	BasinDepthM            float64 `yaml:"basin_depth_m"`
}

// HydrologyConfig mirrors hydrology.Config.
type HydrologyConfig struct {
	FlowFraction    float64 `yaml:"flow_fraction"`
	SubStepsPerTick int     `yaml:"sub_steps_per_tick"`
	MinWaterDepthM  float64 `yaml:"min_water_depth_m"`

	// TrackRunoffFlux is a pointer so an absent YAML key is
	// distinguishable from an explicit `track_runoff_flux: false` —
	// unlike the other fields here, hydrology.DefaultConfig() defaults
	// this to true, so overlaying Go's bool zero value unconditionally
	// would silently disable it for every config file that doesn't
	// mention the key.
	TrackRunoffFlux *bool `yaml:"track_runoff_flux"`
}

// SchedulerConfig mirrors scheduler.Config.
type SchedulerConfig struct {
	RealIntervalSeconds float64 `yaml:"real_interval_seconds"`
}

// CacheConfig configures the tile cache's resident-tile cap.
type CacheConfig struct {
	MaxResidentTiles int `yaml:"max_resident_tiles"`
}

// APIConfig configures the REST surface.
type APIConfig struct {
	RESTPort       int    `yaml:"rest_port"`
	MetricsPort    int    `yaml:"metrics_port"`
	APIKey         string `yaml:"api_key"`
	AdminJWTSecret string `yaml:"admin_jwt_secret"`
}

// EventBusConfig mirrors the teacher's eventbus config with the stream
// name renamed for this domain.
type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

// RetentionDuration converts Retention hours to a time.Duration for
// NewJetStreamBus, defaulting to 72h if unset.
func (e *EventBusConfig) RetentionDuration() time.Duration {
	if e.Retention <= 0 {
		return 72 * time.Hour
	}
	return time.Duration(e.Retention) * time.Hour
}

// GetStream resolves the JetStream stream name, defaulting to
// TERRA_EVENTS if unset in config.
func (e *EventBusConfig) GetStream() string {
	if e.Stream != "" {
		return e.Stream
	}
	return "TERRA_EVENTS"
}

// SnapshotConfig configures the optional Redis snapshot hand-off store.
type SnapshotConfig struct {
	RedisAddr string `yaml:"redis_addr"`
}

// SyncConfig configures the hydrology-delta batching pipeline.
type SyncConfig struct {
	RegionID   string `yaml:"region_id"`
	BatchSize  int    `yaml:"batch_size"`
	FlushEvery int    `yaml:"flush_every_seconds"`

	// DisableCompression switches hydrology.deltas from gzip-compressed
	// batches (the SPEC_FULL.md §4.16 default) to an uncompressed
	// passthrough stream, for local debugging with a raw wire dump.
	DisableCompression bool `yaml:"disable_compression"`
}

// GetRESTPort resolves the REST port with config -> env -> default
// precedence, following the teacher's getPortWithEnvFallback pattern.
func (a *APIConfig) GetRESTPort() int {
	return getPortWithEnvFallback(a.RESTPort, "TERRA_REST_PORT", 8088)
}

// GetMetricsPort resolves the Prometheus metrics port the same way.
func (a *APIConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(a.MetricsPort, "TERRA_METRICS_PORT", 2112)
}

// GetAPIKey resolves the static API key, falling back to
// TERRA_API_KEY if unset in config.
func (a *APIConfig) GetAPIKey() string {
	if a.APIKey != "" {
		return a.APIKey
	}
	return os.Getenv("TERRA_API_KEY")
}

// GetAdminJWTSecret resolves the admin bearer-token signing secret,
// falling back to TERRA_ADMIN_JWT_SECRET if unset in config.
func (a *APIConfig) GetAdminJWTSecret() string {
	if a.AdminJWTSecret != "" {
		return a.AdminJWTSecret
	}
	return os.Getenv("TERRA_ADMIN_JWT_SECRET")
}

func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}
	return defaultPort
}

// Load reads a YAML config file. If path is empty, it falls back to the
// TERRA_CONFIG environment variable; if that is also unset, Load returns
// (nil, nil), signaling "use every package's compiled-in defaults".
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("TERRA_CONFIG")
		if path == "" {
			return nil, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ToTerrainConfig overlays the config's world/terrain fields onto
// terrain.DefaultConfig, leaving fields left at their zero value on the
// default.
func (c *Config) ToTerrainConfig() terrain.Config {
	cfg := terrain.DefaultConfig()

	if c.World.WidthM > 0 {
		cfg.WorldWidthKm = c.World.WidthM / 1000
	}
	if c.World.HeightM > 0 {
		cfg.WorldHeightKm = c.World.HeightM / 1000
	}
	if c.World.CellSizeM > 0 {
		cfg.CellSizeM = c.World.CellSizeM
	}
	if c.World.TileSideCells > 0 {
		cfg.TileSide = c.World.TileSideCells
	}
	if c.World.MinHeightM != 0 {
		cfg.MinHeightM = c.World.MinHeightM
	}
	if c.World.MaxHeightM != 0 {
		cfg.MaxHeightM = c.World.MaxHeightM
	}
	if c.World.TargetOceanFraction > 0 {
		cfg.TargetOceanFraction = c.World.TargetOceanFraction
	}
	if c.World.OceanFractionTolerance > 0 {
		cfg.OceanFractionTolerance = c.World.OceanFractionTolerance
	}

	if c.Terrain.CoarseSampleRes > 0 {
		cfg.CoarseSampleRes = c.Terrain.CoarseSampleRes
	}
	if c.Terrain.MajorContinents > 0 {
		cfg.MajorContinents = c.Terrain.MajorContinents
	}
	if c.Terrain.MajorRadiusKm > 0 {
		cfg.MajorRadiusKm = c.Terrain.MajorRadiusKm
	}
	if c.Terrain.MinorRadiusKm > 0 {
		cfg.MinorRadiusKm = c.Terrain.MinorRadiusKm
	}
	if c.Terrain.MinorCountMin > 0 || c.Terrain.MinorCountMax > 0 {
		cfg.MinorCountRange = [2]int{c.Terrain.MinorCountMin, c.Terrain.MinorCountMax}
	}
	if c.Terrain.DomainWarpAmplitudeKm > 0 {
		cfg.DomainWarpAmplitudeKm = c.Terrain.DomainWarpAmplitudeKm
	}
	if c.Terrain.CoastlineDetailScaleKm > 0 {
		cfg.CoastlineDetailScaleKm = c.Terrain.CoastlineDetailScaleKm
	}
	if c.Terrain.MainBelts > 0 {
		cfg.MainBelts = c.Terrain.MainBelts
	}
	if c.Terrain.SecondaryBelts > 0 {
		cfg.SecondaryBelts = c.Terrain.SecondaryBelts
	}
	if c.Terrain.ShelfDepthM != 0 {
		cfg.ShelfDepthM = c.Terrain.ShelfDepthM
	}
	if c.Terrain.SlopeDepthM != 0 {
		cfg.SlopeDepthM = c.Terrain.SlopeDepthM
	}
	if c.Terrain.BasinDepthM != 0 {
		cfg.BasinDepthM = c.Terrain.BasinDepthM
	}

	return cfg
}

// ToHydrologyConfig overlays the config's hydrology fields onto
// hydrology.DefaultConfig.
func (c *Config) ToHydrologyConfig() hydrology.Config {
	cfg := hydrology.DefaultConfig()
	if c.Hydrology.FlowFraction > 0 {
		cfg.FlowFraction = c.Hydrology.FlowFraction
	}
	if c.Hydrology.SubStepsPerTick > 0 {
		cfg.SubStepsPerTick = c.Hydrology.SubStepsPerTick
	}
	if c.Hydrology.MinWaterDepthM > 0 {
		cfg.MinWaterDepthM = c.Hydrology.MinWaterDepthM
	}
	if c.Hydrology.TrackRunoffFlux != nil {
		cfg.TrackRunoffFlux = *c.Hydrology.TrackRunoffFlux
	}
	return cfg
}

// ToSchedulerConfig overlays the config's scheduler fields onto
// scheduler.DefaultConfig.
func (c *Config) ToSchedulerConfig() scheduler.Config {
	cfg := scheduler.DefaultConfig()
	if c.Scheduler.RealIntervalSeconds > 0 {
		cfg.DeltaRealSeconds = c.Scheduler.RealIntervalSeconds
	}
	return cfg
}
