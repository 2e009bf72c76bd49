package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadNoPathNoEnvReturnsNil(t *testing.T) {
	os.Unsetenv("TERRA_CONFIG")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Nil(t, cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terra.yaml")
	yaml := `
world:
  width_m: 8192000
terrain:
  major_continents: 5
api:
  rest_port: 9000
eventbus:
  stream: MY_STREAM
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, 8192000.0, cfg.World.WidthM)
	require.Equal(t, 5, cfg.Terrain.MajorContinents)
	require.Equal(t, 9000, cfg.API.GetRESTPort())
	require.Equal(t, "MY_STREAM", cfg.EventBus.GetStream())
}

func TestAPIConfigPortFallback(t *testing.T) {
	os.Unsetenv("TERRA_REST_PORT")
	a := &APIConfig{}
	require.Equal(t, 8088, a.GetRESTPort())

	os.Setenv("TERRA_REST_PORT", "9999")
	defer os.Unsetenv("TERRA_REST_PORT")
	require.Equal(t, 9999, a.GetRESTPort())

	a.RESTPort = 1234
	require.Equal(t, 1234, a.GetRESTPort())
}

func TestEventBusStreamDefault(t *testing.T) {
	e := &EventBusConfig{}
	require.Equal(t, "TERRA_EVENTS", e.GetStream())
}

func TestToTerrainConfigOverlaysOntoDefaults(t *testing.T) {
	var c Config
	c.Terrain.MajorContinents = 7
	cfg := c.ToTerrainConfig()
	require.Equal(t, 7, cfg.MajorContinents)
	// Untouched fields keep their default.
	require.Equal(t, 1000.0, cfg.CellSizeM)
}

func TestToHydrologyConfigOverlaysOntoDefaults(t *testing.T) {
	var c Config
	c.Hydrology.FlowFraction = 0.9
	cfg := c.ToHydrologyConfig()
	require.Equal(t, 0.9, cfg.FlowFraction)
	require.Equal(t, 8, cfg.SubStepsPerTick)
}

func TestToHydrologyConfigLeavesTrackRunoffFluxOnDefaultWhenUnset(t *testing.T) {
	var c Config
	cfg := c.ToHydrologyConfig()
	require.True(t, cfg.TrackRunoffFlux, "an absent track_runoff_flux key must not disable the default-on flux tracking")
}

func TestToHydrologyConfigOverridesTrackRunoffFluxWhenExplicit(t *testing.T) {
	var c Config
	disabled := false
	c.Hydrology.TrackRunoffFlux = &disabled
	cfg := c.ToHydrologyConfig()
	require.False(t, cfg.TrackRunoffFlux)
}

func TestToSchedulerConfigOverlaysOntoDefaults(t *testing.T) {
	var c Config
	cfg := c.ToSchedulerConfig()
	require.Equal(t, 2.0, cfg.DeltaRealSeconds)

	c.Scheduler.RealIntervalSeconds = 5
	cfg = c.ToSchedulerConfig()
	require.Equal(t, 5.0, cfg.DeltaRealSeconds)
}

func TestWorldConfigMasterSeedFallback(t *testing.T) {
	os.Unsetenv("TERRA_MASTER_SEED")
	w := &WorldConfig{}
	require.Equal(t, uint32(1), w.GetMasterSeed())

	os.Setenv("TERRA_MASTER_SEED", "42")
	defer os.Unsetenv("TERRA_MASTER_SEED")
	require.Equal(t, uint32(42), w.GetMasterSeed())

	w.MasterSeed = 7
	require.Equal(t, uint32(7), w.GetMasterSeed())
}
