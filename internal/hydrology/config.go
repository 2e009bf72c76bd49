package hydrology

import "math"

// Config parameterizes the D8 router.
type Config struct {
	FlowFraction    float64
	SubStepsPerTick int
	MinWaterDepthM  float64
	TrackRunoffFlux bool
}

// DefaultConfig returns the reference hydrology configuration.
func DefaultConfig() Config {
	return Config{
		FlowFraction:    0.4,
		SubStepsPerTick: 8,
		MinWaterDepthM:  1e-6,
		TrackRunoffFlux: true,
	}
}

// Validate checks constructor-time invariants.
func (c Config) Validate() error {
	if c.FlowFraction <= 0 || c.FlowFraction > 1 {
		return newError(KindInvalidConfig, "flowFraction must be in (0,1]")
	}
	if c.SubStepsPerTick <= 0 {
		return newError(KindInvalidConfig, "subStepsPerTick must be positive")
	}
	if math.IsNaN(c.MinWaterDepthM) || math.IsInf(c.MinWaterDepthM, 0) || c.MinWaterDepthM < 0 {
		return newError(KindInvalidConfig, "minWaterDepthM must be a non-negative finite value")
	}
	return nil
}
