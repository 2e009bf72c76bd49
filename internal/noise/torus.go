package noise

import (
	"math"

	"github.com/annel0/terra-engine/internal/rng"
)

// Config parameterizes a TorusNoise field: the seed feeding its
// underlying Simplex4D permutation table, the world's wrap dimensions
// in meters, and the base sampling frequency.
type Config struct {
	Seed      uint32
	WidthM    float64
	HeightM   float64
	Frequency float64
}

// TorusNoise samples 4D simplex noise along a surface embedded on a
// 4-torus so that world coordinates wrap seamlessly: sampling at x=0 and
// x=WidthM (or y=0 and y=HeightM) returns bit-identical values, modulo
// floating-point trigonometric rounding.
type TorusNoise struct {
	cfg     Config
	simplex *Simplex4D
}

// NewTorusNoise builds a torus noise field from cfg.
func NewTorusNoise(cfg Config) *TorusNoise {
	return &TorusNoise{cfg: cfg, simplex: NewSimplex4D(cfg.Seed)}
}

// Config returns the field's configuration.
func (t *TorusNoise) Config() Config {
	return t.cfg
}

// Sample evaluates the field at world-space (xM, yM).
func (t *TorusNoise) Sample(xM, yM float64) float64 {
	angleX := 2 * math.Pi * xM / t.cfg.WidthM
	angleY := 2 * math.Pi * yM / t.cfg.HeightM
	radius := t.cfg.Frequency * t.cfg.WidthM / (2 * math.Pi)
	x := radius * math.Cos(angleX)
	y := radius * math.Sin(angleX)
	z := radius * math.Cos(angleY)
	w := radius * math.Sin(angleY)
	return t.simplex.Noise(x, y, z, w)
}

// sampleAtFrequency evaluates the field at world-space (xM, yM) using an
// explicit frequency override, used by Fbm/Ridged to sample successive
// octaves without constructing a new field per octave.
func (t *TorusNoise) sampleAtFrequency(xM, yM, frequency float64) float64 {
	angleX := 2 * math.Pi * xM / t.cfg.WidthM
	angleY := 2 * math.Pi * yM / t.cfg.HeightM
	radius := frequency * t.cfg.WidthM / (2 * math.Pi)
	x := radius * math.Cos(angleX)
	y := radius * math.Sin(angleX)
	z := radius * math.Cos(angleY)
	w := radius * math.Sin(angleY)
	return t.simplex.Noise(x, y, z, w)
}

// Derive clones the field with seed = combineSeed(base.seed, hash(label)),
// used to carve independent noise layers per terrain role from one base
// configuration.
func (t *TorusNoise) Derive(label string) *TorusNoise {
	childCfg := t.cfg
	childCfg.Seed = rng.CombineSeed(t.cfg.Seed, rng.HashString(label))
	return NewTorusNoise(childCfg)
}
