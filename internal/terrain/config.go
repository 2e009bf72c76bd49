package terrain

// Range is an inclusive [Lo, Hi] uniform sampling range.
type Range struct {
	Lo, Hi float64
}

// Config is the immutable-after-init world/terrain configuration: world
// extent, cell/tile sizing, height bounds, continent/belt placement
// parameters, and bathymetry curve breakpoints. All *Km fields are
// converted to meters internally; the public API otherwise works in
// meters to match the rest of the pipeline.
type Config struct {
	WorldWidthKm  float64
	WorldHeightKm float64
	CellSizeM     float64
	TileSide      int

	MinHeightM float64
	MaxHeightM float64

	TargetOceanFraction    float64
	OceanFractionTolerance float64

	MajorContinents  int
	MajorRadiusKm    float64
	MinorCountRange  [2]int
	MinorRadiusKm    float64
	PlacementAttempts int

	DomainWarpAmplitudeKm  float64
	CoastlineDetailScaleKm float64

	MainBelts          int
	MainBeltLengthKm   Range
	MainBeltWidthKm    Range
	MainBeltPeakM      Range
	SecondaryBelts     int
	SecondaryLengthKm  Range
	SecondaryWidthKm   Range
	SecondaryPeakM     Range

	ShelfDepthM float64
	SlopeDepthM float64
	BasinDepthM float64

	CoarseSampleRes int
}

// DefaultConfig returns the reference defaults enumerated in the
// external-interfaces terrain configuration.
func DefaultConfig() Config {
	return Config{
		WorldWidthKm:  4096,
		WorldHeightKm: 4096,
		CellSizeM:     1000,
		TileSide:      256,

		MinHeightM: -3000,
		MaxHeightM: 4500,

		TargetOceanFraction:    0.65,
		OceanFractionTolerance: 0.02,

		MajorContinents:   3,
		MajorRadiusKm:     2500,
		MinorCountRange:   [2]int{5, 8},
		MinorRadiusKm:     900,
		PlacementAttempts: 64,

		DomainWarpAmplitudeKm:  400,
		CoastlineDetailScaleKm: 100,

		MainBelts:         3,
		MainBeltLengthKm:  Range{3000, 6000},
		MainBeltWidthKm:   Range{300, 600},
		MainBeltPeakM:     Range{1500, 2500},
		SecondaryBelts:    2,
		SecondaryLengthKm: Range{1500, 3500},
		SecondaryWidthKm:  Range{150, 400},
		SecondaryPeakM:    Range{800, 1500},

		ShelfDepthM: -200,
		SlopeDepthM: -1500,
		BasinDepthM: -3000,

		CoarseSampleRes: 1024,
	}
}

// WidthM and HeightM report world extent in meters.
func (c Config) WidthM() float64  { return c.WorldWidthKm * 1000 }
func (c Config) HeightM() float64 { return c.WorldHeightKm * 1000 }

// TileSideM reports one tile's edge length in meters.
func (c Config) TileSideM() float64 { return float64(c.TileSide) * c.CellSizeM }

// WorldTilesX and WorldTilesY report the toroidal tile grid dimensions.
func (c Config) WorldTilesX() int { return int(c.WidthM() / c.TileSideM()) }
func (c Config) WorldTilesY() int { return int(c.HeightM() / c.TileSideM()) }

// Validate checks constructor-time invariants, failing fast per the
// InvalidConfig error kind.
func (c Config) Validate() error {
	switch {
	case c.WorldWidthKm <= 0 || c.WorldHeightKm <= 0:
		return newError(KindInvalidConfig, "world extent must be positive")
	case c.CellSizeM <= 0:
		return newError(KindInvalidConfig, "cell size must be positive")
	case c.TileSide <= 0:
		return newError(KindInvalidConfig, "tile side must be positive")
	case c.MinHeightM >= c.MaxHeightM:
		return newError(KindInvalidConfig, "min height must be less than max height")
	case c.TargetOceanFraction <= 0 || c.TargetOceanFraction >= 1:
		return newError(KindInvalidConfig, "target ocean fraction must be in (0,1)")
	case c.MajorContinents <= 0:
		return newError(KindInvalidConfig, "major continent count must be positive")
	case c.MinorCountRange[0] < 0 || c.MinorCountRange[1] < c.MinorCountRange[0]:
		return newError(KindInvalidConfig, "minor continent count range is invalid")
	case c.CoarseSampleRes <= 0:
		return newError(KindInvalidConfig, "coarse sample resolution must be positive")
	case c.PlacementAttempts <= 0:
		return newError(KindInvalidConfig, "placement attempts must be positive")
	}
	return nil
}
