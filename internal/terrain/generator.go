package terrain

import (
	"math"
	"sort"

	"github.com/annel0/terra-engine/internal/noise"
	"github.com/annel0/terra-engine/internal/rng"
)

// Metadata is the immutable-after-init WorldMetadata: the sea-level
// bias and the coarse-grid fields it was calibrated against.
type Metadata struct {
	SeaLevelBiasM   float64
	Resolution      int
	CoarseLandMask  []uint8
	CoastDistanceMap []float64
	OceanMask       []uint8
}

// Generator implements the full terrain pipeline (C4): continent and
// belt placement, the pure rawHeight field, ocean-fraction calibration,
// and the per-tile terrain and ocean-water fillers C6 invokes on tile
// creation.
type Generator struct {
	cfg Config

	continent  *noise.TorusNoise
	warpX      *noise.TorusNoise
	warpY      *noise.TorusNoise
	coastline  *noise.TorusNoise
	ridge      *noise.TorusNoise
	hills      *noise.TorusNoise

	majors []center
	minors []center

	mainBelts      []belt
	secondaryBelts []belt

	metadata Metadata
}

// NewGenerator builds a generator for cfg rooted at masterSeed,
// performing placement and ocean-fraction calibration eagerly so that
// RawHeight and the fillers are ready to use immediately.
func NewGenerator(cfg Config, masterSeed uint32) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := noise.NewTorusNoise(noise.Config{Seed: masterSeed, WidthM: cfg.WidthM(), HeightM: cfg.HeightM(), Frequency: 1})

	g := &Generator{
		cfg:       cfg,
		continent: base.Derive("continent"),
		warpX:     base.Derive("warpX"),
		warpY:     base.Derive("warpY"),
		coastline: base.Derive("coastline"),
		ridge:     base.Derive("ridge"),
		hills:     base.Derive("hills"),
	}

	rngMgr := rng.NewManagerFromSeed(masterSeed)
	placement := rngMgr.Stream("placement")

	w, h := cfg.WidthM(), cfg.HeightM()
	majorRadiusM := cfg.MajorRadiusKm * 1000
	minorRadiusM := cfg.MinorRadiusKm * 1000

	majorStream := placement.Fork("major")
	majors, err := placeCenters(majorStream, cfg.MajorContinents, majorRadiusM, 1.5*majorRadiusM, nil, w, h, cfg.PlacementAttempts)
	if err != nil {
		return nil, err
	}
	g.majors = majors

	countStream := placement.Fork("minor-count")
	minorCount, err := countStream.Int(int64(cfg.MinorCountRange[0]), int64(cfg.MinorCountRange[1])+1)
	if err != nil {
		return nil, err
	}

	minorStream := placement.Fork("minor")
	minors, err := placeCenters(minorStream, int(minorCount), minorRadiusM, 1.0*minorRadiusM, majors, w, h, cfg.PlacementAttempts)
	if err != nil {
		return nil, err
	}
	g.minors = minors

	mainBeltStream := placement.Fork("main-belts")
	g.mainBelts = placeBelts(mainBeltStream, cfg.MainBelts, majors, w, h, cfg.MainBeltLengthKm, cfg.MainBeltWidthKm, cfg.MainBeltPeakM)

	secondaryBeltStream := placement.Fork("secondary-belts")
	g.secondaryBelts = placeBelts(secondaryBeltStream, cfg.SecondaryBelts, majors, w, h, cfg.SecondaryLengthKm, cfg.SecondaryWidthKm, cfg.SecondaryPeakM)

	g.calibrate()

	return g, nil
}

// continentalness computes C0: the sum of every center's smooth-falloff
// contribution plus a broad fbm layer.
func (g *Generator) continentalness(x, y float64) float64 {
	w, h := g.cfg.WidthM(), g.cfg.HeightM()
	sum := 0.0
	for _, c := range g.majors {
		sum += c.Strength * smoothFalloff(toroidalDistance(x, y, c.X, c.Y, w, h), c.R)
	}
	for _, c := range g.minors {
		sum += c.Strength * smoothFalloff(toroidalDistance(x, y, c.X, c.Y, w, h), c.R)
	}
	sum += 0.3 * g.continent.FbmDefault(x, y, 1/(0.3*w), 3)
	return sum
}

// RawHeight is the pure, seed-deterministic height field described by
// spec.md's rawHeight algorithm: continentalness plus domain warp plus
// coastline detail, remapped to meters, plus belt ridges and hills.
func (g *Generator) RawHeight(xM, yM float64) float64 {
	w := g.cfg.WidthM()

	c0 := g.continentalness(xM, yM)

	amplitude := 0.4 * g.cfg.DomainWarpAmplitudeKm * 1000
	dx := amplitude * g.warpX.FbmDefault(xM, yM, 1/(0.15*w), 3)
	dy := amplitude * g.warpY.FbmDefault(xM, yM, 1/(0.15*w), 3)
	c1 := g.continentalness(xM+dx, yM+dy)

	c := 0.3*c0 + 0.7*c1

	coastlineDetailM := g.cfg.CoastlineDetailScaleKm * 1000
	c += 0.15 * g.coastline.FbmDefault(xM, yM, 1/coastlineDetailM, 4)

	height := (c - 0.5) * 4000

	for _, b := range g.mainBelts {
		m := beltMask(xM, yM, b, w, g.cfg.HeightM())
		if m > 0 {
			height += m * b.Peak * g.ridge.RidgedDefault(xM, yM, 1.0/50000, 4)
		}
	}
	for _, b := range g.secondaryBelts {
		m := beltMask(xM, yM, b, w, g.cfg.HeightM())
		if m > 0 {
			height += m * b.Peak * g.ridge.RidgedDefault(xM, yM, 1.0/50000, 4)
		}
	}

	height += 200 * g.hills.Fbm(xM, yM, 1.0/20000, 4, 2.2, 0.45)

	return height
}

// calibrate performs ocean-fraction calibration and builds the coarse
// land mask, coast-distance field, and ocean-connectivity mask.
func (g *Generator) calibrate() {
	r := g.cfg.CoarseSampleRes
	w, h := g.cfg.WidthM(), g.cfg.HeightM()
	cellW, cellH := w/float64(r), h/float64(r)

	samples := make([]float64, r*r)
	for sy := 0; sy < r; sy++ {
		for sx := 0; sx < r; sx++ {
			x := (float64(sx) + 0.5) * cellW
			y := (float64(sy) + 0.5) * cellH
			samples[sy*r+sx] = g.RawHeight(x, y)
		}
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	quantileIdx := int(math.Floor(g.cfg.TargetOceanFraction * float64(r*r)))
	if quantileIdx >= len(sorted) {
		quantileIdx = len(sorted) - 1
	}
	bias := -sorted[quantileIdx]

	landMask := make([]uint8, r*r)
	for i, s := range samples {
		if s+bias >= 0 {
			landMask[i] = 1
		}
	}

	coastDistance := coastDistanceBFS(landMask, r)
	oceanMask := oceanConnectivityBFS(samples, bias, r)

	g.metadata = Metadata{
		SeaLevelBiasM:    bias,
		Resolution:       r,
		CoarseLandMask:   landMask,
		CoastDistanceMap: coastDistance,
		OceanMask:        oceanMask,
	}
}

// Metadata returns the calibrated WorldMetadata.
func (g *Generator) Metadata() Metadata {
	return g.metadata
}

// coarseCell maps world meters to the coarse grid index the way the
// per-tile fillers look up bathymetry/ocean data.
func (g *Generator) coarseCell(xM, yM float64) (int, int) {
	r := g.cfg.CoarseSampleRes
	w, h := g.cfg.WidthM(), g.cfg.HeightM()
	sx := int(math.Floor(xM/w*float64(r)))
	sy := int(math.Floor(yM/h*float64(r)))
	sx = ((sx % r) + r) % r
	sy = ((sy % r) + r) % r
	return sx, sy
}

// hypsometricRemap compresses land heights toward sea level using the
// spec's power-law curve.
func hypsometricRemap(h, maxH float64) float64 {
	frac := h / (2 * maxH)
	if frac > 1 {
		frac = 1
	}
	return math.Pow(frac, 0.4) * maxH
}

// bathymetry computes ocean depth from the piecewise shelf/slope/basin
// curve keyed on coast distance in kilometers.
func (g *Generator) bathymetry(h float64, dKm float64) float64 {
	var depth float64
	switch {
	case math.IsInf(dKm, 1) || dKm >= 500:
		depth = g.cfg.BasinDepthM
	case dKm < 50:
		depth = (dKm / 50) * g.cfg.ShelfDepthM
	case dKm < 200:
		t := (dKm - 50) / 150
		depth = g.cfg.ShelfDepthM + t*(g.cfg.SlopeDepthM-g.cfg.ShelfDepthM)
	default:
		t := (dKm - 200) / 300
		depth = g.cfg.SlopeDepthM + t*(g.cfg.BasinDepthM-g.cfg.SlopeDepthM)
	}
	depth += 0.1 * (h - depth)
	if depth > -1 {
		depth = -1
	}
	return depth
}

// TerrainHeightAt computes the final, clamped terrain height in meters
// for the world cell centered at (xM, yM), used by the C6 per-tile
// terrain filler.
func (g *Generator) TerrainHeightAt(xM, yM float64) float64 {
	h := g.RawHeight(xM, yM) + g.metadata.SeaLevelBiasM
	if h >= 0 {
		h = hypsometricRemap(h, g.cfg.MaxHeightM)
	} else {
		sx, sy := g.coarseCell(xM, yM)
		d := g.metadata.CoastDistanceMap[sy*g.metadata.Resolution+sx]
		w := g.cfg.WidthM()
		dKm := d * (w / float64(g.metadata.Resolution)) / 1000
		h = g.bathymetry(h, dKm)
	}
	if h < g.cfg.MinHeightM {
		h = g.cfg.MinHeightM
	}
	if h > g.cfg.MaxHeightM {
		h = g.cfg.MaxHeightM
	}
	return h
}

// OceanWaterAt returns the initial water depth for the world cell
// centered at (xM, yM), given its already-computed terrain height.
func (g *Generator) OceanWaterAt(xM, yM, terrainHeightM float64) float64 {
	sx, sy := g.coarseCell(xM, yM)
	if g.metadata.OceanMask[sy*g.metadata.Resolution+sx] == 1 && terrainHeightM < 0 {
		return -terrainHeightM
	}
	return 0
}

// FillTerrain populates a tile's terrainHeightM buffer. cx, cy are tile
// coordinates; heights must be len(T*T).
func (g *Generator) FillTerrain(cx, cy int, heights []float32) {
	t := g.cfg.TileSide
	s := g.cfg.CellSizeM
	for ly := 0; ly < t; ly++ {
		for lx := 0; lx < t; lx++ {
			worldCellX := float64(cx*t + lx)
			worldCellY := float64(cy*t + ly)
			xM := (worldCellX + 0.5) * s
			yM := (worldCellY + 0.5) * s
			heights[ly*t+lx] = float32(g.TerrainHeightAt(xM, yM))
		}
	}
}

// FillOceanWater populates a tile's waterDepthM buffer from its
// already-filled terrainHeightM buffer.
func (g *Generator) FillOceanWater(cx, cy int, heights []float32, water []float32) {
	t := g.cfg.TileSide
	s := g.cfg.CellSizeM
	for ly := 0; ly < t; ly++ {
		for lx := 0; lx < t; lx++ {
			worldCellX := float64(cx*t + lx)
			worldCellY := float64(cy*t + ly)
			xM := (worldCellX + 0.5) * s
			yM := (worldCellY + 0.5) * s
			water[ly*t+lx] = float32(g.OceanWaterAt(xM, yM, float64(heights[ly*t+lx])))
		}
	}
}
