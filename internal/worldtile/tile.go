// Package worldtile implements the lazily-generated, LRU-cached tile
// grid (C5, C6) and the read-only ghost border used for cross-tile
// hydrology routing (C7).
package worldtile

// Tile is a plain structure-of-arrays record over one T x T patch of
// the toroidal world grid, indexed row-major (index = y*T + x). Mutation
// is performed by the terrain generator (on creation) and the
// hydrology router (on tick); Tile itself exposes no behavior.
type Tile struct {
	Cx, Cy int
	T      int

	TerrainHeightM []float32
	WaterDepthM    []float32
	RunoffFlux     []float32
	RiverID        []int32

	// Inert in this specification: reserved for future vegetation/soil
	// subsystems, populated with zero values and never mutated here.
	SoilMoisture  []float32
	FieldCapacity []float32
	GrassCover    []float32
}

// CellCount returns T*T.
func (t *Tile) CellCount() int {
	return t.T * t.T
}

// newTile allocates a zeroed tile of side t at tile coordinates (cx,cy),
// with riverId initialized to -1 (no river) per the data model.
func newTile(cx, cy, t int) *Tile {
	n := t * t
	riverID := make([]int32, n)
	for i := range riverID {
		riverID[i] = -1
	}
	return &Tile{
		Cx: cx, Cy: cy, T: t,
		TerrainHeightM: make([]float32, n),
		WaterDepthM:    make([]float32, n),
		RunoffFlux:     make([]float32, n),
		RiverID:        riverID,
		SoilMoisture:   make([]float32, n),
		FieldCapacity:  make([]float32, n),
		GrassCover:     make([]float32, n),
	}
}
