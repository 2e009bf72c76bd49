package worldtile

// GhostBorder is a read-only (T+2) x (T+2) padded view of a tile and its
// eight neighbors, used by the hydrology router to evaluate flow across
// tile boundaries without materializing the whole neighborhood.
type GhostBorder struct {
	PaddedSize     int
	ChunkCells     int
	TerrainHeightM []float32
	WaterDepthM    []float32
}

func (g *GhostBorder) idx(px, py int) int {
	return py*g.PaddedSize + px
}

// At returns the (terrainHeightM, waterDepthM) pair at padded coordinate
// (px, py), where the interior spans [1, ChunkCells].
func (g *GhostBorder) At(px, py int) (float32, float32) {
	i := g.idx(px, py)
	return g.TerrainHeightM[i], g.WaterDepthM[i]
}

// BuildGhostBorder assembles the halo around the tile at (cx, cy) using
// cache to fetch the center tile and its eight neighbors. Neighbor
// lookups wrap toroidally through the cache and may trigger generation.
func BuildGhostBorder(cx, cy int, cache *Cache) *GhostBorder {
	center := cache.GetTile(cx, cy)
	t := center.T
	padded := t + 2

	n := cache.GetTile(cx, cy-1)
	s := cache.GetTile(cx, cy+1)
	w := cache.GetTile(cx-1, cy)
	e := cache.GetTile(cx+1, cy)
	nw := cache.GetTile(cx-1, cy-1)
	ne := cache.GetTile(cx+1, cy-1)
	sw := cache.GetTile(cx-1, cy+1)
	se := cache.GetTile(cx+1, cy+1)

	g := &GhostBorder{
		PaddedSize:     padded,
		ChunkCells:     t,
		TerrainHeightM: make([]float32, padded*padded),
		WaterDepthM:    make([]float32, padded*padded),
	}

	set := func(px, py int, height, water float32) {
		i := g.idx(px, py)
		g.TerrainHeightM[i] = height
		g.WaterDepthM[i] = water
	}
	cell := func(tile *Tile, lx, ly int) (float32, float32) {
		idx := ly*tile.T + lx
		return tile.TerrainHeightM[idx], tile.WaterDepthM[idx]
	}

	// Interior.
	for ly := 0; ly < t; ly++ {
		for lx := 0; lx < t; lx++ {
			h, wt := cell(center, lx, ly)
			set(lx+1, ly+1, h, wt)
		}
	}

	// Top and bottom edge strips.
	for lx := 0; lx < t; lx++ {
		h, wt := cell(n, lx, t-1)
		set(lx+1, 0, h, wt)
		h, wt = cell(s, lx, 0)
		set(lx+1, padded-1, h, wt)
	}

	// Left and right edge strips.
	for ly := 0; ly < t; ly++ {
		h, wt := cell(w, t-1, ly)
		set(0, ly+1, h, wt)
		h, wt = cell(e, 0, ly)
		set(padded-1, ly+1, h, wt)
	}

	// Corners, from the diagonal neighbors specifically.
	h, wt := cell(nw, t-1, t-1)
	set(0, 0, h, wt)
	h, wt = cell(ne, 0, t-1)
	set(padded-1, 0, h, wt)
	h, wt = cell(sw, t-1, 0)
	set(0, padded-1, h, wt)
	h, wt = cell(se, 0, 0)
	set(padded-1, padded-1, h, wt)

	return g
}
