package worldtile

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// Filler is implemented by a terrain generator: FillTerrain populates a
// freshly-allocated tile's height buffer, FillOceanWater populates its
// initial water depth from the now-filled heights. A nil Filler leaves
// tiles zeroed on creation, which is only useful for tests.
type Filler interface {
	FillTerrain(cx, cy int, heights []float32)
	FillOceanWater(cx, cy int, heights, water []float32)
}

// Stats mirrors the cache's access counters. Fields are read via
// GetStats, which snapshots them; the live counters are atomic so
// concurrent test harnesses can poll without racing the tick loop.
type Stats struct {
	ResidentCount int64
	TotalAccesses int64
	CacheHits     int64
	CacheMisses   int64
	Evictions     int64
}

type key struct{ cx, cy int }

// Cache is the lazy, LRU-evicting tile grid (C6). Coordinates passed to
// GetTile are wrapped by Euclidean modulo into [0, worldTilesX) x
// [0, worldTilesY) before lookup, giving the caller a toroidal view over
// a bounded resident set.
type Cache struct {
	mu sync.Mutex

	worldTilesX, worldTilesY int
	tileSide                 int
	maxResident              int
	filler                   Filler

	entries map[key]*list.Element
	order   *list.List // front = most recently used, back = least

	totalAccesses atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	evictions     atomic.Int64
}

type entry struct {
	key  key
	tile *Tile
}

// NewCache constructs a cache over a worldTilesX x worldTilesY toroidal
// tile grid of side tileSide, holding at most maxResident tiles. filler
// may be nil.
func NewCache(worldTilesX, worldTilesY, tileSide, maxResident int, filler Filler) (*Cache, error) {
	if worldTilesX <= 0 || worldTilesY <= 0 {
		return nil, newError(KindInvalidConfig, "worldTilesX/Y must be positive")
	}
	if maxResident <= 0 {
		return nil, newError(KindInvalidConfig, "maxResidentChunks must be positive")
	}
	if tileSide <= 0 {
		return nil, newError(KindInvalidConfig, "tileSide must be positive")
	}
	return &Cache{
		worldTilesX: worldTilesX,
		worldTilesY: worldTilesY,
		tileSide:    tileSide,
		maxResident: maxResident,
		filler:      filler,
		entries:     make(map[key]*list.Element),
		order:       list.New(),
	}, nil
}

func wrapMod(v, span int) int {
	v %= span
	if v < 0 {
		v += span
	}
	return v
}

// wrap applies Euclidean modulo to raw tile coordinates.
func (c *Cache) wrap(cx, cy int) key {
	return key{wrapMod(cx, c.worldTilesX), wrapMod(cy, c.worldTilesY)}
}

// GetTile returns the tile at (cx, cy), wrapping coordinates toroidally.
// A resident tile is marked most-recently-used and returned; otherwise
// the cache evicts its least-recently-used tile if at capacity, then
// allocates and fills a new tile. The returned reference stays valid
// until an operation that could evict it runs.
func (c *Cache) GetTile(cx, cy int) *Tile {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalAccesses.Add(1)
	k := c.wrap(cx, cy)

	if el, ok := c.entries[k]; ok {
		c.order.MoveToFront(el)
		c.cacheHits.Add(1)
		return el.Value.(*entry).tile
	}

	c.cacheMisses.Add(1)

	if len(c.entries) >= c.maxResident {
		c.evictLocked()
	}

	tile := newTile(k.cx, k.cy, c.tileSide)
	if c.filler != nil {
		c.filler.FillTerrain(k.cx, k.cy, tile.TerrainHeightM)
		c.filler.FillOceanWater(k.cx, k.cy, tile.TerrainHeightM, tile.WaterDepthM)
	}
	el := c.order.PushFront(&entry{key: k, tile: tile})
	c.entries[k] = el
	return tile
}

func (c *Cache) evictLocked() {
	back := c.order.Back()
	if back == nil {
		return
	}
	e := back.Value.(*entry)
	delete(c.entries, e.key)
	c.order.Remove(back)
	c.evictions.Add(1)
}

// HasTile reports tile residency without touching LRU order.
func (c *Cache) HasTile(cx, cy int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[c.wrap(cx, cy)]
	return ok
}

// ForEachResident visits every resident tile in unspecified order,
// without touching LRU order.
func (c *Cache) ForEachResident(fn func(*Tile)) {
	c.mu.Lock()
	tiles := make([]*Tile, 0, len(c.entries))
	for _, el := range c.entries {
		tiles = append(tiles, el.Value.(*entry).tile)
	}
	c.mu.Unlock()
	for _, t := range tiles {
		fn(t)
	}
}

// Clear evicts every resident tile.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[key]*list.Element)
	c.order = list.New()
	c.evictions.Add(int64(n))
}

// GetStats snapshots the cache's access counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	resident := len(c.entries)
	c.mu.Unlock()
	return Stats{
		ResidentCount: int64(resident),
		TotalAccesses: c.totalAccesses.Load(),
		CacheHits:     c.cacheHits.Load(),
		CacheMisses:   c.cacheMisses.Load(),
		Evictions:     c.evictions.Load(),
	}
}

// ResetStats zeroes every counter without touching resident tiles.
func (c *Cache) ResetStats() {
	c.totalAccesses.Store(0)
	c.cacheHits.Store(0)
	c.cacheMisses.Store(0)
	c.evictions.Store(0)
}

// WorldTilesX and WorldTilesY report the toroidal grid dimensions.
func (c *Cache) WorldTilesX() int { return c.worldTilesX }
func (c *Cache) WorldTilesY() int { return c.worldTilesY }
