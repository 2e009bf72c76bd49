package hydrology

import (
	"math"

	"github.com/annel0/terra-engine/internal/worldtile"
)

// direction is one of the 8 D8 neighbor offsets, enumerated in the
// fixed order the router uses for deterministic tie-breaking.
type direction struct {
	dx, dy int
	weight float64
}

var directions = [8]direction{
	{0, -1, 1},                // N
	{1, -1, 1 / math.Sqrt2},   // NE
	{1, 0, 1},                 // E
	{1, 1, 1 / math.Sqrt2},    // SE
	{0, 1, 1},                 // S
	{-1, 1, 1 / math.Sqrt2},   // SW
	{-1, 0, 1},                // W
	{-1, -1, 1 / math.Sqrt2},  // NW
}

// Result reports the outcome of routing a tile for one tick.
type Result struct {
	TotalFlowVolume float64
	ActiveCells     int
	SubSteps        int
}

// RouteTile runs cfg.SubStepsPerTick D8 routing sub-steps over tile,
// optionally reading a ghost border for cross-tile flow. halo may be
// nil, in which case flow toward the tile boundary simply accumulates
// there instead of leaving the tile.
func RouteTile(tile *worldtile.Tile, halo *worldtile.GhostBorder, cfg Config) Result {
	t := tile.T
	n := t * t
	delta := make([]float64, n)
	activeSet := make(map[int]struct{})
	var totalFlow float64

	for step := 0; step < cfg.SubStepsPerTick; step++ {
		for i := range delta {
			delta[i] = 0
		}

		for y := 0; y < t; y++ {
			for x := 0; x < t; x++ {
				idx := y*t + x
				w := float64(tile.WaterDepthM[idx])
				if w < cfg.MinWaterDepthM {
					continue
				}
				s := float64(tile.TerrainHeightM[idx]) + w

				bestS := math.Inf(1)
				bestWinner := -1
				bestWeight := 0.0
				bestIsHalo := false

				for _, d := range directions {
					nx, ny := x+d.dx, y+d.dy
					var sPrime float64
					var winnerIdx int
					isHalo := false
					if nx >= 0 && nx < t && ny >= 0 && ny < t {
						winnerIdx = ny*t + nx
						sPrime = float64(tile.TerrainHeightM[winnerIdx]) + float64(tile.WaterDepthM[winnerIdx])
					} else if halo != nil {
						h, hw := halo.At(nx+1, ny+1)
						sPrime = float64(h) + float64(hw)
						isHalo = true
					} else {
						continue
					}
					if sPrime < bestS {
						bestS = sPrime
						bestWinner = winnerIdx
						bestWeight = d.weight
						bestIsHalo = isHalo
					}
				}

				if bestWinner == -1 && !bestIsHalo {
					continue
				}
				if bestS >= s {
					continue
				}

				flow := math.Min(w, (s-bestS)*0.5) * cfg.FlowFraction * bestWeight
				if flow < cfg.MinWaterDepthM {
					continue
				}

				delta[idx] -= flow
				if !bestIsHalo {
					delta[bestWinner] += flow
					if cfg.TrackRunoffFlux {
						tile.RunoffFlux[bestWinner] += float32(flow)
					}
				}
				totalFlow += flow
				activeSet[idx] = struct{}{}
			}
		}

		for i, d := range delta {
			v := float64(tile.WaterDepthM[i]) + d
			if v < 0 {
				v = 0
			}
			tile.WaterDepthM[i] = float32(v)
		}
	}

	return Result{
		TotalFlowVolume: totalFlow,
		ActiveCells:     len(activeSet),
		SubSteps:        cfg.SubStepsPerTick,
	}
}

// AddPrecipitation adds amountM to every land cell (terrainHeightM >= 0)
// and returns the number of cells touched.
func AddPrecipitation(tile *worldtile.Tile, amountM float64) int {
	count := 0
	for i, h := range tile.TerrainHeightM {
		if h >= 0 {
			tile.WaterDepthM[i] += float32(amountM)
			count++
		}
	}
	return count
}

// AddWaterAtCell adds a point source of amountM at local (lx, ly).
func AddWaterAtCell(tile *worldtile.Tile, lx, ly int, amountM float64) {
	tile.WaterDepthM[ly*tile.T+lx] += float32(amountM)
}

// TotalWaterVolume sums waterDepthM across every cell.
func TotalWaterVolume(tile *worldtile.Tile) float64 {
	var sum float64
	for _, w := range tile.WaterDepthM {
		sum += float64(w)
	}
	return sum
}

// CountWetCells counts cells whose waterDepthM exceeds threshold.
func CountWetCells(tile *worldtile.Tile, threshold float64) int {
	count := 0
	for _, w := range tile.WaterDepthM {
		if float64(w) > threshold {
			count++
		}
	}
	return count
}
