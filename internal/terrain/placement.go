package terrain

import (
	"math"

	"github.com/annel0/terra-engine/internal/rng"
)

// center is a continent seed: a point of influence radius R that
// contributes to continentalness via a smooth falloff.
type center struct {
	X, Y     float64
	R        float64
	Strength float64
}

// belt is a mountain range: an oriented ellipse around a major
// continent's neighborhood that adds a ridged peak contribution inside
// its footprint.
type belt struct {
	Cx, Cy         float64
	Phi            float64
	HalfLength     float64
	HalfWidth      float64
	Peak           float64
}

// toroidalDelta returns a-b wrapped to the shortest signed offset on a
// circle of circumference span, so downstream rotation/falloff math sees
// a coordinate difference that never exceeds span/2 in magnitude.
func toroidalDelta(a, b, span float64) float64 {
	d := a - b
	d = math.Mod(d, span)
	if d > span/2 {
		d -= span
	} else if d < -span/2 {
		d += span
	}
	return d
}

// toroidalDistance is the Euclidean distance between (ax,ay) and (bx,by)
// on a W x H torus.
func toroidalDistance(ax, ay, bx, by, w, h float64) float64 {
	dx := toroidalDelta(ax, bx, w)
	dy := toroidalDelta(ay, by, h)
	return math.Hypot(dx, dy)
}

func wrapCoord(v, span float64) float64 {
	v = math.Mod(v, span)
	if v < 0 {
		v += span
	}
	return v
}

// placeCenters runs the Poisson-like placement rule: for each of count
// candidates, draw up to attempts uniform points, keeping the first
// whose toroidal distance to every already-placed center (including
// avoid) exceeds minDist. If every attempt fails the threshold, the
// attempt that maximized the minimum distance is kept instead.
func placeCenters(stream *rng.Stream, count int, radius, minDist float64, avoid []center, w, h float64, attempts int) ([]center, error) {
	placed := make([]center, 0, count)
	all := func() []center {
		combined := make([]center, 0, len(avoid)+len(placed))
		combined = append(combined, avoid...)
		combined = append(combined, placed...)
		return combined
	}
	for i := 0; i < count; i++ {
		var bestX, bestY, bestMinDist float64
		bestMinDist = -1
		found := false
		existing := all()
		for a := 0; a < attempts; a++ {
			x := stream.Float() * w
			y := stream.Float() * h
			md := math.Inf(1)
			for _, c := range existing {
				if d := toroidalDistance(x, y, c.X, c.Y, w, h); d < md {
					md = d
				}
			}
			if len(existing) == 0 {
				md = math.Inf(1)
			}
			if md > bestMinDist {
				bestMinDist, bestX, bestY = md, x, y
			}
			if md > minDist {
				bestX, bestY = x, y
				found = true
				break
			}
		}
		_ = found
		placed = append(placed, center{X: bestX, Y: bestY, R: radius, Strength: 1.0})
	}
	return placed, nil
}

// placeBelts places count mountain belts anchored around the major
// continents in majors, cycling through them round-robin.
func placeBelts(stream *rng.Stream, count int, majors []center, w, h float64, length, width, peak Range) []belt {
	belts := make([]belt, 0, count)
	for i := 0; i < count; i++ {
		m := majors[i%len(majors)]
		theta := stream.Float() * 2 * math.Pi
		r := stream.Float() * 0.6 * m.R
		cx := wrapCoord(m.X+math.Cos(theta)*r, w)
		cy := wrapCoord(m.Y+math.Sin(theta)*r, h)
		phi := stream.Float() * math.Pi
		l := length.Lo + stream.Float()*(length.Hi-length.Lo)
		wd := width.Lo + stream.Float()*(width.Hi-width.Lo)
		pk := peak.Lo + stream.Float()*(peak.Hi-peak.Lo)
		belts = append(belts, belt{
			Cx: cx, Cy: cy, Phi: phi,
			HalfLength: l / 2 * 1000, HalfWidth: wd / 2 * 1000, Peak: pk,
		})
	}
	return belts
}

// smoothFalloff is the quintic smoothstep falloff used for continent
// influence: 0 at d>=R, 1 at d=0.
func smoothFalloff(d, r float64) float64 {
	if d >= r {
		return 0
	}
	t := 1 - d/r
	return t * t * t * (t*(t*6-15) + 10)
}

// beltMask evaluates a belt's rotated elliptical cubic falloff at
// (x, y): 0 outside its footprint, up to 1 at its center line.
func beltMask(x, y float64, b belt, w, h float64) float64 {
	dx := toroidalDelta(x, b.Cx, w)
	dy := toroidalDelta(y, b.Cy, h)
	along := dx*math.Cos(b.Phi) + dy*math.Sin(b.Phi)
	across := -dx*math.Sin(b.Phi) + dy*math.Cos(b.Phi)
	u := along / b.HalfLength
	v := across / b.HalfWidth
	rho2 := u*u + v*v
	if rho2 >= 1 {
		return 0
	}
	root := math.Sqrt(rho2)
	return (1 - root) * (1 - root) * (1 - root)
}
