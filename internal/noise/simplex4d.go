// Package noise implements 4D simplex noise embedded on a 4-torus, the
// substrate the terrain pipeline builds its continent, warp, coastline,
// ridge, and hill layers on top of.
package noise

import (
	"math"

	"github.com/annel0/terra-engine/internal/rng"
)

var (
	f4 = (math.Sqrt(5) - 1.0) / 4.0
	g4 = (5.0 - math.Sqrt(5)) / 20.0
)

// grad4 holds the 32 gradient vectors used by the 4D simplex kernel:
// every 4D hypercube corner with exactly one zero component.
var grad4 = [32][4]float64{
	{0, 1, 1, 1}, {0, 1, 1, -1}, {0, 1, -1, 1}, {0, 1, -1, -1},
	{0, -1, 1, 1}, {0, -1, 1, -1}, {0, -1, -1, 1}, {0, -1, -1, -1},
	{1, 0, 1, 1}, {1, 0, 1, -1}, {1, 0, -1, 1}, {1, 0, -1, -1},
	{-1, 0, 1, 1}, {-1, 0, 1, -1}, {-1, 0, -1, 1}, {-1, 0, -1, -1},
	{1, 1, 0, 1}, {1, 1, 0, -1}, {1, -1, 0, 1}, {1, -1, 0, -1},
	{-1, 1, 0, 1}, {-1, 1, 0, -1}, {-1, -1, 0, 1}, {-1, -1, 0, -1},
	{1, 1, 1, 0}, {1, 1, -1, 0}, {1, -1, 1, 0}, {1, -1, -1, 0},
	{-1, 1, 1, 0}, {-1, 1, -1, 0}, {-1, -1, 1, 0}, {-1, -1, -1, 0},
}

// simplexOrder ranks, for each of the 64 possible orderings of the four
// fractional coordinates (encoded as a 6-bit comparison mask), which
// axis is added first, second, and third when walking from the corner
// with all-zero offsets to the corner with all-one offsets. This is the
// standard lookup table for the 4D simplex decomposition.
var simplexOrder = [64][4]int{
	{0, 1, 2, 3}, {0, 1, 3, 2}, {0, 0, 0, 0}, {0, 2, 3, 1}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {1, 2, 3, 0},
	{0, 2, 1, 3}, {0, 0, 0, 0}, {0, 3, 1, 2}, {0, 3, 2, 1}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {1, 3, 2, 0},
	{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0},
	{1, 2, 0, 3}, {0, 0, 0, 0}, {1, 3, 0, 2}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {2, 3, 0, 1}, {2, 3, 1, 0},
	{1, 0, 2, 3}, {1, 0, 3, 2}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {2, 0, 3, 1}, {0, 0, 0, 0}, {2, 1, 3, 0},
	{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0},
	{2, 0, 1, 3}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {3, 0, 1, 2}, {3, 0, 2, 1}, {0, 0, 0, 0}, {3, 1, 2, 0},
	{2, 1, 0, 3}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {3, 1, 0, 2}, {0, 0, 0, 0}, {3, 2, 0, 1}, {3, 2, 1, 0},
}

// Simplex4D is a seeded 4D simplex noise field with a 512-entry
// doubled permutation table built by Fisher-Yates over the identity
// permutation, using nextUint32 for index selection.
type Simplex4D struct {
	perm [512]int
}

// NewSimplex4D builds the permutation table for seed.
func NewSimplex4D(seed uint32) *Simplex4D {
	var identity [256]int
	for i := range identity {
		identity[i] = i
	}
	state := seed
	for i := 255; i >= 1; i-- {
		var r uint32
		r, state = rng.NextUint32(state)
		j := int(r % uint32(i+1))
		identity[i], identity[j] = identity[j], identity[i]
	}
	s := &Simplex4D{}
	for i := 0; i < 512; i++ {
		s.perm[i] = identity[i&255]
	}
	return s
}

func fastFloor(x float64) int {
	xi := int(x)
	if x < float64(xi) {
		return xi - 1
	}
	return xi
}

func dot4(g [4]float64, x, y, z, w float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z + g[3]*w
}

func (s *Simplex4D) gradIndex(i, j, k, l int) int {
	ii, jj, kk, ll := i&255, j&255, k&255, l&255
	return s.perm[ii+s.perm[jj+s.perm[kk+s.perm[ll&511]&511]&511]&511] % 32
}

// Noise evaluates the field at (x, y, z, w), returning a value in
// approximately [-1, 1].
func (s *Simplex4D) Noise(x, y, z, w float64) float64 {
	sum := (x + y + z + w) * f4
	i, j, k, l := fastFloor(x+sum), fastFloor(y+sum), fastFloor(z+sum), fastFloor(w+sum)

	t := float64(i+j+k+l) * g4
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)
	z0 := z - (float64(k) - t)
	w0 := w - (float64(l) - t)

	c := 0
	if x0 > y0 {
		c |= 32
	}
	if x0 > z0 {
		c |= 16
	}
	if y0 > z0 {
		c |= 8
	}
	if x0 > w0 {
		c |= 4
	}
	if y0 > w0 {
		c |= 2
	}
	if z0 > w0 {
		c |= 1
	}
	rank := simplexOrder[c]
	step := func(threshold int) (int, int, int, int) {
		b := func(v int) int {
			if v >= threshold {
				return 1
			}
			return 0
		}
		return b(rank[0]), b(rank[1]), b(rank[2]), b(rank[3])
	}

	i1, j1, k1, l1 := step(3)
	i2, j2, k2, l2 := step(2)
	i3, j3, k3, l3 := step(1)

	x1, y1, z1, w1 := x0-float64(i1)+g4, y0-float64(j1)+g4, z0-float64(k1)+g4, w0-float64(l1)+g4
	x2, y2, z2, w2 := x0-float64(i2)+2*g4, y0-float64(j2)+2*g4, z0-float64(k2)+2*g4, w0-float64(l2)+2*g4
	x3, y3, z3, w3 := x0-float64(i3)+3*g4, y0-float64(j3)+3*g4, z0-float64(k3)+3*g4, w0-float64(l3)+3*g4
	x4, y4, z4, w4 := x0-1+4*g4, y0-1+4*g4, z0-1+4*g4, w0-1+4*g4

	corner := func(dx, dy, dz, dw float64, gi int) float64 {
		t := 0.6 - dx*dx - dy*dy - dz*dz - dw*dw
		if t < 0 {
			return 0
		}
		t *= t
		return t * t * dot4(grad4[gi], dx, dy, dz, dw)
	}

	n0 := corner(x0, y0, z0, w0, s.gradIndex(i, j, k, l))
	n1 := corner(x1, y1, z1, w1, s.gradIndex(i+i1, j+j1, k+k1, l+l1))
	n2 := corner(x2, y2, z2, w2, s.gradIndex(i+i2, j+j2, k+k2, l+l2))
	n3 := corner(x3, y3, z3, w3, s.gradIndex(i+i3, j+j3, k+k3, l+l3))
	n4 := corner(x4, y4, z4, w4, s.gradIndex(i+1, j+1, k+1, l+1))

	return 27.0 * (n0 + n1 + n2 + n3 + n4)
}
