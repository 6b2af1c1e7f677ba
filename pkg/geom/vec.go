package geom

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// Unit returns v scaled to length 1, or the zero vector when v is
// shorter than Tol. r2.Unit yields NaNs for the zero vector.
func Unit(v r2.Vec) r2.Vec {
	n := r2.Norm(v)
	if n < Tol {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

// Perp returns v rotated 90 degrees counterclockwise.
func Perp(v r2.Vec) r2.Vec {
	return r2.Vec{X: -v.Y, Y: v.X}
}

// Dist returns the euclidean distance between a and b.
func Dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// SegmentDist returns the distance from p to the closed segment ab.
func SegmentDist(p, a, b r2.Vec) float64 {
	d := r2.Sub(b, a)
	l2 := r2.Norm2(d)
	if l2 == 0 {
		return Dist(p, a)
	}
	t := r2.Dot(r2.Sub(p, a), d) / l2
	t = math.Max(0, math.Min(1, t))
	return Dist(p, r2.Add(a, r2.Scale(t, d)))
}

// ApproxEqualPoints reports whether p and q agree in every coordinate to
// within DistTol. Points of different dimension are never equal.
func ApproxEqualPoints(p, q []float64) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if !scalar.EqualWithinAbs(p[i], q[i], DistTol) {
			return false
		}
	}
	return true
}
