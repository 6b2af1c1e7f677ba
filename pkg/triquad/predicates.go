package triquad

import (
	"math"

	"github.com/chazu/inset/pkg/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// Ccw reports whether a, b, c make a strict counterclockwise turn.
func Ccw(a, b, c int, pts *geom.Points) bool {
	pa := pts.Pos(a)
	return r2.Cross(r2.Sub(pts.Pos(b), pa), r2.Sub(pts.Pos(c), pa)) > geom.Tol
}

// Angle returns the angle at b between b->a and b->c, in degrees. A
// zero-length leg gives 0.
func Angle(a, b, c int, pts *geom.Points) float64 {
	pb := pts.Pos(b)
	u := r2.Sub(pts.Pos(a), pb)
	v := r2.Sub(pts.Pos(c), pb)
	nu, nv := r2.Norm(u), r2.Norm(v)
	if nu == 0 || nv == 0 {
		return 0
	}
	d := r2.Dot(u, v) / (nu * nv)
	d = math.Max(-1, math.Min(1, d))
	return math.Acos(d) * 180 / math.Pi
}

// SegsIntersect reports whether segments a-b and c-d cross at a point
// interior to both.
func SegsIntersect(a, b, c, d int, pts *geom.Points) bool {
	return geom.SegmentsCross(pts.Pos(a), pts.Pos(b), pts.Pos(c), pts.Pos(d))
}

// InCircle reports whether d lies strictly inside the circle through the
// counterclockwise triangle a, b, c.
func InCircle(a, b, c, d int, pts *geom.Points) bool {
	pd := pts.Pos(d)
	ad := r2.Sub(pts.Pos(a), pd)
	bd := r2.Sub(pts.Pos(b), pd)
	cd := r2.Sub(pts.Pos(c), pd)
	det := r2.Norm2(ad)*r2.Cross(bd, cd) -
		r2.Norm2(bd)*r2.Cross(ad, cd) +
		r2.Norm2(cd)*r2.Cross(ad, bd)
	return det > geom.Tol*geom.Tol
}

// AngleKind classifies the turn a->b->c of a ring.
type AngleKind int

const (
	Convex     AngleKind = iota // strict left turn
	Reflex                      // strict right turn
	Tangential                  // straight on
	Ang0                        // doubles back on itself
)

func (k AngleKind) String() string {
	switch k {
	case Convex:
		return "convex"
	case Reflex:
		return "reflex"
	case Tangential:
		return "tangential"
	case Ang0:
		return "ang0"
	default:
		return "unknown"
	}
}

// Classify returns the kind of the turn at b.
func Classify(a, b, c int, pts *geom.Points) AngleKind {
	if Ccw(a, b, c, pts) {
		return Convex
	}
	if Ccw(a, c, b, pts) {
		return Reflex
	}
	pa, pb, pc := pts.Pos(a), pts.Pos(b), pts.Pos(c)
	if r2.Dot(r2.Sub(pb, pa), r2.Sub(pc, pb)) > 0 {
		return Tangential
	}
	return Ang0
}

// inCone reports whether v is strictly inside the cone at b spanned by
// a->b->c, where k is the kind of that turn.
func inCone(v, a, b, c int, k AngleKind, pts *geom.Points) bool {
	switch k {
	case Reflex:
		return Ccw(a, b, v, pts) || Ccw(b, c, v, pts)
	case Tangential:
		return Ccw(a, b, v, pts)
	default:
		return Ccw(a, b, v, pts) && Ccw(b, c, v, pts)
	}
}

func classifyRing(face []int, pts *geom.Points) []AngleKind {
	n := len(face)
	kinds := make([]AngleKind, n)
	for i := range n {
		kinds[i] = Classify(face[(i+n-1)%n], face[i], face[(i+1)%n], pts)
	}
	return kinds
}
