package triquad

import (
	"math"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/inset/pkg/geom"
)

// ErrNoDiagonal is returned when a hole has no vertex of the boundary
// that it can see, which only happens for input that breaks the PolyArea
// contract.
var ErrNoDiagonal = errors.New("no diagonal joins hole to boundary")

// less orders points by x, then y.
func less(p, q r2.Vec) bool {
	return p.X < q.X || (p.X == q.X && p.Y < q.Y)
}

// sortFace rotates face to start at its leftmost vertex.
func sortFace(face []int, pts *geom.Points) []int {
	best := 0
	for i := 1; i < len(face); i++ {
		if less(pts.Pos(face[i]), pts.Pos(face[best])) {
			best = i
		}
	}
	out := make([]int, 0, len(face))
	out = append(out, face[best:]...)
	return append(out, face[:best]...)
}

// leftmost returns the index of the hole whose first vertex is leftmost.
// Holes are expected to be rotated by sortFace already.
func leftmost(holes [][]int, pts *geom.Points) int {
	best := 0
	for i := 1; i < len(holes); i++ {
		if less(pts.Pos(holes[i][0]), pts.Pos(holes[best][0])) {
			best = i
		}
	}
	return best
}

// isDiag reports whether face[i] can be joined to s: s must lie in the
// cone at face[i] and no edge may cross the join.
func isDiag(face []int, i, s int, x *geom.SegmentIndex, pts *geom.Points) bool {
	vm1, v, v1 := at(face, i-1), face[i], at(face, i+1)
	if !inCone(s, vm1, v, v1, Classify(vm1, v, v1, pts), pts) {
		return false
	}
	return !x.Crosses(v, s)
}

// findDiag returns the index of the closest face vertex that hv can be
// joined to, or -1.
func findDiag(face []int, hv int, x *geom.SegmentIndex, pts *geom.Points) int {
	best, bestDist := -1, math.Inf(1)
	for i, fv := range face {
		if !isDiag(face, i, hv, x, pts) {
			continue
		}
		if d := geom.Dist(pts.Pos(fv), pts.Pos(hv)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// joinIslands splices every hole into face through a slit from the
// hole's leftmost vertex, leftmost hole first. The result is one ring
// that repeats the slit endpoints.
func joinIslands(face []int, holes [][]int, pts *geom.Points) ([]int, error) {
	pending := make([][]int, len(holes))
	for i, h := range holes {
		pending[i] = sortFace(h, pts)
	}
	for len(pending) > 0 {
		hi := leftmost(pending, pts)
		hole := pending[hi]
		pending = slices.Delete(pending, hi, hi+1)

		x := geom.NewSegmentIndex(pts, append([][]int{face, hole}, pending...)...)
		d := findDiag(face, hole[0], x, pts)
		if d < 0 {
			return nil, errors.Wrapf(ErrNoDiagonal, "hole at %v", pts.Pos(hole[0]))
		}
		joined := make([]int, 0, len(face)+len(hole)+2)
		joined = append(joined, face[:d+1]...)
		joined = append(joined, hole...)
		joined = append(joined, hole[0], face[d])
		joined = append(joined, face[d+1:]...)
		face = joined
	}
	return face, nil
}
