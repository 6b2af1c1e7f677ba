package triquad

import (
	"slices"

	"github.com/chazu/inset/pkg/geom"
)

// Tri is a triangle over registry ids, counterclockwise.
type Tri [3]int

func (t Tri) other(a, b int) int {
	for _, v := range t {
		if v != a && v != b {
			return v
		}
	}
	return -1
}

func at(face []int, i int) int {
	n := len(face)
	return face[((i%n)+n)%n]
}

// earCheck reports whether the diagonal vm1-v1 cuts off a clean ear: no
// reflex or doubled-back vertex lies in or on the triangle, and no ring
// edge crosses the diagonal.
func earCheck(face []int, kinds []AngleKind, vm1, v0, v1 int, x *geom.SegmentIndex, pts *geom.Points) bool {
	for j, fv := range face {
		if fv == vm1 || fv == v0 || fv == v1 {
			continue
		}
		if kinds[j] == Reflex || kinds[j] == Ang0 {
			outside := Ccw(v0, vm1, fv, pts) || Ccw(vm1, v1, fv, pts) || Ccw(v1, v0, fv, pts)
			if !outside {
				return false
			}
		}
	}
	p, q := pts.Pos(vm1), pts.Pos(v1)
	for _, s := range x.Near(p, q) {
		if s.A == vm1 || s.A == v0 || s.A == v1 || s.B == vm1 || s.B == v1 {
			continue
		}
		if SegsIntersect(vm1, v1, s.A, s.B, pts) {
			return false
		}
	}
	return true
}

// isEar reports whether vertex i of face can be clipped. Mode 0 accepts
// only clean convex ears; higher modes relax the test step by step so a
// numerically awkward ring still makes progress.
func isEar(face []int, i int, kinds []AngleKind, mode int, x *geom.SegmentIndex, pts *geom.Points) bool {
	vm2, vm1, v0, v1, v2 := at(face, i-2), at(face, i-1), face[i], at(face, i+1), at(face, i+2)
	if vm1 == v0 || v0 == v1 {
		return mode > 0
	}
	n := len(face)
	k := kinds[i]
	b := k != Reflex
	if mode == 0 {
		b = k == Convex
	}
	c := inCone(vm1, v0, v1, v2, kinds[(i+1)%n], pts) && inCone(v1, vm2, vm1, v0, kinds[(i+n-1)%n], pts)
	if b && c {
		return earCheck(face, kinds, vm1, v0, v1, x, pts)
	}
	switch mode {
	case 0, 1:
		return false
	case 2:
		return SegsIntersect(vm2, vm1, v0, v1, pts)
	case 3:
		return k == Convex
	default:
		return true
	}
}

func findEar(face []int, kinds []AngleKind, x *geom.SegmentIndex, pts *geom.Points) int {
	for mode := range 5 {
		for i := range face {
			if isEar(face, i, kinds, mode, x, pts) {
				return i
			}
		}
	}
	return 0
}

// earChop triangulates the simple ring face by ear clipping. Triangles
// that repeat an id, which come from slit edges, are dropped.
func earChop(face []int, pts *geom.Points) []Tri {
	face = slices.Clone(face)
	x := geom.NewSegmentIndex(pts, face)
	var tris []Tri
	for len(face) > 3 {
		kinds := classifyRing(face, pts)
		i := findEar(face, kinds, x, pts)
		vm1, v0, v1 := at(face, i-1), face[i], at(face, i+1)
		tris = append(tris, Tri{vm1, v0, v1})
		x.Delete(vm1, v0)
		x.Delete(v0, v1)
		x.Insert(vm1, v1)
		face = slices.Delete(face, i, i+1)
	}
	if len(face) == 3 {
		tris = append(tris, Tri{face[0], face[1], face[2]})
	}
	out := tris[:0]
	for _, t := range tris {
		if t[0] != t[1] && t[1] != t[2] && t[0] != t[2] {
			out = append(out, t)
		}
	}
	return out
}
