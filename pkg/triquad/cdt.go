package triquad

import (
	"slices"

	"github.com/chazu/inset/pkg/geom"
)

type edge struct{ a, b int }

// borderEdges collects the directed edges of the given rings. Those
// edges are constraints that are never flipped.
func borderEdges(rings ...[]int) map[edge]bool {
	bord := make(map[edge]bool)
	for _, r := range rings {
		n := len(r)
		for i := range n {
			bord[edge{r[i], r[(i+1)%n]}] = true
		}
	}
	return bord
}

// triDict maps each directed edge to the triangle it belongs to.
func triDict(tris []Tri) map[edge]Tri {
	td := make(map[edge]Tri, 3*len(tris))
	for _, t := range tris {
		addTri(td, t)
	}
	return td
}

func addTri(td map[edge]Tri, t Tri) {
	for i := range 3 {
		td[edge{t[i], t[(i+1)%3]}] = t
	}
}

// isReversed reports whether the interior edge a-b is not locally
// Delaunay: the apex of the triangle on its right lies inside the
// circumcircle of the triangle on its left.
func isReversed(e edge, td map[edge]Tri, pts *geom.Points) bool {
	tl, okl := td[e]
	tr, okr := td[edge{e.b, e.a}]
	if !okl || !okr {
		return false
	}
	return InCircle(e.a, e.b, tl.other(e.a, e.b), tr.other(e.a, e.b), pts)
}

func reversedEdges(tris []Tri, td map[edge]Tri, bord map[edge]bool, pts *geom.Points) []edge {
	var out []edge
	for _, t := range tris {
		for i := range 3 {
			e := edge{t[i], t[(i+1)%3]}
			if bord[e] || bord[edge{e.b, e.a}] || e.a > e.b {
				continue
			}
			if isReversed(e, td, pts) {
				out = append(out, e)
			}
		}
	}
	return out
}

// cdt flips non-border edges until every interior edge is locally
// Delaunay. The result is sorted.
func cdt(tris []Tri, bord map[edge]bool, pts *geom.Points) []Tri {
	td := triDict(tris)
	re := reversedEdges(tris, td, bord, pts)
	ts := slices.Clone(tris)
	budget := 10*len(ts)*len(ts) + 10
	flips := 0
	for len(re) > 0 && flips < budget {
		e := re[len(re)-1]
		re = re[:len(re)-1]
		tl, okl := td[e]
		tr, okr := td[edge{e.b, e.a}]
		if !okl || !okr || !isReversed(e, td, pts) {
			continue
		}
		c, d := tl.other(e.a, e.b), tr.other(e.a, e.b)
		if !Ccw(c, e.a, d, pts) || !Ccw(c, d, e.b, pts) {
			continue
		}
		n1, n2 := Tri{c, e.a, d}, Tri{c, d, e.b}
		delete(td, e)
		delete(td, edge{e.b, e.a})
		addTri(td, n1)
		addTri(td, n2)
		ts = slices.DeleteFunc(ts, func(t Tri) bool { return t == tl || t == tr })
		ts = append(ts, n1, n2)
		flips++
		re = append(re, reversedEdges([]Tri{n1, n2}, td, bord, pts)...)
	}
	if len(re) > 0 {
		Logger().Warn("flip budget exhausted", "flips", flips, "pending", len(re))
	}
	slices.SortFunc(ts, func(a, b Tri) int { return slices.Compare(a[:], b[:]) })
	return ts
}
