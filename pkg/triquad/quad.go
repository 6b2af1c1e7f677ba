package triquad

import (
	"cmp"
	"math"
	"slices"

	"github.com/chazu/inset/pkg/geom"
)

// merge is a candidate pairing of the triangles on both sides of e.
type merge struct {
	score  float64
	e      edge
	tl, tr Tri
}

// quadScore is 2 for a rectangle and falls linearly with the total
// deviation of the corner angles from 90 degrees.
func quadScore(q [4]int, pts *geom.Points) float64 {
	dev := 0.0
	for i := range 4 {
		dev += math.Abs(Angle(q[(i+3)%4], q[i], q[(i+1)%4], pts) - 90)
	}
	return 2 * (1 - dev/360)
}

// erGraph lists the interior edges whose two triangles form a convex
// quad with a positive score.
func erGraph(tris []Tri, td map[edge]Tri, pts *geom.Points) []merge {
	var er []merge
	for _, t := range tris {
		for i := range 3 {
			a, b := t[i], t[(i+1)%3]
			if a > b {
				continue
			}
			tr, ok := td[edge{b, a}]
			if !ok {
				continue
			}
			c, d := t.other(a, b), tr.other(a, b)
			if !Ccw(c, a, d, pts) || !Ccw(d, b, c, pts) {
				continue
			}
			s := quadScore([4]int{a, d, b, c}, pts)
			if s <= 0 {
				continue
			}
			er = append(er, merge{score: s, e: edge{a, b}, tl: t, tr: tr})
		}
	}
	return er
}

// maxMatch picks a conflict-free set of merges greedily by descending
// score. Equal scores are taken in edge order so the result is
// deterministic.
func maxMatch(er []merge) []merge {
	order := slices.Clone(er)
	slices.SortStableFunc(order, func(x, y merge) int {
		if c := cmp.Compare(y.score, x.score); c != 0 {
			return c
		}
		if c := cmp.Compare(x.e.a, y.e.a); c != 0 {
			return c
		}
		return cmp.Compare(x.e.b, y.e.b)
	})
	used := make(map[Tri]bool)
	var m []merge
	for _, e := range order {
		if used[e.tl] || used[e.tr] {
			continue
		}
		used[e.tl], used[e.tr] = true, true
		m = append(m, e)
	}
	return m
}

// quadrangulate merges matched triangle pairs into quads. Quads come
// first, then the unmatched triangles in their original order.
func quadrangulate(tris []Tri, pts *geom.Points) [][]int {
	if len(tris) <= 1 {
		return faces(tris)
	}
	m := maxMatch(erGraph(tris, triDict(tris), pts))
	used := make(map[Tri]bool)
	out := make([][]int, 0, len(tris)-len(m))
	for _, e := range m {
		c, d := e.tl.other(e.e.a, e.e.b), e.tr.other(e.e.a, e.e.b)
		out = append(out, []int{e.e.a, d, e.e.b, c})
		used[e.tl], used[e.tr] = true, true
	}
	for _, t := range tris {
		if !used[t] {
			out = append(out, []int{t[0], t[1], t[2]})
		}
	}
	return out
}

func faces(tris []Tri) [][]int {
	out := make([][]int, len(tris))
	for i, t := range tris {
		out[i] = []int{t[0], t[1], t[2]}
	}
	return out
}
