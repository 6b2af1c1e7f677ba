package offset

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/inset/pkg/geom"
)

// front is one wavefront vertex while edge events are applied. The
// segment from it to next lies on the original edge that starts at edge.
type front struct {
	s          *Spoke
	edge       *Spoke
	next, prev *front
}

// meets returns the end point of the hit edge that ev.Spoke lands on, or
// nil when the hit is inside the edge.
func meets(ev Event) *Spoke {
	switch ev.Spoke.Dest {
	case ev.Other.Dest:
		return ev.Other
	case ev.OtherNext.Dest:
		return ev.OtherNext
	}
	return nil
}

// pieceAt returns the vertex whose outgoing segment covers the hit of ev.
// Earlier hits cut the edge into pieces, and a hit on a cut point is
// covered by two of them; the longer one wins so zero-length pieces are
// passed over.
func pieceAt(fronts []*front, ev Event, pts *geom.Points) *front {
	p := geom.Unit(r2.Sub(ev.OtherNext.at, ev.Other.at))
	base := pts.Pos(ev.Other.Dest)
	along := func(f *front) float64 {
		return r2.Dot(r2.Sub(pts.Pos(f.s.Dest), base), p)
	}
	var best *front
	bestLen := -1.0
	for _, f := range fronts {
		if f.edge != ev.Other {
			continue
		}
		a, b := along(f), along(f.next)
		if ev.W < a-geom.DistTol || ev.W > b+geom.DistTol || b-a <= bestLen {
			continue
		}
		best, bestLen = f, b-a
	}
	return best
}

// splitJoin applies edge events to the spoke rings. The spoke that hits
// an edge is spliced into the piece of the edge under the hit: the piece
// start now leads to the spoke, and a copy of the spoke leads on to the
// piece end. When spoke and edge share a ring this splits it in two.
// Otherwise the two rings join into one. Two reflex spokes that land on
// each other's edge end points are one collision, applied once. The
// applied events are returned with the new rings.
func splitJoin(rings [][]*Spoke, ee []Event, pts *geom.Points) ([][]*Spoke, []Event, error) {
	var fronts []*front
	own := make(map[*Spoke]*front)
	for _, r := range rings {
		n := len(r)
		fs := make([]*front, n)
		for i, s := range r {
			fs[i] = &front{s: s, edge: s}
			own[s] = fs[i]
		}
		for i, f := range fs {
			f.next, f.prev = fs[(i+1)%n], fs[(i+n-1)%n]
		}
		fronts = append(fronts, fs...)
	}

	type pair struct{ a, b *Spoke }
	met := make(map[pair]bool)
	var applied []Event
	for _, ev := range ee {
		s := ev.Spoke
		if x := meets(ev); x != nil {
			if met[pair{x, s}] || met[pair{s, x}] {
				continue
			}
			met[pair{s, x}] = true
		}
		u := pieceAt(fronts, ev, pts)
		if u == nil {
			return nil, nil, errors.Wrapf(ErrUnsupported, "edge for %v not in wavefront", ev)
		}
		sn, ok := own[s]
		if !ok {
			return nil, nil, errors.Wrapf(ErrUnsupported, "spoke for %v not in wavefront", ev)
		}
		v, pn := u.next, sn.prev
		if u == sn || v == sn {
			continue
		}
		cp := &front{s: s, edge: ev.Other, prev: pn, next: v}
		pn.next, v.prev = cp, cp
		u.next, sn.prev = sn, u
		fronts = append(fronts, cp)
		applied = append(applied, ev)
	}

	seen := make(map[*front]bool)
	var out [][]*Spoke
	for _, f := range fronts {
		if seen[f] {
			continue
		}
		var ring []*Spoke
		for x := f; !seen[x]; x = x.next {
			seen[x] = true
			ring = append(ring, x.s)
		}
		out = append(out, ring)
	}
	return out, applied, nil
}

// clean removes repeated consecutive ids and spikes (a vertex whose
// neighbours coincide) until neither is left, then drops rings with two
// or fewer vertices or area below geom.AreaTol.
func clean(faces [][]int, pts *geom.Points) [][]int {
	var out [][]int
	for _, f := range faces {
		for changed := true; changed && len(f) > 2; {
			changed = false
			n := len(f)
			g := lo.Filter(f, func(v int, i int) bool { return v != f[(i+n-1)%n] })
			if len(g) != n {
				changed = true
			}
			f = g
			if len(f) <= 2 {
				break
			}
			n = len(f)
			for i := range n {
				if f[(i+n-1)%n] == f[(i+1)%n] {
					drop := (i + 1) % n
					f = lo.Filter(f, func(_ int, j int) bool { return j != i && j != drop })
					changed = true
					break
				}
			}
		}
		if len(f) <= 2 || math.Abs(geom.SignedArea(f, pts)) < geom.AreaTol {
			continue
		}
		out = append(out, f)
	}
	return out
}

// group turns cleaned rings into polygons with holes. A ring with
// positive area is a boundary and one with negative area is a hole. Each
// hole goes to the smallest boundary that strictly contains one of its
// vertices. Holes with no such boundary are dropped.
func group(faces [][]int, pts *geom.Points) []*geom.PolyArea {
	var areas []*geom.PolyArea
	var holes [][]int
	for _, f := range faces {
		if geom.SignedArea(f, pts) > 0 {
			areas = append(areas, geom.NewPolyArea(pts, f))
		} else {
			holes = append(holes, f)
		}
	}
	for _, h := range holes {
		best := -1
		for k, pa := range areas {
			inside := lo.ContainsBy(h, func(v int) bool {
				return geom.PointInside(pts.Pos(v), pa.Poly, pts) == 1
			})
			if !inside {
				continue
			}
			if best < 0 || geom.SignedArea(pa.Poly, pts) < geom.SignedArea(areas[best].Poly, pts) {
				best = k
			}
		}
		if best < 0 {
			Logger().Warn("dropping hole outside every boundary", "vertices", len(h))
			continue
		}
		areas[best].Holes = append(areas[best].Holes, h)
	}
	return areas
}
