package geom

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r2"
)

// Segment is a directed edge between two registry ids.
type Segment struct {
	A, B int
}

// SegmentsCross reports whether segments ab and cd cross at a point
// interior to both. Touching at an endpoint, parallel and collinear
// segments do not count.
func SegmentsCross(a, b, c, d r2.Vec) bool {
	u := r2.Sub(b, a)
	v := r2.Sub(d, c)
	w := r2.Sub(a, c)
	pp := r2.Cross(u, v)
	if math.Abs(pp) < Tol {
		return false
	}
	si := r2.Cross(v, w) / pp
	ti := r2.Cross(u, w) / pp
	return 0 < si && si < 1 && 0 < ti && ti < 1
}

type segEntry struct {
	seg  Segment
	rect rtreego.Rect
}

func (e *segEntry) Bounds() rtreego.Rect { return e.rect }

// SegmentIndex is an R-tree over registry segments answering "which
// indexed segments might meet this one" without a scan of every edge.
type SegmentIndex struct {
	pts     *Points
	tree    *rtreego.Rtree
	entries map[Segment][]*segEntry
}

// NewSegmentIndex indexes every edge of the given closed rings.
func NewSegmentIndex(pts *Points, rings ...[]int) *SegmentIndex {
	x := &SegmentIndex{
		pts:     pts,
		tree:    rtreego.NewTree(2, 25, 50),
		entries: make(map[Segment][]*segEntry),
	}
	for _, ring := range rings {
		n := len(ring)
		for i := range n {
			x.Insert(ring[i], ring[(i+1)%n])
		}
	}
	return x
}

func (x *SegmentIndex) rect(p, q r2.Vec) rtreego.Rect {
	r, err := rtreego.NewRectFromPoints(
		rtreego.Point{math.Min(p.X, q.X) - DistTol, math.Min(p.Y, q.Y) - DistTol},
		rtreego.Point{math.Max(p.X, q.X) + DistTol, math.Max(p.Y, q.Y) + DistTol},
	)
	if err != nil {
		panic(fmt.Sprintf("geom: segment rect: %v", err))
	}
	return r
}

// Insert adds the segment a->b.
func (x *SegmentIndex) Insert(a, b int) {
	e := &segEntry{seg: Segment{a, b}, rect: x.rect(x.pts.Pos(a), x.pts.Pos(b))}
	x.entries[e.seg] = append(x.entries[e.seg], e)
	x.tree.Insert(e)
}

// Delete removes one copy of the segment a->b and reports whether one
// was present.
func (x *SegmentIndex) Delete(a, b int) bool {
	s := Segment{a, b}
	es := x.entries[s]
	if len(es) == 0 {
		return false
	}
	e := es[len(es)-1]
	x.entries[s] = es[:len(es)-1]
	return x.tree.Delete(e)
}

// Len returns the number of indexed segments.
func (x *SegmentIndex) Len() int {
	return x.tree.Size()
}

// Near returns the indexed segments whose padded bounding boxes overlap
// the bounding box of p-q.
func (x *SegmentIndex) Near(p, q r2.Vec) []Segment {
	found := x.tree.SearchIntersect(x.rect(p, q))
	out := make([]Segment, len(found))
	for i, s := range found {
		out[i] = s.(*segEntry).seg
	}
	return out
}

// Crosses reports whether any indexed segment crosses the segment between
// ids a and b in the sense of SegmentsCross.
func (x *SegmentIndex) Crosses(a, b int) bool {
	p, q := x.pts.Pos(a), x.pts.Pos(b)
	for _, s := range x.Near(p, q) {
		if SegmentsCross(p, q, x.pts.Pos(s.A), x.pts.Pos(s.B)) {
			return true
		}
	}
	return false
}
