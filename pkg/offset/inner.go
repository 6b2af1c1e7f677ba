package offset

import (
	"cmp"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/chazu/inset/pkg/geom"
)

// Layers returns o and every nested layer, depth first.
func (o *Offset) Layers() []*Offset {
	out := []*Offset{o}
	for _, c := range o.Inner {
		out = append(out, c.Layers()...)
	}
	return out
}

// Depth returns how many layers enclose o. The root has depth 0.
func (o *Offset) Depth() int {
	return o.depth
}

// MaxAmount returns the latest time reached anywhere in the tree. After
// an unbounded Build this is the time at which the polygon vanishes.
func (o *Offset) MaxAmount() float64 {
	m := o.TimeSoFar + o.EndTime
	for _, c := range o.Inner {
		m = math.Max(m, c.MaxAmount())
	}
	return m
}

// InnerPolyAreas returns the polygons of the innermost layers, sharing
// o's registry. A leaf that advanced shrank to nothing and contributes no
// polygon. Degenerate rings are left out.
func (o *Offset) InnerPolyAreas() *geom.PolyAreas {
	pas := &geom.PolyAreas{Points: o.Points}
	for _, l := range o.Layers() {
		if len(l.Inner) > 0 || l.EndTime > 0 {
			continue
		}
		pa := l.Area
		if len(pa.Poly) <= 2 || math.Abs(geom.SignedArea(pa.Poly, pa.Points)) < geom.AreaTol {
			continue
		}
		out := &geom.PolyArea{Points: pa.Points, Poly: pa.Poly, Color: pa.Color}
		for _, h := range pa.Holes {
			if len(h) > 2 && math.Abs(geom.SignedArea(h, pa.Points)) >= geom.AreaTol {
				out.Holes = append(out.Holes, h)
			}
		}
		pas.Areas = append(pas.Areas, out)
	}
	return pas
}

// Remaining returns the polygons left once Build stopped: the innermost
// layers that were not advanced. A layer that advanced without spawning
// an inner layer shrank to nothing and is left out.
func (o *Offset) Remaining() []*geom.PolyArea {
	var out []*geom.PolyArea
	for _, l := range o.Layers() {
		if len(l.Inner) > 0 || l.EndTime > 0 {
			continue
		}
		pa := l.Area
		if len(pa.Poly) <= 2 || math.Abs(geom.SignedArea(pa.Poly, pa.Points)) < geom.AreaTol {
			continue
		}
		out = append(out, pa)
	}
	return out
}

// Wall is a side face swept by one wavefront edge during a layer: the
// edge Origin[0]->Origin[1] at height Bottom rises to Dest[1]->Dest[0]
// at height Top. Hits are the vertices edge events left on the top edge,
// ordered from Dest[0] to Dest[1]; the next layer starts from them.
type Wall struct {
	Origin [2]int
	Dest   [2]int
	Hits   []int
	Bottom float64
	Top    float64
}

func (w Wall) top() []int {
	top := []int{w.Dest[1]}
	for i := len(w.Hits) - 1; i >= 0; i-- {
		top = append(top, w.Hits[i])
	}
	top = append(top, w.Dest[0])
	return lo.Filter(top, func(v int, i int) bool { return i == 0 || v != top[i-1] })
}

// Triangle reports whether the top edge shrank to a point.
func (w Wall) Triangle() bool {
	return len(w.top()) == 1
}

// Face returns the wall's vertex ids. The first two sit at Bottom and the
// rest at Top, running from Dest[1] back to Dest[0].
func (w Wall) Face() []int {
	return append([]int{w.Origin[0], w.Origin[1]}, w.top()...)
}

// Walls returns the side faces of every layer that advanced. Heights are
// times scaled by the vertical speed. Top edges carry the edge event
// vertices, so walls and the next layer share every vertex.
func (o *Offset) Walls() []Wall {
	var out []Wall
	for _, l := range o.Layers() {
		if l.EndTime <= 0 {
			continue
		}
		bottom := l.TimeSoFar * l.cfg.verticalSpeed
		top := (l.TimeSoFar + l.EndTime) * l.cfg.verticalSpeed
		hits := lo.GroupBy(l.hits, func(ev Event) *Spoke { return ev.Other })
		for _, ring := range l.Spokes {
			n := len(ring)
			for i, s := range ring {
				t := ring[(i+1)%n]
				on := hits[s]
				slices.SortFunc(on, func(a, b Event) int { return cmp.Compare(a.W, b.W) })
				out = append(out, Wall{
					Origin: [2]int{s.Origin, t.Origin},
					Dest:   [2]int{s.Dest, t.Dest},
					Hits:   lo.Map(on, func(ev Event, _ int) int { return ev.Spoke.Dest }),
					Bottom: bottom,
					Top:    top,
				})
			}
		}
	}
	return out
}

// Height maps a time to a height with the configured vertical speed.
func (o *Offset) Height(t float64) float64 {
	return t * o.cfg.verticalSpeed
}
