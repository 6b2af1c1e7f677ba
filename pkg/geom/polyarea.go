package geom

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Color is an RGB triple in [0,1], carried through untouched for the
// mesh pipeline.
type Color [3]float64

// PolyArea is a polygon with holes over registry ids. Poly runs
// counterclockwise; each hole runs clockwise and lies inside Poly. Both
// are implicitly closed.
type PolyArea struct {
	Points *Points
	Poly   []int
	Holes  [][]int
	Color  Color
}

// NewPolyArea returns a PolyArea over pts. A nil pts gets a fresh
// registry.
func NewPolyArea(pts *Points, poly []int, holes ...[]int) *PolyArea {
	if pts == nil {
		pts = NewPoints()
	}
	return &PolyArea{Points: pts, Poly: poly, Holes: holes}
}

// Rings returns the boundary followed by the holes.
func (pa *PolyArea) Rings() [][]int {
	return append([][]int{pa.Poly}, pa.Holes...)
}

// Area returns the net area: the boundary's signed area plus the
// (negative) signed areas of the holes.
func (pa *PolyArea) Area() float64 {
	return SignedArea(pa.Poly, pa.Points) + lo.SumBy(pa.Holes, func(h []int) float64 {
		return SignedArea(h, pa.Points)
	})
}

// AddHole adds the boundary of other as a hole of pa. The boundary is
// re-registered in pa's registry and reversed, so a counterclockwise
// outline becomes a clockwise hole. Holes of other are ignored.
func (pa *PolyArea) AddHole(other *PolyArea) {
	hole := slices.Clone(other.Poly)
	if other.Points != pa.Points {
		vmap := pa.Points.AddPoints(other.Points)
		hole = lo.Map(hole, func(v int, _ int) int { return vmap[v] })
	}
	pa.Holes = append(pa.Holes, lo.Reverse(hole))
}

// Contains classifies v against the whole area: 1 inside the material,
// -1 outside or inside a hole, 0 on any ring.
func (pa *PolyArea) Contains(v r2.Vec) int {
	in := PointInside(v, pa.Poly, pa.Points)
	if in != 1 {
		return in
	}
	for _, h := range pa.Holes {
		switch PointInside(v, h, pa.Points) {
		case 0:
			return 0
		case 1:
			return -1
		}
	}
	return 1
}

// Bounds returns the bounding box of the boundary.
func (pa *PolyArea) Bounds() r2.Box {
	return pa.Points.Bounds(pa.Poly...)
}

// Coords returns the coordinates of ring in order.
func (pa *PolyArea) Coords(ring []int) []r2.Vec {
	return lo.Map(ring, func(v int, _ int) r2.Vec { return pa.Points.Pos(v) })
}

// SignedArea returns the shoelace area of ring: positive when it runs
// counterclockwise, negative when clockwise.
func SignedArea(ring []int, pts *Points) float64 {
	n := len(ring)
	a := 0.0
	for i := range n {
		u := pts.Pos(ring[i])
		v := pts.Pos(ring[(i+1)%n])
		a += r2.Cross(u, v)
	}
	return 0.5 * a
}

// PointInside classifies v against the closed ring: 1 inside, -1
// outside, 0 on a vertex or edge. The result does not depend on the
// ring's orientation.
//
// This is the crossings test from Haines, "Point in Polygon Strategies",
// Graphics Gems IV.
func PointInside(v r2.Vec, ring []int, pts *Points) int {
	n := len(ring)
	if n == 0 {
		return -1
	}
	p0 := pts.Pos(ring[n-1])
	for i := range n {
		p1 := pts.Pos(ring[i])
		if p1 == v || SegmentDist(v, p0, p1) < Tol {
			return 0
		}
		p0 = p1
	}
	inside := false
	p0 = pts.Pos(ring[n-1])
	yflag0 := p0.Y > v.Y
	for i := range n {
		p1 := pts.Pos(ring[i])
		yflag1 := p1.Y > v.Y
		if yflag0 != yflag1 {
			xflag0 := p0.X > v.X
			xflag1 := p1.X > v.X
			if xflag0 == xflag1 {
				if xflag0 {
					inside = !inside
				}
			} else {
				z := p1.X - (p1.Y-v.Y)*(p0.X-p1.X)/(p0.Y-p1.Y)
				if z >= v.X {
					inside = !inside
				}
			}
		}
		p0 = p1
		yflag0 = yflag1
	}
	if inside {
		return 1
	}
	return -1
}

// PolyAreas is a set of PolyArea values sharing one registry.
type PolyAreas struct {
	Points *Points
	Areas  []*PolyArea
}

// NewPolyAreas returns an empty set over a fresh registry.
func NewPolyAreas() *PolyAreas {
	return &PolyAreas{Points: NewPoints()}
}

// Add appends pa, re-registering its rings when it uses another registry.
func (pas *PolyAreas) Add(pa *PolyArea) *PolyArea {
	if pa.Points != pas.Points {
		vmap := pas.Points.AddPoints(pa.Points)
		remap := func(ring []int, _ int) []int {
			return lo.Map(ring, func(v int, _ int) int { return vmap[v] })
		}
		pa = &PolyArea{
			Points: pas.Points,
			Poly:   remap(pa.Poly, 0),
			Holes:  lo.Map(pa.Holes, remap),
			Color:  pa.Color,
		}
	}
	pas.Areas = append(pas.Areas, pa)
	return pa
}

// Bounds returns the bounding box of every boundary.
func (pas *PolyAreas) Bounds() r2.Box {
	ids := lo.Flatten(lo.Map(pas.Areas, func(pa *PolyArea, _ int) []int { return pa.Poly }))
	if len(ids) == 0 {
		return r2.Box{}
	}
	return pas.Points.Bounds(ids...)
}

// ScaleAndCenter scales uniformly so the longer side of Bounds becomes
// side, and moves the center of Bounds to the origin. Ids are unchanged.
func (pas *PolyAreas) ScaleAndCenter(side float64) {
	b := pas.Bounds()
	size := b.Size()
	span := max(size.X, size.Y)
	scale := 1.0
	if span > 0 {
		scale = side / span
	}
	c := b.Center()
	pas.Points.Transform(func(v r2.Vec) r2.Vec {
		return r2.Scale(scale, r2.Sub(v, c))
	})
}
