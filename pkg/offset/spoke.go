package offset

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/inset/pkg/geom"
	"github.com/chazu/inset/pkg/triquad"
)

// SpeedSentinel is the speed of a spoke whose bisector is undefined or
// whose corner is so sharp that it would move without bound.
const SpeedSentinel = 1e7

// Spoke is the ray a wavefront vertex travels along. Its speed is
// chosen so both adjacent edges move inward at unit rate.
type Spoke struct {
	Origin int // registry id of the start vertex
	Dest   int // registry id of the end vertex, set by Build
	Dir    r2.Vec
	Speed  float64
	Reflex bool

	at r2.Vec
}

// NewSpoke returns the spoke at vertex v of a ring whose neighbours are
// prev and next, with the material on the left of prev->v->next.
func NewSpoke(v, prev, next int, pts *geom.Points) *Spoke {
	s := &Spoke{Origin: v, Dest: v, at: pts.Pos(v)}
	uin := geom.Unit(r2.Sub(s.at, pts.Pos(prev)))
	uout := geom.Unit(r2.Sub(pts.Pos(next), s.at))
	avg := r2.Scale(0.5, r2.Add(uin, uout))
	if r2.Norm(avg) < geom.Tol {
		s.Dir = uout
		s.Speed = SpeedSentinel
		return s
	}
	s.Dir = geom.Perp(geom.Unit(avg))
	s.Reflex = triquad.Ccw(next, v, prev, pts)
	ang := triquad.Angle(prev, v, next, pts) * math.Pi / 180
	if sn := math.Sin(ang / 2); math.Abs(sn) < geom.Tol {
		s.Speed = SpeedSentinel
	} else {
		s.Speed = 1 / sn
	}
	return s
}

// EndPoint returns where the spoke is at time t.
func (s *Spoke) EndPoint(t float64) r2.Vec {
	return r2.Add(s.at, r2.Scale(s.Speed*t, s.Dir))
}

func (s *Spoke) velocity() r2.Vec {
	return r2.Scale(s.Speed, s.Dir)
}

// VertexEvent returns the event at which s and o reach the point where
// their rays cross. The time is that of the later arrival. It reports
// false when the rays are parallel or cross behind either origin.
func (s *Spoke) VertexEvent(o *Spoke) (Event, bool) {
	u, v := s.Dir, o.Dir
	w := r2.Sub(s.at, o.at)
	pp := r2.Cross(u, v)
	if math.Abs(pp) < geom.Tol {
		return Event{}, false
	}
	si := r2.Cross(v, w) / pp
	ti := r2.Cross(u, w) / pp
	if si < 0 || ti < 0 {
		return Event{}, false
	}
	return Event{
		Vertex: true,
		Time:   math.Max(si/s.Speed, ti/o.Speed),
		Pos:    r2.Add(s.at, r2.Scale(si, u)),
		Spoke:  s,
		Other:  o,
	}, true
}

// EdgeEvent returns the event at which s reaches the advancing edge
// from o to onext. The edge keeps its direction while its end points
// move along their spokes. It reports false when the system has no
// solution, or when the hit falls before time 0 or outside the edge.
func (s *Spoke) EdgeEvent(o, onext *Spoke) (Event, bool) {
	p := geom.Unit(r2.Sub(onext.at, o.at))
	sv, ov, nv := s.velocity(), o.velocity(), onext.velocity()

	// s.at + t*sv == o.at + t*ov + w*p, solved for t and w
	a, d := s.at.X-o.at.X, s.at.Y-o.at.Y
	b, e := ov.X-sv.X, ov.Y-sv.Y
	c, f := p.X, p.Y
	var t, w float64
	switch {
	case math.Abs(c) > geom.Tol:
		dem := e - f*b/c
		if math.Abs(dem) <= geom.Tol {
			return Event{}, false
		}
		t = (d - f*a/c) / dem
		w = (a - b*t) / c
	case math.Abs(f) > geom.Tol:
		dem := b - c*e/f
		if math.Abs(dem) <= geom.Tol {
			return Event{}, false
		}
		t = (a - c*d/f) / dem
		w = (d - e*t) / f
	default:
		return Event{}, false
	}
	if t < 0 || w < 0 {
		return Event{}, false
	}

	// the same point measured back from onext along -p
	aa, dd := s.at.X-onext.at.X, s.at.Y-onext.at.Y
	bb, ee := nv.X-sv.X, nv.Y-sv.Y
	var ww float64
	switch {
	case math.Abs(c) > geom.Tol:
		ww = (aa - bb*t) / -c
	case math.Abs(f) > geom.Tol:
		ww = (dd - ee*t) / -f
	default:
		return Event{}, false
	}
	if ww < 0 {
		return Event{}, false
	}
	return Event{
		Time:      t,
		Pos:       s.EndPoint(t),
		Spoke:     s,
		Other:     o,
		OtherNext: onext,
		W:         w,
	}, true
}
