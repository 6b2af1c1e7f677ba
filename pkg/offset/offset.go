package offset

import (
	"math"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/chazu/inset/pkg/geom"
)

// ErrUnsupported is returned when the simulation reaches a configuration
// it cannot resolve: an edge event whose edge is no longer in the
// wavefront, or more nested layers than the configured limit.
var ErrUnsupported = errors.New("unsupported offset configuration")

// Offset is one layer of the wavefront: the polygon Area, the spokes
// leaving its vertices, and the layers nested inside it once Build has
// run.
type Offset struct {
	Points *geom.Points
	Area   *geom.PolyArea
	Spokes [][]*Spoke

	// TimeSoFar is the time at which this layer starts. EndTime is how
	// long it runs before the next event, or 0 for a layer Build never
	// advanced.
	TimeSoFar float64
	EndTime   float64
	Inner     []*Offset

	// hits are the edge events applied at EndTime.
	hits  []Event
	depth int
	cfg   config
}

// New validates pa and returns the root layer for it. Build must be
// called to run the simulation. A pa that breaks the PolyArea contract
// fails with geom.ErrPrecondition.
func New(pa *geom.PolyArea, opts ...Option) (*Offset, error) {
	if err := pa.Check(); err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newOffset(pa, cfg.timeSoFar, 0, cfg), nil
}

func newOffset(pa *geom.PolyArea, timeSoFar float64, depth int, cfg config) *Offset {
	o := &Offset{
		Points:    pa.Points,
		Area:      pa,
		TimeSoFar: timeSoFar,
		depth:     depth,
		cfg:       cfg,
	}
	for _, r := range pa.Rings() {
		if len(r) <= 2 || math.Abs(geom.SignedArea(r, pa.Points)) < geom.AreaTol {
			continue
		}
		n := len(r)
		ring := make([]*Spoke, n)
		for i := range n {
			ring[i] = NewSpoke(r[i], r[(i+n-1)%n], r[(i+1)%n], pa.Points)
		}
		o.Spokes = append(o.Spokes, ring)
	}
	return o
}

// NextSpokeEvents returns the earliest events for spoke i of ring ri:
// the vertex event with its ring successor and, for a reflex spoke, the
// first edge event found at the earliest time. Only one edge event is
// kept per spoke. The time is +Inf when there is no event.
func (o *Offset) NextSpokeEvents(ri, i int) (best float64, ve, ee []Event) {
	ring := o.Spokes[ri]
	n := len(ring)
	s := ring[i]
	best = math.Inf(1)
	if ev, ok := s.VertexEvent(ring[(i+1)%n]); ok {
		best = ev.Time
		ve = []Event{ev}
	}
	if !s.Reflex {
		return best, ve, ee
	}
	prev := ring[(i+n-1)%n]
	for _, r := range o.Spokes {
		m := len(r)
		for j, other := range r {
			if other == s || other == prev {
				continue
			}
			ev, ok := s.EdgeEvent(other, r[(j+1)%m])
			if !ok {
				continue
			}
			switch {
			case ev.Time < best-geom.Tol:
				best = ev.Time
				ee = []Event{ev}
				ve = nil
			case scalar.EqualWithinAbs(ev.Time, best, geom.Tol) && len(ee) == 0:
				ee = append(ee, ev)
			}
		}
	}
	return best, ve, ee
}

// nextEvents merges NextSpokeEvents over every spoke. Events within
// geom.Tol of the earliest time form one batch.
func (o *Offset) nextEvents() (best float64, ve, ee []Event) {
	best = math.Inf(1)
	for ri, ring := range o.Spokes {
		for i := range ring {
			t, v, e := o.NextSpokeEvents(ri, i)
			switch {
			case t < best-geom.Tol:
				best = t
				ve = slices.Clone(v)
				ee = slices.Clone(e)
			case scalar.EqualWithinAbs(t, best, geom.Tol):
				ve = append(ve, v...)
				ee = append(ee, e...)
			}
		}
	}
	return best, ve, ee
}

// Build runs the simulation for at most target time units, creating the
// nested layers. Pass math.Inf(1) to run until the polygon vanishes.
// Build must be called at most once. A target of geom.Tol or less leaves
// the layer unadvanced.
func (o *Offset) Build(target float64) error {
	if target <= geom.Tol {
		return nil
	}
	best, ve, ee := o.nextEvents()
	if math.IsInf(best, 1) || best < geom.Tol {
		return nil
	}
	o.EndTime = math.Min(best, target)
	Logger().Debug("offset layer",
		"depth", o.depth,
		"start", o.TimeSoFar,
		"end", o.EndTime,
		"vertex_events", len(ve),
		"edge_events", len(ee),
	)

	for _, ring := range o.Spokes {
		for _, s := range ring {
			s.Dest = o.Points.AddPoint(s.EndPoint(o.EndTime))
		}
	}

	rings := make([][]*Spoke, len(o.Spokes))
	for i, ring := range o.Spokes {
		rings[i] = slices.Clone(ring)
	}
	gone := o.collapsed()
	if o.EndTime >= best-geom.Tol && len(ee) > 0 {
		// A collapsed layer keeps its hits for the walls when they apply
		// cleanly, and is not an error when they do not.
		r, hits, err := splitJoin(rings, ee, o.Points)
		switch {
		case err == nil:
			rings, o.hits = r, hits
		case !gone:
			return errors.Wrapf(err, "layer at t=%g", o.TimeSoFar+o.EndTime)
		}
	}
	if gone {
		Logger().Debug("offset layer collapsed", "depth", o.depth, "t", o.TimeSoFar+o.EndTime)
		return nil
	}

	faces := make([][]int, len(rings))
	for i, ring := range rings {
		faces[i] = make([]int, len(ring))
		for j, s := range ring {
			faces[i][j] = s.Dest
		}
	}
	areas := group(clean(faces, o.Points), o.Points)
	if len(areas) > 0 && o.depth+1 > o.cfg.maxDepth {
		return errors.Wrapf(ErrUnsupported, "layer depth exceeds %d", o.cfg.maxDepth)
	}
	for _, pa := range areas {
		child := newOffset(pa, o.TimeSoFar+o.EndTime, o.depth+1, o.cfg)
		o.Inner = append(o.Inner, child)
		if target-o.EndTime > geom.Tol {
			if err := child.Build(target - o.EndTime); err != nil {
				return err
			}
		}
	}
	return nil
}

// collapsed reports whether the wavefront at EndTime encloses no
// material, as when a hole grows into the boundary all around at once.
func (o *Offset) collapsed() bool {
	net := 0.0
	for _, ring := range o.Spokes {
		ids := make([]int, len(ring))
		for i, s := range ring {
			ids[i] = s.Dest
		}
		net += geom.SignedArea(ids, o.Points)
	}
	return net < geom.AreaTol
}
