package offset

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Event is a change in the wavefront's topology at Time.
type Event struct {
	// Vertex is true when Spoke meets its ring successor Other, and
	// false when Spoke hits the edge from Other to OtherNext.
	Vertex    bool
	Time      float64
	Pos       r2.Vec
	Spoke     *Spoke
	Other     *Spoke
	OtherNext *Spoke
	// W is the distance from Other's end point along the edge to the
	// hit, for edge events.
	W float64
}

func (e Event) String() string {
	kind := "edge"
	if e.Vertex {
		kind = "vertex"
	}
	return fmt.Sprintf("%s event at t=%.6g (%.6g, %.6g)", kind, e.Time, e.Pos.X, e.Pos.Y)
}
