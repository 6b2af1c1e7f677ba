// Package kernel is the boundary between scene evaluation and a solid
// modelling backend, plus the Mesh type every output path shares.
package kernel

import "github.com/chazu/inset/pkg/geom"

// Solid is a backend solid. Only its extent is visible.
type Solid interface {
	BoundingBox() (min, max [3]float64)
}

// Profile is an opaque handle to a 2D region built from a PolyArea.
type Profile interface {
	// Bounds returns the axis-aligned bounding rectangle.
	Bounds() (min, max [2]float64)
}

// Kernel builds and combines solids. Profiles come from PolyAreas, so
// holes are part of the region a backend receives.
type Kernel interface {
	// Profiles
	Profile(pa *geom.PolyArea) (Profile, error)
	Extrude(p Profile, height float64) Solid // spans z in [0, height]

	// Composition
	Union(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
