package geom

// Tolerances. They are absolute, so results depend on the scale of the
// input; callers working far from unit scale should ScaleAndCenter first.
const (
	// DistTol is the distance under which two coordinates are the same
	// registry point.
	DistTol = 1e-3

	// AreaTol is the magnitude under which a ring's signed area counts
	// as degenerate.
	AreaTol = 1e-4

	// Tol is the generic float comparison tolerance used by the
	// predicates (orientation, intersection, event times).
	Tol = 1e-7
)

// invDistTol is the quantization scale matching DistTol.
const invDistTol = 1.0 / DistTol
