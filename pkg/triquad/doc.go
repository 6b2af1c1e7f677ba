// Package triquad triangulates and quadrangulates polygons, with or
// without holes, over a shared geom.Points registry.
//
// Triangulation is ear clipping followed by edge flips toward a
// constrained Delaunay triangulation. Holes are first joined to the
// boundary with zero-width slits. Quadrangulation pairs adjacent
// triangles whose union is a convex quad, greedily by a score that
// rewards right angles.
//
// All functions are pure: they read the registry and never add to it.
package triquad
