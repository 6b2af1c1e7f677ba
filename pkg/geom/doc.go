// Package geom holds the planar data model shared by the offset and
// triangulation engines: a tolerance-quantized point registry, polygons
// with holes over registry ids, and the signed-area and point-in-polygon
// primitives built on them.
//
// All coordinates are float64 and all comparisons use the fixed absolute
// tolerances declared in tolerance.go.
package geom
