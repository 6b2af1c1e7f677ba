// Package vecio moves planar polygons in and out of the vector formats
// the CLI deals in: GeoJSON profiles on the way in, SVG and DXF drawings
// of offset layers on the way out.
package vecio
