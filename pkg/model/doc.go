// Package model assembles 3D polygon meshes from 2D PolyAreas: flat
// caps, straight extrusions, and bevels whose sloped walls come from an
// offset tree. A Model can be written as Wavefront OBJ or converted to a
// kernel.Mesh for rendering.
package model
