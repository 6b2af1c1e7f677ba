package triquad

import (
	"github.com/chazu/inset/pkg/geom"
)

// TriangulateFace triangulates the simple counterclockwise ring face.
// A triangle comes back unchanged.
func TriangulateFace(face []int, pts *geom.Points) []Tri {
	switch {
	case len(face) < 3:
		return nil
	case len(face) == 3:
		return []Tri{{face[0], face[1], face[2]}}
	}
	return cdt(earChop(face, pts), borderEdges(face), pts)
}

// TriangulateFaceWithHoles triangulates face minus the clockwise holes.
// It fails with ErrNoDiagonal when a hole cannot be joined to the
// boundary.
func TriangulateFaceWithHoles(face []int, holes [][]int, pts *geom.Points) ([]Tri, error) {
	if len(holes) == 0 {
		return TriangulateFace(face, pts), nil
	}
	joined, err := joinIslands(face, holes, pts)
	if err != nil {
		return nil, err
	}
	rings := append([][]int{face}, holes...)
	return cdt(earChop(joined, pts), borderEdges(rings...), pts), nil
}

// QuadrangulateFace covers the simple ring face with quads and leftover
// triangles.
func QuadrangulateFace(face []int, pts *geom.Points) [][]int {
	return quadrangulate(TriangulateFace(face, pts), pts)
}

// QuadrangulateFaceWithHoles is QuadrangulateFace for a face with holes.
func QuadrangulateFaceWithHoles(face []int, holes [][]int, pts *geom.Points) ([][]int, error) {
	tris, err := TriangulateFaceWithHoles(face, holes, pts)
	if err != nil {
		return nil, err
	}
	return quadrangulate(tris, pts), nil
}

// Triangulate triangulates a PolyArea.
func Triangulate(pa *geom.PolyArea) ([]Tri, error) {
	return TriangulateFaceWithHoles(pa.Poly, pa.Holes, pa.Points)
}

// Quadrangulate quadrangulates a PolyArea.
func Quadrangulate(pa *geom.PolyArea) ([][]int, error) {
	return QuadrangulateFaceWithHoles(pa.Poly, pa.Holes, pa.Points)
}
