// Package sdfx is the signed-distance kernel. Profiles become sdf.SDF2
// regions, solids sdf.SDF3 fields, and meshes come out of marching cubes.
package sdfx

import (
	"fmt"

	"github.com/chazu/inset/pkg/geom"
	"github.com/chazu/inset/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells is the marching cubes resolution along the longest
// side of a solid.
const defaultMeshCells = 200

type solid struct{ sdf.SDF3 }

func (s solid) BoundingBox() (lo, hi [3]float64) {
	bb := s.SDF3.BoundingBox()
	return [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}, [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
}

type profile struct{ sdf.SDF2 }

func (p profile) Bounds() (lo, hi [2]float64) {
	bb := p.SDF2.BoundingBox()
	return [2]float64{bb.Min.X, bb.Min.Y}, [2]float64{bb.Max.X, bb.Max.Y}
}

// SdfxKernel builds solids as signed distance fields.
type SdfxKernel struct {
	cells int
}

func New() *SdfxKernel {
	return &SdfxKernel{cells: defaultMeshCells}
}

// WithCells returns a copy of k that meshes with the given number of
// marching cubes cells along the longest side.
func (k *SdfxKernel) WithCells(cells int) *SdfxKernel {
	return &SdfxKernel{cells: cells}
}

func field(s kernel.Solid) sdf.SDF3 {
	return s.(solid).SDF3
}

func (k *SdfxKernel) triangles(s kernel.Solid) []*sdf.Triangle3 {
	return render.ToTriangles(field(s), render.NewMarchingCubesUniform(k.cells))
}

func ring2D(pa *geom.PolyArea, ring []int) []v2.Vec {
	out := make([]v2.Vec, len(ring))
	for i, v := range ring {
		p := pa.Points.Pos(v)
		out[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	return out
}

// Profile builds the region of pa: its boundary polygon minus each hole.
func (k *SdfxKernel) Profile(pa *geom.PolyArea) (kernel.Profile, error) {
	s, err := sdf.Polygon2D(ring2D(pa, pa.Poly))
	if err != nil {
		return nil, fmt.Errorf("sdfx: boundary polygon: %w", err)
	}
	for i, h := range pa.Holes {
		hs, err := sdf.Polygon2D(ring2D(pa, h))
		if err != nil {
			return nil, fmt.Errorf("sdfx: hole %d polygon: %w", i, err)
		}
		s = sdf.Difference2D(s, hs)
	}
	return profile{s}, nil
}

// Extrude raises a profile into a prism standing on z=0. sdf.Extrude3D
// centres the prism on z=0, hence the lift by half the height.
func (k *SdfxKernel) Extrude(p kernel.Profile, height float64) kernel.Solid {
	prism := sdf.Extrude3D(p.(profile).SDF2, height)
	return solid{sdf.Transform3D(prism, sdf.Translate3d(v3.Vec{Z: height / 2}))}
}

// Clearance returns the signed distance from (x, y) to the boundary of
// the profile: negative inside the material, positive outside.
func (k *SdfxKernel) Clearance(p kernel.Profile, x, y float64) float64 {
	return p.(profile).Evaluate(v2.Vec{X: x, Y: y})
}

func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return solid{sdf.Union3D(field(a), field(b))}
}

func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return solid{sdf.Transform3D(field(s), sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))}
}

// Rotate applies rotations in degrees about X, then Y, then Z.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.RotateZ(sdf.DtoR(z)).Mul(sdf.RotateY(sdf.DtoR(y))).Mul(sdf.RotateX(sdf.DtoR(x)))
	return solid{sdf.Transform3D(field(s), m)}
}

// ToMesh runs marching cubes over s. Vertices are not shared: each
// triangle gets three of its own, all carrying the face normal.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	tris := k.triangles(s)
	m := &kernel.Mesh{
		Vertices: make([]float32, 0, 9*len(tris)),
		Normals:  make([]float32, 0, 9*len(tris)),
		Indices:  make([]uint32, 0, 3*len(tris)),
	}
	for _, tri := range tris {
		n := tri.Normal()
		for _, v := range tri {
			m.Indices = append(m.Indices, uint32(m.VertexCount()))
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
	}
	return m, nil
}

// SaveSTL renders s with marching cubes and writes it as binary STL.
func (k *SdfxKernel) SaveSTL(path string, s kernel.Solid) error {
	if err := render.SaveSTL(path, k.triangles(s)); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}

// SaveMeshSTL writes already tessellated meshes as one binary STL file.
func SaveMeshSTL(path string, meshes ...*kernel.Mesh) error {
	var tris []*sdf.Triangle3
	for _, m := range meshes {
		vertex := func(i uint32) v3.Vec {
			return v3.Vec{
				X: float64(m.Vertices[3*i]),
				Y: float64(m.Vertices[3*i+1]),
				Z: float64(m.Vertices[3*i+2]),
			}
		}
		for j := 0; j+2 < len(m.Indices); j += 3 {
			tris = append(tris, &sdf.Triangle3{vertex(m.Indices[j]), vertex(m.Indices[j+1]), vertex(m.Indices[j+2])})
		}
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}
