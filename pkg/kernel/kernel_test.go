package kernel

import (
	"bytes"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/inset/pkg/geom"
)

func TestMeshCounts(t *testing.T) {
	tests := []struct {
		name       string
		mesh       Mesh
		verts, tri int
		empty      bool
	}{
		{"zero", Mesh{}, 0, 0, true},
		{"lone vertex", Mesh{Vertices: []float32{1, 2, 3}}, 1, 0, false},
		{"quad", Mesh{
			Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
			Indices:  []uint32{0, 1, 2, 2, 3, 0},
		}, 4, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mesh.VertexCount(); got != tt.verts {
				t.Errorf("VertexCount() = %d, want %d", got, tt.verts)
			}
			if got := tt.mesh.TriangleCount(); got != tt.tri {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.tri)
			}
			if got := tt.mesh.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.empty)
			}
		})
	}
}

func TestMeshAppend(t *testing.T) {
	tri := func() *Mesh {
		return &Mesh{
			Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
			Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
			Colors:   []float32{1, 0, 0, 1, 0, 0, 1, 0, 0},
			Indices:  []uint32{0, 1, 2},
		}
	}

	m := &Mesh{}
	m.Append(tri())
	m.Append(tri())
	if m.VertexCount() != 6 || m.TriangleCount() != 2 {
		t.Fatalf("Append() gave %d vertices, %d triangles, want 6, 2", m.VertexCount(), m.TriangleCount())
	}
	if m.Indices[3] != 3 || m.Indices[5] != 5 {
		t.Errorf("Indices = %v, want second triangle renumbered to 3 4 5", m.Indices)
	}
	if len(m.Colors) != len(m.Vertices) {
		t.Errorf("len(Colors) = %d, want %d", len(m.Colors), len(m.Vertices))
	}

	plain := tri()
	plain.Colors = nil
	m.Append(plain)
	if m.Colors != nil {
		t.Errorf("Colors kept after appending an uncolored mesh")
	}
}

func TestMeshTranslate(t *testing.T) {
	m := &Mesh{Vertices: []float32{0, 0, 0, 1, 2, 3}}
	m.Translate(1, 1, 1)
	want := []float32{1, 1, 1, 2, 3, 4}
	for i := range want {
		if m.Vertices[i] != want[i] {
			t.Fatalf("Translate() vertices = %v, want %v", m.Vertices, want)
		}
	}
}

// boxKernel tracks only bounding boxes. It is enough to check that
// Kernel can be met by something other than the sdfx backend.
type boxKernel struct{}

type box2 [2][2]float64

func (b box2) Bounds() (lo, hi [2]float64) { return b[0], b[1] }

type box3 [2][3]float64

func (b box3) BoundingBox() (lo, hi [3]float64) { return b[0], b[1] }

func (boxKernel) Profile(pa *geom.PolyArea) (Profile, error) {
	b := pa.Bounds()
	return box2{{b.Min.X, b.Min.Y}, {b.Max.X, b.Max.Y}}, nil
}

func (boxKernel) Extrude(p Profile, height float64) Solid {
	lo, hi := p.Bounds()
	return box3{{lo[0], lo[1], 0}, {hi[0], hi[1], height}}
}

func (boxKernel) Union(a, b Solid) Solid {
	alo, ahi := a.BoundingBox()
	blo, bhi := b.BoundingBox()
	var u box3
	for i := range 3 {
		u[0][i], u[1][i] = min(alo[i], blo[i]), max(ahi[i], bhi[i])
	}
	return u
}

func (boxKernel) Translate(s Solid, x, y, z float64) Solid {
	lo, hi := s.BoundingBox()
	d := [3]float64{x, y, z}
	for i := range d {
		lo[i] += d[i]
		hi[i] += d[i]
	}
	return box3{lo, hi}
}

func (boxKernel) Rotate(s Solid, _, _, _ float64) Solid { return s }

func (boxKernel) ToMesh(Solid) (*Mesh, error) { return &Mesh{}, nil }

var _ Kernel = boxKernel{}

func TestKernelInterface(t *testing.T) {
	pts := geom.NewPoints(r2.Vec{}, r2.Vec{X: 2}, r2.Vec{X: 2, Y: 1}, r2.Vec{Y: 1})
	var k Kernel = boxKernel{}
	p, err := k.Profile(geom.NewPolyArea(pts, []int{0, 1, 2, 3}))
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	a := k.Extrude(p, 3)
	u := k.Union(a, k.Translate(a, 5, 0, 1))
	lo, hi := u.BoundingBox()
	if lo != [3]float64{0, 0, 0} || hi != [3]float64{7, 1, 4} {
		t.Errorf("BoundingBox() = %v, %v, want [0 0 0], [7 1 4]", lo, hi)
	}
}

func TestWriteOBJ(t *testing.T) {
	tri := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2},
		PartName: "a",
	}
	other := &Mesh{
		Vertices: []float32{0, 0, 1, 1, 0, 1, 0, 1, 1},
		Indices:  []uint32{0, 1, 2},
	}
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, []*Mesh{tri, other}); err != nil {
		t.Fatalf("WriteOBJ() error: %v", err)
	}
	want := "o a\n" +
		"v 0.000000 0.000000 0.000000\nv 1.000000 0.000000 0.000000\nv 0.000000 1.000000 0.000000\n" +
		"f 1 2 3\n" +
		"o part1\n" +
		"v 0.000000 0.000000 1.000000\nv 1.000000 0.000000 1.000000\nv 0.000000 1.000000 1.000000\n" +
		"f 4 5 6\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteOBJ() =\n%s\nwant\n%s", got, want)
	}
}
