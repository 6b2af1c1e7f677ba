package sdfx

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/inset/pkg/geom"
	"github.com/chazu/inset/pkg/kernel"
)

// squareWithHole is a 100x100 square with a 40x40 hole in the middle.
func squareWithHole() *geom.PolyArea {
	pts := geom.NewPoints()
	add := func(xy ...float64) []int {
		var ids []int
		for i := 0; i+1 < len(xy); i += 2 {
			ids = append(ids, pts.AddPoint(r2.Vec{X: xy[i], Y: xy[i+1]}))
		}
		return ids
	}
	outer := add(0, 0, 100, 0, 100, 100, 0, 100)
	hole := add(30, 30, 30, 70, 70, 70, 70, 30)
	return geom.NewPolyArea(pts, outer, hole)
}

// checkCorner compares one corner of a bounding box coordinate-wise.
func checkCorner(t *testing.T, corner string, got, want []float64, tol float64) {
	t.Helper()
	if !floats.EqualApprox(got, want, tol) {
		t.Errorf("%s = %v, want %v (tol %v)", corner, got, want, tol)
	}
}

func mustProfile(t *testing.T, k *SdfxKernel, pa *geom.PolyArea) kernel.Profile {
	t.Helper()
	p, err := k.Profile(pa)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	return p
}

func TestProfileBounds(t *testing.T) {
	lo, hi := mustProfile(t, New(), squareWithHole()).Bounds()
	checkCorner(t, "min", lo[:], []float64{0, 0}, 0.01)
	checkCorner(t, "max", hi[:], []float64{100, 100}, 0.01)
}

func TestClearance(t *testing.T) {
	k := New()
	p := mustProfile(t, k, squareWithHole())
	tests := []struct {
		name   string
		x, y   float64
		inside bool
	}{
		{"material", 10, 50, true},
		{"hole", 50, 50, false},
		{"outside", 150, 50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := k.Clearance(p, tt.x, tt.y)
			if (d < 0) != tt.inside {
				t.Errorf("Clearance(%v, %v) = %v, want inside=%v", tt.x, tt.y, d, tt.inside)
			}
		})
	}
	if d := k.Clearance(p, 10, 50); math.Abs(d+10) > 0.01 {
		t.Errorf("Clearance(10, 50) = %v, want -10", d)
	}
}

func TestExtrude(t *testing.T) {
	k := New()
	p := mustProfile(t, k, squareWithHole())
	s := k.Extrude(p, 20)
	lo, hi := s.BoundingBox()
	checkCorner(t, "min z", lo[2:], []float64{0}, 0.01)
	checkCorner(t, "max z", hi[2:], []float64{20}, 0.01)

	mesh, err := k.WithCells(50).ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("ToMesh() returned an empty mesh")
	}
	if len(mesh.Normals) != len(mesh.Vertices) || len(mesh.Indices) != mesh.VertexCount() {
		t.Errorf("ToMesh() sizes: %d vertices, %d normals, %d indices",
			len(mesh.Vertices), len(mesh.Normals), len(mesh.Indices))
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	p := mustProfile(t, k, squareWithHole())
	lo, hi := k.Translate(k.Extrude(p, 10), 100, 200, 300).BoundingBox()
	checkCorner(t, "min", lo[:], []float64{100, 200, 300}, 0.5)
	checkCorner(t, "max", hi[:], []float64{200, 300, 310}, 0.5)
}

func TestRotate(t *testing.T) {
	k := New()
	bar := geom.NewPoints(r2.Vec{}, r2.Vec{X: 100}, r2.Vec{X: 100, Y: 10}, r2.Vec{Y: 10})
	p := mustProfile(t, k, geom.NewPolyArea(bar, []int{0, 1, 2, 3}))

	// a quarter turn about Z swaps the footprint
	lo, hi := k.Rotate(k.Extrude(p, 10), 0, 0, 90).BoundingBox()
	extent := []float64{hi[0] - lo[0], hi[1] - lo[1]}
	checkCorner(t, "xy extent", extent, []float64{10, 100}, 1)
}

func TestUnionAndSaveSTL(t *testing.T) {
	k := New().WithCells(40)
	p := mustProfile(t, k, squareWithHole())
	a := k.Extrude(p, 10)
	b := k.Translate(k.Extrude(p, 10), 50, 0, 0)
	u := k.Union(a, b)

	lo, hi := u.BoundingBox()
	if hi[0]-lo[0] < 149 {
		t.Errorf("union X extent = %f, want ~150", hi[0]-lo[0])
	}

	path := filepath.Join(t.TempDir(), "union.stl")
	if err := k.SaveSTL(path, u); err != nil {
		t.Fatalf("SaveSTL() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat STL: %v", err)
	}
	if info.Size() == 0 {
		t.Error("STL file is empty")
	}
}

func TestSaveMeshSTL(t *testing.T) {
	quad := &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
	}
	path := filepath.Join(t.TempDir(), "quad.stl")
	if err := SaveMeshSTL(path, quad, quad); err != nil {
		t.Fatalf("SaveMeshSTL() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat STL: %v", err)
	}
	// binary STL: 80 byte header, 4 byte count, 50 bytes per triangle
	if want := int64(84 + 50*4); info.Size() != want {
		t.Errorf("STL size = %d, want %d", info.Size(), want)
	}
}
