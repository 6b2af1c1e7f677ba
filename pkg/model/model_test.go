package model

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/inset/pkg/geom"
)

func polyArea(xy ...float64) *geom.PolyArea {
	pts := geom.NewPoints()
	var ring []int
	for i := 0; i+1 < len(xy); i += 2 {
		ring = append(ring, pts.AddPoint(r2.Vec{X: xy[i], Y: xy[i+1]}))
	}
	return geom.NewPolyArea(pts, ring)
}

func square() *geom.PolyArea {
	return polyArea(0, 0, 2, 0, 2, 2, 0, 2)
}

// volume is the signed volume enclosed by the model, by the divergence
// theorem over a fan triangulation of each face.
func volume(m *Model) float64 {
	v := 0.0
	for _, f := range m.Faces {
		a := m.Points.Pos(f[0])
		for i := 1; i+1 < len(f); i++ {
			b, c := m.Points.Pos(f[i]), m.Points.Pos(f[i+1])
			v += r3.Dot(a, r3.Cross(b, c)) / 6
		}
	}
	return v
}

func TestPointsAddPoint(t *testing.T) {
	p := NewPoints()
	a := p.AddPoint(r3.Vec{X: 1, Y: 2, Z: 3})
	b := p.AddPoint(r3.Vec{X: 1.0005, Y: 2, Z: 3})
	c := p.AddPoint(r3.Vec{X: 1, Y: 2, Z: 3.01})
	if a != b {
		t.Errorf("AddPoint(near duplicate) = %d, want %d", b, a)
	}
	if c == a {
		t.Errorf("AddPoint(distinct z) = %d, want a new id", c)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}

func TestExtrude(t *testing.T) {
	m := New()
	if err := m.Extrude(square(), 3); err != nil {
		t.Fatalf("Extrude() error: %v", err)
	}
	// 4 sides, 2 triangles per cap
	if len(m.Faces) != 8 {
		t.Errorf("len(Faces) = %d, want 8", len(m.Faces))
	}
	if m.Points.Len() != 8 {
		t.Errorf("Points.Len() = %d, want 8", m.Points.Len())
	}
	if got := volume(m); !scalar.EqualWithinAbs(got, 12, 1e-9) {
		t.Errorf("volume = %v, want 12", got)
	}

	m = New()
	if err := m.Extrude(square(), 3, WithQuads(true), WithCaps(true)); err != nil {
		t.Fatalf("Extrude(quads) error: %v", err)
	}
	if len(m.Faces) != 6 {
		t.Errorf("len(Faces) with quad caps = %d, want 6", len(m.Faces))
	}
}

func TestExtrudeRejectsClockwise(t *testing.T) {
	m := New()
	err := m.Extrude(polyArea(0, 0, 0, 2, 2, 2, 2, 0), 1)
	if !errors.Is(err, geom.ErrPrecondition) {
		t.Errorf("Extrude(clockwise) error = %v, want ErrPrecondition", err)
	}
}

// withHole adds the ring given by xy to pa as a hole.
func withHole(pa *geom.PolyArea, xy ...float64) *geom.PolyArea {
	var ring []int
	for i := 0; i+1 < len(xy); i += 2 {
		ring = append(ring, pa.Points.AddPoint(r2.Vec{X: xy[i], Y: xy[i+1]}))
	}
	pa.Holes = append(pa.Holes, ring)
	return pa
}

// openEdges counts directed face edges with no matching reverse edge. A
// closed surface has none.
func openEdges(m *Model) int {
	type edge struct{ a, b int }
	count := make(map[edge]int)
	for _, f := range m.Faces {
		for i := range f {
			if a, b := f[i], f[(i+1)%len(f)]; a != b {
				count[edge{a, b}]++
			}
		}
	}
	open := 0
	for e, n := range count {
		open += max(0, n-count[edge{e.b, e.a}])
	}
	return open
}

func TestBevel(t *testing.T) {
	tests := []struct {
		name    string
		pa      *geom.PolyArea
		amount  float64
		height  float64
		topCaps bool
		peak    float64
		volume  float64
	}{
		// frustum of a 2x2 square inset by 0.5 and raised 1
		{"frustum", square(), 0.5, 1, true, 1, (4 + 1 + 2) / 3.0},
		// a pyramid: the square vanishes at amount 1
		{"pyramid", square(), 1, 2, false, 2, 4 * 2 / 3.0},
		// the reflex corner's spoke hits the far edge of the short arm
		{"L roof", polyArea(0, 0, 4, 0, 4, 1, 1.5, 1, 1.5, 4, 0, 4), 100, 100, false, 0.75, 2.59375},
		// the neck pinches off and each lobe gets its own roof
		{"dumbbell roof", polyArea(0, 0, 3, 0, 3, 1.4, 4, 1.4, 4, 0, 7, 0, 7, 3, 4, 3, 4, 1.6, 3, 1.6, 3, 3, 0, 3), 100, 100, false, 1.5, 9.0106666667},
		// the hole reaches the boundary and opens the ring
		{"frame roof", withHole(polyArea(0, 0, 10, 0, 10, 6, 0, 6), 6, 2, 6, 3.5, 7.5, 3.5, 7.5, 2), 100, 100, false, 3, 49.8854166667},
		// the stem's spokes land on the bar as everything collapses
		{"T roof", polyArea(0, 0, 6, 0, 6, 1, 3.5, 1, 3.5, 4, 2.5, 4, 2.5, 1, 0, 1), 100, 100, false, 0.5, 2.1666666667},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			if err := m.Bevel(tt.pa, tt.amount, tt.height); err != nil {
				t.Fatalf("Bevel() error: %v", err)
			}
			if got := volume(m); !scalar.EqualWithinAbs(got, tt.volume, 1e-6) {
				t.Errorf("volume = %v, want %v", got, tt.volume)
			}
			if n := openEdges(m); n != 0 {
				t.Errorf("%d open edges, want a closed surface", n)
			}
			if b := m.Bounds(); !scalar.EqualWithinAbs(b.Max.Z, tt.peak, 1e-6) {
				t.Errorf("Bounds().Max.Z = %v, want %v", b.Max.Z, tt.peak)
			}
			top := 0
			for _, f := range m.Faces {
				if len(f) >= 3 && m.normal(f).Z > 0.999 {
					top++
				}
			}
			if (top > 0) != tt.topCaps {
				t.Errorf("%d top cap faces, want caps: %v", top, tt.topCaps)
			}
		})
	}
}

func TestBevelBadAmount(t *testing.T) {
	if err := New().Bevel(square(), 0, 1); err == nil {
		t.Error("Bevel(amount 0) error = nil, want error")
	}
}

func TestScaleAndCenter(t *testing.T) {
	m := New()
	if err := m.Extrude(polyArea(2, 2, 6, 2, 6, 4, 2, 4), 1); err != nil {
		t.Fatalf("Extrude() error: %v", err)
	}
	m.ScaleAndCenter(2)
	b := m.Bounds()
	want := r3.Box{Min: r3.Vec{X: -1, Y: -0.5, Z: -0.25}, Max: r3.Vec{X: 1, Y: 0.5, Z: 0.25}}
	for _, pair := range [][2]float64{
		{b.Min.X, want.Min.X}, {b.Min.Y, want.Min.Y}, {b.Min.Z, want.Min.Z},
		{b.Max.X, want.Max.X}, {b.Max.Y, want.Max.Y}, {b.Max.Z, want.Max.Z},
	} {
		if !scalar.EqualWithinAbs(pair[0], pair[1], 1e-12) {
			t.Fatalf("Bounds() = %v, want %v", b, want)
		}
	}
}

func TestWriteOBJ(t *testing.T) {
	m := New()
	pa := polyArea(0, 0, 1, 0, 0, 1)
	if err := m.AddPolyArea(pa, 0.5, false, false, geom.Color{1, 0, 0}); err != nil {
		t.Fatalf("AddPolyArea() error: %v", err)
	}
	var buf bytes.Buffer
	if err := m.WriteOBJ(&buf); err != nil {
		t.Fatalf("WriteOBJ() error: %v", err)
	}
	want := strings.Join([]string{
		"v 0.000000 0.000000 0.500000",
		"v 1.000000 0.000000 0.500000",
		"v 0.000000 1.000000 0.500000",
		"f 1 2 3",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("WriteOBJ() =\n%s\nwant\n%s", got, want)
	}
}

func TestToMesh(t *testing.T) {
	m := New()
	if err := m.Extrude(square(), 1, WithColor(geom.Color{0, 1, 0})); err != nil {
		t.Fatalf("Extrude() error: %v", err)
	}
	mesh := m.ToMesh()
	// 4 quad sides as 2 triangles each, plus 2 triangles per cap
	if mesh.TriangleCount() != 12 {
		t.Errorf("TriangleCount() = %d, want 12", mesh.TriangleCount())
	}
	if len(mesh.Colors) != len(mesh.Vertices) || len(mesh.Normals) != len(mesh.Vertices) {
		t.Errorf("colors %d, normals %d, vertices %d, want equal lengths",
			len(mesh.Colors), len(mesh.Normals), len(mesh.Vertices))
	}
	if mesh.Colors[1] != 1 {
		t.Errorf("Colors[1] = %v, want 1", mesh.Colors[1])
	}
}
