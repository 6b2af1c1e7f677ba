package model

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/inset/pkg/geom"
	"github.com/chazu/inset/pkg/kernel"
	"github.com/chazu/inset/pkg/offset"
	"github.com/chazu/inset/pkg/triquad"
)

// Model is a polygon mesh. Faces are counterclockwise seen from outside
// and Colors runs parallel to Faces.
type Model struct {
	Points *Points
	Faces  [][]int
	Colors []geom.Color
}

// New returns an empty model.
func New() *Model {
	return &Model{Points: NewPoints()}
}

// AddFace appends a face over existing point ids.
func (m *Model) AddFace(face []int, c geom.Color) {
	m.Faces = append(m.Faces, face)
	m.Colors = append(m.Colors, c)
}

// AddPolyArea fills pa at height z with triangles, or quads and
// triangles when quads is set. With flip the faces point down.
func (m *Model) AddPolyArea(pa *geom.PolyArea, z float64, quads, flip bool, c geom.Color) error {
	var faces [][]int
	if quads {
		qs, err := triquad.Quadrangulate(pa)
		if err != nil {
			return errors.Wrap(err, "model: fill polygon")
		}
		faces = qs
	} else {
		tris, err := triquad.Triangulate(pa)
		if err != nil {
			return errors.Wrap(err, "model: fill polygon")
		}
		faces = lo.Map(tris, func(t triquad.Tri, _ int) []int { return t[:] })
	}
	lift := m.lifter(pa.Points)
	for _, f := range faces {
		face := lo.Map(f, func(v int, _ int) int { return lift(v, z) })
		if flip {
			slices.Reverse(face)
		}
		m.AddFace(face, c)
	}
	return nil
}

// lifter maps 2D registry ids to 3D ids at a given height, caching the
// lookups.
func (m *Model) lifter(pts *geom.Points) func(v int, z float64) int {
	type at struct {
		v int
		z float64
	}
	cache := make(map[at]int)
	return func(v int, z float64) int {
		if id, ok := cache[at{v, z}]; ok {
			return id
		}
		p := pts.Pos(v)
		id := m.Points.AddPoint(r3.Vec{X: p.X, Y: p.Y, Z: z})
		cache[at{v, z}] = id
		return id
	}
}

// Bevel adds pa raised by height over an inset of amount. The walls
// slope from the outline at z=0 to the inset outline at z=height. When
// amount exceeds the time pa takes to vanish, the walls meet in a ridge
// below height and there is no top cap.
func (m *Model) Bevel(pa *geom.PolyArea, amount, height float64, opts ...Option) error {
	if amount <= 0 {
		return errors.Errorf("model: bevel amount %g must be positive", amount)
	}
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	o, err := offset.New(pa, offset.WithVerticalSpeed(height/amount))
	if err != nil {
		return errors.Wrap(err, "model: bevel")
	}
	if err := o.Build(amount); err != nil {
		return errors.Wrap(err, "model: bevel")
	}

	lift := m.lifter(pa.Points)
	for _, w := range o.Walls() {
		face := lo.Map(w.Face(), func(v int, i int) int {
			if i < 2 {
				return lift(v, w.Bottom)
			}
			return lift(v, w.Top)
		})
		if len(lo.Uniq(face)) < 3 {
			continue
		}
		m.AddFace(face, cfg.color)
	}
	if !cfg.caps {
		return nil
	}
	if err := m.AddPolyArea(pa, 0, cfg.quads, true, cfg.color); err != nil {
		return err
	}
	top := o.Height(amount)
	for _, pa := range o.Remaining() {
		if err := m.AddPolyArea(pa, top, cfg.quads, false, cfg.color); err != nil {
			return err
		}
	}
	return nil
}

// Extrude adds pa as a prism from z=0 to z=height.
func (m *Model) Extrude(pa *geom.PolyArea, height float64, opts ...Option) error {
	if err := pa.Check(); err != nil {
		return errors.Wrap(err, "model: extrude")
	}
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	lift := m.lifter(pa.Points)
	for _, r := range pa.Rings() {
		n := len(r)
		for i := range n {
			a, b := r[i], r[(i+1)%n]
			m.AddFace([]int{lift(a, 0), lift(b, 0), lift(b, height), lift(a, height)}, cfg.color)
		}
	}
	if !cfg.caps {
		return nil
	}
	if err := m.AddPolyArea(pa, 0, cfg.quads, true, cfg.color); err != nil {
		return err
	}
	return m.AddPolyArea(pa, height, cfg.quads, false, cfg.color)
}

// Bounds returns the bounding box of every face vertex. An empty model
// has a zero box.
func (m *Model) Bounds() r3.Box {
	first := true
	var b r3.Box
	for _, f := range m.Faces {
		for _, v := range f {
			p := m.Points.Pos(v)
			if first {
				b = r3.Box{Min: p, Max: p}
				first = false
				continue
			}
			b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
			b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
		}
	}
	return b
}

// ScaleAndCenter moves the center of Bounds to the origin and scales
// uniformly so the longest side becomes side.
func (m *Model) ScaleAndCenter(side float64) {
	b := m.Bounds()
	size := r3.Sub(b.Max, b.Min)
	span := math.Max(size.X, math.Max(size.Y, size.Z))
	scale := 1.0
	if span > 0 {
		scale = side / span
	}
	c := r3.Scale(0.5, r3.Add(b.Min, b.Max))
	m.Points.transform(func(v r3.Vec) r3.Vec {
		return r3.Scale(scale, r3.Sub(v, c))
	})
}

// WriteOBJ writes the model in Wavefront OBJ format. Face indices are
// 1-based.
func (m *Model) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := range m.Points.Len() {
		p := m.Points.Pos(i)
		fmt.Fprintf(bw, "v %f %f %f\n", p.X, p.Y, p.Z)
	}
	for _, f := range m.Faces {
		bw.WriteString("f")
		for _, v := range f {
			fmt.Fprintf(bw, " %d", v+1)
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// normal returns the unit normal of face by Newell's method, or the zero
// vector for a degenerate face.
func (m *Model) normal(face []int) r3.Vec {
	var n r3.Vec
	for i, v := range face {
		p := m.Points.Pos(v)
		q := m.Points.Pos(face[(i+1)%len(face)])
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	if r3.Norm(n) == 0 {
		return n
	}
	return r3.Unit(n)
}

// ToMesh converts the model to a flat-shaded triangle mesh. Each face is
// fanned from its first vertex, so faces must be convex.
func (m *Model) ToMesh() *kernel.Mesh {
	mesh := &kernel.Mesh{}
	for fi, f := range m.Faces {
		n := m.normal(f)
		c := m.Colors[fi]
		for i := 1; i+1 < len(f); i++ {
			for _, v := range []int{f[0], f[i], f[i+1]} {
				p := m.Points.Pos(v)
				mesh.Indices = append(mesh.Indices, uint32(mesh.VertexCount()))
				mesh.Vertices = append(mesh.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
				mesh.Normals = append(mesh.Normals, float32(n.X), float32(n.Y), float32(n.Z))
				mesh.Colors = append(mesh.Colors, float32(c[0]), float32(c[1]), float32(c[2]))
			}
		}
	}
	return mesh
}
