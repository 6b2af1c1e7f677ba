// Package tessellate walks a scene graph and produces triangle meshes.
// Bevels and insets go through the straight-skeleton offset engine and
// the model package; extrusions go through a geometry kernel. One mesh is
// produced per bevel, extrusion or bare planar node.
package tessellate

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/inset/pkg/geom"
	"github.com/chazu/inset/pkg/graph"
	"github.com/chazu/inset/pkg/kernel"
	"github.com/chazu/inset/pkg/model"
	"github.com/chazu/inset/pkg/offset"
)

// Options controls tessellation.
type Options struct {
	// Direct builds extrusions as exact prisms with model.Extrude instead
	// of sampling the kernel's solid. The kernel may then be nil.
	Direct bool
}

// transformStack accumulates spatial transforms during graph traversal.
type transformStack struct {
	translations []r3.Vec
	rotations    []r3.Vec
}

func (ts *transformStack) push(translation, rotation r3.Vec) {
	ts.translations = append(ts.translations, translation)
	ts.rotations = append(ts.rotations, rotation)
}

func (ts *transformStack) pop() {
	ts.translations = ts.translations[:len(ts.translations)-1]
	ts.rotations = ts.rotations[:len(ts.rotations)-1]
}

// accumulatedTranslation returns the sum of all translations on the stack.
func (ts *transformStack) accumulatedTranslation() r3.Vec {
	var sum r3.Vec
	for _, t := range ts.translations {
		sum = r3.Add(sum, t)
	}
	return sum
}

// accumulatedRotation returns the sum of all rotations on the stack.
func (ts *transformStack) accumulatedRotation() r3.Vec {
	var sum r3.Vec
	for _, r := range ts.rotations {
		sum = r3.Add(sum, r)
	}
	return sum
}

type walker struct {
	g    *graph.DesignGraph
	k    kernel.Kernel
	opts Options
	ts   transformStack
}

// Tessellate walks the scene graph from its roots and produces the
// meshes. The tessellator is read-only and never mutates the graph:
// profiles are copied into fresh point registries before offsetting.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	if g == nil {
		return nil, nil
	}
	if k == nil && !opts.Direct {
		return nil, fmt.Errorf("tessellate: a kernel is required unless Direct is set")
	}

	w := &walker{g: g, k: k, opts: opts}
	var meshes []*kernel.Mesh
	for _, rootID := range g.Roots {
		root, err := g.Resolve(rootID)
		if err != nil {
			return nil, fmt.Errorf("tessellate: root: %w", err)
		}
		collected, err := w.walk(root)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// walk recursively traverses a node and its children, collecting meshes.
func (w *walker) walk(n *graph.Node) ([]*kernel.Mesh, error) {
	Logger().Debug("tessellate node", "kind", n.Kind, "id", n.ID.Short(), "name", n.Name)
	switch n.Kind {
	case graph.NodeProfile, graph.NodeInset:
		return w.flat(n)
	case graph.NodeBevel:
		return w.bevel(n)
	case graph.NodeExtrude:
		return w.extrude(n)
	case graph.NodeTransform:
		return w.transform(n)
	case graph.NodeGroup:
		return w.group(n)
	default:
		return nil, fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// planar evaluates a profile or inset node to polygons in a registry of
// their own.
func (w *walker) planar(n *graph.Node) (*geom.PolyAreas, error) {
	switch data := n.Data.(type) {
	case graph.ProfileData:
		if data.Area == nil {
			return nil, fmt.Errorf("profile node %s has no polygon", n.ID.Short())
		}
		pas := geom.NewPolyAreas()
		pas.Add(data.Area)
		return pas, nil

	case graph.InsetData:
		src, err := w.operand(n)
		if err != nil {
			return nil, err
		}
		out := geom.NewPolyAreas()
		for _, pa := range src.Areas {
			o, err := offset.New(pa)
			if err != nil {
				return nil, fmt.Errorf("inset node %s: %w", n.ID.Short(), err)
			}
			if err := o.Build(data.Amount); err != nil {
				return nil, fmt.Errorf("inset node %s: %w", n.ID.Short(), err)
			}
			for _, inner := range o.Remaining() {
				inner.Color = pa.Color
				out.Add(inner)
			}
		}
		if len(out.Areas) == 0 {
			Logger().Warn("inset consumes the whole profile", "id", n.ID.Short(), "amount", data.Amount)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("node %s (%s) is not planar", n.ID.Short(), n.Kind)
	}
}

// operand evaluates the single planar child of n.
func (w *walker) operand(n *graph.Node) (*geom.PolyAreas, error) {
	if len(n.Children) != 1 {
		return nil, fmt.Errorf("%s node %s takes one child, has %d", n.Kind, n.ID.Short(), len(n.Children))
	}
	c, err := w.g.Resolve(n.Children[0])
	if err != nil {
		return nil, err
	}
	return w.planar(c)
}

// flat fills a planar node's polygons at z=0.
func (w *walker) flat(n *graph.Node) ([]*kernel.Mesh, error) {
	pas, err := w.planar(n)
	if err != nil {
		return nil, err
	}
	m := model.New()
	for _, pa := range pas.Areas {
		if err := m.AddPolyArea(pa, 0, false, false, pa.Color); err != nil {
			return nil, fmt.Errorf("tessellate: node %s: %w", n.ID.Short(), err)
		}
	}
	return w.emit(n, m.ToMesh()), nil
}

// bevel raises each operand polygon along its straight skeleton.
func (w *walker) bevel(n *graph.Node) ([]*kernel.Mesh, error) {
	bd, ok := n.Data.(graph.BevelData)
	if !ok {
		return nil, fmt.Errorf("bevel node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	pas, err := w.operand(n)
	if err != nil {
		return nil, err
	}
	m := model.New()
	for _, pa := range pas.Areas {
		err := m.Bevel(pa, bd.Amount, bd.Height, model.WithColor(bd.Color), model.WithQuads(bd.Quads))
		if err != nil {
			return nil, fmt.Errorf("tessellate: bevel node %s: %w", n.ID.Short(), err)
		}
	}
	return w.emit(n, m.ToMesh()), nil
}

// extrude builds prisms of the operand polygons, through the kernel
// unless Direct is set.
func (w *walker) extrude(n *graph.Node) ([]*kernel.Mesh, error) {
	ed, ok := n.Data.(graph.ExtrudeData)
	if !ok {
		return nil, fmt.Errorf("extrude node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	pas, err := w.operand(n)
	if err != nil {
		return nil, err
	}

	if w.opts.Direct {
		m := model.New()
		for _, pa := range pas.Areas {
			if err := m.Extrude(pa, ed.Height, model.WithColor(ed.Color)); err != nil {
				return nil, fmt.Errorf("tessellate: extrude node %s: %w", n.ID.Short(), err)
			}
		}
		return w.emit(n, m.ToMesh()), nil
	}

	var solid kernel.Solid
	for _, pa := range pas.Areas {
		p, err := w.k.Profile(pa)
		if err != nil {
			return nil, fmt.Errorf("tessellate: extrude node %s: %w", n.ID.Short(), err)
		}
		s := w.k.Extrude(p, ed.Height)
		if solid == nil {
			solid = s
		} else {
			solid = w.k.Union(solid, s)
		}
	}
	if solid == nil {
		return nil, nil
	}

	// Apply accumulated rotation first, then translation.
	rot := w.ts.accumulatedRotation()
	if rot != (r3.Vec{}) {
		solid = w.k.Rotate(solid, rot.X, rot.Y, rot.Z)
	}
	trans := w.ts.accumulatedTranslation()
	if trans != (r3.Vec{}) {
		solid = w.k.Translate(solid, trans.X, trans.Y, trans.Z)
	}

	mesh, err := w.k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}
	mesh.PartName = w.label(n)
	return []*kernel.Mesh{mesh}, nil
}

// emit places a mesh built in local coordinates and names it.
func (w *walker) emit(n *graph.Node, mesh *kernel.Mesh) []*kernel.Mesh {
	if mesh.IsEmpty() {
		return nil
	}
	if rot := w.ts.accumulatedRotation(); rot != (r3.Vec{}) {
		rotateMesh(mesh, rot)
	}
	if t := w.ts.accumulatedTranslation(); t != (r3.Vec{}) {
		mesh.Translate(float32(t.X), float32(t.Y), float32(t.Z))
	}
	mesh.PartName = w.label(n)
	return []*kernel.Mesh{mesh}
}

// rotateMesh applies Euler angles in degrees, X first, then Y, then Z,
// matching the kernel's Rotate.
func rotateMesh(m *kernel.Mesh, deg r3.Vec) {
	toRad := math.Pi / 180
	rs := []r3.Rotation{
		r3.NewRotation(deg.X*toRad, r3.Vec{X: 1}),
		r3.NewRotation(deg.Y*toRad, r3.Vec{Y: 1}),
		r3.NewRotation(deg.Z*toRad, r3.Vec{Z: 1}),
	}
	apply := func(buf []float32) {
		for i := 0; i+2 < len(buf); i += 3 {
			v := r3.Vec{X: float64(buf[i]), Y: float64(buf[i+1]), Z: float64(buf[i+2])}
			for _, r := range rs {
				v = r.Rotate(v)
			}
			buf[i], buf[i+1], buf[i+2] = float32(v.X), float32(v.Y), float32(v.Z)
		}
	}
	apply(m.Vertices)
	apply(m.Normals)
}

// label names a mesh after its node, else after the first named node
// below it, else by short ID.
func (w *walker) label(n *graph.Node) string {
	if n.Name != "" {
		return n.Name
	}
	for _, c := range w.g.Children(n) {
		if l := w.label(c); l != c.ID.Short() {
			return l
		}
	}
	return n.ID.Short()
}

// transform pushes the transform, recurses into children, then pops.
func (w *walker) transform(n *graph.Node) ([]*kernel.Mesh, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	var translation, rotation r3.Vec
	if td.Translation != nil {
		translation = *td.Translation
	}
	if td.Rotation != nil {
		rotation = *td.Rotation
	}
	w.ts.push(translation, rotation)
	defer w.ts.pop()

	return w.group(n)
}

// group recurses into children transparently.
func (w *walker) group(n *graph.Node) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, child := range w.g.Children(n) {
		collected, err := w.walk(child)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}
