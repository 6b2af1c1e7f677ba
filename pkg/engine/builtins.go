package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/inset/pkg/geom"
	"github.com/chazu/inset/pkg/graph"
)

// kwPrefix marks keywords after preprocessing: :amount reaches zygomys
// as the string "__kw_amount".
const kwPrefix = "__kw_"

// preprocessSource rewrites script source into something zygomys reads.
// Outside string literals it turns :keyword into a kwPrefix string,
// kebab-case identifiers into snake_case and ; comments into // comments.
// Keywords become strings so they never collide with script variables;
// zygomys would read the hyphen of an identifier as subtraction.
func preprocessSource(source string) string {
	sc := scanner{src: source}
	sc.out.Grow(len(source) + len(source)/4)
	for !sc.done() {
		c := sc.peek(0)
		switch {
		case c == '"':
			sc.quoted('"', true)
		case c == '`':
			sc.quoted('`', false)
		case c == ';':
			sc.comment()
		case c == ':' && sc.peek(1) == '=':
			sc.copy(2)
		case c == ':' && isLetter(sc.peek(1)):
			sc.keyword()
		case c == '-' && sc.pos > 0 && isIdentChar(source[sc.pos-1]) && isLetter(sc.peek(1)):
			sc.out.WriteByte('_')
			sc.pos++
		default:
			sc.copy(1)
		}
	}
	return sc.out.String()
}

type scanner struct {
	src string
	pos int
	out strings.Builder
}

func (sc *scanner) done() bool { return sc.pos >= len(sc.src) }

// peek returns the byte k ahead, or 0 past the end.
func (sc *scanner) peek(k int) byte {
	if sc.pos+k >= len(sc.src) {
		return 0
	}
	return sc.src[sc.pos+k]
}

func (sc *scanner) copy(n int) {
	end := min(sc.pos+n, len(sc.src))
	sc.out.WriteString(sc.src[sc.pos:end])
	sc.pos = end
}

// quoted copies a literal delimited by q, honouring backslash escapes
// when escapes is set. An unterminated literal runs to the end.
func (sc *scanner) quoted(q byte, escapes bool) {
	from := sc.pos
	sc.pos++
	for !sc.done() && sc.src[sc.pos] != q {
		if escapes && sc.src[sc.pos] == '\\' {
			sc.pos++
		}
		sc.pos++
	}
	sc.pos = min(sc.pos+1, len(sc.src))
	sc.out.WriteString(sc.src[from:sc.pos])
}

// comment rewrites a run of semicolons as // and copies the rest of the
// line unchanged.
func (sc *scanner) comment() {
	for sc.peek(0) == ';' {
		sc.pos++
	}
	sc.out.WriteString("//")
	end := strings.IndexByte(sc.src[sc.pos:], '\n')
	if end < 0 {
		end = len(sc.src) - sc.pos
	}
	sc.copy(end)
}

func (sc *scanner) keyword() {
	end := sc.pos + 1
	for end < len(sc.src) && (isIdentChar(sc.src[end]) || sc.src[end] == '-') {
		end++
	}
	fmt.Fprintf(&sc.out, "%q", kwPrefix+sc.src[sc.pos+1:end])
	sc.pos = end
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || '0' <= c && c <= '9' || c == '_'
}

// sexpPoint wraps a 2D point from (pt x y).
type sexpPoint struct {
	p r2.Vec
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pt %g %g)", p.p.X, p.p.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpHole wraps the ring of a (hole ...) form.
type sexpHole struct {
	ring []r2.Vec
}

func (h *sexpHole) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(hole <%d points>)", len(h.ring))
}
func (h *sexpHole) Type() *zygo.RegisteredType { return nil }

// sexpColor wraps an (rgb r g b) colour.
type sexpColor struct {
	c geom.Color
}

func (c *sexpColor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(rgb %g %g %g)", c.c[0], c.c[1], c.c[2])
}
func (c *sexpColor) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef is what every node-building form returns: the ID of the
// node, plus its name when the script gave one.
type sexpNodeRef struct {
	id   graph.NodeID
	name string
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name == "" {
		return "(node " + n.id.Short() + ")"
	}
	return fmt.Sprintf("(node %q)", n.name)
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps an r3.Vec from (vec3 x y z).
type sexpVec3 struct {
	vec r3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// kwArgs is an argument list split into keyword and positional parts.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs splits args. A keyword consumes the argument after it; a
// keyword at the very end has the value SexpNull, which toBool reads as
// true.
func parseArgs(args []zygo.Sexp) kwArgs {
	out := kwArgs{kw: map[string]zygo.Sexp{}}
	for i := 0; i < len(args); i++ {
		str, ok := args[i].(*zygo.SexpStr)
		if !ok || !strings.HasPrefix(str.S, kwPrefix) {
			out.positional = append(out.positional, args[i])
			continue
		}
		key := strings.TrimPrefix(str.S, kwPrefix)
		if i+1 == len(args) {
			out.kw[key] = zygo.SexpNull
			break
		}
		i++
		out.kw[key] = args[i]
	}
	return out
}

// float looks up keyword name, returning def when it is absent.
func (a kwArgs) float(name string, def float64) (float64, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// color looks up keyword name, returning def when it is absent.
func (a kwArgs) color(name string, def geom.Color) (geom.Color, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, nil
	}
	c, ok := v.(*sexpColor)
	if !ok {
		return def, fmt.Errorf("%s: expected rgb, got %s", name, describe(v))
	}
	return c.c, nil
}

func describe(s zygo.Sexp) string {
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// toFloat64 accepts integers and floats.
func toFloat64(s zygo.Sexp) (float64, error) {
	if i, ok := s.(*zygo.SexpInt); ok {
		return float64(i.Val), nil
	}
	if f, ok := s.(*zygo.SexpFloat); ok {
		return f.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

func toString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected string, got %s", describe(s))
	}
	return str.S, nil
}

// toBool accepts a boolean, or SexpNull for a keyword given bare.
func toBool(s zygo.Sexp) (bool, error) {
	if s == zygo.SexpNull {
		return true, nil
	}
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected boolean, got %s", describe(s))
}

func toNodeRef(s zygo.Sexp) (*sexpNodeRef, error) {
	ref, ok := s.(*sexpNodeRef)
	if !ok {
		return nil, fmt.Errorf("expected node reference, got %s", describe(s))
	}
	return ref, nil
}

func toVec3(s zygo.Sexp) (r3.Vec, error) {
	v, ok := s.(*sexpVec3)
	if !ok {
		return r3.Vec{}, fmt.Errorf("expected vec3, got %s", describe(s))
	}
	return v.vec, nil
}

// toPoints extracts the points of a ring. Each item is a (pt x y), or a
// list or array of them.
func toPoints(items []zygo.Sexp) ([]r2.Vec, error) {
	var out []r2.Vec
	for i, item := range items {
		if p, ok := item.(*sexpPoint); ok {
			out = append(out, p.p)
			continue
		}
		inner, err := sexpListToSlice(item)
		if err != nil {
			return nil, fmt.Errorf("point %d: expected pt, got %s", i, describe(item))
		}
		ps, err := toPoints(inner)
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

// sexpListToSlice flattens a list or an array one level. The empty list
// gives nil.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	if s == zygo.SexpNull {
		return nil, nil
	}
	if arr, ok := s.(*zygo.SexpArray); ok {
		return arr.Val, nil
	}
	if pair, ok := s.(*zygo.SexpPair); ok {
		return zygo.ListToArray(pair)
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ring registers vs in pts in the requested orientation.
func ring(pts *geom.Points, vs []r2.Vec, ccw bool) []int {
	ids := lo.Map(vs, func(v r2.Vec, _ int) int { return pts.AddPoint(v) })
	if (geom.SignedArea(ids, pts) > 0) != ccw {
		ids = lo.Reverse(ids)
	}
	return ids
}

// Scene construction.

// scene accumulates the graph for one evaluation. Anonymous nodes get
// sequence-numbered paths, so IDs are stable across evaluations of the
// same source.
type scene struct {
	g     *graph.DesignGraph
	seq   int
	order []graph.NodeID
}

func newScene() *scene {
	return &scene{g: graph.New()}
}

// add registers a node under path and returns a reference to it.
func (s *scene) add(path string, kind graph.NodeKind, name string, children []graph.NodeID, data graph.NodeData) *sexpNodeRef {
	if name == "" {
		s.seq++
		path = fmt.Sprintf("%s/_anon_%d", path, s.seq)
	}
	id := graph.NewNodeID(path)
	s.g.AddNode(&graph.Node{ID: id, Kind: kind, Name: name, Children: children, Data: data})
	s.order = append(s.order, id)
	return &sexpNodeRef{id: id, name: name}
}

// finish fixes the roots: the nodes no other node references, in
// creation order. When any of them is a group only the groups are kept,
// so scratch shapes outside the groups are not drawn.
func (s *scene) finish() *graph.DesignGraph {
	used := make(map[graph.NodeID]bool)
	for _, n := range s.g.Nodes {
		for _, c := range n.Children {
			used[c] = true
		}
	}
	top := lo.Filter(s.order, func(id graph.NodeID, _ int) bool { return !used[id] })
	groups := lo.Filter(top, func(id graph.NodeID, _ int) bool { return s.g.Nodes[id].Kind == graph.NodeGroup })
	if len(groups) > 0 {
		top = groups
	}
	for _, id := range top {
		s.g.AddRoot(id)
	}
	return s.g
}

// operand extracts the single node reference an operation applies to.
func operand(form string, pa kwArgs) (*sexpNodeRef, error) {
	if len(pa.positional) != 1 {
		return nil, fmt.Errorf("%s requires exactly one operand, got %d", form, len(pa.positional))
	}
	ref, err := toNodeRef(pa.positional[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", form, err)
	}
	return ref, nil
}

// defaultColor is the face colour when a form gives none.
var defaultColor = geom.Color{0.8, 0.8, 0.8}

// Builtin registration.

// registerBuiltins installs the inset DSL builtins into a zygomys
// environment. The builtins populate s during evaluation.
//
// Source must have gone through preprocessSource, or keywords are not
// recognised.
func registerBuiltins(env *zygo.Zlisp, s *scene) {

	// (pt 1 2)
	env.AddFunction("pt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("pt requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: y: %w", err)
		}
		return &sexpPoint{p: r2.Vec{X: x, Y: y}}, nil
	})

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// (rgb 0.9 0.2 0.2)
	env.AddFunction("rgb", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("rgb requires exactly 3 arguments, got %d", len(args))
		}
		var c geom.Color
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rgb: component %d: %w", i, err)
			}
			c[i] = f
		}
		return &sexpColor{c: c}, nil
	})

	// (hole (pt 1 1) (pt 1 2) (pt 2 2))
	env.AddFunction("hole", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		vs, err := toPoints(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hole: %w", err)
		}
		if len(vs) < 3 {
			return zygo.SexpNull, fmt.Errorf("hole needs at least 3 points, got %d", len(vs))
		}
		return &sexpHole{ring: vs}, nil
	})

	// (profile "tile" (pt 0 0) (pt 10 0) (pt 10 10) (pt 0 10)
	//          (hole (pt 4 4) (pt 6 4) (pt 6 6)) :color (rgb 1 0 0))
	//
	// Rings may be given in either orientation: the boundary is stored
	// counterclockwise and holes clockwise.
	env.AddFunction("profile", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("profile requires a name argument")
		}
		profName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("profile: name: %w", err)
		}
		if s.g.Lookup(profName) != nil {
			return zygo.SexpNull, fmt.Errorf("profile: name %q already defined", profName)
		}

		var boundary []zygo.Sexp
		var holes []*sexpHole
		for _, a := range pa.positional[1:] {
			if h, ok := a.(*sexpHole); ok {
				holes = append(holes, h)
				continue
			}
			boundary = append(boundary, a)
		}
		vs, err := toPoints(boundary)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("profile %q: %w", profName, err)
		}
		if len(vs) < 3 {
			return zygo.SexpNull, fmt.Errorf("profile %q needs at least 3 points, got %d", profName, len(vs))
		}
		c, err := pa.color("color", defaultColor)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("profile %q: %w", profName, err)
		}

		pts := geom.NewPoints()
		area := geom.NewPolyArea(pts, ring(pts, vs, true))
		for _, h := range holes {
			area.Holes = append(area.Holes, ring(pts, h.ring, false))
		}
		area.Color = c

		return s.add("profile/"+profName, graph.NodeProfile, profName, nil, graph.ProfileData{Area: area}), nil
	})

	// (inset tile :amount 1)
	env.AddFunction("inset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ref, err := operand("inset", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		amount, err := pa.float("amount", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("inset: %w", err)
		}
		return s.add("inset", graph.NodeInset, "", []graph.NodeID{ref.id}, graph.InsetData{Amount: amount}), nil
	})

	// (bevel tile :amount 1 :height 0.5 :quads true :color (rgb 1 1 1))
	env.AddFunction("bevel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ref, err := operand("bevel", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		bd := graph.BevelData{}
		if bd.Amount, err = pa.float("amount", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("bevel: %w", err)
		}
		if bd.Height, err = pa.float("height", bd.Amount); err != nil {
			return zygo.SexpNull, fmt.Errorf("bevel: %w", err)
		}
		if v, ok := pa.kw["quads"]; ok {
			if bd.Quads, err = toBool(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("bevel: quads: %w", err)
			}
		}
		if bd.Color, err = pa.color("color", defaultColor); err != nil {
			return zygo.SexpNull, fmt.Errorf("bevel: %w", err)
		}
		return s.add("bevel", graph.NodeBevel, "", []graph.NodeID{ref.id}, bd), nil
	})

	// (extrude tile :height 3 :color (rgb 1 1 1))
	env.AddFunction("extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ref, err := operand("extrude", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		ed := graph.ExtrudeData{}
		if ed.Height, err = pa.float("height", 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
		}
		if ed.Color, err = pa.color("color", defaultColor); err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
		}
		return s.add("extrude", graph.NodeExtrude, "", []graph.NodeID{ref.id}, ed), nil
	})

	// (place (bevel tile ...) :at (vec3 0 0 19) :rotate (vec3 0 0 90))
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ref, err := operand("place", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		td := graph.TransformData{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			td.Translation = &vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
			td.Rotation = &vec
		}
		return s.add("place", graph.NodeTransform, "", []graph.NodeID{ref.id}, td), nil
	})

	// (group "name" (bevel ...) (place ...) ...)
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("group requires a name argument")
		}
		grpName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}
		if s.g.Lookup(grpName) != nil {
			return zygo.SexpNull, fmt.Errorf("group: name %q already defined", grpName)
		}

		var children []graph.NodeID
		for i := 1; i < len(args); i++ {
			ref, ok := args[i].(*sexpNodeRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("group: child %d: expected node reference, got %s", i, describe(args[i]))
			}
			children = append(children, ref.id)
		}

		return s.add("group/"+grpName, graph.NodeGroup, grpName, children, graph.GroupData{}), nil
	})
}
