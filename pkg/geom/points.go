package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Key is a quantized coordinate, DistTol units per step.
type Key [2]int64

// Points is a registry that hands out stable integer ids for 2D
// coordinates. Coordinates that quantize to neighbouring cells share an
// id, so points closer than about DistTol collapse together.
//
// A Points value is not safe for concurrent use; every offset tree and
// every triangulation that shares ids must also share one registry.
type Points struct {
	pos []r2.Vec
	inv map[Key]int
}

// NewPoints returns a registry seeded with init, in order. Duplicates in
// init collapse, so the returned ids need not equal the slice indices.
func NewPoints(init ...r2.Vec) *Points {
	p := &Points{inv: make(map[Key]int, len(init))}
	for _, v := range init {
		p.AddPoint(v)
	}
	return p
}

// Quantize maps v onto the registry grid.
func Quantize(v r2.Vec) Key {
	return Key{int64(math.Round(v.X * invDistTol)), int64(math.Round(v.Y * invDistTol))}
}

// AddPoint returns the id of v, registering it if no point within one
// grid cell is already known.
func (p *Points) AddPoint(v r2.Vec) int {
	k := Quantize(v)
	for i := int64(-1); i <= 1; i++ {
		for j := int64(-1); j <= 1; j++ {
			if id, ok := p.inv[Key{k[0] + i, k[1] + j}]; ok {
				return id
			}
		}
	}
	id := len(p.pos)
	p.inv[k] = id
	p.pos = append(p.pos, v)
	return id
}

// AddPoints registers every coordinate of other and returns the map from
// other's ids to ids in p.
func (p *Points) AddPoints(other *Points) []int {
	vmap := make([]int, other.Len())
	for i, v := range other.pos {
		vmap[i] = p.AddPoint(v)
	}
	return vmap
}

// Pos returns the coordinate of id.
func (p *Points) Pos(id int) r2.Vec {
	return p.pos[id]
}

// Len returns the number of registered points.
func (p *Points) Len() int {
	return len(p.pos)
}

// Transform rewrites every coordinate with f. Ids are preserved; the
// lookup index is rebuilt from the new coordinates, first id winning when
// two points now quantize to the same cell.
func (p *Points) Transform(f func(r2.Vec) r2.Vec) {
	p.inv = make(map[Key]int, len(p.pos))
	for i, v := range p.pos {
		p.pos[i] = f(v)
		k := Quantize(p.pos[i])
		if _, ok := p.inv[k]; !ok {
			p.inv[k] = i
		}
	}
}

// Bounds returns the bounding box of the given ids, or of every point
// when ids is empty.
func (p *Points) Bounds(ids ...int) r2.Box {
	if len(ids) == 0 {
		return boundsOf(p.pos)
	}
	vs := make([]r2.Vec, len(ids))
	for i, id := range ids {
		vs[i] = p.pos[id]
	}
	return boundsOf(vs)
}

func boundsOf(vs []r2.Vec) r2.Box {
	if len(vs) == 0 {
		return r2.Box{}
	}
	b := r2.Box{Min: vs[0], Max: vs[0]}
	for _, v := range vs[1:] {
		b.Min.X = math.Min(b.Min.X, v.X)
		b.Min.Y = math.Min(b.Min.Y, v.Y)
		b.Max.X = math.Max(b.Max.X, v.X)
		b.Max.Y = math.Max(b.Max.Y, v.Y)
	}
	return b
}
