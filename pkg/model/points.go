package model

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/inset/pkg/geom"
)

type key [3]int64

// Points is a 3D point registry. Like geom.Points it hands out stable
// ids and merges coordinates that agree within geom.DistTol.
type Points struct {
	pos []r3.Vec
	inv map[key]int
}

// NewPoints returns an empty registry.
func NewPoints() *Points {
	return &Points{inv: make(map[key]int)}
}

func quantize(v r3.Vec) key {
	const inv = 1 / geom.DistTol
	return key{int64(math.Round(v.X * inv)), int64(math.Round(v.Y * inv)), int64(math.Round(v.Z * inv))}
}

// AddPoint returns the id of v, registering it if no point within
// tolerance exists yet.
func (p *Points) AddPoint(v r3.Vec) int {
	k := quantize(v)
	for i := int64(-1); i <= 1; i++ {
		for j := int64(-1); j <= 1; j++ {
			for l := int64(-1); l <= 1; l++ {
				if id, ok := p.inv[key{k[0] + i, k[1] + j, k[2] + l}]; ok {
					return id
				}
			}
		}
	}
	id := len(p.pos)
	p.inv[k] = id
	p.pos = append(p.pos, v)
	return id
}

// Pos returns the coordinates of id.
func (p *Points) Pos(id int) r3.Vec {
	return p.pos[id]
}

// Len returns the number of registered points.
func (p *Points) Len() int {
	return len(p.pos)
}

// Lift registers every point of a 2D registry at height z and returns
// the id map from 2D to 3D ids.
func (p *Points) Lift(pts *geom.Points, z float64) []int {
	vmap := make([]int, pts.Len())
	for i := range vmap {
		q := pts.Pos(i)
		vmap[i] = p.AddPoint(r3.Vec{X: q.X, Y: q.Y, Z: z})
	}
	return vmap
}

func (p *Points) transform(f func(r3.Vec) r3.Vec) {
	p.inv = make(map[key]int, len(p.pos))
	for i, v := range p.pos {
		p.pos[i] = f(v)
		k := quantize(p.pos[i])
		if _, ok := p.inv[k]; !ok {
			p.inv[k] = i
		}
	}
}
