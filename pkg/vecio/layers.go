package vecio

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/inset/pkg/offset"
)

// byDepth groups layers by nesting depth, shallowest first.
func byDepth(layers []*offset.Offset) ([]int, map[int][]*offset.Offset) {
	groups := lo.GroupBy(layers, func(l *offset.Offset) int { return l.Depth() })
	depths := lo.Keys(groups)
	slices.Sort(depths)
	return depths, groups
}

// rings returns the coordinates of every non-trivial ring of l.
func rings(l *offset.Offset) [][]r2.Vec {
	rs := lo.Filter(l.Area.Rings(), func(r []int, _ int) bool { return len(r) > 2 })
	return lo.Map(rs, func(r []int, _ int) []r2.Vec { return l.Area.Coords(r) })
}

// extent returns the bounding box of every ring in layers.
func extent(layers []*offset.Offset) (r2.Box, bool) {
	var b r2.Box
	seen := false
	for _, l := range layers {
		for _, r := range rings(l) {
			for _, v := range r {
				if !seen {
					b = r2.Box{Min: v, Max: v}
					seen = true
					continue
				}
				b.Min = r2.Vec{X: min(b.Min.X, v.X), Y: min(b.Min.Y, v.Y)}
				b.Max = r2.Vec{X: max(b.Max.X, v.X), Y: max(b.Max.Y, v.Y)}
			}
		}
	}
	return b, seen
}
