package vecio

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/inset/pkg/offset"
)

// SVGOptions controls the drawing produced by WriteSVG.
type SVGOptions struct {
	Width       int // pixels across the drawing, margins included
	Margin      int
	StrokeWidth float64
}

// DefaultSVGOptions returns an 800 pixel wide drawing with a 10 pixel margin.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 800, Margin: 10, StrokeWidth: 1}
}

// palette cycles through depths.
var palette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b"}

// WriteSVG draws the rings of every layer, one <g> element per depth.
// The viewport is fitted to the layers' bounds and y points up.
func WriteSVG(w io.Writer, layers []*offset.Offset, opts SVGOptions) error {
	if opts.Width <= 2*opts.Margin {
		return fmt.Errorf("vecio: svg width %d leaves no room inside margin %d", opts.Width, opts.Margin)
	}
	b, ok := extent(layers)
	if !ok {
		return fmt.Errorf("vecio: no rings to draw")
	}
	size := b.Size()
	span := max(size.X, size.Y)
	scale := 1.0
	if span > 0 {
		scale = float64(opts.Width-2*opts.Margin) / span
	}
	height := int(math.Ceil(size.Y*scale)) + 2*opts.Margin
	width := int(math.Ceil(size.X*scale)) + 2*opts.Margin

	px := func(v r2.Vec) (int, int) {
		x := float64(opts.Margin) + (v.X-b.Min.X)*scale
		y := float64(opts.Margin) + (b.Max.Y-v.Y)*scale
		return int(math.Round(x)), int(math.Round(y))
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	depths, groups := byDepth(layers)
	for _, d := range depths {
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", palette[d%len(palette)], opts.StrokeWidth)
		canvas.Gid(fmt.Sprintf("depth-%d", d))
		for _, l := range groups[d] {
			for _, r := range rings(l) {
				xs := lo.Map(r, func(v r2.Vec, _ int) int { x, _ := px(v); return x })
				ys := lo.Map(r, func(v r2.Vec, _ int) int { _, y := px(v); return y })
				canvas.Polygon(xs, ys, style)
			}
		}
		canvas.Gend()
	}
	canvas.End()
	return nil
}
