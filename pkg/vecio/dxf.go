package vecio

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/entity"

	"github.com/chazu/inset/pkg/offset"
)

// LayerName returns the DXF layer holding rings at depth.
func LayerName(depth int) string {
	return fmt.Sprintf("INSET_%d", depth)
}

// WriteDXF saves the rings of every layer to path as closed lightweight
// polylines, one DXF layer per depth.
func WriteDXF(path string, layers []*offset.Offset) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0
	depths, groups := byDepth(layers)
	for _, depth := range depths {
		c := color.Red
		if depth%2 == 1 {
			c = color.Blue
		}
		name := LayerName(depth)
		if _, err := d.AddLayer(name, c, dxf.DefaultLineType, true); err != nil {
			return errors.Wrapf(err, "vecio: dxf layer %s", name)
		}
		if err := d.ChangeLayer(name); err != nil {
			return errors.Wrapf(err, "vecio: dxf layer %s", name)
		}
		for _, l := range groups[depth] {
			for _, r := range rings(l) {
				lwp := entity.NewLwPolyline(len(r))
				for j, v := range r {
					lwp.Vertices[j] = []float64{v.X, v.Y}
				}
				lwp.Close()
				d.AddEntity(lwp)
			}
		}
	}
	if err := d.SaveAs(path); err != nil {
		return errors.Wrap(err, "vecio: save dxf")
	}
	return nil
}
