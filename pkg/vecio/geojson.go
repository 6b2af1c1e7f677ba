package vecio

import (
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/inset/pkg/geom"
)

// ReadGeoJSON reads a feature collection of Polygon and MultiPolygon
// features into one registry. Rings are reoriented so boundaries run
// counterclockwise and holes clockwise; each resulting area must then
// pass geom's PolyArea checks.
func ReadGeoJSON(r io.Reader) (*geom.PolyAreas, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "vecio: read geojson")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "vecio: parse geojson")
	}

	pas := geom.NewPolyAreas()
	for i, f := range fc.Features {
		var polys []orb.Polygon
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			polys = []orb.Polygon{g}
		case orb.MultiPolygon:
			polys = g
		case nil:
			return nil, errors.Errorf("vecio: feature %d: no geometry", i)
		default:
			return nil, errors.Errorf("vecio: feature %d: unsupported geometry %s", i, g.GeoJSONType())
		}
		for _, p := range polys {
			pa, err := polyArea(pas.Points, p)
			if err != nil {
				return nil, errors.Wrapf(err, "vecio: feature %d", i)
			}
			pas.Areas = append(pas.Areas, pa)
		}
	}
	return pas, nil
}

// polyArea registers the rings of p in pts.
func polyArea(pts *geom.Points, p orb.Polygon) (*geom.PolyArea, error) {
	if len(p) == 0 {
		return nil, errors.New("empty polygon")
	}
	pa := geom.NewPolyArea(pts, ringIDs(pts, p[0], orb.CCW))
	for _, h := range p[1:] {
		pa.Holes = append(pa.Holes, ringIDs(pts, h, orb.CW))
	}
	if len(pa.Poly) < 3 {
		return nil, errors.Errorf("boundary has %d distinct vertices", len(pa.Poly))
	}
	if err := pa.Check(); err != nil {
		return nil, err
	}
	return pa, nil
}

// ringIDs registers r with the given orientation, dropping the closing
// point GeoJSON repeats.
func ringIDs(pts *geom.Points, r orb.Ring, want orb.Orientation) []int {
	if len(r) == 0 {
		return nil
	}
	r = r.Clone()
	if r.Closed() {
		r = r[:len(r)-1]
	}
	if o := r.Orientation(); o != 0 && o != want {
		r.Reverse()
	}
	ids := make([]int, 0, len(r))
	for _, p := range r {
		id := pts.AddPoint(r2Vec(p))
		if len(ids) > 0 && (ids[len(ids)-1] == id || ids[0] == id) {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func r2Vec(p orb.Point) r2.Vec {
	return r2.Vec{X: p[0], Y: p[1]}
}
