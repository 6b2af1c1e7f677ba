package main

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/chazu/inset/pkg/engine"
	"github.com/chazu/inset/pkg/geom"
	"github.com/chazu/inset/pkg/graph"
	"github.com/chazu/inset/pkg/kernel"
	"github.com/chazu/inset/pkg/kernel/sdfx"
	"github.com/chazu/inset/pkg/model"
	"github.com/chazu/inset/pkg/offset"
	"github.com/chazu/inset/pkg/tessellate"
	"github.com/chazu/inset/pkg/vecio"
)

// result is what a job produced before any file is written.
type result struct {
	meshes   []*kernel.Mesh
	model    *model.Model // set for profile jobs, which keep exact faces
	profiles []*geom.PolyArea
}

// runJob reads the job's source, builds its geometry and writes every
// requested output into outDir.
func runJob(ctx context.Context, job Job, outDir string, log *slog.Logger) error {
	src, err := os.ReadFile(job.Source)
	if err != nil {
		return errors.Wrap(err, "read source")
	}

	var res *result
	switch job.Format {
	case "lisp":
		res, err = sceneJob(job, string(src), log)
	case "geojson":
		res, err = profileJob(job, src)
	default:
		err = errors.Errorf("unknown format %q", job.Format)
	}
	if err != nil {
		return err
	}
	log.Debug("job built", "job", job.Name, "meshes", len(res.meshes), "profiles", len(res.profiles))

	var layers []*offset.Offset
	for _, kind := range job.Outputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if (kind == "svg" || kind == "dxf") && layers == nil {
			if layers, err = offsetLayers(res.profiles, job.Amount); err != nil {
				return err
			}
		}
		path := filepath.Join(outDir, job.Name+"."+kind)
		if err := write(kind, path, res, layers); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
		log.Info("wrote output", "job", job.Name, "path", path)
	}
	return nil
}

// sceneJob evaluates a scene script and tessellates it. Each job gets
// its own engine, since evaluations on one engine supersede each other.
func sceneJob(job Job, src string, log *slog.Logger) (*result, error) {
	res, err := engine.NewEngine().Run(src)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate")
	}
	for _, w := range res.Warnings {
		log.Warn("scene", "job", job.Name, "node", w.NodeID.Short(), "msg", w.Message)
	}
	if !res.OK() {
		msgs := lo.Map(res.Errors, func(e engine.EvalError, _ int) string { return e.Error() })
		return nil, errors.Errorf("evaluate: %s", strings.Join(msgs, "; "))
	}

	meshes, err := tessellate.Tessellate(res.Graph, sdfx.New(), tessellate.Options{Direct: job.Direct})
	if err != nil {
		return nil, err
	}

	nodes := res.Graph.Profiles()
	slices.SortFunc(nodes, func(a, b *graph.Node) int { return strings.Compare(a.Name, b.Name) })
	profiles := lo.FilterMap(nodes, func(n *graph.Node, _ int) (*geom.PolyArea, bool) {
		d, ok := n.Data.(graph.ProfileData)
		return d.Area, ok && d.Area != nil
	})
	return &result{meshes: meshes, profiles: profiles}, nil
}

// profileJob bevels every polygon of a GeoJSON file by the job's amount
// and height.
func profileJob(job Job, src []byte) (*result, error) {
	pas, err := vecio.ReadGeoJSON(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	m := model.New()
	for i, pa := range pas.Areas {
		if err := m.Bevel(pa, job.Amount, job.Height, model.WithQuads(job.Quads)); err != nil {
			return nil, errors.Wrapf(err, "profile %d", i)
		}
	}
	mesh := m.ToMesh()
	mesh.PartName = job.Name
	return &result{meshes: []*kernel.Mesh{mesh}, model: m, profiles: pas.Areas}, nil
}

// offsetLayers offsets copies of profiles by amount, or until they vanish
// when amount is zero, and returns every layer.
func offsetLayers(profiles []*geom.PolyArea, amount float64) ([]*offset.Offset, error) {
	target := amount
	if target <= 0 {
		target = math.Inf(1)
	}
	var layers []*offset.Offset
	for i, pa := range profiles {
		o, err := offset.New(geom.NewPolyAreas().Add(pa))
		if err != nil {
			return nil, errors.Wrapf(err, "profile %d", i)
		}
		if err := o.Build(target); err != nil {
			return nil, errors.Wrapf(err, "profile %d", i)
		}
		layers = append(layers, o.Layers()...)
	}
	return layers, nil
}

func write(kind, path string, res *result, layers []*offset.Offset) error {
	switch kind {
	case "stl":
		return sdfx.SaveMeshSTL(path, res.meshes...)
	case "dxf":
		return vecio.WriteDXF(path, layers)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	switch kind {
	case "obj":
		if res.model != nil {
			err = res.model.WriteOBJ(f)
		} else {
			err = kernel.WriteOBJ(f, res.meshes)
		}
	case "svg":
		err = vecio.WriteSVG(f, layers, vecio.DefaultSVGOptions())
	default:
		err = errors.Errorf("unknown output %q", kind)
	}
	if err != nil {
		return err
	}
	return f.Close()
}
