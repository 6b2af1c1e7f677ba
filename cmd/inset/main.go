// Command inset runs batch bevel and offset jobs described by a YAML
// job file.
//
//	inset -config jobs.yaml -out build
//
// Each job reads a .lisp scene script or a .geojson profile set and
// writes any of <name>.obj, .stl, .svg and .dxf into the output
// directory.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/inset/pkg/offset"
	"github.com/chazu/inset/pkg/tessellate"
	"github.com/chazu/inset/pkg/triquad"
)

func main() {
	var (
		configPath = flag.String("config", "jobs.yaml", "job file")
		outDir     = flag.String("out", ".", "output directory")
		verbose    = flag.Bool("v", false, "debug logging")
		workers    = flag.Int("workers", 0, "concurrent jobs, overriding the job file")
	)
	flag.Parse()

	log := newLogger(*verbose)
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Error("create output directory", "err", err)
		os.Exit(1)
	}
	if err := run(context.Background(), cfg, *outDir, log); err != nil {
		log.Error("run", "err", err)
		os.Exit(1)
	}
}

// newLogger builds the stderr logger and installs it in the library
// packages.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	offset.SetLogger(l.With("pkg", "offset"))
	triquad.SetLogger(l.With("pkg", "triquad"))
	tessellate.SetLogger(l.With("pkg", "tessellate"))
	return l
}

// run executes the jobs concurrently. The first failure cancels the jobs
// that have not finished.
func run(ctx context.Context, cfg *Config, outDir string, log *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for _, job := range cfg.Jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := runJob(ctx, job, outDir, log); err != nil {
				return errors.Wrapf(err, "job %q", job.Name)
			}
			return nil
		})
	}
	return g.Wait()
}
