package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the job file read by -config.
type Config struct {
	// Workers bounds how many jobs run at once. Zero means one per job.
	Workers int   `yaml:"workers"`
	Jobs    []Job `yaml:"jobs"`
}

// Job turns one source file into one or more output files.
type Job struct {
	Name string `yaml:"name"`
	// Source is a .lisp scene script or a .geojson profile set, relative
	// to the job file.
	Source string `yaml:"source"`
	// Format overrides the source format taken from the file extension:
	// "lisp" or "geojson".
	Format string `yaml:"format"`
	// Amount is the bevel inset for GeoJSON profiles and the inset drawn
	// by svg and dxf outputs. Zero draws the full skeleton.
	Amount float64 `yaml:"amount"`
	// Height is the bevel height for GeoJSON profiles, defaulting to Amount.
	Height  float64  `yaml:"height"`
	Quads   bool     `yaml:"quads"`
	Direct  bool     `yaml:"direct"`
	Outputs []string `yaml:"outputs"`
}

var knownOutputs = map[string]bool{"obj": true, "stl": true, "svg": true, "dxf": true}

// loadConfig reads and checks the job file at path. Job sources are
// resolved against the file's directory.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	dir := filepath.Dir(path)
	for i := range cfg.Jobs {
		if !filepath.IsAbs(cfg.Jobs[i].Source) {
			cfg.Jobs[i].Source = filepath.Join(dir, cfg.Jobs[i].Source)
		}
	}
	return cfg, nil
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	if cfg.Workers < 0 {
		return nil, errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if len(cfg.Jobs) == 0 {
		return nil, errors.New("no jobs")
	}
	seen := make(map[string]bool)
	for i := range cfg.Jobs {
		j := &cfg.Jobs[i]
		if j.Name == "" {
			return nil, errors.Errorf("job %d: missing name", i)
		}
		if seen[j.Name] {
			return nil, errors.Errorf("job %q: duplicate name", j.Name)
		}
		seen[j.Name] = true
		if err := j.check(); err != nil {
			return nil, errors.Wrapf(err, "job %q", j.Name)
		}
	}
	return &cfg, nil
}

// check fills defaults and rejects a job that cannot run.
func (j *Job) check() error {
	if j.Source == "" {
		return errors.New("missing source")
	}
	if j.Format == "" {
		j.Format = strings.TrimPrefix(strings.ToLower(filepath.Ext(j.Source)), ".")
	}
	switch j.Format {
	case "lisp":
	case "geojson", "json":
		j.Format = "geojson"
		if j.Amount <= 0 {
			return errors.Errorf("amount must be positive, got %g", j.Amount)
		}
	default:
		return errors.Errorf("unknown format %q", j.Format)
	}
	if j.Amount < 0 {
		return errors.Errorf("amount must not be negative, got %g", j.Amount)
	}
	if j.Height < 0 {
		return errors.Errorf("height must not be negative, got %g", j.Height)
	}
	if j.Height == 0 {
		j.Height = j.Amount
	}
	if len(j.Outputs) == 0 {
		return errors.New("no outputs")
	}
	for _, o := range j.Outputs {
		if !knownOutputs[o] {
			return errors.Errorf("unknown output %q", o)
		}
	}
	return nil
}
