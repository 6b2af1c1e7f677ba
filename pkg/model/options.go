package model

import "github.com/chazu/inset/pkg/geom"

type buildConfig struct {
	color geom.Color
	caps  bool
	quads bool
}

func defaultBuildConfig() buildConfig {
	return buildConfig{color: geom.Color{0.8, 0.8, 0.8}, caps: true}
}

// Option configures Bevel and Extrude.
type Option func(*buildConfig)

// WithColor sets the color of every face added.
func WithColor(c geom.Color) Option {
	return func(b *buildConfig) {
		b.color = c
	}
}

// WithCaps controls whether the flat top and bottom faces are added.
// They are by default.
func WithCaps(caps bool) Option {
	return func(b *buildConfig) {
		b.caps = caps
	}
}

// WithQuads fills caps with quads where possible instead of triangles.
func WithQuads(quads bool) Option {
	return func(b *buildConfig) {
		b.quads = quads
	}
}
