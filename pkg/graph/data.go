package graph

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/inset/pkg/geom"
)

// ---------------------------------------------------------------------------
// Profile
// ---------------------------------------------------------------------------

// ProfileData is a polygon with holes. Created by the (profile ...) form.
type ProfileData struct {
	Area *geom.PolyArea `json:"-"`
}

func (ProfileData) nodeData() {}

// ---------------------------------------------------------------------------
// Offset operations
// ---------------------------------------------------------------------------

// BevelData raises the child profile by Height while insetting it by
// Amount, giving sloped walls and a smaller top.
type BevelData struct {
	Amount float64    `json:"amount"`
	Height float64    `json:"height"`
	Quads  bool       `json:"quads,omitempty"`  // fill caps with quads
	Color  geom.Color `json:"color"`
}

func (BevelData) nodeData() {}

// InsetData shrinks the child profile by Amount. The result is planar and
// can feed another bevel, inset or extrude.
type InsetData struct {
	Amount float64 `json:"amount"`
}

func (InsetData) nodeData() {}

// ExtrudeData is a straight prism of the child profile.
type ExtrudeData struct {
	Height float64    `json:"height"`
	Color  geom.Color `json:"color"`
}

func (ExtrudeData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial transformation applied to a child node.
// Created by the (place ...) form.
type TransformData struct {
	Translation *r3.Vec `json:"translation,omitempty"`
	Rotation    *r3.Vec `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping. Created by the (group ...) form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
