// Package graph defines the scene graph for inset.
// The scene graph is an immutable DAG of profiles and the bevel, inset,
// extrude, placement and grouping operations applied to them.
package graph
