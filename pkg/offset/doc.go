// Package offset computes inward offsets of a polygon with holes by
// simulating its shrinking wavefront, the construction behind the
// straight skeleton.
//
// Every vertex emits a Spoke that moves along its angle bisector at the
// speed that keeps adjacent edges receding at unit rate. The simulation
// advances to the next event (two spokes meeting, or a reflex spoke
// hitting an advancing edge), takes the spoke end points as a new
// polygon layer, repairs its topology, and recurses. The result is a
// tree of Offset layers. Each layer carries the time it started at, so a
// caller can map time to height for bevels.
//
// Rings keep the material on their left: the boundary runs
// counterclockwise and holes run clockwise.
package offset
