package graph

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodeProfile   NodeKind = iota // planar polygon with holes
	NodeBevel                     // sloped walls from a profile up to its inset
	NodeInset                     // a profile shrunk by the straight skeleton
	NodeExtrude                   // straight prism of a profile
	NodeTransform                 // spatial transformation (place)
	NodeGroup                     // logical grouping
)

func (k NodeKind) String() string {
	switch k {
	case NodeProfile:
		return "profile"
	case NodeBevel:
		return "bevel"
	case NodeInset:
		return "inset"
	case NodeExtrude:
		return "extrude"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Planar reports whether nodes of kind k evaluate to 2D polygons, which
// makes them valid inputs for bevel, inset and extrude.
func (k NodeKind) Planar() bool {
	return k == NodeProfile || k == NodeInset
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
