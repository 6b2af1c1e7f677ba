package graph

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ErrUnknownNode is returned when an ID or name does not resolve to a node.
var ErrUnknownNode = errors.New("graph: unknown node")

// DesignGraph is a scene: nodes keyed by ID, the roots to render, and
// the names scripts gave to nodes. A graph is built once by the engine
// and only read afterwards.
type DesignGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Version   uint64            `json:"version"`
}

// New returns an empty graph.
func New() *DesignGraph {
	return &DesignGraph{Nodes: map[NodeID]*Node{}, NameIndex: map[string]NodeID{}}
}

// AddNode stores n, replacing any node with the same ID, and indexes its
// name.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot appends id to the roots.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node a script named name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	if id, ok := g.NameIndex[name]; ok {
		return g.Nodes[id]
	}
	return nil
}

// MustLookup is Lookup for names known to exist. It panics otherwise.
func (g *DesignGraph) MustLookup(name string) *Node {
	if n := g.Lookup(name); n != nil {
		return n
	}
	panic(fmt.Sprintf("graph: no node named %q", name))
}

// Get returns the node with id, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Resolve returns the node with the given ID or ErrUnknownNode.
func (g *DesignGraph) Resolve(id NodeID) (*Node, error) {
	n, ok := g.Nodes[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNode, "id %s", id.Short())
	}
	return n, nil
}

// Profiles returns every profile node, in no particular order.
func (g *DesignGraph) Profiles() []*Node {
	return lo.Filter(lo.Values(g.Nodes), func(n *Node, _ int) bool { return n.Kind == NodeProfile })
}

// Children resolves the children of n in order. IDs that resolve to
// nothing are skipped; Validate reports them.
func (g *DesignGraph) Children(n *Node) []*Node {
	return lo.FilterMap(n.Children, func(id NodeID, _ int) (*Node, bool) {
		c, ok := g.Nodes[id]
		return c, ok
	})
}

// NodeCount returns the number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}
