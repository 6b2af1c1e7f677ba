package graph

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/chazu/inset/pkg/geom"
)

// ValidationSeverity indicates whether a validation finding blocks
// tessellation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID // zero for graph-level findings
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// findings collects ValidationErrors.
type findings []ValidationError

func (f *findings) add(id NodeID, sev ValidationSeverity, format string, args ...any) {
	*f = append(*f, ValidationError{NodeID: id, Message: fmt.Sprintf(format, args...), Severity: sev})
}

func (f *findings) errorf(id NodeID, format string, args ...any) {
	f.add(id, SeverityError, format, args...)
}

func (f *findings) warnf(id NodeID, format string, args ...any) {
	f.add(id, SeverityWarning, format, args...)
}

// Validate runs all structural and geometric checks on the scene graph
// and returns every finding. A result without error-severity findings
// means the graph can be tessellated. This function never mutates g.
func Validate(g *DesignGraph) []ValidationError {
	var f findings
	for _, check := range []func(*DesignGraph, *findings){
		checkAcyclic,
		checkReferences,
		checkNames,
		checkRoots,
		checkOperands,
		checkProfiles,
		checkAmounts,
	} {
		check(g, &f)
	}
	return f
}

// HasErrors reports whether errs contains an error-severity finding.
func HasErrors(errs []ValidationError) bool {
	return lo.ContainsBy(errs, func(e ValidationError) bool { return e.Severity == SeverityError })
}

// sortedIDs returns the node IDs in a stable order so findings do not
// depend on map iteration.
func sortedIDs(g *DesignGraph) []NodeID {
	ids := lo.Keys(g.Nodes)
	slices.SortFunc(ids, func(a, b NodeID) int { return compareIDs(a, b) })
	return ids
}

func compareIDs(a, b NodeID) int {
	for i := range a {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return 0
}

// checkAcyclic reports the first cycle found by a depth-first walk.
func checkAcyclic(g *DesignGraph, f *findings) {
	onPath := make(map[NodeID]bool)
	done := make(map[NodeID]bool)
	var cyclic func(id NodeID) bool
	cyclic = func(id NodeID) bool {
		if done[id] {
			return false
		}
		if onPath[id] {
			f.errorf(id, "cycle detected: node %s is part of a cycle", id.Short())
			return true
		}
		n, ok := g.Nodes[id]
		if !ok {
			return false
		}
		onPath[id] = true
		if slices.ContainsFunc(n.Children, cyclic) {
			return true
		}
		delete(onPath, id)
		done[id] = true
		return false
	}
	for _, id := range sortedIDs(g) {
		if cyclic(id) {
			return
		}
	}
}

// checkReferences reports child IDs that resolve to nothing.
func checkReferences(g *DesignGraph, f *findings) {
	for _, id := range sortedIDs(g) {
		for _, c := range g.Nodes[id].Children {
			if _, ok := g.Nodes[c]; !ok {
				f.errorf(id, "child reference %s does not exist", c.Short())
			}
		}
	}
}

// checkNames reports stale name index entries and names used twice.
func checkNames(g *DesignGraph, f *findings) {
	for name, id := range g.NameIndex {
		if _, ok := g.Nodes[id]; !ok {
			f.errorf(ZeroID, "name index entry %q references non-existent node %s", name, id.Short())
		}
	}
	named := lo.Filter(lo.Values(g.Nodes), func(n *Node, _ int) bool { return n.Name != "" })
	for name, count := range lo.CountValuesBy(named, func(n *Node) string { return n.Name }) {
		if count > 1 {
			f.errorf(ZeroID, "duplicate name %q assigned to %d nodes", name, count)
		}
	}
}

// checkRoots reports missing roots and warns about nodes no root reaches.
func checkRoots(g *DesignGraph, f *findings) {
	seen := make(map[NodeID]bool)
	var reach func(id NodeID)
	reach = func(id NodeID) {
		if seen[id] {
			return
		}
		seen[id] = true
		if n, ok := g.Nodes[id]; ok {
			for _, c := range n.Children {
				reach(c)
			}
		}
	}
	for _, r := range g.Roots {
		if _, ok := g.Nodes[r]; !ok {
			f.errorf(ZeroID, "root reference %s does not exist", r.Short())
			continue
		}
		reach(r)
	}
	for _, id := range sortedIDs(g) {
		if !seen[id] {
			f.warnf(id, "%s is not reachable from any root (orphan)", nodeLabel(g.Nodes[id]))
		}
	}
}

// checkOperands checks child counts and kinds: offset operations and
// transforms take exactly one child, offset operations need a planar one,
// and profiles are leaves.
func checkOperands(g *DesignGraph, f *findings) {
	for _, id := range sortedIDs(g) {
		n := g.Nodes[id]
		switch n.Kind {
		case NodeProfile:
			if len(n.Children) > 0 {
				f.errorf(id, "profile has children")
			}
		case NodeBevel, NodeInset, NodeExtrude, NodeTransform:
			if len(n.Children) != 1 {
				f.errorf(id, "%s takes one child, has %d", n.Kind, len(n.Children))
				continue
			}
			if n.Kind == NodeTransform {
				continue
			}
			if c, ok := g.Nodes[n.Children[0]]; ok && !c.Kind.Planar() {
				f.errorf(id, "%s operand %s is %s, not a profile or inset", n.Kind, c.ID.Short(), c.Kind)
			}
		}
	}
}

// checkProfiles runs the polygon checks on every profile.
func checkProfiles(g *DesignGraph, f *findings) {
	for _, id := range sortedIDs(g) {
		n := g.Nodes[id]
		if n.Kind != NodeProfile {
			continue
		}
		pd, ok := n.Data.(ProfileData)
		if !ok || pd.Area == nil {
			f.errorf(id, "profile has no polygon")
			continue
		}
		for _, e := range geom.Validate(pd.Area) {
			sev := SeverityError
			if e.Severity == geom.SeverityWarning {
				sev = SeverityWarning
			}
			f.add(id, sev, "%s: %s", nodeLabel(n), e.Error())
		}
	}
}

// checkAmounts checks that inset amounts and heights are positive.
func checkAmounts(g *DesignGraph, f *findings) {
	positive := func(n *Node, what string, v float64) {
		if v <= 0 {
			f.errorf(n.ID, "%s %s must be positive, got %g", n.Kind, what, v)
		}
	}
	for _, id := range sortedIDs(g) {
		n := g.Nodes[id]
		switch d := n.Data.(type) {
		case BevelData:
			positive(n, "amount", d.Amount)
			positive(n, "height", d.Height)
		case InsetData:
			positive(n, "amount", d.Amount)
		case ExtrudeData:
			positive(n, "height", d.Height)
		}
	}
}

func nodeLabel(n *Node) string {
	switch {
	case n.Name != "":
		return fmt.Sprintf("%s %q", n.Kind, n.Name)
	case n.Kind == NodeProfile:
		return fmt.Sprintf("profile %s", n.ID.Short())
	}
	return fmt.Sprintf("%s %s", n.Kind, n.ID.Short())
}
