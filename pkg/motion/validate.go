package motion

import (
	"fmt"

	"github.com/matzehuels/slidemotion/pkg/errors"
)

// IssueKind classifies a structural problem found by Check.
type IssueKind string

// Issue kinds.
const (
	IssueUnknownArchetype IssueKind = "unknown_archetype"
	IssueEmptyNodeID      IssueKind = "empty_node_id"
	IssueDuplicateNode    IssueKind = "duplicate_node"
	IssueDanglingEdge     IssueKind = "dangling_edge"
	IssueSelfLoop         IssueKind = "self_loop"
	IssueDuplicateEdge    IssueKind = "duplicate_edge"
	IssueUnknownVariant   IssueKind = "unknown_variant"
)

// Issue is a non-fatal structural problem of a graph.
type Issue struct {
	Kind      IssueKind `json:"kind"`
	ElementID string    `json:"element_id,omitempty"`
	Message   string    `json:"message"`
}

func (i Issue) String() string { return i.Message }

// Check reports every structural problem of g without failing. The result is
// empty for a well-formed graph.
func Check(g Graph) []Issue {
	var issues []Issue
	add := func(kind IssueKind, id, format string, args ...any) {
		issues = append(issues, Issue{Kind: kind, ElementID: id, Message: fmt.Sprintf(format, args...)})
	}

	if !g.Archetype.Valid() {
		add(IssueUnknownArchetype, g.ID, "unknown archetype %q", g.Archetype)
	}

	seen := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		switch {
		case n.ID == "":
			add(IssueEmptyNodeID, "", "node %d has an empty id", i)
		case seen[n.ID]:
			add(IssueDuplicateNode, n.ID, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		if !n.Data.Variant.Valid() {
			add(IssueUnknownVariant, n.ID, "node %q has unknown variant %q", n.ID, n.Data.Variant)
		}
	}

	edges := make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if issue, ok := checkEdge(e, seen, edges); !ok {
			issues = append(issues, issue)
			continue
		}
		edges[[2]string{e.Source, e.Target}] = true
	}
	return issues
}

// UsableEdges returns the edges of g that reference two distinct existing
// nodes, dropping duplicates, plus an issue for every dropped edge.
func UsableEdges(g Graph) ([]Edge, []Issue) {
	nodes := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.ID] = true
	}
	var (
		kept    []Edge
		dropped []Issue
	)
	seen := make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if issue, ok := checkEdge(e, nodes, seen); !ok {
			dropped = append(dropped, issue)
			continue
		}
		seen[[2]string{e.Source, e.Target}] = true
		kept = append(kept, e)
	}
	return kept, dropped
}

func checkEdge(e Edge, nodes map[string]bool, seen map[[2]string]bool) (Issue, bool) {
	switch {
	case !nodes[e.Source]:
		return Issue{Kind: IssueDanglingEdge, ElementID: e.ID, Message: fmt.Sprintf("edge %q: unknown source %q", e.ID, e.Source)}, false
	case !nodes[e.Target]:
		return Issue{Kind: IssueDanglingEdge, ElementID: e.ID, Message: fmt.Sprintf("edge %q: unknown target %q", e.ID, e.Target)}, false
	case e.Source == e.Target:
		return Issue{Kind: IssueSelfLoop, ElementID: e.ID, Message: fmt.Sprintf("edge %q: self-loop on %q", e.ID, e.Source)}, false
	case seen[[2]string{e.Source, e.Target}]:
		return Issue{Kind: IssueDuplicateEdge, ElementID: e.ID, Message: fmt.Sprintf("edge %q: duplicate %s -> %s", e.ID, e.Source, e.Target)}, false
	}
	return Issue{}, true
}

// Validate enforces the document invariants strictly: known archetype, valid
// and unique node ids, and edges between distinct existing nodes.
func Validate(g Graph) error {
	if !g.Archetype.Valid() {
		return errors.New(errors.ErrCodeInvalidArchetype, "unknown archetype %q", g.Archetype)
	}
	for _, n := range g.Nodes {
		if err := errors.ValidateIdentifier("node", n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph %q", g.ID)
		}
	}
	for _, e := range g.Edges {
		if e.ID == "" {
			continue
		}
		if err := errors.ValidateIdentifier("edge", e.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidGraph, err, "graph %q", g.ID)
		}
	}
	for _, issue := range Check(g) {
		if issue.Kind == IssueUnknownVariant {
			continue
		}
		return errors.New(errors.ErrCodeInvalidGraph, "%s", issue.Message)
	}
	return nil
}
