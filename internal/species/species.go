// Package species adapts an event tree into the plain labelled species
// tree used for reconciliation, and selects the species nodes eligible as
// split points.
package species

import (
	"strconv"

	"github.com/fantasticair/cactus/internal/eventmodel"
	"github.com/fantasticair/cactus/internal/tree"
	"github.com/pkg/errors"
)

// Build copies every non-root event of et into a fresh gene-tree-shaped
// Tree: node labels are the event-name decimal, branch lengths are the
// event's branch length. The synthetic root event has exactly one child;
// the copy starts from that child, so the returned tree's root corresponds
// to the event tree's only real top-level event.
func Build(et *eventmodel.Tree) (*tree.Tree, error) {
	root := et.RootEvent()
	children := root.Children()
	if len(children) != 1 {
		return nil, errors.Errorf("event tree root must have exactly one child, has %d", len(children))
	}

	out := tree.NewTree()
	outRoot := out.NewNode()
	outRoot.SetName(children[0].NameString())
	out.SetRoot(outRoot)
	copyChildren(out, outRoot, children[0])
	out.UpdateTipIndex()
	return out, nil
}

func copyChildren(out *tree.Tree, parentNode *tree.Node, ev *eventmodel.Event) {
	parentNode.SetName(ev.NameString())
	for _, child := range ev.Children() {
		childNode := out.NewNode()
		childNode.SetName(child.NameString())
		edge := out.ConnectNodes(parentNode, childNode)
		edge.SetLength(child.BranchLength())
		copyChildren(out, childNode, child)
	}
}

// status is the three-valued post-order classification used to find split
// points: a node's descendant leaves are entirely outgroups, entirely
// ingroups, or a mix of both.
type status int

const (
	statusIngroupsOnly status = iota
	statusOutgroupsOnly
	statusMixed
)

// SplitPoints returns the set of species-tree nodes (by name, for stable
// cross-run identity; see the design notes on pointer-identity keys) whose
// descendant leaves include at least one outgroup event and at least one
// ingroup event.
func SplitPoints(et *eventmodel.Tree, speciesTree *tree.Tree) map[string]bool {
	splitPoints := make(map[string]bool)
	statusOf(et, speciesTree.Root(), splitPoints)
	return splitPoints
}

func statusOf(et *eventmodel.Tree, n *tree.Node, splitPoints map[string]bool) status {
	if n.Tip() {
		return leafStatus(et, n)
	}

	seenIngroup := false
	seenOutgroup := false
	for _, e := range n.Edges() {
		if e.Left() != n {
			continue
		}
		switch statusOf(et, e.Right(), splitPoints) {
		case statusIngroupsOnly:
			seenIngroup = true
		case statusOutgroupsOnly:
			seenOutgroup = true
		case statusMixed:
			seenIngroup = true
			seenOutgroup = true
		}
	}

	switch {
	case seenIngroup && seenOutgroup:
		splitPoints[n.Name()] = true
		return statusMixed
	case seenOutgroup:
		return statusOutgroupsOnly
	default:
		// Extra binarizing internal nodes introduced by the tree
		// builder may have no event of their own; treat "neither seen"
		// the same as ingroups-only so status still derives from
		// children rather than from a missing label.
		return statusIngroupsOnly
	}
}

func leafStatus(et *eventmodel.Tree, n *tree.Node) status {
	name, err := strconv.ParseInt(n.Name(), 10, 64)
	if err == nil {
		if ev := et.GetEvent(eventmodel.Name(name)); ev != nil && ev.IsOutgroup() {
			return statusOutgroupsOnly
		}
	}
	return statusIngroupsOnly
}
