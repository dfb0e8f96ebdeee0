// Package recon enumerates split branches for a reconciled gene tree: gene
// tree edges whose parent reconciles to a species-tree split point.
package recon

import (
	"github.com/fantasticair/cactus/internal/pinchgraph"
	"github.com/fantasticair/cactus/internal/splitqueue"
	"github.com/fantasticair/cactus/internal/tree"
	"github.com/pkg/errors"
)

// EnumerateSplitBranches walks t pre-order from the root and pushes a
// split branch entry into q for every node whose parent reconciles to a
// species node in splitPoints, per spec.md §4.5. Reconciliation is
// monotone along the species tree's topological order, so once a node's
// parent fails to reconcile into splitPoints, none of that node's
// descendants can either: that subtree is pruned without further
// recursion.
func EnumerateSplitBranches(block *pinchgraph.Block, t *tree.Tree, splitPoints map[string]bool, q *splitqueue.Queue) error {
	return enumerateRecur(block, t.Root(), nil, splitPoints, q)
}

func enumerateRecur(block *pinchgraph.Block, n, parent *tree.Node, splitPoints map[string]bool, q *splitqueue.Queue) error {
	if parent != nil {
		if n.Info == nil || n.Info.Recon == nil || parent.Info == nil || parent.Info.Recon == nil {
			return errors.New("gene tree node missing reconciliation during split-branch enumeration")
		}
		if !splitPoints[parent.Info.Recon.Species.Name()] {
			return nil
		}
		q.Push(n, block, n.BootstrapSupport(edgeInto(n, parent)))
	}
	for _, child := range children(n) {
		if err := enumerateRecur(block, child, n, splitPoints, q); err != nil {
			return err
		}
	}
	return nil
}

func children(n *tree.Node) []*tree.Node {
	out := make([]*tree.Node, 0, 2)
	for _, e := range n.Edges() {
		if e.Left() == n {
			out = append(out, e.Right())
		}
	}
	return out
}

func edgeInto(n, parent *tree.Node) *tree.Edge {
	for _, e := range parent.Edges() {
		if e.Left() == parent && e.Right() == n {
			return e
		}
	}
	return nil
}
