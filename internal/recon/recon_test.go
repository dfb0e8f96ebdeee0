package recon

import (
	"testing"

	"github.com/fantasticair/cactus/internal/pinchgraph"
	"github.com/fantasticair/cactus/internal/splitqueue"
	"github.com/fantasticair/cactus/internal/tree"
)

func reconciledTo(species *tree.Node) *tree.PhylogenyInfo {
	return &tree.PhylogenyInfo{MatrixIndex: -1, Recon: &tree.ReconciliationInfo{Species: species}}
}

// buildGeneTree constructs root -> {L, R}, L -> {tip1, tip2}, reconciling
// root, L, tip1, and tip2 to sSplit, and R (a tip) to sOther.
func buildGeneTree(t *testing.T, sSplit, sOther *tree.Node) *tree.Tree {
	t.Helper()
	gt := tree.NewTree()
	root := gt.NewNode()
	gt.SetRoot(root)
	l := gt.NewNode()
	r := gt.NewNode()
	tip1 := gt.NewNode()
	tip2 := gt.NewNode()

	gt.ConnectNodes(root, l)
	gt.ConnectNodes(root, r)
	gt.ConnectNodes(l, tip1)
	gt.ConnectNodes(l, tip2)

	root.Info = reconciledTo(sSplit)
	l.Info = reconciledTo(sSplit)
	r.Info = reconciledTo(sOther)
	tip1.Info = reconciledTo(sSplit)
	tip2.Info = reconciledTo(sSplit)

	return gt
}

func TestEnumerateSplitBranchesEmitsEveryChildOfSplitPointParent(t *testing.T) {
	species := tree.NewTree()
	sSplit := species.NewNode()
	sSplit.SetName("split")
	sOther := species.NewNode()
	sOther.SetName("other")

	gt := buildGeneTree(t, sSplit, sOther)
	splitPoints := map[string]bool{"split": true}
	q := splitqueue.New()
	block := &pinchgraph.Block{}

	if err := EnumerateSplitBranches(block, gt, splitPoints, q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// root has no parent, so it is never itself a candidate; its three
	// descendants that reconcile through the split point (L, tip1, tip2)
	// each yield a split branch, and R (reconciled through the same
	// split-point parent) yields a fourth.
	if q.Len() != 4 {
		t.Errorf("expected 4 split branches, got %d", q.Len())
	}
}

func TestEnumerateSplitBranchesEmptyWhenRootNotSplitPoint(t *testing.T) {
	species := tree.NewTree()
	sOther := species.NewNode()
	sOther.SetName("other")

	gt := buildGeneTree(t, sOther, sOther)
	splitPoints := map[string]bool{"split": true}
	q := splitqueue.New()
	block := &pinchgraph.Block{}

	if err := EnumerateSplitBranches(block, gt, splitPoints, q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Len() != 0 {
		t.Errorf("expected zero split branches when no node reconciles above a split point, got %d", q.Len())
	}
}
