package tree

import "github.com/pkg/errors"

// ReconciliationInfo is the mapping of one gene-tree node to the species
// tree it was reconciled against (see internal/recon and internal/phylo).
type ReconciliationInfo struct {
	// Species is the species-tree node this gene-tree node reconciles
	// to.
	Species *Node
	// Duplication is true if this node's event, under the LCA
	// reconciliation, is a gene duplication rather than a speciation.
	Duplication bool
}

// PhylogenyInfo is the per-node payload the ancient-homology refinement
// core attaches to gene trees: a leaf's matrix index (see
// internal/pinchgraph.Block.Segments) and its reconciliation against the
// species tree. MatrixIndex is -1 on internal nodes. Bootstrap support is
// not stored here; it is carried on the edge into the node (see
// Node.BootstrapSupport).
type PhylogenyInfo struct {
	MatrixIndex int
	Recon       *ReconciliationInfo
}

// NewLeafInfo returns a PhylogenyInfo for a tip built from matrix index i.
func NewLeafInfo(i int) *PhylogenyInfo {
	return &PhylogenyInfo{MatrixIndex: i}
}

// NewInternalInfo returns a PhylogenyInfo for a non-tip node.
func NewInternalInfo() *PhylogenyInfo {
	return &PhylogenyInfo{MatrixIndex: -1}
}

// AddPhylogenyInfo walks the tree, assigning PhylogenyInfo to every node
// that doesn't already have one: tips get their matrix index looked up
// by tip name (formatted as a decimal, see internal/phylo.NeighborJoin), internal
// nodes get a bare marker. Mirrors stPhylogeny_addStPhylogenyInfo.
func (t *Tree) AddPhylogenyInfo(nameToMatrixIndex map[string]int) error {
	return addPhylogenyInfoRecur(t.Root(), nameToMatrixIndex)
}

func addPhylogenyInfoRecur(n *Node, nameToMatrixIndex map[string]int) error {
	if n.Tip() {
		if n.Info == nil {
			idx, ok := nameToMatrixIndex[n.name]
			if !ok {
				return errors.Errorf("no matrix index registered for leaf %q", n.name)
			}
			n.Info = NewLeafInfo(idx)
		}
	} else if n.Info == nil {
		n.Info = NewInternalInfo()
	}
	for _, c := range n.neigh {
		// Only recurse into actual children (rooted tree semantics):
		// a neighbor is a child when the edge between them points
		// from n to it, the orientation ReorderEdges sets.
		if isChildOf(n, c) {
			if err := addPhylogenyInfoRecur(c, nameToMatrixIndex); err != nil {
				return err
			}
		}
	}
	return nil
}

func isChildOf(parent, candidate *Node) bool {
	for _, e := range parent.br {
		if e.left == parent && e.right == candidate {
			return true
		}
	}
	return false
}

// GetLeafByIndex returns the tip of the tree whose PhylogenyInfo.MatrixIndex
// equals index, or nil if no such leaf exists.
func (t *Tree) GetLeafByIndex(index int) *Node {
	for _, tip := range t.Tips() {
		if tip.Info != nil && tip.Info.MatrixIndex == index {
			return tip
		}
	}
	return nil
}

// BootstrapSupport returns the support carried on the edge leading into n
// (NIL_SUPPORT if none has been set, e.g. for the root).
func (n *Node) BootstrapSupport(parentEdge *Edge) float64 {
	if parentEdge == nil {
		return NIL_SUPPORT
	}
	return parentEdge.Support()
}

// Delete releases a tree and all its nodes/edges. The teacher library relies
// on the garbage collector rather than manual frees, but the partition
// driver (internal/partition) still calls Delete at the points where the
// original C code called stTree_destruct / stPhylogenyInfo_destructOnTree,
// to keep the block-tree map's ownership contract explicit (see spec.md
// §3 "Block -> tree map").
func (t *Tree) Delete() {
	t.root = nil
	t.tipIndex = nil
}
