package phylo

import (
	"github.com/fantasticair/cactus/internal/tree"
	"github.com/pkg/errors"
)

// rerootOnEdge subdivides e and re-roots the tree at the new midpoint node.
func rerootOnEdge(t *tree.Tree, e *tree.Edge) error {
	mid, err := t.SubdivideEdge(e)
	if err != nil {
		return err
	}
	mid.Info = tree.NewInternalInfo()
	return t.Reroot(mid)
}

// RerootOnOutgroup reroots t on the branch separating the given
// outgroup-leaf matrix indices from the rest of the tree, per the
// OUTGROUP_BRANCH rooting method: the outgroup set's LCA edge is the split
// point.
func RerootOnOutgroup(t *tree.Tree, outgroupIndices []int) error {
	if len(outgroupIndices) == 0 {
		return errors.New("no outgroup indices given for outgroup rooting")
	}
	byIndex := make(map[int]*tree.Node)
	for _, tip := range t.Tips() {
		if tip.Info != nil {
			byIndex[tip.Info.MatrixIndex] = tip
		}
	}
	ancestry := tree.NewAncestry(t)
	var lca *tree.Node
	for _, idx := range outgroupIndices {
		n, ok := byIndex[idx]
		if !ok {
			return errors.Errorf("no leaf with matrix index %d", idx)
		}
		if lca == nil {
			lca = n
			continue
		}
		lca = ancestry.LCA(lca, n)
	}
	if lca == t.Root() {
		// The outgroup set's LCA is already the whole tree; nothing
		// to subdivide, leave the arbitrary NJ root as-is.
		return nil
	}
	parent, ok := ancestry.Parent(lca)
	if !ok {
		return nil
	}
	e, err := edgeBetween(parent, lca)
	if err != nil {
		return err
	}
	return rerootOnEdge(t, e)
}

// RerootOnLongestBranch reroots t on its single longest branch, per the
// LONGEST_BRANCH rooting method.
func RerootOnLongestBranch(t *tree.Tree) error {
	edges := t.Edges()
	if len(edges) == 0 {
		return nil
	}
	longest := edges[0]
	for _, e := range edges[1:] {
		if e.Length() > longest.Length() {
			longest = e
		}
	}
	return rerootOnEdge(t, longest)
}

// RerootByMinReconciliationCost tries rerooting t on every edge, reconciles
// each candidate against the species tree, and keeps the rerooting with
// the lowest duplication+loss cost. It returns a new tree (t is not
// mutated); ties keep the first (i.e. earliest-enumerated) edge.
func RerootByMinReconciliationCost(t *tree.Tree, speciesIndex *tree.NodeIndex, speciesAncestry *tree.Ancestry, leafSpeciesName map[int]string) (*tree.Tree, error) {
	edges := t.Edges()
	if len(edges) == 0 {
		return t.Clone(), nil
	}

	var best *tree.Tree
	bestCost := -1
	for i := range edges {
		candidate := t.Clone()
		candidateEdges := candidate.Edges()
		if i >= len(candidateEdges) {
			continue
		}
		if err := rerootOnEdge(candidate, candidateEdges[i]); err != nil {
			return nil, err
		}
		if err := Reconcile(candidate, speciesIndex, speciesAncestry, leafSpeciesName); err != nil {
			return nil, err
		}
		dups, losses, err := ReconciliationCost(candidate, speciesAncestry)
		if err != nil {
			return nil, err
		}
		cost := dups + losses
		if best == nil || cost < bestCost {
			best = candidate
			bestCost = cost
		}
	}
	return best, nil
}

func edgeBetween(a, b *tree.Node) (*tree.Edge, error) {
	for _, e := range a.Edges() {
		if (e.Left() == a && e.Right() == b) || (e.Left() == b && e.Right() == a) {
			return e, nil
		}
	}
	return nil, errors.Errorf("no edge between the given nodes")
}
