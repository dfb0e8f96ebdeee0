package phylo

import (
	"github.com/fantasticair/cactus/internal/tree"
	"github.com/pkg/errors"
)

// Reconcile attaches a ReconciliationInfo to every node of geneTree: leaves
// are mapped to the species node named by leafSpeciesName[leaf.MatrixIndex],
// and internal nodes are mapped to the LCA (in speciesTree) of their two
// children's species mappings, marked as a duplication when that LCA equals
// either child's own mapping (binary LCA reconciliation).
func Reconcile(geneTree *tree.Tree, speciesIndex *tree.NodeIndex, speciesAncestry *tree.Ancestry, leafSpeciesName map[int]string) error {
	_, err := reconcileRecur(geneTree.Root(), speciesIndex, speciesAncestry, leafSpeciesName)
	return err
}

func reconcileRecur(n *tree.Node, speciesIndex *tree.NodeIndex, speciesAncestry *tree.Ancestry, leafSpeciesName map[int]string) (*tree.Node, error) {
	if n.Info == nil {
		return nil, errors.New("gene tree node has no phylogeny info attached")
	}

	if n.Tip() {
		name, ok := leafSpeciesName[n.Info.MatrixIndex]
		if !ok {
			return nil, errors.Errorf("no species mapping registered for leaf matrix index %d", n.Info.MatrixIndex)
		}
		sp, ok := speciesIndex.GetNode(name)
		if !ok {
			return nil, errors.Errorf("no species tree node named %q", name)
		}
		n.Info.Recon = &tree.ReconciliationInfo{Species: sp}
		return sp, nil
	}

	children := childrenOf(n)
	if len(children) != 2 {
		return nil, errors.Errorf("gene tree node has %d children, expected exactly 2 for binary reconciliation", len(children))
	}

	leftSpecies, err := reconcileRecur(children[0], speciesIndex, speciesAncestry, leafSpeciesName)
	if err != nil {
		return nil, err
	}
	rightSpecies, err := reconcileRecur(children[1], speciesIndex, speciesAncestry, leafSpeciesName)
	if err != nil {
		return nil, err
	}

	lca := speciesAncestry.LCA(leftSpecies, rightSpecies)
	if lca == nil {
		return nil, errors.New("gene tree leaves reconcile to species nodes with no common ancestor")
	}
	duplication := lca == leftSpecies || lca == rightSpecies
	n.Info.Recon = &tree.ReconciliationInfo{Species: lca, Duplication: duplication}
	return lca, nil
}

// childrenOf returns n's children (neighbors on the far side of n's parent
// edges), in the orientation set by Tree.ReorderEdges.
func childrenOf(n *tree.Node) []*tree.Node {
	children := make([]*tree.Node, 0, 2)
	for _, e := range n.Edges() {
		if e.Left() == n {
			children = append(children, e.Right())
		}
	}
	return children
}

// ReconciliationCost returns the total duplication and loss count implied
// by geneTree's reconciliation (Reconcile must have already run).
// Loss count on the edge from a node n to child c is the number of species
// nodes strictly between s(n) and s(c) that c's lineage implicitly skips:
// depth(s(c)) - depth(s(n)) - 1 when n is a speciation (c should be an
// immediate child of s(n)); depth(s(c)) - depth(s(n)) when n is a
// duplication (no descent in the species tree is implied by the event
// itself).
func ReconciliationCost(geneTree *tree.Tree, speciesAncestry *tree.Ancestry) (dups, losses int, err error) {
	err = reconciliationCostRecur(geneTree.Root(), speciesAncestry, &dups, &losses)
	return
}

func reconciliationCostRecur(n *tree.Node, speciesAncestry *tree.Ancestry, dups, losses *int) error {
	if n.Info == nil || n.Info.Recon == nil {
		return errors.New("gene tree node has not been reconciled")
	}
	if n.Tip() {
		return nil
	}
	if n.Info.Recon.Duplication {
		*dups++
	}
	for _, c := range childrenOf(n) {
		if c.Info == nil || c.Info.Recon == nil {
			return errors.New("gene tree child node has not been reconciled")
		}
		gap := speciesAncestry.Depth(c.Info.Recon.Species) - speciesAncestry.Depth(n.Info.Recon.Species)
		if !n.Info.Recon.Duplication {
			gap--
		}
		if gap > 0 {
			*losses += gap
		}
		if err := reconciliationCostRecur(c, speciesAncestry, dups, losses); err != nil {
			return err
		}
	}
	return nil
}

// ReconciliationLikelihood scores geneTree's reconciliation under a simple
// birth-process model: each duplication contributes log(dupRate) and each
// inferred loss contributes log(1-dupRate) penalty, following the
// hard-coded duplication-rate convention described for RECON_LIKELIHOOD
// scoring (the rate itself, 1.0, is supplied by the caller; see
// internal/treescore).
func ReconciliationLikelihood(geneTree *tree.Tree, speciesAncestry *tree.Ancestry, dupRate float64) (float64, error) {
	dups, losses, err := ReconciliationCost(geneTree, speciesAncestry)
	if err != nil {
		return negInf, err
	}
	ll := 0.0
	if dups > 0 {
		ll += float64(dups) * logOrNegInf(dupRate)
	}
	if losses > 0 {
		ll += float64(losses) * logOrNegInf(1-dupRate)
	}
	return ll, nil
}
