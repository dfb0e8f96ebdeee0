package treebuild

import (
	"github.com/fantasticair/cactus/internal/tree"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// BuildJoinCostMatrix computes the per-matrix-index join-cost matrix used
// by guided neighbor-joining (spec.md §4.3, §6): the cost of joining
// leaves i and j is proportional to the number of species-tree edges
// between their mapped species and the LCA of those species (a proxy for
// the duplications/losses that joining them early would force), scaled by
// costPerDupPerBase/costPerLossPerBase and 2*maxBaseDistance per spec.md
// §6's "costPerDupPerBase, costPerLossPerBase scale join-cost matrix by
// 2*maxBaseDistance".
func BuildJoinCostMatrix(speciesIndex *tree.NodeIndex, speciesAncestry *tree.Ancestry, matrixIndexToSpeciesName map[int]string, costPerDupPerBase, costPerLossPerBase float64, maxBaseDistance int64) (*mat.Dense, error) {
	n := len(matrixIndexToSpeciesName)
	speciesNode := make([]*tree.Node, n)
	for i := 0; i < n; i++ {
		name, ok := matrixIndexToSpeciesName[i]
		if !ok {
			return nil, errors.Errorf("no species name registered for matrix index %d", i)
		}
		sp, ok := speciesIndex.GetNode(name)
		if !ok {
			return nil, errors.Errorf("no species tree node named %q", name)
		}
		speciesNode[i] = sp
	}

	scale := (costPerDupPerBase + costPerLossPerBase) * float64(2*maxBaseDistance)
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if speciesNode[i] == speciesNode[j] {
				continue
			}
			lca := speciesAncestry.LCA(speciesNode[i], speciesNode[j])
			steps := (speciesAncestry.Depth(speciesNode[i]) - speciesAncestry.Depth(lca)) +
				(speciesAncestry.Depth(speciesNode[j]) - speciesAncestry.Depth(lca))
			cost := float64(steps) * scale
			m.Set(i, j, cost)
			m.Set(j, i, cost)
		}
	}
	return m, nil
}
