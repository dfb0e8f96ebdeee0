// Package treebuild builds one gene tree for one homology block: distance
// matrix construction from substitution and breakpoint signal, tree
// construction via (rooting method, tree-building method), and
// zero-branch-length fudging.
package treebuild

import (
	"github.com/fantasticair/cactus/internal/cafcore"
	"github.com/fantasticair/cactus/internal/feature"
	"github.com/fantasticair/cactus/internal/phylo"
	"github.com/fantasticair/cactus/internal/pinchgraph"
	"github.com/fantasticair/cactus/internal/tree"
	"gonum.org/v1/gonum/mat"
)

// Input bundles everything the builder needs for one block.
type Input struct {
	Block           *pinchgraph.Block
	Columns         []map[int]byte
	ContextualBlock []*pinchgraph.Block
	OutgroupIndices []int
	LeafSpeciesName map[int]string
	SpeciesIndex    *tree.NodeIndex
	SpeciesAncestry *tree.Ancestry
	JoinCost        *mat.Dense // only required for GuidedNeighborJoining
	Config          *cafcore.Config
	Bootstrap       bool
}

// Build constructs one gene tree for in.Block according to
// in.Config.RootingMethod / in.Config.TreeBuildingMethod, applies
// zero-branch-length fudging, and returns the tree unrooted-reconciled
// (RootingMethod BestRecon reconciles as part of rooting; other methods
// leave reconciliation to the caller, see internal/treescore).
func Build(in *Input) (*tree.Tree, error) {
	distance, err := DistanceMatrix(in.Block, in.Columns, in.ContextualBlock, in.Config.BreakPointScalingFactor)
	if err != nil {
		return nil, err
	}

	var t *tree.Tree
	switch {
	case in.Config.RootingMethod == cafcore.OutgroupBranch && in.Config.TreeBuildingMethod == cafcore.NeighborJoining:
		t, err = phylo.NeighborJoin(distance)
		if err != nil {
			return nil, err
		}
		if err := phylo.RerootOnOutgroup(t, in.OutgroupIndices); err != nil {
			return nil, err
		}
	case in.Config.RootingMethod == cafcore.LongestBranch && in.Config.TreeBuildingMethod == cafcore.NeighborJoining:
		t, err = phylo.NeighborJoin(distance)
		if err != nil {
			return nil, err
		}
		if err := phylo.RerootOnLongestBranch(t); err != nil {
			return nil, err
		}
	case in.Config.RootingMethod == cafcore.BestRecon && in.Config.TreeBuildingMethod == cafcore.NeighborJoining:
		t, err = phylo.NeighborJoin(distance)
		if err != nil {
			return nil, err
		}
		t, err = phylo.RerootByMinReconciliationCost(t, in.SpeciesIndex, in.SpeciesAncestry, in.LeafSpeciesName)
		if err != nil {
			return nil, err
		}
	case in.Config.RootingMethod == cafcore.BestRecon && in.Config.TreeBuildingMethod == cafcore.GuidedNeighborJoining:
		if in.JoinCost == nil {
			return nil, cafcore.NewConfigError("guided neighbor-joining requires a join-cost matrix")
		}
		t, err = phylo.GuidedNeighborJoin(distance, denseToSlice(in.JoinCost))
		if err != nil {
			return nil, err
		}
	default:
		return nil, cafcore.NewConfigError("incompatible rootingMethod x treeBuildingMethod combination")
	}

	FudgeZeroBranchLengths(t.Root(), in.Config.FudgeFactor, in.Config.FudgeFloor)
	return t, nil
}

// DistanceMatrix computes the substitution matrix, scales and sums in the
// breakpoint matrix, and derives a symmetric distance matrix (spec.md
// §4.3 steps 1-2), using gonum.org/v1/gonum/mat for the scale/sum/symmetrize
// arithmetic.
func DistanceMatrix(block *pinchgraph.Block, columns []map[int]byte, contextual []*pinchgraph.Block, breakpointScale float64) ([][]float64, error) {
	degree := block.Degree()
	sub := feature.SubstitutionMatrix(block, columns)
	bp, err := feature.BreakpointMatrix(block, contextual)
	if err != nil {
		return nil, err
	}

	var scaledBP mat.Dense
	scaledBP.Scale(breakpointScale, bp)

	var combined mat.Dense
	combined.Add(sub, &scaledBP)

	dist := make([][]float64, degree)
	for i := range dist {
		dist[i] = make([]float64, degree)
	}
	for i := 0; i < degree; i++ {
		for j := i + 1; j < degree; j++ {
			// combined[j,i] holds the difference count for pair
			// (i,j) under the similarities-upper/differences-lower
			// convention (see feature.SubstitutionMatrix); that is
			// the distance directly.
			d := combined.At(j, i)
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist, nil
}

// FudgeZeroBranchLengths walks bottom-up, and for every binary internal
// node with children (0, L>0) redistributes as (fudgeFactor*L,
// (1-fudgeFactor)*L); when both children are 0 it sets both to floor eps.
// See spec.md §4.3 step 4 and the preserved-pair-distance law in §8.
func FudgeZeroBranchLengths(n *tree.Node, fudgeFactor, floor float64) {
	if n.Tip() {
		return
	}
	var edges []*tree.Edge
	for _, e := range n.Edges() {
		if e.Left() == n {
			edges = append(edges, e)
			FudgeZeroBranchLengths(e.Right(), fudgeFactor, floor)
		}
	}
	if len(edges) != 2 {
		return
	}
	l0, l1 := edges[0].Length(), edges[1].Length()
	switch {
	case l0 == 0 && l1 == 0:
		edges[0].SetLength(floor)
		edges[1].SetLength(floor)
	case l0 == 0 && l1 > 0:
		edges[0].SetLength(fudgeFactor * l1)
		edges[1].SetLength((1 - fudgeFactor) * l1)
	case l1 == 0 && l0 > 0:
		edges[1].SetLength(fudgeFactor * l0)
		edges[0].SetLength((1 - fudgeFactor) * l0)
	}
}

func denseToSlice(m *mat.Dense) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}
