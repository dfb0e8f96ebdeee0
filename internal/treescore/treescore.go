// Package treescore builds, scores, and selects one gene tree per block:
// the canonical tree plus numTrees-1 bootstrap resamples, scored by the
// configured method, folded for bootstrap support, and reconciled against
// the species tree. See spec.md §4.4.
package treescore

import (
	"math"
	"math/rand"

	"github.com/fantasticair/cactus/internal/cafcore"
	"github.com/fantasticair/cactus/internal/phylo"
	"github.com/fantasticair/cactus/internal/treebuild"
	"github.com/fantasticair/cactus/internal/tree"
	"github.com/pkg/errors"
)

var negInf = math.Inf(-1)

// Pick builds the canonical tree and in.Config.NumTrees-1 bootstrap trees
// from in, scores each by in.Config.ScoringMethod, and returns the
// maximum-scoring tree and its score (ties resolve to earliest built; an
// all -Inf score falls back to the canonical tree, scored -Inf). The
// returned tree carries bootstrap support folded from every sampled tree
// and is reconciled against the species tree.
func Pick(in *treebuild.Input) (*tree.Tree, float64, error) {
	canonicalIn := *in
	canonicalIn.Bootstrap = false
	canonical, err := treebuild.Build(&canonicalIn)
	if err != nil {
		return nil, negInf, err
	}

	sampled := make([]*tree.Tree, 0, in.Config.NumTrees)
	sampled = append(sampled, canonical)

	for i := 1; i < in.Config.NumTrees; i++ {
		bootIn := *in
		bootIn.Bootstrap = true
		bootIn.Columns = resampleColumns(in.Columns)
		bootTree, err := treebuild.Build(&bootIn)
		if err != nil {
			return nil, negInf, err
		}
		sampled = append(sampled, bootTree)
	}

	bestTree := canonical
	bestScore := negInf
	for i, t := range sampled {
		s, err := score(t, in)
		if err != nil {
			return nil, negInf, err
		}
		if i == 0 || s > bestScore {
			bestScore = s
			bestTree = t
		}
	}
	if math.IsInf(bestScore, -1) {
		bestTree = canonical
	}

	if err := FoldBootstrapSupport(bestTree, sampled); err != nil {
		return nil, negInf, err
	}
	if err := phylo.Reconcile(bestTree, in.SpeciesIndex, in.SpeciesAncestry, in.LeafSpeciesName); err != nil {
		return nil, negInf, err
	}
	return bestTree, bestScore, nil
}

// score evaluates t under cfg.ScoringMethod, per spec.md §4.4's table.
// RECON_COST, RECON_LIKELIHOOD, and COMBINED_LIKELIHOOD all require a
// reconciliation, computed here on a clone so the scoring pass never
// mutates a candidate that might not end up as bestTree.
func score(t *tree.Tree, in *treebuild.Input) (float64, error) {
	switch in.Config.ScoringMethod {
	case cafcore.ReconCost:
		dups, losses, err := reconciledCost(t, in)
		if err != nil {
			return negInf, err
		}
		return -float64(dups + losses), nil
	case cafcore.NucleotideLikelihood:
		return phylo.NucleotideLikelihoodColumns(t, in.Columns)
	case cafcore.ReconLikelihood:
		return reconciledLikelihood(t, in)
	case cafcore.CombinedLikelihood:
		rl, err := reconciledLikelihood(t, in)
		if err != nil {
			return negInf, err
		}
		nl, err := phylo.NucleotideLikelihoodColumns(t, in.Columns)
		if err != nil {
			return negInf, err
		}
		if math.IsInf(rl, -1) || math.IsInf(nl, -1) {
			return negInf, nil
		}
		return rl + nl, nil
	default:
		return negInf, errors.Errorf("unknown scoring method %v", in.Config.ScoringMethod)
	}
}

func reconciledCost(t *tree.Tree, in *treebuild.Input) (dups, losses int, err error) {
	clone := t.Clone()
	if err = phylo.Reconcile(clone, in.SpeciesIndex, in.SpeciesAncestry, in.LeafSpeciesName); err != nil {
		return 0, 0, err
	}
	return phylo.ReconciliationCost(clone, in.SpeciesAncestry)
}

func reconciledLikelihood(t *tree.Tree, in *treebuild.Input) (float64, error) {
	clone := t.Clone()
	if err := phylo.Reconcile(clone, in.SpeciesIndex, in.SpeciesAncestry, in.LeafSpeciesName); err != nil {
		return negInf, err
	}
	return phylo.ReconciliationLikelihood(clone, in.SpeciesAncestry, in.Config.ReconciliationDupRate)
}

// resampleColumns draws len(columns) columns with replacement, the
// standard nonparametric bootstrap over alignment sites.
func resampleColumns(columns []map[int]byte) []map[int]byte {
	if len(columns) == 0 {
		return columns
	}
	out := make([]map[int]byte, len(columns))
	for i := range out {
		out[i] = columns[rand.Intn(len(columns))]
	}
	return out
}

// FoldBootstrapSupport sets bestTree's internal edge supports to the
// fraction of sampled (including the canonical) trees that contain a
// matching bipartition: plain Felsenstein bootstrap proportions rather
// than the teacher's transfer-distance supporter, which is not part of
// this module. This engine compares a handful of small per-block trees,
// where an exact bipartition match is cheap and a normalized transfer
// index buys nothing.
func FoldBootstrapSupport(bestTree *tree.Tree, sampled []*tree.Tree) error {
	bestTree.UpdateTipIndex()
	if err := bestTree.ClearBitSets(); err != nil {
		return err
	}
	if err := bestTree.UpdateBitSet(); err != nil {
		return err
	}

	total := len(sampled)
	if total == 0 {
		return nil
	}

	for _, e := range bestTree.InternalEdges() {
		matches := 0
		for _, boot := range sampled {
			if boot == bestTree {
				matches++
				continue
			}
			if err := bestTree.CompareTipIndexes(boot); err != nil {
				continue
			}
			if err := boot.ClearBitSets(); err != nil {
				return err
			}
			if err := boot.UpdateBitSet(); err != nil {
				return err
			}
			if found, err := e.FindEdge(boot.Edges()); err == nil && found != nil {
				matches++
			}
		}
		e.SetSupport(float64(matches) / float64(total))
	}
	return nil
}
