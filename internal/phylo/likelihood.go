package phylo

import (
	"math"

	"github.com/fantasticair/cactus/internal/tree"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// bases is the fixed nucleotide alphabet order used for the likelihood
// vectors below; ambiguous/gap characters contribute a uniform vector.
var bases = [4]byte{'A', 'C', 'G', 'T'}

// jc69TransitionMatrix returns the Jukes-Cantor transition probability
// matrix P(t) for branch length t: P_ii = 1/4 + 3/4*exp(-4t/3),
// P_ij = 1/4 - 1/4*exp(-4t/3) for i != j.
func jc69TransitionMatrix(t float64) *mat.Dense {
	same := 0.25 + 0.75*math.Exp(-4*t/3)
	diff := 0.25 - 0.25*math.Exp(-4*t/3)
	p := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i == j {
				p.Set(i, j, same)
			} else {
				p.Set(i, j, diff)
			}
		}
	}
	return p
}

func baseVector(c byte) *mat.VecDense {
	v := mat.NewVecDense(4, nil)
	for i, b := range bases {
		if b == c {
			v.SetVec(i, 1)
			return v
		}
	}
	// Ambiguous or gap: uniform over all four bases.
	for i := range bases {
		v.SetVec(i, 0.25)
	}
	return v
}

// NucleotideLikelihood computes the log-likelihood of geneTree under a JC69
// substitution model, given one feature column per call. column[i] is the
// base observed at the leaf with matrix index i; leaves missing a base
// (no entry for their index, or a non-ACGT byte) are treated as fully
// ambiguous. Felsenstein's pruning algorithm computes the root
// partial-likelihood vector via per-branch JC69 transition matrices
// (gonum.org/v1/gonum/mat for the matrix-vector products).
func NucleotideLikelihood(geneTree *tree.Tree, column map[int]byte) (float64, error) {
	partial, err := pruneRecur(geneTree.Root(), column)
	if err != nil {
		return negInf, err
	}
	sum := 0.0
	for i := 0; i < 4; i++ {
		sum += 0.25 * partial.AtVec(i)
	}
	if sum <= 0 {
		return negInf, nil
	}
	return math.Log(sum), nil
}

// NucleotideLikelihoodColumns sums the per-column log-likelihood over every
// feature column, assuming independence across sites (the standard
// assumption for Felsenstein pruning over an alignment).
func NucleotideLikelihoodColumns(geneTree *tree.Tree, columns []map[int]byte) (float64, error) {
	total := 0.0
	for _, col := range columns {
		ll, err := NucleotideLikelihood(geneTree, col)
		if err != nil {
			return negInf, err
		}
		if math.IsInf(ll, -1) {
			return negInf, nil
		}
		total += ll
	}
	return total, nil
}

func pruneRecur(n *tree.Node, column map[int]byte) (*mat.VecDense, error) {
	if n.Tip() {
		if n.Info == nil {
			return nil, errors.New("leaf node missing phylogeny info during likelihood pruning")
		}
		c, ok := column[n.Info.MatrixIndex]
		if !ok {
			c = 'N'
		}
		return baseVector(c), nil
	}

	children := childrenOf(n)
	if len(children) != 2 {
		return nil, errors.Errorf("node has %d children, expected 2 for pruning", len(children))
	}

	acc := mat.NewVecDense(4, []float64{1, 1, 1, 1})
	for _, edge := range n.Edges() {
		if edge.Left() != n {
			continue
		}
		childPartial, err := pruneRecur(edge.Right(), column)
		if err != nil {
			return nil, err
		}
		p := jc69TransitionMatrix(math.Max(edge.Length(), 1e-8))
		var branchLikelihood mat.VecDense
		branchLikelihood.MulVec(p, childPartial)
		acc.MulElemVec(acc, &branchLikelihood)
	}
	return acc, nil
}
