// Package feature is the feature-extraction library collaborator: it turns
// raw thread sequence and neighboring blocks into the substitution and
// breakpoint matrices the tree builder needs, plus the per-position
// nucleotide columns the likelihood scorer needs.
package feature

import (
	"github.com/fantasticair/cactus/internal/context"
	"github.com/fantasticair/cactus/internal/pinchgraph"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ThreadStrings maps a thread to its padded sequence string: "N" +
// raw(start+1..start+length-2) + "N" (see spec.md §6 "Thread-strings map").
type ThreadStrings map[*pinchgraph.Thread]string

// baseAt returns the base at position i (0-based, within the segment's own
// coordinate frame) of seg, respecting its block orientation (reverse
// strand segments are read 3'->5' and complemented).
func baseAt(seg *pinchgraph.Segment, strings ThreadStrings, i int64) byte {
	s, ok := strings[seg.Thread()]
	if !ok {
		return 'N'
	}
	var pos int64
	if seg.BlockOrientation() {
		pos = seg.Start() + i
	} else {
		pos = seg.Start() + (seg.Length() - 1 - i)
	}
	if pos < 0 || pos >= int64(len(s)) {
		return 'N'
	}
	c := s[pos]
	if !seg.BlockOrientation() {
		c = complement(c)
	}
	return c
}

func complement(c byte) byte {
	switch c {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	default:
		return 'N'
	}
}

// GetFeatureColumns returns one column per position of block's (shared)
// length; column[p][i] is the base of segment i (by matrix index) at
// position p.
func GetFeatureColumns(block *pinchgraph.Block, strings ThreadStrings) ([]map[int]byte, error) {
	segments := block.Segments()
	length := block.Length()
	columns := make([]map[int]byte, length)
	for p := int64(0); p < length; p++ {
		col := make(map[int]byte, len(segments))
		for i, seg := range segments {
			col[i] = baseAt(seg, strings, p)
		}
		columns[p] = col
	}
	return columns, nil
}

// SubstitutionMatrix builds the degree x degree matrix described in
// spec.md §4.3: cell [i,j] (i<j) counts identical-base columns between
// segments i and j, cell [j,i] counts differing-base columns, ambiguous
// ('N') columns are skipped for that pair.
func SubstitutionMatrix(block *pinchgraph.Block, columns []map[int]byte) *mat.Dense {
	degree := block.Degree()
	m := mat.NewDense(degree, degree, nil)
	for _, col := range columns {
		for i := 0; i < degree; i++ {
			for j := i + 1; j < degree; j++ {
				bi, bj := col[i], col[j]
				if bi == 'N' || bj == 'N' {
					continue
				}
				if bi == bj {
					m.Set(i, j, m.At(i, j)+1)
				} else {
					m.Set(j, i, m.At(j, i)+1)
				}
			}
		}
	}
	return m
}

// GetContextualFeatureBlocks returns the blocks within the given base/block
// radius of block (see internal/context), optionally restricted to blocks
// whose degree matches block's own degree ("complete": every segment of
// block has a corresponding segment in the neighbor, so the neighbor
// carries a usable breakpoint signal for every matrix index).
func GetContextualFeatureBlocks(block *pinchgraph.Block, maxBaseDist, maxBlockDist int64, ignoreUnaligned, onlyCompleteBlocks bool) []*pinchgraph.Block {
	set := make(map[*pinchgraph.Block]struct{})
	context.AddContextualBlocks(block, maxBaseDist, maxBlockDist, ignoreUnaligned, set)

	out := make([]*pinchgraph.Block, 0, len(set))
	for b := range set {
		if onlyCompleteBlocks && b.Degree() != block.Degree() {
			continue
		}
		out = append(out, b)
	}
	return out
}

// BreakpointMatrix builds the degree x degree breakpoint-signal matrix:
// for each contextual block, segments of `block` that both lead (via
// thread adjacency, ignoring orientation) into that same contextual block
// count as a similarity; a segment that leads there while its partner does
// not counts as a difference for that pair, mirroring the
// similarity/difference convention used by SubstitutionMatrix.
func BreakpointMatrix(block *pinchgraph.Block, contextual []*pinchgraph.Block) (*mat.Dense, error) {
	degree := block.Degree()
	m := mat.NewDense(degree, degree, nil)
	if degree != len(block.Segments()) {
		return nil, errors.New("block segment count does not match degree")
	}

	reachable := make([][]bool, degree)
	for i, seg := range block.Segments() {
		reachable[i] = make([]bool, len(contextual))
		segCtx := make(map[*pinchgraph.Block]struct{})
		collectNeighborBlocks(seg, segCtx)
		for k, ctxBlock := range contextual {
			if _, ok := segCtx[ctxBlock]; ok {
				reachable[i][k] = true
			}
		}
	}

	for i := 0; i < degree; i++ {
		for j := i + 1; j < degree; j++ {
			similar, different := 0, 0
			for k := range contextual {
				switch {
				case reachable[i][k] && reachable[j][k]:
					similar++
				case reachable[i][k] != reachable[j][k]:
					different++
				}
			}
			m.Set(i, j, float64(similar))
			m.Set(j, i, float64(different))
		}
	}
	return m, nil
}

func collectNeighborBlocks(seg *pinchgraph.Segment, out map[*pinchgraph.Block]struct{}) {
	for s := seg.Get5Prime(); s != nil; s = s.Get5Prime() {
		if s.Block() != nil {
			out[s.Block()] = struct{}{}
			break
		}
	}
	for s := seg.Get3Prime(); s != nil; s = s.Get3Prime() {
		if s.Block() != nil {
			out[s.Block()] = struct{}{}
			break
		}
	}
}
