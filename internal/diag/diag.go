// Package diag implements the textual diagnostics surface described in
// spec.md §6: bases lost between single-degree blocks and optional
// per-block debug records. Split-branch counts are logged by the caller
// from partition.Driver.QueueLen.
package diag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fantasticair/cactus/internal/pinchgraph"
	"github.com/fantasticair/cactus/internal/tree"
)

// CountBasesBetweenSingleDegreeBlocks walks every thread of ts and returns
// the total bases spanned between consecutive single-degree blocks
// (basesBetween) and the total bases contained in single-degree blocks
// (basesInSingleDegree). Segments with no block (unaligned gaps) are
// transparent: they neither break nor extend a single-degree run. Each
// thread's walk starts after its first segment, so that segment's block
// adds nothing to basesInSingleDegree and the span from it to the next
// block adds nothing to basesBetween.
func CountBasesBetweenSingleDegreeBlocks(ts *pinchgraph.ThreadSet) (basesBetween, basesInSingleDegree int64) {
	for _, t := range ts.Threads() {
		first := t.First()
		if first == nil {
			continue
		}
		wasSingle := first.Block() != nil && first.Block().Degree() == 1
		var prev *pinchgraph.Segment
		for seg := first.Get3Prime(); seg != nil; seg = seg.Get3Prime() {
			block := seg.Block()
			if block == nil {
				continue
			}
			isSingle := block.Degree() == 1
			if isSingle {
				basesInSingleDegree += block.Length()
			}
			if prev != nil && wasSingle && isSingle {
				basesBetween += seg.Start() - (prev.Start() + prev.Length())
			}
			prev = seg
			wasSingle = isSingle
		}
	}
	return
}

// segmentHeader formats a segment's leaf label as "event.thread|start-end",
// the form spec.md §6 names for debug records.
func segmentHeader(seg *pinchgraph.Segment) string {
	return fmt.Sprintf("%s.%s|%d-%d", seg.Thread().Event().NameString(), seg.Thread().Header(), seg.Start(), seg.Start()+seg.Length())
}

// BlockDebugLine renders one "newick\tpartition\tleafHeaders\tscore\n" debug
// line for block's chosen tree, per spec.md §6. The tree's matrix-index tip
// labels are relabelled to their segment headers in a clone, leaving t
// itself untouched.
func BlockDebugLine(block *pinchgraph.Block, t *tree.Tree, score float64) (string, error) {
	headers := make([]string, block.Degree())
	namemap := make(map[string]string, block.Degree())
	for i, seg := range block.Segments() {
		h := segmentHeader(seg)
		headers[i] = h
		namemap[strconv.Itoa(i)] = h
	}

	clone := t.Clone()
	if err := clone.Rename(namemap); err != nil {
		return "", err
	}
	newick := clone.String()

	quoted := make([]string, len(headers))
	for i, h := range headers {
		quoted[i] = strconv.Quote(h)
	}
	partition := "[[" + strings.Join(quoted, ",") + "]]"
	leafHeaders := "[" + strings.Join(quoted, ",") + "]"

	return fmt.Sprintf("%s\t%s\t%s\t%f\n", newick, partition, leafHeaders, score), nil
}
