// Package phyloblock implements the fast predicates that decide whether a
// block is even worth building a gene tree for.
package phyloblock

import "github.com/fantasticair/cactus/internal/pinchgraph"

// HasSimplePhylogeny returns true when block is not worth building a tree
// for: degree <= 2, or every segment shares one event, or no segment
// belongs to an outgroup thread. Such a block gets no tree and yields no
// split branches.
func HasSimplePhylogeny(block *pinchgraph.Block) bool {
	if block.Degree() <= 2 {
		return true
	}

	segments := block.Segments()
	firstEvent := segments[0].Thread().Event()
	sameEvent := true
	sawOutgroup := false
	for _, seg := range segments {
		ev := seg.Thread().Event()
		if ev != firstEvent {
			sameEvent = false
		}
		if ev.IsOutgroup() {
			sawOutgroup = true
		}
	}
	if sameEvent {
		return true
	}
	return !sawOutgroup
}

// IsSingleCopyBlock returns true iff every segment's event is unique within
// the block (no event contributes more than one segment).
func IsSingleCopyBlock(block *pinchgraph.Block) bool {
	seen := make(map[interface{}]bool, block.Degree())
	for _, seg := range block.Segments() {
		ev := seg.Thread().Event()
		if seen[ev] {
			return false
		}
		seen[ev] = true
	}
	return true
}
