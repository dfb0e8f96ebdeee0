// Package context implements the contextual-neighborhood tracer: given a
// block, it finds every other block reachable within a bounded base or
// block distance along any thread passing through it.
package context

import "github.com/fantasticair/cactus/internal/pinchgraph"

// direction of travel along a thread relative to a segment.
type direction int

const (
	towardFive direction = iota
	towardThree
)

func step(s *pinchgraph.Segment, dir direction) *pinchgraph.Segment {
	if dir == towardFive {
		return s.Get5Prime()
	}
	return s.Get3Prime()
}

// AddContextualBlocks walks outward from every segment of block, in both
// thread directions, inserting every block encountered within maxBaseDist
// bases or maxBlockDist blocks into out.
//
// Each hop's base cost is the length of the block segment being walked
// from (origLen below), held constant for the whole walk rather than
// re-read from the segment just stepped onto, matching phylogeny.c's
// curBaseDistance += stPinchSegment_getLength(segment) accumulation.
func AddContextualBlocks(block *pinchgraph.Block, maxBaseDist, maxBlockDist int64, ignoreUnaligned bool, out map[*pinchgraph.Block]struct{}) {
	for _, seg := range block.Segments() {
		walk(seg, towardFive, maxBaseDist, maxBlockDist, ignoreUnaligned, out)
		walk(seg, towardThree, maxBaseDist, maxBlockDist, ignoreUnaligned, out)
	}
}

func walk(start *pinchgraph.Segment, dir direction, maxBaseDist, maxBlockDist int64, ignoreUnaligned bool, out map[*pinchgraph.Block]struct{}) {
	origLen := start.Length()
	basesTraversed := origLen / 2
	var blocksTraversed int64

	outer := start
	next := step(outer, dir)
	for next != nil {
		if basesTraversed >= maxBaseDist || blocksTraversed >= maxBlockDist {
			return
		}

		if next.Block() != nil {
			out[next.Block()] = struct{}{}
			basesTraversed += origLen
			blocksTraversed++
		} else if !ignoreUnaligned {
			basesTraversed += origLen
			blocksTraversed++
		}

		outer = next
		next = step(outer, dir)
	}
}
