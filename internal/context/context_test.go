package context

import (
	"testing"

	"github.com/fantasticair/cactus/internal/eventmodel"
	"github.com/fantasticair/cactus/internal/pinchgraph"
)

func TestAddContextualBlocksWithinRadius(t *testing.T) {
	ev := eventmodel.NewEvent(1, "E", 1, false)
	thread := pinchgraph.NewThread(1, 40, ev, "t")

	center := thread.AppendSegment(10, 4, true)
	neighbor := thread.AppendSegment(20, 4, true)
	far := thread.AppendSegment(34, 4, true)

	centerBlock := pinchgraph.NewBlock(center, true)
	neighborBlock := pinchgraph.NewBlock(neighbor, true)
	pinchgraph.NewBlock(far, true)

	out := make(map[*pinchgraph.Block]struct{})
	AddContextualBlocks(centerBlock, 20, 10, false, out)

	if _, ok := out[neighborBlock]; !ok {
		t.Errorf("expected the adjacent block within maxBaseDist to be reachable")
	}
	if _, ok := out[centerBlock]; ok {
		t.Errorf("a block must not list itself as contextual")
	}
}

func TestAddContextualBlocksRespectsBlockDistance(t *testing.T) {
	ev := eventmodel.NewEvent(1, "E", 1, false)
	thread := pinchgraph.NewThread(1, 40, ev, "t")

	center := thread.AppendSegment(0, 2, true)
	n1 := thread.AppendSegment(2, 2, true)
	n2 := thread.AppendSegment(4, 2, true)
	n3 := thread.AppendSegment(6, 2, true)

	centerBlock := pinchgraph.NewBlock(center, true)
	pinchgraph.NewBlock(n1, true)
	b2 := pinchgraph.NewBlock(n2, true)
	pinchgraph.NewBlock(n3, true)

	out := make(map[*pinchgraph.Block]struct{})
	AddContextualBlocks(centerBlock, 1000, 2, false, out)

	if len(out) != 2 {
		t.Fatalf("expected exactly 2 reachable blocks within a block-distance of 2, got %d", len(out))
	}
	if _, ok := out[b2]; !ok {
		t.Errorf("expected the second block out to be within a block-distance of 2")
	}
}

// TestAddContextualBlocksUsesOriginBlockLengthThroughoutWalk pins the base
// counter to the length of the segment the walk started from, not the
// segment it most recently stepped onto (an easy regression to
// reintroduce: reassigning the increment to the current segment's length
// would make the radius shrink or grow depending on the lengths of blocks
// further down the thread, instead of staying uniform with respect to the
// origin block). The origin segment is short (2bp) and every downstream
// segment is long (10bp), so a regression that starts using a downstream
// segment's length would exhaust maxBaseDist well before the third block
// and miss it.
func TestAddContextualBlocksUsesOriginBlockLengthThroughoutWalk(t *testing.T) {
	ev := eventmodel.NewEvent(1, "E", 1, false)
	thread := pinchgraph.NewThread(1, 40, ev, "t")

	center := thread.AppendSegment(0, 2, true)
	n1 := thread.AppendSegment(2, 10, true)
	n2 := thread.AppendSegment(12, 10, true)
	n3 := thread.AppendSegment(22, 10, true)

	centerBlock := pinchgraph.NewBlock(center, true)
	b1 := pinchgraph.NewBlock(n1, true)
	b2 := pinchgraph.NewBlock(n2, true)
	b3 := pinchgraph.NewBlock(n3, true)

	out := make(map[*pinchgraph.Block]struct{})
	AddContextualBlocks(centerBlock, 12, 10, false, out)

	if _, ok := out[centerBlock]; ok {
		t.Errorf("a block must not list itself as contextual")
	}
	for _, want := range []*pinchgraph.Block{b1, b2, b3} {
		if _, ok := out[want]; !ok {
			t.Errorf("expected all three downstream blocks reachable using the origin segment's length as the constant hop cost")
		}
	}
}

func TestAddContextualBlocksIgnoresUnalignedGaps(t *testing.T) {
	ev := eventmodel.NewEvent(1, "E", 1, false)
	thread := pinchgraph.NewThread(1, 40, ev, "t")

	center := thread.AppendSegment(0, 2, true)
	thread.AppendSegment(2, 2, true) // unaligned gap, no block
	n1 := thread.AppendSegment(4, 2, true)

	centerBlock := pinchgraph.NewBlock(center, true)
	b1 := pinchgraph.NewBlock(n1, true)

	out := make(map[*pinchgraph.Block]struct{})
	AddContextualBlocks(centerBlock, 1000, 1, true, out)

	if _, ok := out[b1]; !ok {
		t.Errorf("with ignoreUnaligned set, the gap must not consume a hop of block-distance budget")
	}
}
