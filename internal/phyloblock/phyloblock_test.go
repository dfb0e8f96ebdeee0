package phyloblock

import (
	"testing"

	"github.com/fantasticair/cactus/internal/eventmodel"
	"github.com/fantasticair/cactus/internal/pinchgraph"
)

func newSegment(name int64, ev *eventmodel.Event) *pinchgraph.Segment {
	thread := pinchgraph.NewThread(name, 12, ev, "thread")
	return thread.AppendSegment(1, 10, true)
}

func TestHasSimplePhylogenyDegreeTwo(t *testing.T) {
	a := eventmodel.NewEvent(1, "A", 1, false)
	o := eventmodel.NewEvent(2, "O", 1, true)

	block := pinchgraph.NewBlock(newSegment(1, a), true)
	block.Pinch(newSegment(2, o), true)

	if !HasSimplePhylogeny(block) {
		t.Errorf("a degree-2 block must be simple")
	}
}

func TestHasSimplePhylogenySingleEvent(t *testing.T) {
	e := eventmodel.NewEvent(1, "E", 1, false)

	block := pinchgraph.NewBlock(newSegment(1, e), true)
	block.Pinch(newSegment(2, e), true)
	block.Pinch(newSegment(3, e), true)

	if !HasSimplePhylogeny(block) {
		t.Errorf("a block whose segments all share one event must be simple")
	}
}

func TestHasSimplePhylogenyNoOutgroup(t *testing.T) {
	a := eventmodel.NewEvent(1, "A", 1, false)
	b := eventmodel.NewEvent(2, "B", 1, false)
	c := eventmodel.NewEvent(3, "C", 1, false)

	block := pinchgraph.NewBlock(newSegment(1, a), true)
	block.Pinch(newSegment(2, b), true)
	block.Pinch(newSegment(3, c), true)

	if !HasSimplePhylogeny(block) {
		t.Errorf("a block with no outgroup segment must be simple")
	}
}

func TestHasSimplePhylogenyFalseOnDuplication(t *testing.T) {
	a := eventmodel.NewEvent(1, "A", 1, false)
	b := eventmodel.NewEvent(2, "B", 1, false)
	o1 := eventmodel.NewEvent(3, "O1", 1, true)

	block := pinchgraph.NewBlock(newSegment(1, a), true)
	block.Pinch(newSegment(2, a), true)
	block.Pinch(newSegment(3, b), true)
	block.Pinch(newSegment(4, b), true)

	if !HasSimplePhylogeny(block) {
		t.Errorf("no outgroup segment present, block must still read as simple")
	}

	block.Pinch(newSegment(5, o1), true)
	if HasSimplePhylogeny(block) {
		t.Errorf("a degree-5 block with mixed events and an outgroup must not be simple")
	}
}

func TestIsSingleCopyBlock(t *testing.T) {
	a := eventmodel.NewEvent(1, "A", 1, false)
	b := eventmodel.NewEvent(2, "B", 1, false)

	block := pinchgraph.NewBlock(newSegment(1, a), true)
	block.Pinch(newSegment(2, b), true)
	if !IsSingleCopyBlock(block) {
		t.Errorf("expected single-copy block")
	}

	block.Pinch(newSegment(3, a), true)
	if IsSingleCopyBlock(block) {
		t.Errorf("expected non single-copy block once an event repeats")
	}
}
