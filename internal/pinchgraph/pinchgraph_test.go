package pinchgraph

import (
	"testing"

	"github.com/fantasticair/cactus/internal/eventmodel"
)

func newTestBlock(t *testing.T, n int) *Block {
	t.Helper()
	ev := eventmodel.NewEvent(1, "E", 1, false)
	thread := NewThread(1, int64(n*10+4), ev, "t")
	var block *Block
	for i := 0; i < n; i++ {
		seg := thread.AppendSegment(int64(i*10+1), 10, true)
		if block == nil {
			block = NewBlock(seg, true)
		} else {
			block.Pinch(seg, true)
		}
	}
	return block
}

func TestSplitBlockTrivial(t *testing.T) {
	block := newTestBlock(t, 3)
	out := SplitBlock(block, [][]int{{0, 1, 2}}, true)
	if len(out) != 1 || out[0] != block {
		t.Fatalf("a single partition must be a no-op returning the original block")
	}
	if block.Degree() != 3 {
		t.Errorf("expected degree 3 after no-op split, got %d", block.Degree())
	}
}

func TestSplitBlockPartitionsSegments(t *testing.T) {
	block := newTestBlock(t, 4)
	segs := block.Segments()
	below := []int{0, 1}
	above := []int{2, 3}

	out := SplitBlock(block, [][]int{below, above}, true)
	if len(out) != 2 {
		t.Fatalf("expected 2 new blocks, got %d", len(out))
	}
	if out[0] == nil || out[1] == nil {
		t.Fatalf("neither partition is a singleton, neither should be dropped")
	}
	if out[0].Degree() != 2 || out[1].Degree() != 2 {
		t.Errorf("expected both new blocks to have degree 2, got %d and %d", out[0].Degree(), out[1].Degree())
	}

	total := out[0].Degree() + out[1].Degree()
	if total != len(segs) {
		t.Errorf("conservation of segments violated: started with %d, ended with %d", len(segs), total)
	}
	for _, s := range segs[:2] {
		if s.Block() != out[0] {
			t.Errorf("segment below the split point must belong to the first new block")
		}
	}
	for _, s := range segs[2:] {
		if s.Block() != out[1] {
			t.Errorf("segment above the split point must belong to the second new block")
		}
	}
}

func TestSplitBlockDropsSingletonByDefault(t *testing.T) {
	block := newTestBlock(t, 3)
	out := SplitBlock(block, [][]int{{0}, {1, 2}}, false)
	if out[0] != nil {
		t.Errorf("a singleton partition must be dropped when allowSingleDegreeBlocks is false")
	}
	if out[1] == nil || out[1].Degree() != 2 {
		t.Errorf("the non-singleton partition must survive as a degree-2 block")
	}
}

func TestSplitBlockKeepsSingletonWhenAllowed(t *testing.T) {
	block := newTestBlock(t, 3)
	out := SplitBlock(block, [][]int{{0}, {1, 2}}, true)
	if out[0] == nil || out[0].Degree() != 1 {
		t.Errorf("a singleton partition must survive as a degree-1 block when allowed")
	}
}

func TestThreadSetRegisterAndForget(t *testing.T) {
	block := newTestBlock(t, 2)
	ts := NewThreadSet(nil)
	if len(ts.Blocks()) != 0 {
		t.Fatalf("a thread set over no threads starts with no blocks")
	}
	ts.RegisterBlock(block)
	if len(ts.Blocks()) != 1 {
		t.Fatalf("expected 1 registered block")
	}
	ts.ForgetBlock(block)
	if len(ts.Blocks()) != 0 {
		t.Errorf("expected 0 blocks after forgetting the only one")
	}
}
