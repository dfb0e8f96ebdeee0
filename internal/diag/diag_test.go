package diag

import (
	"strings"
	"testing"

	"github.com/fantasticair/cactus/internal/eventmodel"
	"github.com/fantasticair/cactus/internal/pinchgraph"
	"github.com/fantasticair/cactus/internal/tree"
)

func TestCountBasesBetweenSingleDegreeBlocks(t *testing.T) {
	ev := eventmodel.NewEvent(1, "E", 1, false)
	thread := pinchgraph.NewThread(1, 20, ev, "t")

	segA := thread.AppendSegment(0, 4, true)
	thread.AppendSegment(4, 6, true) // unaligned gap, no block
	segB := thread.AppendSegment(10, 4, true)
	thread.AppendSegment(14, 2, true) // another gap
	segD := thread.AppendSegment(16, 4, true)

	pinchgraph.NewBlock(segA, true)
	pinchgraph.NewBlock(segB, true)
	pinchgraph.NewBlock(segD, true)

	ts := pinchgraph.NewThreadSet([]*pinchgraph.Thread{thread})

	between, inSingle := CountBasesBetweenSingleDegreeBlocks(ts)
	// segA is the thread's first segment, so its bases never enter the
	// loop's accounting; only segB and segD are counted.
	if inSingle != 8 {
		t.Errorf("expected 8 bases in single-degree blocks (segB+segD), got %d", inSingle)
	}
	if between != 2 {
		t.Errorf("expected 2 bases between segB and segD, got %d", between)
	}
}

func TestBlockDebugLineFormat(t *testing.T) {
	ev := eventmodel.NewEvent(1, "E", 1, false)
	thread := pinchgraph.NewThread(1, 20, ev, "t")
	s0 := thread.AppendSegment(0, 4, true)
	s1 := thread.AppendSegment(4, 4, true)
	block := pinchgraph.NewBlock(s0, true)
	block.Pinch(s1, true)

	tr := tree.NewTree()
	root := tr.NewNode()
	tr.SetRoot(root)
	n0 := tr.NewNode()
	n0.SetName("0")
	n1 := tr.NewNode()
	n1.SetName("1")
	tr.ConnectNodes(root, n0)
	tr.ConnectNodes(root, n1)
	tr.UpdateTipIndex()

	line, err := BlockDebugLine(block, tr, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields := strings.Split(strings.TrimRight(line, "\n"), "\t")
	if len(fields) != 4 {
		t.Fatalf("expected 4 tab-separated fields, got %d: %q", len(fields), line)
	}
	if !strings.Contains(fields[0], "1.t|0-4") || !strings.Contains(fields[0], "1.t|4-8") {
		t.Errorf("expected the newick field to carry segment headers, got %q", fields[0])
	}
	if fields[3] != "1.500000" {
		t.Errorf("expected score field to be 1.500000, got %q", fields[3])
	}
}
