package splitqueue

import (
	"testing"

	"github.com/fantasticair/cactus/internal/pinchgraph"
	"github.com/fantasticair/cactus/internal/tree"
)

func TestQueueOrdersBySupportDescending(t *testing.T) {
	q := New()
	block := &pinchgraph.Block{}
	n1, n2, n3 := &tree.Node{}, &tree.Node{}, &tree.Node{}

	q.Push(n1, block, 0.3)
	q.Push(n2, block, 0.9)
	q.Push(n3, block, 0.5)

	first := q.Last()
	if first.Support != 0.9 {
		t.Fatalf("expected highest support 0.9 first, got %v", first.Support)
	}
	second := q.Last()
	if second.Support != 0.5 {
		t.Fatalf("expected 0.5 second, got %v", second.Support)
	}
	third := q.Last()
	if third.Support != 0.3 {
		t.Fatalf("expected 0.3 third, got %v", third.Support)
	}
	if q.Last() != nil {
		t.Fatalf("expected an empty queue")
	}
}

func TestQueueTiebreaksByInsertionOrder(t *testing.T) {
	q := New()
	block := &pinchgraph.Block{}
	n1, n2 := &tree.Node{}, &tree.Node{}

	q.Push(n1, block, 0.7)
	q.Push(n2, block, 0.7)

	first := q.Last()
	if first.Child != n1 {
		t.Fatalf("equal-support entries must break ties by insertion order")
	}
	second := q.Last()
	if second.Child != n2 {
		t.Fatalf("expected the second-inserted entry to come out second")
	}
}

func TestQueueRemoveBlock(t *testing.T) {
	q := New()
	blockA := &pinchgraph.Block{}
	blockB := &pinchgraph.Block{}
	n1, n2, n3 := &tree.Node{}, &tree.Node{}, &tree.Node{}

	q.Push(n1, blockA, 0.9)
	q.Push(n2, blockA, 0.6)
	q.Push(n3, blockB, 0.8)

	q.RemoveBlock(blockA)
	if q.Len() != 1 {
		t.Fatalf("expected 1 remaining entry after removing blockA's, got %d", q.Len())
	}
	remaining := q.Last()
	if remaining.Block != blockB {
		t.Fatalf("expected the surviving entry to belong to blockB")
	}
}
