// Package splitqueue implements the split-branch priority set: a totally
// ordered set of (block, child-subtree, support) entries consumed in
// strictly descending support order, with a stable insertion-order
// tiebreak in place of the pointer-identity comparator described in
// spec.md §4.6 (see spec.md §9's own suggestion to use a monotonic counter
// instead of a pointer cast).
package splitqueue

import (
	"container/heap"

	"github.com/fantasticair/cactus/internal/pinchgraph"
	"github.com/fantasticair/cactus/internal/tree"
)

// Entry is one split branch: a candidate edge to peel off of an owning
// block's current gene tree.
type Entry struct {
	Child       *tree.Node
	Block       *pinchgraph.Block
	Support     float64
	insertOrder uint64
	index       int // heap.Interface bookkeeping
}

// Queue is a max-heap on (Support desc, insertOrder asc) ordering entries
// by §4.6's comparator, modeled on the nodeQueue priority-queue shape
// (heap.Interface over a slice of pointers, Less/Swap/Push/Pop).
type Queue struct {
	heap    entryHeap
	counter uint64
	byBlock map[*pinchgraph.Block][]*Entry
}

// New returns an empty split-branch priority set.
func New() *Queue {
	return &Queue{byBlock: make(map[*pinchgraph.Block][]*Entry)}
}

// Len returns the number of live entries.
func (q *Queue) Len() int { return q.heap.Len() }

// Push inserts a new split branch for block, owned until either consumed
// or removed by RemoveBlock.
func (q *Queue) Push(child *tree.Node, block *pinchgraph.Block, support float64) {
	e := &Entry{Child: child, Block: block, Support: support, insertOrder: q.counter}
	q.counter++
	heap.Push(&q.heap, e)
	q.byBlock[block] = append(q.byBlock[block], e)
}

// Last pops and returns the maximum-support entry (the "getLast()" of
// spec.md §4.6), or nil if the set is empty.
func (q *Queue) Last() *Entry {
	if q.heap.Len() == 0 {
		return nil
	}
	e := heap.Pop(&q.heap).(*Entry)
	q.forgetFromBlock(e)
	return e
}

// RemoveBlock removes every live entry owned by block (used when that
// block's tree is rebuilt or destroyed, per spec.md §4.7's driver loop
// and §5's "all split branches referencing the old tree must be removed
// before the old tree is destroyed").
func (q *Queue) RemoveBlock(block *pinchgraph.Block) {
	entries := q.byBlock[block]
	delete(q.byBlock, block)
	for _, e := range entries {
		if e.index >= 0 && e.index < q.heap.Len() && q.heap[e.index] == e {
			heap.Remove(&q.heap, e.index)
		}
	}
}

func (q *Queue) forgetFromBlock(e *Entry) {
	entries := q.byBlock[e.Block]
	for i, cand := range entries {
		if cand == e {
			q.byBlock[e.Block] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
}

type entryHeap []*Entry

func (h entryHeap) Len() int { return len(h) }

// Less implements §4.6's comparator: higher support is "greater" (we want
// a max-heap, so Less reports whether i should come out *before* j, i.e.
// i has higher priority); ties break on insertion order (earlier wins),
// giving a total order without relying on pointer identity.
func (h entryHeap) Less(i, j int) bool {
	if h[i].Support != h[j].Support {
		return h[i].Support > h[j].Support
	}
	return h[i].insertOrder < h[j].insertOrder
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x interface{}) {
	e := x.(*Entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
