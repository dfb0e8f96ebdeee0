// Package pinchgraph is a minimal stand-in for the pinch-graph collaborator
// described in the ancient-homology refinement spec: threads (oriented
// sequences with flanking sentinels), segments (intervals on a thread owned
// by at most one block) and blocks (equal-length multisets of segments).
//
// The real graph is an external library (stPinchGraphs in cactus); this
// package only implements the slice of its interface the core actually
// calls: construction, pinching, splitting, and thread-adjacency walks.
package pinchgraph

import "github.com/fantasticair/cactus/internal/eventmodel"

// Thread is a named, oriented sequence with flanking sentinel positions at
// index 0 and length-1. Every thread is associated with one event.
type Thread struct {
	name   int64
	length int64
	event  *eventmodel.Event
	header string
	first  *Segment
}

// NewThread constructs a thread of the given length (including its two
// flanking sentinel positions), owned by event.
func NewThread(name int64, length int64, event *eventmodel.Event, header string) *Thread {
	return &Thread{name: name, length: length, event: event, header: header}
}

func (t *Thread) Name() int64              { return t.name }
func (t *Thread) Length() int64            { return t.length }
func (t *Thread) Event() *eventmodel.Event { return t.event }
func (t *Thread) Header() string           { return t.header }
func (t *Thread) First() *Segment          { return t.first }

// Segment is a half-open interval [start, start+length) on a thread, owned
// by at most one block at a time.
type Segment struct {
	thread           *Thread
	start            int64
	length           int64
	blockOrientation bool
	block            *Block
	five             *Segment // neighbor toward the 5' end of the thread
	three            *Segment // neighbor toward the 3' end of the thread
}

func (s *Segment) Thread() *Thread           { return s.thread }
func (s *Segment) Start() int64              { return s.start }
func (s *Segment) Length() int64             { return s.length }
func (s *Segment) BlockOrientation() bool    { return s.blockOrientation }
func (s *Segment) Block() *Block             { return s.block }
func (s *Segment) Get5Prime() *Segment       { return s.five }
func (s *Segment) Get3Prime() *Segment       { return s.three }

// AppendSegment adds a new segment to the 3' end of the thread, wiring the
// 5'/3' adjacency pointers. Used when assembling a ThreadSet for tests.
func (t *Thread) AppendSegment(start, length int64, orientation bool) *Segment {
	seg := &Segment{thread: t, start: start, length: length, blockOrientation: orientation}
	if t.first == nil {
		t.first = seg
	} else {
		last := t.first
		for last.three != nil {
			last = last.three
		}
		last.three = seg
		seg.five = last
	}
	return seg
}

// Block is an unordered multiset of equal-length segments, interpreted as a
// homology column group. Segments are kept in a stable slice so that the
// position of a segment in that slice is its matrix index for the duration
// of one tree build (see internal/treebuild).
type Block struct {
	segments []*Segment
	length   int64
}

// NewBlock constructs a block containing exactly one segment (the "two
// argument construct" of spec.md §6). The segment must not already belong
// to a block.
func NewBlock(first *Segment, orientation bool) *Block {
	b := &Block{length: first.length}
	first.block = b
	first.blockOrientation = orientation
	b.segments = append(b.segments, first)
	return b
}

// Pinch adds segment to the block, owning it. The segment must have the
// same length as the block and must not already belong to a block.
func (b *Block) Pinch(segment *Segment, orientation bool) {
	segment.block = b
	segment.blockOrientation = orientation
	b.segments = append(b.segments, segment)
}

// Destruct detaches every segment owned by b. After this call b must not be
// used again.
func (b *Block) Destruct() {
	for _, s := range b.segments {
		s.block = nil
	}
	b.segments = nil
}

// Degree returns the number of segments in the block.
func (b *Block) Degree() int { return len(b.segments) }

// Length returns the (shared) length of every segment in the block.
func (b *Block) Length() int64 { return b.length }

// Segments returns the block's segments in stable iteration order; index i
// of this slice is segment i's matrix index for the lifetime of a tree
// build.
func (b *Block) Segments() []*Segment { return b.segments }

// SegmentAt returns the segment at the given matrix index.
func (b *Block) SegmentAt(index int) *Segment { return b.segments[index] }

// ThreadSet owns a fixed set of threads and tracks the set of live blocks
// reachable from them, mirroring stPinchThreadSet's block iterator.
type ThreadSet struct {
	threads []*Thread
	blocks  map[*Block]struct{}
}

// NewThreadSet builds a thread set over the given threads, registering every
// block already reachable from them.
func NewThreadSet(threads []*Thread) *ThreadSet {
	ts := &ThreadSet{threads: threads, blocks: make(map[*Block]struct{})}
	for _, t := range threads {
		for s := t.first; s != nil; s = s.three {
			if s.block != nil {
				ts.blocks[s.block] = struct{}{}
			}
		}
	}
	return ts
}

// Threads returns every thread in the set.
func (ts *ThreadSet) Threads() []*Thread { return ts.threads }

// Blocks returns every live block reachable from the thread set, in
// unspecified order (mirroring stPinchThreadSetBlockIt, which also has no
// ordering guarantee).
func (ts *ThreadSet) Blocks() []*Block {
	out := make([]*Block, 0, len(ts.blocks))
	for b := range ts.blocks {
		out = append(out, b)
	}
	return out
}

// RegisterBlock records a newly constructed block as live in the set. The
// partition driver must call this for every block produced by SplitBlock.
func (ts *ThreadSet) RegisterBlock(b *Block) {
	if b != nil {
		ts.blocks[b] = struct{}{}
	}
}

// ForgetBlock removes a destructed block from the set's bookkeeping.
func (ts *ThreadSet) ForgetBlock(b *Block) {
	delete(ts.blocks, b)
}

// SplitBlock partitions block's segments into len(partitions) fresh blocks,
// one per entry of partitions (each a list of matrix indices into block, as
// it stood at the moment of the call). A single-entry partitions list is a
// no-op: block is returned untouched. Otherwise block is destructed and a
// new block is constructed per partition; a singleton partition is dropped
// (its segment becomes block-less) unless allowSingleDegreeBlocks is set.
// The returned slice has one entry per partition, nil where a singleton was
// dropped.
func SplitBlock(block *Block, partitions [][]int, allowSingleDegreeBlocks bool) []*Block {
	if len(partitions) <= 1 {
		return []*Block{block}
	}

	segments := make([]*Segment, len(block.segments))
	orientations := make([]bool, len(block.segments))
	for i, s := range block.segments {
		segments[i] = s
		orientations[i] = s.blockOrientation
	}
	block.Destruct()

	out := make([]*Block, len(partitions))
	for pi, indices := range partitions {
		if len(indices) == 1 && !allowSingleDegreeBlocks {
			continue
		}
		first := segments[indices[0]]
		nb := NewBlock(first, orientations[indices[0]])
		for _, idx := range indices[1:] {
			nb.Pinch(segments[idx], orientations[idx])
		}
		out[pi] = nb
	}
	return out
}
