// Package snapshot loads a pinch-graph + event-tree snapshot from JSON, the
// CLI's one input format (see cmd/refine.go). Nothing in the core cares
// about this format; it exists only so the `refine` command has something
// concrete to read, in place of the real cactus flower/database the C
// driver read from.
package snapshot

import (
	"encoding/json"
	"io"

	"github.com/fantasticair/cactus/internal/eventmodel"
	"github.com/fantasticair/cactus/internal/feature"
	"github.com/fantasticair/cactus/internal/pinchgraph"
	"github.com/pkg/errors"
)

// Event is one node of the event tree. ParentName of -1 marks the single
// top-level event (the synthetic root's only child, see eventmodel.Tree).
type Event struct {
	Name         int64   `json:"name"`
	ParentName   int64   `json:"parentName"`
	Header       string  `json:"header"`
	BranchLength float64 `json:"branchLength"`
	Outgroup     bool    `json:"outgroup"`
}

// Segment is one interval of a Thread. BlockID groups segments, across
// threads, into the same block; BlockID 0 means the segment belongs to no
// block (an unaligned gap).
type Segment struct {
	Start       int64 `json:"start"`
	Length      int64 `json:"length"`
	Orientation bool  `json:"orientation"`
	BlockID     int   `json:"blockId"`
}

// Thread is one sequence, padded with "N" sentinels at both ends per
// spec.md §6's thread-strings convention; Sequence is the raw, unpadded
// interior (length Length-2), or empty if unknown.
type Thread struct {
	Name     int64     `json:"name"`
	Length   int64     `json:"length"`
	Event    int64     `json:"event"`
	Header   string    `json:"header"`
	Sequence string    `json:"sequence"`
	Segments []Segment `json:"segments"`
}

// File is the top-level snapshot document.
type File struct {
	Events  []Event  `json:"events"`
	Threads []Thread `json:"threads"`
}

// Decoded bundles everything Load produces for the partition driver.
type Decoded struct {
	EventTree   *eventmodel.Tree
	ThreadSet   *pinchgraph.ThreadSet
	Strings     feature.ThreadStrings
}

// Load reads and validates a snapshot document from r.
func Load(r io.Reader) (*Decoded, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot")
	}
	return build(&f)
}

func build(f *File) (*Decoded, error) {
	events := make(map[int64]*eventmodel.Event, len(f.Events))
	for _, e := range f.Events {
		events[e.Name] = eventmodel.NewEvent(eventmodel.Name(e.Name), e.Header, e.BranchLength, e.Outgroup)
	}

	var top *eventmodel.Event
	for _, e := range f.Events {
		node := events[e.Name]
		if e.ParentName == -1 {
			if top != nil {
				return nil, errors.New("snapshot declares more than one top-level event")
			}
			top = node
			continue
		}
		parent, ok := events[e.ParentName]
		if !ok {
			return nil, errors.Errorf("event %d references unknown parent %d", e.Name, e.ParentName)
		}
		parent.AddChild(node)
	}
	if top == nil {
		return nil, errors.New("snapshot declares no top-level event")
	}

	root := eventmodel.NewEvent(-1, "synthetic-root", 0, false)
	root.AddChild(top)
	eventTree := eventmodel.NewTree(root)

	threads := make([]*pinchgraph.Thread, 0, len(f.Threads))
	blocks := make(map[int]*pinchgraph.Block)
	strings := make(feature.ThreadStrings, len(f.Threads))
	for _, tdef := range f.Threads {
		ev, ok := events[tdef.Event]
		if !ok {
			return nil, errors.Errorf("thread %d references unknown event %d", tdef.Name, tdef.Event)
		}
		thread := pinchgraph.NewThread(tdef.Name, tdef.Length, ev, tdef.Header)
		for _, sdef := range tdef.Segments {
			seg := thread.AppendSegment(sdef.Start, sdef.Length, sdef.Orientation)
			if sdef.BlockID == 0 {
				continue
			}
			if b, ok := blocks[sdef.BlockID]; ok {
				b.Pinch(seg, sdef.Orientation)
			} else {
				blocks[sdef.BlockID] = pinchgraph.NewBlock(seg, sdef.Orientation)
			}
		}
		threads = append(threads, thread)

		padded := "N" + tdef.Sequence + "N"
		strings[thread] = padded
	}

	return &Decoded{
		EventTree: eventTree,
		ThreadSet: pinchgraph.NewThreadSet(threads),
		Strings:   strings,
	}, nil
}
