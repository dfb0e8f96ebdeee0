package species

import (
	"testing"

	"github.com/fantasticair/cactus/internal/eventmodel"
)

// buildEventTree constructs: synthetic-root -> top -> {A, O1}, matching the
// minimal ingroup/outgroup split used across the seed scenarios.
func buildEventTree(t *testing.T) *eventmodel.Tree {
	t.Helper()
	root := eventmodel.NewEvent(-1, "synthetic-root", 0, false)
	top := eventmodel.NewEvent(1, "top", 0, false)
	a := eventmodel.NewEvent(2, "A", 1, false)
	o1 := eventmodel.NewEvent(3, "O1", 1, true)

	root.AddChild(top)
	top.AddChild(a)
	top.AddChild(o1)
	return eventmodel.NewTree(root)
}

func TestBuildCopiesEventTreeShape(t *testing.T) {
	et := buildEventTree(t)
	speciesTree, err := Build(et)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tips := speciesTree.Tips()
	if len(tips) != 2 {
		t.Fatalf("expected 2 tips, got %d", len(tips))
	}
	names := map[string]bool{}
	for _, n := range tips {
		names[n.Name()] = true
	}
	if !names["2"] || !names["3"] {
		t.Errorf("expected tip names {2,3}, got %v", names)
	}
}

func TestBuildRejectsMultiChildRoot(t *testing.T) {
	root := eventmodel.NewEvent(-1, "synthetic-root", 0, false)
	top1 := eventmodel.NewEvent(1, "top1", 0, false)
	top2 := eventmodel.NewEvent(2, "top2", 0, false)
	root.AddChild(top1)
	root.AddChild(top2)
	et := eventmodel.NewTree(root)

	if _, err := Build(et); err == nil {
		t.Fatalf("expected an error when the synthetic root has more than one child")
	}
}

func TestSplitPointsMarksMixedAncestor(t *testing.T) {
	et := buildEventTree(t)
	speciesTree, err := Build(et)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sp := SplitPoints(et, speciesTree)
	if !sp["1"] {
		t.Errorf("expected the top event (ancestor of one ingroup and one outgroup) to be a split point, got %v", sp)
	}
	if sp["2"] || sp["3"] {
		t.Errorf("leaf events must never be split points themselves, got %v", sp)
	}
}

func TestSplitPointsEmptyWhenNoOutgroup(t *testing.T) {
	root := eventmodel.NewEvent(-1, "synthetic-root", 0, false)
	top := eventmodel.NewEvent(1, "top", 0, false)
	a := eventmodel.NewEvent(2, "A", 1, false)
	b := eventmodel.NewEvent(3, "B", 1, false)
	root.AddChild(top)
	top.AddChild(a)
	top.AddChild(b)
	et := eventmodel.NewTree(root)

	speciesTree, err := Build(et)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sp := SplitPoints(et, speciesTree)
	if len(sp) != 0 {
		t.Errorf("expected no split points when every leaf is an ingroup, got %v", sp)
	}
}
