package tree

import "testing"

func buildTestTree(t *testing.T) (tr *Tree, root, a, b, tipA, tipB *Node) {
	t.Helper()
	tr = NewTree()
	root = tr.NewNode()
	tr.SetRoot(root)
	a = tr.NewNode()
	a.SetName("a")
	b = tr.NewNode()
	b.SetName("b")
	tipA = tr.NewNode()
	tipA.SetName("tipA")
	tipB = tr.NewNode()
	tipB.SetName("tipB")

	tr.ConnectNodes(root, a)
	tr.ConnectNodes(root, b)
	tr.ConnectNodes(a, tipA)
	tr.ConnectNodes(a, tipB)
	tr.UpdateTipIndex()
	return
}

func TestNewickRendersTopology(t *testing.T) {
	tr, _, _, _, _, _ := buildTestTree(t)

	got := tr.Newick()
	want := "((tipA,tipB)a,b);"
	if got != want {
		t.Errorf("Newick() = %q, want %q", got, want)
	}
}

func TestStringMatchesNewick(t *testing.T) {
	tr, _, _, _, _, _ := buildTestTree(t)
	if tr.String() != tr.Newick() {
		t.Errorf("String() = %q, want it to match Newick() = %q", tr.String(), tr.Newick())
	}
}

func TestCloneProducesIndependentEquivalentTree(t *testing.T) {
	tr, _, a, _, _, _ := buildTestTree(t)

	clone := tr.Clone()
	if clone.Newick() != tr.Newick() {
		t.Fatalf("clone Newick() = %q, want %q", clone.Newick(), tr.Newick())
	}

	a.SetName("renamed")
	if clone.Newick() == tr.Newick() {
		t.Errorf("mutating the original tree's node should not affect the clone")
	}
}

func TestRenameUpdatesTipIndex(t *testing.T) {
	tr, _, _, _, _, _ := buildTestTree(t)

	if err := tr.Rename(map[string]string{"tipA": "renamedTip"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tr.TipIndex("renamedTip"); err != nil {
		t.Errorf("expected renamedTip in the tip index: %v", err)
	}
	if _, err := tr.TipIndex("tipA"); err == nil {
		t.Errorf("expected tipA to no longer be in the tip index after rename")
	}
}

func TestRerootMovesRoot(t *testing.T) {
	tr, _, a, _, _, _ := buildTestTree(t)

	if err := tr.Reroot(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Root() != a {
		t.Errorf("expected root to be the rerooted node")
	}

	foreign := NewTree().NewNode()
	if err := tr.Reroot(foreign); err == nil {
		t.Errorf("expected an error rerooting on a node that belongs to a different tree")
	}
}

func TestCompareTipIndexesDetectsMismatch(t *testing.T) {
	tr1, _, _, _, _, _ := buildTestTree(t)
	tr2 := NewTree()
	r2 := tr2.NewNode()
	tr2.SetRoot(r2)
	c := tr2.NewNode()
	c.SetName("onlyHere")
	tr2.ConnectNodes(r2, c)
	tr2.UpdateTipIndex()

	if err := tr1.CompareTipIndexes(tr2); err == nil {
		t.Errorf("expected an error comparing trees with different tip sets")
	}
}
