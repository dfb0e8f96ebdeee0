package tree

import (
	"bytes"

	"github.com/pkg/errors"
)

// Sentinel values for fields that have not been set.
const (
	NIL_DEPTH   = -1
	NIL_ID      = -1
	NIL_LENGTH  = -1.0
	NIL_SUPPORT = -1.0
	NIL_PVALUE  = -1.0
)

// Node is a node of a Tree. A tip (leaf) has exactly one neighbor; an
// internal node of a rooted binary tree has two children plus (except at
// the root) one parent, for three total neighbors.
type Node struct {
	name    string
	comment []string
	neigh   []*Node
	br      []*Edge
	depth   int
	id      int

	// Info carries the ancient-homology-refinement payload attached to
	// gene tree nodes: the block matrix index of a leaf, its reconciled
	// species node, and bookkeeping used by the split-branch enumerator.
	// It is nil until PhylogenyInfo is explicitly attached.
	Info *PhylogenyInfo
}

func (n *Node) Name() string       { return n.name }
func (n *Node) SetName(name string) { n.name = name }
func (n *Node) Comments() []string { return n.comment }
func (n *Node) ClearComments()     { n.comment = n.comment[:0] }
func (n *Node) AddComment(c string) { n.comment = append(n.comment, c) }
func (n *Node) Neigh() []*Node     { return n.neigh }
func (n *Node) Nneigh() int        { return len(n.neigh) }
func (n *Node) Edges() []*Edge     { return n.br }
func (n *Node) Id() int            { return n.id }
func (n *Node) SetId(id int)       { n.id = id }

// Tip returns true if the node has exactly one neighbor.
func (n *Node) Tip() bool { return len(n.neigh) == 1 }

// Depth returns the node's depth, if it has been computed and recorded.
func (n *Node) Depth() (int, error) {
	if n.depth == NIL_DEPTH {
		return 0, errors.New("depth has not been computed for this node")
	}
	return n.depth, nil
}

// addChild records an edge to a neighboring node. Used both for true
// parent/child edges (rooted trees) and for general adjacency (unrooted
// trees), since gotree represents both with the same Node.neigh/br slices.
func (n *Node) addChild(child *Node, e *Edge) {
	n.neigh = append(n.neigh, child)
	n.br = append(n.br, e)
}

// delNeighbor removes a neighbor (and its associated edge) from n. It is an
// invariant violation to call this with a node that is not a neighbor.
func (n *Node) delNeighbor(other *Node) error {
	idx := -1
	for i, nb := range n.neigh {
		if nb == other {
			idx = i
			break
		}
	}
	if idx == -1 {
		return errors.New("node is not a neighbor")
	}
	n.neigh = append(n.neigh[:idx], n.neigh[idx+1:]...)
	n.br = append(n.br[:idx], n.br[idx+1:]...)
	return nil
}

// NodeIndex returns the index of other in n's neighbor slice.
func (n *Node) NodeIndex(other *Node) (int, error) {
	for i, nb := range n.neigh {
		if nb == other {
			return i, nil
		}
	}
	return -1, errors.New("node is not a neighbor")
}

// EdgeIndex returns the index of e in n's edge slice.
func (n *Node) EdgeIndex(e *Edge) (int, error) {
	for i, be := range n.br {
		if be == e {
			return i, nil
		}
	}
	return -1, errors.New("edge is not incident to this node")
}

// Newick writes the Newick representation of the subtree rooted at n into
// buf, having arrived from parent (nil at the root).
func (n *Node) Newick(parent *Node, buf *bytes.Buffer) {
	children := make([]*Edge, 0, len(n.br))
	for _, e := range n.br {
		if e.left == n {
			children = append(children, e)
		}
	}
	if len(children) > 0 {
		buf.WriteString("(")
		for i, e := range children {
			if i > 0 {
				buf.WriteString(",")
			}
			e.Right().Newick(n, buf)
			buf.WriteString(e.lengthAndSupportString())
		}
		buf.WriteString(")")
	}
	buf.WriteString(n.name)
	for _, c := range n.comment {
		buf.WriteString("[")
		buf.WriteString(c)
		buf.WriteString("]")
	}
}
