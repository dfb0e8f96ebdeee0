package tree

import (
	"fmt"

	"github.com/fredericlemoine/bitset"
	"github.com/pkg/errors"
)

// Edge connects a parent node (left) to a child node (right). Every Edge
// has an optional length, support value and p-value, plus a bitset
// recording which tips fall below it (the "right" side) once
// Tree.UpdateBitSet has run.
type Edge struct {
	left, right *Node
	length      float64
	support     float64
	pvalue      float64
	id          int
	bitset      *bitset.BitSet
}

func (e *Edge) Left() *Node   { return e.left }
func (e *Edge) Right() *Node  { return e.right }
func (e *Edge) Length() float64 { return e.length }
func (e *Edge) Support() float64 { return e.support }
func (e *Edge) PValue() float64  { return e.pvalue }
func (e *Edge) Id() int          { return e.id }
func (e *Edge) Bitset() *bitset.BitSet { return e.bitset }

func (e *Edge) SetLength(l float64)   { e.length = l }
func (e *Edge) SetSupport(s float64)  { e.support = s }
func (e *Edge) SetPValue(p float64)   { e.pvalue = p }
func (e *Edge) SetId(id int)          { e.id = id }

func (e *Edge) setLeft(n *Node)  { e.left = n }
func (e *Edge) setRight(n *Node) { e.right = n }

// SupportString formats the support value for inclusion in a debug label,
// or the empty string if no support has been set.
func (e *Edge) SupportString() string {
	if e.support == NIL_SUPPORT {
		return ""
	}
	return fmt.Sprintf("%.6f", e.support)
}

func (e *Edge) lengthAndSupportString() string {
	s := ""
	if e.support != NIL_SUPPORT && !e.right.Tip() {
		s += fmt.Sprintf("%s", e.SupportString())
	}
	if e.length != NIL_LENGTH {
		s += fmt.Sprintf(":%.8f", e.length)
	}
	return s
}

// NumTipsRight returns the number of tips in the subtree below (to the
// right of) this edge, using the edge's bitset (see Tree.UpdateBitSet).
func (e *Edge) NumTipsRight() (int, error) {
	if e.bitset == nil {
		return 0, errors.New("bitset has not been initialized for this edge")
	}
	return int(e.bitset.Count()), nil
}

// FindEdge returns the edge in edges whose bitset matches e's bitset (i.e.
// the same bipartition), or nil if none is found.
func (e *Edge) FindEdge(edges []*Edge) (*Edge, error) {
	if e.bitset == nil {
		return nil, errors.New("bitset has not been initialized for this edge")
	}
	for _, o := range edges {
		if o.bitset == nil {
			return nil, errors.New("bitset has not been initialized for a candidate edge")
		}
		if bitsetsEqual(e.bitset, o.bitset) {
			return o, nil
		}
	}
	return nil, nil
}

func bitsetsEqual(a, b *bitset.BitSet) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := uint(0); i < a.Len(); i++ {
		if a.Test(i) != b.Test(i) {
			return false
		}
	}
	return true
}
