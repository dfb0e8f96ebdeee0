// Package tree implements gene trees and species trees for the
// ancient-homology refinement engine: rooted or unrooted binary-ish
// phylogenies with Newick serialization, bitset-indexed bipartitions, and
// the cloning/rerooting operations the partition driver needs when it
// builds, scores and destroys one tree per homology block.
package tree

import (
	"bytes"
	"sort"

	"github.com/fredericlemoine/bitset"
	"github.com/pkg/errors"
)

// Tree structure having a root and a tip index, that maps tip names to their index
type Tree struct {
	root     *Node           // root node: If the tree is unrooted the root node should have 3 children
	tipIndex map[string]uint // Map between tip name and bitset index
}

// Type for channel of trees
type Trees struct {
	Tree *Tree
	Id   int
	Err  error
}

// Initialize a new empty Tree
func NewTree() *Tree {
	return &Tree{
		root:     nil,
		tipIndex: make(map[string]uint, 0),
	}
}

// Initialize a new empty Node
func (t *Tree) NewNode() *Node {
	return &Node{
		name:    "",
		comment: make([]string, 0),
		neigh:   make([]*Node, 0, 3),
		br:      make([]*Edge, 0, 3),
		depth:   NIL_DEPTH,
		id:      NIL_ID,
	}
}

// Initialize a new empty Edge
func (t *Tree) NewEdge() *Edge {
	return &Edge{
		length:  NIL_LENGTH,
		support: NIL_SUPPORT,
		id:      NIL_ID,
		pvalue:  NIL_PVALUE,
	}
}

/* Tree functions */
/******************/

// Set a root for the tree. This does not check that the
// node is part of the tree. It may be useful to call
//	t.UpdateTipIndex()/t.ClearBitSets()/t.UpdateBitSet()
// after setting a new root, to update branch bitsets.
func (t *Tree) SetRoot(r *Node) {
	t.root = r
}

// Returns the current root of the tree
func (t *Tree) Root() *Node {
	return t.root
}

// Returns all the edges of the tree (do it recursively)
func (t *Tree) Edges() []*Edge {
	edges := make([]*Edge, 0, 2000)
	for _, e := range t.Root().br {
		edges = append(edges, e)
		t.edgesRecur(e, &edges)
	}
	return edges
}

// Recursive function to list all edges of the tree
func (t *Tree) edgesRecur(edge *Edge, edges *[]*Edge) {
	if len(edge.right.neigh) > 1 {
		for _, child := range edge.right.br {
			if child.left == edge.right {
				*edges = append((*edges), child)
				t.edgesRecur(child, edges)
			}
		}
	}
}

// Returns all internal edges of the tree (do it recursively)
func (t *Tree) InternalEdges() []*Edge {
	edges := make([]*Edge, 0, 2000)
	for _, e := range t.Root().br {
		if !e.Right().Tip() {
			edges = append(edges, e)
			t.internalEdgesRecur(e, &edges)
		}
	}
	return edges
}

// recursive function that lists all internal edges of the tree
func (t *Tree) internalEdgesRecur(edge *Edge, edges *[]*Edge) {
	if len(edge.right.neigh) > 1 {
		for _, child := range edge.right.br {
			if child.left == edge.right && !child.Right().Tip() {
				*edges = append((*edges), child)
				t.internalEdgesRecur(child, edges)
			}
		}
	}
}

// Returns all the nodes of the tree (do it recursively)
func (t *Tree) Nodes() []*Node {
	nodes := make([]*Node, 0, 2000)
	t.nodesRecur(&nodes, nil, nil)
	return nodes
}

// recursive function that lists all nodes of the tree
func (t *Tree) nodesRecur(nodes *[]*Node, cur *Node, prev *Node) {
	if cur == nil {
		cur = t.Root()
	}
	*nodes = append((*nodes), cur)
	for _, n := range cur.neigh {
		if n != prev {
			t.nodesRecur(nodes, n, cur)
		}
	}
}

// Returns all the tips of the tree (do it recursively)
func (t *Tree) Tips() []*Node {
	tips := make([]*Node, 0, 2000)
	t.tipsRecur(&tips, nil, nil)
	return tips
}

// recursive function that lists all tips of the tree
func (t *Tree) tipsRecur(tips *[]*Node, cur *Node, prev *Node) {
	if cur == nil {
		cur = t.Root()
	}
	if cur.Tip() {
		*tips = append((*tips), cur)
	}
	for _, n := range cur.neigh {
		if n != prev {
			t.tipsRecur(tips, n, cur)
		}
	}
}

// Returns a newick string representation of this tree.
// Satisfies fmt.Stringer so trees drop straight into logrus fields and
// debug records without an explicit Newick() call.
func (t *Tree) String() string {
	return t.Newick()
}

// Returns a newick string representation of this tree
func (t *Tree) Newick() string {
	var buffer bytes.Buffer
	t.root.Newick(nil, &buffer)
	if len(t.root.comment) != 0 {
		for _, c := range t.root.comment {
			buffer.WriteString("[")
			buffer.WriteString(c)
			buffer.WriteString("]")
		}
	}
	buffer.WriteString(";")
	return buffer.String()
}

// Updates the tipindex which maps tip names to
// their index in the bitsets.
//
// Bitset indexes correspond to the position
// of the tip in the alphabetically ordered tip
// name list
func (t *Tree) UpdateTipIndex() {
	names := t.SortedTips()
	for k := range t.tipIndex {
		delete(t.tipIndex, k)
	}
	for i, n := range names {
		t.tipIndex[n] = uint(i)
	}
}

/* Tips, sorted by their order in the bitsets*/
func (t *Tree) SortedTips() []string {
	names := t.AllTipNames()
	sort.Strings(names)
	return names
}

// Returns the bitset index of the tree in the Tree
// Returns an error if the node is not a tip
func (t *Tree) tipIndexNode(n *Node) (uint, error) {
	if len(n.neigh) != 1 {
		return 0, errors.New("Cannot get bitset index of a non tip node")
	}
	return t.TipIndex(n.name)
}

// Return the tip index if the tip with given name exists in the tree
// May return an error if tip index has not been initialized
// With UpdateTipIndex or if the tip does not exist
func (t *Tree) TipIndex(name string) (uint, error) {
	if len(t.tipIndex) == 0 {
		return 0, errors.New("No tips in the index, tip name index is not initialized")
	}
	v, ok := t.tipIndex[name]
	if !ok {
		return 0, errors.New("No tip named " + name + " in the index")
	}
	return v, nil
}

// Returns all the tip name in the tree
// Starts with n==nil (root)
func (t *Tree) AllTipNames() []string {
	names := make([]string, 0, 1000)
	t.allTipNamesRecur(&names, nil, nil)
	return names
}

// Returns all the tip name in the tree
// Starts with n==nil (root)
// It is an internal recursive function
func (t *Tree) allTipNamesRecur(names *[]string, n *Node, parent *Node) {
	if n == nil {
		n = t.Root()
	}
	// is a tip
	if len(n.neigh) == 1 {
		*names = append(*names, n.name)
	} else {
		for _, child := range n.neigh {
			if child != parent {
				t.allTipNamesRecur(names, child, n)
			}
		}
	}
}

// Connects the two nodes in argument by an edge that is returned.
func (t *Tree) ConnectNodes(parent *Node, child *Node) *Edge {
	newedge := t.NewEdge()
	newedge.setLeft(parent)
	newedge.setRight(child)
	parent.addChild(child, newedge)
	child.addChild(parent, newedge)
	return newedge
}

// Clears all bitsets associated to all edges
func (t *Tree) ClearBitSets() error {
	length := uint(len(t.tipIndex))
	if length == 0 {
		return errors.New("No tips in the index, tip name index is not initialized")
	}
	t.clearBitSetsRecur(nil, nil, length)
	return nil
}

// Recursively update bitsets of edges from the Node n
// If node == nil then it starts from the root
func (t *Tree) clearBitSetsRecur(n *Node, parent *Node, ntip uint) {
	if n == nil {
		n = t.Root()
	}

	for i, child := range n.neigh {
		if child != parent {
			e := n.br[i]
			e.bitset = nil
			e.bitset = bitset.New(ntip)
			t.clearBitSetsRecur(child, n, ntip)
		}
	}
}

// Updates bitsets of all edges in the tree
// Assumes that the hashmap tip name : index is
// initialized with UpdateTipIndex function
func (t *Tree) UpdateBitSet() error {
	rightedges := make([]*Edge, 0, 2000)
	for _, e := range t.Root().br {
		rightedges = rightedges[:0]
		rightedges = append(rightedges, e)
		err := t.fillRightBitSet(e, &rightedges)
		if err != nil {
			return err
		}
	}
	return nil
}

// Recursively clears and sets the bitsets of the descending edges
func (t *Tree) fillRightBitSet(currentEdge *Edge, rightEdges *[]*Edge) error {
	if currentEdge.bitset == nil {
		return errors.New("BitSets has not been initialized with tree.clearBitSetsRecur(nil, nil, uint(len(tree.tipIndex)))")
	}
	currentEdge.bitset.ClearAll()
	// If we are at a tip edge
	// We set at 1 the bits of the tip in
	// the bitsets of all rightEdges
	if len(currentEdge.right.neigh) == 1 {
		i, err := t.tipIndexNode(currentEdge.right)
		if err != nil {
			return err
		}
		for _, e := range *rightEdges {
			e.bitset.Set(i)
		}
	} else {
		// Else
		for _, e2 := range currentEdge.right.br {
			if e2.left == currentEdge.right {
				*rightEdges = append(*rightEdges, e2)
				err := t.fillRightBitSet(e2, rightEdges)
				if err != nil {
					return err
				}
				*rightEdges = (*rightEdges)[:len(*rightEdges)-1]
			}
		}
	}
	return nil
}

// This function compares the tip name indexes of 2 trees
//
// If the tipindexes have the same size (!=0) and have the
// same set of tip names, then returns nil, otherwise returns an error
func (t *Tree) CompareTipIndexes(t2 *Tree) error {
	if len(t.tipIndex) == 0 ||
		len(t2.tipIndex) == 0 ||
		len(t.tipIndex) != len(t2.tipIndex) {
		return errors.New("Tip name index is not initialized or trees do not have the same number of tips")
	}

	for k := range t.tipIndex {
		_, ok := t2.tipIndex[k]
		if !ok {
			return errors.New("Trees do not have the same tip names")
		}
	}

	for k := range t2.tipIndex {
		_, ok := t.tipIndex[k]
		if !ok {
			return errors.New("Trees do not have the same tip names")
		}
	}
	return nil
}

// This function takes a node and reroots the tree on that node.
//
// It reorients edges left-edge-right : see ReorderEdges()
//
// The node must be part of the tree, otherwise it returns an error
func (t *Tree) Reroot(n *Node) error {
	intree := false
	for _, n2 := range t.Nodes() {
		if n2 == n {
			intree = true
		}
	}
	if !intree {
		return errors.New("The node is not part of the tree")
	}
	t.root = n
	err := t.ReorderEdges(n, nil, nil)
	return err
}

// This function reorders the edges of a tree in order to always have
// left-edge-right with left node being parent of right node with respect
// to the given root node.
//
// Important even for unrooted trees. Useful mainly after a reroot.
//
// It updates "reversed" edge slice, edges that have been reversed
func (t *Tree) ReorderEdges(n *Node, prev *Node, reversed *[]*Edge) error {
	for _, next := range n.br {
		if next.right != prev && next.left != prev {
			if next.right == n {
				next.right, next.left = next.left, next.right
				if reversed != nil {
					(*reversed) = append((*reversed), next)
				}
			}
			t.ReorderEdges(next.right, n, reversed)
		}
	}
	return nil
}

// SubdivideEdge splits e into two half-length edges joined by a new degree-2
// node, without grafting any extra tip. Used by rerooting strategies that
// need to place a root in the middle of an existing branch.
func (t *Tree) SubdivideEdge(e *Edge) (*Node, error) {
	newnode := t.NewNode()

	lnode := e.left
	rnode := e.right

	lIdx, err := lnode.EdgeIndex(e)
	if err != nil {
		return nil, err
	}
	rIdx, err := rnode.EdgeIndex(e)
	if err != nil {
		return nil, err
	}

	length := e.length
	if length != NIL_LENGTH {
		length /= 2
	}

	newedge := t.NewEdge()
	newedge.SetLength(length)
	newedge.setLeft(newnode)
	newedge.setRight(rnode)
	newnode.addChild(rnode, newedge)
	rnode.neigh[rIdx] = newnode
	rnode.br[rIdx] = newedge

	e.setRight(newnode)
	e.SetLength(length)
	newnode.addChild(lnode, e)
	lnode.neigh[lIdx] = newnode
	lnode.br[lIdx] = e

	return newnode, nil
}

// This function renames nodes of the tree based on the map in argument
// If a name in the map does not exist in the tree, then returns an error
// If a node/tip in the tree does not have a name in the map: OK
// After rename, tip index is updated, as well as bitsets of the edges
func (t *Tree) Rename(namemap map[string]string) error {
	nodeindex := NewNodeIndex(t)
	for name, newname := range namemap {
		node, ok := nodeindex.GetNode(name)
		if ok {
			node.SetName(newname)
		}
	}
	// After we update bitsets if any, and node indexes
	t.UpdateTipIndex()
	err := t.ClearBitSets()
	if err != nil {
		return err
	}
	t.UpdateBitSet()
	return nil
}

// copyNode copies attributes of the given node into a new node.
// Unexported: only Clone's traversal constructs copies, nothing outside
// the package should build a bare detached copy of a single node.
func (t *Tree) copyNode(n *Node) *Node {
	out := t.NewNode()
	out.name = n.name
	out.depth = n.depth
	out.id = n.id
	out.comment = make([]string, len(n.comment))
	for i, c := range n.comment {
		out.comment[i] = c
	}
	if n.Info != nil {
		info := *n.Info
		// Reconciliation is relative to a specific species tree
		// traversal and must be recomputed on the clone; carrying a
		// stale pointer across a clone would violate the "every
		// live gene tree node has a reconciliation to a live
		// species node" invariant.
		info.Recon = nil
		out.Info = &info
	}
	return out
}

// copyEdge copies length/support/pvalue/id/bitset from e into dst.
// Unexported alongside copyNode for the same reason.
func (t *Tree) copyEdge(e *Edge, dst *Edge) {
	dst.length = e.length
	dst.support = e.support
	dst.pvalue = e.pvalue
	dst.id = e.id
	if e.bitset != nil {
		dst.bitset = e.bitset.Clone()
	}
}

// Clone the input tree
func (t *Tree) Clone() *Tree {
	out := NewTree()
	root := t.copyNode(t.Root())
	out.SetRoot(root)
	for _, e := range t.Root().br {
		t.copyTreeRecur(out, root, t.Root(), e)
	}
	if t.tipIndex != nil {
		out.UpdateTipIndex()
	}
	return out
}

// Recursive function to clone the tree
func (t *Tree) copyTreeRecur(copytree *Tree, copynode, node *Node, edge *Edge) {
	child := edge.Right()
	copychild := t.copyNode(child)
	copyedge := copytree.ConnectNodes(copynode, copychild)
	t.copyEdge(edge, copyedge)
	for _, e := range child.br {
		if e != edge {
			t.copyTreeRecur(copytree, copychild, child, e)
		}
	}
}
