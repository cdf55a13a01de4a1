// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package phylogeny implements phylogenetic information
// attached to the nodes of a tree:
// an index over an external numbering of the leaves,
// used for fast leaf and ancestor queries,
// bootstrap support,
// and the reconciliation of gene trees.
//
// The information is stored as a side table
// keyed by the nodes of the tree,
// so the tree itself is a plain etree.Tree.
package phylogeny

import (
	"errors"

	"github.com/bits-and-blooms/bitset"
	"github.com/js-arias/phylo/etree"
)

var (
	// ErrNotIndexed is returned when a node
	// does not have an index.
	ErrNotIndexed = errors.New("node without index")

	// ErrBadLabel is returned when the leaves of a tree
	// are not labeled with dense indices.
	ErrBadLabel = errors.New("invalid leaf label")

	// ErrOutOfRange is returned when a leaf index
	// is outside the valid range.
	ErrOutOfRange = errors.New("leaf index out of range")

	// ErrNotFound is returned when a leaf or node
	// is not in the queried tree.
	ErrNotFound = errors.New("not found")

	// ErrMismatch is returned when two trees
	// are not indexed over the same leaves.
	ErrMismatch = errors.New("trees with different leaf sets")

	// ErrNoLength is returned when a distance
	// requires a branch without length.
	ErrNoLength = errors.New("branch without length")
)

// An Event is the evolutionary event
// that produced a node of a reconciled gene tree.
type Event int

// Valid events.
const (
	Duplication Event = iota
	Speciation
	Leaf
)

func (e Event) String() string {
	switch e {
	case Duplication:
		return "duplication"
	case Speciation:
		return "speciation"
	case Leaf:
		return "leaf"
	}
	return "unknown"
}

// Reconciliation is the reconciliation of a gene tree node.
type Reconciliation struct {
	// Species is the node of the species tree
	// the gene node maps to.
	Species *etree.Tree

	Event Event
}

// Indexed is the index information of a node.
type Indexed struct {
	// MatrixIndex is the index of a leaf
	// in an external distance matrix.
	// It is -1 for internal nodes.
	MatrixIndex int

	// LeavesBelow has a bit set
	// for each leaf that is a descendant of the node.
	LeavesBelow *bitset.BitSet

	// TotalNumLeaves is the number of leaves
	// in the whole tree
	// (the size of LeavesBelow).
	TotalNumLeaves int

	// NumBootstraps is the number of bootstrap trees
	// that support the split of the node.
	NumBootstraps int

	// BootstrapSupport is the fraction of bootstrap trees
	// that support the split of the node.
	BootstrapSupport float64

	// numTrees is the number of bootstrap trees
	// compared with the node.
	numTrees int
}

func (ix *Indexed) clone() *Indexed {
	n := *ix
	if ix.LeavesBelow != nil {
		n.LeavesBelow = ix.LeavesBelow.Clone()
	}
	return &n
}

// Info is the phylogenetic information of a node.
// Any of its fields can be nil.
type Info struct {
	Recon *Reconciliation
	Index *Indexed
}

func (in *Info) clone() *Info {
	n := &Info{}
	if in.Recon != nil {
		r := *in.Recon
		n.Recon = &r
	}
	if in.Index != nil {
		n.Index = in.Index.clone()
	}
	return n
}

// A Tree is a tree
// with phylogenetic information attached to its nodes.
type Tree struct {
	root *etree.Tree
	info map[*etree.Tree]*Info
}

// New returns a tree without phylogenetic information.
func New(root *etree.Tree) *Tree {
	return &Tree{
		root: root,
		info: make(map[*etree.Tree]*Info),
	}
}

// Root returns the root node of the tree.
func (t *Tree) Root() *etree.Tree {
	return t.root
}

// Info returns the information of a node.
// It returns nil if the node has no information.
func (t *Tree) Info(n *etree.Tree) *Info {
	return t.info[n]
}

func (t *Tree) getInfo(n *etree.Tree) *Info {
	in, ok := t.info[n]
	if !ok {
		in = &Info{}
		t.info[n] = in
	}
	return in
}

// Index returns the index information of a node.
func (t *Tree) Index(n *etree.Tree) (*Indexed, error) {
	in := t.info[n]
	if in == nil || in.Index == nil {
		return nil, ErrNotIndexed
	}
	return in.Index, nil
}

// Recon returns the reconciliation of a node.
// It returns nil if the node is not reconciled.
func (t *Tree) Recon(n *etree.Tree) *Reconciliation {
	in := t.info[n]
	if in == nil {
		return nil
	}
	return in.Recon
}

// SetRecon sets the reconciliation of a node.
func (t *Tree) SetRecon(n *etree.Tree, r *Reconciliation) {
	t.getInfo(n).Recon = r
}

// ClearRecon removes the reconciliation information
// of all nodes.
func (t *Tree) ClearRecon() {
	for _, in := range t.info {
		in.Recon = nil
	}
}

// DestroyInfo removes all the phylogenetic information
// of the tree.
func (t *Tree) DestroyInfo() {
	clear(t.info)
}

// Clone returns a deep copy of the tree
// and its information.
// Species nodes of reconciliations are shared
// with the source tree.
func (t *Tree) Clone() *Tree {
	root := t.root.Clone()
	nt := New(root)

	// both trees have the same pre-order
	src := t.root.Nodes()
	dst := root.Nodes()
	for i, n := range src {
		if in := t.info[n]; in != nil {
			nt.info[dst[i]] = in.clone()
		}
	}
	return nt
}
