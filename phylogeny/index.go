// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phylogeny

import (
	"fmt"
	"strconv"

	"github.com/bits-and-blooms/bitset"
	"github.com/js-arias/phylo/etree"
)

// NewIndexed returns a fully indexed tree
// from a tree with leaves labeled 0, 1, 2, ...
func NewIndexed(root *etree.Tree) (*Tree, error) {
	t := New(root)
	if err := t.AddIndexedInfo(); err != nil {
		return nil, err
	}
	if err := t.SetLeavesBelow(len(root.Leaves())); err != nil {
		return nil, err
	}
	return t, nil
}

// AddIndexedInfo adds index information
// to all nodes of a tree
// with leaves labeled with dense integers
// (0, 1, 2, etc.).
// The labels of internal nodes are ignored.
//
// The leaves below of each node are not set,
// use SetLeavesBelow to set them.
func (t *Tree) AddIndexedInfo() error {
	leaves := t.root.Leaves()
	seen := make([]bool, len(leaves))
	for _, l := range leaves {
		i, err := strconv.Atoi(l.Label())
		if err != nil {
			return fmt.Errorf("leaf %q: %w", l.Label(), ErrBadLabel)
		}
		if i < 0 || i >= len(leaves) {
			return fmt.Errorf("leaf %q: expecting values between 0 and %d: %w", l.Label(), len(leaves)-1, ErrBadLabel)
		}
		if seen[i] {
			return fmt.Errorf("leaf %q: repeated label: %w", l.Label(), ErrBadLabel)
		}
		seen[i] = true
	}

	t.root.PreOrder(func(n *etree.Tree) {
		ix := &Indexed{MatrixIndex: -1}
		if n.IsLeaf() {
			ix.MatrixIndex, _ = strconv.Atoi(n.Label())
		}
		t.getInfo(n).Index = ix
	})
	return nil
}

// SetLeavesBelow sets the leaves below of each node
// of the tree.
// All nodes must have index information.
func (t *Tree) SetLeavesBelow(totalNumLeaves int) error {
	_, err := t.setLeavesBelow(t.root, totalNumLeaves)
	return err
}

func (t *Tree) setLeavesBelow(n *etree.Tree, total int) (*bitset.BitSet, error) {
	ix, err := t.Index(n)
	if err != nil {
		return nil, err
	}

	below := bitset.New(uint(total))
	if n.IsLeaf() {
		if ix.MatrixIndex < 0 || ix.MatrixIndex >= total {
			return nil, fmt.Errorf("leaf %d of %d: %w", ix.MatrixIndex, total, ErrOutOfRange)
		}
		below.Set(uint(ix.MatrixIndex))
	}
	for _, c := range n.Children() {
		cb, err := t.setLeavesBelow(c, total)
		if err != nil {
			return nil, err
		}
		below.InPlaceUnion(cb)
	}

	ix.LeavesBelow = below
	ix.TotalNumLeaves = total
	return below, nil
}
