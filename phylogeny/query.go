// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phylogeny

import (
	"fmt"

	"github.com/js-arias/phylo/etree"
)

func (t *Tree) hasLeaf(n *etree.Tree, leaf int) (*Indexed, error) {
	ix, err := t.Index(n)
	if err != nil {
		return nil, err
	}
	if ix.LeavesBelow == nil {
		return nil, fmt.Errorf("leaves below undefined: %w", ErrNotIndexed)
	}
	if leaf < 0 || leaf >= ix.TotalNumLeaves {
		return nil, fmt.Errorf("leaf %d of %d: %w", leaf, ix.TotalNumLeaves, ErrOutOfRange)
	}
	if !ix.LeavesBelow.Test(uint(leaf)) {
		return nil, fmt.Errorf("leaf %d: %w", leaf, ErrNotFound)
	}
	return ix, nil
}

// LeafByIndex returns the leaf with the given matrix index
// that is a descendant of n.
func (t *Tree) LeafByIndex(n *etree.Tree, leaf int) (*etree.Tree, error) {
	ix, err := t.hasLeaf(n, leaf)
	if err != nil {
		return nil, err
	}

	for !n.IsLeaf() {
		var next *etree.Tree
		for _, c := range n.Children() {
			ci, err := t.Index(c)
			if err != nil {
				return nil, err
			}
			if ci.LeavesBelow != nil && ci.LeavesBelow.Test(uint(leaf)) {
				next, ix = c, ci
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("leaf %d: inconsistent index: %w", leaf, ErrNotFound)
		}
		n = next
	}

	if ix.MatrixIndex != leaf {
		return nil, fmt.Errorf("leaf %d: found leaf %d: %w", leaf, ix.MatrixIndex, ErrNotFound)
	}
	return n, nil
}

// MRCA returns the most recent common ancestor
// of two leaves,
// identified by their matrix index,
// that are descendants of n.
func (t *Tree) MRCA(n *etree.Tree, leaf1, leaf2 int) (*etree.Tree, error) {
	if _, err := t.hasLeaf(n, leaf1); err != nil {
		return nil, err
	}
	if _, err := t.hasLeaf(n, leaf2); err != nil {
		return nil, err
	}

	for !n.IsLeaf() {
		var next *etree.Tree
		for _, c := range n.Children() {
			ci, err := t.Index(c)
			if err != nil {
				return nil, err
			}
			if ci.LeavesBelow.Test(uint(leaf1)) && ci.LeavesBelow.Test(uint(leaf2)) {
				next = c
				break
			}
		}
		if next == nil {
			break
		}
		n = next
	}
	return n, nil
}

// DistanceBetweenNodes returns the sum of the branch lengths
// in the path between two nodes of the tree.
func (t *Tree) DistanceBetweenNodes(n1, n2 *etree.Tree) (float64, error) {
	if n1.Root() != n2.Root() {
		return 0, fmt.Errorf("nodes in different trees: %w", ErrNotFound)
	}
	ix2, err := t.Index(n2)
	if err != nil {
		return 0, err
	}

	// the MRCA is the first ancestor of n1
	// that includes all the leaves of n2
	mrca := n1
	for {
		ix, err := t.Index(mrca)
		if err != nil {
			return 0, err
		}
		if ix.LeavesBelow == nil || ix2.LeavesBelow == nil {
			return 0, fmt.Errorf("leaves below undefined: %w", ErrNotIndexed)
		}
		if ix.LeavesBelow.IsSuperSet(ix2.LeavesBelow) {
			break
		}
		mrca = mrca.Parent()
	}

	d1, err := distanceToAncestor(n1, mrca)
	if err != nil {
		return 0, err
	}
	d2, err := distanceToAncestor(n2, mrca)
	if err != nil {
		return 0, err
	}
	return d1 + d2, nil
}

func distanceToAncestor(n, anc *etree.Tree) (float64, error) {
	var d float64
	for ; n != anc; n = n.Parent() {
		if !n.HasLength() {
			return 0, fmt.Errorf("node %q: %w", n.Label(), ErrNoLength)
		}
		d += n.BranchLength()
	}
	return d, nil
}

// DistanceBetweenLeaves returns the sum of the branch lengths
// in the path between two leaves,
// identified by their matrix index.
func (t *Tree) DistanceBetweenLeaves(leaf1, leaf2 int) (float64, error) {
	n1, err := t.LeafByIndex(t.root, leaf1)
	if err != nil {
		return 0, err
	}
	n2, err := t.LeafByIndex(t.root, leaf2)
	if err != nil {
		return 0, err
	}
	return t.DistanceBetweenNodes(n1, n2)
}
