// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package etree

// IsLeaf returns true if the node has no children.
func (t *Tree) IsLeaf() bool {
	return len(t.children) == 0
}

// Root returns the root of the tree
// that contains the node.
func (t *Tree) Root() *Tree {
	r := t
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Depth returns the number of edges
// between the node and the root of its tree.
func (t *Tree) Depth() int {
	d := 0
	for p := t.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Clone returns a deep copy of the subtree rooted at the node.
// The copy is detached
// (i.e., it is a root).
func (t *Tree) Clone() *Tree {
	n := &Tree{
		label:  t.label,
		length: t.length,
	}
	if len(t.children) > 0 {
		n.children = make([]*Tree, 0, len(t.children))
	}
	for _, c := range t.children {
		nc := c.Clone()
		nc.parent = n
		n.children = append(n.children, nc)
	}
	return n
}

// PostOrder visits the nodes of the subtree
// so that any node is visited after all of its descendants.
func (t *Tree) PostOrder(fn func(n *Tree)) {
	for _, c := range t.children {
		c.PostOrder(fn)
	}
	fn(t)
}

// PreOrder visits the nodes of the subtree
// so that any node is visited before its descendants.
func (t *Tree) PreOrder(fn func(n *Tree)) {
	fn(t)
	for _, c := range t.children {
		c.PreOrder(fn)
	}
}

// Nodes returns all the nodes of the subtree
// in pre-order.
func (t *Tree) Nodes() []*Tree {
	var nodes []*Tree
	t.PreOrder(func(n *Tree) {
		nodes = append(nodes, n)
	})
	return nodes
}

// Leaves returns the leaves of the subtree,
// from left to right.
func (t *Tree) Leaves() []*Tree {
	var leaves []*Tree
	t.PreOrder(func(n *Tree) {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	})
	return leaves
}

// IsBinary returns true if every internal node of the subtree
// has exactly two children.
func (t *Tree) IsBinary() bool {
	if t.IsLeaf() {
		return true
	}
	if len(t.children) != 2 {
		return false
	}
	return t.children[0].IsBinary() && t.children[1].IsBinary()
}

// IsAncestor returns true if the node is an ancestor of n,
// or n itself.
func (t *Tree) IsAncestor(n *Tree) bool {
	for p := n; p != nil; p = p.parent {
		if p == t {
			return true
		}
	}
	return false
}

// MRCA returns the most recent common ancestor
// of two nodes.
// It returns nil if the nodes are not in the same tree.
func MRCA(a, b *Tree) *Tree {
	da, db := a.Depth(), b.Depth()
	for da > db {
		a = a.parent
		da--
	}
	for db > da {
		b = b.parent
		db--
	}
	for a != b {
		if a == nil || b == nil {
			return nil
		}
		a = a.parent
		b = b.parent
	}
	return a
}
