// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package etree implements a generic rooted tree
// with labeled nodes
// and branch lengths.
//
// A tree is identified with its root node,
// so any node can be used as a tree
// (the subtree rooted at that node).
// A parent owns its children,
// and a node can only be the child of a single parent.
package etree

import (
	"errors"
	"fmt"
	"math"
)

// NoLength is the value of a branch
// without length information.
// It is different from a branch of length 0.
var NoLength = math.Inf(1)

var (
	// ErrIndex is returned when a child index
	// is outside the valid range.
	ErrIndex = errors.New("index out of range")

	// ErrCycle is returned when a node
	// is attached to one of its own descendants.
	ErrCycle = errors.New("node is an ancestor of the new parent")
)

// A Tree is a node of a rooted tree.
type Tree struct {
	parent   *Tree
	children []*Tree
	label    string
	length   float64
}

// New creates a new node
// without parent, children, label,
// or branch length.
func New() *Tree {
	return &Tree{length: NoLength}
}

// Parent returns the parent of the node.
// It returns nil if the node is a root.
func (t *Tree) Parent() *Tree {
	return t.parent
}

// SetParent sets the parent of the node.
// The node is removed from the children of its current parent
// and appended to the end of the children of the new parent.
// If parent is nil,
// then the node is detached
// and becomes a root.
func (t *Tree) SetParent(parent *Tree) error {
	for p := parent; p != nil; p = p.parent {
		if p == t {
			return ErrCycle
		}
	}

	if t.parent != nil {
		t.parent.remove(t)
	}
	t.parent = parent
	if parent != nil {
		parent.children = append(parent.children, t)
	}
	return nil
}

func (t *Tree) remove(child *Tree) {
	for i, c := range t.children {
		if c != child {
			continue
		}
		copy(t.children[i:], t.children[i+1:])
		t.children[len(t.children)-1] = nil
		t.children = t.children[:len(t.children)-1]
		return
	}
}

// NumChildren returns the number of children of the node.
func (t *Tree) NumChildren() int {
	return len(t.children)
}

// Child returns the i-th child of the node.
func (t *Tree) Child(i int) (*Tree, error) {
	if i < 0 || i >= len(t.children) {
		return nil, fmt.Errorf("child %d of %d: %w", i, len(t.children), ErrIndex)
	}
	return t.children[i], nil
}

// Children returns the children of the node,
// from left to right.
// The returned slice must not be modified.
func (t *Tree) Children() []*Tree {
	return t.children
}

// BranchLength returns the length of the branch
// that connects the node with its parent.
// If no length is defined,
// it returns NoLength.
func (t *Tree) BranchLength() float64 {
	return t.length
}

// SetBranchLength sets the length of the branch
// that connects the node with its parent.
// Use NoLength to remove the length information.
func (t *Tree) SetBranchLength(length float64) {
	t.length = length
}

// HasLength returns true if the branch of the node
// has a length.
func (t *Tree) HasLength() bool {
	return !math.IsInf(t.length, 1)
}

// Label returns the label of the node.
// An empty string means that the node is unlabeled.
func (t *Tree) Label() string {
	return t.label
}

// SetLabel sets the label of the node.
// Use an empty string to remove the label.
func (t *Tree) SetLabel(label string) {
	t.label = label
}

// Destroy detaches the node from its parent
// and clears the whole subtree.
// The nodes of the subtree must not be used after destruction.
func (t *Tree) Destroy() {
	if t.parent != nil {
		t.parent.remove(t)
		t.parent = nil
	}
	t.destroy()
}

func (t *Tree) destroy() {
	for _, c := range t.children {
		c.parent = nil
		c.destroy()
	}
	t.children = nil
	t.label = ""
	t.length = NoLength
}
