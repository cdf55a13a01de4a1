// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package etree

import (
	"fmt"
	"math"
)

// An Unrooted is an unrooted tree
// stored as an undirected graph.
// Nodes and edges are identified by its index,
// in the order in which they were added.
type Unrooted struct {
	nodes []unode
	edges []Edge
}

type unode struct {
	label string
	adj   []int
}

// An Edge is an edge of an unrooted tree.
type Edge struct {
	A, B   int
	Length float64
}

// NewUnrooted creates a new empty unrooted tree.
func NewUnrooted() *Unrooted {
	return &Unrooted{}
}

// Add adds a new node
// and returns its ID.
func (u *Unrooted) Add(label string) int {
	u.nodes = append(u.nodes, unode{label: label})
	return len(u.nodes) - 1
}

// Connect adds an edge between two nodes
// and returns the ID of the edge.
func (u *Unrooted) Connect(a, b int, length float64) int {
	id := len(u.edges)
	u.edges = append(u.edges, Edge{A: a, B: b, Length: length})
	u.nodes[a].adj = append(u.nodes[a].adj, id)
	u.nodes[b].adj = append(u.nodes[b].adj, id)
	return id
}

// Len returns the number of nodes.
func (u *Unrooted) Len() int {
	return len(u.nodes)
}

// Label returns the label of a node.
func (u *Unrooted) Label(n int) string {
	return u.nodes[n].label
}

// Degree returns the number of edges of a node.
func (u *Unrooted) Degree(n int) int {
	return len(u.nodes[n].adj)
}

// Edges returns the edges of the tree.
// The returned slice must not be modified.
func (u *Unrooted) Edges() []Edge {
	return u.edges
}

// Unroot returns an unrooted view of a tree.
// If the root has exactly two children,
// the root is removed
// and its two branches are merged into a single edge.
//
// Nodes are added in pre-order,
// so edges are in pre-order too,
// with the exception of the merged root edge
// which is added after the edges of the first child.
func Unroot(t *Tree) *Unrooted {
	u := NewUnrooted()
	if len(t.children) != 2 {
		u.add(t, -1, NoLength)
		return u
	}

	left, right := t.children[0], t.children[1]
	id := u.add(left, -1, NoLength)
	u.add(right, id, sumLength(left.length, right.length))
	return u
}

func (u *Unrooted) add(t *Tree, parent int, length float64) int {
	id := u.Add(t.label)
	if parent >= 0 {
		u.Connect(parent, id, length)
	}
	for _, c := range t.children {
		u.add(c, id, c.length)
	}
	return id
}

func sumLength(a, b float64) float64 {
	switch {
	case math.IsInf(a, 1):
		return b
	case math.IsInf(b, 1):
		return a
	}
	return a + b
}

// RootAt returns a new rooted tree,
// with the root placed at the midpoint
// of the indicated edge.
func (u *Unrooted) RootAt(e int) (*Tree, error) {
	if e < 0 || e >= len(u.edges) {
		return nil, fmt.Errorf("edge %d of %d: %w", e, len(u.edges), ErrIndex)
	}
	edge := u.edges[e]
	half := NoLength
	if !math.IsInf(edge.Length, 1) {
		half = edge.Length / 2
	}

	root := New()
	a := u.build(edge.A, e, half)
	b := u.build(edge.B, e, half)
	a.parent = root
	b.parent = root
	root.children = []*Tree{a, b}
	return root, nil
}

func (u *Unrooted) build(n, from int, length float64) *Tree {
	t := &Tree{
		label:  u.nodes[n].label,
		length: length,
	}
	for _, e := range u.nodes[n].adj {
		if e == from {
			continue
		}
		edge := u.edges[e]
		o := edge.A
		if o == n {
			o = edge.B
		}
		c := u.build(o, e, edge.Length)
		c.parent = t
		t.children = append(t.children, c)
	}
	return t
}
