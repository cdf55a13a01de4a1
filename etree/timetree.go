// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package etree

import "github.com/js-arias/timetree"

// FromTimeTree builds a tree from a time calibrated tree.
// Branch lengths are the age differences
// between a node and its parent,
// divided by scale
// (for example, use 1_000_000 to get branch lengths
// in million years).
// Terminal names are used as labels.
func FromTimeTree(t *timetree.Tree, scale float64) *Tree {
	if scale <= 0 {
		scale = 1
	}
	return fromTimeNode(t, t.Root(), scale)
}

func fromTimeNode(t *timetree.Tree, id int, scale float64) *Tree {
	n := New()
	n.label = t.Taxon(id)
	if !t.IsRoot(id) {
		n.length = float64(t.Age(t.Parent(id))-t.Age(id)) / scale
	}
	for _, c := range t.Children(id) {
		nc := fromTimeNode(t, c, scale)
		nc.parent = n
		n.children = append(n.children, nc)
	}
	return n
}
