// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package recon implements the reconciliation
// of gene trees with a species tree.
//
// A gene tree is reconciled by mapping each gene node
// to the species node that is the lowest common ancestor
// of the species of its leaves,
// and each internal gene node is tagged as a duplication
// (if its mapping is also the mapping of one of its children)
// or a speciation.
package recon

import (
	"errors"
	"fmt"

	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/phylogeny"
)

var (
	// ErrNonBinary is returned when a binary tree is required.
	ErrNonBinary = errors.New("tree is not binary")

	// ErrUnmapped is returned when a gene leaf
	// does not have a species.
	ErrUnmapped = errors.New("gene leaf without species")

	// ErrNotSpecies is returned when a species
	// is not part of the species tree.
	ErrNotSpecies = errors.New("not in species tree")

	// ErrNotReconciled is returned when a gene node
	// does not have reconciliation information.
	ErrNotReconciled = errors.New("node not reconciled")
)

// A LeafMap maps the label of a gene leaf
// to a node of the species tree.
type LeafMap map[string]*etree.Tree

func (lm LeafMap) species(leaf *etree.Tree, species *etree.Tree) (*etree.Tree, error) {
	sp, ok := lm[leaf.Label()]
	if !ok || sp == nil {
		return nil, fmt.Errorf("leaf %q: %w", leaf.Label(), ErrUnmapped)
	}
	if species != nil && sp.Root() != species.Root() {
		return nil, fmt.Errorf("leaf %q: species %q: %w", leaf.Label(), sp.Label(), ErrNotSpecies)
	}
	return sp, nil
}

// A mapping is the species node of each gene node.
type mapping map[*etree.Tree]*etree.Tree

// lcaMap maps each node of a gene tree
// to the lowest common ancestor of the species of its leaves.
func lcaMap(gene, species *etree.Tree, lm LeafMap) (mapping, error) {
	m := make(mapping)
	var err error
	gene.PostOrder(func(n *etree.Tree) {
		if err != nil {
			return
		}
		if n.IsLeaf() {
			m[n], err = lm.species(n, species)
			return
		}
		var sp *etree.Tree
		for _, c := range n.Children() {
			if sp == nil {
				sp = m[c]
				continue
			}
			sp = etree.MRCA(sp, m[c])
			if sp == nil {
				err = fmt.Errorf("node %q: species in different trees: %w", n.Label(), ErrNotSpecies)
				return
			}
		}
		m[n] = sp
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ReconcileBinary reconciles a binary gene tree
// with a binary species tree.
// Any previous reconciliation of the gene tree is replaced.
// If relabel is true,
// internal gene nodes are relabeled with the label
// of the species node they map to.
func ReconcileBinary(gene *phylogeny.Tree, species *etree.Tree, lm LeafMap, relabel bool) error {
	if !gene.Root().IsBinary() {
		return fmt.Errorf("gene tree: %w", ErrNonBinary)
	}
	if !species.IsBinary() {
		return fmt.Errorf("species tree: %w", ErrNonBinary)
	}

	m, err := lcaMap(gene.Root(), species, lm)
	if err != nil {
		return err
	}
	gene.ClearRecon()
	for _, n := range gene.Root().Nodes() {
		r := &phylogeny.Reconciliation{
			Species: m[n],
			Event:   event(n, m),
		}
		gene.SetRecon(n, r)
		if relabel && !n.IsLeaf() {
			n.SetLabel(m[n].Label())
		}
	}
	return nil
}

func event(n *etree.Tree, m mapping) phylogeny.Event {
	if n.IsLeaf() {
		return phylogeny.Leaf
	}
	for _, c := range n.Children() {
		if m[c] == m[n] {
			return phylogeny.Duplication
		}
	}
	return phylogeny.Speciation
}

// CostBinary returns the number of duplications and losses
// implied by the reconciliation of a binary gene tree
// with a binary species tree.
// The gene tree is not modified.
func CostBinary(gene, species *etree.Tree, lm LeafMap) (dups, losses int, err error) {
	if !gene.IsBinary() {
		return 0, 0, fmt.Errorf("gene tree: %w", ErrNonBinary)
	}
	if !species.IsBinary() {
		return 0, 0, fmt.Errorf("species tree: %w", ErrNonBinary)
	}

	m, err := lcaMap(gene, species, lm)
	if err != nil {
		return 0, 0, err
	}
	gene.PreOrder(func(n *etree.Tree) {
		if n.IsLeaf() {
			return
		}
		d, l := nodeCost(n, m[n], event(n, m), func(c *etree.Tree) *etree.Tree { return m[c] })
		dups += d
		losses += l
	})
	return dups, losses, nil
}

// nodeCost returns the duplications and losses of a gene node.
// Losses are the species nodes skipped
// between the mapping of the node
// and the mapping of each child;
// in a speciation the first species below the node
// is not a loss.
func nodeCost(n, sp *etree.Tree, ev phylogeny.Event, spOf func(*etree.Tree) *etree.Tree) (dups, losses int) {
	if ev == phylogeny.Duplication {
		dups = 1
	}
	if n.NumChildren() < 2 {
		return dups, 0
	}
	d := sp.Depth()
	for _, c := range n.Children() {
		l := spOf(c).Depth() - d
		if ev == phylogeny.Speciation {
			l--
		}
		losses += l
	}
	return dups, losses
}
