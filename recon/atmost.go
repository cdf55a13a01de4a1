// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package recon

import (
	"fmt"

	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/phylogeny"
)

// ReconcileAtMostBinary reconciles a gene tree
// that might have multifurcations
// with the species tree of the leaf map.
//
// A multifurcation is taken as an unresolved set of children,
// and it is a duplication
// if the species of any pair of its children overlap.
func ReconcileAtMostBinary(gene *phylogeny.Tree, lm LeafMap, relabel bool) error {
	m, err := lcaMap(gene.Root(), nil, lm)
	if err != nil {
		return err
	}
	gene.ClearRecon()
	for _, n := range gene.Root().Nodes() {
		r := &phylogeny.Reconciliation{
			Species: m[n],
			Event:   atMostEvent(n, m),
		}
		gene.SetRecon(n, r)
		if relabel && !n.IsLeaf() {
			n.SetLabel(m[n].Label())
		}
	}
	return nil
}

func atMostEvent(n *etree.Tree, m mapping) phylogeny.Event {
	if n.IsLeaf() {
		return phylogeny.Leaf
	}
	children := n.Children()
	for i, c := range children {
		for _, o := range children[i+1:] {
			lca := etree.MRCA(m[c], m[o])
			if lca == m[c] || lca == m[o] {
				return phylogeny.Duplication
			}
		}
	}
	return phylogeny.Speciation
}

// CostAtMostBinary returns the number of duplications and losses
// of a gene tree
// reconciled with ReconcileAtMostBinary.
//
// In a speciation,
// losses are the species lineages not reached by any child:
// the children of the species nodes
// in the paths between the node species
// and the species of each child,
// that are not in any of those paths.
// In a duplication,
// losses are the species nodes skipped
// between the node species and the species of each child.
// Unary nodes are speciations without losses.
func CostAtMostBinary(reconciled *phylogeny.Tree) (dups, losses int, err error) {
	for _, n := range reconciled.Root().Nodes() {
		r := reconciled.Recon(n)
		if r == nil || r.Species == nil {
			return 0, 0, fmt.Errorf("node %q: %w", n.Label(), ErrNotReconciled)
		}
		if n.IsLeaf() {
			continue
		}
		for _, c := range n.Children() {
			if cr := reconciled.Recon(c); cr == nil || cr.Species == nil {
				return 0, 0, fmt.Errorf("node %q: %w", c.Label(), ErrNotReconciled)
			}
		}
		if r.Event == phylogeny.Speciation {
			var cs []*etree.Tree
			for _, c := range n.Children() {
				cs = append(cs, reconciled.Recon(c).Species)
			}
			losses += speciationLosses(r.Species, cs)
			continue
		}
		d, l := nodeCost(n, r.Species, r.Event, func(c *etree.Tree) *etree.Tree {
			return reconciled.Recon(c).Species
		})
		dups += d
		losses += l
	}
	return dups, losses, nil
}

// speciationLosses returns the species lineages
// below sp that do not lead to any of the children species.
func speciationLosses(sp *etree.Tree, children []*etree.Tree) int {
	if len(children) < 2 {
		return 0
	}
	tips := make(map[*etree.Tree]bool, len(children))
	span := make(map[*etree.Tree]bool)
	for _, c := range children {
		tips[c] = true
		for p := c; p != nil && p != sp; p = p.Parent() {
			span[p] = true
		}
	}

	var losses int
	for v := range span {
		if tips[v] {
			continue
		}
		for _, w := range v.Children() {
			if !span[w] {
				losses++
			}
		}
	}
	return losses
}

// RootAndReconcileAtMostBinary reroots a gene tree
// that might have multifurcations
// at the edge that minimizes duplications
// then the sum of duplications and losses,
// and returns the reconciled rerooted tree.
// The source tree is not modified.
func RootAndReconcileAtMostBinary(gene *etree.Tree, lm LeafMap) (*phylogeny.Tree, error) {
	return reroot(gene, func(t *etree.Tree) (*phylogeny.Tree, int, int, error) {
		pt := phylogeny.New(t)
		if err := ReconcileAtMostBinary(pt, lm, false); err != nil {
			return nil, 0, 0, err
		}
		dups, losses, err := CostAtMostBinary(pt)
		return pt, dups, losses, err
	})
}
