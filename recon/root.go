// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package recon

import (
	"fmt"

	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/phylogeny"
)

// RootAndReconcileBinary reroots a binary gene tree
// at the edge that minimizes the number of duplications
// when reconciled with a binary species tree.
// Ties are broken by the sum of duplications and losses,
// and then by the first edge.
// It returns the reconciled rerooted tree.
// The source tree is not modified.
func RootAndReconcileBinary(gene, species *etree.Tree, lm LeafMap) (*phylogeny.Tree, error) {
	if !species.IsBinary() {
		return nil, fmt.Errorf("species tree: %w", ErrNonBinary)
	}
	return reroot(gene, func(t *etree.Tree) (*phylogeny.Tree, int, int, error) {
		dups, losses, err := CostBinary(t, species, lm)
		if err != nil {
			return nil, 0, 0, err
		}
		pt := phylogeny.New(t)
		if err := ReconcileBinary(pt, species, lm, false); err != nil {
			return nil, 0, 0, err
		}
		return pt, dups, losses, nil
	})
}

// A costFunc reconciles a rooted gene tree
// and returns its cost.
type costFunc func(t *etree.Tree) (pt *phylogeny.Tree, dups, losses int, err error)

// reroot evaluates the gene tree rooted at each edge
// and keeps the one with the lowest cost.
func reroot(gene *etree.Tree, cost costFunc) (*phylogeny.Tree, error) {
	u := etree.Unroot(gene)
	if len(u.Edges()) == 0 {
		pt, _, _, err := cost(gene.Clone())
		return pt, err
	}

	var best *phylogeny.Tree
	bestDups, bestTotal := 0, 0
	for e := range u.Edges() {
		t, err := u.RootAt(e)
		if err != nil {
			return nil, err
		}
		pt, dups, losses, err := cost(t)
		if err != nil {
			return nil, fmt.Errorf("rooted at edge %d: %w", e, err)
		}
		if best != nil {
			if dups > bestDups {
				continue
			}
			if dups == bestDups && dups+losses >= bestTotal {
				continue
			}
		}
		best, bestDups, bestTotal = pt, dups, dups+losses
	}
	return best, nil
}
