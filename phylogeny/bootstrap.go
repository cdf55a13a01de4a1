// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package phylogeny

import (
	"fmt"
	"runtime"

	"github.com/bits-and-blooms/bitset"
	"github.com/js-arias/phylo/etree"
	"golang.org/x/sync/errgroup"
)

// A split is the leaf set of an internal node
// of a bootstrap tree.
type split struct {
	leaves  *bitset.BitSet
	species *etree.Tree
}

// ScoreFromBootstrap returns a new tree
// with its partitions scored by its presence
// in a bootstrap tree.
func (t *Tree) ScoreFromBootstrap(bootstrap *Tree) (*Tree, error) {
	return t.score([]*Tree{bootstrap}, false)
}

// ScoreFromBootstraps returns a new tree
// with its partitions scored by how often they appear
// in a set of bootstrap trees.
//
// Counts are added to any previous count of the tree,
// and the support of a node is the fraction
// of all the bootstrap trees compared with the node
// that contains the same bipartition.
// All trees must be indexed over the same leaves.
func (t *Tree) ScoreFromBootstraps(bootstraps []*Tree) (*Tree, error) {
	return t.score(bootstraps, false)
}

// ScoreReconciliationFromBootstrap is like ScoreFromBootstrap,
// but a reconciled node is only supported
// if the bootstrap bipartition maps to the same species.
func (t *Tree) ScoreReconciliationFromBootstrap(bootstrap *Tree) (*Tree, error) {
	return t.score([]*Tree{bootstrap}, true)
}

// ScoreReconciliationFromBootstraps is like ScoreFromBootstraps,
// but a reconciled node is only supported
// if the bootstrap bipartition maps to the same species.
// It is always less than or equal to the plain bootstrap support.
func (t *Tree) ScoreReconciliationFromBootstraps(bootstraps []*Tree) (*Tree, error) {
	return t.score(bootstraps, true)
}

func (t *Tree) score(bootstraps []*Tree, withRecon bool) (*Tree, error) {
	rix, err := t.Index(t.root)
	if err != nil {
		return nil, err
	}
	total := rix.TotalNumLeaves

	splits := make([][]split, len(bootstraps))
	for i, bs := range bootstraps {
		ss, err := bs.splits(total)
		if err != nil {
			return nil, fmt.Errorf("bootstrap %d: %w", i, err)
		}
		splits[i] = ss
	}

	nt := t.Clone()
	var internal []*etree.Tree
	for _, n := range nt.root.Nodes() {
		if n.IsLeaf() {
			continue
		}
		if _, err := nt.Index(n); err != nil {
			return nil, err
		}
		internal = append(internal, n)
	}

	// each node is updated by a single goroutine,
	// while the bootstrap splits are read-only
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, n := range internal {
		g.Go(func() error {
			ix, _ := nt.Index(n)
			if ix.LeavesBelow == nil {
				return fmt.Errorf("leaves below undefined: %w", ErrNotIndexed)
			}
			var species *etree.Tree
			if r := nt.Recon(n); withRecon && r != nil {
				species = r.Species
			}
			comp := ix.LeavesBelow.Complement()

			for _, ss := range splits {
				if hasSplit(ss, ix.LeavesBelow, comp, species) {
					ix.NumBootstraps++
				}
			}
			ix.numTrees += len(splits)
			if ix.numTrees > 0 {
				ix.BootstrapSupport = float64(ix.NumBootstraps) / float64(ix.numTrees)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return nt, nil
}

func hasSplit(ss []split, leaves, comp *bitset.BitSet, species *etree.Tree) bool {
	for _, s := range ss {
		if !s.leaves.Equal(leaves) && !s.leaves.Equal(comp) {
			continue
		}
		if species != nil && s.species != species {
			continue
		}
		return true
	}
	return false
}

// splits returns the splits of the internal nodes of the tree.
func (t *Tree) splits(total int) ([]split, error) {
	var ss []split
	for _, n := range t.root.Nodes() {
		ix, err := t.Index(n)
		if err != nil {
			return nil, err
		}
		if ix.LeavesBelow == nil {
			return nil, fmt.Errorf("leaves below undefined: %w", ErrNotIndexed)
		}
		if ix.TotalNumLeaves != total {
			return nil, fmt.Errorf("got %d leaves, want %d: %w", ix.TotalNumLeaves, total, ErrMismatch)
		}
		if n.IsLeaf() {
			continue
		}
		s := split{leaves: ix.LeavesBelow}
		if r := t.Recon(n); r != nil {
			s.species = r.Species
		}
		ss = append(ss, s)
	}
	return ss, nil
}
