// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package nj

import (
	"fmt"
	"math"

	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/recon"
	"gonum.org/v1/gonum/mat"
)

// Guided returns a tree built with neighbor-joining
// guided by a species tree.
//
// The matrix is a similarity matrix:
// cells with i > j are the number of differences
// between sequences i and j,
// and cells with i < j are the number of similarities.
// The distance between two clusters
// is the fraction of differences.
//
// The join criterion is penalized by the join cost
// of the species of each cluster,
// as defined by the species tree of the join costs.
// LeafSpecies is the index in the join costs
// of the species of each sequence.
//
// The tree is rooted at the midpoint of the last join.
func Guided(sim mat.Matrix, jc *recon.JoinCosts, leafSpecies []int) (*etree.Tree, error) {
	n, err := size(sim)
	if err != nil {
		return nil, err
	}
	if len(leafSpecies) != n {
		return nil, fmt.Errorf("got %d leaf species, want %d: %w", len(leafSpecies), n, ErrMatrix)
	}
	species := make([]int, n)
	for i, s := range leafSpecies {
		if s < 0 || s >= len(jc.Species) {
			return nil, fmt.Errorf("leaf %d: species %d not in join costs: %w", i, s, ErrMatrix)
		}
		species[i] = s
	}

	diff := make([][]float64, n)
	same := make([][]float64, n)
	dist := make([][]float64, n)
	for i := 0; i < n; i++ {
		diff[i] = make([]float64, n)
		same[i] = make([]float64, n)
		dist[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			lo, hi := i, j
			if lo > hi {
				lo, hi = hi, lo
			}
			diff[i][j] = sim.At(hi, lo)
			same[i][j] = sim.At(lo, hi)
			if !finite(diff[i][j]) || !finite(same[i][j]) {
				return nil, fmt.Errorf("cells %d,%d: invalid value: %w", i, j, ErrMatrix)
			}
			dist[i][j] = fraction(diff[i][j], same[i][j])
		}
	}

	jn := newJoiner(n, dist)
	cost := func(a, b int) float64 {
		c, _ := jc.Cost(species[a], species[b])
		return c
	}
	for len(jn.nodes) > 2 {
		a, b := jn.pick(cost)
		jn.connect(a, b)

		for k := range jn.nodes {
			if k == a || k == b {
				continue
			}
			diff[a][k] += diff[b][k]
			diff[k][a] = diff[a][k]
			same[a][k] += same[b][k]
			same[k][a] = same[a][k]
			v := fraction(diff[a][k], same[a][k])
			jn.d[a][k] = v
			jn.d[k][a] = v
		}
		_, species[a] = jc.Cost(species[a], species[b])

		jn.remove(b)
		diff = removeIndex(diff, b)
		same = removeIndex(same, b)
		species = append(species[:b], species[b+1:]...)
	}
	last := jn.finish()

	return jn.u.RootAt(last)
}

func fraction(diff, same float64) float64 {
	if diff+same == 0 {
		return 0
	}
	return diff / (diff + same)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
