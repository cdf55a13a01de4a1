// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package recon

import (
	"fmt"

	"github.com/js-arias/phylo/etree"
	"gonum.org/v1/gonum/mat"
)

// JoinCosts is the cost of joining two genes
// given the species nodes they are mapped to.
type JoinCosts struct {
	// Costs is the cost of joining two genes,
	// indexed by species node.
	Costs *mat.Dense

	// Index is the index of each species node.
	Index map[*etree.Tree]int

	// Species are the species nodes,
	// in pre-order.
	Species []*etree.Tree

	// MRCA is the index of the most recent common ancestor
	// of each pair of species nodes.
	MRCA [][]int
}

// ComputeJoinCosts returns the join costs of a binary species tree.
// The cost of joining two genes
// is the sum of the costs of the duplications and losses
// implied by reconciling the joined node
// with the MRCA of their species.
func ComputeJoinCosts(species *etree.Tree, costPerDup, costPerLoss float64) (*JoinCosts, error) {
	if !species.IsBinary() {
		return nil, fmt.Errorf("species tree: %w", ErrNonBinary)
	}

	nodes := species.Nodes()
	index := make(map[*etree.Tree]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}
	mrca := MRCAMatrix(nodes, index)

	costs := mat.NewDense(len(nodes), len(nodes), nil)
	for i, s1 := range nodes {
		for j, s2 := range nodes {
			m := nodes[mrca[i][j]]
			d1 := s1.Depth() - m.Depth()
			d2 := s2.Depth() - m.Depth()

			var c float64
			if m == s1 || m == s2 {
				c = costPerDup + costPerLoss*float64(d1+d2)
			} else {
				c = costPerLoss * float64(d1-1+d2-1)
			}
			costs.Set(i, j, c)
		}
	}

	return &JoinCosts{
		Costs:   costs,
		Index:   index,
		Species: nodes,
		MRCA:    mrca,
	}, nil
}

// MRCAMatrix returns a matrix with the index
// of the most recent common ancestor
// of each pair of nodes of a species tree.
func MRCAMatrix(nodes []*etree.Tree, index map[*etree.Tree]int) [][]int {
	mrca := make([][]int, len(nodes))
	for i, s1 := range nodes {
		mrca[i] = make([]int, len(nodes))
		for j, s2 := range nodes {
			if j < i {
				mrca[i][j] = mrca[j][i]
				continue
			}
			mrca[i][j] = index[etree.MRCA(s1, s2)]
		}
	}
	return mrca
}

// Cost returns the cost of joining two genes
// mapped to the given species nodes,
// and the species node of the joined gene.
func (jc *JoinCosts) Cost(s1, s2 int) (cost float64, mrca int) {
	return jc.Costs.At(s1, s2), jc.MRCA[s1][s2]
}
