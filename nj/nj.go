// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package nj implements neighbor-joining
// tree reconstruction from a distance matrix,
// and a variant guided by a species tree.
//
// Leaves of the returned trees are labeled
// with the index of the row in the matrix.
package nj

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/js-arias/phylo/etree"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrMatrix is returned when the matrix
	// is not square or too small.
	ErrMatrix = errors.New("invalid matrix")

	// ErrOutgroup is returned when an outgroup
	// is not a valid leaf.
	ErrOutgroup = errors.New("invalid outgroup")
)

// Join returns a tree built with neighbor-joining
// from a distance matrix.
// Only the lower triangle of the matrix
// (cells with i > j)
// is used.
//
// The tree is rooted at the midpoint of the longest branch,
// or, if outgroups are given,
// at the midpoint of the longest branch
// that ends in an outgroup.
func Join(d mat.Matrix, outgroups []int) (*etree.Tree, error) {
	n, err := size(d)
	if err != nil {
		return nil, err
	}
	out := make(map[int]bool, len(outgroups))
	for _, o := range outgroups {
		if o < 0 || o >= n {
			return nil, fmt.Errorf("leaf %d of %d: %w", o, n, ErrOutgroup)
		}
		out[o] = true
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			v := lower(d, i, j)
			if !finite(v) {
				return nil, fmt.Errorf("cell %d,%d: invalid value %v: %w", i, j, v, ErrMatrix)
			}
			dist[i][j] = v
		}
	}

	jn := newJoiner(n, dist)
	for len(jn.nodes) > 2 {
		a, b := jn.pick(nil)
		jn.connect(a, b)

		dab := jn.d[a][b]
		for k := range jn.nodes {
			if k == a || k == b {
				continue
			}
			v := (jn.d[a][k] + jn.d[b][k] - dab) / 2
			jn.d[a][k] = v
			jn.d[k][a] = v
		}
		jn.remove(b)
	}
	jn.finish()

	return jn.u.RootAt(longest(jn.u, out))
}

func size(d mat.Matrix) (int, error) {
	r, c := d.Dims()
	if r != c {
		return 0, fmt.Errorf("matrix of %d x %d: %w", r, c, ErrMatrix)
	}
	if r < 2 {
		return 0, fmt.Errorf("matrix with %d rows: %w", r, ErrMatrix)
	}
	return r, nil
}

// lower returns the value of the lower triangle
// of a matrix.
func lower(d mat.Matrix, i, j int) float64 {
	if i == j {
		return 0
	}
	if i < j {
		i, j = j, i
	}
	return d.At(i, j)
}

// longest returns the longest edge of the tree.
// If outgroups are defined,
// only the edges of the outgroups are used.
func longest(u *etree.Unrooted, out map[int]bool) int {
	best := -1
	bestLen := math.Inf(-1)
	for i, e := range u.Edges() {
		if len(out) > 0 && !out[e.A] && !out[e.B] {
			continue
		}
		if e.Length > bestLen {
			best, bestLen = i, e.Length
		}
	}
	return best
}

// A joiner keeps the active clusters
// of a neighbor-joining.
type joiner struct {
	u *etree.Unrooted

	// nodes are the IDs in the unrooted tree
	// of the active clusters
	nodes []int

	// d is the distance between active clusters
	d [][]float64
}

func newJoiner(n int, d [][]float64) *joiner {
	u := etree.NewUnrooted()
	nodes := make([]int, n)
	for i := range nodes {
		nodes[i] = u.Add(strconv.Itoa(i))
	}
	return &joiner{
		u:     u,
		nodes: nodes,
		d:     d,
	}
}

func (jn *joiner) divergence() []float64 {
	r := make([]float64, len(jn.nodes))
	for i := range jn.nodes {
		for k := range jn.nodes {
			r[i] += jn.d[i][k]
		}
	}
	return r
}

// pick returns the pair of clusters
// that minimize the neighbor-joining criterion,
// plus an optional extra cost.
func (jn *joiner) pick(extra func(a, b int) float64) (int, int) {
	n := float64(len(jn.nodes))
	r := jn.divergence()

	ba, bb := -1, -1
	minQ := math.Inf(1)
	for i := range jn.nodes {
		for j := i + 1; j < len(jn.nodes); j++ {
			q := (n-2)*jn.d[i][j] - r[i] - r[j]
			if extra != nil {
				q += extra(i, j)
			}
			if q < minQ {
				ba, bb, minQ = i, j, q
			}
		}
	}
	return ba, bb
}

// connect joins two clusters with a new node,
// that replaces the cluster a.
func (jn *joiner) connect(a, b int) {
	n := float64(len(jn.nodes))
	r := jn.divergence()

	dab := jn.d[a][b]
	la := dab/2 + (r[a]-r[b])/(2*(n-2))
	lb := dab - la

	id := jn.u.Add("")
	jn.u.Connect(id, jn.nodes[a], math.Max(la, 0))
	jn.u.Connect(id, jn.nodes[b], math.Max(lb, 0))
	jn.nodes[a] = id
}

// remove removes a cluster.
func (jn *joiner) remove(b int) {
	jn.nodes = append(jn.nodes[:b], jn.nodes[b+1:]...)
	jn.d = removeIndex(jn.d, b)
}

// finish connects the last two clusters
// and returns the ID of the edge.
func (jn *joiner) finish() int {
	return jn.u.Connect(jn.nodes[0], jn.nodes[1], math.Max(jn.d[0][1], 0))
}

func removeIndex(m [][]float64, k int) [][]float64 {
	m = append(m[:k], m[k+1:]...)
	for i := range m {
		m[i] = append(m[i][:k], m[i][k+1:]...)
	}
	return m
}
