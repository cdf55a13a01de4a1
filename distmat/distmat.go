// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package distmat implements square matrices
// of distances or similarities
// between named gene sequences.
//
// Names are sorted,
// so the index of a name in the matrix
// is its position in the sorted list of names.
package distmat

import (
	"fmt"
	"strconv"

	"github.com/js-arias/phylo/etree"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a square matrix of values
// between named sequences.
type Matrix struct {
	names []string
	index map[string]int
	m     *mat.Dense
}

// New creates a new matrix with the given names.
// Repeated and empty names are ignored.
func New(names []string) *Matrix {
	ns := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		ns = append(ns, n)
	}
	slices.Sort(ns)
	ns = slices.Compact(ns)

	index := make(map[string]int, len(ns))
	for i, n := range ns {
		index[n] = i
	}

	var m *mat.Dense
	if len(ns) > 0 {
		m = mat.NewDense(len(ns), len(ns), nil)
	}
	return &Matrix{
		names: ns,
		index: index,
		m:     m,
	}
}

// Len returns the number of names in the matrix.
func (m *Matrix) Len() int {
	return len(m.names)
}

// Names returns the sorted names of the matrix.
func (m *Matrix) Names() []string {
	return slices.Clone(m.names)
}

// Index returns the index of a name.
func (m *Matrix) Index(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}

// At returns the value of a cell.
func (m *Matrix) At(row, col string) float64 {
	i, ok := m.index[row]
	if !ok {
		return 0
	}
	j, ok := m.index[col]
	if !ok {
		return 0
	}
	return m.m.At(i, j)
}

// Set sets the value of a cell.
func (m *Matrix) Set(row, col string, v float64) error {
	i, ok := m.index[row]
	if !ok {
		return fmt.Errorf("name %q not in matrix", row)
	}
	j, ok := m.index[col]
	if !ok {
		return fmt.Errorf("name %q not in matrix", col)
	}
	m.m.Set(i, j, v)
	return nil
}

// Dense returns the underlying matrix,
// indexed by the position of the names.
func (m *Matrix) Dense() *mat.Dense {
	return m.m
}

// Symmetric sets both cells of each pair
// to the value of the lower triangle
// (cells with i > j).
// If the lower cell is 0,
// the value of the upper cell is used.
func (m *Matrix) Symmetric() {
	for i := range m.names {
		for j := 0; j < i; j++ {
			v := m.m.At(i, j)
			if v == 0 {
				v = m.m.At(j, i)
			}
			m.m.Set(i, j, v)
			m.m.Set(j, i, v)
		}
	}
}

// LabelLeaves replaces the labels of the leaves of a tree
// that are the index of a name in the matrix,
// with the name.
func (m *Matrix) LabelLeaves(t *etree.Tree) error {
	for _, l := range t.Leaves() {
		i, err := strconv.Atoi(l.Label())
		if err != nil {
			return fmt.Errorf("leaf %q: not an index", l.Label())
		}
		if i < 0 || i >= len(m.names) {
			return fmt.Errorf("leaf %q: index out of range", l.Label())
		}
		l.SetLabel(m.names[i])
	}
	return nil
}

// IndexLeaves replaces the labels of the leaves of a tree
// with the index of the name in the matrix.
func (m *Matrix) IndexLeaves(t *etree.Tree) error {
	for _, l := range t.Leaves() {
		i, ok := m.index[l.Label()]
		if !ok {
			return fmt.Errorf("leaf %q: name not in matrix", l.Label())
		}
		l.SetLabel(strconv.Itoa(i))
	}
	return nil
}
