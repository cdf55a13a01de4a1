// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package etree_test

import (
	"math"
	"slices"
	"testing"

	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/timetree/simulate"
)

// build creates the tree ((a:1,b:2):3,(c:4,d:5):6)
func build(t testing.TB) *etree.Tree {
	t.Helper()

	root := newNode(t, "", nil)
	ab := newNode(t, "", root)
	ab.SetBranchLength(3)
	cd := newNode(t, "", root)
	cd.SetBranchLength(6)
	for i, l := range []string{"a", "b"} {
		n := newNode(t, l, ab)
		n.SetBranchLength(float64(i + 1))
	}
	for i, l := range []string{"c", "d"} {
		n := newNode(t, l, cd)
		n.SetBranchLength(float64(i + 4))
	}
	return root
}

func totalLength(t *etree.Tree) float64 {
	var sum float64
	t.PreOrder(func(n *etree.Tree) {
		if n.HasLength() {
			sum += n.BranchLength()
		}
	})
	return sum
}

func TestUnroot(t *testing.T) {
	root := build(t)
	u := etree.Unroot(root)

	// six nodes: a, b, c, d and the two internal nodes
	if u.Len() != 6 {
		t.Errorf("nodes: got %d, want 6", u.Len())
	}
	// five edges: one edge for each leaf, and the merged root edge
	edges := u.Edges()
	if len(edges) != 5 {
		t.Fatalf("edges: got %d, want 5", len(edges))
	}
	// the merged edge is added after the edges of the first child
	if e := edges[2]; e.Length != 9 {
		t.Errorf("root edge: got %.6f, want 9", e.Length)
	}

	for i := range edges {
		rt, err := u.RootAt(i)
		if err != nil {
			t.Fatalf("root at %d: %v", i, err)
		}
		if rt.NumChildren() != 2 {
			t.Errorf("root at %d: got %d root children, want 2", i, rt.NumChildren())
		}
		if !rt.IsBinary() {
			t.Errorf("root at %d: tree must be binary", i)
		}
		ls := labels(rt.Leaves())
		slices.Sort(ls)
		if !slices.Equal(ls, []string{"a", "b", "c", "d"}) {
			t.Errorf("root at %d: leaves: got %v", i, ls)
		}
		if tl := totalLength(rt); math.Abs(tl-21) > 1e-9 {
			t.Errorf("root at %d: total length: got %.6f, want 21", i, tl)
		}
		c0, _ := rt.Child(0)
		c1, _ := rt.Child(1)
		if c0.BranchLength() != c1.BranchLength() {
			t.Errorf("root at %d: root must be at the midpoint: %.6f, %.6f", i, c0.BranchLength(), c1.BranchLength())
		}
	}

	if _, err := u.RootAt(len(edges)); err == nil {
		t.Errorf("root at an invalid edge: expecting error")
	}
}

func TestFromTimeTree(t *testing.T) {
	tt, _ := simulate.Yule("test", 0.2, 20_000_000, 30)
	if tt == nil {
		t.Skip("unable to simulate tree")
	}
	tt.Format()

	et := etree.FromTimeTree(tt, 1_000_000)

	want := tt.Terms()
	slices.Sort(want)
	got := labels(et.Leaves())
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Errorf("terms: got %v, want %v", got, want)
	}

	rootAge := float64(tt.Age(tt.Root())) / 1_000_000
	for _, l := range et.Leaves() {
		var d float64
		for n := l; n.Parent() != nil; n = n.Parent() {
			d += n.BranchLength()
		}
		id, _ := tt.TaxNode(l.Label())
		age := float64(tt.Age(id)) / 1_000_000
		if math.Abs(d-(rootAge-age)) > 1e-6 {
			t.Errorf("leaf %q: got distance to root %.6f, want %.6f", l.Label(), d, rootAge-age)
		}
	}
}
