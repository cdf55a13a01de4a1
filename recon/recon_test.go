// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package recon_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/newick"
	"github.com/js-arias/phylo/phylogeny"
	"github.com/js-arias/phylo/recon"
	"github.com/js-arias/timetree/simulate"
)

func parse(t testing.TB, s string) *etree.Tree {
	t.Helper()

	tr, err := newick.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return tr
}

// leafMap builds a leaf map from a list of gene:species pairs.
func leafMap(t testing.TB, species *etree.Tree, pairs ...string) recon.LeafMap {
	t.Helper()

	sp := make(map[string]*etree.Tree)
	for _, l := range species.Leaves() {
		sp[l.Label()] = l
	}
	lm := make(recon.LeafMap)
	for _, p := range pairs {
		g, s, _ := strings.Cut(p, ":")
		lm[g] = sp[s]
	}
	return lm
}

func findLabel(t testing.TB, root *etree.Tree, label string) *etree.Tree {
	t.Helper()

	for _, n := range root.Nodes() {
		if n.Label() == label {
			return n
		}
	}
	t.Fatalf("node %q not found", label)
	return nil
}

func TestCostBinary(t *testing.T) {
	tests := map[string]struct {
		gene    string
		species string
		pairs   []string
		dups    int
		losses  int
	}{
		"duplication": {
			gene:    "((a,b),c);",
			species: "(X,Y);",
			pairs:   []string{"a:X", "b:X", "c:Y"},
			dups:    1,
		},
		"speciation": {
			gene:    "((a,b),c);",
			species: "((X1,X2),Y);",
			pairs:   []string{"a:X1", "b:X2", "c:Y"},
		},
		"loss": {
			gene:    "(a,c);",
			species: "((A,B),C);",
			pairs:   []string{"a:A", "c:C"},
			losses:  1,
		},
		"duplication and losses": {
			gene:    "((a1,c1),a2);",
			species: "((A,B),C);",
			pairs:   []string{"a1:A", "a2:A", "c1:C"},
			dups:    1,
			losses:  3,
		},
	}

	for name, test := range tests {
		sp := parse(t, test.species)
		g := parse(t, test.gene)
		lm := leafMap(t, sp, test.pairs...)

		dups, losses, err := recon.CostBinary(g, sp, lm)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if dups != test.dups {
			t.Errorf("%s: dups: got %d, want %d", name, dups, test.dups)
		}
		if losses != test.losses {
			t.Errorf("%s: losses: got %d, want %d", name, losses, test.losses)
		}
	}
}

func TestReconcileBinary(t *testing.T) {
	sp := parse(t, "(X,Y)xy;")
	g := parse(t, "((a,b)ab,c)root;")
	lm := leafMap(t, sp, "a:X", "b:X", "c:Y")

	pt := phylogeny.New(g)
	if err := recon.ReconcileBinary(pt, sp, lm, false); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	tests := []struct {
		node    string
		species string
		event   phylogeny.Event
	}{
		{"root", "xy", phylogeny.Speciation},
		{"ab", "X", phylogeny.Duplication},
		{"a", "X", phylogeny.Leaf},
		{"c", "Y", phylogeny.Leaf},
	}
	for _, test := range tests {
		r := pt.Recon(findLabel(t, g, test.node))
		if r == nil {
			t.Errorf("node %q: not reconciled", test.node)
			continue
		}
		if r.Species.Label() != test.species {
			t.Errorf("node %q: species: got %q, want %q", test.node, r.Species.Label(), test.species)
		}
		if r.Event != test.event {
			t.Errorf("node %q: event: got %v, want %v", test.node, r.Event, test.event)
		}
	}

	// relabel
	if err := recon.ReconcileBinary(pt, sp, lm, true); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := newick.String(g); got != "((a,b)X,c)xy;" {
		t.Errorf("relabel: got %q, want %q", got, "((a,b)X,c)xy;")
	}
}

func TestReconcileErrors(t *testing.T) {
	sp := parse(t, "(X,Y);")

	g := phylogeny.New(parse(t, "(a,b,c);"))
	lm := leafMap(t, sp, "a:X", "b:X", "c:Y")
	if err := recon.ReconcileBinary(g, sp, lm, false); !errors.Is(err, recon.ErrNonBinary) {
		t.Errorf("non binary gene tree: got error %v, want %v", err, recon.ErrNonBinary)
	}

	g = phylogeny.New(parse(t, "(a,b);"))
	if err := recon.ReconcileBinary(g, parse(t, "(X,Y,Z);"), lm, false); !errors.Is(err, recon.ErrNonBinary) {
		t.Errorf("non binary species tree: got error %v, want %v", err, recon.ErrNonBinary)
	}

	g = phylogeny.New(parse(t, "(a,d);"))
	if err := recon.ReconcileBinary(g, sp, lm, false); !errors.Is(err, recon.ErrUnmapped) {
		t.Errorf("unmapped leaf: got error %v, want %v", err, recon.ErrUnmapped)
	}

	other := parse(t, "(X,Y);")
	g = phylogeny.New(parse(t, "(a,c);"))
	if err := recon.ReconcileBinary(g, other, lm, false); !errors.Is(err, recon.ErrNotSpecies) {
		t.Errorf("species from other tree: got error %v, want %v", err, recon.ErrNotSpecies)
	}
}

// eventInvariant checks that a node is a duplication
// if and only if its species is the species of a child.
func eventInvariant(t testing.TB, name string, pt *phylogeny.Tree) {
	t.Helper()

	for _, n := range pt.Root().Nodes() {
		if n.IsLeaf() {
			continue
		}
		r := pt.Recon(n)
		same := false
		for _, c := range n.Children() {
			if pt.Recon(c).Species == r.Species {
				same = true
			}
		}
		if same != (r.Event == phylogeny.Duplication) {
			t.Errorf("%s: node with species %q: got event %v", name, r.Species.Label(), r.Event)
		}
	}
}

func TestRootAndReconcileBinary(t *testing.T) {
	sp := parse(t, "((A,B),C);")
	lm := leafMap(t, sp, "a:A", "b:B", "c:C", "c2:C")

	// the best root splits (a,c) from (b,c2)
	g := parse(t, "(c,(a,(b,c2)));")
	src := newick.String(g)

	pt, err := recon.RootAndReconcileBinary(g, sp, lm)
	if err != nil {
		t.Fatalf("reroot: %v", err)
	}
	if newick.String(g) != src {
		t.Errorf("source tree modified")
	}

	dups, losses, err := recon.CostBinary(pt.Root(), sp, lm)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if dups != 1 || losses != 2 {
		t.Errorf("rerooted: got %d dups %d losses, want 1 dups 2 losses", dups, losses)
	}
	eventInvariant(t, "rerooted", pt)

	// a tree identical to the species tree
	// is best rooted as the species tree
	tt, ok := simulate.Yule("test", 0.2, 20_000_000, 20)
	if !ok {
		t.Skip("unable to simulate tree")
	}
	species := etree.FromTimeTree(tt, 1_000_000)
	gene := species.Clone()
	lm = make(recon.LeafMap)
	for _, l := range species.Leaves() {
		lm[l.Label()] = l
	}

	if d, l, err := recon.CostBinary(gene, species, lm); err != nil || d != 0 || l != 0 {
		t.Errorf("simulated tree: got %d dups %d losses, want 0 0 (error %v)", d, l, err)
	}
	pt, err = recon.RootAndReconcileBinary(gene, species, lm)
	if err != nil {
		t.Fatalf("reroot simulated tree: %v", err)
	}
	if d, l, err := recon.CostBinary(pt.Root(), species, lm); err != nil || d != 0 || l != 0 {
		t.Errorf("rerooted simulated tree: got %d dups %d losses, want 0 0 (error %v)", d, l, err)
	}
	eventInvariant(t, "simulated", pt)
}

func TestAtMostBinary(t *testing.T) {
	sp := parse(t, "((A,B)ab,C)abc;")

	tests := map[string]struct {
		gene   string
		pairs  []string
		event  phylogeny.Event
		root   string
		dups   int
		losses int
	}{
		"binary": {
			gene:  "((a,b),c);",
			pairs: []string{"a:A", "b:B", "c:C"},
			event: phylogeny.Speciation,
			root:  "abc",
		},
		"polytomy": {
			gene:   "(a,b,c);",
			pairs:  []string{"a:A", "b:B", "c:C"},
			event: phylogeny.Speciation,
			root:  "abc",
		},
		"overlap": {
			gene:   "(a,a2,c);",
			pairs:  []string{"a:A", "a2:A", "c:C"},
			event:  phylogeny.Duplication,
			root:   "abc",
			dups:   1,
			losses: 5,
		},
	}

	for name, test := range tests {
		g := parse(t, test.gene)
		lm := leafMap(t, sp, test.pairs...)
		pt := phylogeny.New(g)
		if err := recon.ReconcileAtMostBinary(pt, lm, false); err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		r := pt.Recon(g)
		if r.Event != test.event {
			t.Errorf("%s: root event: got %v, want %v", name, r.Event, test.event)
		}
		if r.Species.Label() != test.root {
			t.Errorf("%s: root species: got %q, want %q", name, r.Species.Label(), test.root)
		}

		dups, losses, err := recon.CostAtMostBinary(pt)
		if err != nil {
			t.Errorf("%s: cost: %v", name, err)
			continue
		}
		if dups != test.dups || losses != test.losses {
			t.Errorf("%s: got %d dups %d losses, want %d dups %d losses", name, dups, losses, test.dups, test.losses)
		}
	}

	// on binary trees both reconciliations are the same
	g := parse(t, "((a1,c1),a2);")
	lm := leafMap(t, sp, "a1:A", "a2:A", "c1:C")
	pt := phylogeny.New(g)
	if err := recon.ReconcileAtMostBinary(pt, lm, false); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	ad, al, _ := recon.CostAtMostBinary(pt)
	bd, bl, _ := recon.CostBinary(g, sp, lm)
	if ad != bd || al != bl {
		t.Errorf("binary tree: got %d dups %d losses, want %d dups %d losses", ad, al, bd, bl)
	}

	if _, _, err := recon.CostAtMostBinary(phylogeny.New(parse(t, "(a,b);"))); !errors.Is(err, recon.ErrNotReconciled) {
		t.Errorf("not reconciled: got error %v, want %v", err, recon.ErrNotReconciled)
	}

	rt, err := recon.RootAndReconcileAtMostBinary(parse(t, "(c,(a,(b,c2)));"), leafMap(t, sp, "a:A", "b:B", "c:C", "c2:C"))
	if err != nil {
		t.Fatalf("reroot: %v", err)
	}
	if d, l, _ := recon.CostAtMostBinary(rt); d != 1 || l != 2 {
		t.Errorf("rerooted: got %d dups %d losses, want 1 dups 2 losses", d, l)
	}
}

func TestAtMostBinaryLosses(t *testing.T) {
	sp := parse(t, "((A,B)ab,(C,D)cd)abcd;")

	// two children in the same species lineage
	g := parse(t, "(a,c,d);")
	lm := leafMap(t, sp, "a:A", "c:C", "d:D")
	pt := phylogeny.New(g)
	if err := recon.ReconcileAtMostBinary(pt, lm, false); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	dups, losses, err := recon.CostAtMostBinary(pt)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	bd, bl, err := recon.CostBinary(parse(t, "(a,(c,d));"), sp, lm)
	if err != nil {
		t.Fatalf("binary cost: %v", err)
	}
	if dups != 0 || losses != 1 {
		t.Errorf("multifurcation: got %d dups %d losses, want 0 dups 1 losses", dups, losses)
	}
	if dups != bd || losses != bl {
		t.Errorf("multifurcation: got %d dups %d losses, binary resolution %d dups %d losses", dups, losses, bd, bl)
	}

	// unary nodes
	g = parse(t, "((a),b);")
	lm = leafMap(t, sp, "a:A", "b:B")
	pt = phylogeny.New(g)
	if err := recon.ReconcileAtMostBinary(pt, lm, false); err != nil {
		t.Fatalf("reconcile unary: %v", err)
	}
	u := g.Children()[0]
	if r := pt.Recon(u); r.Event != phylogeny.Speciation || r.Species.Label() != "A" {
		t.Errorf("unary: got %v on %q, want %v on %q", r.Event, r.Species.Label(), phylogeny.Speciation, "A")
	}
	if d, l, _ := recon.CostAtMostBinary(pt); d != 0 || l != 0 {
		t.Errorf("unary: got %d dups %d losses, want 0 dups 0 losses", d, l)
	}
}

func TestComputeJoinCosts(t *testing.T) {
	sp := parse(t, "((A,B)ab,C)abc;")
	jc, err := recon.ComputeJoinCosts(sp, 1, 0.5)
	if err != nil {
		t.Fatalf("join costs: %v", err)
	}

	idx := func(label string) int {
		return jc.Index[findLabel(t, sp, label)]
	}
	tests := []struct {
		s1, s2 string
		cost   float64
		mrca   string
	}{
		{"A", "B", 0, "ab"},
		{"A", "A", 1, "A"},
		{"A", "C", 0.5, "abc"},
		{"ab", "A", 1.5, "ab"},
		{"abc", "A", 2, "abc"},
		{"B", "C", 0.5, "abc"},
	}
	for _, test := range tests {
		c, m := jc.Cost(idx(test.s1), idx(test.s2))
		if c != test.cost {
			t.Errorf("join %s-%s: cost: got %.6f, want %.6f", test.s1, test.s2, c, test.cost)
		}
		if jc.Species[m].Label() != test.mrca {
			t.Errorf("join %s-%s: mrca: got %q, want %q", test.s1, test.s2, jc.Species[m].Label(), test.mrca)
		}
		if rc, _ := jc.Cost(idx(test.s2), idx(test.s1)); rc != c {
			t.Errorf("join %s-%s: asymmetric cost %.6f and %.6f", test.s1, test.s2, c, rc)
		}
	}

	if _, err := recon.ComputeJoinCosts(parse(t, "(A,B,C);"), 1, 1); !errors.Is(err, recon.ErrNonBinary) {
		t.Errorf("non binary: got error %v, want %v", err, recon.ErrNonBinary)
	}
}

func TestLeafMapTSV(t *testing.T) {
	sp := parse(t, "((human,mouse),fly);")
	in := `# gene to species
gene	species
hba_human	human
hbb_human	human
hba_mouse	mouse
`
	lm, err := recon.ReadLeafMap(strings.NewReader(in), sp)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(lm) != 3 {
		t.Errorf("read: got %d genes, want 3", len(lm))
	}
	if lm["hbb_human"].Label() != "human" {
		t.Errorf("gene %q: got %q, want %q", "hbb_human", lm["hbb_human"].Label(), "human")
	}

	var w bytes.Buffer
	if err := lm.TSV(&w); err != nil {
		t.Fatalf("write: %v", err)
	}
	np, err := recon.ReadLeafMap(&w, sp)
	if err != nil {
		t.Fatalf("read written: %v", err)
	}
	for g, s := range lm {
		if np[g] != s {
			t.Errorf("gene %q: got %v, want %q", g, np[g], s.Label())
		}
	}

	bad := "gene\tspecies\nhba_cow\tcow\n"
	if _, err := recon.ReadLeafMap(strings.NewReader(bad), sp); !errors.Is(err, recon.ErrNotSpecies) {
		t.Errorf("unknown species: got error %v, want %v", err, recon.ErrNotSpecies)
	}
}
