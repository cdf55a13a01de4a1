// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package newick_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/newick"
)

func TestParse(t *testing.T) {
	tr, err := newick.Parse("(A:1,B:2,(C:3,D:4):5);")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if tr.NumChildren() != 3 {
		t.Fatalf("root: got %d children, want 3", tr.NumChildren())
	}
	if tr.HasLength() {
		t.Errorf("root: got length %.6f, want no length", tr.BranchLength())
	}

	want := []struct {
		label  string
		length float64
		leaf   bool
	}{
		{"A", 1, true},
		{"B", 2, true},
		{"", 5, false},
	}
	for i, w := range want {
		c, _ := tr.Child(i)
		if c.Label() != w.label {
			t.Errorf("child %d: label: got %q, want %q", i, c.Label(), w.label)
		}
		if c.BranchLength() != w.length {
			t.Errorf("child %d: length: got %.6f, want %.6f", i, c.BranchLength(), w.length)
		}
		if c.IsLeaf() != w.leaf {
			t.Errorf("child %d: leaf: got %v, want %v", i, c.IsLeaf(), w.leaf)
		}
	}

	in, _ := tr.Child(2)
	if in.NumChildren() != 2 {
		t.Fatalf("internal node: got %d children, want 2", in.NumChildren())
	}
	c, _ := in.Child(0)
	d, _ := in.Child(1)
	if c.Label() != "C" || c.BranchLength() != 3 {
		t.Errorf("leaf C: got %q:%.6f, want %q:%.6f", c.Label(), c.BranchLength(), "C", 3.0)
	}
	if d.Label() != "D" || d.BranchLength() != 4 {
		t.Errorf("leaf D: got %q:%.6f, want %q:%.6f", d.Label(), d.BranchLength(), "D", 4.0)
	}

	got := newick.String(tr)
	wantS := "(A:1.000000,B:2.000000,(C:3.000000,D:4.000000):5.000000);"
	if got != wantS {
		t.Errorf("string: got %q, want %q", got, wantS)
	}
}

func TestParseLabels(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"no lengths":      {"(A,B,(X,Y)C)ROOT;", "(A,B,(X,Y)C)ROOT;"},
		"unlabeled":       {"(,,(,));", "(,,(,));"},
		"only lengths":    {"(:0.1,:0.2);", "(:0.100000,:0.200000);"},
		"single node":     {"A;", "A;"},
		"blanks":          {" ( A , B\n)\tR : 2 ;", "(A,B)R:2.000000;"},
		"nested":          {"((X,Y)C)ROOT;", "((X,Y)C)ROOT;"},
		"negative length": {"(A:-1.5,B:2e-1);", "(A:-1.500000,B:0.200000);"},
	}

	for name, test := range tests {
		tr, err := newick.Parse(test.in)
		if err != nil {
			t.Errorf("%s: parse: %v", name, err)
			continue
		}
		if got := newick.String(tr); got != test.want {
			t.Errorf("%s: got %q, want %q", name, got, test.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"no terminal":    "(A,B)",
		"open":           "((A,B);",
		"close":          "(A,B));",
		"bad length":     "(A:x,B);",
		"missing length": "(A:,B);",
		"extra tokens":   "(A,B); C",
		"two labels":     "(A B,C);",
		"open as label":  "(A,B)(C);",
	}

	for name, in := range tests {
		_, err := newick.Parse(in)
		if err == nil {
			t.Errorf("%s: expecting error for %q", name, in)
			continue
		}
		if !errors.Is(err, newick.ErrSyntax) {
			t.Errorf("%s: got error %v, want %v", name, err, newick.ErrSyntax)
		}
	}
}

func TestRead(t *testing.T) {
	in := "(A,B,(X,Y)C)ROOT;\n(A,B,C)ROOT;\n"
	trees, err := newick.Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(trees) != 2 {
		t.Fatalf("read: got %d trees, want 2", len(trees))
	}

	var buf bytes.Buffer
	for _, tr := range trees {
		if err := newick.Write(&buf, tr); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if buf.String() != in {
		t.Errorf("write: got %q, want %q", buf.String(), in)
	}

	if _, err := newick.Read(strings.NewReader("(A,B);(C")); !errors.Is(err, newick.ErrSyntax) {
		t.Errorf("read: got error %v, want %v", err, newick.ErrSyntax)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []string{
		"((d1qbea_:0.597492,d1dwna_:0.632208):0.162939,(d1gav0_:0.526213,(d1unaa_:0.457107,d2iznb1:0.523093):0.043387));",
		"(((a:1,b:1)x:2,c:3)y:0.5,(d,e,f)z);",
		"(A:0,B:0.000001);",
	}

	for _, in := range tests {
		tr, err := newick.Parse(in)
		if err != nil {
			t.Errorf("parse %q: %v", in, err)
			continue
		}
		nt, err := newick.Parse(newick.String(tr))
		if err != nil {
			t.Errorf("parse string of %q: %v", in, err)
			continue
		}
		testEqual(t, in, tr, nt)
	}
}

func testEqual(t testing.TB, name string, want, got *etree.Tree) {
	t.Helper()

	if got.Label() != want.Label() {
		t.Errorf("%s: label: got %q, want %q", name, got.Label(), want.Label())
	}
	if got.HasLength() != want.HasLength() {
		t.Errorf("%s: node %q: length defined: got %v, want %v", name, want.Label(), got.HasLength(), want.HasLength())
	} else if want.HasLength() && math.Abs(got.BranchLength()-want.BranchLength()) > 1e-6 {
		t.Errorf("%s: node %q: length: got %.6f, want %.6f", name, want.Label(), got.BranchLength(), want.BranchLength())
	}
	if got.NumChildren() != want.NumChildren() {
		t.Errorf("%s: node %q: got %d children, want %d", name, want.Label(), got.NumChildren(), want.NumChildren())
		return
	}
	for i, c := range want.Children() {
		testEqual(t, name, c, got.Children()[i])
	}
}
