// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package draw

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/js-arias/blind"
	"github.com/js-arias/phylo/newick"
)

func TestCopyTree(t *testing.T) {
	tests := map[string]struct {
		tree   string
		leaves []float64
	}{
		"with lengths": {
			tree:   "((a:1,b:1)0.5:1,c:2);",
			leaves: []float64{610, 610, 610},
		},
		"without lengths": {
			tree:   "((a,b),c);",
			leaves: []float64{610, 610, 310},
		},
	}

	for name, test := range tests {
		tr, err := newick.Parse(test.tree)
		if err != nil {
			t.Fatalf("%s: parse: %v", name, err)
		}
		s := copyTree(tr)

		if s.root.x != 10 {
			t.Errorf("%s: root x: got %.3f, want %.3f", name, s.root.x, 10.0)
		}
		if s.y != 36 {
			t.Errorf("%s: height: got %d, want %d", name, s.y, 36)
		}
		if s.taxSz != 1 {
			t.Errorf("%s: taxon size: got %d, want %d", name, s.taxSz, 1)
		}

		var leaves []*node
		var collect func(n *node)
		collect = func(n *node) {
			if n.desc == nil {
				leaves = append(leaves, n)
			}
			for _, d := range n.desc {
				collect(d)
			}
		}
		collect(s.root)
		for i, l := range leaves {
			if l.x != test.leaves[i] {
				t.Errorf("%s: leaf %s: x: got %.3f, want %.3f", name, l.tax, l.x, test.leaves[i])
			}
			if want := i*yStep + 5; l.y != want {
				t.Errorf("%s: leaf %s: y: got %d, want %d", name, l.tax, l.y, want)
			}
		}
	}
}

func TestSupportColor(t *testing.T) {
	tr, err := newick.Parse("((a:1,b:1)0.5:1,c:2);")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := copyTree(tr)

	ab := s.root.desc[0]
	if got, want := ab.color, blind.Sequential(blind.Iridescent, 0.5); got != want {
		t.Errorf("support 0.5: got %v, want %v", got, want)
	}
	if got, want := s.root.color, (color.RGBA{0, 0, 0, 255}); got != want {
		t.Errorf("without support: got %v, want %v", got, want)
	}
	if got, want := supportColor(2), blind.Sequential(blind.Iridescent, 1); got != want {
		t.Errorf("support 2: got %v, want %v", got, want)
	}

	var buf bytes.Buffer
	if err := s.draw(&buf); err != nil {
		t.Fatalf("draw: %v", err)
	}
	out := buf.String()
	for _, w := range []string{"<svg", ">a</text>", ">c</text>", "<line"} {
		if !strings.Contains(out, w) {
			t.Errorf("draw: output without %q", w)
		}
	}
}
