// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package newick

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/js-arias/phylo/etree"
)

// String returns a tree as a Newick string,
// terminated with ';'.
func String(t *etree.Tree) string {
	var sb strings.Builder
	writeNode(&sb, t)
	sb.WriteString(terminal)
	return sb.String()
}

// Write writes a tree in Newick format
// followed by a new line.
func Write(w io.Writer, t *etree.Tree) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, t)
	bw.WriteString(terminal + "\n")
	return bw.Flush()
}

type stringWriter interface {
	WriteString(s string) (int, error)
}

func writeNode(w stringWriter, t *etree.Tree) {
	if !t.IsLeaf() {
		w.WriteString(descStart)
		for i, c := range t.Children() {
			if i > 0 {
				w.WriteString(descDelimiter)
			}
			writeNode(w, c)
		}
		w.WriteString(descEnd)
	}
	w.WriteString(t.Label())
	if t.HasLength() {
		w.WriteString(lengthStart)
		w.WriteString(strconv.FormatFloat(t.BranchLength(), 'f', 6, 64))
	}
}
