// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package recon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/js-arias/phylo/etree"
	"golang.org/x/exp/slices"
)

// ReadLeafMap reads the species of each gene leaf
// from a TSV file.
// Species are searched by label
// in the leaves of the species tree.
//
// The TSV file must contain the following fields:
//
//   - gene, the label of a gene leaf
//   - species, the label of a species
//
// Here is an example file:
//
//	gene	species
//	hba_human	human
//	hbb_human	human
//	hba_mouse	mouse
func ReadLeafMap(r io.Reader, species *etree.Tree) (LeafMap, error) {
	sp := make(map[string]*etree.Tree)
	for _, l := range species.Leaves() {
		if l.Label() == "" {
			continue
		}
		sp[l.Label()] = l
	}

	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range []string{"gene", "species"} {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	lm := make(LeafMap)
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "gene"
		gene := strings.TrimSpace(row[fields[f]])
		if gene == "" {
			continue
		}

		f = "species"
		name := strings.TrimSpace(row[fields[f]])
		s, ok := sp[name]
		if !ok {
			return nil, fmt.Errorf("on row %d: field %q: species %q: %w", ln, f, name, ErrNotSpecies)
		}
		if prev, ok := lm[gene]; ok && prev != s {
			return nil, fmt.Errorf("on row %d: gene %q: assigned to %q and %q", ln, gene, prev.Label(), name)
		}
		lm[gene] = s
	}
	return lm, nil
}

// TSV writes a leaf map as a TSV file.
func (lm LeafMap) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := []string{"gene", "species"}
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	genes := make([]string, 0, len(lm))
	for g := range lm {
		genes = append(genes, g)
	}
	slices.Sort(genes)

	for _, g := range genes {
		row := []string{
			g,
			lm[g].Label(),
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
