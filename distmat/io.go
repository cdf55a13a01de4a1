// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package distmat

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type cell struct {
	row, col string
	v        float64
}

// ReadTSV reads a matrix from a TSV file.
// Cells not in the file are set to 0.
//
// The TSV file must contain the following fields:
//
//   - row, the name of the row sequence
//   - col, the name of the column sequence
//   - value, the value of the cell
//
// Here is an example file:
//
//	row	col	value
//	hba_mouse	hba_human	0.120000
//	hbb_human	hba_human	0.540000
//	hbb_human	hba_mouse	0.560000
func ReadTSV(r io.Reader) (*Matrix, error) {
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
	for _, h := range []string{"row", "col", "value"} {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	var cells []cell
	var names []string
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "row"
		rn := strings.TrimSpace(row[fields[f]])
		if rn == "" {
			continue
		}

		f = "col"
		cn := strings.TrimSpace(row[fields[f]])
		if cn == "" {
			continue
		}

		f = "value"
		v, err := strconv.ParseFloat(row[fields[f]], 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		cells = append(cells, cell{row: rn, col: cn, v: v})
		names = append(names, rn, cn)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("empty matrix")
	}

	m := New(names)
	for _, c := range cells {
		m.Set(c.row, c.col, c.v)
	}
	return m, nil
}

// TSV writes a matrix as a TSV file.
// Cells in the diagonal are ignored.
func (m *Matrix) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := []string{"row", "col", "value"}
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for i, rn := range m.names {
		for j, cn := range m.names {
			if i == j {
				continue
			}
			row := []string{
				rn,
				cn,
				strconv.FormatFloat(m.m.At(i, j), 'f', 6, 64),
			}
			if err := tab.Write(row); err != nil {
				return fmt.Errorf("when writing data: %v", err)
			}
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
