// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package draw

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/js-arias/blind"
	"github.com/js-arias/phylo/etree"
)

const yStep = 12

// treeWidth is the width in pixels of the tree
// (without terminal labels).
const treeWidth = 600

type node struct {
	x     float64
	y     int
	topY  int
	botY  int
	color color.Color

	tax   string
	depth float64

	anc  *node
	desc []*node
}

type svgTree struct {
	y     int
	x     float64
	taxSz int
	root  *node
}

// copyTree prepares a tree for drawing.
// If any branch does not have a length
// all branches are drawn with the same length.
func copyTree(t *etree.Tree) svgTree {
	useLen := true
	for _, n := range t.Nodes() {
		if n != t && !n.HasLength() {
			useLen = false
			break
		}
	}

	s := svgTree{}
	s.root = s.copyNode(t, nil, useLen)

	maxDepth := 0.0
	for _, n := range t.Leaves() {
		var d float64
		for p := n; p != t; p = p.Parent() {
			d += brLen(p, useLen)
		}
		maxDepth = math.Max(maxDepth, d)
	}
	xStep := 1.0
	if maxDepth > 0 {
		xStep = treeWidth / maxDepth
	}

	s.prepare(s.root, xStep)
	s.y = s.y * yStep
	return s
}

func brLen(n *etree.Tree, useLen bool) float64 {
	if useLen {
		return n.BranchLength()
	}
	return 1
}

func (s *svgTree) copyNode(t *etree.Tree, anc *node, useLen bool) *node {
	n := &node{
		anc:   anc,
		color: color.RGBA{0, 0, 0, 255},
	}
	if anc != nil {
		n.depth = anc.depth + brLen(t, useLen)
	}
	if t.IsLeaf() {
		n.tax = t.Label()
		if len(n.tax) > s.taxSz {
			s.taxSz = len(n.tax)
		}
	} else if v, err := strconv.ParseFloat(t.Label(), 64); err == nil {
		n.color = supportColor(v)
	}

	for _, c := range t.Children() {
		n.desc = append(n.desc, s.copyNode(c, n, useLen))
	}
	return n
}

// supportColor returns the color of a support value.
func supportColor(v float64) color.Color {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return blind.Sequential(blind.Iridescent, v)
}

func (s *svgTree) prepare(n *node, xStep float64) {
	n.x = n.depth*xStep + 10
	if s.x < n.x {
		s.x = n.x
	}

	if n.desc == nil {
		n.y = s.y*yStep + 5
		s.y += 1
		return
	}

	botY := 0
	topY := math.MaxInt
	for _, d := range n.desc {
		s.prepare(d, xStep)
		if d.y < topY {
			topY = d.y
		}
		if d.y > botY {
			botY = d.y
		}
	}
	n.topY = topY
	n.botY = botY
	n.y = topY + (botY-topY)/2
}

func (s *svgTree) draw(w io.Writer) error {
	fmt.Fprintf(w, "%s", xml.Header)
	e := xml.NewEncoder(w)
	svg := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "height"}, Value: strconv.Itoa(s.y + 5)},
			// assume that each character has 6 pixels wide
			{Name: xml.Name{Local: "width"}, Value: strconv.Itoa(int(s.x) + s.taxSz*6 + 20)},
			{Name: xml.Name{Local: "xmlns"}, Value: "http://www.w3.org/2000/svg"},
		},
	}
	e.EncodeToken(svg)

	g := xml.StartElement{
		Name: xml.Name{Local: "g"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "stroke-width"}, Value: "2"},
			{Name: xml.Name{Local: "stroke"}, Value: "black"},
			{Name: xml.Name{Local: "stroke-linecap"}, Value: "round"},
			{Name: xml.Name{Local: "font-family"}, Value: "Verdana"},
			{Name: xml.Name{Local: "font-size"}, Value: "10"},
		},
	}
	e.EncodeToken(g)

	s.root.draw(e)
	s.root.label(e)

	e.EncodeToken(g.End())
	e.EncodeToken(svg.End())
	if err := e.Flush(); err != nil {
		return err
	}
	return nil
}

func (n node) draw(e *xml.Encoder) {
	r, g, b, _ := n.color.RGBA()
	rgb := fmt.Sprintf("rgb(%d,%d,%d)", r>>8, g>>8, b>>8)

	// horizontal line
	ln := xml.StartElement{
		Name: xml.Name{Local: "line"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "x1"}, Value: strconv.Itoa(int(n.x - 5))},
			{Name: xml.Name{Local: "y1"}, Value: strconv.Itoa(n.y)},
			{Name: xml.Name{Local: "x2"}, Value: strconv.Itoa(int(n.x))},
			{Name: xml.Name{Local: "y2"}, Value: strconv.Itoa(n.y)},
			{Name: xml.Name{Local: "stroke"}, Value: rgb},
		},
	}
	if n.anc != nil {
		ln.Attr[0].Value = strconv.Itoa(int(n.anc.x))
	}
	e.EncodeToken(ln)
	e.EncodeToken(ln.End())

	if n.desc == nil {
		return
	}

	// vertical line
	ln.Attr[0].Value = ln.Attr[2].Value
	ln.Attr[1].Value = strconv.Itoa(n.topY)
	ln.Attr[3].Value = strconv.Itoa(n.botY)
	e.EncodeToken(ln)
	e.EncodeToken(ln.End())

	for _, d := range n.desc {
		d.draw(e)
	}
}

func (n node) label(e *xml.Encoder) {
	if n.desc == nil {
		tx := xml.StartElement{
			Name: xml.Name{Local: "text"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "x"}, Value: strconv.Itoa(int(n.x + 10))},
				{Name: xml.Name{Local: "y"}, Value: strconv.Itoa(n.y + 5)},
				{Name: xml.Name{Local: "stroke-width"}, Value: "0"},
			},
		}
		e.EncodeToken(tx)
		e.EncodeToken(xml.CharData(n.tax))
		e.EncodeToken(tx.End())
	}

	for _, d := range n.desc {
		d.label(e)
	}
}
