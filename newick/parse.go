// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package newick

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/js-arias/phylo/etree"
)

// ErrSyntax is the error wrapped by any grammar error
// found when parsing a Newick tree.
var ErrSyntax = errors.New("newick syntax error")

const (
	descStart     = "("
	descEnd       = ")"
	descDelimiter = ","
	lengthStart   = ":"
	terminal      = ";"
)

// spacer inserts blanks around structural characters
// so each one becomes an independent token.
var spacer = strings.NewReplacer(
	descStart, " ( ",
	descEnd, " ) ",
	lengthStart, " : ",
	descDelimiter, " , ",
	terminal, " ; ",
)

type parser struct {
	tokens []string
	pos    int
}

func newParser(s string) *parser {
	return &parser{
		tokens: strings.Fields(spacer.Replace(s)),
	}
}

// Parse parses a single tree
// from a string terminated by ';'.
func Parse(s string) (*etree.Tree, error) {
	p := newParser(s)
	if p.done() {
		return nil, p.errorf("expecting a tree")
	}

	t, err := p.tree()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.errorf("unexpected token after the end of the tree")
	}
	return t, nil
}

// Read reads all the trees from a Newick formatted input.
// The first error that occurs is returned with no trees.
func Read(r io.Reader) ([]*etree.Tree, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := newParser(string(b))
	var trees []*etree.Tree
	for !p.done() {
		t, err := p.tree()
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", len(trees)+1, err)
		}
		trees = append(trees, t)
	}
	return trees, nil
}

func (p *parser) done() bool {
	return p.pos >= len(p.tokens)
}

// token returns the current token,
// or an empty string
// if the input is exhausted.
func (p *parser) token() string {
	if p.done() {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *parser) next() {
	p.pos++
}

func (p *parser) errorf(format string, v ...any) error {
	msg := fmt.Sprintf(format, v...)
	if p.done() {
		return fmt.Errorf("at end of input: %s: %w", msg, ErrSyntax)
	}
	return fmt.Errorf("on token %d %q: %s: %w", p.pos+1, p.token(), msg, ErrSyntax)
}

func (p *parser) tree() (*etree.Tree, error) {
	t, err := p.subtree()
	if err != nil {
		return nil, err
	}
	if p.token() != terminal {
		return nil, p.errorf("expecting %q", terminal)
	}
	p.next()
	return t, nil
}

func (p *parser) subtree() (*etree.Tree, error) {
	t := etree.New()
	if p.token() == descStart {
		p.next()
	children:
		for {
			c, err := p.subtree()
			if err != nil {
				return nil, err
			}
			if err := c.SetParent(t); err != nil {
				return nil, err
			}

			switch p.token() {
			case descDelimiter:
				p.next()
			case descEnd:
				p.next()
				break children
			default:
				// for every opening parenthesis
				// there must be a closing parenthesis
				return nil, p.errorf("expecting %q or %q", descDelimiter, descEnd)
			}
		}
	}

	if isLabel(p.token()) {
		t.SetLabel(p.token())
		p.next()
	}

	if p.token() == lengthStart {
		p.next()
		if p.done() {
			return nil, p.errorf("expecting a branch length")
		}
		v, err := strconv.ParseFloat(p.token(), 64)
		if err != nil {
			return nil, p.errorf("invalid branch length")
		}
		t.SetBranchLength(v)
		p.next()
	}

	switch p.token() {
	case descDelimiter, descEnd, terminal:
		return t, nil
	}
	return nil, p.errorf("expecting %q, %q, or %q", descDelimiter, descEnd, terminal)
}

func isLabel(tk string) bool {
	switch tk {
	case "", descStart, descEnd, descDelimiter, lengthStart, terminal:
		return false
	}
	return true
}
