// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// the basic information of a project.
package prj

import (
	"fmt"
	"io"
	"math"

	"github.com/js-arias/command"
	"github.com/js-arias/phylo/distmat"
	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/project"
)

var Command = &command.Command{
	Usage: "prj <project-file>",
	Short: "print information about a project",
	Long: `
Command prj reads a phylo project and prints the information of the different
project elements into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
}

// millionYears is used to scale time tree ages.
const millionYears = 1_000_000

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	w := c.Stdout()

	if p.Path(project.GeneTrees) != "" {
		ts, err := p.GeneTrees()
		if err != nil {
			return err
		}
		printTrees(w, "Gene trees", p.Path(project.GeneTrees), ts)
	}

	var species *etree.Tree
	if p.Path(project.Species) != "" {
		species, err = p.SpeciesTree()
		if err != nil {
			return err
		}
		printTrees(w, "Species tree", p.Path(project.Species), []*etree.Tree{species})
	}

	for _, set := range []project.Dataset{project.Distances, project.Similarity} {
		if p.Path(set) == "" {
			continue
		}
		m, err := readMatrix(p, set)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Matrix of %s:\n", set)
		fmt.Fprintf(w, "\tfile: %s\n", p.Path(set))
		fmt.Fprintf(w, "\tsequences: %d\n", m.Len())
		fmt.Fprintf(w, "\n")
	}

	if p.Path(project.Mapping) != "" && species != nil {
		lm, err := p.LeafMap(species)
		if err != nil {
			return err
		}
		sp := make(map[*etree.Tree]bool)
		for _, s := range lm {
			sp[s] = true
		}
		fmt.Fprintf(w, "Gene mapping:\n")
		fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.Mapping))
		fmt.Fprintf(w, "\tgenes: %d\n", len(lm))
		fmt.Fprintf(w, "\tspecies: %d\n", len(sp))
		fmt.Fprintf(w, "\n")
	}

	if p.Path(project.Bootstrap) != "" {
		ts, err := p.Bootstraps()
		if err != nil {
			return err
		}
		printTrees(w, "Bootstrap trees", p.Path(project.Bootstrap), ts)
	}

	if p.Path(project.TimeTrees) != "" {
		if err := printTimeTrees(w, p); err != nil {
			return err
		}
	}

	return nil
}

func readMatrix(p *project.Project, set project.Dataset) (*distmat.Matrix, error) {
	if set == project.Similarity {
		return p.Similarity()
	}
	return p.Distances()
}

func printTrees(w io.Writer, title, name string, ts []*etree.Tree) {
	fmt.Fprintf(w, "%s:\n", title)
	fmt.Fprintf(w, "\tfile: %s\n", name)

	terms := make(map[string]bool)
	binary := 0
	for _, t := range ts {
		for _, l := range t.Leaves() {
			terms[l.Label()] = true
		}
		if t.IsBinary() {
			binary++
		}
	}
	fmt.Fprintf(w, "\ttrees: %d\n", len(ts))
	fmt.Fprintf(w, "\tbinary trees: %d\n", binary)
	fmt.Fprintf(w, "\tterminals: %d\n", len(terms))
	fmt.Fprintf(w, "\n")
}

func printTimeTrees(w io.Writer, p *project.Project) error {
	c, err := p.TimeTrees()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Time trees:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.TimeTrees))

	terms := make(map[string]bool)
	minAge := math.MaxFloat64
	var maxAge float64
	for _, tn := range c.Names() {
		t := c.Tree(tn)
		if t == nil {
			continue
		}
		ra := float64(t.Age(t.Root())) / millionYears
		if ra > maxAge {
			maxAge = ra
		}

		for _, tax := range t.Terms() {
			terms[tax] = true
			id, ok := t.TaxNode(tax)
			if !ok {
				continue
			}
			ta := float64(t.Age(id)) / millionYears
			if ta < minAge {
				minAge = ta
			}
		}
	}
	fmt.Fprintf(w, "\ttrees: %d\n", len(c.Names()))
	fmt.Fprintf(w, "\tterminals: %d\n", len(terms))
	fmt.Fprintf(w, "\tage range: %.3f-%.3f Ma\n", minAge, maxAge)
	fmt.Fprintf(w, "\n")

	return nil
}
