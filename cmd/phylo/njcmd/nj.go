// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package njcmd implements a command to build a gene tree
// using neighbor-joining.
package njcmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phylo/distmat"
	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/newick"
	"github.com/js-arias/phylo/nj"
	"github.com/js-arias/phylo/project"
	"github.com/js-arias/phylo/recon"
)

var Command = &command.Command{
	Usage: `nj [--outgroup <names>] [--guided] [--dup <cost>] [--loss <cost>]
	[-o|--output <file>] <project-file>`,
	Short: "build a gene tree with neighbor-joining",
	Long: `
Command nj reads a distance matrix from a phylo project and builds a gene tree
using neighbor-joining.

The argument of the command is the name of the project file.

By default, the tree is rooted at the midpoint of its longest branch. Use the
flag --outgroup with a list of sequence names, separated by commas, to root
the tree at the midpoint of the longest branch that ends in one of the
outgroups.

If the flag --guided is used, the tree is built from the similarity matrix of
the project, and each join is penalized by the number of duplications and
losses implied by the species of the joined sequences. This requires a
species tree, and a gene mapping file. The flag --dup sets the cost of a
duplication (default 1), and the flag --loss sets the cost of a loss (default
1). Guided trees are rooted at the midpoint of the last join.

By default, the tree will be stored in the gene tree file of the project. If
the project does not have a gene tree file, a new one will be created with the
name 'genetrees.nwk'. A different file can be defined with the flag --output,
or -o. The resulting file is set as the gene tree file of the project.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var outgroupFlag string
var guided bool
var dupCost float64
var lossCost float64
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&outgroupFlag, "outgroup", "", "")
	c.Flags().BoolVar(&guided, "guided", false, "")
	c.Flags().Float64Var(&dupCost, "dup", 1, "")
	c.Flags().Float64Var(&lossCost, "loss", 1, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	var t *etree.Tree
	if guided {
		t, err = guidedTree(p)
	} else {
		t, err = joinTree(p)
	}
	if err != nil {
		return err
	}

	if output == "" {
		output = p.Path(project.GeneTrees)
		if output == "" {
			output = "genetrees.nwk"
		}
	}
	if err := writeTree(t); err != nil {
		return err
	}
	fmt.Fprintf(c.Stderr(), "# tree with %d terminals written to %q\n", len(t.Leaves()), output)

	p.Add(project.GeneTrees, output)
	if err := p.Write(); err != nil {
		return err
	}
	return nil
}

func joinTree(p *project.Project) (*etree.Tree, error) {
	m, err := p.Distances()
	if err != nil {
		return nil, err
	}

	var out []int
	if outgroupFlag != "" {
		for _, o := range strings.Split(outgroupFlag, ",") {
			o = strings.TrimSpace(o)
			if o == "" {
				continue
			}
			i, ok := m.Index(o)
			if !ok {
				return nil, fmt.Errorf("outgroup %q not in distance matrix", o)
			}
			out = append(out, i)
		}
	}

	m.Symmetric()
	t, err := nj.Join(m.Dense(), out)
	if err != nil {
		return nil, err
	}
	if err := m.LabelLeaves(t); err != nil {
		return nil, err
	}
	return t, nil
}

func guidedTree(p *project.Project) (*etree.Tree, error) {
	sim, err := p.Similarity()
	if err != nil {
		return nil, err
	}
	sp, err := p.SpeciesTree()
	if err != nil {
		return nil, err
	}
	lm, err := p.LeafMap(sp)
	if err != nil {
		return nil, err
	}

	jc, err := recon.ComputeJoinCosts(sp, dupCost, lossCost)
	if err != nil {
		return nil, fmt.Errorf("on species tree %q: %v", p.Path(project.Species), err)
	}
	species, err := leafSpecies(sim, lm, jc)
	if err != nil {
		return nil, err
	}

	t, err := nj.Guided(sim.Dense(), jc, species)
	if err != nil {
		return nil, err
	}
	if err := sim.LabelLeaves(t); err != nil {
		return nil, err
	}
	return t, nil
}

func leafSpecies(m *distmat.Matrix, lm recon.LeafMap, jc *recon.JoinCosts) ([]int, error) {
	names := m.Names()
	species := make([]int, len(names))
	for i, n := range names {
		s, ok := lm[n]
		if !ok {
			return nil, fmt.Errorf("sequence %q: %w", n, recon.ErrUnmapped)
		}
		species[i] = jc.Index[s]
	}
	return species, nil
}

func writeTree(t *etree.Tree) (err error) {
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := newick.Write(f, t); err != nil {
		return fmt.Errorf("while writing to %q: %v", output, err)
	}
	return nil
}
