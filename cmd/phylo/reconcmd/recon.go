// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package reconcmd implements a command to reconcile
// gene trees with a species tree.
package reconcmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/newick"
	"github.com/js-arias/phylo/phylogeny"
	"github.com/js-arias/phylo/project"
	"github.com/js-arias/phylo/recon"
)

var Command = &command.Command{
	Usage: `recon [--reroot] [--atmost] [--relabel]
	[-o|--output <file>] <project-file>`,
	Short: "reconcile gene trees with a species tree",
	Long: `
Command recon reads the gene trees, the species tree, and the gene mapping of a
phylo project, and reconciles each gene tree with the species tree.

The argument of the command is the name of the project file.

The reconciliation is printed in the standard output as a tab-delimited file
with the following columns:

	- tree     the index of the gene tree in the gene tree file
	- node     the index of the node in the tree (in pre-order)
	- label    the label of the node
	- species  the species node assigned to the gene node. Unlabeled
	           species nodes are identified by its pre-order index in
	           the species tree (e.g., "n3")
	- event    the event of the node: "duplication", "speciation", or
	           "leaf"

The number of duplications and losses of each tree is printed in the standard
error.

By default, gene trees and the species tree must be binary. Use the flag
--atmost to reconcile gene trees with multifurcations.

If the flag --reroot is used, each gene tree will be rerooted at the branch
that minimizes the number of duplications (and then the number of
duplications and losses).

If the flag --relabel is used, the internal nodes of the gene trees will be
labeled with the label of the assigned species.

Use the flag --output, or -o, to write the reconciled gene trees in Newick
format in the indicated file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var reroot bool
var atMost bool
var relabel bool
var output string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&reroot, "reroot", false, "")
	c.Flags().BoolVar(&atMost, "atmost", false, "")
	c.Flags().BoolVar(&relabel, "relabel", false, "")
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
	genes, err := p.GeneTrees()
	if err != nil {
		return err
	}
	sp, err := p.SpeciesTree()
	if err != nil {
		return err
	}
	lm, err := p.LeafMap(sp)
	if err != nil {
		return err
	}

	spID := make(map[*etree.Tree]int)
	for i, n := range sp.Nodes() {
		spID[n] = i
	}

	tsv, err := outHeader(c.Stdout(), args[0])
	if err != nil {
		return err
	}

	var totDups, totLosses int
	reconciled := make([]*etree.Tree, 0, len(genes))
	for i, g := range genes {
		pt, err := reconcile(g, sp, lm)
		if err != nil {
			return fmt.Errorf("on gene tree %d: %v", i, err)
		}
		var dups, losses int
		if atMost {
			dups, losses, err = recon.CostAtMostBinary(pt)
		} else {
			dups, losses, err = recon.CostBinary(pt.Root(), sp, lm)
		}
		if err != nil {
			return fmt.Errorf("on gene tree %d: %v", i, err)
		}
		fmt.Fprintf(c.Stderr(), "# tree %d: duplications %d, losses %d\n", i, dups, losses)
		totDups += dups
		totLosses += losses

		if err := writeRecon(tsv, i, pt, spID); err != nil {
			return err
		}
		reconciled = append(reconciled, pt.Root())
	}
	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	fmt.Fprintf(c.Stderr(), "# total: duplications %d, losses %d\n", totDups, totLosses)

	if output != "" {
		if err := writeTrees(reconciled); err != nil {
			return err
		}
	}
	return nil
}

func reconcile(g, sp *etree.Tree, lm recon.LeafMap) (*phylogeny.Tree, error) {
	if reroot {
		var pt *phylogeny.Tree
		var err error
		if atMost {
			pt, err = recon.RootAndReconcileAtMostBinary(g, lm)
		} else {
			pt, err = recon.RootAndReconcileBinary(g, sp, lm)
		}
		if err != nil {
			return nil, err
		}
		if relabel {
			// set labels to the species
			if atMost {
				err = recon.ReconcileAtMostBinary(pt, lm, true)
			} else {
				err = recon.ReconcileBinary(pt, sp, lm, true)
			}
		}
		return pt, err
	}

	pt := phylogeny.New(g)
	if atMost {
		if err := recon.ReconcileAtMostBinary(pt, lm, relabel); err != nil {
			return nil, err
		}
		return pt, nil
	}
	if err := recon.ReconcileBinary(pt, sp, lm, relabel); err != nil {
		return nil, err
	}
	return pt, nil
}

func outHeader(w io.Writer, p string) (*csv.Writer, error) {
	fmt.Fprintf(w, "# reconciled gene trees of project %q\n", p)
	fmt.Fprintf(w, "# date: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = true
	if err := tsv.Write([]string{"tree", "node", "label", "species", "event"}); err != nil {
		return nil, err
	}
	return tsv, nil
}

func writeRecon(tsv *csv.Writer, tree int, pt *phylogeny.Tree, spID map[*etree.Tree]int) error {
	tv := strconv.Itoa(tree)
	for i, n := range pt.Root().Nodes() {
		r := pt.Recon(n)
		if r == nil {
			continue
		}
		sp := r.Species.Label()
		if sp == "" {
			sp = "n" + strconv.Itoa(spID[r.Species])
		}
		row := []string{
			tv,
			strconv.Itoa(i),
			n.Label(),
			sp,
			r.Event.String(),
		}
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("while writing data: %v", err)
		}
	}
	return nil
}

func writeTrees(ts []*etree.Tree) (err error) {
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

	for _, t := range ts {
		if err := newick.Write(f, t); err != nil {
			return fmt.Errorf("while writing to %q: %v", output, err)
		}
	}
	return nil
}
