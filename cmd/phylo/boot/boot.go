// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package boot implements a command to score
// the support of a gene tree
// from a set of bootstrap trees.
package boot

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/js-arias/command"
	"github.com/js-arias/phylo/distmat"
	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/newick"
	"github.com/js-arias/phylo/phylogeny"
	"github.com/js-arias/phylo/project"
	"github.com/js-arias/phylo/recon"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `boot [--recon] [--plot <file>] [--cpu <number>]
	[-o|--output <file>] <project-file>`,
	Short: "score a gene tree with bootstrap trees",
	Long: `
Command boot reads the first gene tree and the bootstrap trees of a phylo
project, and scores the support of each node of the gene tree as the fraction
of bootstrap trees that have the same bipartition.

The argument of the command is the name of the project file.

The scored tree is written in Newick format, with the support of each
internal node as its label. By default the tree is written to the standard
output. Use the flag --output, or -o, to write the tree in a file.

If the flag --recon is used, the gene tree and the bootstrap trees are
reconciled with the species tree of the project, and a node is only supported
if the bootstrap bipartition is assigned to the same species. This requires a
species tree and a gene mapping file. All trees must be binary.

A summary of the support values is printed in the standard error. Use the
flag --plot to save a histogram of the support values in the indicated file
(the format is defined by the file extension, for example, "support.png").

By default, all available CPUs will be used in the scoring. Use the flag --cpu
to change the number of CPUs.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var withRecon bool
var plotFile string
var numCPU int
var output string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&withRecon, "recon", false, "")
	c.Flags().StringVar(&plotFile, "plot", "", "")
	c.Flags().IntVar(&numCPU, "cpu", runtime.GOMAXPROCS(0), "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if numCPU > 0 {
		runtime.GOMAXPROCS(numCPU)
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	genes, err := p.GeneTrees()
	if err != nil {
		return err
	}
	bs, err := p.Bootstraps()
	if err != nil {
		return err
	}

	var sp *etree.Tree
	var lm recon.LeafMap
	if withRecon {
		sp, err = p.SpeciesTree()
		if err != nil {
			return err
		}
		lm, err = p.LeafMap(sp)
		if err != nil {
			return err
		}
	}

	names := make([]string, 0, len(genes[0].Leaves()))
	for _, l := range genes[0].Leaves() {
		names = append(names, l.Label())
	}
	m := distmat.New(names)
	if m.Len() != len(names) {
		return fmt.Errorf("gene tree with repeated terminals")
	}

	ref, err := indexTree(genes[0], m, sp, lm)
	if err != nil {
		return fmt.Errorf("on gene tree: %v", err)
	}
	bts := make([]*phylogeny.Tree, 0, len(bs))
	for i, b := range bs {
		bt, err := indexTree(b, m, sp, lm)
		if err != nil {
			return fmt.Errorf("on bootstrap tree %d: %v", i, err)
		}
		bts = append(bts, bt)
	}

	var scored *phylogeny.Tree
	if withRecon {
		scored, err = ref.ScoreReconciliationFromBootstraps(bts)
	} else {
		scored, err = ref.ScoreFromBootstraps(bts)
	}
	if err != nil {
		return err
	}

	support := labelSupport(scored)
	if err := m.LabelLeaves(scored.Root()); err != nil {
		return err
	}
	summary(c.Stderr(), support, len(bts))

	if plotFile != "" {
		if err := supportPlot(support); err != nil {
			return err
		}
	}

	if output == "" {
		return newick.Write(c.Stdout(), scored.Root())
	}
	return writeTree(scored.Root())
}

// indexTree returns an indexed copy of a tree.
// If a species tree is given,
// the tree is also reconciled.
func indexTree(t *etree.Tree, m *distmat.Matrix, sp *etree.Tree, lm recon.LeafMap) (*phylogeny.Tree, error) {
	pt := phylogeny.New(t.Clone())
	if sp != nil {
		if err := recon.ReconcileBinary(pt, sp, lm, false); err != nil {
			return nil, err
		}
	}
	if err := m.IndexLeaves(pt.Root()); err != nil {
		return nil, err
	}
	if err := pt.AddIndexedInfo(); err != nil {
		return nil, err
	}
	if err := pt.SetLeavesBelow(m.Len()); err != nil {
		return nil, err
	}
	return pt, nil
}

// labelSupport sets the support as the label
// of the internal nodes
// and returns the support values.
func labelSupport(pt *phylogeny.Tree) []float64 {
	var support []float64
	for _, n := range pt.Root().Nodes() {
		if n.IsLeaf() || n == pt.Root() {
			continue
		}
		ix, err := pt.Index(n)
		if err != nil {
			continue
		}
		n.SetLabel(strconv.FormatFloat(ix.BootstrapSupport, 'f', 3, 64))
		support = append(support, ix.BootstrapSupport)
	}
	return support
}

func summary(w io.Writer, support []float64, trees int) {
	fmt.Fprintf(w, "# bootstrap trees: %d\n", trees)
	fmt.Fprintf(w, "# scored nodes: %d\n", len(support))
	if len(support) == 0 {
		return
	}

	sorted := slices.Clone(support)
	slices.Sort(sorted)
	fmt.Fprintf(w, "# mean support: %.3f\n", stat.Mean(sorted, nil))
	fmt.Fprintf(w, "# support quartiles: %.3f %.3f %.3f\n",
		stat.Quantile(0.25, stat.Empirical, sorted, nil),
		stat.Quantile(0.5, stat.Empirical, sorted, nil),
		stat.Quantile(0.75, stat.Empirical, sorted, nil),
	)
}

func supportPlot(support []float64) error {
	p := plot.New()
	p.X.Label.Text = "bootstrap support"
	p.Y.Label.Text = "nodes"
	p.X.Min = 0
	p.X.Max = 1

	h, err := plotter.NewHist(plotter.Values(support), 10)
	if err != nil {
		return fmt.Errorf("while building plot: %v", err)
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, plotFile); err != nil {
		return err
	}
	return nil
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
