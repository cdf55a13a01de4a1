// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package importcmd implements a command to import
// time calibrated trees as gene trees.
package importcmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/newick"
	"github.com/js-arias/phylo/project"
	"github.com/js-arias/timetree"
)

var Command = &command.Command{
	Usage: `import [--scale <value>] [-o|--output <file>]
	<project-file> <timetree-file>`,
	Short: "import time trees as gene trees",
	Long: `
Command import reads a file with a collection of time calibrated trees, and
adds them as gene trees of a phylo project. If the project does not exist, it
will be created.

The first argument of the command is the name of the project file. The second
argument is the time tree file, a tab-delimited file as used by the timetree
package (https://github.com/js-arias/timetree).

The time tree file will be also set as the time trees of the project.

Branch lengths are the age differences between nodes. By default, ages are
scaled to million years. Use the flag --scale to define a different scale (for
example, use --scale 1 to use years).

By default, the gene trees will be written in the file "genetrees.nwk" or, if
the project already has a gene tree file, in that file. Use the flag --output,
or -o, to define a different file name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var scale float64
var output string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&scale, "scale", 1_000_000, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if len(args) < 2 {
		return c.UsageError("expecting time tree file")
	}
	if scale <= 0 {
		return fmt.Errorf("invalid scale value %.6f", scale)
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	coll, err := readTimeTrees(args[1])
	if err != nil {
		return err
	}

	ts := make([]*etree.Tree, 0, len(coll.Names()))
	for _, tn := range coll.Names() {
		ts = append(ts, etree.FromTimeTree(coll.Tree(tn), scale))
	}
	if len(ts) == 0 {
		return fmt.Errorf("file %q: without trees", args[1])
	}

	if output == "" {
		output = p.Path(project.GeneTrees)
		if output == "" {
			output = "genetrees.nwk"
		}
	}
	if err := writeTrees(output, ts); err != nil {
		return err
	}
	fmt.Fprintf(c.Stderr(), "# imported trees: %d\n", len(ts))

	p.Add(project.GeneTrees, output)
	p.Add(project.TimeTrees, args[1])
	if err := p.Write(); err != nil {
		return err
	}
	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}

func readTimeTrees(name string) (*timetree.Collection, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := timetree.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return c, nil
}

func writeTrees(name string, ts []*etree.Tree) (err error) {
	f, err := os.Create(name)
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
			return fmt.Errorf("while writing to %q: %v", name, err)
		}
	}
	return nil
}
