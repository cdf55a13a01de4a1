// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package draw implements a command to draw
// gene trees as SVG files.
package draw

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/phylo/project"
)

var Command = &command.Command{
	Usage: `draw [-o|--output <prefix>] [-i|--input <file>]
	<project-file>`,
	Short: "draw gene trees as SVG files",
	Long: `
Command draw reads the gene trees of a phylo project and draws each tree as an
SVG file.

The argument of the command is the name of the project file.

If the internal nodes of a tree are labeled with support values (for example,
the trees written by 'phylo boot'), the branches are colored by its support.

By default, the gene trees of the project are drawn. Use the flag --input, or
-i, to draw the trees of a different Newick file.

By default, the files are named "tree-<number>.svg". Use the flag --output, or
-o, to define a different prefix for the file names.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var output string
var input string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&output, "output", "tree", "")
	c.Flags().StringVar(&output, "o", "tree", "")
	c.Flags().StringVar(&input, "input", "", "")
	c.Flags().StringVar(&input, "i", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	if input != "" {
		p.Add(project.GeneTrees, input)
	}
	ts, err := p.GeneTrees()
	if err != nil {
		return err
	}

	for i, t := range ts {
		name := fmt.Sprintf("%s-%d.svg", output, i)
		if err := writeSVGTree(name, copyTree(t)); err != nil {
			return err
		}
		fmt.Fprintf(c.Stderr(), "# tree %d: %s\n", i, name)
	}
	return nil
}

func writeSVGTree(name string, t svgTree) (err error) {
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

	if err := t.draw(f); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}
