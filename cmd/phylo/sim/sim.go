// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sim implements a command to simulate
// random gene trees.
package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/newick"
	"github.com/js-arias/phylo/project"
	"github.com/js-arias/timetree"
	"github.com/js-arias/timetree/simulate"
)

var Command = &command.Command{
	Usage: `sim [-o|--output <prefix>] [--trees <number>]
	[--terms <range>] --age <range> [<project-file>]`,
	Short: "simulate random trees",
	Long: `
Command sim creates one or more random trees using a Yule process.

The flag --age is required and provides the range of the root age, in million
years. The range can be a single number (all simulations will have the same
age) or a range separated by a comma; for example, "10,50" will simulate trees
selecting root ages between 50 and 10 million years.

By default, 100 trees will be created. Use the flag --trees to define a
different number of trees.

By default, each tree will have between 10 and 20 terminals. Use the flag
--terms to define a range. The range can be a single number (all simulated
trees will have the indicated number of terminals) or a range separated by a
comma; for example, "10,20" defines the default range.

Trees will be simulated with the speciation rate defined as
spRate = (ln(terms) - ln(2)) / rootAge.

The trees are written in Newick format, with branch lengths in million years,
in the file "<prefix>.nwk", and as a time tree collection in the file
"<prefix>-timetree.tab". By default the prefix is "sim". Use the flag
--output, or -o, to define a different prefix.

If a project file is given, the simulated trees will be set as the gene trees
and the time trees of the project. If the project does not exist, it will be
created.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var output string
var ageFlag string
var termFlag string
var numTrees int

func setFlags(c *command.Command) {
	c.Flags().StringVar(&output, "output", "sim", "")
	c.Flags().StringVar(&output, "o", "sim", "")
	c.Flags().StringVar(&ageFlag, "age", "", "")
	c.Flags().StringVar(&termFlag, "terms", "10,20", "")
	c.Flags().IntVar(&numTrees, "trees", 100, "")
}

const millionYears = 1_000_000

func run(c *command.Command, args []string) error {
	if ageFlag == "" {
		return c.UsageError("flag --age undefined")
	}

	minA, maxA, err := parseFloatRange(ageFlag)
	if err != nil {
		return err
	}
	if minA <= 0 {
		return fmt.Errorf("invalid age range %q: ages must be positive", ageFlag)
	}
	minAge := int64(minA * millionYears)
	maxAge := int64(maxA * millionYears)

	minTerm, maxTerm, err := parseIntRange(termFlag)
	if err != nil {
		return err
	}
	if minTerm < 2 {
		return fmt.Errorf("invalid terminal range %q: expecting at least 2 terminals", termFlag)
	}

	coll := simulateTrees(minAge, maxAge, minTerm, maxTerm)

	treeFile := output + ".nwk"
	if err := writeNewick(treeFile, coll); err != nil {
		return err
	}
	timeFile := output + "-timetree.tab"
	if err := writeTimeTrees(timeFile, coll); err != nil {
		return err
	}
	fmt.Fprintf(c.Stderr(), "# simulated trees: %d\n", len(coll.Names()))

	if len(args) == 0 {
		return nil
	}
	p, err := openProject(args[0])
	if err != nil {
		return err
	}
	p.Add(project.GeneTrees, treeFile)
	p.Add(project.TimeTrees, timeFile)
	if err := p.Write(); err != nil {
		return err
	}
	return nil
}

func simulateTrees(minAge, maxAge int64, minTerm, maxTerm int) *timetree.Collection {
	avgTerm := minTerm + (maxTerm-minTerm)/2

	coll := timetree.NewCollection()
	for i := 0; i < numTrees; i++ {
		name := fmt.Sprintf("random-%d", i)

		var t *timetree.Tree
		for {
			root := maxAge
			if d := maxAge - minAge; d > 0 {
				root = rand.Int64N(d) + minAge
			}

			spRate := (math.Log(float64(avgTerm)) - math.Log(2)) / (float64(root) / millionYears)
			var ok bool
			t, ok = simulate.Yule(name, spRate, root, maxTerm*2)
			if !ok {
				continue
			}
			if tm := len(t.Terms()); tm >= minTerm && tm <= maxTerm {
				break
			}
		}
		t.Format()
		coll.Add(t)
	}
	return coll
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

func writeNewick(name string, coll *timetree.Collection) (err error) {
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

	for _, tn := range coll.Names() {
		t := etree.FromTimeTree(coll.Tree(tn), millionYears)
		if err := newick.Write(f, t); err != nil {
			return fmt.Errorf("while writing to %q: %v", name, err)
		}
	}
	return nil
}

func writeTimeTrees(name string, coll *timetree.Collection) (err error) {
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

	if err := coll.TSV(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	return nil
}

func parseFloatRange(s string) (lo, hi float64, err error) {
	f := strings.Split(s, ",")
	if len(f) == 1 {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range %q: %v", s, err)
		}
		return v, v, nil
	}
	if len(f) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q: expecting two values", s)
	}

	lo, err = strconv.ParseFloat(strings.TrimSpace(f[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %v", s, err)
	}
	hi, err = strconv.ParseFloat(strings.TrimSpace(f[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %v", s, err)
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi, nil
}

func parseIntRange(s string) (lo, hi int, err error) {
	f := strings.Split(s, ",")
	if len(f) == 1 {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range %q: %v", s, err)
		}
		return v, v, nil
	}
	if len(f) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q: expecting two values", s)
	}

	lo, err = strconv.Atoi(strings.TrimSpace(f[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %v", s, err)
	}
	hi, err = strconv.Atoi(strings.TrimSpace(f[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %v", s, err)
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi, nil
}
