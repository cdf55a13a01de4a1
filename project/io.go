// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/phylo/distmat"
	"github.com/js-arias/phylo/etree"
	"github.com/js-arias/phylo/newick"
	"github.com/js-arias/phylo/recon"
	"github.com/js-arias/timetree"
)

func (p *Project) open(set Dataset, what string) (*os.File, string, error) {
	name := p.Path(set)
	if name == "" {
		return nil, "", fmt.Errorf("%s not defined in project %q", what, p.name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, "", err
	}
	return f, name, nil
}

func (p *Project) trees(set Dataset, what string) ([]*etree.Tree, error) {
	f, name, err := p.open(set, what)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts, err := newick.Read(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	if len(ts) == 0 {
		return nil, fmt.Errorf("on file %q: no trees", name)
	}
	return ts, nil
}

// GeneTrees reads the gene trees
// as defined in a project.
func (p *Project) GeneTrees() ([]*etree.Tree, error) {
	return p.trees(GeneTrees, "gene trees")
}

// Bootstraps reads the bootstrap trees
// as defined in a project.
func (p *Project) Bootstraps() ([]*etree.Tree, error) {
	return p.trees(Bootstrap, "bootstrap trees")
}

// SpeciesTree reads the species tree
// as defined in a project.
// If the file has more than one tree,
// the first tree is used.
func (p *Project) SpeciesTree() (*etree.Tree, error) {
	ts, err := p.trees(Species, "species tree")
	if err != nil {
		return nil, err
	}
	return ts[0], nil
}

func (p *Project) matrix(set Dataset, what string) (*distmat.Matrix, error) {
	f, name, err := p.open(set, what)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := distmat.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return m, nil
}

// Distances reads the distance matrix
// as defined in a project.
func (p *Project) Distances() (*distmat.Matrix, error) {
	return p.matrix(Distances, "distances")
}

// Similarity reads the similarity matrix
// as defined in a project.
func (p *Project) Similarity() (*distmat.Matrix, error) {
	return p.matrix(Similarity, "similarity")
}

// LeafMap reads the species of the gene sequences
// as defined in a project.
func (p *Project) LeafMap(species *etree.Tree) (recon.LeafMap, error) {
	f, name, err := p.open(Mapping, "gene mapping")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lm, err := recon.ReadLeafMap(f, species)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return lm, nil
}

// TimeTrees reads a time calibrated tree collection file
// as defined in a project.
func (p *Project) TimeTrees() (*timetree.Collection, error) {
	f, name, err := p.open(TimeTrees, "time trees")
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
