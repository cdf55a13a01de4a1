// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"os"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/phylo/newick"
	"github.com/js-arias/phylo/project"
)

type setPath struct {
	set  project.Dataset
	path string
}

func TestProject(t *testing.T) {
	p := project.New()

	sets := []setPath{
		{project.GeneTrees, "genes.nwk"},
		{project.Species, "species.nwk"},
		{project.Distances, "distances.tab"},
		{project.Similarity, "similarity.tab"},
		{project.Mapping, "mapping.tab"},
		{project.Bootstrap, "bootstrap.nwk"},
		{project.TimeTrees, "trees.tab"},
	}

	for _, s := range sets {
		p.Add(s.set, s.path)
	}
	testProject(t, p, sets)

	name := "tmp-project-for-test.tab"
	defer os.Remove(name)

	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testProject(t, np, sets)

	if prev := np.Add(project.Bootstrap, ""); prev != "bootstrap.nwk" {
		t.Errorf("remove: got previous %q, want %q", prev, "bootstrap.nwk")
	}
	testProject(t, np, sets[:len(sets)-2])
}

func testProject(t testing.TB, p *project.Project, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := p.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
}

func TestDatasets(t *testing.T) {
	genes := "tmp-genes-for-test.nwk"
	defer os.Remove(genes)
	if err := os.WriteFile(genes, []byte("((hba_human,hba_mouse),hbb_human);\n(hba_human,(hba_mouse,hbb_human));\n"), 0644); err != nil {
		t.Fatalf("error when writing genes: %v", err)
	}

	species := "tmp-species-for-test.nwk"
	defer os.Remove(species)
	if err := os.WriteFile(species, []byte("(human,mouse);\n"), 0644); err != nil {
		t.Fatalf("error when writing species: %v", err)
	}

	mapping := "tmp-mapping-for-test.tab"
	defer os.Remove(mapping)
	if err := os.WriteFile(mapping, []byte("gene\tspecies\nhba_human\thuman\nhbb_human\thuman\nhba_mouse\tmouse\n"), 0644); err != nil {
		t.Fatalf("error when writing mapping: %v", err)
	}

	dist := "tmp-distances-for-test.tab"
	defer os.Remove(dist)
	if err := os.WriteFile(dist, []byte("row\tcol\tvalue\nhba_mouse\thba_human\t0.1\nhbb_human\thba_human\t0.5\nhbb_human\thba_mouse\t0.5\n"), 0644); err != nil {
		t.Fatalf("error when writing distances: %v", err)
	}

	p := project.New()
	p.Add(project.GeneTrees, genes)
	p.Add(project.Species, species)
	p.Add(project.Mapping, mapping)
	p.Add(project.Distances, dist)

	gt, err := p.GeneTrees()
	if err != nil {
		t.Fatalf("gene trees: %v", err)
	}
	if len(gt) != 2 {
		t.Errorf("gene trees: got %d trees, want 2", len(gt))
	}

	sp, err := p.SpeciesTree()
	if err != nil {
		t.Fatalf("species: %v", err)
	}
	if got := newick.String(sp); got != "(human,mouse);" {
		t.Errorf("species: got %q, want %q", got, "(human,mouse);")
	}

	lm, err := p.LeafMap(sp)
	if err != nil {
		t.Fatalf("mapping: %v", err)
	}
	if lm["hba_mouse"].Label() != "mouse" {
		t.Errorf("mapping: gene %q: got %q, want %q", "hba_mouse", lm["hba_mouse"].Label(), "mouse")
	}

	m, err := p.Distances()
	if err != nil {
		t.Fatalf("distances: %v", err)
	}
	want := []string{"hba_human", "hba_mouse", "hbb_human"}
	if got := m.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("distances: got %v, want %v", got, want)
	}

	if _, err := p.Bootstraps(); err == nil {
		t.Errorf("bootstrap: expecting error on undefined dataset")
	}

	sets := p.Sets()
	if !slices.IsSorted(sets) || len(sets) != 4 {
		t.Errorf("sets: got %v", sets)
	}
}
