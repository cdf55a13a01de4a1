// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(projectsGuide)
	app.Add(matrixFilesGuide)
	app.Add(mappingFilesGuide)
	app.Add(newickGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
Phylo requires several files to build and reconcile gene trees. To reduce the
burden of keeping track of many files, a single project file is used to hold
the reference of all files required in the analysis.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# phylo project files
	dataset	path
	genetrees	genes.nwk
	species	species.nwk
	distances	distances.tab
	mapping	mapping.tab

The valid file types are:

- Gene trees. Defined by the dataset keyword "genetrees". This file contains
  one or more gene trees in Newick format. It is written by 'phylo nj' and
  'phylo import'.
- Species tree. Defined by the dataset keyword "species". This file contains
  a species tree in Newick format. Only the first tree of the file is used.
- Distance matrix. Defined by the dataset keyword "distances". A
  tab-delimited file with the distances between gene sequences. See
  'phylo help matrix-files'.
- Similarity matrix. Defined by the dataset keyword "similarity". A
  tab-delimited file with the number of differences and similarities between
  gene sequences. See 'phylo help matrix-files'.
- Gene mapping. Defined by the dataset keyword "mapping". A tab-delimited
  file with the species of each gene sequence. See
  'phylo help mapping-files'.
- Bootstrap trees. Defined by the dataset keyword "bootstrap". This file
  contains the bootstrap trees in Newick format.
- Time-calibrated trees. Defined by the dataset keyword "timetrees". A
  tab-delimited file with time calibrated trees, as used by PhyGeo.
	`,
}

var matrixFilesGuide = &command.Command{
	Usage: "matrix-files",
	Short: "about distance and similarity matrix files",
	Long: `
A matrix file is a tab-delimited file with the following columns:

	- row    the name of the row sequence
	- col    the name of the column sequence
	- value  the value of the cell

Here is an example file:

	row	col	value
	hba_mouse	hba_human	0.120000
	hbb_human	hba_human	0.540000
	hbb_human	hba_mouse	0.560000

Names are sorted, and the position of each name in the sorted list is its
index in the matrix.

In a distance matrix, only the cells with the row index greater than the
column index are used.

In a similarity matrix, cells with the row index greater than the column
index are the number of differences between the two sequences, and cells
with the row index smaller than the column index are the number of
similarities.
	`,
}

var mappingFilesGuide = &command.Command{
	Usage: "mapping-files",
	Short: "about gene mapping files",
	Long: `
A gene mapping file is a tab-delimited file with the following columns:

	- gene     the label of a gene sequence
	- species  the label of a terminal of the species tree

Here is an example file:

	gene	species
	hba_human	human
	hbb_human	human
	hba_mouse	mouse

In a phylo project, the file that contains the gene mapping is indicated
with the "mapping" keyword.
	`,
}

var newickGuide = &command.Command{
	Usage: "newick",
	Short: "about Newick tree files",
	Long: `
Trees in phylo are stored in Newick format. A Newick file can contain one or
more trees, each one terminated by a semicolon. For example:

	((hba_human:0.06,hba_mouse:0.06):0.24,hbb_human:0.3);

Labels cannot contain spaces, or any of the characters '(', ')', ':', ','
and ';'. Branch lengths are optional.

Trees built from a matrix have their terminals labeled with the names of the
matrix.
	`,
}
