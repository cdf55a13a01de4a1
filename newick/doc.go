// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

/*
Package newick implements reading and writing of trees
in the Newick (parenthetical) format.

The grammar accepted by the reader is:

	Tree    ::= Subtree ';'
	Subtree ::= '(' Subtree (',' Subtree)* ')' Label? Length?
	          | Label? Length?
	Length  ::= ':' Number

Labels can not contain blanks,
nor any of the characters '(', ')', ':', ',' or ';'.
Quoted labels and comments are not supported.

Branch lengths are written with six decimal digits,
so reading a written tree reproduces the topology,
labels,
and lengths up to that precision.
*/
package newick
