// Copyright © 2024 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Phylo is a tool for building gene trees
// and reconciling them with a species tree.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/phylo/cmd/phylo/boot"
	"github.com/js-arias/phylo/cmd/phylo/draw"
	"github.com/js-arias/phylo/cmd/phylo/importcmd"
	"github.com/js-arias/phylo/cmd/phylo/njcmd"
	"github.com/js-arias/phylo/cmd/phylo/prj"
	"github.com/js-arias/phylo/cmd/phylo/reconcmd"
	"github.com/js-arias/phylo/cmd/phylo/sim"
)

var app = &command.Command{
	Usage: "phylo <command> [<argument>...]",
	Short: "a tool for gene tree building and reconciliation",
}

func init() {
	app.Add(prj.Command)
	app.Add(njcmd.Command)
	app.Add(reconcmd.Command)
	app.Add(boot.Command)
	app.Add(draw.Command)
	app.Add(sim.Command)
	app.Add(importcmd.Command)
}

func main() {
	app.Main()
}
