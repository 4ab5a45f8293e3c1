// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Backbone is a tool to build a curated supermatrix
// of representative taxa
// from a set of candidate sequence-cluster alignments.
package main

import (
	"github.com/js-arias/backbone/cmd/backbone/cluster"
	"github.com/js-arias/backbone/cmd/backbone/coverage"
	"github.com/js-arias/backbone/cmd/backbone/matrix"
	"github.com/js-arias/backbone/cmd/backbone/merge"
	"github.com/js-arias/backbone/cmd/backbone/pick"
	"github.com/js-arias/backbone/cmd/backbone/prj"
	"github.com/js-arias/backbone/cmd/backbone/set"
	"github.com/js-arias/backbone/cmd/backbone/taxa"
	"github.com/js-arias/command"
)

var app = &command.Command{
	Usage: "backbone <command> [<argument>...]",
	Short: "a tool to build backbone supermatrices",
}

func init() {
	app.Add(cluster.Command)
	app.Add(coverage.Command)
	app.Add(matrix.Command)
	app.Add(merge.Command)
	app.Add(pick.Command)
	app.Add(prj.Command)
	app.Add(set.Command)
	app.Add(taxa.Command)
}

func main() {
	app.Main()
}
