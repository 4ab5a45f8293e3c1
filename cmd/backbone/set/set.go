// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package set implements a command
// to add a data file to a project.
package set

import (
	"errors"
	"fmt"
	"os"

	"github.com/js-arias/backbone/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: "set <dataset> <file> <project-file>",
	Short: "add a data file to a project",
	Long: `
Command set adds a data file, of the indicated dataset kind, to a backbone
project. If the project file does not exist, it will be created.

The first argument of the command is the dataset keyword. Valid keywords
are:

	alignments  list of candidate alignment files, one path per line
	clusters    orthologous cluster membership list
	exemplars   exemplar taxa table
	markers     provenance table of the supermatrix
	matrix      the final supermatrix
	merged      list of merged alignment files, one path per line
	taxonomy    taxon table

The second argument is the name of the file to be added, and the third
argument is the name of the project file.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 3 {
		return c.UsageError("expecting dataset, data file, and project file")
	}

	set := project.Dataset(args[0])
	if !project.IsValid(set) {
		return c.UsageError(fmt.Sprintf("invalid dataset keyword %q", args[0]))
	}
	file := args[1]
	if _, err := os.Stat(file); err != nil {
		return err
	}

	p, err := project.Read(args[2])
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		p = project.New()
		p.SetName(args[2])
	}

	p.Add(set, file)
	return p.Write()
}
