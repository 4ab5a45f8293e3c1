// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// the basic information of a project.
package prj

import (
	"fmt"
	"os"

	"github.com/js-arias/backbone/adjacency"
	"github.com/js-arias/backbone/project"
	"github.com/js-arias/backbone/simgraph"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: "prj <project-file>",
	Short: "print information about a project",
	Long: `
Command prj reads a backbone project and prints the information of the
different project elements into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	if files, err := p.Files(project.Alignments); err == nil {
		fmt.Fprintf(c.Stdout(), "alignments: %d candidate files [%q]\n", len(files), p.Path(project.Alignments))
	}
	if p.Path(project.Taxonomy) != "" {
		txm, err := p.Taxonomy()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "taxonomy: %d taxa in %d genera [%q]\n", txm.Len(), len(txm.Genera()), p.Path(project.Taxonomy))
	}
	if name := p.Path(project.Clusters); name != "" {
		cls, err := readClusters(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "clusters: %d orthologous clusters [%q]\n", len(cls), name)
	}
	if files, err := p.Files(project.Merged); err == nil {
		fmt.Fprintf(c.Stdout(), "merged: %d merged alignments [%q]\n", len(files), p.Path(project.Merged))
	}
	if name := p.Path(project.Exemplars); name != "" {
		sel, err := readExemplars(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "exemplars: %d taxa in %d genera [%q]\n", len(sel.Taxa()), len(sel), name)
	}
	if name := p.Path(project.Matrix); name != "" {
		fmt.Fprintf(c.Stdout(), "matrix: %q\n", name)
	}
	if name := p.Path(project.Markers); name != "" {
		fmt.Fprintf(c.Stdout(), "markers: %q\n", name)
	}

	return nil
}

func readClusters(name string) ([]simgraph.Cluster, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cls, err := simgraph.ReadClusters(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return cls, nil
}

func readExemplars(name string) (adjacency.Selection, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sel, err := adjacency.ReadSelection(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return sel, nil
}
