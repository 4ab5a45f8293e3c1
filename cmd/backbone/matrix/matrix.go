// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package matrix implements a command
// to assemble the backbone supermatrix.
package matrix

import (
	"fmt"
	"os"

	"github.com/js-arias/backbone/adjacency"
	"github.com/js-arias/backbone/project"
	"github.com/js-arias/backbone/supermatrix"
	"github.com/js-arias/backbone/taxonomy"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `matrix [--min-coverage <number>] [--markers <markers-file>]
	[-o|--output <matrix-file>] <project-file>`,
	Short: "assemble the backbone supermatrix",
	Long: `
Command matrix reads the merged alignments and the exemplar taxa defined in
a project, selects the smallest greedy set of alignments in which every
exemplar appears at least --min-coverage times (2 by default), and
concatenates the selected alignments into a single supermatrix.

The argument of the command is the name of the project file.

In the supermatrix, an exemplar without data in a selected alignment is
filled with '?' over the columns of that alignment, and columns in which
every exemplar is missing are removed. The provenance of each exemplar in
each selected alignment is kept in a markers table.

By default, the supermatrix will be written to the file "supermatrix.phy"
and the markers table to the file "markers.tab", both added to the project.
Use the flags --output (or -o) and --markers to set different file names.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var minCoverage int
var markersFile string
var output string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&minCoverage, "min-coverage", 2, "")
	c.Flags().StringVar(&markersFile, "markers", "markers.tab", "")
	c.Flags().StringVar(&output, "output", "supermatrix.phy", "")
	c.Flags().StringVar(&output, "o", "supermatrix.phy", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	alns, err := p.Alignments(project.Merged)
	if err != nil {
		return err
	}
	sel, err := readExemplars(p)
	if err != nil {
		return err
	}

	var txm *taxonomy.Taxonomy
	if p.Path(project.Taxonomy) != "" {
		txm, err = p.Taxonomy()
		if err != nil {
			return err
		}
	}

	taxa := sel.Taxa()
	picked, err := supermatrix.Fill(alns, taxa, minCoverage, c.Stderr())
	if err != nil {
		return err
	}
	m := supermatrix.Assemble(picked, taxa, c.Stderr())

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := m.Write(f); err != nil {
		return fmt.Errorf("on file %q: %v", output, err)
	}

	mf, err := os.Create(markersFile)
	if err != nil {
		return err
	}
	defer mf.Close()
	if err := m.WriteMarkers(mf, txm, c.Stderr()); err != nil {
		return fmt.Errorf("on file %q: %v", markersFile, err)
	}

	p.Add(project.Matrix, output)
	p.Add(project.Markers, markersFile)
	if err := p.Write(); err != nil {
		return err
	}

	fmt.Fprintf(c.Stderr(), "%d taxa, %d alignments, %d columns\n", len(m.Taxa()), len(picked), m.Columns())
	return nil
}

func readExemplars(p *project.Project) (adjacency.Selection, error) {
	name := p.Path(project.Exemplars)
	if name == "" {
		return nil, fmt.Errorf("exemplars not defined in project %q", p.Name())
	}

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
