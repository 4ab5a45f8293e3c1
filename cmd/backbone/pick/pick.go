// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pick implements a command
// to select the exemplar taxa of each genus.
package pick

import (
	"fmt"
	"os"

	"github.com/js-arias/backbone/adjacency"
	"github.com/js-arias/backbone/project"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `pick [--min-coverage <number>]
	[-o|--output <exemplar-file>] <project-file>`,
	Short: "select the exemplar taxa of each genus",
	Long: `
Command pick reads the merged alignments and the taxonomy defined in a
project and selects, for each genus, one or two exemplar taxa to represent
the genus in the backbone supermatrix.

The argument of the command is the name of the project file.

Taxa are connected in an adjacency graph weighted by the number of
alignments they share. Taxa in less alignments than the value of the flag
--min-coverage (2 by default) are removed, and the exemplar candidates of
each genus are taken from the largest connected component of the remaining
graph. A candidate without connections to another candidate of its genus is
discarded; a genus with a single candidate in the pool is kept as monotypic
with that single exemplar. When a genus keeps more than two candidates, the
pair with the best corroborated divergence across the alignments is chosen.
Genera without viable candidates are dropped and reported to the standard
error.

By default, the exemplars will be written to the file "exemplars.tab" that
will be added to the project. Use the flag --output, or -o, to set a
different file name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var minCoverage int
var output string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&minCoverage, "min-coverage", 2, "")
	c.Flags().StringVar(&output, "output", "exemplars.tab", "")
	c.Flags().StringVar(&output, "o", "exemplars.tab", "")
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
	txm, err := p.Taxonomy()
	if err != nil {
		return err
	}

	g := adjacency.Build(alns)
	for i, comp := range g.Filter(minCoverage).Components() {
		fmt.Fprintf(c.Stderr(), "component %d: %d taxa\n", i+1, len(comp))
	}

	sel := adjacency.Select(g, minCoverage, txm, c.Stderr())
	if len(sel) == 0 {
		return fmt.Errorf("project %q: no genus with viable exemplars", args[0])
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := sel.Write(f); err != nil {
		return fmt.Errorf("on file %q: %v", output, err)
	}

	p.Add(project.Exemplars, output)
	if err := p.Write(); err != nil {
		return err
	}

	fmt.Fprintf(c.Stderr(), "%d exemplars picked for %d genera\n", len(sel.Taxa()), len(sel))
	return nil
}
