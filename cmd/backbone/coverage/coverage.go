// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package coverage implements a command
// to report the marker coverage
// of the taxa in the merged alignments.
package coverage

import (
	"fmt"
	"strconv"

	"github.com/js-arias/backbone/adjacency"
	"github.com/js-arias/backbone/project"
	"github.com/js-arias/command"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: "coverage [--plot <image-file>] <project-file>",
	Short: "report the marker coverage of each taxon",
	Long: `
Command coverage reads the merged alignments defined in a project and prints
the number of alignments in which each taxon appears, one taxon per row, in
the standard output. The report helps to audit why a taxon was kept or
excluded from the exemplar selection.

The argument of the command is the name of the project file.

If the flag --plot is set, a bar plot of the coverage values will be saved
to the indicated file; the image format is taken from the file extension
(e.g. ".png", ".svg", or ".pdf").
	`,
	SetFlags: setFlags,
	Run:      run,
}

var plotFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&plotFile, "plot", "", "")
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

	g := adjacency.Build(alns)
	taxa := g.Taxa()
	vals := make([]float64, 0, len(taxa))
	fmt.Fprintf(c.Stdout(), "taxon\tcoverage\n")
	for _, tx := range taxa {
		cov := g.Coverage(tx)
		vals = append(vals, float64(cov))
		fmt.Fprintf(c.Stdout(), "%d\t%d\n", tx, cov)
	}
	fmt.Fprintf(c.Stderr(), "%d taxa, mean coverage %.3f\n", len(taxa), stat.Mean(vals, nil))

	if plotFile == "" {
		return nil
	}
	return savePlot(taxa, vals)
}

func savePlot(taxa []int64, vals []float64) error {
	plt := plot.New()
	plt.Title.Text = "marker coverage"
	plt.Y.Label.Text = "alignments"

	bars, err := plotter.NewBarChart(plotter.Values(vals), vg.Points(8))
	if err != nil {
		return fmt.Errorf("on plot %q: %v", plotFile, err)
	}
	plt.Add(bars)

	labels := make([]string, 0, len(taxa))
	for _, tx := range taxa {
		labels = append(labels, strconv.FormatInt(tx, 10))
	}
	plt.NominalX(labels...)

	if err := plt.Save(25*vg.Centimeter, 10*vg.Centimeter, plotFile); err != nil {
		return fmt.Errorf("on plot %q: %v", plotFile, err)
	}
	return nil
}
