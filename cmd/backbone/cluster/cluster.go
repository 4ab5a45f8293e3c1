// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package cluster implements a command
// to group candidate alignments
// into orthologous clusters.
package cluster

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/js-arias/backbone/project"
	"github.com/js-arias/backbone/seqstore"
	"github.com/js-arias/backbone/simgraph"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `cluster [--threshold <value>] [--db <seq-db>]
	[--report <report-file>] [--timeout <duration>]
	[-o|--output <cluster-file>] <project-file>`,
	Short: "group candidate alignments into orthologous clusters",
	Long: `
Command cluster reads the candidate alignments defined in a project, runs an
all-vs-all similarity search on their seed sequences, and groups the seeds by
single-linkage clustering of the hits that reciprocally cover more than a
threshold fraction of both sequences. Alignments whose seeds end in the same
cluster are assumed to represent the same genetic marker and will be merged
by the merge command.

The argument of the command is the name of the project file.

By default, the search is made with the blastn program, that must be on the
executable path, and the seed sequences are retrieved from the alignment
files. If the flag --db is set, the raw sequences will be read from the
indicated SQLite database. If the flag --report is set, no search will be
run, and the hits will be read from the indicated tabular report file.

The flag --threshold sets the minimum fraction of both sequence lengths that
the accumulated hits must cover; its default value is 0.51. The flag
--timeout sets a limit to each external tool invocation; by default no limit
is set.

By default, the clusters will be written to the file "clusters.tab" that will
be added to the project. Use the flag --output, or -o, to set a different
file name.

If the similarity search finishes without any hit, the run is aborted: an
empty result indicates a broken setup, not a property of the data.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var threshold float64
var dbFile string
var reportFile string
var timeout time.Duration
var output string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&threshold, "threshold", simgraph.DefaultThreshold, "")
	c.Flags().StringVar(&dbFile, "db", "", "")
	c.Flags().StringVar(&reportFile, "report", "", "")
	c.Flags().DurationVar(&timeout, "timeout", 0, "")
	c.Flags().StringVar(&output, "output", "clusters.tab", "")
	c.Flags().StringVar(&output, "o", "clusters.tab", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	files, err := p.Files(project.Alignments)
	if err != nil {
		return err
	}

	seeds, err := readSeeds(c, p, files)
	if err != nil {
		return err
	}

	var sr simgraph.Searcher
	if reportFile != "" {
		sr = reportSearcher(reportFile)
	} else {
		sr = simgraph.Blast{Timeout: timeout}
	}

	g, err := simgraph.Build(context.Background(), sr, seeds, threshold)
	if err != nil {
		return err
	}
	cls := g.Clusters()

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := simgraph.WriteClusters(f, cls); err != nil {
		return fmt.Errorf("on file %q: %v", output, err)
	}

	p.Add(project.Clusters, output)
	if err := p.Write(); err != nil {
		return err
	}

	fmt.Fprintf(c.Stderr(), "%d seeds grouped in %d clusters\n", len(seeds), len(cls))
	return nil
}

// readSeeds collects the deduplicated seed IDs
// of the alignment files
// and retrieves one raw sequence per seed.
// Seeds whose sequence cannot be retrieved
// are logged and skipped.
func readSeeds(c *command.Command, p *project.Project, files []string) ([]simgraph.Seed, error) {
	ids := make(map[int64]bool)
	var ordered []int64
	for _, fn := range files {
		id, err := simgraph.SeedID(fn)
		if err != nil {
			return nil, err
		}
		if ids[id] {
			continue
		}
		ids[id] = true
		ordered = append(ordered, id)
	}

	var st seqstore.Store
	if dbFile != "" {
		var err error
		st, err = seqstore.Open(dbFile)
		if err != nil {
			return nil, err
		}
	} else {
		alns, err := p.Alignments(project.Alignments)
		if err != nil {
			return nil, err
		}
		st = seqstore.FromAlignments(alns)
	}
	defer st.Close()

	var seeds []simgraph.Seed
	for _, id := range ordered {
		seq, _, err := st.Sequence(id)
		if err != nil {
			if errors.Is(err, seqstore.ErrNotFound) {
				fmt.Fprintf(c.Stderr(), "WARNING: seed %d: sequence not found\n", id)
				continue
			}
			return nil, err
		}
		seeds = append(seeds, simgraph.Seed{ID: id, Seq: seq})
	}
	return seeds, nil
}

// A reportSearcher reads the hits
// from a saved tabular report file
// instead of running a search.
type reportSearcher string

func (rs reportSearcher) AllVsAll(ctx context.Context, seeds []simgraph.Seed) ([]simgraph.Hit, error) {
	f, err := os.Open(string(rs))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hits, err := simgraph.ParseReport(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", string(rs), err)
	}
	return hits, nil
}
