// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package merge implements a command
// to merge the alignments
// of each orthologous cluster.
package merge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/js-arias/backbone/marker"
	"github.com/js-arias/backbone/pool"
	"github.com/js-arias/backbone/profile"
	"github.com/js-arias/backbone/project"
	"github.com/js-arias/backbone/simgraph"
	"github.com/js-arias/command"
)

var Command = &command.Command{
	Usage: `merge [--max-distance <value>] [--cpu <number>]
	[--timeout <duration>] [--dir <out-dir>]
	[-o|--output <manifest-file>] <project-file>`,
	Short: "merge the alignments of each orthologous cluster",
	Long: `
Command merge reads the orthologous clusters defined in a project and merges
the candidate alignments of each cluster into a single alignment per cluster.

The argument of the command is the name of the project file.

Alignments are merged pairwise by profile alignment with the muscle program,
that must be on the executable path, starting from the alignment with the
most sequences. A merge is accepted only if the mean pairwise divergence of
the result is smaller than the value of the flag --max-distance (0.20 by
default); otherwise the contribution of that alignment is discarded. A
cluster with a single alignment is kept verbatim if it has at least 3
sequences, and dropped otherwise. Every skip and drop decision is reported
to the standard error.

Clusters are merged concurrently. Use the flag --cpu to set the number of
parallel processes; the default (zero) uses all available CPU. The flag
--timeout sets a limit to each external tool invocation; by default no limit
is set.

The merged alignments will be written as FASTA files in the directory given
by the flag --dir ("merged" by default), and their manifest to the file given
by the flag --output, or -o ("merged-files.txt" by default), that will be
added to the project.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var maxDistance float64
var cpu int
var timeout time.Duration
var outDir string
var output string

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&maxDistance, "max-distance", profile.DefMaxDistance, "")
	c.Flags().IntVar(&cpu, "cpu", 0, "")
	c.Flags().DurationVar(&timeout, "timeout", 0, "")
	c.Flags().StringVar(&outDir, "dir", "merged", "")
	c.Flags().StringVar(&output, "output", "merged-files.txt", "")
	c.Flags().StringVar(&output, "o", "merged-files.txt", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	cls, err := readClusters(p)
	if err != nil {
		return err
	}
	alnOf, err := alignmentsBySeed(p)
	if err != nil {
		return err
	}

	m := &profile.Merger{
		Aligner:     profile.Muscle{Timeout: timeout},
		MaxDistance: maxDistance,
		Log:         c.Stderr(),
	}
	merged := m.MergeAll(context.Background(), pool.Parallel(cpu), cls, alnOf)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	files := make([]string, 0, len(merged))
	for _, a := range merged {
		name := filepath.Join(outDir, a.ID()+".fasta")
		if err := a.WriteFile(name); err != nil {
			return err
		}
		files = append(files, name)
	}

	if err := p.WriteFiles(project.Merged, output, files); err != nil {
		return err
	}
	if err := p.Write(); err != nil {
		return err
	}

	fmt.Fprintf(c.Stderr(), "%d of %d clusters merged\n", len(merged), len(cls))
	return nil
}

func readClusters(p *project.Project) ([]simgraph.Cluster, error) {
	name := p.Path(project.Clusters)
	if name == "" {
		return nil, fmt.Errorf("clusters not defined in project %q", p.Name())
	}

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

// alignmentsBySeed reads the candidate alignment files
// and indexes them by the seed ID
// encoded in each file name.
func alignmentsBySeed(p *project.Project) (map[int64]*marker.Alignment, error) {
	files, err := p.Files(project.Alignments)
	if err != nil {
		return nil, err
	}

	alnOf := make(map[int64]*marker.Alignment, len(files))
	for _, fn := range files {
		id, err := simgraph.SeedID(fn)
		if err != nil {
			return nil, err
		}
		if _, dup := alnOf[id]; dup {
			continue
		}
		a, err := marker.ReadFile(fn)
		if err != nil {
			return nil, err
		}
		alnOf[id] = a
	}
	return alnOf, nil
}
