// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package simgraph

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ReportFields is the column layout
// expected in a tabular similarity report,
// one matched region pair per row.
// It matches the blastn invocation
//
//	blastn -outfmt "6 qseqid sseqid qlen slen qstart qend sstart send"
var ReportFields = []string{
	"qseqid",
	"sseqid",
	"qlen",
	"slen",
	"qstart",
	"qend",
	"sstart",
	"send",
}

// Blast is a Searcher
// backed by the NCBI BLAST+ tools.
// The zero value is ready to use
// and looks up "makeblastdb" and "blastn"
// in the executable path.
type Blast struct {
	MakeDB string // path of the makeblastdb binary
	Blastn string // path of the blastn binary

	// Timeout for each tool invocation.
	// If zero no timeout is set.
	Timeout time.Duration
}

// AllVsAll writes the seeds to a temporary FASTA file,
// formats it as a nucleotide database,
// and searches the file against itself,
// returning every matched region pair of the report.
func (b Blast) AllVsAll(ctx context.Context, seeds []Seed) ([]Hit, error) {
	mkdb := b.MakeDB
	if mkdb == "" {
		mkdb = "makeblastdb"
	}
	blastn := b.Blastn
	if blastn == "" {
		blastn = "blastn"
	}

	dir, err := os.MkdirTemp("", "backbone-blast-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	fasta := filepath.Join(dir, "seeds.fasta")
	if err := writeSeeds(fasta, seeds); err != nil {
		return nil, err
	}

	if err := b.run(ctx, mkdb, "-in", fasta, "-dbtype", "nucl"); err != nil {
		return nil, err
	}

	report := filepath.Join(dir, "report.tab")
	err = b.run(ctx, blastn,
		"-db", fasta,
		"-query", fasta,
		"-outfmt", "6 "+strings.Join(ReportFields, " "),
		"-out", report)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(report)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hits, err := ParseReport(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", report, err)
	}
	return hits, nil
}

func (b Blast) run(ctx context.Context, name string, args ...string) error {
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %v: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func writeSeeds(name string, seeds []Seed) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	for _, s := range seeds {
		fmt.Fprintf(bw, ">%d\n%s\n", s.ID, s.Seq)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

// ParseReport reads a tabular similarity report
// with the ReportFields column layout.
// Matched region coordinates are one-based
// and inclusive;
// regions on the reverse strand of the subject
// have their coordinates reversed.
func ParseReport(r io.Reader) ([]Hit, error) {
	var hits []Hit

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for i := 1; sc.Scan(); i++ {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		row := strings.Split(ln, "\t")
		if len(row) < len(ReportFields) {
			return nil, fmt.Errorf("on row %d: got %d fields, want %d", i, len(row), len(ReportFields))
		}

		v := make([]int64, len(ReportFields))
		for j := range ReportFields {
			x, err := strconv.ParseInt(strings.TrimSpace(row[j]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d: field %q: %v", i, ReportFields[j], err)
			}
			v[j] = x
		}

		qCov := int(v[5] - v[4])
		if qCov < 0 {
			qCov = -qCov
		}
		sCov := int(v[7] - v[6])
		if sCov < 0 {
			sCov = -sCov
		}
		hits = append(hits, Hit{
			Query:      v[0],
			Subject:    v[1],
			QueryLen:   int(v[2]),
			SubjectLen: int(v[3]),
			QueryCov:   qCov + 1,
			SubCov:     sCov + 1,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}
