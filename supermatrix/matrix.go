// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package supermatrix

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/backbone/marker"
	"github.com/js-arias/backbone/taxonomy"
)

// A Marker is the provenance of one alignment
// of the supermatrix:
// the source defline of each exemplar taxon
// with data in the alignment.
type Marker struct {
	Alignment string
	Defline   map[int64]string
}

// A Matrix is a concatenated supermatrix:
// one equal-length aligned sequence
// per exemplar taxon,
// filled with '?' where data is absent.
type Matrix struct {
	taxa    []int64
	rows    map[int64]string
	markers []Marker
}

// Assemble concatenates the selected alignments
// per exemplar taxon,
// in the order in which the alignments are given.
// A taxon absent from an alignment
// is filled with '?' over the alignment columns;
// if a taxon has more than one sequence
// in an alignment,
// the first one found is used
// and a warning is logged.
// Columns in which every taxon has a missing,
// gap,
// or ambiguous character are removed.
func Assemble(alns []*marker.Alignment, exemplars []int64, log io.Writer) *Matrix {
	if log == nil {
		log = io.Discard
	}

	taxa := slices.Clone(exemplars)
	slices.Sort(taxa)
	taxa = slices.Compact(taxa)

	rows := make(map[int64]*strings.Builder, len(taxa))
	for _, tx := range taxa {
		rows[tx] = &strings.Builder{}
	}

	m := &Matrix{taxa: taxa}
	for _, a := range alns {
		mk := Marker{
			Alignment: a.ID(),
			Defline:   make(map[int64]string),
		}
		for _, tx := range taxa {
			sqs := a.SeqsOf(tx)
			if len(sqs) == 0 {
				rows[tx].WriteString(strings.Repeat("?", a.Columns()))
				continue
			}
			if len(sqs) > 1 {
				fmt.Fprintf(log, "WARNING: alignment %q: taxon %d: %d sequences, using %q\n", a.ID(), tx, len(sqs), sqs[0].Defline)
			}
			rows[tx].WriteString(sqs[0].Seq)
			mk.Defline[tx] = sqs[0].Defline
		}
		m.markers = append(m.markers, mk)
	}

	m.rows = make(map[int64]string, len(taxa))
	for _, tx := range taxa {
		m.rows[tx] = rows[tx].String()
	}
	m.strip()
	return m
}

// strip removes the columns in which every taxon
// has a missing character.
func (m *Matrix) strip() {
	if len(m.taxa) == 0 {
		return
	}

	cols := len(m.rows[m.taxa[0]])
	keep := make([]bool, cols)
	for c := 0; c < cols; c++ {
		for _, tx := range m.taxa {
			if !marker.IsMissing(m.rows[tx][c]) {
				keep[c] = true
				break
			}
		}
	}

	for _, tx := range m.taxa {
		row := m.rows[tx]
		var sb strings.Builder
		sb.Grow(cols)
		for c := 0; c < cols; c++ {
			if keep[c] {
				sb.WriteByte(row[c])
			}
		}
		m.rows[tx] = sb.String()
	}
}

// Columns returns the number of columns
// of the supermatrix.
func (m *Matrix) Columns() int {
	if len(m.taxa) == 0 {
		return 0
	}
	return len(m.rows[m.taxa[0]])
}

// Markers returns the provenance
// of the alignments of the supermatrix,
// in concatenation order.
func (m *Matrix) Markers() []Marker {
	return slices.Clone(m.markers)
}

// Row returns the concatenated sequence of a taxon.
func (m *Matrix) Row(tx int64) string {
	return m.rows[tx]
}

// Taxa returns the taxa of the supermatrix,
// sorted by ID.
func (m *Matrix) Taxa() []int64 {
	return slices.Clone(m.taxa)
}

// Write writes the supermatrix
// in relaxed sequential phylip format:
// a first row with the number of taxa and columns,
// then one row per taxon
// with its label and concatenated sequence.
func (m *Matrix) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, " %d %d\n", len(m.taxa), m.Columns())
	for _, tx := range m.taxa {
		fmt.Fprintf(bw, "%d\t%s\n", tx, m.rows[tx])
	}
	return bw.Flush()
}

// WriteMarkers writes the markers table
// in TSV format:
// one row per taxon
// with the source sequence ID of the taxon
// in each alignment
// ("NA" if the taxon has no data there),
// and trailing comment lines
// identifying each alignment column.
//
// If a taxonomy is given,
// taxon names are added to the rows;
// a taxon missing from the taxonomy is logged
// and its name left empty.
func (m *Matrix) WriteMarkers(w io.Writer, txm *taxonomy.Taxonomy, log io.Writer) error {
	if log == nil {
		log = io.Discard
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# markers table\n")

	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	head := []string{"taxon", "name"}
	for _, mk := range m.markers {
		head = append(head, mk.Alignment)
	}
	if err := tsv.Write(head); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}

	for _, tx := range m.taxa {
		name := ""
		if txm != nil {
			tax, ok := txm.Taxon(tx)
			if !ok {
				fmt.Fprintf(log, "WARNING: taxon %d: not in taxonomy\n", tx)
			}
			name = tax.Name
		}
		row := []string{strconv.FormatInt(tx, 10), name}
		for _, mk := range m.markers {
			df, ok := mk.Defline[tx]
			if !ok {
				row = append(row, "NA")
				continue
			}
			meta, err := marker.ParseDefline(df)
			if err != nil {
				row = append(row, df)
				continue
			}
			row = append(row, strconv.FormatInt(meta.ID, 10))
		}
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("taxon %d: %v", tx, err)
		}
	}
	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}

	for _, mk := range m.markers {
		rep := representative(mk)
		fmt.Fprintf(bw, "# %s: %s\n", mk.Alignment, rep)
	}
	return bw.Flush()
}

// representative returns the defline
// of the representative sequence of a marker:
// the sequence of the taxon
// with the smallest ID among its members.
func representative(mk Marker) string {
	var taxa []int64
	for tx := range mk.Defline {
		taxa = append(taxa, tx)
	}
	if len(taxa) == 0 {
		return "NA"
	}
	slices.Sort(taxa)
	return mk.Defline[taxa[0]]
}
