// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package supermatrix_test

import (
	"bytes"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/backbone/marker"
	"github.com/js-arias/backbone/supermatrix"
	"github.com/js-arias/backbone/taxonomy"
)

func testMatrix(t testing.TB, log io.Writer) *supermatrix.Matrix {
	t.Helper()

	alns := []*marker.Alignment{
		// the third column is missing in every taxon
		// and must be removed
		newAlignment(t, "cluster-1", []seqRec{
			{"gi|1|taxon|101", "AC-GT"},
			{"gi|2|taxon|102", "AC-GA"},
		}),
		// taxon 102 has two sequences,
		// the first one must be used
		newAlignment(t, "cluster-2", []seqRec{
			{"gi|21|taxon|102", "TTT"},
			{"gi|22|taxon|102", "TTA"},
			{"gi|23|taxon|103", "GGG"},
		}),
	}
	return supermatrix.Assemble(alns, []int64{101, 102, 103}, log)
}

func TestAssemble(t *testing.T) {
	var log bytes.Buffer
	m := testMatrix(t, &log)

	taxa := []int64{101, 102, 103}
	if got := m.Taxa(); !reflect.DeepEqual(got, taxa) {
		t.Errorf("taxa: got %v, want %v", got, taxa)
	}
	if m.Columns() != 7 {
		t.Errorf("columns: got %d, want 7", m.Columns())
	}

	rows := map[int64]string{
		101: "ACGT???",
		102: "ACGATTT",
		103: "????GGG",
	}
	for tx, row := range rows {
		if got := m.Row(tx); got != row {
			t.Errorf("taxon %d: row %q, want %q", tx, got, row)
		}
	}

	// shape invariant:
	// every row spans the whole matrix
	for _, tx := range m.Taxa() {
		if len(m.Row(tx)) != m.Columns() {
			t.Errorf("taxon %d: row of %d columns, want %d", tx, len(m.Row(tx)), m.Columns())
		}
	}

	if !strings.Contains(log.String(), "WARNING") {
		t.Errorf("expecting a warning for the extra sequence of taxon 102, got %q", log.String())
	}

	mks := m.Markers()
	if len(mks) != 2 {
		t.Fatalf("markers: got %d, want 2", len(mks))
	}
	// deflines are stored in their canonical form
	want := []supermatrix.Marker{
		{
			Alignment: "cluster-1",
			Defline: map[int64]string{
				101: "gi|1|seed_gi|0|taxon|101|mrca|0",
				102: "gi|2|seed_gi|0|taxon|102|mrca|0",
			},
		},
		{
			Alignment: "cluster-2",
			Defline: map[int64]string{
				102: "gi|21|seed_gi|0|taxon|102|mrca|0",
				103: "gi|23|seed_gi|0|taxon|103|mrca|0",
			},
		},
	}
	if !reflect.DeepEqual(mks, want) {
		t.Errorf("markers: got %v, want %v", mks, want)
	}
}

func TestMatrixWrite(t *testing.T) {
	m := testMatrix(t, nil)

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	want := " 3 7\n" +
		"101\tACGT???\n" +
		"102\tACGATTT\n" +
		"103\t????GGG\n"
	if got := buf.String(); got != want {
		t.Errorf("matrix: got %q, want %q", got, want)
	}
}

func TestWriteMarkers(t *testing.T) {
	m := testMatrix(t, nil)

	txm := taxonomy.New()
	taxa := []taxonomy.Taxon{
		{ID: 101, Name: "Larrea tridentata", Genus: "Larrea", Rank: "species"},
		{ID: 102, Name: "Larrea cuneifolia", Genus: "Larrea", Rank: "species"},
	}
	for _, tax := range taxa {
		if err := txm.Add(tax); err != nil {
			t.Fatalf("taxon %q: %v", tax.Name, err)
		}
	}

	var buf bytes.Buffer
	var log bytes.Buffer
	if err := m.WriteMarkers(&buf, txm, &log); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}
	out := buf.String()

	rows := []string{
		"taxon\tname\tcluster-1\tcluster-2",
		"101\tLarrea tridentata\t1\tNA",
		"102\tLarrea cuneifolia\t2\t21",
		"103\t\tNA\t23",
		"# cluster-1: gi|1|seed_gi|0|taxon|101|mrca|0",
		"# cluster-2: gi|21|seed_gi|0|taxon|102|mrca|0",
	}
	for _, row := range rows {
		if !strings.Contains(out, row) {
			t.Errorf("expecting row %q in markers table:\n%s", row, out)
		}
	}

	// taxon 103 is not in the taxonomy
	if !strings.Contains(log.String(), "taxon 103") {
		t.Errorf("expecting a warning for taxon 103, got %q", log.String())
	}
}
