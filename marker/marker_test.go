// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package marker_test

import (
	"bytes"
	"math"
	"reflect"
	"testing"

	"github.com/js-arias/backbone/marker"
)

func TestParseDefline(t *testing.T) {
	m, err := marker.ParseDefline("gi|11001|seed_gi|11001|taxon|282302|mrca|23513")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := marker.Meta{ID: 11001, SeedID: 11001, TaxonID: 282302, RootID: 23513}
	if m != want {
		t.Errorf("meta: got %+v, want %+v", m, want)
	}
	if df := m.Defline(); df != "gi|11001|seed_gi|11001|taxon|282302|mrca|23513" {
		t.Errorf("defline: got %q", df)
	}

	bad := []string{
		"gi|x|seed_gi|1|taxon|2|mrca|3",
		"gi|1|seed|1|taxon|2|mrca|3",
		"gi|1|seed_gi|1|mrca|3",
		"",
	}
	for _, df := range bad {
		if _, err := marker.ParseDefline(df); err == nil {
			t.Errorf("defline %q: expecting error", df)
		}
	}
}

func TestAlignment(t *testing.T) {
	a := marker.NewAlignment("11001-rbcL")

	rows := []struct {
		defline string
		seq     string
	}{
		{"gi|11001|seed_gi|11001|taxon|282302|mrca|23513", "ACGT-ACGT"},
		{"gi|11002|seed_gi|11001|taxon|281896|mrca|23513", "ACGTTACGT"},
		{"gi|11003|seed_gi|11001|taxon|281896|mrca|23513", "ACGT-ACGT"},
	}
	for _, r := range rows {
		if err := a.Add(r.defline, r.seq); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if a.Len() != 3 {
		t.Errorf("sequences: got %d, want %d", a.Len(), 3)
	}
	if a.Columns() != 9 {
		t.Errorf("columns: got %d, want %d", a.Columns(), 9)
	}
	if taxa := a.Taxa(); !reflect.DeepEqual(taxa, []int64{281896, 282302}) {
		t.Errorf("taxa: got %v", taxa)
	}
	if sq := a.SeqsOf(281896); len(sq) != 2 {
		t.Errorf("sequences of 281896: got %d, want %d", len(sq), 2)
	}

	// unequal length
	if err := a.Add("gi|11004|seed_gi|11001|taxon|64077|mrca|23513", "ACGT"); err == nil {
		t.Errorf("expecting error when adding a short sequence")
	}
	// repeated defline
	if err := a.Add(rows[0].defline, "ACGT-ACGT"); err == nil {
		t.Errorf("expecting error when adding a repeated defline")
	}
}

func TestDedup(t *testing.T) {
	a := marker.NewAlignment("x")
	a.Add("gi|1|seed_gi|1|taxon|10|mrca|5", "ACGT")
	a.Add("gi|2|seed_gi|1|taxon|20|mrca|5", "ACGT")
	a.Add("gi|3|seed_gi|1|taxon|30|mrca|5", "ACTT")

	if n := a.Dedup(); n != 1 {
		t.Errorf("removed: got %d, want %d", n, 1)
	}
	if a.Len() != 2 {
		t.Errorf("sequences: got %d, want %d", a.Len(), 2)
	}
	if s := a.Sequence(0); s.Meta.ID != 1 {
		t.Errorf("first sequence: got ID %d, want %d", s.Meta.ID, 1)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
		ok   bool
	}{
		{"ACGT", "ACGT", 0, true},
		{"ACGT", "ACTT", 0.25, true},
		{"AC-T", "ACTT", 0, true},       // gap column skipped
		{"ACNT", "ACTT", 0, true},       // ambiguous column skipped
		{"A??T", "ACTA", 0.5, true},     // 2 comparable sites, 1 mismatch
		{"----", "ACGT", 0, false},      // no comparable sites
		{"NNNN", "NNNN", 0, false},      // no comparable sites
	}
	for _, test := range tests {
		d, ok := marker.Distance(test.a, test.b)
		if ok != test.ok {
			t.Errorf("distance %q-%q: got ok %v, want %v", test.a, test.b, ok, test.ok)
			continue
		}
		if math.Abs(d-test.want) > 1e-9 {
			t.Errorf("distance %q-%q: got %.6f, want %.6f", test.a, test.b, d, test.want)
		}
	}
}

func TestMeanDistance(t *testing.T) {
	a := marker.NewAlignment("x")
	a.Add("gi|1|seed_gi|1|taxon|10|mrca|5", "ACGT")
	a.Add("gi|2|seed_gi|1|taxon|20|mrca|5", "ACTT")
	a.Add("gi|3|seed_gi|1|taxon|30|mrca|5", "AATT")

	// pairwise: 0.25, 0.50, 0.25
	want := (0.25 + 0.50 + 0.25) / 3
	if d := a.MeanDistance(); math.Abs(d-want) > 1e-9 {
		t.Errorf("mean distance: got %.6f, want %.6f", d, want)
	}
}

func TestTaxonDistance(t *testing.T) {
	a := marker.NewAlignment("x")
	a.Add("gi|1|seed_gi|1|taxon|10|mrca|5", "ACGT")
	a.Add("gi|2|seed_gi|1|taxon|10|mrca|5", "ACTT")
	a.Add("gi|3|seed_gi|1|taxon|20|mrca|5", "AATT")

	// pairs 1-3 (0.50) and 2-3 (0.25)
	want := (0.50 + 0.25) / 2
	d, ok := a.TaxonDistance(10, 20)
	if !ok {
		t.Fatalf("expecting comparable data")
	}
	if math.Abs(d-want) > 1e-9 {
		t.Errorf("taxon distance: got %.6f, want %.6f", d, want)
	}

	if _, ok := a.TaxonDistance(10, 99); ok {
		t.Errorf("taxon 99: expecting no data")
	}
}

func TestFasta(t *testing.T) {
	a := marker.NewAlignment("11001-rbcL")
	a.Add("gi|11001|seed_gi|11001|taxon|282302|mrca|23513", "ACGT-ACGT")
	a.Add("gi|11002|seed_gi|11001|taxon|281896|mrca|23513", "ACGTTACGT")

	var buf bytes.Buffer
	if err := a.Write(&buf); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	na, err := marker.Read(&buf, a.ID())
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	if na.Len() != a.Len() {
		t.Fatalf("sequences: got %d, want %d", na.Len(), a.Len())
	}
	for i := 0; i < a.Len(); i++ {
		w := a.Sequence(i)
		g := na.Sequence(i)
		if g.Defline != w.Defline || g.Seq != w.Seq {
			t.Errorf("sequence %d: got %q %q, want %q %q", i, g.Defline, g.Seq, w.Defline, w.Seq)
		}
	}
}

func TestRaw(t *testing.T) {
	if got := marker.Raw("AC-G?T"); got != "ACGT" {
		t.Errorf("raw sequence: got %q, want %q", got, "ACGT")
	}
}
