// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package adjacency_test

import (
	"reflect"
	"testing"

	"github.com/js-arias/backbone/adjacency"
	"github.com/js-arias/backbone/marker"
)

type seqRec struct {
	defline string
	seq     string
}

func newAlignment(t testing.TB, id string, seqs []seqRec) *marker.Alignment {
	t.Helper()

	a := marker.NewAlignment(id)
	for _, s := range seqs {
		if err := a.Add(s.defline, s.seq); err != nil {
			t.Fatalf("alignment %q: %v", id, err)
		}
	}
	return a
}

func testGraph(t testing.TB) *adjacency.Graph {
	t.Helper()

	alns := []*marker.Alignment{
		newAlignment(t, "cluster-1", []seqRec{
			{"gi|1|taxon|101", "ACGTACGTAC"},
			{"gi|2|taxon|102", "ACGTACGTAA"},
			{"gi|3|taxon|103", "ACGTACGTAT"},
		}),
		newAlignment(t, "cluster-2", []seqRec{
			{"gi|4|taxon|103", "TTTTACGTAC"},
			{"gi|5|taxon|104", "TTTTACGTAA"},
			{"gi|6|taxon|105", "TTTTACGTAT"},
		}),
		newAlignment(t, "cluster-3", []seqRec{
			{"gi|7|taxon|201", "GGGGACGTAC"},
			{"gi|8|taxon|202", "GGGGACGTAA"},
			{"gi|9|taxon|203", "GGGGACGTAT"},
		}),
	}
	return adjacency.Build(alns)
}

func TestBuild(t *testing.T) {
	g := testGraph(t)

	taxa := []int64{101, 102, 103, 104, 105, 201, 202, 203}
	if got := g.Taxa(); !reflect.DeepEqual(got, taxa) {
		t.Errorf("taxa: got %v, want %v", got, taxa)
	}

	weights := []struct {
		tx1, tx2 int64
		w        int
	}{
		{101, 102, 1},
		{101, 103, 1},
		{103, 104, 1},
		{101, 104, 0}, // no shared alignment
		{101, 201, 0}, // different components
		{101, 101, 0}, // no self edges
	}
	for _, w := range weights {
		if got := g.Weight(w.tx1, w.tx2); got != w.w {
			t.Errorf("weight %d-%d: got %d, want %d", w.tx1, w.tx2, got, w.w)
		}
	}

	if c := g.Coverage(103); c != 2 {
		t.Errorf("coverage of 103: got %d, want 2", c)
	}
	if c := g.Coverage(101); c != 1 {
		t.Errorf("coverage of 101: got %d, want 1", c)
	}
	if a := g.AlignmentsOf(103); len(a) != 2 {
		t.Errorf("alignments of 103: got %d, want 2", len(a))
	}
	if !g.HasTaxon(105) {
		t.Errorf("taxon 105 must be in the graph")
	}
	if g.HasTaxon(999) {
		t.Errorf("taxon 999 must not be in the graph")
	}
}

func TestFilter(t *testing.T) {
	g := testGraph(t)

	fg := g.Filter(2)
	if got := fg.Taxa(); !reflect.DeepEqual(got, []int64{103}) {
		t.Errorf("filtered taxa: got %v, want [103]", got)
	}
	if fg.Weight(103, 104) != 0 {
		t.Errorf("edges to removed taxa must be dropped")
	}

	// the source graph is untouched
	if len(g.Taxa()) != 8 {
		t.Errorf("source graph mutated by Filter")
	}
}

func TestComponents(t *testing.T) {
	g := testGraph(t)

	want := [][]int64{
		{101, 102, 103, 104, 105},
		{201, 202, 203},
	}
	if got := g.Components(); !reflect.DeepEqual(got, want) {
		t.Errorf("components: got %v, want %v", got, want)
	}
}
