// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package adjacency_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/backbone/adjacency"
	"github.com/js-arias/backbone/marker"
	"github.com/js-arias/backbone/taxonomy"
)

func selectionGraph(t testing.TB) *adjacency.Graph {
	t.Helper()

	alns := []*marker.Alignment{
		// divergences within Larrea (101-104)
		// single out 101 and 104 as the most divergent pair
		newAlignment(t, "cluster-1", []seqRec{
			{"gi|1|taxon|101", "AAAAAAAAAA"},
			{"gi|2|taxon|102", "AAAAAAAAAT"},
			{"gi|3|taxon|103", "AAAAATTTTT"},
			{"gi|4|taxon|104", "TTTTTTTTTT"},
			{"gi|5|taxon|105", "AAAAAAAATT"},
		}),
		// joins Guaiacum (301-302) to the main component
		newAlignment(t, "cluster-2", []seqRec{
			{"gi|6|taxon|103", "CCCCACGTAC"},
			{"gi|7|taxon|301", "CCCCACGTAA"},
			{"gi|8|taxon|302", "CCCCACGTAT"},
		}),
		// an isolated component, out of the pool
		newAlignment(t, "cluster-3", []seqRec{
			{"gi|9|taxon|201", "GGGGACGTAC"},
			{"gi|10|taxon|202", "GGGGACGTAA"},
		}),
	}
	return adjacency.Build(alns)
}

func selectionTaxonomy(t testing.TB) *taxonomy.Taxonomy {
	t.Helper()

	txm := taxonomy.New()
	taxa := []taxonomy.Taxon{
		{ID: 101, Name: "Larrea tridentata", Genus: "Larrea", Rank: "species"},
		{ID: 102, Name: "Larrea cuneifolia", Genus: "Larrea", Rank: "species"},
		{ID: 103, Name: "Larrea divaricata", Genus: "Larrea", Rank: "species"},
		{ID: 104, Name: "Larrea nitida", Genus: "Larrea", Rank: "species"},
		{ID: 105, Name: "Bulnesia retama", Genus: "Bulnesia", Rank: "species"},
		{ID: 201, Name: "Porlieria chilensis", Genus: "Porlieria", Rank: "species"},
		{ID: 202, Name: "Porlieria microphylla", Genus: "Porlieria", Rank: "species"},
		{ID: 301, Name: "Guaiacum officinale", Genus: "Guaiacum", Rank: "species"},
		{ID: 302, Name: "Guaiacum sanctum", Genus: "Guaiacum", Rank: "species"},
	}
	for _, tax := range taxa {
		if err := txm.Add(tax); err != nil {
			t.Fatalf("taxon %q: %v", tax.Name, err)
		}
	}
	return txm
}

func TestSelect(t *testing.T) {
	g := selectionGraph(t)
	txm := selectionTaxonomy(t)

	var log bytes.Buffer
	sel := adjacency.Select(g, 1, txm, &log)

	want := adjacency.Selection{
		"Larrea":   {101, 104}, // most divergent pair
		"Bulnesia": {105},      // monotypic in the pool
		"Guaiacum": {301, 302}, // two candidates, kept as is
	}
	if !reflect.DeepEqual(sel, want) {
		t.Errorf("selection: got %v, want %v", sel, want)
	}

	// a genus never contributes
	// more than two exemplars
	for _, gen := range sel.Genera() {
		if n := len(sel[gen]); n < 1 || n > 2 {
			t.Errorf("genus %s: %d exemplars, want 1 or 2", gen, n)
		}
	}

	// Porlieria is outside the candidate pool
	// and its drop must be narrated
	if !strings.Contains(log.String(), "genus Porlieria: dropped") {
		t.Errorf("expecting the drop of Porlieria narrated on log, got %q", log.String())
	}

	genera := []string{"Bulnesia", "Guaiacum", "Larrea"}
	if got := sel.Genera(); !reflect.DeepEqual(got, genera) {
		t.Errorf("genera: got %v, want %v", got, genera)
	}
	taxa := []int64{101, 104, 105, 301, 302}
	if got := sel.Taxa(); !reflect.DeepEqual(got, taxa) {
		t.Errorf("taxa: got %v, want %v", got, taxa)
	}
}

func TestSelectCoverage(t *testing.T) {
	g := selectionGraph(t)
	txm := selectionTaxonomy(t)

	// at two alignments of minimum coverage
	// only taxon 103 survives the filter
	var log bytes.Buffer
	sel := adjacency.Select(g, 2, txm, &log)
	want := adjacency.Selection{
		"Larrea": {103},
	}
	if !reflect.DeepEqual(sel, want) {
		t.Errorf("selection: got %v, want %v", sel, want)
	}
}

func TestSelectionFile(t *testing.T) {
	sel := adjacency.Selection{
		"Larrea":   {281896, 282302},
		"Bulnesia": {64077},
	}

	var buf bytes.Buffer
	if err := sel.Write(&buf); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}
	got, err := adjacency.ReadSelection(&buf)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	if !reflect.DeepEqual(got, sel) {
		t.Errorf("selection: got %v, want %v", got, sel)
	}
}
