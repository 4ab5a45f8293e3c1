// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package simgraph_test

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/backbone/simgraph"
)

// A hitSearcher is a Searcher
// that returns a fixed hit list.
type hitSearcher []simgraph.Hit

func (hs hitSearcher) AllVsAll(ctx context.Context, seeds []simgraph.Seed) ([]simgraph.Hit, error) {
	return hs, nil
}

func seedList(ids ...int64) []simgraph.Seed {
	seeds := make([]simgraph.Seed, 0, len(ids))
	for _, id := range ids {
		seeds = append(seeds, simgraph.Seed{ID: id, Seq: "ACGT"})
	}
	return seeds
}

func TestOverlapFilter(t *testing.T) {
	tests := map[string]struct {
		qCov, sCov int
		retained   bool
	}{
		"both above":        {60, 60, true},
		"query at boundary": {51, 60, false}, // threshold is exclusive
		"query below":       {50, 60, false},
		"hit at boundary":   {60, 51, false},
		"both at boundary":  {51, 51, false},
		"just above":        {52, 52, true},
	}
	for name, test := range tests {
		sr := hitSearcher{
			{Query: 1, Subject: 2, QueryCov: test.qCov, SubCov: test.sCov, QueryLen: 100, SubjectLen: 100},
		}
		g, err := simgraph.Build(context.Background(), sr, seedList(1, 2), 0.51)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		got := len(g.HitsOf(1)) > 0
		if got != test.retained {
			t.Errorf("%s: hit retained %v, want %v", name, got, test.retained)
		}
	}
}

func TestAccumulatedRegions(t *testing.T) {
	// two regions of the same pair
	// must be accumulated before filtering
	sr := hitSearcher{
		{Query: 1, Subject: 2, QueryCov: 30, SubCov: 30, QueryLen: 100, SubjectLen: 100},
		{Query: 1, Subject: 2, QueryCov: 30, SubCov: 30, QueryLen: 100, SubjectLen: 100},
	}
	g, err := simgraph.Build(context.Background(), sr, seedList(1, 2), 0.51)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits := g.HitsOf(1); !reflect.DeepEqual(hits, []int64{2}) {
		t.Errorf("hits of 1: got %v, want [2]", hits)
	}
}

func TestEmptyResult(t *testing.T) {
	if _, err := simgraph.Build(context.Background(), hitSearcher{}, seedList(1, 2), 0.51); err == nil {
		t.Errorf("expecting error on an empty search result")
	}
}

func strongHit(q, s int64) simgraph.Hit {
	return simgraph.Hit{Query: q, Subject: s, QueryCov: 90, SubCov: 90, QueryLen: 100, SubjectLen: 100}
}

func TestClusters(t *testing.T) {
	// seeds 1-2-3 chained, 4-5 paired, 6 alone
	sr := hitSearcher{
		strongHit(1, 2),
		strongHit(2, 1),
		strongHit(2, 3),
		strongHit(4, 5),
	}
	g, err := simgraph.Build(context.Background(), sr, seedList(1, 2, 3, 4, 5, 6), 0.51)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cls := g.Clusters()
	want := []simgraph.Cluster{
		{ID: 1, Seeds: []int64{1, 2, 3}},
		{ID: 2, Seeds: []int64{4, 5}},
		{ID: 3, Seeds: []int64{6}},
	}
	if !reflect.DeepEqual(cls, want) {
		t.Errorf("clusters: got %v, want %v", cls, want)
	}

	// idempotence:
	// the partition must not depend on traversal order
	for i := 0; i < 10; i++ {
		if nc := g.Clusters(); !reflect.DeepEqual(nc, cls) {
			t.Fatalf("clusters changed between runs: got %v, want %v", nc, cls)
		}
	}

	// totality:
	// every seed in exactly one cluster
	seen := make(map[int64]int)
	for _, c := range cls {
		for _, s := range c.Seeds {
			seen[s]++
		}
	}
	for _, id := range g.Seeds() {
		if seen[id] != 1 {
			t.Errorf("seed %d: in %d clusters, want 1", id, seen[id])
		}
	}
}

func TestEndToEndClustering(t *testing.T) {
	// files A (seed 10) and B (seed 20) overlap reciprocally;
	// C (seed 30) and D (seed 40) do not overlap with anything
	sr := hitSearcher{
		strongHit(10, 20),
		strongHit(20, 10),
		{Query: 30, Subject: 10, QueryCov: 10, SubCov: 10, QueryLen: 100, SubjectLen: 100},
	}
	g, err := simgraph.Build(context.Background(), sr, seedList(10, 20, 30, 40), 0.51)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []simgraph.Cluster{
		{ID: 1, Seeds: []int64{10, 20}},
		{ID: 2, Seeds: []int64{30}},
		{ID: 3, Seeds: []int64{40}},
	}
	if cls := g.Clusters(); !reflect.DeepEqual(cls, want) {
		t.Errorf("clusters: got %v, want %v", cls, want)
	}
}

func TestParseReport(t *testing.T) {
	blob := "1\t2\t100\t120\t1\t60\t10\t69\n" +
		"2\t1\t120\t100\t70\t11\t55\t114\n"
	hits, err := simgraph.ParseReport(strings.NewReader(blob))
	if err != nil {
		t.Fatalf("error when reading report: %v", err)
	}
	want := []simgraph.Hit{
		{Query: 1, Subject: 2, QueryLen: 100, SubjectLen: 120, QueryCov: 60, SubCov: 60},
		{Query: 2, Subject: 1, QueryLen: 120, SubjectLen: 100, QueryCov: 60, SubCov: 60},
	}
	if !reflect.DeepEqual(hits, want) {
		t.Errorf("hits: got %v, want %v", hits, want)
	}
}

func TestClustersFile(t *testing.T) {
	cls := []simgraph.Cluster{
		{ID: 1, Seeds: []int64{11001, 11003, 11057}},
		{ID: 2, Seeds: []int64{11010}},
	}

	var buf bytes.Buffer
	if err := simgraph.WriteClusters(&buf, cls); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}
	got, err := simgraph.ReadClusters(&buf)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	if !reflect.DeepEqual(got, cls) {
		t.Errorf("clusters: got %v, want %v", got, cls)
	}
}

func TestSeedID(t *testing.T) {
	tests := map[string]int64{
		"aligns/11001-rbcL.fa": 11001,
		"11057-matK.fasta":     11057,
		"11010.fa":             11010,
	}
	for name, want := range tests {
		got, err := simgraph.SeedID(name)
		if err != nil {
			t.Fatalf("on file %q: unexpected error: %v", name, err)
		}
		if got != want {
			t.Errorf("on file %q: got %d, want %d", name, got, want)
		}
	}

	if _, err := simgraph.SeedID("rbcL.fa"); err == nil {
		t.Errorf("expecting error on a file without seed ID")
	}
}
