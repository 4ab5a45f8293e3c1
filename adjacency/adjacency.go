// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package adjacency implements a taxon adjacency graph
// weighted by alignment co-occurrence:
// two taxa are connected
// if they have sequences in the same alignment,
// with an edge weight equal to the number
// of alignments they share.
//
// The graph is built once from the merged alignments
// and is not mutated afterwards;
// coverage filtering works on a copy.
package adjacency

import (
	"slices"

	"github.com/js-arias/backbone/marker"
)

// A Graph is a taxon adjacency graph.
type Graph struct {
	edges map[int64]map[int64]int
	alns  map[int64][]*marker.Alignment
	list  []*marker.Alignment
}

// Build builds the adjacency graph
// of a set of merged alignments.
// For every pair of taxa co-occurring in an alignment
// the weight of their edge is incremented;
// self edges are excluded.
// It also records,
// per taxon,
// the alignments the taxon appears in.
func Build(alns []*marker.Alignment) *Graph {
	g := &Graph{
		edges: make(map[int64]map[int64]int),
		alns:  make(map[int64][]*marker.Alignment),
		list:  slices.Clone(alns),
	}

	for _, a := range alns {
		taxa := a.Taxa()
		for _, tx := range taxa {
			if _, ok := g.edges[tx]; !ok {
				g.edges[tx] = make(map[int64]int)
			}
			g.alns[tx] = append(g.alns[tx], a)
			for _, ot := range taxa {
				if ot == tx {
					continue
				}
				g.edges[tx][ot]++
			}
		}
	}
	return g
}

// Alignments returns the alignments
// used to build the graph.
func (g *Graph) Alignments() []*marker.Alignment {
	return slices.Clone(g.list)
}

// AlignmentsOf returns the alignments
// in which a taxon appears.
func (g *Graph) AlignmentsOf(tx int64) []*marker.Alignment {
	return slices.Clone(g.alns[tx])
}

// Coverage returns the number of alignments
// in which a taxon appears.
func (g *Graph) Coverage(tx int64) int {
	return len(g.alns[tx])
}

// Filter returns a copy of the graph
// without the taxa that appear
// in less than min alignments.
// Such taxa can never be viable exemplars.
func (g *Graph) Filter(min int) *Graph {
	ng := &Graph{
		edges: make(map[int64]map[int64]int),
		alns:  make(map[int64][]*marker.Alignment),
		list:  slices.Clone(g.list),
	}
	for tx, alns := range g.alns {
		if len(alns) < min {
			continue
		}
		ng.alns[tx] = slices.Clone(alns)
		ng.edges[tx] = make(map[int64]int)
	}
	for tx := range ng.edges {
		for ot, w := range g.edges[tx] {
			if _, ok := ng.edges[ot]; !ok {
				continue
			}
			ng.edges[tx][ot] = w
		}
	}
	return ng
}

// HasTaxon returns true
// if the taxon is a node of the graph.
func (g *Graph) HasTaxon(tx int64) bool {
	_, ok := g.edges[tx]
	return ok
}

// Taxa returns the taxa of the graph,
// sorted by ID.
func (g *Graph) Taxa() []int64 {
	taxa := make([]int64, 0, len(g.edges))
	for tx := range g.edges {
		taxa = append(taxa, tx)
	}
	slices.Sort(taxa)
	return taxa
}

// Weight returns the number of alignments
// shared by two taxa.
func (g *Graph) Weight(tx1, tx2 int64) int {
	return g.edges[tx1][tx2]
}

// Components returns the connected components
// of the graph,
// found by breadth-first traversal
// over edges with nonzero weight.
// Components are sorted by descending size
// (ties by smallest member);
// the members of a component are sorted by ID.
// The largest component is the candidate pool
// for exemplar selection;
// the rest are kept for diagnostics.
func (g *Graph) Components() [][]int64 {
	visited := make(map[int64]bool, len(g.edges))

	var comps [][]int64
	for _, tx := range g.Taxa() {
		if visited[tx] {
			continue
		}

		var members []int64
		queue := []int64{tx}
		visited[tx] = true
		for len(queue) > 0 {
			t := queue[0]
			queue = queue[1:]
			members = append(members, t)
			for ot, w := range g.edges[t] {
				if w == 0 || visited[ot] {
					continue
				}
				visited[ot] = true
				queue = append(queue, ot)
			}
		}
		slices.Sort(members)
		comps = append(comps, members)
	}

	slices.SortFunc(comps, func(a, b []int64) int {
		if d := len(b) - len(a); d != 0 {
			return d
		}
		if a[0] < b[0] {
			return -1
		}
		if a[0] > b[0] {
			return 1
		}
		return 0
	})
	return comps
}
