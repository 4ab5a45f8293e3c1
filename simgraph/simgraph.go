// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package simgraph implements a similarity graph
// between the seed sequences
// of a set of candidate alignments,
// and its decomposition into orthologous clusters
// by single-linkage clustering.
//
// Two seeds are connected in the graph
// if an all-vs-all similarity search
// found matches between them
// covering more than a given fraction
// of both sequence lengths.
// Alignments whose seeds end in the same cluster
// are assumed to represent the same genetic marker,
// retrieved by different clustering runs,
// and will be merged downstream.
package simgraph

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// DefaultThreshold is the default fraction
// of a sequence length
// that must be covered by matched regions
// for a hit to be retained.
const DefaultThreshold = 0.51

// A Seed is the representative sequence
// a candidate alignment was built around.
type Seed struct {
	ID  int64
	Seq string
}

// A Hit is a matched region pair
// between two seed sequences,
// as reported by a similarity search.
// Covered lengths are per matched region
// and are accumulated per sequence pair
// when building the graph.
type Hit struct {
	Query, Subject       int64 // seed IDs
	QueryCov, SubCov     int   // length covered by the region on each sequence
	QueryLen, SubjectLen int   // total sequence lengths
}

// A Searcher runs an all-vs-all similarity search
// on a set of seed sequences,
// returning every matched region pair found.
// It is an external tool invocation,
// treated as a black box.
type Searcher interface {
	AllVsAll(ctx context.Context, seeds []Seed) ([]Hit, error)
}

// A Graph is a reciprocal-overlap hit graph:
// it connects seed IDs whose accumulated hits
// cover more than a threshold fraction
// of both sequences.
// The adjacency is read-only after construction;
// traversals keep their own visited sets.
type Graph struct {
	adj map[int64]map[int64]bool
}

// Build runs the all-vs-all search on the given seeds
// and returns the graph of the hits
// that pass the reciprocal-overlap threshold.
// If the threshold is not greater than zero
// DefaultThreshold is used.
//
// An empty search result over a non-empty seed set
// is a setup error,
// not a property of the data,
// and aborts the stage.
func Build(ctx context.Context, sr Searcher, seeds []Seed, threshold float64) (*Graph, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	hits, err := sr.AllVsAll(ctx, seeds)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %v", err)
	}
	if len(hits) == 0 && len(seeds) > 0 {
		return nil, errors.New("similarity search: empty result on a non-empty seed set")
	}

	g := &Graph{adj: make(map[int64]map[int64]bool, len(seeds))}
	for _, s := range seeds {
		g.addSeed(s.ID)
	}

	type pair struct{ q, s int64 }
	type cover struct {
		qCov, sCov int
		qLen, sLen int
	}
	acc := make(map[pair]cover)
	for _, h := range hits {
		if h.Query == h.Subject {
			continue
		}
		p := pair{h.Query, h.Subject}
		c := acc[p]
		c.qCov += h.QueryCov
		c.sCov += h.SubCov
		c.qLen = h.QueryLen
		c.sLen = h.SubjectLen
		acc[p] = c
	}

	for p, c := range acc {
		if c.qLen == 0 || c.sLen == 0 {
			continue
		}
		if float64(c.qCov)/float64(c.qLen) <= threshold {
			continue
		}
		if float64(c.sCov)/float64(c.sLen) <= threshold {
			continue
		}
		g.addEdge(p.q, p.s)
	}
	return g, nil
}

func (g *Graph) addSeed(id int64) {
	if _, ok := g.adj[id]; ok {
		return
	}
	g.adj[id] = make(map[int64]bool)
}

func (g *Graph) addEdge(a, b int64) {
	g.addSeed(a)
	g.addSeed(b)
	g.adj[a][b] = true
	g.adj[b][a] = true
}

// HitsOf returns the seeds connected to a seed,
// sorted by ID.
func (g *Graph) HitsOf(id int64) []int64 {
	hs := make([]int64, 0, len(g.adj[id]))
	for h := range g.adj[id] {
		hs = append(hs, h)
	}
	slices.Sort(hs)
	return hs
}

// Seeds returns the seed IDs in the graph,
// sorted by ID.
func (g *Graph) Seeds() []int64 {
	ids := make([]int64, 0, len(g.adj))
	for id := range g.adj {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// A Cluster is a set of seed IDs
// assigned to the same orthologous marker.
type Cluster struct {
	ID    int
	Seeds []int64 // sorted by ID
}

// Clusters partitions the seeds of the graph
// into orthologous clusters
// by single-linkage clustering:
// every seed reachable from another
// through retained hits
// ends in the same cluster.
// Singleton clusters are valid
// and are preserved.
//
// Cluster IDs are assigned in ascending order
// over the smallest seed of each cluster,
// so the partition is independent
// of the traversal order.
func (g *Graph) Clusters() []Cluster {
	visited := make(map[int64]bool, len(g.adj))

	var comps [][]int64
	for _, id := range g.Seeds() {
		if visited[id] {
			continue
		}

		// depth-first fold of every reachable seed
		var members []int64
		stack := []int64{id}
		visited[id] = true
		for len(stack) > 0 {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, s)
			for h := range g.adj[s] {
				if visited[h] {
					continue
				}
				visited[h] = true
				stack = append(stack, h)
			}
		}
		slices.Sort(members)
		comps = append(comps, members)
	}

	// canonical dedup:
	// different starting seeds can re-derive
	// the same connected component
	seen := make(map[string]bool, len(comps))
	uniq := comps[:0]
	for _, m := range comps {
		key := canon(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, m)
	}

	slices.SortFunc(uniq, func(a, b []int64) int {
		if a[0] < b[0] {
			return -1
		}
		if a[0] > b[0] {
			return 1
		}
		return 0
	})

	cls := make([]Cluster, 0, len(uniq))
	for i, m := range uniq {
		cls = append(cls, Cluster{ID: i + 1, Seeds: m})
	}
	return cls
}

func canon(members []int64) string {
	sb := make([]string, 0, len(members))
	for _, m := range members {
		sb = append(sb, strconv.FormatInt(m, 10))
	}
	return strings.Join(sb, "|")
}

// SeedID extracts the seed sequence ID
// encoded in the file name
// of a candidate alignment
// (of the form "<seed-ID>-<descriptor>.fa").
func SeedID(name string) (int64, error) {
	base := filepath.Base(name)
	pre, _, ok := strings.Cut(base, "-")
	if !ok {
		pre = strings.TrimSuffix(base, filepath.Ext(base))
	}
	id, err := strconv.ParseInt(pre, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("on file %q: invalid seed ID: %v", name, err)
	}
	return id, nil
}
