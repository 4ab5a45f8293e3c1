// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package supermatrix implements the assembly
// of a concatenated supermatrix
// from a set of merged alignments
// and a selection of exemplar taxa.
//
// The alignments of the matrix are chosen greedily:
// exemplars with the least available data
// are processed first,
// and for each exemplar the alignments
// covering the most exemplars
// are preferred,
// until every exemplar appears
// in a minimum number of selected alignments.
package supermatrix

import (
	"fmt"
	"io"
	"slices"

	"github.com/js-arias/backbone/marker"
)

// Fill selects the alignments of the supermatrix:
// the smallest greedy set
// in which every exemplar taxon appears
// at least min times.
// The returned alignments are in selection order,
// which is deterministic for a given input.
// Skip and drop decisions are narrated on log.
//
// An exemplar that cannot reach the required coverage
// with its whole alignment list is an invariant violation
// (every exemplar was selected from taxa
// with at least min alignments)
// and aborts the run.
func Fill(alns []*marker.Alignment, exemplars []int64, min int, log io.Writer) ([]*marker.Alignment, error) {
	if log == nil {
		log = io.Discard
	}

	inSel := make(map[int64]bool, len(exemplars))
	for _, tx := range exemplars {
		inSel[tx] = true
	}

	// restrict alignments and exemplars to each other
	covers := make(map[string][]int64)
	var kept []*marker.Alignment
	for _, a := range alns {
		var txs []int64
		for _, tx := range a.Taxa() {
			if inSel[tx] {
				txs = append(txs, tx)
			}
		}
		if len(txs) == 0 {
			fmt.Fprintf(log, "alignment %q: dropped: no exemplar data\n", a.ID())
			continue
		}
		covers[a.ID()] = txs
		kept = append(kept, a)
	}

	byTaxon := make(map[int64][]*marker.Alignment)
	for _, a := range kept {
		for _, tx := range covers[a.ID()] {
			byTaxon[tx] = append(byTaxon[tx], a)
		}
	}

	order := make([]int64, 0, len(exemplars))
	for _, tx := range exemplars {
		if len(byTaxon[tx]) == 0 {
			fmt.Fprintf(log, "exemplar %d: no data in any alignment\n", tx)
			continue
		}
		order = append(order, tx)
	}

	// most covering alignments first
	for _, tx := range order {
		ls := byTaxon[tx]
		slices.SortStableFunc(ls, func(a, b *marker.Alignment) int {
			if d := len(covers[b.ID()]) - len(covers[a.ID()]); d != 0 {
				return d
			}
			return compareID(a.ID(), b.ID())
		})
	}

	// rarest exemplars first,
	// so their limited data is prioritized
	slices.Sort(order)
	slices.SortStableFunc(order, func(a, b int64) int {
		return len(byTaxon[a]) - len(byTaxon[b])
	})

	selected := make(map[string]bool)
	coverage := make(map[int64]int)
	var sel []*marker.Alignment
	for _, tx := range order {
		next := 0
		for coverage[tx] < min {
			if next >= len(byTaxon[tx]) {
				return nil, fmt.Errorf("exemplar %d: coverage %d below %d with all its alignments selected", tx, coverage[tx], min)
			}
			a := byTaxon[tx][next]
			next++
			if selected[a.ID()] {
				continue
			}
			selected[a.ID()] = true
			sel = append(sel, a)
			for _, ot := range covers[a.ID()] {
				coverage[ot]++
			}
		}
	}
	return sel, nil
}

func compareID(a, b string) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
