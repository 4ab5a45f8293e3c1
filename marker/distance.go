// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package marker

import (
	"gonum.org/v1/gonum/stat"
)

// Distance returns the uncorrected p-distance
// between two aligned sequences:
// the proportion of mismatched sites
// over the sites in which both sequences
// have an unambiguous, non-gap nucleotide.
// It returns false if the sequences
// share no comparable sites.
func Distance(a, b string) (float64, bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var sites, diff int
	for i := 0; i < n; i++ {
		if IsMissing(a[i]) || IsMissing(b[i]) {
			continue
		}
		sites++
		if a[i] != b[i] {
			diff++
		}
	}
	if sites == 0 {
		return 0, false
	}
	return float64(diff) / float64(sites), true
}

// MeanDistance returns the mean pairwise p-distance
// of the alignment,
// averaged over all sequence pairs
// with at least one comparable site.
// An alignment with less than two sequences,
// or without any comparable pair,
// has a mean distance of zero.
func (a *Alignment) MeanDistance() float64 {
	var dist []float64
	for i := 0; i < len(a.seqs); i++ {
		for j := i + 1; j < len(a.seqs); j++ {
			d, ok := Distance(a.seqs[i].Seq, a.seqs[j].Seq)
			if !ok {
				continue
			}
			dist = append(dist, d)
		}
	}
	if len(dist) == 0 {
		return 0
	}
	return stat.Mean(dist, nil)
}

// TaxonDistance returns the pairwise p-distance
// between two taxa in the alignment,
// averaged over all pairs of their sequences
// with comparable sites.
// It returns false if the taxa
// share no comparable data in the alignment.
func (a *Alignment) TaxonDistance(tx1, tx2 int64) (float64, bool) {
	s1 := a.SeqsOf(tx1)
	s2 := a.SeqsOf(tx2)
	if len(s1) == 0 || len(s2) == 0 {
		return 0, false
	}

	var dist []float64
	for _, p := range s1 {
		for _, q := range s2 {
			d, ok := Distance(p.Seq, q.Seq)
			if !ok {
				continue
			}
			dist = append(dist, d)
		}
	}
	if len(dist) == 0 {
		return 0, false
	}
	return stat.Mean(dist, nil), true
}
