// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package adjacency

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/backbone/taxonomy"
)

// A Selection assigns to each genus
// its exemplar taxa:
// the one or two taxa
// chosen to represent the genus
// in the backbone supermatrix.
// Genera without viable exemplars
// are absent from the selection.
type Selection map[string][]int64

// Select picks the exemplar taxa of each genus
// from the largest connected component
// of the coverage-filtered graph.
//
// Within a genus only candidates connected
// to another candidate of the same genus
// are considered safe to pair;
// a genus with a single member in the pool
// is treated as monotypic
// and contributes that member alone.
// When more than two candidates remain
// the most divergent pair is chosen,
// scoring each alignment's most divergent pair
// by the number of informative pairs
// in that alignment.
// Skip and drop decisions are narrated on log.
func Select(g *Graph, min int, txm *taxonomy.Taxonomy, log io.Writer) Selection {
	if log == nil {
		log = io.Discard
	}

	fg := g.Filter(min)
	comps := fg.Components()
	if len(comps) == 0 {
		fmt.Fprintf(log, "no taxa left after coverage filtering\n")
		return Selection{}
	}
	pool := make(map[int64]bool, len(comps[0]))
	for _, tx := range comps[0] {
		pool[tx] = true
	}

	sel := Selection{}
	for _, gen := range txm.Genera() {
		var inPool []int64
		for _, tx := range txm.Genus(gen) {
			if pool[tx] {
				inPool = append(inPool, tx)
			}
		}
		if len(inPool) == 0 {
			fmt.Fprintf(log, "genus %s: dropped: no candidates in the pool\n", gen)
			continue
		}

		// keep candidates with an in-genus connection:
		// an unconnected candidate cannot safely be paired
		var cands []int64
		for _, tx := range inPool {
			for _, ot := range inPool {
				if ot == tx {
					continue
				}
				if fg.Weight(tx, ot) > 0 {
					cands = append(cands, tx)
					break
				}
			}
		}

		switch {
		case len(cands) == 0:
			if len(inPool) == 1 {
				// monotypic genus
				sel[gen] = []int64{inPool[0]}
				continue
			}
			fmt.Fprintf(log, "genus %s: dropped: no connected candidates\n", gen)
		case len(cands) <= 2:
			sel[gen] = cands
		default:
			sel[gen] = mostDivergent(g, gen, cands, log)
		}
	}
	return sel
}

// mostDivergent picks the most divergent candidate pair
// across all alignments.
// In each alignment the pair with the largest
// mean pairwise divergence gets a score
// equal to the number of pairs with computed distances
// in that alignment minus one,
// so alignments with more corroborating comparisons
// weight more
// and alignments with a single informative pair
// are ignored.
func mostDivergent(g *Graph, gen string, cands []int64, log io.Writer) []int64 {
	type pair struct{ a, b int64 }
	score := make(map[pair]float64)

	for _, aln := range g.list {
		var best pair
		var bestDist float64
		var pairs int
		for i := 0; i < len(cands); i++ {
			for j := i + 1; j < len(cands); j++ {
				d, ok := aln.TaxonDistance(cands[i], cands[j])
				if !ok {
					continue
				}
				pairs++
				if pairs == 1 || d > bestDist {
					bestDist = d
					best = pair{cands[i], cands[j]}
				}
			}
		}
		if pairs == 0 {
			continue
		}
		score[best] += float64(pairs - 1)
	}

	var best pair
	bestScore := -1.0
	for _, p := range sortedPairs(score) {
		if score[p] > bestScore {
			bestScore = score[p]
			best = p
		}
	}
	if bestScore <= 0 {
		// no alignment with corroborated comparisons:
		// keep every candidate
		// instead of dropping the genus
		fmt.Fprintf(log, "genus %s: no informative pair, keeping all %d candidates\n", gen, len(cands))
		return cands
	}
	return []int64{best.a, best.b}
}

func sortedPairs[T comparable](m map[T]float64) []T {
	ps := make([]T, 0, len(m))
	for p := range m {
		ps = append(ps, p)
	}
	slices.SortFunc(ps, func(a, b T) int {
		af := fmt.Sprint(a)
		bf := fmt.Sprint(b)
		if af < bf {
			return -1
		}
		if af > bf {
			return 1
		}
		return 0
	})
	return ps
}

// Genera returns the genera with exemplars,
// sorted alphabetically.
func (s Selection) Genera() []string {
	gs := make([]string, 0, len(s))
	for g := range s {
		gs = append(gs, g)
	}
	slices.Sort(gs)
	return gs
}

// Taxa returns the exemplar taxa of the selection,
// sorted by ID.
func (s Selection) Taxa() []int64 {
	var taxa []int64
	for _, txs := range s {
		taxa = append(taxa, txs...)
	}
	slices.Sort(taxa)
	return taxa
}

var selHeader = []string{
	"genus",
	"taxon",
}

// ReadSelection reads an exemplar selection
// from a TSV file.
//
// The TSV must contain the following fields:
//
//   - genus, the genus name
//   - taxon, the ID of an exemplar taxon
//
// Here is an example file:
//
//	# exemplar taxa
//	genus	taxon
//	Larrea	281896
//	Larrea	282302
//	Bulnesia	64077
func ReadSelection(r io.Reader) (Selection, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range selHeader {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	sel := Selection{}
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		gen := taxonomy.Canon(row[fields["genus"]])
		if gen == "" {
			return nil, fmt.Errorf("on row %d: empty genus", ln)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[fields["taxon"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, "taxon", err)
		}
		sel[gen] = append(sel[gen], id)
	}
	if len(sel) == 0 {
		return nil, errors.New("empty exemplar selection")
	}

	for _, gen := range sel.Genera() {
		slices.Sort(sel[gen])
	}
	return sel, nil
}

// Write writes an exemplar selection
// into a TSV file.
func (s Selection) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# exemplar taxa\n")
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(selHeader); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for _, gen := range s.Genera() {
		for _, tx := range s[gen] {
			row := []string{
				gen,
				strconv.FormatInt(tx, 10),
			}
			if err := tsv.Write(row); err != nil {
				return fmt.Errorf("genus %s: %v", gen, err)
			}
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return bw.Flush()
}
