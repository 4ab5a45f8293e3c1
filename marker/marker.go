// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package marker implements an aligned sequence block
// for a candidate genetic marker.
//
// Each sequence in an alignment is identified
// by its defline,
// a pipe-delimited string of the form
//
//	gi|<ID>|seed_gi|<seed>|taxon|<taxon>|mrca|<root>
//
// that encodes the sequence ID,
// the ID of the seed sequence
// the alignment was built around,
// the owning taxon,
// and the root taxon of the clade
// used to retrieve the cluster.
// The defline is parsed once at read time;
// downstream code uses the resulting Meta values.
package marker

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Meta contains the metadata of an aligned sequence,
// parsed from its defline.
type Meta struct {
	ID      int64 // sequence ID
	SeedID  int64 // ID of the seed sequence of the source alignment
	TaxonID int64 // ID of the owning taxon
	RootID  int64 // ID of the cluster root taxon
}

// ParseDefline parses a pipe-delimited defline
// into its metadata fields.
func ParseDefline(s string) (Meta, error) {
	fields := strings.Split(strings.TrimSpace(s), "|")
	var m Meta
	for i := 0; i+1 < len(fields); i += 2 {
		v, err := strconv.ParseInt(fields[i+1], 10, 64)
		if err != nil {
			return Meta{}, fmt.Errorf("defline %q: field %q: %v", s, fields[i], err)
		}
		switch fields[i] {
		case "gi":
			m.ID = v
		case "seed_gi":
			m.SeedID = v
		case "taxon":
			m.TaxonID = v
		case "mrca":
			m.RootID = v
		default:
			return Meta{}, fmt.Errorf("defline %q: unknown field %q", s, fields[i])
		}
	}
	if m.ID == 0 || m.TaxonID == 0 {
		return Meta{}, fmt.Errorf("defline %q: incomplete metadata", s)
	}
	return m, nil
}

// Defline returns the canonical defline
// for the metadata.
func (m Meta) Defline() string {
	return fmt.Sprintf("gi|%d|seed_gi|%d|taxon|%d|mrca|%d", m.ID, m.SeedID, m.TaxonID, m.RootID)
}

// A Sequence is an aligned sequence of an alignment.
type Sequence struct {
	Defline string
	Meta    Meta
	Seq     string
}

// An Alignment is a named, ordered collection
// of equal-length aligned sequences.
type Alignment struct {
	id   string
	seqs []Sequence
	rows map[string]int
}

// NewAlignment creates a new empty alignment
// with the given identifier.
func NewAlignment(id string) *Alignment {
	return &Alignment{
		id:   id,
		rows: make(map[string]int),
	}
}

// Add adds an aligned sequence to the alignment,
// parsing its metadata from the defline.
// All sequences of an alignment
// must have the same number of columns.
func (a *Alignment) Add(defline, seq string) error {
	m, err := ParseDefline(defline)
	if err != nil {
		return fmt.Errorf("alignment %q: %v", a.id, err)
	}
	defline = m.Defline()
	if _, dup := a.rows[defline]; dup {
		return fmt.Errorf("alignment %q: sequence %q already in alignment", a.id, defline)
	}
	if len(a.seqs) > 0 && len(seq) != len(a.seqs[0].Seq) {
		return fmt.Errorf("alignment %q: sequence %q: got %d columns, want %d", a.id, defline, len(seq), len(a.seqs[0].Seq))
	}

	a.rows[defline] = len(a.seqs)
	a.seqs = append(a.seqs, Sequence{
		Defline: defline,
		Meta:    m,
		Seq:     strings.ToUpper(seq),
	})
	return nil
}

// Clone returns a copy of the alignment
// under a new identifier.
func (a *Alignment) Clone(id string) *Alignment {
	na := &Alignment{
		id:   id,
		seqs: slices.Clone(a.seqs),
		rows: make(map[string]int, len(a.rows)),
	}
	for i, s := range na.seqs {
		na.rows[s.Defline] = i
	}
	return na
}

// Columns returns the number of columns
// (i.e. aligned sites)
// of the alignment.
func (a *Alignment) Columns() int {
	if len(a.seqs) == 0 {
		return 0
	}
	return len(a.seqs[0].Seq)
}

// Dedup removes sequences with an aligned sequence
// identical to an earlier sequence,
// keeping the first one found.
// It returns the number of removed sequences.
func (a *Alignment) Dedup() int {
	seen := make(map[string]bool, len(a.seqs))
	kept := a.seqs[:0]
	for _, s := range a.seqs {
		if seen[s.Seq] {
			delete(a.rows, s.Defline)
			continue
		}
		seen[s.Seq] = true
		kept = append(kept, s)
	}
	removed := len(a.seqs) - len(kept)
	a.seqs = kept
	for i, s := range a.seqs {
		a.rows[s.Defline] = i
	}
	return removed
}

// ID returns the identifier of the alignment.
func (a *Alignment) ID() string {
	return a.id
}

// Len returns the number of sequences
// in the alignment.
func (a *Alignment) Len() int {
	return len(a.seqs)
}

// Sequence returns the i-th sequence of the alignment.
func (a *Alignment) Sequence(i int) Sequence {
	return a.seqs[i]
}

// SeqsOf returns the sequences of a given taxon
// in the alignment,
// in alignment order.
func (a *Alignment) SeqsOf(taxon int64) []Sequence {
	var sq []Sequence
	for _, s := range a.seqs {
		if s.Meta.TaxonID == taxon {
			sq = append(sq, s)
		}
	}
	return sq
}

// Taxa returns the IDs of the taxa
// with at least one sequence in the alignment,
// sorted by ID.
func (a *Alignment) Taxa() []int64 {
	set := make(map[int64]bool)
	for _, s := range a.seqs {
		set[s.Meta.TaxonID] = true
	}
	taxa := make([]int64, 0, len(set))
	for tx := range set {
		taxa = append(taxa, tx)
	}
	slices.Sort(taxa)
	return taxa
}

// IsMissing returns true for characters
// that carry no usable information at a site:
// gaps ('-'),
// unsampled data ('?'),
// and fully ambiguous nucleotides ('N').
func IsMissing(c byte) bool {
	switch c {
	case '-', '?', 'N', 'n':
		return true
	}
	return false
}

// Raw returns the raw (degapped) sequence
// of an aligned sequence.
func Raw(seq string) string {
	var sb strings.Builder
	sb.Grow(len(seq))
	for i := 0; i < len(seq); i++ {
		c := seq[i]
		if c == '-' || c == '?' {
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
