// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package taxonomy implements a table of taxa
// grouped by genus.
//
// Taxon names and genus assignations
// are resolved upstream
// against an external taxonomy;
// here the table is read-only reference data.
package taxonomy

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Taxon is a named terminal taxon
// with a unique numeric ID.
type Taxon struct {
	ID    int64
	Name  string
	Genus string
	Rank  string
}

// A Taxonomy is a collection of taxa
// indexed by their IDs.
type Taxonomy struct {
	taxon map[int64]Taxon
	genus map[string][]int64
}

// New creates a new empty taxonomy.
func New() *Taxonomy {
	return &Taxonomy{
		taxon: make(map[int64]Taxon),
		genus: make(map[string][]int64),
	}
}

// Add adds a taxon to the taxonomy.
// It is an error to add a taxon
// with an ID already in the taxonomy.
func (t *Taxonomy) Add(tax Taxon) error {
	if tax.ID <= 0 {
		return fmt.Errorf("taxon %q: invalid ID %d", tax.Name, tax.ID)
	}
	if other, dup := t.taxon[tax.ID]; dup {
		return fmt.Errorf("taxon %q: ID %d already in use by %q", tax.Name, tax.ID, other.Name)
	}

	tax.Name = Canon(tax.Name)
	tax.Genus = Canon(tax.Genus)
	tax.Rank = strings.ToLower(strings.Join(strings.Fields(tax.Rank), " "))
	t.taxon[tax.ID] = tax
	if tax.Genus != "" {
		t.genus[tax.Genus] = append(t.genus[tax.Genus], tax.ID)
		slices.Sort(t.genus[tax.Genus])
	}
	return nil
}

// Genera returns the genus names defined in the taxonomy,
// sorted alphabetically.
func (t *Taxonomy) Genera() []string {
	gs := make([]string, 0, len(t.genus))
	for g := range t.genus {
		gs = append(gs, g)
	}
	slices.Sort(gs)
	return gs
}

// Genus returns the IDs of the taxa
// assigned to a genus,
// sorted by ID.
func (t *Taxonomy) Genus(name string) []int64 {
	ids := t.genus[Canon(name)]
	return slices.Clone(ids)
}

// IDs returns the IDs of all taxa in the taxonomy,
// sorted by ID.
func (t *Taxonomy) IDs() []int64 {
	ids := make([]int64, 0, len(t.taxon))
	for id := range t.taxon {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of taxa in a taxonomy.
func (t *Taxonomy) Len() int {
	return len(t.taxon)
}

// Taxon returns a taxon by its ID.
// It returns false if the ID is not in the taxonomy.
func (t *Taxonomy) Taxon(id int64) (Taxon, bool) {
	tax, ok := t.taxon[id]
	return tax, ok
}

// Canon returns a name in its canonical form:
// a single first capital,
// with space-only separation.
func Canon(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	name = strings.ToLower(name)
	r, n := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[n:]
}

var header = []string{
	"taxon",
	"name",
	"genus",
	"rank",
}

// Read reads a taxonomy from a TSV file.
//
// The TSV must contain the following fields:
//
//   - taxon, the ID of the taxon
//   - name, the taxon name
//   - genus, the name of the genus of the taxon
//   - rank, the taxonomic rank of the taxon
//
// Here is an example file:
//
//	# taxon table
//	taxon	name	genus	rank
//	282302	Larrea cuneifolia	Larrea	species
//	281896	Larrea tridentata	Larrea	species
//	64077	Bulnesia sarmientoi	Bulnesia	species
func Read(r io.Reader) (*Taxonomy, error) {
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
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	t := New()
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "taxon"
		id, err := strconv.ParseInt(strings.TrimSpace(row[fields[f]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		tax := Taxon{
			ID:    id,
			Name:  row[fields["name"]],
			Genus: row[fields["genus"]],
			Rank:  row[fields["rank"]],
		}
		if err := t.Add(tax); err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}
	}

	return t, nil
}

// Write writes a taxonomy into a TSV file.
func (t *Taxonomy) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# taxon table\n")
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for _, id := range t.IDs() {
		tax := t.taxon[id]
		row := []string{
			strconv.FormatInt(tax.ID, 10),
			tax.Name,
			tax.Genus,
			tax.Rank,
		}
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("taxon %d: %v", id, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return bw.Flush()
}
