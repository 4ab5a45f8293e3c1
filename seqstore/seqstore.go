// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package seqstore provides lookup of raw sequences
// by their numeric sequence ID.
//
// Sequences are produced upstream
// and kept in an external data store;
// here the store is read-only.
// Two implementations are provided:
// a SQLite database
// (the store used by the source pipeline),
// and an in-memory store
// derived from a set of alignments.
package seqstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/js-arias/backbone/marker"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a sequence ID
// is not in the store.
var ErrNotFound = errors.New("sequence not found")

// A Store is a read-only collection of raw
// (unaligned)
// sequences indexed by sequence ID.
type Store interface {
	// Sequence returns the raw sequence
	// and the owning taxon
	// of a sequence ID.
	Sequence(id int64) (seq string, taxon int64, err error)

	Close() error
}

// Open opens a SQLite sequence database.
//
// The database must contain a table
//
//	sequences (gi INTEGER PRIMARY KEY, taxon INTEGER, sequence TEXT)
//
// with one row per stored sequence.
func Open(name string) (Store, error) {
	db, err := sql.Open("sqlite3", name)
	if err != nil {
		return nil, fmt.Errorf("on database %q: %v", name, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("on database %q: %v", name, err)
	}
	return &sqlStore{name: name, db: db}, nil
}

type sqlStore struct {
	name string
	db   *sql.DB
}

func (s *sqlStore) Sequence(id int64) (string, int64, error) {
	var seq string
	var taxon int64
	err := s.db.QueryRow("SELECT sequence, taxon FROM sequences WHERE gi = ?", id).Scan(&seq, &taxon)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, fmt.Errorf("on database %q: sequence %d: %w", s.name, id, ErrNotFound)
	}
	if err != nil {
		return "", 0, fmt.Errorf("on database %q: sequence %d: %v", s.name, id, err)
	}
	return seq, taxon, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

type memStore struct {
	seqs map[int64]memSeq
}

type memSeq struct {
	seq   string
	taxon int64
}

// FromAlignments returns an in-memory store
// with the degapped sequences
// of a set of alignments.
// If a sequence ID appears in several alignments
// the first sequence found is kept.
func FromAlignments(alns []*marker.Alignment) Store {
	m := &memStore{seqs: make(map[int64]memSeq)}
	for _, a := range alns {
		for i := 0; i < a.Len(); i++ {
			s := a.Sequence(i)
			if _, ok := m.seqs[s.Meta.ID]; ok {
				continue
			}
			m.seqs[s.Meta.ID] = memSeq{
				seq:   marker.Raw(s.Seq),
				taxon: s.Meta.TaxonID,
			}
		}
	}
	return m
}

func (m *memStore) Sequence(id int64) (string, int64, error) {
	s, ok := m.seqs[id]
	if !ok {
		return "", 0, fmt.Errorf("sequence %d: %w", id, ErrNotFound)
	}
	return s.seq, s.taxon, nil
}

func (m *memStore) Close() error { return nil }
