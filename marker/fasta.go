// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package marker

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/evolbioinfo/goalign/align"
	"github.com/evolbioinfo/goalign/io/fasta"
)

// Read reads an alignment in FASTA format,
// using the given identifier for the alignment.
func Read(r io.Reader, id string) (*Alignment, error) {
	aln, err := fasta.NewParser(r).Parse()
	if err != nil {
		return nil, fmt.Errorf("alignment %q: %v", id, err)
	}

	a := NewAlignment(id)
	var addErr error
	aln.Iterate(func(name, seq string) bool {
		if err := a.Add(name, seq); err != nil {
			addErr = err
			return true
		}
		return false
	})
	if addErr != nil {
		return nil, addErr
	}
	if a.Len() == 0 {
		return nil, fmt.Errorf("alignment %q: empty alignment", id)
	}
	return a, nil
}

// ReadFile reads an alignment in FASTA format
// from a file.
// The alignment ID is the file name
// without directory and extension.
func ReadFile(name string) (*Alignment, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	id := filepath.Base(name)
	id = strings.TrimSuffix(id, filepath.Ext(id))
	a, err := Read(f, id)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return a, nil
}

// Write writes an alignment in FASTA format.
func (a *Alignment) Write(w io.Writer) error {
	out := align.NewAlign(align.UNKNOWN)
	for _, s := range a.seqs {
		if err := out.AddSequence(s.Defline, s.Seq, ""); err != nil {
			return fmt.Errorf("alignment %q: sequence %q: %v", a.id, s.Defline, err)
		}
	}
	if _, err := io.WriteString(w, fasta.WriteAlignment(out)); err != nil {
		return fmt.Errorf("alignment %q: %v", a.id, err)
	}
	return nil
}

// WriteFile writes an alignment in FASTA format
// into a file.
func (a *Alignment) WriteFile(name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := a.Write(f); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
