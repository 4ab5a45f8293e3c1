// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/js-arias/backbone/marker"
	"github.com/js-arias/backbone/taxonomy"
)

// Files reads a file manifest dataset
// (one file path per line)
// as defined in a project.
func (p *Project) Files(set Dataset) ([]string, error) {
	name := p.Path(set)
	if name == "" {
		return nil, fmt.Errorf("%s files not defined in project %q", set, p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var files []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		files = append(files, ln)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return files, nil
}

// Alignments reads the alignment files of a manifest dataset
// (either Alignments or Merged)
// as defined in a project.
func (p *Project) Alignments(set Dataset) ([]*marker.Alignment, error) {
	files, err := p.Files(set)
	if err != nil {
		return nil, err
	}

	alns := make([]*marker.Alignment, 0, len(files))
	for _, fn := range files {
		a, err := marker.ReadFile(fn)
		if err != nil {
			return nil, err
		}
		alns = append(alns, a)
	}
	return alns, nil
}

// Taxonomy reads the taxon table
// as defined in a project.
func (p *Project) Taxonomy() (*taxonomy.Taxonomy, error) {
	name := p.Path(Taxonomy)
	if name == "" {
		return nil, fmt.Errorf("taxonomy not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := taxonomy.Read(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return t, nil
}

// WriteFiles writes a file manifest
// (one file path per line)
// and registers it as a dataset of the project.
func (p *Project) WriteFiles(set Dataset, name string, files []string) (err error) {
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

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# %s files\n", set)
	for _, fn := range files {
		fmt.Fprintf(bw, "%s\n", fn)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}

	p.Add(set, name)
	return nil
}
