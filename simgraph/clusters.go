// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package simgraph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// ReadClusters reads a cluster membership list
// from a TSV file.
//
// Each row contains the cluster ID
// followed by the seed IDs of its members.
// Here is an example file:
//
//	# orthologous clusters
//	1	11001	11003	11057
//	2	11010
//	3	11021	11022
func ReadClusters(r io.Reader) ([]Cluster, error) {
	var cls []Cluster
	ids := make(map[int]bool)

	sc := bufio.NewScanner(r)
	for i := 1; sc.Scan(); i++ {
		ln := strings.TrimSpace(sc.Text())
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		row := strings.Split(ln, "\t")
		if len(row) < 2 {
			return nil, fmt.Errorf("on row %d: cluster without members", i)
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("on row %d: cluster ID: %v", i, err)
		}
		if ids[id] {
			return nil, fmt.Errorf("on row %d: cluster %d repeated", i, id)
		}
		ids[id] = true

		seeds := make([]int64, 0, len(row)-1)
		for _, f := range row[1:] {
			s, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d: cluster %d: %v", i, id, err)
			}
			seeds = append(seeds, s)
		}
		slices.Sort(seeds)
		cls = append(cls, Cluster{ID: id, Seeds: seeds})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(cls) == 0 {
		return nil, errors.New("empty cluster list")
	}

	slices.SortFunc(cls, func(a, b Cluster) int { return a.ID - b.ID })
	return cls, nil
}

// WriteClusters writes a cluster membership list
// into a TSV file,
// one cluster per row.
func WriteClusters(w io.Writer, cls []Cluster) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# orthologous clusters\n")
	for _, c := range cls {
		fmt.Fprintf(bw, "%d", c.ID)
		for _, s := range c.Seeds {
			fmt.Fprintf(bw, "\t%d", s)
		}
		fmt.Fprintf(bw, "\n")
	}
	return bw.Flush()
}
