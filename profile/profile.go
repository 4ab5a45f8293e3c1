// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package profile implements the progressive merge
// of the candidate alignments
// of an orthologous cluster.
//
// The member alignments of a cluster are merged pairwise
// by profile alignment
// (aligning two already-aligned blocks as units),
// starting from the largest member.
// A merge is accepted only if the mean pairwise divergence
// of the resulting alignment
// stays under a configured ceiling;
// otherwise the contribution of that member is discarded.
// Merging is independent across clusters
// and is dispatched through a pool.Mapper.
package profile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/js-arias/backbone/marker"
	"github.com/js-arias/backbone/pool"
	"github.com/js-arias/backbone/simgraph"
)

// DefMaxDistance is the default ceiling
// on the mean pairwise divergence
// accepted when merging two alignments.
const DefMaxDistance = 0.20

// MinSeqs is the minimum number of sequences
// an unmerged singleton cluster must have
// to be informative downstream.
const MinSeqs = 3

// An Aligner merges two existing alignments
// into a single alignment.
// It is an external tool invocation,
// treated as a black box.
type Aligner interface {
	Profile(ctx context.Context, a, b *marker.Alignment) (*marker.Alignment, error)
}

// A Merger merges the member alignments
// of orthologous clusters.
type Merger struct {
	// Aligner used for profile alignment.
	Aligner Aligner

	// MaxDistance is the ceiling
	// on the mean pairwise divergence
	// of an accepted merge.
	// If not greater than zero
	// DefMaxDistance is used.
	MaxDistance float64

	// Log receives a narration
	// of every skip and drop decision.
	// If nil the narration is discarded.
	Log io.Writer
}

func (m *Merger) maxDistance() float64 {
	if m.MaxDistance <= 0 {
		return DefMaxDistance
	}
	return m.MaxDistance
}

// MergeCluster merges the member alignments of a cluster
// and returns the resulting alignment,
// named "cluster-<ID>".
// It returns nil if the cluster is dropped
// (a singleton cluster
// with an uninformative number of sequences).
// Identical sequences are removed from the result,
// on the singleton path too;
// the sequence-count check of a singleton
// runs before that removal.
// Skip and drop decisions are narrated on log.
func (m *Merger) MergeCluster(ctx context.Context, cl simgraph.Cluster, alns []*marker.Alignment, log io.Writer) *marker.Alignment {
	if log == nil {
		log = io.Discard
	}
	if len(alns) == 0 {
		fmt.Fprintf(log, "cluster %d: dropped: no member alignments\n", cl.ID)
		return nil
	}

	if len(alns) == 1 {
		a := alns[0]
		if a.Len() < MinSeqs {
			fmt.Fprintf(log, "cluster %d: dropped: singleton %q with %d sequences\n", cl.ID, a.ID(), a.Len())
			return nil
		}
		out := a.Clone(clusterName(cl.ID))
		out.Dedup()
		return out
	}

	// seed the running merge with the largest member
	alns = slices.Clone(alns)
	slices.SortStableFunc(alns, func(a, b *marker.Alignment) int {
		if d := b.Len() - a.Len(); d != 0 {
			return d
		}
		return compareID(a.ID(), b.ID())
	})

	max := m.maxDistance()
	run := alns[0]
	for _, a := range alns[1:] {
		merged, err := m.Aligner.Profile(ctx, run, a)
		if err != nil {
			fmt.Fprintf(log, "cluster %d: profile alignment of %q: %v\n", cl.ID, a.ID(), err)
			continue
		}
		d := merged.MeanDistance()
		if d >= max {
			fmt.Fprintf(log, "cluster %d: rejected %q: mean distance %.6f\n", cl.ID, a.ID(), d)
			continue
		}
		run = merged
	}

	out := run.Clone(clusterName(cl.ID))
	if n := out.Dedup(); n > 0 {
		fmt.Fprintf(log, "cluster %d: removed %d duplicate sequences\n", cl.ID, n)
	}
	return out
}

// MergeAll merges every cluster of the list,
// dispatching the per-cluster merges
// through the given mapper.
// The alnOf map assigns to each seed ID
// its candidate alignment.
// It returns the surviving merged alignments,
// in ascending order of cluster ID.
func (m *Merger) MergeAll(ctx context.Context, mp pool.Mapper, cls []simgraph.Cluster, alnOf map[int64]*marker.Alignment) []*marker.Alignment {
	res := make([]*marker.Alignment, len(cls))
	logs := make([]bytes.Buffer, len(cls))

	mp.Map(len(cls), func(i int) {
		cl := cls[i]
		log := &logs[i]

		var alns []*marker.Alignment
		for _, s := range cl.Seeds {
			a, ok := alnOf[s]
			if !ok {
				fmt.Fprintf(log, "cluster %d: seed %d: alignment not found\n", cl.ID, s)
				continue
			}
			alns = append(alns, a)
		}
		res[i] = m.MergeCluster(ctx, cl, alns, log)
	})

	// narration is combined sequentially,
	// after all units complete
	if m.Log != nil {
		for i := range logs {
			m.Log.Write(logs[i].Bytes())
		}
	}

	merged := make([]*marker.Alignment, 0, len(res))
	for _, a := range res {
		if a == nil {
			continue
		}
		merged = append(merged, a)
	}
	return merged
}

func clusterName(id int) string {
	return fmt.Sprintf("cluster-%d", id)
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
