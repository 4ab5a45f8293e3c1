// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pool provides a parallel-map service
// for embarrassingly parallel pipeline stages.
//
// A Mapper applies a function to every index of a range,
// in an unspecified order.
// The function units must not share mutable state:
// each unit writes only to its own slot
// of a pre-allocated result slice,
// and any combination of results happens sequentially,
// after Map returns,
// in the calling goroutine.
package pool

import (
	"runtime"

	"github.com/exascience/pargo/parallel"
)

// A Mapper applies a function
// to every index in [0, n).
type Mapper interface {
	// Map calls f once for each i in [0, n).
	// When Map returns all calls have completed.
	Map(n int, f func(i int))

	// Workers returns the number of workers
	// used by the mapper.
	Workers() int
}

// Sequential returns a Mapper
// that applies the function
// one index at a time,
// in ascending order,
// in the calling goroutine.
func Sequential() Mapper {
	return seqMapper{}
}

type seqMapper struct{}

func (seqMapper) Map(n int, f func(i int)) {
	for i := 0; i < n; i++ {
		f(i)
	}
}

func (seqMapper) Workers() int { return 1 }

// Parallel returns a Mapper
// that applies the function concurrently.
// Use cpu to define the number of workers.
// The default (zero) uses all available CPU.
func Parallel(cpu int) Mapper {
	if cpu <= 0 {
		cpu = runtime.NumCPU()
	}
	if cpu == 1 {
		return Sequential()
	}
	return parMapper{cpu: cpu}
}

type parMapper struct {
	cpu int
}

func (p parMapper) Map(n int, f func(i int)) {
	parallel.Range(0, n, p.cpu, func(low, high int) {
		for i := low; i < high; i++ {
			f(i)
		}
	})
}

func (p parMapper) Workers() int { return p.cpu }
