// SPDX-License-Identifier: MIT

package dp

import (
	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest number of rows handed to one goroutine; below it
// scheduling overhead dominates the arithmetic.
const minChunk = 64

// parallelFor splits [0, n) into contiguous blocks and runs fn on each block,
// using at most workers goroutines. Blocks write disjoint output ranges, so
// the result does not depend on scheduling order.
func parallelFor(workers, n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers <= 1 || n <= minChunk {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // blocks never fail
}
