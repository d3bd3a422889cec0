// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dgsolver

import (
	"runtime"
	"sync"

	"github.com/cpmech/gosl/utl"
)

// NumWorkers is the number of goroutines the per-element and per-adjacency
// loops are partitioned over. The default leaves one core for the
// asynchronous checkpoint writer; main may override it from the run
// configuration before the first step.
var NumWorkers = utl.Imax(runtime.NumCPU()-1, 1)

// parFor runs f(i) for i in [0,n) partitioned into blocked ranges over
// NumWorkers goroutines, and returns only after every iteration has
// completed. Small trip counts run inline. Iterations must not write to
// state owned by another iteration; the residual and adjacency buffers are
// indexed so that no two iterations share a slot.
func parFor(n int, f func(i int)) {
	nw := NumWorkers
	if nw < 1 {
		nw = 1
	}
	if nw == 1 || n < 2*nw {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}
	chunk := (n + nw - 1) / nw
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := utl.Imin(lo+chunk, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				f(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}
