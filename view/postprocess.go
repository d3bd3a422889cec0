// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package view

import (
	"sync"

	"github.com/cpmech/gosl/chk"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/ckpt"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/dgsolver"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// GenerateFromCheckpoints reads the raw checkpoints of the given iteration
// indices in parallel, then writes their visualization frames in iteration
// order. dtOfIter maps an iteration index to its physical time stamp.
func GenerateFromCheckpoints(w *Writer, m *mesh.Mesh, iters []int, dim int, viscous bool, dtOfIter func(iter int) float64) error {
	sols := make([]*dgsolver.Solution, len(iters))
	errs := make([]error, len(iters))
	nbFor := func(s shape.Tag) int { return basis.Get(s, w.Order).Nb }

	var wg sync.WaitGroup
	for i := range iters {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sol := dgsolver.NewSolution(m, w.Layout.Nc(), dim, viscous, false, nbFor)
			path := ckpt.RawPath(w.Dirout, w.Prefix, iters[i])
			if err := ckpt.LoadFile(path, m, sol, w.Order, w.Order, dim, viscous); err != nil {
				errs[i] = err
				return
			}
			sols[i] = sol
		}(i)
	}
	wg.Wait()

	for i, iter := range iters {
		if errs[i] != nil {
			return chk.Err("view: cannot load checkpoint for iteration %d: %v", iter, errs[i])
		}
		w.WriteFrame(m, sols[i], iter, dtOfIter(iter))
	}
	w.Close()
	return nil
}
