// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dgsolver

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/flux"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
)

// DivergenceError reports the fatal termination of the NaN divergence trap: the
// relative-error signal went NaN at the end of a step. Iter is the iteration
// index at which it was detected; the caller's checkpoint writer has already
// been asked to flush the current modal state before this error propagates.
type DivergenceError struct {
	Iter int
}

func (e *DivergenceError) Error() string {
	return chk.Err("dgsolver: divergence detected at iteration %d (relative-error signal is NaN)", e.Iter).Error()
}

// Checkpointer is the asynchronous checkpoint-write collaborator:
// Enqueue serializes the current solution synchronously (so the caller may
// safely mutate it again immediately after returning) and hands the
// compress-and-write work to a background goroutine; Join blocks until the
// most recently enqueued write has completed. A nil Checkpointer disables
// checkpointing entirely.
type Checkpointer interface {
	Enqueue(iter int, m *mesh.Mesh, sol *Solution)
	Join()
}

// ComputeDt selects the explicit time step for one full RK step.
// A positive fixedDt bypasses the CFL estimate and is returned unchanged;
// otherwise the per-element estimate
//
//	δt_e = CFL · h_min(e) / ((|v| + c) · (p+1)²)
//
// is evaluated at every interior quadrature point of every element and the
// step δt is the minimum over all of them.
func ComputeDt(m *mesh.Mesh, sol *Solution, p int, cfg Config, cfl, fixedDt float64) float64 {
	if fixedDt > 0 {
		return fixedDt
	}
	dim := cfg.Layout.Dim
	nc := cfg.Layout.Nc()
	pp1sq := float64((p + 1) * (p + 1))
	dt := math.Inf(1)
	for s, elems := range m.Elements {
		tbl := basis.Get(s, p)
		states := sol.States[s]
		for i, e := range elems {
			st := states[i]
			for _, phi := range tbl.Phi {
				u := make([]float64, nc)
				for c := 0; c < nc; c++ {
					v := 0.0
					for b, ph := range phi {
						v += st.U[c][b] * ph
					}
					u[c] = v
				}
				state := flux.StateFromConserved(cfg.Model, cfg.Layout, u)
				speed := 0.0
				for d := 0; d < dim; d++ {
					speed += state.V[d] * state.V[d]
				}
				speed = math.Sqrt(speed) + state.C
				local := cfl * e.MinimumEdge / (speed * pp1sq)
				if local < dt {
					dt = local
				}
			}
		}
	}
	return dt
}

// relativeErrorSignal computes the per-step convergence signal: the
// sum of absolute residual components, averaged across basis functions and
// divided by the element count, across every element of the solution. A NaN
// result is the divergence trap.
func relativeErrorSignal(sol *Solution) float64 {
	sum := 0.0
	nElem := 0
	for _, states := range sol.States {
		for _, st := range states {
			nElem++
			nc, nb := len(st.R), 0
			if nc > 0 {
				nb = len(st.R[0])
			}
			local := 0.0
			for c := 0; c < nc; c++ {
				for b := 0; b < nb; b++ {
					local += math.Abs(st.R[c][b])
				}
			}
			if nb > 0 {
				sum += local / float64(nb)
			}
		}
	}
	if nElem == 0 {
		return 0
	}
	return sum / float64(nElem)
}

// LoopConfig bundles the iteration-loop parameters that sit outside the
// per-stage Config.
type LoopConfig struct {
	IStart, IEnd int
	IOInterval   int
	CFL          float64
	FixedDt      float64
}

// RunLoop executes the iteration loop and the checkpoint-write
// pipelining: for every iteration it selects δt, snapshots and advances the
// solution by Step, computes the relative-error signal, and — every
// IOInterval iterations — joins the previous asynchronous checkpoint write
// before enqueuing the next one. It returns a *DivergenceError if the signal
// goes NaN, after flushing a final checkpoint.
func RunLoop(m *mesh.Mesh, sol *Solution, p, dim int, cfg Config, lc LoopConfig, ck Checkpointer) error {
	for iter := lc.IStart; iter < lc.IEnd; iter++ {
		dt := ComputeDt(m, sol, p, cfg, lc.CFL, lc.FixedDt)
		t := float64(iter) * dt
		Step(m, sol, p, dim, cfg, dt, t)

		signal := relativeErrorSignal(sol)
		if math.IsNaN(signal) {
			if ck != nil {
				ck.Join()
				ck.Enqueue(iter, m, sol)
				ck.Join()
			}
			return &DivergenceError{Iter: iter}
		}

		if ck != nil && lc.IOInterval > 0 && (iter+1)%lc.IOInterval == 0 {
			ck.Join()
			ck.Enqueue(iter+1, m, sol)
		}
	}
	if ck != nil {
		ck.Join()
	}
	return nil
}
