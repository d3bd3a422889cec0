// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dgsolver implements the per-RK-stage DG residual assembly, the
// auxiliary viscous-gradient sub-step, shock-capturing artificial viscosity,
// and the explicit time-integration loop.
package dgsolver

import (
	"github.com/cpmech/gosl/la"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// ElementState holds the modal coefficient tensors of one volume element.
type ElementState struct {
	U     [][]float64 // Nc x Nb: current modal coefficients
	ULast [][]float64 // Nc x Nb: snapshot at RK-step entry
	R     [][]float64 // Nc x Nb: residual

	// G is the volume-gradient modal tensor, one Nc x Nb matrix per spatial
	// direction (viscous runs only).
	G [][][]float64

	// HFaces[k] is the BR2 interface-gradient tensor contributed by face k
	// alone (one Nc x Nb matrix per direction); HGlobal is the BR1 single
	// pooled tensor. Exactly one of the two is populated, per the run's
	// lifting scheme.
	HFaces  [][][][]float64 // [face][dir] Nc x Nb
	HGlobal [][][]float64   // [dir] Nc x Nb

	// AVNode is the artificial-viscosity value at each basic node of the
	// element, after the cross-element max-reduction.
	AVNode []float64
}

func newElementState(nc, nb, dim, nfaces int, gradient bool, br2 bool) *ElementState {
	s := &ElementState{
		U:     la.MatAlloc(nc, nb),
		ULast: la.MatAlloc(nc, nb),
		R:     la.MatAlloc(nc, nb),
	}
	if gradient {
		s.G = make([][][]float64, dim)
		for d := range s.G {
			s.G[d] = la.MatAlloc(nc, nb)
		}
		if br2 {
			s.HFaces = make([][][][]float64, nfaces)
			for k := range s.HFaces {
				s.HFaces[k] = make([][]float64, dim)
				for d := range s.HFaces[k] {
					s.HFaces[k][d] = la.MatAlloc(nc, nb)
				}
			}
		} else {
			s.HGlobal = make([][][]float64, dim)
			for d := range s.HGlobal {
				s.HGlobal[d] = la.MatAlloc(nc, nb)
			}
		}
	}
	return s
}

// Solution indexes ElementState parallel to a Mesh's element arrays.
type Solution struct {
	States map[shape.Tag][]*ElementState
}

// NewSolution allocates a zeroed state for every element of m. gradient
// requests the auxiliary-gradient tensors, needed by viscous runs and by
// shock-capturing artificial viscosity.
func NewSolution(m *mesh.Mesh, nc, dim int, gradient, br2 bool, nbFor func(shape.Tag) int) *Solution {
	sol := &Solution{States: map[shape.Tag][]*ElementState{}}
	for s, elems := range m.Elements {
		nfaces := shape.Get(s).Nadjacency
		nb := nbFor(s)
		states := make([]*ElementState, len(elems))
		for i := range elems {
			states[i] = newElementState(nc, nb, dim, nfaces, gradient, br2)
		}
		sol.States[s] = states
	}
	return sol
}

// SnapshotLast copies U into ULast for every element (RK-step entry).
func (sol *Solution) SnapshotLast() {
	for _, states := range sol.States {
		for _, st := range states {
			for i, row := range st.U {
				copy(st.ULast[i], row)
			}
		}
	}
}
