// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dgsolver

import (
	"math"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// ShockParams holds the user-facing knobs of the artificial-viscosity
// model: the empirical tolerance ε₀ and the viscosity factor α (default 1).
type ShockParams struct {
	Epsilon0 float64
	Alpha    float64
}

// thresholdS0 is the polynomial-order-dependent shock-indicator threshold,
// following Persson & Peraire's s₀ = -4 log₁₀(p) tabulation; p is floored
// at 1 since the indicator is meaningless for a single constant mode.
func thresholdS0(p int) float64 {
	if p < 1 {
		p = 1
	}
	return -4 * math.Log10(float64(p))
}

// ElementShockIndicator computes s for one element from its
// density modal coefficients U0 (length Nb) and the shape's basis tables.
func ElementShockIndicator(s shape.Tag, p int, rho []float64, tbl *basis.Tables) float64 {
	thresh := 0
	if p >= 1 {
		thresh = basis.Get(s, p-1).Nb
	}
	var numer, denom float64
	for j, row := range tbl.Phi {
		jw := tbl.QuadWeights[j]
		var rhoAll, rhoHigh float64
		for b, phi := range row {
			rhoAll += rho[b] * phi
			if b >= thresh {
				rhoHigh += rho[b] * phi
			}
		}
		numer += jw * rhoHigh * rhoHigh
		denom += jw * rhoAll * rhoAll
	}
	if denom < 1e-300 {
		return -300 // no density signal: treat as maximally smooth
	}
	return math.Log10(numer / denom)
}

// ElementArtificialViscosity computes ε for one element from its shock
// indicator s, inner radius rIn, and polynomial order p.
func ElementArtificialViscosity(prm ShockParams, s, rIn float64, p int) float64 {
	s0 := thresholdS0(p)
	base := prm.Alpha * rIn / float64(p+1)
	switch {
	case s < s0-prm.Epsilon0:
		return 0
	case s > s0+prm.Epsilon0:
		return base
	default:
		return 0.5 * base * (1 + math.Sin(math.Pi*(s-s0)/(2*prm.Epsilon0)))
	}
}

// BroadcastNodalMax spreads each element's uniform artificial-viscosity
// value to its basic nodes, then takes the maximum over every element
// sharing a node and writes that maximum back into every containing
// element's AVNode slice.
func BroadcastNodalMax(m *mesh.Mesh, sol *Solution, elemEps map[shape.Tag][]float64) {
	nodeMax := map[int]float64{}
	for s, elems := range m.Elements {
		eps := elemEps[s]
		for i, e := range elems {
			for _, nt := range e.NodeTag[:shape.Get(s).NbasicNodes] {
				if eps[i] > nodeMax[nt] {
					nodeMax[nt] = eps[i]
				}
			}
		}
	}
	for s, elems := range m.Elements {
		nb := shape.Get(s).NbasicNodes
		for i, e := range elems {
			st := sol.States[s][i]
			if len(st.AVNode) != nb {
				st.AVNode = make([]float64, nb)
			}
			for k := 0; k < nb; k++ {
				st.AVNode[k] = nodeMax[e.NodeTag[k]]
			}
		}
	}
}
