// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dgsolver

import (
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/field"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/flux"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
)

// InitialCondition returns the primitive-state vector (ρ, v..., T) at a
// physical coordinate; the engine samples it at every interior quadrature
// point and projects onto the modal basis.
type InitialCondition func(coord []float64) []float64

// InitializeFromFunction samples ic at every element's interior quadrature
// points, converts the primitive samples to conserved variables, and
// least-squares-projects them onto the modal basis: U_c = (ΦᵀΦ)⁻¹ Φᵀ f_c.
func InitializeFromFunction(m *mesh.Mesh, sol *Solution, p int, model phys.Model, layout field.Layout, ic InitialCondition) {
	nc := layout.Nc()
	for s, elems := range m.Elements {
		tbl := basis.Get(s, p)
		states := sol.States[s]
		parFor(len(elems), func(i int) {
			e := elems[i]
			st := states[i]
			// conserved samples, one row per variable
			f := make([][]float64, nc)
			for c := range f {
				f[c] = make([]float64, tbl.Nq)
			}
			for j := 0; j < tbl.Nq; j++ {
				prim := ic(e.QuadratureNodeCoordinate[j])
				state := flux.State{Rho: prim[0], V: make([]float64, layout.Dim)}
				for d := 0; d < layout.Dim; d++ {
					state.V[d] = prim[1+d]
				}
				state.E = model.InternalEnergy(prim[1+layout.Dim])
				u := flux.ConservedFromState(model, layout, state)
				for c := 0; c < nc; c++ {
					f[c][j] = u[c]
				}
			}
			// phiTf[k] = Σ_j Φ[j][k] f_c(j); U[c][b] = Σ_k (ΦᵀΦ)⁻¹[b][k] phiTf[k]
			phiTf := make([]float64, tbl.Nb)
			for c := 0; c < nc; c++ {
				for k := 0; k < tbl.Nb; k++ {
					sum := 0.0
					for j := 0; j < tbl.Nq; j++ {
						sum += tbl.Phi[j][k] * f[c][j]
					}
					phiTf[k] = sum
				}
				for b := 0; b < tbl.Nb; b++ {
					sum := 0.0
					for k := 0; k < tbl.Nb; k++ {
						sum += tbl.LeastSquaresInv[b][k] * phiTf[k]
					}
					st.U[c][b] = sum
				}
			}
		})
	}
}
