// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dgsolver

import (
	"github.com/cpmech/gosl/la"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/bc"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/field"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/flux"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// BoundaryDummy supplies the user-provided dummy state D at boundary
// adjacency quadrature point j, already converted to computational
// variables with its sound speed filled in.
type BoundaryDummy func(adj *mesh.Adjacency, j int) flux.State

// SourceTerm evaluates the conserved-row source at a physical coordinate,
// time, and local conserved state, e.g. a Boussinesq buoyancy term that
// needs the local temperature.
type SourceTerm func(coord []float64, t float64, u []float64) []float64

// Config bundles the physical model, variable layout, numerical-scheme
// selection and external collaborators that Step needs on top of the
// mesh/solution arrays.
type Config struct {
	Model   phys.Model
	Layout  field.Layout
	Scheme  flux.Scheme
	Viscous bool
	BR2     bool
	Shock   *ShockParams // nil disables artificial viscosity
	RK      RKScheme
	Dummy   BoundaryDummy
	Source  SourceTerm
}

// boundaryKind looks up the BC kind resolved onto a boundary adjacency at
// configuration time.
func boundaryKind(adj *mesh.Adjacency) bc.Kind { return bc.Kind(adj.BoundaryConditionType) }

// sampleFaceState evaluates element state st's conserved modal coefficients at
// adjacency face k, local quadrature index j, and converts to a
// computational State.
func sampleFaceState(st *ElementState, tbl *basis.Tables, k, j int, cfg Config) (u []float64, s flux.State) {
	nc := len(st.U)
	u = make([]float64, nc)
	row := tbl.AdjPhi[k][j]
	for c := 0; c < nc; c++ {
		v := 0.0
		for b, phi := range row {
			v += st.U[c][b] * phi
		}
		u[c] = v
	}
	s = flux.StateFromConserved(cfg.Model, cfg.Layout, u)
	return
}

// volumeFluxResidual contracts a per-quadrature-point raw flux matrix
// (Dim x Nc, supplied by fluxAt) against the element's stored geometric
// factor and ∇Φ, producing the Nc x Nb volume term of the residual.
func volumeFluxResidual(e *mesh.Element, fluxAt func(j int) [][]float64, tbl *basis.Tables, dim, nc int) [][]float64 {
	out := la.MatAlloc(nc, tbl.Nb)
	transformed := la.MatAlloc(dim, nc)
	for j := range tbl.QuadPoints {
		jtw := e.JacobianTrInvDetWeight[j]
		F := fluxAt(j)
		for d := 0; d < dim; d++ {
			row := transformed[d]
			for c := range row {
				row[c] = 0
			}
			// ∂φ/∂x_k = Σ_d (Jᵀ)⁻¹[k][d] ∂φ/∂ξ_d, so the flux component k
			// picks up the [k][d] entry of the stored factor
			for k := 0; k < dim; k++ {
				coef := jtw[k*dim+d]
				if coef == 0 {
					continue
				}
				fk := F[k]
				for c := 0; c < nc; c++ {
					row[c] += coef * fk[c]
				}
			}
		}
		for d := 0; d < dim; d++ {
			grad := tbl.GradPhi[d][j]
			row := transformed[d]
			for c := 0; c < nc; c++ {
				tc := row[c]
				if tc == 0 {
					continue
				}
				dst := out[c]
				for b, g := range grad {
					dst[b] += tc * g
				}
			}
		}
	}
	return out
}

// sourceResidual contracts the source-term samples against Φ: Σ_j S(j) |J|w
// Φ_b(j).
func sourceResidual(e *mesh.Element, st *ElementState, t float64, source SourceTerm, tbl *basis.Tables, nc int) [][]float64 {
	out := la.MatAlloc(nc, tbl.Nb)
	u := make([]float64, nc)
	for j := range tbl.QuadPoints {
		phiRow := tbl.Phi[j]
		for c := 0; c < nc; c++ {
			v := 0.0
			for b, p := range phiRow {
				v += st.U[c][b] * p
			}
			u[c] = v
		}
		s := source(e.QuadratureNodeCoordinate[j], t, u)
		jw := e.JacobianDetWeight[j]
		phi := tbl.Phi[j]
		for c := 0; c < nc; c++ {
			v := s[c] * jw
			if v == 0 {
				continue
			}
			dst := out[c]
			for b, p := range phi {
				dst[b] += v * p
			}
		}
	}
	return out
}

// artificialViscosityGradient returns the per-direction conserved-gradient
// vector to use in the artificial-viscous flux: the volume-only gradient
// G, never the BR1/BR2-lifted G+H.
func artificialViscosityGradient(st *ElementState, s shape.Tag, p, k, j, dim, nc int) [][]float64 {
	return GradVolumeOnlyAt(st, s, p, k, j, dim, nc)
}

// Step advances every element's modal coefficients by one full multi-stage
// RK step: snapshot, then for each stage recompute the
// auxiliary gradient (if needed), the shock-capturing viscosity field (if
// enabled), the volume and adjacency residual, and the RK combine.
func Step(m *mesh.Mesh, sol *Solution, p, dim int, cfg Config, dt, t float64) {
	sol.SnapshotLast()
	nc := cfg.Layout.Nc()
	for _, stage := range rkStages(cfg.RK) {
		if cfg.Viscous || cfg.Shock != nil {
			ComputeAuxiliaryGradients(m, sol, p, dim, nc, cfg.BR2, boundaryGradientState(m, sol, p, dim, cfg))
		}
		if cfg.Shock != nil {
			elemEps := computeShockViscosity(m, sol, p, cfg)
			BroadcastNodalMax(m, sol, elemEps)
		}
		assembleAndCombine(m, sol, p, dim, cfg, stage, dt, t)
	}
}

// boundaryGradientState adapts bc.Evaluate's B_V and B_I outputs into the
// raw-conserved callback ComputeAuxiliaryGradients expects: the conserved
// volume-gradient state, plus the conserved jump U(B)−U(L) for operators
// whose B_I carries one.
func boundaryGradientState(m *mesh.Mesh, sol *Solution, p, dim int, cfg Config) BoundaryGradientState {
	return func(adj *mesh.Adjacency, j int) (bv, jump []float64) {
		ls := adj.ParentGmshType[0]
		li := adj.ParentIndexEachType[0]
		lf := adj.AdjacencySequenceInParent[0]
		tbl := basis.Get(ls, p)
		lu, left := sampleFaceState(sol.States[ls][li], tbl, lf, j, cfg)
		dummy := cfg.Dummy(adj, j)
		res := bc.Evaluate(boundaryKind(adj), cfg.Model, cfg.Layout, adj.NormalVector[j], left, dummy)
		bv = flux.ConservedFromState(cfg.Model, cfg.Layout, res.Bv)
		if res.HasJump {
			ub := flux.ConservedFromState(cfg.Model, cfg.Layout, res.B)
			jump = make([]float64, len(ub))
			for c := range ub {
				jump[c] = ub[c] - lu[c]
			}
		}
		return
	}
}

// computeShockViscosity evaluates the shock indicator and
// artificial-viscosity formula for every element, from the density modal
// row of the element's own (unlifted) U.
func computeShockViscosity(m *mesh.Mesh, sol *Solution, p int, cfg Config) map[shape.Tag][]float64 {
	out := map[shape.Tag][]float64{}
	for s, elems := range m.Elements {
		tbl := basis.Get(s, p)
		eps := make([]float64, len(elems))
		states := sol.States[s]
		for i, e := range elems {
			indicator := ElementShockIndicator(s, p, states[i].U[0], tbl)
			eps[i] = ElementArtificialViscosity(*cfg.Shock, indicator, e.InnerRadius, p)
		}
		out[s] = eps
	}
	return out
}

// assembleAndCombine runs volume quadrature, adjacency quadrature, residual assembly and the RK combine for one RK stage.
func assembleAndCombine(m *mesh.Mesh, sol *Solution, p, dim int, cfg Config, stage rkStage, dt, t float64) {
	nc := cfg.Layout.Nc()

	type alloc struct {
		tbl *basis.Tables
		vol [][][]float64   // [elem] Nc x Nb, volume term
		adj [][][][]float64 // [elem][face] Nc x Nqa, accumulated numerical flux * JW
		src [][][]float64   // [elem] Nc x Nb, source term (nil if inactive)
	}
	perShape := map[shape.Tag]*alloc{}

	for s, elems := range m.Elements {
		tbl := basis.Get(s, p)
		states := sol.States[s]
		nfaces := shape.Get(s).Nadjacency
		al := &alloc{tbl: tbl, vol: make([][][]float64, len(elems)), adj: make([][][][]float64, len(elems))}
		if cfg.Source != nil {
			al.src = make([][][]float64, len(elems))
		}
		parFor(len(elems), func(i int) {
			e := elems[i]
			al.vol[i] = volumeFluxResidual(e, func(j int) [][]float64 {
				return elementVolumeFlux(states[i], tbl, e, j, dim, nc, cfg)
			}, tbl, dim, nc)
			if cfg.Source != nil {
				al.src[i] = sourceResidual(e, states[i], t, cfg.Source, tbl, nc)
			}
			al.adj[i] = make([][][]float64, nfaces)
			for k := 0; k < nfaces; k++ {
				al.adj[i][k] = la.MatAlloc(nc, len(tbl.AdjQuadWeights[k]))
			}
		})
		perShape[s] = al
	}

	for a, adjs := range m.Adjacencies {
		// each adjacency owns its (parent, face, quadrature-index) buffer
		// slots exclusively, so the scatter below is conflict-free
		parFor(len(adjs), func(ai int) {
			adj := adjs[ai]
			ls, li, lf := adj.ParentGmshType[0], adj.ParentIndexEachType[0], adj.AdjacencySequenceInParent[0]
			lAl := perShape[ls]
			ltbl := lAl.tbl
			lState := sol.States[ls][li]
			nqa := len(ltbl.AdjQuadWeights[lf])

			var rs shape.Tag
			var ri, rf int
			var rState *ElementState
			var rtbl *basis.Tables
			var perm []int
			if adj.IsInterior {
				rs, ri, rf = adj.ParentGmshType[1], adj.ParentIndexEachType[1], adj.AdjacencySequenceInParent[1]
				rState = sol.States[rs][ri]
				rtbl = perShape[rs].tbl
				faceTbl := basis.Get(a, p)
				perm = faceTbl.RotationPermutation(adj.AdjacencyRightRotation)
			}

			for j := 0; j < nqa; j++ {
				lu, ls_ := sampleFaceState(lState, ltbl, lf, j, cfg)
				var ru []float64
				var rs_ flux.State
				var bres *bc.Result
				if adj.IsInterior {
					rj := perm[j]
					ru, rs_ = sampleFaceState(rState, rtbl, rf, rj, cfg)
				} else {
					dummy := cfg.Dummy(adj, j)
					res := bc.Evaluate(boundaryKind(adj), cfg.Model, cfg.Layout, adj.NormalVector[j], ls_, dummy)
					bres = &res
					rs_ = res.B
					ru = flux.ConservedFromState(cfg.Model, cfg.Layout, rs_)
				}

				n := adj.NormalVector[j]
				numFlux := flux.InterfaceFlux(cfg.Model, cfg.Layout, cfg.Scheme, ls_, rs_, n)

				if cfg.Viscous {
					lg := GradientAt(lState, ls, p, lf, j, dim, nc)
					var rg [][]float64
					if adj.IsInterior {
						rg = GradientAt(rState, rs, p, rf, perm[j], dim, nc)
					} else {
						rg = lg
					}
					ldp := field.ConservedGradientToPrimitiveGradientVec(cfg.Model, cfg.Layout, lu, lg)
					rdp := field.ConservedGradientToPrimitiveGradientVec(cfg.Model, cfg.Layout, ru, rg)
					if bres != nil && bres.ZeroTemperatureGradient {
						// adiabatic wall: no heat flux through the boundary
						for d := 0; d < dim; d++ {
							ldp[d][cfg.Layout.TRow()] = 0
							rdp[d][cfg.Layout.TRow()] = 0
						}
					}
					muL := cfg.Model.Viscosity(cfg.Model.Temperature(ls_.E))
					muR := cfg.Model.Viscosity(cfg.Model.Temperature(rs_.E))
					kL, kR := cfg.Model.Conductivity(muL), cfg.Model.Conductivity(muR)
					Fl := flux.ViscousRawFlux(cfg.Model, cfg.Layout, ls_.V, muL, kL, ldp)
					Fr := flux.ViscousRawFlux(cfg.Model, cfg.Layout, rs_.V, muR, kR, rdp)
					visc := flux.InterfaceViscousFlux(Fl, Fr, n)
					for c := range numFlux {
						numFlux[c] -= visc[c]
					}
				}

				if cfg.Shock != nil {
					lg := artificialViscosityGradient(lState, ls, p, lf, j, dim, nc)
					var rg [][]float64
					if adj.IsInterior {
						rg = artificialViscosityGradient(rState, rs, p, rf, perm[j], dim, nc)
					} else {
						rg = lg
					}
					epsL := nodalEpsAt(lState, ltbl, lf, j)
					epsR := epsL
					if adj.IsInterior {
						epsR = nodalEpsAt(rState, rtbl, rf, perm[j])
					}
					eps := 0.5 * (epsL + epsR)
					avgGrad := make([][]float64, dim)
					for d := 0; d < dim; d++ {
						avgGrad[d] = make([]float64, nc)
						for c := 0; c < nc; c++ {
							avgGrad[d][c] = 0.5 * (lg[d][c] + rg[d][c])
						}
					}
					art := flux.ArtificialViscousFlux(eps, avgGrad)
					artN := flux.NormalFlux(art, n)
					for c := range numFlux {
						numFlux[c] -= artN[c]
					}
				}

				jw := adj.JacobianDetWeight[j]
				for c := 0; c < nc; c++ {
					v := numFlux[c] * jw
					lAl.adj[li][lf][c][j] += v
					if adj.IsInterior {
						perShape[rs].adj[ri][rf][c][perm[j]] -= v
					}
				}
			}
		})
	}

	for s, elems := range m.Elements {
		al := perShape[s]
		tbl := al.tbl
		states := sol.States[s]
		nfaces := shape.Get(s).Nadjacency
		parFor(len(elems), func(i int) {
			e := elems[i]
			st := states[i]
			residual := la.MatAlloc(nc, tbl.Nb)
			for c := 0; c < nc; c++ {
				copy(residual[c], al.vol[i][c])
			}
			for k := 0; k < nfaces; k++ {
				faceContribution(al.adj[i][k], tbl.AdjPhi[k], residual, -1)
			}
			if al.src != nil {
				for c := 0; c < nc; c++ {
					for b := 0; b < tbl.Nb; b++ {
						residual[c][b] += al.src[i][c][b]
					}
				}
			}
			st.R = residual
			massScaled := massInvert(residual, e.LocalMassMatrixInverse)
			newU := la.MatAlloc(nc, tbl.Nb)
			for c := 0; c < nc; c++ {
				for b := 0; b < tbl.Nb; b++ {
					newU[c][b] = stage.a*st.ULast[c][b] + stage.b*st.U[c][b] + stage.c*dt*massScaled[c][b]
				}
			}
			st.U = newU
		})
	}
}

// elementVolumeFlux computes the convective-minus-viscous-minus-artificial
// raw flux matrix at interior quadrature point j of element state st.
func elementVolumeFlux(st *ElementState, tbl *basis.Tables, e *mesh.Element, j, dim, nc int, cfg Config) [][]float64 {
	u := make([]float64, nc)
	phi := tbl.Phi[j]
	for c := 0; c < nc; c++ {
		v := 0.0
		for b, p := range phi {
			v += st.U[c][b] * p
		}
		u[c] = v
	}
	s := flux.StateFromConserved(cfg.Model, cfg.Layout, u)
	F := flux.ConvectiveRawFlux(cfg.Model, cfg.Layout, s)

	if cfg.Viscous {
		dp := volumeGradientAtQuad(st, tbl, j, dim, nc, u, cfg)
		mu := cfg.Model.Viscosity(cfg.Model.Temperature(s.E))
		k := cfg.Model.Conductivity(mu)
		Fv := flux.ViscousRawFlux(cfg.Model, cfg.Layout, s.V, mu, k, dp)
		for d := 0; d < dim; d++ {
			for c := 0; c < nc; c++ {
				F[d][c] -= Fv[d][c]
			}
		}
	}
	if cfg.Shock != nil {
		eps := nodalEpsAtVolume(st, tbl, j)
		if eps != 0 {
			grad := volumeGradVolumeOnlyAtQuad(st, tbl, j, dim, nc)
			art := flux.ArtificialViscousFlux(eps, grad)
			for d := 0; d < dim; d++ {
				for c := 0; c < nc; c++ {
					F[d][c] -= art[d][c]
				}
			}
		}
	}
	return F
}

// volumeGradConservedAtQuad evaluates ∇U = G+H at interior quadrature point
// j from the element's modal gradient tensors, by evaluating the Nq x Nb
// gradient-contribution rows against Phi (the G/H tensors are themselves
// modal, so Phi -- not GradPhi -- samples them at a point, consistent with
// GradientAt's use of AdjPhi on faces).
func volumeGradConservedAtQuad(st *ElementState, tbl *basis.Tables, j, dim, nc int) [][]float64 {
	out := make([][]float64, dim)
	phi := tbl.Phi[j]
	for d := 0; d < dim; d++ {
		row := make([]float64, nc)
		for c := 0; c < nc; c++ {
			g := 0.0
			for b, p := range phi {
				g += st.G[d][c][b] * p
			}
			if st.HGlobal != nil {
				for b, p := range phi {
					g += st.HGlobal[d][c][b] * p
				}
			} else if st.HFaces != nil {
				for _, face := range st.HFaces {
					for b, p := range phi {
						g += face[d][c][b] * p
					}
				}
			}
			row[c] = g
		}
		out[d] = row
	}
	return out
}

// volumeGradVolumeOnlyAtQuad evaluates the unlifted gradient G at interior
// quadrature point j, for the artificial-viscous volume flux.
func volumeGradVolumeOnlyAtQuad(st *ElementState, tbl *basis.Tables, j, dim, nc int) [][]float64 {
	out := make([][]float64, dim)
	phi := tbl.Phi[j]
	for d := 0; d < dim; d++ {
		row := make([]float64, nc)
		for c := 0; c < nc; c++ {
			g := 0.0
			for b, p := range phi {
				g += st.G[d][c][b] * p
			}
			row[c] = g
		}
		out[d] = row
	}
	return out
}

// volumeGradientAtQuad converts the conserved gradient ∇U at interior
// quadrature point j into the primitive gradient the viscous flux consumes.
func volumeGradientAtQuad(st *ElementState, tbl *basis.Tables, j, dim, nc int, u []float64, cfg Config) [][]float64 {
	du := volumeGradConservedAtQuad(st, tbl, j, dim, nc)
	return field.ConservedGradientToPrimitiveGradientVec(cfg.Model, cfg.Layout, u, du)
}

// nodalEpsAtVolume spreads the element's per-basic-node artificial
// viscosity to interior quadrature point j via the linear shape functions.
func nodalEpsAtVolume(st *ElementState, tbl *basis.Tables, j int) float64 {
	if st.AVNode == nil {
		return 0
	}
	eps := 0.0
	for k, lin := range tbl.LinPhi[j] {
		eps += lin * st.AVNode[k]
	}
	return eps
}

// nodalEpsAt spreads the element's per-basic-node artificial viscosity to
// adjacency face k, local quadrature index j, by embedding the face
// quadrature point into the parent's reference domain and evaluating the
// linear (vertex) shape functions there, the same spreading used at
// interior quadrature points.
func nodalEpsAt(st *ElementState, tbl *basis.Tables, k, j int) float64 {
	if st.AVNode == nil {
		return 0
	}
	xf := tbl.AdjQuadPoints[k][j]
	x := basis.EmbedFacePoint(tbl.Shape, k, xf)
	eps := 0.0
	for idx, lin := range basis.LinearShapeValues(tbl.Shape, x) {
		eps += lin * st.AVNode[idx]
	}
	return eps
}
