// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dgsolver

import (
	"github.com/cpmech/gosl/la"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/flux"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// faceSample evaluates one element's modal state U (Nc x Nb) at every
// quadrature point of one of its adjacency faces, given that face's AdjPhi
// slice (NqAdjacency x Nb), returning a NqAdjacency-length slice of Nc
// conserved vectors.
func faceSample(U [][]float64, adjPhi [][]float64) [][]float64 {
	nc := len(U)
	out := make([][]float64, len(adjPhi))
	for j, row := range adjPhi {
		v := make([]float64, nc)
		for c := 0; c < nc; c++ {
			s := 0.0
			for b, phi := range row {
				s += U[c][b] * phi
			}
			v[c] = s
		}
		out[j] = v
	}
	return out
}

// permuteRows reorders the rows of vals by perm: out[j] = vals[perm[j]]. A
// nil perm (rotation 0 on a point/edgeless face) is the identity.
func permuteRows[T any](vals []T, perm []int) []T {
	if perm == nil {
		return vals
	}
	out := make([]T, len(vals))
	for j, p := range perm {
		out[j] = vals[p]
	}
	return out
}

// massInvert applies M⁻¹ (Nb x Nb) to a Nc x Nb residual, returning a new
// Nc x Nb matrix.
func massInvert(residual [][]float64, massInv [][]float64) [][]float64 {
	nc, nb := len(residual), len(massInv)
	out := la.MatAlloc(nc, nb)
	for c := 0; c < nc; c++ {
		for b := 0; b < nb; b++ {
			s := 0.0
			for k := 0; k < nb; k++ {
				s += residual[c][k] * massInv[k][b]
			}
			out[c][b] = s
		}
	}
	return out
}

// faceContribution contracts a Nc x Nqa face buffer against a Nqa x Nb modal
// table, accumulating sign*buf into dst (Nc x Nb).
func faceContribution(buf [][]float64, table [][]float64, dst [][]float64, sign float64) {
	nc := len(buf)
	nb := 0
	if len(table) > 0 {
		nb = len(table[0])
	}
	for c := 0; c < nc; c++ {
		for j, v := range buf[c] {
			if v == 0 {
				continue
			}
			v *= sign
			for b := 0; b < nb; b++ {
				dst[c][b] += v * table[j][b]
			}
		}
	}
}

// volumeGradientResidual computes the volume-integral term of the
// auxiliary gradient: for each physical direction d,
// Σ_j Σ_k JacobianTrInvDetWeight[j][d,k] * U(c,j) * ∂Φ_b/∂ξ_k(j).
func volumeGradientResidual(e *mesh.Element, U [][]float64, tbl *basis.Tables, dim, nc int) [][][]float64 {
	out := make([][][]float64, dim)
	for d := range out {
		out[d] = la.MatAlloc(nc, tbl.Nb)
	}
	for j := range tbl.QuadPoints {
		jtw := e.JacobianTrInvDetWeight[j] // flattened dim x dim, row-major
		uq := make([]float64, nc)
		for c := 0; c < nc; c++ {
			s := 0.0
			for b := 0; b < tbl.Nb; b++ {
				s += U[c][b] * tbl.Phi[j][b]
			}
			uq[c] = s
		}
		for d := 0; d < dim; d++ {
			for k := 0; k < dim; k++ {
				coef := jtw[d*dim+k]
				if coef == 0 {
					continue
				}
				grad := tbl.GradPhi[k][j]
				for c := 0; c < nc; c++ {
					uc := coef * uq[c]
					for b := 0; b < tbl.Nb; b++ {
						out[d][c][b] += uc * grad[b]
					}
				}
			}
		}
	}
	return out
}

// BoundaryGradientState supplies, at boundary adjacency quadrature point j,
// the conserved volume-gradient boundary state B_V and — when the operator
// carries a wall jump — the conserved boundary-to-interior jump B − L used
// by the interface lifting (nil jump means no interface contribution).
type BoundaryGradientState func(adj *mesh.Adjacency, j int) (bv, jump []float64)

// ComputeAuxiliaryGradients runs the BR1/BR2 auxiliary-gradient sub-step
// over every volume element of the mesh, given the shared polynomial order
// p, the spatial dimension dim, the conserved-variable count nc, the
// lifting scheme flag br2, and a callback producing each boundary
// adjacency's gradient states.
//
// The volume gradient G is assembled from the symmetric face average
// n̂·½(U_L+U_R) minus the volume integral; the interface lift H from the
// jump-half flux n̂·½(U_R−U_L), pooled over all faces (BR1) or kept per
// face (BR2). The symmetric flux scatters with opposite signs into the two
// parents (their outward normals oppose), the jump flux with the same sign.
func ComputeAuxiliaryGradients(m *mesh.Mesh, sol *Solution, p, dim, nc int, br2 bool, boundary BoundaryGradientState) {
	type alloc struct {
		tbl  *basis.Tables
		vol  [][][]float64   // [elem][dir] Nc x Nb, volume-integral term
		sym  [][][]float64   // [elem][dir] Nc x Nb, symmetric-average face term
		face [][][][]float64 // [elem][face][dir] Nc x Nb, BR2 jump term
		glob [][][]float64   // [elem][dir] Nc x Nb, BR1 jump term
	}
	perShape := map[shape.Tag]*alloc{}

	for s, elems := range m.Elements {
		tbl := basis.Get(s, p)
		states := sol.States[s]
		nfaces := shape.Get(s).Nadjacency
		al := &alloc{
			tbl: tbl,
			vol: make([][][]float64, len(elems)),
			sym: make([][][]float64, len(elems)),
		}
		if br2 {
			al.face = make([][][][]float64, len(elems))
		} else {
			al.glob = make([][][]float64, len(elems))
		}
		parFor(len(elems), func(i int) {
			e := elems[i]
			al.vol[i] = volumeGradientResidual(e, states[i].U, tbl, dim, nc)
			al.sym[i] = make([][]float64, dim)
			for d := 0; d < dim; d++ {
				al.sym[i][d] = la.MatAlloc(nc, tbl.Nb)
			}
			if br2 {
				al.face[i] = make([][][]float64, nfaces)
				for k := 0; k < nfaces; k++ {
					al.face[i][k] = make([][]float64, dim)
					for d := 0; d < dim; d++ {
						al.face[i][k][d] = la.MatAlloc(nc, tbl.Nb)
					}
				}
			} else {
				al.glob[i] = make([][]float64, dim)
				for d := 0; d < dim; d++ {
					al.glob[i][d] = la.MatAlloc(nc, tbl.Nb)
				}
			}
		})
		perShape[s] = al
	}

	jumpDst := func(s shape.Tag, elemIdx, faceId int) [][][]float64 {
		al := perShape[s]
		if br2 {
			return al.face[elemIdx][faceId]
		}
		return al.glob[elemIdx]
	}

	for a, adjs := range m.Adjacencies {
		for _, adj := range adjs {
			ls, li, lf := adj.ParentGmshType[0], adj.ParentIndexEachType[0], adj.AdjacencySequenceInParent[0]
			ltbl := perShape[ls].tbl
			lU := faceSample(sol.States[ls][li].U, ltbl.AdjPhi[lf])
			nqa := len(lU)

			var rAdjPhi [][]float64
			var rU [][]float64
			var jumps [][]float64 // conserved B−L at boundary walls; nil otherwise
			var rs shape.Tag
			var ri, rf int
			if adj.IsInterior {
				rs, ri, rf = adj.ParentGmshType[1], adj.ParentIndexEachType[1], adj.AdjacencySequenceInParent[1]
				rtbl := perShape[rs].tbl
				rSampled := faceSample(sol.States[rs][ri].U, rtbl.AdjPhi[rf])
				faceTbl := basis.Get(a, p)
				perm := faceTbl.RotationPermutation(adj.AdjacencyRightRotation)
				rU = permuteRows(rSampled, perm)
				rAdjPhi = permuteRows(rtbl.AdjPhi[rf], perm)
			} else {
				rU = make([][]float64, nqa)
				jumps = make([][]float64, nqa)
				for j := range rU {
					rU[j], jumps[j] = boundary(adj, j)
				}
			}

			symBuf := make([][][]float64, dim)  // [dir] Nc x Nqa
			jumpBuf := make([][][]float64, dim) // [dir] Nc x Nqa
			for d := range symBuf {
				symBuf[d] = la.MatAlloc(nc, nqa)
				jumpBuf[d] = la.MatAlloc(nc, nqa)
			}
			hasJump := adj.IsInterior
			for j := 0; j < nqa; j++ {
				jw := adj.JacobianDetWeight[j]
				n := adj.NormalVector[j]
				sym := flux.VolumeGradientFlux(lU[j], rU[j], n)
				for d := 0; d < dim; d++ {
					for c := 0; c < nc; c++ {
						symBuf[d][c][j] = sym[d][c] * jw
					}
				}
				if adj.IsInterior {
					jmp := flux.InterfaceGradientFlux(lU[j], rU[j], n)
					for d := 0; d < dim; d++ {
						for c := 0; c < nc; c++ {
							jumpBuf[d][c][j] = jmp[d][c] * jw
						}
					}
				} else if jumps[j] != nil {
					hasJump = true
					for d := 0; d < dim; d++ {
						for c := 0; c < nc; c++ {
							jumpBuf[d][c][j] = n[d] * 0.5 * jumps[j][c] * jw
						}
					}
				}
			}

			for d := 0; d < dim; d++ {
				faceContribution(symBuf[d], ltbl.AdjPhi[lf], perShape[ls].sym[li][d], 1)
				if hasJump {
					faceContribution(jumpBuf[d], ltbl.AdjPhi[lf], jumpDst(ls, li, lf)[d], 1)
				}
				if adj.IsInterior {
					faceContribution(symBuf[d], rAdjPhi, perShape[rs].sym[ri][d], -1)
					faceContribution(jumpBuf[d], rAdjPhi, jumpDst(rs, ri, rf)[d], 1)
				}
			}
		}
	}

	for s, elems := range m.Elements {
		al := perShape[s]
		tbl := al.tbl
		states := sol.States[s]
		nfaces := shape.Get(s).Nadjacency
		parFor(len(elems), func(i int) {
			e := elems[i]
			st := states[i]
			for d := 0; d < dim; d++ {
				if br2 {
					for k := 0; k < nfaces; k++ {
						st.HFaces[k][d] = massInvert(al.face[i][k][d], e.LocalMassMatrixInverse)
					}
				} else {
					st.HGlobal[d] = massInvert(al.glob[i][d], e.LocalMassMatrixInverse)
				}
				gres := la.MatAlloc(nc, tbl.Nb)
				for c := 0; c < nc; c++ {
					for b := 0; b < tbl.Nb; b++ {
						gres[c][b] = al.sym[i][d][c][b] - al.vol[i][d][c][b]
					}
				}
				st.G[d] = massInvert(gres, e.LocalMassMatrixInverse)
			}
		})
	}
}

// GradVolumeOnlyAt evaluates the volume-only gradient G (without the
// interface lift H) at face k, adjacency quadrature index j. The
// artificial-viscous flux is fed G alone, not the BR1/BR2-corrected G+H the
// genuine viscous flux uses (see GradientAt): the smoothing term needs only
// a consistent gradient, not the lifted one.
func GradVolumeOnlyAt(st *ElementState, s shape.Tag, p, k, j, dim, nc int) [][]float64 {
	tbl := basis.Get(s, p)
	out := make([][]float64, dim)
	for d := 0; d < dim; d++ {
		out[d] = make([]float64, nc)
		for c := 0; c < nc; c++ {
			g := 0.0
			for b := 0; b < tbl.Nb; b++ {
				g += st.G[d][c][b] * tbl.AdjPhi[k][j][b]
			}
			out[d][c] = g
		}
	}
	return out
}

// GradientAt evaluates ∇U = G + H at face k, adjacency quadrature index j, of
// element state st (shape s, order p), returning a [dim] slice of
// Nc-vectors, for the viscous interface flux and wall boundary operators.
func GradientAt(st *ElementState, s shape.Tag, p, k, j, dim, nc int) [][]float64 {
	tbl := basis.Get(s, p)
	out := make([][]float64, dim)
	for d := 0; d < dim; d++ {
		out[d] = make([]float64, nc)
		for c := 0; c < nc; c++ {
			g := 0.0
			for b := 0; b < tbl.Nb; b++ {
				g += st.G[d][c][b] * tbl.AdjPhi[k][j][b]
			}
			if st.HGlobal != nil {
				for b := 0; b < tbl.Nb; b++ {
					g += st.HGlobal[d][c][b] * tbl.AdjPhi[k][j][b]
				}
			} else if st.HFaces != nil {
				for b := 0; b < tbl.Nb; b++ {
					g += st.HFaces[k][d][c][b] * tbl.AdjPhi[k][j][b]
				}
			}
			out[d][c] = g
		}
	}
	return out
}
