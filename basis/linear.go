// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import (
	"github.com/cpmech/gosl/chk"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// LinearShapeDerivatives returns the derivatives of the linear (vertex)
// shape functions of shape s w.r.t. its reference coordinates,
// [NbasicNodes][Dim], at reference point x. Together with the vertex
// coordinates these give the geometric Jacobian of an affine or
// multilinear element: J = Σ_i x_i ⊗ ∂L_i/∂ξ.
func LinearShapeDerivatives(s shape.Tag, x []float64) [][]float64 {
	switch s {
	case shape.Point:
		return [][]float64{{}}
	case shape.Line:
		return [][]float64{{-0.5}, {0.5}}
	case shape.Triangle:
		return [][]float64{{-0.5, -0.5}, {0.5, 0}, {0, 0.5}}
	case shape.Quadrangle:
		xi, eta := x[0], x[1]
		return [][]float64{
			{-0.25 * (1 - eta), -0.25 * (1 - xi)},
			{0.25 * (1 - eta), -0.25 * (1 + xi)},
			{0.25 * (1 + eta), 0.25 * (1 + xi)},
			{-0.25 * (1 + eta), 0.25 * (1 - xi)},
		}
	case shape.Tetrahedron:
		return [][]float64{
			{-0.5, -0.5, -0.5},
			{0.5, 0, 0},
			{0, 0.5, 0},
			{0, 0, 0.5},
		}
	case shape.Hexahedron:
		xi, eta, zeta := x[0], x[1], x[2]
		signs := [][3]float64{
			{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
			{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
		}
		out := make([][]float64, 8)
		for k, sg := range signs {
			out[k] = []float64{
				0.125 * sg[0] * (1 + sg[1]*eta) * (1 + sg[2]*zeta),
				0.125 * sg[1] * (1 + sg[0]*xi) * (1 + sg[2]*zeta),
				0.125 * sg[2] * (1 + sg[0]*xi) * (1 + sg[1]*eta),
			}
		}
		return out
	case shape.Pyramid:
		xi, eta, zeta := x[0], x[1], x[2]
		apex := 0.5 * (1 + zeta)
		base := 1 - apex
		n := LinearShapeValues(shape.Quadrangle, []float64{xi, eta})
		dn := LinearShapeDerivatives(shape.Quadrangle, []float64{xi, eta})
		out := make([][]float64, 5)
		for k := 0; k < 4; k++ {
			out[k] = []float64{dn[k][0] * base, dn[k][1] * base, -0.5 * n[k]}
		}
		out[4] = []float64{0, 0, 0.5}
		return out
	}
	chk.Panic("basis: LinearShapeDerivatives: unknown shape %v", s)
	return nil
}

// ReferenceVertices returns the reference-domain coordinates of shape s's
// basic vertices, in the ordering FaceVerts assumes.
func ReferenceVertices(s shape.Tag) [][]float64 {
	return referenceVertices(s)
}
