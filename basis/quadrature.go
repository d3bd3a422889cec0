// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// GaussLegendre1D returns n nodes and weights of the Gauss-Legendre
// quadrature rule on [-1,1], exact for polynomials up to degree 2n-1.
//
// Nodes/weights are the eigenvalues/eigenvectors of the symmetric
// tridiagonal Jacobi matrix (Golub-Welsch algorithm); gonum's dense
// symmetric eigensolver does the heavy lifting so no hard-coded tables
// are needed for an arbitrary quadrature order.
func GaussLegendre1D(n int) (x, w []float64) {
	if n <= 0 {
		return nil, nil
	}
	if n == 1 {
		return []float64{0}, []float64{2}
	}
	jacobi := mat.NewSymDense(n, nil)
	for i := 0; i < n-1; i++ {
		k := float64(i + 1)
		b := k / math.Sqrt(4*k*k-1)
		jacobi.SetSym(i, i+1, b)
	}
	var eig mat.EigenSym
	ok := eig.Factorize(jacobi, true)
	if !ok {
		return nil, nil
	}
	x = eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	w = make([]float64, n)
	for j := 0; j < n; j++ {
		v0 := vecs.At(0, j)
		w[j] = 2 * v0 * v0
	}
	return
}

// duffyCollapse2D maps the tensor square [-1,1]^2 to the reference triangle
// with vertices (-1,-1),(1,-1),(-1,1) via the standard Duffy transform,
// returning the triangle coordinates and the extra Jacobian factor.
func duffyCollapse2D(xi, eta float64) (a, b float64, jac float64) {
	if eta == 1 {
		a = -1
	} else {
		a = (1+xi)*(1-eta)/2 - 1
	}
	b = eta
	jac = (1 - eta) / 2
	return
}

// duffyCollapse3D maps the tensor cube [-1,1]^3 to the reference
// tetrahedron with vertices (-1,-1,-1),(1,-1,-1),(-1,1,-1),(-1,-1,1).
func duffyCollapse3D(xi, eta, zeta float64) (a, b, c float64, jac float64) {
	a = (1+xi)*(1-eta)*(1-zeta)/4 - 1
	b = (1+eta)*(1-zeta)/2 - 1
	c = zeta
	jac = (1 - eta) * (1 - zeta) * (1 - zeta) / 8
	return
}

// Rule holds a set of quadrature points (reference coordinates, dimension
// dim) and associated weights.
type Rule struct {
	Points  [][]float64
	Weights []float64
}

// lineRule returns an n-point Gauss-Legendre rule on [-1,1].
func lineRule(n int) Rule {
	x, w := GaussLegendre1D(n)
	pts := make([][]float64, n)
	for i := range x {
		pts[i] = []float64{x[i]}
	}
	return Rule{Points: pts, Weights: w}
}

// quadRule returns an n x n tensor-product Gauss-Legendre rule on the
// reference quadrangle [-1,1]^2.
func quadRule(n int) Rule {
	x, w := GaussLegendre1D(n)
	pts := make([][]float64, 0, n*n)
	wts := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pts = append(pts, []float64{x[i], x[j]})
			wts = append(wts, w[i]*w[j])
		}
	}
	return Rule{Points: pts, Weights: wts}
}

// hexRule returns an n x n x n tensor-product Gauss-Legendre rule on the
// reference hexahedron [-1,1]^3.
func hexRule(n int) Rule {
	x, w := GaussLegendre1D(n)
	pts := make([][]float64, 0, n*n*n)
	wts := make([]float64, 0, n*n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				pts = append(pts, []float64{x[i], x[j], x[k]})
				wts = append(wts, w[i]*w[j]*w[k])
			}
		}
	}
	return Rule{Points: pts, Weights: wts}
}

// triRule returns a rule on the reference triangle built from an n x n
// tensor Gauss-Legendre grid via the Duffy transform, then symmetrized
// over the triangle's three vertex rotations (each rotated copy carries a
// third of the weight). The symmetrization keeps the rule exact while
// making its point set closed under face rotation, which the shared-face
// permutation tables require.
func triRule(n int) Rule {
	x, w := GaussLegendre1D(n)
	pts := make([][]float64, 0, 3*n*n)
	wts := make([]float64, 0, 3*n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a, b, jac := duffyCollapse2D(x[i], x[j])
			for r := 0; r < 3; r++ {
				pts = append(pts, rotateTrianglePoint([]float64{a, b}, r))
				wts = append(wts, w[i]*w[j]*jac/3)
			}
		}
	}
	return Rule{Points: pts, Weights: wts}
}

// tetRule returns a collapsed-coordinate rule on the reference tetrahedron.
func tetRule(n int) Rule {
	x, w := GaussLegendre1D(n)
	pts := make([][]float64, 0, n*n*n)
	wts := make([]float64, 0, n*n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				a, b, c, jac := duffyCollapse3D(x[i], x[j], x[k])
				pts = append(pts, []float64{a, b, c})
				wts = append(wts, w[i]*w[j]*w[k]*jac)
			}
		}
	}
	return Rule{Points: pts, Weights: wts}
}

// pyramidRule returns a collapsed-coordinate rule on the reference pyramid
// with apex at (0,0,1) and square base z=-1 of half-width 1. The xi,eta
// directions are collapsed towards the apex the same way the tetrahedron's
// third direction is, leaving a non-polynomial 1/(1-zeta) weight that is
// absorbed into the rule's weight rather than into the basis.
func pyramidRule(n int) Rule {
	x, w := GaussLegendre1D(n)
	pts := make([][]float64, 0, n*n*n)
	wts := make([]float64, 0, n*n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				zeta := x[k]
				scale := (1 - zeta) / 2
				xi := x[i] * scale
				eta := x[j] * scale
				jac := scale * scale
				pts = append(pts, []float64{xi, eta, zeta})
				wts = append(wts, w[i]*w[j]*w[k]*jac)
			}
		}
	}
	return Rule{Points: pts, Weights: wts}
}

// pointRule returns the trivial single-point rule used for 0-dimensional
// (vertex) adjacencies in 1D meshes.
func pointRule() Rule {
	return Rule{Points: [][]float64{{}}, Weights: []float64{1}}
}
