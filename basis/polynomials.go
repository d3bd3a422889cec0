// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import "math"

// legendre evaluates the Legendre polynomial of degree n and its derivative
// at x, via the standard three-term recurrence.
func legendre(n int, x float64) (p, dp float64) {
	if n == 0 {
		return 1, 0
	}
	p0, p1 := 1.0, x
	d0, d1 := 0.0, 1.0
	for k := 2; k <= n; k++ {
		kf := float64(k)
		p2 := ((2*kf-1)*x*p1 - (kf-1)*p0) / kf
		d2 := d0 + (2*kf-1)*p1
		p0, p1 = p1, p2
		d0, d1 = d1, d2
	}
	return p1, d1
}

// normalizedLegendre returns the L2([-1,1])-orthonormal Legendre polynomial
// of degree n, value and derivative.
func normalizedLegendre(n int, x float64) (p, dp float64) {
	p, dp = legendre(n, x)
	norm := math.Sqrt(2.0 / (2*float64(n) + 1))
	return p / norm, dp / norm
}

// jacobi evaluates the Jacobi polynomial P_n^{(alpha,beta)}(x) and its
// derivative via the standard recurrence (Hesthaven & Warburton's
// nodal-DG convention, alpha,beta >= 0 integers as used by the collapsed
// simplex bases below).
func jacobi(n int, alpha, beta float64, x float64) (p, dp float64) {
	if n == 0 {
		return 1, 0
	}
	p0 := 1.0
	p1 := 0.5 * (alpha - beta + (alpha+beta+2)*x)
	if n == 1 {
		d1 := 0.5 * (alpha + beta + 2)
		return p1, d1
	}
	d0, d1 := 0.0, 0.5*(alpha+beta+2)
	var p2, d2 float64
	for k := 1; k < n; k++ {
		kf := float64(k)
		a1 := 2 * (kf + 1) * (kf + alpha + beta + 1) * (2*kf + alpha + beta)
		a2 := (2*kf + alpha + beta + 1) * (alpha*alpha - beta*beta)
		a3 := (2*kf + alpha + beta) * (2*kf + alpha + beta + 1) * (2*kf + alpha + beta + 2)
		a4 := 2 * (kf + alpha) * (kf + beta) * (2*kf + alpha + beta + 2)
		p2 = ((a2+a3*x)*p1 - a4*p0) / a1
		d2 = ((a2+a3*x)*d1 + a3*p1 - a4*d0) / a1
		p0, p1 = p1, p2
		d0, d1 = d1, d2
	}
	return p1, d1
}
