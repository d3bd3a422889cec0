// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basis

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

func Test_gauss01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gauss01. Gauss-Legendre nodes and weights")

	x, w := GaussLegendre1D(3)
	chk.Vector(tst, "x", 1e-13, x, []float64{-math.Sqrt(3.0 / 5.0), 0, math.Sqrt(3.0 / 5.0)})
	chk.Vector(tst, "w", 1e-13, w, []float64{5.0 / 9.0, 8.0 / 9.0, 5.0 / 9.0})

	// exactness up to degree 2n-1: ∫ x⁴ over [-1,1] = 2/5 with n=3
	sum := 0.0
	for i := range x {
		sum += w[i] * math.Pow(x[i], 4)
	}
	chk.Scalar(tst, "int x^4", 1e-13, sum, 2.0/5.0)
}

func Test_rules01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rules01. rule weights sum to the reference measure")

	for _, tc := range []struct {
		s       shape.Tag
		p       int
		measure float64
	}{
		{shape.Line, 3, 2},
		{shape.Quadrangle, 3, 4},
		{shape.Triangle, 3, 2},
		{shape.Hexahedron, 2, 8},
		{shape.Tetrahedron, 2, 4.0 / 3.0},
	} {
		rule := interiorRule(tc.s, tc.p)
		sum := 0.0
		for _, w := range rule.Weights {
			sum += w
		}
		chk.Scalar(tst, "measure "+tc.s.String(), 1e-12, sum, tc.measure)
	}
}

func Test_modal01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modal01. line modal basis is orthonormal")

	t := Get(shape.Line, 3)
	for i := 0; i < t.Nb; i++ {
		for j := 0; j < t.Nb; j++ {
			sum := 0.0
			for q := range t.QuadPoints {
				sum += t.QuadWeights[q] * t.Phi[q][i] * t.Phi[q][j]
			}
			correct := 0.0
			if i == j {
				correct = 1.0
			}
			chk.Scalar(tst, "gram", 1e-12, sum, correct)
		}
	}
}

func Test_modal02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modal02. least-squares inverse against the Gram matrix")

	for _, s := range []shape.Tag{shape.Line, shape.Triangle, shape.Quadrangle} {
		t := Get(s, 2)
		// gram = ΦᵀΦ (unweighted, reference space)
		gram := make([][]float64, t.Nb)
		for i := range gram {
			gram[i] = make([]float64, t.Nb)
		}
		for _, row := range t.Phi {
			for i := 0; i < t.Nb; i++ {
				for j := 0; j < t.Nb; j++ {
					gram[i][j] += row[i] * row[j]
				}
			}
		}
		// gram * inv = I
		for i := 0; i < t.Nb; i++ {
			for j := 0; j < t.Nb; j++ {
				sum := 0.0
				for k := 0; k < t.Nb; k++ {
					sum += gram[i][k] * t.LeastSquaresInv[k][j]
				}
				correct := 0.0
				if i == j {
					correct = 1.0
				}
				chk.Scalar(tst, "gram*inv "+s.String(), 1e-9, sum, correct)
			}
		}
	}
}

func Test_modal03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("modal03. modal gradient against finite differences")

	t := Get(shape.Quadrangle, 2)
	h := 1e-6
	x := []float64{0.3, -0.45}
	for _, idx := range t.indices {
		_, grad := evalModal(shape.Quadrangle, idx, x)
		for d := 0; d < 2; d++ {
			xp := append([]float64{}, x...)
			xm := append([]float64{}, x...)
			xp[d] += h
			xm[d] -= h
			vp, _ := evalModal(shape.Quadrangle, idx, xp)
			vm, _ := evalModal(shape.Quadrangle, idx, xm)
			chk.Scalar(tst, "dphi", 1e-8, grad[d], (vp-vm)/(2*h))
		}
	}
}

func Test_index01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("index01. lower-order index sets are prefixes")

	for _, s := range []shape.Tag{shape.Line, shape.Triangle, shape.Quadrangle, shape.Tetrahedron, shape.Hexahedron} {
		for p := 1; p <= 3; p++ {
			low := buildIndexSet(s, p-1)
			high := buildIndexSet(s, p)
			if len(low) > len(high) {
				tst.Errorf("%v: order %d set larger than order %d set\n", s, p-1, p)
				return
			}
			for i, idx := range low {
				for k := range idx {
					chk.IntAssert(high[i][k], idx[k])
				}
			}
			// the trailing block of the order-p set is exactly the level-p indices
			for _, idx := range high[len(low):] {
				chk.IntAssert(indexLevel(s, idx), p)
			}
		}
	}
}

func Test_rot01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rot01. line rotation permutation is the reversal")

	t := Get(shape.Line, 3)
	perm := t.RotationPermutation(1)
	for j := range perm {
		chk.Scalar(tst, "reversed point", 1e-12, t.QuadPoints[perm[j]][0], -t.QuadPoints[j][0])
		chk.IntAssert(perm[perm[j]], j)
	}
}

func Test_rot02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rot02. triangle rotations compose to the identity")

	t := Get(shape.Triangle, 2)
	for r := 1; r < 3; r++ {
		pr := t.RotationPermutation(r)
		pinv := t.RotationPermutation(3 - r)
		seen := make([]bool, len(pr))
		for j := range pr {
			if seen[pr[j]] {
				tst.Errorf("rotation %d is not a permutation\n", r)
				return
			}
			seen[pr[j]] = true
			chk.IntAssert(pinv[pr[j]], j)
		}
		// rotated points land exactly on rule points
		for j := range pr {
			rot := rotateTrianglePoint(t.QuadPoints[j], r)
			chk.Vector(tst, "rotated point", 1e-10, t.QuadPoints[pr[j]], rot)
		}
	}
}

func Test_rot03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rot03. quadrangle quarter-turn permutation")

	t := Get(shape.Quadrangle, 2)
	for r := 1; r < 4; r++ {
		pr := t.RotationPermutation(r)
		pinv := t.RotationPermutation((4 - r) % 4)
		for j := range pr {
			chk.IntAssert(pinv[pr[j]], j)
		}
	}
}

func Test_lin01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lin01. linear shapes: partition of unity, derivative sum")

	pts := map[shape.Tag][]float64{
		shape.Line:        {0.3},
		shape.Triangle:    {-0.2, -0.3},
		shape.Quadrangle:  {0.25, -0.5},
		shape.Tetrahedron: {-0.5, -0.5, -0.6},
		shape.Hexahedron:  {0.1, 0.2, -0.3},
		shape.Pyramid:     {0.1, -0.1, -0.2},
	}
	for s, x := range pts {
		vals := LinearShapeValues(s, x)
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		chk.Scalar(tst, "unity "+s.String(), 1e-13, sum, 1)

		derivs := LinearShapeDerivatives(s, x)
		dim := shape.Get(s).Dim
		for d := 0; d < dim; d++ {
			dsum := 0.0
			for _, dl := range derivs {
				dsum += dl[d]
			}
			chk.Scalar(tst, "deriv sum "+s.String(), 1e-13, dsum, 0)
		}
	}
}

func Test_lin02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lin02. vertex values interpolate the vertices")

	for _, s := range []shape.Tag{shape.Line, shape.Triangle, shape.Quadrangle, shape.Tetrahedron, shape.Hexahedron} {
		verts := ReferenceVertices(s)
		for k, xv := range verts {
			vals := LinearShapeValues(s, xv)
			for i := range vals {
				correct := 0.0
				if i == k {
					correct = 1.0
				}
				chk.Scalar(tst, "kronecker "+s.String(), 1e-13, vals[i], correct)
			}
		}
	}
}

func Test_embed01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("embed01. face-point embedding")

	// quadrangle face 0 runs from (-1,-1) to (1,-1)
	x := EmbedFacePoint(shape.Quadrangle, 0, []float64{0})
	chk.Vector(tst, "quad face 0 midpoint", 1e-14, x, []float64{0, -1})

	// hexahedron face 5 is the z=+1 plane
	x = EmbedFacePoint(shape.Hexahedron, 5, []float64{0, 0})
	chk.Vector(tst, "hex face 5 center", 1e-14, x, []float64{0, 0, 1})

	// line face 1 is the right endpoint
	x = EmbedFacePoint(shape.Line, 1, nil)
	chk.Vector(tst, "line face 1", 1e-14, x, []float64{1})
}
