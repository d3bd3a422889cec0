// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package basis builds, per (shape, polynomial order) pair, the modal-value,
// modal-gradient, nodal-value and adjacency-value matrices and the interior
// and adjacency quadrature rules the DG operator consumes.
//
// The tables are generated from the shape catalog and the quadrature
// builders, so the rest of the engine never special-cases a shape by hand.
package basis

import (
	"math"
	"sort"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// multiIndex is one modal-basis multi-index (degree per collapsed direction).
type multiIndex []int

// Tables holds every precomputed matrix the DG operator needs for one
// (shape, polynomial order) combination.
type Tables struct {
	Shape shape.Tag
	Order int
	Dim   int

	Nb          int // number of modal basis functions
	Nq          int // number of interior quadrature points
	NqAdjacency int // number of quadrature points per adjacency face

	indices []multiIndex // one multi-index per modal basis function; len == Nb

	Phi     [][]float64   // Nq x Nb
	GradPhi [][][]float64 // [Dim], each Nq x Nb: reference-space partial derivatives

	QuadPoints  [][]float64 // Nq x Dim
	QuadWeights []float64   // Nq

	NodalPhi [][]float64 // NbasicNodes x NallNodes; see buildNodalPhi

	// VertexPhi[k] holds the modal basis values at basic vertex k of the
	// reference element, for nodal reconstruction of output fields.
	VertexPhi [][]float64 // NbasicNodes x Nb

	// LinPhi[j] is the NbasicNodes-length linear (vertex) shape-function
	// value at interior quadrature point j; used to spread per-basic-node
	// artificial viscosity to quadrature points.
	LinPhi [][]float64

	AdjPhi         [][][]float64 // [Nadjacency], each NqAdjacency x Nb
	AdjQuadPoints  [][][]float64 // [Nadjacency][NqAdjacency][Dim-1]
	AdjQuadWeights [][]float64   // [Nadjacency][NqAdjacency]

	LeastSquaresInv [][]float64 // Nb x Nb == (ΦᵀΦ)⁻¹ in reference space

	// rotationPerm[r] maps a left-parent adjacency quadrature index j to the
	// right-parent index π(j) under face rotation r.
	rotationPerm map[int][]int
}

// cache of built tables, keyed by (shape,order): building is expensive
// (quadrature + least-squares inverse) and tables are immutable constants.
// The mutex makes Get safe to call from the solver's parallel loops.
var (
	cacheMu sync.Mutex
	cache   = map[[2]int]*Tables{}
)

// Get returns the (possibly cached) basis/quadrature tables for shape s at
// polynomial order p.
func Get(s shape.Tag, p int) *Tables {
	key := [2]int{int(s), p}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if t, ok := cache[key]; ok {
		return t
	}
	t := build(s, p)
	cache[key] = t
	return t
}

// RotationPermutation returns π_{S,p}(r): the permutation mapping the left
// parent's adjacency quadrature index to the right parent's index under
// rotation r, for the table's own shape (used as an adjacency's shape, i.e.
// the face shape, not the volume shape -- callers pass basis.Get(faceShape,p)).
func (t *Tables) RotationPermutation(r int) []int {
	if perm, ok := t.rotationPerm[r]; ok {
		return perm
	}
	chk.Panic("basis: rotation %d not available for shape %v order %d", r, t.Shape, t.Order)
	return nil
}

// build constructs the Tables for shape s, order p from scratch.
func build(s shape.Tag, p int) *Tables {
	t := &Tables{Shape: s, Order: p, Dim: shape.Get(s).Dim}

	rule := interiorRule(s, p)
	t.QuadPoints = rule.Points
	t.QuadWeights = rule.Weights
	t.Nq = len(rule.Points)

	t.indices = buildIndexSet(s, p)
	t.Nb = len(t.indices)

	t.Phi = la.MatAlloc(t.Nq, t.Nb)
	t.GradPhi = make([][][]float64, max(t.Dim, 1))
	for d := range t.GradPhi {
		t.GradPhi[d] = la.MatAlloc(t.Nq, t.Nb)
	}
	for iq, x := range rule.Points {
		for jb, idx := range t.indices {
			val, grad := evalModal(s, idx, x)
			t.Phi[iq][jb] = val
			for d := 0; d < t.Dim; d++ {
				t.GradPhi[d][iq][jb] = grad[d]
			}
		}
	}

	t.LeastSquaresInv = leastSquaresInverse(t.Phi)

	info := shape.Get(s)
	t.NodalPhi = buildNodalPhi(s, p)
	t.VertexPhi = la.MatAlloc(info.NbasicNodes, t.Nb)
	for k, xv := range referenceVertices(s)[:info.NbasicNodes] {
		for jb, idx := range t.indices {
			val, _ := evalModal(s, idx, xv)
			t.VertexPhi[k][jb] = val
		}
	}
	t.LinPhi = make([][]float64, t.Nq)
	for j, x := range rule.Points {
		t.LinPhi[j] = LinearShapeValues(s, x)
	}

	if info.Nadjacency > 0 {
		t.NqAdjacency = len(interiorRule(shape.AdjacencyShapeOf(s, 0), p).Points)
		t.AdjPhi = make([][][]float64, info.Nadjacency)
		t.AdjQuadPoints = make([][][]float64, info.Nadjacency)
		t.AdjQuadWeights = make([][]float64, info.Nadjacency)
		for k := 0; k < info.Nadjacency; k++ {
			faceShape := shape.AdjacencyShapeOf(s, k)
			faceRule := interiorRule(faceShape, p)
			t.AdjQuadPoints[k] = faceRule.Points
			t.AdjQuadWeights[k] = faceRule.Weights
			t.AdjPhi[k] = la.MatAlloc(len(faceRule.Points), t.Nb)
			for iq, xf := range faceRule.Points {
				x := embedFacePoint(s, k, xf)
				for jb, idx := range t.indices {
					val, _ := evalModal(s, idx, x)
					t.AdjPhi[k][iq][jb] = val
				}
			}
		}
	}
	// the shape's own quadrature permutation under vertex rotations, used
	// when this shape acts as the face of a higher-dimensional parent
	t.rotationPerm = buildRotationPermutations(s, rule)
	return t
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// interiorRule dispatches to the per-shape quadrature-rule builder using
// n = p+1 points per collapsed direction (exact for the modal products this
// package builds, since each factor has degree <= p in its own direction).
func interiorRule(s shape.Tag, p int) Rule {
	n := p + 1
	switch s {
	case shape.Point:
		return pointRule()
	case shape.Line:
		return lineRule(n)
	case shape.Triangle:
		return triRule(n)
	case shape.Quadrangle:
		return quadRule(n)
	case shape.Tetrahedron:
		return tetRule(n)
	case shape.Pyramid:
		return pyramidRule(n)
	case shape.Hexahedron:
		return hexRule(n)
	}
	chk.Panic("basis: unknown shape %v", s)
	return Rule{}
}

// indexLevel is the polynomial level of a multi-index: the smallest order
// whose index set contains it. Sorting by level makes every order's index
// set a prefix of the next order's, which the shock indicator's high-mode
// split and the lower-order checkpoint embedding both rely on.
func indexLevel(s shape.Tag, idx multiIndex) int {
	switch s {
	case shape.Point:
		return 0
	case shape.Line:
		return idx[0]
	case shape.Quadrangle:
		return max(idx[0], idx[1])
	case shape.Hexahedron:
		return max(max(idx[0], idx[1]), idx[2])
	case shape.Triangle:
		return idx[0] + idx[1]
	case shape.Tetrahedron:
		return idx[0] + idx[1] + idx[2]
	case shape.Pyramid:
		return max(idx[0], idx[1]) + idx[2]
	}
	return 0
}

// buildIndexSet enumerates the modal multi-indices for shape s at order p,
// ordered by increasing polynomial level.
func buildIndexSet(s shape.Tag, p int) []multiIndex {
	var out []multiIndex
	switch s {
	case shape.Point:
		out = append(out, multiIndex{0})
	case shape.Line:
		for i := 0; i <= p; i++ {
			out = append(out, multiIndex{i})
		}
	case shape.Quadrangle:
		for i := 0; i <= p; i++ {
			for j := 0; j <= p; j++ {
				out = append(out, multiIndex{i, j})
			}
		}
	case shape.Hexahedron:
		for i := 0; i <= p; i++ {
			for j := 0; j <= p; j++ {
				for k := 0; k <= p; k++ {
					out = append(out, multiIndex{i, j, k})
				}
			}
		}
	case shape.Triangle:
		for i := 0; i <= p; i++ {
			for j := 0; j <= p-i; j++ {
				out = append(out, multiIndex{i, j})
			}
		}
	case shape.Tetrahedron:
		for i := 0; i <= p; i++ {
			for j := 0; j <= p-i; j++ {
				for k := 0; k <= p-i-j; k++ {
					out = append(out, multiIndex{i, j, k})
				}
			}
		}
	case shape.Pyramid:
		for i := 0; i <= p; i++ {
			for j := 0; j <= p; j++ {
				for k := 0; k <= p-max(i, j); k++ {
					out = append(out, multiIndex{i, j, k})
				}
			}
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return indexLevel(s, out[a]) < indexLevel(s, out[b])
	})
	return out
}

// evalModal evaluates the modal basis function of multi-index idx for shape
// s at reference point x, returning its value and the gradient w.r.t. the
// reference coordinates.
func evalModal(s shape.Tag, idx multiIndex, x []float64) (val float64, grad []float64) {
	switch s {
	case shape.Point:
		return 1, []float64{}
	case shape.Line:
		p, dp := normalizedLegendre(idx[0], x[0])
		return p, []float64{dp}
	case shape.Quadrangle:
		p0, d0 := normalizedLegendre(idx[0], x[0])
		p1, d1 := normalizedLegendre(idx[1], x[1])
		return p0 * p1, []float64{d0 * p1, p0 * d1}
	case shape.Hexahedron:
		p0, d0 := normalizedLegendre(idx[0], x[0])
		p1, d1 := normalizedLegendre(idx[1], x[1])
		p2, d2 := normalizedLegendre(idx[2], x[2])
		return p0 * p1 * p2, []float64{d0 * p1 * p2, p0 * d1 * p2, p0 * p1 * d2}
	case shape.Triangle:
		return dubiner2D(idx[0], idx[1], x[0], x[1])
	case shape.Tetrahedron:
		return dubiner3D(idx[0], idx[1], idx[2], x[0], x[1], x[2])
	case shape.Pyramid:
		// collapse only the z direction (apex at zeta=1); xi,eta stay tensor-Legendre.
		a, b, zeta := x[0], x[1], x[2]
		p0, d0 := normalizedLegendre(idx[0], a)
		p1, d1 := normalizedLegendre(idx[1], b)
		p2, d2 := jacobi(idx[2], 1, 0, zeta)
		return p0 * p1 * p2, []float64{d0 * p1 * p2, p0 * d1 * p2, p0 * p1 * d2}
	}
	chk.Panic("basis: evalModal: unknown shape %v", s)
	return 0, nil
}

// dubiner2D evaluates the Dubiner modal basis function (m,n) and its
// gradient (w.r.t. the collapsed coordinates treated as independent
// variables, which is the convention the solver's ∇Φ contraction expects)
// on the reference triangle.
func dubiner2D(m, n int, a, b float64) (val float64, grad []float64) {
	pa, dpa := normalizedLegendre(m, a)
	scale := 1.0
	dscale := 0.0
	if m > 0 {
		scale = pow(0.5*(1-b), float64(m))
		dscale = -0.5 * float64(m) * pow(0.5*(1-b), float64(m-1))
	}
	pb, dpb := jacobi(n, float64(2*m+1), 0, b)
	val = pa * scale * pb
	dval_da := dpa * scale * pb
	dval_db := pa*dscale*pb + pa*scale*dpb
	return val, []float64{dval_da, dval_db}
}

// dubiner3D evaluates the tetrahedral collapsed-coordinate modal basis.
func dubiner3D(m, n, l int, a, b, c float64) (val float64, grad []float64) {
	pa, dpa := normalizedLegendre(m, a)
	sb := 1.0
	dsb := 0.0
	if m > 0 {
		sb = pow(0.5*(1-b), float64(m))
		dsb = -0.5 * float64(m) * pow(0.5*(1-b), float64(m-1))
	}
	pb, dpb := jacobi(n, float64(2*m+1), 0, b)
	sc := 1.0
	dsc := 0.0
	if m+n > 0 {
		sc = pow(0.5*(1-c), float64(m+n))
		dsc = -0.5 * float64(m+n) * pow(0.5*(1-c), float64(m+n-1))
	}
	pc, dpc := jacobi(l, float64(2*m+2*n+2), 0, c)
	val = pa * sb * pb * sc * pc
	dval_da := dpa * sb * pb * sc * pc
	dval_db := pa * (dsb*pb + sb*dpb) * sc * pc
	dval_dc := pa * sb * pb * (dsc*pc + sc*dpc)
	return val, []float64{dval_da, dval_db, dval_dc}
}

func pow(x, n float64) float64 {
	if n == 0 {
		return 1
	}
	out := 1.0
	for i := 0; i < int(n); i++ {
		out *= x
	}
	return out
}

// leastSquaresInverse computes (ΦᵀΦ)⁻¹ using gosl's dense matrix
// inverse.
func leastSquaresInverse(phi [][]float64) [][]float64 {
	nb := 0
	if len(phi) > 0 {
		nb = len(phi[0])
	}
	gram := la.MatAlloc(nb, nb)
	for _, row := range phi {
		for i := 0; i < nb; i++ {
			for j := 0; j < nb; j++ {
				gram[i][j] += row[i] * row[j]
			}
		}
	}
	inv := la.MatAlloc(nb, nb)
	det, err := la.MatInv(inv, gram, 1e-13)
	if err != nil || det == 0 {
		chk.Panic("basis: singular least-squares Gram matrix (nb=%d)", nb)
	}
	return inv
}

// buildNodalPhi builds the linear nodal-value matrix Φ_nodal mapping the
// NbasicNodes linear (vertex) shape functions to the NallNodes all-order
// nodes. The basic vertices map to themselves (identity columns); every
// node beyond the basic vertices gets the equal-weight average
// 1/NbasicNodes of all basic vertices. The linear shape functions are not
// evaluated at the high-order nodes' actual positions, which this function
// does not know.
func buildNodalPhi(s shape.Tag, p int) [][]float64 {
	info := shape.Get(s)
	nAll := allNodeCount(s, p)
	m := la.MatAlloc(info.NbasicNodes, nAll)
	for k := 0; k < nAll; k++ {
		if k < info.NbasicNodes {
			m[k][k] = 1
			continue
		}
		for v := 0; v < info.NbasicNodes; v++ {
			m[v][k] = 1.0 / float64(info.NbasicNodes)
		}
	}
	return m
}

// allNodeCount returns N_p, the number of all-order nodes of shape s at
// polynomial order p (vertex + edge/face/interior high-order nodes).
func allNodeCount(s shape.Tag, p int) int {
	info := shape.Get(s)
	if p <= 1 {
		return info.NbasicNodes
	}
	switch s {
	case shape.Line:
		return p + 1
	case shape.Triangle:
		return (p + 1) * (p + 2) / 2
	case shape.Quadrangle:
		return (p + 1) * (p + 1)
	case shape.Tetrahedron:
		return (p + 1) * (p + 2) * (p + 3) / 6
	case shape.Hexahedron:
		return (p + 1) * (p + 1) * (p + 1)
	case shape.Pyramid:
		return info.NbasicNodes + (p - 1) // coarse high-order count; pyramids are always used at p==1 in practice
	}
	return info.NbasicNodes
}

// EmbedFacePoint lifts a face-local quadrature point xf of adjacency face k
// of parent shape s into s's own reference coordinates, for callers (e.g. the
// mesh ingest step) that must evaluate a volume quantity, such as the
// geometric Jacobian, at a point lying on one of the parent's faces.
func EmbedFacePoint(s shape.Tag, k int, xf []float64) []float64 {
	return embedFacePoint(s, k, xf)
}

// embedFacePoint lifts a face-local reference coordinate xf (dimension
// Dim-1) to the parent shape's reference coordinate (dimension Dim) at face
// k, by affine interpolation between the face's basic vertices.
func embedFacePoint(s shape.Tag, k int, xf []float64) []float64 {
	verts := shape.Get(s).FaceVerts[k]
	refCoords := referenceVertices(s)
	dim := shape.Get(s).Dim
	x := make([]float64, dim)
	switch len(verts) {
	case 1: // point adjacency of a line
		copy(x, refCoords[verts[0]])
	case 2: // line adjacency of a triangle/quadrangle
		t := (xf[0] + 1) / 2
		for d := 0; d < dim; d++ {
			x[d] = (1-t)*refCoords[verts[0]][d] + t*refCoords[verts[1]][d]
		}
	case 3: // triangle adjacency of a tetrahedron/pyramid
		a, b := (xf[0]+1)/2, (xf[1]+1)/2
		l1 := a * (1 - b)
		l2 := b
		l0 := 1 - l1 - l2
		for d := 0; d < dim; d++ {
			x[d] = l0*refCoords[verts[0]][d] + l1*refCoords[verts[1]][d] + l2*refCoords[verts[2]][d]
		}
	case 4: // quadrangle adjacency of a hexahedron/pyramid base
		u, v := xf[0], xf[1]
		n0, n1, n2, n3 := (1-u)*(1-v)/4, (1+u)*(1-v)/4, (1+u)*(1+v)/4, (1-u)*(1+v)/4
		for d := 0; d < dim; d++ {
			x[d] = n0*refCoords[verts[0]][d] + n1*refCoords[verts[1]][d] + n2*refCoords[verts[2]][d] + n3*refCoords[verts[3]][d]
		}
	}
	return x
}

// LinearShapeValues evaluates the NbasicNodes linear (vertex) shape
// functions of shape s at reference point x, used to spread per-node
// artificial-viscosity values to quadrature points.
func LinearShapeValues(s shape.Tag, x []float64) []float64 {
	switch s {
	case shape.Point:
		return []float64{1}
	case shape.Line:
		xi := x[0]
		return []float64{0.5 * (1 - xi), 0.5 * (1 + xi)}
	case shape.Triangle:
		xi, eta := x[0], x[1]
		l1, l2 := 0.5*(1+xi), 0.5*(1+eta)
		l0 := 1 - l1 - l2
		return []float64{l0, l1, l2}
	case shape.Quadrangle:
		xi, eta := x[0], x[1]
		return []float64{
			0.25 * (1 - xi) * (1 - eta), 0.25 * (1 + xi) * (1 - eta),
			0.25 * (1 + xi) * (1 + eta), 0.25 * (1 - xi) * (1 + eta),
		}
	case shape.Tetrahedron:
		xi, eta, zeta := x[0], x[1], x[2]
		l1, l2, l3 := 0.5*(1+xi), 0.5*(1+eta), 0.5*(1+zeta)
		l0 := 1 - l1 - l2 - l3
		return []float64{l0, l1, l2, l3}
	case shape.Hexahedron:
		xi, eta, zeta := x[0], x[1], x[2]
		n := make([]float64, 8)
		signs := [][3]float64{{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1}, {-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}
		for k, s3 := range signs {
			n[k] = 0.125 * (1 + s3[0]*xi) * (1 + s3[1]*eta) * (1 + s3[2]*zeta)
		}
		return n
	case shape.Pyramid:
		xi, eta, zeta := x[0], x[1], x[2]
		if zeta > 1-1e-12 {
			return []float64{0, 0, 0, 0, 1}
		}
		apex := 0.5 * (1 + zeta)
		base := 1 - apex
		n := LinearShapeValues(shape.Quadrangle, []float64{xi, eta})
		out := make([]float64, 5)
		for k := 0; k < 4; k++ {
			out[k] = n[k] * base
		}
		out[4] = apex
		return out
	}
	chk.Panic("basis: LinearShapeValues: unknown shape %v", s)
	return nil
}

// referenceVertices returns the reference-domain coordinates of shape s's
// basic vertices, in the ordering assumed by shape.Get(s).FaceVerts.
func referenceVertices(s shape.Tag) [][]float64 {
	switch s {
	case shape.Point:
		return [][]float64{{}}
	case shape.Line:
		return [][]float64{{-1}, {1}}
	case shape.Triangle:
		return [][]float64{{-1, -1}, {1, -1}, {-1, 1}}
	case shape.Quadrangle:
		return [][]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	case shape.Tetrahedron:
		return [][]float64{{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1}}
	case shape.Pyramid:
		return [][]float64{{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1}, {0, 0, 1}}
	case shape.Hexahedron:
		return [][]float64{
			{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
			{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
		}
	}
	return nil
}

// buildRotationPermutations builds π_{S,p}(r) for every rotation r shape s
// admits as a face (r in 0..NbasicNodes-1), by relabeling each quadrature
// point under the cyclic vertex rotation and matching it to its image in
// the same rule. The line and quadrangle rules are rotation-closed by
// symmetry of the tensor Gauss grid; the triangle rule is symmetrized over
// its three rotations at construction time (see triRule) so every rotated
// point coincides with a rule point.
func buildRotationPermutations(s shape.Tag, rule Rule) map[int][]int {
	out := map[int][]int{}
	nverts := shape.Get(s).NbasicNodes
	if nverts == 0 {
		nverts = 1
	}
	nq := len(rule.Points)
	for r := 0; r < nverts; r++ {
		perm := make([]int, nq)
		for j := 0; j < nq; j++ {
			perm[j] = rotateQuadIndex(s, rule, j, r)
		}
		out[r] = perm
	}
	return out
}

// rotateQuadIndex finds the quadrature index whose reference point equals
// point j's after rotating the face by r vertex positions.
func rotateQuadIndex(s shape.Tag, rule Rule, j, r int) int {
	if r == 0 || s == shape.Point {
		return j
	}
	rotated := rotatePoint(s, rule.Points[j], r)
	best, bestd := 0, 1e30
	for k, p := range rule.Points {
		d := 0.0
		for i := range p {
			diff := p[i] - rotated[i]
			d += diff * diff
		}
		if d < bestd {
			bestd, best = d, k
		}
	}
	return best
}

// rotatePoint maps a reference point of shape s to its image under the
// cyclic vertex relabeling k -> (k+r) mod n: coordinate reversal for a
// line, a quarter-turn for the square, and a barycentric cyclic shift for
// the (non-equilateral) reference triangle.
func rotatePoint(s shape.Tag, x []float64, r int) []float64 {
	switch s {
	case shape.Point:
		return x
	case shape.Line:
		if r%2 == 1 {
			return []float64{-x[0]}
		}
		return x
	case shape.Quadrangle:
		theta := 0.5 * math.Pi * float64(r)
		cx, cy := x[0], x[1]
		ct, st := math.Cos(theta), math.Sin(theta)
		return []float64{cx*ct - cy*st, cx*st + cy*ct}
	case shape.Triangle:
		return rotateTrianglePoint(x, r)
	}
	return x
}

// rotateTrianglePoint cyclically shifts the barycentric coordinates of a
// reference-triangle point: vertex k's weight moves to vertex (k+r) mod 3.
func rotateTrianglePoint(x []float64, r int) []float64 {
	l1 := 0.5 * (1 + x[0])
	l2 := 0.5 * (1 + x[1])
	l := [3]float64{1 - l1 - l2, l1, l2}
	var nl [3]float64
	for k := 0; k < 3; k++ {
		nl[(k+r)%3] = l[k]
	}
	verts := referenceVertices(shape.Triangle)
	out := []float64{0, 0}
	for k := 0; k < 3; k++ {
		out[0] += nl[k] * verts[k][0]
		out[1] += nl[k] * verts[k][1]
	}
	return out
}
