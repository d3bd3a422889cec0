// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// rawFace is one sighting of an adjacency during ingest, before
// interior/boundary classification.
type rawFace struct {
	faceTag  int
	nodeTags []int
	parents  []int       // parent element indices (within their own shape's Elements slice)
	pshapes  []shape.Tag // parent shape of each entry in parents
	pfaceIds []int       // local face id of each parent
	seen     int
	rotation int // set when a periodic slave is merged into this face
}

// Ingest builds a Mesh from an external Source, for volume shapes present in
// shapes, at polynomial order p.
func Ingest(src Source, shapes []shape.Tag, dim, p int) (*Mesh, error) {
	m := &Mesh{
		Dim:                       dim,
		Order:                     p,
		Elements:                  map[shape.Tag][]*Element{},
		Adjacencies:               map[shape.Tag][]*Adjacency{},
		NumInterior:               map[shape.Tag]int{},
		PhysicalGroupBoundaryType: map[int]int{},
		tagIndex:                  map[shape.Tag]map[int]int{},
	}

	// volume elements
	for _, s := range shapes {
		tags := src.ElementTags(s)
		if len(tags) == 0 {
			return nil, newErr(EmptyElement, "mesh ingest: declared shape %v contributes no elements", s)
		}
		elems := make([]*Element, len(tags))
		tbl := basis.Get(s, p)
		for i, tag := range tags {
			e := &Element{Shape: s, GmshTag: tag, ElementIndex: i}
			e.NodeTag = src.NodeTags(s, tag)
			e.NodeCoordinate = make([][]float64, len(e.NodeTag))
			for k, nt := range e.NodeTag {
				e.NodeCoordinate[k] = src.NodeCoord(nt)
			}
			e.GmshPhysicalIndex = src.PhysicalIndex(tag)
			e.MinimumEdge, e.InnerRadius = src.Quality(s, tag)
			buildVolumeQuadrature(e, s, tag, src, tbl)
			elems[i] = e
		}
		m.Elements[s] = elems
		idx := make(map[int]int, len(tags))
		for i, tag := range tags {
			idx[tag] = i
		}
		m.tagIndex[s] = idx
	}
	if len(m.Elements) == 0 {
		return nil, newErr(EmptyElement, "mesh ingest: no volume elements found for any declared shape")
	}

	// adjacency ingest: one pass per adjacency shape
	adjShapes := uniqueAdjacencyShapes(shapes)
	for _, a := range adjShapes {
		if err := ingestAdjacency(m, src, a, p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// uniqueAdjacencyShapes returns the set of distinct adjacency shapes that
// occur as faces of the given volume shapes.
func uniqueAdjacencyShapes(shapes []shape.Tag) []shape.Tag {
	seen := map[shape.Tag]bool{}
	var out []shape.Tag
	for _, s := range shapes {
		info := shape.Get(s)
		for k := 0; k < info.Nadjacency; k++ {
			a := shape.AdjacencyShapeOf(s, k)
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out
}

// ingestAdjacency runs the adjacency ingest for one adjacency shape a.
func ingestAdjacency(m *Mesh, src Source, a shape.Tag, p int) error {
	raws := map[int]*rawFace{}
	var order []int // first-seen order, for deterministic layout

	for _, rec := range src.BoundaryFaces(a) {
		rf, ok := raws[rec.FaceTag]
		if !ok {
			rf = &rawFace{faceTag: rec.FaceTag, nodeTags: rec.NodeTags}
			raws[rec.FaceTag] = rf
			order = append(order, rec.FaceTag)
		}
		rf.seen++
		if rf.seen > 2 {
			return newErr(DuplicateAdjacency, "mesh ingest: face tag %d of shape %v seen a third time", rec.FaceTag, a)
		}
		parentIdx, err := resolveParentIndex(m, rec.ParentShape, rec.ParentTag)
		if err != nil {
			return err
		}
		rf.parents = append(rf.parents, parentIdx)
		rf.pshapes = append(rf.pshapes, rec.ParentShape)
		rf.pfaceIds = append(rf.pfaceIds, rec.LocalFaceId)
		if rf.seen == 2 {
			// rotation aligning the second parent's face-vertex sequence
			// to the first's: position of the first parent's leading
			// vertex within the second parent's sequence
			r := -1
			for i, n := range rec.NodeTags {
				if n == rf.nodeTags[0] {
					r = i
					break
				}
			}
			if r < 0 {
				return newErr(OrphanFace, "mesh ingest: face tag %d: parents disagree on the face node set %v vs %v", rec.FaceTag, rf.nodeTags, rec.NodeTags)
			}
			rf.rotation = r
		}
	}

	// periodic merge
	for _, pair := range src.PeriodicPairs(a) {
		master, ok := raws[pair.MasterFaceTag]
		if !ok {
			return newErr(PeriodicMismatch, "mesh ingest: periodic master face %d not found", pair.MasterFaceTag)
		}
		slave, ok := raws[pair.SlaveFaceTag]
		if !ok {
			return newErr(PeriodicMismatch, "mesh ingest: periodic slave face %d not found", pair.SlaveFaceTag)
		}
		if len(slave.parents) != 1 || len(master.parents) != 1 {
			return newErr(PeriodicMismatch, "mesh ingest: periodic master/slave face must each have exactly one parent before merge")
		}
		if pair.NodeMap == nil {
			return newErr(PeriodicMismatch, "mesh ingest: periodic pair %d/%d missing node-tag map", pair.MasterFaceTag, pair.SlaveFaceTag)
		}
		r, err := rotationFromNodeMap(master.nodeTags, slave.nodeTags, pair.NodeMap)
		if err != nil {
			return err
		}
		master.parents = append(master.parents, slave.parents[0])
		master.pshapes = append(master.pshapes, slave.pshapes[0])
		master.pfaceIds = append(master.pfaceIds, slave.pfaceIds[0])
		master.seen = 2
		master.rotation = r
		delete(raws, pair.SlaveFaceTag)
	}

	// partition interior (2 parents) first, boundary (1 parent) last
	var interior, boundary []int
	for _, tag := range order {
		rf, ok := raws[tag]
		if !ok {
			continue // removed as a periodic slave
		}
		switch len(rf.parents) {
		case 1:
			boundary = append(boundary, tag)
		case 2:
			interior = append(interior, tag)
		default:
			return newErr(DuplicateAdjacency, "mesh ingest: face tag %d has %d parents", tag, len(rf.parents))
		}
	}

	tbl := basis.Get(a, p)
	adjs := make([]*Adjacency, 0, len(interior)+len(boundary))
	for _, tag := range interior {
		rf := raws[tag]
		adj, err := buildAdjacency(m, src, a, rf, true, tbl)
		if err != nil {
			return err
		}
		adjs = append(adjs, adj)
	}
	for _, tag := range boundary {
		rf := raws[tag]
		adj, err := buildAdjacency(m, src, a, rf, false, tbl)
		if err != nil {
			return err
		}
		adjs = append(adjs, adj)
	}
	m.Adjacencies[a] = adjs
	m.NumInterior[a] = len(interior)
	return nil
}

// resolveParentIndex maps an element tag of shape s back to its index in
// Mesh.Elements[s], raising OrphanFace if the tag is unknown.
func resolveParentIndex(m *Mesh, s shape.Tag, tag int) (int, error) {
	if idx, ok := m.tagIndex[s][tag]; ok {
		return idx, nil
	}
	return 0, newErr(OrphanFace, "mesh ingest: adjacency references unknown parent element tag %d of shape %v", tag, s)
}

// buildAdjacency fills the geometric fields of one adjacency record.
func buildAdjacency(m *Mesh, src Source, a shape.Tag, rf *rawFace, interior bool, tbl *basis.Tables) (*Adjacency, error) {
	adj := &Adjacency{
		Shape:                     a,
		NodeTag:                   rf.nodeTags,
		ParentIndexEachType:       append([]int{}, rf.parents...),
		AdjacencySequenceInParent: append([]int{}, rf.pfaceIds...),
		ParentGmshType:            append([]shape.Tag{}, rf.pshapes...),
		AdjacencyRightRotation:    rf.rotation,
		IsInterior:                interior,
	}
	if !interior {
		adj.GmshPhysicalIndex = src.PhysicalIndex(rf.faceTag)
	}
	adj.NodeCoordinate = make([][]float64, len(rf.nodeTags))
	for i, nt := range rf.nodeTags {
		adj.NodeCoordinate[i] = src.NodeCoord(nt)
	}

	parent := m.Elements[rf.pshapes[0]][rf.parents[0]]
	parentCentroid := averageCoordinate(parent.NodeCoordinate)
	nq := len(tbl.QuadPoints)
	nbasic := shape.Get(a).NbasicNodes
	adj.QuadratureNodeCoordinate = make([][]float64, nq)
	adj.JacobianDetWeight = make([]float64, nq)
	adj.NormalVector = make([][]float64, nq)
	for j, xf := range tbl.QuadPoints {
		lin := basis.LinearShapeValues(a, xf)
		adj.QuadratureNodeCoordinate[j] = interpolateCoordinate(lin, adj.NodeCoordinate[:nbasic])
		tangents := faceTangents(a, xf, adj.NodeCoordinate[:nbasic])
		det := faceJacobianDet(tangents)
		adj.JacobianDetWeight[j] = det * tbl.QuadWeights[j]
		n := outwardNormal(tangents, adj.QuadratureNodeCoordinate[j], parentCentroid)
		if n == nil {
			// degenerate tangents: fall back to the previous point's normal
			warnDegenerateNormal(rf.faceTag)
			if j > 0 {
				n = adj.NormalVector[j-1]
			} else {
				n = fallbackNormal(adj.QuadratureNodeCoordinate[j], parentCentroid)
			}
		}
		adj.NormalVector[j] = n
	}
	return adj, nil
}

// faceTangents computes the physical-space tangent vectors of adjacency
// shape a at face-local point xf from its basic-node coordinates: one
// tangent for a line, two for a triangle/quadrangle, none for a point.
func faceTangents(a shape.Tag, xf []float64, coords [][]float64) [][]float64 {
	derivs := basis.LinearShapeDerivatives(a, xf)
	if len(derivs) == 0 || len(derivs[0]) == 0 {
		return nil
	}
	dimFace := len(derivs[0])
	dim := len(coords[0])
	out := make([][]float64, dimFace)
	for k := 0; k < dimFace; k++ {
		t := make([]float64, dim)
		for i, dL := range derivs {
			for d := 0; d < dim; d++ {
				t[d] += dL[k] * coords[i][d]
			}
		}
		out[k] = t
	}
	return out
}

// faceJacobianDet returns the surface Jacobian determinant of the face
// parametrization: 1 for a point, the tangent length for a line, the
// tangent cross-product magnitude for a surface.
func faceJacobianDet(tangents [][]float64) float64 {
	switch len(tangents) {
	case 0:
		return 1
	case 1:
		s := 0.0
		for _, x := range tangents[0] {
			s += x * x
		}
		return math.Sqrt(s)
	default:
		c := cross(tangents[0], tangents[1])
		return math.Sqrt(c[0]*c[0] + c[1]*c[1] + c[2]*c[2])
	}
}

// outwardNormal computes the outward unit normal at a face quadrature point:
// for a line adjacency of a 2D parent, (t_y, −t_x) from the face tangent;
// for a triangle/quadrangle adjacency of a 3D parent, the cross product of
// the two surface tangents; for a point adjacency of a 1D parent, the sign
// pointing away from the parent. Orientation is fixed so the normal points
// from the left parent outward. Returns nil on degenerate tangents.
func outwardNormal(tangents [][]float64, faceCoord, parentCentroid []float64) []float64 {
	var n []float64
	switch len(tangents) {
	case 0: // point adjacency of a 1D parent
		n = []float64{1}
	case 1:
		t := tangents[0]
		n = []float64{t[1], -t[0]}
	default:
		n = cross(tangents[0], tangents[1])
	}
	n = normalize(n)
	if n == nil {
		return nil
	}
	// orient away from the parent
	d := 0.0
	for i := range n {
		d += n[i] * (faceCoord[i] - parentCentroid[i])
	}
	if d < 0 {
		for i := range n {
			n[i] = -n[i]
		}
	}
	return n
}

// fallbackNormal is the last-resort outward direction when every tangent of
// a face is degenerate: the normalized centroid-to-face vector.
func fallbackNormal(faceCoord, parentCentroid []float64) []float64 {
	v := make([]float64, len(faceCoord))
	for i := range v {
		v[i] = faceCoord[i] - parentCentroid[i]
	}
	if n := normalize(v); n != nil {
		return n
	}
	n := make([]float64, len(faceCoord))
	n[0] = 1
	return n
}

var degenerateNormalWarned bool

// warnDegenerateNormal logs the degenerate-tangent fallback once per run.
func warnDegenerateNormal(faceTag int) {
	if degenerateNormalWarned {
		return
	}
	degenerateNormalWarned = true
	io.Pforan("mesh: degenerate face tangents at face tag %d; keeping previous normal\n", faceTag)
}

// normalize returns v scaled to unit length, or nil if v is (numerically)
// the zero vector.
func normalize(v []float64) []float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	if s < 1e-28 {
		return nil
	}
	inv := 1.0 / math.Sqrt(s)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}

func cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// rotationFromNodeMap computes r, the unique rotation such that the slave
// parent's face-vertex sequence (mapped through the periodic node map),
// rotated by r, equals the master's sequence.
func rotationFromNodeMap(masterNodes, slaveNodes []int, nodeMap map[int]int) (int, error) {
	mapped := make([]int, len(slaveNodes))
	for i, n := range slaveNodes {
		mm, ok := nodeMap[n]
		if !ok {
			return 0, newErr(PeriodicMismatch, "mesh ingest: periodic node map missing slave node %d", n)
		}
		mapped[i] = mm
	}
	n := len(masterNodes)
	if n != len(mapped) {
		return 0, newErr(PeriodicMismatch, "mesh ingest: periodic master/slave node counts differ (%d vs %d)", n, len(mapped))
	}
	for r := 0; r < n; r++ {
		match := true
		for i := 0; i < n; i++ {
			if masterNodes[i] != mapped[(i+r)%n] {
				match = false
				break
			}
		}
		if match {
			return r, nil
		}
	}
	return 0, newErr(PeriodicMismatch, "mesh ingest: no rotation aligns periodic master/slave face")
}

// buildVolumeQuadrature fills an element's quadrature-related fields and its
// local mass matrix inverse.
func buildVolumeQuadrature(e *Element, s shape.Tag, tag int, src Source, tbl *basis.Tables) {
	nq := len(tbl.QuadPoints)
	dim := shape.Get(s).Dim
	e.QuadratureNodeCoordinate = make([][]float64, nq)
	e.JacobianDetWeight = make([]float64, nq)
	e.JacobianTrInvDetWeight = make([][]float64, nq)
	for j, xref := range tbl.QuadPoints {
		jac, det := src.Jacobian(s, tag, xref)
		w := tbl.QuadWeights[j]
		e.JacobianDetWeight[j] = det * w
		trinv := transposeInverse(jac, dim)
		scaled := make([]float64, dim*dim)
		for k, v := range trinv {
			scaled[k] = v * det * w
		}
		e.JacobianTrInvDetWeight[j] = scaled
		lin := basis.LinearShapeValues(s, xref)
		e.QuadratureNodeCoordinate[j] = interpolateCoordinate(lin, e.NodeCoordinate[:shape.Get(s).NbasicNodes])
	}
	e.LocalMassMatrixInverse = buildMassMatrixInverse(tbl.Phi, e.JacobianDetWeight)
}

// transposeInverse inverts the dim x dim matrix given flattened row-major,
// returning (Jᵀ)⁻¹ flattened the same way.
func transposeInverse(jFlat []float64, dim int) []float64 {
	jt := la.MatAlloc(dim, dim)
	for i := 0; i < dim; i++ {
		for k := 0; k < dim; k++ {
			jt[i][k] = jFlat[k*dim+i]
		}
	}
	inv := la.MatAlloc(dim, dim)
	det, err := la.MatInv(inv, jt, 1e-14)
	out := make([]float64, dim*dim)
	if err != nil || det == 0 {
		return out
	}
	for i := 0; i < dim; i++ {
		for k := 0; k < dim; k++ {
			out[i*dim+k] = inv[i][k]
		}
	}
	return out
}

// interpolateCoordinate maps a reference point to physical space through the
// linear (vertex) shape functions, exact for affine elements.
func interpolateCoordinate(lin []float64, coords [][]float64) []float64 {
	dim := len(coords[0])
	out := make([]float64, dim)
	for i, w := range lin {
		for d := 0; d < dim; d++ {
			out[d] += w * coords[i][d]
		}
	}
	return out
}

// averageCoordinate returns the centroid of a node-coordinate list.
func averageCoordinate(coords [][]float64) []float64 {
	if len(coords) == 0 {
		return nil
	}
	dim := len(coords[0])
	out := make([]float64, dim)
	w := 1.0 / float64(len(coords))
	for _, nc := range coords {
		for d := 0; d < dim && d < len(nc); d++ {
			out[d] += w * nc[d]
		}
	}
	return out
}

// buildMassMatrixInverse computes (Φᵀ diag(JW) Φ)⁻¹.
func buildMassMatrixInverse(phi [][]float64, jw []float64) [][]float64 {
	nb := 0
	if len(phi) > 0 {
		nb = len(phi[0])
	}
	mass := la.MatAlloc(nb, nb)
	for q, row := range phi {
		jwq := jw[q]
		for i := 0; i < nb; i++ {
			for j := 0; j < nb; j++ {
				mass[i][j] += jwq * row[i] * row[j]
			}
		}
	}
	inv := la.MatAlloc(nb, nb)
	la.MatInv(inv, mass, 1e-13)
	return inv
}
