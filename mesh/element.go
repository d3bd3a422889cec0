// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh stores the per-element geometric state, face/edge adjacency,
// boundary tagging and periodic identifications ingested from an external
// mesh collaborator.
package mesh

import (
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// Element is one volume (element) record.
type Element struct {
	Shape shape.Tag

	NodeCoordinate [][]float64 // [Np][dim] geometric node coordinates
	NodeTag        []int       // [Np] global node ids

	QuadratureNodeCoordinate [][]float64 // [Nq][dim] physical coords at interior quadrature points

	// JacobianDetWeight[j] = |J(ξ_j)| * w_j
	JacobianDetWeight []float64

	// JacobianTrInvDetWeight[j] is the flattened dim x dim matrix
	// (Jᵀ)⁻¹(ξ_j) * |J(ξ_j)| * w_j, row-major, at interior quadrature point j.
	JacobianTrInvDetWeight [][]float64

	MinimumEdge float64
	InnerRadius float64

	// LocalMassMatrixInverse = (Φᵀ diag(JW) Φ)⁻¹, Nb x Nb.
	LocalMassMatrixInverse [][]float64

	GmshTag           int
	GmshPhysicalIndex int
	ElementIndex      int
}

// Adjacency is one face/edge/vertex adjacency record.
type Adjacency struct {
	Shape shape.Tag

	NodeCoordinate [][]float64
	NodeTag        []int

	QuadratureNodeCoordinate [][]float64
	JacobianDetWeight        []float64

	// NormalVector[j] is the outward unit normal (from the left parent) at
	// adjacency quadrature point j.
	NormalVector [][]float64

	// ParentIndexEachType has length 2 for interior adjacencies (left, right
	// element indices into Mesh.Elements[ParentGmshType[.]]) and length 1 for
	// boundary adjacencies.
	ParentIndexEachType []int

	// AdjacencySequenceInParent[k] is the local face id of parent k.
	AdjacencySequenceInParent []int

	// ParentGmshType[k] is the shape of parent k (mixed meshes).
	ParentGmshType []shape.Tag

	// AdjacencyRightRotation is r, set only for interior adjacencies: the
	// right parent's face-vertex sequence rotated by r equals the left
	// parent's.
	AdjacencyRightRotation int

	// GmshPhysicalIndex is the physical-group index of the adjacency's own
	// gmsh entity (boundary adjacencies only); the solver's configuration
	// step resolves it into BoundaryConditionType via the user's
	// physical-group -> BC-kind mapping.
	GmshPhysicalIndex int

	// BoundaryConditionType is set only for boundary adjacencies, by the
	// solver configuration step (not by ingest itself).
	BoundaryConditionType int

	IsInterior bool
}

// Mesh holds every element and adjacency record ingested from a Source.
// After Ingest returns, only ResolveBoundaryConditions modifies it.
type Mesh struct {
	Dim   int
	Order int

	Elements map[shape.Tag][]*Element

	// Adjacencies[a] is laid out interior-first, boundary-last; NumInterior[a] records the split point.
	Adjacencies map[shape.Tag][]*Adjacency
	NumInterior map[shape.Tag]int

	// PhysicalGroupBoundaryType maps a gmsh physical index to the
	// user-declared boundary-condition kind (filled by the solver's
	// configuration step, not by ingest itself).
	PhysicalGroupBoundaryType map[int]int

	// tagIndex maps an element's gmsh tag to its index within
	// Elements[shape], built during ingest for parent back-pointer lookup.
	tagIndex map[shape.Tag]map[int]int
}

// NodeTags returns the sorted, deduplicated set of every basic-node global
// tag referenced by any element.
func (m *Mesh) NodeTags() []int {
	seen := map[int]bool{}
	for s, elems := range m.Elements {
		nb := shape.Get(s).NbasicNodes
		for _, e := range elems {
			for _, nt := range e.NodeTag[:nb] {
				seen[nt] = true
			}
		}
	}
	tags := make([]int, 0, len(seen))
	for nt := range seen {
		tags = append(tags, nt)
	}
	sort.Ints(tags)
	return tags
}

// NumElements returns the total element count across all volume shapes.
func (m *Mesh) NumElements() int {
	n := 0
	for _, es := range m.Elements {
		n += len(es)
	}
	return n
}

// InteriorAdjacencies returns the interior-only slice for adjacency shape a.
func (m *Mesh) InteriorAdjacencies(a shape.Tag) []*Adjacency {
	all := m.Adjacencies[a]
	n := m.NumInterior[a]
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

// BoundaryAdjacencies returns the boundary-only slice for adjacency shape a.
func (m *Mesh) BoundaryAdjacencies(a shape.Tag) []*Adjacency {
	all := m.Adjacencies[a]
	n := m.NumInterior[a]
	if n > len(all) {
		n = len(all)
	}
	return all[n:]
}

// ResolveBoundaryConditions stamps BoundaryConditionType on every boundary
// adjacency from its GmshPhysicalIndex, via the user's physical-group to
// BC-kind mapping; it also records the mapping itself on
// PhysicalGroupBoundaryType for later lookup. A physical index with no
// entry in the map is a fatal configuration error, propagated to the
// caller before the first step runs.
func (m *Mesh) ResolveBoundaryConditions(kindOfPhysicalIndex map[int]int) error {
	m.PhysicalGroupBoundaryType = kindOfPhysicalIndex
	for a := range m.Adjacencies {
		for _, adj := range m.BoundaryAdjacencies(a) {
			kind, ok := kindOfPhysicalIndex[adj.GmshPhysicalIndex]
			if !ok {
				return chk.Err("mesh: no boundary-condition kind configured for physical index %d (adjacency shape %v)", adj.GmshPhysicalIndex, a)
			}
			adj.BoundaryConditionType = kind
		}
	}
	return nil
}
