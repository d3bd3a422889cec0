// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"

// Source is the engine's contract with the external mesh-generation
// collaborator: element type queries, node tag lists, element
// quality queries, a Jacobian sampler, and periodic-entity enumeration. The
// engine never parses a mesh file itself; it only consumes this interface.
type Source interface {
	// ElementTags returns the gmsh-style element tags of every element of
	// shape s, in the order the generator enumerates them.
	ElementTags(s shape.Tag) []int

	// NodeTags returns, for element tag `elemTag` of shape s, the ordered
	// list of global node tags (length NallNodes(s, order)).
	NodeTags(s shape.Tag, elemTag int) []int

	// NodeCoord returns the physical coordinates of global node tag nodeTag.
	NodeCoord(nodeTag int) []float64

	// PhysicalIndex returns the physical-group index an element or boundary
	// entity with the given gmsh tag belongs to.
	PhysicalIndex(gmshTag int) int

	// Quality returns the minimum edge length and inner radius of element
	// tag elemTag of shape s (used for CFL and artificial-viscosity scaling).
	Quality(s shape.Tag, elemTag int) (minEdge, innerRadius float64)

	// Jacobian samples the geometric Jacobian matrix (flattened row-major,
	// length Dim*Dim) and its determinant at the given reference-space
	// coordinate for element elemTag of shape s.
	Jacobian(s shape.Tag, elemTag int, ref []float64) (jac []float64, det float64)

	// BoundaryFaces enumerates, for adjacency shape a, every face instance,
	// one per (parent, local face id), so an interior face appears once for
	// each of its two parents: its own tag, node tags, the owning parent's element tag and
	// shape, and which local face id of the parent it is.
	BoundaryFaces(a shape.Tag) []BoundaryFaceRecord

	// PeriodicPairs enumerates (master, slave) adjacency-tag pairs for every
	// periodic physical-group pairing of dimension Dim-1, together with the
	// periodic node-tag map (slave node tag -> master node tag).
	PeriodicPairs(a shape.Tag) []PeriodicPair
}

// BoundaryFaceRecord is one raw adjacency instance as produced by a parent
// volume element, before interior/boundary classification.
type BoundaryFaceRecord struct {
	FaceTag     int   // canonical tag identifying the geometric face
	NodeTags    []int // node tags on the face, in parent-local face order
	ParentTag   int   // owning parent element's tag
	ParentShape shape.Tag
	LocalFaceId int // which face id of the parent this is
}

// PeriodicPair links a slave adjacency to its master counterpart.
type PeriodicPair struct {
	MasterFaceTag int
	SlaveFaceTag  int
	NodeMap       map[int]int // slave node tag -> master node tag
}
