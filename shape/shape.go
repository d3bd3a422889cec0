// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape catalogs the reference element shapes used by the DG engine:
// their dimension, adjacency, node ordering, and reference-domain coordinates.
package shape

import "github.com/cpmech/gosl/chk"

// Tag identifies a reference element shape.
type Tag int

// the seven shapes the engine supports, ordered point to hexahedron
const (
	Point Tag = iota
	Line
	Triangle
	Quadrangle
	Tetrahedron
	Pyramid
	Hexahedron
)

// String implements fmt.Stringer
func (t Tag) String() string {
	switch t {
	case Point:
		return "point"
	case Line:
		return "line"
	case Triangle:
		return "triangle"
	case Quadrangle:
		return "quadrangle"
	case Tetrahedron:
		return "tetrahedron"
	case Pyramid:
		return "pyramid"
	case Hexahedron:
		return "hexahedron"
	}
	return "unknown"
}

// Info holds the compile-time-known constants of a shape.
// NbasicNodes/Nadjacency/AdjacencyShape/FaceVerts do not depend on p;
// NallNodes/NmodalBasis/Nquadrature/NqAdjacency do.
type Info struct {
	Tag            Tag
	Dim            int     // spatial dimension of the shape
	NbasicNodes    int     // number of vertex (corner) nodes
	NallNodes      int     // number of all-order nodes at polynomial order p
	NmodalBasis    int     // N_b(p): number of modal basis functions
	Nquadrature    int     // N_q: number of interior quadrature points
	Nadjacency     int     // N_a: number of adjacency faces/edges
	NqAdjacency    int     // N_qa: number of quadrature points per adjacency
	AdjacencyShape Tag     // shape tag of each adjacency (all adjacencies share one shape per parent shape)
	FaceVerts      [][]int // FaceVerts[k] = basic-node indices (in parent ordering) of adjacency k
}

// AllAdjacencyQuadratureNumber is Σ N_qa over all adjacency faces of the shape.
func (i Info) AllAdjacencyQuadratureNumber() int {
	return i.Nadjacency * i.NqAdjacency
}

// catalog holds the per-(shape) adjacency topology that does not depend on p.
// This catalog carries only the fixed combinatorial facts: the per-order
// fields NallNodes/NmodalBasis/Nquadrature/NqAdjacency are zero in every
// record Get returns, and the per-order counts live on basis.Tables instead.
var catalog = map[Tag]Info{
	Point: {
		Tag: Point, Dim: 0, NbasicNodes: 1, Nadjacency: 0,
	},
	Line: {
		Tag: Line, Dim: 1, NbasicNodes: 2, Nadjacency: 2,
		AdjacencyShape: Point,
		FaceVerts:      [][]int{{0}, {1}},
	},
	Triangle: {
		Tag: Triangle, Dim: 2, NbasicNodes: 3, Nadjacency: 3,
		AdjacencyShape: Line,
		FaceVerts:      [][]int{{0, 1}, {1, 2}, {2, 0}},
	},
	Quadrangle: {
		Tag: Quadrangle, Dim: 2, NbasicNodes: 4, Nadjacency: 4,
		AdjacencyShape: Line,
		FaceVerts:      [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	},
	Tetrahedron: {
		Tag: Tetrahedron, Dim: 3, NbasicNodes: 4, Nadjacency: 4,
		AdjacencyShape: Triangle,
		FaceVerts:      [][]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {2, 0, 3}},
	},
	Pyramid: {
		Tag: Pyramid, Dim: 3, NbasicNodes: 5, Nadjacency: 5,
		// mixed-face shape: face 0 is a quadrangle, faces 1..4 are triangles;
		// AdjacencyShape is left zero-valued (Point) and callers must use
		// PyramidFaceShape(k) instead of the uniform AdjacencyShape field.
		FaceVerts: [][]int{{0, 3, 2, 1}, {0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}},
	},
	Hexahedron: {
		Tag: Hexahedron, Dim: 3, NbasicNodes: 8, Nadjacency: 6,
		AdjacencyShape: Quadrangle,
		FaceVerts: [][]int{
			{0, 3, 2, 1}, {0, 1, 5, 4}, {1, 2, 6, 5},
			{2, 3, 7, 6}, {3, 0, 4, 7}, {4, 5, 6, 7},
		},
	},
}

// Get returns the fixed topology record for a shape. Panics on an
// unregistered tag since the catalog is a compile-time constant table, not
// user input.
func Get(tag Tag) Info {
	info, ok := catalog[tag]
	if !ok {
		chk.Panic("shape: unregistered shape tag %v", tag)
	}
	return info
}

// PyramidFaceShape returns the adjacency shape of face k of a pyramid: the
// base (k==0) is a quadrangle, the four lateral faces are triangles.
func PyramidFaceShape(k int) Tag {
	if k == 0 {
		return Quadrangle
	}
	return Triangle
}

// AdjacencyShapeOf returns the adjacency shape of face k of parent shape s,
// accounting for the pyramid's mixed faces.
func AdjacencyShapeOf(s Tag, k int) Tag {
	if s == Pyramid {
		return PyramidFaceShape(k)
	}
	return Get(s).AdjacencyShape
}

// VTKCode returns the VTK cell-type code of the shape's linear cell, used
// when writing visualization meshes.
func (t Tag) VTKCode() int {
	switch t {
	case Point:
		return 1
	case Line:
		return 3
	case Triangle:
		return 5
	case Quadrangle:
		return 9
	case Tetrahedron:
		return 10
	case Pyramid:
		return 14
	case Hexahedron:
		return 12
	}
	return -1
}

// VolumeShapes lists the volume (element) shapes the engine meshes with, in
// the gmsh/checkpoint shape order: Line; Triangle, Quadrangle;
// Tetrahedron, Pyramid, Hexahedron. Point is a boundary-only adjacency shape
// in 1D and is excluded from the volume list.
var VolumeShapes = []Tag{Line, Triangle, Quadrangle, Tetrahedron, Pyramid, Hexahedron}

// BoundaryShapeOrder lists the shape order used when laying out boundary
// adjacency checkpoint blocks: Point; Line; Triangle, Quadrangle.
var BoundaryShapeOrder = []Tag{Point, Line, Triangle, Quadrangle}
