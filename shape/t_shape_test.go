// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_catalog01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("catalog01. shape constants")

	chk.IntAssert(Get(Line).Dim, 1)
	chk.IntAssert(Get(Triangle).Dim, 2)
	chk.IntAssert(Get(Hexahedron).Dim, 3)

	chk.IntAssert(Get(Line).NbasicNodes, 2)
	chk.IntAssert(Get(Triangle).NbasicNodes, 3)
	chk.IntAssert(Get(Quadrangle).NbasicNodes, 4)
	chk.IntAssert(Get(Tetrahedron).NbasicNodes, 4)
	chk.IntAssert(Get(Pyramid).NbasicNodes, 5)
	chk.IntAssert(Get(Hexahedron).NbasicNodes, 8)

	chk.IntAssert(Get(Line).Nadjacency, 2)
	chk.IntAssert(Get(Triangle).Nadjacency, 3)
	chk.IntAssert(Get(Quadrangle).Nadjacency, 4)
	chk.IntAssert(Get(Tetrahedron).Nadjacency, 4)
	chk.IntAssert(Get(Pyramid).Nadjacency, 5)
	chk.IntAssert(Get(Hexahedron).Nadjacency, 6)
}

func Test_catalog02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("catalog02. face vertex lists")

	for _, s := range []Tag{Line, Triangle, Quadrangle, Tetrahedron, Pyramid, Hexahedron} {
		info := Get(s)
		if len(info.FaceVerts) != info.Nadjacency {
			tst.Errorf("%v: FaceVerts length %d != Nadjacency %d\n", s, len(info.FaceVerts), info.Nadjacency)
			return
		}
		for k, verts := range info.FaceVerts {
			a := AdjacencyShapeOf(s, k)
			if len(verts) != Get(a).NbasicNodes {
				tst.Errorf("%v face %d: %d vertices but adjacency shape %v has %d\n", s, k, len(verts), a, Get(a).NbasicNodes)
				return
			}
			for _, v := range verts {
				if v < 0 || v >= info.NbasicNodes {
					tst.Errorf("%v face %d: vertex index %d out of range\n", s, k, v)
					return
				}
			}
		}
	}

	// pyramid mixed faces
	if AdjacencyShapeOf(Pyramid, 0) != Quadrangle {
		tst.Errorf("pyramid base must be a quadrangle\n")
	}
	for k := 1; k < 5; k++ {
		if AdjacencyShapeOf(Pyramid, k) != Triangle {
			tst.Errorf("pyramid lateral face %d must be a triangle\n", k)
		}
	}
}

func Test_catalog03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("catalog03. VTK codes and shape order")

	for _, s := range VolumeShapes {
		if s.VTKCode() < 0 {
			tst.Errorf("%v: missing VTK code\n", s)
		}
	}
	chk.IntAssert(Line.VTKCode(), 3)
	chk.IntAssert(Quadrangle.VTKCode(), 9)
	chk.IntAssert(Hexahedron.VTKCode(), 12)

	chk.IntAssert(len(VolumeShapes), 6)
	chk.IntAssert(len(BoundaryShapeOrder), 4)
}
