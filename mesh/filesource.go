// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// fileNode, fileElement, fileBoundary and filePeriodic mirror the JSON mesh
// file layout: a flat node table, an element table with shape names, the
// boundary faces carrying physical-group indices, and periodic node maps.
type fileNode struct {
	Tag   int       `json:"tag"`
	Coord []float64 `json:"coord"`
}

type fileElement struct {
	Tag   int    `json:"tag"`
	Shape string `json:"shape"`
	Nodes []int  `json:"nodes"`
	Phys  int    `json:"phys"`
}

type fileBoundary struct {
	Nodes []int `json:"nodes"`
	Phys  int   `json:"phys"`
}

type filePeriodic struct {
	// NodeMap maps a slave node tag (JSON object key) to its master node
	// tag, one entry per periodic surface pairing.
	NodeMap map[string]int `json:"nodemap"`
}

type fileMesh struct {
	Dim        int            `json:"dim"`
	Nodes      []fileNode     `json:"nodes"`
	Elements   []fileElement  `json:"elements"`
	Boundaries []fileBoundary `json:"boundaries"`
	Periodic   []filePeriodic `json:"periodic"`
}

var shapeNames = map[string]shape.Tag{
	"point":       shape.Point,
	"line":        shape.Line,
	"triangle":    shape.Triangle,
	"quadrangle":  shape.Quadrangle,
	"tetrahedron": shape.Tetrahedron,
	"pyramid":     shape.Pyramid,
	"hexahedron":  shape.Hexahedron,
}

// faceEntry is one canonical geometric face of the mesh, registered the
// first time any parent produces it.
type faceEntry struct {
	tag   int
	nodes []int // parent-local order of the first sighting
	phys  int
}

// FileSource implements Source from a JSON mesh file of straight-sided
// (affine or multilinear) elements: the Jacobian sampler evaluates the
// linear vertex shape-function derivatives against the node coordinates,
// and faces are enumerated from each element's connectivity.
type FileSource struct {
	dim    int
	coords map[int][]float64
	elems  map[shape.Tag][]fileElement
	byTag  map[int]fileElement

	faceByKey map[string]*faceEntry
	faces     map[shape.Tag][]BoundaryFaceRecord
	facePhys  map[int]int
	periodic  []filePeriodic
}

// ReadFileSource loads a JSON mesh file into a FileSource.
func ReadFileSource(path string) (*FileSource, error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("mesh: cannot read mesh file %q: %v", path, err)
	}
	var fm fileMesh
	if err := json.Unmarshal(b, &fm); err != nil {
		return nil, chk.Err("mesh: cannot unmarshal mesh file %q: %v", path, err)
	}
	return NewFileSource(&fm)
}

// NewFileSource builds a FileSource from an in-memory mesh description.
func NewFileSource(fm *fileMesh) (*FileSource, error) {
	fs := &FileSource{
		dim:       fm.Dim,
		coords:    map[int][]float64{},
		elems:     map[shape.Tag][]fileElement{},
		byTag:     map[int]fileElement{},
		faceByKey: map[string]*faceEntry{},
		faces:     map[shape.Tag][]BoundaryFaceRecord{},
		facePhys:  map[int]int{},
		periodic:  fm.Periodic,
	}
	for _, n := range fm.Nodes {
		fs.coords[n.Tag] = n.Coord
	}
	maxTag := 0
	for _, e := range fm.Elements {
		s, ok := shapeNames[e.Shape]
		if !ok {
			return nil, chk.Err("mesh: unknown element shape %q (tag %d)", e.Shape, e.Tag)
		}
		fs.elems[s] = append(fs.elems[s], e)
		fs.byTag[e.Tag] = e
		if e.Tag > maxTag {
			maxTag = e.Tag
		}
	}

	// boundary physical indices keyed by the face's sorted node set
	boundaryPhys := map[string]int{}
	for _, b := range fm.Boundaries {
		boundaryPhys[nodeSetKey(b.Nodes)] = b.Phys
	}

	// enumerate every element's faces, registering canonical tags
	nextTag := maxTag + 1
	for _, s := range shape.VolumeShapes {
		for _, e := range fs.elems[s] {
			info := shape.Get(s)
			for k := 0; k < info.Nadjacency; k++ {
				verts := info.FaceVerts[k]
				nodes := make([]int, len(verts))
				for i, v := range verts {
					nodes[i] = e.Nodes[v]
				}
				key := nodeSetKey(nodes)
				fe, ok := fs.faceByKey[key]
				if !ok {
					fe = &faceEntry{tag: nextTag, nodes: nodes}
					if phys, found := boundaryPhys[key]; found {
						fe.phys = phys
					}
					fs.faceByKey[key] = fe
					fs.facePhys[fe.tag] = fe.phys
					nextTag++
				}
				a := shape.AdjacencyShapeOf(s, k)
				fs.faces[a] = append(fs.faces[a], BoundaryFaceRecord{
					FaceTag:     fe.tag,
					NodeTags:    nodes,
					ParentTag:   e.Tag,
					ParentShape: s,
					LocalFaceId: k,
				})
			}
		}
	}
	return fs, nil
}

func nodeSetKey(nodes []int) string {
	sorted := append([]int{}, nodes...)
	sort.Ints(sorted)
	key := ""
	for _, n := range sorted {
		key += strconv.Itoa(n) + ","
	}
	return key
}

// Dim returns the spatial dimension declared by the mesh file.
func (fs *FileSource) Dim() int { return fs.dim }

// Shapes returns the volume shapes present in the mesh, in catalog order.
func (fs *FileSource) Shapes() []shape.Tag {
	var out []shape.Tag
	for _, s := range shape.VolumeShapes {
		if len(fs.elems[s]) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// ElementTags implements Source.
func (fs *FileSource) ElementTags(s shape.Tag) []int {
	tags := make([]int, len(fs.elems[s]))
	for i, e := range fs.elems[s] {
		tags[i] = e.Tag
	}
	return tags
}

// NodeTags implements Source.
func (fs *FileSource) NodeTags(s shape.Tag, elemTag int) []int {
	return fs.byTag[elemTag].Nodes
}

// NodeCoord implements Source.
func (fs *FileSource) NodeCoord(nodeTag int) []float64 {
	return fs.coords[nodeTag]
}

// PhysicalIndex implements Source for both element and face tags.
func (fs *FileSource) PhysicalIndex(gmshTag int) int {
	if e, ok := fs.byTag[gmshTag]; ok {
		return e.Phys
	}
	return fs.facePhys[gmshTag]
}

// Quality implements Source: the minimum basic-vertex pair distance, with
// the inner radius taken as half of it (straight-sided elements).
func (fs *FileSource) Quality(s shape.Tag, elemTag int) (minEdge, innerRadius float64) {
	e := fs.byTag[elemTag]
	nb := shape.Get(s).NbasicNodes
	minEdge = math.Inf(1)
	for i := 0; i < nb; i++ {
		for j := i + 1; j < nb; j++ {
			ci, cj := fs.coords[e.Nodes[i]], fs.coords[e.Nodes[j]]
			d := 0.0
			for k := range ci {
				diff := ci[k] - cj[k]
				d += diff * diff
			}
			if d = math.Sqrt(d); d < minEdge {
				minEdge = d
			}
		}
	}
	return minEdge, 0.5 * minEdge
}

// Jacobian implements Source for straight-sided elements: the geometric map
// is the linear vertex interpolation, so J(ξ)[r][c] = Σ_i x_i[r] ∂L_i/∂ξ_c.
func (fs *FileSource) Jacobian(s shape.Tag, elemTag int, ref []float64) (jac []float64, det float64) {
	e := fs.byTag[elemTag]
	dim := shape.Get(s).Dim
	derivs := basis.LinearShapeDerivatives(s, ref)
	jac = make([]float64, dim*dim)
	for i, dL := range derivs {
		x := fs.coords[e.Nodes[i]]
		for r := 0; r < dim; r++ {
			for c := 0; c < dim; c++ {
				jac[r*dim+c] += x[r] * dL[c]
			}
		}
	}
	det = matDet(jac, dim)
	return
}

func matDet(m []float64, dim int) float64 {
	switch dim {
	case 1:
		return m[0]
	case 2:
		return m[0]*m[3] - m[1]*m[2]
	case 3:
		return m[0]*(m[4]*m[8]-m[5]*m[7]) - m[1]*(m[3]*m[8]-m[5]*m[6]) + m[2]*(m[3]*m[7]-m[4]*m[6])
	}
	return 0
}

// BoundaryFaces implements Source: every face sighting of adjacency shape
// a, one record per (parent, local face id).
func (fs *FileSource) BoundaryFaces(a shape.Tag) []BoundaryFaceRecord {
	return fs.faces[a]
}

// PeriodicPairs implements Source: for each periodic node map, every face
// lying entirely on the slave surface is paired with the face its mapped
// node set identifies on the master surface.
func (fs *FileSource) PeriodicPairs(a shape.Tag) []PeriodicPair {
	var out []PeriodicPair
	for _, per := range fs.periodic {
		nodeMap := map[int]int{}
		for k, v := range per.NodeMap {
			slave, err := strconv.Atoi(k)
			if err != nil {
				chk.Panic("mesh: bad periodic node tag %q", k)
			}
			nodeMap[slave] = v
		}
		for _, rec := range fs.faces[a] {
			mapped := make([]int, len(rec.NodeTags))
			onSlave := true
			for i, n := range rec.NodeTags {
				m, ok := nodeMap[n]
				if !ok {
					onSlave = false
					break
				}
				mapped[i] = m
			}
			if !onSlave {
				continue
			}
			master, ok := fs.faceByKey[nodeSetKey(mapped)]
			if !ok {
				continue
			}
			out = append(out, PeriodicPair{
				MasterFaceTag: master.tag,
				SlaveFaceTag:  fs.faceByKey[nodeSetKey(rec.NodeTags)].tag,
				NodeMap:       nodeMap,
			})
		}
	}
	return out
}
