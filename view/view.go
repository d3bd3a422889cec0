// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package view writes per-physical-group visualization frames of the nodal
// flow fields (density, velocity, temperature, pressure, sound speed, Mach
// number, entropy, vorticity, heat flux, artificial viscosity) in the VTK
// unstructured-grid XML format, plus a PVD collection indexing the frames
// over time.
package view

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/dgsolver"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/field"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/flux"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// DefaultFields is the full nodal field selection.
var DefaultFields = []string{
	"density", "velocity", "temperature", "pressure", "soundspeed",
	"mach", "entropy", "vorticity", "heatflux", "artificialviscosity",
}

// Writer accumulates VTU frames and their PVD collection indices, one
// collection per physical group.
type Writer struct {
	Dirout string
	Prefix string
	Model  phys.Model
	Layout field.Layout
	Order  int

	// Fields selects the nodal fields written for every group; GroupFields
	// overrides the selection for a specific physical index.
	Fields      []string
	GroupFields map[int][]string

	pvd map[int]*bytes.Buffer
}

// fieldComponents returns the number of components a field writes.
func fieldComponents(name string, dim int) int {
	switch name {
	case "velocity", "heatflux":
		return 3
	case "vorticity":
		if dim == 3 {
			return 3
		}
		return 1
	}
	return 1
}

// fieldsFor resolves the field selection of one physical group.
func (w *Writer) fieldsFor(group int) []string {
	if f, ok := w.GroupFields[group]; ok {
		return f
	}
	if len(w.Fields) > 0 {
		return w.Fields
	}
	return DefaultFields
}

// nodeValues is the per-node accumulation of one group's fields.
type nodeValues struct {
	coord []float64
	sum   map[string][]float64
	count int
}

// WriteFrame writes one VTU frame per physical group of volume elements and
// appends the frame to each group's PVD collection.
func (w *Writer) WriteFrame(m *mesh.Mesh, sol *dgsolver.Solution, tidx int, time float64) {
	if w.pvd == nil {
		w.pvd = map[int]*bytes.Buffer{}
	}
	if err := os.MkdirAll(filepath.Join(w.Dirout, "vtu"), 0755); err != nil {
		chk.Panic("view: cannot create output directory: %v", err)
	}
	groups := map[int]bool{}
	for _, elems := range m.Elements {
		for _, e := range elems {
			groups[e.GmshPhysicalIndex] = true
		}
	}
	sorted := make([]int, 0, len(groups))
	for g := range groups {
		sorted = append(sorted, g)
	}
	sort.Ints(sorted)
	for _, g := range sorted {
		w.writeGroupFrame(m, sol, g, tidx, time)
	}
}

// Close finishes and writes every group's PVD collection file.
func (w *Writer) Close() {
	for g, buf := range w.pvd {
		io.Ff(buf, "</Collection>\n</VTKFile>")
		io.WriteFileV(io.Sf("%s/vtu/%s_group%d.pvd", w.Dirout, w.Prefix, g), buf)
	}
}

func (w *Writer) writeGroupFrame(m *mesh.Mesh, sol *dgsolver.Solution, group, tidx int, time float64) {
	fields := w.fieldsFor(group)
	dim := w.Layout.Dim

	// accumulate nodal values over every element of the group
	nodes := map[int]*nodeValues{}
	var cells []groupCell
	for s, elems := range m.Elements {
		tbl := basis.Get(s, w.Order)
		nb := shape.Get(s).NbasicNodes
		for i, e := range elems {
			if e.GmshPhysicalIndex != group {
				continue
			}
			st := sol.States[s][i]
			cells = append(cells, groupCell{shape: s, tags: e.NodeTag[:nb]})
			for k := 0; k < nb; k++ {
				nt := e.NodeTag[k]
				nv, ok := nodes[nt]
				if !ok {
					nv = &nodeValues{coord: e.NodeCoordinate[k], sum: map[string][]float64{}}
					nodes[nt] = nv
				}
				w.accumulate(nv, fields, st, tbl, k, dim)
				nv.count++
			}
		}
	}
	if len(cells) == 0 {
		return
	}

	tags := make([]int, 0, len(nodes))
	for nt := range nodes {
		tags = append(tags, nt)
	}
	sort.Ints(tags)
	local := map[int]int{}
	for i, nt := range tags {
		local[nt] = i
	}

	var geo, dat bytes.Buffer
	w.topology(&geo, tags, nodes, cells, local, dim)

	io.Ff(&dat, "<PointData Scalars=\"TheScalars\">\n")
	for _, name := range fields {
		ncomp := fieldComponents(name, dim)
		io.Ff(&dat, "<DataArray type=\"Float64\" Name=\"%s\" NumberOfComponents=\"%d\" format=\"ascii\">\n", name, ncomp)
		for _, nt := range tags {
			nv := nodes[nt]
			vals := nv.sum[name]
			for c := 0; c < ncomp; c++ {
				v := 0.0
				if c < len(vals) && nv.count > 0 {
					v = vals[c] / float64(nv.count)
				}
				io.Ff(&dat, "%23.15e ", v)
			}
		}
		io.Ff(&dat, "\n</DataArray>\n")
	}
	io.Ff(&dat, "</PointData>\n")

	var hdr, foo bytes.Buffer
	io.Ff(&hdr, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
	io.Ff(&hdr, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", len(tags), len(cells))
	io.Ff(&foo, "</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")
	io.WriteFile(io.Sf("%s/vtu/%s_%06d_group%d.vtu", w.Dirout, w.Prefix, tidx, group), &hdr, &geo, &dat, &foo)

	pvd, ok := w.pvd[group]
	if !ok {
		pvd = new(bytes.Buffer)
		io.Ff(pvd, "<?xml version=\"1.0\"?>\n<VTKFile type=\"Collection\" version=\"0.1\" byte_order=\"LittleEndian\">\n<Collection>\n")
		w.pvd[group] = pvd
	}
	io.Ff(pvd, "<DataSet timestep=\"%23.15e\" file=\"%s_%06d_group%d.vtu\" />\n", time, w.Prefix, tidx, group)
}

// groupCell is one output cell: a volume element's linear (vertex) footprint.
type groupCell struct {
	shape shape.Tag
	tags  []int
}

func (w *Writer) topology(buf *bytes.Buffer, tags []int, nodes map[int]*nodeValues, cells []groupCell, local map[int]int, dim int) {
	io.Ff(buf, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, nt := range tags {
		c := nodes[nt].coord
		var z float64
		if dim == 3 {
			z = c[2]
		}
		y := 0.0
		if dim >= 2 {
			y = c[1]
		}
		io.Ff(buf, "%23.15e %23.15e %23.15e ", c[0], y, z)
	}
	io.Ff(buf, "\n</DataArray>\n</Points>\n")

	io.Ff(buf, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for _, cl := range cells {
		for _, nt := range cl.tags {
			io.Ff(buf, "%d ", local[nt])
		}
	}
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	offset := 0
	for _, cl := range cells {
		offset += len(cl.tags)
		io.Ff(buf, "%d ", offset)
	}
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for _, cl := range cells {
		io.Ff(buf, "%d ", cl.shape.VTKCode())
	}
	io.Ff(buf, "\n</DataArray>\n</Cells>\n")
}

// accumulate adds element st's vertex-k field values into nv.
func (w *Writer) accumulate(nv *nodeValues, fields []string, st *dgsolver.ElementState, tbl *basis.Tables, k, dim int) {
	nc := w.Layout.Nc()
	u := make([]float64, nc)
	phiRow := tbl.VertexPhi[k]
	for c := 0; c < nc; c++ {
		v := 0.0
		for b, phi := range phiRow {
			v += st.U[c][b] * phi
		}
		u[c] = v
	}
	s := flux.StateFromConserved(w.Model, w.Layout, u)

	// primitive gradient at the vertex, when the run carries one
	var dp [][]float64
	if st.G != nil {
		du := make([][]float64, dim)
		for d := 0; d < dim; d++ {
			du[d] = make([]float64, nc)
			for c := 0; c < nc; c++ {
				g := 0.0
				for b, phi := range phiRow {
					g += st.G[d][c][b] * phi
				}
				if st.HGlobal != nil {
					for b, phi := range phiRow {
						g += st.HGlobal[d][c][b] * phi
					}
				}
				du[d][c] = g
			}
		}
		dp = field.ConservedGradientToPrimitiveGradientVec(w.Model, w.Layout, u, du)
	}

	add := func(name string, vals ...float64) {
		dst := nv.sum[name]
		if dst == nil {
			dst = make([]float64, len(vals))
			nv.sum[name] = dst
		}
		for i, v := range vals {
			dst[i] += v
		}
	}

	for _, name := range fields {
		switch name {
		case "density":
			add(name, s.Rho)
		case "velocity":
			v := []float64{0, 0, 0}
			copy(v, s.V)
			add(name, v...)
		case "temperature":
			add(name, w.Model.Temperature(s.E))
		case "pressure":
			add(name, s.P)
		case "soundspeed":
			add(name, s.C)
		case "mach":
			sp := 0.0
			for _, v := range s.V {
				sp += v * v
			}
			add(name, math.Sqrt(sp)/s.C)
		case "entropy":
			add(name, s.P/math.Pow(s.Rho, phys.Gamma))
		case "vorticity":
			if dp == nil {
				add(name, make([]float64, fieldComponents(name, dim))...)
				break
			}
			if dim == 3 {
				add(name,
					dp[1][w.Layout.VelRow(2)]-dp[2][w.Layout.VelRow(1)],
					dp[2][w.Layout.VelRow(0)]-dp[0][w.Layout.VelRow(2)],
					dp[0][w.Layout.VelRow(1)]-dp[1][w.Layout.VelRow(0)])
			} else if dim == 2 {
				add(name, dp[0][w.Layout.VelRow(1)]-dp[1][w.Layout.VelRow(0)])
			} else {
				add(name, 0)
			}
		case "heatflux":
			q := []float64{0, 0, 0}
			if dp != nil {
				mu := w.Model.Viscosity(w.Model.Temperature(s.E))
				cond := w.Model.Conductivity(mu)
				for d := 0; d < dim; d++ {
					q[d] = -cond * dp[d][w.Layout.TRow()]
				}
			}
			add(name, q...)
		case "artificialviscosity":
			av := 0.0
			if st.AVNode != nil && k < len(st.AVNode) {
				av = st.AVNode[k]
			}
			add(name, av)
		}
	}
}
