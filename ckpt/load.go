// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ckpt

import (
	"encoding/binary"
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/dgsolver"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// reader walks a decompressed checkpoint payload, validating length as it
// goes so a truncated file surfaces as a descriptive error rather than a
// slice panic.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) float64() (float64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, chk.Err("ckpt: payload truncated at byte %d", r.pos)
	}
	bits := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// readMatrixColumnMajor fills a Nc x Nb matrix from the payload, inverse of
// writeMatrixColumnMajor.
func (r *reader) readMatrixColumnMajor(dst [][]float64) error {
	if len(dst) == 0 {
		return nil
	}
	nb := len(dst[0])
	for b := 0; b < nb; b++ {
		for c := range dst {
			v, err := r.float64()
			if err != nil {
				return err
			}
			dst[c][b] = v
		}
	}
	return nil
}

// skip advances past n float64 entries without storing them.
func (r *reader) skip(n int) error {
	if r.pos+8*n > len(r.buf) {
		return chk.Err("ckpt: payload truncated at byte %d (skipping %d values)", r.pos, n)
	}
	r.pos += 8 * n
	return nil
}

// Load fills a Solution's modal coefficients (and, for viscous runs, its
// volume-gradient tensor) from a decompressed checkpoint payload written at
// polynomial order pFile. When pFile is lower than the run's order p, each
// element's coefficient matrix is zero-padded into the higher-order basis
// (the modal index sets are nested, so lower-order coefficients occupy a
// prefix of the higher-order rows).
//
// The boundary-adjacency reconstruction blocks duplicate parent-element
// data and are skipped; the per-node artificial-viscosity vector is
// broadcast back onto each containing element.
func Load(m *mesh.Mesh, sol *dgsolver.Solution, payload []byte, p, pFile, dim int, viscous bool) error {
	r := &reader{buf: payload}
	nc := 0
	for _, states := range sol.States {
		if len(states) > 0 {
			nc = len(states[0].U)
			break
		}
	}

	for _, s := range shape.VolumeShapes {
		if _, ok := m.Elements[s]; !ok {
			continue
		}
		nbFile := basis.Get(s, pFile).Nb
		for _, st := range sol.States[s] {
			low := make([][]float64, nc)
			for c := range low {
				low[c] = make([]float64, nbFile)
			}
			if err := r.readMatrixColumnMajor(low); err != nil {
				return err
			}
			u := low
			if pFile < p {
				u = EmbedLowerOrder(s, low, p)
			}
			for c := range u {
				copy(st.U[c], u[c])
			}
			if viscous {
				grad := make([][]float64, nc*dim)
				for i := range grad {
					grad[i] = make([]float64, nbFile)
				}
				if err := r.readMatrixColumnMajor(grad); err != nil {
					return err
				}
				if st.G != nil {
					for d := 0; d < dim; d++ {
						for c := 0; c < nc; c++ {
							row := grad[c*dim+d]
							if pFile < p {
								row = EmbedLowerOrder(s, [][]float64{row}, p)[0]
							}
							copy(st.G[d][c], row)
						}
					}
				}
			}
		}
	}

	// boundary-adjacency reconstruction blocks: parent data already loaded
	for _, a := range shape.BoundaryShapeOrder {
		for _, adj := range m.BoundaryAdjacencies(a) {
			nbFile := basis.Get(adj.ParentGmshType[0], pFile).Nb
			n := nc * nbFile
			if viscous {
				n += dim * nc * nbFile
			}
			if err := r.skip(n); err != nil {
				return err
			}
		}
	}

	nodes := m.NodeTags()
	nodeAV := map[int]float64{}
	for _, nt := range nodes {
		v, err := r.float64()
		if err != nil {
			return err
		}
		nodeAV[nt] = v
	}
	for s, elems := range m.Elements {
		nb := shape.Get(s).NbasicNodes
		for i, e := range elems {
			st := sol.States[s][i]
			if len(st.AVNode) != nb {
				st.AVNode = make([]float64, nb)
			}
			for k := 0; k < nb; k++ {
				st.AVNode[k] = nodeAV[e.NodeTag[k]]
			}
		}
	}

	if r.pos != len(payload) {
		return chk.Err("ckpt: payload size mismatch: consumed %d of %d bytes", r.pos, len(payload))
	}
	return nil
}

// LoadFile reads, decompresses and loads a checkpoint file into sol.
func LoadFile(path string, m *mesh.Mesh, sol *dgsolver.Solution, p, pFile, dim int, viscous bool) error {
	payload, err := Read(path)
	if err != nil {
		return err
	}
	return Load(m, sol, payload, p, pFile, dim, viscous)
}
