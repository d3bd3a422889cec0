// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ckpt implements the raw-binary, Zstd-compressed checkpoint
// format: the full modal-coefficient state of a run,
// read back for restarts, initial conditions and the view postprocessing
// path. It also implements the asynchronous checkpoint-write pipeline
// (enqueue-then-join) as dgsolver.Checkpointer.
package ckpt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/klauspost/compress/zstd"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/dgsolver"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

// Serialize encodes the uncompressed payload of the checkpoint layout:
// every volume element's modal coefficients (and, if viscous, its gradient
// tensor), every boundary adjacency's parent-element reconstruction block,
// and the per-node artificial-viscosity vector.
func Serialize(m *mesh.Mesh, sol *dgsolver.Solution, p, dim int, viscous bool) []byte {
	var buf bytes.Buffer

	writeElementBlocks := func(s shape.Tag) {
		states := sol.States[s]
		for _, st := range states {
			writeMatrixColumnMajor(&buf, st.U)
			if viscous {
				writeGradientBlock(&buf, st, dim)
			}
		}
	}
	for _, s := range shape.VolumeShapes {
		if _, ok := m.Elements[s]; ok {
			writeElementBlocks(s)
		}
	}

	for _, a := range shape.BoundaryShapeOrder {
		for _, adj := range m.BoundaryAdjacencies(a) {
			ls := adj.ParentGmshType[0]
			li := adj.ParentIndexEachType[0]
			st := sol.States[ls][li]
			writeMatrixColumnMajor(&buf, st.U)
			if viscous {
				writeGradientBlock(&buf, st, dim)
			}
		}
	}

	nodes := m.NodeTags()
	nodeMax := map[int]float64{}
	for s, elems := range m.Elements {
		nb := shape.Get(s).NbasicNodes
		states := sol.States[s]
		for i, e := range elems {
			st := states[i]
			if st.AVNode == nil {
				continue
			}
			for k := 0; k < nb; k++ {
				if st.AVNode[k] > nodeMax[e.NodeTag[k]] {
					nodeMax[e.NodeTag[k]] = st.AVNode[k]
				}
			}
		}
	}
	avVec := make([]float64, len(nodes))
	for i, nt := range nodes {
		avVec[i] = nodeMax[nt]
	}
	writeFloat64Slice(&buf, avVec)

	return buf.Bytes()
}

// writeMatrixColumnMajor writes a Nc x Nb matrix in column-major order:
// all Nc entries of basis index 0, then all Nc entries of basis index 1,
// and so on.
func writeMatrixColumnMajor(buf *bytes.Buffer, u [][]float64) {
	if len(u) == 0 {
		return
	}
	nb := len(u[0])
	for b := 0; b < nb; b++ {
		for c := range u {
			binary.Write(buf, binary.LittleEndian, u[c][b])
		}
	}
}

// writeGradientBlock writes the d*Nc x Nb gradient block, rows blocked by
// variable then dimension: row index c*dim+d.
func writeGradientBlock(buf *bytes.Buffer, st *dgsolver.ElementState, dim int) {
	nc := len(st.U)
	combined := make([][]float64, nc*dim)
	for d := 0; d < dim; d++ {
		grad := st.G[d]
		if st.HGlobal != nil {
			grad = sumMatrices(grad, st.HGlobal[d])
		} else if st.HFaces != nil {
			grad = sumFaceLiftedMatrices(grad, st.HFaces, d)
		}
		for c := 0; c < nc; c++ {
			combined[c*dim+d] = grad[c]
		}
	}
	writeMatrixColumnMajor(buf, combined)
}

func sumMatrices(a, b [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for c := range a {
		row := make([]float64, len(a[c]))
		for b2 := range row {
			row[b2] = a[c][b2] + b[c][b2]
		}
		out[c] = row
	}
	return out
}

// sumFaceLiftedMatrices totals a BR2 element's per-face H lift for direction
// d into one Nc x Nb matrix on top of its volume gradient G, matching the
// accumulation ComputeAuxiliaryGradients performs for the genuine viscous
// interface flux.
func sumFaceLiftedMatrices(g [][]float64, hFaces [][][]float64, d int) [][]float64 {
	out := make([][]float64, len(g))
	for c := range g {
		row := make([]float64, len(g[c]))
		copy(row, g[c])
		out[c] = row
	}
	for _, face := range hFaces {
		h := face[d]
		for c := range h {
			for b := range h[c] {
				out[c][b] += h[c][b]
			}
		}
	}
	return out
}

func writeFloat64Slice(buf *bytes.Buffer, v []float64) {
	for _, x := range v {
		binary.Write(buf, binary.LittleEndian, x)
	}
}

// Write compresses payload with Zstd and writes it to path, prefixed by an
// 8-byte little-endian uncompressed-size header.
func Write(path string, payload []byte) error {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return chk.Err("ckpt: cannot create zstd encoder: %v", err)
	}
	defer enc.Close()
	compressed := enc.EncodeAll(payload, nil)

	var header [8]byte
	binary.LittleEndian.PutUint64(header[:], uint64(len(payload)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return chk.Err("ckpt: cannot create output directory for %q: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return chk.Err("ckpt: cannot create checkpoint file %q: %v", path, err)
	}
	defer f.Close()
	if _, err := f.Write(header[:]); err != nil {
		return chk.Err("ckpt: cannot write checkpoint header %q: %v", path, err)
	}
	if _, err := f.Write(compressed); err != nil {
		return chk.Err("ckpt: cannot write checkpoint payload %q: %v", path, err)
	}
	return nil
}

// Read reads and decompresses a checkpoint file, validating its header
// against the actual decompressed size").
func Read(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("ckpt: cannot read checkpoint file %q: %v", path, err)
	}
	if len(raw) < 8 {
		return nil, chk.Err("ckpt: checkpoint file %q is too short for a header", path)
	}
	size := binary.LittleEndian.Uint64(raw[:8])

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, chk.Err("ckpt: cannot create zstd decoder: %v", err)
	}
	defer dec.Close()
	payload, err := dec.DecodeAll(raw[8:], make([]byte, 0, size))
	if err != nil {
		return nil, chk.Err("ckpt: cannot decompress checkpoint file %q: %v", path, err)
	}
	if uint64(len(payload)) != size {
		return nil, chk.Err("ckpt: checkpoint file %q size mismatch: header says %d, decompressed %d", path, size, len(payload))
	}
	return payload, nil
}

// RawPath builds the raw checkpoint file path of <outdir>/raw/<prefix>_<iter>.zst.
func RawPath(outdir, prefix string, iter int) string {
	return filepath.Join(outdir, "raw", fmt.Sprintf("%s_%d.zst", prefix, iter))
}

// AsyncWriter implements dgsolver.Checkpointer: Enqueue serializes the
// solution synchronously, then hands the compress-and-write to a background
// goroutine; Join waits for the most recently enqueued write.
type AsyncWriter struct {
	Outdir  string
	Prefix  string
	P, Dim  int
	Viscous bool

	mu   sync.Mutex
	done chan error
}

// Enqueue serializes the current solution and starts an asynchronous
// compress-and-write. The caller must Join before mutating sol again if it
// needs the write to have observed a consistent snapshot; RunLoop already
// does so by joining before every subsequent Enqueue.
func (w *AsyncWriter) Enqueue(iter int, m *mesh.Mesh, sol *dgsolver.Solution) {
	payload := Serialize(m, sol, w.P, w.Dim, w.Viscous)
	path := RawPath(w.Outdir, w.Prefix, iter)

	w.mu.Lock()
	defer w.mu.Unlock()
	done := make(chan error, 1)
	w.done = done
	go func() {
		done <- Write(path, payload)
	}()
}

// Join blocks until the most recently enqueued write completes. A
// checkpoint write failing mid-run is not something the solver can recover
// from, so the failure panics.
func (w *AsyncWriter) Join() {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done == nil {
		return
	}
	if err := <-done; err != nil {
		chk.Panic("ckpt: checkpoint write failed: %v", err)
	}
}

// nbForOrder returns the modal basis count for shape s at order p, used by
// the order-(p-1) IC embedding below.
func nbForOrder(s shape.Tag, p int) int {
	return basis.Get(s, p).Nb
}

// EmbedLowerOrder zero-pads a lower-order (p-1) modal coefficient matrix
// (Nc x NbLow) into the higher-order basis (Nc x NbHigh), for a
// polynomial-order upgrade of an initial-condition checkpoint. The basis
// tables order modal indices by level, so a lower-order index set is a
// prefix of every higher order's and the embedding is a straight row-wise
// zero-extension.
func EmbedLowerOrder(s shape.Tag, low [][]float64, pHigh int) [][]float64 {
	nbHigh := nbForOrder(s, pHigh)
	out := make([][]float64, len(low))
	for c, row := range low {
		newRow := make([]float64, nbHigh)
		copy(newRow, row)
		out[c] = newRow
	}
	return out
}
