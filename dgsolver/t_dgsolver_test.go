// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dgsolver

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/field"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/flux"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
)

func gasModel() phys.Model {
	var m phys.Model
	m.Init(fun.Params{&fun.P{N: "kind", V: 0}, &fun.P{N: "Cv", V: 2.5}})
	return m
}

// lineMesh writes a uniform 1D mesh of n line elements on [0, length],
// optionally closed periodically, and returns its ingested form.
func lineMesh(tst *testing.T, n int, length float64, p int, periodic bool) *mesh.Mesh {
	buf := "{\"dim\":1,\"nodes\":["
	for i := 0; i <= n; i++ {
		if i > 0 {
			buf += ","
		}
		buf += io.Sf("{\"tag\":%d,\"coord\":[%g]}", i+1, float64(i)*length/float64(n))
	}
	buf += "],\"elements\":["
	for i := 0; i < n; i++ {
		if i > 0 {
			buf += ","
		}
		buf += io.Sf("{\"tag\":%d,\"shape\":\"line\",\"nodes\":[%d,%d],\"phys\":5}", i+1, i+1, i+2)
	}
	buf += "]"
	if periodic {
		buf += io.Sf(",\"periodic\":[{\"nodemap\":{\"%d\":1}}]", n+1)
	} else {
		buf += io.Sf(",\"boundaries\":[{\"nodes\":[1],\"phys\":30},{\"nodes\":[%d],\"phys\":31}]", n+1)
	}
	buf += "}"

	path := filepath.Join(tst.TempDir(), "line.json")
	if err := os.WriteFile(path, []byte(buf), 0644); err != nil {
		tst.Fatalf("cannot write mesh file: %v\n", err)
	}
	src, err := mesh.ReadFileSource(path)
	if err != nil {
		tst.Fatalf("cannot read mesh file: %v\n", err)
	}
	m, err := mesh.Ingest(src, src.Shapes(), 1, p)
	if err != nil {
		tst.Fatalf("ingest failed: %v\n", err)
	}
	return m
}

func newSolution(m *mesh.Mesh, nc, dim, p int, gradient, br2 bool) *Solution {
	return NewSolution(m, nc, dim, gradient, br2, func(s shape.Tag) int { return basis.Get(s, p).Nb })
}

func Test_rk01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("rk01. stage coefficients are convex combinations")

	for _, scheme := range []RKScheme{ForwardEuler, Heun, SSPRK3} {
		for _, st := range rkStages(scheme) {
			chk.Scalar(tst, "a+b", 1e-15, st.a+st.b, 1)
			if st.c <= 0 {
				tst.Errorf("stage weight must be positive\n")
			}
		}
	}
	chk.IntAssert(len(rkStages(ForwardEuler)), 1)
	chk.IntAssert(len(rkStages(Heun)), 2)
	chk.IntAssert(len(rkStages(SSPRK3)), 3)
}

func Test_freestream01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("freestream01. constant state is preserved over one RK step")

	p := 2
	m := lineMesh(tst, 4, 2.0, p, true)
	model := gasModel()
	layout := field.Layout{Dim: 1, Kind: phys.Compressible}
	cfg := Config{Model: model, Layout: layout, Scheme: flux.LaxFriedrichs, RK: SSPRK3}

	sol := newSolution(m, layout.Nc(), 1, p, false, false)
	prim := []float64{1.0, 0.3, 0.8}
	InitializeFromFunction(m, sol, p, model, layout, func(coord []float64) []float64 { return prim })

	// snapshot
	before := map[int][][]float64{}
	for i, st := range sol.States[shape.Line] {
		cp := make([][]float64, len(st.U))
		for c := range st.U {
			cp[c] = append([]float64{}, st.U[c]...)
		}
		before[i] = cp
	}

	Step(m, sol, p, 1, cfg, 1e-3, 0)

	for i, st := range sol.States[shape.Line] {
		for c := range st.U {
			chk.Vector(tst, "freestream preserved", 1e-12, st.U[c], before[i][c])
		}
		for c := range st.R {
			for _, r := range st.R[c] {
				if math.Abs(r) > 1e-12 {
					tst.Errorf("freestream residual not machine zero: %g\n", r)
					return
				}
			}
		}
	}
}

func Test_conservation01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conservation01. periodic advection conserves total mass")

	p := 2
	m := lineMesh(tst, 8, 2.0, p, true)
	model := gasModel()
	layout := field.Layout{Dim: 1, Kind: phys.Compressible}
	cfg := Config{Model: model, Layout: layout, Scheme: flux.LaxFriedrichs, RK: SSPRK3}

	sol := newSolution(m, layout.Nc(), 1, p, false, false)
	InitializeFromFunction(m, sol, p, model, layout, func(coord []float64) []float64 {
		rho := 1 + 0.2*math.Sin(math.Pi*coord[0])
		return []float64{rho, 1.0, 1.4 / ((phys.Gamma - 1) * rho * 2.5)}
	})

	mass := func() float64 {
		tbl := basis.Get(shape.Line, p)
		total := 0.0
		for i, e := range m.Elements[shape.Line] {
			st := sol.States[shape.Line][i]
			for j, phi := range tbl.Phi {
				rho := 0.0
				for b, ph := range phi {
					rho += st.U[0][b] * ph
				}
				total += e.JacobianDetWeight[j] * rho
			}
		}
		return total
	}

	m0 := mass()
	u0 := sol.States[shape.Line][0].U[0][0]
	for iter := 0; iter < 5; iter++ {
		Step(m, sol, p, 1, cfg, 1e-3, 0)
	}
	chk.Scalar(tst, "mass conserved", 1e-12, mass(), m0)

	if sol.States[shape.Line][0].U[0][0] == u0 {
		tst.Errorf("solution did not advect\n")
	}
}

func Test_gradient01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gradient01. auxiliary gradient of a linear field is exact")

	p := 2
	m := lineMesh(tst, 3, 2.0, p, false)
	model := gasModel()
	layout := field.Layout{Dim: 1, Kind: phys.Compressible}
	nc := layout.Nc()

	ic := func(coord []float64) []float64 {
		return []float64{1 + 0.1*coord[0], 0.3, 0.8}
	}
	conservedAt := func(x float64) []float64 {
		prim := ic([]float64{x})
		s := flux.State{Rho: prim[0], V: []float64{prim[1]}, E: model.InternalEnergy(prim[2])}
		return flux.ConservedFromState(model, layout, s)
	}

	sol := newSolution(m, nc, 1, p, true, false)
	InitializeFromFunction(m, sol, p, model, layout, ic)

	boundary := func(adj *mesh.Adjacency, j int) (bv, jump []float64) {
		return conservedAt(adj.QuadratureNodeCoordinate[j][0]), nil
	}
	ComputeAuxiliaryGradients(m, sol, p, 1, nc, false, boundary)

	// d(rho)/dx = 0.1 and H vanishes for a continuous field
	h := 1e-6
	tbl := basis.Get(shape.Line, p)
	for i, e := range m.Elements[shape.Line] {
		st := sol.States[shape.Line][i]
		for j, phi := range tbl.Phi {
			g := 0.0
			hh := 0.0
			for b, ph := range phi {
				g += st.G[0][0][b] * ph
				hh += st.HGlobal[0][0][b] * ph
			}
			x := e.QuadratureNodeCoordinate[j][0]
			du := (conservedAt(x + h)[0] - conservedAt(x - h)[0]) / (2 * h)
			chk.Scalar(tst, "d rho/dx", 1e-9, g, du)
			chk.Scalar(tst, "no lifting jump", 1e-10, hh, 0)
		}
	}
}

func Test_gradient02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gradient02. constant field has zero gradient (BR2)")

	p := 2
	m := lineMesh(tst, 4, 2.0, p, true)
	model := gasModel()
	layout := field.Layout{Dim: 1, Kind: phys.Compressible}
	nc := layout.Nc()

	sol := newSolution(m, nc, 1, p, true, true)
	InitializeFromFunction(m, sol, p, model, layout, func(coord []float64) []float64 {
		return []float64{1.0, 0.3, 0.8}
	})
	ComputeAuxiliaryGradients(m, sol, p, 1, nc, true, nil)

	for _, st := range sol.States[shape.Line] {
		for c := 0; c < nc; c++ {
			for b := 0; b < basis.Get(shape.Line, p).Nb; b++ {
				chk.Scalar(tst, "G", 1e-11, st.G[0][c][b], 0)
				for k := range st.HFaces {
					chk.Scalar(tst, "H", 1e-11, st.HFaces[k][0][c][b], 0)
				}
			}
		}
	}
}

func Test_dt01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dt01. CFL time-step selection")

	p := 1
	m := lineMesh(tst, 2, 1.0, p, true)
	model := gasModel()
	layout := field.Layout{Dim: 1, Kind: phys.Compressible}
	cfg := Config{Model: model, Layout: layout}

	sol := newSolution(m, layout.Nc(), 1, p, false, false)
	prim := []float64{1.0, 0.5, 0.8}
	InitializeFromFunction(m, sol, p, model, layout, func(coord []float64) []float64 { return prim })

	// fixed dt wins
	chk.Scalar(tst, "fixed dt", 1e-15, ComputeDt(m, sol, p, cfg, 0.1, 1e-4), 1e-4)

	// CFL estimate: h = 0.5, |v| + c uniform
	e := model.InternalEnergy(0.8)
	pr := model.Pressure(1.0, e)
	c := model.SoundSpeed(1.0, pr)
	correct := 0.1 * 0.5 / ((0.5 + c) * 4)
	chk.Scalar(tst, "cfl dt", 1e-12, ComputeDt(m, sol, p, cfg, 0.1, 0), correct)
}

func Test_shock01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shock01. artificial-viscosity ramp")

	prm := ShockParams{Epsilon0: 1, Alpha: 1}
	s0 := thresholdS0(2)

	chk.Scalar(tst, "smooth", 1e-15, ElementArtificialViscosity(prm, s0-2, 0.3, 2), 0)
	chk.Scalar(tst, "shocked", 1e-15, ElementArtificialViscosity(prm, s0+2, 0.3, 2), 0.3/3.0)

	mid := ElementArtificialViscosity(prm, s0, 0.3, 2)
	chk.Scalar(tst, "ramp midpoint", 1e-14, mid, 0.5*0.3/3.0)

	// the ramp is monotone
	lo := ElementArtificialViscosity(prm, s0-0.5, 0.3, 2)
	hi := ElementArtificialViscosity(prm, s0+0.5, 0.3, 2)
	if !(lo < mid && mid < hi) {
		tst.Errorf("ramp must be monotone: %g %g %g\n", lo, mid, hi)
	}
}

func Test_shock02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shock02. smooth fields trip no indicator, jumps do")

	p := 3
	tbl := basis.Get(shape.Line, p)

	// constant density: all content in the lowest mode
	rho := make([]float64, tbl.Nb)
	rho[0] = 1.4
	sSmooth := ElementShockIndicator(shape.Line, p, rho, tbl)
	if sSmooth > thresholdS0(p)-1 {
		tst.Errorf("constant density flagged as shocked: s=%g\n", sSmooth)
	}

	// all content in the highest mode
	rho = make([]float64, tbl.Nb)
	rho[tbl.Nb-1] = 1.4
	sJump := ElementShockIndicator(shape.Line, p, rho, tbl)
	chk.Scalar(tst, "pure high mode", 1e-12, sJump, 0)
	if sJump < thresholdS0(p) {
		tst.Errorf("pure high-mode density not flagged: s=%g\n", sJump)
	}
}

func Test_shock03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shock03. nodal max-reduction across neighbours")

	p := 1
	m := lineMesh(tst, 2, 1.0, p, false)
	sol := newSolution(m, 3, 1, p, false, false)

	eps := map[shape.Tag][]float64{shape.Line: {0.5, 0.2}}
	BroadcastNodalMax(m, sol, eps)

	st0 := sol.States[shape.Line][0]
	st1 := sol.States[shape.Line][1]
	chk.Vector(tst, "element 0 nodes", 1e-15, st0.AVNode, []float64{0.5, 0.5})
	chk.Vector(tst, "element 1 nodes", 1e-15, st1.AVNode, []float64{0.5, 0.2})
}

func Test_divergence01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("divergence01. NaN residual trips the divergence trap")

	p := 1
	m := lineMesh(tst, 2, 1.0, p, true)
	model := gasModel()
	layout := field.Layout{Dim: 1, Kind: phys.Compressible}
	cfg := Config{Model: model, Layout: layout, Scheme: flux.LaxFriedrichs, RK: ForwardEuler}

	sol := newSolution(m, layout.Nc(), 1, p, false, false)
	for _, st := range sol.States[shape.Line] {
		st.U[0][0] = math.NaN()
	}

	err := RunLoop(m, sol, p, 1, cfg, LoopConfig{IStart: 0, IEnd: 3, FixedDt: 1e-3}, nil)
	var derr *DivergenceError
	if err == nil {
		tst.Errorf("expected a divergence error\n")
		return
	}
	if !errorsAs(err, &derr) {
		tst.Errorf("expected DivergenceError, got %v\n", err)
	}
}

func errorsAs(err error, target **DivergenceError) bool {
	d, ok := err.(*DivergenceError)
	if ok {
		*target = d
	}
	return ok
}

func Test_source01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("source01. Boussinesq buoyancy source")

	model := gasModel()
	layout := field.Layout{Dim: 2, Kind: phys.Compressible}
	src := NewBoussinesqSource(model, layout, []float64{0, -10}, 0.1, 0.5)

	// temperature above the reference pushes upward
	s := flux.State{Rho: 1.0, V: []float64{0.2, 0}, E: model.InternalEnergy(0.7)}
	u := flux.ConservedFromState(model, layout, s)
	out := src([]float64{0, 0}, 0, u)
	chk.Scalar(tst, "mass source", 1e-15, out[0], 0)
	chk.Scalar(tst, "x momentum", 1e-15, out[1], 0)
	chk.Scalar(tst, "buoyancy", 1e-13, out[2], -1.0*0.1*(0.7-0.5)*(-10))
	chk.Scalar(tst, "work", 1e-13, out[3], 0) // vertical velocity is zero
}
