// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
)

func compressibleModel() phys.Model {
	var m phys.Model
	m.Init(fun.Params{&fun.P{N: "kind", V: 0}, &fun.P{N: "Cv", V: 2.5}})
	return m
}

func Test_conv01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conv01. conserved <-> computational round trip")

	m := compressibleModel()
	l := Layout{Dim: 2, Kind: phys.Compressible}
	c := NewBatch(l, l.Nc(), 1)
	c.Data[0][0] = 1.2  // rho
	c.Data[1][0] = 0.6  // rho u
	c.Data[2][0] = -0.3 // rho v
	c.Data[3][0] = 3.1  // rho E

	k := NewBatch(l, l.Nk(), 1)
	ConservedToComputational(m, l, c, 0, k)
	chk.Scalar(tst, "u", 1e-15, k.Data[l.VelRow(0)][0], 0.5)
	chk.Scalar(tst, "v", 1e-15, k.Data[l.VelRow(1)][0], -0.25)

	c2 := NewBatch(l, l.Nc(), 1)
	ComputationalToConserved(m, l, k, 0, c2)
	for r := 0; r < l.Nc(); r++ {
		chk.Scalar(tst, "conserved round trip", 1e-14, c2.Data[r][0], c.Data[r][0])
	}
}

func Test_conv02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conv02. primitive <-> computational round trip")

	m := compressibleModel()
	l := Layout{Dim: 2, Kind: phys.Compressible}
	k := NewBatch(l, l.Nk(), 1)
	k.Data[0][0] = 0.9
	k.Data[l.VelRow(0)][0] = 1.5
	k.Data[l.VelRow(1)][0] = -0.5
	k.Data[l.ERow()][0] = 2.0
	k.Data[l.PRow()][0] = m.Pressure(0.9, 2.0)

	p := NewBatch(l, l.Np(), 1)
	ComputationalToPrimitive(m, l, k, 0, p)
	chk.Scalar(tst, "T", 1e-15, p.Data[l.TRow()][0], 2.0/2.5)

	k2 := NewBatch(l, l.Nk(), 1)
	PrimitiveToComputational(m, l, p, 0, k2)
	for r := 0; r < l.Nk(); r++ {
		chk.Scalar(tst, "computational round trip", 1e-14, k2.Data[r][0], k.Data[r][0])
	}
}

func Test_conv03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conv03. weakly-compressible conversions")

	var m phys.Model
	m.Init(fun.Params{
		&fun.P{N: "kind", V: 1},
		&fun.P{N: "C0", V: 10},
		&fun.P{N: "Rho0", V: 1},
		&fun.P{N: "Cv", V: 1},
	})
	l := Layout{Dim: 1, Kind: phys.WeaklyCompressible}
	c := NewBatch(l, l.Nc(), 1)
	c.Data[0][0] = 1.05
	c.Data[1][0] = 0.21
	c.Data[2][0] = 2.1 // rho e

	k := NewBatch(l, l.Nk(), 1)
	ConservedToComputational(m, l, c, 0, k)
	chk.Scalar(tst, "e", 1e-14, k.Data[l.ERow()][0], 2.0)

	c2 := NewBatch(l, l.Nc(), 1)
	ComputationalToConserved(m, l, k, 0, c2)
	for r := 0; r < l.Nc(); r++ {
		chk.Scalar(tst, "round trip", 1e-14, c2.Data[r][0], c.Data[r][0])
	}
}

func Test_grad01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grad01. gradient chain rule against finite differences")

	m := compressibleModel()
	l := Layout{Dim: 2, Kind: phys.Compressible}
	u := []float64{1.2, 0.6, -0.3, 3.1}
	du := [][]float64{
		{0.1, -0.2, 0.05, 0.4},
		{-0.3, 0.15, 0.2, -0.1},
	}

	dp := ConservedGradientToPrimitiveGradientVec(m, l, u, du)

	// primitive variables from a conserved vector
	prim := func(u []float64) []float64 {
		rho := u[0]
		vx, vy := u[1]/rho, u[2]/rho
		e := u[3]/rho - 0.5*(vx*vx+vy*vy)
		return []float64{rho, vx, vy, e / 2.5}
	}

	h := 1e-7
	for dir := 0; dir < 2; dir++ {
		up := make([]float64, 4)
		um := make([]float64, 4)
		for c := 0; c < 4; c++ {
			up[c] = u[c] + h*du[dir][c]
			um[c] = u[c] - h*du[dir][c]
		}
		pp, pm := prim(up), prim(um)
		for r := 0; r < l.Np(); r++ {
			chk.Scalar(tst, "chain rule", 1e-6, dp[dir][r], (pp[r]-pm[r])/(2*h))
		}
	}
}

func Test_grad02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grad02. batch gradient conversion matches the vector form")

	m := compressibleModel()
	l := Layout{Dim: 2, Kind: phys.Compressible}
	u := []float64{1.2, 0.6, -0.3, 3.1}
	du := [][]float64{
		{0.1, -0.2, 0.05, 0.4},
		{-0.3, 0.15, 0.2, -0.1},
	}

	c := NewBatch(l, l.Nc(), 1)
	for r := 0; r < 4; r++ {
		c.Data[r][0] = u[r]
	}
	dpBatch := [][]float64{make([]float64, l.Np()), make([]float64, l.Np())}
	ConservedGradientToPrimitiveGradient(m, l, c, 0, du, dpBatch)

	dpVec := ConservedGradientToPrimitiveGradientVec(m, l, u, du)
	for dir := 0; dir < 2; dir++ {
		chk.Vector(tst, "forms agree", 1e-14, dpBatch[dir], dpVec[dir])
	}
}
