// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

func Test_sod01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sod01. star region of the classic Sod problem")

	var st ShockTube
	st.Init(nil)

	// reference values for the (1,0,1)/(0.125,0,0.1) tube
	chk.Scalar(tst, "p star", 1e-4, st.pStar, 0.30313)
	chk.Scalar(tst, "u star", 1e-4, st.uStar, 0.92745)

	// outer states are untouched far from the fan
	rho, u, p := st.Solution(0.01, 0.1)
	chk.Scalar(tst, "left rho", 1e-15, rho, 1)
	chk.Scalar(tst, "left u", 1e-15, u, 0)
	chk.Scalar(tst, "left p", 1e-15, p, 1)

	rho, u, p = st.Solution(0.99, 0.1)
	chk.Scalar(tst, "right rho", 1e-15, rho, 0.125)
	chk.Scalar(tst, "right p", 1e-15, p, 0.1)
}

func Test_sod02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sod02. solution is continuous across the contact")

	var st ShockTube
	st.Init(nil)

	t := 0.2
	x := st.X0 + st.uStar*t
	h := 1e-9
	_, uL, pL := st.Solution(x-h, t)
	_, uR, pR := st.Solution(x+h, t)
	chk.Scalar(tst, "velocity continuous", 1e-6, uL, uR)
	chk.Scalar(tst, "pressure continuous", 1e-6, pL, pR)
}

func Test_sod03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sod03. initial data reproduced at t=0")

	var st ShockTube
	st.Init(fun.Params{
		&fun.P{N: "rhoL", V: 1}, &fun.P{N: "uL", V: 0.75}, &fun.P{N: "pL", V: 1.4},
		&fun.P{N: "rhoR", V: 0.125}, &fun.P{N: "uR", V: 0}, &fun.P{N: "pR", V: 1.12},
	})
	rho, u, p := st.Solution(0.25, 0)
	chk.Scalar(tst, "rho", 1e-15, rho, 1)
	chk.Scalar(tst, "u", 1e-15, u, 0.75)
	chk.Scalar(tst, "p", 1e-15, p, 1.4)
}

func Test_vortex01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vortex01. isentropic vortex far field and center")

	var v IsentropicVortex
	v.Init(nil)

	// far from the core the freestream is recovered
	rho, u, vv, p := v.Solution(50, 50, 0)
	chk.Scalar(tst, "far rho", 1e-10, rho, 1)
	chk.Scalar(tst, "far u", 1e-10, u, 1)
	chk.Scalar(tst, "far v", 1e-10, vv, 0)
	chk.Scalar(tst, "far p", 1e-10, p, 1)

	// the core advects with the freestream
	rho0, _, _, _ := v.Solution(0, 0, 0)
	rho1, _, _, _ := v.Solution(2, 0, 2)
	chk.Scalar(tst, "advected core", 1e-13, rho1, rho0)

	// isentropic: p / rho^gamma is uniform
	s0 := 1.0 / math.Pow(1.0, v.Gamma)
	rho, _, _, p = v.Solution(0.3, -0.2, 0.7)
	chk.Scalar(tst, "entropy uniform", 1e-12, p/math.Pow(rho, v.Gamma), s0)
}

func Test_kovasznay01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kovasznay01. divergence-free velocity field")

	var k Kovasznay
	k.Init(fun.Params{&fun.P{N: "Re", V: 40}})

	h := 1e-6
	for _, pt := range [][]float64{{0.2, 0.3}, {-0.1, 0.8}, {1.0, -0.4}} {
		up, _, _ := k.Solution(pt[0]+h, pt[1])
		um, _, _ := k.Solution(pt[0]-h, pt[1])
		_, vp, _ := k.Solution(pt[0], pt[1]+h)
		_, vm, _ := k.Solution(pt[0], pt[1]-h)
		div := (up-um)/(2*h) + (vp-vm)/(2*h)
		chk.Scalar(tst, "div v", 1e-7, div, 0)
	}

	// the wake profile at x=0: u = 1 - cos(2 pi y)
	u, _, _ := k.Solution(0, 0.25)
	chk.Scalar(tst, "u(0, 1/4)", 1e-13, u, 1)
	u, _, p := k.Solution(0, 0)
	chk.Scalar(tst, "u(0, 0)", 1e-13, u, 0)
	chk.Scalar(tst, "p(0, 0)", 1e-13, p, 0)
}
