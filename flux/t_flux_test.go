// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flux

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/field"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
)

func gasModel() phys.Model {
	var m phys.Model
	m.Init(fun.Params{&fun.P{N: "kind", V: 0}, &fun.P{N: "Cv", V: 2.5}})
	return m
}

func waterModel() phys.Model {
	var m phys.Model
	m.Init(fun.Params{
		&fun.P{N: "kind", V: 1},
		&fun.P{N: "C0", V: 10},
		&fun.P{N: "Rho0", V: 1},
	})
	return m
}

func stateOf(m phys.Model, rho float64, v []float64, e float64) State {
	s := State{Rho: rho, V: v, E: e}
	s.P = m.Pressure(rho, e)
	s.C = m.SoundSpeed(rho, s.P)
	return s
}

func Test_raw01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("raw01. convective raw flux rows")

	m := gasModel()
	l := field.Layout{Dim: 2, Kind: phys.Compressible}
	s := stateOf(m, 1.2, []float64{0.5, -0.25}, 2.0)

	F := ConvectiveRawFlux(m, l, s)
	chk.Scalar(tst, "mass x", 1e-14, F[0][0], 1.2*0.5)
	chk.Scalar(tst, "mass y", 1e-14, F[1][0], 1.2*(-0.25))
	chk.Scalar(tst, "mom xx", 1e-14, F[0][1], 1.2*0.5*0.5+s.P)
	chk.Scalar(tst, "mom xy", 1e-14, F[0][2], 1.2*0.5*(-0.25))
	rhoE := 1.2 * (2.0 + 0.5*(0.5*0.5+0.25*0.25))
	chk.Scalar(tst, "energy x", 1e-14, F[0][3], (rhoE+s.P)*0.5)
}

func Test_consistency01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("consistency01. equal states reduce to the raw normal flux")

	m := gasModel()
	l := field.Layout{Dim: 2, Kind: phys.Compressible}
	s := stateOf(m, 1.2, []float64{0.5, -0.25}, 2.0)
	n := []float64{3.0 / 5.0, 4.0 / 5.0}
	raw := NormalFlux(ConvectiveRawFlux(m, l, s), n)

	for _, scheme := range []Scheme{Central, LaxFriedrichs, HLLC, Roe} {
		f := InterfaceFlux(m, l, scheme, s, s, n)
		chk.Vector(tst, "consistency", 1e-12, f, raw)
	}

	mw := waterModel()
	lw := field.Layout{Dim: 2, Kind: phys.WeaklyCompressible}
	sw := stateOf(mw, 1.05, []float64{0.5, -0.25}, 2.0)
	raww := NormalFlux(ConvectiveRawFlux(mw, lw, sw), n)
	f := InterfaceFlux(mw, lw, ExactAcoustic, sw, sw, n)
	chk.Vector(tst, "exact acoustic consistency", 1e-12, f, raww)
}

func Test_conservation01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("conservation01. F(L,R,n) = -F(R,L,-n)")

	m := gasModel()
	l := field.Layout{Dim: 2, Kind: phys.Compressible}
	left := stateOf(m, 1.2, []float64{0.5, -0.25}, 2.0)
	right := stateOf(m, 0.9, []float64{-0.1, 0.35}, 2.4)
	n := []float64{3.0 / 5.0, 4.0 / 5.0}
	nn := []float64{-n[0], -n[1]}

	for _, scheme := range []Scheme{Central, LaxFriedrichs, HLLC, Roe} {
		f := InterfaceFlux(m, l, scheme, left, right, n)
		g := InterfaceFlux(m, l, scheme, right, left, nn)
		for c := range f {
			chk.Scalar(tst, "antisymmetry", 1e-12, f[c], -g[c])
		}
	}
}

func Test_upwind01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("upwind01. supersonic advection picks the upwind flux")

	m := gasModel()
	l := field.Layout{Dim: 1, Kind: phys.Compressible}
	// M = u/c well above 1: every wave travels right
	left := stateOf(m, 1.0, []float64{5.0}, 1.0)
	right := stateOf(m, 0.5, []float64{5.0}, 1.2)
	n := []float64{1}

	raw := NormalFlux(ConvectiveRawFlux(m, l, left), n)
	f := InterfaceFlux(m, l, HLLC, left, right, n)
	chk.Vector(tst, "hllc upwind", 1e-12, f, raw)
}

func Test_viscous01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("viscous01. viscous raw flux from a pure shear gradient")

	m := gasModel()
	l := field.Layout{Dim: 2, Kind: phys.Compressible}
	mu, k := 0.01, 0.02
	v := []float64{1.0, 0}
	// du/dy = 2, everything else zero
	dp := [][]float64{
		make([]float64, l.Np()),
		make([]float64, l.Np()),
	}
	dp[1][l.VelRow(0)] = 2

	F := ViscousRawFlux(m, l, v, mu, k, dp)
	// tau_xy = mu * du/dy
	chk.Scalar(tst, "tau_xy", 1e-15, F[0][2], mu*2)
	chk.Scalar(tst, "tau_yx", 1e-15, F[1][1], mu*2)
	chk.Scalar(tst, "tau_xx", 1e-15, F[0][1], 0)
	chk.Scalar(tst, "mass row", 1e-15, F[0][0], 0)
	// energy row y: tau_yx * u
	chk.Scalar(tst, "work", 1e-15, F[1][3], mu*2*1.0)
}

func Test_viscous02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("viscous02. heat conduction on the energy row")

	m := gasModel()
	l := field.Layout{Dim: 2, Kind: phys.Compressible}
	dp := [][]float64{make([]float64, l.Np()), make([]float64, l.Np())}
	dp[0][l.TRow()] = 3
	F := ViscousRawFlux(m, l, []float64{0, 0}, 0.01, 0.02, dp)
	chk.Scalar(tst, "k dT/dx", 1e-15, F[0][3], 0.02*3)
	chk.Scalar(tst, "no y flux", 1e-15, F[1][3], 0)
}

func Test_gradflux01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gradflux01. gradient face fluxes")

	uL := []float64{1, 2, 3}
	uR := []float64{3, 2, 1}
	n := []float64{0, 1}

	sym := VolumeGradientFlux(uL, uR, n)
	chk.Vector(tst, "sym x", 1e-15, sym[0], []float64{0, 0, 0})
	chk.Vector(tst, "sym y", 1e-15, sym[1], []float64{2, 2, 2})

	jmp := InterfaceGradientFlux(uL, uR, n)
	chk.Vector(tst, "jump y", 1e-15, jmp[1], []float64{1, 0, -1})

	art := ArtificialViscousFlux(0.5, [][]float64{{2, 4}, {6, 8}})
	chk.Vector(tst, "eps scaling", 1e-15, art[0], []float64{1, 2})
	chk.Vector(tst, "eps scaling y", 1e-15, art[1], []float64{3, 4})
}

func Test_acoustic01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("acoustic01. exact acoustic star state")

	m := waterModel()
	l := field.Layout{Dim: 1, Kind: phys.WeaklyCompressible}
	left := stateOf(m, 1.02, []float64{0.3}, 2.0)
	right := stateOf(m, 0.98, []float64{-0.1}, 2.2)
	n := []float64{1}

	// star density from the exact relation
	rhoStar := math.Sqrt(1.02 * 0.98 * math.Exp((0.3-(-0.1))/10))
	vnStar := 0.5*(0.3-0.1) + 0.5*10*math.Log(1.02/0.98)

	f := InterfaceFlux(m, l, ExactAcoustic, left, right, n)
	chk.Scalar(tst, "mass flux", 1e-12, f[0], rhoStar*vnStar)
}
