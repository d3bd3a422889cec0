// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phys

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

func Test_model01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("model01. compressible ideal gas")

	var m Model
	m.Init(fun.Params{
		&fun.P{N: "kind", V: 0},
		&fun.P{N: "Cv", V: 2.5},
		&fun.P{N: "Mu0", V: 1e-3},
	})

	rho, e := 1.2, 2.0
	p := m.Pressure(rho, e)
	chk.Scalar(tst, "p", 1e-15, p, (Gamma-1)*rho*e)
	chk.Scalar(tst, "c", 1e-14, m.SoundSpeed(rho, p), math.Sqrt(Gamma*p/rho))
	chk.Scalar(tst, "T", 1e-15, m.Temperature(e), e/2.5)
	chk.Scalar(tst, "e(T)", 1e-15, m.InternalEnergy(m.Temperature(e)), e)
	chk.Scalar(tst, "cp", 1e-15, m.Cp(), Gamma*2.5)
}

func Test_model02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("model02. weakly-compressible EOS")

	var m Model
	m.Init(fun.Params{
		&fun.P{N: "kind", V: 1},
		&fun.P{N: "C0", V: 10},
		&fun.P{N: "Rho0", V: 1},
	})

	chk.Scalar(tst, "p0", 1e-15, m.P0, 0.01*1*100)
	chk.Scalar(tst, "p(rho0)", 1e-15, m.Pressure(1, 0.3), m.P0)
	chk.Scalar(tst, "p(1.1)", 1e-13, m.Pressure(1.1, 0.3), 100*0.1+m.P0)
	chk.Scalar(tst, "c", 1e-15, m.SoundSpeed(5, 77), 10)
	chk.Scalar(tst, "p from rho", 1e-13, m.PressureFromDensity(1.1), m.Pressure(1.1, 0))
}

func Test_transport01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("transport01. viscosity and conductivity")

	var m Model
	m.Init(fun.Params{
		&fun.P{N: "Cv", V: 717.5},
		&fun.P{N: "Mu0", V: 1.716e-5},
	})

	// constant-viscosity model ignores temperature
	chk.Scalar(tst, "mu cte", 1e-20, m.Viscosity(0.5), 1.716e-5)
	chk.Scalar(tst, "k", 1e-15, m.Conductivity(1.716e-5), m.Cp()*1.716e-5/0.71)

	// Sutherland's law returns the reference viscosity at T = 1
	m.Sutherland = true
	chk.Scalar(tst, "mu sutherland at T=1", 1e-18, m.Viscosity(1), 1.716e-5)

	// and grows with temperature in the gas regime
	if m.Viscosity(2) <= m.Viscosity(1) {
		tst.Errorf("Sutherland viscosity must grow with temperature\n")
	}
}

func Test_prms01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("prms01. parameter round trip")

	var m Model
	m.Init(m.GetPrms(true))
	chk.Scalar(tst, "Cv", 1e-15, m.Cv, 717.5)
	if !m.Sutherland {
		tst.Errorf("example parameters must enable Sutherland\n")
	}

	var m2 Model
	m2.Init(m.GetPrms(false))
	chk.Scalar(tst, "Cv round trip", 1e-15, m2.Cv, m.Cv)
	chk.Scalar(tst, "Mu0 round trip", 1e-20, m2.Mu0, m.Mu0)
}
