// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package phys implements the thermodynamic, equation-of-state and transport
// sub-models that map among conserved, computational and primitive flow
// variables.
package phys

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Kind selects the governing equation-of-state family.
type Kind int

const (
	Compressible Kind = iota
	WeaklyCompressible
)

func (k Kind) String() string {
	if k == WeaklyCompressible {
		return "weakly-compressible"
	}
	return "compressible"
}

// Gamma is the fixed ratio of specific heats for the compressible ideal-gas
// model.
const Gamma = 1.4

// sutherlandTs is the Sutherland reference temperature, nondimensionalised
// by a 273.15 K freestream reference.
const sutherlandTs = 110.4 / 273.15

// prandtl is the fixed Prandtl number used to derive thermal conductivity
// from dynamic viscosity.
const prandtl = 0.71

// Model holds the immutable thermodynamic and transport parameters for one
// run. It is initialised once via Init and never mutated afterwards: the
// solver call graph carries it by value or as a read-only pointer, never as
// process-wide state.
type Model struct {
	Kind Kind

	// compressible
	Cv float64 // specific heat at constant volume

	// weakly-compressible
	C0   float64 // reference sound speed
	Rho0 float64 // reference density
	P0   float64 // derived: 0.01 * Rho0 * C0^2

	// transport
	Mu0        float64 // constant dynamic viscosity (used when Sutherland is false)
	Sutherland bool
}

// Init initialises the model from named parameters.
func (m *Model) Init(prms fun.Params) {
	for _, p := range prms {
		switch p.N {
		case "kind":
			if p.V > 0 {
				m.Kind = WeaklyCompressible
			} else {
				m.Kind = Compressible
			}
		case "Cv":
			m.Cv = p.V
		case "C0":
			m.C0 = p.V
		case "Rho0":
			m.Rho0 = p.V
		case "Mu0":
			m.Mu0 = p.V
		case "Sutherland":
			m.Sutherland = p.V > 0
		}
	}
	if m.Kind == WeaklyCompressible {
		m.P0 = 0.01 * m.Rho0 * m.C0 * m.C0
	}
}

// GetPrms returns the model's current parameters as a name/value record,
// or a representative example set.
func (m Model) GetPrms(example bool) fun.Params {
	if example {
		return fun.Params{
			&fun.P{N: "kind", V: 0},
			&fun.P{N: "Cv", V: 717.5}, // air, J/(kg.K)
			&fun.P{N: "Mu0", V: 1.716e-5},
			&fun.P{N: "Sutherland", V: 1},
		}
	}
	var kind, suth float64
	if m.Kind == WeaklyCompressible {
		kind = 1
	}
	if m.Sutherland {
		suth = 1
	}
	return fun.Params{
		&fun.P{N: "kind", V: kind},
		&fun.P{N: "Cv", V: m.Cv},
		&fun.P{N: "C0", V: m.C0},
		&fun.P{N: "Rho0", V: m.Rho0},
		&fun.P{N: "Mu0", V: m.Mu0},
		&fun.P{N: "Sutherland", V: suth},
	}
}

// Cp returns the specific heat at constant pressure (compressible case only).
func (m Model) Cp() float64 { return Gamma * m.Cv }

// Pressure computes p(ρ, e) per the model's equation of state.
func (m Model) Pressure(rho, e float64) float64 {
	switch m.Kind {
	case Compressible:
		return (Gamma - 1) * rho * e
	case WeaklyCompressible:
		return m.C0*m.C0*(rho-m.Rho0) + m.P0
	}
	chk.Panic("phys: unknown model kind %v", m.Kind)
	return 0
}

// PressureFromDensity is the weakly-compressible EOS inverted for a target
// density alone, used by the exact-acoustic Riemann reconstruction.
func (m Model) PressureFromDensity(rho float64) float64 {
	return m.C0*m.C0*(rho-m.Rho0) + m.P0
}

// SoundSpeed computes c = √(γp/ρ) (compressible) or returns the fixed
// reference speed c₀ (weakly-compressible).
func (m Model) SoundSpeed(rho, p float64) float64 {
	switch m.Kind {
	case Compressible:
		return math.Sqrt(Gamma * p / rho)
	case WeaklyCompressible:
		return m.C0
	}
	chk.Panic("phys: unknown model kind %v", m.Kind)
	return 0
}

// Temperature converts internal energy to temperature, e = Cv T.
func (m Model) Temperature(e float64) float64 { return e / m.Cv }

// InternalEnergy converts temperature to internal energy, e = Cv T.
func (m Model) InternalEnergy(T float64) float64 { return m.Cv * T }

// Viscosity returns the dynamic viscosity at temperature T: constant μ, or
// Sutherland's law nondimensionalised by a 273.15 K reference.
func (m Model) Viscosity(T float64) float64 {
	if !m.Sutherland {
		return m.Mu0
	}
	return m.Mu0 * math.Pow(T, 1.5) * (1 + sutherlandTs) / (T + sutherlandTs)
}

// Conductivity derives thermal conductivity k = cp μ / Pr from viscosity.
// The weakly-compressible model has no temperature equation but still
// carries a conductivity for the viscous-flux energy row contract.
func (m Model) Conductivity(mu float64) float64 {
	return m.Cp() * mu / prandtl
}
