// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bc implements the boundary-condition operators the DG residual
// evaluates at boundary adjacency quadrature points.
package bc

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/field"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/flux"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
)

// Kind identifies a boundary-condition operator.
type Kind int

const (
	RiemannFarfield Kind = iota
	VelocityInflow
	PressureOutflow
	IsoThermalNonSlipWall
	AdiabaticSlipWall
	AdiabaticNonSlipWall
	Periodic // handled entirely at mesh ingest; never dispatched here
)

// Result holds the three pure-function outputs of a boundary operator: the
// boundary state B, the volume-gradient boundary state B_V, and the
// interface-gradient boundary state B_I.
type Result struct {
	B, Bv, Bi flux.State

	// HasJump is set by the wall operators whose B_I carries the
	// boundary-to-interior jump into the viscous lifting; the other
	// operators have a zero B_I and contribute no interface gradient.
	HasJump bool

	// ZeroTemperatureGradient is set by wall operators that impose an
	// adiabatic condition; the caller zeroes the boundary temperature
	// gradient after computing it.
	ZeroTemperatureGradient bool
}

func sub(a, b flux.State, l field.Layout) flux.State {
	out := flux.State{V: make([]float64, l.Dim)}
	out.Rho = a.Rho - b.Rho
	for d := 0; d < l.Dim; d++ {
		out.V[d] = a.V[d] - b.V[d]
	}
	out.E = a.E - b.E
	out.P = a.P - b.P
	return out
}

// Evaluate dispatches to the operator for kind, given the physical model,
// unit outward normal n, the interior (left) state L, and the user-supplied
// dummy state D.
func Evaluate(kind Kind, m phys.Model, l field.Layout, n []float64, left, dummy flux.State) Result {
	switch kind {
	case RiemannFarfield:
		return riemannFarfield(m, l, n, left, dummy)
	case VelocityInflow:
		return velocityInflow(m, l, n, left, dummy)
	case PressureOutflow:
		return pressureOutflow(m, l, n, left, dummy)
	case IsoThermalNonSlipWall:
		return isoThermalNonSlipWall(m, l, left, dummy)
	case AdiabaticSlipWall:
		return adiabaticSlipWall(m, l, n, left)
	case AdiabaticNonSlipWall:
		return adiabaticNonSlipWall(m, l, left, dummy)
	}
	chk.Panic("bc: kind %v has no boundary operator (periodic is resolved at mesh ingest)", kind)
	return Result{}
}

func normalMach(n []float64, s flux.State) float64 {
	vn := 0.0
	for d, nd := range n {
		vn += s.V[d] * nd
	}
	return vn / s.C
}

// riemannFarfield implements the RiemannFarfield boundary operator.
func riemannFarfield(m phys.Model, l field.Layout, n []float64, left, dummy flux.State) Result {
	mn := normalMach(n, left)
	if mn < -1 {
		return Result{B: dummy, Bv: left, Bi: zero(l)} // supersonic inflow
	}
	if mn > 1 {
		return Result{B: left, Bv: left, Bi: zero(l)} // supersonic outflow
	}

	var b flux.State
	switch m.Kind {
	case phys.Compressible:
		vnL := dotN(n, left.V)
		vnD := dotN(n, dummy.V)
		rPlus := vnL + 2*left.C/(phys.Gamma-1)   // left-going invariant from interior
		rMinus := vnD - 2*dummy.C/(phys.Gamma-1) // right-going invariant from exterior
		vnB := 0.5 * (rPlus + rMinus)
		cB := (phys.Gamma - 1) / 4 * (rPlus - rMinus)
		// reconstruct density from interior entropy s = p/ρ^γ
		entropy := left.P / math.Pow(left.Rho, phys.Gamma)
		rhoB := math.Pow(cB*cB/(phys.Gamma*entropy), 1/(phys.Gamma-1))
		pB := entropy * math.Pow(rhoB, phys.Gamma)
		v := tangentialPlusNormal(n, left.V, vnB)
		eB := pB / ((phys.Gamma - 1) * rhoB)
		b = flux.State{Rho: rhoB, V: v, E: eB, P: pB, C: cB}
	case phys.WeaklyCompressible:
		vnL, vnD := dotN(n, left.V), dotN(n, dummy.V)
		rhoStar := math.Sqrt(left.Rho * dummy.Rho * math.Exp((vnL-vnD)/m.C0))
		vnStar := 0.5*(vnL+vnD) + 0.5*m.C0*math.Log(left.Rho/dummy.Rho)
		upwind := dummy // inflow: tangential velocity/energy from interior (D)
		if vnStar >= 0 {
			upwind = left // outflow: from exterior (L)
		}
		v := tangentialPlusNormal(n, upwind.V, vnStar)
		pStar := m.PressureFromDensity(rhoStar)
		b = flux.State{Rho: rhoStar, V: v, E: upwind.E, P: pStar, C: m.C0}
	}
	return Result{B: b, Bv: left, Bi: zero(l)}
}

// velocityInflow implements the VelocityInflow boundary operator.
func velocityInflow(m phys.Model, l field.Layout, n []float64, left, dummy flux.State) Result {
	b := dummy
	mn := normalMach(n, left)
	if mn > -1 {
		b.P = left.P
	}
	return Result{B: b, Bv: left, Bi: zero(l)}
}

// pressureOutflow implements the PressureOutflow boundary operator.
func pressureOutflow(m phys.Model, l field.Layout, n []float64, left, dummy flux.State) Result {
	b := left
	mn := normalMach(n, left)
	if mn < 1 {
		b.P = dummy.P
	}
	return Result{B: b, Bv: left, Bi: zero(l)}
}

// isoThermalNonSlipWall implements the IsoThermalNonSlipWall boundary operator.
func isoThermalNonSlipWall(m phys.Model, l field.Layout, left, dummy flux.State) Result {
	b := flux.State{Rho: left.Rho, V: append([]float64{}, dummy.V...), E: dummy.E, C: left.C}
	b.P = m.Pressure(b.Rho, b.E)
	return Result{B: b, Bv: b, Bi: sub(b, left, l), HasJump: true}
}

// adiabaticSlipWall implements the AdiabaticSlipWall boundary operator: the
// normal velocity component is reflected off the wall.
func adiabaticSlipWall(m phys.Model, l field.Layout, n []float64, left flux.State) Result {
	vn := dotN(n, left.V)
	v := make([]float64, l.Dim)
	for d := range v {
		v[d] = left.V[d] - vn*n[d]
	}
	b := flux.State{Rho: left.Rho, V: v, E: left.E, P: left.P, C: left.C}
	return Result{B: b, Bv: b, Bi: sub(b, left, l), HasJump: true, ZeroTemperatureGradient: true}
}

// adiabaticNonSlipWall implements the AdiabaticNonSlipWall boundary operator.
func adiabaticNonSlipWall(m phys.Model, l field.Layout, left, dummy flux.State) Result {
	b := flux.State{Rho: left.Rho, V: append([]float64{}, dummy.V...), E: left.E, P: left.P, C: left.C}
	return Result{B: b, Bv: b, Bi: sub(b, left, l), HasJump: true, ZeroTemperatureGradient: true}
}

func zero(l field.Layout) flux.State {
	return flux.State{V: make([]float64, l.Dim)}
}

func dotN(n, v []float64) float64 {
	s := 0.0
	for d, nd := range n {
		s += nd * v[d]
	}
	return s
}

// tangentialPlusNormal returns ref's tangential velocity component plus vn
// along n: v = ref − (ref·n̂)n̂ + vn·n̂.
func tangentialPlusNormal(n, ref []float64, vn float64) []float64 {
	refN := dotN(n, ref)
	out := make([]float64, len(n))
	for d := range out {
		out[d] = ref[d] - refN*n[d] + vn*n[d]
	}
	return out
}
