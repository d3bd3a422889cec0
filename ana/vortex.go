// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/fun"
)

// IsentropicVortex is the two-dimensional inviscid vortex advected by a
// uniform freestream: an exact, smooth, time-dependent solution of the
// compressible Euler equations used to measure convergence order.
type IsentropicVortex struct {
	// input
	Beta   float64 // vortex strength
	Gamma  float64 // ratio of specific heats
	X0, Y0 float64 // initial vortex center
	U0, V0 float64 // freestream velocity
	Rho0   float64 // freestream density
	P0     float64 // freestream pressure
}

// Init initialises this structure
func (o *IsentropicVortex) Init(prms fun.Params) {
	o.Beta = 5
	o.Gamma = 1.4
	o.X0, o.Y0 = 0, 0
	o.U0, o.V0 = 1, 0
	o.Rho0, o.P0 = 1, 1
	for _, p := range prms {
		switch p.N {
		case "beta":
			o.Beta = p.V
		case "gamma":
			o.Gamma = p.V
		case "x0":
			o.X0 = p.V
		case "y0":
			o.Y0 = p.V
		case "u0":
			o.U0 = p.V
		case "v0":
			o.V0 = p.V
		case "rho0":
			o.Rho0 = p.V
		case "p0":
			o.P0 = p.V
		}
	}
}

// Solution returns the primitive state (ρ, u, v, p) at (x, y) and time t.
func (o *IsentropicVortex) Solution(x, y, t float64) (rho, u, v, p float64) {
	g := o.Gamma
	dx := x - o.X0 - o.U0*t
	dy := y - o.Y0 - o.V0*t
	r2 := dx*dx + dy*dy
	ex := math.Exp(0.5 * (1 - r2))
	u = o.U0 - o.Beta/(2*math.Pi)*ex*dy
	v = o.V0 + o.Beta/(2*math.Pi)*ex*dx
	dT := -(g - 1) * o.Beta * o.Beta / (8 * g * math.Pi * math.Pi) * math.Exp(1-r2)
	T0 := o.P0 / o.Rho0
	T := T0 + dT
	rho = o.Rho0 * math.Pow(T/T0, 1/(g-1))
	p = rho * T
	return
}
