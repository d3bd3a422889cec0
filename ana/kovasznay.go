// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/fun"
)

// Kovasznay is the steady laminar flow behind a two-dimensional grid: an
// exact solution of the incompressible Navier-Stokes equations at a given
// Reynolds number, used as the steady-state reference for viscous runs.
type Kovasznay struct {
	// input
	Re float64 // Reynolds number

	// derived
	lambda float64
}

// Init initialises this structure
func (o *Kovasznay) Init(prms fun.Params) {
	o.Re = 40
	for _, p := range prms {
		if p.N == "Re" {
			o.Re = p.V
		}
	}
	o.lambda = o.Re/2 - math.Sqrt(o.Re*o.Re/4+4*math.Pi*math.Pi)
}

// Solution returns the velocity components and pressure at (x, y).
func (o *Kovasznay) Solution(x, y float64) (u, v, p float64) {
	ex := math.Exp(o.lambda * x)
	u = 1 - ex*math.Cos(2*math.Pi*y)
	v = o.lambda / (2 * math.Pi) * ex * math.Sin(2*math.Pi*y)
	p = 0.5 * (1 - math.Exp(2*o.lambda*x))
	return
}
