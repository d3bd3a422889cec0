// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dgsolver

import (
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/field"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/flux"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
)

// NewBoussinesqSource builds the buoyancy SourceTerm of the Boussinesq
// approximation: a momentum source −ρ β (T − T₀) g⃗ (hot fluid rises
// against gravity) plus the corresponding work term on the energy row.
// gravity is the gravitational acceleration vector, beta the thermal
// expansion coefficient, tRef the reference temperature T₀.
func NewBoussinesqSource(m phys.Model, l field.Layout, gravity []float64, beta, tRef float64) SourceTerm {
	return func(coord []float64, t float64, u []float64) []float64 {
		s := flux.StateFromConserved(m, l, u)
		f := -s.Rho * beta * (m.Temperature(s.E) - tRef)
		out := make([]float64, l.Nc())
		work := 0.0
		for d := 0; d < l.Dim; d++ {
			out[1+d] = f * gravity[d]
			work += f * gravity[d] * s.V[d]
		}
		out[1+l.Dim] = work
		return out
	}
}
