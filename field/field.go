// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field holds the conserved/computational/primitive variable
// batches the DG operator samples at quadrature points, and the mechanical
// conversions among them.
package field

import (
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
)

// Layout describes the row counts of a variable batch for a spatial
// dimension and equation kind: Nc conserved rows, Nk computational rows, Np
// primitive rows.
type Layout struct {
	Dim  int
	Kind phys.Kind
}

// Nc returns the number of conserved rows: ρ, ρv (Dim rows), and ρE or ρe.
func (l Layout) Nc() int { return 1 + l.Dim + 1 }

// Nk returns the number of computational rows: ρ, v (Dim rows), e, p.
func (l Layout) Nk() int { return 1 + l.Dim + 2 }

// Np returns the number of primitive rows: ρ, v (Dim rows), T.
func (l Layout) Np() int { return 1 + l.Dim + 1 }

// Batch is a column-major (per quadrature point) variable container of N
// points, with rows as described by Layout.
type Batch struct {
	Layout Layout
	N      int
	Data   [][]float64 // [rows][N]
}

// NewBatch allocates a zeroed batch of nrows x n.
func NewBatch(l Layout, nrows, n int) *Batch {
	d := make([][]float64, nrows)
	for i := range d {
		d[i] = make([]float64, n)
	}
	return &Batch{Layout: l, N: n, Data: d}
}

// row indices within a conserved batch
func (l Layout) RhoRow() int      { return 0 }
func (l Layout) MomRow(d int) int { return 1 + d }
func (l Layout) EnergyRow() int   { return 1 + l.Dim }

// row indices within a computational batch
func (l Layout) VelRow(d int) int { return 1 + d }
func (l Layout) ERow() int        { return 1 + l.Dim }
func (l Layout) PRow() int        { return 2 + l.Dim }

// row indices within a primitive batch
func (l Layout) TRow() int { return 1 + l.Dim }

// ConservedToComputational converts one column, point j, of a conserved
// batch c into the corresponding column of a computational batch k: ρ from
// ρ; velocity = momentum/ρ; internal energy = (ρE)/ρ − ‖v‖²/2 (compressible)
// or (ρe)/ρ (weakly-compressible); pressure from the equation of state.
func ConservedToComputational(m phys.Model, l Layout, c *Batch, j int, k *Batch) {
	rho := c.Data[l.RhoRow()][j]
	k.Data[0][j] = rho
	v2 := 0.0
	for d := 0; d < l.Dim; d++ {
		v := c.Data[l.MomRow(d)][j] / rho
		k.Data[l.VelRow(d)][j] = v
		v2 += v * v
	}
	var e float64
	switch m.Kind {
	case phys.Compressible:
		e = c.Data[l.EnergyRow()][j]/rho - 0.5*v2
	case phys.WeaklyCompressible:
		e = c.Data[l.EnergyRow()][j] / rho
	}
	k.Data[l.ERow()][j] = e
	k.Data[l.PRow()][j] = m.Pressure(rho, e)
}

// ComputationalToConserved is the inverse of ConservedToComputational.
func ComputationalToConserved(m phys.Model, l Layout, k *Batch, j int, c *Batch) {
	rho := k.Data[0][j]
	c.Data[l.RhoRow()][j] = rho
	v2 := 0.0
	for d := 0; d < l.Dim; d++ {
		v := k.Data[l.VelRow(d)][j]
		c.Data[l.MomRow(d)][j] = rho * v
		v2 += v * v
	}
	e := k.Data[l.ERow()][j]
	switch m.Kind {
	case phys.Compressible:
		c.Data[l.EnergyRow()][j] = rho * (e + 0.5*v2)
	case phys.WeaklyCompressible:
		c.Data[l.EnergyRow()][j] = rho * e
	}
}

// ComputationalToPrimitive replaces internal energy with temperature via
// the thermodynamic model.
func ComputationalToPrimitive(m phys.Model, l Layout, k *Batch, j int, p *Batch) {
	p.Data[0][j] = k.Data[0][j]
	for d := 0; d < l.Dim; d++ {
		p.Data[l.VelRow(d)][j] = k.Data[l.VelRow(d)][j]
	}
	p.Data[l.TRow()][j] = m.Temperature(k.Data[l.ERow()][j])
}

// PrimitiveToComputational is the inverse of ComputationalToPrimitive; it
// recomputes pressure from the model's equation of state since primitive
// form drops it.
func PrimitiveToComputational(m phys.Model, l Layout, p *Batch, j int, k *Batch) {
	rho := p.Data[0][j]
	k.Data[0][j] = rho
	for d := 0; d < l.Dim; d++ {
		k.Data[l.VelRow(d)][j] = p.Data[l.VelRow(d)][j]
	}
	e := m.InternalEnergy(p.Data[l.TRow()][j])
	k.Data[l.ERow()][j] = e
	k.Data[l.PRow()][j] = m.Pressure(rho, e)
}

// ConservedGradientToPrimitiveGradient applies the chain rule, at one
// quadrature point, to convert d rows of conserved gradients into d rows of
// primitive gradients.
//
// dc is indexed [spatial direction][conserved row], dp is indexed
// [spatial direction][primitive row]; both length Dim x Layout rows.
func ConservedGradientToPrimitiveGradient(m phys.Model, l Layout, c *Batch, j int, dc [][]float64, dp [][]float64) {
	rho := c.Data[l.RhoRow()][j]
	vel := make([]float64, l.Dim)
	for d := 0; d < l.Dim; d++ {
		vel[d] = c.Data[l.MomRow(d)][j] / rho
	}
	for dir := 0; dir < l.Dim; dir++ {
		dRho := dc[dir][l.RhoRow()]
		dp[dir][0] = dRho
		v2 := 0.0
		dv2 := 0.0
		for d := 0; d < l.Dim; d++ {
			dMom := dc[dir][l.MomRow(d)]
			dv := (dMom - vel[d]*dRho) / rho
			dp[dir][l.VelRow(d)] = dv
			v2 += vel[d] * vel[d]
			dv2 += 2 * vel[d] * dv
		}
		var dE float64
		switch m.Kind {
		case phys.Compressible:
			rhoE := c.Data[l.EnergyRow()][j]
			dRhoE := dc[dir][l.EnergyRow()]
			dE = (dRhoE - (rhoE/rho)*dRho) / rho
			dE -= 0.5 * dv2
		case phys.WeaklyCompressible:
			rhoE := c.Data[l.EnergyRow()][j]
			dRhoE := dc[dir][l.EnergyRow()]
			dE = (dRhoE - (rhoE/rho)*dRho) / rho
		}
		dp[dir][l.TRow()] = dE / m.Cv
	}
}

// ConservedGradientToPrimitiveGradientVec is ConservedGradientToPrimitiveGradient's
// vector-only form: u is the conserved vector at a single point (length Nc),
// du is its gradient ([Dim][Nc]); it returns the primitive gradient
// ([Dim][Np]). Used by the residual assembly, which samples modal
// coefficients directly rather than through a field.Batch.
func ConservedGradientToPrimitiveGradientVec(m phys.Model, l Layout, u []float64, du [][]float64) [][]float64 {
	rho := u[l.RhoRow()]
	vel := make([]float64, l.Dim)
	for d := 0; d < l.Dim; d++ {
		vel[d] = u[l.MomRow(d)] / rho
	}
	dp := make([][]float64, l.Dim)
	for dir := 0; dir < l.Dim; dir++ {
		row := make([]float64, l.Np())
		dRho := du[dir][l.RhoRow()]
		row[0] = dRho
		v2 := 0.0
		dv2 := 0.0
		for d := 0; d < l.Dim; d++ {
			dMom := du[dir][l.MomRow(d)]
			dv := (dMom - vel[d]*dRho) / rho
			row[l.VelRow(d)] = dv
			v2 += vel[d] * vel[d]
			dv2 += 2 * vel[d] * dv
		}
		rhoE := u[l.EnergyRow()]
		dRhoE := du[dir][l.EnergyRow()]
		dE := (dRhoE - (rhoE/rho)*dRho) / rho
		if m.Kind == phys.Compressible {
			dE -= 0.5 * dv2
		}
		row[l.TRow()] = dE / m.Cv
		dp[dir] = row
	}
	return dp
}
