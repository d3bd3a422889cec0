// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flux implements the convective and viscous flux kernels and the
// numerical interface (Riemann) fluxes the DG residual assembles at
// adjacency quadrature points.
package flux

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/field"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
)

// Scheme selects the numerical interface flux.
type Scheme int

const (
	Central Scheme = iota
	LaxFriedrichs
	HLLC
	Roe
	ExactAcoustic
)

// State is one computational-variable point (ρ, v[Dim], e, p) plus its
// derived sound speed, used by every flux kernel below.
type State struct {
	Rho float64
	V   []float64
	E   float64
	P   float64
	C   float64
}

// NewState extracts point j of computational batch k into a State and fills
// its sound speed from the model's equation of state.
func NewState(m phys.Model, l field.Layout, k *field.Batch, j int) State {
	s := State{Rho: k.Data[0][j], V: make([]float64, l.Dim)}
	for d := 0; d < l.Dim; d++ {
		s.V[d] = k.Data[1+d][j]
	}
	s.E = k.Data[1+l.Dim][j]
	s.P = k.Data[2+l.Dim][j]
	s.C = m.SoundSpeed(s.Rho, s.P)
	return s
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// ConvectiveRawFlux computes F(u) as a Dim x Nc matrix; row d holds the
// flux in spatial direction d.
func ConvectiveRawFlux(m phys.Model, l field.Layout, s State) [][]float64 {
	nc := l.Nc()
	F := make([][]float64, l.Dim)
	for d := 0; d < l.Dim; d++ {
		row := make([]float64, nc)
		row[0] = s.Rho * s.V[d]
		for k := 0; k < l.Dim; k++ {
			row[1+k] = s.Rho * s.V[d] * s.V[k]
		}
		row[1+d] += s.P
		switch m.Kind {
		case phys.Compressible:
			rhoE := s.Rho * (s.E + 0.5*dot(s.V, s.V))
			row[1+l.Dim] = (rhoE + s.P) * s.V[d]
		case phys.WeaklyCompressible:
			row[1+l.Dim] = s.Rho * s.E * s.V[d]
		}
		F[d] = row
	}
	return F
}

// NormalFlux projects a Dim x Nc raw flux matrix onto unit normal n.
func NormalFlux(F [][]float64, n []float64) []float64 {
	nc := len(F[0])
	out := make([]float64, nc)
	for d, row := range F {
		for c := 0; c < nc; c++ {
			out[c] += row[c] * n[d]
		}
	}
	return out
}

// StateFromConserved builds a computational State from a raw conserved
// vector u, used by the residual
// assembly to sample modal coefficients at a quadrature point without going
// through a full field.Batch.
func StateFromConserved(m phys.Model, l field.Layout, u []float64) State {
	rho := u[0]
	s := State{Rho: rho, V: make([]float64, l.Dim)}
	v2 := 0.0
	for d := 0; d < l.Dim; d++ {
		v := u[1+d] / rho
		s.V[d] = v
		v2 += v * v
	}
	switch m.Kind {
	case phys.Compressible:
		s.E = u[1+l.Dim]/rho - 0.5*v2
	case phys.WeaklyCompressible:
		s.E = u[1+l.Dim] / rho
	}
	s.P = m.Pressure(rho, s.E)
	s.C = m.SoundSpeed(rho, s.P)
	return s
}

// ConservedFromState is the public form of conservedOf, used outside this
// package (e.g. the auxiliary-gradient boundary state) to turn a boundary
// operator's computational result back into a raw conserved vector.
func ConservedFromState(m phys.Model, l field.Layout, s State) []float64 {
	return conservedOf(m, l, s)
}

// conservedOf reassembles the conserved vector from a computational State.
func conservedOf(m phys.Model, l field.Layout, s State) []float64 {
	u := make([]float64, l.Nc())
	u[0] = s.Rho
	v2 := dot(s.V, s.V)
	for d := 0; d < l.Dim; d++ {
		u[1+d] = s.Rho * s.V[d]
	}
	switch m.Kind {
	case phys.Compressible:
		u[1+l.Dim] = s.Rho * (s.E + 0.5*v2)
	case phys.WeaklyCompressible:
		u[1+l.Dim] = s.Rho * s.E
	}
	return u
}

// InterfaceFlux computes the numerical flux at an interface given the left
// and right computational states and the unit outward normal n̂ (left to
// right), per the selected scheme.
func InterfaceFlux(m phys.Model, l field.Layout, scheme Scheme, left, right State, n []float64) []float64 {
	switch scheme {
	case Central:
		return central(m, l, left, right, n)
	case LaxFriedrichs:
		return laxFriedrichs(m, l, left, right, n)
	case HLLC:
		return hllc(m, l, left, right, n)
	case Roe:
		return roe(m, l, left, right, n)
	case ExactAcoustic:
		return exactAcoustic(m, l, left, right, n)
	}
	chk.Panic("flux: unknown interface scheme %v", scheme)
	return nil
}

func central(m phys.Model, l field.Layout, left, right State, n []float64) []float64 {
	fl := NormalFlux(ConvectiveRawFlux(m, l, left), n)
	fr := NormalFlux(ConvectiveRawFlux(m, l, right), n)
	out := make([]float64, len(fl))
	for i := range out {
		out[i] = 0.5 * (fl[i] + fr[i])
	}
	return out
}

func laxFriedrichs(m phys.Model, l field.Layout, left, right State, n []float64) []float64 {
	c := central(m, l, left, right, n)
	vnL, vnR := dot(left.V, n), dot(right.V, n)
	s := math.Max(math.Abs(vnL)+left.C, math.Abs(vnR)+right.C)
	ul, ur := conservedOf(m, l, left), conservedOf(m, l, right)
	for i := range c {
		c[i] -= 0.5 * s * (ur[i] - ul[i])
	}
	return c
}

// hllc implements the compressible-only three-wave HLLC flux.
func hllc(m phys.Model, l field.Layout, left, right State, n []float64) []float64 {
	if m.Kind != phys.Compressible {
		chk.Panic("flux: HLLC is compressible-only")
	}
	vnL, vnR := dot(left.V, n), dot(right.V, n)
	rhoBar := 0.5 * (left.Rho + right.Rho)
	cBar := 0.5 * (left.C + right.C)
	pStar := math.Max(0, 0.5*(left.P+right.P)-0.5*(vnR-vnL)*rhoBar*cBar)

	qOf := func(pK float64) float64 {
		if pStar <= pK {
			return 1
		}
		return math.Sqrt(1 + (phys.Gamma+1)/(2*phys.Gamma)*(pStar/pK-1))
	}
	sL := vnL - left.C*qOf(left.P)
	sR := vnR + right.C*qOf(right.P)
	sStar := (right.P - left.P + left.Rho*vnL*(sL-vnL) - right.Rho*vnR*(sR-vnR)) /
		(left.Rho*(sL-vnL) - right.Rho*(sR-vnR))

	starState := func(s State, sK float64) []float64 {
		u := conservedOf(m, l, s)
		rhoE := u[1+l.Dim]
		vn := dot(s.V, n)
		factor := s.Rho * (sK - vn) / (sK - sStar)
		uStar := make([]float64, l.Nc())
		uStar[0] = factor
		for d := 0; d < l.Dim; d++ {
			uStar[1+d] = factor * (s.V[d] + (sStar-vn)*n[d])
		}
		uStar[1+l.Dim] = factor * (rhoE/s.Rho + (sStar-vn)*(sStar+s.P/(s.Rho*(sK-vn))))
		return uStar
	}

	fOf := func(s State) []float64 { return NormalFlux(ConvectiveRawFlux(m, l, s), n) }
	uOf := func(s State) []float64 { return conservedOf(m, l, s) }

	switch {
	case sL >= 0:
		return fOf(left)
	case sStar >= 0:
		fl, ul, uls := fOf(left), uOf(left), starState(left, sL)
		out := make([]float64, len(fl))
		for i := range out {
			out[i] = fl[i] + sL*(uls[i]-ul[i])
		}
		return out
	case sR >= 0:
		fr, ur, urs := fOf(right), uOf(right), starState(right, sR)
		out := make([]float64, len(fr))
		for i := range out {
			out[i] = fr[i] + sR*(urs[i]-ur[i])
		}
		return out
	default:
		return fOf(right)
	}
}

// roe implements the Roe-averaged flux with a Harten entropy fix applied to
// the acoustic eigenvalues: density √-average, velocity and
// total enthalpy √-weighted; the dissipation sum runs over the entropy wave,
// the d−1 shear waves, and the two acoustic waves (three waves total in 1D).
func roe(m phys.Model, l field.Layout, left, right State, n []float64) []float64 {
	sqL, sqR := math.Sqrt(left.Rho), math.Sqrt(right.Rho)
	denom := sqL + sqR
	vRoe := make([]float64, l.Dim)
	for d := 0; d < l.Dim; d++ {
		vRoe[d] = (sqL*left.V[d] + sqR*right.V[d]) / denom
	}
	hRoe := (sqL*enthalpy(m, l, left) + sqR*enthalpy(m, l, right)) / denom
	v2Roe := dot(vRoe, vRoe)
	cRoe := math.Sqrt((phys.Gamma - 1) * (hRoe - 0.5*v2Roe))
	vnRoe := dot(vRoe, n)

	fl := NormalFlux(ConvectiveRawFlux(m, l, left), n)
	fr := NormalFlux(ConvectiveRawFlux(m, l, right), n)

	dRho := right.Rho - left.Rho
	dP := right.P - left.P
	dV := make([]float64, l.Dim)
	for d := 0; d < l.Dim; d++ {
		dV[d] = right.V[d] - left.V[d]
	}
	dVn := dot(dV, n)

	delta := cRoe / 20
	fix := func(lam float64) float64 {
		if math.Abs(lam) < delta {
			return (lam*lam + delta*delta) / (2 * delta)
		}
		return math.Abs(lam)
	}
	lambdaMinus := fix(vnRoe - cRoe)
	lambdaEntropy := math.Abs(vnRoe)
	lambdaPlus := fix(vnRoe + cRoe)

	alphaMinus := 0.5 * (dP/(cRoe*cRoe) - dVn/cRoe)
	alphaPlus := 0.5 * (dP/(cRoe*cRoe) + dVn/cRoe)
	alphaEntropy := dRho - dP/(cRoe*cRoe)

	rMinus := acousticEigenvector(vRoe, n, hRoe, cRoe, l, -1)
	rPlus := acousticEigenvector(vRoe, n, hRoe, cRoe, l, +1)
	rEntropy := entropyEigenvector(vRoe, l)

	out := make([]float64, len(fl))
	for i := range out {
		diss := lambdaMinus*alphaMinus*rMinus[i] + lambdaPlus*alphaPlus*rPlus[i] + lambdaEntropy*alphaEntropy*rEntropy[i]
		out[i] = 0.5*(fl[i]+fr[i]) - 0.5*diss
	}

	// shear waves: the tangential component of the velocity jump, one wave
	// per tangential direction, all sharing the entropy eigenvalue |vnRoe|.
	rhoRoe := sqL * sqR
	dVt := make([]float64, l.Dim)
	for d := 0; d < l.Dim; d++ {
		dVt[d] = dV[d] - dVn*n[d]
	}
	for d := 0; d < l.Dim; d++ {
		out[1+d] -= 0.5 * lambdaEntropy * rhoRoe * dVt[d]
		out[1+l.Dim] -= 0.5 * lambdaEntropy * rhoRoe * dVt[d] * vRoe[d]
	}
	return out
}

func entropyEigenvector(vRoe []float64, l field.Layout) []float64 {
	r := make([]float64, l.Nc())
	r[0] = 1
	for d := 0; d < l.Dim; d++ {
		r[1+d] = vRoe[d]
	}
	r[1+l.Dim] = 0.5 * dot(vRoe, vRoe)
	return r
}

func acousticEigenvector(vRoe, n []float64, hRoe, cRoe float64, l field.Layout, sign float64) []float64 {
	r := make([]float64, l.Nc())
	r[0] = 1
	for d := 0; d < l.Dim; d++ {
		r[1+d] = vRoe[d] + sign*cRoe*n[d]
	}
	vn := dot(vRoe, n)
	r[1+l.Dim] = hRoe + sign*cRoe*vn
	return r
}

func enthalpy(m phys.Model, l field.Layout, s State) float64 {
	v2 := dot(s.V, s.V)
	return s.E + 0.5*v2 + s.P/s.Rho
}

// exactAcoustic implements the weakly-compressible exact acoustic Riemann
// solver.
func exactAcoustic(m phys.Model, l field.Layout, left, right State, n []float64) []float64 {
	if m.Kind != phys.WeaklyCompressible {
		chk.Panic("flux: exact acoustic Riemann is weakly-compressible only")
	}
	c0 := m.C0
	vnL, vnR := dot(left.V, n), dot(right.V, n)
	rhoStar := math.Sqrt(left.Rho * right.Rho * math.Exp((vnL-vnR)/c0))
	vnStar := 0.5*(vnL+vnR) + 0.5*c0*math.Log(left.Rho/right.Rho)

	upwind := left
	if vnStar < 0 {
		upwind = right
	}
	star := State{Rho: rhoStar, V: make([]float64, l.Dim), E: upwind.E}
	for d := 0; d < l.Dim; d++ {
		tang := upwind.V[d] - dot(upwind.V, n)*n[d]
		star.V[d] = tang + vnStar*n[d]
	}
	star.P = m.PressureFromDensity(rhoStar)
	star.C = c0
	return NormalFlux(ConvectiveRawFlux(m, l, star), n)
}

// ViscousRawFlux computes the Navier-Stokes viscous flux (Dim x Nc matrix)
// from primitive-gradient rows dp ([Dim][Np]) and velocity/conductivity:
// Stokes-hypothesis stress tensor τ, heat flux k∇T.
func ViscousRawFlux(m phys.Model, l field.Layout, v []float64, mu, k float64, dp [][]float64) [][]float64 {
	divV := 0.0
	for d := 0; d < l.Dim; d++ {
		divV += dp[d][1+d]
	}
	tau := make([][]float64, l.Dim)
	for i := 0; i < l.Dim; i++ {
		tau[i] = make([]float64, l.Dim)
		for j := 0; j < l.Dim; j++ {
			tau[i][j] = mu * (dp[i][1+j] + dp[j][1+i])
			if i == j {
				tau[i][j] -= (2.0 / 3.0) * mu * divV
			}
		}
	}
	F := make([][]float64, l.Dim)
	for d := 0; d < l.Dim; d++ {
		row := make([]float64, l.Nc())
		for j := 0; j < l.Dim; j++ {
			row[1+j] = tau[d][j]
		}
		dT := dp[d][l.TRow()]
		switch m.Kind {
		case phys.Compressible:
			e := 0.0
			for j := 0; j < l.Dim; j++ {
				e += tau[d][j] * v[j]
			}
			row[1+l.Dim] = e + k*dT
		case phys.WeaklyCompressible:
			row[1+l.Dim] = k * dT
		}
		F[d] = row
	}
	return F
}

// InterfaceViscousFlux averages the left/right raw viscous fluxes and
// projects onto n̂.
func InterfaceViscousFlux(Fl, Fr [][]float64, n []float64) []float64 {
	nc := len(Fl[0])
	out := make([]float64, nc)
	for d := range Fl {
		for c := 0; c < nc; c++ {
			out[c] += 0.5 * (Fl[d][c] + Fr[d][c]) * n[d]
		}
	}
	return out
}

// VolumeGradientFlux is the symmetric face average n̂·½(U_L+U_R)ᵀ used by
// the auxiliary-gradient sub-step.
func VolumeGradientFlux(uL, uR, n []float64) [][]float64 {
	nc := len(uL)
	out := make([][]float64, len(n))
	for d := range n {
		out[d] = make([]float64, nc)
		for c := 0; c < nc; c++ {
			out[d][c] = n[d] * 0.5 * (uL[c] + uR[c])
		}
	}
	return out
}

// InterfaceGradientFlux is the jump-half face flux n̂·½(U_R−U_L)ᵀ used by
// the interface-lifting correction term.
func InterfaceGradientFlux(uL, uR, n []float64) [][]float64 {
	nc := len(uL)
	out := make([][]float64, len(n))
	for d := range n {
		out[d] = make([]float64, nc)
		for c := 0; c < nc; c++ {
			out[d][c] = n[d] * 0.5 * (uR[c] - uL[c])
		}
	}
	return out
}

// ArtificialViscousFlux scales a conserved-gradient row set by a per-element
// scalar ε.
func ArtificialViscousFlux(eps float64, dU [][]float64) [][]float64 {
	out := make([][]float64, len(dU))
	for d, row := range dU {
		out[d] = make([]float64, len(row))
		for c, v := range row {
			out[d][c] = eps * v
		}
	}
	return out
}
