// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions of the governing flow
// equations, used as references by the solver's accuracy tests
package ana

import (
	"math"

	"github.com/cpmech/gosl/fun"
)

// ShockTube computes the exact solution of the one-dimensional Riemann
// problem for an ideal gas: two constant states separated by a diaphragm at
// X0, resolved into a left rarefaction/shock, a contact, and a right
// rarefaction/shock. The star-region pressure is found by Newton iteration
// on the standard pressure function.
type ShockTube struct {
	// input
	RhoL, UL, PL float64 // left primitive state
	RhoR, UR, PR float64 // right primitive state
	Gamma        float64 // ratio of specific heats
	X0           float64 // initial diaphragm position

	// derived
	cL, cR float64 // sound speeds of the outer states
	pStar  float64 // star-region pressure
	uStar  float64 // star-region velocity
}

// Init initialises this structure
func (o *ShockTube) Init(prms fun.Params) {

	// default values: the Sod problem
	o.RhoL, o.UL, o.PL = 1, 0, 1
	o.RhoR, o.UR, o.PR = 0.125, 0, 0.1
	o.Gamma = 1.4
	o.X0 = 0.5

	// parameters
	for _, p := range prms {
		switch p.N {
		case "rhoL":
			o.RhoL = p.V
		case "uL":
			o.UL = p.V
		case "pL":
			o.PL = p.V
		case "rhoR":
			o.RhoR = p.V
		case "uR":
			o.UR = p.V
		case "pR":
			o.PR = p.V
		case "gamma":
			o.Gamma = p.V
		case "x0":
			o.X0 = p.V
		}
	}

	o.cL = math.Sqrt(o.Gamma * o.PL / o.RhoL)
	o.cR = math.Sqrt(o.Gamma * o.PR / o.RhoR)
	o.solveStar()
}

// pressureFunction evaluates f_K(p) and its derivative for outer state K.
func (o *ShockTube) pressureFunction(p, rhoK, pK, cK float64) (f, df float64) {
	g := o.Gamma
	if p > pK { // shock
		aK := 2 / ((g + 1) * rhoK)
		bK := (g - 1) / (g + 1) * pK
		f = (p - pK) * math.Sqrt(aK/(p+bK))
		df = math.Sqrt(aK/(p+bK)) * (1 - (p-pK)/(2*(p+bK)))
		return
	}
	// rarefaction
	f = 2 * cK / (g - 1) * (math.Pow(p/pK, (g-1)/(2*g)) - 1)
	df = 1 / (rhoK * cK) * math.Pow(p/pK, -(g+1)/(2*g))
	return
}

// solveStar iterates on the star-region pressure until the velocity jump
// closes, then derives the star velocity.
func (o *ShockTube) solveStar() {
	du := o.UR - o.UL
	p := 0.5 * (o.PL + o.PR)
	if p < 1e-12 {
		p = 1e-12
	}
	for it := 0; it < 60; it++ {
		fL, dfL := o.pressureFunction(p, o.RhoL, o.PL, o.cL)
		fR, dfR := o.pressureFunction(p, o.RhoR, o.PR, o.cR)
		delta := (fL + fR + du) / (dfL + dfR)
		p -= delta
		if p < 1e-12 {
			p = 1e-12
		}
		if math.Abs(delta) < 1e-14*p {
			break
		}
	}
	o.pStar = p
	fL, _ := o.pressureFunction(p, o.RhoL, o.PL, o.cL)
	fR, _ := o.pressureFunction(p, o.RhoR, o.PR, o.cR)
	o.uStar = 0.5*(o.UL+o.UR) + 0.5*(fR-fL)
}

// Solution returns the primitive state (ρ, u, p) at position x and time t.
func (o *ShockTube) Solution(x, t float64) (rho, u, p float64) {
	if t <= 0 {
		if x <= o.X0 {
			return o.RhoL, o.UL, o.PL
		}
		return o.RhoR, o.UR, o.PR
	}
	s := (x - o.X0) / t
	g := o.Gamma
	if s <= o.uStar {
		// left of the contact
		if o.pStar > o.PL { // left shock
			sL := o.UL - o.cL*math.Sqrt((g+1)/(2*g)*o.pStar/o.PL+(g-1)/(2*g))
			if s <= sL {
				return o.RhoL, o.UL, o.PL
			}
			rho = o.RhoL * (o.pStar/o.PL + (g-1)/(g+1)) / ((g-1)/(g+1)*o.pStar/o.PL + 1)
			return rho, o.uStar, o.pStar
		}
		// left rarefaction
		cStarL := o.cL * math.Pow(o.pStar/o.PL, (g-1)/(2*g))
		headL := o.UL - o.cL
		tailL := o.uStar - cStarL
		switch {
		case s <= headL:
			return o.RhoL, o.UL, o.PL
		case s >= tailL:
			rho = o.RhoL * math.Pow(o.pStar/o.PL, 1/g)
			return rho, o.uStar, o.pStar
		default:
			u = 2 / (g + 1) * (o.cL + (g-1)/2*o.UL + s)
			c := 2 / (g + 1) * (o.cL + (g-1)/2*(o.UL-s))
			rho = o.RhoL * math.Pow(c/o.cL, 2/(g-1))
			p = o.PL * math.Pow(c/o.cL, 2*g/(g-1))
			return rho, u, p
		}
	}
	// right of the contact
	if o.pStar > o.PR { // right shock
		sR := o.UR + o.cR*math.Sqrt((g+1)/(2*g)*o.pStar/o.PR+(g-1)/(2*g))
		if s >= sR {
			return o.RhoR, o.UR, o.PR
		}
		rho = o.RhoR * (o.pStar/o.PR + (g-1)/(g+1)) / ((g-1)/(g+1)*o.pStar/o.PR + 1)
		return rho, o.uStar, o.pStar
	}
	// right rarefaction
	cStarR := o.cR * math.Pow(o.pStar/o.PR, (g-1)/(2*g))
	headR := o.UR + o.cR
	tailR := o.uStar + cStarR
	switch {
	case s >= headR:
		return o.RhoR, o.UR, o.PR
	case s <= tailR:
		rho = o.RhoR * math.Pow(o.pStar/o.PR, 1/g)
		return rho, o.uStar, o.pStar
	default:
		u = 2 / (g + 1) * (-o.cR + (g-1)/2*o.UR + s)
		c := 2 / (g + 1) * (o.cR - (g-1)/2*(o.UR-s))
		rho = o.RhoR * math.Pow(c/o.cR, 2/(g-1))
		p = o.PR * math.Pow(c/o.cR, 2*g/(g-1))
		return rho, u, p
	}
}
