// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dgsolver

import "github.com/cpmech/gosl/chk"

// RKScheme selects an explicit Strong-Stability-Preserving Runge-Kutta
// time-integration scheme.
type RKScheme int

const (
	ForwardEuler RKScheme = iota
	Heun
	SSPRK3
)

// rkStage holds one stage's (a, b, c) combine coefficients: U := a*U_last +
// b*U + c*dt*R*M⁻¹.
type rkStage struct{ a, b, c float64 }

var rkTables = map[RKScheme][]rkStage{
	ForwardEuler: {{1, 0, 1}},
	Heun:         {{1, 0, 1}, {0.5, 0.5, 0.5}},
	SSPRK3:       {{1, 0, 1}, {0.75, 0.25, 0.25}, {1.0 / 3, 2.0 / 3, 2.0 / 3}},
}

func rkStages(s RKScheme) []rkStage {
	stages, ok := rkTables[s]
	if !ok {
		chk.Panic("dgsolver: unknown RK scheme %v", s)
	}
	return stages
}
