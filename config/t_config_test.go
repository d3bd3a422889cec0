// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/bc"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/dgsolver"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/flux"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
)

const runJSON = `{
 "global": {
  "desc": "lid-driven cavity",
  "dirout": "/tmp/dgrun",
  "prefix": "cavity",
  "numcpu": 3,
  "verbose": true,
  "meshfile": "cavity.json",
  "order": 3
 },
 "physical": {
  "kind": "weakly-compressible",
  "c0": 10,
  "rho0": 1,
  "mu0": 0.025
 },
 "numerics": {
  "riemann": "exactacoustic",
  "rk": "ssprk3",
  "viscous": true,
  "br2": true,
  "shock": true,
  "epsilon0": 1.5,
  "alpha": 0.5
 },
 "boundaries": [
  {"physindex": 20, "kind": "isothermalnonslipwall", "value": [1, 0, 0, 0.5]},
  {"physindex": 21, "kind": "adiabaticslipwall"},
  {"physindex": 22, "kind": "periodic"}
 ],
 "initial": {"type": "freestream", "primitive": [1, 0, 0, 0.5]},
 "time": {"istart": 0, "iend": 1000, "iointerval": 100, "cfl": 0.1},
 "output": {
  "fields": ["density", "velocity", "pressure"],
  "groups": [{"physindex": 20, "fields": ["heatflux"]}]
 }
}`

func writeRun(tst *testing.T, content string) string {
	path := filepath.Join(tst.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tst.Fatalf("cannot write run file: %v\n", err)
	}
	return path
}

func Test_read01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("read01. full run configuration")

	d, err := ReadData(writeRun(tst, runJSON))
	if err != nil {
		tst.Errorf("read failed: %v\n", err)
		return
	}

	chk.String(tst, d.Global.Prefix, "cavity")
	chk.IntAssert(d.Global.NumCPU, 3)
	chk.IntAssert(d.Global.Order, 3)

	m := d.Model()
	if m.Kind != phys.WeaklyCompressible {
		tst.Errorf("wrong model kind\n")
	}
	chk.Scalar(tst, "c0", 1e-15, m.C0, 10)
	chk.Scalar(tst, "p0", 1e-15, m.P0, 1)

	s, err := d.Scheme()
	if err != nil || s != flux.ExactAcoustic {
		tst.Errorf("wrong Riemann scheme: %v %v\n", s, err)
	}
	rk, err := d.RKScheme()
	if err != nil || rk != dgsolver.SSPRK3 {
		tst.Errorf("wrong RK scheme: %v %v\n", rk, err)
	}

	sp := d.ShockParams()
	if sp == nil {
		tst.Errorf("shock capturing must be enabled\n")
		return
	}
	chk.Scalar(tst, "epsilon0", 1e-15, sp.Epsilon0, 1.5)
	chk.Scalar(tst, "alpha", 1e-15, sp.Alpha, 0.5)

	lc := d.LoopConfig()
	chk.IntAssert(lc.IEnd, 1000)
	chk.IntAssert(lc.IOInterval, 100)

	kinds, err := d.BoundaryKindMap()
	if err != nil {
		tst.Errorf("boundary map failed: %v\n", err)
		return
	}
	chk.IntAssert(kinds[20], int(bc.IsoThermalNonSlipWall))
	chk.IntAssert(kinds[21], int(bc.AdiabaticSlipWall))
	chk.IntAssert(kinds[22], int(bc.Periodic))

	gf := d.GroupFieldsMap()
	chk.Strings(tst, "group fields", gf[20], []string{"heatflux"})
}

func Test_read02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("read02. defaults and failures")

	d, err := ReadData(writeRun(tst, `{"global": {"order": 1}}`))
	if err != nil {
		tst.Errorf("read failed: %v\n", err)
		return
	}
	s, err := d.Scheme()
	if err != nil || s != flux.Roe {
		tst.Errorf("default Riemann scheme must be Roe\n")
	}
	rk, err := d.RKScheme()
	if err != nil || rk != dgsolver.SSPRK3 {
		tst.Errorf("default RK scheme must be SSP-RK3\n")
	}
	if d.ShockParams() != nil {
		tst.Errorf("shock capturing must default to off\n")
	}

	// unknown names are configuration errors
	d, err = ReadData(writeRun(tst, `{"numerics": {"riemann": "upwindish"}}`))
	if err != nil {
		tst.Errorf("read failed: %v\n", err)
		return
	}
	if _, err = d.Scheme(); err == nil {
		tst.Errorf("unknown Riemann scheme must fail\n")
	}

	d, err = ReadData(writeRun(tst, `{"boundaries": [{"physindex": 1, "kind": "slippery"}]}`))
	if err != nil {
		tst.Errorf("read failed: %v\n", err)
		return
	}
	if _, err = d.BoundaryKindMap(); err == nil {
		tst.Errorf("unknown boundary kind must fail\n")
	}

	// malformed json
	if _, err = ReadData(writeRun(tst, `{"global": `)); err == nil {
		tst.Errorf("malformed file must fail\n")
	}
}

func Test_dummy01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dummy01. boundary dummy states from primitive values")

	d, err := ReadData(writeRun(tst, runJSON))
	if err != nil {
		tst.Errorf("read failed: %v\n", err)
		return
	}

	dummy := d.DummyStates(2)
	adj := &mesh.Adjacency{GmshPhysicalIndex: 20}
	s := dummy(adj, 0)
	chk.Scalar(tst, "rho", 1e-15, s.Rho, 1)
	chk.Vector(tst, "v", 1e-15, s.V, []float64{0, 0})
	m := d.Model()
	chk.Scalar(tst, "e", 1e-15, s.E, m.InternalEnergy(0.5))
	chk.Scalar(tst, "c", 1e-15, s.C, 10)
}
