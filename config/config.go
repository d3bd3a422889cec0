// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config implements the JSON run-configuration file the engine
// reads at startup: grouped json-tagged structs decoded with encoding/json.
// It owns the wiring step between mesh ingest and the per-boundary BC
// resolution the solver needs before the first step.
package config

import (
	"encoding/json"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/bc"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/dgsolver"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/field"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/flux"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/phys"
)

// GlobalData holds the run-level information of the "Environment and
// CLI": output location, thread count and progress verbosity.
type GlobalData struct {
	Desc     string `json:"desc"`     // description of the run
	DirOut   string `json:"dirout"`   // output directory; e.g. /tmp/dgsolver
	Prefix   string `json:"prefix"`   // filename prefix for raw/ and vtu/ outputs
	NumCPU   int    `json:"numcpu"`   // worker thread count, 0 => physical cores minus one
	Verbose  bool   `json:"verbose"`  // progress logging on stderr
	MeshFile string `json:"meshfile"` // geometric mesh file path
	Order    int    `json:"order"`    // polynomial order p
}

// PhysicalData selects the governing-equation kind and its thermodynamic
// parameters, mirroring phys.Model.GetPrms's named-parameter record.
type PhysicalData struct {
	Kind       string  `json:"kind"` // "compressible" or "weakly-compressible"
	Cv         float64 `json:"cv"`
	C0         float64 `json:"c0"`
	Rho0       float64 `json:"rho0"`
	Mu0        float64 `json:"mu0"`
	Sutherland bool    `json:"sutherland"`
}

// Params converts PhysicalData into the fun.Params record phys.Model.Init
// expects.
func (d PhysicalData) Params() fun.Params {
	var kind float64
	if d.Kind == "weakly-compressible" {
		kind = 1
	}
	var suth float64
	if d.Sutherland {
		suth = 1
	}
	return fun.Params{
		&fun.P{N: "kind", V: kind},
		&fun.P{N: "Cv", V: d.Cv},
		&fun.P{N: "C0", V: d.C0},
		&fun.P{N: "Rho0", V: d.Rho0},
		&fun.P{N: "Mu0", V: d.Mu0},
		&fun.P{N: "Sutherland", V: suth},
	}
}

// NumericsData selects the numerical-scheme block: the Riemann solver, the
// viscous lifting scheme, the RK time-integration scheme, and the optional
// shock-capturing knobs.
type NumericsData struct {
	Riemann  string  `json:"riemann"` // "central" "laxfriedrichs" "hllc" "roe" "exactacoustic"
	RK       string  `json:"rk"`      // "forwardeuler" "heun" "ssprk3"
	Viscous  bool    `json:"viscous"`
	BR2      bool    `json:"br2"` // true => BR2 per-face lift; false => BR1 global lift
	Shock    bool    `json:"shock"`
	Epsilon0 float64 `json:"epsilon0"`
	Alpha    float64 `json:"alpha"`
}

var riemannSchemes = map[string]flux.Scheme{
	"central":       flux.Central,
	"laxfriedrichs": flux.LaxFriedrichs,
	"hllc":          flux.HLLC,
	"roe":           flux.Roe,
	"exactacoustic": flux.ExactAcoustic,
}

var rkSchemes = map[string]dgsolver.RKScheme{
	"forwardeuler": dgsolver.ForwardEuler,
	"heun":         dgsolver.Heun,
	"ssprk3":       dgsolver.SSPRK3,
}

var bcKinds = map[string]bc.Kind{
	"riemannfarfield":       bc.RiemannFarfield,
	"velocityinflow":        bc.VelocityInflow,
	"pressureoutflow":       bc.PressureOutflow,
	"isothermalnonslipwall": bc.IsoThermalNonSlipWall,
	"adiabaticslipwall":     bc.AdiabaticSlipWall,
	"adiabaticnonslipwall":  bc.AdiabaticNonSlipWall,
	"periodic":              bc.Periodic,
}

// BoundaryEntry maps one gmsh physical index to a boundary-condition
// kind. A Periodic entry is informational only: periodic faces are resolved
// entirely at mesh ingest, never dispatched through bc.Evaluate.
type BoundaryEntry struct {
	PhysicalIndex int    `json:"physindex"`
	Kind          string `json:"kind"`

	// Value is the constant primitive dummy state (ρ, v..., T) supplied to
	// the boundary operator at every quadrature point of the group; kinds
	// that ignore the dummy state (e.g. adiabatic slip walls) may omit it.
	Value []float64 `json:"value"`
}

// TimeData holds the time-integration knobs.
type TimeData struct {
	IStart     int     `json:"istart"`
	IEnd       int     `json:"iend"`
	IOInterval int     `json:"iointerval"`
	CFL        float64 `json:"cfl"`
	FixedDt    float64 `json:"fixeddt"` // > 0 overrides the CFL estimate
}

// GroupOutput overrides the nodal field selection for one physical group.
type GroupOutput struct {
	PhysicalIndex int      `json:"physindex"`
	Fields        []string `json:"fields"`
}

// OutputData configures the view package's nodal field selection, globally
// and per physical group.
type OutputData struct {
	Fields []string      `json:"fields"` // "density" "velocity" "temperature" "pressure" "soundspeed" "mach" "entropy" "vorticity" "heatflux" "artificialviscosity"
	Groups []GroupOutput `json:"groups"`
}

// InitialData selects the initial-condition form: a constant freestream
// primitive state, a checkpoint file (possibly written at order p−1), or
// the last checkpoint at the run's start iteration.
type InitialData struct {
	Type      string    `json:"type"` // "freestream" "file" "laststep"
	Primitive []float64 `json:"primitive"`
	File      string    `json:"file"`
	FileOrder int       `json:"fileorder"` // 0 => same as the run's order
}

// Data is the top-level run configuration, decoded from a single JSON
// file.
type Data struct {
	Global     GlobalData      `json:"global"`
	Physical   PhysicalData    `json:"physical"`
	Numerics   NumericsData    `json:"numerics"`
	Boundaries []BoundaryEntry `json:"boundaries"`
	Initial    InitialData     `json:"initial"`
	Time       TimeData        `json:"time"`
	Output     OutputData      `json:"output"`
}

// ReadData reads and decodes a run-configuration file. A
// malformed file is the "malformed configuration" fatal error,
// returned rather than panicked so the caller can abort before the first
// step with a descriptive exit.
func ReadData(path string) (*Data, error) {
	b, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("config: cannot read configuration file %q: %v", path, err)
	}
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, chk.Err("config: cannot unmarshal configuration file %q: %v", path, err)
	}
	return &d, nil
}

// Model builds a phys.Model from the configuration's physical block.
func (d *Data) Model() phys.Model {
	var m phys.Model
	m.Init(d.Physical.Params())
	return m
}

// Layout builds the field.Layout the solver operates over.
func (d *Data) Layout(dim int) field.Layout {
	kind := phys.Compressible
	if d.Physical.Kind == "weakly-compressible" {
		kind = phys.WeaklyCompressible
	}
	return field.Layout{Dim: dim, Kind: kind}
}

// Scheme resolves the configured Riemann-solver name, defaulting to Roe
// when unset.
func (d *Data) Scheme() (flux.Scheme, error) {
	if d.Numerics.Riemann == "" {
		return flux.Roe, nil
	}
	s, ok := riemannSchemes[d.Numerics.Riemann]
	if !ok {
		return 0, chk.Err("config: unknown Riemann scheme %q", d.Numerics.Riemann)
	}
	return s, nil
}

// RKScheme resolves the configured time-integration scheme, defaulting to
// SSP-RK3 when unset.
func (d *Data) RKScheme() (dgsolver.RKScheme, error) {
	if d.Numerics.RK == "" {
		return dgsolver.SSPRK3, nil
	}
	s, ok := rkSchemes[d.Numerics.RK]
	if !ok {
		return 0, chk.Err("config: unknown RK scheme %q", d.Numerics.RK)
	}
	return s, nil
}

// ShockParams builds the artificial-viscosity knobs when shock-capturing is
// enabled, or nil otherwise (dgsolver.Config.Shock == nil disables it).
func (d *Data) ShockParams() *dgsolver.ShockParams {
	if !d.Numerics.Shock {
		return nil
	}
	return &dgsolver.ShockParams{Epsilon0: d.Numerics.Epsilon0, Alpha: d.Numerics.Alpha}
}

// BoundaryKindMap converts the configuration's boundary-entry list into the
// gmsh-physical-index -> bc.Kind map mesh.Mesh.ResolveBoundaryConditions
// expects, erroring on an unknown kind name before the first step runs.
func (d *Data) BoundaryKindMap() (map[int]int, error) {
	out := map[int]int{}
	for _, be := range d.Boundaries {
		k, ok := bcKinds[be.Kind]
		if !ok {
			return nil, chk.Err("config: unknown boundary-condition kind %q for physical index %d", be.Kind, be.PhysicalIndex)
		}
		out[be.PhysicalIndex] = int(k)
	}
	return out, nil
}

// ResolveMesh runs the configuration step on an ingested mesh: it
// builds the boundary-kind map from the configuration and stamps it onto
// every boundary adjacency via mesh.Mesh.ResolveBoundaryConditions.
func (d *Data) ResolveMesh(m *mesh.Mesh) error {
	kindMap, err := d.BoundaryKindMap()
	if err != nil {
		return err
	}
	return m.ResolveBoundaryConditions(kindMap)
}

// SolverConfig assembles a dgsolver.Config from the decoded data, given the
// boundary-dummy and source-term callbacks the caller's IC/BC wiring
// supplies.
func (d *Data) SolverConfig(dim int, dummy dgsolver.BoundaryDummy, source dgsolver.SourceTerm) (dgsolver.Config, error) {
	scheme, err := d.Scheme()
	if err != nil {
		return dgsolver.Config{}, err
	}
	rk, err := d.RKScheme()
	if err != nil {
		return dgsolver.Config{}, err
	}
	return dgsolver.Config{
		Model:   d.Model(),
		Layout:  d.Layout(dim),
		Scheme:  scheme,
		Viscous: d.Numerics.Viscous,
		BR2:     d.Numerics.BR2,
		Shock:   d.ShockParams(),
		RK:      rk,
		Dummy:   dummy,
		Source:  source,
	}, nil
}

// DummyStates builds the static boundary dummy-state callback from the
// per-group primitive values: each group's (ρ, v..., T) is converted to a
// computational state once and served at every quadrature point.
func (d *Data) DummyStates(dim int) dgsolver.BoundaryDummy {
	model := d.Model()
	states := map[int]flux.State{}
	for _, be := range d.Boundaries {
		s := flux.State{V: make([]float64, dim)}
		if len(be.Value) >= dim+2 {
			s.Rho = be.Value[0]
			for k := 0; k < dim; k++ {
				s.V[k] = be.Value[1+k]
			}
			s.E = model.InternalEnergy(be.Value[1+dim])
			s.P = model.Pressure(s.Rho, s.E)
			s.C = model.SoundSpeed(s.Rho, s.P)
		}
		states[be.PhysicalIndex] = s
	}
	return func(adj *mesh.Adjacency, j int) flux.State {
		return states[adj.GmshPhysicalIndex]
	}
}

// GroupFieldsMap converts the per-group output overrides into the map the
// view writer consumes.
func (d *Data) GroupFieldsMap() map[int][]string {
	out := map[int][]string{}
	for _, g := range d.Output.Groups {
		out[g.PhysicalIndex] = g.Fields
	}
	return out
}

// LoopConfig assembles the dgsolver.LoopConfig from the configuration's time
// block.
func (d *Data) LoopConfig() dgsolver.LoopConfig {
	return dgsolver.LoopConfig{
		IStart:     d.Time.IStart,
		IEnd:       d.Time.IEnd,
		IOInterval: d.Time.IOInterval,
		CFL:        d.Time.CFL,
		FixedDt:    d.Time.FixedDt,
	}
}
