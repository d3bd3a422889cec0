// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/SubrosaDG-dev/SubrosaDG-sub000/basis"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/ckpt"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/config"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/dgsolver"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/mesh"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/shape"
	"github.com/SubrosaDG-dev/SubrosaDG-sub000/view"
)

func main() {

	quiet := flag.Bool("quiet", false, "suppress progress output")
	flag.Parse()

	if !*quiet {
		io.PfWhite("\nSubrosaDG -- high-order discontinuous Galerkin flow solver\n\n")
	}

	var cfgpath string
	if len(flag.Args()) > 0 {
		cfgpath = flag.Arg(0)
	} else {
		io.PfRed("ERROR: please provide a run-configuration file. Ex.: cavity.json\n")
		os.Exit(1)
	}
	if io.FnExt(cfgpath) == "" {
		cfgpath += ".json"
	}

	if err := run(cfgpath, !*quiet); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgpath string, verbose bool) error {

	// configuration
	data, err := config.ReadData(cfgpath)
	if err != nil {
		return err
	}
	if data.Global.NumCPU > 0 {
		dgsolver.NumWorkers = data.Global.NumCPU
	}
	p := data.Global.Order

	// mesh ingest
	src, err := mesh.ReadFileSource(data.Global.MeshFile)
	if err != nil {
		return err
	}
	dim := src.Dim()
	msh, err := mesh.Ingest(src, src.Shapes(), dim, p)
	if err != nil {
		return err
	}
	if err := data.ResolveMesh(msh); err != nil {
		return err
	}
	if verbose {
		io.Pf("mesh: %d elements, dim %d, order %d\n", msh.NumElements(), dim, p)
	}

	// solver configuration
	cfg, err := data.SolverConfig(dim, data.DummyStates(dim), nil)
	if err != nil {
		return err
	}
	layout := cfg.Layout
	nbFor := func(s shape.Tag) int { return basis.Get(s, p).Nb }
	needGrad := cfg.Viscous || cfg.Shock != nil
	sol := dgsolver.NewSolution(msh, layout.Nc(), dim, needGrad, cfg.BR2, nbFor)

	// initial condition
	lc := data.LoopConfig()
	switch data.Initial.Type {
	case "", "freestream":
		prim := data.Initial.Primitive
		if len(prim) < dim+2 {
			return chk.Err("initial: freestream needs %d primitive values, got %d", dim+2, len(prim))
		}
		dgsolver.InitializeFromFunction(msh, sol, p, cfg.Model, layout, func(coord []float64) []float64 {
			return prim
		})
	case "file":
		pFile := data.Initial.FileOrder
		if pFile == 0 {
			pFile = p
		}
		if err := ckpt.LoadFile(data.Initial.File, msh, sol, p, pFile, dim, cfg.Viscous); err != nil {
			return err
		}
	case "laststep":
		path := ckpt.RawPath(data.Global.DirOut, data.Global.Prefix, lc.IStart)
		if err := ckpt.LoadFile(path, msh, sol, p, p, dim, cfg.Viscous); err != nil {
			return err
		}
	default:
		return chk.Err("initial: unknown initial-condition type %q", data.Initial.Type)
	}

	// time loop with asynchronous checkpointing
	writer := &ckpt.AsyncWriter{
		Outdir:  data.Global.DirOut,
		Prefix:  data.Global.Prefix,
		P:       p,
		Dim:     dim,
		Viscous: cfg.Viscous,
	}
	if verbose {
		io.Pf("running %d iterations\n", lc.IEnd-lc.IStart)
	}
	loopErr := dgsolver.RunLoop(msh, sol, p, dim, cfg, lc, writer)

	// visualization frames from the written checkpoints
	if lc.IOInterval > 0 {
		vw := &view.Writer{
			Dirout:      data.Global.DirOut,
			Prefix:      data.Global.Prefix,
			Model:       cfg.Model,
			Layout:      layout,
			Order:       p,
			Fields:      data.Output.Fields,
			GroupFields: data.GroupFieldsMap(),
		}
		var iters []int
		for it := lc.IStart + lc.IOInterval; it <= lc.IEnd; it += lc.IOInterval {
			iters = append(iters, it)
		}
		dt := lc.FixedDt
		if err := view.GenerateFromCheckpoints(vw, msh, iters, dim, cfg.Viscous, func(iter int) float64 {
			return float64(iter) * dt
		}); err != nil && verbose {
			io.Pforan("view: %v\n", err)
		}
	}

	if loopErr != nil {
		return loopErr
	}
	if verbose {
		io.Pf("done\n")
	}
	return nil
}
