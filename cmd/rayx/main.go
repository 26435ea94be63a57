// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// cmd/rayx is the trace-dispatch CLI, grounded on gofem/main.go's
// flag-parse + mpi.Start/Stop + deferred-recover shape, generalized
// from a finite-element simulation driver to a ray-trace dispatch
// driver. Per §6, input is a path to an already-compiled beamline (the
// RML/XML scene importer is external); this binary only drives
// compile -> dispatch -> record -> write.
package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cpmech/gosl/mpi"

	"github.com/cpmech/rayx/beamline"
	"github.com/cpmech/rayx/eventrec"
	"github.com/cpmech/rayx/internal/rayxerr"
	"github.com/cpmech/rayx/internal/rayxio"
	"github.com/cpmech/rayx/kernel"
	"github.com/cpmech/rayx/stage"
)

func main() {
	exitCode := 0
	defer func() {
		mpi.Stop(false)
		os.Exit(exitCode)
	}()
	mpi.Start(false)

	if mpi.Rank() == 0 {
		rayxio.Banner("RAY-X", "v1")
	}

	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				rayxio.Fatal("ERROR: %v\n", err)
			}
			exitCode = 4
		}
	}()

	var (
		sequential    = flag.Bool("sequential", false, "require elements to be hit in declared order")
		maxBounces    = flag.Int("max-bounces", 64, "maximum bounces per ray before NotEnoughBounces")
		seed          = flag.Uint64("seed", 0, "dispatch PRNG seed (overridden by RAYX_SEED)")
		batchSize     = flag.Int64("batch-size", stage.DefaultStagingBufferBytes, "staging buffer size in bytes")
		recordAttrs   = flag.String("record-attrs", "all", "comma-separated attribute names to record, or \"all\"")
		recordObjects = flag.String("record-objects", "all", "\"all\", \"none\", or comma-separated object ids")
		output        = flag.String("output", "", "output file path (.csv)")
		matFile       = flag.String("materials", "", "material database file")
		threads       = flag.Int("threads", 0, "compile-time worker count (0 = GOMAXPROCS)")
	)
	flag.Parse()

	if v := os.Getenv("RAYX_SEED"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			*seed = parsed
		}
	}

	if len(flag.Args()) == 0 {
		rayxio.Fatal("ERROR: please provide a beamline JSON file\n")
		exitCode = 1
		return
	}
	fnamepath := flag.Arg(0)

	bl, err := beamline.LoadJSON(fnamepath)
	if err != nil {
		rayxio.Fatal("ERROR: %v\n", err)
		exitCode = rayxerr.ExitCode(err)
		return
	}

	compiled, err := beamline.Compile(bl, *matFile, *seed, *threads)
	if err != nil {
		rayxio.Fatal("ERROR: %v\n", err)
		exitCode = rayxerr.ExitCode(err)
		return
	}
	rayxio.Info("rayx: compiled %d elements, %d rays, %d objects\n",
		len(compiled.Elements), len(compiled.Rays), compiled.NumObjects)

	cfg := kernel.Config{
		MaxBounces: *maxBounces,
		Sequential: *sequential,
		Seed:       *seed,
		Cancel:     new(atomic.Bool),
	}
	dispatch := &stage.Dispatch{
		Elements:           compiled.Elements,
		Materials:          compiled.Materials,
		Config:             cfg,
		StagingBufferBytes: *batchSize,
	}

	events := dispatch.Run(compiled.Rays)

	attrMask := parseAttrMask(*recordAttrs)
	mask := parseObjectMask(*recordObjects, compiled.NumObjects)
	soa := eventrec.Compact(events, attrMask, mask)
	rayxio.Info("rayx: recorded %d events over %d paths\n", soa.Len(), soa.NumPaths())

	if *output != "" {
		if err := writeOutput(*output, soa); err != nil {
			rayxio.Fatal("ERROR: %v\n", err)
			exitCode = rayxerr.ExitCode(err)
			return
		}
	}
}

func writeOutput(path string, soa *eventrec.SoA) error {
	if !strings.HasSuffix(path, ".csv") {
		return &rayxerr.IoError{Reason: "only .csv output is supported (HDF5 writer is an external collaborator)"}
	}
	blob := eventrec.WriteCSV(soa)
	if err := os.WriteFile(path, blob, 0644); err != nil {
		return &rayxerr.IoError{Reason: "cannot write output file " + path, Cause: err}
	}
	return nil
}

func parseAttrMask(spec string) eventrec.Attr {
	if spec == "" || spec == "all" {
		return eventrec.AttrAll
	}
	names := map[string]eventrec.Attr{
		"position":      eventrec.AttrPosition,
		"direction":     eventrec.AttrDirection,
		"energy":        eventrec.AttrEnergy,
		"field":         eventrec.AttrField,
		"path_length":   eventrec.AttrPathLength,
		"order":         eventrec.AttrOrder,
		"element_id":    eventrec.AttrElementID,
		"source_id":     eventrec.AttrSourceID,
		"object_id":     eventrec.AttrObjectID,
		"path_id":       eventrec.AttrPathID,
		"path_event_id": eventrec.AttrPathEventID,
	}
	var mask eventrec.Attr
	for _, tok := range strings.Split(spec, ",") {
		if a, ok := names[strings.TrimSpace(tok)]; ok {
			mask |= a
		}
	}
	return mask
}

func parseObjectMask(spec string, numObjects int) eventrec.ObjectMask {
	if spec == "" || spec == "all" {
		return eventrec.ObjectMask{}
	}
	if spec == "none" {
		return eventrec.ObjectMask{Sources: map[int32]bool{}, Elements: map[int32]bool{}}
	}
	ids := map[int32]bool{}
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if v, err := strconv.ParseInt(tok, 10, 32); err == nil {
			ids[int32(v)] = true
		}
	}
	_ = numObjects
	return eventrec.ObjectMask{Sources: ids, Elements: ids}
}
