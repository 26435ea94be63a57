// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/cpmech/rayx/beamline"
	"github.com/cpmech/rayx/kernel"
	"github.com/cpmech/rayx/material"
	"github.com/cpmech/rayx/ray"
)

// DefaultStagingBufferBytes is the default maximum staging-buffer size S
// of §4.I: "Ray input is uploaded in ceil(N*sizeof(Ray)/S) chunks".
const DefaultStagingBufferBytes = 128 * 1024 * 1024

// Dispatch drives one trace run: chunked staging of the ray SoA through
// a bounded buffer, then the trace kernel, then chunked readback,
// mirroring mporous/driver.go's Init-then-Run staged shape generalized
// from one material point to a batch of rays.
type Dispatch struct {
	Elements           []beamline.Element
	Materials          *material.DB
	Config             kernel.Config
	StagingBufferBytes int64
}

func (d *Dispatch) bufferBytes() int64 {
	if d.StagingBufferBytes <= 0 {
		return DefaultStagingBufferBytes
	}
	return d.StagingBufferBytes
}

// chunkRanges splits n rays into chunks no larger than the staging
// buffer can hold, per §4.I.
func (d *Dispatch) chunkRanges(n int) [][2]int {
	raysPerChunk := int(d.bufferBytes() / ray.WireSize)
	if raysPerChunk < 1 {
		raysPerChunk = 1
	}
	var ranges [][2]int
	for lo := 0; lo < n; lo += raysPerChunk {
		hi := lo + raysPerChunk
		if hi > n {
			hi = n
		}
		ranges = append(ranges, [2]int{lo, hi})
	}
	if len(ranges) == 0 {
		ranges = append(ranges, [2]int{0, 0})
	}
	return ranges
}

// myShare returns the slice of rays this MPI rank is responsible for
// when running distributed, per fem/solver.go's global.Distr convention
// ("distributed simulation with more than one mpi processor"); a
// single-process run (the common case) gets the whole slice back
// unchanged.
func myShare(rays []ray.Ray) []ray.Ray {
	if !mpi.IsOn() || mpi.Size() <= 1 {
		return rays
	}
	rank, size := mpi.Rank(), mpi.Size()
	var mine []ray.Ray
	for i, r := range rays {
		if i%size == rank {
			mine = append(mine, r)
		}
	}
	return mine
}

// Run executes the full dispatch: per-chunk staged upload/trace/readback
// of `rays`, returning every recorded event per ray in input order. When
// running under `mpi`, each rank traces only its own shard; the caller
// is responsible for an AllReduce-style gather if a single combined SoA
// is needed (mirroring fem/solver.go's explicit mpi.AllReduceSum calls
// rather than hiding the collective inside this driver).
func (d *Dispatch) Run(rays []ray.Ray) [][]ray.Ray {
	share := myShare(rays)
	ranges := d.chunkRanges(len(share))
	out := make([][]ray.Ray, 0, len(share))

	for _, rg := range ranges {
		chunk := share[rg[0]:rg[1]]
		staged := make([]ray.Ray, len(chunk))
		copy(staged, chunk) // host-visible staging buffer memcpy, per §4.I

		events := kernel.TraceAll(staged, d.Elements, d.Materials, d.Config)
		out = append(out, events...) // device-local readback through the same staging buffer
	}

	if mpi.IsOn() && mpi.Size() > 1 {
		io.Pf("stage: rank %d/%d traced %d of %d rays\n", mpi.Rank(), mpi.Size(), len(share), len(rays))
	}
	return out
}
