// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"math"

	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/random"
	"github.com/cpmech/rayx/ray"
)

// MatrixSource emits rays on a deterministic floor(sqrt(N)) x floor(sqrt(N))
// grid spanning the source rectangle and divergence square; any remainder
// rays (N - k^2) reuse the first rays' origins with a freshly-drawn
// energy, per §4.F. The emitted field is scaled by 1/nRaysPerOrigin so
// total intensity per grid cell stays invariant to N.
type MatrixSource struct {
	Common
}

func (s *MatrixSource) Count() int { return s.NumRays }

func (s *MatrixSource) Generate(rayIndex int, rng *random.Stream) ray.Ray {
	k := int(math.Sqrt(float64(s.NumRays)))
	if k < 1 {
		k = 1
	}
	grid := k * k

	// remainder rays reuse the first rays' origins, cycling through the
	// grid if there happen to be more remainder rays than grid cells
	// (degenerate small-N case); every ray of an origin, the grid ray
	// included, is scaled by the number of rays sharing that origin.
	gridIndex := rayIndex % grid
	nRaysPerOrigin := float64(s.NumRays / grid)
	if gridIndex < s.NumRays%grid {
		nRaysPerOrigin++
	}

	ix := gridIndex % k
	iz := gridIndex / k

	var x, z float64
	if k > 1 {
		x = (float64(ix)/float64(k-1) - 0.5) * s.Width
		z = (float64(iz)/float64(k-1) - 0.5) * s.Height
	}

	// divergence grid reuses the same (ix, iz) indices over the
	// divergence square, per §4.F's "deterministic ... grid in the
	// source rectangle and divergence square".
	var dx, dz float64
	if k > 1 {
		dx = (float64(ix)/float64(k-1) - 0.5) * s.HorDivergence
		dz = (float64(iz)/float64(k-1) - 0.5) * s.VerDivergence
	}

	energyEV := s.EnergyDist.Draw(rng)
	horiz, vert, _ := baseVectors()
	field := geom.StokesToField(s.Stokes, horiz, vert).Scale(1 / nRaysPerOrigin)

	pos := geom.Vec3{x, z, 0}
	dir := geom.Vec3{dx, dz, 1}
	r := newEmittedRay(int64(rayIndex), energyEV, pos, dir, field)
	return s.applyMisalignment(r)
}

func init() {
	register("matrix", func(c Common, extras map[string]float64) Source {
		return &MatrixSource{Common: c}
	})
}
