// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/random"
	"github.com/cpmech/rayx/ray"
)

// thirds draws a position for a dimension of full extent `w`: one of
// the two outer thirds [-w/2,-w/6] or [w/6,w/2], chosen with equal
// probability, per §4.F ("width/height drawn from 'Thirds' -- two bands
// at +-[w/6, w/2]").
func thirds(rng *random.Stream, w float64) float64 {
	band := rng.UniformRange(w/6, w/2)
	if rng.IntInRange(0, 1) == 0 {
		band = -band
	}
	return band
}

// PixelSource draws width/height from the Thirds distribution and
// divergences uniformly, per §4.F.
type PixelSource struct {
	Common
}

func (s *PixelSource) Count() int { return s.NumRays }

func (s *PixelSource) Generate(rayIndex int, rng *random.Stream) ray.Ray {
	x := thirds(rng, s.Width)
	y := thirds(rng, s.Height)
	dx := rng.UniformRange(-s.HorDivergence/2, s.HorDivergence/2)
	dz := rng.UniformRange(-s.VerDivergence/2, s.VerDivergence/2)

	energyEV := s.EnergyDist.Draw(rng)
	horiz, vert, _ := baseVectors()
	field := geom.StokesToField(s.Stokes, horiz, vert)

	pos := geom.Vec3{x, y, 0}
	dir := geom.Vec3{dx, dz, 1}
	r := newEmittedRay(int64(rayIndex), energyEV, pos, dir, field)
	return s.applyMisalignment(r)
}

func init() {
	register("pixel", func(c Common, extras map[string]float64) Source {
		return &PixelSource{Common: c}
	})
}
