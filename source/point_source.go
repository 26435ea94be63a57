// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/random"
	"github.com/cpmech/rayx/ray"
)

// SpreadType chooses how a PointSource axis is drawn, per §4.F.
type SpreadType int32

const (
	SpreadUniform SpreadType = iota
	SpreadGaussian
)

func draw(rng *random.Stream, kind SpreadType, center, spread float64) float64 {
	if kind == SpreadGaussian {
		return rng.Normal(center, spread)
	}
	return rng.UniformRange(center-spread/2, center+spread/2)
}

// PointSource draws width/height/horizontal-divergence/vertical-divergence
// independently as Uniform or Gaussian; depth is always Uniform, per §4.F.
type PointSource struct {
	Common
	WidthSpread, HeightSpread, HorDivSpread, VerDivSpread SpreadType
}

func (s *PointSource) Count() int { return s.NumRays }

func (s *PointSource) Generate(rayIndex int, rng *random.Stream) ray.Ray {
	x := draw(rng, s.WidthSpread, 0, s.Width)
	y := draw(rng, s.HeightSpread, 0, s.Height)
	z := rng.UniformRange(-s.Depth/2, s.Depth/2)
	dx := draw(rng, s.HorDivSpread, 0, s.HorDivergence)
	dz := draw(rng, s.VerDivSpread, 0, s.VerDivergence)

	energyEV := s.EnergyDist.Draw(rng)
	horiz, vert, _ := baseVectors()
	field := geom.StokesToField(s.Stokes, horiz, vert)

	pos := geom.Vec3{x, y, z}
	dir := geom.Vec3{dx, dz, 1}
	r := newEmittedRay(int64(rayIndex), energyEV, pos, dir, field)
	return s.applyMisalignment(r)
}

func init() {
	register("point", func(c Common, extras map[string]float64) Source {
		return &PointSource{
			Common:        c,
			WidthSpread:   SpreadType(extras["widthSpread"]),
			HeightSpread:  SpreadType(extras["heightSpread"]),
			HorDivSpread:  SpreadType(extras["horDivSpread"]),
			VerDivSpread:  SpreadType(extras["verDivSpread"]),
		}
	})
}
