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

// CircleSource draws a direction that lands on one of NumCircles rings
// between [MinOpeningAngle, MaxOpeningAngle] with extra spread
// DeltaOpeningAngle, rotated by a uniform azimuth, per §4.F.
type CircleSource struct {
	Common
	NumCircles                          int
	MinOpeningAngle, MaxOpeningAngle     geom.Angle
	DeltaOpeningAngle                    geom.Angle
}

func (s *CircleSource) Count() int { return s.NumRays }

func (s *CircleSource) Generate(rayIndex int, rng *random.Stream) ray.Ray {
	n := s.NumCircles
	if n < 1 {
		n = 1
	}
	ring := rng.IntInRange(0, n-1)
	lo, hi := s.MinOpeningAngle.Rad(), s.MaxOpeningAngle.Rad()
	var ringAngle float64
	if n > 1 {
		ringAngle = lo + (hi-lo)*float64(ring)/float64(n-1)
	} else {
		ringAngle = lo
	}
	ringAngle += rng.UniformRange(-s.DeltaOpeningAngle.Rad()/2, s.DeltaOpeningAngle.Rad()/2)

	azimuth := rng.UniformRange(0, 2*math.Pi)
	dx := math.Sin(ringAngle) * math.Cos(azimuth)
	dz := math.Sin(ringAngle) * math.Sin(azimuth)
	dy := math.Cos(ringAngle)

	energyEV := s.EnergyDist.Draw(rng)
	horiz, vert, _ := baseVectors()
	field := geom.StokesToField(s.Stokes, horiz, vert)

	pos := geom.Vec3{0, 0, 0}
	dir := geom.Vec3{dx, dz, dy}
	r := newEmittedRay(int64(rayIndex), energyEV, pos, dir, field)
	return s.applyMisalignment(r)
}

func init() {
	register("circle", func(c Common, extras map[string]float64) Source {
		return &CircleSource{
			Common:             c,
			NumCircles:         int(extras["numCircles"]),
			MinOpeningAngle:    geom.Rad(extras["minOpeningAngle"]),
			MaxOpeningAngle:    geom.Rad(extras["maxOpeningAngle"]),
			DeltaOpeningAngle:  geom.Rad(extras["deltaOpeningAngle"]),
		}
	})
}
