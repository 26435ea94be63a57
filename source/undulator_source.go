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

// hcEVNM is Planck's constant times the speed of light, in eV*nm.
const hcEVNM = 1239.84198433

// UndulatorFormula selects which closed-form sigma approximation
// SimpleUndulatorSource uses, per §4.F.
type UndulatorFormula int32

const (
	UndulatorStandard UndulatorFormula = iota
	UndulatorAccurate
)

// SimpleUndulatorSource draws a Gaussian origin and divergence whose
// sigma are computed from the undulator length and photon wavelength,
// per §4.F.
type SimpleUndulatorSource struct {
	Common
	LengthM float64
	Formula UndulatorFormula
}

func (s *SimpleUndulatorSource) Count() int { return s.NumRays }

// wavelengthNM converts a photon energy in eV to a wavelength in nm.
func wavelengthNM(energyEV float64) float64 {
	if energyEV <= 0 {
		return 0
	}
	return hcEVNM / energyEV
}

// sigmas returns (sigma position in m, sigma divergence in rad) for a
// given wavelength and undulator length, per the "standard" or
// "accurate" closed-form approximation of §4.F.
func (s *SimpleUndulatorSource) sigmas(wavelengthM float64) (sigR, sigRPrime float64) {
	switch s.Formula {
	case UndulatorAccurate:
		// Accurate formula includes the well-known 2.740/0.69 correction
		// factors used to better match measured undulator brightness.
		sigR = 2.740 / (4 * math.Pi) * math.Sqrt(wavelengthM*s.LengthM)
		sigRPrime = 0.69 * math.Sqrt(wavelengthM/s.LengthM)
	default:
		sigR = math.Sqrt(2*wavelengthM*s.LengthM) / (2 * math.Pi)
		sigRPrime = math.Sqrt(wavelengthM / (2 * s.LengthM))
	}
	return
}

func (s *SimpleUndulatorSource) Generate(rayIndex int, rng *random.Stream) ray.Ray {
	energyEV := s.EnergyDist.Draw(rng)
	wavelengthM := wavelengthNM(energyEV) * 1e-9
	sigR, sigRPrime := s.sigmas(wavelengthM)

	x := rng.Normal(0, sigR)
	y := rng.Normal(0, sigR)
	dx := rng.Normal(0, sigRPrime)
	dz := rng.Normal(0, sigRPrime)

	horiz, vert, _ := baseVectors()
	field := geom.StokesToField(s.Stokes, horiz, vert)

	pos := geom.Vec3{x, y, 0}
	dir := geom.Vec3{dx, dz, 1}
	r := newEmittedRay(int64(rayIndex), energyEV, pos, dir, field)
	return s.applyMisalignment(r)
}

func init() {
	register("simple-undulator", func(c Common, extras map[string]float64) Source {
		return &SimpleUndulatorSource{
			Common:  c,
			LengthM: extras["length"],
			Formula: UndulatorFormula(extras["formula"]),
		}
	})
}
