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

// ElectronEnergyOrientation selects which way the dipole bends the
// electron beam, flipping the sign of the arc layout, per §4.F.
type ElectronEnergyOrientation int32

const (
	ElectronClockwise ElectronEnergyOrientation = iota
	ElectronCounterClockwise
)

// DipoleSource models bending-magnet radiation: origin from a truncated
// Gaussian-like rejection sample laid out along the bending arc, energy
// from the Schwinger spectrum, and vertical angle + Stokes vector from
// the folded angular intensity distribution, all via rejection sampling,
// per §4.F.
type DipoleSource struct {
	Common
	BendingRadiusM   float64
	CriticalEnergyEV float64
	ElectronGamma    float64 // electron Lorentz factor
	Orientation      ElectronEnergyOrientation
	OriginRangeM     float64 // range of the truncated-Gaussian origin sample
	MaxPsi           geom.Angle

	k13, k23 *besselKTable
}

func (s *DipoleSource) Count() int { return s.NumRays }

func (s *DipoleSource) ensureTables() {
	if s.k13 != nil {
		return
	}
	s.k13 = newBesselKTable(1.0/3.0, 1e-4, 50, 256)
	s.k23 = newBesselKTable(2.0/3.0, 1e-4, 50, 256)
}

// rejectionGaussianLike draws v in [-3*rangeM, 3*rangeM] whose density
// is proportional to exp(-0.5*(v/rangeM)^2), per §4.F.
func rejectionGaussianLike(rng *random.Stream, rangeM float64) float64 {
	if rangeM <= 0 {
		return 0
	}
	bound := 3 * rangeM
	for {
		v := rng.UniformRange(-bound, bound)
		p := math.Exp(-0.5 * (v / rangeM) * (v / rangeM))
		if rng.Uniform01() < p {
			return v
		}
	}
}

// schwingerSpectrum returns the (unnormalized) on-axis Schwinger
// spectral flux at y = E/Ec, proportional to y^2*K_2/3(y/2)^2 -- the
// psi=0 special case of the angular distribution in angularIntensity
// below, matching §4.F's "Bessel-K functions of orders 1/3 and 2/3".
func (s *DipoleSource) schwingerSpectrum(y float64) float64 {
	if y <= 0 {
		return 0
	}
	s.ensureTables()
	k := s.k23.eval(y / 2)
	return y * y * k * k
}

// schwingerPeak is a loose upper bound on schwingerSpectrum over
// y in (0, 10], used as the rejection-sampling envelope.
func (s *DipoleSource) schwingerPeak() float64 {
	peak := 0.0
	for _, y := range []float64{0.1, 0.2, 0.3, 0.5, 0.8, 1.2, 2, 4} {
		if v := s.schwingerSpectrum(y); v > peak {
			peak = v
		}
	}
	return peak * 1.5
}

func (s *DipoleSource) drawEnergy(rng *random.Stream) float64 {
	peak := s.schwingerPeak()
	if peak <= 0 || s.CriticalEnergyEV <= 0 {
		return s.CriticalEnergyEV
	}
	for {
		y := rng.UniformRange(0.01, 10)
		u := rng.UniformRange(0, peak)
		if u <= s.schwingerSpectrum(y) {
			return y * s.CriticalEnergyEV
		}
	}
}

// angularIntensity returns (sigma, pi) polarization intensities at
// reduced energy y and angle parameter gammaPsi = gamma*psi, following
// the Sokolov-Ternov / X-ray Data Booklet formulas:
//
//	xi = (y/2) * (1+gammaPsi^2)^{3/2}
//	I_sigma ~ y^2 (1+gammaPsi^2)^2 K_2/3(xi)^2
//	I_pi    ~ y^2 (1+gammaPsi^2)^2 * gammaPsi^2/(1+gammaPsi^2) * K_1/3(xi)^2
func (s *DipoleSource) angularIntensity(y, gammaPsi float64) (sigma, pi float64) {
	s.ensureTables()
	g2 := 1 + gammaPsi*gammaPsi
	xi := (y / 2) * math.Pow(g2, 1.5)
	k23 := s.k23.eval(xi)
	k13 := s.k13.eval(xi)
	sigma = y * y * g2 * g2 * k23 * k23
	pi = y * y * g2 * g2 * (gammaPsi * gammaPsi / g2) * k13 * k13
	return
}

// drawPsiAndStokes rejection-samples the vertical angle psi and builds
// the corresponding Stokes vector from the sigma/pi split, per §4.F.
func (s *DipoleSource) drawPsiAndStokes(rng *random.Stream, energyEV float64) (psi float64, stokes geom.Stokes) {
	y := energyEV / math.Max(s.CriticalEnergyEV, 1e-300)
	maxPsi := s.MaxPsi.Rad()
	if maxPsi <= 0 {
		maxPsi = 1e-3
	}
	peakSigma, _ := s.angularIntensity(y, 0)
	envelope := peakSigma * 1.5
	if envelope <= 0 {
		envelope = 1
	}
	for {
		psi = rng.UniformRange(-maxPsi, maxPsi)
		gammaPsi := s.ElectronGamma * psi
		sigma, pi := s.angularIntensity(y, gammaPsi)
		total := sigma + pi
		u := rng.UniformRange(0, envelope)
		if u <= total {
			i := total
			q := sigma - pi // linear polarization favors sigma (horizontal) over pi
			stokes = geom.Stokes{i, q, 0, 0}
			return
		}
	}
}

func (s *DipoleSource) Generate(rayIndex int, rng *random.Stream) ray.Ray {
	sign := 1.0
	if s.Orientation == ElectronCounterClockwise {
		sign = -1.0
	}

	arcOffset := rejectionGaussianLike(rng, s.OriginRangeM)
	arcAngle := sign * arcOffset / math.Max(s.BendingRadiusM, 1e-300)
	x := s.BendingRadiusM * math.Sin(arcAngle)
	z := s.BendingRadiusM * (1 - math.Cos(arcAngle))
	y := rejectionGaussianLike(rng, s.OriginRangeM*0.1)

	energyEV := s.drawEnergy(rng)
	psi, stokes := s.drawPsiAndStokes(rng, energyEV)

	horiz, vert, _ := baseVectors()
	field := geom.StokesToField(stokes, horiz, vert)

	dir := geom.Vec3{0, math.Sin(psi), math.Cos(psi)}
	pos := geom.Vec3{x, y, z}
	r := newEmittedRay(int64(rayIndex), energyEV, pos, dir, field)
	return s.applyMisalignment(r)
}

func init() {
	register("dipole", func(c Common, extras map[string]float64) Source {
		return &DipoleSource{
			Common:           c,
			BendingRadiusM:   extras["bendingRadius"],
			CriticalEnergyEV: extras["criticalEnergy"],
			ElectronGamma:    extras["electronGamma"],
			Orientation:      ElectronEnergyOrientation(extras["orientation"]),
			OriginRangeM:     extras["originRange"],
			MaxPsi:           geom.Rad(extras["maxPsi"]),
		}
	})
}
