// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/rayx/energydist"
	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/random"
	"github.com/cpmech/rayx/ray"
)

func commonFor(n int) Common {
	return Common{
		Width: 2, Height: 1, Depth: 0.1,
		HorDivergence: 0.01, VerDivergence: 0.01,
		EnergyDist: &energydist.HardEdge{Center: 100, Spread: 1},
		Stokes:     geom.Stokes{1, 0, 0, 0},
		NumRays:    n,
	}
}

func Test_matrix01(tst *testing.T) {
	chk.PrintTitle("matrix01")

	s := &MatrixSource{Common: commonFor(9)}
	rng := random.NewStream(1, 0)
	for i := 0; i < s.Count(); i++ {
		r := s.Generate(i, &rng)
		if r.Event != ray.Emitted {
			tst.Errorf("ray %d: event should be Emitted", i)
		}
		if r.LastElement != -1 {
			tst.Errorf("ray %d: LastElement should be -1 before any hit", i)
		}
		if !r.IsUnitDirection() {
			tst.Errorf("ray %d: direction should be normalized", i)
		}
	}
}

func Test_matrix_remainder01(tst *testing.T) {
	chk.PrintTitle("matrix_remainder01")

	s := &MatrixSource{Common: commonFor(10)} // 10 = 3*3 grid + 1 remainder
	rng := random.NewStream(2, 0)
	for i := 0; i < s.Count(); i++ {
		r := s.Generate(i, &rng)
		if !r.IsUnitDirection() {
			tst.Errorf("ray %d: direction should be normalized", i)
		}
	}
}

func Test_point01(tst *testing.T) {
	chk.PrintTitle("point01")

	s := &PointSource{Common: commonFor(1), WidthSpread: SpreadGaussian, HeightSpread: SpreadUniform}
	rng := random.NewStream(3, 0)
	for i := 0; i < 200; i++ {
		r := s.Generate(i, &rng)
		if math.Abs(r.Position[2]) > s.Depth/2+1e-9 {
			tst.Errorf("depth out of range: %v", r.Position[2])
		}
		if !r.IsUnitDirection() {
			tst.Error("direction should be normalized")
		}
	}
}

func Test_pixel01(tst *testing.T) {
	chk.PrintTitle("pixel01")

	s := &PixelSource{Common: commonFor(1)}
	rng := random.NewStream(4, 0)
	for i := 0; i < 500; i++ {
		r := s.Generate(i, &rng)
		x, y := r.Position[0], r.Position[1]
		inBandX := (x >= s.Width/6 && x <= s.Width/2) || (x <= -s.Width/6 && x >= -s.Width/2)
		inBandY := (y >= s.Height/6 && y <= s.Height/2) || (y <= -s.Height/6 && y >= -s.Height/2)
		if !inBandX {
			tst.Errorf("x=%v not in either outer third of width %v", x, s.Width)
		}
		if !inBandY {
			tst.Errorf("y=%v not in either outer third of height %v", y, s.Height)
		}
	}
}

func Test_circle01(tst *testing.T) {
	chk.PrintTitle("circle01")

	s := &CircleSource{
		Common:          commonFor(1),
		NumCircles:      3,
		MinOpeningAngle: geom.Rad(0.001),
		MaxOpeningAngle: geom.Rad(0.01),
	}
	rng := random.NewStream(5, 0)
	for i := 0; i < 200; i++ {
		r := s.Generate(i, &rng)
		if !r.IsUnitDirection() {
			tst.Error("direction should be normalized")
		}
		if r.Position != (geom.Vec3{0, 0, 0}) {
			tst.Error("circle source should emit from the origin")
		}
	}
}

func Test_undulator01(tst *testing.T) {
	chk.PrintTitle("undulator01")

	s := &SimpleUndulatorSource{Common: commonFor(1), LengthM: 2, Formula: UndulatorAccurate}
	rng := random.NewStream(6, 0)
	for i := 0; i < 200; i++ {
		r := s.Generate(i, &rng)
		if !r.IsUnitDirection() {
			tst.Error("direction should be normalized")
		}
	}
}

func Test_dipole01(tst *testing.T) {
	chk.PrintTitle("dipole01")

	s := &DipoleSource{
		Common:           commonFor(1),
		BendingRadiusM:   20,
		CriticalEnergyEV: 2000,
		ElectronGamma:    5000,
		OriginRangeM:     0.001,
		MaxPsi:           geom.Rad(0.001),
	}
	rng := random.NewStream(7, 0)
	var sumE float64
	n := 500
	for i := 0; i < n; i++ {
		r := s.Generate(i, &rng)
		if !r.IsUnitDirection() {
			tst.Error("direction should be normalized")
		}
		if r.EnergyEV <= 0 {
			tst.Errorf("energy should be positive, got %v", r.EnergyEV)
		}
		sumE += r.EnergyEV
	}
	mean := sumE / float64(n)
	if mean <= 0 || mean > 10*s.CriticalEnergyEV {
		tst.Errorf("mean dipole energy implausible: %v (critical=%v)", mean, s.CriticalEnergyEV)
	}
}

func Test_registry01(tst *testing.T) {
	chk.PrintTitle("registry01")

	names := []string{"matrix", "point", "pixel", "circle", "simple-undulator", "dipole"}
	for _, name := range names {
		s := New(name, commonFor(4), map[string]float64{})
		if s == nil {
			tst.Errorf("registry missing source %q", name)
		}
	}
	if New("no-such-source", commonFor(1), nil) != nil {
		tst.Error("unknown name should return nil")
	}
}

func Test_besselk01(tst *testing.T) {
	chk.PrintTitle("besselk01")

	tbl := newBesselKTable(1.0/3.0, 1e-4, 50, 256)
	direct := besselK(1.0/3.0, 1.0)
	interp := tbl.eval(1.0)
	rel := math.Abs(interp-direct) / direct
	if rel > 0.05 {
		tst.Errorf("table interpolation too far from direct integral: direct=%v interp=%v", direct, interp)
	}
}
