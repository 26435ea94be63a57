// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package behavior

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/rayx/cutout"
)

func Test_grating01(tst *testing.T) {
	chk.PrintTitle("grating01")

	g := Grating{VLS: [6]float64{1, 2, 3, 4, 5, 6}, LineDensity: 1200, Order: 1}
	r := g.Serialize()
	if r.Tag != TagGrating {
		tst.Errorf("tag: got %v want %v", r.Tag, TagGrating)
	}
	back := DeserializeGrating(r)
	chk.Vector(tst, "VLS", 1e-6, back.VLS[:], g.VLS[:])
	chk.Scalar(tst, "LineDensity", 1e-3, back.LineDensity, g.LineDensity)
	if back.Order != g.Order {
		tst.Errorf("Order: got %d want %d", back.Order, g.Order)
	}
}

func Test_rzp01(tst *testing.T) {
	chk.PrintTitle("rzp01")

	z := RZP{
		ImageType: 1, Type: 2, DerivMethod: 1, AdditionalOrder: 2,
		DesignType: RZPDesignTypeBeta, DesignWavelength: 1.2e-6,
		DesignOrder: 1, Order: 1, FresnelZOffset: 0.5,
		ArmLengths: [4]float64{10, 20, 30, 40}, DesignAlpha: 0.1, DesignBeta: 0.2,
	}
	r := z.Serialize()
	back := DeserializeRZP(r)

	if back.DerivMethod != z.DerivMethod {
		tst.Errorf("DerivMethod: got %v want %v", back.DerivMethod, z.DerivMethod)
	}
	if back.AdditionalOrder != z.AdditionalOrder {
		tst.Errorf("AdditionalOrder: got %d want %d", back.AdditionalOrder, z.AdditionalOrder)
	}
	if back.DesignType != z.DesignType {
		tst.Errorf("DesignType: got %v want %v", back.DesignType, z.DesignType)
	}
	chk.Scalar(tst, "FresnelZOffset", 1e-6, back.FresnelZOffset, z.FresnelZOffset)
	chk.Vector(tst, "ArmLengths", 1e-3, back.ArmLengths[:], z.ArmLengths[:])
}

func Test_slit01(tst *testing.T) {
	chk.PrintTitle("slit01")

	bs := cutout.Rect{W: 1, L: 1}.Serialize()
	s := Slit{Beamstop: bs}
	r := s.Serialize()
	back := DeserializeSlit(r)
	if back.Beamstop.Tag != bs.Tag {
		tst.Errorf("beamstop tag: got %v want %v", back.Beamstop.Tag, bs.Tag)
	}
	chk.Vector(tst, "beamstop payload", 1e-6,
		float32sToFloat64s(back.Beamstop.Payload[:]), float32sToFloat64s(bs.Payload[:]))
}

func float32sToFloat64s(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func Test_crystal01(tst *testing.T) {
	chk.PrintTitle("crystal01")

	c := Crystal{DSpacingSquared: 3.14, UnitCellVolume: 160, OffsetAngle: 0.01,
		StructureFactors: [6]float64{1, 2, 3, 4, 5, 6}}
	r := c.Serialize()
	back := DeserializeCrystal(r)
	chk.Scalar(tst, "DSpacingSquared", 1e-4, back.DSpacingSquared, c.DSpacingSquared)
	chk.Vector(tst, "StructureFactors", 1e-4, back.StructureFactors[:], c.StructureFactors[:])
}
