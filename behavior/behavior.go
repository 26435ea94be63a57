// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package behavior implements the tagged Behavior variants of §3/§4.H:
// what an element does to a ray once a surface hit has been found and
// clipped: Mirror, Grating, RZP, Slit, Crystal, ImagePlane, Absorb.
package behavior

import "github.com/cpmech/rayx/cutout"

// Tag identifies which Behavior variant a record holds.
type Tag int32

const (
	TagMirror Tag = iota
	TagGrating
	TagRZP
	TagSlit
	TagCrystal
	TagImagePlane
	TagAbsorb
)

// NumPayload is the number of float32 payload slots after the tag, per
// the 60-byte (1 tag + 14 payload) record of §6.
const NumPayload = 14

// Record is the fixed wire layout.
type Record struct {
	Tag     Tag
	Payload [NumPayload]float32
}

// Mirror reflects and applies Fresnel attenuation; no extra data.
type Mirror struct{}

// Grating applies the grating equation with a line density plus a
// variable-line-spacing (VLS) polynomial correction, per §3/§4.H.
type Grating struct {
	VLS         [6]float64
	LineDensity float64
	Order       int32
}

// RZPImageType/RZPType/RZPDerivMethod are the closed enums an RZP design
// chooses between; RAYX-Go resolves open question (b) of spec.md §9 by
// making the fresnelZOffset/designBetaAngle interplay an explicit enum
// (RZPDesignType) rather than an implicit flag.
type RZPImageType int32
type RZPType int32
type RZPDerivMethod int32
type RZPDesignType int32

const (
	RZPDesignTypeFresnel RZPDesignType = iota // fresnelZOffset is authoritative
	RZPDesignTypeBeta                         // designBetaAngle is authoritative
)

// RZP is a reflection zone plate: a curved diffractive surface with
// spatially varying line density, per §3/§4.H and the glossary.
type RZP struct {
	ImageType       RZPImageType
	Type            RZPType
	DerivMethod     RZPDerivMethod
	DesignType      RZPDesignType
	DesignWavelength float64
	// Order defaults resolve spec.md §9 open question (a): kept as an
	// explicit int32, matching DesignElement.h's integral designOrder
	// rather than the float alternative also present in the original.
	DesignOrder     int32
	Order           int32
	FresnelZOffset  float64
	ArmLengths      [4]float64 // (r1, r2, rho1, rho2) or equivalent fixed/image arm pair
	DesignAlpha     float64
	DesignBeta      float64
	// AdditionalOrder is added onto Order before kernel/apply.go's single
	// RZP diffraction solve; no second diffracted ray is produced. It
	// shares payload slot 2 with DerivMethod (compile-time-only after
	// line-density coefficients are derived) since the other 13 slots are
	// spoken for.
	AdditionalOrder int32
}

// Slit checks an opening cutout (accept) vs a beamstop cutout (absorb).
// The opening is the Element's own Cutout field (see beamline.Element);
// only the beamstop is carried here, since two full Cutout records
// (9 floats each) would overflow the 14-float payload. This resolves the
// otherwise-unspecified wire layout of Slit in a way that keeps every
// Behavior record within the fixed 60-byte budget.
type Slit struct {
	Beamstop cutout.Record
}

// Crystal performs Darwin-Prins two-beam diffraction, per §4.H.
type Crystal struct {
	DSpacingSquared   float64
	UnitCellVolume    float64
	OffsetAngle       float64
	StructureFactors  [6]float64 // real/imag pairs for 3 structure factors
}

// ImagePlane records and reflects position without changing direction.
type ImagePlane struct{}

// Absorb immediately terminates the ray with an Absorbed event.
type Absorb struct{}

func SerializeMirror() Record     { return Record{Tag: TagMirror} }
func SerializeImagePlane() Record { return Record{Tag: TagImagePlane} }
func SerializeAbsorb() Record     { return Record{Tag: TagAbsorb} }

func (g Grating) Serialize() Record {
	var r Record
	r.Tag = TagGrating
	for i, v := range g.VLS {
		r.Payload[i] = float32(v)
	}
	r.Payload[6] = float32(g.LineDensity)
	r.Payload[7] = float32(g.Order)
	return r
}

func DeserializeGrating(r Record) Grating {
	var g Grating
	for i := range g.VLS {
		g.VLS[i] = float64(r.Payload[i])
	}
	g.LineDensity = float64(r.Payload[6])
	g.Order = int32(r.Payload[7])
	return g
}

func (z RZP) Serialize() Record {
	var r Record
	r.Tag = TagRZP
	r.Payload[0] = float32(z.ImageType)
	r.Payload[1] = float32(z.Type)
	r.Payload[2] = float32(z.DerivMethod) + float32(z.AdditionalOrder)*100
	r.Payload[3] = float32(z.DesignType)
	r.Payload[4] = float32(z.DesignWavelength)
	r.Payload[5] = float32(z.DesignOrder)
	r.Payload[6] = float32(z.Order)
	r.Payload[7] = float32(z.FresnelZOffset)
	r.Payload[8] = float32(z.ArmLengths[0])
	r.Payload[9] = float32(z.ArmLengths[1])
	r.Payload[10] = float32(z.ArmLengths[2])
	r.Payload[11] = float32(z.ArmLengths[3])
	r.Payload[12] = float32(z.DesignAlpha)
	r.Payload[13] = float32(z.DesignBeta)
	return r
}

func DeserializeRZP(r Record) RZP {
	packed := int32(r.Payload[2])
	return RZP{
		ImageType:        RZPImageType(r.Payload[0]),
		Type:             RZPType(r.Payload[1]),
		DerivMethod:      RZPDerivMethod(packed % 100),
		AdditionalOrder:  packed / 100,
		DesignType:       RZPDesignType(r.Payload[3]),
		DesignWavelength: float64(r.Payload[4]),
		DesignOrder:      int32(r.Payload[5]),
		Order:            int32(r.Payload[6]),
		FresnelZOffset:   float64(r.Payload[7]),
		ArmLengths:       [4]float64{float64(r.Payload[8]), float64(r.Payload[9]), float64(r.Payload[10]), float64(r.Payload[11])},
		DesignAlpha:      float64(r.Payload[12]),
		DesignBeta:       float64(r.Payload[13]),
	}
}

func (s Slit) Serialize() Record {
	var r Record
	r.Tag = TagSlit
	r.Payload[0] = float32(s.Beamstop.Tag)
	for i, v := range s.Beamstop.Payload {
		r.Payload[1+i] = v
	}
	return r
}

func DeserializeSlit(r Record) Slit {
	var bs cutout.Record
	bs.Tag = cutout.Tag(r.Payload[0])
	for i := range bs.Payload {
		bs.Payload[i] = r.Payload[1+i]
	}
	return Slit{Beamstop: bs}
}

func (c Crystal) Serialize() Record {
	var r Record
	r.Tag = TagCrystal
	r.Payload[0] = float32(c.DSpacingSquared)
	r.Payload[1] = float32(c.UnitCellVolume)
	r.Payload[2] = float32(c.OffsetAngle)
	for i, v := range c.StructureFactors {
		r.Payload[3+i] = float32(v)
	}
	return r
}

func DeserializeCrystal(r Record) Crystal {
	var c Crystal
	c.DSpacingSquared = float64(r.Payload[0])
	c.UnitCellVolume = float64(r.Payload[1])
	c.OffsetAngle = float64(r.Payload[2])
	for i := range c.StructureFactors {
		c.StructureFactors[i] = float64(r.Payload[3+i])
	}
	return c
}
