// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cutout implements the tagged Cutout variants of §3/§4.H that
// clip an (infinite) Surface intersection to a finite 2D region.
package cutout

// Tag identifies which Cutout variant a record holds.
type Tag int32

const (
	TagRect Tag = iota
	TagElliptical
	TagTrapezoid
	TagUnlimited
)

// NumPayload is the number of float32 payload slots after the tag.
const NumPayload = 8

// Record is the fixed 36-byte wire layout (1 tag + 8 payload floats) of
// §6.
type Record struct {
	Tag     Tag
	Payload [NumPayload]float32
}

// Rect is a width x * length cutout centered at (0,0).
type Rect struct{ W, L float64 }

// Elliptical is an ellipse with diameters dx, dz, per §4.H's
// (2x1/d1)^2 + (2x2/d2)^2 <= 1.
type Elliptical struct{ Dx, Dz float64 }

// Trapezoid has parallel edges of length WA/WB separated by L, per §4.H.
type Trapezoid struct{ WA, WB, L float64 }

// Unlimited always accepts.
type Unlimited struct{}

func (c Rect) Serialize() Record {
	var r Record
	r.Tag = TagRect
	r.Payload[0] = float32(c.W)
	r.Payload[1] = float32(c.L)
	return r
}

func DeserializeRect(r Record) Rect {
	return Rect{W: float64(r.Payload[0]), L: float64(r.Payload[1])}
}

func (c Elliptical) Serialize() Record {
	var r Record
	r.Tag = TagElliptical
	r.Payload[0] = float32(c.Dx)
	r.Payload[1] = float32(c.Dz)
	return r
}

func DeserializeElliptical(r Record) Elliptical {
	return Elliptical{Dx: float64(r.Payload[0]), Dz: float64(r.Payload[1])}
}

func (c Trapezoid) Serialize() Record {
	var r Record
	r.Tag = TagTrapezoid
	r.Payload[0] = float32(c.WA)
	r.Payload[1] = float32(c.WB)
	r.Payload[2] = float32(c.L)
	return r
}

func DeserializeTrapezoid(r Record) Trapezoid {
	return Trapezoid{WA: float64(r.Payload[0]), WB: float64(r.Payload[1]), L: float64(r.Payload[2])}
}

func SerializeUnlimited() Record { return Record{Tag: TagUnlimited} }

// Accepts reports whether point (x1, x2) lies within the cutout, per the
// clipping rules of §4.H step 3.
func Accepts(r Record, x1, x2 float64) bool {
	switch r.Tag {
	case TagRect:
		c := DeserializeRect(r)
		return abs(x1) <= c.W/2 && abs(x2) <= c.L/2
	case TagElliptical:
		c := DeserializeElliptical(r)
		a := 2 * x1 / c.Dx
		b := 2 * x2 / c.Dz
		return a*a+b*b <= 1
	case TagTrapezoid:
		c := DeserializeTrapezoid(r)
		if abs(x2) > c.L/2 {
			return false
		}
		t := (x2 + c.L/2) / c.L
		width := lerp(c.WA, c.WB, t)
		return abs(x1) <= width/2
	case TagUnlimited:
		return true
	}
	return false
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
