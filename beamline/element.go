// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package beamline

import (
	"encoding/binary"
	"math"

	"github.com/cpmech/rayx/behavior"
	"github.com/cpmech/rayx/cutout"
	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/surface"
)

// SlopeError holds the sag/meridional/thermal/cylindrical-bowing
// perturbation sigmas of §4.H step 5.
type SlopeError struct {
	Sag, Mer      float64
	Thermal       [3]float64
	CylBowing     [2]float64
}

// Element is the compiled, flat record consumed by the trace kernel,
// per §3's "flat record, 16-byte aligned, ~320 bytes" and the exact
// byte layout of §6. World-to-element is the RigidInverse of
// element-to-world, computed once here rather than per ray (§3's
// "inverse is stored to avoid per-ray inversion").
type Element struct {
	WorldToElement geom.Mat4
	ElementToWorld geom.Mat4
	Surface        surface.Record
	Cutout         cutout.Record
	Behavior       behavior.Record
	SlopeErr       SlopeError
	AzimuthalAngle float64
	// MaterialIndex is the coating material's atomic number Z (or -1 if
	// the element has none), looked up directly in the material.DB
	// returned alongside the compiled elements -- simpler than carrying
	// a second name->index table through to the trace kernel.
	MaterialIndex int32
	ObjectID      int32
}

// ElementWireSize is the fixed on-wire/on-disk byte size of §6: two
// 4x4 float64 matrices (256B) + Surface (68B) + Cutout (36B) +
// Behavior (60B) + 7 slope-error f32 (28B) + azimuthal_angle/
// material_index f32 pair (8B) = 456B, padded to the next 16-byte
// boundary. The overview table's "~320 bytes" is an approximation;
// the byte-offset breakdown is authoritative, mirroring how the Ray
// wire format's own discrepancy was resolved by trusting the explicit
// offsets over the rounded estimate.
const ElementWireSize = 464

func EncodeElementWire(e Element, buf []byte) {
	_ = buf[ElementWireSize-1]
	off := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(e.WorldToElement[r][c]))
			off += 8
		}
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(e.ElementToWorld[r][c]))
			off += 8
		}
	}
	binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(e.Surface.Tag)))
	off += 4
	for _, v := range e.Surface.Payload {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(e.Cutout.Tag)))
	off += 4
	for _, v := range e.Cutout.Payload {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(e.Behavior.Tag)))
	off += 4
	for _, v := range e.Behavior.Payload {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	slope := []float64{e.SlopeErr.Sag, e.SlopeErr.Mer, e.SlopeErr.Thermal[0], e.SlopeErr.Thermal[1], e.SlopeErr.Thermal[2], e.SlopeErr.CylBowing[0], e.SlopeErr.CylBowing[1]}
	for _, v := range slope {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(v)))
		off += 4
	}
	binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(e.AzimuthalAngle)))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(e.MaterialIndex)))
}

func DecodeElementWire(buf []byte) Element {
	_ = buf[ElementWireSize-1]
	var e Element
	off := 0
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			e.WorldToElement[r][c] = math.Float64frombits(binary.LittleEndian.Uint64(buf[off : off+8]))
			off += 8
		}
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			e.ElementToWorld[r][c] = math.Float64frombits(binary.LittleEndian.Uint64(buf[off : off+8]))
			off += 8
		}
	}
	e.Surface.Tag = surface.Tag(math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4])))
	off += 4
	for i := range e.Surface.Payload {
		e.Surface.Payload[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
		off += 4
	}
	e.Cutout.Tag = cutout.Tag(math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4])))
	off += 4
	for i := range e.Cutout.Payload {
		e.Cutout.Payload[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
		off += 4
	}
	e.Behavior.Tag = behavior.Tag(math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4])))
	off += 4
	for i := range e.Behavior.Payload {
		e.Behavior.Payload[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
		off += 4
	}
	var slope [7]float64
	for i := range slope {
		slope[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4])))
		off += 4
	}
	e.SlopeErr = SlopeError{Sag: slope[0], Mer: slope[1], Thermal: [3]float64{slope[2], slope[3], slope[4]}, CylBowing: [2]float64{slope[5], slope[6]}}
	e.AzimuthalAngle = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4])))
	off += 4
	e.MaterialIndex = int32(math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4])))
	return e
}
