// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ray

import (
	"encoding/binary"
	"math"
)

// WireSize is the fixed Ray wire size of §6. Summing position(3 f64) +
// event_type(f32) + direction(3 f64) + energy(f64) + field(6 f64) +
// path_length(f64) + order(f32) + last_element(f32) + source_id(f32)
// already totals exactly 128 bytes (24+4+24+8+48+8+4+4+4); adding the
// trailing pad(f32) some versions carry would overflow to 132. Open
// question (c) of spec.md §9 is resolved by fixing the layout at 128
// bytes and dropping the separate pad field -- source_id is the last
// field on the wire.
const WireSize = 128

// EncodeWire packs r into the fixed 128-byte wire layout.
func EncodeWire(r Ray, buf []byte) {
	_ = buf[WireSize-1]
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(r.Position[0]))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(r.Position[1]))
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(r.Position[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(float32(r.Event)))
	binary.LittleEndian.PutUint64(buf[28:36], math.Float64bits(r.Direction[0]))
	binary.LittleEndian.PutUint64(buf[36:44], math.Float64bits(r.Direction[1]))
	binary.LittleEndian.PutUint64(buf[44:52], math.Float64bits(r.Direction[2]))
	binary.LittleEndian.PutUint64(buf[52:60], math.Float64bits(r.EnergyEV))
	for i := 0; i < 3; i++ {
		off := 60 + i*16
		binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(real(r.Field[i])))
		binary.LittleEndian.PutUint64(buf[off+8:off+16], math.Float64bits(imag(r.Field[i])))
	}
	binary.LittleEndian.PutUint64(buf[108:116], math.Float64bits(r.PathLength))
	binary.LittleEndian.PutUint32(buf[116:120], math.Float32bits(float32(r.Order)))
	binary.LittleEndian.PutUint32(buf[120:124], math.Float32bits(float32(r.LastElement)))
	binary.LittleEndian.PutUint32(buf[124:128], math.Float32bits(float32(r.SourceID)))
	// bytes [128:128) would hold the trailing pad float if WireSize were
	// larger than the 128 bytes already consumed above; source_id is the
	// last field and the pad is implicitly the caller's zeroed buffer.
}

// DecodeWire unpacks a Ray from its fixed 128-byte wire layout.
func DecodeWire(buf []byte) Ray {
	_ = buf[WireSize-1]
	var r Ray
	r.Position[0] = math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8]))
	r.Position[1] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16]))
	r.Position[2] = math.Float64frombits(binary.LittleEndian.Uint64(buf[16:24]))
	r.Event = EventType(math.Float32frombits(binary.LittleEndian.Uint32(buf[24:28])))
	r.Direction[0] = math.Float64frombits(binary.LittleEndian.Uint64(buf[28:36]))
	r.Direction[1] = math.Float64frombits(binary.LittleEndian.Uint64(buf[36:44]))
	r.Direction[2] = math.Float64frombits(binary.LittleEndian.Uint64(buf[44:52]))
	r.EnergyEV = math.Float64frombits(binary.LittleEndian.Uint64(buf[52:60]))
	for i := 0; i < 3; i++ {
		off := 60 + i*16
		re := math.Float64frombits(binary.LittleEndian.Uint64(buf[off : off+8]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(buf[off+8 : off+16]))
		r.Field[i] = complex(re, im)
	}
	r.PathLength = math.Float64frombits(binary.LittleEndian.Uint64(buf[108:116]))
	r.Order = int32(math.Float32frombits(binary.LittleEndian.Uint32(buf[116:120])))
	r.LastElement = int32(math.Float32frombits(binary.LittleEndian.Uint32(buf[120:124])))
	r.SourceID = int32(math.Float32frombits(binary.LittleEndian.Uint32(buf[124:128])))
	return r
}
