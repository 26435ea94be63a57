// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ray

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/rayx/geom"
)

func Test_wire01(tst *testing.T) {
	chk.PrintTitle("wire01")

	r := Ray{
		Position:    geom.Vec3{1, 2, 3},
		Direction:   geom.Vec3{0, 0, 1},
		EnergyEV:    318.0,
		Field:       geom.Field{complex(1, 2), complex(3, 4), complex(5, 6)},
		PathLength:  1234.5,
		Order:       -1,
		Event:       JustHitElement,
		LastElement: 7,
		SourceID:    2,
	}

	buf := make([]byte, WireSize)
	EncodeWire(r, buf)
	back := DecodeWire(buf)

	chk.Vector(tst, "position", 1e-12, back.Position[:], r.Position[:])
	chk.Vector(tst, "direction", 1e-12, back.Direction[:], r.Direction[:])
	chk.Scalar(tst, "energy", 1e-9, back.EnergyEV, r.EnergyEV)
	chk.Scalar(tst, "path_length", 1e-9, back.PathLength, r.PathLength)
	if back.Order != r.Order {
		tst.Errorf("order: got %d want %d", back.Order, r.Order)
	}
	if back.Event != r.Event {
		tst.Errorf("event: got %v want %v", back.Event, r.Event)
	}
	if back.LastElement != r.LastElement || back.SourceID != r.SourceID {
		tst.Errorf("ids did not round-trip")
	}
	for i := 0; i < 3; i++ {
		if real(back.Field[i]) != real(r.Field[i]) || imag(back.Field[i]) != imag(r.Field[i]) {
			tst.Errorf("field[%d] did not round-trip", i)
		}
	}
}

func Test_unitdir01(tst *testing.T) {
	chk.PrintTitle("unitdir01")

	r := Ray{Direction: geom.Vec3{1, 0, 0}}
	if !r.IsUnitDirection() {
		tst.Error("unit direction should pass")
	}
	r.Direction = geom.Vec3{2, 0, 0}
	if r.IsUnitDirection() {
		tst.Error("non-unit direction should fail")
	}
}
