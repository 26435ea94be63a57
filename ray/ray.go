// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ray implements the core Ray/EventType data model of §3,
// grounded on the original Shared/Ray.h and Shared/EventType.h.
package ray

import "github.com/cpmech/rayx/geom"

// EventType is the discriminated event kind of §3.
type EventType int32

const (
	Emitted EventType = iota
	JustHitElement
	Absorbed
	FlyOff
	BeyondHorizon
	NotEnoughBounces
	FatalError
	Uninit
)

func (e EventType) String() string {
	switch e {
	case Emitted:
		return "Emitted"
	case JustHitElement:
		return "JustHitElement"
	case Absorbed:
		return "Absorbed"
	case FlyOff:
		return "FlyOff"
	case BeyondHorizon:
		return "BeyondHorizon"
	case NotEnoughBounces:
		return "NotEnoughBounces"
	case FatalError:
		return "FatalError"
	case Uninit:
		return "Uninit"
	}
	return "Unknown"
}

// Ray is the SoA-friendly per-event record of §3.
type Ray struct {
	Position      geom.Vec3
	Direction     geom.Vec3
	EnergyEV      float64
	Field         geom.Field
	PathLength    float64
	Order         int32
	Event         EventType
	LastElement   int32
	SourceID      int32
	RNGState      uint64
	PathID        int64
	PathEventID   int32
}

// UnitEps is the tolerance for the |direction|=1 invariant of §3/§8.
const UnitEps = 1e-9

// IsUnitDirection checks testable property 1: "after any event,
// ||d|-1| < 1e-9".
func (r Ray) IsUnitDirection() bool {
	return r.Direction.IsUnit(UnitEps)
}
