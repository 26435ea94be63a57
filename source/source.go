// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package source implements the light sources of §4.F: MatrixSource,
// PointSource, PixelSource, CircleSource, SimpleUndulatorSource and
// DipoleSource, each mapping (rayIndex -> Ray). Registered in an
// iallocators-style map exactly like fem/element.go's
// `elemType -> allocator`, generalized from element formulations to
// source kinds.
package source

import (
	"github.com/cpmech/rayx/energydist"
	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/random"
	"github.com/cpmech/rayx/ray"
)

// Misalignment perturbs a source's nominal frame, per §4.F.
type Misalignment struct {
	Translation geom.Vec3
	Rotation    geom.Mat3
}

// Common holds the parameters shared by every source kind.
type Common struct {
	Width, Height, Depth float64
	HorDivergence        float64
	VerDivergence        float64
	EnergyDist           energydist.Distribution
	Stokes               geom.Stokes
	Misalign             Misalignment
	NumRays              int
}

// Source materializes rays for one DesignSource leaf of the beamline.
// Generate must be a pure function of rayIndex and the source's private
// PRNG stream so that two dispatches with the same seed reproduce the
// same bundle (§5 determinism), stamping source_id/event/path fields per
// compileSources' contract in §4.G.
type Source interface {
	Generate(rayIndex int, rng *random.Stream) ray.Ray
	Count() int
}

// allocators holds all available source kinds; kind name => allocator,
// mirroring fem/element.go's iallocators map.
var allocators = map[string]func(Common, map[string]float64) Source{}

func register(name string, alloc func(Common, map[string]float64) Source) {
	allocators[name] = alloc
}

// New looks up a registered source kind by name and builds it from the
// common parameters plus kind-specific extras (read by enum-indexed
// access per spec.md §3's DesignMap design note -- unknown extras are
// simply unused here since each constructor reads only the keys it
// knows about).
func New(kind string, common Common, extras map[string]float64) Source {
	alloc, ok := allocators[kind]
	if !ok {
		return nil
	}
	return alloc(common, extras)
}

// baseVectors returns the local (horizontal, vertical, propagation)
// frame for a source emitting along +z, used to turn a drawn Stokes
// vector into a complex field.
func baseVectors() (horiz, vert, prop geom.Vec3) {
	return geom.Vec3{1, 0, 0}, geom.Vec3{0, 1, 0}, geom.Vec3{0, 0, 1}
}

// applyMisalignment rotates+translates a locally-generated ray into the
// source's (still source-local, pre-world-transform) frame, clamping
// |direction|=1 per §4.F's "All sources clamp |direction|=1 after
// applying the parent world orientation."
func (c Common) applyMisalignment(r ray.Ray) ray.Ray {
	rot := c.Misalign.Rotation
	if rot == (geom.Mat3{}) {
		// a zero-value Misalignment means no rotation
		rot = geom.Identity3()
	}
	r.Position = rot.MulVec3(r.Position).Add(c.Misalign.Translation)
	r.Direction = rot.MulVec3(r.Direction).Normalized()
	return r
}

func newEmittedRay(pathID int64, energyEV float64, pos, dir geom.Vec3, field geom.Field) ray.Ray {
	return ray.Ray{
		Position:    pos,
		Direction:   dir.Normalized(),
		EnergyEV:    energyEV,
		Field:       field,
		PathLength:  0,
		Order:       0,
		Event:       ray.Emitted,
		LastElement: -1,
		PathID:      pathID,
		PathEventID: 0,
	}
}
