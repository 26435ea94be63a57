// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/rayx/behavior"
	"github.com/cpmech/rayx/beamline"
	"github.com/cpmech/rayx/cutout"
	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/material"
	"github.com/cpmech/rayx/random"
	"github.com/cpmech/rayx/ray"
	"github.com/cpmech/rayx/surface"
)

func Test_intersect_plane01(tst *testing.T) {
	chk.PrintTitle("intersect_plane01")

	s := surface.SerializePlane()
	hit := Intersect(s, geom.Vec3{0, 5, 0}, geom.Vec3{0, -1, 0})
	if !hit.Found {
		tst.Fatal("expected a hit on the plane")
	}
	chk.Scalar(tst, "t", 1e-12, hit.T, 5)
	chk.Vector(tst, "point", 1e-12, hit.Point[:], []float64{0, 0, 0})
	chk.Vector(tst, "normal", 1e-12, hit.Normal[:], []float64{0, 1, 0})
}

func Test_intersect_plane_miss01(tst *testing.T) {
	chk.PrintTitle("intersect_plane_miss01")

	s := surface.SerializePlane()
	hit := Intersect(s, geom.Vec3{0, 5, 0}, geom.Vec3{1, 0, 0})
	if hit.Found {
		tst.Error("a ray parallel to the plane should never hit")
	}
}

func Test_intersect_quadric01(tst *testing.T) {
	chk.PrintTitle("intersect_quadric01")

	const radius = 3.0
	q := surface.Quadric{A11: 1, A22: 1, A33: 1, A44: -radius * radius}
	s := q.Serialize()

	hit := Intersect(s, geom.Vec3{0, 0, -2 * radius}, geom.Vec3{0, 0, 1})
	if !hit.Found {
		tst.Fatal("expected a hit on the sphere")
	}
	chk.Scalar(tst, "t", 1e-9, hit.T, radius)
	chk.Vector(tst, "point", 1e-9, hit.Point[:], []float64{0, 0, -radius})
}

func Test_intersect_toroid01(tst *testing.T) {
	chk.PrintTitle("intersect_toroid01")

	to := surface.Toroid{LongRadius: 10, ShortRadius: 1}
	s := to.Serialize()

	hit := Intersect(s, geom.Vec3{10, 5, 0}, geom.Vec3{0, -1, 0})
	if !hit.Found {
		tst.Fatal("expected a hit on the toroid")
	}
	chk.Scalar(tst, "t", 1e-5, hit.T, 4)
}

func Test_intersect_cubic01(tst *testing.T) {
	chk.PrintTitle("intersect_cubic01")

	// pure quadric (b_ij == 0) should reduce to the same sphere root as
	// Test_intersect_quadric01.
	const radius = 2.0
	c := surface.Cubic{Quadric: surface.Quadric{A11: 1, A22: 1, A33: 1, A44: -radius * radius}}
	s := c.Serialize()

	hit := Intersect(s, geom.Vec3{0, 0, -2 * radius}, geom.Vec3{0, 0, 1})
	if !hit.Found {
		tst.Fatal("expected a hit on the degenerate cubic (== sphere)")
	}
	chk.Scalar(tst, "t", 1e-5, hit.T, radius)
}

func Test_clip01(tst *testing.T) {
	chk.PrintTitle("clip01")

	c := cutout.Rect{W: 2, L: 2}.Serialize()
	if !Clip(c, geom.Vec3{0.5, 99, 0.5}, behavior.TagMirror) {
		tst.Error("a mirror reads (x,z): point inside the rect cutout should clip-accept")
	}
	if Clip(c, geom.Vec3{5, 99, 0}, behavior.TagMirror) {
		tst.Error("a mirror reads (x,z): point outside the rect cutout should clip-reject")
	}
	if !Clip(c, geom.Vec3{0.5, 0.5, 99}, behavior.TagSlit) {
		tst.Error("a slit reads (x,y): point inside the opening should clip-accept")
	}
	if Clip(c, geom.Vec3{5, 0, 99}, behavior.TagSlit) {
		tst.Error("a slit reads (x,y): point outside the opening should clip-reject")
	}
}

func Test_perturbnormal01(tst *testing.T) {
	chk.PrintTitle("perturbnormal01")

	n := geom.Vec3{0, 1, 0}
	rng := random.NewStream(1, 1)

	same := PerturbNormal(n, 0, 0, &rng)
	chk.Vector(tst, "zero sigma leaves normal unchanged", 1e-12, same[:], n[:])

	perturbed := PerturbNormal(n, 0.01, 0.01, &rng)
	if math.Abs(perturbed.Norm()-1) > 1e-9 {
		tst.Errorf("perturbed normal should stay unit length, got norm=%v", perturbed.Norm())
	}
}

func Test_apply_mirror01(tst *testing.T) {
	chk.PrintTitle("apply_mirror01")

	hit := Hit{Normal: geom.Vec3{0, 1, 0}, Point: geom.Vec3{0, 0, 0}}
	dirIn := geom.Vec3{0, -1, 0}
	field := geom.Field{1, 0, 0}

	out := Apply(behavior.SerializeMirror(), hit, dirIn, field, 100, nil)
	if out.Absorbed {
		tst.Fatal("mirror should not absorb")
	}
	chk.Vector(tst, "reflected direction", 1e-12, out.Direction[:], []float64{0, 1, 0})
}

func Test_apply_mirror_withmaterial01(tst *testing.T) {
	chk.PrintTitle("apply_mirror_withmaterial01")

	mat := &material.Table{Entries: []material.Entry{{EnergyEV: 100, N: 0.9, K: 0.05}}}
	hit := Hit{Normal: geom.Vec3{0, 1, 0}, Point: geom.Vec3{0, 0, 0}}
	dirIn := geom.Vec3{0, -1, 0}
	field := geom.Field{1, 1, 0}

	out := Apply(behavior.SerializeMirror(), hit, dirIn, field, 100, mat)
	if out.Absorbed {
		tst.Fatal("mirror should not absorb")
	}
	if cAbs(out.Field[0]) >= cAbs(field[0]) {
		tst.Errorf("Fresnel attenuation should reduce field amplitude: in=%v out=%v", field[0], out.Field[0])
	}
}

func cAbs(c complex128) float64 { return math.Hypot(real(c), imag(c)) }

func Test_apply_absorb01(tst *testing.T) {
	chk.PrintTitle("apply_absorb01")

	out := Apply(behavior.SerializeAbsorb(), Hit{}, geom.Vec3{0, 0, 1}, geom.Field{}, 100, nil)
	if !out.Absorbed {
		tst.Error("absorb behavior should always absorb")
	}
}

func Test_apply_imageplane01(tst *testing.T) {
	chk.PrintTitle("apply_imageplane01")

	dirIn := geom.Vec3{0, 0, 1}
	out := Apply(behavior.SerializeImagePlane(), Hit{}, dirIn, geom.Field{1, 0, 0}, 100, nil)
	if out.Absorbed {
		tst.Fatal("image plane should not absorb")
	}
	chk.Vector(tst, "direction unchanged", 1e-12, out.Direction[:], dirIn[:])
}

func Test_apply_slit01(tst *testing.T) {
	chk.PrintTitle("apply_slit01")

	beamstop := cutout.Rect{W: 1, L: 1}.Serialize()
	slit := behavior.Slit{Beamstop: beamstop}.Serialize()

	open := Apply(slit, Hit{Point: geom.Vec3{5, 0, 5}}, geom.Vec3{0, 0, 1}, geom.Field{1, 0, 0}, 100, nil)
	if open.Absorbed {
		tst.Error("point outside the beamstop should pass through")
	}
	blocked := Apply(slit, Hit{Point: geom.Vec3{0, 0, 0}}, geom.Vec3{0, 0, 1}, geom.Field{1, 0, 0}, 100, nil)
	if !blocked.Absorbed {
		tst.Error("point inside the beamstop should be absorbed")
	}
}

// Test_traceone_s1 is a minimal version of spec.md's S1 scenario: a ray
// hits a single plane mirror head-on and flies off afterward.
func Test_traceone_s1(tst *testing.T) {
	chk.PrintTitle("traceone_s1")

	rot := geom.FromAxisAngle(geom.Vec3{1, 0, 0}, geom.Rad(math.Pi/2))
	elementToWorld := rot.To4(geom.Vec3{0, 0, 10})
	el := beamline.Element{
		WorldToElement: elementToWorld.RigidInverse(),
		ElementToWorld: elementToWorld,
		Surface:        surface.SerializePlane(),
		Cutout:         cutout.SerializeUnlimited(),
		Behavior:       behavior.SerializeMirror(),
		MaterialIndex:  -1,
		ObjectID:       0,
	}

	r := ray.Ray{
		Position:  geom.Vec3{0, 0, 0},
		Direction: geom.Vec3{0, 0, 1},
		EnergyEV:  100,
		Field:     geom.Field{1, 0, 0},
		Event:     ray.Emitted,
		LastElement: -1,
		SourceID:  0,
	}

	cfg := Config{MaxBounces: 5}
	events := TraceOne(r, []beamline.Element{el}, nil, cfg)
	if len(events) != 2 {
		tst.Fatalf("expected 2 events (hit + fly-off), got %d", len(events))
	}
	if events[0].Event != ray.JustHitElement {
		tst.Errorf("first event should be JustHitElement, got %v", events[0].Event)
	}
	if events[1].Event != ray.FlyOff {
		tst.Errorf("second event should be FlyOff, got %v", events[1].Event)
	}
	chk.Scalar(tst, "path length to the mirror", 1e-9, events[0].PathLength, 10)
}

// Test_traceone_beyondhorizon feeds intersectToroid a zero-length
// direction, which pins o+d*x to a single point for every x: the
// finite-difference derivative is then exactly zero on the very first
// Newton iteration, so the solve stalls without ever converging. That
// is the deterministic way to drive the non-convergent branch without
// depending on how many iterations a realistic grazing case needs.
func Test_traceone_beyondhorizon(tst *testing.T) {
	chk.PrintTitle("traceone_beyondhorizon")

	to := surface.Toroid{LongRadius: 10, ShortRadius: 1}
	hit := Intersect(to.Serialize(), geom.Vec3{0, 0, 0}, geom.Vec3{0, 0, 0})
	if hit.Found {
		tst.Fatal("a stalled Newton iteration must not report Found")
	}
	if !hit.BeyondHorizon {
		tst.Error("a stalled Newton iteration should be flagged BeyondHorizon, not an ordinary miss")
	}

	elementToWorld := geom.Identity3().To4(geom.Vec3{0, 0, 10})
	el := beamline.Element{
		WorldToElement: elementToWorld.RigidInverse(),
		ElementToWorld: elementToWorld,
		Surface:        to.Serialize(),
		Cutout:         cutout.SerializeUnlimited(),
		Behavior:       behavior.SerializeMirror(),
		MaterialIndex:  -1,
		ObjectID:       0,
	}
	r := ray.Ray{
		Position:    geom.Vec3{0, 0, 10},
		Direction:   geom.Vec3{0, 0, 0},
		EnergyEV:    100,
		Field:       geom.Field{1, 0, 0},
		Event:       ray.Emitted,
		LastElement: -1,
	}
	cfg := Config{MaxBounces: 5, Sequential: true}
	events := TraceOne(r, []beamline.Element{el}, nil, cfg)
	if len(events) != 1 {
		tst.Fatalf("expected exactly 1 event (straight to BeyondHorizon), got %d", len(events))
	}
	if events[0].Event != ray.BeyondHorizon {
		tst.Errorf("expected BeyondHorizon, got %v", events[0].Event)
	}
}

// Test_traceone_slit_opening is a minimal version of spec.md's S2
// scenario: the slit surface here is a z=0 quadric plane (normal
// incidence, beam along local z), so Clip's (x,y) convention for Slit
// elements lines up with a physically meaningful 2D opening instead of
// degenerating against the surface's own pinned coordinate.
func Test_traceone_slit_opening(tst *testing.T) {
	chk.PrintTitle("traceone_slit_opening")

	zPlane := surface.Quadric{A34: 1}.Serialize()
	elementToWorld := geom.Identity3().To4(geom.Vec3{0, 0, 100})
	slit := beamline.Element{
		WorldToElement: elementToWorld.RigidInverse(),
		ElementToWorld: elementToWorld,
		Surface:        zPlane,
		Cutout:         cutout.Rect{W: 3, L: 3}.Serialize(),
		Behavior:       behavior.Slit{Beamstop: cutout.Rect{W: 1, L: 1}.Serialize()}.Serialize(),
		MaterialIndex:  -1,
		ObjectID:       0,
	}
	cfg := Config{MaxBounces: 5, Sequential: true}
	base := ray.Ray{
		Direction:   geom.Vec3{0, 0, 1},
		EnergyEV:    100,
		Field:       geom.Field{1, 0, 0},
		Event:       ray.Emitted,
		LastElement: -1,
	}

	outsideOpening := base
	outsideOpening.Position = geom.Vec3{2, 2, 0}
	events := TraceOne(outsideOpening, []beamline.Element{slit}, nil, cfg)
	if len(events) != 1 || events[0].Event != ray.Absorbed {
		tst.Errorf("a point outside the opening should Absorb with a single event, got %d events ending in %v", len(events), events[len(events)-1].Event)
	}

	insideOpeningOutsideBeamstop := base
	insideOpeningOutsideBeamstop.Position = geom.Vec3{1.2, 1.2, 0}
	events = TraceOne(insideOpeningOutsideBeamstop, []beamline.Element{slit}, nil, cfg)
	if len(events) != 2 {
		tst.Fatalf("expected 2 events (hit + fly-off), got %d", len(events))
	}
	if events[0].Event != ray.JustHitElement || events[1].Event != ray.FlyOff {
		tst.Errorf("expected JustHitElement then FlyOff, got %v then %v", events[0].Event, events[1].Event)
	}

	insideBeamstop := base
	insideBeamstop.Position = geom.Vec3{0, 0, 0}
	events = TraceOne(insideBeamstop, []beamline.Element{slit}, nil, cfg)
	if len(events) != 1 || events[0].Event != ray.Absorbed {
		tst.Errorf("a point inside the beamstop should Absorb via applySlit, got %d events ending in %v", len(events), events[len(events)-1].Event)
	}
}
