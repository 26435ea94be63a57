// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geom implements the geometry primitives shared by every other
// rayx package: angles, fixed-size vectors/matrices, complex field
// triplets and the Stokes<->field conversion.
package geom

import "math"

// Angle holds an angle with an explicit, checked unit so degree/radian
// mixups (the single most common bug in beamline design data) cannot
// happen silently.
type Angle struct {
	rad float64
}

// Rad builds an Angle from a value already in radians.
func Rad(r float64) Angle { return Angle{rad: r} }

// Deg builds an Angle from a value in degrees.
func Deg(d float64) Angle { return Angle{rad: d * math.Pi / 180} }

// Rad returns the angle in radians.
func (a Angle) Rad() float64 { return a.rad }

// Deg returns the angle in degrees.
func (a Angle) Deg() float64 { return a.rad * 180 / math.Pi }

// Add returns a+b.
func (a Angle) Add(b Angle) Angle { return Angle{a.rad + b.rad} }

// Sub returns a-b.
func (a Angle) Sub(b Angle) Angle { return Angle{a.rad - b.rad} }

// Sin, Cos, Tan are shorthand for math.Sin/Cos/Tan(a.Rad()).
func (a Angle) Sin() float64 { return math.Sin(a.rad) }
func (a Angle) Cos() float64 { return math.Cos(a.rad) }
func (a Angle) Tan() float64 { return math.Tan(a.rad) }
