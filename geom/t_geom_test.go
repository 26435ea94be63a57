// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_vec01(tst *testing.T) {
	chk.PrintTitle("vec01")

	a := Vec3{1, 0, 0}
	b := Vec3{0, 1, 0}
	chk.Scalar(tst, "a.Dot(b)", 1e-15, a.Dot(b), 0)
	chk.Vector(tst, "a.Cross(b)", 1e-15, a.Cross(b)[:], []float64{0, 0, 1})
	chk.Scalar(tst, "a.Norm()", 1e-15, a.Norm(), 1)

	c := Vec3{3, 4, 0}
	chk.Scalar(tst, "c.Norm()", 1e-15, c.Norm(), 5)
	n := c.Normalized()
	if !n.IsUnit(1e-12) {
		tst.Errorf("normalized c is not unit: %v", n)
	}
}

func Test_angle01(tst *testing.T) {
	chk.PrintTitle("angle01")

	a := Deg(180)
	chk.Scalar(tst, "a.Rad()", 1e-12, a.Rad(), math.Pi)
	b := Rad(math.Pi / 2)
	chk.Scalar(tst, "b.Deg()", 1e-12, b.Deg(), 90)
	chk.Scalar(tst, "b.Sin()", 1e-12, b.Sin(), 1)
}

func Test_mat01(tst *testing.T) {
	chk.PrintTitle("mat01")

	rot := FromAxisAngle(Vec3{0, 0, 1}, Deg(90))
	v := rot.MulVec3(Vec3{1, 0, 0})
	chk.Vector(tst, "rot*ex", 1e-12, v[:], []float64{0, 1, 0})

	m := rot.To4(Vec3{1, 2, 3})
	inv := m.RigidInverse()
	id := m.MulMat4(inv)
	exp := Identity4()
	for i := 0; i < 4; i++ {
		chk.Vector(tst, "row", 1e-10, id[i][:], exp[i][:])
	}

	p := Vec3{5, 6, 7}
	back := inv.MulPoint(m.MulPoint(p))
	chk.Vector(tst, "round-trip point", 1e-9, back[:], p[:])
}
