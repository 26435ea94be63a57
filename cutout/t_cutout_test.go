// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cutout

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_rect01(tst *testing.T) {
	chk.PrintTitle("rect01")

	r := Rect{W: 3, L: 3}.Serialize()
	if !Accepts(r, 1, 1) {
		tst.Error("point inside 3x3 rect should be accepted")
	}
	if Accepts(r, 2, 0) {
		tst.Error("point outside 3x3 rect should be rejected")
	}
}

func Test_elliptical01(tst *testing.T) {
	chk.PrintTitle("elliptical01")

	r := Elliptical{Dx: 4, Dz: 2}.Serialize()
	if !Accepts(r, 0, 0) {
		tst.Error("center should be accepted")
	}
	if !Accepts(r, 2, 0) {
		tst.Error("point on the dx semi-axis should be accepted")
	}
	if Accepts(r, 2.1, 0) {
		tst.Error("point just past the dx semi-axis should be rejected")
	}
}

func Test_trapezoid01(tst *testing.T) {
	chk.PrintTitle("trapezoid01")

	r := Trapezoid{WA: 2, WB: 6, L: 10}.Serialize()
	if !Accepts(r, 0, -5) {
		tst.Error("center of the narrow edge should be accepted")
	}
	if Accepts(r, 2, -5) {
		tst.Error("point outside the narrow edge should be rejected")
	}
	if !Accepts(r, 2, 5) {
		tst.Error("point within the wide edge should be accepted")
	}
}

func Test_unlimited01(tst *testing.T) {
	chk.PrintTitle("unlimited01")

	r := SerializeUnlimited()
	if !Accepts(r, 1e6, -1e6) {
		tst.Error("unlimited cutout should accept any point")
	}
}
