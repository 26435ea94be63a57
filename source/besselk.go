// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import "math"

// besselK evaluates the modified Bessel function of the second kind
// K_nu(x) via its integral representation
//
//	K_nu(x) = int_0^inf exp(-x*cosh(t)) * cosh(nu*t) dt
//
// using fixed-step Simpson's rule. DipoleSource only ever needs this for
// nu in {1/3, 2/3} inside the Schwinger spectrum and the folded angular
// intensity integral of §4.F; the original C++ implementation notes
// "implementation may precompute a log-log table for the K-integral" --
// besselKTable below does exactly that.
func besselK(nu, x float64) float64 {
	if x <= 0 {
		return math.Inf(1)
	}
	const n = 400
	const tMax = 12.0
	h := tMax / n
	sum := 0.0
	for i := 0; i <= n; i++ {
		t := float64(i) * h
		w := simpsonWeight(i, n)
		sum += w * math.Exp(-x*math.Cosh(t)) * math.Cosh(nu*t)
	}
	return sum * h / 3
}

func simpsonWeight(i, n int) float64 {
	if i == 0 || i == n {
		return 1
	}
	if i%2 == 1 {
		return 4
	}
	return 2
}

// besselKTable memoizes besselK(nu, .) samples on a log-spaced grid and
// linearly interpolates in log-x, per the original's "precompute a
// log-log table" note. Not safe for concurrent writes to the same
// table; callers build one table per nu up front, read-only thereafter
// (mirroring how material tables are read-only during dispatch, §5).
type besselKTable struct {
	nu     float64
	logX   []float64
	logVal []float64
}

func newBesselKTable(nu float64, xMin, xMax float64, n int) *besselKTable {
	t := &besselKTable{nu: nu}
	if n < 2 {
		n = 2
	}
	logMin, logMax := math.Log(xMin), math.Log(xMax)
	step := (logMax - logMin) / float64(n-1)
	for i := 0; i < n; i++ {
		lx := logMin + step*float64(i)
		x := math.Exp(lx)
		v := besselK(nu, x)
		t.logX = append(t.logX, lx)
		t.logVal = append(t.logVal, math.Log(math.Max(v, 1e-300)))
	}
	return t
}

func (t *besselKTable) eval(x float64) float64 {
	if x <= 0 {
		return math.Inf(1)
	}
	lx := math.Log(x)
	if lx <= t.logX[0] {
		return math.Exp(t.logVal[0])
	}
	last := len(t.logX) - 1
	if lx >= t.logX[last] {
		return math.Exp(t.logVal[last])
	}
	lo, hi := 0, last
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if t.logX[mid] <= lx {
			lo = mid
		} else {
			hi = mid
		}
	}
	frac := (lx - t.logX[lo]) / (t.logX[hi] - t.logX[lo])
	return math.Exp(t.logVal[lo] + frac*(t.logVal[hi]-t.logVal[lo]))
}
