// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"
	"math/cmplx"
)

// Field is the complex electric field triplet carried by every ray, per
// §3 ("complex electric field (3× complex f64)").
type Field [3]complex128

// Scale multiplies every component by a real factor, used by
// MatrixSource to divide intensity by nRaysPerOrigin (§4.F).
func (f Field) Scale(s float64) Field {
	return Field{f[0] * complex(s, 0), f[1] * complex(s, 0), f[2] * complex(s, 0)}
}

// Intensity returns sum(|f_i|^2), the optical intensity of the field.
func (f Field) Intensity() float64 {
	var sum float64
	for _, c := range f {
		a := cmplx.Abs(c)
		sum += a * a
	}
	return sum
}

// Stokes is a 4-real polarization descriptor (I, Q, U, V) per the
// glossary's "Stokes vector" entry.
type Stokes [4]float64

// StokesToField converts a Stokes vector to a complex electric field
// triplet expressed in the (horizontal, vertical) basis of the element's
// local frame: amplitude split comes from I and Q, relative phase
// between the two axes comes from U and V.
func StokesToField(s Stokes, horiz, vert Vec3) Field {
	i, q, u, v := s[0], s[1], s[2], s[3]
	if i <= 0 {
		return Field{}
	}
	ax := math.Sqrt(math.Max(0, 0.5*(i+q)))
	ay := math.Sqrt(math.Max(0, 0.5*(i-q)))
	var delta float64
	if ax > 1e-300 && ay > 1e-300 {
		delta = math.Atan2(v, u)
	}
	ex := complex(ax, 0)
	ey := complex(ay*math.Cos(delta), ay*math.Sin(delta))
	var f Field
	for k := 0; k < 3; k++ {
		f[k] = ex*complex(horiz[k], 0) + ey*complex(vert[k], 0)
	}
	return f
}

// FieldToStokes reads the x and y components of f, so it is the inverse
// of StokesToField when horiz and vert are the x and y axes.
func FieldToStokes(f Field) Stokes {
	ex, ey := f[0], f[1]
	ix := real(ex)*real(ex) + imag(ex)*imag(ex)
	iy := real(ey)*real(ey) + imag(ey)*imag(ey)
	cross := ex * cmplx.Conj(ey)
	return Stokes{ix + iy, ix - iy, 2 * real(cross), 2 * imag(cross)}
}
