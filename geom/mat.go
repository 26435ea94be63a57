// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// Mat3 is a row-major 3x3 matrix, used for rotations.
type Mat3 [3][3]float64

// Mat4 is a row-major 4x4 matrix, used for the world<->element affine
// transforms of §3/§6. Every Mat4 in this system is rigid (rotation +
// translation, no shear/scale), which is what lets RigidInverse below be a
// closed-form transpose-and-negate instead of general Gauss elimination --
// exactly the "inverse is stored to avoid per-ray inversion" requirement
// of §3, computed once at compile time rather than once per ray.
type Mat4 [4][4]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// MulMat3 returns m*o.
func (m Mat3) MulMat3(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += m[i][k] * o[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// MulVec3 returns m*v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Transpose3 returns the transpose of m.
func (m Mat3) Transpose3() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[j][i] = m[i][j]
		}
	}
	return r
}

// To4 embeds m as the rotation part of a Mat4 with the given translation.
func (m Mat3) To4(translation Vec3) Mat4 {
	var r Mat4
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j]
		}
		r[i][3] = translation[i]
	}
	r[3] = [4]float64{0, 0, 0, 1}
	return r
}

// MulMat4 returns m*o, as gofem's la.MatMul composes two matrices, here
// specialized to the fixed 4x4 affine case.
func (m Mat4) MulMat4(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += m[i][k] * o[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// MulVec4 returns m*v, the generalization of la.MatVecMul to a fixed 4x4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var r Vec4
	for i := 0; i < 4; i++ {
		r[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2] + m[i][3]*v[3]
	}
	return r
}

// MulPoint transforms a position (w=1) and returns the xyz part.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return m.MulVec4(p.To4(1)).XYZ()
}

// MulDir transforms a direction (w=0) and returns the xyz part.
func (m Mat4) MulDir(d Vec3) Vec3 {
	return m.MulVec4(d.To4(0)).XYZ()
}

// rotation3 extracts the upper-left 3x3 rotation block.
func (m Mat4) rotation3() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j]
		}
	}
	return r
}

// translation extracts the translation column.
func (m Mat4) translation() Vec3 {
	return Vec3{m[0][3], m[1][3], m[2][3]}
}

// RigidInverse returns the inverse of a rigid (rotation+translation)
// transform in closed form: R' = Rᵀ, t' = -Rᵀ*t. Element world<->local
// transforms built by beamline.compileElements are always rigid, so this
// replaces a per-ray general 4x4 inversion with a one-time transpose.
func (m Mat4) RigidInverse() Mat4 {
	rt := m.rotation3().Transpose3()
	t := rt.MulVec3(m.translation()).Scale(-1)
	return rt.To4(t)
}

// FromAxisAngle builds a rotation matrix for a right-handed rotation of
// `a` around a unit `axis`, via Rodrigues' formula.
func FromAxisAngle(axis Vec3, a Angle) Mat3 {
	axis = axis.Normalized()
	c, s := a.Cos(), a.Sin()
	x, y, z := axis[0], axis[1], axis[2]
	t := 1 - c
	return Mat3{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
	}
}
