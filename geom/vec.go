// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "math"

// Vec3 is a fixed-size 3-vector. The trace kernel is the hot path of this
// whole module (one invocation per ray per bounce), so it stays on fixed
// arrays rather than the teacher's dynamic la.MatAlloc/[]float64 slices:
// no heap allocation or bounds-checked slice indexing per component.
type Vec3 [3]float64

// Vec4 is a fixed-size homogeneous 4-vector (x, y, z, w).
type Vec4 [4]float64

// Dot returns the dot product, grounded on utl.Dot3d generalized to a
// fixed-size receiver.
func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the cross product v x o, grounded on utl.Cross3d.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Norm returns the Euclidean length.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized returns v scaled to unit length. Returns v unchanged if its
// norm is below eps to avoid dividing by ~0 on a degenerate ray.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n < 1e-300 {
		return v
	}
	return Vec3{v[0] / n, v[1] / n, v[2] / n}
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

// Scale returns v*s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

// IsUnit reports whether |v| is within eps of 1, the Ray.direction
// invariant required by §3 and testable property 1 of spec.md.
func (v Vec3) IsUnit(eps float64) bool {
	return math.Abs(v.Norm()-1) < eps
}

// To4 extends v to a Vec4 with the given w component.
func (v Vec3) To4(w float64) Vec4 { return Vec4{v[0], v[1], v[2], w} }

// XYZ drops the w component.
func (v Vec4) XYZ() Vec3 { return Vec3{v[0], v[1], v[2]} }
