// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"

	"github.com/cpmech/rayx/behavior"
	"github.com/cpmech/rayx/cutout"
	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/random"
)

// Clip reports whether the local-space hit point lies within the
// element's cutout. Most surfaces read (x, z) as the 2D cutout
// coordinates per §4.H step 3 ("x1, x2" in the cutout convention), but
// Slit and ImagePlane elements clip transverse to the beam instead of
// in the meridional plane, so they read (x, y).
func Clip(c cutout.Record, p geom.Vec3, tag behavior.Tag) bool {
	if tag == behavior.TagSlit || tag == behavior.TagImagePlane {
		return cutout.Accepts(c, p[0], p[1])
	}
	return cutout.Accepts(c, p[0], p[2])
}

// PerturbNormal samples two independent Gaussians with sigma (sag, mer)
// and tilts the surface normal about the two tangent axes, keeping the
// tangent basis orthonormal, per §4.H step 5 ("perturb the normal by
// sampling two Gaussians with sigma = (sag, mer); keep the tangent basis
// consistent").
func PerturbNormal(n geom.Vec3, sagSigma, merSigma float64, rng *random.Stream) geom.Vec3 {
	if sagSigma == 0 && merSigma == 0 {
		return n
	}
	tangent, bitangent := tangentBasis(n)
	dSag := rng.Normal(0, sagSigma)
	dMer := rng.Normal(0, merSigma)
	perturbed := n.Add(tangent.Scale(dSag)).Add(bitangent.Scale(dMer))
	return perturbed.Normalized()
}

// tangentBasis picks an orthonormal (tangent, bitangent) pair for normal
// n, choosing whichever world axis is least aligned with n to avoid the
// degenerate cross product.
func tangentBasis(n geom.Vec3) (t, b geom.Vec3) {
	ref := geom.Vec3{1, 0, 0}
	if math.Abs(n.Dot(ref)) > 0.9 {
		ref = geom.Vec3{0, 0, 1}
	}
	t = n.Cross(ref).Normalized()
	b = n.Cross(t).Normalized()
	return
}
