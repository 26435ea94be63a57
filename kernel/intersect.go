// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package kernel implements the trace kernel of §2 component H / §4.H:
// the per-ray state machine that intersects a ray with an element's
// surface, clips to its cutout, perturbs by slope error and applies the
// element's behavior. Grounded on msolid/driver.go's update-state loop
// (find-state -> integrate -> check) generalized from a stress-update
// step to a ray-bounce step.
package kernel

import (
	"math"

	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/surface"
)

// hitEps is the tolerance below which an intersection parameter t is
// rejected as "behind the origin", per §4.H step 1 ("accept t > eps").
const hitEps = 1e-9

// Hit is one candidate intersection in element-local coordinates.
type Hit struct {
	T       float64
	Point   geom.Vec3
	Normal  geom.Vec3
	Found   bool
	// BeyondHorizon marks a toroid/cubic surface whose Newton iteration
	// failed to converge, as distinct from Found==false's "provably no
	// real root exists". TraceOne surfaces this as a ray.BeyondHorizon
	// event rather than folding it into an ordinary miss.
	BeyondHorizon bool
}

// Intersect dispatches on the surface tag and returns the nearest valid
// (t > hitEps) intersection of the local-space ray (o, d) with the
// surface, per §4.H step 1.
func Intersect(s surface.Record, o, d geom.Vec3) Hit {
	switch s.Tag {
	case surface.TagPlane:
		return intersectPlane(o, d)
	case surface.TagQuadric:
		return intersectQuadric(surface.DeserializeQuadric(s), o, d)
	case surface.TagToroid:
		return intersectToroid(surface.DeserializeToroid(s), o, d)
	case surface.TagCubic:
		return intersectCubic(surface.DeserializeCubic(s), o, d)
	}
	return Hit{}
}

// intersectPlane solves o.y + t*d.y = 0 for the y=0 plane, per §4.H.
func intersectPlane(o, d geom.Vec3) Hit {
	if math.Abs(d[1]) < 1e-15 {
		return Hit{}
	}
	t := -o[1] / d[1]
	if t <= hitEps {
		return Hit{}
	}
	p := o.Add(d.Scale(t))
	return Hit{T: t, Point: p, Normal: geom.Vec3{0, 1, 0}, Found: true}
}

// quadricValue evaluates the homogeneous quadric form at point p.
func quadricValue(q surface.Quadric, p geom.Vec3) float64 {
	x, y, z := p[0], p[1], p[2]
	return q.A11*x*x + 2*q.A12*x*y + 2*q.A13*x*z + 2*q.A14*x +
		q.A22*y*y + 2*q.A23*y*z + 2*q.A24*y +
		q.A33*z*z + 2*q.A34*z + q.A44
}

func quadricGradient(q surface.Quadric, p geom.Vec3) geom.Vec3 {
	x, y, z := p[0], p[1], p[2]
	return geom.Vec3{
		2*(q.A11*x + q.A12*y + q.A13*z + q.A14),
		2*(q.A12*x + q.A22*y + q.A23*z + q.A24),
		2*(q.A13*x + q.A23*y + q.A33*z + q.A34),
	}
}

// intersectQuadric solves the scalar quadratic F(o + t*d) = 0 in closed
// form, choosing the smallest positive root per §4.H step 1's "tie-break
// rules": of the (up to two) valid roots, the smaller positive t wins.
func intersectQuadric(q surface.Quadric, o, d geom.Vec3) Hit {
	// F(o+td) = A*t^2 + B*t + C, derived from the same bilinear form as
	// quadricValue but split by degree in t.
	a := quadricTermA(q, d)
	b := quadricTermB(q, o, d)
	c := quadricValue(q, o)
	if math.Abs(a) < 1e-15 {
		if math.Abs(b) < 1e-15 {
			return Hit{}
		}
		t := -c / b
		return finishQuadricHit(q, o, d, t)
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return Hit{}
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > hitEps {
		return finishQuadricHit(q, o, d, t1)
	}
	if t2 > hitEps {
		return finishQuadricHit(q, o, d, t2)
	}
	return Hit{}
}

func finishQuadricHit(q surface.Quadric, o, d geom.Vec3, t float64) Hit {
	if t <= hitEps {
		return Hit{}
	}
	p := o.Add(d.Scale(t))
	n := quadricGradient(q, p).Normalized()
	return Hit{T: t, Point: p, Normal: n, Found: true}
}

func quadricTermA(q surface.Quadric, d geom.Vec3) float64 {
	x, y, z := d[0], d[1], d[2]
	return q.A11*x*x + 2*q.A12*x*y + 2*q.A13*x*z + q.A22*y*y + 2*q.A23*y*z + q.A33*z*z
}

func quadricTermB(q surface.Quadric, o, d geom.Vec3) float64 {
	ox, oy, oz := o[0], o[1], o[2]
	dx, dy, dz := d[0], d[1], d[2]
	return 2*(q.A11*ox*dx + q.A12*(ox*dy+oy*dx) + q.A13*(ox*dz+oz*dx) + q.A14*dx +
		q.A22*oy*dy + q.A23*(oy*dz+oz*dy) + q.A24*dy +
		q.A33*oz*dz + q.A34*dz)
}

// toroidValue evaluates the implicit torus function
// (sqrt(x^2+z^2) - R)^2 + y^2 - r^2 of a torus with long radius R
// (in the xz plane) and short radius r (cross-section), signed so that
// the convex/concave Kind flips which side is "outside".
func toroidValue(t surface.Toroid, p geom.Vec3) float64 {
	rho := math.Hypot(p[0], p[2]) - t.LongRadius
	v := rho*rho + p[1]*p[1] - t.ShortRadius*t.ShortRadius
	if t.Kind == surface.ToroidConcave {
		return -v
	}
	return v
}

// intersectToroid finds the torus intersection by scalar Newton
// iteration on F(o+t*d)=0, seeded with t = (R + r - |o|) / |d| (raised
// to just above hitEps when that is not positive). A hand-rolled scalar iteration is used instead of gosl's
// num.NlSolver (msolid/driver.go's pattern): NlSolver operates on
// []float64 workspaces allocated per Init call, which would allocate on
// every single ray of a data-parallel dispatch; a torus root in one
// unknown needs none of that generality.
func intersectToroid(t surface.Toroid, o, d geom.Vec3) Hit {
	const maxIter = 50
	const tol = 1e-12
	guess := t.LongRadius + t.ShortRadius
	tGuess := (guess - o.Norm()) / math.Max(d.Norm(), 1e-300)
	if tGuess <= hitEps {
		tGuess = hitEps * 10
	}
	x := tGuess
	converged := false
	for i := 0; i < maxIter; i++ {
		f := toroidValue(t, o.Add(d.Scale(x)))
		h := 1e-6
		fh := toroidValue(t, o.Add(d.Scale(x+h)))
		deriv := (fh - f) / h
		if math.Abs(deriv) < 1e-15 {
			break // stalled derivative: the iteration cannot proceed
		}
		dx := -f / deriv
		x += dx
		if x <= hitEps {
			x = hitEps * 10
		}
		if math.Abs(dx) < tol {
			converged = true
			break
		}
	}
	if x <= hitEps {
		return Hit{}
	}
	if !converged || math.Abs(toroidValue(t, o.Add(d.Scale(x)))) > 1e-6 {
		return Hit{BeyondHorizon: true}
	}
	p := o.Add(d.Scale(x))
	n := toroidGradient(t, p).Normalized()
	return Hit{T: x, Point: p, Normal: n, Found: true}
}

func toroidGradient(t surface.Toroid, p geom.Vec3) geom.Vec3 {
	const h = 1e-6
	f := func(q geom.Vec3) float64 { return toroidValue(t, q) }
	gx := (f(geom.Vec3{p[0] + h, p[1], p[2]}) - f(geom.Vec3{p[0] - h, p[1], p[2]})) / (2 * h)
	gy := (f(geom.Vec3{p[0], p[1] + h, p[2]}) - f(geom.Vec3{p[0], p[1] - h, p[2]})) / (2 * h)
	gz := (f(geom.Vec3{p[0], p[1], p[2] + h}) - f(geom.Vec3{p[0], p[1], p[2] - h})) / (2 * h)
	return geom.Vec3{gx, gy, gz}
}

// cubicValue extends quadricValue with the third-order b_ij cross terms
// of §3's Cubic surface.
func cubicValue(c surface.Cubic, p geom.Vec3) float64 {
	x, y, z := p[0], p[1], p[2]
	base := quadricValue(c.Quadric, p)
	return base + c.B12*x*x*y + c.B13*x*x*z + c.B21*x*y*y + c.B23*y*y*z + c.B31*x*z*z + c.B32*y*z*z
}

// intersectCubic uses the same Newton approach as the toroid for the
// same reason: a cubic's extra terms make a closed-form root ugly, and
// a per-ray allocation-bearing solver is not acceptable in this loop.
func intersectCubic(c surface.Cubic, o, d geom.Vec3) Hit {
	const maxIter = 50
	const tol = 1e-12
	a := quadricTermA(c.Quadric, d)
	b := quadricTermB(c.Quadric, o, d)
	cc := quadricValue(c.Quadric, o)
	tGuess := hitEps * 10
	if math.Abs(a) > 1e-15 {
		disc := b*b - 4*a*cc
		if disc >= 0 {
			sq := math.Sqrt(disc)
			t1, t2 := (-b-sq)/(2*a), (-b+sq)/(2*a)
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > hitEps {
				tGuess = t1
			} else if t2 > hitEps {
				tGuess = t2
			}
		}
	}
	x := tGuess
	converged := false
	for i := 0; i < maxIter; i++ {
		f := cubicValue(c, o.Add(d.Scale(x)))
		h := 1e-6
		fh := cubicValue(c, o.Add(d.Scale(x+h)))
		deriv := (fh - f) / h
		if math.Abs(deriv) < 1e-15 {
			break // stalled derivative: the iteration cannot proceed
		}
		dx := -f / deriv
		x += dx
		if x <= hitEps {
			x = hitEps * 10
		}
		if math.Abs(dx) < tol {
			converged = true
			break
		}
	}
	if x <= hitEps {
		return Hit{}
	}
	if !converged || math.Abs(cubicValue(c, o.Add(d.Scale(x)))) > 1e-6 {
		return Hit{BeyondHorizon: true}
	}
	p := o.Add(d.Scale(x))
	const h = 1e-6
	f := func(q geom.Vec3) float64 { return cubicValue(c, q) }
	n := geom.Vec3{
		(f(geom.Vec3{p[0] + h, p[1], p[2]}) - f(geom.Vec3{p[0] - h, p[1], p[2]})) / (2 * h),
		(f(geom.Vec3{p[0], p[1] + h, p[2]}) - f(geom.Vec3{p[0], p[1] - h, p[2]})) / (2 * h),
		(f(geom.Vec3{p[0], p[1], p[2] + h}) - f(geom.Vec3{p[0], p[1], p[2] - h})) / (2 * h),
	}.Normalized()
	return Hit{T: x, Point: p, Normal: n, Found: true}
}
