// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package beamline implements the scene graph, DesignMap and
// compile-to-flat-record pipeline of §2 component G and §3, grounded on
// fem/domain.go's Domain/region tree and inp/sim.go's Simulation/Region
// JSON-backed config, generalized from a finite-element mesh hierarchy
// to an optics beamline hierarchy.
package beamline

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/rayx/geom"
)

// Node is one member of the beamline tree: a Group, DesignSource or
// DesignElement, per §3's "Node = {name, local_position, local_rotation,
// optional parent pointer}".
type Node interface {
	Name() string
	LocalPosition() geom.Vec3
	LocalRotation() geom.Mat3
	Parent() Node
	setParent(Node)
}

// base holds the fields shared by every Node implementation.
type base struct {
	NodeName string
	Position geom.Vec3
	Rotation geom.Mat3
	parent   Node
}

func (b *base) Name() string              { return b.NodeName }
func (b *base) LocalPosition() geom.Vec3  { return b.Position }
func (b *base) LocalRotation() geom.Mat3  { return b.Rotation }
func (b *base) Parent() Node              { return b.parent }
func (b *base) setParent(p Node)          { b.parent = p }

// Group is an internal node with ordered children; the beamline
// exclusively owns them (§3 "Ownership").
type Group struct {
	base
	children []Node
}

func NewGroup(name string, pos geom.Vec3, rot geom.Mat3) *Group {
	g := &Group{}
	g.NodeName, g.Position, g.Rotation = name, pos, rot
	return g
}

// AddChild appends a child and wires its non-owning parent back-pointer.
func (g *Group) AddChild(n Node) {
	n.setParent(g)
	g.children = append(g.children, n)
}

func (g *Group) Children() []Node { return g.children }

// DesignSource is a leaf that materializes rays, per §3/§4.F.
type DesignSource struct {
	base
	Kind   string // allocator name in package source, e.g. "matrix"
	Params DesignMap
}

func NewDesignSource(name, kind string, pos geom.Vec3, rot geom.Mat3, params DesignMap) *DesignSource {
	s := &DesignSource{Kind: kind, Params: params}
	s.NodeName, s.Position, s.Rotation = name, pos, rot
	return s
}

// DesignElement is a leaf that compiles to a flat Element record, per
// §3/§4.H.
type DesignElement struct {
	base
	SurfaceKind  string
	CutoutKind   string
	BehaviorKind string
	Params       DesignMap
}

func NewDesignElement(name, surfaceKind, cutoutKind, behaviorKind string, pos geom.Vec3, rot geom.Mat3, params DesignMap) *DesignElement {
	e := &DesignElement{SurfaceKind: surfaceKind, CutoutKind: cutoutKind, BehaviorKind: behaviorKind, Params: params}
	e.NodeName, e.Position, e.Rotation = name, pos, rot
	return e
}

// Beamline is the tree root holder; invariant "exactly one root" of §3.
type Beamline struct {
	Root *Group
}

// worldTransform folds rotation/position up the parent chain, per §3's
// "world_pos = parent_rot . local_pos + parent_pos; world_rot =
// parent_rot . local_rot. The root starts with identity rotation and
// origin." Runs once per node during Compile, not per ray, so unlike
// kernel/geom's hot-path fixed arrays it composes through gosl/la the
// same way fem/e_rjoint.go and fem/e_beam.go do (la.MatVecMul(dst, 1,
// A, u)), column by column for the 3x3 rotation fold and la.VecAdd2 for
// the position fold.
func worldTransform(n Node) (pos geom.Vec3, rot geom.Mat3) {
	if p := n.Parent(); p != nil {
		ppos, prot := worldTransform(p)
		rot = laMulMat3(prot, n.LocalRotation())
		pos = laAddVec3(laMulVec3(prot, n.LocalPosition()), ppos)
		return
	}
	return n.LocalPosition(), n.LocalRotation()
}

// laMulMat3 returns m*o via la.MatVecMul applied to each column of o.
func laMulMat3(m, o geom.Mat3) geom.Mat3 {
	a := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a[i][j] = m[i][j]
		}
	}
	var r geom.Mat3
	for j := 0; j < 3; j++ {
		col := []float64{o[0][j], o[1][j], o[2][j]}
		out := make([]float64, 3)
		la.MatVecMul(out, 1.0, a, col)
		for i := 0; i < 3; i++ {
			r[i][j] = out[i]
		}
	}
	return r
}

// laMulVec3 returns m*v via la.MatVecMul.
func laMulVec3(m geom.Mat3, v geom.Vec3) geom.Vec3 {
	a := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a[i][j] = m[i][j]
		}
	}
	out := make([]float64, 3)
	la.MatVecMul(out, 1.0, a, v[:])
	return geom.Vec3{out[0], out[1], out[2]}
}

// laAddVec3 returns a+b via la.VecAdd2, mirroring
// msolid/driver.go's la.VecAdd2(o.Eps[k], 1, o.Eps[k-1], 1, Δε).
func laAddVec3(a, b geom.Vec3) geom.Vec3 {
	out := make([]float64, 3)
	la.VecAdd2(out, 1, a[:], 1, b[:])
	return geom.Vec3{out[0], out[1], out[2]}
}
