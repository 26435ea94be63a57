// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package beamline

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/rayx/geom"
)

func buildTestTree() *Group {
	root := NewGroup("root", geom.Vec3{0, 0, 0}, geom.Identity3())
	branch := NewGroup("branch", geom.Vec3{1, 0, 0}, geom.Identity3())

	src := NewDesignSource("src1", "matrix", geom.Vec3{0, 0, 0}, geom.Identity3(), DesignMap{
		"energyDistribution": StringValue("hard-edge"),
		"energyCenter":        Float64Value(100),
		"energySpread":        Float64Value(1),
		"numberOfRays":        IntValue(4),
		"width":               Float64Value(1),
		"height":              Float64Value(1),
	})

	elem := NewDesignElement("mirror1", "plane", "rect", "mirror", geom.Vec3{2, 0, 0}, geom.Identity3(), DesignMap{
		"width":  Float64Value(1),
		"length": Float64Value(1),
	})

	branch.AddChild(src)
	branch.AddChild(elem)
	root.AddChild(branch)
	return root
}

func Test_objectids01(tst *testing.T) {
	chk.PrintTitle("objectids01")

	root := buildTestTree()
	ids := AssignObjectIDs(root)
	if len(ids) != 2 {
		tst.Fatalf("expected 2 leaves, got %d", len(ids))
	}
	seen := map[int32]bool{}
	for _, id := range ids {
		if id < 0 || int(id) >= len(ids) {
			tst.Errorf("id %d out of [0,%d) range", id, len(ids))
		}
		if seen[id] {
			tst.Errorf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func Test_worldtransform01(tst *testing.T) {
	chk.PrintTitle("worldtransform01")

	root := buildTestTree()
	branch := root.Children()[0].(*Group)
	elem := branch.Children()[1].(*DesignElement)

	pos, rot := worldTransform(elem)
	// root at origin, branch offset by (1,0,0), element local offset (2,0,0)
	chk.Vector(tst, "folded world position", 1e-12, pos[:], []float64{3, 0, 0})
	chk.Vector(tst, "folded rotation row0", 1e-12, rot[0][:], []float64{1, 0, 0})
}

func Test_compile01(tst *testing.T) {
	chk.PrintTitle("compile01")

	root := buildTestTree()
	bl := &Beamline{Root: root}
	compiled, err := Compile(bl, "", 42, 1)
	if err != nil {
		tst.Fatalf("Compile failed: %v", err)
	}
	if compiled.NumObjects != 2 {
		tst.Errorf("NumObjects: got %d want 2", compiled.NumObjects)
	}
	if len(compiled.Elements) != 1 {
		tst.Fatalf("expected 1 compiled element, got %d", len(compiled.Elements))
	}
	if len(compiled.Rays) != 4 {
		tst.Fatalf("expected 4 rays (numberOfRays), got %d", len(compiled.Rays))
	}
	for _, r := range compiled.Rays {
		if !r.IsUnitDirection() {
			tst.Error("compiled ray direction should be normalized")
		}
	}
	if len(compiled.ObjectNames) != 2 {
		tst.Errorf("expected 2 object names, got %d", len(compiled.ObjectNames))
	}
}

func Test_compile_cycle01(tst *testing.T) {
	chk.PrintTitle("compile_cycle01")

	a := NewGroup("a", geom.Vec3{0, 0, 0}, geom.Identity3())
	b := NewGroup("b", geom.Vec3{0, 0, 0}, geom.Identity3())
	a.AddChild(b)
	b.children = append(b.children, a) // manually force a cycle, bypassing AddChild

	_, err := Compile(&Beamline{Root: a}, "", 1, 1)
	if err == nil {
		tst.Fatal("expected a ConfigError for a cyclic beamline tree")
	}
	if _, ok := err.(*ConfigError); !ok {
		tst.Errorf("wrong error type: %T", err)
	}
}

func Test_designmap01(tst *testing.T) {
	chk.PrintTitle("designmap01")

	m := DesignMap{"width": Float64Value(3.5), "label": StringValue("M1")}
	w, err := m.Float64("width")
	if err != nil {
		tst.Fatalf("Float64 failed: %v", err)
	}
	chk.Scalar(tst, "width", 1e-12, w, 3.5)

	if _, err := m.Float64("missing"); err == nil {
		tst.Error("expected error reading a missing float64 key")
	}
	if _, err := m.Float64("label"); err == nil {
		tst.Error("expected error reading a mistyped key as float64")
	}

	clone := m.Clone()
	clone["width"] = Float64Value(9)
	if w2, _ := m.Float64("width"); w2 != 3.5 {
		tst.Error("mutating the clone should not affect the original map")
	}
}

func Test_json01(tst *testing.T) {
	chk.PrintTitle("json01")

	dir := tst.TempDir()
	fn := filepath.Join(dir, "scene.json")
	blob := `{
		"name": "root", "kind": "group",
		"position": [0,0,0], "rotation": [1,0,0, 0,1,0, 0,0,1],
		"children": [
			{
				"name": "src1", "kind": "source", "source_kind": "matrix",
				"position": [0,0,0], "rotation": [1,0,0, 0,1,0, 0,0,1],
				"design": {"energyDistribution": "hard-edge", "energyCenter": 100, "energySpread": 1, "numberOfRays": 4}
			},
			{
				"name": "mirror1", "kind": "element", "surface_kind": "plane", "cutout_kind": "rect", "behavior_kind": "mirror",
				"position": [2,0,0], "rotation": [1,0,0, 0,1,0, 0,0,1],
				"design": {"width": 1, "length": 1}
			}
		]
	}`
	if err := os.WriteFile(fn, []byte(blob), 0644); err != nil {
		tst.Fatalf("cannot write fixture: %v", err)
	}

	bl, err := LoadJSON(fn)
	if err != nil {
		tst.Fatalf("LoadJSON failed: %v", err)
	}
	if bl.Root.Name() != "root" || len(bl.Root.Children()) != 2 {
		tst.Fatalf("unexpected root: name=%q nchildren=%d", bl.Root.Name(), len(bl.Root.Children()))
	}

	compiled, err := Compile(bl, "", 7, 1)
	if err != nil {
		tst.Fatalf("Compile on JSON-loaded beamline failed: %v", err)
	}
	if len(compiled.Rays) != 4 || len(compiled.Elements) != 1 {
		tst.Errorf("unexpected compile result: nrays=%d nelements=%d", len(compiled.Rays), len(compiled.Elements))
	}
}

func Test_elementwire01(tst *testing.T) {
	chk.PrintTitle("elementwire01")

	root := buildTestTree()
	bl := &Beamline{Root: root}
	compiled, err := Compile(bl, "", 1, 1)
	if err != nil {
		tst.Fatalf("Compile failed: %v", err)
	}
	e := compiled.Elements[0]

	buf := make([]byte, ElementWireSize)
	EncodeElementWire(e, buf)
	back := DecodeElementWire(buf)

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if math.Abs(back.WorldToElement[r][c]-e.WorldToElement[r][c]) > 1e-9 {
				tst.Errorf("WorldToElement[%d][%d] did not round-trip", r, c)
			}
		}
	}
	if back.Surface.Tag != e.Surface.Tag || back.Behavior.Tag != e.Behavior.Tag || back.Cutout.Tag != e.Cutout.Tag {
		tst.Error("tags did not round-trip")
	}
	// ObjectID is not part of the wire layout (it's positional, recovered
	// from DFS order on load), so it decodes as the zero value.
	if back.ObjectID != 0 {
		tst.Errorf("ObjectID should decode as 0 (not part of the wire layout), got %d", back.ObjectID)
	}
}
