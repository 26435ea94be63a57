// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package beamline

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cpmech/rayx/behavior"
	"github.com/cpmech/rayx/cutout"
	"github.com/cpmech/rayx/energydist"
	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/material"
	"github.com/cpmech/rayx/random"
	"github.com/cpmech/rayx/ray"
	"github.com/cpmech/rayx/source"
	"github.com/cpmech/rayx/surface"
)

// AssignObjectIDs walks the tree depth-first, assigning object ids to
// leaves only (DesignSource and DesignElement), in visitation order,
// implementing §3's "Object IDs are assigned by depth-first traversal of
// the root, leaves-only, deterministic" and testable property 3 (the
// assigned ids form a bijection onto [0, numObjects)).
func AssignObjectIDs(root Node) map[Node]int32 {
	ids := make(map[Node]int32)
	var next int32
	var visit func(n Node)
	visit = func(n Node) {
		switch t := n.(type) {
		case *Group:
			for _, c := range t.children {
				visit(c)
			}
		default:
			ids[n] = next
			next++
		}
	}
	visit(root)
	return ids
}

// compileElements folds parent transforms down the tree and returns, in
// DFS order, one flat Element record per leaf DesignElement, per §4.G.
func compileElements(root *Group, ids map[Node]int32, matIndex map[string]int32) ([]Element, error) {
	var out []Element
	var err error
	var visit func(n Node)
	visit = func(n Node) {
		if err != nil {
			return
		}
		switch t := n.(type) {
		case *Group:
			for _, c := range t.children {
				visit(c)
			}
		case *DesignElement:
			el, e := compileOneElement(t, ids[t], matIndex)
			if e != nil {
				err = e
				return
			}
			out = append(out, el)
		}
	}
	visit(root)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func compileOneElement(e *DesignElement, objectID int32, matIndex map[string]int32) (Element, error) {
	pos, rot := worldTransform(e)
	elementToWorld := rot.To4(pos)
	worldToElement := elementToWorld.RigidInverse()

	srf, err := compileSurface(e.SurfaceKind, e.Params)
	if err != nil {
		return Element{}, err
	}
	cut, err := compileCutout(e.CutoutKind, e.Params)
	if err != nil {
		return Element{}, err
	}
	beh, err := compileBehavior(e.BehaviorKind, e.Params)
	if err != nil {
		return Element{}, err
	}

	slope := SlopeError{
		Sag: e.Params.Float64Or("slopeErrorSag", 0),
		Mer: e.Params.Float64Or("slopeErrorMer", 0),
		Thermal: [3]float64{
			e.Params.Float64Or("slopeErrorThermal1", 0),
			e.Params.Float64Or("slopeErrorThermal2", 0),
			e.Params.Float64Or("slopeErrorThermal3", 0),
		},
		CylBowing: [2]float64{
			e.Params.Float64Or("slopeErrorCylBowing1", 0),
			e.Params.Float64Or("slopeErrorCylBowing2", 0),
		},
	}

	var mi int32 = -1
	if matName, merr := e.Params.String("material"); merr == nil {
		if z, zerr := materialZFromName(matName); zerr == nil {
			mi = int32(z)
		}
	}
	_ = matIndex

	return Element{
		WorldToElement: worldToElement,
		ElementToWorld: elementToWorld,
		Surface:        srf,
		Cutout:         cut,
		Behavior:       beh,
		SlopeErr:       slope,
		AzimuthalAngle: e.Params.Float64Or("azimuthalAngle", 0),
		MaterialIndex:  mi,
		ObjectID:       objectID,
	}, nil
}

// compileSources materializes rays for every DesignSource leaf, folding
// world transforms and stamping source_id = object id, per §4.G.
// threadCount is an execution hint: each source's ray bundle is
// generated by its own goroutine when threadCount > 1, mirroring
// gofem's distributed-assembly "distr" flag in fem.NewDomain.
func compileSources(root *Group, ids map[Node]int32, seed uint64, threadCount int) ([]ray.Ray, error) {
	var leaves []*DesignSource
	var visit func(n Node)
	visit = func(n Node) {
		switch t := n.(type) {
		case *Group:
			for _, c := range t.children {
				visit(c)
			}
		case *DesignSource:
			leaves = append(leaves, t)
		}
	}
	visit(root)

	results := make([][]ray.Ray, len(leaves))
	errs := make([]error, len(leaves))

	if threadCount < 1 {
		threadCount = runtime.GOMAXPROCS(0)
	}
	sem := make(chan struct{}, threadCount)
	var wg sync.WaitGroup
	for i, ds := range leaves {
		i, ds := i, ds
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			rs, e := compileOneSource(ds, ids[ds], seed)
			results[i], errs[i] = rs, e
		}()
	}
	wg.Wait()

	var out []ray.Ray
	for i := range results {
		if errs[i] != nil {
			return nil, errs[i]
		}
		out = append(out, results[i]...)
	}
	return out, nil
}

func compileOneSource(ds *DesignSource, objectID int32, seed uint64) ([]ray.Ray, error) {
	pos, rot := worldTransform(ds)
	common, err := compileSourceCommon(ds.Params)
	if err != nil {
		return nil, err
	}
	common.Misalign = source.Misalignment{}
	src := source.New(ds.Kind, common, sourceExtras(ds.Params))
	if src == nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown source kind %q", ds.Kind)}
	}
	n := src.Count()
	out := make([]ray.Ray, n)
	for i := 0; i < n; i++ {
		pathID := int64(objectID)<<32 | int64(i)
		rng := random.NewStream(seed, pathID)
		r := src.Generate(i, &rng)
		r.Position = rot.MulVec3(r.Position).Add(pos)
		r.Direction = rot.MulVec3(r.Direction).Normalized()
		r.SourceID = objectID
		r.PathID = pathID
		r.Event = ray.Emitted
		r.PathEventID = 0
		out[i] = r
	}
	return out, nil
}

// calcMinimalMaterialTables loads only the materials actually referenced
// by the compiled elements, per §2 component C's "compact indexing for
// only-referenced materials" and §4.G.
func calcMinimalMaterialTables(root *Group, matFile string) (*material.DB, map[string]int32, error) {
	names := map[string]bool{}
	index := map[string]int32{}
	var next int32
	var visit func(n Node)
	visit = func(n Node) {
		switch t := n.(type) {
		case *Group:
			for _, c := range t.children {
				visit(c)
			}
		case *DesignElement:
			if name, err := t.Params.String("material"); err == nil {
				if !names[name] {
					names[name] = true
					index[name] = next
					next++
				}
			}
		}
	}
	visit(root)

	onlyZ := map[int]bool{}
	for name := range names {
		if z, err := materialZFromName(name); err == nil {
			onlyZ[z] = true
		}
	}
	if matFile == "" {
		return nil, index, nil
	}
	db, err := material.Load(matFile, onlyZ)
	if err != nil {
		return nil, nil, err
	}
	return db, index, nil
}

// --- Surface/Cutout/Behavior/Source compile dispatch ---
//
// These mirror fem/element.go's iallocators map: a string tag selects a
// constructor, here reading fields out of a DesignMap instead of an
// inp.ElemData struct.

func compileSurface(kind string, p DesignMap) (surface.Record, error) {
	switch kind {
	case "plane":
		return surface.SerializePlane(), nil
	case "quadric":
		q := surface.Quadric{
			ICurv: int8(p.IntOr("iCurv", 0)),
			A11:   p.Float64Or("a11", 0), A12: p.Float64Or("a12", 0), A13: p.Float64Or("a13", 0), A14: p.Float64Or("a14", 0),
			A22: p.Float64Or("a22", 0), A23: p.Float64Or("a23", 0), A24: p.Float64Or("a24", 0),
			A33: p.Float64Or("a33", 0), A34: p.Float64Or("a34", 0),
			A44: p.Float64Or("a44", 0),
		}
		return q.Serialize(), nil
	case "toroid":
		t := surface.Toroid{
			LongRadius:  p.Float64Or("longRadius", 0),
			ShortRadius: p.Float64Or("shortRadius", 0),
			Kind:        surface.ToroidKind(p.IntOr("toroidKind", 0)),
		}
		return t.Serialize(), nil
	case "cubic":
		c := surface.Cubic{
			Quadric: surface.Quadric{
				ICurv: int8(p.IntOr("iCurv", 0)),
				A11:   p.Float64Or("a11", 0), A12: p.Float64Or("a12", 0), A13: p.Float64Or("a13", 0), A14: p.Float64Or("a14", 0),
				A22: p.Float64Or("a22", 0), A23: p.Float64Or("a23", 0), A24: p.Float64Or("a24", 0),
				A33: p.Float64Or("a33", 0), A34: p.Float64Or("a34", 0),
				A44: p.Float64Or("a44", 0),
			},
			B12: p.Float64Or("b12", 0), B13: p.Float64Or("b13", 0), B21: p.Float64Or("b21", 0),
			B23: p.Float64Or("b23", 0), B31: p.Float64Or("b31", 0), B32: p.Float64Or("b32", 0),
			Psi: p.Angle("psi").Rad(),
		}
		return c.Serialize(), nil
	}
	return surface.Record{}, &ConfigError{Reason: fmt.Sprintf("unknown surface kind %q", kind)}
}

func compileCutout(kind string, p DesignMap) (cutout.Record, error) {
	switch kind {
	case "rect":
		return cutout.Rect{W: p.Float64Or("width", 0), L: p.Float64Or("length", 0)}.Serialize(), nil
	case "elliptical":
		return cutout.Elliptical{Dx: p.Float64Or("diameterX", 0), Dz: p.Float64Or("diameterZ", 0)}.Serialize(), nil
	case "trapezoid":
		return cutout.Trapezoid{WA: p.Float64Or("widthA", 0), WB: p.Float64Or("widthB", 0), L: p.Float64Or("length", 0)}.Serialize(), nil
	case "unlimited", "":
		return cutout.SerializeUnlimited(), nil
	}
	return cutout.Record{}, &ConfigError{Reason: fmt.Sprintf("unknown cutout kind %q", kind)}
}

func compileBehavior(kind string, p DesignMap) (behavior.Record, error) {
	switch kind {
	case "mirror":
		return behavior.SerializeMirror(), nil
	case "imageplane":
		return behavior.SerializeImagePlane(), nil
	case "absorb":
		return behavior.SerializeAbsorb(), nil
	case "grating":
		g := behavior.Grating{LineDensity: p.Float64Or("lineDensity", 0), Order: int32(p.IntOr("order", 1))}
		for i := 0; i < 6; i++ {
			g.VLS[i] = p.Float64Or(fmt.Sprintf("vls%d", i), 0)
		}
		return g.Serialize(), nil
	case "rzp":
		z := behavior.RZP{
			ImageType:        behavior.RZPImageType(p.IntOr("imageType", 0)),
			Type:             behavior.RZPType(p.IntOr("rzpType", 0)),
			DerivMethod:      behavior.RZPDerivMethod(p.IntOr("derivMethod", 0)),
			DesignType:       behavior.RZPDesignType(p.IntOr("designType", 0)),
			DesignWavelength: p.Float64Or("designWavelength", 0),
			DesignOrder:      int32(p.IntOr("designOrder", 1)),
			Order:            int32(p.IntOr("order", 1)),
			FresnelZOffset:   p.Float64Or("fresnelZOffset", 0),
			DesignAlpha:      p.Float64Or("designAlpha", 0),
			DesignBeta:       p.Float64Or("designBeta", 0),
			AdditionalOrder:  int32(p.IntOr("additionalOrder", 0)),
		}
		z.ArmLengths = [4]float64{p.Float64Or("armR1", 0), p.Float64Or("armR2", 0), p.Float64Or("armRho1", 0), p.Float64Or("armRho2", 0)}
		return z.Serialize(), nil
	case "slit":
		bs, err := compileCutout(p.StringOr("beamstopKind", "unlimited"), p)
		if err != nil {
			return behavior.Record{}, err
		}
		return behavior.Slit{Beamstop: bs}.Serialize(), nil
	case "crystal":
		c := behavior.Crystal{
			DSpacingSquared: p.Float64Or("dSpacingSquared", 0),
			UnitCellVolume:  p.Float64Or("unitCellVolume", 0),
			OffsetAngle:     p.Float64Or("offsetAngle", 0),
		}
		for i := 0; i < 6; i++ {
			c.StructureFactors[i] = p.Float64Or(fmt.Sprintf("structureFactor%d", i), 0)
		}
		return c.Serialize(), nil
	}
	return behavior.Record{}, &ConfigError{Reason: fmt.Sprintf("unknown behavior kind %q", kind)}
}

func compileSourceCommon(p DesignMap) (source.Common, error) {
	distKind, err := p.String("energyDistribution")
	if err != nil {
		return source.Common{}, err
	}
	dist, err := compileEnergyDist(distKind, p)
	if err != nil {
		return source.Common{}, err
	}
	return source.Common{
		Width: p.Float64Or("width", 0), Height: p.Float64Or("height", 0), Depth: p.Float64Or("depth", 0),
		HorDivergence: p.Float64Or("horDivergence", 0), VerDivergence: p.Float64Or("verDivergence", 0),
		EnergyDist: dist,
		Stokes:     geom.Stokes{p.Float64Or("stokes0", 1), p.Float64Or("stokes1", 1), p.Float64Or("stokes2", 0), p.Float64Or("stokes3", 0)},
		NumRays:    int(p.IntOr("numberOfRays", 0)),
	}, nil
}

func compileEnergyDist(kind string, p DesignMap) (energydist.Distribution, error) {
	switch kind {
	case "hard-edge":
		return &energydist.HardEdge{Center: p.Float64Or("energyCenter", 0), Spread: p.Float64Or("energySpread", 0)}, nil
	case "soft-edge":
		return &energydist.SoftEdge{Center: p.Float64Or("energyCenter", 0), Sigma: p.Float64Or("energySigma", 0)}, nil
	case "separate-energies":
		return &energydist.SeparateEnergies{Center: p.Float64Or("energyCenter", 0), Spread: p.Float64Or("energySpread", 0), N: int(p.IntOr("numEnergies", 1))}, nil
	case "dat-file":
		fn, err := p.String("datFile")
		if err != nil {
			return nil, err
		}
		return energydist.LoadDatFile(fn, p.Bool("continuous"))
	}
	return nil, &ConfigError{Reason: fmt.Sprintf("unknown energy distribution kind %q", kind)}
}

// sourceExtras forwards the kind-specific numeric parameters each source
// constructor reads by name (see source/*.go's `extras["key"]` reads).
func sourceExtras(p DesignMap) map[string]float64 {
	extras := make(map[string]float64, len(p))
	for k, v := range p {
		if v.Kind == KindFloat64 {
			extras[k] = v.F
		} else if v.Kind == KindInt {
			extras[k] = float64(v.I)
		} else if v.Kind == KindAngle {
			extras[k] = v.A.Rad()
		}
	}
	return extras
}

// materialZFromName resolves a material name to an atomic number; RAY-X
// design files name materials by element symbol (e.g. "Au", "Si"), same
// convention the original's material database uses.
func materialZFromName(name string) (int, error) {
	z, ok := elementSymbolToZ[name]
	if !ok {
		return 0, fmt.Errorf("beamline: unknown material symbol %q", name)
	}
	return z, nil
}
