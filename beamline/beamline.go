// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package beamline

import (
	"github.com/cpmech/rayx/material"
	"github.com/cpmech/rayx/ray"
)

// Compiled is the flattened, dispatch-ready form of a Beamline: element
// records in DFS order, the initial ray SoA with source_id/path_id
// already stamped, the minimal per-Z material database and the DFS-order
// object names used by the HDF5 writer's "object_names" dataset (§6).
type Compiled struct {
	Elements     []Element
	Rays         []ray.Ray
	Materials    *material.DB
	MaterialIdx  map[string]int32
	ObjectNames  []string
	NumObjects   int
}

// Compile assigns object ids, folds world transforms and produces the
// device-ready flat records for one Beamline, per §2 component G /
// §4.G. matFile may be empty if no element references a material.
func Compile(bl *Beamline, matFile string, seed uint64, threadCount int) (*Compiled, error) {
	if bl == nil || bl.Root == nil {
		return nil, &ConfigError{Reason: "beamline has no root"}
	}
	if err := checkAcyclic(bl.Root, map[Node]bool{}); err != nil {
		return nil, err
	}

	ids := AssignObjectIDs(bl.Root)
	names := make([]string, len(ids))
	for n, id := range ids {
		names[id] = n.Name()
	}

	db, matIdx, err := calcMinimalMaterialTables(bl.Root, matFile)
	if err != nil {
		return nil, err
	}

	elements, err := compileElements(bl.Root, ids, matIdx)
	if err != nil {
		return nil, err
	}

	rays, err := compileSources(bl.Root, ids, seed, threadCount)
	if err != nil {
		return nil, err
	}

	return &Compiled{
		Elements:    elements,
		Rays:        rays,
		Materials:   db,
		MaterialIdx: matIdx,
		ObjectNames: names,
		NumObjects:  len(ids),
	}, nil
}

// checkAcyclic walks the tree guarding against the "beamline cycle"
// ConfigError case of §7; a well-formed tree built only through AddChild
// cannot cycle, but an importer could still hand us a node reachable
// through two different paths, so this catches that defensively.
func checkAcyclic(n Node, seen map[Node]bool) error {
	if seen[n] {
		return &ConfigError{Reason: "beamline contains a cycle"}
	}
	seen[n] = true
	if g, ok := n.(*Group); ok {
		for _, c := range g.children {
			if err := checkAcyclic(c, seen); err != nil {
				return err
			}
		}
	}
	return nil
}
