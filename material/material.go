// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package material implements the per-atomic-number reflectance /
// refractive-index tables of §4.G's calcMinimalMaterialTables, grounded
// on inp/mat.go's MatDb/ReadMat JSON loader generalized from named
// continuum-mechanics materials to Z-indexed optical tables.
package material

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cpmech/gosl/utl"
)

// MaxZ is the highest atomic number RAYX ever indexes, per §4.G.
const MaxZ = 92

// Entry is one (energy -> complex refractive index) sample of a single
// element's table.
type Entry struct {
	EnergyEV float64 `json:"energy_ev"`
	N        float64 `json:"n"` // real part of refractive index
	K        float64 `json:"k"` // imaginary part (absorption)
}

// Table holds the full energy-sampled table for one atomic number.
type Table struct {
	Z       int     `json:"z"`
	Entries []Entry `json:"entries"`
}

// RefractiveIndex returns the linearly-interpolated complex refractive
// index n - i*k at the given energy. Energies outside the table's range
// clamp to the nearest endpoint.
func (t *Table) RefractiveIndex(energyEV float64) (n, k float64) {
	if len(t.Entries) == 0 {
		return 1, 0
	}
	es := t.Entries
	if energyEV <= es[0].EnergyEV {
		return es[0].N, es[0].K
	}
	if energyEV >= es[len(es)-1].EnergyEV {
		return es[len(es)-1].N, es[len(es)-1].K
	}
	i := sort.Search(len(es), func(i int) bool { return es[i].EnergyEV >= energyEV })
	lo, hi := es[i-1], es[i]
	t0 := (energyEV - lo.EnergyEV) / (hi.EnergyEV - lo.EnergyEV)
	return lo.N + t0*(hi.N-lo.N), lo.K + t0*(hi.K-lo.K)
}

// DB is a database of per-Z tables, loaded once and shared read-only
// across all kernel dispatch tasks per §5 ("Material tables ... are
// read-only during dispatch and shared by reference across all tasks").
type DB struct {
	tables map[int]*Table
}

// rawDB mirrors the on-disk JSON schema, one Table per referenced Z.
type rawDB struct {
	Tables []Table `json:"tables"`
}

// Load reads a material-table JSON file and keeps only the entries whose
// Z is present in `onlyZ`, implementing "compact indexing for
// only-referenced materials" (§2 component C / §4.G).
func Load(fn string, onlyZ map[int]bool) (*DB, error) {
	b, err := utl.ReadFile(fn)
	if err != nil {
		return nil, fmt.Errorf("material: cannot open table file %s: %w", fn, err)
	}
	var raw rawDB
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("material: cannot unmarshal table file %s: %w", fn, err)
	}
	db := &DB{tables: make(map[int]*Table)}
	for i := range raw.Tables {
		t := raw.Tables[i]
		if onlyZ != nil && !onlyZ[t.Z] {
			continue
		}
		if t.Z < 1 || t.Z > MaxZ {
			return nil, fmt.Errorf("material: Z=%d out of range [1,%d]", t.Z, MaxZ)
		}
		db.tables[t.Z] = &t
	}
	for z := range onlyZ {
		if _, ok := db.tables[z]; !ok {
			return nil, &UnknownMaterialError{Z: z}
		}
	}
	return db, nil
}

// Get returns the table for atomic number z, or nil if not loaded.
func (db *DB) Get(z int) *Table {
	if db == nil {
		return nil
	}
	return db.tables[z]
}

// Len returns the number of loaded tables.
func (db *DB) Len() int {
	if db == nil {
		return 0
	}
	return len(db.tables)
}

// UnknownMaterialError is the MaterialError variant of §7: "referenced Z
// not loadable. Fatal."
type UnknownMaterialError struct {
	Z int
}

func (e *UnknownMaterialError) Error() string {
	return fmt.Sprintf("material: unknown or unloaded atomic number Z=%d", e.Z)
}
