// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package energydist implements the energy distributions of §4.F's
// "Energy selection contract": HardEdge, SoftEdge, SeparateEnergies and
// DatFile. Registered in a modelname->allocator table exactly like
// mreten.GetModel/allocators, generalized from liquid-retention models
// to energy distributions.
package energydist

import (
	"sort"

	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/rayx/random"
)

// Distribution draws one photon energy (in eV) from a ray's private
// PRNG stream.
type Distribution interface {
	Draw(rng *random.Stream) float64
}

// allocators holds all available distributions; modelname => allocator,
// mirroring mreten's `allocators = map[string]func() Model{}`.
var allocators = map[string]func() Distribution{}

// register adds a constructor to the registry; called from each
// variant's init(), matching fem/element.go's `iallocators[...] = ...`.
func register(name string, alloc func() Distribution) {
	allocators[name] = alloc
}

// New looks up a registered distribution kind by name.
func New(name string) Distribution {
	alloc, ok := allocators[name]
	if !ok {
		return nil
	}
	return alloc()
}

// HardEdge draws uniformly in [center-spread/2, center+spread/2].
type HardEdge struct {
	Center, Spread float64
}

func (d *HardEdge) Draw(rng *random.Stream) float64 {
	return rng.UniformRange(d.Center-d.Spread/2, d.Center+d.Spread/2)
}

func init() { register("hard-edge", func() Distribution { return &HardEdge{} }) }

// SoftEdge draws from a Gaussian N(center, sigma).
type SoftEdge struct {
	Center, Sigma float64
}

func (d *SoftEdge) Draw(rng *random.Stream) float64 {
	return rng.Normal(d.Center, d.Sigma)
}

func init() { register("soft-edge", func() Distribution { return &SoftEdge{} }) }

// SeparateEnergies draws one of N equi-spaced levels across
// [center-spread/2, center+spread/2]; degenerates to Center when N==1.
type SeparateEnergies struct {
	Center, Spread float64
	N              int
}

func (d *SeparateEnergies) Draw(rng *random.Stream) float64 {
	if d.N <= 1 {
		return d.Center
	}
	lvl := rng.IntInRange(0, d.N-1)
	lo := d.Center - d.Spread/2
	step := d.Spread / float64(d.N-1)
	return lo + float64(lvl)*step
}

func init() { register("separate-energies", func() Distribution { return &SeparateEnergies{} }) }

// DatFile is a discrete weighted table, optionally interpolated
// continuously within the chosen bin, loaded from a baked .dat file per
// §4.F and §2 component E.
type DatFile struct {
	Energies   []float64
	Weights    []float64
	Continuous bool

	prefix []float64 // cumulative sum, built lazily by ensurePrefix
}

func (d *DatFile) ensurePrefix() {
	if len(d.prefix) == len(d.Weights) {
		return
	}
	d.prefix = make([]float64, len(d.Weights))
	sum := 0.0
	for i, w := range d.Weights {
		sum += w
		d.prefix[i] = sum
	}
}

func (d *DatFile) Draw(rng *random.Stream) float64 {
	d.ensurePrefix()
	if len(d.prefix) == 0 {
		return 0
	}
	total := d.prefix[len(d.prefix)-1]
	r := rng.UniformRange(0, total)
	i := sort.Search(len(d.prefix), func(i int) bool { return d.prefix[i] > r })
	if i >= len(d.Energies) {
		i = len(d.Energies) - 1
	}
	if !d.Continuous || i+1 >= len(d.Energies) {
		return d.Energies[i]
	}
	return rng.UniformRange(d.Energies[i], d.Energies[i+1])
}

func init() { register("dat-file", func() Distribution { return &DatFile{} }) }

// LoadDatFile parses a two-column (energy, weight) table in the style of
// utl.ReadTable, used to back a DatFile distribution.
func LoadDatFile(fn string, continuous bool) (*DatFile, error) {
	_, table, err := utl.ReadTable(fn)
	if err != nil {
		return nil, err
	}
	d := &DatFile{Continuous: continuous}
	d.Energies = append(d.Energies, table["energy"]...)
	d.Weights = append(d.Weights, table["weight"]...)
	return d, nil
}
