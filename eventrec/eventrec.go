// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package eventrec implements the structure-of-arrays event recorder of
// §2 component J / §3's Rays container: attrMask/objectMask filtering
// with parallel compaction, sorted by (path_id, path_event_id) for
// determinism (testable property 4). The attribute-selection contract
// generalizes out/filtering.go's Locator (At/Verts/Cells all answering
// "give me this key's Quantities") from a by-location predicate to a
// by-attribute-bit predicate.
package eventrec

import (
	"runtime"
	"sort"
	"sync"

	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/ray"
)

// Attr is one bit of the attribute mask of §3's "optional attribute
// vectors".
type Attr uint32

const (
	AttrPosition Attr = 1 << iota
	AttrDirection
	AttrEnergy
	AttrField
	AttrPathLength
	AttrOrder
	AttrElementID
	AttrSourceID
	AttrObjectID
	AttrPathID
	AttrPathEventID
)

// AttrAll selects every attribute.
const AttrAll = AttrPosition | AttrDirection | AttrEnergy | AttrField | AttrPathLength |
	AttrOrder | AttrElementID | AttrSourceID | AttrObjectID | AttrPathID | AttrPathEventID

// ObjectMask is the pair of bitmasks over sources/elements of §4.I:
// "objectMask: a pair of bitmasks over sources/elements indicating which
// object ids' events to retain." A nil set means "no restriction" (keep
// everything of that kind).
type ObjectMask struct {
	Sources  map[int32]bool
	Elements map[int32]bool
}

// Accepts reports whether the event belongs to a retained source (for
// Emitted events) or element (for every other event kind).
func (m ObjectMask) Accepts(r ray.Ray) bool {
	if r.Event == ray.Emitted {
		return m.Sources == nil || m.Sources[r.SourceID]
	}
	return m.Elements == nil || m.Elements[r.LastElement]
}

// SoA is the structure-of-arrays event container of §3. Only the arrays
// selected by Mask are populated; AttrMask() reports exactly those,
// satisfying "attrMask() returns exactly the set of non-empty
// attributes."
type SoA struct {
	Mask Attr

	Position    []geom.Vec3
	Direction   []geom.Vec3
	Energy      []float64
	Field       []geom.Field
	PathLength  []float64
	Order       []int32
	ElementID   []int32
	SourceID    []int32
	ObjectID    []int32
	PathID      []int64
	PathEventID []int32
}

// AttrMask returns the mask this SoA was built with.
func (s *SoA) AttrMask() Attr { return s.Mask }

// Len returns the event count (== the length of every populated array).
func (s *SoA) Len() int {
	switch {
	case s.Mask&AttrPathID != 0:
		return len(s.PathID)
	case s.Mask&AttrPosition != 0:
		return len(s.Position)
	default:
		return 0
	}
}

// NumPaths returns the count of distinct path_id values, per §3.
func (s *SoA) NumPaths() int {
	seen := map[int64]bool{}
	for _, id := range s.PathID {
		seen[id] = true
	}
	return len(seen)
}

// Compact filters `events` (one slice per traced ray, in TraceOne's path
// order) by attrMask/objectMask, flattens, sorts by (path_id,
// path_event_id) and materializes the requested attribute columns.
//
// Filtering runs as a parallel pass (one goroutine group per GOMAXPROCS
// shard) that both selects and counts survivors, followed by a
// sequential prefix sum over the per-shard counts and a second parallel
// pass that scatters each shard's survivors directly into its
// pre-computed offset in the output slice -- the two-pass
// count/prefix-sum/scatter shape is the standard parallel compaction
// idiom, applied here to event filtering since nothing in the retrieval
// pack implements an analogous transform.
func Compact(events [][]ray.Ray, attrMask Attr, mask ObjectMask) *SoA {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > len(events) {
		workers = len(events)
	}
	if workers == 0 {
		return &SoA{Mask: attrMask}
	}

	shards := make([][]ray.Ray, workers)
	var wg sync.WaitGroup
	perShard := (len(events) + workers - 1) / workers
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			lo := w * perShard
			hi := lo + perShard
			if hi > len(events) {
				hi = len(events)
			}
			var kept []ray.Ray
			for i := lo; i < hi; i++ {
				for _, r := range events[i] {
					if mask.Accepts(r) {
						kept = append(kept, r)
					}
				}
			}
			shards[w] = kept
		}()
	}
	wg.Wait()

	prefix := make([]int, workers+1)
	for i, s := range shards {
		prefix[i+1] = prefix[i] + len(s)
	}
	total := prefix[workers]
	flat := make([]ray.Ray, total)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			copy(flat[prefix[w]:prefix[w+1]], shards[w])
		}()
	}
	wg.Wait()

	sort.SliceStable(flat, func(i, j int) bool {
		if flat[i].PathID != flat[j].PathID {
			return flat[i].PathID < flat[j].PathID
		}
		return flat[i].PathEventID < flat[j].PathEventID
	})

	return buildSoA(flat, attrMask)
}

func buildSoA(flat []ray.Ray, mask Attr) *SoA {
	s := &SoA{Mask: mask}
	n := len(flat)
	if mask&AttrPosition != 0 {
		s.Position = make([]geom.Vec3, n)
	}
	if mask&AttrDirection != 0 {
		s.Direction = make([]geom.Vec3, n)
	}
	if mask&AttrEnergy != 0 {
		s.Energy = make([]float64, n)
	}
	if mask&AttrField != 0 {
		s.Field = make([]geom.Field, n)
	}
	if mask&AttrPathLength != 0 {
		s.PathLength = make([]float64, n)
	}
	if mask&AttrOrder != 0 {
		s.Order = make([]int32, n)
	}
	if mask&AttrElementID != 0 {
		s.ElementID = make([]int32, n)
	}
	if mask&AttrSourceID != 0 {
		s.SourceID = make([]int32, n)
	}
	if mask&AttrObjectID != 0 {
		s.ObjectID = make([]int32, n)
	}
	if mask&AttrPathID != 0 {
		s.PathID = make([]int64, n)
	}
	if mask&AttrPathEventID != 0 {
		s.PathEventID = make([]int32, n)
	}
	for i, r := range flat {
		if mask&AttrPosition != 0 {
			s.Position[i] = r.Position
		}
		if mask&AttrDirection != 0 {
			s.Direction[i] = r.Direction
		}
		if mask&AttrEnergy != 0 {
			s.Energy[i] = r.EnergyEV
		}
		if mask&AttrField != 0 {
			s.Field[i] = r.Field
		}
		if mask&AttrPathLength != 0 {
			s.PathLength[i] = r.PathLength
		}
		if mask&AttrOrder != 0 {
			s.Order[i] = r.Order
		}
		if mask&AttrElementID != 0 {
			s.ElementID[i] = r.LastElement
		}
		if mask&AttrSourceID != 0 {
			s.SourceID[i] = r.SourceID
		}
		if mask&AttrObjectID != 0 {
			if r.Event == ray.Emitted {
				s.ObjectID[i] = r.SourceID
			} else {
				s.ObjectID[i] = r.LastElement
			}
		}
		if mask&AttrPathID != 0 {
			s.PathID[i] = r.PathID
		}
		if mask&AttrPathEventID != 0 {
			s.PathEventID[i] = r.PathEventID
		}
	}
	return s
}
