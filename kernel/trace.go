// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cpmech/rayx/beamline"
	"github.com/cpmech/rayx/behavior"
	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/material"
	"github.com/cpmech/rayx/random"
	"github.com/cpmech/rayx/ray"
)

// tieEps is the tie-break tolerance of §4.H: "if two intersections
// coincide within eps, pick the element with the lower object id. eps is
// 1e-9 in element-local units."
const tieEps = 1e-9

// Config configures one dispatch's trace behavior, per §4.H/§5.
type Config struct {
	MaxBounces int
	Sequential bool
	Seed       uint64
	Cancel     *atomic.Bool // checked at each bounce iteration's start
}

// TraceOne advances a single ray until a terminal event or MaxBounces is
// reached, returning every recorded event in path order (one
// JustHitElement per bounce, then the terminal event; the input emitted
// ray itself is not included),
// per §4.H's per-iteration numbered steps 1-8.
func TraceOne(r ray.Ray, elements []beamline.Element, mats *material.DB, cfg Config) []ray.Ray {
	events := make([]ray.Ray, 0, 4)
	cur := r
	prevIdx := -1
	rng := random.FromState(cur.RNGState)

	for bounce := 0; bounce < cfg.MaxBounces; bounce++ {
		if cfg.Cancel != nil && cfg.Cancel.Load() {
			cur.Event = ray.NotEnoughBounces
			events = append(events, cur)
			return events
		}

		bestIdx := -1
		var bestHit Hit
		var bestLocalDir geom.Vec3
		// bestOpeningMiss marks a Slit whose surface was hit but whose
		// point fell outside the opening cutout: per §4.H step 6 and §7's
		// Slit semantics, that is an Absorbed outcome, not a miss, so the
		// candidate still wins the nearest-intersection race but skips
		// Apply below.
		bestOpeningMiss := false

		if cfg.Sequential {
			idx := prevIdx + 1
			if idx >= len(elements) {
				cur.Event = ray.FlyOff
				events = append(events, cur)
				return events
			}
			el := elements[idx]
			localO := el.WorldToElement.MulPoint(cur.Position)
			localD := el.WorldToElement.MulDir(cur.Direction)
			hit := Intersect(el.Surface, localO, localD)
			openingMiss := false
			if hit.Found {
				if Clip(el.Cutout, hit.Point, el.Behavior.Tag) {
					bestIdx, bestHit, bestLocalDir = idx, hit, localD
				} else if el.Behavior.Tag == behavior.TagSlit {
					bestIdx, bestHit, bestLocalDir = idx, hit, localD
					openingMiss = true
				}
			}
			bestOpeningMiss = openingMiss
			if bestIdx < 0 {
				if hit.BeyondHorizon {
					cur.Event = ray.BeyondHorizon
				} else {
					cur.Event = ray.FlyOff
				}
				events = append(events, cur)
				return events
			}
		} else {
			bestT := math.Inf(1)
			sawBeyondHorizon := false
			for i := range elements {
				if i == prevIdx {
					continue
				}
				el := elements[i]
				localO := el.WorldToElement.MulPoint(cur.Position)
				localD := el.WorldToElement.MulDir(cur.Direction)
				hit := Intersect(el.Surface, localO, localD)
				if hit.BeyondHorizon {
					sawBeyondHorizon = true
				}
				if !hit.Found {
					continue
				}
				openingMiss := false
				if !Clip(el.Cutout, hit.Point, el.Behavior.Tag) {
					if el.Behavior.Tag != behavior.TagSlit {
						continue
					}
					openingMiss = true
				}
				switch {
				case hit.T < bestT-tieEps:
					bestT, bestIdx, bestHit, bestLocalDir, bestOpeningMiss = hit.T, i, hit, localD, openingMiss
				case math.Abs(hit.T-bestT) <= tieEps && bestIdx >= 0 && elements[i].ObjectID < elements[bestIdx].ObjectID:
					bestT, bestIdx, bestHit, bestLocalDir, bestOpeningMiss = hit.T, i, hit, localD, openingMiss
				}
			}
			if bestIdx < 0 {
				if sawBeyondHorizon {
					cur.Event = ray.BeyondHorizon
				} else {
					cur.Event = ray.FlyOff
				}
				events = append(events, cur)
				return events
			}
		}

		el := elements[bestIdx]

		if bestOpeningMiss {
			cur.PathLength += bestHit.T
			cur.LastElement = el.ObjectID
			cur.PathEventID++
			cur.RNGState = rng.State()
			cur.Event = ray.Absorbed
			events = append(events, cur)
			return events
		}

		bestHit.Normal = PerturbNormal(bestHit.Normal, el.SlopeErr.Sag, el.SlopeErr.Mer, &rng)

		var mat *material.Table
		if el.MaterialIndex >= 0 {
			mat = mats.Get(int(el.MaterialIndex))
		}
		outcome := Apply(el.Behavior, bestHit, bestLocalDir, cur.Field, cur.EnergyEV, mat)

		cur.PathLength += bestHit.T
		cur.LastElement = el.ObjectID
		cur.PathEventID++
		cur.RNGState = rng.State()

		if outcome.Absorbed {
			cur.Event = ray.Absorbed
			events = append(events, cur)
			return events
		}

		cur.Position = el.ElementToWorld.MulPoint(bestHit.Point)
		cur.Direction = el.ElementToWorld.MulDir(outcome.Direction).Normalized()
		cur.Field = outcome.Field
		cur.Event = ray.JustHitElement
		events = append(events, cur)

		prevIdx = bestIdx
	}

	cur.Event = ray.NotEnoughBounces
	events = append(events, cur)
	return events
}

// TraceAll runs TraceOne for every ray in rays using a goroutine worker
// pool sized to GOMAXPROCS, per §5 ("data-parallel ... one lane per ray;
// goroutine worker pool sized to GOMAXPROCS; no shared mutable state
// except the pre-partitioned output buffer"). Each worker writes only to
// its own slice of `out`, so there is no contention beyond that initial
// partition.
func TraceAll(rays []ray.Ray, elements []beamline.Element, mats *material.DB, cfg Config) [][]ray.Ray {
	out := make([][]ray.Ray, len(rays))
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > len(rays) {
		workers = len(rays)
	}
	if workers == 0 {
		return out
	}

	var next int64 = -1
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				i := atomic.AddInt64(&next, 1)
				if int(i) >= len(rays) {
					return
				}
				out[i] = TraceOne(rays[i], elements, mats, cfg)
			}
		}()
	}
	wg.Wait()
	return out
}
