// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/rayx/geom"
	"github.com/cpmech/rayx/kernel"
	"github.com/cpmech/rayx/ray"
)

func Test_chunkranges01(tst *testing.T) {
	chk.PrintTitle("chunkranges01")

	d := &Dispatch{StagingBufferBytes: 4 * ray.WireSize}
	ranges := d.chunkRanges(10)
	if len(ranges) != 3 {
		tst.Fatalf("expected 3 chunks of at most 4 rays for 10 rays, got %d: %v", len(ranges), ranges)
	}
	total := 0
	for _, r := range ranges {
		n := r[1] - r[0]
		if n > 4 {
			tst.Errorf("chunk %v exceeds the staging buffer capacity of 4 rays", r)
		}
		total += n
	}
	if total != 10 {
		tst.Errorf("chunks should cover all 10 rays exactly once, got total %d", total)
	}
}

func Test_chunkranges_empty01(tst *testing.T) {
	chk.PrintTitle("chunkranges_empty01")

	d := &Dispatch{}
	ranges := d.chunkRanges(0)
	if len(ranges) != 1 || ranges[0] != [2]int{0, 0} {
		tst.Errorf("zero rays should still produce one empty range, got %v", ranges)
	}
}

func Test_chunkranges_defaultbuffer01(tst *testing.T) {
	chk.PrintTitle("chunkranges_defaultbuffer01")

	d := &Dispatch{}
	ranges := d.chunkRanges(1)
	if len(ranges) != 1 {
		tst.Errorf("a single ray should fit in one chunk under the default staging buffer, got %d chunks", len(ranges))
	}
}

func Test_myshare01(tst *testing.T) {
	chk.PrintTitle("myshare01")

	rays := make([]ray.Ray, 5)
	share := myShare(rays)
	if len(share) != len(rays) {
		tst.Errorf("single-process run should keep the full ray slice, got %d of %d", len(share), len(rays))
	}
}

func Test_cacheroundtrip01(tst *testing.T) {
	chk.PrintTitle("cacheroundtrip01")

	defer os.Remove(cachePath())
	defer os.Remove(lockPath())

	blob := []byte("pipeline-cache-fixture")
	if err := SaveCache(blob); err != nil {
		tst.Fatalf("SaveCache failed: %v", err)
	}
	back := LoadCache()
	if string(back) != string(blob) {
		tst.Errorf("cache round-trip mismatch: got %q want %q", back, blob)
	}
}

func Test_cachemissing01(tst *testing.T) {
	chk.PrintTitle("cachemissing01")

	os.Remove(cachePath())
	defer os.Remove(lockPath())

	if back := LoadCache(); back != nil {
		tst.Errorf("a missing cache file should load as nil, got %v", back)
	}
}

func Test_dispatchrun01(tst *testing.T) {
	chk.PrintTitle("dispatchrun01")

	d := &Dispatch{
		Elements:           nil,
		Materials:           nil,
		Config:              kernel.Config{MaxBounces: 3},
		StagingBufferBytes: 2 * ray.WireSize,
	}
	rays := make([]ray.Ray, 5)
	for i := range rays {
		rays[i] = ray.Ray{Direction: geom.Vec3{0, 0, 1}, LastElement: -1}
	}
	out := d.Run(rays)
	if len(out) != 5 {
		tst.Fatalf("expected one event list per ray, got %d", len(out))
	}
	for _, events := range out {
		if len(events) != 1 || events[0].Event != ray.FlyOff {
			tst.Errorf("a ray with no elements should fly off immediately, got %v", events)
		}
	}
}
