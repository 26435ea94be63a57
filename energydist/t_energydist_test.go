// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energydist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/rayx/random"
)

func Test_hardedge01(tst *testing.T) {
	chk.PrintTitle("hardedge01")

	d := &HardEdge{Center: 500, Spread: 20}
	s := random.NewStream(1, 1)
	for i := 0; i < 1000; i++ {
		v := d.Draw(&s)
		if v < 490 || v > 510 {
			tst.Errorf("HardEdge draw out of range: %v", v)
		}
	}
}

func Test_softedge01(tst *testing.T) {
	chk.PrintTitle("softedge01")

	d := &SoftEdge{Center: 500, Sigma: 5}
	s := random.NewStream(2, 1)
	n := 20000
	var sum float64
	for i := 0; i < n; i++ {
		sum += d.Draw(&s)
	}
	mean := sum / float64(n)
	if mean < 495 || mean > 505 {
		tst.Errorf("SoftEdge mean too far from center: %v", mean)
	}
}

func Test_separate01(tst *testing.T) {
	chk.PrintTitle("separate01")

	d := &SeparateEnergies{Center: 500, Spread: 40, N: 5}
	s := random.NewStream(3, 1)
	seen := map[float64]bool{}
	for i := 0; i < 1000; i++ {
		v := d.Draw(&s)
		seen[v] = true
	}
	if len(seen) != 5 {
		tst.Errorf("expected exactly 5 distinct levels, got %d", len(seen))
	}

	single := &SeparateEnergies{Center: 300, Spread: 10, N: 1}
	if single.Draw(&s) != 300 {
		tst.Error("N==1 should always return Center")
	}
}

func Test_datfile01(tst *testing.T) {
	chk.PrintTitle("datfile01")

	d := &DatFile{Energies: []float64{100, 200, 300}, Weights: []float64{1, 0, 0}}
	s := random.NewStream(4, 1)
	for i := 0; i < 100; i++ {
		v := d.Draw(&s)
		chk.Scalar(tst, "all weight on first bin", 1e-12, v, 100)
	}
}

func Test_datfile02(tst *testing.T) {
	chk.PrintTitle("datfile02")

	d := &DatFile{Energies: []float64{100, 200}, Weights: []float64{1, 1}, Continuous: true}
	s := random.NewStream(5, 1)
	for i := 0; i < 200; i++ {
		v := d.Draw(&s)
		if v < 100 || v > 200 {
			tst.Errorf("continuous draw out of bounds: %v", v)
		}
	}
}

func Test_loaddatfile01(tst *testing.T) {
	chk.PrintTitle("loaddatfile01")

	dir := tst.TempDir()
	fn := filepath.Join(dir, "spectrum.dat")
	blob := "energy weight\n100 1\n200 2\n300 1\n"
	if err := os.WriteFile(fn, []byte(blob), 0644); err != nil {
		tst.Fatalf("cannot write fixture: %v", err)
	}

	d, err := LoadDatFile(fn, false)
	if err != nil {
		tst.Fatalf("LoadDatFile failed: %v", err)
	}
	if len(d.Energies) != 3 || len(d.Weights) != 3 {
		tst.Fatalf("expected 3 rows, got energies=%d weights=%d", len(d.Energies), len(d.Weights))
	}
}

func Test_registry01(tst *testing.T) {
	chk.PrintTitle("registry01")

	names := []string{"hard-edge", "soft-edge", "separate-energies", "dat-file"}
	for _, name := range names {
		d := New(name)
		if d == nil {
			tst.Errorf("registry missing distribution %q", name)
		}
	}
	if New("no-such-distribution") != nil {
		tst.Error("unknown name should return nil")
	}
}
