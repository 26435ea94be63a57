// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package stage implements the staging/dispatch driver of §2 component
// I / §4.I: chunked host<->device transfer sizing, the persisted
// pipeline cache and (optionally) multi-process fan-out via gosl/mpi,
// grounded on mporous/driver.go's Init/Run staged-execution shape and
// mporous.State's GetCopy/Set checkpoint pair, generalized from a
// material-point driver loop to a ray-batch dispatch loop.
package stage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/io"
)

// CacheFileName is the pipeline cache's fixed basename under the OS temp
// dir, per §6: "a single blob file under the OS temp dir, filename
// pipeline_cache.data; opaque."
const CacheFileName = "pipeline_cache.data"

func cachePath() string {
	return filepath.Join(os.TempDir(), CacheFileName)
}

func lockPath() string {
	return cachePath() + ".lock"
}

// acquireLock takes a simple O_EXCL sentinel-file lock guarding the
// cache file. gosl ships no file-locking primitive, so this is the one
// deliberate stdlib-only helper in this package (mirrors package
// random's justification: nothing in the retrieval pack addresses
// cross-process file locking, and synthesizing one from a real
// dependency's unrelated primitives would be worse than admitting the
// gap).
func acquireLock() (release func(), err error) {
	f, err := os.OpenFile(lockPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("stage: pipeline cache is locked by another process: %w", err)
	}
	f.Close()
	return func() { os.Remove(lockPath()) }, nil
}

// LoadCache reads the persisted pipeline cache blob, if any. A missing
// or corrupt cache is non-fatal per §6's "opaque" contract: dispatch
// falls back to rebuilding it, logging via io.PfYel the same way
// mporous/porous.go's LogModels warns on a missing model rather than
// aborting the run.
func LoadCache() []byte {
	release, err := acquireLock()
	if err != nil {
		io.PfYel("stage: cache busy, skipping read: %v\n", err)
		return nil
	}
	defer release()

	b, err := os.ReadFile(cachePath())
	if err != nil {
		if !os.IsNotExist(err) {
			io.PfYel("stage: cache unreadable, rebuilding: %v\n", err)
		}
		return nil
	}
	return b
}

// SaveCache persists a freshly-built pipeline cache blob, only called
// after a successful dispatch build per §6 ("write-after-success").
func SaveCache(blob []byte) error {
	release, err := acquireLock()
	if err != nil {
		io.PfYel("stage: cache busy, skipping write: %v\n", err)
		return nil
	}
	defer release()

	tmp := cachePath() + ".tmp"
	if err := os.WriteFile(tmp, blob, 0644); err != nil {
		return fmt.Errorf("stage: cannot write pipeline cache: %w", err)
	}
	return os.Rename(tmp, cachePath())
}
