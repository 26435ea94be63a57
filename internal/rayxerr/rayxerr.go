// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package rayxerr collects the typed error taxonomy of §7 into one
// place, grounded on fem/errorhandler.go's Stop/PanicOrNot split
// between fatal and per-rank-continuable errors, generalized here to
// fatal-vs-per-ray-vs-non-fatal. beamline.ConfigError and
// material.UnknownMaterialError stay in their own packages and are not
// re-exported here (ExitCode maps them through its default case); the
// remaining four (geometry, beyond-horizon, device, io) are defined
// here since no earlier component owns them.
package rayxerr

import "fmt"

// GeometryError is per-ray (§7): "surface cannot be intersected
// (non-finite coefficients)". Recorded as a FatalError event; the ray
// is terminated, the dispatch continues.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("rayx: geometry error: %s", e.Reason)
}

// BeyondHorizonError is per-ray (§7): the toroid/cubic Newton iteration
// failed to converge. Recorded as a BeyondHorizon event; the ray is
// terminated, the dispatch continues.
type BeyondHorizonError struct {
	Reason string
}

func (e *BeyondHorizonError) Error() string {
	return fmt.Sprintf("rayx: beyond horizon: %s", e.Reason)
}

// DeviceError is fatal at dispatch scope (§7): "out-of-memory, fence
// timeout, shader compilation failure." The driver aborts the whole
// dispatch and returns to the caller with no events.
type DeviceError struct {
	Reason string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("rayx: device error: %s", e.Reason)
}

// IoError is non-fatal (§7): "cache load/write failure." Logged via
// rayxio, the caller's operation continues.
type IoError struct {
	Reason string
	Cause  error
}

func (e *IoError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rayx: io error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("rayx: io error: %s", e.Reason)
}

func (e *IoError) Unwrap() error { return e.Cause }

// ExitCode maps an error's class to the CLI exit code contract of
// SPEC_FULL.md's CLI component: 0 success is the caller's own
// responsibility when err is nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch err.(type) {
	case *DeviceError:
		return 2
	case *IoError:
		return 3
	case *GeometryError, *BeyondHorizonError:
		return 4
	default:
		// ConfigError, UnknownMaterialError and any other fatal
		// beamline-construction failure: the beamline itself is
		// unusable.
		return 1
	}
}
