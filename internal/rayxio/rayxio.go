// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package rayxio wraps gosl/io's colored console output with the
// RAYX_DEBUG_VERBOSE gate, mirroring inp/logging.go's LogErr/LogErrCond
// pair and gofem/main.go's utl.Tsilent-style verbosity switch.
package rayxio

import (
	"os"

	"github.com/cpmech/gosl/io"
)

// Verbose reports whether RAYX_DEBUG_VERBOSE is set to a non-empty,
// non-"0" value.
func Verbose() bool {
	v := os.Getenv("RAYX_DEBUG_VERBOSE")
	return v != "" && v != "0"
}

// Banner prints the startup banner, mirroring gofem/main.go's
// utl.PfWhite copyright header.
func Banner(name, version string) {
	io.PfWhite("\n%s %s -- X-ray beamline ray tracer\n\n", name, version)
}

// Debug prints only when Verbose() is true.
func Debug(msg string, prm ...interface{}) {
	if Verbose() {
		io.Pf(msg, prm...)
	}
}

// Info prints unconditionally in the default color.
func Info(msg string, prm ...interface{}) {
	io.Pf(msg, prm...)
}

// Warn prints a non-fatal warning in yellow, per §7's "logged, operation
// continues" contract for non-fatal errors like IoError.
func Warn(msg string, prm ...interface{}) {
	io.PfYel(msg, prm...)
}

// Fatal prints a fatal error in red, mirroring gofem/main.go's deferred
// recover handler (`utl.PfRed("ERROR: %v\n", err)`).
func Fatal(msg string, prm ...interface{}) {
	io.PfRed(msg, prm...)
}
