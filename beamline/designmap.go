// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package beamline

import (
	"fmt"

	"github.com/cpmech/rayx/geom"
)

// ValueKind is the closed set of value types a DesignMap entry may hold,
// per §3's "heterogeneous string->value map over a closed value-type
// set". This generalizes inp/sim.go's JSON-tagged Go structs (which rely
// on the compiler to close the type set) to a runtime-checked closed
// union, since the design-parameter schema itself is only known once the
// importer has populated a given node's map.
type ValueKind int32

const (
	KindFloat64 ValueKind = iota
	KindInt
	KindBool
	KindString
	KindMap
	KindVec4
	KindMat4
	KindAngle
)

// Value is one entry of a DesignMap; only the field matching Kind is
// meaningful.
type Value struct {
	Kind ValueKind
	F    float64
	I    int64
	B    bool
	S    string
	M    DesignMap
	V4   geom.Vec4
	M4   geom.Mat4
	A    geom.Angle
}

func Float64Value(f float64) Value { return Value{Kind: KindFloat64, F: f} }
func IntValue(i int64) Value       { return Value{Kind: KindInt, I: i} }
func BoolValue(b bool) Value       { return Value{Kind: KindBool, B: b} }
func StringValue(s string) Value   { return Value{Kind: KindString, S: s} }
func MapValue(m DesignMap) Value   { return Value{Kind: KindMap, M: m} }
func Vec4Value(v geom.Vec4) Value  { return Value{Kind: KindVec4, V4: v} }
func Mat4Value(m geom.Mat4) Value  { return Value{Kind: KindMat4, M4: m} }
func AngleValue(a geom.Angle) Value { return Value{Kind: KindAngle, A: a} }

// DesignMap is the per-node design-parameter map of §3, populated by the
// (external) importer and consumed by compileElements/compileSources.
type DesignMap map[string]Value

// Clone deep-copies m, satisfying §3's "deep-cloneable; never shared by
// reference between nodes".
func (m DesignMap) Clone() DesignMap {
	if m == nil {
		return nil
	}
	out := make(DesignMap, len(m))
	for k, v := range m {
		if v.Kind == KindMap {
			v.M = v.M.Clone()
		}
		out[k] = v
	}
	return out
}

// Float64 reads a required float64 key, per the "unknown keys are an
// error (not silently ignored)" design note of §9.
func (m DesignMap) Float64(key string) (float64, error) {
	v, ok := m[key]
	if !ok {
		return 0, &ConfigError{Reason: fmt.Sprintf("missing design parameter %q", key)}
	}
	if v.Kind != KindFloat64 {
		return 0, &ConfigError{Reason: fmt.Sprintf("design parameter %q is not a float64", key)}
	}
	return v.F, nil
}

// Float64Or reads an optional float64 key, returning def if absent.
func (m DesignMap) Float64Or(key string, def float64) float64 {
	v, ok := m[key]
	if !ok || v.Kind != KindFloat64 {
		return def
	}
	return v.F
}

func (m DesignMap) Int(key string) (int64, error) {
	v, ok := m[key]
	if !ok || v.Kind != KindInt {
		return 0, &ConfigError{Reason: fmt.Sprintf("missing or mistyped design parameter %q", key)}
	}
	return v.I, nil
}

func (m DesignMap) IntOr(key string, def int64) int64 {
	v, ok := m[key]
	if ok && v.Kind == KindFloat64 && v.F == float64(int64(v.F)) {
		// JSON-loaded maps carry every number as KindFloat64
		return int64(v.F)
	}
	if !ok || v.Kind != KindInt {
		return def
	}
	return v.I
}

func (m DesignMap) Bool(key string) bool {
	v, ok := m[key]
	if !ok || v.Kind != KindBool {
		return false
	}
	return v.B
}

func (m DesignMap) String(key string) (string, error) {
	v, ok := m[key]
	if !ok || v.Kind != KindString {
		return "", &ConfigError{Reason: fmt.Sprintf("missing or mistyped design parameter %q", key)}
	}
	return v.S, nil
}

func (m DesignMap) StringOr(key, def string) string {
	v, ok := m[key]
	if !ok || v.Kind != KindString {
		return def
	}
	return v.S
}

func (m DesignMap) Angle(key string) geom.Angle {
	v, ok := m[key]
	if !ok || v.Kind != KindAngle {
		return geom.Rad(0)
	}
	return v.A
}

// ConfigError is the beamline-configuration member of the error taxonomy
// of §7: "beamline cycle, missing required design parameter, inconsistent
// source/element type tags. Fatal; surfaced to caller."
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config: " + e.Reason }
