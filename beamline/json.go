// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package beamline

import (
	"encoding/json"
	"fmt"

	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/rayx/geom"
)

// jsonNode is the on-disk scene-graph schema consumed by LoadJSON, the
// native serialization for an already-assembled beamline (the RML/XML
// importer itself stays external, per §1's Non-goals; this is only the
// wire format between that importer and this package), grounded on
// inp/mat.go's ReadMat (utl.ReadFile + encoding/json.Unmarshal).
type jsonNode struct {
	Name         string                 `json:"name"`
	Kind         string                 `json:"kind"` // "group", "source" or "element"
	SourceKind   string                 `json:"source_kind"`
	SurfaceKind  string                 `json:"surface_kind"`
	CutoutKind   string                 `json:"cutout_kind"`
	BehaviorKind string                 `json:"behavior_kind"`
	Position     [3]float64             `json:"position"`
	Rotation     [9]float64             `json:"rotation"` // row-major 3x3
	Design       map[string]interface{} `json:"design"`
	Children     []jsonNode             `json:"children"`
}

// LoadJSON reads a beamline scene graph from a JSON file, per the
// ambient configuration contract ("JSON-backed, following inp/mat.go's
// encoding/json + utl.ReadFile pattern").
func LoadJSON(fn string) (*Beamline, error) {
	b, err := utl.ReadFile(fn)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("cannot open beamline file %s: %v", fn, err)}
	}
	var root jsonNode
	if err := json.Unmarshal(b, &root); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("cannot unmarshal beamline file %s: %v", fn, err)}
	}
	if root.Kind != "group" {
		return nil, &ConfigError{Reason: "beamline root must be a group"}
	}
	grp, err := decodeGroup(root)
	if err != nil {
		return nil, err
	}
	return &Beamline{Root: grp}, nil
}

func decodeGroup(n jsonNode) (*Group, error) {
	g := NewGroup(n.Name, vec3From(n.Position), rotFromRowMajor(n.Rotation))
	for _, c := range n.Children {
		child, err := decodeNode(c)
		if err != nil {
			return nil, err
		}
		g.AddChild(child)
	}
	return g, nil
}

func decodeNode(n jsonNode) (Node, error) {
	design, err := decodeDesignMap(n.Design)
	if err != nil {
		return nil, err
	}
	pos, rot := vec3From(n.Position), rotFromRowMajor(n.Rotation)
	switch n.Kind {
	case "group":
		return decodeGroup(n)
	case "source":
		if n.SourceKind == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("source node %q is missing source_kind", n.Name)}
		}
		return NewDesignSource(n.Name, n.SourceKind, pos, rot, design), nil
	case "element":
		if n.SurfaceKind == "" || n.BehaviorKind == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("element node %q is missing surface_kind/behavior_kind", n.Name)}
		}
		return NewDesignElement(n.Name, n.SurfaceKind, n.CutoutKind, n.BehaviorKind, pos, rot, design), nil
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("node %q has unknown kind %q", n.Name, n.Kind)}
	}
}

func vec3From(a [3]float64) geom.Vec3 { return geom.Vec3{a[0], a[1], a[2]} }

func rotFromRowMajor(r [9]float64) geom.Mat3 {
	return geom.Mat3{
		{r[0], r[1], r[2]},
		{r[3], r[4], r[5]},
		{r[6], r[7], r[8]},
	}
}

// decodeDesignMap converts the loosely-typed JSON object into the
// closed DesignMap union, rejecting values outside the known set per
// §9's "unknown keys are an error (not silently ignored)" -- here
// applied to unrepresentable *value shapes*, since every JSON key
// itself is accepted as a design parameter.
func decodeDesignMap(raw map[string]interface{}) (DesignMap, error) {
	if raw == nil {
		return DesignMap{}, nil
	}
	out := make(DesignMap, len(raw))
	for k, v := range raw {
		val, err := decodeValue(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
	return out, nil
}

func decodeValue(key string, v interface{}) (Value, error) {
	switch t := v.(type) {
	case float64:
		return Float64Value(t), nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case map[string]interface{}:
		m, err := decodeDesignMap(t)
		if err != nil {
			return Value{}, err
		}
		return MapValue(m), nil
	case []interface{}:
		if len(t) == 4 {
			var v4 geom.Vec4
			ok := true
			for i, e := range t {
				f, isF := e.(float64)
				if !isF {
					ok = false
					break
				}
				v4[i] = f
			}
			if ok {
				return Vec4Value(v4), nil
			}
		}
		return Value{}, &ConfigError{Reason: fmt.Sprintf("design parameter %q is an array of unsupported shape", key)}
	default:
		return Value{}, &ConfigError{Reason: fmt.Sprintf("design parameter %q has unsupported JSON type %T", key, v)}
	}
}
