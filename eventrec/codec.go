// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eventrec

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/rayx/geom"
)

// attrNames lists every Attr bit alongside its CSV column header(s), in
// a fixed declaration order so WriteCSV/ReadCSV agree on column layout
// without needing to persist the order separately.
var attrNames = []struct {
	bit     Attr
	headers []string
}{
	{AttrPosition, []string{"position.x", "position.y", "position.z"}},
	{AttrDirection, []string{"direction.x", "direction.y", "direction.z"}},
	{AttrEnergy, []string{"energy_ev"}},
	{AttrField, []string{
		"field.x (real)", "field.x (imag)",
		"field.y (real)", "field.y (imag)",
		"field.z (real)", "field.z (imag)",
	}},
	{AttrPathLength, []string{"path_length"}},
	{AttrOrder, []string{"order"}},
	{AttrElementID, []string{"element_id"}},
	{AttrSourceID, []string{"source_id"}},
	{AttrObjectID, []string{"object_id"}},
	{AttrPathID, []string{"path_id"}},
	{AttrPathEventID, []string{"path_event_id"}},
}

// WriteCSV renders a SoA as the fixed CSV layout of §6: "header line
// enumerating selected attribute names (complex fields as `<name>
// (real)` and `<name> (imag)`); one event per line, fixed-width
// right-aligned cells, comma delimiter." Adapted from
// tools/MatTable.go's bytes.Buffer + io.Ff accumulation pattern,
// generalized from a LaTeX table to a plain CSV.
func WriteCSV(s *SoA) []byte {
	buf := new(bytes.Buffer)
	var headers []string
	for _, a := range attrNames {
		if s.Mask&a.bit != 0 {
			headers = append(headers, a.headers...)
		}
	}
	io.Ff(buf, "%s\n", strings.Join(headers, ","))

	n := s.Len()
	for i := 0; i < n; i++ {
		var cells []string
		if s.Mask&AttrPosition != 0 {
			p := s.Position[i]
			cells = append(cells, fmtF(p[0]), fmtF(p[1]), fmtF(p[2]))
		}
		if s.Mask&AttrDirection != 0 {
			d := s.Direction[i]
			cells = append(cells, fmtF(d[0]), fmtF(d[1]), fmtF(d[2]))
		}
		if s.Mask&AttrEnergy != 0 {
			cells = append(cells, fmtF(s.Energy[i]))
		}
		if s.Mask&AttrField != 0 {
			f := s.Field[i]
			cells = append(cells,
				fmtF(real(f[0])), fmtF(imag(f[0])),
				fmtF(real(f[1])), fmtF(imag(f[1])),
				fmtF(real(f[2])), fmtF(imag(f[2])))
		}
		if s.Mask&AttrPathLength != 0 {
			cells = append(cells, fmtF(s.PathLength[i]))
		}
		if s.Mask&AttrOrder != 0 {
			cells = append(cells, fmtI(int64(s.Order[i])))
		}
		if s.Mask&AttrElementID != 0 {
			cells = append(cells, fmtI(int64(s.ElementID[i])))
		}
		if s.Mask&AttrSourceID != 0 {
			cells = append(cells, fmtI(int64(s.SourceID[i])))
		}
		if s.Mask&AttrObjectID != 0 {
			cells = append(cells, fmtI(int64(s.ObjectID[i])))
		}
		if s.Mask&AttrPathID != 0 {
			cells = append(cells, fmtI(s.PathID[i]))
		}
		if s.Mask&AttrPathEventID != 0 {
			cells = append(cells, fmtI(int64(s.PathEventID[i])))
		}
		io.Ff(buf, "%s\n", strings.Join(cells, ","))
	}
	return buf.Bytes()
}

// csvCellWidth is the fixed width every data cell is right-aligned to;
// it fits the longest 17-significant-digit float.
const csvCellWidth = 24

func fmtF(v float64) string {
	return fmt.Sprintf("%*s", csvCellWidth, strconv.FormatFloat(v, 'g', 17, 64))
}
func fmtI(v int64) string { return fmt.Sprintf("%*s", csvCellWidth, strconv.FormatInt(v, 10)) }

// ReadCSV parses a blob produced by WriteCSV back into a SoA. The
// attribute mask is recovered from the header line; header names and
// cells are whitespace-trimmed before parsing. The layout has no
// enum-valued column.
func ReadCSV(blob []byte) (*SoA, error) {
	lines := strings.Split(strings.TrimRight(string(blob), "\n"), "\n")
	if len(lines) == 0 {
		return nil, fmt.Errorf("eventrec: empty csv")
	}
	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	mask := Attr(0)
	colsFor := func(hs ...string) bool {
		for _, h := range hs {
			found := false
			for _, have := range headers {
				if have == h {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	for _, a := range attrNames {
		if colsFor(a.headers...) {
			mask |= a.bit
		}
	}

	colIndex := make(map[string]int, len(headers))
	for i, h := range headers {
		colIndex[h] = i
	}

	rows := lines[1:]
	if len(rows) == 1 && rows[0] == "" {
		rows = nil
	}
	out := &SoA{Mask: mask}
	n := len(rows)
	allocSoA(out, n)

	for i, line := range rows {
		if line == "" {
			continue
		}
		cells := strings.Split(line, ",")
		get := func(name string) string {
			idx, ok := colIndex[name]
			if !ok || idx >= len(cells) {
				return "0"
			}
			return strings.TrimSpace(cells[idx])
		}
		getF := func(name string) float64 {
			v, _ := strconv.ParseFloat(get(name), 64)
			return v
		}
		getI := func(name string) int64 {
			v, _ := strconv.ParseInt(get(name), 10, 64)
			return v
		}
		if mask&AttrPosition != 0 {
			out.Position[i] = geom.Vec3{getF("position.x"), getF("position.y"), getF("position.z")}
		}
		if mask&AttrDirection != 0 {
			out.Direction[i] = geom.Vec3{getF("direction.x"), getF("direction.y"), getF("direction.z")}
		}
		if mask&AttrEnergy != 0 {
			out.Energy[i] = getF("energy_ev")
		}
		if mask&AttrField != 0 {
			out.Field[i] = geom.Field{
				complex(getF("field.x (real)"), getF("field.x (imag)")),
				complex(getF("field.y (real)"), getF("field.y (imag)")),
				complex(getF("field.z (real)"), getF("field.z (imag)")),
			}
		}
		if mask&AttrPathLength != 0 {
			out.PathLength[i] = getF("path_length")
		}
		if mask&AttrOrder != 0 {
			out.Order[i] = int32(getI("order"))
		}
		if mask&AttrElementID != 0 {
			out.ElementID[i] = int32(getI("element_id"))
		}
		if mask&AttrSourceID != 0 {
			out.SourceID[i] = int32(getI("source_id"))
		}
		if mask&AttrObjectID != 0 {
			out.ObjectID[i] = int32(getI("object_id"))
		}
		if mask&AttrPathID != 0 {
			out.PathID[i] = getI("path_id")
		}
		if mask&AttrPathEventID != 0 {
			out.PathEventID[i] = int32(getI("path_event_id"))
		}
	}
	return out, nil
}

func allocSoA(s *SoA, n int) {
	if s.Mask&AttrPosition != 0 {
		s.Position = make([]geom.Vec3, n)
	}
	if s.Mask&AttrDirection != 0 {
		s.Direction = make([]geom.Vec3, n)
	}
	if s.Mask&AttrEnergy != 0 {
		s.Energy = make([]float64, n)
	}
	if s.Mask&AttrField != 0 {
		s.Field = make([]geom.Field, n)
	}
	if s.Mask&AttrPathLength != 0 {
		s.PathLength = make([]float64, n)
	}
	if s.Mask&AttrOrder != 0 {
		s.Order = make([]int32, n)
	}
	if s.Mask&AttrElementID != 0 {
		s.ElementID = make([]int32, n)
	}
	if s.Mask&AttrSourceID != 0 {
		s.SourceID = make([]int32, n)
	}
	if s.Mask&AttrObjectID != 0 {
		s.ObjectID = make([]int32, n)
	}
	if s.Mask&AttrPathID != 0 {
		s.PathID = make([]int64, n)
	}
	if s.Mask&AttrPathEventID != 0 {
		s.PathEventID = make([]int32, n)
	}
}
