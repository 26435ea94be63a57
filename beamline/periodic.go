// Copyright 2012 Dorival Pedroso & Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package beamline

// elementSymbolToZ maps the element symbols RAY-X design files name
// materials by (mirroring the original material database's convention)
// to atomic number, restricted to the elements commonly used for X-ray
// optical coatings and substrates.
var elementSymbolToZ = map[string]int{
	"H": 1, "Be": 4, "C": 6, "N": 7, "O": 8, "F": 9,
	"Mg": 12, "Al": 13, "Si": 14, "P": 15, "S": 16,
	"Ca": 20, "Cr": 24, "Fe": 26, "Ni": 28, "Cu": 29, "Zn": 30,
	"Ge": 32, "Zr": 40, "Mo": 42, "Rh": 45, "Pd": 46, "Ag": 47,
	"W": 74, "Ir": 77, "Pt": 78, "Au": 79, "Pb": 82, "U": 92,
}
