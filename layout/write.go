// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"strconv"

	"github.com/gogpu/shadergraph/codewriter"
)

// WriteType writes a type definition named name. Records become
// "struct name {...};", other types a typedef. With NoAlign the definition
// is wrapped in #pragma pack(1) / #pragma pack().
func WriteType(w *codewriter.Writer, t Type, name string, mode AlignMode) {
	if t == nil {
		return
	}
	if mode == NoAlign {
		w.WriteString("#pragma pack(1)\n")
	}

	if r, ok := t.(*Record); ok {
		w.BeginStruct(name)
		for _, f := range r.Fields {
			WriteVariable(w, f.Type, f.Name, mode)
		}
		w.EndStruct()
	} else {
		w.WriteString("typedef ")
		WriteVariable(w, t, name, mode)
	}

	if mode == NoAlign {
		w.WriteString("#pragma pack()\n")
	}
}

// WriteVariable writes the declaration of a variable of type t followed by
// ";". Records are written as anonymous structs. Nothing is written for
// empty types.
func WriteVariable(w *codewriter.Writer, t Type, name string, mode AlignMode) {
	if t == nil || t.Empty() {
		return
	}
	writeDeclaration(w, t, name, mode)
	w.WriteString(";\n")
}

func writeDeclaration(w *codewriter.Writer, t Type, name string, mode AlignMode) {
	switch t := t.(type) {
	case *Named:
		if mode == NoAlign && ParseMatrixInfo(t.Name).Rows == 3 {
			w.WriteString("packed_" + t.Name + " " + name)
			return
		}
		w.WriteString(t.Name + " " + name)
	case *Array:
		if t.Empty() {
			return
		}
		writeDeclaration(w, t.Elem, name, mode)
		w.WriteString("[" + strconv.Itoa(t.Len) + "]")
	case *Record:
		w.BeginStruct("")
		for _, f := range t.Fields {
			WriteVariable(w, f.Type, f.Name, mode)
		}
		w.DecIndent()
		w.WriteString("} " + name)
	}
}
