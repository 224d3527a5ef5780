// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package layout

import "strings"

// ScalarKind is the component type of a scalar, vector or matrix.
type ScalarKind uint8

const (
	ScalarInvalid ScalarKind = iota
	ScalarBool
	ScalarByte
	ScalarUByte
	ScalarShort
	ScalarUShort
	ScalarInt
	ScalarUInt
	ScalarLong
	ScalarULong
	ScalarFloat
	ScalarDouble
)

var scalarNames = [...]string{
	ScalarInvalid: "",
	ScalarBool:    "bool",
	ScalarByte:    "byte",
	ScalarUByte:   "ubyte",
	ScalarShort:   "short",
	ScalarUShort:  "ushort",
	ScalarInt:     "int",
	ScalarUInt:    "uint",
	ScalarLong:    "long",
	ScalarULong:   "ulong",
	ScalarFloat:   "float",
	ScalarDouble:  "double",
}

var scalarSizes = [...]int{
	ScalarBool:   1,
	ScalarByte:   1,
	ScalarUByte:  1,
	ScalarShort:  2,
	ScalarUShort: 2,
	ScalarInt:    4,
	ScalarUInt:   4,
	ScalarLong:   8,
	ScalarULong:  8,
	ScalarFloat:  4,
	ScalarDouble: 8,
}

func (k ScalarKind) String() string {
	if int(k) < len(scalarNames) {
		return scalarNames[k]
	}
	return ""
}

// IsInteger reports whether k is a signed or unsigned integer kind.
func (k ScalarKind) IsInteger() bool {
	return k >= ScalarByte && k <= ScalarULong
}

// MatrixInfo describes a scalar (1x1), vector (Nx1) or matrix (NxM) type.
// Rows is the vector length, Columns the number of vectors in a matrix.
type MatrixInfo struct {
	Scalar  ScalarKind
	Rows    int
	Columns int
}

// ParseMatrixInfo parses names like "float", "int3" or "float4x4". The
// zero MatrixInfo is returned for anything else.
func ParseMatrixInfo(name string) MatrixInfo {
	var kind ScalarKind
	for k := ScalarBool; k <= ScalarDouble; k++ {
		if strings.HasPrefix(name, scalarNames[k]) {
			kind = k
			break
		}
	}
	if kind == ScalarInvalid {
		return MatrixInfo{}
	}

	rest := name[len(scalarNames[kind]):]
	if rest == "" {
		return MatrixInfo{Scalar: kind, Rows: 1, Columns: 1}
	}
	if !isDimension(rest[0]) {
		return MatrixInfo{}
	}
	rows := int(rest[0] - '0')
	rest = rest[1:]
	if rest == "" {
		return MatrixInfo{Scalar: kind, Rows: rows, Columns: 1}
	}
	if len(rest) != 2 || rest[0] != 'x' || !isDimension(rest[1]) {
		return MatrixInfo{}
	}
	return MatrixInfo{Scalar: kind, Rows: rows, Columns: int(rest[1] - '0')}
}

func isDimension(c byte) bool {
	return c >= '1' && c <= '4'
}

// Valid reports whether the info describes a known type.
func (m MatrixInfo) Valid() bool {
	return m.Scalar != ScalarInvalid
}

// IsScalar reports whether m is a scalar.
func (m MatrixInfo) IsScalar() bool {
	return m.Valid() && m.Rows <= 1 && m.Columns <= 1
}

// IsVector reports whether m is a scalar or a vector.
func (m MatrixInfo) IsVector() bool {
	return m.Valid() && m.Columns <= 1
}

// Size returns the size in bytes.
func (m MatrixInfo) Size() int {
	if !m.Valid() || int(m.Scalar) >= len(scalarSizes) {
		return 0
	}
	return scalarSizes[m.Scalar] * m.Rows * m.Columns
}

// Suffix returns the dimension suffix, e.g. "3" or "3x3".
func (m MatrixInfo) Suffix() string {
	return dimensionSuffix(m.Rows, m.Columns)
}

// String returns the type name, e.g. "float3".
func (m MatrixInfo) String() string {
	return m.Scalar.String() + m.Suffix()
}

// VectorName returns the name of a vector of rows components of kind.
func VectorName(kind ScalarKind, rows int) string {
	return kind.String() + dimensionSuffix(rows, 1)
}

// MatrixName returns the name of a rows x columns matrix of kind.
func MatrixName(kind ScalarKind, rows, columns int) string {
	return kind.String() + dimensionSuffix(rows, columns)
}

func dimensionSuffix(rows, columns int) string {
	var b strings.Builder
	if rows > 1 || columns > 1 {
		b.WriteByte(byte('0' + rows))
	}
	if columns > 1 {
		b.WriteByte('x')
		b.WriteByte(byte('0' + columns))
	}
	return b.String()
}
