// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"fmt"
	"strings"
)

// AlignMode selects how declarations are padded.
type AlignMode uint8

const (
	// VectorAlign aligns vectors (float2 is 8-aligned, float3 and float4
	// are 16-aligned). This is the default.
	VectorAlign AlignMode = iota

	// NoAlign packs declarations with #pragma pack(1).
	NoAlign

	// ComponentAlign aligns vectors to their component size.
	ComponentAlign

	// ExtendTo4 extends every member to 4 components (DirectX 8 style).
	ExtendTo4
)

var alignNames = [...]string{
	VectorAlign:    "vector",
	NoAlign:        "none",
	ComponentAlign: "component",
	ExtendTo4:      "extend4",
}

func (m AlignMode) String() string {
	if int(m) < len(alignNames) {
		return alignNames[m]
	}
	return fmt.Sprintf("AlignMode(%d)", uint8(m))
}

// ParseAlignMode parses a name as returned by String.
func ParseAlignMode(name string) (AlignMode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range alignNames {
		if n == name {
			return AlignMode(i), nil
		}
	}
	return VectorAlign, fmt.Errorf("layout: unknown align mode %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m AlignMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *AlignMode) UnmarshalText(text []byte) error {
	parsed, err := ParseAlignMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
