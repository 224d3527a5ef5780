// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package codewriter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatBool formats a boolean literal.
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// FormatInt formats a signed integer literal.
func FormatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// FormatUint formats an unsigned integer literal ("8u" in C++).
func FormatUint(lang Language, v uint64) string {
	s := strconv.FormatUint(v, 10)
	if lang.UnsignedSuffix() {
		s += "u"
	}
	return s
}

// FormatFloat32 formats a single precision literal ("1.0f" in C++).
//
// The shortest representation that round-trips is used so that values such
// as 16711680 (255*256*256, used when packing depth into four bytes) survive.
func FormatFloat32(lang Language, v float32) string {
	s := formatFloat(float64(v), 32)
	if lang.FloatSuffix() && isFinite(float64(v)) {
		s += "f"
	}
	return s
}

// FormatFloat64 formats a double precision literal.
func FormatFloat64(v float64) string {
	return formatFloat(v, 64)
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func formatFloat(v float64, bitSize int) string {
	if !isFinite(v) {
		return strconv.FormatFloat(v, 'g', -1, bitSize)
	}
	a := math.Abs(v)
	var s string
	if a == 0 || (a >= 1e-5 && a < 1e16) {
		s = strconv.FormatFloat(v, 'f', -1, bitSize)
	} else {
		s = strconv.FormatFloat(v, 'e', -1, bitSize)
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Literal formats a Go value as a literal of the given language.
// Supported are bool, the integer types, float32, float64 and string
// (written verbatim, e.g. an identifier).
func Literal(lang Language, v any) string {
	switch v := v.(type) {
	case bool:
		return FormatBool(v)
	case int:
		return FormatInt(int64(v))
	case int8:
		return FormatInt(int64(v))
	case int16:
		return FormatInt(int64(v))
	case int32:
		return FormatInt(int64(v))
	case int64:
		return FormatInt(v)
	case uint:
		return FormatUint(lang, uint64(v))
	case uint8:
		return FormatUint(lang, uint64(v))
	case uint16:
		return FormatUint(lang, uint64(v))
	case uint32:
		return FormatUint(lang, uint64(v))
	case uint64:
		return FormatUint(lang, v)
	case float32:
		return FormatFloat32(lang, v)
	case float64:
		return FormatFloat64(v)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// VectorLiteral formats a vector constructor (e.g. "vector3(1.0f, 2.0f, 3.0f)").
func VectorLiteral(components ...string) string {
	return "vector" + strconv.Itoa(len(components)) + "(" + strings.Join(components, ", ") + ")"
}

// SplatLiteral formats a splat constructor (e.g. "splat3(1.0f)").
func SplatLiteral(n int, value string) string {
	return "splat" + strconv.Itoa(n) + "(" + value + ")"
}

// Float32Vector formats float32 components as a vector constructor.
func Float32Vector(lang Language, components ...float32) string {
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = FormatFloat32(lang, c)
	}
	return VectorLiteral(parts...)
}
