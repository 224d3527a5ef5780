// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package codewriter

import (
	"fmt"
	"strings"
)

// Language identifies an output dialect.
type Language uint8

const (
	// LanguageNone is the zero value; it formats like C++.
	LanguageNone Language = iota

	// CPP is C++.
	CPP

	// GLSL120 is GLSL up to 1.2 (texture2D).
	GLSL120

	// GLSL150 is GLSL up to 1.5 (texture).
	GLSL150

	// ESSL is GLSL for OpenGL ES (precision hints).
	ESSL

	// HLSL is the DirectX shading language.
	HLSL

	// MSL is the Metal shading language.
	MSL

	// Java has no vector and struct support.
	Java

	// JS is JavaScript; no vector and struct support.
	JS
)

var languageNames = [...]string{
	LanguageNone: "none",
	CPP:          "cpp",
	GLSL120:      "glsl120",
	GLSL150:      "glsl150",
	ESSL:         "essl",
	HLSL:         "hlsl",
	MSL:          "msl",
	Java:         "java",
	JS:           "js",
}

// String returns the configuration name of the language (e.g. "glsl150").
func (l Language) String() string {
	if int(l) < len(languageNames) {
		return languageNames[l]
	}
	return fmt.Sprintf("Language(%d)", uint8(l))
}

// ParseLanguage parses a configuration name as returned by String.
func ParseLanguage(name string) (Language, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range languageNames {
		if n == name {
			return Language(i), nil
		}
	}
	return LanguageNone, fmt.Errorf("codewriter: unknown language %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// IsCPP reports whether the language is C++ (or unset).
func (l Language) IsCPP() bool {
	return l == CPP || l == LanguageNone
}

// IsGLSL reports whether the language is any GLSL flavor.
func (l Language) IsGLSL() bool {
	return l >= GLSL120 && l <= ESSL
}

// IsOldGLSL reports whether the language lacks GLSL 1.3 features.
func (l Language) IsOldGLSL() bool {
	return l == GLSL120 || l == ESSL
}

// IsShadingLanguage reports whether the language runs on the GPU.
func (l Language) IsShadingLanguage() bool {
	return l >= GLSL120 && l <= MSL
}

// SupportsVector reports whether the language has native vector types.
func (l Language) SupportsVector() bool {
	return l <= MSL
}

// SupportsStruct reports whether the language has struct types.
func (l Language) SupportsStruct() bool {
	return l <= MSL
}

// FloatSuffix reports whether float32 literals carry an "f" suffix.
func (l Language) FloatSuffix() bool {
	return l.IsCPP() || l == MSL
}

// UnsignedSuffix reports whether unsigned literals carry a "u" suffix.
func (l Language) UnsignedSuffix() bool {
	return l.IsCPP() || l == MSL
}

// BraceArrays reports whether value lists are written as {a, b} instead of [a, b].
func (l Language) BraceArrays() bool {
	return l.IsCPP() || l == MSL
}
