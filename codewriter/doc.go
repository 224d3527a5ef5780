// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package codewriter provides the line-oriented text writer used by the
// shadergraph code generator.
//
// The writer accumulates one logical line at a time. Committing a line
// inserts a deferred trailing comma (dropped again when the next line closes
// a scope or an array), collapses runs of empty lines and applies the
// current indentation:
//
//	w := codewriter.New(&buf, codewriter.CPP)
//	w.BeginStruct("Vertex")
//	w.WriteLine("float3 position;")
//	w.EndStruct()
//
// # Dialect Toggles
//
// The writer knows nothing about the keywords of a target language. The only
// dialect-dependent behavior is numeric literal formatting (the C++ "f" and
// "u" suffixes) and whether value lists use braces or brackets. See
// [Language].
package codewriter
