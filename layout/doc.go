// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package layout describes the data layouts of generated code.
//
// A layout is a tree of [Named] types (scalars, vectors, matrices or any
// other type known to the target language), fixed length [Array] types and
// [Record] types (anonymous structs). Layouts are built incrementally from
// member paths such as ".foo.bar[3].x": every intermediate element creates a
// record (for ".name") or an array (for "[index]") on demand, and arrays
// grow to the largest index seen.
//
// Layouts have a compact textual form that [Parse] reads and String writes:
//
//	float3              named type
//	[5]int              array of 5 ints
//	{pos float3,n int}  record with two members
//
// [WriteType] and [WriteVariable] emit C-style declarations through a
// codewriter.Writer.
package layout
