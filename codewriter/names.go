// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package codewriter

import "strings"

const (
	letters      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	identChars   = letters + "0123456789"
	numLetters   = len(letters)
	numIdentChar = len(identChars)
)

// ConvertIntToIdentifier maps a non-negative integer to a short identifier.
// The first character is a letter, the following ones are letters or digits,
// least significant digit first.
func ConvertIntToIdentifier(v int) string {
	if v < 0 {
		v = -v
	}
	var b strings.Builder
	b.WriteByte(letters[v%numLetters])
	v /= numLetters
	for v > 0 {
		b.WriteByte(identChars[v%numIdentChar])
		v /= numIdentChar
	}
	return b.String()
}

var variableEscapes = map[rune]string{
	'_':  "__",
	' ':  "_s",
	'/':  "_7",
	'\\': "_7",
	'.':  "_p",
	':':  "_c",
	'!':  "_i",
	'-':  "_m",
	'=':  "_e",
	'&':  "_8",
	'|':  "_l",
	'^':  "_v",
	'#':  "_n",
}

// VariableName turns an arbitrary string into a variable name that starts
// with '_'. Characters that are not valid in identifiers are escaped with a
// '_' followed by a letter or digit, and '_' itself is doubled.
func VariableName(s string) string {
	var b strings.Builder
	b.WriteByte('_')
	for _, r := range s {
		if e, ok := variableEscapes[r]; ok {
			b.WriteString(e)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
