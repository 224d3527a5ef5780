// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"errors"
	"strconv"
	"strings"
)

// ErrEmptyPath is returned when a member is added with an empty path.
var ErrEmptyPath = errors.New("layout: empty member path")

// Type is a node of a layout: *Named, *Array or *Record.
type Type interface {
	// String returns the compact textual form understood by Parse.
	String() string

	// Empty reports whether the type declares no storage.
	Empty() bool

	visitMembers(prefix string, fn func(path, typeName string))
	member(element string) Type
	addMember(element string, t Type)
}

// Named is a type known by name, e.g. "float3" or "IK2D::Joint".
type Named struct {
	Name string
}

// Array is a fixed length array.
type Array struct {
	Elem Type
	Len  int
}

// Field is a member of a record.
type Field struct {
	Name string
	Type Type
}

// Record is an anonymous struct.
type Record struct {
	Fields []Field
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{}
}

func (t *Named) String() string { return t.Name }

// Empty is always false for named types.
func (t *Named) Empty() bool { return false }

func (t *Named) visitMembers(prefix string, fn func(path, typeName string)) {
	fn(prefix, t.Name)
}

func (t *Named) member(string) Type    { return nil }
func (t *Named) addMember(string, Type) {}

func (t *Array) String() string {
	elem := ""
	if t.Elem != nil {
		elem = t.Elem.String()
	}
	return "[" + strconv.Itoa(t.Len) + "]" + elem
}

// Empty reports whether the array has no elements or an empty element type.
func (t *Array) Empty() bool {
	return t.Len <= 0 || t.Elem == nil || t.Elem.Empty()
}

func (t *Array) visitMembers(prefix string, fn func(path, typeName string)) {
	if t.Elem == nil {
		return
	}
	for i := range t.Len {
		t.Elem.visitMembers(prefix+"["+strconv.Itoa(i)+"]", fn)
	}
}

// grow parses an element of the form "[index]" and grows the array to
// hold it.
func (t *Array) grow(element string) bool {
	if len(element) < 2 || element[0] != '[' || element[len(element)-1] != ']' {
		return false
	}
	index := 0
	if digits := element[1 : len(element)-1]; digits != "" {
		var err error
		if index, err = strconv.Atoi(digits); err != nil || index < 0 {
			return false
		}
	}
	t.Len = max(t.Len, index+1)
	return true
}

func (t *Array) member(element string) Type {
	if t.grow(element) {
		return t.Elem
	}
	return nil
}

func (t *Array) addMember(element string, elem Type) {
	if t.grow(element) {
		t.Elem = elem
	}
}

func (t *Record) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range t.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Name)
		b.WriteByte(' ')
		b.WriteString(f.Type.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Empty reports whether all fields are empty.
func (t *Record) Empty() bool {
	for _, f := range t.Fields {
		if !f.Type.Empty() {
			return false
		}
	}
	return true
}

func (t *Record) visitMembers(prefix string, fn func(path, typeName string)) {
	if prefix != "" {
		prefix += "."
	}
	for _, f := range t.Fields {
		f.Type.visitMembers(prefix+f.Name, fn)
	}
}

// Field returns the type of the named field or nil.
func (t *Record) Field(name string) Type {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return nil
}

func (t *Record) member(element string) Type {
	if len(element) < 2 || element[0] != '.' {
		return nil
	}
	return t.Field(element[1:])
}

func (t *Record) addMember(element string, ft Type) {
	if len(element) < 2 || element[0] != '.' {
		return
	}
	name := element[1:]
	if t.Field(name) != nil {
		return
	}
	t.Fields = append(t.Fields, Field{Name: name, Type: ft})
}

// AddMember adds a member at path (e.g. "foo.bar[3].x" or ".foo"), creating
// intermediate records and arrays. An existing record member is kept, an
// array element type is replaced. Nil and empty types are ignored.
func (t *Record) AddMember(path string, mt Type) error {
	if mt == nil || mt.Empty() {
		return nil
	}
	if path == "" {
		return ErrEmptyPath
	}
	if path[0] != '.' && path[0] != '[' {
		path = "." + path
	}

	var current Type = t
	pos := 0
	for {
		start := pos
		pos++
		for pos < len(path) && path[pos] != '.' && path[pos] != '[' {
			pos++
		}
		element := path[start:pos]
		if pos == len(path) {
			current.addMember(element, mt)
			return nil
		}

		next := current.member(element)
		if next == nil {
			if path[pos] == '.' {
				next = NewRecord()
			} else {
				next = &Array{}
			}
			current.addMember(element, next)
		}
		current = next
	}
}

// AddMemberType parses typeName and adds it at path. Unparsable type names
// are ignored like empty types.
func (t *Record) AddMemberType(path, typeName string) error {
	return t.AddMember(path, Parse(typeName))
}

// Member is an unrolled leaf of a layout.
type Member struct {
	Path string
	Type string
}

// Members returns the leaves of t in declaration order. Arrays are
// unrolled, so "[2]float" yields "[0]" and "[1]".
func Members(t Type) []Member {
	if t == nil {
		return nil
	}
	var members []Member
	t.visitMembers("", func(path, typeName string) {
		members = append(members, Member{Path: path, Type: typeName})
	})
	return members
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case *Named:
		b, ok := b.(*Named)
		return ok && a.Name == b.Name
	case *Array:
		b, ok := b.(*Array)
		return ok && a.Len == b.Len && Equal(a.Elem, b.Elem)
	case *Record:
		b, ok := b.(*Record)
		if !ok || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Name != b.Fields[i].Name || !Equal(a.Fields[i].Type, b.Fields[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}
