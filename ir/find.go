package ir

import (
	"strconv"
	"strings"

	"github.com/gogpu/shadergraph/layout"
)

// FindMode selects what FindAttribute accepts.
type FindMode uint8

const (
	// FindTyped finds attributes and components that have a type.
	FindTyped FindMode = iota

	// FindUntyped also finds trees and paths that are a prefix of a child
	// key (e.g. "foo" if the child "foo.bar" exists).
	FindUntyped

	// FindPartial returns the deepest tree on the path even if no child
	// matches the rest of the path.
	FindPartial
)

// FindAttribute descends from h along path. It returns the deepest entity that
// holds the path together with the remaining member path, or NullPath.
func (g *Graph) FindAttribute(h Handle, path string, mode FindMode) Path {
	switch e := g.Entity(h).(type) {
	case *Attribute:
		path = MakePath(path)
		if mode == FindTyped && memberType(e.Type, path) == "" {
			return NullPath
		}
		return Path{Entity: h, Member: path}
	case *Tree:
		return g.findInTree(h, e, path, mode)
	}
	return NullPath
}

func (g *Graph) findInTree(h Handle, t *Tree, path string, mode FindMode) Path {
	if path == "" {
		if mode != FindTyped {
			return Path{Entity: h}
		}
		return NullPath
	}

	p := MakePath(path)
	// ".foo.bar" exists and path is ".foo.bar"
	if i, found := t.lowerBound(p); found {
		return g.FindAttribute(t.children[i].Handle, "", mode)
	}
	// path is ".foo"
	if mode != FindTyped && t.extendingChild(p) >= 0 {
		return Path{Entity: h, Member: p}
	}
	// path is ".foo.bar.x"
	if i := t.prefixChild(p); i >= 0 {
		c := t.children[i]
		return g.FindAttribute(c.Handle, p[len(c.Key):], mode)
	}
	if mode == FindPartial {
		return Path{Entity: h, Member: p}
	}
	return NullPath
}

// HasAttribute reports whether path names anything below h.
func (g *Graph) HasAttribute(h Handle, path string) bool {
	return !g.FindAttribute(h, path, FindUntyped).IsNull()
}

// HasTypedAttribute reports whether path names an attribute or component.
func (g *Graph) HasTypedAttribute(h Handle, path string) bool {
	return !g.FindAttribute(h, path, FindTyped).IsNull()
}

// memberType returns the type of a component of a value of type typ, e.g.
// "float" for ".x" of "float3". An empty result means that there is no such
// component.
func memberType(typ, path string) string {
	splitMembers(path, func(member string) {
		typ = selectMember(typ, member)
	})
	return typ
}

const swizzle = "xyzw"

func selectMember(typ, member string) string {
	if member == "" {
		return ""
	}
	if member[0] == '[' {
		// "[1]" of "float[5]" is "float"
		open := strings.IndexByte(typ, '[')
		if open < 0 {
			return ""
		}
		end := strings.IndexByte(typ, ']')
		if end < open {
			return ""
		}
		return typ[:open] + typ[end+1:]
	}

	m := strings.TrimPrefix(member, ".")
	info := layout.ParseMatrixInfo(typ)
	if !info.Valid() || m == "" || len(m) > 4 {
		return ""
	}
	switch {
	case info.Columns > 1:
		// a single column of a matrix
		if len(m) > 1 {
			return ""
		}
		if i := strings.IndexByte(swizzle, m[0]); i < 0 || i >= info.Columns {
			return ""
		}
		return layout.VectorName(info.Scalar, info.Rows)
	case info.Rows > 1:
		for k := range len(m) {
			if i := strings.IndexByte(swizzle, m[k]); i < 0 || i >= info.Rows {
				return ""
			}
		}
		return layout.VectorName(info.Scalar, len(m))
	}
	// scalars have no members
	return ""
}

// matchIndex returns the position in path where a conflicting child name
// ends, or -1 if path does not conflict with any child.
func (t *Tree) matchIndex(path string) int {
	p, o := path, 0
	if path == "" || !isPathElementStart(path[0]) {
		p, o = "."+path, 1
	}

	// child is ".foo.bar" and path is ".foo.bar" or ".foo"
	if t.extendingChild(p) >= 0 {
		return len(path)
	}
	// child is ".foo" and path is ".foo.bar"
	if i := t.prefixChild(p); i >= 0 {
		return len(t.children[i].Key) - o
	}
	return -1
}

// extendingChild returns the index of a child whose key is p or continues
// p with further path elements, or -1. Such keys sort in one run starting
// at the lower bound of p, but the run may also hold keys like ".foo0"
// for p ".foo", since '.' < '0' < '['.
func (t *Tree) extendingChild(p string) int {
	i, _ := t.lowerBound(p)
	for ; i < len(t.children) && strings.HasPrefix(t.children[i].Key, p); i++ {
		if StartsWithPath(t.children[i].Key, p) {
			return i
		}
	}
	return -1
}

// prefixChild returns the index of the child whose key is a path prefix
// of p, e.g. ".foo" for ".foo[1]", or -1. Every key between such a child
// and p starts with the child's key, so the search stops at the first key
// that does not share the first element of p.
func (t *Tree) prefixChild(p string) int {
	i, _ := t.lowerBound(p)
	first := PathElement(p, 0)
	for i--; i >= 0 && strings.HasPrefix(t.children[i].Key, first); i-- {
		if StartsWithPath(p, t.children[i].Key) {
			return i
		}
	}
	return -1
}

// UniqueName returns name if no child of tree conflicts with it. Otherwise
// it inserts the smallest non-negative number at the end of the conflicting
// element: "foo" becomes "foo0", and "foo.x" becomes "foo0.x" if "foo"
// exists.
func (g *Graph) UniqueName(tree Handle, name string) string {
	t := g.Tree(tree)
	if t == nil {
		return name
	}
	index := t.matchIndex(name)
	if index == -1 {
		return name
	}
	for i := 0; ; i++ {
		candidate := name[:index] + strconv.Itoa(i) + name[index:]
		if t.matchIndex(candidate) == -1 {
			return candidate
		}
	}
}
