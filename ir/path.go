package ir

import (
	"iter"
	"slices"
	"strings"
)

// Path addresses an attribute or a component relative to an entity: the
// member ".input.x" of the node n1, or the component ".x" of an attribute.
type Path struct {
	Entity Handle
	Member string
}

// NullPath is the path that addresses nothing.
var NullPath = Path{Entity: NoHandle}

// IsNull reports whether p addresses nothing.
func (p Path) IsNull() bool {
	return p.Entity == NoHandle
}

// Join returns p with member appended as a member path.
func (p Path) Join(member string) Path {
	return Path{Entity: p.Entity, Member: p.Member + MakePath(member)}
}

func isPathElementStart(c byte) bool {
	return c == '.' || c == '['
}

// MakePath prepends '.' unless path is empty or already starts with '.'
// or '['. MakePath("foo") is ".foo".
func MakePath(path string) string {
	if path == "" || isPathElementStart(path[0]) {
		return path
	}
	return "." + path
}

// StartsWithPath reports whether s starts with path followed by the end of
// s or a path separator. ".foo.bar" starts with ".foo" but ".foobar" does
// not.
func StartsWithPath(s, path string) bool {
	if !strings.HasPrefix(s, path) {
		return false
	}
	return len(s) == len(path) || isPathElementStart(s[len(path)])
}

// PathElement returns the path element of path that begins at start:
// PathElement(".foo.bar", 0) is ".foo", PathElement(".foo.bar", 4) is ".bar".
func PathElement(path string, start int) string {
	if start >= len(path) {
		return ""
	}
	i := start + 1
	for i < len(path) && !isPathElementStart(path[i]) {
		i++
	}
	return path[start:i]
}

// TargetPath returns the path used in generated code, where every member
// name gets a '_' prefix: ".n1.input2" becomes "._n1._input2".
func TargetPath(path string) string {
	return strings.ReplaceAll(path, ".", "._")
}

// splitMembers calls fn for each element of a member path, e.g. ".x" and
// "[1]" for ".x[1]".
func splitMembers(path string, fn func(member string)) {
	for s := 0; s < len(path); {
		e := len(path)
		if i := strings.IndexAny(path[s+1:], ".["); i >= 0 {
			e = s + 1 + i
		}
		fn(path[s:e])
		s = e
	}
}

// PathName returns the full name of p, e.g. "g1.n1.output.x" for
// startDepth 0 or ".n1.output.x" for startDepth 1.
func (g *Graph) PathName(p Path, startDepth int) string {
	return g.EntityPath(p.Entity, startDepth) + MakePath(p.Member)
}

func compareChild(c Child, key string) int {
	return strings.Compare(c.Key, key)
}

// lowerBound returns the index of the first child with a key not less than
// key and whether that key equals key.
func (t *Tree) lowerBound(key string) (int, bool) {
	return slices.BinarySearchFunc(t.children, key, compareChild)
}

func (t *Tree) insertChild(key string, h Handle) {
	i, _ := t.lowerBound(key)
	t.children = slices.Insert(t.children, i, Child{Key: key, Handle: h})
}

// PathElements iterates the next level of path elements below path. For a
// node with the attributes "bar.1.x", "bar.3.x" and "bar.4.x",
// PathElements(node, "bar") yields ".bar.1", ".bar.3" and ".bar.4".
func (g *Graph) PathElements(h Handle, path string) iter.Seq[Path] {
	return func(yield func(Path) bool) {
		p := g.FindAttribute(h, path, FindUntyped)
		t := g.Tree(p.Entity)
		if t == nil {
			return
		}
		base := p.Member
		i := t.extendingChild(base)
		if i < 0 {
			return
		}
		element := PathElement(t.children[i].Key, len(base))
		for {
			if !yield(Path{Entity: p.Entity, Member: base + element}) {
				return
			}
			for {
				i++
				if i == len(t.children) {
					return
				}
				key := t.children[i].Key
				if !strings.HasPrefix(key, base) {
					return
				}
				if !StartsWithPath(key, base+element) {
					if !StartsWithPath(key, base) {
						continue
					}
					element = PathElement(key, len(base))
					break
				}
			}
		}
	}
}
