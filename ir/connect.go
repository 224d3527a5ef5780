package ir

import (
	"maps"
	"slices"
	"strings"
)

// Connection names the source of a value: a component path of an
// attribute, or a literal if Source is NoHandle.
type Connection struct {
	Source Handle

	// Path is the component path of the source, e.g. ".x". For a literal
	// it is the literal text.
	Path string
}

// NullConnection is the connection that names nothing.
var NullConnection = Connection{Source: NoHandle}

// IsNull reports whether c names nothing.
func (c Connection) IsNull() bool {
	return c.Source == NoHandle && c.Path == ""
}

// IsLiteral reports whether c is an inlined literal.
func (c Connection) IsLiteral() bool {
	return c.Source == NoHandle && c.Path != ""
}

// ResolutionKind tells how reads of an attribute are emitted.
type ResolutionKind uint8

const (
	// ResolveStorage reads the attribute's own variable.
	ResolveStorage ResolutionKind = iota

	// ResolveReference reads the variable at the end of the reference chain.
	ResolveReference

	// ResolveConstant inlines the initializer.
	ResolveConstant
)

// Resolution returns how reads of a are emitted. REFERENCE takes
// precedence over CONSTANT.
func (a *Attribute) Resolution() ResolutionKind {
	switch {
	case a.Flags&FlagReference != 0:
		return ResolveReference
	case a.Flags&FlagConstant != 0:
		return ResolveConstant
	}
	return ResolveStorage
}

// Connection returns the inbound connection of the component path key.
func (a *Attribute) Connection(key string) (Connection, bool) {
	i, found := slices.BinarySearchFunc(a.connections, key, compareInConnection)
	if !found {
		return NullConnection, false
	}
	return a.connections[i].Connection, true
}

func compareInConnection(c InConnection, key string) int {
	return strings.Compare(c.Key, key)
}

// Connect connects the sink path to the source path. Both must name an
// attribute or a component of one. An existing connection of the sink is
// replaced.
func (g *Graph) Connect(sink, source Path) error {
	if source.IsNull() {
		return report(ErrPathNotFound, g.PathName(sink, 0), "Connect - source path is null")
	}
	src := g.FindAttribute(source.Entity, source.Member, FindTyped)
	srcAttr := g.Attribute(src.Entity)
	if srcAttr == nil {
		return report(ErrPathNotFound, g.PathName(source, 0), "Connect - source is invalid")
	}
	dst := g.FindAttribute(sink.Entity, sink.Member, FindTyped)
	dstAttr := g.Attribute(dst.Entity)
	if dstAttr == nil {
		return report(ErrPathNotFound, g.PathName(sink, 0), "Connect - sink is invalid")
	}

	ref := ConnectionRef{Sink: dst.Entity, Key: dst.Member}
	conn := Connection{Source: src.Entity, Path: src.Member}
	i, found := slices.BinarySearchFunc(dstAttr.connections, dst.Member, compareInConnection)
	if found {
		// replace silently
		if old := g.Attribute(dstAttr.connections[i].Connection.Source); old != nil {
			delete(old.sinks, ref)
		}
		dstAttr.connections[i].Connection = conn
	} else {
		dstAttr.connections = slices.Insert(dstAttr.connections, i, InConnection{Key: dst.Member, Connection: conn})
	}

	if srcAttr.sinks == nil {
		srcAttr.sinks = make(map[ConnectionRef]struct{})
	}
	srcAttr.sinks[ref] = struct{}{}
	return nil
}

// Disconnect removes the connection of the sink path. It reports whether a
// connection existed.
func (g *Graph) Disconnect(sink Path) bool {
	dst := g.FindAttribute(sink.Entity, sink.Member, FindTyped)
	a := g.Attribute(dst.Entity)
	if a == nil {
		return false
	}
	i, found := slices.BinarySearchFunc(a.connections, dst.Member, compareInConnection)
	if !found {
		return false
	}
	if src := g.Attribute(a.connections[i].Connection.Source); src != nil {
		delete(src.sinks, ConnectionRef{Sink: dst.Entity, Key: dst.Member})
	}
	a.connections = slices.Delete(a.connections, i, i+1)
	return true
}

// Sinks returns the back-references of connections reading from h, sorted
// by sink handle and key.
func (g *Graph) Sinks(h Handle) []ConnectionRef {
	a := g.Attribute(h)
	if a == nil {
		return nil
	}
	return slices.SortedFunc(maps.Keys(a.sinks), func(x, y ConnectionRef) int {
		if x.Sink != y.Sink {
			if x.Sink < y.Sink {
				return -1
			}
			return 1
		}
		return strings.Compare(x.Key, y.Key)
	})
}

// IsConnected reports whether the attribute at path has an inbound
// connection. With component set, a connection of a component of path
// (e.g. ".x" for "") also counts.
func (g *Graph) IsConnected(h Handle, path string, component bool) (bool, error) {
	p := g.FindAttribute(h, path, FindTyped)
	a := g.Attribute(p.Entity)
	if a == nil {
		return false, report(ErrPathNotFound, g.EntityPath(h, 0)+MakePath(path),
			"IsConnected - attribute not found")
	}
	i, _ := slices.BinarySearchFunc(a.connections, p.Member, compareInConnection)
	if i == len(a.connections) {
		return false, nil
	}
	key := a.connections[i].Key
	return key == p.Member || (component && strings.HasPrefix(key, p.Member+".")), nil
}

// IsDataSource reports whether the attribute at path, or the component
// path of it, is read by any connection.
func (g *Graph) IsDataSource(h Handle, path string) (bool, error) {
	p := g.FindAttribute(h, path, FindTyped)
	a := g.Attribute(p.Entity)
	if a == nil {
		return false, report(ErrPathNotFound, g.EntityPath(h, 0)+MakePath(path),
			"IsDataSource - attribute not found")
	}
	if p.Member == "" {
		return len(a.sinks) > 0, nil
	}
	for ref := range a.sinks {
		c, _ := g.Attribute(ref.Sink).Connection(ref.Key)
		if c.Path == p.Member || strings.HasPrefix(c.Path, p.Member+".") {
			return true, nil
		}
	}
	return false, nil
}

// IsConnectedToRoot reports whether any inbound connection of the
// attribute h reads from the tree with the given root.
func (g *Graph) IsConnectedToRoot(h, root Handle) bool {
	a := g.Attribute(h)
	if a == nil {
		return false
	}
	for _, c := range a.connections {
		if g.Root(c.Connection.Source) == root {
			return true
		}
	}
	return false
}

// IsConnectedToScope reports whether any inbound connection of the
// attribute h reads from an attribute of the given scope.
func (g *Graph) IsConnectedToScope(h Handle, scope int) bool {
	a := g.Attribute(h)
	if a == nil {
		return false
	}
	for _, c := range a.connections {
		if g.entityScope(c.Connection.Source) == scope {
			return true
		}
	}
	return false
}

// Resolve follows references and constants from the path of h to the
// connection that is read when the path is emitted. Constants resolve to
// a literal.
func (g *Graph) Resolve(h Handle, path string) (Connection, error) {
	switch g.Entity(h).(type) {
	case *Attribute:
		return g.resolveAttr(h, path, 0)
	case *Tree:
		p := g.FindAttribute(h, path, FindUntyped)
		if p.IsNull() || p.Entity == h {
			return NullConnection, report(ErrPathNotFound, g.EntityPath(h, 0)+MakePath(path),
				"Resolve - attribute not found")
		}
		return g.Resolve(p.Entity, p.Member)
	}
	return NullConnection, report(ErrInvalidHandle, "", "Resolve - invalid handle %d", h)
}

// ResolvePath resolves a path.
func (g *Graph) ResolvePath(p Path) (Connection, error) {
	return g.Resolve(p.Entity, p.Member)
}

func (g *Graph) resolveAttr(h Handle, path string, depth int) (Connection, error) {
	a := g.Attribute(h)
	switch a.Resolution() {
	case ResolveReference:
		c, ok := a.Connection("")
		if !ok {
			return NullConnection, report(ErrMissingReference, g.EntityPath(h, 0),
				"Resolve - reference attribute has no connection")
		}
		if depth > g.Len() {
			return NullConnection, report(ErrMissingReference, g.EntityPath(h, 0),
				"Resolve - reference cycle")
		}
		return g.resolveAttr(c.Source, c.Path+path, depth+1)
	case ResolveConstant:
		v, ok := a.initializers[""]
		if !ok {
			return NullConnection, report(ErrMissingReference, g.EntityPath(h, 0),
				"Resolve - constant attribute has no initializer")
		}
		return Connection{Source: NoHandle, Path: v + path}, nil
	}
	return Connection{Source: h, Path: path}, nil
}

// TargetPathOf returns the mangled path of the source of c without scope
// prefix, e.g. "._n1._output.x". For a literal it is the literal.
func (g *Graph) TargetPathOf(c Connection) string {
	if c.Source == NoHandle {
		return c.Path
	}
	return TargetPath(g.EntityPath(c.Source, 1)) + c.Path
}

// Variable returns the text that reads c: the scope prefix of the source
// followed by its target path, e.g. "scope1._n1._output.x".
func (g *Graph) Variable(c Connection, scopes map[int]string) string {
	if c.Source == NoHandle {
		return c.Path
	}
	return scopes[g.entityScope(c.Source)] + g.TargetPathOf(c)
}
