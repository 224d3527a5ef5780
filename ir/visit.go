package ir

import "strings"

// Visitor receives the entities of a traversal in dependency order.
type Visitor interface {
	// VisitAttribute is called once per attribute in the scope range.
	VisitAttribute(h Handle)

	// VisitNode is called once per node after all of its attributes and
	// their sources have been visited.
	VisitNode(h Handle)

	// VisitConnection is called once per connection whose sink is in the
	// scope range, after its source has been visited.
	VisitConnection(src Connection, sink Path)

	// VisitNodeAttribute is called for each input and output of a visited
	// node.
	VisitNodeAttribute(h Handle)
}

// BaseVisitor implements Visitor with no-ops. Embed it to implement only
// some of the methods.
type BaseVisitor struct{}

func (BaseVisitor) VisitAttribute(Handle) {}
func (BaseVisitor) VisitNode(Handle) {}
func (BaseVisitor) VisitConnection(Connection, Path) {}
func (BaseVisitor) VisitNodeAttribute(Handle) {}

type connectionMark uint8

const (
	markUnseen connectionMark = iota
	markOngoing
	markFinished
)

// Traversal walks a graph and reports attributes, connections and nodes
// to a Visitor so that every source is reported before its sinks.
// A Traversal remembers what it has visited, so visiting the same entity
// again reports nothing new.
type Traversal struct {
	g *Graph
	v Visitor

	// stop at attributes with FlagStop
	stop bool

	attributes  map[Handle]bool
	nodes       map[Handle]bool
	connections map[ConnectionRef]connectionMark
}

// NewTraversal creates a traversal. With stop set, node attributes flagged
// FlagStop are not followed.
func NewTraversal(g *Graph, v Visitor, stop bool) *Traversal {
	return &Traversal{
		g:           g,
		v:           v,
		stop:        stop,
		attributes:  make(map[Handle]bool),
		nodes:       make(map[Handle]bool),
		connections: make(map[ConnectionRef]connectionMark),
	}
}

// Visit visits the entity at path below h and everything it depends on
// whose scope is in [minScope, maxScope].
func (t *Traversal) Visit(h Handle, path string, minScope, maxScope int) {
	switch e := t.g.Entity(h).(type) {
	case *Attribute:
		t.visitAttribute(h, e, path, minScope, maxScope)
	case *Tree:
		if path == "" {
			for _, c := range t.g.Children(h) {
				t.Visit(c.Handle, "", minScope, maxScope)
			}
		} else {
			p := t.g.FindAttribute(h, path, FindUntyped)
			if !p.IsNull() && p.Entity != h {
				t.Visit(p.Entity, p.Member, minScope, maxScope)
			}
		}
		// nodes without outputs
		if e.Kind == KindNode && path == "" {
			t.visitNode(h, minScope, maxScope)
		}
	}
}

// follows reports whether the connection stored under key takes part in a
// visit of path: ".x.y" and ".x" for path ".x", and "" for any path.
func follows(key, path string) bool {
	if len(key) >= len(path) {
		return strings.HasPrefix(key, path)
	}
	return StartsWithPath(path, key)
}

func inRange(scope, minScope, maxScope int) bool {
	return scope >= minScope && scope <= maxScope
}

func (t *Traversal) visitAttribute(h Handle, a *Attribute, path string, minScope, maxScope int) {
	if a.Flags&FlagConstant != 0 || !inRange(a.Scope, minScope, maxScope) {
		return
	}
	if !t.attributes[h] {
		t.attributes[h] = true
		t.v.VisitAttribute(h)
	}

	// Connections from other graphs are copied by WriteInputCode and
	// WriteRootOutputCode and are neither followed nor reported.
	root := t.g.Root(h)

	// Reverse key order, so that a connection of a whole attribute
	// shadows connections of its components.
	for i := len(a.connections) - 1; i >= 0; i-- {
		c := a.connections[i]
		ref := ConnectionRef{Sink: h, Key: c.Key}
		if t.connections[ref] != markUnseen || !follows(c.Key, path) {
			continue
		}
		t.connections[ref] = markOngoing
		src := t.g.Attribute(c.Connection.Source)
		if src != nil && inRange(src.Scope, minScope, maxScope) && t.g.Root(c.Connection.Source) == root {
			t.visitAttribute(c.Connection.Source, src, c.Connection.Path, minScope, maxScope)
		}
	}
	for i := len(a.connections) - 1; i >= 0; i-- {
		c := a.connections[i]
		ref := ConnectionRef{Sink: h, Key: c.Key}
		if t.connections[ref] != markOngoing || !follows(c.Key, path) {
			continue
		}
		t.connections[ref] = markFinished
		// references are transparent
		if a.Flags&FlagReference == 0 && t.g.Root(c.Connection.Source) == root {
			t.v.VisitConnection(c.Connection, Path{Entity: h, Member: c.Key})
		}
	}

	// the node computes its outputs
	if a.Flags&FlagOutput != 0 {
		t.visitNode(a.parent, minScope, maxScope)
	}
}

// visitNode visits the node that contains h after visiting its inputs
// and outputs.
func (t *Traversal) visitNode(h Handle, minScope, maxScope int) {
	n := t.g.Tree(h)
	if n == nil {
		return
	}
	if n.Kind == KindGroup {
		t.visitNode(n.parent, minScope, maxScope)
		return
	}
	if !inRange(n.Scope, minScope, maxScope) || t.nodes[h] {
		return
	}
	t.nodes[h] = true
	for _, c := range t.g.Children(h) {
		t.visitNodeAttributes(c.Handle, minScope, maxScope)
	}
	t.v.VisitNode(h)
}

func (t *Traversal) visitNodeAttributes(h Handle, minScope, maxScope int) {
	switch e := t.g.Entity(h).(type) {
	case *Attribute:
		if e.Flags&FlagState != 0 && (!t.stop || e.Flags&FlagStop == 0) {
			t.v.VisitNodeAttribute(h)
			t.visitAttribute(h, e, "", minScope, maxScope)
		}
	case *Tree:
		// attributes of a nested node belong to that node
		if e.Kind == KindGroup {
			for _, c := range e.children {
				t.visitNodeAttributes(c.Handle, minScope, maxScope)
			}
		}
	}
}
