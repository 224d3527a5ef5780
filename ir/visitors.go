package ir

import (
	"github.com/gogpu/shadergraph/layout"
)

func storage(a *Attribute) bool {
	return a.Flags&(FlagReference|FlagConstant) == 0
}

// addMember adds t to r at path and reports a rejected member.
func addMember(r *layout.Record, path string, t layout.Type) {
	if err := r.AddMember(path, t); err != nil {
		report(ErrPathNotFound, path, "layout member: %v", err)
	}
}

// TargetTypeVisitor collects the variables of visited attributes into a
// record. References and constants have no variable.
type TargetTypeVisitor struct {
	BaseVisitor
	g *Graph

	Type *layout.Record
}

// NewTargetTypeVisitor creates a visitor with an empty record.
func NewTargetTypeVisitor(g *Graph) *TargetTypeVisitor {
	return &TargetTypeVisitor{g: g, Type: layout.NewRecord()}
}

func (v *TargetTypeVisitor) VisitAttribute(h Handle) {
	if a := v.g.Attribute(h); storage(a) {
		addMember(v.Type, TargetPath(v.g.EntityPath(h, 1)), layout.Parse(a.Type))
	}
}

// InitVisitor writes the initializers of visited attributes.
type InitVisitor struct {
	BaseVisitor
	w *NodeWriter
}

// NewInitVisitor creates a visitor that writes to w.
func NewInitVisitor(w *NodeWriter) *InitVisitor {
	return &InitVisitor{w: w}
}

func (v *InitVisitor) VisitAttribute(h Handle) {
	a := v.w.g.Attribute(h)
	if !storage(a) {
		return
	}
	for _, key := range a.Initializers() {
		v.w.WriteVariable(Path{Entity: h, Member: key})
		v.w.WriteString(" = " + a.initializers[key] + ";\n")
	}
}

// UpdateVisitor writes the update code of visited nodes and a copy for
// every visited connection. A copy from a source beyond maxScope is
// commented out since the source is not computed yet.
type UpdateVisitor struct {
	BaseVisitor
	w        *NodeWriter
	maxScope int
}

// NewUpdateVisitor creates a visitor that writes to w.
func NewUpdateVisitor(w *NodeWriter, maxScope int) *UpdateVisitor {
	return &UpdateVisitor{w: w, maxScope: maxScope}
}

func (v *UpdateVisitor) VisitNode(h Handle) {
	pop := v.w.PushNode(h)
	defer pop()

	v.w.BeginScope()
	if t := v.w.g.Tree(h); t.Update != nil {
		t.Update(v.w)
	}
	v.w.EndScope()
}

func (v *UpdateVisitor) VisitConnection(src Connection, sink Path) {
	g := v.w.g
	resolved, _ := g.ResolvePath(Path{Entity: src.Source, Member: src.Path})
	if resolved.Source != NoHandle && g.entityScope(resolved.Source) > v.maxScope {
		v.w.WriteString("// ")
	}
	v.w.WriteVariable(sink)
	v.w.WriteString(" = ")
	v.w.WriteConnection(resolved)
	v.w.WriteString(";\n")
}

// outputVisitor finds the variables in [minScope, maxScope] that are read
// by visited connections and node attributes. Each variable is processed
// once.
type outputVisitor struct {
	BaseVisitor
	g                  *Graph
	minScope, maxScope int
	seen               map[Handle]bool
	process            func(resolved Connection)
}

func newOutputVisitor(g *Graph, minScope, maxScope int, process func(Connection)) outputVisitor {
	return outputVisitor{
		g:        g,
		minScope: minScope,
		maxScope: maxScope,
		seen:     make(map[Handle]bool),
		process:  process,
	}
}

func (v *outputVisitor) VisitConnection(src Connection, _ Path) {
	resolved, _ := v.g.ResolvePath(Path{Entity: src.Source, Member: src.Path})
	v.add(resolved)
}

func (v *outputVisitor) VisitNodeAttribute(h Handle) {
	resolved, _ := v.g.Resolve(h, "")
	v.add(resolved)
}

func (v *outputVisitor) add(resolved Connection) {
	if resolved.Source == NoHandle {
		return
	}
	if !inRange(v.g.entityScope(resolved.Source), v.minScope, v.maxScope) || v.seen[resolved.Source] {
		return
	}
	v.seen[resolved.Source] = true
	v.process(resolved)
}

// OutputTypeVisitor collects the variables of a scope range that a later
// scope reads.
type OutputTypeVisitor struct {
	outputVisitor

	Type *layout.Record
}

// NewOutputTypeVisitor creates a visitor for the scope range
// [minScope, maxScope].
func NewOutputTypeVisitor(g *Graph, minScope, maxScope int) *OutputTypeVisitor {
	v := &OutputTypeVisitor{Type: layout.NewRecord()}
	v.outputVisitor = newOutputVisitor(g, minScope, maxScope, func(resolved Connection) {
		a := g.Attribute(resolved.Source)
		addMember(v.Type, TargetPath(g.EntityPath(resolved.Source, 1)), layout.Parse(a.Type))
	})
	return v
}

// OutputCodeVisitor writes copies of the variables of a scope range that a
// later scope reads, e.g. "output._n1._x = scope1._n1._x;".
type OutputCodeVisitor struct {
	outputVisitor
}

// NewOutputCodeVisitor creates a visitor that writes to w. prefix is the
// variable the copies are written to.
func NewOutputCodeVisitor(w *NodeWriter, minScope, maxScope int, prefix string) *OutputCodeVisitor {
	g := w.g
	v := &OutputCodeVisitor{}
	v.outputVisitor = newOutputVisitor(g, minScope, maxScope, func(resolved Connection) {
		path := TargetPath(g.EntityPath(resolved.Source, 1))
		w.WriteString(prefix + path + " = " + w.Scopes[g.entityScope(resolved.Source)] + path + ";\n")
	})
	return v
}

// OutputAssignmentsVisitor collects copies like OutputCodeVisitor as
// strings without prefix, e.g. "._n1._x = scope1._n1._x".
type OutputAssignmentsVisitor struct {
	outputVisitor

	Assignments []string
}

// NewOutputAssignmentsVisitor creates a visitor for the scope range
// [minScope, maxScope].
func NewOutputAssignmentsVisitor(g *Graph, scopes map[int]string, minScope, maxScope int) *OutputAssignmentsVisitor {
	v := &OutputAssignmentsVisitor{}
	v.outputVisitor = newOutputVisitor(g, minScope, maxScope, func(resolved Connection) {
		path := TargetPath(g.EntityPath(resolved.Source, 1))
		v.Assignments = append(v.Assignments, path+" = "+scopes[g.entityScope(resolved.Source)]+path)
	})
	return v
}

// TargetType returns the record of the variables of scope below tree.
// Subtrees become nested records.
func (g *Graph) TargetType(tree Handle, scope int) *layout.Record {
	r := layout.NewRecord()
	for _, c := range g.Children(tree) {
		switch e := g.Entity(c.Handle).(type) {
		case *Attribute:
			if storage(e) && e.Scope == scope {
				addMember(r, TargetPath(c.Key), layout.Parse(e.Type))
			}
		case *Tree:
			addMember(r, TargetPath(c.Key), g.TargetType(c.Handle, scope))
		}
	}
	return r
}

// ConnectionTargetType returns the record of the variables below tree that
// read from the tree with root sourceRoot. With mangle set the member
// names are target paths.
func (g *Graph) ConnectionTargetType(tree, sourceRoot Handle, mangle bool) *layout.Record {
	r := layout.NewRecord()
	name := func(key string) string {
		if mangle {
			return TargetPath(key)
		}
		return key
	}
	for _, c := range g.Children(tree) {
		switch e := g.Entity(c.Handle).(type) {
		case *Attribute:
			if storage(e) && g.IsConnectedToRoot(c.Handle, sourceRoot) {
				addMember(r, name(c.Key), layout.Parse(e.Type))
			}
		case *Tree:
			addMember(r, name(c.Key), g.ConnectionTargetType(c.Handle, sourceRoot, mangle))
		}
	}
	return r
}

// TargetTypeOfConnected returns the record of the variables of scope that
// h depends on, including h.
func (g *Graph) TargetTypeOfConnected(h Handle, scope int) *layout.Record {
	v := NewTargetTypeVisitor(g)
	NewTraversal(g, v, true).Visit(h, "", scope, scope)
	return v.Type
}

// OutputTargetType returns the record of the variables of
// [minScope, maxScope] that are read by scope outScope.
func (g *Graph) OutputTargetType(tree Handle, minScope, maxScope, outScope int) *layout.Record {
	v := NewOutputTypeVisitor(g, minScope, maxScope)
	NewTraversal(g, v, false).Visit(tree, "", outScope, outScope)
	return v.Type
}

// WriteInitCode writes the initializers of scope.
func WriteInitCode(w *NodeWriter, tree Handle, scope int) {
	NewTraversal(w.g, NewInitVisitor(w), true).Visit(tree, "", scope, scope)
}

// WriteUpdateCode writes the update code of the nodes in
// [minScope, maxScope] and the copies between them.
func WriteUpdateCode(w *NodeWriter, tree Handle, minScope, maxScope int) {
	NewTraversal(w.g, NewUpdateVisitor(w, maxScope), true).Visit(tree, "", minScope, maxScope)
}

// WriteOutputCode writes copies of the variables of [minScope, maxScope]
// that are read by scope outScope into the variable prefix.
func WriteOutputCode(w *NodeWriter, tree Handle, minScope, maxScope, outScope int, prefix string) {
	NewTraversal(w.g, NewOutputCodeVisitor(w, minScope, maxScope, prefix), false).Visit(tree, "", outScope, outScope)
}

// OutputAssignments returns the copies WriteOutputCode would write, without
// prefix.
func (g *Graph) OutputAssignments(scopes map[int]string, tree Handle, minScope, maxScope, outScope int) []string {
	v := NewOutputAssignmentsVisitor(g, scopes, minScope, maxScope)
	NewTraversal(g, v, false).Visit(tree, "", outScope, outScope)
	return v.Assignments
}

// connectedFrom calls fn for each storage attribute below tree and each of
// its connections that reads from the tree with root sourceRoot.
func (g *Graph) connectedFrom(tree, sourceRoot Handle, fn func(h Handle, a *Attribute, c InConnection)) {
	for _, child := range g.Children(tree) {
		switch e := g.Entity(child.Handle).(type) {
		case *Attribute:
			if !storage(e) {
				continue
			}
			for _, c := range e.connections {
				if g.Root(c.Connection.Source) == sourceRoot {
					fn(child.Handle, e, c)
				}
			}
		case *Tree:
			g.connectedFrom(child.Handle, sourceRoot, fn)
		}
	}
}

// WriteRootOutputCode writes copies from the graph with root sourceRoot
// into the variable prefix for every attribute below tree that reads from
// it.
func WriteRootOutputCode(w *NodeWriter, tree, sourceRoot Handle, prefix string, mangle bool) {
	g := w.g
	g.connectedFrom(tree, sourceRoot, func(h Handle, _ *Attribute, c InConnection) {
		path := g.EntityPath(h, 1)
		if mangle {
			path = TargetPath(path)
		}
		w.WriteString(prefix + path + c.Key + " = ")
		resolved, _ := g.ResolvePath(Path{Entity: c.Connection.Source, Member: c.Connection.Path})
		w.WriteConnection(resolved)
		w.WriteString(";\n")
	})
}

// RootOutputAssignments returns the copies WriteRootOutputCode would write,
// without prefix, and moves every receiving attribute to scope.
func (g *Graph) RootOutputAssignments(scopes map[int]string, tree, sourceRoot Handle, scope int) []string {
	var assignments []string
	g.connectedFrom(tree, sourceRoot, func(h Handle, a *Attribute, c InConnection) {
		resolved, _ := g.ResolvePath(Path{Entity: c.Connection.Source, Member: c.Connection.Path})
		prefix := ""
		if resolved.Source != NoHandle {
			prefix = scopes[g.entityScope(resolved.Source)]
		}
		assignments = append(assignments,
			TargetPath(g.EntityPath(h, 1))+c.Key+" = "+prefix+g.TargetPathOf(resolved))
		a.Scope = scope
	})
	return assignments
}

// WriteInputCode writes copies from the variable prefix into every
// attribute below tree that reads from the graph with root sourceRoot.
func WriteInputCode(w *NodeWriter, tree, sourceRoot Handle, prefix string) {
	g := w.g
	g.connectedFrom(tree, sourceRoot, func(h Handle, _ *Attribute, c InConnection) {
		w.WriteVariable(Path{Entity: h, Member: c.Key})
		w.WriteString(" = " + prefix + TargetPath(g.EntityPath(h, 1)) + c.Key + ";\n")
	})
}
