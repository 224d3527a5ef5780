package ir

import "log/slog"

type propagation struct {
	g      *Graph
	raised int
}

// Propagate raises scopes along connections until every sink has at least
// the scope of its source. An INPUT attribute raises its node, and a node
// raises its pure OUTPUT attributes. State attributes keep their scope.
// Scopes are never lowered. Propagate returns the number of raised scopes.
func (g *Graph) Propagate(root Handle) int {
	p := &propagation{g: g}
	p.propagate(root)
	Logger().Debug("scopes propagated",
		slog.String("root", g.EntityPath(root, 0)), slog.Int("raised", p.raised))
	return p.raised
}

func (p *propagation) propagate(h Handle) {
	switch e := p.g.Entity(h).(type) {
	case *Attribute:
		p.attribute(h)
	case *Tree:
		if e.Kind == KindNode {
			// nodes without inputs
			for _, c := range e.children {
				p.attributes(c.Handle, e.Scope)
			}
		}
		for _, c := range e.children {
			p.propagate(c.Handle)
		}
	}
}

// attribute pushes the scope of h to the attributes that read from it.
func (p *propagation) attribute(h Handle) {
	a := p.g.Attribute(h)
	for _, ref := range p.g.Sinks(h) {
		sink := p.g.Attribute(ref.Sink)
		if a.Scope > sink.Scope {
			sink.Scope = a.Scope
			p.raised++
			p.attribute(ref.Sink)
		}
	}
	if a.Flags&FlagInput != 0 {
		p.node(a.parent, a.Scope)
	}
}

// attributes pushes the scope of a node to its pure outputs.
func (p *propagation) attributes(h Handle, scope int) {
	switch e := p.g.Entity(h).(type) {
	case *Attribute:
		if e.Flags&FlagState == FlagOutput && scope > e.Scope {
			e.Scope = scope
			p.raised++
			p.attribute(h)
		}
	case *Tree:
		// attributes of a nested node belong to that node
		if e.Kind == KindGroup {
			for _, c := range e.children {
				p.attributes(c.Handle, scope)
			}
		}
	}
}

// node raises the scope of the node that contains h.
func (p *propagation) node(h Handle, scope int) {
	t := p.g.Tree(h)
	if t == nil {
		return
	}
	if t.Kind == KindGroup {
		p.node(t.parent, scope)
		return
	}
	if scope > t.Scope {
		t.Scope = scope
		p.raised++
		for _, c := range t.children {
			p.attributes(c.Handle, scope)
		}
	}
}

// AddScopeRecursive adds delta to the scope of h and of every attribute
// and node below it.
func (g *Graph) AddScopeRecursive(h Handle, delta int) {
	switch e := g.Entity(h).(type) {
	case *Attribute:
		e.Scope += delta
	case *Tree:
		if e.Kind == KindNode {
			e.Scope += delta
		}
		for _, c := range e.children {
			g.AddScopeRecursive(c.Handle, delta)
		}
	}
}
