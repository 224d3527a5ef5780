package ir

import "fmt"

// ValidationError describes an inconsistency of a graph.
type ValidationError struct {
	// Path is the full path of the offending entity.
	Path string

	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

type validator struct {
	g      *Graph
	errors []ValidationError
}

func (v *validator) addError(h Handle, format string, args ...any) {
	v.errors = append(v.errors, ValidationError{
		Path:    v.g.EntityPath(h, 0),
		Message: fmt.Sprintf(format, args...),
	})
}

// Validate checks the tree root for broken invariants: references need
// exactly one whole-value connection, constants exactly one whole-value
// initializer and no connections, every connection needs its
// back-reference and vice versa, and children must point to their parent.
// It returns an error only if root is not a valid handle.
func Validate(g *Graph, root Handle) ([]ValidationError, error) {
	if g == nil || g.Entity(root) == nil {
		return nil, NewError(ErrInvalidHandle, "Validate - invalid root")
	}
	v := &validator{g: g}
	v.entity(root)
	return v.errors, nil
}

func (v *validator) entity(h Handle) {
	switch e := v.g.Entity(h).(type) {
	case *Attribute:
		v.attribute(h, e)
	case *Tree:
		for _, c := range e.children {
			child := v.g.Entity(c.Handle)
			if child == nil {
				v.addError(h, "child '%s' has an invalid handle", c.Key)
				continue
			}
			if child.base().parent != h {
				v.addError(c.Handle, "parent link does not point to the containing tree")
			}
			v.entity(c.Handle)
		}
	}
}

func (v *validator) attribute(h Handle, a *Attribute) {
	if a.Flags&FlagReference != 0 {
		if len(a.connections) != 1 || a.connections[0].Key != "" {
			v.addError(h, "reference needs exactly one whole-value connection, has %d connections", len(a.connections))
		}
	}
	if a.Flags&FlagConstant != 0 {
		if _, ok := a.initializers[""]; !ok || len(a.initializers) != 1 {
			v.addError(h, "constant needs exactly one whole-value initializer, has %d initializers", len(a.initializers))
		}
		if len(a.connections) != 0 {
			v.addError(h, "constant has %d connections", len(a.connections))
		}
	}

	for _, c := range a.connections {
		src := v.g.Attribute(c.Connection.Source)
		if src == nil {
			v.addError(h, "connection '%s' does not read from an attribute", c.Key)
			continue
		}
		if _, ok := src.sinks[ConnectionRef{Sink: h, Key: c.Key}]; !ok {
			v.addError(h, "connection '%s' has no back-reference", c.Key)
		}
	}
	for _, ref := range v.g.Sinks(h) {
		sink := v.g.Attribute(ref.Sink)
		if sink == nil {
			v.addError(h, "back-reference to invalid sink %d", ref.Sink)
			continue
		}
		if c, ok := sink.Connection(ref.Key); !ok || c.Source != h {
			v.addError(h, "back-reference to '%s%s' has no connection", v.g.EntityPath(ref.Sink, 0), ref.Key)
		}
	}
}
