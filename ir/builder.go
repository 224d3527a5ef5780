package ir

import (
	"maps"
	"slices"
	"strings"
)

// AddNode inserts child into parent under the child's name.
func (g *Graph) AddNode(parent, child Handle) error {
	t, err := g.checkInsert(parent, child)
	if err != nil {
		return err
	}
	name := g.Name(child)
	if name == "" || t.matchIndex(name) != -1 {
		return report(ErrNameCollision, g.EntityPath(parent, 0),
			"AddNode - name '%s' is empty or already in use", name)
	}
	g.entities[child].base().parent = parent
	t.insertChild(MakePath(name), child)
	return nil
}

// AddNodeAs inserts child into parent under a unique variant of
// proposedName, which may be a path into a subtree of parent. It returns
// the name that was used.
func (g *Graph) AddNodeAs(parent, child Handle, proposedName string) (string, error) {
	if _, err := g.checkInsert(parent, child); err != nil {
		return "", err
	}
	name := g.UniqueName(parent, proposedName)

	p := g.FindAttribute(parent, name, FindPartial)
	t := g.Tree(p.Entity)
	if t == nil {
		return "", report(ErrTypeMismatch, g.PathName(p, 0),
			"AddNodeAs - path is part of a leaf node")
	}
	if p.Member == "" {
		return "", report(ErrNameCollision, g.PathName(p, 0),
			"AddNodeAs - name '%s' is already in use", name)
	}

	b := g.entities[child].base()
	b.name = name
	b.parent = p.Entity
	t.insertChild(p.Member, child)
	return name, nil
}

func (g *Graph) checkInsert(parent, child Handle) (*Tree, error) {
	t := g.Tree(parent)
	if t == nil || g.Entity(child) == nil {
		return nil, report(ErrInvalidHandle, "", "AddNode - invalid parent %d or child %d", parent, child)
	}
	if g.Parent(child) != NoHandle {
		return nil, report(ErrSelfInsertion, g.EntityPath(child, 0),
			"AddNode - node is already part of another tree")
	}
	if g.Root(parent) == child {
		return nil, report(ErrSelfInsertion, g.EntityPath(child, 0),
			"AddNode - can't add node to itself")
	}
	return t, nil
}

// RemoveNode removes child from parent. The child keeps its connections
// and can be inserted again.
func (g *Graph) RemoveNode(parent, child Handle) bool {
	t := g.Tree(parent)
	if t == nil {
		return false
	}
	i := slices.IndexFunc(t.children, func(c Child) bool { return c.Handle == child })
	if i < 0 {
		return false
	}
	t.children = slices.Delete(t.children, i, i+1)
	g.entities[child].base().parent = NoHandle
	return true
}

// AddAttribute adds an attribute to tree. name may be a path into a subtree
// of tree ("n1.input" adds "input" to the child n1).
func (g *Graph) AddAttribute(tree Handle, name, typ string, flags Flags, scope int) (Handle, error) {
	p := g.FindAttribute(tree, name, FindPartial)
	t := g.Tree(p.Entity)
	if t == nil && p.Member == "" && g.Attribute(p.Entity) != nil {
		return NoHandle, report(ErrNameCollision, g.EntityPath(tree, 0)+MakePath(name),
			"AddAttribute - attribute already exists")
	}
	if t == nil {
		return NoHandle, report(ErrTypeMismatch, g.EntityPath(tree, 0)+MakePath(name),
			"AddAttribute - path is not part of a tree")
	}
	if p.Member == "" || t.matchIndex(p.Member) != -1 {
		return NoHandle, report(ErrNameCollision, g.EntityPath(tree, 0)+MakePath(name),
			"AddAttribute - attribute already exists")
	}

	h := g.add(&Attribute{
		entityBase: entityBase{name: strings.TrimPrefix(p.Member, "."), parent: p.Entity},
		Type:       typ,
		Flags:      flags,
		Scope:      scope,
	})
	t.insertChild(p.Member, h)
	return h, nil
}

// AddConnectedAttribute adds an attribute and connects it to source.
func (g *Graph) AddConnectedAttribute(tree Handle, name, typ string, flags Flags, scope int, source Path) (Handle, error) {
	h, err := g.AddAttribute(tree, name, typ, flags, scope)
	if err != nil {
		return h, err
	}
	return h, g.Connect(Path{Entity: h}, source)
}

// AddAttributeWithInitializer adds an attribute with a whole-value
// initializer.
func (g *Graph) AddAttributeWithInitializer(tree Handle, name, typ string, flags Flags, scope int, value string) (Handle, error) {
	h, err := g.AddAttribute(tree, name, typ, flags, scope)
	if err != nil {
		return h, err
	}
	g.Attribute(h).SetInitializer("", value)
	return h, nil
}

// AddInput adds an input attribute of scope 1.
func (g *Graph) AddInput(tree Handle, name, typ string) (Handle, error) {
	return g.AddAttribute(tree, name, typ, FlagInput, 1)
}

// AddOutput adds an output attribute of scope 1.
func (g *Graph) AddOutput(tree Handle, name, typ string) (Handle, error) {
	return g.AddAttribute(tree, name, typ, FlagOutput, 1)
}

// AddState adds a state attribute of scope 0.
func (g *Graph) AddState(tree Handle, name, typ string) (Handle, error) {
	return g.AddAttribute(tree, name, typ, FlagState, 0)
}

// AddConstant adds a constant attribute of scope 1 whose value is inlined
// wherever it is read.
func (g *Graph) AddConstant(tree Handle, name, typ, value string) (Handle, error) {
	return g.AddAttributeWithInitializer(tree, name, typ, FlagConstant, 1, value)
}

// Initializer returns the initializer of the component path of a, e.g.
// ".y" of "vector3(1.0f, 2.0f, 3.0f)" is "2.0f". It returns "" if there is
// no initializer for path.
func (a *Attribute) Initializer(path string) string {
	if a.initializers == nil {
		return ""
	}
	// longest initialized prefix of path
	prefix := path
	for {
		if v, ok := a.initializers[prefix]; ok {
			if prefix == path {
				return v
			}
			splitMembers(path[len(prefix):], func(member string) {
				v = selectComponent(v, member)
			})
			return v
		}
		i := strings.LastIndexAny(prefix, ".[")
		if i < 0 {
			return ""
		}
		prefix = prefix[:i]
	}
}

// SetInitializer sets the initializer of the component path of a.
func (a *Attribute) SetInitializer(path, value string) {
	if a.initializers == nil {
		a.initializers = make(map[string]string)
	}
	a.initializers[path] = value
}

// Initializers returns the initialized component paths in sorted order.
func (a *Attribute) Initializers() []string {
	return slices.Sorted(maps.Keys(a.initializers))
}

// HasInitializer reports whether any component of a is initialized.
func (a *Attribute) HasInitializer() bool {
	return len(a.initializers) > 0
}

// ClearInitializers removes all initializers.
func (a *Attribute) ClearInitializers() {
	a.initializers = nil
}

// Connections returns the inbound connections of a in key order.
func (a *Attribute) Connections() []InConnection {
	return slices.Clone(a.connections)
}

// lookup returns the attribute addressed by a path of the tree h. The
// remaining path is the component path.
func (g *Graph) lookup(h Handle, path, op string) (*Attribute, string, error) {
	p := g.FindAttribute(h, path, FindTyped)
	a := g.Attribute(p.Entity)
	if a == nil {
		return nil, "", report(ErrPathNotFound, g.EntityPath(h, 0)+MakePath(path),
			"%s - attribute not found", op)
	}
	return a, p.Member, nil
}

// TypeOf returns the type of the attribute or component at path.
func (g *Graph) TypeOf(h Handle, path string) (string, error) {
	a, member, err := g.lookup(h, path, "TypeOf")
	if err != nil {
		return "", err
	}
	return memberType(a.Type, member), nil
}

// SetType sets the type of the attribute at path.
func (g *Graph) SetType(h Handle, path, typ string) error {
	a, _, err := g.lookup(h, path, "SetType")
	if err != nil {
		return err
	}
	a.Type = typ
	return nil
}

// FlagsOf returns the flags of the attribute at path.
func (g *Graph) FlagsOf(h Handle, path string) (Flags, error) {
	a, _, err := g.lookup(h, path, "FlagsOf")
	if err != nil {
		return 0, err
	}
	return a.Flags, nil
}

// SetFlags sets the flags of the attribute at path.
func (g *Graph) SetFlags(h Handle, path string, flags Flags) error {
	a, _, err := g.lookup(h, path, "SetFlags")
	if err != nil {
		return err
	}
	a.Flags = flags
	return nil
}

// ScopeOf returns the scope of the attribute at path. An empty path
// returns the scope of h itself, which may be a tree.
func (g *Graph) ScopeOf(h Handle, path string) (int, error) {
	if path == "" && g.Tree(h) != nil {
		return g.entityScope(h), nil
	}
	a, _, err := g.lookup(h, path, "ScopeOf")
	if err != nil {
		return 0, err
	}
	return a.Scope, nil
}

// SetScope sets the scope of the attribute at path. An empty path sets the
// scope of a node.
func (g *Graph) SetScope(h Handle, path string, scope int) error {
	if t := g.Tree(h); path == "" && t != nil {
		t.Scope = scope
		return nil
	}
	a, _, err := g.lookup(h, path, "SetScope")
	if err != nil {
		return err
	}
	a.Scope = scope
	return nil
}

// InitializerOf returns the initializer of the attribute or component at
// path.
func (g *Graph) InitializerOf(h Handle, path string) (string, error) {
	a, member, err := g.lookup(h, path, "InitializerOf")
	if err != nil {
		return "", err
	}
	return a.Initializer(member), nil
}

// SetInitializer sets the initializer of the attribute or component at
// path.
func (g *Graph) SetInitializer(h Handle, path, value string) error {
	a, member, err := g.lookup(h, path, "SetInitializer")
	if err != nil {
		return err
	}
	a.SetInitializer(member, value)
	return nil
}

// Attributes returns the attributes below the tree path of h whose flags
// include all of flags, in key order.
func (g *Graph) Attributes(h Handle, prefix string, flags Flags) []Handle {
	p := g.FindAttribute(h, prefix, FindUntyped)
	if p.IsNull() {
		return nil
	}
	if a := g.Attribute(p.Entity); a != nil {
		if a.Flags&flags == flags {
			return []Handle{p.Entity}
		}
		return nil
	}
	var out []Handle
	g.collectAttributes(p.Entity, p.Member, flags, &out)
	return out
}

func (g *Graph) collectAttributes(tree Handle, prefix string, flags Flags, out *[]Handle) {
	t := g.Tree(tree)
	i, _ := t.lowerBound(prefix)
	for ; i < len(t.children); i++ {
		c := t.children[i]
		if !strings.HasPrefix(c.Key, prefix) {
			break
		}
		// ".foo0" between ".foo.x" and ".foo[1]"
		if !StartsWithPath(c.Key, prefix) {
			continue
		}
		switch e := g.Entity(c.Handle).(type) {
		case *Attribute:
			if e.Flags&flags == flags {
				*out = append(*out, c.Handle)
			}
		case *Tree:
			g.collectAttributes(c.Handle, "", flags, out)
		}
	}
}
