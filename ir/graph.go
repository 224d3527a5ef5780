package ir

import "slices"

// Handle addresses an entity in a Graph.
type Handle uint32

// NoHandle is the null handle.
const NoHandle Handle = ^Handle(0)

// Valid reports whether h is not NoHandle.
func (h Handle) Valid() bool {
	return h != NoHandle
}

// Flags describe the role of an attribute.
type Flags uint8

const (
	// FlagInput marks an attribute that the node reads.
	FlagInput Flags = 1

	// FlagOutput marks an attribute that the node writes.
	FlagOutput Flags = 2

	// FlagReference marks an attribute that is replaced by its connection.
	FlagReference Flags = 8

	// FlagConstant marks an attribute that is replaced by its initializer.
	FlagConstant Flags = 16

	// FlagExtra marks an extra attribute.
	FlagExtra Flags = 32

	// FlagInterface marks an attribute that is visible from outside and
	// therefore is never turned into a reference.
	FlagInterface Flags = 64

	// FlagStop stops traversals that honor it at this attribute.
	FlagStop Flags = 128

	// FlagState marks state that survives between updates.
	FlagState = FlagInput | FlagOutput
)

// Entity is an *Attribute or a *Tree.
type Entity interface {
	base() *entityBase
}

type entityBase struct {
	name   string
	parent Handle
}

func (b *entityBase) base() *entityBase { return b }

// Name returns the name the entity was created or inserted with.
func (b *entityBase) Name() string { return b.name }

// Parent returns the handle of the containing tree or NoHandle.
func (b *entityBase) Parent() Handle { return b.parent }

// Attribute is a typed variable of a node.
type Attribute struct {
	entityBase

	// Type is the type name, e.g. "float3".
	Type string

	Flags Flags

	// Scope is the evaluation stage.
	Scope int

	// inbound connections sorted by key (sink sub-path, "" or ".x")
	connections []InConnection

	// initializers by sub-path
	initializers map[string]string

	// back-references of connections that read from this attribute
	sinks map[ConnectionRef]struct{}
}

// ConnectionRef names the inbound connection stored under Key on the sink
// attribute Sink.
type ConnectionRef struct {
	Sink Handle
	Key  string
}

// InConnection is an inbound connection of an attribute. Key is the
// sub-path of the sink ("" for the whole attribute, ".x" for a component).
type InConnection struct {
	Key        string
	Connection Connection
}

// TreeKind distinguishes plain groups from code-emitting nodes.
type TreeKind uint8

const (
	// KindGroup only organizes children. Its scope is the scope of its
	// parent, 0 for a root.
	KindGroup TreeKind = iota

	// KindNode owns a scope and emits update code.
	KindNode
)

// UpdateFunc writes the update code of a node. The node is pushed on the
// writer, so placeholders like "$.output" refer to its attributes.
type UpdateFunc func(w *NodeWriter)

// Tree is a named container of attributes and other trees.
type Tree struct {
	entityBase

	Kind TreeKind

	// NodeType is the type name written in the comment that precedes the
	// update code of a node (e.g. "ScriptNode").
	NodeType string

	// Scope is the scope of a node. Groups ignore it.
	Scope int

	// Update writes the update code of a node. May be nil.
	Update UpdateFunc

	// children sorted by key
	children []Child
}

// Graph is an arena of entities. Entities are never freed individually;
// dropping the graph drops all of them.
type Graph struct {
	entities []Entity
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Len returns the number of entities in the graph.
func (g *Graph) Len() int {
	return len(g.entities)
}

func (g *Graph) add(e Entity) Handle {
	h := Handle(len(g.entities))
	g.entities = append(g.entities, e)
	return h
}

// Entity returns the entity of h or nil.
func (g *Graph) Entity(h Handle) Entity {
	if int64(h) >= int64(len(g.entities)) {
		return nil
	}
	return g.entities[h]
}

// Attribute returns the attribute of h or nil.
func (g *Graph) Attribute(h Handle) *Attribute {
	a, _ := g.Entity(h).(*Attribute)
	return a
}

// Tree returns the tree of h or nil.
func (g *Graph) Tree(h Handle) *Tree {
	t, _ := g.Entity(h).(*Tree)
	return t
}

// NewTree creates a group tree that is not part of any other tree yet.
func (g *Graph) NewTree(name string) Handle {
	return g.add(&Tree{entityBase: entityBase{name: name, parent: NoHandle}, Kind: KindGroup})
}

// NewNode creates a node that is not part of any tree yet.
// An empty nodeType becomes "Node".
func (g *Graph) NewNode(name, nodeType string, scope int, update UpdateFunc) Handle {
	if nodeType == "" {
		nodeType = "Node"
	}
	return g.add(&Tree{
		entityBase: entityBase{name: name, parent: NoHandle},
		Kind:       KindNode,
		NodeType:   nodeType,
		Scope:      scope,
		Update:     update,
	})
}

// Name returns the name of the entity.
func (g *Graph) Name(h Handle) string {
	if e := g.Entity(h); e != nil {
		return e.base().name
	}
	return ""
}

// Parent returns the parent of the entity or NoHandle.
func (g *Graph) Parent(h Handle) Handle {
	if e := g.Entity(h); e != nil {
		return e.base().parent
	}
	return NoHandle
}

// Root returns the topmost ancestor of h (h itself if it has no parent).
func (g *Graph) Root(h Handle) Handle {
	for {
		p := g.Parent(h)
		if p == NoHandle {
			return h
		}
		h = p
	}
}

// Depth returns the number of ancestors of h.
func (g *Graph) Depth(h Handle) int {
	depth := 0
	for p := g.Parent(h); p != NoHandle; p = g.Parent(p) {
		depth++
	}
	return depth
}

// EntityPath returns the path of h starting at the ancestor of the given
// depth. For startDepth 0 the root name is written without a leading '.'
// ("g1.n1.output"), otherwise every element is a member path
// (EntityPath(h, 1) is ".n1.output").
func (g *Graph) EntityPath(h Handle, startDepth int) string {
	depth := g.Depth(h)
	name := ""
	for depth > startDepth {
		name = MakePath(g.Name(h)) + name
		h = g.Parent(h)
		depth--
	}
	if startDepth == 0 {
		return g.Name(h) + name
	}
	return MakePath(g.Name(h)) + name
}

// entityScope returns the scope of an attribute, of a node, or for a group the
// scope of its parent.
func (g *Graph) entityScope(h Handle) int {
	switch e := g.Entity(h).(type) {
	case *Attribute:
		return e.Scope
	case *Tree:
		if e.Kind == KindNode {
			return e.Scope
		}
		if e.parent != NoHandle {
			return g.entityScope(e.parent)
		}
	}
	return 0
}

// Child is a child of a tree with the member path it is stored under.
type Child struct {
	Key    string
	Handle Handle
}

// Children returns the children of a tree in key order.
func (g *Graph) Children(tree Handle) []Child {
	t := g.Tree(tree)
	if t == nil {
		return nil
	}
	return slices.Clone(t.children)
}

// NodeType returns the node type of a node, "" for groups and attributes.
func (g *Graph) NodeType(h Handle) string {
	if t := g.Tree(h); t != nil && t.Kind == KindNode {
		return t.NodeType
	}
	return ""
}
