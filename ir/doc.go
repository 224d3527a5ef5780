// Package ir is the node/attribute graph from which update code is
// generated.
//
// # Structure
//
// A [Graph] is an arena of entities addressed by [Handle]. An entity is
// either an [Attribute] (a typed variable with flags, a scope, initializers
// and inbound connections) or a [Tree] (a named container). Trees come in
// two kinds: groups, which only organize their children, and nodes, which
// own a scope and emit update code through an [UpdateFunc].
//
// Children are addressed by member paths starting with '.' or '['. A child
// key may span several path elements (".foo.bar[1]"), and attribute
// components are addressed by swizzles (".x", ".xy") or array indices.
//
// # Pipeline
//
// A client builds the graph, wires attributes with [Graph.Connect] and
// initializers, then runs
//
//	Propagate  raises scopes along connections until nothing changes
//	Optimize   vectorizes initializers and elides references and constants
//	Traversal  visits attributes, connections and nodes in dependency order
//
// and emits code through a [NodeWriter], which expands placeholders such as
// "$.output" against the node that is currently being written.
package ir
