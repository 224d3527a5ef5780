package ir

import (
	"io"
	"strings"

	"github.com/gogpu/shadergraph/codewriter"
)

type pathState struct {
	path Path

	// the header comment has been written
	written bool
}

// NodeWriter is a code writer with a stack of current nodes. Lines
// written while a node is pushed may contain placeholders that refer to
// the node on top of the stack:
//
//	$.name  variable of the attribute "name"
//	$@name  type of the attribute "name"
//	$:      mangled path of the node (e.g. "_n1")
//	$&      path of the node (e.g. ".n1"), for comments
//	$x      local variable "_x"
//
// Placeholders inside string literals are not substituted. The first line
// written for a pushed node is preceded by an empty line and a comment
// with the path and node type of the node.
type NodeWriter struct {
	*codewriter.Writer

	g *Graph

	// Scopes maps a scope to the prefix of its variables, e.g. 0 to
	// "state". A variable of scope 1 reads as Scopes[1] + "._n1._output".
	Scopes map[int]string

	stack []pathState
}

// NewNodeWriter creates a node writer that writes to out.
func NewNodeWriter(out io.Writer, g *Graph, lang codewriter.Language) *NodeWriter {
	w := &NodeWriter{
		Writer: codewriter.New(out, lang),
		g:      g,
		Scopes: make(map[int]string),
	}
	w.SetLineHook(w)
	return w
}

// Graph returns the graph placeholders are resolved in.
func (w *NodeWriter) Graph() *Graph {
	return w.g
}

// Push makes p the current path. The returned function restores the
// previous current path and everything pushed after p.
func (w *NodeWriter) Push(p Path) (pop func()) {
	depth := len(w.stack)
	w.stack = append(w.stack, pathState{path: p})
	return func() {
		w.stack = w.stack[:depth]
	}
}

// PushNode pushes the node h.
func (w *NodeWriter) PushNode(h Handle) (pop func()) {
	return w.Push(Path{Entity: h})
}

// Current returns the current path or NullPath.
func (w *NodeWriter) Current() Path {
	if len(w.stack) == 0 {
		return NullPath
	}
	return w.stack[len(w.stack)-1].path
}

// WriteVariable writes the variable that p resolves to.
func (w *NodeWriter) WriteVariable(p Path) {
	c, _ := w.g.ResolvePath(p)
	w.WriteConnection(c)
}

// WriteConnection writes the variable of c or the literal.
func (w *NodeWriter) WriteConnection(c Connection) {
	w.WriteString(w.g.Variable(c, w.Scopes))
}

// CommitLine implements codewriter.LineHook.
func (w *NodeWriter) CommitLine(cw *codewriter.Writer, line string) string {
	if len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		if !top.written {
			top.written = true
			cw.WriteRawLine("")
			cw.WriteRawLine("// '" + w.g.PathName(top.path, 0) + "' (" + w.g.NodeType(top.path.Entity) + ")")
		}
	}
	return w.substitute(line)
}

func isIdentifierChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (w *NodeWriter) substitute(line string) string {
	if strings.IndexAny(line, "$\"") < 0 {
		return line
	}
	var b strings.Builder
	for i := 0; i < len(line); {
		s := i
		for i < len(line) && line[i] != '$' && line[i] != '"' {
			i++
		}
		b.WriteString(line[s:i])
		if i == len(line) {
			break
		}

		if line[i] == '"' {
			// copy string literal
			e := i + 1
			for e < len(line) && line[e] != '"' {
				if line[e] == '\\' {
					e++
				}
				e++
			}
			e = min(e+1, len(line))
			b.WriteString(line[i:e])
			i = e
			continue
		}

		// a trailing '$' is dropped
		if i+1 == len(line) {
			break
		}
		command := line[i+1]
		e := i + 2
		inIndex := false
	scan:
		for e < len(line) {
			switch c := line[e]; {
			case c == '[':
				// only literal indices (e.g. "[5]")
				if e+1 < len(line) && isDigit(line[e+1]) {
					e += 2
					inIndex = true
				} else {
					break scan
				}
			case c == ']' && inIndex:
				e++
				inIndex = false
			case isIdentifierChar(c) || c == '.':
				e++
			default:
				break scan
			}
		}
		w.expand(&b, command, line[i+2:e])
		i = e
	}
	return b.String()
}

func (w *NodeWriter) expand(b *strings.Builder, command byte, value string) {
	if len(w.stack) == 0 {
		b.WriteString("?null")
		b.WriteByte(command)
		b.WriteString(value)
		return
	}
	top := w.stack[len(w.stack)-1].path
	switch command {
	case '.':
		c, _ := w.g.ResolvePath(top.Join(value))
		b.WriteString(w.g.Variable(c, w.Scopes))
	case '@':
		typ, _ := w.g.TypeOf(top.Entity, top.Join(value).Member)
		b.WriteString(typ)
	case ':':
		name := TargetPath(w.g.PathName(top, 1))
		if name != "" {
			name = name[1:]
		}
		b.WriteString(name + value)
	case '&':
		b.WriteString(w.g.PathName(top, 1) + value)
	default:
		b.WriteByte('_')
		b.WriteByte(command)
		b.WriteString(value)
	}
}
