// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package codewriter

import (
	"fmt"
	"io"
	"strings"
)

// LineHook rewrites a logical line right before it is committed.
//
// A hook may emit additional lines with [Writer.WriteRawLine] (they are
// committed before the rewritten line). ir.NodeWriter uses this to expand
// placeholders against the node that is currently pushed.
type LineHook interface {
	CommitLine(w *Writer, line string) string
}

// Writer writes code of C-like dialects one logical line at a time.
//
// The newline that ends a line is written lazily together with the next
// line. This lets the writer drop a deferred comma when the following line
// closes a scope and accumulate empty lines without flushing anything.
type Writer struct {
	out  io.Writer
	lang Language
	hook LineHook

	// current line
	line strings.Builder

	// a comma that is written unless EndScope or EndArray follows
	deferredComma bool

	// number of newlines to write before the next line
	newLines int

	indent       int
	indentString string

	closed bool
	err    error
}

// New creates a writer that writes to out.
func New(out io.Writer, lang Language) *Writer {
	return &Writer{
		out:          out,
		lang:         lang,
		indentString: "\t",
	}
}

// Language returns the output dialect.
func (w *Writer) Language() Language {
	return w.lang
}

// SetLanguage changes the output dialect.
func (w *Writer) SetLanguage(lang Language) {
	w.lang = lang
}

// SetIndentString sets the string written once per indentation level.
func (w *Writer) SetIndentString(s string) {
	w.indentString = s
}

// SetLineHook installs a hook that rewrites every committed line.
func (w *Writer) SetLineHook(h LineHook) {
	w.hook = h
}

// Write implements io.Writer. Newlines in p commit lines.
func (w *Writer) Write(p []byte) (int, error) {
	w.writeString(string(p))
	return len(p), w.err
}

// WriteString implements io.StringWriter. Newlines in s commit lines.
func (w *Writer) WriteString(s string) (int, error) {
	w.writeString(s)
	return len(s), w.err
}

// Printf formats according to a format specifier and appends the result.
func (w *Writer) Printf(format string, args ...any) {
	w.writeString(fmt.Sprintf(format, args...))
}

// WriteValue appends a Go value formatted as a literal of the writer's language.
func (w *Writer) WriteValue(v any) {
	w.writeString(Literal(w.lang, v))
}

func (w *Writer) writeString(s string) {
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			w.line.WriteString(s)
			return
		}
		w.line.WriteString(s[:i])
		s = s[i+1:]
		w.WriteLine("")
	}
}

// WriteLine appends s to the current line and commits it. Committing an
// empty line only adds a deferred newline.
func (w *Writer) WriteLine(s string) {
	w.line.WriteString(s)
	if w.line.Len() == 0 {
		w.newLines++
		return
	}
	w.commit()
}

// WriteLineWith commits the current line with a trailing token. A ',' is
// deferred and dropped if the next line closes a scope or array.
func (w *Writer) WriteLineWith(ch byte) {
	if ch == ',' {
		w.WriteLine("")
		w.deferredComma = true
		return
	}
	w.line.WriteByte(ch)
	w.WriteLine("")
}

// WriteComment writes a line comment.
func (w *Writer) WriteComment(comment string) {
	w.writeString("// " + comment + "\n")
}

// CurrentLine returns the uncommitted part of the current line.
func (w *Writer) CurrentLine() string {
	return w.line.String()
}

// TakeLine removes and returns the uncommitted part of the current line.
func (w *Writer) TakeLine() string {
	s := w.line.String()
	w.line.Reset()
	return s
}

// Indent returns the current indentation depth.
func (w *Writer) Indent() int {
	return w.indent
}

// SetIndent sets the indentation depth.
func (w *Writer) SetIndent(indent int) {
	w.indent = max(0, indent)
}

// IncIndent adds one indentation level.
func (w *Writer) IncIndent() {
	w.indent++
}

// DecIndent removes one indentation level.
func (w *Writer) DecIndent() {
	w.indent = max(0, w.indent-1)
}

// BeginScope writes "{" and indents.
func (w *Writer) BeginScope() {
	w.writeString("{\n")
	w.IncIndent()
}

// EndScope unindents and writes "}".
func (w *Writer) EndScope() {
	w.deferredComma = false
	w.DecIndent()
	w.writeString("}\n")
}

// EndScopeWith unindents and writes "}" followed by ch (e.g. ';' or ',').
func (w *Writer) EndScopeWith(ch byte) {
	w.deferredComma = false
	w.DecIndent()
	w.line.WriteByte('}')
	w.WriteLineWith(ch)
}

// EndScopeStatement unindents and writes "} statement" (e.g. "} while (true);").
func (w *Writer) EndScopeStatement(statement string) {
	w.DecIndent()
	w.writeString("} " + statement + "\n")
}

// BeginArray writes "[" and indents.
func (w *Writer) BeginArray() {
	w.writeString("[\n")
	w.IncIndent()
}

// EndArray unindents and writes "]" followed by ch.
func (w *Writer) EndArray(ch byte) {
	w.deferredComma = false
	w.DecIndent()
	w.line.WriteByte(']')
	w.WriteLineWith(ch)
}

// BeginNamespace opens a namespace.
func (w *Writer) BeginNamespace(name string) {
	w.writeString("namespace " + name + "\n{\n")
	w.IncIndent()
}

// EndNamespace closes a namespace.
func (w *Writer) EndNamespace() {
	w.EndScope()
}

// EndNamespaceNamed closes a namespace and repeats its name as a comment.
func (w *Writer) EndNamespaceNamed(name string) {
	w.DecIndent()
	w.writeString("} // " + name + "\n")
}

// BeginFunction opens a function without parameters.
func (w *Writer) BeginFunction(returnType, name string) {
	w.writeString(returnType + " " + name + "()\n{\n")
	w.IncIndent()
}

// EndFunction closes a function.
func (w *Writer) EndFunction() {
	w.EndScope()
}

// BeginStruct opens a struct. An empty name opens an anonymous struct.
func (w *Writer) BeginStruct(name string) {
	if name == "" {
		w.writeString("struct\n{\n")
	} else {
		w.writeString("struct " + name + "\n{\n")
	}
	w.IncIndent()
}

// BeginDerivedStruct opens a struct that publicly derives from parent.
func (w *Writer) BeginDerivedStruct(name, parent string) {
	w.writeString("struct " + name + " : public " + parent + "\n{\n")
	w.IncIndent()
}

// EndStruct closes a named struct with "};".
func (w *Writer) EndStruct() {
	w.DecIndent()
	w.WriteLine("};")
}

// EndStructNamed closes an anonymous struct and declares a variable of it.
func (w *Writer) EndStructNamed(name string) {
	w.DecIndent()
	w.writeString("} " + name + ";\n")
}

// WriteValues writes a value list, "{1, 2, 3}" or "[1, 2, 3]" depending on
// the language.
func (w *Writer) WriteValues(values []string) {
	open, close := "[", "]"
	if w.lang.BraceArrays() {
		open, close = "{", "}"
	}
	w.writeString(open + strings.Join(values, ", ") + close)
}

// WriteArgumentList writes "(a, b, c)".
func (w *Writer) WriteArgumentList(values []string) {
	w.writeString("(" + strings.Join(values, ", ") + ")")
}

// WriteConstArray writes a constant array definition with perLine values
// on each line (e.g. "const int values[] = {1, 2, 3};").
func (w *Writer) WriteConstArray(typeName, name string, values []string, perLine int) {
	if perLine < 1 {
		perLine = 1
	}
	w.writeString("const " + typeName + " " + name + "[] = \n")
	w.BeginScope()
	for len(values) > 0 {
		n := min(perLine, len(values))
		for _, v := range values[:n] {
			w.writeString(v + ", ")
		}
		w.WriteLine("")
		values = values[n:]
	}
	w.EndScopeWith(';')
}

// WriteRawLine commits line as a complete line without running the line
// hook. The current uncommitted line is not affected.
func (w *Writer) WriteRawLine(line string) {
	w.emit(line)
}

// Flush commits the current line, even if it is empty. This writes the
// pending newlines and the indentation of the current line.
func (w *Writer) Flush() error {
	w.commit()
	return w.err
}

// Close flushes the writer once. The underlying io.Writer is not closed.
func (w *Writer) Close() error {
	if !w.closed {
		w.closed = true
		w.commit()
	}
	return w.err
}

// Err returns the first error returned by the underlying io.Writer.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) commit() {
	line := w.line.String()
	w.line.Reset()
	if w.hook != nil {
		line = w.hook.CommitLine(w, line)
	}
	w.emit(line)
}

// emit writes the deferred comma, the deferred newlines and the indentation
// followed by line.
func (w *Writer) emit(line string) {
	var b strings.Builder
	if w.deferredComma {
		b.WriteByte(',')
	}
	for range w.newLines {
		b.WriteByte('\n')
	}
	for range w.indent {
		b.WriteString(w.indentString)
	}
	b.WriteString(line)

	w.deferredComma = false
	w.newLines = 1

	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, b.String())
}
