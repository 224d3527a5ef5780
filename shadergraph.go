// Package shadergraph generates shader and C++ code from node graphs.
//
// A graph is built with the ir package: nodes with typed attributes,
// connections between attributes and per-node update code written with
// placeholders such as "$.output = $.input * 2.0f;". Every attribute
// belongs to a scope (an evaluation stage such as per-frame or per-vertex).
// The package turns a graph into one program text:
//
//	g := ir.NewGraph()
//	root := g.NewTree("g")
//	// ... add nodes, attributes and connections ...
//
//	opts := shadergraph.DefaultOptions()
//	if err := shadergraph.Prepare(g, root, opts); err != nil {
//	    log.Fatal(err)
//	}
//	code, err := shadergraph.Generate(g, root, opts)
//
// For finer control use the ir helpers (ir.WriteInitCode,
// ir.WriteUpdateCode, ir.WriteOutputCode, ...) on an ir.NodeWriter.
package shadergraph

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gogpu/shadergraph/ir"
	"github.com/gogpu/shadergraph/layout"
)

// Prepare makes a graph ready for code generation.
//
// The pipeline is:
//  1. Propagate scopes along connections
//  2. Optimize (vectorize initializers, turn forwarding attributes into
//     references and initialized inputs into constants)
//  3. Validate the graph
//
// Validation errors are logged. In strict mode the first one is returned.
func Prepare(g *ir.Graph, root ir.Handle, opts Options) error {
	if g == nil || g.Tree(root) == nil {
		return fmt.Errorf("prepare: %w", ir.NewError(ir.ErrInvalidHandle, "root is not a tree"))
	}
	g.Propagate(root)
	g.Optimize(root)

	validationErrors, err := ir.Validate(g, root)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	for _, e := range validationErrors {
		Logger().Warn("invalid graph", slog.String("path", e.Path), slog.String("message", e.Message))
	}
	if opts.Strict && len(validationErrors) > 0 {
		return fmt.Errorf("validation failed: %w", &validationErrors[0])
	}
	return nil
}

// Generate returns the program text of a prepared graph.
func Generate(g *ir.Graph, root ir.Handle, opts Options) (string, error) {
	var b strings.Builder
	if err := Write(&b, g, root, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write writes the program text of a prepared graph to out.
//
// The text declares one variable per configured scope, named after the
// scope (e.g. "local"), and one per pair of update stage and later scope
// for the values that cross into that scope (e.g. "local_frame"). Then for
// every stage in ascending scope order it writes the init blocks, the
// update block and the copies into the crossing variables.
func Write(out io.Writer, g *ir.Graph, root ir.Handle, opts Options) error {
	if g == nil || g.Tree(root) == nil {
		return fmt.Errorf("generate: %w", ir.NewError(ir.ErrInvalidHandle, "root is not a tree"))
	}
	if len(opts.Scopes) == 0 {
		return fmt.Errorf("generate: no scopes configured")
	}

	w := ir.NewNodeWriter(out, g, opts.Language)
	w.SetIndentString(opts.Indent)
	for scope, prefix := range opts.Scopes {
		w.Scopes[scope] = prefix
	}

	stages := opts.stages()
	scopes := opts.scopeList()

	for _, s := range scopes {
		layout.WriteVariable(w.Writer, g.TargetType(root, s), opts.Scopes[s], opts.Align)
	}
	for _, stage := range stages {
		for _, o := range laterScopes(scopes, stage) {
			minScope, maxScope := stage[0], stage[len(stage)-1]
			layout.WriteVariable(w.Writer, g.OutputTargetType(root, minScope, maxScope, o),
				crossingName(opts, maxScope, o), opts.Align)
		}
	}

	for _, stage := range stages {
		minScope, maxScope := stage[0], stage[len(stage)-1]
		names := make([]string, len(stage))
		for i, s := range stage {
			names[i] = opts.Scopes[s]

			w.WriteLine("")
			w.WriteLine("// init " + names[i])
			w.BeginScope()
			ir.NewTraversal(g, ir.NewInitVisitor(w), opts.Stop).Visit(root, "", s, s)
			w.EndScope()
		}

		w.WriteLine("")
		w.WriteLine("// update " + strings.Join(names, ", "))
		w.BeginScope()
		ir.NewTraversal(g, ir.NewUpdateVisitor(w, maxScope), opts.Stop).Visit(root, "", minScope, maxScope)
		for _, o := range laterScopes(scopes, stage) {
			if g.OutputTargetType(root, minScope, maxScope, o).Empty() {
				continue
			}
			w.WriteLine("")
			w.WriteLine("// output to " + opts.Scopes[o])
			ir.WriteOutputCode(w, root, minScope, maxScope, o, crossingName(opts, maxScope, o))
		}
		w.EndScope()
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	Logger().Debug("program generated", slog.String("root", g.EntityPath(root, 0)), slog.Int("stages", len(stages)))
	return nil
}

// laterScopes returns the configured scopes after the last scope of stage.
func laterScopes(scopes, stage []int) []int {
	last := stage[len(stage)-1]
	for i, s := range scopes {
		if s > last {
			return scopes[i:]
		}
	}
	return nil
}

// crossingName names the variable that carries values of the stage ending
// with scope from into scope to.
func crossingName(opts Options, from, to int) string {
	return opts.Scopes[from] + "_" + opts.Scopes[to]
}
