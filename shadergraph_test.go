package shadergraph

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"

	"github.com/gogpu/shadergraph/ir"
)

const generateArchive = "testdata/generate.txtar"

func archiveFile(t *testing.T, a *txtar.Archive, name string) []byte {
	t.Helper()
	for _, f := range a.Files {
		if f.Name == name {
			return f.Data
		}
	}
	t.Fatalf("%s: no file %q", generateArchive, name)
	return nil
}

// scriptGraph builds a node n1 of scope 1 with a state and a node n2 of
// scope 2 that reads n1.output.x.
func scriptGraph(t *testing.T) (*ir.Graph, ir.Handle) {
	t.Helper()
	g := ir.NewGraph()
	root := g.NewTree("g")

	code := func(s string) ir.UpdateFunc {
		return func(w *ir.NodeWriter) { w.WriteString(s) }
	}
	n1 := g.NewNode("n1", "ScriptNode", 1, code("$.output = $.input * 2.0f;\n$.acc = $.acc + $.output;\n"))
	n2 := g.NewNode("n2", "BinOpNode", 2, code("$.output = $.input / 5.0f;\n"))
	for _, n := range []ir.Handle{n1, n2} {
		if err := g.AddNode(root, n); err != nil {
			t.Fatal(err)
		}
	}

	steps := []func() error{
		func() error { _, err := g.AddAttribute(n1, "input", "float3", ir.FlagInput, 1); return err },
		func() error { return g.SetInitializer(n1, "input.x", "1.0f") },
		func() error { return g.SetInitializer(n1, "input.y", "1.0f") },
		func() error { return g.SetInitializer(n1, "input.z", "1.0f") },
		func() error { _, err := g.AddOutput(n1, "output", "float3"); return err },
		func() error {
			_, err := g.AddAttributeWithInitializer(n1, "acc", "float3", ir.FlagState, 0, "splat3(0.0f)")
			return err
		},
		func() error { _, err := g.AddInput(n2, "input", "float"); return err },
		func() error { _, err := g.AddOutput(n2, "output", "float"); return err },
		func() error {
			return g.Connect(g.FindAttribute(n2, "input", ir.FindTyped), g.FindAttribute(n1, "output.x", ir.FindTyped))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}
	return g, root
}

func TestGenerate(t *testing.T) {
	archive, err := txtar.ParseFile(generateArchive)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := ParseOptions(archiveFile(t, archive, "options.yaml"))
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}

	g, root := scriptGraph(t)
	if err := Prepare(g, root, opts); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := Generate(g, root, opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if os.Getenv("UPDATE_GOLDEN") != "" {
		for i := range archive.Files {
			if archive.Files[i].Name == "want.h" {
				archive.Files[i].Data = []byte(got)
			}
		}
		if err := os.WriteFile(generateArchive, txtar.Format(archive), 0o644); err != nil {
			t.Fatal(err)
		}
		return
	}

	want := strings.ReplaceAll(string(archiveFile(t, archive, "want.h")), "\r\n", "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_DefaultScopes(t *testing.T) {
	g, root := scriptGraph(t)
	opts := DefaultOptions()
	if err := Prepare(g, root, opts); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	got, err := Generate(g, root, opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// scope 2 has no variable, so no copies are written for it
	for _, s := range []string{"// update state, local", "local._n1._output = splat3(1.0f) * 2.0f;"} {
		if !strings.Contains(got, s) {
			t.Errorf("output missing %q:\n%s", s, got)
		}
	}
	if strings.Contains(got, "// output to") {
		t.Errorf("unexpected output block:\n%s", got)
	}
}

func TestGenerate_Errors(t *testing.T) {
	g, root := scriptGraph(t)
	if _, err := Generate(g, root+100, DefaultOptions()); !ir.IsInvalidHandle(err) {
		t.Errorf("Generate(invalid root) = %v, want InvalidHandle", err)
	}
	opts := DefaultOptions()
	opts.Scopes = nil
	if _, err := Generate(g, root, opts); err == nil {
		t.Error("Generate without scopes succeeded")
	}
}

func TestPrepare_Strict(t *testing.T) {
	build := func() (*ir.Graph, ir.Handle) {
		g := ir.NewGraph()
		root := g.NewTree("g")
		n := g.NewNode("n", "", 1, nil)
		if err := g.AddNode(root, n); err != nil {
			t.Fatal(err)
		}
		// a reference without a source
		if _, err := g.AddAttribute(n, "ref", "float", ir.FlagReference, 1); err != nil {
			t.Fatal(err)
		}
		return g, root
	}

	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	opts := DefaultOptions()
	g, root := build()
	if err := Prepare(g, root, opts); err != nil {
		t.Errorf("Prepare(non-strict) = %v", err)
	}
	if !strings.Contains(buf.String(), "path=g.n.ref") {
		t.Errorf("validation error not logged: %s", buf.String())
	}

	opts.Strict = true
	g, root = build()
	err := Prepare(g, root, opts)
	var verr *ir.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Prepare(strict) = %v, want ValidationError", err)
	}
	if verr.Path != "g.n.ref" {
		t.Errorf("ValidationError.Path = %q", verr.Path)
	}
}

func TestPrepare_InvalidRoot(t *testing.T) {
	if err := Prepare(nil, 0, DefaultOptions()); !ir.IsInvalidHandle(err) {
		t.Errorf("Prepare(nil) = %v, want InvalidHandle", err)
	}
}
