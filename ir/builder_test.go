package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUniqueName(t *testing.T) {
	g := NewGraph()
	tree := g.NewTree("root")
	mustAttr(t)(g.AddInput(tree, "foo", "float"))
	mustAttr(t)(g.AddInput(tree, "bar.baz", "float"))
	mustAttr(t)(g.AddInput(tree, "n1", "float"))

	tests := []struct {
		name, want string
	}{
		{"free", "free"},
		{"foo", "foo0"},
		{"foo.x", "foo0.x"},
		{"bar", "bar0"},
		{"foobar", "foobar"},
		{"n1", "n10"},
	}
	for _, tt := range tests {
		if got := g.UniqueName(tree, tt.name); got != tt.want {
			t.Errorf("UniqueName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	mustAttr(t)(g.AddInput(tree, "foo0", "float"))
	if got := g.UniqueName(tree, "foo"); got != "foo1" {
		t.Errorf("UniqueName(foo) with foo0 taken = %q, want %q", got, "foo1")
	}
}

func TestAddNode(t *testing.T) {
	g := NewGraph()
	root := g.NewTree("root")
	n1 := g.NewNode("n1", "", 1, nil)
	must(t, g.AddNode(root, n1))

	if err := g.AddNode(root, n1); !IsSelfInsertion(err) {
		t.Errorf("AddNode twice error = %v, want SelfInsertion", err)
	}
	if err := g.AddNode(n1, root); !IsSelfInsertion(err) {
		t.Errorf("AddNode(child, root) error = %v, want SelfInsertion", err)
	}
	if err := g.AddNode(root, root); !IsSelfInsertion(err) {
		t.Errorf("AddNode(root, root) error = %v, want SelfInsertion", err)
	}

	other := g.NewNode("n1", "", 1, nil)
	if err := g.AddNode(root, other); !IsNameCollision(err) {
		t.Errorf("AddNode(duplicate name) error = %v, want NameCollision", err)
	}
	name, err := g.AddNodeAs(root, other, "n1")
	if err != nil {
		t.Fatalf("AddNodeAs: %v", err)
	}
	if name != "n10" || g.Name(other) != "n10" {
		t.Errorf("AddNodeAs name = %q (entity %q), want n10", name, g.Name(other))
	}
	if g.Parent(other) != root {
		t.Errorf("Parent = %d, want %d", g.Parent(other), root)
	}

	if err := g.AddNode(NoHandle, other); err == nil {
		t.Error("AddNode(invalid parent) succeeded")
	}
}

func TestAddNodeAs_ConflictingPrefix(t *testing.T) {
	g := NewGraph()
	root := g.NewTree("root")
	group := g.NewTree("group")
	must(t, g.AddNode(root, group))

	// "group" is taken, so the first element of the path is renamed
	n := g.NewNode("n", "", 1, nil)
	name, err := g.AddNodeAs(root, n, "group.n")
	if err != nil {
		t.Fatalf("AddNodeAs: %v", err)
	}
	if name != "group0.n" {
		t.Errorf("name = %q, want %q", name, "group0.n")
	}
	if g.Parent(n) != root {
		t.Errorf("Parent = %d, want root %d", g.Parent(n), root)
	}
	if got := g.EntityPath(n, 0); got != "root.group0.n" {
		t.Errorf("EntityPath = %q", got)
	}
	if !g.HasAttribute(root, "group0") {
		t.Error("HasAttribute(group0) = false")
	}
}

func TestRemoveNode(t *testing.T) {
	g := NewGraph()
	root := g.NewTree("root")
	n := g.NewNode("n", "", 1, nil)
	must(t, g.AddNode(root, n))

	if !g.RemoveNode(root, n) {
		t.Fatal("RemoveNode = false")
	}
	if g.RemoveNode(root, n) {
		t.Error("second RemoveNode = true")
	}
	if g.Parent(n) != NoHandle || len(g.Children(root)) != 0 {
		t.Error("node still linked after RemoveNode")
	}
	must(t, g.AddNode(root, n))
}

func TestAddAttribute_IntoChild(t *testing.T) {
	g := NewGraph()
	root := g.NewTree("root")
	n1 := g.NewNode("n1", "", 1, nil)
	must(t, g.AddNode(root, n1))

	h := mustAttr(t)(g.AddAttribute(root, "n1.input", "float", FlagInput, 1))
	if g.Parent(h) != n1 {
		t.Errorf("attribute parent = %d, want n1", g.Parent(h))
	}
	if g.Name(h) != "input" {
		t.Errorf("attribute name = %q, want %q", g.Name(h), "input")
	}

	// below an attribute
	if _, err := g.AddAttribute(root, "n1.input.x", "float", 0, 1); !IsTypeMismatch(err) {
		t.Errorf("AddAttribute below attribute error = %v, want TypeMismatch", err)
	}
	// prefix of an existing dotted name
	mustAttr(t)(g.AddAttribute(n1, "a.b", "float", 0, 1))
	if _, err := g.AddAttribute(n1, "a", "float", 0, 1); !IsNameCollision(err) {
		t.Errorf("AddAttribute(a) with a.b error = %v, want NameCollision", err)
	}
}

func TestAddAttribute_DuplicateName(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("n", "", 1, nil)
	in := mustAttr(t)(g.AddInput(n, "foo", "float3"))
	size := g.Len()

	tests := []struct {
		name string
		add  func() (Handle, error)
	}{
		{"Attribute", func() (Handle, error) { return g.AddAttribute(n, "foo", "float", 0, 1) }},
		{"Output", func() (Handle, error) { return g.AddOutput(n, "foo", "float") }},
		{"Constant", func() (Handle, error) { return g.AddConstant(n, "foo", "float", "1.0f") }},
		{"DottedPath", func() (Handle, error) { return g.AddAttribute(n, ".foo", "float", 0, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := tt.add()
			if !IsNameCollision(err) {
				t.Errorf("error = %v, want NameCollision", err)
			}
			if h != NoHandle {
				t.Errorf("handle = %d, want NoHandle", h)
			}
		})
	}
	if g.Len() != size {
		t.Errorf("Len() = %d after failed adds, want %d", g.Len(), size)
	}
	if typ, _ := g.TypeOf(n, "foo"); typ != "float3" {
		t.Errorf("TypeOf(foo) = %q, want float3 (original kept)", typ)
	}
	if g.Parent(in) != n {
		t.Errorf("original attribute parent = %d, want n", g.Parent(in))
	}
}

func TestAttributeAccessors(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("n", "", 2, nil)
	mustAttr(t)(g.AddInput(n, "in", "float3"))

	must(t, g.SetType(n, "in", "float4"))
	if typ, _ := g.TypeOf(n, "in"); typ != "float4" {
		t.Errorf("TypeOf after SetType = %q", typ)
	}
	must(t, g.SetFlags(n, "in", FlagInput|FlagStop))
	if f, _ := g.FlagsOf(n, "in"); f != FlagInput|FlagStop {
		t.Errorf("FlagsOf = %d", f)
	}
	must(t, g.SetScope(n, "in", 3))
	if s, _ := g.ScopeOf(n, "in"); s != 3 {
		t.Errorf("ScopeOf(in) = %d, want 3", s)
	}
	if s, _ := g.ScopeOf(n, ""); s != 2 {
		t.Errorf("ScopeOf(node) = %d, want 2", s)
	}
	must(t, g.SetScope(n, "", 4))
	if s, _ := g.ScopeOf(n, ""); s != 4 {
		t.Errorf("ScopeOf(node) after SetScope = %d, want 4", s)
	}

	for name, err := range map[string]error{
		"SetType":  g.SetType(n, "missing", "float"),
		"SetFlags": g.SetFlags(n, "missing", 0),
		"SetScope": g.SetScope(n, "missing", 0),
	} {
		if !IsPathNotFound(err) {
			t.Errorf("%s(missing) error = %v, want PathNotFound", name, err)
		}
	}
}

func TestGroupScope(t *testing.T) {
	g := NewGraph()
	root := g.NewTree("root")
	n := g.NewNode("n", "", 3, nil)
	must(t, g.AddNode(root, n))
	group := g.NewTree("group")
	must(t, g.AddNode(n, group))

	if s, _ := g.ScopeOf(group, ""); s != 3 {
		t.Errorf("group scope = %d, want scope of the containing node 3", s)
	}
	if s, _ := g.ScopeOf(root, ""); s != 0 {
		t.Errorf("root group scope = %d, want 0", s)
	}
}

func TestInitializers(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("n", "", 1, nil)
	h := mustAttr(t)(g.AddInput(n, "v", "float3"))
	a := g.Attribute(h)

	if a.HasInitializer() {
		t.Error("new attribute has an initializer")
	}
	must(t, g.SetInitializer(n, "v.y", "2.0f"))
	must(t, g.SetInitializer(n, "v.x", "1.0f"))
	if diff := cmp.Diff([]string{".x", ".y"}, a.Initializers()); diff != "" {
		t.Errorf("Initializers (-want +got):\n%s", diff)
	}
	if got := a.Initializer(".y"); got != "2.0f" {
		t.Errorf("Initializer(.y) = %q", got)
	}
	if got := a.Initializer(".z"); got != "" {
		t.Errorf("Initializer(.z) = %q, want empty", got)
	}
	a.ClearInitializers()
	if a.HasInitializer() {
		t.Error("HasInitializer after ClearInitializers")
	}
}

func TestInitializerDecoding(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("n", "", 1, nil)
	b := mustAttr(t)(g.AddConstant(n, "b", "bool", "true"))
	f := mustAttr(t)(g.AddConstant(n, "f", "float", "0.0f"))
	v := mustAttr(t)(g.AddConstant(n, "v", "float3", "vector3(1.0f, 2.5f, -3.0f)"))
	s := mustAttr(t)(g.AddConstant(n, "s", "float3", "splat3(4.0f)"))
	in := mustAttr(t)(g.AddInput(n, "in", "bool"))

	if got, ok := g.Attribute(b).InitializerBool(); !ok || !got {
		t.Errorf("InitializerBool(true) = %v, %v", got, ok)
	}
	if got, ok := g.Attribute(f).InitializerBool(); !ok || got {
		t.Errorf("InitializerBool(0.0f) = %v, %v", got, ok)
	}
	if _, ok := g.Attribute(in).InitializerBool(); ok {
		t.Error("InitializerBool of a non-constant succeeded")
	}
	if got, ok := g.Attribute(v).InitializerFloat3(); !ok || got != [3]float32{1, 2.5, -3} {
		t.Errorf("InitializerFloat3(vector3) = %v, %v", got, ok)
	}
	if got, ok := g.Attribute(s).InitializerFloat3(); !ok || got != [3]float32{4, 4, 4} {
		t.Errorf("InitializerFloat3(splat3) = %v, %v", got, ok)
	}
}
