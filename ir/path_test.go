package ir

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMakePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"foo", ".foo"},
		{".foo", ".foo"},
		{"[1]", "[1]"},
		{"foo.bar", ".foo.bar"},
	}
	for _, tt := range tests {
		if got := MakePath(tt.in); got != tt.want {
			t.Errorf("MakePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStartsWithPath(t *testing.T) {
	tests := []struct {
		s, path string
		want    bool
	}{
		{".foo.bar.x", ".foo.bar.xy", false},
		{".foo.bar.x", ".foo.bar.x", true},
		{".foo.bar.x", ".foo.bar", true},
		{".foo.bar.x", ".foo.b", false},
		{".foobar", ".foo", false},
		{".foo[2]", ".foo", true},
		{".foo", "", true},
	}
	for _, tt := range tests {
		if got := StartsWithPath(tt.s, tt.path); got != tt.want {
			t.Errorf("StartsWithPath(%q, %q) = %v, want %v", tt.s, tt.path, got, tt.want)
		}
	}
}

func TestPathElement(t *testing.T) {
	tests := []struct {
		path  string
		start int
		want  string
	}{
		{".foo.bar", 0, ".foo"},
		{".foo.bar", 4, ".bar"},
		{".foo[3].x", 4, "[3]"},
		{".foo", 4, ""},
	}
	for _, tt := range tests {
		if got := PathElement(tt.path, tt.start); got != tt.want {
			t.Errorf("PathElement(%q, %d) = %q, want %q", tt.path, tt.start, got, tt.want)
		}
	}
}

func TestTargetPath(t *testing.T) {
	if got := TargetPath(".n1.input2"); got != "._n1._input2" {
		t.Errorf("TargetPath = %q, want %q", got, "._n1._input2")
	}
	if got := TargetPath(""); got != "" {
		t.Errorf("TargetPath(\"\") = %q, want empty", got)
	}
}

func TestEntityPath(t *testing.T) {
	g := NewGraph()
	root := g.NewTree("g1")
	n1 := g.NewNode("n1", "", 1, nil)
	must(t, g.AddNode(root, n1))
	out := mustAttr(t)(g.AddOutput(n1, "output", "float3"))

	if got := g.EntityPath(out, 0); got != "g1.n1.output" {
		t.Errorf("EntityPath(out, 0) = %q", got)
	}
	if got := g.EntityPath(out, 1); got != ".n1.output" {
		t.Errorf("EntityPath(out, 1) = %q", got)
	}
	if got := g.PathName(Path{Entity: out, Member: ".x"}, 0); got != "g1.n1.output.x" {
		t.Errorf("PathName = %q", got)
	}
	if got := g.NodeType(n1); got != "Node" {
		t.Errorf("NodeType = %q, want default %q", got, "Node")
	}
	if got := g.Root(out); got != root {
		t.Errorf("Root = %d, want %d", got, root)
	}
	if got := g.Depth(out); got != 2 {
		t.Errorf("Depth = %d, want 2", got)
	}
}

// attributeNode builds the node used by the lookup tests: a constant
// "foo" whose y component reads its z component, and dotted attribute
// names below "zzz" and "bar".
func attributeNode(t *testing.T) (*Graph, Handle) {
	t.Helper()
	g := NewGraph()
	n := g.NewNode("node", "", 1, nil)
	mustAttr(t)(g.AddConstant(n, "foo", "float3", "vector3(1.0f, 2.0f, 3.0f)"))
	must(t, g.Connect(Path{Entity: n, Member: "foo.y"}, Path{Entity: n, Member: "foo.z"}))
	for _, name := range []string{"zzz.bar", "bar.1.x", "bar.3.x", "bar.4.x"} {
		mustAttr(t)(g.AddAttribute(n, name, "float", FlagInput, 1))
	}
	return g, n
}

func TestFindAttribute(t *testing.T) {
	g, n := attributeNode(t)
	foo := g.FindAttribute(n, "foo", FindTyped)

	tests := []struct {
		path string
		mode FindMode
		want Path
	}{
		{"foo", FindTyped, Path{Entity: foo.Entity}},
		{"foo.x", FindTyped, Path{Entity: foo.Entity, Member: ".x"}},
		{".foo.xy", FindTyped, Path{Entity: foo.Entity, Member: ".xy"}},
		{"foo.w", FindTyped, NullPath},
		{"foobar", FindTyped, NullPath},
		{"fo", FindTyped, NullPath},
		{"zzz", FindTyped, NullPath},
		{"zzz", FindUntyped, Path{Entity: n, Member: ".zzz"}},
		{"qqq.x", FindPartial, Path{Entity: n, Member: ".qqq.x"}},
		{"", FindUntyped, Path{Entity: n}},
		{"", FindTyped, NullPath},
	}
	for _, tt := range tests {
		got := g.FindAttribute(n, tt.path, tt.mode)
		if got != tt.want {
			t.Errorf("FindAttribute(%q, %d) = %+v, want %+v", tt.path, tt.mode, got, tt.want)
		}
	}
	if foo.IsNull() {
		t.Fatal("foo not found")
	}
}

func TestHasAttribute(t *testing.T) {
	g, n := attributeNode(t)
	if !g.HasAttribute(n, "zzz") {
		t.Error("HasAttribute(zzz) = false, want true")
	}
	if g.HasTypedAttribute(n, "zzz") {
		t.Error("HasTypedAttribute(zzz) = true, want false")
	}
	if !g.HasTypedAttribute(n, "zzz.bar") {
		t.Error("HasTypedAttribute(zzz.bar) = false, want true")
	}
}

func TestPathElements(t *testing.T) {
	g, n := attributeNode(t)

	members := func(path string) []string {
		var out []string
		for p := range g.PathElements(n, path) {
			out = append(out, p.Member)
		}
		return out
	}
	if diff := cmp.Diff([]string{".zzz.bar"}, members("zzz")); diff != "" {
		t.Errorf("PathElements(zzz) (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{".bar.1", ".bar.3", ".bar.4"}, members("bar")); diff != "" {
		t.Errorf("PathElements(bar) (-want +got):\n%s", diff)
	}
	if got := members("nothing"); got != nil {
		t.Errorf("PathElements(nothing) = %v, want none", got)
	}

	// stop early
	var first []Path
	for p := range g.PathElements(n, "bar") {
		first = append(first, p)
		break
	}
	if len(first) != 1 {
		t.Errorf("early break yielded %d paths", len(first))
	}
}

func TestTypeOf(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("n", "", 1, nil)
	mustAttr(t)(g.AddInput(n, "v", "float3"))
	mustAttr(t)(g.AddInput(n, "m", "float4x4"))
	mustAttr(t)(g.AddInput(n, "a", "float[5]"))

	tests := []struct {
		path, want string
	}{
		{"v", "float3"},
		{"v.x", "float"},
		{"v.xy", "float2"},
		{"v.zyx", "float3"},
		{"m.y", "float4"},
		{"a[2]", "float"},
	}
	for _, tt := range tests {
		got, err := g.TypeOf(n, tt.path)
		if err != nil {
			t.Errorf("TypeOf(%q) error: %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("TypeOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	for _, path := range []string{"v.w", "m.xy", "missing"} {
		if _, err := g.TypeOf(n, path); !IsPathNotFound(err) {
			t.Errorf("TypeOf(%q) error = %v, want PathNotFound", path, err)
		}
	}
}

func TestAttributeNode_Lookups(t *testing.T) {
	g, n := attributeNode(t)

	if _, err := g.AddAttribute(n, "foo", "float", 0, 1); !IsNameCollision(err) {
		t.Errorf("AddAttribute(foo) error = %v, want NameCollision", err)
	}

	for path, want := range map[string]string{
		"foo":   "vector3(1.0f, 2.0f, 3.0f)",
		"foo.x": "1.0f",
		"foo.y": "2.0f",
		"foo.z": "3.0f",
	} {
		got, err := g.InitializerOf(n, path)
		if err != nil || got != want {
			t.Errorf("InitializerOf(%q) = %q, %v, want %q", path, got, err, want)
		}
	}

	tests := []struct {
		path      string
		component bool
		want      bool
	}{
		{"foo", true, true},
		{"foo", false, false},
		{"foo.x", false, false},
		{"foo.y", false, true},
		{"foo.z", false, false},
		{"zzz.bar", true, false},
	}
	for _, tt := range tests {
		got, err := g.IsConnected(n, tt.path, tt.component)
		if err != nil {
			t.Errorf("IsConnected(%q) error: %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("IsConnected(%q, %v) = %v, want %v", tt.path, tt.component, got, tt.want)
		}
	}
}

func TestAttributes(t *testing.T) {
	g, n := attributeNode(t)
	var names []string
	for _, h := range g.Attributes(n, "bar", FlagInput) {
		names = append(names, g.EntityPath(h, 1))
	}
	want := []string{".bar.1.x", ".bar.3.x", ".bar.4.x"}
	if !slices.Equal(names, want) {
		t.Errorf("Attributes(bar) = %v, want %v", names, want)
	}
	if got := g.Attributes(n, "", FlagConstant); len(got) != 1 || g.Name(got[0]) != "foo" {
		t.Errorf("Attributes(constant) = %v, want [foo]", got)
	}
}

// siblingNode has keys that sort between an attribute and its components,
// since '.' < '0' < 'A' < '['.
func siblingNode(t *testing.T) (*Graph, Handle) {
	t.Helper()
	g := NewGraph()
	n := g.NewNode("n", "", 1, nil)
	for _, a := range []struct{ name, typ string }{
		{"foo", "float[4]"},
		{"foo0", "float"},
		{"fooA", "float"},
		{"bar.x", "float"},
		{"bar0", "float"},
		{"bar[1]", "float"},
		{"baz0", "float"},
		{"baz[1]", "float"},
	} {
		mustAttr(t)(g.AddAttribute(n, a.name, a.typ, FlagInput, 1))
	}
	return g, n
}

func TestFindAttribute_SiblingsBetweenComponents(t *testing.T) {
	g, n := siblingNode(t)
	foo := g.FindAttribute(n, "foo", FindTyped).Entity

	if got, want := g.FindAttribute(n, "foo[1]", FindTyped), (Path{Entity: foo, Member: "[1]"}); got != want {
		t.Errorf("FindAttribute(foo[1]) = %+v, want %+v", got, want)
	}
	if typ, err := g.TypeOf(n, "foo[1]"); err != nil || typ != "float" {
		t.Errorf("TypeOf(foo[1]) = %q, %v, want float", typ, err)
	}
	if _, err := g.AddAttribute(n, "foo[2]", "float", 0, 1); !IsTypeMismatch(err) {
		t.Errorf("AddAttribute(foo[2]) error = %v, want TypeMismatch", err)
	}

	if !g.HasAttribute(n, "baz") {
		t.Error("HasAttribute(baz) = false, want true")
	}
	if _, err := g.AddAttribute(n, "baz", "float", 0, 1); !IsNameCollision(err) {
		t.Errorf("AddAttribute(baz) error = %v, want NameCollision", err)
	}
}

func TestAttributes_SkipsSiblingNames(t *testing.T) {
	g, n := siblingNode(t)
	want := []Handle{
		g.FindAttribute(n, "bar.x", FindTyped).Entity,
		g.FindAttribute(n, "bar[1]", FindTyped).Entity,
	}
	if got := g.Attributes(n, "bar", 0); !slices.Equal(got, want) {
		t.Errorf("Attributes(bar) = %v, want %v", got, want)
	}

	var elements []string
	for p := range g.PathElements(n, "bar") {
		elements = append(elements, p.Member)
	}
	if want := []string{".bar.x", ".bar[1]"}; !slices.Equal(elements, want) {
		t.Errorf("PathElements(bar) = %v, want %v", elements, want)
	}
}
