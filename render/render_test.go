// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/phoenix-abi/json-formatter-pro-sub002/ast"
	"github.com/phoenix-abi/json-formatter-pro-sub002/internal/domutil"
	"github.com/phoenix-abi/json-formatter-pro-sub002/render"
)

func mustRender(t *testing.T, src string) *render.Node {
	t.Helper()
	v, err := ast.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString %#q: unexpected error: %v", src, err)
	}
	return render.New().Render(v)
}

// findAll returns all elements in the subtree of n carrying the given
// class marker, in document order.
func findAll(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && domutil.HasClass(n, class) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func texts(ns []*html.Node) []string {
	var out []string
	for _, n := range ns {
		out = append(out, domutil.TextContent(n))
	}
	return out
}

func TestLeafTokens(t *testing.T) {
	tests := []struct {
		input string
		class string
		want  string
	}{
		{`null`, render.ClassNull, "null"},
		{`true`, render.ClassBool, "true"},
		{`false`, render.ClassBool, "false"},
		{`25`, render.ClassNumber, "25"},
		{`-0.5`, render.ClassNumber, "-0.5"},
		{`1e999`, render.ClassNumber, "Infinity"},
		{`-1e999`, render.ClassNumber, "-Infinity"},
		{`1e-999`, render.ClassNumber, "0"},
		{`"hello"`, render.ClassString, `"hello"`},
		{`""`, render.ClassString, `""`},
	}
	for _, tc := range tests {
		n := mustRender(t, tc.input)
		if n.Composite() {
			t.Errorf("Render %#q: unexpected composite node", tc.input)
		}
		if n.Expander != nil {
			t.Errorf("Render %#q: leaf entry has an expander", tc.input)
		}
		got := texts(findAll(n.Entry, tc.class))
		if diff := cmp.Diff([]string{tc.want}, got); diff != "" {
			t.Errorf("Render %#q: token (-want, +got):\n%s", tc.input, diff)
		}
	}
}

func TestStringEscaping(t *testing.T) {
	v := ast.NewString("tab\there \"quoted\"")
	n := render.New().Render(v)
	got := texts(findAll(n.Entry, render.ClassString))
	want := []string{`"tab\there \"quoted\""`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("String token (-want, +got):\n%s", diff)
	}
}

func TestObjectEntries(t *testing.T) {
	n := mustRender(t, `{"b":1,"a":2,"c":3}`)
	if !n.Composite() {
		t.Fatal("Render: root is not composite")
	}
	if n.Expander == nil {
		t.Error("Render: composite entry has no expander")
	}
	if n.Lazy != nil {
		t.Error("Render: small object rendered lazily")
	}

	// Keys keep their parse order, and are shown in quoted form.
	keys := texts(findAll(n.Entry, render.ClassKey))
	if diff := cmp.Diff([]string{`"b"`, `"a"`, `"c"`}, keys); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}

	// Three entries take exactly two separators, and the separator
	// never lands on the final sibling.
	commas := findAll(n.Children, render.ClassComma)
	if len(commas) != 2 {
		t.Errorf("Separators: got %d, want 2", len(commas))
	}
	lastKid := n.Kids[len(n.Kids)-1]
	if got := findAll(lastKid.Entry, render.ClassComma); len(got) != 0 {
		t.Errorf("Final sibling: got %d separators, want 0", len(got))
	}

	// Each child knows its position.
	for i, kid := range n.Kids {
		if kid.Ordinal != i {
			t.Errorf("Kid %d: ordinal %d", i, kid.Ordinal)
		}
		if kid.Parent != n {
			t.Errorf("Kid %d: wrong parent", i)
		}
	}
}

func TestEmptyComposites(t *testing.T) {
	for _, src := range []string{`{}`, `[]`} {
		n := mustRender(t, src)
		if !n.Composite() {
			t.Errorf("Render %#q: not composite", src)
		}
		if got := n.ChildCount(); got != 0 {
			t.Errorf("Render %#q: child count %d, want 0", src, got)
		}
		if got := findAll(n.Entry, render.ClassComma); len(got) != 0 {
			t.Errorf("Render %#q: got %d separators, want 0", src, len(got))
		}
		if n.Children.FirstChild != nil {
			t.Errorf("Render %#q: children group is not empty", src)
		}
	}
}

func TestKeyPreamble(t *testing.T) {
	n := mustRender(t, `{"k":"v"}`)
	kid := n.Kids[0]

	// The colon and its non-breaking space sit between the key span and
	// the value token.
	var sep string
	for c := kid.Entry.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && len(c.Data) > 0 && c.Data[0] == ':' {
			sep = c.Data
		}
	}
	if want := ":\u00a0"; sep != want {
		t.Errorf("Key separator: got %#q, want %#q", sep, want)
	}
}

func TestURLLinks(t *testing.T) {
	tests := []struct {
		input    string
		wantHref string // "" means no link
	}{
		{`"http://example.com/x"`, "http://example.com/x"},
		{`"https://example.com/"`, "https://example.com/"},
		{`"/relative/path"`, "/relative/path"},
		{`"ftp://example.com"`, ""},
		{`"example.com"`, ""},
		{`"just text"`, ""},
	}
	for _, tc := range tests {
		n := mustRender(t, tc.input)
		span := findAll(n.Entry, render.ClassString)[0]
		a := domutil.Find(span, "a")
		if tc.wantHref == "" {
			if a != nil {
				t.Errorf("Render %#q: unexpected hyperlink", tc.input)
			}
			continue
		}
		if a == nil {
			t.Errorf("Render %#q: no hyperlink", tc.input)
			continue
		}
		// The link target is the unescaped value; the visible text keeps
		// the quoted display form.
		if href, _ := domutil.Attr(a, "href"); href != tc.wantHref {
			t.Errorf("Render %#q: href %#q, want %#q", tc.input, href, tc.wantHref)
		}
		if got, want := domutil.TextContent(a), `"`+tc.wantHref+`"`; got != want {
			t.Errorf("Render %#q: link text %#q, want %#q", tc.input, got, want)
		}
	}
}

func TestNesting(t *testing.T) {
	n := mustRender(t, `{"outer":[{"inner":true}]}`)

	arr := n.Kids[0]
	if !arr.Composite() || arr.ChildCount() != 1 {
		t.Fatalf("Outer member: composite=%v count=%d", arr.Composite(), arr.ChildCount())
	}
	obj := arr.Kids[0]
	if !obj.Composite() || obj.ChildCount() != 1 {
		t.Fatalf("Array element: composite=%v count=%d", obj.Composite(), obj.ChildCount())
	}
	got := texts(findAll(obj.Entry, render.ClassBool))
	if diff := cmp.Diff([]string{"true"}, got); diff != "" {
		t.Errorf("Inner value (-want, +got):\n%s", diff)
	}

	// One expander per composite entry, nowhere else.
	if got := len(findAll(n.Entry, render.ClassExpander)); got != 3 {
		t.Errorf("Expanders: got %d, want 3", got)
	}
}

func TestLazyThreshold(t *testing.T) {
	big := make(ast.Array, 0, 150)
	for i := 0; i < 150; i++ {
		big = append(big, ast.NewNumber("1"))
	}
	small := big[:100]

	r := render.New()

	// At the threshold, children build eagerly.
	n := r.Render(small)
	if n.Lazy != nil {
		t.Errorf("Render 100 elements: unexpected lazy descriptor")
	}
	if len(n.Kids) != 100 {
		t.Errorf("Render 100 elements: %d kids materialized", len(n.Kids))
	}

	// Above it, the node carries only a descriptor.
	n = r.Render(big)
	if n.Lazy == nil {
		t.Fatal("Render 150 elements: no lazy descriptor")
	}
	if n.Lazy.Count != 150 || n.Lazy.Next != 0 {
		t.Errorf("Lazy: count=%d next=%d, want 150, 0", n.Lazy.Count, n.Lazy.Next)
	}
	if len(n.Kids) != 0 || n.Children.FirstChild != nil {
		t.Error("Render 150 elements: children materialized eagerly")
	}
	if n.ChildCount() != 150 {
		t.Errorf("ChildCount: got %d, want 150", n.ChildCount())
	}

	// The producer yields correctly positioned entries, and only the
	// final element omits its separator.
	kids := n.Lazy.Produce(0, 2)
	if len(kids) != 2 {
		t.Fatalf("Produce(0, 2): got %d nodes", len(kids))
	}
	if kids[1].Ordinal != 1 {
		t.Errorf("Produced kid: ordinal %d, want 1", kids[1].Ordinal)
	}
	if got := findAll(kids[0].Entry, render.ClassComma); len(got) != 1 {
		t.Errorf("Produced kid 0: %d separators, want 1", len(got))
	}
	last := n.Lazy.Produce(149, 150)[0]
	if got := findAll(last.Entry, render.ClassComma); len(got) != 0 {
		t.Errorf("Produced kid 149: %d separators, want 0", len(got))
	}
}

func TestSetThreshold(t *testing.T) {
	arr := make(ast.Array, 20)
	for i := range arr {
		arr[i] = ast.Bool(true)
	}

	r := render.New()
	r.SetThreshold(10)
	if n := r.Render(arr); n.Lazy == nil {
		t.Error("Threshold 10: 20 elements rendered eagerly")
	}

	r.SetThreshold(-1)
	if n := r.Render(arr); n.Lazy != nil {
		t.Error("Threshold disabled: 20 elements rendered lazily")
	}
}

func BenchmarkRender(b *testing.B) {
	arr := make(ast.Array, 1000)
	for i := range arr {
		arr[i] = ast.Object{
			{Key: "id", Value: ast.NewNumber("12345")},
			{Key: "name", Value: ast.NewString("benchmark entry")},
			{Key: "url", Value: ast.NewString("https://example.com/item")},
			{Key: "ok", Value: ast.Bool(true)},
		}
	}
	r := render.New()
	r.SetThreshold(-1)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.Render(arr)
	}
}
