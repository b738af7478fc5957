// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

// Package render builds the formatted tree view of a parsed JSON value
// as a detached HTML subtree.
//
// Render is a pure function of the value: it never mutates its input
// and returns freshly constructed nodes. Each parsed value corresponds
// to exactly one render node, object members appear in parse order, and
// sibling entries are joined by exactly one separator between
// consecutive entries.
//
// Composite values whose child count exceeds the renderer's threshold
// are not built eagerly. Their render node instead carries a Lazy
// descriptor (child count plus a producer for index ranges) which the
// virt package drives to completion.
package render

import (
	"strings"

	"golang.org/x/net/html"

	jsonfmt "github.com/phoenix-abi/json-formatter-pro-sub002"
	"github.com/phoenix-abi/json-formatter-pro-sub002/ast"
	"github.com/phoenix-abi/json-formatter-pro-sub002/internal/domutil"
)

// Class markers on the rendered tree. These are a stable contract
// consumed by the toolbar, the accessibility binder, and the
// stylesheet; renaming them is a breaking change.
const (
	ClassEntry     = "entry"      // entry wrapper, one per value
	ClassExpander  = "e"          // expander control, one per composite entry
	ClassKey       = "k"          // object member key token
	ClassString    = "s"          // string token
	ClassNumber    = "n"          // number token
	ClassBool      = "bl"         // boolean token
	ClassNull      = "nl"         // null token
	ClassChildren  = "blockInner" // children group of a composite entry
	ClassComma     = "comma"      // separator between sibling entries
	ClassEllipsis  = "ell"        // truncation marker for abandoned windowing
	ClassCollapsed = "collapsed"  // visibility marker set by the collapse controller
)

// nbsp separates the key's colon from the value, as a non-breaking
// space so the preamble never wraps apart.
const nbsp = "\u00a0"

// A Node is the render-side counterpart of one parsed value: the entry
// element in the formatted tree, its position among its siblings, and
// the expand/collapse and materialization state layered on top.
type Node struct {
	Parent  *Node // enclosing composite, nil at the root
	Ordinal int   // position among siblings, 0-based

	// Collapsed reports the visibility state of a composite entry. It is
	// orthogonal to materialization: a node may be collapsed while its
	// children are still being produced.
	Collapsed bool

	Entry    *html.Node // the entry container element
	Expander *html.Node // the expander control; nil for leaf values
	Children *html.Node // the children group element; nil for leaf values

	// Kids holds the materialized child render nodes in parse order.
	// While Lazy is non-nil, Kids is a prefix of the full child list.
	Kids []*Node

	// Lazy describes children not yet materialized, or nil when the
	// entry is complete.
	Lazy *Lazy
}

// Composite reports whether n renders an object or array entry.
func (n *Node) Composite() bool { return n.Children != nil }

// ChildCount reports the total number of children of n, materialized
// or not.
func (n *Node) ChildCount() int {
	if n.Lazy != nil {
		return n.Lazy.Count
	}
	return len(n.Kids)
}

// A Lazy descriptor stands in for the unbuilt children of a large
// composite entry.
type Lazy struct {
	Count int // total number of children of the composite

	// Next is the index of the first child not yet materialized.
	// Children are always materialized in order, so [0, Next) are built
	// and [Next, Count) are pending.
	Next int

	// Produce yields rendered entries for the index range [lo, hi).
	// Produced entries are detached; the caller appends them to the
	// children group and to Kids, in order.
	Produce func(lo, hi int) []*Node
}

// A Renderer turns parsed values into formatted subtrees.
type Renderer struct {
	threshold int
}

// DefaultThreshold is the child count above which composite entries
// are rendered lazily.
const DefaultThreshold = 100

// New constructs a Renderer with the default virtualization threshold.
func New() *Renderer { return &Renderer{threshold: DefaultThreshold} }

// SetThreshold adjusts the child count above which composite entries
// are rendered lazily. A negative value disables lazy rendering.
func (r *Renderer) SetThreshold(n int) {
	if n < 0 {
		r.threshold = int(^uint(0) >> 1)
	} else {
		r.threshold = n
	}
}

// Render builds the formatted subtree for v and returns its root
// render node. The returned subtree is detached; the host decides
// where to insert it.
func (r *Renderer) Render(v ast.Value) *Node {
	return r.entry(nil, v, nil, 0, true)
}

// entry builds one entry: an optional key preamble followed by the
// rendered value, wrapped in the entry container. key is nil for array
// elements and the root. last reports whether this entry is the final
// sibling, which suppresses the trailing separator.
func (r *Renderer) entry(key *string, v ast.Value, parent *Node, ordinal int, last bool) *Node {
	n := &Node{Parent: parent, Ordinal: ordinal}
	n.Entry = domutil.Element("div")
	domutil.AddClass(n.Entry, ClassEntry)

	if composite(v) {
		n.Expander = domutil.Element("span")
		domutil.AddClass(n.Expander, ClassExpander)
		n.Entry.AppendChild(n.Expander)
	}

	if key != nil {
		k := domutil.Element("span")
		domutil.AddClass(k, ClassKey)
		k.AppendChild(domutil.Text(jsonfmt.Quote(*key)))
		n.Entry.AppendChild(k)
		n.Entry.AppendChild(domutil.Text(":" + nbsp))
	}

	switch t := v.(type) {
	case ast.Null:
		n.Entry.AppendChild(token(ClassNull, "null"))
	case ast.Bool:
		n.Entry.AppendChild(token(ClassBool, t.JSON()))
	case ast.Number:
		n.Entry.AppendChild(token(ClassNumber, formatNumber(t.Float64())))
	case ast.String:
		n.Entry.AppendChild(stringToken(t.Text()))
	case ast.Object:
		r.composite(n, "{", "}", len(t), func(i int, last bool) *Node {
			return r.entry(&t[i].Key, t[i].Value, n, i, last)
		})
	case ast.Array:
		r.composite(n, "[", "]", len(t), func(i int, last bool) *Node {
			return r.entry(nil, t[i], n, i, last)
		})
	default:
		// Cannot occur for validly parsed input; any other type reaching
		// the renderer is a programming error.
		panic("render: unrecognized value kind")
	}

	if !last {
		n.Entry.AppendChild(token(ClassComma, ","))
	}
	return n
}

// composite fills in the body of an object or array entry: the open
// delimiter, the children group, and the close delimiter. Children are
// built eagerly up to the renderer's threshold; beyond it the node gets
// a Lazy descriptor and an empty children group.
func (r *Renderer) composite(n *Node, open, clos string, count int, build func(i int, last bool) *Node) {
	n.Entry.AppendChild(domutil.Text(open))
	n.Children = domutil.Element("div")
	domutil.AddClass(n.Children, ClassChildren)
	n.Entry.AppendChild(n.Children)
	n.Entry.AppendChild(domutil.Text(clos))

	if count > r.threshold {
		n.Lazy = &Lazy{
			Count: count,
			Produce: func(lo, hi int) []*Node {
				kids := make([]*Node, 0, hi-lo)
				for i := lo; i < hi; i++ {
					kids = append(kids, build(i, i == count-1))
				}
				return kids
			},
		}
		return
	}

	for i := 0; i < count; i++ {
		kid := build(i, i == count-1)
		n.Children.AppendChild(kid.Entry)
		n.Kids = append(n.Kids, kid)
	}
}

// token builds a leaf token span with the given class marker and text.
func token(class, text string) *html.Node {
	s := domutil.Element("span")
	domutil.AddClass(s, class)
	s.AppendChild(domutil.Text(text))
	return s
}

// stringToken builds the token for a string value: the quoted escaped
// display form, wrapped in a hyperlink when the unescaped value looks
// like a URL.
func stringToken(text string) *html.Node {
	s := domutil.Element("span")
	domutil.AddClass(s, ClassString)
	quoted := jsonfmt.Quote(text)
	if looksLikeURL(text) {
		a := domutil.Element("a")
		domutil.SetAttr(a, "href", text)
		a.AppendChild(domutil.Text(quoted))
		s.AppendChild(a)
	} else {
		s.AppendChild(domutil.Text(quoted))
	}
	return s
}

// looksLikeURL reports whether the unescaped string value should be
// presented as a hyperlink.
func looksLikeURL(text string) bool {
	return strings.HasPrefix(text, "http://") ||
		strings.HasPrefix(text, "https://") ||
		strings.HasPrefix(text, "/")
}

func composite(v ast.Value) bool {
	switch v.(type) {
	case ast.Object, ast.Array:
		return true
	}
	return false
}
