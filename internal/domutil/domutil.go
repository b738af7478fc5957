// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

// Package domutil provides small helpers over golang.org/x/net/html
// nodes: element construction, class and attribute manipulation, text
// extraction, and the attachment and visibility checks shared by the
// detector and the virtualizer.
package domutil

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element constructs a detached element node with the given tag name.
func Element(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Lookup([]byte(tag)),
		Data:     tag,
	}
}

// Text constructs a detached text node with the given contents.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Attr reports the value of the named attribute of n, and whether the
// attribute is present at all.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute of n, replacing any existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// classList reports the class attribute of n split on whitespace.
func classList(n *html.Node) []string {
	c, _ := Attr(n, "class")
	return strings.Fields(c)
}

// HasClass reports whether n carries the given class marker.
func HasClass(n *html.Node, class string) bool {
	for _, c := range classList(n) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds a class marker to n if not already present.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	cs := append(classList(n), class)
	SetAttr(n, "class", strings.Join(cs, " "))
}

// RemoveClass removes a class marker from n if present.
func RemoveClass(n *html.Node, class string) {
	cs := classList(n)
	out := cs[:0]
	for _, c := range cs {
		if c != class {
			out = append(out, c)
		}
	}
	SetAttr(n, "class", strings.Join(out, " "))
}

// TextContent reports the concatenated text of all text nodes in the
// subtree rooted at n, in document order.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// Find returns the first HTML-namespace element with the given tag
// name in the subtree rooted at n, or nil. Foreign content (svg, math)
// reuses HTML tag names, a <title> inside an svg for one, and never
// counts as a match.
func Find(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Namespace == "" && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := Find(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// Attached reports whether n is connected to a document, that is,
// whether walking parent links from n reaches a DocumentNode. A node
// whose subtree has been removed from its document is detached, and
// scheduled work targeting it must stop.
func Attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.DocumentNode {
			return true
		}
	}
	return false
}

// Rendered reports whether n would be rendered by the host: neither n
// nor any ancestor element carries the hidden attribute or an inline
// style containing display:none or visibility:hidden.
func Rendered(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if _, ok := Attr(p, "hidden"); ok {
			return false
		}
		if style, ok := Attr(p, "style"); ok {
			s := strings.ReplaceAll(strings.ToLower(style), " ", "")
			if strings.Contains(s, "display:none") || strings.Contains(s, "visibility:hidden") {
				return false
			}
		}
	}
	return true
}
