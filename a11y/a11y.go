// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

// Package a11y is the accessibility binder for the formatted tree: a
// post-render pass that assigns roles, focusability, and labels over
// the renderer's stable class markers.
package a11y

import (
	"golang.org/x/net/html"

	"github.com/phoenix-abi/json-formatter-pro-sub002/internal/domutil"
	"github.com/phoenix-abi/json-formatter-pro-sub002/render"
)

// ExpanderLabel is the descriptive label assigned to every expander
// control.
const ExpanderLabel = "toggle expansion"

// Bind walks the rendered subtree under root and assigns accessibility
// attributes: every expander becomes a focusable button with a
// descriptive label, every entry a tree item (composites also carry
// their expansion state), and every children group a group. The root
// element itself becomes the tree.
//
// Bind is idempotent; running it again after more entries have been
// materialized only fills in the newcomers' attributes.
func Bind(root *html.Node) {
	domutil.SetAttr(root, "role", "tree")
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case domutil.HasClass(n, render.ClassExpander):
				domutil.SetAttr(n, "tabindex", "0")
				domutil.SetAttr(n, "role", "button")
				domutil.SetAttr(n, "aria-label", ExpanderLabel)
			case domutil.HasClass(n, render.ClassEntry):
				domutil.SetAttr(n, "role", "treeitem")
				if hasExpander(n) {
					if _, ok := domutil.Attr(n, "aria-expanded"); !ok {
						domutil.SetAttr(n, "aria-expanded", "true")
					}
				}
			case domutil.HasClass(n, render.ClassChildren):
				domutil.SetAttr(n, "role", "group")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
}

// hasExpander reports whether entry has an expander control among its
// direct children, marking it as a composite entry.
func hasExpander(entry *html.Node) bool {
	for c := entry.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && domutil.HasClass(c, render.ClassExpander) {
			return true
		}
	}
	return false
}
