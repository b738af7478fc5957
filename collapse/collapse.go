// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

// Package collapse implements the per-node expand/collapse state
// machine of the formatted tree.
//
// Every composite entry starts expanded. Activating its expander, by
// pointer or by Enter/Space while the expander holds focus, flips a
// visibility marker on the entry container. Children stay materialized
// while hidden, and in-flight virtualization of descendants is never
// cancelled by collapsing; re-expanding simply reveals whatever the
// windowing has produced so far and whatever it produces later.
package collapse

import (
	"github.com/phoenix-abi/json-formatter-pro-sub002/internal/domutil"
	"github.com/phoenix-abi/json-formatter-pro-sub002/render"
)

// Key names recognized as keyboard activation of an expander.
const (
	KeyEnter = "Enter"
	KeySpace = " "
)

// An Activation describes one user gesture on an expander control.
type Activation struct {
	Pointer bool   // pointer click
	Key     string // key name, when not a pointer gesture
}

// Pointer is the activation for a pointer click.
func Pointer() Activation { return Activation{Pointer: true} }

// KeyPress is the activation for a key press while the expander holds
// focus.
func KeyPress(key string) Activation { return Activation{Key: key} }

// A Controller applies expand/collapse transitions to render nodes.
type Controller struct{}

// NewController constructs a Controller.
func NewController() *Controller { return &Controller{} }

// Activate applies act to n's expander and reports whether it caused a
// transition. Pointer clicks and Enter/Space key presses toggle; every
// other gesture is ignored, as is any activation on a leaf entry.
func (c *Controller) Activate(n *render.Node, act Activation) bool {
	if !n.Composite() {
		return false
	}
	if !act.Pointer && act.Key != KeyEnter && act.Key != KeySpace {
		return false
	}
	c.Toggle(n)
	return true
}

// Toggle flips the visibility state of a composite entry: the
// collapsed class marker on the entry container, and the expansion
// state attribute consumed by the accessibility collaborator. Toggling
// twice restores the original state exactly. Leaf entries are left
// untouched.
func (c *Controller) Toggle(n *render.Node) {
	if !n.Composite() {
		return
	}
	n.Collapsed = !n.Collapsed
	if n.Collapsed {
		domutil.AddClass(n.Entry, render.ClassCollapsed)
		domutil.SetAttr(n.Entry, "aria-expanded", "false")
	} else {
		domutil.RemoveClass(n.Entry, render.ClassCollapsed)
		domutil.SetAttr(n.Entry, "aria-expanded", "true")
	}
}

// Expanded reports whether n is currently expanded. Leaf entries are
// always expanded.
func Expanded(n *render.Node) bool { return !n.Collapsed }
