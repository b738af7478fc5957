// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

// Package virt bounds the synchronous cost of rendering large JSON
// payloads.
//
// The renderer leaves the children of oversized composites unbuilt,
// recording a count and a producer on the render node. The Virtualizer
// drives those descriptors: it materializes a fixed initial window
// synchronously and completes the rest in batches, one batch per turn
// of the host's cooperative scheduling loop, so input and paint are
// never starved regardless of payload size.
//
// Every child is eventually reachable: batches complete in parse
// order, and EnsureVisible materializes on demand up to any index. A
// scheduled batch whose container has been removed from its document
// stops silently; that is the only cancellation signal.
package virt

import (
	"golang.org/x/net/html"

	"github.com/phoenix-abi/json-formatter-pro-sub002/internal/domutil"
	"github.com/phoenix-abi/json-formatter-pro-sub002/render"
)

// Windowing defaults. The window bounds synchronous work on first
// render; the batch size bounds work per loop turn. Both are policy
// knobs, not hard laws.
const (
	DefaultWindow = 100
	DefaultBatch  = 250
)

// A Virtualizer materializes the lazy children of render nodes in
// bounded increments on a host loop.
type Virtualizer struct {
	loop   *Loop
	window int
	batch  int

	// Truncation markers appended after a refused continuation, by
	// node, so a later on-demand fill can remove them again.
	marks map[*render.Node]*html.Node
}

// New constructs a Virtualizer scheduling on loop.
func New(loop *Loop) *Virtualizer {
	return &Virtualizer{
		loop:   loop,
		window: DefaultWindow,
		batch:  DefaultBatch,
		marks:  make(map[*render.Node]*html.Node),
	}
}

// SetWindow adjusts the number of entries materialized synchronously
// when a lazy composite is first encountered.
func (v *Virtualizer) SetWindow(n int) {
	if n > 0 {
		v.window = n
	}
}

// SetBatch adjusts the number of entries materialized per loop turn.
func (v *Virtualizer) SetBatch(n int) {
	if n > 0 {
		v.batch = n
	}
}

// Start walks the subtree rooted at n, materializes the initial window
// of every lazy composite it finds, and schedules continuations for
// the remainder. Newly produced entries are walked the same way, so
// nested oversized composites are picked up as they appear.
func (v *Virtualizer) Start(n *render.Node) {
	v.walk(n)
}

func (v *Virtualizer) walk(n *render.Node) {
	if n.Lazy != nil {
		v.fill(n, min(v.window, n.Lazy.Count))
		if n.Lazy != nil {
			v.schedule(n)
		}
		return
	}
	for _, kid := range n.Kids {
		v.walk(kid)
	}
}

// fill materializes children of n up to index hi (exclusive), in
// order, and clears the descriptor once all children exist. Produced
// entries are walked for nested lazy composites.
func (v *Virtualizer) fill(n *render.Node, hi int) {
	lz := n.Lazy
	if lz == nil || hi <= lz.Next {
		return
	}
	if hi > lz.Count {
		hi = lz.Count
	}

	// An earlier refused continuation may have left a truncation
	// marker; producing past it would break sibling order.
	if mark := v.marks[n]; mark != nil {
		n.Children.RemoveChild(mark)
		delete(v.marks, n)
	}

	kids := lz.Produce(lz.Next, hi)
	for _, kid := range kids {
		n.Children.AppendChild(kid.Entry)
		n.Kids = append(n.Kids, kid)
	}
	lz.Next = hi
	if lz.Next == lz.Count {
		n.Lazy = nil
	}

	for _, kid := range kids {
		v.walk(kid)
	}
}

// schedule posts the next batch continuation for n. If the loop
// refuses the task, the remaining children cannot be delivered by
// scheduling alone; a visible truncation marker records that rather
// than letting the tail disappear.
func (v *Virtualizer) schedule(n *render.Node) {
	ok := v.loop.Post(func() { v.step(n) })
	if !ok {
		v.truncate(n)
	}
}

// step is one scheduled continuation: it checks liveness, fills one
// batch, and reschedules while children remain.
func (v *Virtualizer) step(n *render.Node) {
	if n.Lazy == nil {
		return // completed on demand in the meantime
	}
	if !domutil.Attached(n.Entry) {
		return // host container removed; stop silently
	}
	v.fill(n, n.Lazy.Next+v.batch)
	if n.Lazy != nil {
		v.schedule(n)
	}
}

// EnsureVisible materializes the children of n, in order, up to and
// including index. It is the hook for viewport-driven materialization:
// when an entry scrolls into a visible range before its batch has
// run, the host asks for it directly.
func (v *Virtualizer) EnsureVisible(n *render.Node, index int) {
	if n.Lazy == nil {
		return
	}
	v.fill(n, index+1)
}

func (v *Virtualizer) truncate(n *render.Node) {
	if v.marks[n] != nil {
		return
	}
	mark := domutil.Element("span")
	domutil.AddClass(mark, render.ClassEllipsis)
	mark.AppendChild(domutil.Text("…"))
	n.Children.AppendChild(mark)
	v.marks[n] = mark
}
