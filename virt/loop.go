// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

package virt

// A Loop is a single-goroutine cooperative task queue: the host's
// scheduling loop. Tasks posted to the loop run one per turn, in post
// order, when the host calls RunOne or RunUntilIdle. Nothing here is
// safe for concurrent use; the whole pipeline is single-threaded by
// contract.
type Loop struct {
	q       []func()
	stopped bool
}

// NewLoop constructs an empty, running Loop.
func NewLoop() *Loop { return &Loop{} }

// Post appends task to the queue and reports whether it was accepted.
// A stopped loop refuses all tasks.
func (l *Loop) Post(task func()) bool {
	if l.stopped {
		return false
	}
	l.q = append(l.q, task)
	return true
}

// RunOne runs the next pending task, reporting whether one ran. This
// is one turn of the host loop: input and paint happen between calls.
func (l *Loop) RunOne() bool {
	if len(l.q) == 0 {
		return false
	}
	task := l.q[0]
	l.q = l.q[1:]
	task()
	return true
}

// RunUntilIdle runs tasks, including tasks posted while draining,
// until the queue is empty. It reports the number of tasks run.
func (l *Loop) RunUntilIdle() int {
	var n int
	for l.RunOne() {
		n++
	}
	return n
}

// Pending reports the number of queued tasks.
func (l *Loop) Pending() int { return len(l.q) }

// Stop makes the loop refuse further tasks and discards the queue.
func (l *Loop) Stop() {
	l.stopped = true
	l.q = nil
}
