package store

import (
	"context"
	"time"
)

// Sender delivers an action back into a store.
type Sender[A any] func(A)

type opKind int

const (
	opSend opKind = iota
	opRun
	opCancel
)

type op[A any] struct {
	kind   opKind
	action A
	run    func(ctx context.Context, send Sender[A])
	// id is the cancellation id of a run op or the target of a cancel op.
	id string
	// shared runs join their id without cancelling runs already under it.
	shared bool
}

// Effect is work a reducer asks the store to perform after a state change.
// The zero value does nothing.
type Effect[A any] struct {
	ops []op[A]
}

// None is the empty effect.
func None[A any]() Effect[A] { return Effect[A]{} }

// Send feeds a into the store right after the current action, before any
// action that arrives later.
func Send[A any](a A) Effect[A] {
	return Effect[A]{ops: []op[A]{{kind: opSend, action: a}}}
}

// Run starts fn on its own goroutine. fn reports results through send;
// sends made after ctx is done are dropped.
func Run[A any](fn func(ctx context.Context, send Sender[A])) Effect[A] {
	return Effect[A]{ops: []op[A]{{kind: opRun, run: fn}}}
}

// Cancel stops every in-flight run tagged with id.
func Cancel[A any](id string) Effect[A] {
	return Effect[A]{ops: []op[A]{{kind: opCancel, id: id}}}
}

// Merge concatenates effects, preserving order.
func Merge[A any](effects ...Effect[A]) Effect[A] {
	var out Effect[A]
	for _, e := range effects {
		out.ops = append(out.ops, e.ops...)
	}
	return out
}

// Cancellable tags every run in e with id. Starting a tagged run cancels
// the runs already in flight under the same id.
func (e Effect[A]) Cancellable(id string) Effect[A] {
	out := Effect[A]{ops: make([]op[A], len(e.ops))}
	for i, o := range e.ops {
		if o.kind == opRun {
			o.id = id
			o.shared = false
		}
		out.ops[i] = o
	}
	return out
}

// Grouped tags the untagged runs in e with id so a later Cancel(id) stops
// them. Unlike Cancellable, starting a grouped run leaves the runs already
// in the group alone.
func (e Effect[A]) Grouped(id string) Effect[A] {
	out := Effect[A]{ops: make([]op[A], len(e.ops))}
	for i, o := range e.ops {
		if o.kind == opRun && o.id == "" {
			o.id = id
			o.shared = true
		}
		out.ops[i] = o
	}
	return out
}

// IsNone reports whether e does nothing.
func (e Effect[A]) IsNone() bool { return len(e.ops) == 0 }

// Actions returns the synchronous actions of e in order. Intended for tests
// that drive a reducer without a store.
func (e Effect[A]) Actions() []A {
	var out []A
	for _, o := range e.ops {
		if o.kind == opSend {
			out = append(out, o.action)
		}
	}
	return out
}

// Runs returns the number of asynchronous operations in e.
func (e Effect[A]) Runs() int {
	n := 0
	for _, o := range e.ops {
		if o.kind == opRun {
			n++
		}
	}
	return n
}

// Map lifts a child effect into a parent action space.
func Map[A, B any](e Effect[A], f func(A) B) Effect[B] {
	out := Effect[B]{ops: make([]op[B], 0, len(e.ops))}
	for _, o := range e.ops {
		switch o.kind {
		case opSend:
			out.ops = append(out.ops, op[B]{kind: opSend, action: f(o.action)})
		case opCancel:
			out.ops = append(out.ops, op[B]{kind: opCancel, id: o.id})
		case opRun:
			run := o.run
			out.ops = append(out.ops, op[B]{
				kind:   opRun,
				id:     o.id,
				shared: o.shared,
				run: func(ctx context.Context, send Sender[B]) {
					run(ctx, func(a A) { send(f(a)) })
				},
			})
		}
	}
	return out
}

// Debounce delays fn by d on clock. Arming the same id again restarts the
// delay, so only the last armed fn in a burst runs.
func Debounce[A any](id string, clock Clock, d time.Duration, fn func(ctx context.Context, send Sender[A])) Effect[A] {
	return Run(func(ctx context.Context, send Sender[A]) {
		if err := clock.Sleep(ctx, d); err != nil {
			return
		}
		if ctx.Err() != nil {
			return
		}
		fn(ctx, send)
	}).Cancellable(id)
}
