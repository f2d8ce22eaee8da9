package compose

import (
	"context"
	"reflect"
)

// effectHandle is the remembered state behind one LaunchedEffect call site:
// the keys it last launched with, and the cancel function for its running
// goroutine. It implements forgotten so leaving composition (the slot being
// trimmed) cancels the goroutine rather than leaking it.
type effectHandle struct {
	keys   []any
	cancel context.CancelFunc
}

func (h *effectHandle) onForgotten() {
	if h.cancel != nil {
		h.cancel()
	}
}

func keysEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// LaunchedEffect runs body on its own goroutine for as long as the call
// site's keys stay the same across recompositions: the first composition
// that reaches this call site launches it; a later recomposition with
// unchanged keys leaves it running untouched; one with changed keys cancels
// the old goroutine (via its context) and launches a fresh one; leaving
// composition entirely cancels it. body must select on ctx.Done() to
// honor cancellation promptly.
func (c *Composer) LaunchedEffect(keys []any, body func(ctx context.Context)) {
	slot := c.table.AllocValueSlot(func() any { return &effectHandle{} })
	h := slot.(*effectHandle)

	if h.cancel != nil && keysEqual(h.keys, keys) {
		return
	}
	if h.cancel != nil {
		h.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.keys = append([]any(nil), keys...)
	h.cancel = cancel
	go body(ctx)
}

// disposableHandle is the remembered state behind one DisposableEffect call
// site: the keys it last ran with and the cleanup it must run when those
// keys change or the call site leaves composition.
type disposableHandle struct {
	keys    []any
	cleanup func()
}

func (h *disposableHandle) onForgotten() {
	if h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// DisposableEffect runs setup synchronously the first time the call site's
// keys are seen (or whenever they change), and arranges for the cleanup
// function setup returns to run exactly once, either when the keys change
// again on a later recomposition or when the call site leaves composition
//. Unlike LaunchedEffect, setup runs on the composition thread itself
// and must not block.
func (c *Composer) DisposableEffect(keys []any, setup func() func()) {
	slot := c.table.AllocValueSlot(func() any { return &disposableHandle{} })
	h := slot.(*disposableHandle)

	if h.cleanup != nil && keysEqual(h.keys, keys) {
		return
	}
	if h.cleanup != nil {
		h.cleanup()
	}

	h.keys = append([]any(nil), keys...)
	h.cleanup = setup()
}
