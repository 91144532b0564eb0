// Package timeoutq provides a non-blocking queue of payloads that become
// retrievable once their timeout has elapsed.
//
// The queue is a building block for event-driven schedulers that need many
// independent per-item expirations without one timer per item: a min-heap
// keyed by absolute deadline plus at most one outstanding wake-up
// registration pointed at the earliest pending deadline.
package timeoutq

import (
	"time"

	"timeoutq/waker"
)

// Queue holds items until their timeout expires. It must be owned by a
// single goroutine at a time and never blocks; Pop returns nothing rather
// than wait.
//
// The wake-up registration is a scheduling hint only. Pop and FilterPop
// always check real elapsed time against the clock, so a missing, stale or
// misbehaving waker degrades re-poll latency, never correctness.
type Queue[T any] struct {
	entries deadlineHeap[T]

	clock Clock

	// wake-up capability; nil when the owner runs without a reactor.
	waker   waker.Waker
	pending waker.Handle
}

// FuncOption configures a Queue.
type FuncOption[T any] func(*Queue[T])

// WithClock replaces the system clock.
func WithClock[T any](c Clock) FuncOption[T] {
	return func(q *Queue[T]) {
		q.clock = c
	}
}

// WithWaker sets the wake-up capability used to hint the owning task when
// the next item comes due.
func WithWaker[T any](w waker.Waker) FuncOption[T] {
	return func(q *Queue[T]) {
		q.waker = w
	}
}

// New makes an empty Queue.
func New[T any](options ...FuncOption[T]) *Queue[T] {
	q := &Queue[T]{
		clock: systemClock{},
	}
	for _, option := range options {
		option(q)
	}
	return q
}

// Push enqueues payload to be retrievable once timeout has elapsed. A zero
// or negative timeout makes the item due immediately. Push always succeeds.
func (q *Queue[T]) Push(payload T, timeout time.Duration) {
	deadline := q.clock.Now().Add(timeout)

	// A new earliest deadline makes the outstanding registration stale;
	// drop it so syncWakeup re-registers from the true minimum.
	if min, ok := q.entries.peekMin(); ok && deadline.Before(min.deadline) {
		q.pending = nil
	}

	q.entries.insert(entry[T]{deadline: deadline, payload: payload})
	q.syncWakeup()
}

// Pop removes and returns the earliest-expiring item whose deadline has
// passed. It reports false if the queue is empty or nothing is due yet.
func (q *Queue[T]) Pop() (T, bool) {
	return q.FilterPop(func(T) bool { return true })
}

// FilterPop is a variant of Pop that screens items at the front of the
// deadline order. Each minimum in turn is handed to filter: rejected
// payloads are discarded for good, whether or not they are due. The scan
// stops at the first accepted item, which is returned if due and reinserted
// otherwise. Items behind the first accepted one are left untouched.
//
// This makes bulk invalidation cheap: purging items that became irrelevant
// before their deadline costs time proportional to the irrelevant prefix,
// not to the queue size.
func (q *Queue[T]) FilterPop(filter func(T) bool) (T, bool) {
	defer q.syncWakeup()

	now := q.clock.Now()
	for {
		e, ok := q.entries.extractMin()
		if !ok {
			break
		}
		if !filter(e.payload) {
			continue
		}
		if e.deadline.After(now) {
			q.entries.reinsert(e)
			break
		}
		return e.payload, true
	}

	var zero T
	return zero, false
}

// Len returns the number of items held in the queue, due or not.
func (q *Queue[T]) Len() int {
	return q.entries.Len()
}

// IsEmpty reports whether the queue holds no items.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// syncWakeup reconciles the wake-up registration with the current minimum.
// It runs at the end of every mutating operation, never blocks and never
// changes queue contents.
func (q *Queue[T]) syncWakeup() {
	if q.waker == nil {
		return
	}
	if q.pending != nil && !q.pending.Fired() {
		// Still live. It may target a stale, earlier minimum; that only
		// wakes the owner early, which the due-time checks absorb.
		return
	}

	min, ok := q.entries.peekMin()
	if !ok {
		q.pending = nil
		return
	}
	remaining := min.deadline.Sub(q.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	q.pending = q.waker.Register(remaining)
}
