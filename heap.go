package timeoutq

import (
	"container/heap"
	"time"
)

// entry pairs a payload with the absolute instant after which it may be
// dequeued.
type entry[T any] struct {
	deadline time.Time
	payload  T
}

// deadlineHeap is a binary min-heap of entries keyed by deadline. Entries
// compare by deadline only; the relative order of entries with equal
// deadlines is unspecified.
type deadlineHeap[T any] struct {
	entries []entry[T]
}

func (h *deadlineHeap[T]) Len() int { return len(h.entries) }

func (h *deadlineHeap[T]) Less(i, j int) bool {
	return h.entries[i].deadline.Before(h.entries[j].deadline)
}

func (h *deadlineHeap[T]) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *deadlineHeap[T]) Push(x any) {
	h.entries = append(h.entries, x.(entry[T]))
}

func (h *deadlineHeap[T]) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = entry[T]{} // release the payload reference
	h.entries = old[:n-1]
	return e
}

// insert adds e to the heap. The deadline may already be in the past.
func (h *deadlineHeap[T]) insert(e entry[T]) {
	heap.Push(h, e)
}

// reinsert re-adds a previously extracted entry.
func (h *deadlineHeap[T]) reinsert(e entry[T]) {
	heap.Push(h, e)
}

// peekMin returns the entry with the smallest deadline without removing it.
func (h *deadlineHeap[T]) peekMin() (entry[T], bool) {
	if len(h.entries) == 0 {
		return entry[T]{}, false
	}
	return h.entries[0], true
}

// extractMin removes and returns the entry with the smallest deadline.
func (h *deadlineHeap[T]) extractMin() (entry[T], bool) {
	if len(h.entries) == 0 {
		return entry[T]{}, false
	}
	return heap.Pop(h).(entry[T]), true
}
