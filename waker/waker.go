package waker

import (
	"time"

	"go.uber.org/atomic"
)

type handle struct {
	fired *atomic.Bool
}

func (h *handle) Fired() bool { return h.fired.Load() }

type timerWaker struct{}

// NewTimer returns a Waker backed by the runtime timer heap.
func NewTimer() Waker { return timerWaker{} }

func (timerWaker) Register(d time.Duration) Handle {
	h := &handle{fired: atomic.NewBool(false)}
	time.AfterFunc(d, func() {
		h.fired.Store(true)
	})
	return h
}

type notifyWaker struct {
	c chan<- struct{}
}

// NewNotify returns a Waker that, besides flipping the handle, performs a
// non-blocking send on c whenever a registration fires. An owning loop can
// select on c to learn that the earliest deadline may have passed.
//
// Registrations replaced before firing are not stopped; their late signals
// are spurious wake-ups the receiver must tolerate.
func NewNotify(c chan<- struct{}) Waker { return &notifyWaker{c: c} }

func (n *notifyWaker) Register(d time.Duration) Handle {
	h := &handle{fired: atomic.NewBool(false)}
	time.AfterFunc(d, func() {
		h.fired.Store(true)
		select {
		case n.c <- struct{}{}:
		default:
		}
	})
	return h
}
