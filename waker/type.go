// Package waker implements the wake-up capability consumed by timeoutq:
// registrations that fire once a duration has elapsed and can be polled
// without blocking.
package waker

import "time"

// Waker creates wake-up registrations against an external timing source.
type Waker interface {
	// Register arranges a wake-up after d. A zero or negative d fires
	// immediately.
	Register(d time.Duration) Handle
}

// Handle is a single outstanding wake-up registration.
type Handle interface {
	// Fired reports whether the registration has gone off. Never blocks.
	Fired() bool
}
