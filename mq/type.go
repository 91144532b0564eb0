package mq

import "context"

// Producer publishes due payloads to the delivery topic.
type Producer interface {
	// Publish writes value keyed by key.
	Publish(ctx context.Context, key, value []byte) error
}

// Consumer reads schedule requests until exit is closed.
type Consumer interface {
	// Consume invokes callback for every message received. A callback error
	// is logged; the message offset is committed either way.
	Consume(exit chan struct{}, callback func(key, value []byte) error)
}
