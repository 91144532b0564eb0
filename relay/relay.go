// Package relay wires Kafka intake, the delay scheduler and Kafka delivery
// into a delayed-message relay: requests read from one topic are held until
// due, then their payloads are published to another topic keyed by job id.
package relay

import (
	"context"
	"encoding/json"
	"time"

	"timeoutq/mq"
	"timeoutq/scheduler"
	"timeoutq/workerpool"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// poolSize is the number of resident delivery workers.
const poolSize = 64

// Request is the JSON envelope read from the request topic.
type Request struct {
	// DelayMs is how long to hold the payload, in milliseconds.
	DelayMs int64 `json:"delay_ms"`

	Payload []byte `json:"payload"`
}

// Relay consumes schedule requests and republishes payloads once due.
type Relay struct {
	sched    *scheduler.Scheduler
	consumer mq.Consumer
	logger   *zap.Logger
}

// New builds a Relay reading requests from requests.Topic and delivering
// due payloads to delivery.Topic. It runs until exit is closed.
func New(exit chan struct{}, requests, delivery mq.Config, logger *zap.Logger,
	options ...scheduler.FuncOption) (*Relay, error) {
	producer, err := mq.NewProducer(delivery, logger)
	if err != nil {
		return nil, errors.Wrap(err, "new delivery producer")
	}

	consumer, err := mq.NewConsumer(requests, logger)
	if err != nil {
		return nil, errors.Wrap(err, "new request consumer")
	}

	handler := func(ctx context.Context, j scheduler.Job) error {
		return producer.Publish(ctx, []byte(j.Id), j.Payload)
	}

	workers := workerpool.NewPool(poolSize, logger)
	r := &Relay{
		sched:    scheduler.New(exit, handler, workers, logger, options...),
		consumer: consumer,
		logger:   logger,
	}
	go r.consume(exit)
	return r, nil
}

// consume feeds request envelopes into the scheduler.
func (r *Relay) consume(exit chan struct{}) {
	r.consumer.Consume(exit, func(key, value []byte) error {
		var req Request
		if err := json.Unmarshal(value, &req); err != nil {
			return errors.Wrap(err, "decode request envelope")
		}

		id, err := r.Schedule(req.Payload, time.Duration(req.DelayMs)*time.Millisecond)
		if err != nil {
			return err
		}
		r.logger.Info("[Relay] request scheduled",
			zap.String("id", id), zap.Int64("delay_ms", req.DelayMs))
		return nil
	})
}

// Schedule submits a payload directly, bypassing the request topic, and
// returns the job id.
func (r *Relay) Schedule(payload []byte, delay time.Duration) (string, error) {
	return r.sched.Schedule(payload, delay)
}

// Cancel drops a scheduled payload by job id before it is delivered.
func (r *Relay) Cancel(id string) {
	r.sched.Cancel(id)
}
