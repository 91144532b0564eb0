// Package scheduler runs delayed deliveries on top of a timeout queue. One
// goroutine owns the queue; submissions, cancels and retries reach it over
// channels, and due jobs are handed to a worker pool for delivery.
package scheduler

import (
	"context"
	"time"

	"timeoutq"
	"timeoutq/utils"
	"timeoutq/waker"
	"timeoutq/workerpool"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrStopped is returned by Schedule once the scheduler has exited.
var ErrStopped = errors.New("scheduler stopped")

const (
	defaultMaxAttempts    = 3
	defaultHandlerTimeout = 3 * time.Second

	// retry backoff ceiling, in seconds.
	maxBackoff = 60
)

type submission struct {
	job   Job
	delay time.Duration
}

// Scheduler owns a Queue[Job] and delivers each payload through its Handler
// once the payload's delay has elapsed.
type Scheduler struct {
	queue *timeoutq.Queue[Job]

	submitC chan submission
	cancelC chan string
	retryC  chan Job
	wakeC   chan struct{}

	exit chan struct{}

	// ids cancelled but not yet purged from the queue. Owned by the loop.
	cancelled map[string]struct{}

	handler        Handler
	handlerTimeout time.Duration
	maxAttempts    int

	workers workerpool.WorkerPool
	logger  *zap.Logger
}

type FuncOption func(*Scheduler)

// WithMaxAttempts caps delivery attempts per job, retries included.
func WithMaxAttempts(n int) FuncOption {
	return func(s *Scheduler) {
		s.maxAttempts = n
	}
}

// WithHandlerTimeout bounds the context passed to each delivery.
func WithHandlerTimeout(d time.Duration) FuncOption {
	return func(s *Scheduler) {
		s.handlerTimeout = d
	}
}

// New starts a Scheduler that runs until exit is closed.
func New(exit chan struct{}, handler Handler, workers workerpool.WorkerPool,
	logger *zap.Logger, options ...FuncOption) *Scheduler {
	s := &Scheduler{
		submitC:        make(chan submission),
		cancelC:        make(chan string),
		retryC:         make(chan Job, 64),
		wakeC:          make(chan struct{}, 1),
		exit:           exit,
		cancelled:      make(map[string]struct{}),
		handler:        handler,
		handlerTimeout: defaultHandlerTimeout,
		maxAttempts:    defaultMaxAttempts,
		workers:        workers,
		logger:         logger,
	}
	for _, option := range options {
		option(s)
	}

	// The notify waker taps wakeC whenever the earliest deadline may have
	// passed, so the loop below sleeps in select instead of polling.
	s.queue = timeoutq.New[Job](timeoutq.WithWaker[Job](waker.NewNotify(s.wakeC)))

	go s.start()
	return s
}

// Schedule enqueues payload for delivery after delay and returns the job id.
func (s *Scheduler) Schedule(payload []byte, delay time.Duration) (string, error) {
	j := newJob(payload, s.maxAttempts)
	select {
	case s.submitC <- submission{job: j, delay: delay}:
		return j.Id, nil
	case <-s.exit:
		return "", ErrStopped
	}
}

// Cancel drops the job with the given id. Cancelled jobs sitting at the
// front of the deadline order are purged eagerly on the next drain, due or
// not; the rest go when the scan reaches them.
func (s *Scheduler) Cancel(id string) {
	select {
	case s.cancelC <- id:
	case <-s.exit:
	}
}

// start is the owning loop; the queue must only be touched here.
func (s *Scheduler) start() {
	s.logger.Info("[Scheduler] start, waiting for deadlines")
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("[Scheduler] start panic", zap.Any("error", r))
		}
	}()

	for {
		select {
		case sub := <-s.submitC:
			s.queue.Push(sub.job, sub.delay)
		case id := <-s.cancelC:
			s.cancelled[id] = struct{}{}
		case j := <-s.retryC:
			s.requeue(j)
		case <-s.wakeC:
			s.drain()
		case <-s.exit:
			s.logger.Info("[Scheduler] exit", zap.Int("pending", s.queue.Len()))
			return
		}
	}
}

// drain pops every due job and hands it to the worker pool.
func (s *Scheduler) drain() {
	for {
		j, ok := s.queue.FilterPop(s.alive)
		if !ok {
			return
		}
		s.dispatch(j)
	}
}

// alive is the FilterPop predicate: cancelled jobs are rejected, which makes
// the queue discard them permanently.
func (s *Scheduler) alive(j Job) bool {
	if _, dead := s.cancelled[j.Id]; dead {
		delete(s.cancelled, j.Id)
		s.logger.Info("[Scheduler] discard cancelled job", zap.String("id", j.Id))
		return false
	}
	return true
}

func (s *Scheduler) dispatch(j Job) {
	s.workers.ScheduleAlways(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.handlerTimeout)
		defer cancel()

		if err := s.handler(ctx, j); err != nil {
			s.logger.Error("[Scheduler] delivery failed",
				zap.String("id", j.Id), zap.Int("attempts", j.Attempts+1), zap.Error(err))
			j.Attempts++
			select {
			case s.retryC <- j:
			default:
				s.logger.Error("[Scheduler] retry channel full, job dropped", zap.String("id", j.Id))
			}
		}
	})
}

// requeue re-enqueues a failed job with fibonacci backoff, or drops it once
// its attempts are exhausted.
func (s *Scheduler) requeue(j Job) {
	if j.Attempts >= j.MaxAttempts {
		s.logger.Error("[Scheduler] attempts exhausted, job dropped",
			zap.String("id", j.Id), zap.Int("attempts", j.Attempts))
		return
	}

	backoff := time.Duration(utils.Backoff(j.Attempts, maxBackoff)) * time.Second
	s.logger.Info("[Scheduler] retry scheduled",
		zap.String("id", j.Id), zap.Int("attempts", j.Attempts), zap.Duration("backoff", backoff))
	s.queue.Push(j, backoff)
}
