package workerpool

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// tempWorkerIdle is how long a temporary worker lingers for more work
// before exiting.
const tempWorkerIdle = time.Minute

// Pool runs tasks on a bounded set of resident worker goroutines. Workers
// are spawned lazily, one per token, and stay alive consuming further tasks.
type Pool struct {
	tasks  chan func()
	tokens chan struct{}

	wg     sync.WaitGroup
	logger *zap.Logger
}

// NewPool creates a Pool with at most n resident workers.
func NewPool(n int, logger *zap.Logger) *Pool {
	return &Pool{
		tasks:  make(chan func()),
		tokens: make(chan struct{}, n),
		logger: logger,
	}
}

// Schedule hands task to a free worker, spawning one while tokens remain.
// Blocks when all workers are busy and the pool is full.
func (p *Pool) Schedule(task func()) {
	select {
	case p.tasks <- task:
	case p.tokens <- struct{}{}:
		p.wg.Add(1)
		go p.resident(task)
	}
}

// ScheduleAlways is Schedule without the blocking: when the pool is
// saturated the task runs on a temporary goroutine instead.
func (p *Pool) ScheduleAlways(task func()) {
	select {
	case p.tasks <- task:
	case p.tokens <- struct{}{}:
		p.wg.Add(1)
		go p.resident(task)
	default:
		p.wg.Add(1)
		go p.temporary(task)
	}
}

// resident runs task and then serves the task channel until the pool closes
// or the worker dies to a panic.
func (p *Pool) resident(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("[WorkerPool] resident worker exit with panic", zap.Any("panic", r))
		}
		<-p.tokens
		p.wg.Done()
	}()

	task()
	for t := range p.tasks {
		t()
	}
}

// temporary runs task and lingers briefly for more work so bursts do not
// spawn a goroutine per task.
func (p *Pool) temporary(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("[WorkerPool] temporary worker exit with panic", zap.Any("panic", r))
		}
		p.wg.Done()
	}()

	task()
	idle := time.NewTimer(tempWorkerIdle)
	defer idle.Stop()
	for {
		select {
		case <-idle.C:
			return
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			t()

			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(tempWorkerIdle)
		}
	}
}

// Close the task channel and wait for every worker to finish.
func (p *Pool) Close() {
	close(p.tasks)
	p.wg.Wait()
	p.logger.Info("[WorkerPool] closed")
}
