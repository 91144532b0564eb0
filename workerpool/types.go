package workerpool

// WorkerPool provides a pool for goroutines.
type WorkerPool interface {
	// Schedule hands task to a pooled worker goroutine, blocking until one
	// is available.
	Schedule(task func())

	// ScheduleAlways hands task to a pooled worker if one is available and
	// otherwise runs it on a temporary goroutine. Never blocks.
	ScheduleAlways(task func())

	// Close stops accepting tasks and waits for running workers to finish.
	// Close blocks forever if a worker is stuck in a never-returning task.
	Close()
}
