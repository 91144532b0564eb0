package scheduler

import "context"

// Handler delivers a due job. A non-nil error makes the scheduler retry the
// job with backoff until its attempts are exhausted.
type Handler func(ctx context.Context, j Job) error
