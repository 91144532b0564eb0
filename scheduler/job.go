package scheduler

import "github.com/google/uuid"

// Job is one unit of delayed delivery.
type Job struct {
	// Id uniquely identifies the job; it is the token Cancel takes.
	Id string

	Payload []byte

	// Attempts counts finished delivery attempts.
	Attempts int
	// MaxAttempts caps deliveries for this job, retries included.
	MaxAttempts int
}

func newJob(payload []byte, maxAttempts int) Job {
	return Job{
		Id:          "job-" + uuid.New().String(),
		Payload:     payload,
		MaxAttempts: maxAttempts,
	}
}
