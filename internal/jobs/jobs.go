package jobs

import (
	"context"
	"time"
)

// Job is a unit of deferred work. Payloads are plain structs built by
// the feature packages; Run executes with whatever state the payload
// captured at enqueue time.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler is the single capability handed to the message-send path:
// enqueue a job with a minimum delay, fire-and-forget. Jobs execute
// at-least-once, asynchronously, independent of the caller.
type Scheduler interface {
	RunAfter(delay time.Duration, job Job)
}
