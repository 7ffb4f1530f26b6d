package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	queueCapacity = 256
	jobTimeout    = 2 * time.Minute
)

// Queue is an in-process job queue: a bounded channel drained by a
// fixed pool of worker goroutines. There is no retry and no cancel;
// a failed job is logged and dropped, matching the fire-and-forget
// contract of the send-message path.
type Queue struct {
	jobs    chan Job
	workers int
	logger  *zap.SugaredLogger

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func NewQueue(workers int, logger *zap.Logger) *Queue {
	if workers < 1 {
		workers = 1
	}
	return &Queue{
		jobs:    make(chan Job, queueCapacity),
		workers: workers,
		logger:  logger.Sugar(),
	}
}

func (q *Queue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	q.logger.Infow("Job queue started", "workers", q.workers)
}

// Stop closes the queue and waits for in-flight jobs to finish.
// Jobs enqueued after Stop are dropped.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	q.logger.Info("Job queue stopped")
}

func (q *Queue) RunAfter(delay time.Duration, job Job) {
	if delay <= 0 {
		q.enqueue(job)
		return
	}
	time.AfterFunc(delay, func() {
		q.enqueue(job)
	})
}

func (q *Queue) enqueue(job Job) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		q.logger.Warnw("Job dropped, queue stopped", "job", job.Name())
		return
	}
	select {
	case q.jobs <- job:
	default:
		q.logger.Warnw("Job dropped, queue full", "job", job.Name())
	}
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()
	for job := range q.jobs {
		q.run(id, job)
	}
}

func (q *Queue) run(worker int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Errorw("Job panicked", "job", job.Name(), "worker", worker, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		q.logger.Errorw("Job failed",
			"job", job.Name(),
			"worker", worker,
			"duration", time.Since(start).String(),
			"error", err,
		)
		return
	}
	q.logger.Debugw("Job done", "job", job.Name(), "duration", time.Since(start).String())
}
