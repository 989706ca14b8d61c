package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eduai-companion/go-api/internal/observability"
)

// Grader performs the grading work for a single submission.
type Grader interface {
	GradeSubmission(ctx context.Context, submissionID uint) error
}

// GradingQueue runs submission grading off the request path. A fixed pool of
// workers consumes a buffered channel of submission ids; jobs for different
// submissions carry no ordering guarantee. Per-submission exclusion is
// enforced by the grader itself, not the queue, so duplicate enqueues of the
// same id are safe.
type GradingQueue struct {
	jobs    chan uint
	grader  Grader
	workers int
	logger  zerolog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewGradingQueue constructs a queue with the given worker count and buffer size.
func NewGradingQueue(grader Grader, workers, bufferSize int, logger zerolog.Logger) *GradingQueue {
	if workers <= 0 {
		workers = 1
	}
	if bufferSize <= 0 {
		bufferSize = 16
	}

	return &GradingQueue{
		jobs:    make(chan uint, bufferSize),
		grader:  grader,
		workers: workers,
		logger:  logger.With().Str("component", "grading_queue").Logger(),
	}
}

// Start launches the worker pool. Workers run until Shutdown closes the queue.
func (q *GradingQueue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

func (q *GradingQueue) worker(ctx context.Context) {
	defer q.wg.Done()

	for submissionID := range q.jobs {
		if err := q.grader.GradeSubmission(ctx, submissionID); err != nil {
			q.logger.Error().Err(err).Uint("submission_id", submissionID).Msg("grading job failed")
		}
	}
}

// Enqueue schedules a submission for grading without blocking the caller.
// It reports false when the queue is full; the job is dropped and counted.
func (q *GradingQueue) Enqueue(submissionID uint) bool {
	select {
	case q.jobs <- submissionID:
		return true
	default:
		observability.GradingQueueDrops().Inc()
		q.logger.Warn().Uint("submission_id", submissionID).Msg("grading queue full, job dropped")
		return false
	}
}

// Shutdown stops intake and drains queued jobs, returning once the workers
// exit or the context expires.
func (q *GradingQueue) Shutdown(ctx context.Context) error {
	q.closeOnce.Do(func() {
		close(q.jobs)
	})

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
