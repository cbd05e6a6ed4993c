package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/traveler-intake/internal/pipeline"
)

// PassRunner runs a directory pass; *pipeline.Processor satisfies it.
type PassRunner interface {
	ProcessDirectory(ctx context.Context, dir string) (*pipeline.Report, error)
}

// PassQueue runs directory passes one at a time on a single worker, so two
// passes never touch the same directory concurrently. A pass requested while
// another for the same directory is still waiting is dropped.
type PassQueue struct {
	runner  PassRunner
	logger  *slog.Logger
	timeout time.Duration
	onDone  func(job Job, report *pipeline.Report, err error)

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	closeMu sync.RWMutex // held for reading while sending on ch
	closed  bool

	mu      sync.Mutex
	pending map[string]struct{}
}

var _ Queue = (*PassQueue)(nil)

type Option func(*PassQueue)

func WithQueueSize(n int) Option {
	return func(q *PassQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithPassTimeout(d time.Duration) Option {
	return func(q *PassQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithReportHook is called on the worker after every pass.
func WithReportHook(fn func(job Job, report *pipeline.Report, err error)) Option {
	return func(q *PassQueue) {
		q.onDone = fn
	}
}

func NewPassQueue(runner PassRunner, logger *slog.Logger, opts ...Option) *PassQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &PassQueue{
		runner:  runner,
		logger:  logger,
		timeout: 10 * time.Minute,
		ch:      make(chan Job, 16),
		pending: make(map[string]struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *PassQueue) start() {
	q.once.Do(func() {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			q.logger.Info("worker started")

			for job := range q.ch {
				q.mu.Lock()
				delete(q.pending, job.Dir)
				q.mu.Unlock()

				ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
				report, err := q.runner.ProcessDirectory(ctx, job.Dir)
				cancel()

				if err != nil {
					q.logger.Error("pass failed", "dir", job.Dir, "reason", job.Reason, "error", err)
				} else {
					q.logger.Info("pass completed",
						"dir", job.Dir,
						"reason", job.Reason,
						"run_id", report.RunID,
						"renamed", report.Stats.Renamed,
						"queued_ms", time.Since(job.SubmittedAt).Milliseconds(),
					)
				}
				if q.onDone != nil {
					q.onDone(job, report, err)
				}
			}

			q.logger.Info("worker stopped")
		}()
	})
}

// Enqueue schedules a pass. It blocks while the queue is full.
func (q *PassQueue) Enqueue(ctx context.Context, job Job) error {
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	q.closeMu.RLock()
	defer q.closeMu.RUnlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "dir", job.Dir)
		return nil
	}

	q.mu.Lock()
	if _, ok := q.pending[job.Dir]; ok {
		q.mu.Unlock()
		q.logger.Debug("pass already queued", "dir", job.Dir, "reason", job.Reason)
		return nil
	}
	q.pending[job.Dir] = struct{}{}
	q.mu.Unlock()

	select {
	case q.ch <- job:
		q.logger.Debug("queued directory pass", "dir", job.Dir, "reason", job.Reason)
		return nil
	case <-ctx.Done():
		q.mu.Lock()
		delete(q.pending, job.Dir)
		q.mu.Unlock()
		return ctx.Err()
	}
}

func (q *PassQueue) Shutdown(ctx context.Context) {
	q.closeMu.Lock()
	if q.closed {
		q.closeMu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.closeMu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
