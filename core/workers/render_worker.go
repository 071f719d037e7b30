// ABOUTME: Render worker runs pipeline jobs off the caller's goroutine
// ABOUTME: Bounded pool with a bounded queue; jobs report their result on a channel

package workers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"v2ex-richview/core/interfaces"
)

// RenderJob is one unit of pipeline work
type RenderJob struct {
	// Key identifies the job in logs
	Key     string
	Context context.Context
	Run     func(ctx context.Context) error

	// ErrorCh receives Run's result. It must have room for one value.
	ErrorCh chan<- error
}

// RenderWorker manages the pool of render goroutines
type RenderWorker struct {
	jobQueue      chan *RenderJob
	maxWorkers    int
	submitTimeout time.Duration
	logger        interfaces.Logger

	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool
	stopped bool

	processed atomic.Uint64
	failed    atomic.Uint64
}

// WorkerConfig holds configuration for the render worker
type WorkerConfig struct {
	MaxWorkers int
	QueueSize  int

	// SubmitTimeout bounds how long Submit waits for queue space
	SubmitTimeout time.Duration
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers:    4,
		QueueSize:     100,
		SubmitTimeout: 5 * time.Second,
	}
}

// WorkerStats is a snapshot of pool activity
type WorkerStats struct {
	Workers   int    `json:"workers"`
	Queued    int    `json:"queued"`
	Processed uint64 `json:"processed"`
	Failed    uint64 `json:"failed"`
}

// NewRenderWorker creates a render worker; call Start before submitting
func NewRenderWorker(deps interfaces.Dependencies, config WorkerConfig) *RenderWorker {
	defaults := DefaultWorkerConfig()
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = defaults.MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.SubmitTimeout <= 0 {
		config.SubmitTimeout = defaults.SubmitTimeout
	}

	return &RenderWorker{
		jobQueue:      make(chan *RenderJob, config.QueueSize),
		maxWorkers:    config.MaxWorkers,
		submitTimeout: config.SubmitTimeout,
		logger:        deps.LoggerOrNop(),
	}
}

// Start starts the worker pool. A stopped pool cannot be restarted.
func (rw *RenderWorker) Start() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.stopped {
		return ErrWorkerStopped
	}
	if rw.running {
		return nil
	}

	for i := 0; i < rw.maxWorkers; i++ {
		rw.wg.Add(1)
		go rw.run(i)
	}

	rw.running = true
	rw.logger.Info("Render worker pool started", map[string]interface{}{
		"workers":    rw.maxWorkers,
		"queue_size": cap(rw.jobQueue),
	})
	return nil
}

// Stop stops accepting jobs, finishes the queued ones and waits for the
// workers to exit
func (rw *RenderWorker) Stop() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if !rw.running {
		return nil
	}

	close(rw.jobQueue)
	rw.wg.Wait()

	rw.running = false
	rw.stopped = true
	rw.logger.Info("Render worker pool stopped", map[string]interface{}{
		"processed": rw.processed.Load(),
		"failed":    rw.failed.Load(),
	})
	return nil
}

// Submit queues a job. It fails with ErrQueueFull when no slot frees up
// within the submit timeout, or with the context error if ctx ends first.
func (rw *RenderWorker) Submit(ctx context.Context, job *RenderJob) error {
	rw.mu.RLock()
	defer rw.mu.RUnlock()

	if !rw.running {
		return ErrWorkerNotRunning
	}

	timer := time.NewTimer(rw.submitTimeout)
	defer timer.Stop()

	select {
	case rw.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrQueueFull
	}
}

// Do submits run and waits for it to finish. Once queued, the job always
// runs to completion; ctx only bounds the wait for a queue slot.
func (rw *RenderWorker) Do(ctx context.Context, key string, run func(ctx context.Context) error) error {
	errCh := make(chan error, 1)
	job := &RenderJob{
		Key:     key,
		Context: context.WithoutCancel(ctx),
		Run:     run,
		ErrorCh: errCh,
	}
	if err := rw.Submit(ctx, job); err != nil {
		return err
	}
	return <-errCh
}

// Stats returns a snapshot of pool activity
func (rw *RenderWorker) Stats() WorkerStats {
	return WorkerStats{
		Workers:   rw.maxWorkers,
		Queued:    len(rw.jobQueue),
		Processed: rw.processed.Load(),
		Failed:    rw.failed.Load(),
	}
}

func (rw *RenderWorker) run(id int) {
	defer rw.wg.Done()

	for job := range rw.jobQueue {
		rw.processJob(id, job)
	}
}

func (rw *RenderWorker) processJob(id int, job *RenderJob) {
	ctx := job.Context
	if ctx == nil {
		ctx = context.Background()
	}

	err := rw.safeRun(ctx, job)
	rw.processed.Add(1)
	if err != nil {
		rw.failed.Add(1)
		rw.logger.Debug("Render job failed", map[string]interface{}{
			"worker": id,
			"key":    job.Key,
			"error":  err.Error(),
		})
	}

	if job.ErrorCh != nil {
		job.ErrorCh <- err
	}
}

// safeRun keeps a panicking job from taking the worker down
func (rw *RenderWorker) safeRun(ctx context.Context, job *RenderJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render job %s panicked: %v", job.Key, r)
			rw.logger.Error("Render job panicked", map[string]interface{}{
				"key":   job.Key,
				"panic": fmt.Sprint(r),
			})
		}
	}()
	return job.Run(ctx)
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrWorkerStopped    = &WorkerError{Message: "worker pool has been stopped"}
	ErrQueueFull        = &WorkerError{Message: "job queue is full"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
