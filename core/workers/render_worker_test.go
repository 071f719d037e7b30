package workers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"v2ex-richview/core/interfaces"
)

func startWorker(t *testing.T, cfg WorkerConfig) *RenderWorker {
	t.Helper()
	rw := NewRenderWorker(interfaces.Dependencies{}, cfg)
	if err := rw.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { rw.Stop() })
	return rw
}

func TestNewRenderWorker_Defaults(t *testing.T) {
	rw := NewRenderWorker(interfaces.Dependencies{}, WorkerConfig{})

	if rw.maxWorkers != 4 {
		t.Errorf("maxWorkers = %d, want 4", rw.maxWorkers)
	}
	if cap(rw.jobQueue) != 100 {
		t.Errorf("queue size = %d, want 100", cap(rw.jobQueue))
	}
	if rw.submitTimeout != 5*time.Second {
		t.Errorf("submitTimeout = %v, want 5s", rw.submitTimeout)
	}
}

func TestRenderWorker_Do(t *testing.T) {
	rw := startWorker(t, WorkerConfig{MaxWorkers: 2, QueueSize: 4})

	ran := false
	if err := rw.Do(context.Background(), "ok", func(ctx context.Context) error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !ran {
		t.Error("job did not run")
	}

	boom := errors.New("boom")
	if err := rw.Do(context.Background(), "fail", func(ctx context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Do() error = %v, want %v", err, boom)
	}

	stats := rw.Stats()
	if stats.Processed != 2 || stats.Failed != 1 {
		t.Errorf("Stats() = %+v, want processed 2 failed 1", stats)
	}
	if stats.Workers != 2 {
		t.Errorf("Workers = %d, want 2", stats.Workers)
	}
}

func TestRenderWorker_DoDetachesCancellation(t *testing.T) {
	rw := startWorker(t, WorkerConfig{MaxWorkers: 1, QueueSize: 1})

	ctx, cancel := context.WithCancel(context.Background())
	err := rw.Do(ctx, "detached", func(jobCtx context.Context) error {
		cancel()
		return jobCtx.Err()
	})
	if err != nil {
		t.Errorf("job context was cancelled with the caller: %v", err)
	}
}

func TestRenderWorker_RecoversPanic(t *testing.T) {
	rw := startWorker(t, WorkerConfig{MaxWorkers: 1, QueueSize: 1})

	err := rw.Do(context.Background(), "bad", func(ctx context.Context) error {
		panic("nil map")
	})
	if err == nil || !strings.Contains(err.Error(), "panicked") {
		t.Fatalf("Do() error = %v, want panic error", err)
	}

	if err := rw.Do(context.Background(), "after", func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("worker unusable after panic: %v", err)
	}
}

func TestRenderWorker_NotRunning(t *testing.T) {
	rw := NewRenderWorker(interfaces.Dependencies{}, WorkerConfig{MaxWorkers: 1, QueueSize: 1})

	err := rw.Do(context.Background(), "x", func(ctx context.Context) error { return nil })
	if err != ErrWorkerNotRunning {
		t.Errorf("Do() error = %v, want ErrWorkerNotRunning", err)
	}
}

func TestRenderWorker_StoppedCannotRestart(t *testing.T) {
	rw := NewRenderWorker(interfaces.Dependencies{}, WorkerConfig{MaxWorkers: 1, QueueSize: 1})
	if err := rw.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := rw.Start(); err != nil {
		t.Errorf("second Start() error = %v, want nil", err)
	}
	if err := rw.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := rw.Stop(); err != nil {
		t.Errorf("second Stop() error = %v, want nil", err)
	}
	if err := rw.Start(); err != ErrWorkerStopped {
		t.Errorf("Start() after Stop error = %v, want ErrWorkerStopped", err)
	}
}

func TestRenderWorker_QueueFull(t *testing.T) {
	rw := startWorker(t, WorkerConfig{MaxWorkers: 1, QueueSize: 1, SubmitTimeout: 20 * time.Millisecond})

	started := make(chan struct{}, 1)
	release := make(chan struct{})
	blocking := func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}

	first := make(chan error, 1)
	if err := rw.Submit(context.Background(), &RenderJob{Key: "a", Run: blocking, ErrorCh: first}); err != nil {
		t.Fatalf("Submit(a) error = %v", err)
	}
	<-started

	second := make(chan error, 1)
	if err := rw.Submit(context.Background(), &RenderJob{Key: "b", Run: blocking, ErrorCh: second}); err != nil {
		t.Fatalf("Submit(b) error = %v", err)
	}

	err := rw.Submit(context.Background(), &RenderJob{Key: "c", Run: blocking})
	if err != ErrQueueFull {
		t.Errorf("Submit(c) error = %v, want ErrQueueFull", err)
	}

	close(release)
	if err := <-first; err != nil {
		t.Errorf("job a error = %v", err)
	}
	if err := <-second; err != nil {
		t.Errorf("job b error = %v", err)
	}
}

func TestRenderWorker_SubmitHonoursContext(t *testing.T) {
	rw := startWorker(t, WorkerConfig{MaxWorkers: 1, QueueSize: 1, SubmitTimeout: time.Second})

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	block := func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}
	defer close(release)

	if err := rw.Submit(context.Background(), &RenderJob{Key: "a", Run: block, ErrorCh: make(chan error, 1)}); err != nil {
		t.Fatalf("Submit(a) error = %v", err)
	}
	<-started
	if err := rw.Submit(context.Background(), &RenderJob{Key: "b", Run: block, ErrorCh: make(chan error, 1)}); err != nil {
		t.Fatalf("Submit(b) error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := rw.Submit(ctx, &RenderJob{Key: "c", Run: block}); err != context.DeadlineExceeded {
		t.Errorf("Submit(c) error = %v, want DeadlineExceeded", err)
	}
}
