package main

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JonMunkholm/classcheck/internal/core"
)

// fakeServer blocks in Start until Shutdown and takes drain time to shut down.
type fakeServer struct {
	closed   chan struct{}
	drain    time.Duration
	drained  atomic.Bool
	startErr error
}

func newFakeServer(drain time.Duration) *fakeServer {
	return &fakeServer{closed: make(chan struct{}), drain: drain}
}

func (f *fakeServer) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	<-f.closed
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	close(f.closed)
	time.Sleep(f.drain)
	f.drained.Store(true)
	return nil
}

func TestRun_WaitsForShutdown(t *testing.T) {
	srv := newFakeServer(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := run(ctx, srv, core.NewImportLimiter(1, time.Second), time.Second); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if !srv.drained.Load() {
		t.Error("run() returned before Shutdown finished draining")
	}
}

func TestRun_WaitsForImports(t *testing.T) {
	srv := newFakeServer(0)
	limiter := core.NewImportLimiter(1, time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}

	var released atomic.Bool
	go func() {
		time.Sleep(60 * time.Millisecond)
		released.Store(true)
		limiter.Release()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, srv, limiter, time.Second); err != nil {
		t.Fatalf("run() error: %v", err)
	}
	if !released.Load() {
		t.Error("run() shut down while an import was still running")
	}
}

func TestRun_StartError(t *testing.T) {
	srv := newFakeServer(0)
	srv.startErr = errors.New("listen tcp :80: bind: permission denied")

	err := run(context.Background(), srv, core.NewImportLimiter(1, time.Second), time.Second)
	if err == nil || err.Error() != srv.startErr.Error() {
		t.Errorf("run() = %v, want %v", err, srv.startErr)
	}
}
