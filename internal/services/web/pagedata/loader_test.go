package pagedata

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestLoader(t *testing.T, size int) *Loader {
	t.Helper()
	loader, err := New(WithSize(size), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(loader.Release)
	return loader
}

func TestLoadRunsAllTasks(t *testing.T) {
	t.Parallel()

	loader := newTestLoader(t, 2)
	var settings, news, programs string
	failed := loader.Load(context.Background(),
		Task{Name: "settings", Run: func(context.Context) error { settings = "s"; return nil }},
		Task{Name: "news", Run: func(context.Context) error { news = "n"; return nil }},
		Task{Name: "programs", Run: func(context.Context) error { programs = "p"; return nil }},
	)
	if len(failed) != 0 {
		t.Fatalf("failed = %v", failed)
	}
	if failed.Err() != nil {
		t.Fatalf("Err() = %v", failed.Err())
	}
	if settings != "s" || news != "n" || programs != "p" {
		t.Fatalf("results = %q %q %q", settings, news, programs)
	}
}

func TestLoadToleratesFailures(t *testing.T) {
	t.Parallel()

	loader := newTestLoader(t, 4)
	var ok atomic.Bool
	failed := loader.Load(context.Background(),
		Task{Name: "broken", Run: func(context.Context) error { return errors.New("cms down") }},
		Task{Name: "panics", Run: func(context.Context) error { panic("boom") }},
		Task{Name: "fine", Run: func(context.Context) error { ok.Store(true); return nil }},
	)
	if !ok.Load() {
		t.Fatal("healthy task did not run")
	}
	if len(failed) != 2 {
		t.Fatalf("failed = %v, want 2 entries", failed)
	}
	if !strings.Contains(failed["panics"].Error(), "boom") {
		t.Fatalf("panic error = %v", failed["panics"])
	}
	if err := failed.Err(); err == nil || !strings.Contains(err.Error(), "broken: cms down") {
		t.Fatalf("Err() = %v", err)
	}
}

func TestLoadRunsConcurrently(t *testing.T) {
	t.Parallel()

	loader := newTestLoader(t, 3)
	release := make(chan struct{})
	var started atomic.Int32
	task := func(context.Context) error {
		started.Add(1)
		<-release
		return nil
	}
	done := make(chan Errors, 1)
	go func() {
		done <- loader.Load(context.Background(),
			Task{Name: "a", Run: task},
			Task{Name: "b", Run: task},
			Task{Name: "c", Run: task},
		)
	}()

	deadline := time.After(2 * time.Second)
	for started.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("started = %d, want 3 concurrent tasks", started.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(release)
	if failed := <-done; len(failed) != 0 {
		t.Fatalf("failed = %v", failed)
	}
}

func TestLoadSkipsWorkOnCanceledContext(t *testing.T) {
	t.Parallel()

	loader := newTestLoader(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran atomic.Bool
	failed := loader.Load(ctx, Task{Name: "late", Run: func(context.Context) error { ran.Store(true); return nil }})
	if ran.Load() {
		t.Fatal("task ran on a canceled context")
	}
	if !errors.Is(failed["late"], context.Canceled) {
		t.Fatalf("failed = %v", failed)
	}
}

func TestLoadAfterRelease(t *testing.T) {
	t.Parallel()

	loader, err := New(WithSize(1), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	loader.Release()
	failed := loader.Load(context.Background(), Task{Name: "x", Run: func(context.Context) error { return nil }})
	if !errors.Is(failed["x"], ErrLoaderClosed) {
		t.Fatalf("failed = %v", failed)
	}
}

func TestNilLoaderRunsSequentially(t *testing.T) {
	t.Parallel()

	var loader *Loader
	var count int
	failed := loader.Load(context.Background(),
		Task{Name: "a", Run: func(context.Context) error { count++; return nil }},
		Task{Name: "b", Run: func(context.Context) error { count++; return nil }},
	)
	if count != 2 || len(failed) != 0 {
		t.Fatalf("count = %d failed = %v", count, failed)
	}
}
