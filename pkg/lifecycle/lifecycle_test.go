package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/triagekit/triage/pkg/lifecycle"
)

func TestCoordinatorReadiness(t *testing.T) {
	lc := lifecycle.New()

	var started atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			started.Add(1)
		})
	}

	if lc.Ready() {
		t.Fatal("coordinator must not report ready before startup completes")
	}

	lc.AwaitStartup()

	if started.Load() != 3 {
		t.Errorf("expected 3 startup hooks, got %d", started.Load())
	}
	if !lc.Ready() {
		t.Error("coordinator must report ready after startup completes")
	}
}

func TestCoordinatorShutdown(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cleaned.Load() {
		t.Error("expected shutdown hook to run")
	}
}

func TestCoordinatorShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	lc.OnShutdown(func() {
		<-release
	})
	defer close(release)

	if err := lc.Shutdown(10 * time.Millisecond); err == nil {
		t.Fatal("expected a timeout error for a stuck shutdown hook")
	}
}
