package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"atelier/internal/repository"
)

func TestNextDelay(t *testing.T) {
	policy := RetryPolicy{
		InitialDelay:  time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
		{50, 10 * time.Second},
		{0, time.Second},
		{-3, time.Second},
	}

	for _, tt := range tests {
		if got := policy.NextDelay(tt.attempt); got != tt.want {
			t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestNextDelayZeroValuePolicy(t *testing.T) {
	var policy RetryPolicy

	if got := policy.NextDelay(1); got != time.Second {
		t.Errorf("NextDelay(1) = %v, want %v", got, time.Second)
	}
	if got := policy.NextDelay(3); got != 4*time.Second {
		t.Errorf("NextDelay(3) = %v, want %v", got, 4*time.Second)
	}
}

// flakyStore wraps the in-process store and fails pings on demand.
type flakyStore struct {
	*repository.MemoryStore
	failing atomic.Bool
}

func (s *flakyStore) Ping(ctx context.Context) error {
	if s.failing.Load() {
		return errors.New("store unreachable")
	}
	return s.MemoryStore.Ping(ctx)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestHealthWorkerTracksStore(t *testing.T) {
	store := &flakyStore{MemoryStore: repository.NewMemoryStore()}

	w := NewHealthWorker(store, 10*time.Millisecond, time.Second, nil)
	w.policy = RetryPolicy{InitialDelay: 5 * time.Millisecond, MaxDelay: 10 * time.Millisecond, BackoffFactor: 2}

	if w.Ready() {
		t.Fatal("worker should start not ready")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	waitFor(t, w.Ready)

	store.failing.Store(true)
	waitFor(t, func() bool { return !w.Ready() })

	store.failing.Store(false)
	waitFor(t, w.Ready)
}

func TestHealthWorkerStopsOnCancel(t *testing.T) {
	store := repository.NewMemoryStore()

	w := NewHealthWorker(store, 5*time.Millisecond, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	waitFor(t, w.Ready)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestNewHealthWorkerDefaults(t *testing.T) {
	w := NewHealthWorker(repository.NewMemoryStore(), 0, 0, nil)

	if w.interval != 15*time.Second {
		t.Errorf("expected default interval 15s, got %v", w.interval)
	}
	if w.pingTimeout != 5*time.Second {
		t.Errorf("expected default ping timeout 5s, got %v", w.pingTimeout)
	}
}
