package worker

import (
	"context"
	"sync/atomic"
	"time"

	"atelier/internal/domain"
	"atelier/internal/metrics"

	"github.com/rs/zerolog"
)

// HealthWorker pings the document store in the background. Its verdict
// feeds the /readyz probe and the store_up gauge; request handling never
// waits on it.
type HealthWorker struct {
	store       domain.Store
	interval    time.Duration
	pingTimeout time.Duration
	policy      RetryPolicy
	logger      zerolog.Logger
	ready       atomic.Bool
}

func NewHealthWorker(store domain.Store, interval, pingTimeout time.Duration, logger *zerolog.Logger) *HealthWorker {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "health-worker").Logger()
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}

	return &HealthWorker{
		store:       store,
		interval:    interval,
		pingTimeout: pingTimeout,
		policy: RetryPolicy{
			InitialDelay:  time.Second,
			MaxDelay:      interval,
			BackoffFactor: 2,
		},
		logger: base,
	}
}

// Ready reports whether the last store ping succeeded.
func (w *HealthWorker) Ready() bool {
	return w.ready.Load()
}

// Run pings until the context is canceled. Failures shorten the wait using
// the backoff policy so recovery is noticed quickly.
func (w *HealthWorker) Run(ctx context.Context) {
	attempt := 0
	for {
		pingCtx, cancel := context.WithTimeout(ctx, w.pingTimeout)
		err := w.store.Ping(pingCtx)
		cancel()

		if err != nil {
			attempt++
			w.ready.Store(false)
			metrics.SetStoreUp(false)
			w.logger.Warn().Err(err).Int("attempt", attempt).Msg("store ping failed")
		} else {
			if attempt > 0 || !w.ready.Load() {
				w.logger.Info().Msg("store healthy")
			}
			attempt = 0
			w.ready.Store(true)
			metrics.SetStoreUp(true)
		}

		wait := w.interval
		if attempt > 0 {
			wait = w.policy.NextDelay(attempt)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}
