// Package scheduler runs the daily streak reset: once per UTC midnight it
// zeroes every streak whose last completion is missing or older than one
// day, as a single bulk update against the membership store.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/SharathChampzz/Community-Streak/internal/clock"
)

var (
	sweepResetRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streak_sweep_reset_rows_total",
		Help: "Total number of streaks zeroed by the reset sweep",
	})
	sweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streak_sweep_failures_total",
		Help: "Total number of failed reset sweeps",
	})
)

// Resetter is the one store operation the scheduler needs.
type Resetter interface {
	ResetStale(ctx context.Context, cutoff time.Time) (int64, error)
}

const sweepTimeout = 5 * time.Minute

// ResetScheduler is an explicit lifecycle object: construct it, Start it
// once process startup is done, Stop it during shutdown. Both are
// idempotent; calling Start twice never spawns a second loop.
type ResetScheduler struct {
	store Resetter
	clock clock.Clock

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func New(store Resetter, clk clock.Clock) *ResetScheduler {
	return &ResetScheduler{store: store, clock: clk}
}

func (s *ResetScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	log.Println("Starting streak reset scheduler")
	go s.loop(s.stop, s.done)
}

// Stop signals the loop and waits for it to exit. An in-flight sweep
// finishes first; since the sweep is one bulk statement it never leaves a
// partial reset behind.
func (s *ResetScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
	log.Println("Streak reset scheduler stopped")
}

func (s *ResetScheduler) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		timer := time.NewTimer(s.untilNextMidnight())
		select {
		case <-timer.C:
			s.RunSweep(context.Background())
		case <-stop:
			timer.Stop()
			return
		}
	}
}

// RunSweep executes one reset sweep. Failures are logged with the attempted
// cutoff and swallowed: the next scheduled tick retries independently, and
// the scheduling loop must never crash over a transient store outage.
func (s *ResetScheduler) RunSweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	now := s.clock.Now()
	cutoff := now.Add(-24 * time.Hour)

	log.Printf("Starting streak reset sweep at %s (cutoff %s)", now.Format(time.RFC3339), cutoff.Format(time.RFC3339))

	rows, err := s.store.ResetStale(ctx, cutoff)
	if err != nil {
		sweepFailures.Inc()
		log.Printf("Streak reset sweep failed (cutoff %s): %v", cutoff.Format(time.RFC3339), err)
		return
	}

	sweepResetRows.Add(float64(rows))
	log.Printf("Streak counts reset for %d rows", rows)
}

func (s *ResetScheduler) untilNextMidnight() time.Duration {
	now := s.clock.Now()
	next := clock.DateOf(now).Add(24 * time.Hour)
	return next.Sub(now)
}
