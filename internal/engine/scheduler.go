package engine

import (
	"context"
	"errors"
	"time"
)

// ErrExternalTickRejected is returned by Scheduler.ExternalTick when the
// scheduler is running in internal (periodic) mode, where external tick
// requests are not allowed.
var ErrExternalTickRejected = errors.New("external tick requests are rejected while running on an internal tick period")

// ErrInvalidTimeDelta is returned by ExternalTick for a non-positive
// delta.
var ErrInvalidTimeDelta = errors.New("timeDelta must be a positive integer")

// Scheduler is the cooperative single-worker strand: every model
// mutation and every snapshot read is submitted as a closure on jobs,
// and a single goroutine drains it, so no two model operations ever
// overlap.
type Scheduler struct {
	game       *Game
	jobs       chan func()
	internal   bool
	tickPeriod time.Duration
	onTick     func(elapsed time.Duration, retired []string)
}

// NewScheduler creates a scheduler for game. tickPeriod > 0 selects
// internal mode (a periodic timer drives think()); tickPeriod <= 0
// selects external mode (clients drive think() via ExternalTick).
func NewScheduler(game *Game, tickPeriod time.Duration, onTick func(time.Duration, []string)) *Scheduler {
	return &Scheduler{
		game:       game,
		jobs:       make(chan func()),
		internal:   tickPeriod > 0,
		tickPeriod: tickPeriod,
		onTick:     onTick,
	}
}

// Internal reports whether the scheduler is running in internal
// (periodic-timer) tick mode.
func (s *Scheduler) Internal() bool {
	return s.internal
}

// Run drains the job queue until ctx is cancelled. If running in
// internal mode, it also starts the periodic ticker and runs each
// firing from this same select loop, so a tick never overlaps
// handler-submitted work.
func (s *Scheduler) Run(ctx context.Context) {
	var ticker *time.Ticker
	var tickerC <-chan time.Time
	lastFire := time.Now()

	if s.internal {
		ticker = time.NewTicker(s.tickPeriod)
		tickerC = ticker.C
		defer ticker.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			s.drainRemaining()
			return
		case job := <-s.jobs:
			job()
		case now := <-tickerC:
			elapsed := now.Sub(lastFire)
			lastFire = now
			s.runTick(elapsed)
		}
	}
}

// drainRemaining runs any jobs already queued at shutdown time to
// completion, so in-flight strand work (e.g. a leaderboard write
// already handed off) is not abandoned mid-operation.
func (s *Scheduler) drainRemaining() {
	for {
		select {
		case job := <-s.jobs:
			job()
		default:
			return
		}
	}
}

// Submit enqueues fn onto the strand and blocks until it has run, the
// shape every HTTP handler uses to touch the model.
func (s *Scheduler) Submit(fn func()) {
	done := make(chan struct{})
	s.jobs <- func() {
		defer close(done)
		fn()
	}
	<-done
}

func (s *Scheduler) runTick(elapsed time.Duration) {
	retired := s.game.Think(elapsed)
	if s.onTick != nil {
		s.onTick(elapsed, retired)
	}
}

// ExternalTick submits a caller-driven tick of timeDeltaMs milliseconds.
// It is rejected in internal mode, and rejects a non-positive delta.
func (s *Scheduler) ExternalTick(timeDeltaMs int64) error {
	if s.internal {
		return ErrExternalTickRejected
	}
	if timeDeltaMs <= 0 {
		return ErrInvalidTimeDelta
	}
	s.Submit(func() {
		s.runTick(time.Duration(timeDeltaMs) * time.Millisecond)
	})
	return nil
}

