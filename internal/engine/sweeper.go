package engine

import (
	"context"
	"log/slog"
	"time"
)

const (
	// DefaultCleanupInterval is how often the sweep runs.
	DefaultCleanupInterval = 6 * time.Hour

	// DefaultMaxContextAge is how long an idle session survives before the
	// sweep removes it.
	DefaultMaxContextAge = 30 * 24 * time.Hour

	sweepTimeout = 60 * time.Second
)

// Sweeper periodically removes sessions that have been idle longer than the
// configured maximum age.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	maxAge   time.Duration
	log      *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSweeper creates a cleanup sweeper. Zero interval or maxAge fall back to
// the defaults.
func NewSweeper(manager *Manager, interval, maxAge time.Duration, log *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxContextAge
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Sweeper{
		manager:  manager,
		interval: interval,
		maxAge:   maxAge,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called. One sweep runs immediately
// on startup so a long-dormant store is trimmed without waiting a full
// interval.
func (s *Sweeper) Start() error {
	s.log.Info("Cleanup sweeper starting", "interval", s.interval, "max_age", s.maxAge)
	defer close(s.done)

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info("Cleanup sweeper shutting down")
			return nil
		case <-ticker.C:
			s.sweep()
		}
	}
}

// Stop requests shutdown and waits for the loop to exit.
func (s *Sweeper) Stop() {
	s.log.Info("Cleanup sweeper stop requested")
	s.cancel()
	<-s.done
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(s.ctx, sweepTimeout)
	defer cancel()

	removed, err := s.manager.CleanupExpiredSessions(ctx, s.maxAge)
	if err != nil {
		s.log.Error("Cleanup sweep failed", "error", err)
		return
	}
	s.log.Debug("Cleanup sweep completed", "removed", removed)
}
