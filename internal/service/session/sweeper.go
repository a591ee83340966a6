package session

import (
	"context"
	"time"

	"github.com/nmoreira/supportchat/internal/logging"
)

// Sweeper periodically expires idle sessions until its context is cancelled.
type Sweeper struct {
	store    *Store
	interval time.Duration
	ttl      time.Duration
	log      *logging.Logger
}

// NewSweeper configures a sweeper for the given store.
func NewSweeper(store *Store, interval, ttl time.Duration, log *logging.Logger) *Sweeper {
	return &Sweeper{store: store, interval: interval, ttl: ttl, log: log}
}

// Run blocks until ctx is done, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("session sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep runs one pass. A panic inside a pass is logged and swallowed so a
// single bad sweep cannot kill the loop.
func (s *Sweeper) sweep() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("session sweep panicked")
		}
	}()

	if n := s.store.SweepExpired(time.Now(), s.ttl); n > 0 {
		s.log.Info().Int("deleted", n).Msg("expired sessions removed")
	}
}
