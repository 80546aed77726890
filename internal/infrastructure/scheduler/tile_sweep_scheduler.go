// Package scheduler runs the periodic background jobs of the map
// service. The only job today is the tile-cache expiration sweep.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hubzone/backend/internal/infrastructure/cache"
)

// TileSweepScheduler periodically removes expired entries from the
// tile cache so memory stays bounded even under idle load. The sweep
// runs on its own ticker, independent of request traffic, and only
// removes already-expired entries, so in-flight cache reads are never
// blocked beyond one lock acquisition.
type TileSweepScheduler struct {
	tileCache cache.TileCache
	interval  time.Duration
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewTileSweepScheduler creates a sweep scheduler for the given cache.
func NewTileSweepScheduler(tileCache cache.TileCache, interval time.Duration, logger *zap.Logger) *TileSweepScheduler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &TileSweepScheduler{
		tileCache: tileCache,
		interval:  interval,
		logger:    logger,
	}
}

// Start launches the sweep loop. Calling Start on a running scheduler
// is a no-op.
func (s *TileSweepScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Tile cache sweep scheduler started",
		zap.Duration("interval", s.interval))
}

// Stop terminates the sweep loop and waits for it to exit.
func (s *TileSweepScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.logger.Info("Tile cache sweep scheduler stopped")
}

func (s *TileSweepScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.tileCache.ClearExpired(ctx)
			if removed > 0 {
				s.logger.Debug("Swept expired tiles", zap.Int("removed", removed))
			}
		}
	}
}
