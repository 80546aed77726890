package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hubzone/backend/internal/infrastructure/config"
)

// NewTileCache selects the tile cache backend by configuration: Redis
// when enabled and reachable, otherwise the in-process FIFO cache.
// Redis being unreachable at startup is a warning, not a failure; the
// cache is an optimization, the spatial store stays authoritative.
func NewTileCache(cfg *config.Config, logger *zap.Logger) TileCache {
	if cfg.Redis.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		store, err := NewRedisTileCache(addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Tile.TTL, logger)
		if err == nil {
			logger.Info("using Redis tile cache", zap.String("addr", addr))
			return store
		}
		logger.Warn("Redis unavailable, falling back to in-memory tile cache", zap.Error(err))
	}

	return NewInMemoryTileCache(
		WithTTL(cfg.Tile.TTL),
		WithMaxEntries(cfg.Tile.MaxEntries),
		WithLogger(logger),
	)
}
