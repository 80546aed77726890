// Package maps implements the application services behind the public
// map endpoints: vector tile generation, proximity search and tract
// detail assembly.
package maps

import (
	"context"

	"go.uber.org/zap"

	"github.com/hubzone/backend/internal/domain/geo"
	"github.com/hubzone/backend/internal/domain/zone"
	"github.com/hubzone/backend/internal/infrastructure/cache"
)

// TileSettings controls the vector tile encoding parameters.
type TileSettings struct {
	Extent            int
	Buffer            int
	SimplifyTolerance float64
	Layer             string
}

// TileService serves Mapbox Vector Tiles for the designation map,
// backed by a bounded cache so repeat viewport requests never touch
// the spatial store.
type TileService struct {
	regionRepo zone.RegionRepository
	tileCache  cache.TileCache
	settings   TileSettings
	logger     *zap.Logger
}

// NewTileService creates a new TileService
func NewTileService(regionRepo zone.RegionRepository, tileCache cache.TileCache, settings TileSettings, logger *zap.Logger) *TileService {
	return &TileService{
		regionRepo: regionRepo,
		tileCache:  tileCache,
		settings:   settings,
		logger:     logger,
	}
}

// GetTile returns the encoded vector tile for the coordinate, serving
// from cache when possible. The second return reports a cache hit.
// An empty tile is a valid payload and is cached like any other so
// ocean tiles don't re-query the store on every pan.
func (s *TileService) GetTile(ctx context.Context, coord geo.TileCoordinate) ([]byte, bool, error) {
	if err := coord.Validate(); err != nil {
		return nil, false, err
	}

	key := coord.CacheKey()
	if data, ok := s.tileCache.Get(ctx, key); ok {
		return data, true, nil
	}

	data, err := s.regionRepo.RenderTile(ctx, zone.TileRenderParams{
		Envelope:          coord.MercatorEnvelope(),
		Extent:            s.settings.Extent,
		Buffer:            s.settings.Buffer,
		SimplifyTolerance: s.simplifyToleranceFor(coord.Z),
		Layer:             s.settings.Layer,
	})
	if err != nil {
		return nil, false, err
	}

	s.tileCache.Set(ctx, key, data)
	s.logger.Debug("tile rendered",
		zap.Int("z", coord.Z),
		zap.Int("x", coord.X),
		zap.Int("y", coord.Y),
		zap.Int("bytes", len(data)))
	return data, false, nil
}

// simplifyToleranceFor scales the simplification tolerance down as
// zoom increases; at the deepest zoom levels geometry passes through
// unsimplified.
func (s *TileService) simplifyToleranceFor(zoom int) float64 {
	if zoom >= 12 {
		return 0
	}
	return s.settings.SimplifyTolerance / float64(int(1)<<zoom)
}

// CacheStats exposes the tile cache counters for the statistics view.
func (s *TileService) CacheStats() cache.Stats {
	return s.tileCache.CacheStats()
}

// InvalidateCache drops every cached tile. Called after a designation
// data import lands so stale boundaries are not served.
func (s *TileService) InvalidateCache(ctx context.Context) {
	s.tileCache.Clear(ctx)
	s.logger.Info("tile cache invalidated")
}
