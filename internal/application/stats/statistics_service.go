// Package stats aggregates portfolio-wide designation statistics.
package stats

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hubzone/backend/internal/domain/shared"
	"github.com/hubzone/backend/internal/domain/zone"
	"github.com/hubzone/backend/internal/infrastructure/cache"
)

const topStatesLimit = 10

// CacheStatsProvider exposes tile cache counters to the statistics
// view without coupling this package to a concrete cache.
type CacheStatsProvider interface {
	CacheStats() cache.Stats
}

// StatisticsService assembles the portfolio summary shown on the map
// dashboard.
type StatisticsService struct {
	regionRepo    zone.RegionRepository
	importRepo    zone.ImportRunRepository
	statsProvider CacheStatsProvider
	logger        *zap.Logger
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(
	regionRepo zone.RegionRepository,
	importRepo zone.ImportRunRepository,
	statsProvider CacheStatsProvider,
	logger *zap.Logger,
) *StatisticsService {
	return &StatisticsService{
		regionRepo:    regionRepo,
		importRepo:    importRepo,
		statsProvider: statsProvider,
		logger:        logger,
	}
}

// StateRankingResponse is one row of the state leaderboard.
type StateRankingResponse struct {
	State         string `json:"state"`
	BusinessCount int64  `json:"business_count"`
	TractCount    int64  `json:"tract_count"`
}

// CacheStatsResponse reports the tile cache counters.
type CacheStatsResponse struct {
	Size    int   `json:"size"`
	MaxSize int   `json:"max_size"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// StatisticsResponse is the portfolio summary.
type StatisticsResponse struct {
	TotalRegions       int64                  `json:"total_regions"`
	DesignatedRegions  int64                  `json:"designated_regions"`
	ActiveRegions      int64                  `json:"active_regions"`
	RedesignatedCount  int64                  `json:"redesignated_count"`
	ExpiredCount       int64                  `json:"expired_count"`
	CountsByZoneType   map[string]int64       `json:"counts_by_zone_type"`
	CountsByStatus     map[string]int64       `json:"counts_by_status"`
	TopStates          []StateRankingResponse `json:"top_states"`
	DataLastUpdated    *time.Time             `json:"data_last_updated"`
	TileCache          CacheStatsResponse     `json:"tile_cache"`
}

// GetStatistics computes the portfolio summary from one grouped count
// scan plus the state leaderboard. Designated is the sum of active and
// redesignated rows, so designated <= total and active <= designated
// hold by construction.
func (s *StatisticsService) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	breakdown, err := s.regionRepo.CountBreakdown(ctx)
	if err != nil {
		return nil, err
	}

	rankings, err := s.regionRepo.TopStatesByBusinessCount(ctx, topStatesLimit)
	if err != nil {
		return nil, err
	}

	topStates := make([]StateRankingResponse, len(rankings))
	for i, r := range rankings {
		topStates[i] = StateRankingResponse{
			State:         r.State,
			BusinessCount: r.BusinessCount,
			TractCount:    r.TractCount,
		}
	}

	// Every enum value appears in the breakdown even when no rows
	// carry it, so dashboard consumers see explicit zeros.
	byZoneType := make(map[string]int64, len(zone.AllZoneTypes()))
	for _, zt := range zone.AllZoneTypes() {
		byZoneType[string(zt)] = breakdown.ByZoneType[zt]
	}
	byStatus := make(map[string]int64, len(zone.AllStatuses()))
	for _, st := range zone.AllStatuses() {
		byStatus[string(st)] = breakdown.ByStatus[st]
	}

	active := breakdown.ByStatus[zone.StatusActive]
	redesignated := breakdown.ByStatus[zone.StatusRedesignated]

	cacheStats := s.statsProvider.CacheStats()

	return &StatisticsResponse{
		TotalRegions:      breakdown.Total,
		DesignatedRegions: active + redesignated,
		ActiveRegions:     active,
		RedesignatedCount: redesignated,
		ExpiredCount:      breakdown.ByStatus[zone.StatusExpired],
		CountsByZoneType:  byZoneType,
		CountsByStatus:    byStatus,
		TopStates:         topStates,
		DataLastUpdated:   s.dataLastUpdated(ctx),
		TileCache: CacheStatsResponse{
			Size:    cacheStats.Size,
			MaxSize: cacheStats.MaxSize,
			Hits:    cacheStats.Hits,
			Misses:  cacheStats.Misses,
		},
	}, nil
}

// dataLastUpdated prefers the completion time of the latest import
// run, falling back to the newest region row. Both missing means the
// store is empty and the field is null.
func (s *StatisticsService) dataLastUpdated(ctx context.Context) *time.Time {
	run, err := s.importRepo.LatestCompleted(ctx)
	if err == nil && run.CompletedAt != nil {
		return run.CompletedAt
	}
	if err != nil && !shared.IsNotFound(err) {
		s.logger.Warn("failed to load latest import run", zap.Error(err))
	}

	maxUpdated, err := s.regionRepo.MaxUpdatedAt(ctx)
	if err != nil {
		s.logger.Warn("failed to load region freshness", zap.Error(err))
		return nil
	}
	return maxUpdated
}
