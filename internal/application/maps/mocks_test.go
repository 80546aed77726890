package maps

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/hubzone/backend/internal/domain/zone"
)

// MockRegionRepository is a mock implementation of zone.RegionRepository
type MockRegionRepository struct {
	mock.Mock
}

func (m *MockRegionRepository) RenderTile(ctx context.Context, p zone.TileRenderParams) ([]byte, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRegionRepository) SearchWithinRadius(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]zone.RegionDistance, error) {
	args := m.Called(ctx, lat, lng, radiusMeters, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]zone.RegionDistance), args.Error(1)
}

func (m *MockRegionRepository) FindDetailByTractID(ctx context.Context, tractID string) (*zone.RegionDetail, error) {
	args := m.Called(ctx, tractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*zone.RegionDetail), args.Error(1)
}

func (m *MockRegionRepository) FindForExport(ctx context.Context, f zone.ExportFilter) ([]zone.ExportRecord, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]zone.ExportRecord), args.Error(1)
}

func (m *MockRegionRepository) CountBreakdown(ctx context.Context) (*zone.StatusBreakdown, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*zone.StatusBreakdown), args.Error(1)
}

func (m *MockRegionRepository) TopStatesByBusinessCount(ctx context.Context, limit int) ([]zone.StateRanking, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]zone.StateRanking), args.Error(1)
}

func (m *MockRegionRepository) MaxUpdatedAt(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

// MockHistoryRepository is a mock implementation of zone.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) FindByTractID(ctx context.Context, tractID string) ([]zone.DesignationHistoryEntry, error) {
	args := m.Called(ctx, tractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]zone.DesignationHistoryEntry), args.Error(1)
}
