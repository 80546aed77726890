package maps

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hubzone/backend/internal/domain/shared"
	"github.com/hubzone/backend/internal/domain/zone"
)

func TestTractService_GetDetail(t *testing.T) {
	t.Run("assembles detail with history and area conversion", func(t *testing.T) {
		regionRepo := new(MockRegionRepository)
		historyRepo := new(MockHistoryRepository)
		svc := NewTractService(regionRepo, historyRepo)

		geometry := json.RawMessage(`{"type":"MultiPolygon","coordinates":[]}`)
		detail := &zone.RegionDetail{
			Region: zone.ZoneRegion{
				ID:      uuid.New(),
				TractID: "06075010100",
				Name:    "Census Tract 101",
				State:   "CA",
				County:  "San Francisco",
				Status:  zone.StatusActive,
			},
			GeometryJSON: geometry,
			// exactly 1.5 square miles
			AreaSqMeters:  3884982.165504,
			BusinessCount: 42,
		}
		effective := time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)
		history := []zone.DesignationHistoryEntry{
			{TractID: "06075010100", ZoneType: zone.ZoneTypeQualifiedTract, Status: zone.StatusActive, EffectiveDate: effective},
		}

		regionRepo.On("FindDetailByTractID", mock.Anything, "06075010100").Return(detail, nil)
		historyRepo.On("FindByTractID", mock.Anything, "06075010100").Return(history, nil)

		resp, err := svc.GetDetail(context.Background(), "06075010100")

		require.NoError(t, err)
		assert.Equal(t, "06075010100", resp.TractID)
		assert.Equal(t, 1.5, resp.AreaSqMiles)
		assert.Equal(t, int64(42), resp.BusinessCount)
		assert.Nil(t, resp.PopulationEstimate)
		assert.Equal(t, geometry, resp.Geometry)
		require.Len(t, resp.History, 1)
		assert.Equal(t, "active", resp.History[0].Status)
		regionRepo.AssertExpectations(t)
		historyRepo.AssertExpectations(t)
	})

	t.Run("propagates ErrNotFound for unknown tract", func(t *testing.T) {
		regionRepo := new(MockRegionRepository)
		historyRepo := new(MockHistoryRepository)
		svc := NewTractService(regionRepo, historyRepo)

		regionRepo.On("FindDetailByTractID", mock.Anything, "99999999999").
			Return(nil, shared.ErrNotFound)

		resp, err := svc.GetDetail(context.Background(), "99999999999")

		assert.Nil(t, resp)
		assert.Equal(t, shared.ErrNotFound, err)
		historyRepo.AssertNotCalled(t, "FindByTractID")
	})

	t.Run("tract without history gets an empty timeline", func(t *testing.T) {
		regionRepo := new(MockRegionRepository)
		historyRepo := new(MockHistoryRepository)
		svc := NewTractService(regionRepo, historyRepo)

		detail := &zone.RegionDetail{
			Region:       zone.ZoneRegion{TractID: "48201010100", Status: zone.StatusActive},
			GeometryJSON: json.RawMessage(`{"type":"MultiPolygon","coordinates":[]}`),
		}
		regionRepo.On("FindDetailByTractID", mock.Anything, "48201010100").Return(detail, nil)
		historyRepo.On("FindByTractID", mock.Anything, "48201010100").
			Return([]zone.DesignationHistoryEntry{}, nil)

		resp, err := svc.GetDetail(context.Background(), "48201010100")

		require.NoError(t, err)
		assert.Empty(t, resp.History)
	})
}
