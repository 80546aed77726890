package maps

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hubzone/backend/internal/domain/zone"
)

func newTestRadiusService(repo *MockRegionRepository) *RadiusService {
	return NewRadiusService(repo, SearchSettings{
		MaxRadiusMiles: 100,
		MaxResults:     50,
	}, zap.NewNop())
}

func TestRadiusService_Search(t *testing.T) {
	t.Run("converts distances to miles rounded to two decimals", func(t *testing.T) {
		repo := new(MockRegionRepository)
		svc := newTestRadiusService(repo)

		found := []zone.RegionDistance{
			{
				Region: zone.ZoneRegion{
					ID:       uuid.New(),
					TractID:  "06075010100",
					Name:     "Census Tract 101",
					ZoneType: zone.ZoneTypeQualifiedTract,
					Status:   zone.StatusActive,
					State:    "CA",
					County:   "San Francisco",
				},
				// 1609.344 m is exactly one mile
				DistanceMeters: 2414.016,
			},
		}
		repo.On("SearchWithinRadius", mock.Anything, 37.78, -122.42, mock.Anything, 50).
			Return(found, nil)

		resp, err := svc.Search(context.Background(), RadiusSearchRequest{
			Latitude:    37.78,
			Longitude:   -122.42,
			RadiusMiles: 10,
		})

		require.NoError(t, err)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, 1.5, resp.Results[0].DistanceMiles)
		assert.Equal(t, 10.0, resp.SearchedRadiusMiles)
		assert.Equal(t, 1, resp.TotalCount)
		repo.AssertExpectations(t)
	})

	t.Run("clamps radius to the configured maximum", func(t *testing.T) {
		repo := new(MockRegionRepository)
		svc := newTestRadiusService(repo)

		// 100 miles in meters
		repo.On("SearchWithinRadius", mock.Anything, 30.0, -95.0, 160934.4, 50).
			Return([]zone.RegionDistance{}, nil)

		resp, err := svc.Search(context.Background(), RadiusSearchRequest{
			Latitude:    30,
			Longitude:   -95,
			RadiusMiles: 2500,
		})

		require.NoError(t, err)
		assert.Equal(t, 100.0, resp.SearchedRadiusMiles)
		assert.Equal(t, 0, resp.TotalCount)
		assert.Empty(t, resp.Results)
		repo.AssertExpectations(t)
	})

	t.Run("searches by magnitude for a negative radius", func(t *testing.T) {
		repo := new(MockRegionRepository)
		svc := newTestRadiusService(repo)

		repo.On("SearchWithinRadius", mock.Anything, 30.0, -95.0, 8046.72, 50).
			Return([]zone.RegionDistance{}, nil)

		resp, err := svc.Search(context.Background(), RadiusSearchRequest{
			Latitude:    30,
			Longitude:   -95,
			RadiusMiles: -5,
		})

		require.NoError(t, err)
		assert.Equal(t, 5.0, resp.SearchedRadiusMiles)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid coordinates", func(t *testing.T) {
		repo := new(MockRegionRepository)
		svc := newTestRadiusService(repo)

		_, err := svc.Search(context.Background(), RadiusSearchRequest{
			Latitude:    91,
			Longitude:   0,
			RadiusMiles: 10,
		})
		assert.Error(t, err)

		_, err = svc.Search(context.Background(), RadiusSearchRequest{
			Latitude:    0,
			Longitude:   -181,
			RadiusMiles: 10,
		})
		assert.Error(t, err)

		repo.AssertNotCalled(t, "SearchWithinRadius")
	})
}
