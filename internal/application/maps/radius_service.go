package maps

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hubzone/backend/internal/domain/geo"
	"github.com/hubzone/backend/internal/domain/zone"
)

// SearchSettings bounds the proximity search.
type SearchSettings struct {
	MaxRadiusMiles float64
	MaxResults     int
}

// RadiusService finds designated regions near a point.
type RadiusService struct {
	regionRepo zone.RegionRepository
	settings   SearchSettings
	logger     *zap.Logger
}

// NewRadiusService creates a new RadiusService
func NewRadiusService(regionRepo zone.RegionRepository, settings SearchSettings, logger *zap.Logger) *RadiusService {
	return &RadiusService{
		regionRepo: regionRepo,
		settings:   settings,
		logger:     logger,
	}
}

// RadiusSearchRequest is the proximity search input. Presence of the
// coordinate parameters is checked at the HTTP layer; zero is a valid
// latitude and longitude.
type RadiusSearchRequest struct {
	Latitude    float64 `form:"lat"`
	Longitude   float64 `form:"lng"`
	RadiusMiles float64 `form:"radius"`
}

// RadiusResultItem is one region in a proximity search result.
type RadiusResultItem struct {
	TractID         string     `json:"tract_id"`
	Name            string     `json:"name"`
	ZoneType        string     `json:"zone_type"`
	Status          string     `json:"status"`
	State           string     `json:"state"`
	County          string     `json:"county"`
	DistanceMiles   float64    `json:"distance_miles"`
	DesignationDate time.Time  `json:"designation_date"`
	ExpirationDate  *time.Time `json:"expiration_date,omitempty"`
	IsRedesignated  bool       `json:"is_redesignated"`
	ID              uuid.UUID  `json:"id"`
}

// RadiusSearchResponse echoes the radius actually searched so clients
// can see when their request was clamped.
type RadiusSearchResponse struct {
	Latitude            float64            `json:"latitude"`
	Longitude           float64            `json:"longitude"`
	SearchedRadiusMiles float64            `json:"searched_radius_miles"`
	TotalCount          int                `json:"total_count"`
	Results             []RadiusResultItem `json:"results"`
}

// Search returns designated regions within the radius of the point,
// nearest first. The radius is clamped to the configured maximum
// (negative radii search by magnitude) and the result set is capped
// at the configured limit.
func (s *RadiusService) Search(ctx context.Context, req RadiusSearchRequest) (*RadiusSearchResponse, error) {
	if err := geo.ValidateLatLng(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	radius := math.Abs(req.RadiusMiles)
	if radius > s.settings.MaxRadiusMiles {
		radius = s.settings.MaxRadiusMiles
	}

	found, err := s.regionRepo.SearchWithinRadius(ctx,
		req.Latitude, req.Longitude,
		geo.MilesToMeters(radius),
		s.settings.MaxResults,
	)
	if err != nil {
		return nil, err
	}

	results := make([]RadiusResultItem, len(found))
	for i, rd := range found {
		results[i] = RadiusResultItem{
			ID:              rd.Region.ID,
			TractID:         rd.Region.TractID,
			Name:            rd.Region.Name,
			ZoneType:        string(rd.Region.ZoneType),
			Status:          string(rd.Region.Status),
			State:           rd.Region.State,
			County:          rd.Region.County,
			DistanceMiles:   geo.Round2(geo.MetersToMiles(rd.DistanceMeters)),
			DesignationDate: rd.Region.DesignationDate,
			ExpirationDate:  rd.Region.ExpirationDate,
			IsRedesignated:  rd.Region.IsRedesignated,
		}
	}

	s.logger.Debug("radius search",
		zap.Float64("lat", req.Latitude),
		zap.Float64("lng", req.Longitude),
		zap.Float64("radius_miles", radius),
		zap.Int("results", len(results)))

	return &RadiusSearchResponse{
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		SearchedRadiusMiles: radius,
		TotalCount:          len(results),
		Results:             results,
	}, nil
}
