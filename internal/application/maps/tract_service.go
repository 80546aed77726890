package maps

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hubzone/backend/internal/domain/geo"
	"github.com/hubzone/backend/internal/domain/zone"
)

// TractService assembles the detail view for a single census tract.
type TractService struct {
	regionRepo  zone.RegionRepository
	historyRepo zone.HistoryRepository
}

// NewTractService creates a new TractService
func NewTractService(regionRepo zone.RegionRepository, historyRepo zone.HistoryRepository) *TractService {
	return &TractService{
		regionRepo:  regionRepo,
		historyRepo: historyRepo,
	}
}

// HistoryEntryResponse is one entry in a tract's designation timeline.
type HistoryEntryResponse struct {
	ZoneType      string     `json:"zone_type"`
	Status        string     `json:"status"`
	EffectiveDate time.Time  `json:"effective_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	Reason        *string    `json:"reason,omitempty"`
}

// TractDetailResponse is the assembled detail view of one tract.
type TractDetailResponse struct {
	ID                 uuid.UUID              `json:"id"`
	TractID            string                 `json:"tract_id"`
	Name               string                 `json:"name"`
	ZoneType           string                 `json:"zone_type"`
	Status             string                 `json:"status"`
	State              string                 `json:"state"`
	County             string                 `json:"county"`
	DesignationDate    time.Time              `json:"designation_date"`
	ExpirationDate     *time.Time             `json:"expiration_date,omitempty"`
	IsRedesignated     bool                   `json:"is_redesignated"`
	GracePeriodEnd     *time.Time             `json:"grace_period_end,omitempty"`
	AreaSqMiles        float64                `json:"area_sq_miles"`
	BusinessCount      int64                  `json:"business_count"`
	PopulationEstimate *int64                 `json:"population_estimate"`
	Geometry           json.RawMessage        `json:"geometry"`
	History            []HistoryEntryResponse `json:"history"`
}

// GetDetail assembles the detail view for a tract: the region row, its
// geometry and geographic area, the count of businesses inside it and
// its designation timeline, newest first. Unknown tracts surface
// shared.ErrNotFound unchanged.
//
// PopulationEstimate is always null until a demographics source is
// wired in; the field stays in the payload so clients don't need a
// schema change when it lands.
func (s *TractService) GetDetail(ctx context.Context, tractID string) (*TractDetailResponse, error) {
	detail, err := s.regionRepo.FindDetailByTractID(ctx, tractID)
	if err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.FindByTractID(ctx, tractID)
	if err != nil {
		return nil, err
	}

	history := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		history[i] = HistoryEntryResponse{
			ZoneType:      string(e.ZoneType),
			Status:        string(e.Status),
			EffectiveDate: e.EffectiveDate,
			EndDate:       e.EndDate,
			Reason:        e.Reason,
		}
	}

	return &TractDetailResponse{
		ID:                 detail.Region.ID,
		TractID:            detail.Region.TractID,
		Name:               detail.Region.Name,
		ZoneType:           string(detail.Region.ZoneType),
		Status:             string(detail.Region.Status),
		State:              detail.Region.State,
		County:             detail.Region.County,
		DesignationDate:    detail.Region.DesignationDate,
		ExpirationDate:     detail.Region.ExpirationDate,
		IsRedesignated:     detail.Region.IsRedesignated,
		GracePeriodEnd:     detail.Region.GracePeriodEnd,
		AreaSqMiles:        geo.Round2(geo.SquareMetersToSquareMiles(detail.AreaSqMeters)),
		BusinessCount:      detail.BusinessCount,
		PopulationEstimate: nil,
		Geometry:           detail.GeometryJSON,
		History:            history,
	}, nil
}
