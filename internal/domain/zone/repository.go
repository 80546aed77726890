package zone

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hubzone/backend/internal/domain/geo"
)

// TileRenderParams describes one vector-tile rendering request against
// the spatial store. The envelope is in EPSG:3857 meters; the store
// clips matched geometries into the tile-local integer grid.
type TileRenderParams struct {
	Envelope          geo.Envelope
	Extent            int
	Buffer            int
	SimplifyTolerance float64
	Layer             string
}

// RegionDistance is a radius-search row: a region plus its distance
// from the query point as computed by the store.
type RegionDistance struct {
	Region         ZoneRegion
	DistanceMeters float64
}

// RegionDetail carries everything the tract-detail view needs in one
// fetch: the region, its geometry as GeoJSON and its geographic area.
type RegionDetail struct {
	Region        ZoneRegion
	GeometryJSON  json.RawMessage
	AreaSqMeters  float64
	BusinessCount int64
}

// ExportFilter narrows an export query. Zero values mean "no filter";
// an empty Statuses slice defaults to the designated statuses.
type ExportFilter struct {
	State     string
	County    string
	ZoneTypes []ZoneType
	Statuses  []Status
}

// ExportRecord is a flattened region row for export, with geometry and
// a store-computed centroid.
type ExportRecord struct {
	Region       ZoneRegion
	GeometryJSON json.RawMessage
	CentroidLat  float64
	CentroidLng  float64
}

// StateRanking is one row of the top-states spatial join.
type StateRanking struct {
	State         string
	BusinessCount int64
	TractCount    int64
}

// StatusBreakdown are the single-pass portfolio counts.
type StatusBreakdown struct {
	Total      int64
	ByZoneType map[ZoneType]int64
	ByStatus   map[Status]int64
}

// ImportRun is the read-only record the bulk importer leaves behind;
// only its completion timestamp matters here.
type ImportRun struct {
	ID          uuid.UUID
	Status      string
	CompletedAt *time.Time
}

// RegionRepository is the contract the spatial store fulfils for zone
// regions. Implementations are read-only.
type RegionRepository interface {
	// RenderTile clips and encodes every designated region
	// intersecting the envelope into a binary vector tile. A tile
	// with no intersecting regions is zero-length bytes, not an
	// error.
	RenderTile(ctx context.Context, p TileRenderParams) ([]byte, error)

	// SearchWithinRadius returns designated regions within
	// radiusMeters of the point, nearest first, capped at limit.
	SearchWithinRadius(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]RegionDistance, error)

	// FindDetailByTractID loads one region with geometry, area and
	// contained-business count. Returns shared.ErrNotFound when the
	// tract is unknown.
	FindDetailByTractID(ctx context.Context, tractID string) (*RegionDetail, error)

	// FindForExport returns the filtered export rows in stable
	// tract-id order.
	FindForExport(ctx context.Context, f ExportFilter) ([]ExportRecord, error)

	// CountBreakdown computes the portfolio counts in one pass.
	CountBreakdown(ctx context.Context) (*StatusBreakdown, error)

	// TopStatesByBusinessCount ranks states by distinct businesses
	// located inside any of the state's regions.
	TopStatesByBusinessCount(ctx context.Context, limit int) ([]StateRanking, error)

	// MaxUpdatedAt returns the newest region update timestamp, or
	// nil when the table is empty.
	MaxUpdatedAt(ctx context.Context) (*time.Time, error)
}

// HistoryRepository loads designation-history timelines.
type HistoryRepository interface {
	// FindByTractID returns the tract's transitions, most recent
	// effective date first. An unknown tract yields an empty slice.
	FindByTractID(ctx context.Context, tractID string) ([]DesignationHistoryEntry, error)
}

// ImportRunRepository reads the import-tracking record.
type ImportRunRepository interface {
	// LatestCompleted returns the most recent completed import run,
	// or shared.ErrNotFound when none exists.
	LatestCompleted(ctx context.Context) (*ImportRun, error)
}
