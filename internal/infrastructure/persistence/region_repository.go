package persistence

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/hubzone/backend/internal/domain/shared"
	"github.com/hubzone/backend/internal/domain/zone"
	"github.com/hubzone/backend/internal/infrastructure/persistence/models"
)

// GormRegionRepository implements zone.RegionRepository against
// PostGIS. Every method is read-only; region rows are written by the
// bulk importer outside this service.
type GormRegionRepository struct {
	db *gorm.DB
}

// NewGormRegionRepository creates a new GormRegionRepository
func NewGormRegionRepository(db *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: db}
}

// tileSQL clips every designated region intersecting the EPSG:3857
// envelope into tile-local coordinates and aggregates them into one
// binary vector tile. Clipping happens against the envelope the tile
// math computed, so adjoining tiles whose envelopes share an edge
// ordinate clip identically from both sides.
const tileSQL = `
WITH bounds AS (
	SELECT ST_MakeEnvelope(?, ?, ?, ?, 3857) AS geom
),
mvtgeom AS (
	SELECT
		ST_AsMVTGeom(
			ST_SimplifyPreserveTopology(ST_Transform(zr.geom, 3857), ?),
			bounds.geom, ?, ?, true
		) AS geom,
		zr.tract_id,
		zr.name,
		zr.zone_type,
		zr.status,
		zr.state,
		zr.county,
		to_char(zr.designation_date, 'YYYY-MM-DD') AS designation_date,
		to_char(zr.expiration_date, 'YYYY-MM-DD') AS expiration_date,
		zr.is_redesignated
	FROM zone_regions zr, bounds
	WHERE zr.status IN ?
	  AND ST_Intersects(zr.geom, ST_Transform(bounds.geom, 4326))
)
SELECT ST_AsMVT(mvtgeom.*, ?, ?, 'geom') AS tile
FROM mvtgeom
WHERE mvtgeom.geom IS NOT NULL
`

// RenderTile encodes the designated regions intersecting the envelope
// into a vector tile. Zero intersecting regions yield empty bytes.
func (r *GormRegionRepository) RenderTile(ctx context.Context, p zone.TileRenderParams) ([]byte, error) {
	var row struct {
		Tile []byte
	}
	err := r.db.WithContext(ctx).Raw(tileSQL,
		p.Envelope.MinX, p.Envelope.MinY, p.Envelope.MaxX, p.Envelope.MaxY,
		p.SimplifyTolerance,
		p.Extent, p.Buffer,
		zone.DesignatedStatuses(),
		p.Layer, p.Extent,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.Tile == nil {
		// ST_AsMVT aggregates zero rows to NULL; an empty tile is a
		// valid zero-length payload.
		return []byte{}, nil
	}
	return row.Tile, nil
}

const radiusSQL = `
SELECT
	id, tract_id, name, zone_type, status, state, county,
	designation_date, expiration_date, is_redesignated,
	grace_period_end, created_at, updated_at,
	ST_Distance(
		geom::geography,
		ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography
	) AS distance_meters
FROM zone_regions
WHERE status IN ?
  AND ST_DWithin(
	geom::geography,
	ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography,
	?
  )
ORDER BY distance_meters ASC
LIMIT ?
`

// SearchWithinRadius returns designated regions within radiusMeters of
// the point, nearest first. Distance is spheroidal (geography type);
// ties keep the store's row order.
func (r *GormRegionRepository) SearchWithinRadius(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]zone.RegionDistance, error) {
	var rows []struct {
		models.ZoneRegionModel
		DistanceMeters float64
	}
	err := r.db.WithContext(ctx).Raw(radiusSQL,
		lng, lat,
		zone.DesignatedStatuses(),
		lng, lat,
		radiusMeters,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]zone.RegionDistance, len(rows))
	for i, row := range rows {
		results[i] = zone.RegionDistance{
			Region:         row.ZoneRegionModel.ToDomain(),
			DistanceMeters: row.DistanceMeters,
		}
	}
	return results, nil
}

const detailSQL = `
SELECT
	zr.id, zr.tract_id, zr.name, zr.zone_type, zr.status, zr.state,
	zr.county, zr.designation_date, zr.expiration_date,
	zr.is_redesignated, zr.grace_period_end, zr.created_at, zr.updated_at,
	ST_AsGeoJSON(zr.geom) AS geometry_json,
	ST_Area(zr.geom::geography) AS area_sq_meters,
	(
		SELECT COUNT(*)
		FROM business_locations bl
		WHERE ST_Contains(zr.geom, bl.location)
	) AS business_count
FROM zone_regions zr
WHERE zr.tract_id = ?
LIMIT 1
`

// FindDetailByTractID loads one region with geometry, geographic area
// and the count of businesses contained in its polygon.
func (r *GormRegionRepository) FindDetailByTractID(ctx context.Context, tractID string) (*zone.RegionDetail, error) {
	var rows []struct {
		models.ZoneRegionModel
		GeometryJSON  string
		AreaSqMeters  float64
		BusinessCount int64
	}
	err := r.db.WithContext(ctx).Raw(detailSQL, tractID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}

	row := rows[0]
	return &zone.RegionDetail{
		Region:        row.ZoneRegionModel.ToDomain(),
		GeometryJSON:  json.RawMessage(row.GeometryJSON),
		AreaSqMeters:  row.AreaSqMeters,
		BusinessCount: row.BusinessCount,
	}, nil
}

// FindForExport returns the filtered export rows with geometry and a
// store-computed centroid, in stable tract-id order.
func (r *GormRegionRepository) FindForExport(ctx context.Context, f zone.ExportFilter) ([]zone.ExportRecord, error) {
	statuses := f.Statuses
	if len(statuses) == 0 {
		statuses = zone.DesignatedStatuses()
	}

	query := r.db.WithContext(ctx).
		Table("zone_regions").
		Select(`id, tract_id, name, zone_type, status, state, county,
			designation_date, expiration_date, is_redesignated,
			grace_period_end, created_at, updated_at,
			ST_AsGeoJSON(geom) AS geometry_json,
			ST_Y(ST_Centroid(geom)) AS centroid_lat,
			ST_X(ST_Centroid(geom)) AS centroid_lng`).
		Where("status IN ?", statuses)

	if f.State != "" {
		query = query.Where("state = ?", f.State)
	}
	if f.County != "" {
		query = query.Where("county = ?", f.County)
	}
	if len(f.ZoneTypes) > 0 {
		query = query.Where("zone_type IN ?", f.ZoneTypes)
	}

	var rows []struct {
		models.ZoneRegionModel
		GeometryJSON string
		CentroidLat  float64
		CentroidLng  float64
	}
	if err := query.Order("tract_id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]zone.ExportRecord, len(rows))
	for i, row := range rows {
		records[i] = zone.ExportRecord{
			Region:       row.ZoneRegionModel.ToDomain(),
			GeometryJSON: json.RawMessage(row.GeometryJSON),
			CentroidLat:  row.CentroidLat,
			CentroidLng:  row.CentroidLng,
		}
	}
	return records, nil
}

// CountBreakdown computes the portfolio counts from one grouped scan.
func (r *GormRegionRepository) CountBreakdown(ctx context.Context) (*zone.StatusBreakdown, error) {
	var rows []struct {
		ZoneType zone.ZoneType
		Status   zone.Status
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Table("zone_regions").
		Select("zone_type, status, COUNT(*) as count").
		Group("zone_type, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := &zone.StatusBreakdown{
		ByZoneType: make(map[zone.ZoneType]int64),
		ByStatus:   make(map[zone.Status]int64),
	}
	for _, row := range rows {
		breakdown.Total += row.Count
		breakdown.ByZoneType[row.ZoneType] += row.Count
		breakdown.ByStatus[row.Status] += row.Count
	}
	return breakdown, nil
}

const topStatesSQL = `
SELECT
	zr.state AS state,
	COUNT(DISTINCT bl.id) AS business_count,
	COUNT(DISTINCT zr.tract_id) AS tract_count
FROM zone_regions zr
LEFT JOIN business_locations bl ON ST_Contains(zr.geom, bl.location)
GROUP BY zr.state
ORDER BY business_count DESC
LIMIT ?
`

// TopStatesByBusinessCount ranks states by distinct businesses whose
// point location falls inside any of the state's region polygons.
func (r *GormRegionRepository) TopStatesByBusinessCount(ctx context.Context, limit int) ([]zone.StateRanking, error) {
	var rows []struct {
		State         string
		BusinessCount int64
		TractCount    int64
	}
	err := r.db.WithContext(ctx).Raw(topStatesSQL, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	rankings := make([]zone.StateRanking, len(rows))
	for i, row := range rows {
		rankings[i] = zone.StateRanking{
			State:         row.State,
			BusinessCount: row.BusinessCount,
			TractCount:    row.TractCount,
		}
	}
	return rankings, nil
}

// MaxUpdatedAt returns the newest region update timestamp, or nil when
// no regions exist.
func (r *GormRegionRepository) MaxUpdatedAt(ctx context.Context) (*time.Time, error) {
	var row struct {
		MaxUpdatedAt *time.Time
	}
	err := r.db.WithContext(ctx).
		Table("zone_regions").
		Select("MAX(updated_at) AS max_updated_at").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return row.MaxUpdatedAt, nil
}

// Ensure GormRegionRepository implements zone.RegionRepository
var _ zone.RegionRepository = (*GormRegionRepository)(nil)
