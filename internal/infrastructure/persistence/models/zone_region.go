// Package models holds the GORM persistence models backing the zone
// domain. The geometry columns are PostGIS types and are only touched
// through spatial SQL expressions, never scanned into Go structs.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hubzone/backend/internal/domain/zone"
)

// ZoneRegionModel is the persistence model for the ZoneRegion domain
// entity. The `geom` column (geometry(MultiPolygon,4326)) is omitted:
// reads go through ST_* expressions and writes belong to the bulk
// importer, not this service.
type ZoneRegionModel struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey"`
	TractID         string        `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name            string        `gorm:"type:varchar(255);not null"`
	ZoneType        zone.ZoneType `gorm:"type:varchar(32);not null;index"`
	Status          zone.Status   `gorm:"type:varchar(16);not null;index"`
	State           string        `gorm:"type:varchar(2);not null;index"`
	County          string        `gorm:"type:varchar(128);not null"`
	DesignationDate time.Time     `gorm:"type:date;not null"`
	ExpirationDate  *time.Time    `gorm:"type:date"`
	IsRedesignated  bool          `gorm:"not null;default:false"`
	GracePeriodEnd  *time.Time    `gorm:"type:date"`
	CreatedAt       time.Time     `gorm:"type:timestamptz;not null"`
	UpdatedAt       time.Time     `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (ZoneRegionModel) TableName() string {
	return "zone_regions"
}

// ToDomain converts the persistence model to a domain ZoneRegion.
func (m *ZoneRegionModel) ToDomain() zone.ZoneRegion {
	return zone.ZoneRegion{
		ID:              m.ID,
		TractID:         m.TractID,
		Name:            m.Name,
		ZoneType:        m.ZoneType,
		Status:          m.Status,
		State:           m.State,
		County:          m.County,
		DesignationDate: m.DesignationDate,
		ExpirationDate:  m.ExpirationDate,
		IsRedesignated:  m.IsRedesignated,
		GracePeriodEnd:  m.GracePeriodEnd,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
