package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hubzone/backend/internal/domain/zone"
)

// DesignationHistoryModel is the persistence model for one
// designation transition.
type DesignationHistoryModel struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	TractID       string        `gorm:"type:varchar(32);not null;index"`
	ZoneType      zone.ZoneType `gorm:"type:varchar(32);not null"`
	Status        zone.Status   `gorm:"type:varchar(16);not null"`
	EffectiveDate time.Time     `gorm:"type:date;not null"`
	EndDate       *time.Time    `gorm:"type:date"`
	Reason        *string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DesignationHistoryModel) TableName() string {
	return "designation_histories"
}

// ToDomain converts the persistence model to a domain history entry.
func (m *DesignationHistoryModel) ToDomain() zone.DesignationHistoryEntry {
	return zone.DesignationHistoryEntry{
		ID:            m.ID,
		TractID:       m.TractID,
		ZoneType:      m.ZoneType,
		Status:        m.Status,
		EffectiveDate: m.EffectiveDate,
		EndDate:       m.EndDate,
		Reason:        m.Reason,
	}
}
