package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hubzone/backend/internal/domain/zone"
)

// ImportRunModel is the read-only persistence model for bulk-import
// tracking records.
type ImportRunModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status      string     `gorm:"type:varchar(16);not null;index"`
	StartedAt   time.Time  `gorm:"type:timestamptz;not null"`
	CompletedAt *time.Time `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (ImportRunModel) TableName() string {
	return "import_runs"
}

// ToDomain converts the persistence model to a domain ImportRun.
func (m *ImportRunModel) ToDomain() zone.ImportRun {
	return zone.ImportRun{
		ID:          m.ID,
		Status:      m.Status,
		CompletedAt: m.CompletedAt,
	}
}
