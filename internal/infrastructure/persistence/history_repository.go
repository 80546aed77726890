package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/hubzone/backend/internal/domain/zone"
	"github.com/hubzone/backend/internal/infrastructure/persistence/models"
)

// GormHistoryRepository implements zone.HistoryRepository
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// FindByTractID returns the designation timeline for a tract, newest
// effective date first. An unknown tract yields an empty slice, not an
// error; the caller decides whether an empty timeline is meaningful.
func (r *GormHistoryRepository) FindByTractID(ctx context.Context, tractID string) ([]zone.DesignationHistoryEntry, error) {
	var rows []models.DesignationHistoryModel
	err := r.db.WithContext(ctx).
		Where("tract_id = ?", tractID).
		Order("effective_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]zone.DesignationHistoryEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.ToDomain()
	}
	return entries, nil
}

// Ensure GormHistoryRepository implements zone.HistoryRepository
var _ zone.HistoryRepository = (*GormHistoryRepository)(nil)
