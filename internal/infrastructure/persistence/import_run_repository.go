package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hubzone/backend/internal/domain/shared"
	"github.com/hubzone/backend/internal/domain/zone"
	"github.com/hubzone/backend/internal/infrastructure/persistence/models"
)

// GormImportRunRepository implements zone.ImportRunRepository
type GormImportRunRepository struct {
	db *gorm.DB
}

// NewGormImportRunRepository creates a new GormImportRunRepository
func NewGormImportRunRepository(db *gorm.DB) *GormImportRunRepository {
	return &GormImportRunRepository{db: db}
}

// LatestCompleted returns the most recently completed import run.
func (r *GormImportRunRepository) LatestCompleted(ctx context.Context) (*zone.ImportRun, error) {
	var row models.ImportRunModel
	err := r.db.WithContext(ctx).
		Where("status = ?", "completed").
		Order("completed_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	run := row.ToDomain()
	return &run, nil
}

// Ensure GormImportRunRepository implements zone.ImportRunRepository
var _ zone.ImportRunRepository = (*GormImportRunRepository)(nil)
