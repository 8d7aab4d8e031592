package repository

import (
	"context"

	"studiorent/internal/domain"

	"gorm.io/gorm"
)

type DeferredActionRepository struct {
	db *gorm.DB
}

func NewDeferredActionRepository(db *gorm.DB) *DeferredActionRepository {
	return &DeferredActionRepository{db: db}
}

func (r *DeferredActionRepository) Create(ctx context.Context, a *domain.DeferredAction) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// GetPending returns queued actions for the external worker, oldest first.
func (r *DeferredActionRepository) GetPending(ctx context.Context, limit int) ([]domain.DeferredAction, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []domain.DeferredAction
	tx := r.db.WithContext(ctx).
		Where("status = ?", domain.DeferredPending).
		Order("created_at").
		Limit(limit).
		Find(&rows)
	return rows, tx.Error
}
