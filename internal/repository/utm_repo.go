package repository

import (
	"context"

	"studiorent/internal/domain"

	"gorm.io/gorm"
)

type UtmCodeRepository struct {
	db *gorm.DB
}

func NewUtmCodeRepository(db *gorm.DB) *UtmCodeRepository {
	return &UtmCodeRepository{db: db}
}

func (r *UtmCodeRepository) Create(ctx context.Context, utm *domain.UtmCode) error {
	return r.db.WithContext(ctx).Create(utm).Error
}
