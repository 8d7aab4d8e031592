package repository

import (
	"context"

	"studiorent/internal/domain"

	"gorm.io/gorm"
)

type RefundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

func (r *RefundRepository) Create(ctx context.Context, refund *domain.Refund) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *RefundRepository) GetByBookingID(ctx context.Context, bookingID int64) ([]domain.Refund, error) {
	var rows []domain.Refund
	tx := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at").
		Find(&rows)
	return rows, tx.Error
}
