package repository

import (
	"context"
	"errors"

	"studiorent/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// GetByID returns an active room with its published extras, or (nil, nil)
// when absent. Used when a booking targets a new room.
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	tx := r.db.WithContext(ctx).
		Preload("Extras", "published_at IS NOT NULL").
		First(&room, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return &room, nil
}

// GetByIDWithDeleted resolves a room even after soft deletion. Existing
// bookings keep referencing removed rooms, so history must still resolve.
func (r *RoomRepository) GetByIDWithDeleted(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	tx := r.db.WithContext(ctx).
		Unscoped().
		Preload("Extras", "published_at IS NOT NULL").
		First(&room, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return &room, nil
}

// FindExtraByID returns a published extra or (nil, nil) when the id is
// unknown or unpublished.
func (r *RoomRepository) FindExtraByID(ctx context.Context, id int64) (*domain.Extra, error) {
	var extra domain.Extra
	tx := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL").
		First(&extra, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return &extra, nil
}
