package domain

import (
	"time"

	"gorm.io/gorm"
)

// Room — зал студии. Hourly prices per rental purpose, minor currency units.
type Room struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	StudioID int64  `json:"studio_id"`
	Name     string `json:"name"`

	PhotoPricePerHour int64 `json:"photo_price_per_hour"`
	VideoPricePerHour int64 `json:"video_price_per_hour"`
	EventPricePerHour int64 `json:"event_price_per_hour"`

	// DiscountPercent is the flat room discount applied to every booking.
	DiscountPercent int `json:"discount_percent"`

	// IsPrepayment marks rooms that demand prepayment from customers.
	IsPrepayment bool `json:"is_prepayment"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Extras []Extra `json:"extras,omitempty" gorm:"foreignKey:RoomID"`
}

// HourlyPriceFor picks the rate for the rental purpose.
func (r *Room) HourlyPriceFor(pt PriceType) int64 {
	switch pt {
	case PriceVideo:
		return r.VideoPricePerHour
	case PriceEvent:
		return r.EventPricePerHour
	default:
		return r.PhotoPricePerHour
	}
}

// Extra is a bookable add-on service of a room. Only published extras are
// offered to customers.
type Extra struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	RoomID      int64      `json:"room_id"`
	Name        string     `json:"name"`
	Price       int64      `json:"price"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
