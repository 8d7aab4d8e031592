package domain

import "time"

// UtmCode keeps marketing attribution of a booking. A record is only written
// when at least one tag is present.
type UtmCode struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	BookingID int64     `json:"booking_id" gorm:"index"`
	Source    *string   `json:"utm_source,omitempty"`
	Medium    *string   `json:"utm_medium,omitempty"`
	Campaign  *string   `json:"utm_campaign,omitempty"`
	Content   *string   `json:"utm_content,omitempty"`
	Term      *string   `json:"utm_term,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
