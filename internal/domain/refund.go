package domain

import "time"

// Refund statuses.
const (
	RefundPending = iota
	RefundDone
	RefundRejected
)

// Refund is a pending request to return money paid for a cancelled booking.
type Refund struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	BookingID int64     `json:"booking_id" gorm:"index"`
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"`
	Status    int       `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
