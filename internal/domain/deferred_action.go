package domain

import "time"

type DeferredActionType string

const (
	// DeferredNeedReturn queues refund processing for a cancelled booking.
	DeferredNeedReturn DeferredActionType = "booking_need_return"
	// DeferredBookingCancel queues external cleanup (calendar removal,
	// client notification) after a cancellation.
	DeferredBookingCancel DeferredActionType = "booking_cancel"
)

const (
	DeferredPending = iota
	DeferredDone
)

// DeferredAction is a queued follow-up task executed asynchronously by a
// worker outside this service.
type DeferredAction struct {
	ID        int64              `json:"id" gorm:"primaryKey"`
	BookingID int64              `json:"booking_id" gorm:"index"`
	Action    DeferredActionType `json:"action"`
	Status    int                `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}
