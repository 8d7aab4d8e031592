package domain

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingNew       BookingStatus = "new"
	BookingCancelled BookingStatus = "cancelled"
	BookingPaid      BookingStatus = "paid"
	BookingDone      BookingStatus = "done"
	BookingExpired   BookingStatus = "expired"
)

var bookingStatusText = map[BookingStatus]string{
	BookingNew:       "Awaiting payment",
	BookingCancelled: "Cancelled",
	BookingPaid:      "Booked",
	BookingDone:      "Completed",
	BookingExpired:   "Expired",
}

// Text returns the human-readable status label shown to clients.
func (s BookingStatus) Text() string {
	return bookingStatusText[s]
}

const (
	MinDurationHours = 1
	// HoldWindow is how long an unpaid booking keeps blocking the room.
	HoldWindow = 24 * time.Hour
)

// Calendar export states for the external calendar sync.
const (
	CalendarExportNone = iota
	CalendarExportDone
	CalendarExportError
)

type PriceType string

const (
	PricePhoto PriceType = "photo"
	PriceVideo PriceType = "video"
	PriceEvent PriceType = "event"
)

// Booking — бронирование зала. Денежные поля в минорных единицах валюты.
type Booking struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	RoomID    int64  `json:"room_id"`
	UserID    int64  `json:"user_id"`
	ManagerID *int64 `json:"manager_id,omitempty"`

	Status BookingStatus `json:"status" gorm:"index"`

	Amount             int64 `json:"amount"`
	Discount           int64 `json:"discount"`
	AmountWithDiscount int64 `json:"amount_with_discount"`
	Prepayment         int64 `json:"prepayment"`
	Payed              int64 `json:"payed"`

	ReserveFrom time.Time `json:"reserve_from" gorm:"index"`
	ReserveTo   time.Time `json:"reserve_to"`
	Duration    int       `json:"duration"`

	UserComment    string `json:"user_comment,omitempty" gorm:"type:text"`
	ManagerComment string `json:"manager_comment,omitempty" gorm:"type:text"`

	// Extras and Members hold JSON snapshots serialized at booking time so
	// later catalog edits never rewrite history.
	Extras  string `json:"extras,omitempty" gorm:"type:text"`
	Members string `json:"members,omitempty" gorm:"type:text"`

	PriceType    PriceType `json:"price_type"`
	IsService    bool      `json:"is_service"`
	Seats        int       `json:"seats,omitempty"`
	PeopleAmount int       `json:"people_amount,omitempty"`

	CalendarExportStatus int    `json:"calendar_export_status"`
	CalendarEventID      string `json:"calendar_event_id,omitempty"`

	ExpiresAt  *time.Time     `json:"expires_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	PayedAt    *time.Time     `json:"payed_at,omitempty"`
	CanceledAt *time.Time     `json:"canceled_at,omitempty"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// ReserveDurationHours derives the billed duration: fractional hours round
// up, and anything shorter than an hour still occupies a full hour.
func ReserveDurationHours(from, to time.Time) int {
	hours := int(math.Ceil(to.Sub(from).Hours()))
	if hours < MinDurationHours {
		hours = MinDurationHours
	}
	return hours
}

// Blocks reports whether the booking occupies its room at the given moment:
// a settled booking always does, an unpaid hold only until it expires.
func (b *Booking) Blocks(now time.Time) bool {
	if b.Status == BookingCancelled || b.Status == BookingExpired {
		return false
	}
	if b.Status == BookingPaid || b.Status == BookingDone {
		return true
	}
	return b.ExpiresAt == nil || b.ExpiresAt.After(now)
}
