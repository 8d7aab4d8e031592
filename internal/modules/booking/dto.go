package booking

import (
	"encoding/json"
	"time"

	"studiorent/internal/domain"
)

type CustomerPayload struct {
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	ID       *int64 `json:"id"`
}

type ExtraSelection struct {
	ID    int64 `json:"id" binding:"required"`
	Count int   `json:"count" binding:"required,gte=1"`
}

type UTMPayload struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Content  string `json:"content"`
	Term     string `json:"term"`
}

type CreateBookingRequest struct {
	RoomID            int64            `json:"roomId" binding:"required"`
	ReserveFrom       time.Time        `json:"reserveFrom" binding:"required"`
	ReserveTo         time.Time        `json:"reserveTo" binding:"required"`
	PriceType         domain.PriceType `json:"purpose" binding:"required,oneof=photo video event"`
	PrepaymentPercent int              `json:"prepaymentPercent"`
	Customer          CustomerPayload  `json:"customer" binding:"required"`
	ConsumerID        *int64           `json:"consumerId"`
	Extras            []ExtraSelection `json:"extras"`
	Members           []string         `json:"members"`
	Seats             int              `json:"seats"`
	UserComment       string           `json:"comment"`
	Promocode         string           `json:"promocode"`
	UTM               *UTMPayload      `json:"utm"`

	// Referer is filled by the handler from the Referer header; it is the
	// fallback UTM source.
	Referer string `json:"-"`
}

type CreateTechnicalRequest struct {
	RoomID         int64     `json:"roomId" binding:"required"`
	ReserveFrom    time.Time `json:"reserveFrom" binding:"required"`
	ReserveTo      time.Time `json:"reserveTo" binding:"required"`
	ManagerComment string    `json:"comment"`
}

type UpdateBookingRequest struct {
	RoomID            int64            `json:"roomId" binding:"required"`
	ReserveFrom       time.Time        `json:"reserveFrom" binding:"required"`
	ReserveTo         time.Time        `json:"reserveTo" binding:"required"`
	PriceType         domain.PriceType `json:"purpose" binding:"required,oneof=photo video event"`
	PrepaymentPercent *int             `json:"prepaymentPercent"`
	Extras            []ExtraSelection `json:"extras"`
	Members           []string         `json:"members"`
	ManagerComment    string           `json:"comment"`
}

// ExtraSnapshot is the priced copy of an extra stored on the booking.
type ExtraSnapshot struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Count int    `json:"count"`
}

type RoomSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CustomerSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type BookingResponse struct {
	ID              int64            `json:"id"`
	ReservedFrom    string           `json:"reservedFrom"`
	ReservedTo      string           `json:"reservedTo"`
	EventType       string           `json:"eventType"`
	Prepayment      int64            `json:"prepayment"`
	ExtraCharge     int64            `json:"extraCharge"`
	Amount          int64            `json:"amount"`
	Discount        int64            `json:"discount"`
	Duration        int              `json:"duration"`
	Status          string           `json:"status"`
	CustomerComment string           `json:"customerComment,omitempty"`
	Room            *RoomSummary     `json:"room,omitempty"`
	Customer        *CustomerSummary `json:"customer,omitempty"`
	Members         []string         `json:"members"`
	Extras          []ExtraSnapshot  `json:"extras,omitempty"`
}

// NewBookingResponse shapes a booking for the client. The extra charge is the
// part still due after prepayment, never negative.
func NewBookingResponse(b *domain.Booking) BookingResponse {
	extraCharge := b.AmountWithDiscount - b.Prepayment
	if extraCharge < 0 {
		extraCharge = 0
	}

	resp := BookingResponse{
		ID:              b.ID,
		ReservedFrom:    b.ReserveFrom.Format(time.RFC3339),
		ReservedTo:      b.ReserveTo.Format(time.RFC3339),
		EventType:       string(b.PriceType),
		Prepayment:      b.Prepayment,
		ExtraCharge:     extraCharge,
		Amount:          b.Amount,
		Discount:        b.Discount,
		Duration:        b.Duration,
		Status:          b.Status.Text(),
		CustomerComment: b.UserComment,
		Members:         []string{},
	}

	if b.Members != "" {
		_ = json.Unmarshal([]byte(b.Members), &resp.Members)
	}
	if b.Extras != "" {
		_ = json.Unmarshal([]byte(b.Extras), &resp.Extras)
	}
	if b.Room != nil {
		resp.Room = &RoomSummary{ID: b.Room.ID, Name: b.Room.Name}
	}
	if b.User != nil {
		resp.Customer = &CustomerSummary{
			ID:    b.User.ID,
			Name:  b.User.Name,
			Email: b.User.Email,
			Phone: b.User.Phone,
		}
	}
	return resp
}
