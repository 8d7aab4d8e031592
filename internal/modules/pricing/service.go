package pricing

import (
	"context"
	"errors"
	"time"

	"studiorent/internal/domain"
)

var ErrRoomNotFound = errors.New("room not found")

// Quote is the authoritative price for a room, period and purpose. All sums
// are minor currency units.
type Quote struct {
	Room               *domain.Room
	Amount             int64
	Discount           int64
	AmountWithDiscount int64
	// SumForPay is the prepayment due for the requested percentage.
	SumForPay int64
}

type RoomSource interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

type Service struct {
	rooms RoomSource
}

func NewService(rooms RoomSource) *Service {
	return &Service{rooms: rooms}
}

// CalculateForBooking prices the period: hourly rate for the purpose times
// the billed duration, minus the flat room discount. Integer math rounds
// down, so the customer is never overcharged by a fraction.
func (s *Service) CalculateForBooking(ctx context.Context, roomID int64, from, to time.Time, priceType domain.PriceType, prepaymentPercent int) (*Quote, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	duration := domain.ReserveDurationHours(from, to)
	amount := room.HourlyPriceFor(priceType) * int64(duration)
	discount := amount * int64(room.DiscountPercent) / 100
	withDiscount := amount - discount

	var sumForPay int64
	if prepaymentPercent > 0 {
		sumForPay = withDiscount * int64(prepaymentPercent) / 100
	}

	return &Quote{
		Room:               room,
		Amount:             amount,
		Discount:           discount,
		AmountWithDiscount: withDiscount,
		SumForPay:          sumForPay,
	}, nil
}
