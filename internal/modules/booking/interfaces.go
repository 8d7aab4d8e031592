package booking

import (
	"context"
	"time"

	"studiorent/internal/domain"
	"studiorent/internal/modules/customer"
	"studiorent/internal/modules/pricing"
)

// BookingRepository persists bookings. Create and Update run the
// availability check transactionally with the write and return
// repository.ErrPeriodBusy on overlap.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking, now time.Time) error
	Update(ctx context.Context, b *domain.Booking, recheckRange bool, now time.Time) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	IsPeriodFree(ctx context.Context, roomID int64, from, to time.Time, excludeID int64, now time.Time) (bool, error)
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	GetByIDWithDeleted(ctx context.Context, id int64) (*domain.Room, error)
	FindExtraByID(ctx context.Context, id int64) (*domain.Extra, error)
}

// PriceCalculator is the pricing oracle for a room, period and purpose.
type PriceCalculator interface {
	CalculateForBooking(ctx context.Context, roomID int64, from, to time.Time, priceType domain.PriceType, prepaymentPercent int) (*pricing.Quote, error)
}

// CustomerResolver finds or provisions the customer account.
type CustomerResolver interface {
	Resolve(ctx context.Context, contact customer.Contact, consumerID *int64) (*domain.User, error)
}

// CalendarNotifier is told about created and updated bookings. Calls are
// fire-and-forget, the notifier deals with its own failures.
type CalendarNotifier interface {
	BookingCreated(ctx context.Context, room *domain.Room, b *domain.Booking)
	BookingUpdated(ctx context.Context, room *domain.Room, b *domain.Booking)
}

// DeferredScheduler queues asynchronous follow-up work on cancellation.
type DeferredScheduler interface {
	EnqueueNeedReturn(ctx context.Context, b *domain.Booking) error
	EnqueueCancel(ctx context.Context, b *domain.Booking) error
}

type RefundStore interface {
	Create(ctx context.Context, refund *domain.Refund) error
}

type UtmStore interface {
	Create(ctx context.Context, utm *domain.UtmCode) error
}
