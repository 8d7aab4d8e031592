package deferred

import (
	"context"

	"studiorent/internal/domain"
)

type ActionStore interface {
	Create(ctx context.Context, a *domain.DeferredAction) error
}

// Scheduler queues follow-up work for the external worker. Actions are plain
// rows; the worker polls and executes them outside this service.
type Scheduler struct {
	actions ActionStore
}

func NewScheduler(actions ActionStore) *Scheduler {
	return &Scheduler{actions: actions}
}

// EnqueueNeedReturn queues refund processing for the booking.
func (s *Scheduler) EnqueueNeedReturn(ctx context.Context, b *domain.Booking) error {
	return s.actions.Create(ctx, &domain.DeferredAction{
		BookingID: b.ID,
		Action:    domain.DeferredNeedReturn,
		Status:    domain.DeferredPending,
	})
}

// EnqueueCancel queues post-cancellation cleanup for the booking.
func (s *Scheduler) EnqueueCancel(ctx context.Context, b *domain.Booking) error {
	return s.actions.Create(ctx, &domain.DeferredAction{
		BookingID: b.ID,
		Action:    domain.DeferredBookingCancel,
		Status:    domain.DeferredPending,
	})
}
