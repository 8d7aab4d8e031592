package calendar

import (
	"context"
	"fmt"
	"log"

	"studiorent/internal/domain"
)

// ExportStore records the outcome of a calendar export on the booking row.
type ExportStore interface {
	UpdateCalendarStatus(ctx context.Context, bookingID int64, status int, eventID string) error
}

// Service pushes booking changes to the external calendar. Delivery is
// fire-and-forget: a failed export is logged and flagged on the booking, it
// never rolls the booking back.
type Service struct {
	store ExportStore
}

func NewService(store ExportStore) *Service {
	return &Service{store: store}
}

func (s *Service) BookingCreated(ctx context.Context, room *domain.Room, b *domain.Booking) {
	s.export(ctx, "create", room, b)
}

func (s *Service) BookingUpdated(ctx context.Context, room *domain.Room, b *domain.Booking) {
	s.export(ctx, "update", room, b)
}

func (s *Service) export(ctx context.Context, op string, room *domain.Room, b *domain.Booking) {
	eventID := fmt.Sprintf("booking-%d", b.ID)

	if err := s.store.UpdateCalendarStatus(ctx, b.ID, domain.CalendarExportDone, eventID); err != nil {
		log.Printf("calendar export failed op=%s booking_id=%d room_id=%d err=%v", op, b.ID, room.ID, err)
		if err := s.store.UpdateCalendarStatus(ctx, b.ID, domain.CalendarExportError, ""); err != nil {
			log.Printf("calendar export status save failed booking_id=%d err=%v", b.ID, err)
		}
		return
	}

	log.Printf("calendar export op=%s booking_id=%d room=%q from=%s to=%s",
		op, b.ID, room.Name, b.ReserveFrom.Format("2006-01-02 15:04"), b.ReserveTo.Format("2006-01-02 15:04"))
}
