package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"studiorent/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockExportStore struct {
	mock.Mock
}

func (m *MockExportStore) UpdateCalendarStatus(ctx context.Context, bookingID int64, status int, eventID string) error {
	args := m.Called(ctx, bookingID, status, eventID)
	return args.Error(0)
}

func testBooking() *domain.Booking {
	from := time.Date(2026, 12, 5, 14, 0, 0, 0, time.UTC)
	return &domain.Booking{
		ID:          55,
		RoomID:      10,
		ReserveFrom: from,
		ReserveTo:   from.Add(2 * time.Hour),
	}
}

func TestBookingCreated_MarksExportDone(t *testing.T) {
	store := new(MockExportStore)
	store.On("UpdateCalendarStatus", mock.Anything, int64(55), domain.CalendarExportDone, "booking-55").
		Return(nil)
	service := NewService(store)

	service.BookingCreated(context.Background(), &domain.Room{ID: 10, Name: "Лофт"}, testBooking())

	store.AssertExpectations(t)
}

func TestBookingUpdated_FailureFlagsBooking(t *testing.T) {
	store := new(MockExportStore)
	store.On("UpdateCalendarStatus", mock.Anything, int64(55), domain.CalendarExportDone, "booking-55").
		Return(errors.New("db down"))
	store.On("UpdateCalendarStatus", mock.Anything, int64(55), domain.CalendarExportError, "").
		Return(nil)
	service := NewService(store)

	// must not panic or propagate the failure
	service.BookingUpdated(context.Background(), &domain.Room{ID: 10, Name: "Лофт"}, testBooking())

	store.AssertExpectations(t)
}
