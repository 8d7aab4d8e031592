package pricing

import (
	"context"
	"testing"
	"time"

	"studiorent/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRoomSource struct {
	mock.Mock
}

func (m *MockRoomSource) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

var quoteFrom = time.Date(2026, 12, 5, 14, 0, 0, 0, time.UTC)

func TestCalculateForBooking(t *testing.T) {
	rooms := new(MockRoomSource)
	rooms.On("GetByID", mock.Anything, int64(10)).Return(&domain.Room{
		ID:                10,
		PhotoPricePerHour: 100000,
		VideoPricePerHour: 150000,
		DiscountPercent:   10,
	}, nil)
	service := NewService(rooms)

	q, err := service.CalculateForBooking(context.Background(), 10, quoteFrom, quoteFrom.Add(2*time.Hour), domain.PricePhoto, 50)

	assert.NoError(t, err)
	assert.Equal(t, int64(200000), q.Amount)
	assert.Equal(t, int64(20000), q.Discount)
	assert.Equal(t, int64(180000), q.AmountWithDiscount)
	assert.Equal(t, int64(90000), q.SumForPay)
}

func TestCalculateForBooking_PurposeSelectsRate(t *testing.T) {
	rooms := new(MockRoomSource)
	rooms.On("GetByID", mock.Anything, int64(10)).Return(&domain.Room{
		ID:                10,
		PhotoPricePerHour: 100000,
		VideoPricePerHour: 150000,
		EventPricePerHour: 250000,
	}, nil)
	service := NewService(rooms)

	q, err := service.CalculateForBooking(context.Background(), 10, quoteFrom, quoteFrom.Add(time.Hour), domain.PriceVideo, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(150000), q.Amount)

	q, err = service.CalculateForBooking(context.Background(), 10, quoteFrom, quoteFrom.Add(time.Hour), domain.PriceEvent, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(250000), q.Amount)
	assert.Equal(t, int64(0), q.SumForPay)
}

func TestCalculateForBooking_FractionalHourBillsFull(t *testing.T) {
	rooms := new(MockRoomSource)
	rooms.On("GetByID", mock.Anything, int64(10)).Return(&domain.Room{
		ID:                10,
		PhotoPricePerHour: 100000,
	}, nil)
	service := NewService(rooms)

	// 10:00 to 11:30 bills two full hours
	q, err := service.CalculateForBooking(context.Background(), 10, quoteFrom, quoteFrom.Add(90*time.Minute), domain.PricePhoto, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(200000), q.Amount)
}

func TestCalculateForBooking_RoomNotFound(t *testing.T) {
	rooms := new(MockRoomSource)
	rooms.On("GetByID", mock.Anything, int64(42)).Return(nil, nil)
	service := NewService(rooms)

	_, err := service.CalculateForBooking(context.Background(), 42, quoteFrom, quoteFrom.Add(time.Hour), domain.PricePhoto, 0)

	assert.ErrorIs(t, err, ErrRoomNotFound)
}
