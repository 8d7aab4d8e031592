package repository

import (
	"context"
	"testing"
	"time"

	"studiorent/internal/database"
	"studiorent/internal/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupBookingRepo(t *testing.T) (*BookingRepository, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Room{}, &domain.Booking{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	db.Create(&domain.Room{ID: 1, Name: "Лофт", PhotoPricePerHour: 100000})
	db.Create(&domain.User{ID: 1, Email: "anna@example.com", Name: "Анна", Role: domain.RoleCustomer})

	return NewBookingRepository(db), db
}

// Все времена в тестах целые секунды, UTC.
var testNow = time.Date(2026, 12, 1, 12, 0, 0, 0, time.UTC)

func seedBooking(t *testing.T, db *gorm.DB, status domain.BookingStatus, from, to time.Time, expiresAt *time.Time) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		RoomID:      1,
		UserID:      1,
		Status:      status,
		ReserveFrom: from,
		ReserveTo:   to,
		Duration:    domain.ReserveDurationHours(from, to),
		PriceType:   domain.PricePhoto,
		ExpiresAt:   expiresAt,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return b
}

func future(h int) time.Time { return testNow.Add(time.Duration(h) * time.Hour) }

func TestIsPeriodFree_EmptyRoom(t *testing.T) {
	repo, _ := setupBookingRepo(t)

	free, err := repo.IsPeriodFree(context.Background(), 1, future(24), future(26), 0, testNow)

	assert.NoError(t, err)
	assert.True(t, free)
}

func TestIsPeriodFree_PastStart(t *testing.T) {
	repo, _ := setupBookingRepo(t)

	free, err := repo.IsPeriodFree(context.Background(), 1, testNow.Add(-time.Hour), testNow.Add(time.Hour), 0, testNow)
	assert.NoError(t, err)
	assert.False(t, free)

	// Старт ровно "сейчас" тоже не допускается.
	free, err = repo.IsPeriodFree(context.Background(), 1, testNow, testNow.Add(time.Hour), 0, testNow)
	assert.NoError(t, err)
	assert.False(t, free)
}

func TestIsPeriodFree_Overlaps(t *testing.T) {
	repo, db := setupBookingRepo(t)
	hold := future(48)
	seedBooking(t, db, domain.BookingPaid, future(24), future(26), &hold)

	cases := []struct {
		name string
		from time.Time
		to   time.Time
		free bool
	}{
		{"same range", future(24), future(26), false},
		{"starts inside", future(25), future(27), false},
		{"ends inside", future(23), future(25), false},
		{"contains existing", future(23), future(27), false},
		{"inside existing", future(24).Add(30 * time.Minute), future(25), false},
		{"touches end", future(26), future(28), true},
		{"touches start", future(22), future(24), true},
		{"well before", future(20), future(22), true},
		{"well after", future(30), future(32), true},
	}

	for _, tc := range cases {
		free, err := repo.IsPeriodFree(context.Background(), 1, tc.from, tc.to, 0, testNow)
		assert.NoError(t, err, tc.name)
		assert.Equal(t, tc.free, free, tc.name)
	}
}

func TestIsPeriodFree_OtherRoomDoesNotBlock(t *testing.T) {
	repo, db := setupBookingRepo(t)
	db.Create(&domain.Room{ID: 2, Name: "Циклорама"})
	hold := future(48)
	db.Create(&domain.Booking{
		RoomID:      2,
		UserID:      1,
		Status:      domain.BookingPaid,
		ReserveFrom: future(24),
		ReserveTo:   future(26),
		Duration:    2,
		PriceType:   domain.PricePhoto,
		ExpiresAt:   &hold,
	})

	free, err := repo.IsPeriodFree(context.Background(), 1, future(24), future(26), 0, testNow)

	assert.NoError(t, err)
	assert.True(t, free)
}

func TestIsPeriodFree_CancelledAndExpiredIgnored(t *testing.T) {
	repo, db := setupBookingRepo(t)
	hold := future(48)
	seedBooking(t, db, domain.BookingCancelled, future(24), future(26), &hold)
	seedBooking(t, db, domain.BookingExpired, future(24), future(26), &hold)

	free, err := repo.IsPeriodFree(context.Background(), 1, future(24), future(26), 0, testNow)

	assert.NoError(t, err)
	assert.True(t, free)
}

func TestIsPeriodFree_LapsedHoldDoesNotBlock(t *testing.T) {
	repo, db := setupBookingRepo(t)

	// NEW booking whose payment window is already over does not block, even
	// though the sweep job has not flipped its status yet.
	lapsed := testNow.Add(-time.Hour)
	seedBooking(t, db, domain.BookingNew, future(24), future(26), &lapsed)

	free, err := repo.IsPeriodFree(context.Background(), 1, future(24), future(26), 0, testNow)
	assert.NoError(t, err)
	assert.True(t, free)
}

func TestIsPeriodFree_ActiveHoldBlocks(t *testing.T) {
	repo, db := setupBookingRepo(t)
	hold := testNow.Add(time.Hour)
	seedBooking(t, db, domain.BookingNew, future(24), future(26), &hold)

	free, err := repo.IsPeriodFree(context.Background(), 1, future(24), future(26), 0, testNow)
	assert.NoError(t, err)
	assert.False(t, free)
}

func TestIsPeriodFree_NilExpiryBlocks(t *testing.T) {
	repo, db := setupBookingRepo(t)
	seedBooking(t, db, domain.BookingNew, future(24), future(26), nil)

	free, err := repo.IsPeriodFree(context.Background(), 1, future(24), future(26), 0, testNow)
	assert.NoError(t, err)
	assert.False(t, free)
}

func TestIsPeriodFree_PaidBlocksRegardlessOfExpiry(t *testing.T) {
	repo, db := setupBookingRepo(t)
	lapsed := testNow.Add(-time.Hour)
	seedBooking(t, db, domain.BookingPaid, future(24), future(26), &lapsed)

	free, err := repo.IsPeriodFree(context.Background(), 1, future(24), future(26), 0, testNow)
	assert.NoError(t, err)
	assert.False(t, free)
}

func TestIsPeriodFree_ExcludesGivenBooking(t *testing.T) {
	repo, db := setupBookingRepo(t)
	hold := future(48)
	b := seedBooking(t, db, domain.BookingNew, future(24), future(26), &hold)

	free, err := repo.IsPeriodFree(context.Background(), 1, future(25), future(27), b.ID, testNow)
	assert.NoError(t, err)
	assert.True(t, free)

	free, err = repo.IsPeriodFree(context.Background(), 1, future(25), future(27), 0, testNow)
	assert.NoError(t, err)
	assert.False(t, free)
}

func TestCreate_RejectsOverlap(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	hold := future(48)

	first := &domain.Booking{
		RoomID:      1,
		UserID:      1,
		Status:      domain.BookingNew,
		ReserveFrom: future(24),
		ReserveTo:   future(26),
		Duration:    2,
		PriceType:   domain.PricePhoto,
		ExpiresAt:   &hold,
	}
	assert.NoError(t, repo.Create(context.Background(), first, testNow))
	assert.NotZero(t, first.ID)

	second := &domain.Booking{
		RoomID:      1,
		UserID:      1,
		Status:      domain.BookingNew,
		ReserveFrom: future(25),
		ReserveTo:   future(27),
		Duration:    2,
		PriceType:   domain.PricePhoto,
		ExpiresAt:   &hold,
	}
	err := repo.Create(context.Background(), second, testNow)
	assert.ErrorIs(t, err, ErrPeriodBusy)

	// Стык без пересечения проходит.
	third := &domain.Booking{
		RoomID:      1,
		UserID:      1,
		Status:      domain.BookingNew,
		ReserveFrom: future(26),
		ReserveTo:   future(28),
		Duration:    2,
		PriceType:   domain.PricePhoto,
		ExpiresAt:   &hold,
	}
	assert.NoError(t, repo.Create(context.Background(), third, testNow))
}

func TestEnsureOverlapConstraint_SQLiteNoop(t *testing.T) {
	repo, db := setupBookingRepo(t)

	assert.NoError(t, EnsureOverlapConstraint(db))

	// schema stays usable afterwards
	free, err := repo.IsPeriodFree(context.Background(), 1, future(24), future(26), 0, testNow)
	assert.NoError(t, err)
	assert.True(t, free)
}

func TestCreate_FlipsLapsedHold(t *testing.T) {
	repo, db := setupBookingRepo(t)

	// A lapsed hold must not survive as a NEW row once something books over
	// it: the schema constraint only looks at status, not at the clock.
	lapsed := testNow.Add(-time.Hour)
	stale := seedBooking(t, db, domain.BookingNew, future(24), future(26), &lapsed)

	hold := future(48)
	fresh := &domain.Booking{
		RoomID:      1,
		UserID:      1,
		Status:      domain.BookingNew,
		ReserveFrom: future(24),
		ReserveTo:   future(26),
		Duration:    2,
		PriceType:   domain.PricePhoto,
		ExpiresAt:   &hold,
	}
	assert.NoError(t, repo.Create(context.Background(), fresh, testNow))

	got, err := repo.GetByID(context.Background(), stale.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingExpired, got.Status)
}

func TestUpdate_RecheckFlipsLapsedHold(t *testing.T) {
	repo, db := setupBookingRepo(t)

	lapsed := testNow.Add(-time.Hour)
	stale := seedBooking(t, db, domain.BookingNew, future(30), future(32), &lapsed)

	hold := future(48)
	b := seedBooking(t, db, domain.BookingNew, future(24), future(26), &hold)
	b.ReserveFrom = future(30)
	b.ReserveTo = future(32)
	assert.NoError(t, repo.Update(context.Background(), b, true, testNow))

	got, err := repo.GetByID(context.Background(), stale.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingExpired, got.Status)
}

// The SQL availability filter and Booking.Blocks express the same rule; a
// booking occupies its room exactly when the repository reports the fully
// covered period as busy.
func TestIsPeriodFree_AgreesWithBlocks(t *testing.T) {
	past := testNow.Add(-time.Hour)
	futureHold := testNow.Add(time.Hour)

	cases := []struct {
		name      string
		status    domain.BookingStatus
		expiresAt *time.Time
	}{
		{"new with active hold", domain.BookingNew, &futureHold},
		{"new with lapsed hold", domain.BookingNew, &past},
		{"new without hold", domain.BookingNew, nil},
		{"paid with lapsed hold", domain.BookingPaid, &past},
		{"done", domain.BookingDone, nil},
		{"cancelled", domain.BookingCancelled, &futureHold},
		{"expired", domain.BookingExpired, &futureHold},
	}

	for _, tc := range cases {
		repo, db := setupBookingRepo(t)
		b := seedBooking(t, db, tc.status, future(24), future(26), tc.expiresAt)

		free, err := repo.IsPeriodFree(context.Background(), 1, future(24), future(26), 0, testNow)

		assert.NoError(t, err, tc.name)
		assert.Equal(t, !b.Blocks(testNow), free, tc.name)
	}
}

func TestUpdate_RecheckExcludesSelf(t *testing.T) {
	repo, db := setupBookingRepo(t)
	hold := future(48)
	b := seedBooking(t, db, domain.BookingNew, future(24), future(26), &hold)

	// Сдвиг внутри собственного окна конфликтует только с самим собой.
	b.ReserveFrom = future(25)
	b.ReserveTo = future(27)
	assert.NoError(t, repo.Update(context.Background(), b, true, testNow))

	got, err := repo.GetByID(context.Background(), b.ID)
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Equal(t, future(25), got.ReserveFrom.UTC())
	}
}

func TestUpdate_RecheckRejectsForeignOverlap(t *testing.T) {
	repo, db := setupBookingRepo(t)
	hold := future(48)
	seedBooking(t, db, domain.BookingPaid, future(30), future(32), &hold)
	b := seedBooking(t, db, domain.BookingNew, future(24), future(26), &hold)

	b.ReserveFrom = future(31)
	b.ReserveTo = future(33)
	err := repo.Update(context.Background(), b, true, testNow)

	assert.ErrorIs(t, err, ErrPeriodBusy)
}

func TestGetByID(t *testing.T) {
	repo, db := setupBookingRepo(t)
	hold := future(48)
	b := seedBooking(t, db, domain.BookingNew, future(24), future(26), &hold)

	got, err := repo.GetByID(context.Background(), b.ID)
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Equal(t, b.ID, got.ID)
		if assert.NotNil(t, got.Room) {
			assert.Equal(t, "Лофт", got.Room.Name)
		}
		if assert.NotNil(t, got.User) {
			assert.Equal(t, "anna@example.com", got.User.Email)
		}
	}

	missing, err := repo.GetByID(context.Background(), 9999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateCalendarStatus(t *testing.T) {
	repo, db := setupBookingRepo(t)
	hold := future(48)
	b := seedBooking(t, db, domain.BookingNew, future(24), future(26), &hold)

	err := repo.UpdateCalendarStatus(context.Background(), b.ID, domain.CalendarExportDone, "booking-55")
	assert.NoError(t, err)

	got, _ := repo.GetByID(context.Background(), b.ID)
	assert.Equal(t, domain.CalendarExportDone, got.CalendarExportStatus)
	assert.Equal(t, "booking-55", got.CalendarEventID)
}

func TestExpireLapsed(t *testing.T) {
	repo, db := setupBookingRepo(t)

	lapsed := testNow.Add(-time.Hour)
	active := testNow.Add(time.Hour)
	overdue := seedBooking(t, db, domain.BookingNew, future(24), future(26), &lapsed)
	keepNew := seedBooking(t, db, domain.BookingNew, future(30), future(32), &active)
	keepPaid := seedBooking(t, db, domain.BookingPaid, future(34), future(36), &lapsed)

	affected, err := repo.ExpireLapsed(context.Background(), testNow)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, _ := repo.GetByID(context.Background(), overdue.ID)
	assert.Equal(t, domain.BookingExpired, got.Status)
	got, _ = repo.GetByID(context.Background(), keepNew.ID)
	assert.Equal(t, domain.BookingNew, got.Status)
	got, _ = repo.GetByID(context.Background(), keepPaid.ID)
	assert.Equal(t, domain.BookingPaid, got.Status)
}
