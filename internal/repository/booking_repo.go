package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studiorent/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrPeriodBusy is returned when the requested period overlaps a blocking
// booking on the same room.
var ErrPeriodBusy = errors.New("period overlaps another booking")

// overlapConstraint is the Postgres exclusion constraint on bookings,
// created by EnsureOverlapConstraint. A violation means two transactions
// raced past the count check; it is reported the same way as a regular
// overlap.
const overlapConstraint = "idx_bookings_no_overlap"

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// EnsureOverlapConstraint installs the schema-level overlap guard on
// Postgres. The in-transaction count check runs at READ COMMITTED, so two
// concurrent creates can both observe an empty period; the exclusion
// constraint makes the second insert fail, and isOverlapViolation maps that
// failure to ErrPeriodBusy. Rows with a lapsed hold are flipped to expired
// inside every write transaction, so the status predicate here matches the
// availability check exactly. No-op on SQLite.
func EnsureOverlapConstraint(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return err
	}

	return db.Exec(fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%[1]s') THEN
		ALTER TABLE bookings
			ADD CONSTRAINT %[1]s
			EXCLUDE USING gist (
				room_id WITH =,
				tsrange(reserve_from, reserve_to) WITH &&
			) WHERE (status NOT IN ('cancelled', 'expired'));
	END IF;
END $$;`, overlapConstraint)).Error
}

// IsPeriodFree decides whether the room is free on [from, to).
//
// Boundary touches are allowed: a booking ending exactly when another starts
// does not conflict, implemented with the one-second inward adjustment of the
// candidate range. Cancelled and expired bookings never block, and a still
// NEW booking whose hold has lapsed is treated as non-blocking even before
// the sweep job flips its status.
func (r *BookingRepository) IsPeriodFree(ctx context.Context, roomID int64, from, to time.Time, excludeID int64, now time.Time) (bool, error) {
	return r.isPeriodFree(r.db.WithContext(ctx), roomID, from, to, excludeID, now)
}

func (r *BookingRepository) isPeriodFree(tx *gorm.DB, roomID int64, from, to time.Time, excludeID int64, now time.Time) (bool, error) {
	// Бронировать в прошлом нельзя.
	if !from.After(now) {
		return false, nil
	}

	fromPlus := from.Add(time.Second)
	toMinus := to.Add(-time.Second)

	q := tx.Model(&domain.Booking{}).
		Where("room_id = ?", roomID).
		Where("status NOT IN ?", []string{string(domain.BookingCancelled), string(domain.BookingExpired)}).
		Where(
			tx.Session(&gorm.Session{NewDB: true}).
				Where("(reserve_from BETWEEN ? AND ?) OR (reserve_to BETWEEN ? AND ?)", from, toMinus, fromPlus, to).
				Or("reserve_from <= ? AND reserve_to >= ?", from, to),
		).
		Where("expires_at > ? OR expires_at IS NULL OR status IN ?", now,
			[]string{string(domain.BookingPaid), string(domain.BookingDone)})

	if excludeID > 0 {
		q = q.Where("bookings.id != ?", excludeID)
	}

	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt == 0, nil
}

// Create inserts the booking after re-checking availability inside the same
// transaction, so two concurrent requests cannot both observe "free" and
// both commit. On Postgres the schema-level exclusion constraint is the
// second line of defence; its violation maps to ErrPeriodBusy.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking, now time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := expireLapsedForRoom(tx, b.RoomID, now); err != nil {
			return err
		}
		free, err := r.isPeriodFree(tx, b.RoomID, b.ReserveFrom, b.ReserveTo, 0, now)
		if err != nil {
			return err
		}
		if !free {
			return ErrPeriodBusy
		}
		return tx.Create(b).Error
	})
	if isOverlapViolation(err) {
		return ErrPeriodBusy
	}
	return err
}

// Update persists all booking fields. When recheckRange is set the
// availability check runs first, excluding the booking itself, within the
// same transaction as the write.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking, recheckRange bool, now time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if recheckRange {
			if err := expireLapsedForRoom(tx, b.RoomID, now); err != nil {
				return err
			}
			free, err := r.isPeriodFree(tx, b.RoomID, b.ReserveFrom, b.ReserveTo, b.ID, now)
			if err != nil {
				return err
			}
			if !free {
				return ErrPeriodBusy
			}
		}
		return tx.Save(b).Error
	})
	if isOverlapViolation(err) {
		return ErrPeriodBusy
	}
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).
		Preload("Room", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&b, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return &b, nil
}

// UpdateCalendarStatus records the outcome of a calendar export attempt.
func (r *BookingRepository) UpdateCalendarStatus(ctx context.Context, bookingID int64, status int, eventID string) error {
	return r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"calendar_export_status": status,
			"calendar_event_id":      eventID,
		}).Error
}

// ExpireLapsed flips NEW bookings with a lapsed hold to expired. Run by the
// scheduled sweep; conflict checks already ignore these rows either way.
func (r *BookingRepository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("status = ?", string(domain.BookingNew)).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Update("status", string(domain.BookingExpired))
	return tx.RowsAffected, tx.Error
}

// expireLapsedForRoom flips lapsed NEW holds on the room to expired before a
// write. The availability count already ignores them, but the exclusion
// constraint cannot compare expires_at against the clock, so the rows must
// change status before the insert they would otherwise collide with.
func expireLapsedForRoom(tx *gorm.DB, roomID int64, now time.Time) error {
	return tx.Model(&domain.Booking{}).
		Where("room_id = ?", roomID).
		Where("status = ?", string(domain.BookingNew)).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Update("status", string(domain.BookingExpired)).Error
}

func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 unique_violation, 23P01 exclusion_violation
		return (pgErr.Code == "23505" || pgErr.Code == "23P01") &&
			pgErr.ConstraintName == overlapConstraint
	}
	return false
}
