package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"studiorent/internal/domain"
	"studiorent/internal/modules/customer"
	"studiorent/internal/modules/pricing"
	"studiorent/internal/pkg/clock"
	"studiorent/internal/repository"
)

// prepaymentPercents are the values a customer may choose on rooms that
// require prepayment. Staff bookings are settled outside and skip this.
var prepaymentPercents = []int{50, 100}

type Service struct {
	bookings  BookingRepository
	rooms     RoomRepository
	customers CustomerResolver
	prices    PriceCalculator
	calendar  CalendarNotifier
	deferred  DeferredScheduler
	refunds   RefundStore
	utms      UtmStore
	clock     clock.Clock
}

func NewService(
	bookings BookingRepository,
	rooms RoomRepository,
	customers CustomerResolver,
	prices PriceCalculator,
	calendar CalendarNotifier,
	deferred DeferredScheduler,
	refunds RefundStore,
	utms UtmStore,
	clk clock.Clock,
) *Service {
	return &Service{
		bookings:  bookings,
		rooms:     rooms,
		customers: customers,
		prices:    prices,
		calendar:  calendar,
		deferred:  deferred,
		refunds:   refunds,
		utms:      utms,
		clock:     clk,
	}
}

// Create books a room for a customer. A nil manager means the request came
// from the public form; a non-nil manager is the staff member acting on the
// customer's behalf.
func (s *Service) Create(ctx context.Context, req CreateBookingRequest, manager *domain.User) (*domain.Booking, error) {
	if !req.ReserveTo.After(req.ReserveFrom) {
		return nil, ErrValidation
	}

	quote, err := s.prices.CalculateForBooking(ctx, req.RoomID, req.ReserveFrom, req.ReserveTo, req.PriceType, req.PrepaymentPercent)
	if err != nil {
		return nil, mapPricingErr(err)
	}

	duration := domain.ReserveDurationHours(req.ReserveFrom, req.ReserveTo)

	extras, err := s.serializeExtras(ctx, req.Extras)
	if err != nil {
		return nil, err
	}

	// Предоплата: с фронта допускаются только 50% или 100%.
	var prepayment int64
	if quote.Room.IsPrepayment && manager == nil {
		if !allowedPrepayment(req.PrepaymentPercent) {
			return nil, ErrInvalidPrepayment
		}
		prepayment = quote.SumForPay
	}

	consumer, err := s.customers.Resolve(ctx, customer.Contact{
		FullName: req.Customer.FullName,
		Email:    req.Customer.Email,
		Phone:    req.Customer.Phone,
		ID:       req.Customer.ID,
	}, req.ConsumerID)
	if err != nil {
		if errors.Is(err, customer.ErrEmailTaken) {
			return nil, ErrEmailConflict
		}
		return nil, err
	}

	now := s.clock.Now()
	expiresAt := now.Add(domain.HoldWindow)

	b := &domain.Booking{
		RoomID:             quote.Room.ID,
		UserID:             consumer.ID,
		Status:             domain.BookingNew,
		Amount:             quote.Amount,
		Discount:           quote.Discount,
		AmountWithDiscount: quote.AmountWithDiscount,
		Prepayment:         prepayment,
		ReserveFrom:        req.ReserveFrom,
		ReserveTo:          req.ReserveTo,
		Duration:           duration,
		UserComment:        req.UserComment,
		Extras:             extras,
		Members:            serializeMembers(req.Members),
		PriceType:          req.PriceType,
		Seats:              req.Seats,
		ExpiresAt:          &expiresAt,
	}
	if manager != nil {
		id := manager.ID
		b.ManagerID = &id
	}

	if err := s.bookings.Create(ctx, b, now); err != nil {
		if errors.Is(err, repository.ErrPeriodBusy) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.createUtmCode(ctx, b, req)

	s.calendar.BookingCreated(ctx, quote.Room, b)

	return s.refreshed(ctx, b)
}

// CreateTechnical books a room for internal use: no customer, no pricing,
// persisted as already paid with nominal one-unit sums. The end time is
// re-derived from the rounded duration so a sub-hour request still occupies
// a full hour.
func (s *Service) CreateTechnical(ctx context.Context, req CreateTechnicalRequest, staff *domain.User) (*domain.Booking, error) {
	duration := domain.ReserveDurationHours(req.ReserveFrom, req.ReserveTo)
	reserveFrom := req.ReserveFrom
	reserveTo := reserveFrom.Add(time.Duration(duration) * time.Hour)

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrNotFound
	}

	now := s.clock.Now()

	free, err := s.bookings.IsPeriodFree(ctx, room.ID, reserveFrom, reserveTo, 0, now)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrConflict
	}

	expiresAt := now.Add(domain.HoldWindow)
	b := &domain.Booking{
		RoomID:             room.ID,
		UserID:             staff.ID,
		ManagerID:          &staff.ID,
		Status:             domain.BookingPaid,
		Amount:             1,
		Discount:           0,
		AmountWithDiscount: 1,
		Prepayment:         0,
		Payed:              1,
		ReserveFrom:        reserveFrom,
		ReserveTo:          reserveTo,
		Duration:           duration,
		ManagerComment:     req.ManagerComment,
		PriceType:          domain.PricePhoto,
		IsService:          true,
		ExpiresAt:          &expiresAt,
	}

	if err := s.bookings.Create(ctx, b, now); err != nil {
		if errors.Is(err, repository.ErrPeriodBusy) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.calendar.BookingCreated(ctx, room, b)

	return s.refreshed(ctx, b)
}

// Update rewrites the booking from the request. The range check excludes the
// booking itself, and a changed range restarts the 24h hold. Prepayment is
// only mutable while the booking is NEW.
func (s *Service) Update(ctx context.Context, req UpdateBookingRequest, b *domain.Booking, staff *domain.User) (*domain.Booking, error) {
	duration := domain.ReserveDurationHours(req.ReserveFrom, req.ReserveTo)
	reserveFrom := req.ReserveFrom
	reserveTo := reserveFrom.Add(time.Duration(duration) * time.Hour)

	room := b.Room
	if req.RoomID != b.RoomID {
		// Зал поменялся — берём новый из активного каталога.
		fetched, err := s.rooms.GetByID(ctx, req.RoomID)
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			return nil, ErrNotFound
		}
		room = fetched
	} else if room == nil {
		// Existing room may be soft-deleted; the booking still references it.
		fetched, err := s.rooms.GetByIDWithDeleted(ctx, b.RoomID)
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			return nil, ErrNotFound
		}
		room = fetched
	}

	now := s.clock.Now()
	expiresAt := b.ExpiresAt
	rangeChanged := !reserveFrom.Equal(b.ReserveFrom) || !reserveTo.Equal(b.ReserveTo)

	if rangeChanged {
		free, err := s.bookings.IsPeriodFree(ctx, room.ID, reserveFrom, reserveTo, b.ID, now)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, ErrConflict
		}
		// Перенос брони перезапускает окно оплаты.
		fresh := now.Add(domain.HoldWindow)
		expiresAt = &fresh
	}

	percent := 0
	if req.PrepaymentPercent != nil {
		percent = *req.PrepaymentPercent
	}
	quote, err := s.prices.CalculateForBooking(ctx, room.ID, reserveFrom, reserveTo, req.PriceType, percent)
	if err != nil {
		return nil, mapPricingErr(err)
	}

	prepayment := b.Prepayment
	if b.Status == domain.BookingNew && req.PrepaymentPercent != nil {
		prepayment = quote.SumForPay
	}

	extras, err := s.serializeExtras(ctx, req.Extras)
	if err != nil {
		return nil, err
	}

	b.RoomID = room.ID
	b.ManagerID = &staff.ID
	b.Amount = quote.Amount
	b.Discount = quote.Discount
	b.AmountWithDiscount = quote.AmountWithDiscount
	b.Prepayment = prepayment
	b.ReserveFrom = reserveFrom
	b.ReserveTo = reserveTo
	b.Duration = duration
	b.Extras = extras
	b.Members = serializeMembers(req.Members)
	b.PriceType = req.PriceType
	b.ExpiresAt = expiresAt
	b.ManagerComment = req.ManagerComment

	if err := s.bookings.Update(ctx, b, rangeChanged, now); err != nil {
		if errors.Is(err, repository.ErrPeriodBusy) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	refreshed, err := s.refreshed(ctx, b)
	if err != nil {
		return nil, err
	}

	s.calendar.BookingUpdated(ctx, room, refreshed)

	return refreshed, nil
}

// Cancel marks the booking cancelled and, when money was taken, files a
// refund request plus the deferred follow-ups. Service bookings get the
// refund record but no deferred actions.
func (s *Service) Cancel(ctx context.Context, b *domain.Booking, actor *domain.User) (*domain.Booking, error) {
	now := s.clock.Now()
	b.CanceledAt = &now
	b.Status = domain.BookingCancelled

	saveErr := s.bookings.Update(ctx, b, false, now)

	if b.Payed > 0 {
		refund := &domain.Refund{
			BookingID: b.ID,
			UserID:    actor.ID,
			Amount:    b.Payed,
			Status:    domain.RefundPending,
		}
		refundErr := s.refunds.Create(ctx, refund)
		if refundErr != nil {
			log.Printf("refund create failed booking_id=%d err=%v", b.ID, refundErr)
		}

		if refundErr == nil && !b.IsService {
			if err := s.deferred.EnqueueNeedReturn(ctx, b); err != nil {
				log.Printf("deferred need_return enqueue failed booking_id=%d err=%v", b.ID, err)
			}
		}
		if saveErr == nil && !b.IsService {
			if err := s.deferred.EnqueueCancel(ctx, b); err != nil {
				log.Printf("deferred booking_cancel enqueue failed booking_id=%d err=%v", b.ID, err)
			}
		}
	}

	if saveErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, saveErr)
	}

	return s.refreshed(ctx, b)
}

// GetByID loads a booking with its room and customer.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

// serializeExtras resolves the selection into a priced JSON snapshot.
// Unknown ids are skipped, not an error.
func (s *Service) serializeExtras(ctx context.Context, selection []ExtraSelection) (string, error) {
	snaps := make([]ExtraSnapshot, 0, len(selection))
	for _, sel := range selection {
		extra, err := s.rooms.FindExtraByID(ctx, sel.ID)
		if err != nil {
			return "", err
		}
		if extra == nil {
			continue
		}
		snaps = append(snaps, ExtraSnapshot{
			ID:    extra.ID,
			Name:  extra.Name,
			Price: extra.Price,
			Count: sel.Count,
		})
	}
	if len(snaps) == 0 {
		return "", nil
	}
	buf, err := json.Marshal(snaps)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// createUtmCode stores attribution when at least one tag is present. The
// source falls back to the HTTP referer. Failures are logged only; the
// booking itself is already committed.
func (s *Service) createUtmCode(ctx context.Context, b *domain.Booking, req CreateBookingRequest) {
	var source, medium, campaign, content, term string
	if req.UTM != nil {
		source = req.UTM.Source
		medium = req.UTM.Medium
		campaign = req.UTM.Campaign
		content = req.UTM.Content
		term = req.UTM.Term
	}
	if source == "" {
		source = req.Referer
	}
	if source == "" && medium == "" && campaign == "" && content == "" && term == "" {
		return
	}

	utm := &domain.UtmCode{
		BookingID: b.ID,
		Source:    optional(source),
		Medium:    optional(medium),
		Campaign:  optional(campaign),
		Content:   optional(content),
		Term:      optional(term),
	}
	if err := s.utms.Create(ctx, utm); err != nil {
		log.Printf("utm code create failed booking_id=%d err=%v", b.ID, err)
	}
}

func (s *Service) refreshed(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	fresh, err := s.bookings.GetByID(ctx, b.ID)
	if err != nil || fresh == nil {
		return b, nil
	}
	return fresh, nil
}

func mapPricingErr(err error) error {
	if errors.Is(err, pricing.ErrRoomNotFound) {
		return ErrNotFound
	}
	return err
}

func allowedPrepayment(percent int) bool {
	for _, p := range prepaymentPercents {
		if p == percent {
			return true
		}
	}
	return false
}

func serializeMembers(members []string) string {
	if len(members) == 0 {
		return ""
	}
	buf, err := json.Marshal(members)
	if err != nil {
		return ""
	}
	return string(buf)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
