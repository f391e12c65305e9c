package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crestview/hotel-pms-backend/internal/cache"
	"github.com/crestview/hotel-pms-backend/internal/clock"
	"github.com/crestview/hotel-pms-backend/internal/room"
	"github.com/sirupsen/logrus"
)

// Default times of day applied when a booking does not specify them.
const (
	DefaultCheckInTime  = "14:00"
	DefaultCheckOutTime = "12:00"
)

// RoomStore is the slice of room storage the engine writes through.
// room.Repository satisfies it.
type RoomStore interface {
	GetByNumber(ctx context.Context, number string) (*room.Room, error)
	UpdateStatus(ctx context.Context, number, status string) error
	// CompareAndSetStatus writes the status only when the stored value
	// still matches expected. Returns false when another writer got
	// there first.
	CompareAndSetStatus(ctx context.Context, number, expected, next string) (bool, error)
}

// BillingStore is the slice of billing the engine needs. Implemented by
// the billing service and injected to keep the dependency one-way.
type BillingStore interface {
	// CreateForBooking opens a billing record priced from the nightly
	// rate and night count using the stored billing settings.
	CreateForBooking(ctx context.Context, bookingID string, nightlyRate float64, nights int) error
	// HasPaid reports whether a paid billing record exists.
	HasPaid(ctx context.Context, bookingID string) (bool, error)
	// Reprice recomputes an existing billing total after a booking
	// change. A booking without billing is a no-op.
	Reprice(ctx context.Context, bookingID string, nightlyRate float64, nights int) error
	// DeleteForBooking removes a billing record during rollback.
	DeleteForBooking(ctx context.Context, bookingID string) error
}

// Notification is the fire-and-forget event handed to the Notifier.
type Notification struct {
	Type       string
	Title      string
	Message    string
	BookingID  string
	RoomNumber string
}

// Notifier delivers admin notifications. The engine never depends on
// delivery succeeding.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Spawn runs a task detached from the calling request. The default is a
// plain goroutine; tests substitute a synchronous version.
type Spawn func(func())

// CreateRequest carries the input of both booking-creation flows.
// RoomNumber may be empty when RoomTypeID is set; the first available
// room of the type is then assigned.
type CreateRequest struct {
	UserID       *int64
	GuestName    string
	GuestEmail   string
	GuestPhone   string
	RoomNumber   string
	RoomTypeID   int64
	CheckIn      time.Time
	CheckOut     time.Time
	CheckInTime  string
	CheckOutTime string
	Guests       int
}

// UpdateRequest carries a partial booking edit. Pointers distinguish
// "field not sent" from a zero value.
type UpdateRequest struct {
	GuestName    *string
	GuestEmail   *string
	GuestPhone   *string
	RoomNumber   *string
	CheckIn      *time.Time
	CheckOut     *time.Time
	CheckInTime  *string
	CheckOutTime *string
	Guests       *int
}

// Service is the booking lifecycle engine. Every status change and every
// room-status side effect in the system flows through one of these
// operations.
type Service interface {
	CreateCustomer(ctx context.Context, req CreateRequest) (*Booking, error)
	CreateAdmin(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error)
	Cancel(ctx context.Context, id string) (*Booking, error)
	// Rollback hard-deletes a still-pending booking and reverts its side
	// effects. The compensation path for failed multi-step creates.
	Rollback(ctx context.Context, id string) error
	CheckIn(ctx context.Context, id string) (*Booking, error)
	CheckOut(ctx context.Context, id string) (*Booking, error)
	// PaymentCompleted moves a pending booking to confirmed once billing
	// reports payment. Invoked by the billing service.
	PaymentCompleted(ctx context.Context, id string) error
	// ExpireStalePending cancels unpaid pending bookings older than ttl
	// and restores room status. Returns the number expired. One failing
	// booking never aborts the rest of the batch.
	ExpireStalePending(ctx context.Context, ttl time.Duration) (int, error)
	Summarize(ctx context.Context, userID int64) (*Summary, error)
}

type service struct {
	repo     Repository
	rooms    RoomStore
	resolver *Resolver
	billing  BillingStore
	notifier Notifier
	clock    clock.Clock
	cache    cache.Store
	log      *logrus.Logger
	spawn    Spawn
}

// NewService creates the booking Service.
func NewService(
	repo Repository,
	rooms RoomStore,
	resolver *Resolver,
	billing BillingStore,
	notifier Notifier,
	clk clock.Clock,
	cacheStore cache.Store,
	log *logrus.Logger,
	spawn Spawn,
) Service {
	if spawn == nil {
		spawn = func(f func()) { go f() }
	}
	return &service{
		repo:     repo,
		rooms:    rooms,
		resolver: resolver,
		billing:  billing,
		notifier: notifier,
		clock:    clk,
		cache:    cacheStore,
		log:      log,
		spawn:    spawn,
	}
}

// Nights bills a same-day range as one night, never zero.
func Nights(checkIn, checkOut time.Time) int {
	n := int(checkOut.Sub(checkIn).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

func (s *service) CreateCustomer(ctx context.Context, req CreateRequest) (*Booking, error) {
	return s.create(ctx, req, StatusPending, SourceDirect)
}

func (s *service) CreateAdmin(ctx context.Context, req CreateRequest) (*Booking, error) {
	return s.create(ctx, req, StatusConfirmed, SourceAdmin)
}

func (s *service) create(ctx context.Context, req CreateRequest, status, source string) (*Booking, error) {
	checkIn := clock.DateOf(req.CheckIn)
	checkOut := clock.DateOf(req.CheckOut)
	today := s.clock.Today()

	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}
	if checkIn.Before(today) {
		return nil, fmt.Errorf("%w: check-in date is in the past", ErrInvalidDateRange)
	}
	if req.Guests < 1 {
		return nil, fmt.Errorf("guest count must be at least 1")
	}

	rm, err := s.assignRoom(ctx, req, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	if !rm.TypeActive {
		return nil, ErrTypeNotOffered
	}
	if req.Guests > rm.Capacity {
		return nil, ErrCapacityExceeded
	}

	if !s.resolver.IsRoomFree(ctx, rm.Number, checkIn, checkOut, "") {
		return nil, ErrRoomUnavailable
	}

	b := &Booking{
		UserID:       req.UserID,
		GuestName:    strings.TrimSpace(req.GuestName),
		GuestEmail:   strings.ToLower(strings.TrimSpace(req.GuestEmail)),
		RoomNumber:   rm.Number,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		CheckInTime:  orDefault(req.CheckInTime, DefaultCheckInTime),
		CheckOutTime: orDefault(req.CheckOutTime, DefaultCheckOutTime),
		Guests:       req.Guests,
		Status:       status,
		Source:       source,
	}
	if strings.TrimSpace(req.GuestPhone) != "" {
		p := strings.TrimSpace(req.GuestPhone)
		b.GuestPhone = &p
	}

	if err := s.repo.Insert(ctx, b); err != nil {
		return nil, err
	}

	// The availability check above and the insert are not atomic. Verify
	// after the write and roll back the loser of a concurrent race.
	if conflicted, err := s.hasConflict(ctx, b); err != nil || conflicted {
		s.compensateCreate(ctx, b, "")
		if err != nil {
			return nil, err
		}
		return nil, ErrRoomUnavailable
	}

	// The claim is conditional on the status read before the insert. A
	// miss means an operator or another booking wrote in between; the
	// timeline is then the source of truth, not our stale read.
	newStatus := roomStatusOnCreate(status, checkIn, today)
	if newStatus != "" {
		ok, err := s.rooms.CompareAndSetStatus(ctx, b.RoomNumber, rm.Status, newStatus)
		if err != nil {
			s.compensateCreate(ctx, b, "")
			return nil, fmt.Errorf("room status update failed: %w", err)
		}
		if !ok {
			if err := s.recomputeRoomStatus(ctx, b.RoomNumber, ""); err != nil {
				s.log.WithError(err).WithField("room", b.RoomNumber).Error("room status recompute failed after create")
			}
		}
	}

	// Admin bookings are billed immediately; a billing failure unwinds
	// the booking and the room status.
	if status == StatusConfirmed && s.billing != nil {
		if err := s.billing.CreateForBooking(ctx, b.ID, rm.BasePrice, Nights(checkIn, checkOut)); err != nil {
			s.compensateCreate(ctx, b, newStatus)
			return nil, fmt.Errorf("billing creation failed: %w", err)
		}
	}

	s.invalidate(ctx, b)
	s.notify(Notification{
		Type:       "new_booking",
		Title:      "New booking " + b.ID,
		Message:    fmt.Sprintf("%s booked room %s (%s to %s)", b.GuestName, b.RoomNumber, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02")),
		BookingID:  b.ID,
		RoomNumber: b.RoomNumber,
	})

	return b, nil
}

// assignRoom resolves the target room: the explicitly requested one, or
// the first available room of the requested type in room-number order.
func (s *service) assignRoom(ctx context.Context, req CreateRequest, checkIn, checkOut time.Time) (*room.Room, error) {
	if req.RoomNumber != "" {
		rm, err := s.rooms.GetByNumber(ctx, req.RoomNumber)
		if err != nil {
			if errors.Is(err, room.ErrNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("room lookup failed: %w", err)
		}
		return rm, nil
	}

	if req.RoomTypeID == 0 {
		return nil, fmt.Errorf("room number or room type is required")
	}

	free := s.resolver.ListAvailableRooms(ctx, req.RoomTypeID, checkIn, checkOut)
	if len(free) == 0 {
		return nil, ErrRoomUnavailable
	}
	return free[0], nil
}

// hasConflict re-checks for an overlapping active booking after insert.
func (s *service) hasConflict(ctx context.Context, b *Booking) (bool, error) {
	intervals, err := s.repo.IntervalsForRoom(ctx, b.RoomNumber, b.ID)
	if err != nil {
		return false, fmt.Errorf("post-insert conflict check failed: %w", err)
	}
	for _, iv := range intervals {
		if Overlaps(b.CheckIn, b.CheckOut, iv.Start, iv.End) {
			return true, nil
		}
	}
	return false, nil
}

// compensateCreate unwinds a partially created booking: delete the row,
// revert any room-status change. Cleanup failures are logged, never
// surfaced over the original error.
func (s *service) compensateCreate(ctx context.Context, b *Booking, appliedRoomStatus string) {
	if err := s.repo.Delete(ctx, b.ID); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.WithError(err).WithField("booking_id", b.ID).Error("compensation: booking delete failed")
	}
	if appliedRoomStatus != "" {
		if err := s.recomputeRoomStatus(ctx, b.RoomNumber, b.ID); err != nil {
			s.log.WithError(err).WithField("room", b.RoomNumber).Error("compensation: room status revert failed")
		}
	}
	s.invalidate(ctx, b)
}

// roomStatusOnCreate is the room side effect of a booking creation, or
// "" for no change. A customer booking starting today leaves the room
// Available until payment confirms it.
func roomStatusOnCreate(bookingStatus string, checkIn, today time.Time) string {
	future := checkIn.After(today)
	switch bookingStatus {
	case StatusPending:
		if future {
			return room.StatusBooked
		}
		return ""
	case StatusConfirmed:
		if future {
			return room.StatusBooked
		}
		return room.StatusOccupied
	}
	return ""
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if Terminal(b.Status) {
		return nil, ErrInvalidTransition
	}

	oldRoom := b.RoomNumber
	oldCheckIn, oldCheckOut := b.CheckIn, b.CheckOut

	if req.GuestName != nil {
		b.GuestName = strings.TrimSpace(*req.GuestName)
	}
	if req.GuestEmail != nil {
		e := strings.ToLower(strings.TrimSpace(*req.GuestEmail))
		b.GuestEmail = e
	}
	if req.GuestPhone != nil {
		if strings.TrimSpace(*req.GuestPhone) == "" {
			b.GuestPhone = nil
		} else {
			p := strings.TrimSpace(*req.GuestPhone)
			b.GuestPhone = &p
		}
	}
	if req.RoomNumber != nil {
		b.RoomNumber = *req.RoomNumber
	}
	if req.CheckIn != nil {
		b.CheckIn = clock.DateOf(*req.CheckIn)
	}
	if req.CheckOut != nil {
		b.CheckOut = clock.DateOf(*req.CheckOut)
	}
	if req.CheckInTime != nil {
		b.CheckInTime = orDefault(*req.CheckInTime, DefaultCheckInTime)
	}
	if req.CheckOutTime != nil {
		b.CheckOutTime = orDefault(*req.CheckOutTime, DefaultCheckOutTime)
	}
	if req.Guests != nil {
		b.Guests = *req.Guests
	}

	if !b.CheckOut.After(b.CheckIn) {
		return nil, ErrInvalidDateRange
	}

	roomChanged := b.RoomNumber != oldRoom
	datesChanged := !b.CheckIn.Equal(oldCheckIn) || !b.CheckOut.Equal(oldCheckOut)

	rm, err := s.rooms.GetByNumber(ctx, b.RoomNumber)
	if err != nil {
		return nil, err
	}
	if b.Guests > rm.Capacity {
		return nil, ErrCapacityExceeded
	}

	if roomChanged || datesChanged {
		if !s.resolver.IsRoomFree(ctx, b.RoomNumber, b.CheckIn, b.CheckOut, b.ID) {
			return nil, ErrRoomUnavailable
		}
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	if roomChanged {
		// Release the old room if nothing else holds it.
		if err := s.recomputeRoomStatus(ctx, oldRoom, b.ID); err != nil {
			s.log.WithError(err).WithField("room", oldRoom).Error("release of old room failed")
		}
	}
	if roomChanged || datesChanged {
		// Derive the target room's status from its full timeline, this
		// booking included. A checked-in stay carries Occupied to the
		// room it moved into.
		if err := s.recomputeRoomStatus(ctx, b.RoomNumber, ""); err != nil {
			s.log.WithError(err).WithField("room", b.RoomNumber).Error("room status recompute failed")
		}
	}

	if (roomChanged || datesChanged) && s.billing != nil {
		if err := s.billing.Reprice(ctx, b.ID, rm.BasePrice, Nights(b.CheckIn, b.CheckOut)); err != nil {
			s.log.WithError(err).WithField("booking_id", b.ID).Error("billing reprice failed")
		}
	}

	s.invalidate(ctx, b)
	if roomChanged {
		s.cache.Delete(ctx, cache.RoomKey(oldRoom))
	}

	return b, nil
}

func (s *service) Cancel(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.IsCancelled {
		return nil, ErrAlreadyCancelled
	}
	if !CanTransition(b.Status, StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	now := s.clock.Now().UTC()
	if err := s.repo.MarkCancelled(ctx, id, now); err != nil {
		return nil, err
	}
	b.Status = StatusCancelled
	b.IsCancelled = true
	b.CancelledAt = &now

	if err := s.recomputeRoomStatus(ctx, b.RoomNumber, b.ID); err != nil {
		s.log.WithError(err).WithField("room", b.RoomNumber).Error("room status recompute failed after cancel")
	}

	s.invalidate(ctx, b)
	s.notify(Notification{
		Type:       "booking_cancelled",
		Title:      "Booking " + b.ID + " cancelled",
		Message:    fmt.Sprintf("Booking for room %s was cancelled", b.RoomNumber),
		BookingID:  b.ID,
		RoomNumber: b.RoomNumber,
	})

	return b, nil
}

func (s *service) Rollback(ctx context.Context, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status != StatusPending {
		return ErrNotRollbackable
	}

	if s.billing != nil {
		if err := s.billing.DeleteForBooking(ctx, id); err != nil {
			s.log.WithError(err).WithField("booking_id", id).Error("rollback: billing delete failed")
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.recomputeRoomStatus(ctx, b.RoomNumber, id); err != nil {
		s.log.WithError(err).WithField("room", b.RoomNumber).Error("rollback: room status recompute failed")
	}

	s.invalidate(ctx, b)

	return nil
}

func (s *service) CheckIn(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, StatusCheckedIn) {
		return nil, ErrInvalidTransition
	}

	today := s.clock.Today()
	if !ContainsDay(b.CheckIn, b.CheckOut, today) {
		return nil, fmt.Errorf("%w: stay does not cover today", ErrInvalidTransition)
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCheckedIn); err != nil {
		return nil, err
	}
	b.Status = StatusCheckedIn

	if err := s.rooms.UpdateStatus(ctx, b.RoomNumber, room.StatusOccupied); err != nil {
		s.log.WithError(err).WithField("room", b.RoomNumber).Error("room status update failed on check-in")
	}

	s.invalidate(ctx, b)

	return b, nil
}

func (s *service) CheckOut(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(b.Status, StatusCheckedOut) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCheckedOut); err != nil {
		return nil, err
	}
	b.Status = StatusCheckedOut

	if err := s.recomputeRoomStatus(ctx, b.RoomNumber, b.ID); err != nil {
		s.log.WithError(err).WithField("room", b.RoomNumber).Error("room status recompute failed on check-out")
	}

	s.invalidate(ctx, b)

	return b, nil
}

func (s *service) PaymentCompleted(ctx context.Context, id string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status != StatusPending {
		// Already confirmed or beyond; payment is a no-op.
		return nil
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusConfirmed); err != nil {
		return err
	}
	b.Status = StatusConfirmed

	// A stay starting today (or already underway) occupies the room the
	// moment it is paid; a future stay already holds Booked.
	today := s.clock.Today()
	if !b.CheckIn.After(today) {
		if err := s.rooms.UpdateStatus(ctx, b.RoomNumber, room.StatusOccupied); err != nil {
			s.log.WithError(err).WithField("room", b.RoomNumber).Error("room status update failed on payment")
		}
	}

	s.invalidate(ctx, b)
	s.notify(Notification{
		Type:       "booking_confirmed",
		Title:      "Booking " + b.ID + " confirmed",
		Message:    fmt.Sprintf("Payment received for room %s", b.RoomNumber),
		BookingID:  b.ID,
		RoomNumber: b.RoomNumber,
	})

	return nil
}

func (s *service) ExpireStalePending(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := s.clock.Now().UTC().Add(-ttl)

	stale, err := s.repo.ListExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale pending failed: %w", err)
	}

	expired := 0
	for _, b := range stale {
		if err := s.expireOne(ctx, b); err != nil {
			s.log.WithError(err).WithField("booking_id", b.ID).Error("sweep: expiry failed, continuing")
			continue
		}
		expired++
	}

	return expired, nil
}

// expireOne cancels a single stale pending booking unless a paid billing
// record turned up in the meantime. Payment is the cancellation signal
// for the sweep; the delayed task is not addressable for a targeted
// "cancel my cleanup" call.
func (s *service) expireOne(ctx context.Context, b *Booking) error {
	if s.billing != nil {
		paid, err := s.billing.HasPaid(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("paid check failed: %w", err)
		}
		if paid {
			return nil
		}
	}

	now := s.clock.Now().UTC()
	if err := s.repo.MarkCancelled(ctx, b.ID, now); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	b.Status = StatusCancelled
	b.IsCancelled = true

	if err := s.recomputeRoomStatus(ctx, b.RoomNumber, b.ID); err != nil {
		s.log.WithError(err).WithField("room", b.RoomNumber).Error("sweep: room status recompute failed")
	}

	s.invalidate(ctx, b)
	s.notify(Notification{
		Type:       "booking_expired",
		Title:      "Booking " + b.ID + " expired",
		Message:    fmt.Sprintf("Pending booking for room %s expired unpaid and was cancelled", b.RoomNumber),
		BookingID:  b.ID,
		RoomNumber: b.RoomNumber,
	})

	return nil
}

func (s *service) Summarize(ctx context.Context, userID int64) (*Summary, error) {
	return s.repo.Summarize(ctx, userID, s.clock.Today())
}

// recomputeRoomStatus derives the stored status from the remaining
// active bookings, excluding excludeID. Maintenance is operator-owned
// and never overwritten here.
func (s *service) recomputeRoomStatus(ctx context.Context, roomNumber, excludeID string) error {
	rm, err := s.rooms.GetByNumber(ctx, roomNumber)
	if err != nil {
		return err
	}
	if rm.Status == room.StatusMaintenance {
		return nil
	}

	intervals, err := s.repo.IntervalsForRoom(ctx, roomNumber, excludeID)
	if err != nil {
		return err
	}

	derived := DeriveRoomStatus(intervals, s.clock.Today())
	if derived == rm.Status {
		return nil
	}
	return s.rooms.UpdateStatus(ctx, roomNumber, derived)
}

// DeriveRoomStatus computes what a room's stored status should be from
// its active booking intervals. A confirmed stay covering today means
// Occupied; a pending stay covering today or any future stay means
// Booked; otherwise Available. Maintenance is operator-owned and never
// derived.
func DeriveRoomStatus(intervals []Interval, today time.Time) string {
	var coversPending, coversConfirmed, future bool
	for _, iv := range intervals {
		switch {
		case ContainsDay(iv.Start, iv.End, today):
			if iv.Status == StatusPending {
				coversPending = true
			} else {
				coversConfirmed = true
			}
		case iv.Start.After(today):
			future = true
		}
	}

	switch {
	case coversConfirmed:
		return room.StatusOccupied
	case coversPending, future:
		return room.StatusBooked
	}
	return room.StatusAvailable
}

func (s *service) invalidate(ctx context.Context, b *Booking) {
	var userID int64
	if b.UserID != nil {
		userID = *b.UserID
	}
	cache.InvalidateBookingRelated(ctx, s.cache, b.RoomNumber, userID)
}

func (s *service) notify(n Notification) {
	if s.notifier == nil {
		return
	}
	s.spawn(func() {
		s.notifier.Notify(context.Background(), n)
	})
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
