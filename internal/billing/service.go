package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/crestview/hotel-pms-backend/internal/booking"
	"github.com/crestview/hotel-pms-backend/internal/cache"
	"github.com/crestview/hotel-pms-backend/internal/room"
)

// BookingGateway is the slice of the booking engine the payment flow
// needs. Satisfied by booking.Service; bound after construction because
// the booking engine itself depends on this package's Service.
type BookingGateway interface {
	GetByID(ctx context.Context, id string) (*booking.Booking, error)
	PaymentCompleted(ctx context.Context, id string) error
}

// RoomStore resolves the nightly rate for a booked room.
type RoomStore interface {
	GetByNumber(ctx context.Context, number string) (*room.Room, error)
}

// CreateRequest is a customer payment for a pending booking.
type CreateRequest struct {
	BookingID     string
	PaymentMethod string
	PaymentStatus string
}

type Service interface {
	// Create records a payment for a pending booking and confirms it
	// through the booking engine. The billing insert is rolled back if
	// the confirmation write fails.
	Create(ctx context.Context, req CreateRequest) (*Billing, error)
	GetByBooking(ctx context.Context, bookingID string) (*Billing, error)
	Settings(ctx context.Context) (*Settings, error)
	UpdateSettings(ctx context.Context, vat, discount float64) (*Settings, error)

	// BindBookings attaches the booking engine once both services exist.
	BindBookings(g BookingGateway)

	// The remaining methods implement the booking engine's billing port.
	CreateForBooking(ctx context.Context, bookingID string, nightlyRate float64, nights int) error
	HasPaid(ctx context.Context, bookingID string) (bool, error)
	Reprice(ctx context.Context, bookingID string, nightlyRate float64, nights int) error
	DeleteForBooking(ctx context.Context, bookingID string) error
}

type service struct {
	repo     Repository
	rooms    RoomStore
	bookings BookingGateway
	cache    cache.Store
	log      *logrus.Logger
}

func NewService(repo Repository, rooms RoomStore, cacheStore cache.Store, log *logrus.Logger) Service {
	return &service{
		repo:  repo,
		rooms: rooms,
		cache: cacheStore,
		log:   log,
	}
}

func (s *service) BindBookings(g BookingGateway) {
	s.bookings = g
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Billing, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if b.Status != booking.StatusPending || b.IsCancelled {
		return nil, ErrNotBillable
	}

	if _, err := s.repo.GetByBooking(ctx, b.ID); err == nil {
		return nil, ErrAlreadyBilled
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	rm, err := s.rooms.GetByNumber(ctx, b.RoomNumber)
	if err != nil {
		return nil, fmt.Errorf("resolve room rate: %w", err)
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}

	total, err := ComputeTotal(rm.BasePrice, booking.Nights(b.CheckIn, b.CheckOut), settings.Discount, settings.VAT)
	if err != nil {
		return nil, err
	}

	record := &Billing{
		BookingID:     b.ID,
		RoomPrice:     rm.BasePrice,
		Discount:      settings.Discount,
		VAT:           settings.VAT,
		TotalAmount:   total,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, err
	}

	// Confirm through the booking engine so room status and
	// notifications follow the lifecycle rules. The billing row is the
	// partial write to undo if this fails.
	if err := s.bookings.PaymentCompleted(ctx, b.ID); err != nil {
		if delErr := s.repo.DeleteByBooking(ctx, b.ID); delErr != nil {
			s.log.WithError(delErr).WithField("booking_id", b.ID).
				Error("billing rollback failed after confirm error")
		}
		return nil, fmt.Errorf("confirm booking after payment: %w", err)
	}

	return record, nil
}

func (s *service) GetByBooking(ctx context.Context, bookingID string) (*Billing, error) {
	return s.repo.GetByBooking(ctx, bookingID)
}

func (s *service) Settings(ctx context.Context) (*Settings, error) {
	var cached Settings
	if s.cache.Get(ctx, cache.BillingSettingsKey, &cached) {
		return &cached, nil
	}

	settings, err := s.repo.GetSettings(ctx)
	if errors.Is(err, ErrNotFound) {
		settings = &Settings{VAT: DefaultVAT, Discount: DefaultDiscount}
		if err := s.repo.InsertSettings(ctx, settings); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cache.BillingSettingsKey, settings, cache.BillingSettingsTTL)
	return settings, nil
}

func (s *service) UpdateSettings(ctx context.Context, vat, discount float64) (*Settings, error) {
	if discount < 0 || discount > 100 {
		return nil, ErrInvalidDiscount
	}
	if vat < 0 || vat > 30 {
		return nil, ErrInvalidVAT
	}

	settings, err := s.repo.GetSettings(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		settings = &Settings{VAT: vat, Discount: discount}
		if err := s.repo.InsertSettings(ctx, settings); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		settings.VAT = vat
		settings.Discount = discount
		if err := s.repo.UpdateSettings(ctx, settings); err != nil {
			return nil, err
		}
	}

	s.cache.Delete(ctx, cache.BillingSettingsKey)
	s.cache.Set(ctx, cache.BillingSettingsKey, settings, cache.BillingSettingsTTL)

	return settings, nil
}

// CreateForBooking opens a billing record for an admin-created booking.
// Front-desk bookings settle at checkout, so the record starts Pending.
func (s *service) CreateForBooking(ctx context.Context, bookingID string, nightlyRate float64, nights int) error {
	settings, err := s.Settings(ctx)
	if err != nil {
		return err
	}

	total, err := ComputeTotal(nightlyRate, nights, settings.Discount, settings.VAT)
	if err != nil {
		return err
	}

	return s.repo.Insert(ctx, &Billing{
		BookingID:     bookingID,
		RoomPrice:     nightlyRate,
		Discount:      settings.Discount,
		VAT:           settings.VAT,
		TotalAmount:   total,
		PaymentMethod: PaymentMethodCash,
		PaymentStatus: PaymentStatusPending,
	})
}

func (s *service) HasPaid(ctx context.Context, bookingID string) (bool, error) {
	return s.repo.HasPaid(ctx, bookingID)
}

// Reprice recomputes the total after a booking edit, keeping the
// discount and VAT captured at billing time. Bookings without a billing
// record yet have nothing to reprice.
func (s *service) Reprice(ctx context.Context, bookingID string, nightlyRate float64, nights int) error {
	record, err := s.repo.GetByBooking(ctx, bookingID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	total, err := ComputeTotal(nightlyRate, nights, record.Discount, record.VAT)
	if err != nil {
		return err
	}

	return s.repo.UpdateTotal(ctx, bookingID, nightlyRate, total)
}

func (s *service) DeleteForBooking(ctx context.Context, bookingID string) error {
	err := s.repo.DeleteByBooking(ctx, bookingID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
