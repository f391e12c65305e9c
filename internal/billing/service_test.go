package billing

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestview/hotel-pms-backend/internal/booking"
	"github.com/crestview/hotel-pms-backend/internal/cache"
	"github.com/crestview/hotel-pms-backend/internal/room"
)

type stubRepo struct {
	records  map[string]*Billing
	settings *Settings
	seq      int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{records: make(map[string]*Billing)}
}

func (s *stubRepo) Insert(_ context.Context, b *Billing) error {
	if _, ok := s.records[b.BookingID]; ok {
		return ErrAlreadyBilled
	}
	s.seq++
	b.ID = s.seq
	cp := *b
	s.records[b.BookingID] = &cp
	return nil
}

func (s *stubRepo) GetByBooking(_ context.Context, bookingID string) (*Billing, error) {
	b, ok := s.records[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *stubRepo) HasPaid(_ context.Context, bookingID string) (bool, error) {
	b, ok := s.records[bookingID]
	return ok && b.PaymentStatus == PaymentStatusPaid && !b.IsCancelled, nil
}

func (s *stubRepo) UpdateTotal(_ context.Context, bookingID string, roomPrice, total float64) error {
	b, ok := s.records[bookingID]
	if !ok {
		return ErrNotFound
	}
	b.RoomPrice = roomPrice
	b.TotalAmount = total
	return nil
}

func (s *stubRepo) DeleteByBooking(_ context.Context, bookingID string) error {
	if _, ok := s.records[bookingID]; !ok {
		return ErrNotFound
	}
	delete(s.records, bookingID)
	return nil
}

func (s *stubRepo) GetSettings(_ context.Context) (*Settings, error) {
	if s.settings == nil {
		return nil, ErrNotFound
	}
	cp := *s.settings
	return &cp, nil
}

func (s *stubRepo) InsertSettings(_ context.Context, settings *Settings) error {
	settings.ID = 1
	cp := *settings
	s.settings = &cp
	return nil
}

func (s *stubRepo) UpdateSettings(_ context.Context, settings *Settings) error {
	if s.settings == nil {
		return ErrNotFound
	}
	cp := *settings
	s.settings = &cp
	return nil
}

type stubRooms struct {
	rate float64
}

func (s *stubRooms) GetByNumber(_ context.Context, number string) (*room.Room, error) {
	return &room.Room{Number: number, BasePrice: s.rate, Capacity: 2, TypeActive: true}, nil
}

// stubGateway serves one pending booking and records confirmations.
type stubGateway struct {
	booking    *booking.Booking
	confirmed  []string
	confirmErr error
}

func (s *stubGateway) GetByID(_ context.Context, id string) (*booking.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, booking.ErrNotFound
	}
	cp := *s.booking
	return &cp, nil
}

func (s *stubGateway) PaymentCompleted(_ context.Context, id string) error {
	if s.confirmErr != nil {
		return s.confirmErr
	}
	s.confirmed = append(s.confirmed, id)
	return nil
}

func pendingBooking(id string, nights int) *booking.Booking {
	checkIn := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	return &booking.Booking{
		ID:         id,
		GuestName:  "Guest",
		GuestEmail: "guest@example.com",
		RoomNumber: "101",
		CheckIn:    checkIn,
		CheckOut:   checkIn.AddDate(0, 0, nights),
		Guests:     2,
		Status:     booking.StatusPending,
		Source:     booking.SourceDirect,
	}
}

func newTestService(repo Repository, rooms RoomStore, gw BookingGateway) Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := NewService(repo, rooms, cache.NewNoop(), log)
	svc.BindBookings(gw)
	return svc
}

func TestCreate(t *testing.T) {
	t.Run("prices the stay and confirms the booking", func(t *testing.T) {
		repo := newStubRepo()
		repo.settings = &Settings{ID: 1, VAT: 13, Discount: 10}
		gw := &stubGateway{booking: pendingBooking("BK001", 2)}
		svc := newTestService(repo, &stubRooms{rate: 5000}, gw)

		rec, err := svc.Create(context.Background(), CreateRequest{
			BookingID:     "BK001",
			PaymentMethod: PaymentMethodCard,
			PaymentStatus: PaymentStatusPaid,
		})
		require.NoError(t, err)

		assert.InDelta(t, 10170, rec.TotalAmount, 0.001)
		assert.Equal(t, 5000.0, rec.RoomPrice)
		assert.Equal(t, []string{"BK001"}, gw.confirmed)
	})

	t.Run("first payment seeds default settings", func(t *testing.T) {
		repo := newStubRepo()
		gw := &stubGateway{booking: pendingBooking("BK001", 1)}
		svc := newTestService(repo, &stubRooms{rate: 1000}, gw)

		rec, err := svc.Create(context.Background(), CreateRequest{
			BookingID:     "BK001",
			PaymentMethod: PaymentMethodOnline,
			PaymentStatus: PaymentStatusPaid,
		})
		require.NoError(t, err)

		// 1000 with the default 13% VAT and no discount.
		assert.InDelta(t, 1130, rec.TotalAmount, 0.001)
		require.NotNil(t, repo.settings)
		assert.Equal(t, DefaultVAT, repo.settings.VAT)
	})

	t.Run("second payment for the same booking is rejected", func(t *testing.T) {
		repo := newStubRepo()
		gw := &stubGateway{booking: pendingBooking("BK001", 1)}
		svc := newTestService(repo, &stubRooms{rate: 1000}, gw)

		req := CreateRequest{BookingID: "BK001", PaymentMethod: PaymentMethodCard, PaymentStatus: PaymentStatusPaid}
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrAlreadyBilled)
	})

	t.Run("only pending bookings are billable", func(t *testing.T) {
		b := pendingBooking("BK001", 1)
		b.Status = booking.StatusConfirmed
		svc := newTestService(newStubRepo(), &stubRooms{rate: 1000}, &stubGateway{booking: b})

		_, err := svc.Create(context.Background(), CreateRequest{
			BookingID: "BK001", PaymentMethod: PaymentMethodCard, PaymentStatus: PaymentStatusPaid,
		})
		assert.ErrorIs(t, err, ErrNotBillable)
	})

	t.Run("failed confirmation rolls the billing row back", func(t *testing.T) {
		repo := newStubRepo()
		gw := &stubGateway{booking: pendingBooking("BK001", 1), confirmErr: errors.New("write failed")}
		svc := newTestService(repo, &stubRooms{rate: 1000}, gw)

		_, err := svc.Create(context.Background(), CreateRequest{
			BookingID: "BK001", PaymentMethod: PaymentMethodCard, PaymentStatus: PaymentStatusPaid,
		})
		require.Error(t, err)
		assert.Empty(t, repo.records, "no orphaned billing row")
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc := newTestService(newStubRepo(), &stubRooms{rate: 1000}, &stubGateway{})
		_, err := svc.Create(context.Background(), CreateRequest{
			BookingID: "BK404", PaymentMethod: PaymentMethodCard, PaymentStatus: PaymentStatusPaid,
		})
		assert.ErrorIs(t, err, booking.ErrNotFound)
	})
}

func TestCreateForBooking(t *testing.T) {
	repo := newStubRepo()
	repo.settings = &Settings{ID: 1, VAT: 13, Discount: 0}
	svc := newTestService(repo, &stubRooms{rate: 5000}, &stubGateway{})

	require.NoError(t, svc.CreateForBooking(context.Background(), "BK001", 5000, 2))

	rec, err := svc.GetByBooking(context.Background(), "BK001")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodCash, rec.PaymentMethod)
	assert.Equal(t, PaymentStatusPending, rec.PaymentStatus, "front-desk bookings settle at checkout")
	assert.InDelta(t, 11300, rec.TotalAmount, 0.001)

	paid, err := svc.HasPaid(context.Background(), "BK001")
	require.NoError(t, err)
	assert.False(t, paid)
}

func TestReprice(t *testing.T) {
	t.Run("keeps the rates captured at billing time", func(t *testing.T) {
		repo := newStubRepo()
		repo.settings = &Settings{ID: 1, VAT: 13, Discount: 10}
		gw := &stubGateway{booking: pendingBooking("BK001", 2)}
		svc := newTestService(repo, &stubRooms{rate: 5000}, gw)

		_, err := svc.Create(context.Background(), CreateRequest{
			BookingID: "BK001", PaymentMethod: PaymentMethodCard, PaymentStatus: PaymentStatusPaid,
		})
		require.NoError(t, err)

		// Settings change after billing; a reprice must not pick them up.
		_, err = svc.UpdateSettings(context.Background(), 0, 0)
		require.NoError(t, err)

		require.NoError(t, svc.Reprice(context.Background(), "BK001", 5000, 3))

		rec, err := svc.GetByBooking(context.Background(), "BK001")
		require.NoError(t, err)
		assert.InDelta(t, 15255, rec.TotalAmount, 0.001, "3 nights at the original 10/13 terms")
	})

	t.Run("booking without billing is a no-op", func(t *testing.T) {
		svc := newTestService(newStubRepo(), &stubRooms{rate: 5000}, &stubGateway{})
		assert.NoError(t, svc.Reprice(context.Background(), "BK404", 5000, 2))
	})
}

func TestSettings(t *testing.T) {
	t.Run("defaults are created on first read", func(t *testing.T) {
		repo := newStubRepo()
		svc := newTestService(repo, &stubRooms{}, &stubGateway{})

		settings, err := svc.Settings(context.Background())
		require.NoError(t, err)
		assert.Equal(t, DefaultVAT, settings.VAT)
		assert.Equal(t, DefaultDiscount, settings.Discount)
		assert.NotNil(t, repo.settings, "defaults are persisted")
	})

	t.Run("update validates bounds", func(t *testing.T) {
		svc := newTestService(newStubRepo(), &stubRooms{}, &stubGateway{})

		_, err := svc.UpdateSettings(context.Background(), 31, 10)
		assert.ErrorIs(t, err, ErrInvalidVAT)

		_, err = svc.UpdateSettings(context.Background(), 13, 101)
		assert.ErrorIs(t, err, ErrInvalidDiscount)

		settings, err := svc.UpdateSettings(context.Background(), 15, 5)
		require.NoError(t, err)
		assert.Equal(t, 15.0, settings.VAT)
		assert.Equal(t, 5.0, settings.Discount)
	})
}

func TestDeleteForBooking(t *testing.T) {
	repo := newStubRepo()
	repo.settings = &Settings{ID: 1, VAT: 13, Discount: 0}
	svc := newTestService(repo, &stubRooms{rate: 5000}, &stubGateway{})

	require.NoError(t, svc.CreateForBooking(context.Background(), "BK001", 5000, 1))
	require.NoError(t, svc.DeleteForBooking(context.Background(), "BK001"))

	_, err := svc.GetByBooking(context.Background(), "BK001")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, svc.DeleteForBooking(context.Background(), "BK001"), "missing record is not an error")
}
