package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestview/hotel-pms-backend/internal/cache"
	"github.com/crestview/hotel-pms-backend/internal/room"
)

// fakeClock pins the hotel-local date for deterministic "today" checks.
type fakeClock struct {
	today time.Time
}

func (c fakeClock) Now() time.Time   { return c.today.Add(12 * time.Hour) }
func (c fakeClock) Today() time.Time { return c.today }

// fakeRooms is an in-memory room store satisfying both RoomStore and
// RoomInventory.
type fakeRooms struct {
	rooms   map[string]*room.Room
	getErr  error
	listErr error
}

func newFakeRooms(rooms ...*room.Room) *fakeRooms {
	m := make(map[string]*room.Room, len(rooms))
	for _, rm := range rooms {
		m[rm.Number] = rm
	}
	return &fakeRooms{rooms: m}
}

func (f *fakeRooms) GetByNumber(_ context.Context, number string) (*room.Room, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	rm, ok := f.rooms[number]
	if !ok {
		return nil, room.ErrNotFound
	}
	cp := *rm
	return &cp, nil
}

func (f *fakeRooms) ListByType(_ context.Context, roomTypeID int64) ([]*room.Room, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*room.Room
	for _, rm := range f.rooms {
		if rm.RoomTypeID == roomTypeID {
			cp := *rm
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeRooms) UpdateStatus(_ context.Context, number, status string) error {
	rm, ok := f.rooms[number]
	if !ok {
		return room.ErrNotFound
	}
	rm.Status = status
	return nil
}

func (f *fakeRooms) CompareAndSetStatus(_ context.Context, number, expected, next string) (bool, error) {
	rm, ok := f.rooms[number]
	if !ok {
		return false, room.ErrNotFound
	}
	if rm.Status != expected {
		return false, nil
	}
	rm.Status = next
	return true, nil
}

func (f *fakeRooms) status(number string) string {
	return f.rooms[number].Status
}

// fakeRepo is an in-memory booking Repository. IDs follow the same
// "BK" + zero-padded sequence the database issues.
type fakeRepo struct {
	bookings map[string]*Booking
	seq      int

	// onInsert runs after a successful insert, before returning. Used to
	// simulate a concurrent writer landing between the availability check
	// and the conflict re-check.
	onInsert func()

	markCancelledErr map[string]error
	intervalsErr     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings:         make(map[string]*Booking),
		markCancelledErr: make(map[string]error),
	}
}

func (f *fakeRepo) Insert(_ context.Context, b *Booking) error {
	f.seq++
	b.ID = fmt.Sprintf("%s%03d", IDPrefix, f.seq)
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.bookings[b.ID] = &cp
	if f.onInsert != nil {
		f.onInsert()
	}
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, _ Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range f.bookings {
		cp := *b
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, b *Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id, status string) error {
	b, ok := f.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeRepo) MarkCancelled(_ context.Context, id string, at time.Time) error {
	if err := f.markCancelledErr[id]; err != nil {
		return err
	}
	b, ok := f.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = StatusCancelled
	b.IsCancelled = true
	b.CancelledAt = &at
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeRepo) IntervalsForRoom(_ context.Context, roomNumber, excludeID string) ([]Interval, error) {
	if f.intervalsErr != nil {
		return nil, f.intervalsErr
	}
	var out []Interval
	for _, b := range f.bookings {
		if b.RoomNumber != roomNumber || b.ID == excludeID || !b.Active() {
			continue
		}
		out = append(out, Interval{
			BookingID:  b.ID,
			RoomNumber: b.RoomNumber,
			Start:      b.CheckIn,
			End:        b.CheckOut,
			Status:     b.Status,
		})
	}
	return out, nil
}

func (f *fakeRepo) IntervalsForRooms(_ context.Context, roomNumbers []string, start, end time.Time) ([]Interval, error) {
	if f.intervalsErr != nil {
		return nil, f.intervalsErr
	}
	wanted := make(map[string]bool, len(roomNumbers))
	for _, n := range roomNumbers {
		wanted[n] = true
	}
	var out []Interval
	for _, b := range f.bookings {
		if !wanted[b.RoomNumber] || !b.Active() {
			continue
		}
		if b.CheckIn.Before(end) && b.CheckOut.After(start) {
			out = append(out, Interval{
				BookingID:  b.ID,
				RoomNumber: b.RoomNumber,
				Start:      b.CheckIn,
				End:        b.CheckOut,
				Status:     b.Status,
			})
		}
	}
	return out, nil
}

func (f *fakeRepo) ActiveToday(_ context.Context, roomNumber string, today time.Time) (bool, bool, error) {
	var active, confirmed bool
	for _, b := range f.bookings {
		if b.RoomNumber != roomNumber || !b.Active() {
			continue
		}
		if ContainsDay(b.CheckIn, b.CheckOut, today) {
			active = true
			if b.Status != StatusPending {
				confirmed = true
			}
		}
	}
	return active, confirmed, nil
}

func (f *fakeRepo) ListExpiredPending(_ context.Context, cutoff time.Time) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.Status == StatusPending && !b.IsCancelled && b.CreatedAt.Before(cutoff) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) Summarize(_ context.Context, _ int64, _ time.Time) (*Summary, error) {
	return &Summary{}, nil
}

// fakeBilling records calls and can simulate paid bookings or failures.
type fakeBilling struct {
	created   []string
	deleted   []string
	repriced  []string
	paid      map[string]bool
	createErr error
}

func newFakeBilling() *fakeBilling {
	return &fakeBilling{paid: make(map[string]bool)}
}

func (f *fakeBilling) CreateForBooking(_ context.Context, bookingID string, _ float64, _ int) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, bookingID)
	return nil
}

func (f *fakeBilling) HasPaid(_ context.Context, bookingID string) (bool, error) {
	return f.paid[bookingID], nil
}

func (f *fakeBilling) Reprice(_ context.Context, bookingID string, _ float64, _ int) error {
	f.repriced = append(f.repriced, bookingID)
	return nil
}

func (f *fakeBilling) DeleteForBooking(_ context.Context, bookingID string) error {
	f.deleted = append(f.deleted, bookingID)
	return nil
}

// fakeNotifier collects dispatched notifications.
type fakeNotifier struct {
	events []Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n Notification) {
	f.events = append(f.events, n)
}

func (f *fakeNotifier) types() []string {
	out := make([]string, len(f.events))
	for i, n := range f.events {
		out[i] = n.Type
	}
	return out
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type testEnv struct {
	svc      Service
	repo     *fakeRepo
	rooms    *fakeRooms
	billing  *fakeBilling
	notifier *fakeNotifier
	clk      fakeClock
}

// newTestEnv wires the engine over in-memory fakes with a synchronous
// spawn, so notifications are observable immediately.
func newTestEnv(today time.Time, rooms ...*room.Room) *testEnv {
	env := &testEnv{
		repo:     newFakeRepo(),
		rooms:    newFakeRooms(rooms...),
		billing:  newFakeBilling(),
		notifier: &fakeNotifier{},
		clk:      fakeClock{today: today},
	}
	log := testLogger()
	resolver := NewResolver(env.rooms, env.repo, env.clk, cache.NewNoop(), log)
	env.svc = NewService(
		env.repo,
		env.rooms,
		resolver,
		env.billing,
		env.notifier,
		env.clk,
		cache.NewNoop(),
		log,
		func(f func()) { f() },
	)
	return env
}

func standardRoom(number string) *room.Room {
	return &room.Room{
		Number:     number,
		RoomTypeID: 1,
		Floor:      1,
		Status:     room.StatusAvailable,
		TypeName:   "Standard",
		BasePrice:  5000,
		Capacity:   3,
		TypeActive: true,
	}
}

func TestNights(t *testing.T) {
	jun1 := date(2026, time.June, 1)
	assert.Equal(t, 1, Nights(jun1, jun1), "same-day range bills one night")
	assert.Equal(t, 1, Nights(jun1, jun1.AddDate(0, 0, 1)))
	assert.Equal(t, 2, Nights(jun1, jun1.AddDate(0, 0, 2)))
	assert.Equal(t, 7, Nights(jun1, jun1.AddDate(0, 0, 7)))
}

func TestCreateCustomer(t *testing.T) {
	today := date(2026, time.June, 1)

	t.Run("future booking gets sequential ID and books the room", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))

		b, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Ada Lovelace",
			GuestEmail: "Ada@Example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 5),
			CheckOut:   date(2026, time.June, 7),
			Guests:     2,
		})
		require.NoError(t, err)

		assert.Equal(t, "BK001", b.ID)
		assert.Equal(t, StatusPending, b.Status)
		assert.Equal(t, SourceDirect, b.Source)
		assert.Equal(t, "ada@example.com", b.GuestEmail)
		assert.Equal(t, DefaultCheckInTime, b.CheckInTime)
		assert.Equal(t, DefaultCheckOutTime, b.CheckOutTime)
		assert.Equal(t, room.StatusBooked, env.rooms.status("101"))
		assert.Equal(t, []string{"new_booking"}, env.notifier.types())

		b2, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Grace Hopper",
			GuestEmail: "grace@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     1,
		})
		require.NoError(t, err)
		assert.Equal(t, "BK002", b2.ID)
	})

	t.Run("booking starting today leaves the room Available until payment", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))

		b, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Ada Lovelace",
			GuestEmail: "ada@example.com",
			RoomNumber: "101",
			CheckIn:    today,
			CheckOut:   today.AddDate(0, 0, 2),
			Guests:     2,
		})
		require.NoError(t, err)
		assert.Equal(t, room.StatusAvailable, env.rooms.status("101"))

		require.NoError(t, env.svc.PaymentCompleted(context.Background(), b.ID))

		got, err := env.svc.GetByID(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, got.Status)
		assert.Equal(t, room.StatusOccupied, env.rooms.status("101"))
		assert.Contains(t, env.notifier.types(), "booking_confirmed")
	})

	t.Run("rejects invalid date ranges", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))

		_, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Ada",
			GuestEmail: "ada@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 7),
			CheckOut:   date(2026, time.June, 5),
			Guests:     1,
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange)

		_, err = env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Ada",
			GuestEmail: "ada@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.May, 20),
			CheckOut:   date(2026, time.May, 22),
			Guests:     1,
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange, "past check-in is rejected")
	})

	t.Run("rejects guest count over room-type capacity", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))

		_, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Ada",
			GuestEmail: "ada@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 5),
			CheckOut:   date(2026, time.June, 7),
			Guests:     4,
		})
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("rejects overlap with an existing booking", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))

		_, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Ada",
			GuestEmail: "ada@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 5),
			CheckOut:   date(2026, time.June, 8),
			Guests:     1,
		})
		require.NoError(t, err)

		_, err = env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Grace",
			GuestEmail: "grace@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 7),
			CheckOut:   date(2026, time.June, 9),
			Guests:     1,
		})
		assert.ErrorIs(t, err, ErrRoomUnavailable)

		// Back-to-back is fine: new guest arrives on checkout day.
		_, err = env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Grace",
			GuestEmail: "grace@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 8),
			CheckOut:   date(2026, time.June, 10),
			Guests:     1,
		})
		assert.NoError(t, err)
	})

	t.Run("rejects a disabled room type", func(t *testing.T) {
		rm := standardRoom("101")
		rm.TypeActive = false
		env := newTestEnv(today, rm)

		_, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Ada",
			GuestEmail: "ada@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 5),
			CheckOut:   date(2026, time.June, 7),
			Guests:     1,
		})
		assert.ErrorIs(t, err, ErrTypeNotOffered)
	})

	t.Run("assigns the first available room of a type", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"), standardRoom("102"), standardRoom("103"))

		// Take 101 first.
		_, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Ada",
			GuestEmail: "ada@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 5),
			CheckOut:   date(2026, time.June, 7),
			Guests:     1,
		})
		require.NoError(t, err)

		b, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Grace",
			GuestEmail: "grace@example.com",
			RoomTypeID: 1,
			CheckIn:    date(2026, time.June, 5),
			CheckOut:   date(2026, time.June, 7),
			Guests:     1,
		})
		require.NoError(t, err)
		assert.Equal(t, "102", b.RoomNumber, "lowest free room number wins")
	})

	t.Run("loser of a concurrent race is rolled back", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))

		// A competing booking lands right after ours is inserted, before
		// the conflict re-check. Give it a later sequence slot directly.
		env.repo.onInsert = func() {
			env.repo.onInsert = nil
			rival := &Booking{
				ID:         "BK999",
				GuestName:  "Rival",
				GuestEmail: "rival@example.com",
				RoomNumber: "101",
				CheckIn:    date(2026, time.June, 5),
				CheckOut:   date(2026, time.June, 7),
				Guests:     1,
				Status:     StatusConfirmed,
				Source:     SourceAdmin,
			}
			env.repo.bookings[rival.ID] = rival
		}

		_, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Ada",
			GuestEmail: "ada@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 5),
			CheckOut:   date(2026, time.June, 7),
			Guests:     1,
		})
		assert.ErrorIs(t, err, ErrRoomUnavailable)

		_, err = env.svc.GetByID(context.Background(), "BK001")
		assert.ErrorIs(t, err, ErrNotFound, "our half-written booking is gone")
		_, err = env.svc.GetByID(context.Background(), "BK999")
		assert.NoError(t, err, "the rival's booking survives")
	})
}

func TestCreateAdmin(t *testing.T) {
	today := date(2026, time.June, 1)

	t.Run("today's booking is confirmed, billed and occupies the room", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))

		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Walk In",
			GuestEmail: "walkin@example.com",
			RoomNumber: "101",
			CheckIn:    today,
			CheckOut:   today.AddDate(0, 0, 1),
			Guests:     1,
		})
		require.NoError(t, err)

		assert.Equal(t, StatusConfirmed, b.Status)
		assert.Equal(t, SourceAdmin, b.Source)
		assert.Equal(t, room.StatusOccupied, env.rooms.status("101"))
		assert.Equal(t, []string{b.ID}, env.billing.created)
	})

	t.Run("future booking marks the room Booked", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))

		_, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Planner",
			GuestEmail: "planner@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     1,
		})
		require.NoError(t, err)
		assert.Equal(t, room.StatusBooked, env.rooms.status("101"))
	})

	t.Run("a status written between insert and claim is not clobbered", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))

		// An operator flips the room to Maintenance while the create is
		// in flight. The conditional claim must miss and leave it alone.
		env.repo.onInsert = func() {
			env.repo.onInsert = nil
			env.rooms.rooms["101"].Status = room.StatusMaintenance
		}

		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Planner",
			GuestEmail: "planner@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     1,
		})
		require.NoError(t, err)

		assert.Equal(t, room.StatusMaintenance, env.rooms.status("101"))
		_, err = env.svc.GetByID(context.Background(), b.ID)
		assert.NoError(t, err)
	})

	t.Run("billing failure unwinds the booking and room status", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		env.billing.createErr = errors.New("billing store down")

		_, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Walk In",
			GuestEmail: "walkin@example.com",
			RoomNumber: "101",
			CheckIn:    today,
			CheckOut:   today.AddDate(0, 0, 1),
			Guests:     1,
		})
		require.Error(t, err)

		assert.Empty(t, env.repo.bookings, "booking row removed")
		assert.Equal(t, room.StatusAvailable, env.rooms.status("101"), "room status reverted")
	})
}

func TestCancel(t *testing.T) {
	today := date(2026, time.June, 1)

	seed := func(env *testEnv, checkIn, checkOut time.Time) *Booking {
		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			Guests:     1,
		})
		require.NoError(t, err)
		return b
	}

	t.Run("cancelling the only booking frees the room", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b := seed(env, date(2026, time.June, 10), date(2026, time.June, 12))
		require.Equal(t, room.StatusBooked, env.rooms.status("101"))

		got, err := env.svc.Cancel(context.Background(), b.ID)
		require.NoError(t, err)

		assert.Equal(t, StatusCancelled, got.Status)
		assert.True(t, got.IsCancelled)
		assert.NotNil(t, got.CancelledAt)
		assert.Equal(t, room.StatusAvailable, env.rooms.status("101"))
		assert.Contains(t, env.notifier.types(), "booking_cancelled")
	})

	t.Run("room stays Booked while another future booking remains", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b := seed(env, date(2026, time.June, 10), date(2026, time.June, 12))
		seed(env, date(2026, time.June, 20), date(2026, time.June, 22))

		_, err := env.svc.Cancel(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, room.StatusBooked, env.rooms.status("101"))
	})

	t.Run("room stays Occupied while another booking covers today", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b := seed(env, date(2026, time.June, 10), date(2026, time.June, 12))
		seed(env, today, today.AddDate(0, 0, 3))

		_, err := env.svc.Cancel(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, room.StatusOccupied, env.rooms.status("101"))
	})

	t.Run("double cancel is rejected", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b := seed(env, date(2026, time.June, 10), date(2026, time.June, 12))

		_, err := env.svc.Cancel(context.Background(), b.ID)
		require.NoError(t, err)
		_, err = env.svc.Cancel(context.Background(), b.ID)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})

	t.Run("checked-in bookings cannot be cancelled", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b := seed(env, today, today.AddDate(0, 0, 2))
		_, err := env.svc.CheckIn(context.Background(), b.ID)
		require.NoError(t, err)

		_, err = env.svc.Cancel(context.Background(), b.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("maintenance status survives a cancellation recompute", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b := seed(env, date(2026, time.June, 10), date(2026, time.June, 12))

		env.rooms.rooms["101"].Status = room.StatusMaintenance
		_, err := env.svc.Cancel(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, room.StatusMaintenance, env.rooms.status("101"))
	})
}

func TestCheckInOut(t *testing.T) {
	today := date(2026, time.June, 1)

	t.Run("full stay lifecycle", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    today,
			CheckOut:   today.AddDate(0, 0, 2),
			Guests:     1,
		})
		require.NoError(t, err)

		got, err := env.svc.CheckIn(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCheckedIn, got.Status)
		assert.Equal(t, room.StatusOccupied, env.rooms.status("101"))

		got, err = env.svc.CheckOut(context.Background(), b.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCheckedOut, got.Status)
		assert.Equal(t, room.StatusAvailable, env.rooms.status("101"))
	})

	t.Run("check-in outside the stay window is rejected", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     1,
		})
		require.NoError(t, err)

		_, err = env.svc.CheckIn(context.Background(), b.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("pending bookings cannot check in", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    today,
			CheckOut:   today.AddDate(0, 0, 2),
			Guests:     1,
		})
		require.NoError(t, err)

		_, err = env.svc.CheckIn(context.Background(), b.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestRollback(t *testing.T) {
	today := date(2026, time.June, 1)

	t.Run("pending booking is removed and room status reverted", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b, err := env.svc.CreateCustomer(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     1,
		})
		require.NoError(t, err)
		require.Equal(t, room.StatusBooked, env.rooms.status("101"))

		require.NoError(t, env.svc.Rollback(context.Background(), b.ID))

		_, err = env.svc.GetByID(context.Background(), b.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, room.StatusAvailable, env.rooms.status("101"))
		assert.Equal(t, []string{b.ID}, env.billing.deleted)
	})

	t.Run("confirmed bookings are not rollbackable", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     1,
		})
		require.NoError(t, err)

		err = env.svc.Rollback(context.Background(), b.ID)
		assert.ErrorIs(t, err, ErrNotRollbackable)
	})
}

func TestUpdate(t *testing.T) {
	today := date(2026, time.June, 1)

	t.Run("extending a stay re-checks availability excluding itself", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     1,
		})
		require.NoError(t, err)

		newOut := date(2026, time.June, 14)
		got, err := env.svc.Update(context.Background(), b.ID, UpdateRequest{CheckOut: &newOut})
		require.NoError(t, err)
		assert.Equal(t, newOut, got.CheckOut)
		assert.Equal(t, []string{b.ID}, env.billing.repriced)
	})

	t.Run("extension into another booking is rejected", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     1,
		})
		require.NoError(t, err)
		_, err = env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Next",
			GuestEmail: "next@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 12),
			CheckOut:   date(2026, time.June, 14),
			Guests:     1,
		})
		require.NoError(t, err)

		newOut := date(2026, time.June, 13)
		_, err = env.svc.Update(context.Background(), b.ID, UpdateRequest{CheckOut: &newOut})
		assert.ErrorIs(t, err, ErrRoomUnavailable)
	})

	t.Run("room change releases the old room", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"), standardRoom("102"))
		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     1,
		})
		require.NoError(t, err)
		require.Equal(t, room.StatusBooked, env.rooms.status("101"))

		newRoom := "102"
		got, err := env.svc.Update(context.Background(), b.ID, UpdateRequest{RoomNumber: &newRoom})
		require.NoError(t, err)

		assert.Equal(t, "102", got.RoomNumber)
		assert.Equal(t, room.StatusAvailable, env.rooms.status("101"))
		assert.Equal(t, room.StatusBooked, env.rooms.status("102"))
	})

	t.Run("moving a checked-in stay marks the new room Occupied", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"), standardRoom("102"))
		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    today,
			CheckOut:   today.AddDate(0, 0, 2),
			Guests:     1,
		})
		require.NoError(t, err)
		_, err = env.svc.CheckIn(context.Background(), b.ID)
		require.NoError(t, err)
		require.Equal(t, room.StatusOccupied, env.rooms.status("101"))

		newRoom := "102"
		got, err := env.svc.Update(context.Background(), b.ID, UpdateRequest{RoomNumber: &newRoom})
		require.NoError(t, err)

		assert.Equal(t, "102", got.RoomNumber)
		assert.Equal(t, StatusCheckedIn, got.Status)
		assert.Equal(t, room.StatusAvailable, env.rooms.status("101"), "old room released")
		assert.Equal(t, room.StatusOccupied, env.rooms.status("102"), "occupancy follows the guest")
	})

	t.Run("cancelled bookings cannot be edited", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     1,
		})
		require.NoError(t, err)
		_, err = env.svc.Cancel(context.Background(), b.ID)
		require.NoError(t, err)

		name := "New Name"
		_, err = env.svc.Update(context.Background(), b.ID, UpdateRequest{GuestName: &name})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("guest count is validated against the new room", func(t *testing.T) {
		small := standardRoom("201")
		small.Capacity = 1
		env := newTestEnv(today, standardRoom("101"), small)

		b, err := env.svc.CreateAdmin(context.Background(), CreateRequest{
			GuestName:  "Guest",
			GuestEmail: "guest@example.com",
			RoomNumber: "101",
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     2,
		})
		require.NoError(t, err)

		newRoom := "201"
		_, err = env.svc.Update(context.Background(), b.ID, UpdateRequest{RoomNumber: &newRoom})
		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})
}

func TestExpireStalePending(t *testing.T) {
	today := date(2026, time.June, 1)

	// seedPending plants a pending booking created age ago.
	seedPending := func(env *testEnv, id, roomNumber string, age time.Duration) *Booking {
		b := &Booking{
			ID:         id,
			GuestName:  "Guest " + id,
			GuestEmail: "guest@example.com",
			RoomNumber: roomNumber,
			CheckIn:    date(2026, time.June, 10),
			CheckOut:   date(2026, time.June, 12),
			Guests:     1,
			Status:     StatusPending,
			Source:     SourceDirect,
			CreatedAt:  env.clk.Now().UTC().Add(-age),
		}
		env.repo.bookings[id] = b
		env.rooms.rooms[roomNumber].Status = room.StatusBooked
		return b
	}

	t.Run("expires stale unpaid bookings and frees rooms", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"), standardRoom("102"))
		seedPending(env, "BK100", "101", 10*time.Minute)
		seedPending(env, "BK101", "102", time.Minute)

		expired, err := env.svc.ExpireStalePending(context.Background(), 7*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, expired)

		got, _ := env.svc.GetByID(context.Background(), "BK100")
		assert.Equal(t, StatusCancelled, got.Status)
		assert.True(t, got.IsCancelled)
		assert.Equal(t, room.StatusAvailable, env.rooms.status("101"))

		fresh, _ := env.svc.GetByID(context.Background(), "BK101")
		assert.Equal(t, StatusPending, fresh.Status)
		assert.Equal(t, room.StatusBooked, env.rooms.status("102"))

		assert.Contains(t, env.notifier.types(), "booking_expired")
	})

	t.Run("paid bookings are skipped", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		seedPending(env, "BK100", "101", 10*time.Minute)
		env.billing.paid["BK100"] = true

		expired, err := env.svc.ExpireStalePending(context.Background(), 7*time.Minute)
		require.NoError(t, err)
		assert.Zero(t, expired)

		got, _ := env.svc.GetByID(context.Background(), "BK100")
		assert.Equal(t, StatusPending, got.Status)
	})

	t.Run("one failing booking does not abort the sweep", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"), standardRoom("102"))
		seedPending(env, "BK100", "101", 10*time.Minute)
		seedPending(env, "BK101", "102", 10*time.Minute)
		env.repo.markCancelledErr["BK100"] = errors.New("write failed")

		expired, err := env.svc.ExpireStalePending(context.Background(), 7*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, expired)

		got, _ := env.svc.GetByID(context.Background(), "BK101")
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("second sweep is a no-op", func(t *testing.T) {
		env := newTestEnv(today, standardRoom("101"))
		seedPending(env, "BK100", "101", 10*time.Minute)

		expired, err := env.svc.ExpireStalePending(context.Background(), 7*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, expired)

		expired, err = env.svc.ExpireStalePending(context.Background(), 7*time.Minute)
		require.NoError(t, err)
		assert.Zero(t, expired)
	})
}
