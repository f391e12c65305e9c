package booking

import (
	"context"
	"time"

	"github.com/crestview/hotel-pms-backend/internal/cache"
	"github.com/crestview/hotel-pms-backend/internal/clock"
	"github.com/crestview/hotel-pms-backend/internal/room"
	"github.com/sirupsen/logrus"
)

// RoomInventory is the slice of room storage the resolver needs.
// room.Repository satisfies it.
type RoomInventory interface {
	GetByNumber(ctx context.Context, number string) (*room.Room, error)
	ListByType(ctx context.Context, roomTypeID int64) ([]*room.Room, error)
}

// IntervalSource is the slice of booking storage the resolver needs.
// Repository satisfies it.
type IntervalSource interface {
	IntervalsForRoom(ctx context.Context, roomNumber, excludeID string) ([]Interval, error)
	IntervalsForRooms(ctx context.Context, roomNumbers []string, start, end time.Time) ([]Interval, error)
}

// Resolver answers availability questions. All checks fail closed: any
// storage failure reports "not available" rather than propagating, so a
// partial outage can never hand out a room that might be taken.
type Resolver struct {
	rooms     RoomInventory
	intervals IntervalSource
	clock     clock.Clock
	cache     cache.Store
	log       *logrus.Logger
}

// NewResolver creates an availability Resolver.
func NewResolver(rooms RoomInventory, intervals IntervalSource, clk clock.Clock, cacheStore cache.Store, log *logrus.Logger) *Resolver {
	return &Resolver{
		rooms:     rooms,
		intervals: intervals,
		clock:     clk,
		cache:     cacheStore,
		log:       log,
	}
}

// IsRoomFree reports whether the room can take a [start, end) booking,
// optionally ignoring one existing booking (the one being edited).
//
// Three independent blockers: the stored Maintenance status, a date-range
// overlap with any active booking, and any active booking covering today.
// The today check is separate from the overlap test because a room
// physically occupied right now cannot take a booking starting today even
// when the stored status lags behind.
func (r *Resolver) IsRoomFree(ctx context.Context, roomNumber string, start, end time.Time, excludeBookingID string) bool {
	rm, err := r.rooms.GetByNumber(ctx, roomNumber)
	if err != nil {
		r.log.WithError(err).WithField("room", roomNumber).Warn("availability: room fetch failed, reporting unavailable")
		return false
	}
	if rm.Status == room.StatusMaintenance {
		return false
	}

	intervals, err := r.intervals.IntervalsForRoom(ctx, roomNumber, excludeBookingID)
	if err != nil {
		r.log.WithError(err).WithField("room", roomNumber).Warn("availability: interval fetch failed, reporting unavailable")
		return false
	}

	today := r.clock.Today()
	for _, iv := range intervals {
		if Overlaps(start, end, iv.Start, iv.End) {
			return false
		}
		if ContainsDay(iv.Start, iv.End, today) {
			return false
		}
	}

	return true
}

// ListAvailableRooms returns the rooms of a type free for [start, end),
// in ascending room-number order. Maintenance rooms and rooms of a
// disabled type are never offered. Storage failures return an empty set.
func (r *Resolver) ListAvailableRooms(ctx context.Context, roomTypeID int64, start, end time.Time) []*room.Room {
	key := cache.AvailabilityKey(roomTypeID, start, end)

	var cached []*room.Room
	if r.cache.Get(ctx, key, &cached) {
		return cached
	}

	all, err := r.rooms.ListByType(ctx, roomTypeID)
	if err != nil {
		r.log.WithError(err).WithField("room_type_id", roomTypeID).Warn("availability: room list failed, reporting none")
		return nil
	}

	candidates := make([]*room.Room, 0, len(all))
	numbers := make([]string, 0, len(all))
	for _, rm := range all {
		if rm.Status == room.StatusMaintenance || !rm.TypeActive {
			continue
		}
		candidates = append(candidates, rm)
		numbers = append(numbers, rm.Number)
	}
	if len(candidates) == 0 {
		return nil
	}

	intervals, err := r.intervals.IntervalsForRooms(ctx, numbers, start, end)
	if err != nil {
		r.log.WithError(err).WithField("room_type_id", roomTypeID).Warn("availability: interval fetch failed, reporting none")
		return nil
	}

	occupied := make(map[string]bool, len(intervals))
	for _, iv := range intervals {
		if Overlaps(start, end, iv.Start, iv.End) {
			occupied[iv.RoomNumber] = true
		}
	}

	// ListByType orders by room number, which is the documented
	// first-available assignment order.
	free := make([]*room.Room, 0, len(candidates))
	for _, rm := range candidates {
		if !occupied[rm.Number] {
			free = append(free, rm)
		}
	}

	r.cache.Set(ctx, key, free, cache.AvailabilityTTL)

	return free
}
