package room

import (
	"context"
	"fmt"
	"strings"

	"github.com/crestview/hotel-pms-backend/internal/cache"
	"github.com/sirupsen/logrus"
)

// OccupancyChecker answers whether bookings currently hold a room.
// Implemented by the booking repository and injected to avoid a package
// cycle; the manual status transitions below depend on it.
type OccupancyChecker interface {
	// ActiveToday reports whether any non-cancelled booking covers today
	// for the room, and whether that booking is confirmed.
	ActiveToday(ctx context.Context, roomNumber string) (active, confirmed bool, err error)
	// DerivedStatus computes the status the booking timeline implies for
	// the room: Occupied, Booked or Available.
	DerivedStatus(ctx context.Context, roomNumber string) (string, error)
}

type CreateRequest struct {
	Number     string
	RoomTypeID int64
	Floor      int
	Notes      string
}

// UpdateRequest carries a partial room edit. Pointers distinguish
// "field not sent" from a zero value.
type UpdateRequest struct {
	RoomTypeID *int64
	Floor      *int
	Notes      *string
}

// Service defines business logic for room management.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Room, error)
	GetByNumber(ctx context.Context, number string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	Update(ctx context.Context, number string, req UpdateRequest) (*Room, error)
	// SetStatus applies an operator-requested status change, enforcing the
	// manual-transition guards.
	SetStatus(ctx context.Context, number, status string) (*Room, error)
	Delete(ctx context.Context, number string) error
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo      Repository
	occupancy OccupancyChecker
	cache     cache.Store
	log       *logrus.Logger
}

// NewService creates a room Service.
func NewService(repo Repository, occupancy OccupancyChecker, cacheStore cache.Store, log *logrus.Logger) Service {
	return &service{
		repo:      repo,
		occupancy: occupancy,
		cache:     cacheStore,
		log:       log,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Room, error) {
	number := strings.TrimSpace(req.Number)
	if number == "" {
		return nil, fmt.Errorf("room number is required")
	}

	var notes *string
	if strings.TrimSpace(req.Notes) != "" {
		n := strings.TrimSpace(req.Notes)
		notes = &n
	}

	room := &Room{
		Number:     number,
		RoomTypeID: req.RoomTypeID,
		Floor:      req.Floor,
		Status:     StatusAvailable,
		Notes:      notes,
	}

	if err := s.repo.Create(ctx, room); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.RoomStatsKey)

	// Re-read for the denormalized type fields.
	return s.repo.GetByNumber(ctx, number)
}

func (s *service) GetByNumber(ctx context.Context, number string) (*Room, error) {
	key := cache.RoomKey(number)

	var cached Room
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	room, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, room, cache.DefaultTTL)

	return room, nil
}

// List returns a page of rooms with each stored status reconciled
// against the booking timeline. Status drifts (a checkout that never
// wrote back, a direct DB edit) are corrected in place; Maintenance is
// operator-owned and left alone.
func (s *service) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	rooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	corrected := false
	for _, rm := range rooms {
		if rm.Status == StatusMaintenance {
			continue
		}
		derived, err := s.occupancy.DerivedStatus(ctx, rm.Number)
		if err != nil {
			s.log.WithError(err).WithField("room", rm.Number).Warn("status derivation failed, keeping stored value")
			continue
		}
		if derived == "" || derived == rm.Status {
			continue
		}
		if err := s.repo.UpdateStatus(ctx, rm.Number, derived); err != nil {
			s.log.WithError(err).WithField("room", rm.Number).Warn("status correction write failed")
			continue
		}
		rm.Status = derived
		s.cache.Delete(ctx, cache.RoomKey(rm.Number))
		corrected = true
	}
	if corrected {
		s.cache.Delete(ctx, cache.RoomStatsKey)
	}

	return rooms, total, nil
}

func (s *service) Update(ctx context.Context, number string, req UpdateRequest) (*Room, error) {
	room, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if req.RoomTypeID != nil {
		room.RoomTypeID = *req.RoomTypeID
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}
	if req.Notes != nil {
		if strings.TrimSpace(*req.Notes) == "" {
			room.Notes = nil
		} else {
			n := strings.TrimSpace(*req.Notes)
			room.Notes = &n
		}
	}

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, cache.RoomKey(number))
	// A type change moves the room between availability sets.
	s.cache.DeletePattern(ctx, "room_availability:*")

	return s.repo.GetByNumber(ctx, number)
}

// SetStatus enforces the operator transition rules:
//   - Maintenance is rejected while a confirmed booking occupies the room today.
//   - Available is rejected while any booking occupies the room today.
//
// Occupancy lookups that fail block the transition; a guard that cannot be
// evaluated must not wave the change through.
func (s *service) SetStatus(ctx context.Context, number, status string) (*Room, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	room, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if room.Status != status {
		switch status {
		case StatusMaintenance:
			active, confirmed, err := s.occupancy.ActiveToday(ctx, number)
			if err != nil {
				return nil, fmt.Errorf("occupancy check failed: %w", err)
			}
			if room.Status == StatusOccupied || (active && confirmed) {
				return nil, ErrMaintenanceBlocked
			}
		case StatusAvailable:
			active, _, err := s.occupancy.ActiveToday(ctx, number)
			if err != nil {
				return nil, fmt.Errorf("occupancy check failed: %w", err)
			}
			if active {
				return nil, ErrActiveToday
			}
		}

		if err := s.repo.UpdateStatus(ctx, number, status); err != nil {
			return nil, err
		}
		room.Status = status
	}

	s.cache.Delete(ctx, cache.RoomKey(number))
	s.cache.Delete(ctx, cache.RoomStatsKey)
	s.cache.DeletePattern(ctx, "room_availability:*")

	return room, nil
}

func (s *service) Delete(ctx context.Context, number string) error {
	if err := s.repo.Delete(ctx, number); err != nil {
		return err
	}

	s.cache.Delete(ctx, cache.RoomKey(number))
	s.cache.Delete(ctx, cache.RoomStatsKey)
	s.cache.DeletePattern(ctx, "room_availability:*")

	return nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	var cached Stats
	if s.cache.Get(ctx, cache.RoomStatsKey, &cached) {
		return &cached, nil
	}

	stats, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cache.RoomStatsKey, stats, cache.RoomStatsTTL)

	return stats, nil
}
