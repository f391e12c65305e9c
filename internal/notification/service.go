package notification

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crestview/hotel-pms-backend/internal/clock"
)

// CreateRequest is an event to persist for the admin inbox.
type CreateRequest struct {
	Type              string
	Title             string
	Message           string
	RelatedBookingID  string
	RelatedRoomNumber string
}

type Service interface {
	// Dispatch persists an event unless notifications are disabled.
	// Callers treat delivery as fire-and-forget; errors are for logging
	// only.
	Dispatch(ctx context.Context, req CreateRequest) error
	List(ctx context.Context, filter Filter) ([]*Notification, int, error)
	UnreadCount(ctx context.Context) (int, error)
	SetRead(ctx context.Context, id int64, read bool) (*Notification, error)
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id int64) error
	Settings(ctx context.Context) (*Settings, error)
	UpdateSettings(ctx context.Context, enabled bool) (*Settings, error)
}

type service struct {
	repo Repository
	clk  clock.Clock
	log  *logrus.Logger
}

func NewService(repo Repository, clk clock.Clock, log *logrus.Logger) Service {
	return &service{repo: repo, clk: clk, log: log}
}

func (s *service) Dispatch(ctx context.Context, req CreateRequest) error {
	settings, err := s.Settings(ctx)
	if err != nil {
		return err
	}
	if !settings.Enabled {
		return nil
	}

	n := &Notification{
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	}
	if req.RelatedBookingID != "" {
		n.RelatedBookingID = &req.RelatedBookingID
	}
	if req.RelatedRoomNumber != "" {
		n.RelatedRoomNumber = &req.RelatedRoomNumber
	}

	return s.repo.Insert(ctx, n)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Notification, int, error) {
	window := 7 * 24 * time.Hour
	if filter.Window == WindowOlder {
		window = 30 * 24 * time.Hour
	}
	since := s.clk.Now().UTC().Add(-window)

	return s.repo.List(ctx, filter, since)
}

func (s *service) UnreadCount(ctx context.Context) (int, error) {
	return s.repo.UnreadCount(ctx)
}

func (s *service) SetRead(ctx context.Context, id int64, read bool) (*Notification, error) {
	return s.repo.SetRead(ctx, id, read)
}

func (s *service) MarkAllRead(ctx context.Context) error {
	return s.repo.MarkAllRead(ctx)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Settings(ctx context.Context) (*Settings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if errors.Is(err, ErrNotFound) {
		settings = &Settings{Enabled: true}
		if err := s.repo.InsertSettings(ctx, settings); err != nil {
			return nil, err
		}
		return settings, nil
	}
	if err != nil {
		return nil, err
	}

	return settings, nil
}

func (s *service) UpdateSettings(ctx context.Context, enabled bool) (*Settings, error) {
	settings, err := s.repo.GetSettings(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		settings = &Settings{Enabled: enabled}
		if err := s.repo.InsertSettings(ctx, settings); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		settings.Enabled = enabled
		if err := s.repo.UpdateSettings(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}
