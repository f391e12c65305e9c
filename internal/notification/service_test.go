package notification

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
func (c fixedClock) Today() time.Time {
	return time.Date(c.now.Year(), c.now.Month(), c.now.Day(), 0, 0, 0, 0, time.UTC)
}

type stubRepo struct {
	items    map[int64]*Notification
	settings *Settings
	seq      int64

	lastSince time.Time
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: make(map[int64]*Notification)}
}

func (s *stubRepo) Insert(_ context.Context, n *Notification) error {
	s.seq++
	n.ID = s.seq
	cp := *n
	s.items[n.ID] = &cp
	return nil
}

func (s *stubRepo) List(_ context.Context, filter Filter, since time.Time) ([]*Notification, int, error) {
	s.lastSince = since
	var out []*Notification
	for _, n := range s.items {
		if n.CreatedAt.Before(since) {
			continue
		}
		if filter.IsRead != nil && n.IsRead != *filter.IsRead {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (s *stubRepo) UnreadCount(_ context.Context) (int, error) {
	count := 0
	for _, n := range s.items {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) SetRead(_ context.Context, id int64, read bool) (*Notification, error) {
	n, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	n.IsRead = read
	cp := *n
	return &cp, nil
}

func (s *stubRepo) MarkAllRead(_ context.Context) error {
	for _, n := range s.items {
		n.IsRead = true
	}
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
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

func newTestService(repo Repository, now time.Time) Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(repo, fixedClock{now: now}, log)
}

func TestDispatch(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

	t.Run("persists the event with related references", func(t *testing.T) {
		repo := newStubRepo()
		svc := newTestService(repo, now)

		err := svc.Dispatch(context.Background(), CreateRequest{
			Type:              TypeNewBooking,
			Title:             "New booking BK001",
			Message:           "Ada booked room 101",
			RelatedBookingID:  "BK001",
			RelatedRoomNumber: "101",
		})
		require.NoError(t, err)

		require.Len(t, repo.items, 1)
		n := repo.items[1]
		assert.Equal(t, TypeNewBooking, n.Type)
		require.NotNil(t, n.RelatedBookingID)
		assert.Equal(t, "BK001", *n.RelatedBookingID)
		assert.False(t, n.IsRead)
	})

	t.Run("empty references stay null", func(t *testing.T) {
		repo := newStubRepo()
		svc := newTestService(repo, now)

		err := svc.Dispatch(context.Background(), CreateRequest{
			Type:  TypeRoomStatus,
			Title: "Room 101 under maintenance",
		})
		require.NoError(t, err)

		n := repo.items[1]
		assert.Nil(t, n.RelatedBookingID)
		assert.Nil(t, n.RelatedRoomNumber)
	})

	t.Run("disabled notifications are dropped silently", func(t *testing.T) {
		repo := newStubRepo()
		repo.settings = &Settings{ID: 1, Enabled: false}
		svc := newTestService(repo, now)

		err := svc.Dispatch(context.Background(), CreateRequest{Type: TypeNewBooking, Title: "x"})
		require.NoError(t, err)
		assert.Empty(t, repo.items)
	})

	t.Run("first dispatch seeds enabled settings", func(t *testing.T) {
		repo := newStubRepo()
		svc := newTestService(repo, now)

		require.NoError(t, svc.Dispatch(context.Background(), CreateRequest{Type: TypeNewBooking, Title: "x"}))
		require.NotNil(t, repo.settings)
		assert.True(t, repo.settings.Enabled)
	})
}

func TestListWindows(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	svc := newTestService(repo, now)

	_, _, err := svc.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, now.Add(-7*24*time.Hour), repo.lastSince, "default window is 7 days")

	_, _, err = svc.List(context.Background(), Filter{Window: WindowOlder})
	require.NoError(t, err)
	assert.Equal(t, now.Add(-30*24*time.Hour), repo.lastSince, "older window is 30 days")
}

func TestReadTracking(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	svc := newTestService(repo, now)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Dispatch(context.Background(), CreateRequest{Type: TypeNewBooking, Title: "x"}))
	}

	count, err := svc.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	n, err := svc.SetRead(context.Background(), 1, true)
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	count, err = svc.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, svc.MarkAllRead(context.Background()))
	count, err = svc.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.SetRead(context.Background(), 99, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSettings(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	repo := newStubRepo()
	svc := newTestService(repo, now)

	settings, err := svc.UpdateSettings(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, settings.Enabled)

	settings, err = svc.UpdateSettings(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, settings.Enabled)
}
