package cache

import (
	"context"
	"fmt"
	"time"
)

// Store is a read-through cache with explicit invalidation. Implementations
// must degrade to a miss on any backend failure; callers never see cache
// errors.
type Store interface {
	// Get unmarshals the cached JSON value for key into dest.
	// Returns false on a miss (including any backend error).
	Get(ctx context.Context, key string, dest any) bool
	// Set stores value as JSON under key with the given TTL. Best effort.
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	// Delete removes a single key. Best effort.
	Delete(ctx context.Context, key string)
	// DeletePattern removes every key matching a glob pattern. Best effort.
	DeletePattern(ctx context.Context, pattern string)
}

// Cache key builders and TTLs. Keys are shared between writers (invalidation)
// and readers, so they live here rather than in the domain packages.
const (
	RoomStatsKey       = "room_stats"
	BillingSettingsKey = "billing_settings"

	DefaultTTL         = 2 * time.Minute
	RoomStatsTTL       = time.Minute
	AvailabilityTTL    = 3 * time.Minute
	UserDashboardTTL   = 10 * time.Minute
	BillingSettingsTTL = 24 * time.Hour
)

// RoomKey is the per-room detail cache key.
func RoomKey(roomNumber string) string {
	return "room:" + roomNumber
}

// AvailabilityKey caches the available-room list for a type and date range.
func AvailabilityKey(roomTypeID int64, checkIn, checkOut time.Time) string {
	return fmt.Sprintf("room_availability:%d:%s:%s",
		roomTypeID, checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02"))
}

// UserDashboardKey caches per-user booking statistics.
func UserDashboardKey(userID int64) string {
	return fmt.Sprintf("user_dashboard:%d", userID)
}

// InvalidateBookingRelated drops every cache entry a booking change can
// stale: the room detail, availability for any range, stats, and the
// guest's dashboard.
func InvalidateBookingRelated(ctx context.Context, store Store, roomNumber string, userID int64) {
	if roomNumber != "" {
		store.Delete(ctx, RoomKey(roomNumber))
	}
	store.DeletePattern(ctx, "room_availability:*")
	store.Delete(ctx, RoomStatsKey)
	if userID != 0 {
		store.Delete(ctx, UserDashboardKey(userID))
	}
}

// Noop is the default Store used when no cache backend is configured.
// Every read is a miss, every write is dropped.
type Noop struct{}

func NewNoop() Store { return Noop{} }

func (Noop) Get(context.Context, string, any) bool           { return false }
func (Noop) Set(context.Context, string, any, time.Duration) {}
func (Noop) Delete(context.Context, string)                  {}
func (Noop) DeletePattern(context.Context, string)           {}
