package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/crestview/hotel-pms-backend/internal/api"
	"github.com/crestview/hotel-pms-backend/internal/auth"
	"github.com/crestview/hotel-pms-backend/internal/billing"
	"github.com/crestview/hotel-pms-backend/internal/booking"
	"github.com/crestview/hotel-pms-backend/internal/cache"
	"github.com/crestview/hotel-pms-backend/internal/clock"
	"github.com/crestview/hotel-pms-backend/internal/config"
	"github.com/crestview/hotel-pms-backend/internal/media"
	"github.com/crestview/hotel-pms-backend/internal/notification"
	"github.com/crestview/hotel-pms-backend/internal/pkg/storage"
	"github.com/crestview/hotel-pms-backend/internal/room"
	"github.com/crestview/hotel-pms-backend/internal/roomtype"
	"github.com/crestview/hotel-pms-backend/internal/user"
)

// Container holds the initialized components the entrypoint needs.
type Container struct {
	Router  *gin.Engine
	Sweeper *booking.Sweeper
}

// NewContainer initializes every module and wires the cross-module
// adapters. The cache degrades to a no-op store when Redis is not
// configured.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool, log *logrus.Logger) (*Container, error) {
	clk := clock.NewFixedOffset(cfg.HotelUTCOffsetHours)

	cacheStore := cache.NewNoop()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		cacheStore = cache.NewRedis(client, log)
	}

	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	// Repositories
	userRepo := user.NewPgxRepository(pool)
	roomTypeRepo := roomtype.NewPgxRepository(pool)
	roomRepo := room.NewPgxRepository(pool)
	bookingRepo := booking.NewPgxRepository(pool)
	billingRepo := billing.NewPgxRepository(pool)
	notificationRepo := notification.NewPgxRepository(pool)
	mediaRepo := media.NewPgxRepository(pool)

	// Room management learns about today's occupancy from booking
	// storage without the room package importing it.
	occupancy := &occupancyAdapter{bookings: bookingRepo, clk: clk}

	roomTypeService := roomtype.NewService(roomTypeRepo)
	roomService := room.NewService(roomRepo, occupancy, cacheStore, log)

	notificationService := notification.NewService(notificationRepo, clk, log)
	notifier := &notifierAdapter{notifications: notificationService, log: log}

	billingService := billing.NewService(billingRepo, roomRepo, cacheStore, log)

	resolver := booking.NewResolver(roomRepo, bookingRepo, clk, cacheStore, log)
	bookingService := booking.NewService(
		bookingRepo,
		roomRepo,
		resolver,
		billingService,
		notifier,
		clk,
		cacheStore,
		log,
		nil,
	)

	// The payment flow confirms bookings, and the booking engine bills
	// admin bookings. Late binding breaks the construction cycle.
	billingService.BindBookings(bookingService)

	userService := user.NewService(
		userRepo,
		passwordHasher,
		&summarizerAdapter{bookings: bookingService},
		cacheStore,
		log,
	)

	store, err := storage.NewLocalStorage(cfg.MediaDir)
	if err != nil {
		return nil, err
	}
	mediaService := media.NewService(mediaRepo, store, roomTypeService, log)

	sweeper := booking.NewSweeper(bookingService, cfg.PendingBookingTTL, cfg.SweepInterval, log)

	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Log:                 log,
		PendingBookingTTL:   cfg.PendingBookingTTL,
		UserService:         userService,
		RoomTypeService:     roomTypeService,
		RoomService:         roomService,
		BookingService:      bookingService,
		BookingResolver:     resolver,
		BillingService:      billingService,
		NotificationService: notificationService,
		MediaService:        mediaService,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:  router,
		Sweeper: sweeper,
	}, nil
}

// occupancyAdapter implements room.OccupancyChecker over booking
// storage, fixing "today" to the property's timezone.
type occupancyAdapter struct {
	bookings booking.Repository
	clk      clock.Clock
}

func (a *occupancyAdapter) ActiveToday(ctx context.Context, roomNumber string) (bool, bool, error) {
	return a.bookings.ActiveToday(ctx, roomNumber, a.clk.Today())
}

func (a *occupancyAdapter) DerivedStatus(ctx context.Context, roomNumber string) (string, error) {
	intervals, err := a.bookings.IntervalsForRoom(ctx, roomNumber, "")
	if err != nil {
		return "", err
	}
	return booking.DeriveRoomStatus(intervals, a.clk.Today()), nil
}

// summarizerAdapter implements user.BookingSummarizer over the booking
// engine.
type summarizerAdapter struct {
	bookings booking.Service
}

func (a *summarizerAdapter) SummarizeBookings(ctx context.Context, userID int64) (*user.BookingSummary, error) {
	s, err := a.bookings.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user.BookingSummary{
		Total:      s.Total,
		Upcoming:   s.Upcoming,
		Completed:  s.Completed,
		Cancelled:  s.Cancelled,
		TotalSpent: s.TotalSpent,
	}, nil
}

// notifierAdapter implements booking.Notifier over the notification
// service. Delivery failures are logged and dropped.
type notifierAdapter struct {
	notifications notification.Service
	log           *logrus.Logger
}

func (a *notifierAdapter) Notify(ctx context.Context, n booking.Notification) {
	err := a.notifications.Dispatch(ctx, notification.CreateRequest{
		Type:              n.Type,
		Title:             n.Title,
		Message:           n.Message,
		RelatedBookingID:  n.BookingID,
		RelatedRoomNumber: n.RoomNumber,
	})
	if err != nil {
		a.log.WithError(err).WithField("type", n.Type).Warn("notification dispatch failed")
	}
}
