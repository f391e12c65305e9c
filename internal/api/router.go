package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/crestview/hotel-pms-backend/internal/auth"
	"github.com/crestview/hotel-pms-backend/internal/billing"
	billingHttp "github.com/crestview/hotel-pms-backend/internal/billing/http"
	"github.com/crestview/hotel-pms-backend/internal/booking"
	bookingHttp "github.com/crestview/hotel-pms-backend/internal/booking/http"
	"github.com/crestview/hotel-pms-backend/internal/media"
	mediaHttp "github.com/crestview/hotel-pms-backend/internal/media/http"
	"github.com/crestview/hotel-pms-backend/internal/notification"
	notificationHttp "github.com/crestview/hotel-pms-backend/internal/notification/http"
	"github.com/crestview/hotel-pms-backend/internal/room"
	roomHttp "github.com/crestview/hotel-pms-backend/internal/room/http"
	"github.com/crestview/hotel-pms-backend/internal/roomtype"
	roomtypeHttp "github.com/crestview/hotel-pms-backend/internal/roomtype/http"
	"github.com/crestview/hotel-pms-backend/internal/user"
	userHttp "github.com/crestview/hotel-pms-backend/internal/user/http"
)

// Config holds everything the router needs to assemble middleware and
// register module routes.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Log          *logrus.Logger

	// PendingBookingTTL is handed to the manual sweep endpoint so it
	// expires by the same rule as the background sweeper.
	PendingBookingTTL time.Duration

	UserService         user.Service
	RoomTypeService     roomtype.Service
	RoomService         room.Service
	BookingService      booking.Service
	BookingResolver     *booking.Resolver
	BillingService      billing.Service
	NotificationService notification.Service
	MediaService        media.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles the HTTP engine: global middleware, CORS and the
// /v1 route tree.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestID(), RequestLogger(cfg.Log), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", requestIDHeader}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	optionalAuthMiddleware := auth.AuthOptional(cfg.JWTManager)
	adminMiddleware := auth.AdminRequired()

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	roomTypeHandler := roomtypeHttp.NewHandler(cfg.RoomTypeService)
	roomHandler := roomHttp.NewHandler(cfg.RoomService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.BookingResolver, cfg.PendingBookingTTL)
	billingHandler := billingHttp.NewHandler(cfg.BillingService)
	notificationHandler := notificationHttp.NewHandler(cfg.NotificationService)
	mediaHandler := mediaHttp.NewHandler(cfg.MediaService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		roomtypeHttp.RegisterRoutes(v1, roomTypeHandler, optionalAuthMiddleware, authMiddleware, adminMiddleware)
		roomHttp.RegisterRoutes(v1, roomHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		billingHttp.RegisterRoutes(v1, billingHandler, authMiddleware, adminMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler, authMiddleware, adminMiddleware)
		mediaHttp.RegisterRoutes(v1, mediaHandler, authMiddleware, adminMiddleware)
	}

	return r
}
