package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const prodString = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	DBDSN        string

	// RedisAddr is optional; when empty the cache degrades to a no-op store.
	RedisAddr     string
	RedisPassword string

	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// HotelUTCOffsetHours fixes the property's local timezone. "Today" for
	// check-in/check-out decisions is computed against this offset.
	HotelUTCOffsetHours int

	// PendingBookingTTL is how long an unpaid customer booking may stay
	// pending before the sweeper cancels it.
	PendingBookingTTL time.Duration
	// SweepInterval is the period of the stateless background sweep.
	SweepInterval time.Duration

	// MediaDir is the local directory for room type images.
	MediaDir string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")
	cfg.IsProduction = getEnv("APP_ENV", "dev") == prodString
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, err
	}

	cfg.HotelUTCOffsetHours, err = getEnvAsInt("HOTEL_UTC_OFFSET_HOURS", 5)
	if err != nil {
		return nil, err
	}

	cfg.PendingBookingTTL, err = getEnvAsDuration("PENDING_BOOKING_TTL", 7*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.SweepInterval, err = getEnvAsDuration("SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}

	cfg.MediaDir = getEnv("MEDIA_DIR", "./media")

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer, returning
// the default when unset and an error when set but malformed.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration retrieves an environment variable as a time.Duration
// (e.g. "7m", "1h30m").
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}

	return val, nil
}
