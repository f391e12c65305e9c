package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Roles recognized by the system. Admins are hotel staff; everyone else
// is a guest account that can only manage its own bookings.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a guest or staff account.
type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        *string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

// SearchFilter defines filter options for the admin user search.
type SearchFilter struct {
	// Query matches name, email, or phone (substring, case-insensitive).
	Query string
	Role  string

	Page     int
	PageSize int
}

// BookingSummary aggregates a guest's booking history for the dashboard.
type BookingSummary struct {
	Total      int     `json:"total"`
	Upcoming   int     `json:"upcoming"`
	Completed  int     `json:"completed"`
	Cancelled  int     `json:"cancelled"`
	TotalSpent float64 `json:"total_spent"`
}

// Dashboard is the per-guest overview returned by GET /me/dashboard.
// Kept free of credentials so it can be cached as-is.
type Dashboard struct {
	UserID   int64           `json:"user_id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Bookings *BookingSummary `json:"bookings"`
}
