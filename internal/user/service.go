package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crestview/hotel-pms-backend/internal/auth"
	"github.com/crestview/hotel-pms-backend/internal/cache"
	"github.com/sirupsen/logrus"
)

// BookingSummarizer aggregates booking history for a guest. Implemented by
// the booking service and injected to avoid a package cycle.
type BookingSummarizer interface {
	SummarizeBookings(ctx context.Context, userID int64) (*BookingSummary, error)
}

// Service defines business logic related to users.
type Service interface {
	Register(ctx context.Context, name, email, phone, password string) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Search(ctx context.Context, filter SearchFilter) ([]*User, int, error)
	Dashboard(ctx context.Context, userID int64) (*Dashboard, error)
}

type service struct {
	repo       Repository
	hasher     auth.PasswordHasher
	summarizer BookingSummarizer
	cache      cache.Store
	log        *logrus.Logger
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher, summarizer BookingSummarizer, cacheStore cache.Store, log *logrus.Logger) Service {
	return &service{
		repo:       repo,
		hasher:     hasher,
		summarizer: summarizer,
		cache:      cacheStore,
		log:        log,
	}
}

func (s *service) Register(ctx context.Context, name, email, phone, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" {
		return nil, fmt.Errorf("email is required")
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var phonePtr *string
	if strings.TrimSpace(phone) != "" {
		p := strings.TrimSpace(phone)
		phonePtr = &p
	}

	// Self-registration always creates a guest account. Staff accounts are
	// provisioned directly in the database.
	u := &User{
		Name:         strings.TrimSpace(name),
		Email:        cleanEmail,
		Phone:        phonePtr,
		Role:         RoleCustomer,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Search(ctx context.Context, filter SearchFilter) ([]*User, int, error) {
	return s.repo.Search(ctx, filter)
}

func (s *service) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	key := cache.UserDashboardKey(userID)

	var cached Dashboard
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizer.SummarizeBookings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize bookings: %w", err)
	}

	d := &Dashboard{
		UserID:   u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Bookings: summary,
	}

	s.cache.Set(ctx, key, d, cache.UserDashboardTTL)

	return d, nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
