package roomtype

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNameRequired    = errors.New("room type name is required")
	ErrInvalidPrice    = errors.New("base price must be positive")
	ErrInvalidCapacity = errors.New("max adults must be at least 1 and max children non-negative")
)

type CreateRequest struct {
	Name        string
	Description string
	BasePrice   float64
	MaxAdults   int
	MaxChildren int
	Amenities   []string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	BasePrice   *float64
	MaxAdults   *int
	MaxChildren *int
	Amenities   []string
	ImageURL    *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*RoomType, error)
	GetByID(ctx context.Context, id int64) (*RoomType, error)
	List(ctx context.Context, filter Filter) ([]*RoomType, int, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*RoomType, error)
	// SetImageURL stores or clears the public photo URL. Used by the
	// media module after uploads and deletes.
	SetImageURL(ctx context.Context, id int64, url *string) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error

	// Capacity returns the total guest capacity for a type. Booking
	// creation uses it to validate the guest count.
	Capacity(ctx context.Context, id int64) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*RoomType, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if req.BasePrice <= 0 {
		return nil, ErrInvalidPrice
	}
	if req.MaxAdults < 1 || req.MaxChildren < 0 {
		return nil, ErrInvalidCapacity
	}

	rt := &RoomType{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		BasePrice:   req.BasePrice,
		MaxAdults:   req.MaxAdults,
		MaxChildren: req.MaxChildren,
		Amenities:   req.Amenities,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*RoomType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*RoomType, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*RoomType, error) {
	rt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		rt.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		rt.Description = *req.Description
	}
	if req.BasePrice != nil {
		if *req.BasePrice <= 0 {
			return nil, ErrInvalidPrice
		}
		rt.BasePrice = *req.BasePrice
	}
	if req.MaxAdults != nil {
		if *req.MaxAdults < 1 {
			return nil, ErrInvalidCapacity
		}
		rt.MaxAdults = *req.MaxAdults
	}
	if req.MaxChildren != nil {
		if *req.MaxChildren < 0 {
			return nil, ErrInvalidCapacity
		}
		rt.MaxChildren = *req.MaxChildren
	}
	if req.Amenities != nil {
		rt.Amenities = req.Amenities
	}
	if req.ImageURL != nil {
		rt.ImageURL = req.ImageURL
	}

	if err := s.repo.Update(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *service) SetImageURL(ctx context.Context, id int64, url *string) error {
	rt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	rt.ImageURL = url
	return s.repo.Update(ctx, rt)
}

func (s *service) SetActive(ctx context.Context, id int64, active bool) error {
	rt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Rooms still referencing the type block a disable.
	if !active && rt.IsActive {
		n, err := s.repo.CountRooms(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrInUse
		}
	}

	return s.repo.SetActive(ctx, id, active)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	// Check existence first so a missing ID reads as 404, not 409.
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Capacity(ctx context.Context, id int64) (int, error) {
	rt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return rt.Capacity(), nil
}
