package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage access for billing records and settings.
type Repository interface {
	Insert(ctx context.Context, b *Billing) error
	GetByBooking(ctx context.Context, bookingID string) (*Billing, error)
	HasPaid(ctx context.Context, bookingID string) (bool, error)
	UpdateTotal(ctx context.Context, bookingID string, roomPrice, total float64) error
	DeleteByBooking(ctx context.Context, bookingID string) error

	GetSettings(ctx context.Context) (*Settings, error)
	InsertSettings(ctx context.Context, s *Settings) error
	UpdateSettings(ctx context.Context, s *Settings) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const billingColumns = "id, booking_id, room_price, discount, vat, total_amount, payment_method, payment_status, is_cancelled, created_at"

func (r *pgxRepository) Insert(ctx context.Context, b *Billing) error {
	const query = `
		INSERT INTO public.billing (booking_id, room_price, discount, vat, total_amount, payment_method, payment_status, is_cancelled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		b.BookingID,
		b.RoomPrice,
		b.Discount,
		b.VAT,
		b.TotalAmount,
		b.PaymentMethod,
		b.PaymentStatus,
		b.IsCancelled,
	).Scan(&b.ID, &b.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) {
			switch e.Code {
			case pgerrcode.UniqueViolation:
				return ErrAlreadyBilled
			case pgerrcode.ForeignKeyViolation:
				return fmt.Errorf("booking %s does not exist: %w", b.BookingID, err)
			}
		}
		return fmt.Errorf("insert billing failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) GetByBooking(ctx context.Context, bookingID string) (*Billing, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM public.billing
		WHERE booking_id = $1
	`, billingColumns)

	var b Billing
	if err := r.pool.QueryRow(ctx, query, bookingID).Scan(
		&b.ID,
		&b.BookingID,
		&b.RoomPrice,
		&b.Discount,
		&b.VAT,
		&b.TotalAmount,
		&b.PaymentMethod,
		&b.PaymentStatus,
		&b.IsCancelled,
		&b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByBooking query failed: %w", err)
	}

	return &b, nil
}

func (r *pgxRepository) HasPaid(ctx context.Context, bookingID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.billing
			WHERE booking_id = $1 AND payment_status = $2 AND is_cancelled = false
		)
	`

	var paid bool
	if err := r.pool.QueryRow(ctx, query, bookingID, PaymentStatusPaid).Scan(&paid); err != nil {
		return false, fmt.Errorf("HasPaid query failed: %w", err)
	}

	return paid, nil
}

func (r *pgxRepository) UpdateTotal(ctx context.Context, bookingID string, roomPrice, total float64) error {
	const query = `
		UPDATE public.billing
		SET room_price = $1, total_amount = $2
		WHERE booking_id = $3
	`

	ct, err := r.pool.Exec(ctx, query, roomPrice, total, bookingID)
	if err != nil {
		return fmt.Errorf("update billing total failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) DeleteByBooking(ctx context.Context, bookingID string) error {
	const query = `
		DELETE FROM public.billing
		WHERE booking_id = $1
	`

	ct, err := r.pool.Exec(ctx, query, bookingID)
	if err != nil {
		return fmt.Errorf("delete billing failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetSettings returns the latest settings row.
func (r *pgxRepository) GetSettings(ctx context.Context) (*Settings, error) {
	const query = `
		SELECT id, vat, discount, updated_at
		FROM public.billing_settings
		ORDER BY id DESC
		LIMIT 1
	`

	var s Settings
	if err := r.pool.QueryRow(ctx, query).Scan(&s.ID, &s.VAT, &s.Discount, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetSettings query failed: %w", err)
	}

	return &s, nil
}

func (r *pgxRepository) InsertSettings(ctx context.Context, s *Settings) error {
	const query = `
		INSERT INTO public.billing_settings (vat, discount, updated_at)
		VALUES ($1, $2, now())
		RETURNING id, updated_at
	`

	if err := r.pool.QueryRow(ctx, query, s.VAT, s.Discount).Scan(&s.ID, &s.UpdatedAt); err != nil {
		return fmt.Errorf("insert billing settings failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) UpdateSettings(ctx context.Context, s *Settings) error {
	const query = `
		UPDATE public.billing_settings
		SET vat = $1, discount = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query, s.VAT, s.Discount, s.ID).Scan(&s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update billing settings failed: %w", err)
	}

	return nil
}
