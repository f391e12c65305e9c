package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage access for notifications and settings.
type Repository interface {
	Insert(ctx context.Context, n *Notification) error
	List(ctx context.Context, filter Filter, since time.Time) ([]*Notification, int, error)
	UnreadCount(ctx context.Context) (int, error)
	SetRead(ctx context.Context, id int64, read bool) (*Notification, error)
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id int64) error

	GetSettings(ctx context.Context) (*Settings, error)
	InsertSettings(ctx context.Context, s *Settings) error
	UpdateSettings(ctx context.Context, s *Settings) error
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Insert(ctx context.Context, n *Notification) error {
	const query = `
		INSERT INTO public.notifications (type, title, message, related_booking_id, related_room_number, is_read)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		n.Type,
		n.Title,
		n.Message,
		n.RelatedBookingID,
		n.RelatedRoomNumber,
	).Scan(&n.ID, &n.CreatedAt); err != nil {
		return fmt.Errorf("insert notification failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter, since time.Time) ([]*Notification, int, error) {
	builder := psql.
		Select(
			"id", "type", "title", "message", "related_booking_id", "related_room_number",
			"is_read", "created_at",
			"count(*) OVER() AS total_count",
		).
		From("public.notifications").
		Where(sq.GtOrEq{"created_at": since})

	if filter.IsRead != nil {
		builder = builder.Where(sq.Eq{"is_read": *filter.IsRead})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	builder = builder.
		OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications failed: %w", err)
	}
	defer rows.Close()

	var items []*Notification
	var total int

	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.RelatedBookingID,
			&n.RelatedRoomNumber,
			&n.IsRead,
			&n.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan notification failed: %w", err)
		}
		items = append(items, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list notifications rows failed: %w", err)
	}

	return items, total, nil
}

func (r *pgxRepository) UnreadCount(ctx context.Context) (int, error) {
	const query = `
		SELECT count(*)
		FROM public.notifications
		WHERE is_read = false
	`

	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("unread count query failed: %w", err)
	}

	return count, nil
}

func (r *pgxRepository) SetRead(ctx context.Context, id int64, read bool) (*Notification, error) {
	const query = `
		UPDATE public.notifications
		SET is_read = $1
		WHERE id = $2
		RETURNING id, type, title, message, related_booking_id, related_room_number, is_read, created_at
	`

	var n Notification
	if err := r.pool.QueryRow(ctx, query, read, id).Scan(
		&n.ID,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.RelatedBookingID,
		&n.RelatedRoomNumber,
		&n.IsRead,
		&n.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set notification read failed: %w", err)
	}

	return &n, nil
}

func (r *pgxRepository) MarkAllRead(ctx context.Context) error {
	const query = `
		UPDATE public.notifications
		SET is_read = true
		WHERE is_read = false
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("mark all read failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	const query = `
		DELETE FROM public.notifications
		WHERE id = $1
	`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete notification failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) GetSettings(ctx context.Context) (*Settings, error) {
	const query = `
		SELECT id, notifications_enabled, updated_at
		FROM public.notification_settings
		ORDER BY id
		LIMIT 1
	`

	var s Settings
	if err := r.pool.QueryRow(ctx, query).Scan(&s.ID, &s.Enabled, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetSettings query failed: %w", err)
	}

	return &s, nil
}

func (r *pgxRepository) InsertSettings(ctx context.Context, s *Settings) error {
	const query = `
		INSERT INTO public.notification_settings (notifications_enabled, updated_at)
		VALUES ($1, now())
		RETURNING id, updated_at
	`

	if err := r.pool.QueryRow(ctx, query, s.Enabled).Scan(&s.ID, &s.UpdatedAt); err != nil {
		return fmt.Errorf("insert notification settings failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) UpdateSettings(ctx context.Context, s *Settings) error {
	const query = `
		UPDATE public.notification_settings
		SET notifications_enabled = $1, updated_at = now()
		WHERE id = $2
		RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query, s.Enabled, s.ID).Scan(&s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update notification settings failed: %w", err)
	}

	return nil
}
