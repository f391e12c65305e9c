package roomtype

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage access for room types.
type Repository interface {
	Create(ctx context.Context, rt *RoomType) error
	GetByID(ctx context.Context, id int64) (*RoomType, error)
	List(ctx context.Context, filter Filter) ([]*RoomType, int, error)
	Update(ctx context.Context, rt *RoomType) error
	SetActive(ctx context.Context, id int64, active bool) error
	// CountRooms returns how many rooms reference the type. Disabling
	// and deleting are gated on it.
	CountRooms(ctx context.Context, id int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, rt *RoomType) error {
	const query = `
		INSERT INTO public.room_types (name, description, base_price, max_adults, max_children, amenities, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		rt.Name,
		rt.Description,
		rt.BasePrice,
		rt.MaxAdults,
		rt.MaxChildren,
		rt.Amenities,
		rt.ImageURL,
		rt.IsActive,
	).Scan(&rt.ID, &rt.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrNameAlreadyUsed
		}
		return fmt.Errorf("Create room type failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*RoomType, error) {
	const query = `
		SELECT id, name, description, base_price, max_adults, max_children, amenities, image_url, is_active, created_at
		FROM public.room_types
		WHERE id = $1
	`

	var rt RoomType
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&rt.ID,
		&rt.Name,
		&rt.Description,
		&rt.BasePrice,
		&rt.MaxAdults,
		&rt.MaxChildren,
		&rt.Amenities,
		&rt.ImageURL,
		&rt.IsActive,
		&rt.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByID query failed: %w", err)
	}

	return &rt, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*RoomType, int, error) {
	builder := psql.
		Select(
			"id", "name", "description", "base_price", "max_adults", "max_children",
			"amenities", "image_url", "is_active", "created_at",
			"count(*) OVER() AS total_count",
		).
		From("public.room_types")

	if filter.ActiveOnly {
		builder = builder.Where(sq.Eq{"is_active": true})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	builder = builder.
		OrderBy("base_price ASC, id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list room types failed: %w", err)
	}
	defer rows.Close()

	var types []*RoomType
	var total int

	for rows.Next() {
		var rt RoomType
		if err := rows.Scan(
			&rt.ID,
			&rt.Name,
			&rt.Description,
			&rt.BasePrice,
			&rt.MaxAdults,
			&rt.MaxChildren,
			&rt.Amenities,
			&rt.ImageURL,
			&rt.IsActive,
			&rt.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan room type failed: %w", err)
		}
		types = append(types, &rt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list room types rows failed: %w", err)
	}

	return types, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, rt *RoomType) error {
	const query = `
		UPDATE public.room_types
		SET name = $1, description = $2, base_price = $3, max_adults = $4, max_children = $5, amenities = $6, image_url = $7
		WHERE id = $8
	`

	ct, err := r.pool.Exec(
		ctx,
		query,
		rt.Name,
		rt.Description,
		rt.BasePrice,
		rt.MaxAdults,
		rt.MaxChildren,
		rt.Amenities,
		rt.ImageURL,
		rt.ID,
	)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrNameAlreadyUsed
		}
		return fmt.Errorf("update room type failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) SetActive(ctx context.Context, id int64, active bool) error {
	const query = `
		UPDATE public.room_types
		SET is_active = $1
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set room type active failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) CountRooms(ctx context.Context, id int64) (int, error) {
	const query = `
		SELECT count(*)
		FROM public.rooms
		WHERE room_type_id = $1
	`

	var n int
	if err := r.pool.QueryRow(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rooms for type failed: %w", err)
	}

	return n, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id int64) error {
	const query = `
		DELETE FROM public.room_types
		WHERE id = $1
	`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ForeignKeyViolation {
			return ErrInUse
		}
		return fmt.Errorf("delete room type failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
