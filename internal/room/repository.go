package room

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

// Repository defines storage access for rooms.
type Repository interface {
	Create(ctx context.Context, r *Room) error
	GetByNumber(ctx context.Context, number string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	// Update rewrites the editable fields (type, floor, notes). The room
	// number and status are not touched.
	Update(ctx context.Context, r *Room) error
	// UpdateStatus unconditionally sets the stored status.
	UpdateStatus(ctx context.Context, number, status string) error
	// CompareAndSetStatus sets the status only when the stored value still
	// matches expected. Returns false when another writer got there first.
	CompareAndSetStatus(ctx context.Context, number, expected, next string) (bool, error)
	Delete(ctx context.Context, number string) error
	CountByStatus(ctx context.Context) (*Stats, error)
	// ListByType returns every room of a type in ascending room-number
	// order. The availability resolver works over this full set.
	ListByType(ctx context.Context, roomTypeID int64) ([]*Room, error)
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const roomColumns = `
	r.number, r.room_type_id, r.floor, r.status, r.notes, r.created_at,
	t.name, t.base_price, t.max_adults + t.max_children AS capacity, t.amenities, t.is_active
`

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanRoom(row pgx.Row, dest *Room, extra ...any) error {
	fields := []any{
		&dest.Number,
		&dest.RoomTypeID,
		&dest.Floor,
		&dest.Status,
		&dest.Notes,
		&dest.CreatedAt,
		&dest.TypeName,
		&dest.BasePrice,
		&dest.Capacity,
		&dest.Amenities,
		&dest.TypeActive,
	}
	fields = append(fields, extra...)
	return row.Scan(fields...)
}

func (r *pgxRepository) Create(ctx context.Context, room *Room) error {
	const query = `
		INSERT INTO public.rooms (number, room_type_id, floor, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		room.Number,
		room.RoomTypeID,
		room.Floor,
		room.Status,
		room.Notes,
	).Scan(&room.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) {
			switch e.Code {
			case pgerrcode.UniqueViolation:
				return ErrNumberAlreadyUsed
			case pgerrcode.ForeignKeyViolation:
				return fmt.Errorf("room type %d does not exist: %w", room.RoomTypeID, err)
			}
		}
		return fmt.Errorf("Create room failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) GetByNumber(ctx context.Context, number string) (*Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM public.rooms r
		JOIN public.room_types t ON t.id = r.room_type_id
		WHERE r.number = $1
	`

	var room Room
	if err := scanRoom(r.pool.QueryRow(ctx, query, number), &room); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByNumber query failed: %w", err)
	}

	return &room, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	builder := psql.
		Select(
			"r.number", "r.room_type_id", "r.floor", "r.status", "r.notes", "r.created_at",
			"t.name", "t.base_price", "t.max_adults + t.max_children AS capacity", "t.amenities", "t.is_active",
			"count(*) OVER() AS total_count",
		).
		From("public.rooms r").
		Join("public.room_types t ON t.id = r.room_type_id")

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"r.status": filter.Status})
	}
	if filter.RoomTypeID != 0 {
		builder = builder.Where(sq.Eq{"r.room_type_id": filter.RoomTypeID})
	}
	if filter.Floor != 0 {
		builder = builder.Where(sq.Eq{"r.floor": filter.Floor})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	// Room numbers sort lexicographically; zero-padded numbering keeps
	// that equal to numeric order.
	builder = builder.
		OrderBy("r.number ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rooms failed: %w", err)
	}
	defer rows.Close()

	var rooms []*Room
	var total int

	for rows.Next() {
		var room Room
		if err := scanRoom(rows, &room, &total); err != nil {
			return nil, 0, fmt.Errorf("scan room failed: %w", err)
		}
		rooms = append(rooms, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list rooms rows failed: %w", err)
	}

	return rooms, total, nil
}

func (r *pgxRepository) ListByType(ctx context.Context, roomTypeID int64) ([]*Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM public.rooms r
		JOIN public.room_types t ON t.id = r.room_type_id
		WHERE r.room_type_id = $1
		ORDER BY r.number ASC
	`

	rows, err := r.pool.Query(ctx, query, roomTypeID)
	if err != nil {
		return nil, fmt.Errorf("list rooms by type failed: %w", err)
	}
	defer rows.Close()

	var rooms []*Room
	for rows.Next() {
		var room Room
		if err := scanRoom(rows, &room); err != nil {
			return nil, fmt.Errorf("scan room failed: %w", err)
		}
		rooms = append(rooms, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms by type rows failed: %w", err)
	}

	return rooms, nil
}

func (r *pgxRepository) Update(ctx context.Context, room *Room) error {
	const query = `
		UPDATE public.rooms
		SET room_type_id = $1, floor = $2, notes = $3
		WHERE number = $4
	`

	ct, err := r.pool.Exec(ctx, query, room.RoomTypeID, room.Floor, room.Notes, room.Number)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("room type %d does not exist: %w", room.RoomTypeID, err)
		}
		return fmt.Errorf("update room failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, number, status string) error {
	const query = `
		UPDATE public.rooms
		SET status = $1
		WHERE number = $2
	`

	ct, err := r.pool.Exec(ctx, query, status, number)
	if err != nil {
		return fmt.Errorf("update room status failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) CompareAndSetStatus(ctx context.Context, number, expected, next string) (bool, error) {
	const query = `
		UPDATE public.rooms
		SET status = $1
		WHERE number = $2 AND status = $3
	`

	ct, err := r.pool.Exec(ctx, query, next, number, expected)
	if err != nil {
		return false, fmt.Errorf("compare-and-set room status failed: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) Delete(ctx context.Context, number string) error {
	const query = `
		DELETE FROM public.rooms
		WHERE number = $1
	`

	ct, err := r.pool.Exec(ctx, query, number)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ForeignKeyViolation {
			return ErrInUse
		}
		return fmt.Errorf("delete room failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) CountByStatus(ctx context.Context) (*Stats, error) {
	const query = `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'Available'),
			count(*) FILTER (WHERE status = 'Booked'),
			count(*) FILTER (WHERE status = 'Occupied'),
			count(*) FILTER (WHERE status = 'Maintenance')
		FROM public.rooms
	`

	var s Stats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&s.Total,
		&s.Available,
		&s.Booked,
		&s.Occupied,
		&s.Maintenance,
	); err != nil {
		return nil, fmt.Errorf("count rooms by status failed: %w", err)
	}

	return &s, nil
}
