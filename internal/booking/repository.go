package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage access for bookings.
type Repository interface {
	// Insert stores a new booking, assigning the next "BK"-prefixed ID
	// from the database sequence. Safe under concurrent creation.
	Insert(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, b *Booking) error
	UpdateStatus(ctx context.Context, id, status string) error
	MarkCancelled(ctx context.Context, id string, at time.Time) error
	// Delete removes a booking row entirely. Only the rollback path uses
	// it; cancellation is a soft delete.
	Delete(ctx context.Context, id string) error

	// IntervalsForRoom returns the reserved ranges of every active
	// booking for a room, optionally excluding one booking ID.
	IntervalsForRoom(ctx context.Context, roomNumber, excludeID string) ([]Interval, error)
	// IntervalsForRooms returns active reserved ranges for a set of rooms
	// that intersect [start, end). One query for the whole room set.
	IntervalsForRooms(ctx context.Context, roomNumbers []string, start, end time.Time) ([]Interval, error)
	// ActiveToday reports whether an active booking covers today for the
	// room, and whether that booking is confirmed (or further along).
	ActiveToday(ctx context.Context, roomNumber string, today time.Time) (active, confirmed bool, err error)

	ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*Booking, error)
	Summarize(ctx context.Context, userID int64, today time.Time) (*Summary, error)
}

// activeStatuses are the statuses that hold a reservation on the room.
var activeStatuses = []string{StatusPending, StatusConfirmed, StatusCheckedIn}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const bookingColumns = `
	id, user_id, guest_name, guest_email, guest_phone, room_number,
	check_in, check_out, check_in_time, check_out_time, guests,
	status, is_cancelled, cancelled_at, source, created_at, updated_at
`

const insertRetries = 3

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanBooking(row pgx.Row, b *Booking, extra ...any) error {
	fields := []any{
		&b.ID,
		&b.UserID,
		&b.GuestName,
		&b.GuestEmail,
		&b.GuestPhone,
		&b.RoomNumber,
		&b.CheckIn,
		&b.CheckOut,
		&b.CheckInTime,
		&b.CheckOutTime,
		&b.Guests,
		&b.Status,
		&b.IsCancelled,
		&b.CancelledAt,
		&b.Source,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
	fields = append(fields, extra...)
	return row.Scan(fields...)
}

// Insert draws the next value from booking_id_seq and retries on a
// duplicate-key insert. The sequence makes collisions effectively
// impossible; the retry covers rows that predate the sequence.
func (r *pgxRepository) Insert(ctx context.Context, b *Booking) error {
	const seqQuery = `SELECT nextval('public.booking_id_seq')`
	const insertQuery = `
		INSERT INTO public.bookings
			(id, user_id, guest_name, guest_email, guest_phone, room_number,
			 check_in, check_out, check_in_time, check_out_time, guests,
			 status, is_cancelled, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`

	for attempt := 0; attempt < insertRetries; attempt++ {
		var seq int64
		if err := r.pool.QueryRow(ctx, seqQuery).Scan(&seq); err != nil {
			return fmt.Errorf("booking id sequence failed: %w", err)
		}
		b.ID = fmt.Sprintf("%s%03d", IDPrefix, seq)

		err := r.pool.QueryRow(
			ctx,
			insertQuery,
			b.ID,
			b.UserID,
			b.GuestName,
			b.GuestEmail,
			b.GuestPhone,
			b.RoomNumber,
			b.CheckIn,
			b.CheckOut,
			b.CheckInTime,
			b.CheckOutTime,
			b.Guests,
			b.Status,
			b.IsCancelled,
			b.Source,
		).Scan(&b.CreatedAt, &b.UpdatedAt)
		if err == nil {
			return nil
		}

		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			continue
		}
		return fmt.Errorf("insert booking failed: %w", err)
	}

	return fmt.Errorf("insert booking failed after %d id collisions", insertRetries)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM public.bookings
		WHERE id = $1
	`

	var b Booking
	if err := scanBooking(r.pool.QueryRow(ctx, query, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByID query failed: %w", err)
	}

	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	builder := psql.
		Select(
			"id", "user_id", "guest_name", "guest_email", "guest_phone", "room_number",
			"check_in", "check_out", "check_in_time", "check_out_time", "guests",
			"status", "is_cancelled", "cancelled_at", "source", "created_at", "updated_at",
			"count(*) OVER() AS total_count",
		).
		From("public.bookings")

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.RoomNumber != "" {
		builder = builder.Where(sq.Eq{"room_number": filter.RoomNumber})
	}
	if filter.UserID != 0 {
		builder = builder.Where(sq.Eq{"user_id": filter.UserID})
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"guest_name": like},
			sq.ILike{"guest_email": like},
			sq.ILike{"id": like},
		})
	}
	if !filter.FromDate.IsZero() {
		builder = builder.Where(sq.GtOrEq{"check_in": filter.FromDate})
	}
	if !filter.ToDate.IsZero() {
		builder = builder.Where(sq.LtOrEq{"check_in": filter.ToDate})
	}

	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "ASC") {
		order = "ASC"
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	builder = builder.
		OrderBy("created_at " + order).
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b, &total); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list bookings rows failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	const query = `
		UPDATE public.bookings
		SET guest_name = $1, guest_email = $2, guest_phone = $3,
			room_number = $4, check_in = $5, check_out = $6,
			check_in_time = $7, check_out_time = $8, guests = $9,
			status = $10, updated_at = now()
		WHERE id = $11
		RETURNING updated_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		b.GuestName,
		b.GuestEmail,
		b.GuestPhone,
		b.RoomNumber,
		b.CheckIn,
		b.CheckOut,
		b.CheckInTime,
		b.CheckOutTime,
		b.Guests,
		b.Status,
		b.ID,
	).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update booking failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `
		UPDATE public.bookings
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	const query = `
		UPDATE public.bookings
		SET status = $1, is_cancelled = true, cancelled_at = $2, updated_at = now()
		WHERE id = $3
	`

	ct, err := r.pool.Exec(ctx, query, StatusCancelled, at, id)
	if err != nil {
		return fmt.Errorf("mark booking cancelled failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `
		DELETE FROM public.bookings
		WHERE id = $1
	`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *pgxRepository) IntervalsForRoom(ctx context.Context, roomNumber, excludeID string) ([]Interval, error) {
	builder := psql.
		Select("id", "room_number", "check_in", "check_out", "status").
		From("public.bookings").
		Where(sq.Eq{"room_number": roomNumber}).
		Where(sq.Eq{"is_cancelled": false}).
		Where(sq.Eq{"status": activeStatuses})

	if excludeID != "" {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build intervals query failed: %w", err)
	}

	return r.queryIntervals(ctx, query, args)
}

func (r *pgxRepository) IntervalsForRooms(ctx context.Context, roomNumbers []string, start, end time.Time) ([]Interval, error) {
	if len(roomNumbers) == 0 {
		return nil, nil
	}

	// Server-side date filter is a pre-filter only; the final overlap
	// decision happens in the resolver.
	builder := psql.
		Select("id", "room_number", "check_in", "check_out", "status").
		From("public.bookings").
		Where(sq.Eq{"room_number": roomNumbers}).
		Where(sq.Eq{"is_cancelled": false}).
		Where(sq.Eq{"status": activeStatuses}).
		Where(sq.Lt{"check_in": end}).
		Where(sq.Gt{"check_out": start})

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build batch intervals query failed: %w", err)
	}

	return r.queryIntervals(ctx, query, args)
}

func (r *pgxRepository) queryIntervals(ctx context.Context, query string, args []any) ([]Interval, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query intervals failed: %w", err)
	}
	defer rows.Close()

	var intervals []Interval
	for rows.Next() {
		var iv Interval
		if err := rows.Scan(&iv.BookingID, &iv.RoomNumber, &iv.Start, &iv.End, &iv.Status); err != nil {
			return nil, fmt.Errorf("scan interval failed: %w", err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("intervals rows failed: %w", err)
	}

	return intervals, nil
}

func (r *pgxRepository) ActiveToday(ctx context.Context, roomNumber string, today time.Time) (bool, bool, error) {
	const query = `
		SELECT count(*),
			count(*) FILTER (WHERE status <> $3)
		FROM public.bookings
		WHERE room_number = $1
			AND is_cancelled = false
			AND status = ANY($4)
			AND check_in <= $2
			AND check_out > $2
	`

	var active, confirmed int
	if err := r.pool.QueryRow(
		ctx,
		query,
		roomNumber,
		today,
		StatusPending,
		activeStatuses,
	).Scan(&active, &confirmed); err != nil {
		return false, false, fmt.Errorf("active-today query failed: %w", err)
	}

	return active > 0, confirmed > 0, nil
}

func (r *pgxRepository) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM public.bookings
		WHERE status = $1
			AND is_cancelled = false
			AND created_at < $2
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, StatusPending, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list expired pending failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scan expired booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("expired pending rows failed: %w", err)
	}

	return bookings, nil
}

func (r *pgxRepository) Summarize(ctx context.Context, userID int64, today time.Time) (*Summary, error) {
	const query = `
		SELECT
			count(*),
			count(*) FILTER (WHERE NOT b.is_cancelled AND b.check_in > $2 AND b.status IN ($3, $4)),
			count(*) FILTER (WHERE b.status IN ($5, $6)),
			count(*) FILTER (WHERE b.is_cancelled),
			COALESCE(sum(bl.total_amount) FILTER (WHERE NOT b.is_cancelled), 0)
		FROM public.bookings b
		LEFT JOIN public.billing bl ON bl.booking_id = b.id
		WHERE b.user_id = $1
	`

	var s Summary
	if err := r.pool.QueryRow(
		ctx,
		query,
		userID,
		today,
		StatusPending,
		StatusConfirmed,
		StatusCompleted,
		StatusCheckedOut,
	).Scan(&s.Total, &s.Upcoming, &s.Completed, &s.Cancelled, &s.TotalSpent); err != nil {
		return nil, fmt.Errorf("summarize bookings failed: %w", err)
	}

	return &s, nil
}
