package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage access for room-type image records.
type Repository interface {
	Create(ctx context.Context, img *Image) error
	GetByRoomType(ctx context.Context, roomTypeID int64) (*Image, error)
	DeleteByRoomType(ctx context.Context, roomTypeID int64) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, img *Image) error {
	const query = `
		INSERT INTO public.room_type_images (id, room_type_id, filename, storage_path, thumbnail_path, content_type, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		img.ID,
		img.RoomTypeID,
		img.Filename,
		img.StoragePath,
		img.ThumbnailPath,
		img.ContentType,
		img.Size,
	).Scan(&img.CreatedAt); err != nil {
		return fmt.Errorf("insert image record failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) GetByRoomType(ctx context.Context, roomTypeID int64) (*Image, error) {
	const query = `
		SELECT id, room_type_id, filename, storage_path, thumbnail_path, content_type, size, created_at
		FROM public.room_type_images
		WHERE room_type_id = $1
	`

	var img Image
	if err := r.pool.QueryRow(ctx, query, roomTypeID).Scan(
		&img.ID,
		&img.RoomTypeID,
		&img.Filename,
		&img.StoragePath,
		&img.ThumbnailPath,
		&img.ContentType,
		&img.Size,
		&img.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByRoomType query failed: %w", err)
	}

	return &img, nil
}

func (r *pgxRepository) DeleteByRoomType(ctx context.Context, roomTypeID int64) error {
	const query = `
		DELETE FROM public.room_type_images
		WHERE room_type_id = $1
	`

	ct, err := r.pool.Exec(ctx, query, roomTypeID)
	if err != nil {
		return fmt.Errorf("delete image record failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
