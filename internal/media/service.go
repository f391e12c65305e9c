package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/crestview/hotel-pms-backend/internal/pkg/storage"
	"github.com/crestview/hotel-pms-backend/internal/roomtype"
)

// RoomTypes is the slice of room-type management the photo flow needs.
// Satisfied by roomtype.Service.
type RoomTypes interface {
	GetByID(ctx context.Context, id int64) (*roomtype.RoomType, error)
	SetImageURL(ctx context.Context, id int64, url *string) error
}

type Service interface {
	// Upload stores a room-type photo plus thumbnail and records the
	// public URL on the room type. Replaces any previous photo.
	Upload(ctx context.Context, roomTypeID int64, header *multipart.FileHeader) (*Image, error)
	// Download streams the stored photo.
	Download(ctx context.Context, roomTypeID int64) (io.ReadCloser, *Image, error)
	// DownloadThumbnail streams the stored thumbnail.
	DownloadThumbnail(ctx context.Context, roomTypeID int64) (io.ReadCloser, *Image, error)
	// Delete removes the photo and clears the room type's image URL.
	Delete(ctx context.Context, roomTypeID int64) error
}

type service struct {
	repo      Repository
	store     storage.Storage
	roomTypes RoomTypes
	log       *logrus.Logger
}

func NewService(repo Repository, store storage.Storage, roomTypes RoomTypes, log *logrus.Logger) Service {
	return &service{
		repo:      repo,
		store:     store,
		roomTypes: roomTypes,
		log:       log,
	}
}

func (s *service) Upload(ctx context.Context, roomTypeID int64, header *multipart.FileHeader) (*Image, error) {
	if _, err := s.roomTypes.GetByID(ctx, roomTypeID); err != nil {
		return nil, err
	}

	if header.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	// Buffered so the bytes can feed both the original save and the
	// thumbnail encode. Photos are small enough for this.
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read file content: %w", err)
	}

	imageID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	storagePath := fmt.Sprintf("room-types/%d/%s%s", roomTypeID, imageID, ext)

	if err := s.store.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}

	var thumbnailPath *string
	if thumb, err := storage.Thumbnail(bytes.NewReader(content), 400, 300); err == nil {
		tPath := fmt.Sprintf("room-types/%d/%s_thumb.jpg", roomTypeID, imageID)
		if err := s.store.Save(ctx, tPath, thumb); err == nil {
			thumbnailPath = &tPath
		} else {
			s.log.WithError(err).Warn("thumbnail save failed")
		}
	} else {
		s.log.WithError(err).Warn("thumbnail generation failed")
	}

	// Replace semantics: drop the previous photo before recording the
	// new one.
	if err := s.removeExisting(ctx, roomTypeID); err != nil {
		s.cleanup(ctx, storagePath, thumbnailPath)
		return nil, err
	}

	img := &Image{
		ID:            imageID,
		RoomTypeID:    roomTypeID,
		Filename:      header.Filename,
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          header.Size,
	}

	if err := s.repo.Create(ctx, img); err != nil {
		s.cleanup(ctx, storagePath, thumbnailPath)
		return nil, err
	}

	url := ImageURL(roomTypeID)
	if err := s.roomTypes.SetImageURL(ctx, roomTypeID, &url); err != nil {
		s.log.WithError(err).WithField("room_type_id", roomTypeID).
			Warn("image URL update failed after upload")
	}

	return img, nil
}

func (s *service) Download(ctx context.Context, roomTypeID int64) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.store.Get(ctx, img.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve photo: %w", err)
	}

	return stream, img, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, roomTypeID int64) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, nil, err
	}

	if img.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.store.Get(ctx, *img.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve thumbnail: %w", err)
	}

	return stream, img, nil
}

func (s *service) Delete(ctx context.Context, roomTypeID int64) error {
	if _, err := s.repo.GetByRoomType(ctx, roomTypeID); err != nil {
		return err
	}

	if err := s.removeExisting(ctx, roomTypeID); err != nil {
		return err
	}

	if err := s.roomTypes.SetImageURL(ctx, roomTypeID, nil); err != nil {
		s.log.WithError(err).WithField("room_type_id", roomTypeID).
			Warn("image URL clear failed after delete")
	}

	return nil
}

// removeExisting deletes the current photo record and its blobs. A
// missing record is not an error for Upload's replace path; Delete
// surfaces it.
func (s *service) removeExisting(ctx context.Context, roomTypeID int64) error {
	img, err := s.repo.GetByRoomType(ctx, roomTypeID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	s.cleanup(ctx, img.StoragePath, img.ThumbnailPath)
	return s.repo.DeleteByRoomType(ctx, roomTypeID)
}

func (s *service) cleanup(ctx context.Context, storagePath string, thumbnailPath *string) {
	if err := s.store.Delete(ctx, storagePath); err != nil {
		s.log.WithError(err).Warn("photo cleanup failed")
	}
	if thumbnailPath != nil {
		if err := s.store.Delete(ctx, *thumbnailPath); err != nil {
			s.log.WithError(err).Warn("thumbnail cleanup failed")
		}
	}
}
