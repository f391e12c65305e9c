package media

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound     = errors.New("image not found")
	ErrNotAnImage   = errors.New("uploaded file is not an image")
	ErrNoThumbnail  = errors.New("thumbnail not available")
	ErrFileTooLarge = errors.New("image exceeds the size limit")
)

// MaxUploadSize bounds room-type photo uploads.
const MaxUploadSize = 10 << 20

// Image is a stored room-type photo. One photo per room type; a new
// upload replaces the previous one.
type Image struct {
	ID            string
	RoomTypeID    int64
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// ImageURL is the public path serving a room type's photo.
func ImageURL(roomTypeID int64) string {
	return fmt.Sprintf("/v1/room-types/%d/image", roomTypeID)
}
