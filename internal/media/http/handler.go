package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crestview/hotel-pms-backend/internal/media"
	"github.com/crestview/hotel-pms-backend/internal/pkg/request"
	"github.com/crestview/hotel-pms-backend/internal/pkg/response"
	"github.com/crestview/hotel-pms-backend/internal/roomtype"
)

type MediaHandler struct {
	service media.Service
}

func NewHandler(service media.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

// Upload stores a room-type photo. Access Control: Admin only.
func (h *MediaHandler) Upload(c *gin.Context) {
	var uri request.ByNumericIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	img, err := h.service.Upload(c.Request.Context(), uri.ID, header)
	if err != nil {
		switch {
		case errors.Is(err, roomtype.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "room type not found"})
		case errors.Is(err, media.ErrNotAnImage), errors.Is(err, media.ErrFileTooLarge):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			response.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"room_type_id": img.RoomTypeID,
		"image_url":    media.ImageURL(img.RoomTypeID),
		"filename":     img.Filename,
		"size":         img.Size,
	})
}

// Serve streams the room-type photo.
func (h *MediaHandler) Serve(c *gin.Context) {
	h.stream(c, h.service.Download, "")
}

// ServeThumbnail streams the photo thumbnail. Thumbnails are always
// JPEG regardless of the original format.
func (h *MediaHandler) ServeThumbnail(c *gin.Context) {
	h.stream(c, h.service.DownloadThumbnail, "image/jpeg")
}

// Delete removes the room-type photo. Access Control: Admin only.
func (h *MediaHandler) Delete(c *gin.Context) {
	var uri request.ByNumericIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		if errors.Is(err, media.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MediaHandler) stream(c *gin.Context, download func(ctx context.Context, roomTypeID int64) (io.ReadCloser, *media.Image, error), contentType string) {
	var uri request.ByNumericIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, img, err := download(c.Request.Context(), uri.ID)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrNotFound), errors.Is(err, media.ErrNoThumbnail):
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		default:
			response.Error(c, err)
		}
		return
	}
	defer stream.Close()

	if contentType == "" {
		contentType = img.ContentType
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "inline; filename=\""+img.Filename+"\"")

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Response already started; nothing useful to send.
		return
	}
}
