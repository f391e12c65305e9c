package storage

import (
	"context"
	"io"
)

// Storage is a flat blob store addressed by relative path. The local
// filesystem implementation is the only one in use; the interface keeps
// media handling testable without touching disk.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}
