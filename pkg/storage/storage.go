// Package storage abstracts where extracted documents end up.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/docforge/ingest/config"
	"github.com/docforge/ingest/pkg/logger"
	"github.com/docforge/ingest/pkg/storage/fs"
	"github.com/docforge/ingest/pkg/storage/minio"
)

type Backend string

const (
	BackendFS    Backend = "fs"
	BackendMinio Backend = "minio"
)

// Storage stores and retrieves objects by key.
type Storage interface {
	// Store writes the object and returns the key it was stored under.
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	// Get opens the object for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object.
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by cfg.Backend.
func New(cfg config.StorageConfig, log logger.Logger) (Storage, error) {
	switch Backend(cfg.Backend) {
	case BackendFS:
		return fs.New(cfg.Dir, log)
	case BackendMinio:
		return minio.New(cfg.Minio, log)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
