// Package fs implements filesystem-backed object storage rooted at a
// single directory.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docforge/ingest/pkg/logger"
)

type Storage struct {
	root string
	log  logger.Logger
}

func New(root string, log logger.Logger) (*Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("fs storage requires a root directory")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Storage{root: abs, log: log}, nil
}

func (s *Storage) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create object directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	_, err = io.Copy(f, reader)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write object %s: %w", key, err)
	}
	return key, nil
}

func (s *Storage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	return f, nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// resolve maps a key to a path under root, refusing escapes.
func (s *Storage) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("object key escapes storage root: %s", key)
	}
	return filepath.Join(s.root, clean), nil
}
