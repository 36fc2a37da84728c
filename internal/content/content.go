package content

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// DefaultMaxMemory is the number of bytes cached in memory before a
// content handle spills to a temp file.
const DefaultMaxMemory int64 = 1 << 20 // 1 MiB

// Content is a rewindable byte-content handle. It is backed by an
// in-memory buffer or, for larger payloads, by a temp file. Reader may
// be called any number of times; each call starts at the beginning.
//
// A Content owns its backing store. Dispose releases it; the owner of
// the handle must call Dispose exactly once when the content is
// replaced or no longer needed.
type Content struct {
	data     []byte
	file     string
	length   int64
	disposed bool
}

// Empty returns content of zero length. This is the explicit
// "empty content" marker, distinct from a nil handle.
func Empty() *Content {
	return &Content{}
}

// FromBytes wraps b in a memory-backed content handle. The slice is
// not copied; the caller must not mutate it afterwards.
func FromBytes(b []byte) *Content {
	return &Content{data: b, length: int64(len(b))}
}

// FromReader drains r into a new content handle, keeping up to
// maxMemory bytes in memory and spilling to a temp file in tempDir
// beyond that. maxMemory <= 0 selects DefaultMaxMemory.
func FromReader(r io.Reader, maxMemory int64, tempDir string) (*Content, error) {
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}

	var buf bytes.Buffer
	n, err := io.CopyN(&buf, r, maxMemory+1)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("cache content: %w", err)
	}
	if n <= maxMemory {
		return FromBytes(buf.Bytes()), nil
	}

	// Too big for memory: spill what we have plus the rest of r.
	f, err := os.CreateTemp(tempDir, "ingest-cache-*")
	if err != nil {
		return nil, fmt.Errorf("create cache file: %w", err)
	}
	written, err := io.Copy(f, io.MultiReader(&buf, r))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("write cache file: %w", err)
	}
	return &Content{file: f.Name(), length: written}, nil
}

// Reader returns a fresh reader positioned at the start of the content.
// File-backed readers hold an open file handle until closed.
func (c *Content) Reader() (io.ReadCloser, error) {
	if c.disposed {
		return nil, fmt.Errorf("content already disposed")
	}
	if c.file == "" {
		return io.NopCloser(bytes.NewReader(c.data)), nil
	}
	f, err := os.Open(c.file)
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	return f, nil
}

// Length returns the content length in bytes.
func (c *Content) Length() int64 {
	return c.length
}

// IsEmpty reports whether the content has zero length.
func (c *Content) IsEmpty() bool {
	return c.length == 0
}

// Dispose releases the backing store. Disposing twice is a no-op.
func (c *Content) Dispose() error {
	if c == nil || c.disposed {
		return nil
	}
	c.disposed = true
	c.data = nil
	if c.file != "" {
		file := c.file
		c.file = ""
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove cache file: %w", err)
		}
	}
	return nil
}
