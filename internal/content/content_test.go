package content

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, c *Content) []byte {
	t.Helper()
	r, err := c.Reader()
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return b
}

func TestContentRewind(t *testing.T) {
	c := FromBytes([]byte("hello world"))
	defer c.Dispose()

	assert.Equal(t, []byte("hello world"), readAll(t, c))
	assert.Equal(t, []byte("hello world"), readAll(t, c))
	assert.Equal(t, int64(11), c.Length())
}

func TestContentSpillToDisk(t *testing.T) {
	dir := t.TempDir()
	payload := strings.Repeat("x", 100)

	c, err := FromReader(strings.NewReader(payload), 10, dir)
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dir, "ingest-cache-*"))
	require.NoError(t, err)
	require.Len(t, files, 1, "content above the memory limit must spill to disk")

	// Still rewindable from the file backing.
	assert.Equal(t, []byte(payload), readAll(t, c))
	assert.Equal(t, []byte(payload), readAll(t, c))

	require.NoError(t, c.Dispose())
	_, err = os.Stat(files[0])
	assert.True(t, os.IsNotExist(err), "dispose must remove the cache file")
}

func TestContentDispose(t *testing.T) {
	c := FromBytes([]byte("data"))
	require.NoError(t, c.Dispose())
	require.NoError(t, c.Dispose(), "double dispose is a no-op")

	_, err := c.Reader()
	assert.Error(t, err)
}

func TestSinkRoundTrip(t *testing.T) {
	s := NewSink(0, t.TempDir())
	payload := []byte("transformed bytes")
	_, err := s.Write(payload)
	require.NoError(t, err)

	c, err := s.Content()
	require.NoError(t, err)
	defer c.Dispose()

	// Byte-for-byte round trip, rewindable at least twice.
	assert.Equal(t, payload, readAll(t, c))
	assert.Equal(t, payload, readAll(t, c))
}

func TestSinkUntouchedVsEmpty(t *testing.T) {
	untouched := NewSink(0, t.TempDir())
	assert.False(t, untouched.Touched())
	require.NoError(t, untouched.Discard())

	empty := NewSink(0, t.TempDir())
	_, err := empty.Write(nil)
	require.NoError(t, err)
	assert.True(t, empty.Touched(), "a zero-byte write still counts as written")

	c, err := empty.Content()
	require.NoError(t, err)
	defer c.Dispose()
	assert.True(t, c.IsEmpty())
}

func TestSinkSpill(t *testing.T) {
	dir := t.TempDir()
	s := NewSink(8, dir)

	var want bytes.Buffer
	for i := 0; i < 10; i++ {
		chunk := []byte("chunk-data")
		_, err := s.Write(chunk)
		require.NoError(t, err)
		want.Write(chunk)
	}

	c, err := s.Content()
	require.NoError(t, err)
	defer c.Dispose()

	assert.Equal(t, want.Bytes(), readAll(t, c))
	assert.Equal(t, int64(want.Len()), c.Length())
}

func TestSinkDiscardRemovesSpillFile(t *testing.T) {
	dir := t.TempDir()
	s := NewSink(1, dir)
	_, err := s.Write([]byte("spill me"))
	require.NoError(t, err)

	require.NoError(t, s.Discard())

	files, err := filepath.Glob(filepath.Join(dir, "ingest-cache-*"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
