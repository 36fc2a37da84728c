package content

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Sink collects bytes written by a pipeline stage and finalizes them
// into a new Content. A sink that was never written to stays
// "untouched", which callers use to tell "stage produced nothing" apart
// from "stage produced empty content".
type Sink struct {
	maxMemory int64
	tempDir   string

	buf     bytes.Buffer
	file    *os.File
	size    int64
	touched bool
	done    bool
}

var _ io.Writer = (*Sink)(nil)

// NewSink returns a sink spilling to a temp file in tempDir once more
// than maxMemory bytes were written. maxMemory <= 0 selects
// DefaultMaxMemory.
func NewSink(maxMemory int64, tempDir string) *Sink {
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}
	return &Sink{maxMemory: maxMemory, tempDir: tempDir}
}

func (s *Sink) Write(p []byte) (int, error) {
	if s.done {
		return 0, fmt.Errorf("sink already finalized")
	}
	s.touched = true

	if s.file == nil && s.size+int64(len(p)) > s.maxMemory {
		f, err := os.CreateTemp(s.tempDir, "ingest-cache-*")
		if err != nil {
			return 0, fmt.Errorf("create cache file: %w", err)
		}
		if _, err := f.Write(s.buf.Bytes()); err != nil {
			f.Close()
			os.Remove(f.Name())
			return 0, fmt.Errorf("spill cache: %w", err)
		}
		s.buf.Reset()
		s.file = f
	}

	var n int
	var err error
	if s.file != nil {
		n, err = s.file.Write(p)
	} else {
		n, err = s.buf.Write(p)
	}
	s.size += int64(n)
	return n, err
}

// Touched reports whether Write was ever called, even with zero bytes.
func (s *Sink) Touched() bool {
	return s.touched
}

// Content finalizes the sink into a new content handle. The sink must
// not be written to afterwards. Calling Content on an untouched sink
// yields empty content; use Touched to distinguish.
func (s *Sink) Content() (*Content, error) {
	if s.done {
		return nil, fmt.Errorf("sink already finalized")
	}
	s.done = true

	if s.file == nil {
		return FromBytes(s.buf.Bytes()), nil
	}
	name := s.file.Name()
	if err := s.file.Close(); err != nil {
		os.Remove(name)
		return nil, fmt.Errorf("close cache file: %w", err)
	}
	s.file = nil
	return &Content{file: name, length: s.size}, nil
}

// Discard releases the sink without producing content. Safe to call
// after Content, in which case it does nothing.
func (s *Sink) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	s.buf.Reset()
	if s.file != nil {
		name := s.file.Name()
		s.file.Close()
		s.file = nil
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove cache file: %w", err)
		}
	}
	return nil
}
