package filter

import (
	"context"
	"io"

	"github.com/docforge/ingest/internal/handler"
	"github.com/docforge/ingest/internal/metadata"
)

// Empty rejects documents with no content bytes. Always EXCLUDE-style.
type Empty struct{}

func (f *Empty) Accept(_ context.Context, _ string, r io.Reader, _ *metadata.Metadata, _ bool) (bool, error) {
	var one [1]byte
	n, err := r.Read(one[:])
	if n > 0 {
		return true, nil
	}
	if err == io.EOF || err == nil {
		return false, nil
	}
	return false, err
}

func (f *Empty) OnMatch() handler.OnMatch {
	return handler.OnMatchExclude
}

func (f *Empty) String() string {
	return "EmptyContentFilter"
}
