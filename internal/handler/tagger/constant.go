// Package tagger provides built-in metadata-only handlers.
package tagger

import (
	"context"
	"fmt"
	"io"

	"github.com/docforge/ingest/internal/metadata"
)

// Constant adds fixed values to a metadata field.
type Constant struct {
	Field  string
	Values []string
}

func (t *Constant) Tag(_ context.Context, _ string, _ io.Reader, meta *metadata.Metadata, _ bool) error {
	meta.Add(t.Field, t.Values...)
	return nil
}

func (t *Constant) String() string {
	return fmt.Sprintf("ConstantTagger(%s)", t.Field)
}
