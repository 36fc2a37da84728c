// Package filter provides built-in accept/reject handlers.
package filter

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/docforge/ingest/internal/handler"
	"github.com/docforge/ingest/internal/metadata"
)

// Regex accepts documents whose metadata field (or reference, when
// Field is empty) matches a pattern.
type Regex struct {
	Field   string
	Pattern *regexp.Regexp
	Mode    handler.OnMatch
}

func (f *Regex) Accept(_ context.Context, reference string, _ io.Reader, meta *metadata.Metadata, _ bool) (bool, error) {
	if f.Field == "" {
		return f.Pattern.MatchString(reference), nil
	}
	for _, v := range meta.Values(f.Field) {
		if f.Pattern.MatchString(v) {
			return true, nil
		}
	}
	return false, nil
}

func (f *Regex) OnMatch() handler.OnMatch {
	return f.Mode
}

func (f *Regex) String() string {
	field := f.Field
	if field == "" {
		field = "reference"
	}
	return fmt.Sprintf("RegexFilter(%s=%s, onMatch=%s)", field, f.Pattern, f.Mode)
}
