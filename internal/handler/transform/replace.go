// Package transform provides built-in content-rewriting handlers.
package transform

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"github.com/docforge/ingest/internal/metadata"
)

// RegexReplace rewrites content by applying a regexp replacement.
// When the pattern does not occur, nothing is written and the
// document keeps its original content.
type RegexReplace struct {
	Pattern     *regexp.Regexp
	Replacement string
}

func (t *RegexReplace) Transform(_ context.Context, _ string, r io.Reader, w io.Writer, _ *metadata.Metadata, _ bool) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}
	if !t.Pattern.Match(src) {
		return nil
	}
	out := t.Pattern.ReplaceAll(src, []byte(t.Replacement))
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write replaced content: %w", err)
	}
	return nil
}

func (t *RegexReplace) String() string {
	return fmt.Sprintf("RegexReplaceTransformer(%s)", t.Pattern)
}
