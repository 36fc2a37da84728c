package transform

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/docforge/ingest/internal/metadata"
)

// Charset converts content from a source character set to UTF-8 and
// updates the document's content-encoding metadata. The source is
// taken from SourceCharset, falling back to the document's
// content-encoding field; UTF-8 input passes through untouched.
type Charset struct {
	SourceCharset string
}

func (t *Charset) Transform(_ context.Context, _ string, r io.Reader, w io.Writer, meta *metadata.Metadata, _ bool) error {
	source := t.SourceCharset
	if source == "" {
		source = meta.Get(metadata.KeyContentEncoding)
	}
	if source == "" || isUTF8(source) {
		return nil
	}

	enc, err := htmlindex.Get(source)
	if err != nil {
		return fmt.Errorf("unknown charset %q: %w", source, err)
	}
	if enc == unicode.UTF8 {
		return nil
	}

	if _, err := io.Copy(w, enc.NewDecoder().Reader(r)); err != nil {
		return fmt.Errorf("convert from %s: %w", source, err)
	}
	meta.Set(metadata.KeyContentEncoding, "UTF-8")
	return nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return true
	}
	return false
}

func (t *Charset) String() string {
	return "CharsetTransformer"
}
