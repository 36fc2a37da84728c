package transform

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/ingest/internal/metadata"
)

func TestRegexReplaceRewrites(t *testing.T) {
	tr := &RegexReplace{
		Pattern:     regexp.MustCompile(`\d{3}-\d{2}-\d{4}`),
		Replacement: "[redacted]",
	}

	var out bytes.Buffer
	err := tr.Transform(context.Background(), "ref",
		strings.NewReader("ssn 123-45-6789 on file"), &out, metadata.New(), false)
	require.NoError(t, err)
	assert.Equal(t, "ssn [redacted] on file", out.String())
}

func TestRegexReplaceNoMatchWritesNothing(t *testing.T) {
	tr := &RegexReplace{
		Pattern:     regexp.MustCompile(`absent`),
		Replacement: "x",
	}

	var out bytes.Buffer
	err := tr.Transform(context.Background(), "ref",
		strings.NewReader("plain body"), &out, metadata.New(), false)
	require.NoError(t, err)
	assert.Zero(t, out.Len(), "no write means the original content survives")
}

func TestCharsetDecodesLatin1(t *testing.T) {
	tr := &Charset{SourceCharset: "iso-8859-1"}
	meta := metadata.New()

	// "café" in latin-1: the é is a single 0xE9 byte.
	input := []byte{'c', 'a', 'f', 0xE9}
	var out bytes.Buffer
	err := tr.Transform(context.Background(), "ref", bytes.NewReader(input), &out, meta, false)
	require.NoError(t, err)
	assert.Equal(t, "café", out.String())
	assert.Equal(t, "UTF-8", meta.Get(metadata.KeyContentEncoding))
}

func TestCharsetUTF8PassesThrough(t *testing.T) {
	tr := &Charset{SourceCharset: "UTF-8"}

	var out bytes.Buffer
	err := tr.Transform(context.Background(), "ref",
		strings.NewReader("already fine"), &out, metadata.New(), false)
	require.NoError(t, err)
	assert.Zero(t, out.Len())
}

func TestCharsetFallsBackToMetadataEncoding(t *testing.T) {
	tr := &Charset{}
	meta := metadata.New()
	meta.Set(metadata.KeyContentEncoding, "iso-8859-1")

	var out bytes.Buffer
	err := tr.Transform(context.Background(), "ref",
		bytes.NewReader([]byte{0xFC}), &out, meta, false)
	require.NoError(t, err)
	assert.Equal(t, "ü", out.String())
}

func TestCharsetUnknownSourceFails(t *testing.T) {
	tr := &Charset{SourceCharset: "klingon-7"}

	var out bytes.Buffer
	err := tr.Transform(context.Background(), "ref",
		strings.NewReader("x"), &out, metadata.New(), false)
	require.Error(t, err)
}
