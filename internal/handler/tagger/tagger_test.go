package tagger

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/ingest/internal/metadata"
)

func TestConstantAddsValues(t *testing.T) {
	meta := metadata.New()
	tg := &Constant{Field: "lang", Values: []string{"en", "de"}}

	err := tg.Tag(context.Background(), "ref", strings.NewReader(""), meta, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "de"}, meta.Values("lang"))
}

func TestRegexCapturesGroupOne(t *testing.T) {
	meta := metadata.New()
	tg := &Regex{
		Field:   "email",
		Pattern: regexp.MustCompile(`mailto:(\S+@\S+)`),
	}

	body := "contact mailto:alice@example.com today\nor mailto:bob@example.com\n"
	err := tg.Tag(context.Background(), "ref", strings.NewReader(body), meta, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, meta.Values("email"))
}

func TestRegexWholeMatchWithoutGroup(t *testing.T) {
	meta := metadata.New()
	tg := &Regex{
		Field:   "ticket",
		Pattern: regexp.MustCompile(`TICKET-\d+`),
	}

	err := tg.Tag(context.Background(), "ref", strings.NewReader("see TICKET-42 and TICKET-7"), meta, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"TICKET-42", "TICKET-7"}, meta.Values("ticket"))
}

func TestRegexNoMatchLeavesMetadataAlone(t *testing.T) {
	meta := metadata.New()
	tg := &Regex{Field: "x", Pattern: regexp.MustCompile(`nope`)}

	err := tg.Tag(context.Background(), "ref", strings.NewReader("nothing here"), meta, false)
	require.NoError(t, err)
	assert.False(t, meta.Has("x"))
}
