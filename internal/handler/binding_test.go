package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/ingest/internal/metadata"
)

type namedHandler struct{}

func (namedHandler) String() string { return "MyHandler" }

type anonHandler struct{}

func TestBindingWithoutRestrictionsAppliesToAll(t *testing.T) {
	b := Bind(namedHandler{})
	assert.True(t, b.AppliesTo(metadata.New()))
}

func TestRestrictToMatchesAnyValue(t *testing.T) {
	b, err := RestrictTo(namedHandler{}, metadata.KeyContentType, `^text/`)
	require.NoError(t, err)

	meta := metadata.New()
	assert.False(t, b.AppliesTo(meta), "no field value, no match")

	meta.Set(metadata.KeyContentType, "text/html")
	assert.True(t, b.AppliesTo(meta))

	meta.Set(metadata.KeyContentType, "application/pdf")
	assert.False(t, b.AppliesTo(meta))
}

func TestRestrictToRejectsBadPattern(t *testing.T) {
	_, err := RestrictTo(namedHandler{}, "field", `([`)
	require.Error(t, err)
}

func TestNamePrefersStringer(t *testing.T) {
	assert.Equal(t, "MyHandler", Name(namedHandler{}))
	assert.Contains(t, Name(anonHandler{}), "anonHandler")
}

func TestOnMatchString(t *testing.T) {
	assert.Equal(t, "exclude", OnMatchExclude.String())
	assert.Equal(t, "include", OnMatchInclude.String())
}
