package detect

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlainText(t *testing.T) {
	d := NewDetector()
	ct, err := d.Detect(strings.NewReader("just some plain text\n"), "note")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ct, "text/"), "got %q", ct)
}

func TestDetectPDFMagic(t *testing.T) {
	d := NewDetector()
	ct, err := d.Detect(bytes.NewReader([]byte("%PDF-1.7\n%binary")), "file.bin")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)
}

func TestDetectFallsBackToExtension(t *testing.T) {
	d := NewDetector()
	ct, err := d.Detect(strings.NewReader("a,b,c\n1,2,3\n"), "table.csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", strip(ct))
}

func TestFamily(t *testing.T) {
	tests := []struct {
		contentType string
		family      string
	}{
		{"text/plain", FamilyText},
		{"text/html", FamilyHTML},
		{"application/pdf", FamilyDocument},
		{"application/zip", FamilyArchive},
		{"image/png", FamilyImage},
		{"text/csv", FamilySpreadsheet},
		{"application/x-never-seen", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.family, Family(tt.contentType), tt.contentType)
	}
}
