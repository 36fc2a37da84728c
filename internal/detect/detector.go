// Package detect resolves a document's content type and maps content
// types to coarse content families.
package detect

import (
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// OctetStream is the fallback content type when detection fails.
const OctetStream = "application/octet-stream"

// Detector sniffs a content type from raw bytes, optionally refined by
// a reference hint (file name or URL).
type Detector interface {
	Detect(r io.Reader, referenceHint string) (string, error)
}

// MimeDetector detects content types by magic-byte sniffing, falling
// back to the reference's file extension when sniffing is
// inconclusive.
type MimeDetector struct{}

func NewDetector() *MimeDetector {
	return &MimeDetector{}
}

func (d *MimeDetector) Detect(r io.Reader, referenceHint string) (string, error) {
	mtype, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}

	detected := strip(mtype.String())
	if detected != OctetStream && detected != "text/plain" {
		return detected, nil
	}

	// Inconclusive sniff: an extension hint may be more specific.
	if ext := filepath.Ext(referenceHint); ext != "" {
		if byExt := strip(mime.TypeByExtension(ext)); byExt != "" {
			return byExt, nil
		}
	}
	return detected, nil
}

// strip removes any media-type parameters ("; charset=...").
func strip(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}
