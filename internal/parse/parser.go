// Package parse converts raw document content into plain text and
// metadata. Each parser handles one family of content types; the
// factory resolves a parser from a document's content type, returning
// nil when the content needs no parsing.
package parse

import (
	"context"
	"io"
	"strings"

	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/pkg/logger"
)

// ContentType constants for registered parsers.
const (
	TypePDF  = "application/pdf"
	TypeHTML = "text/html"
	TypeMD   = "text/markdown"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	TypeZip  = "application/zip"
)

// Parser extracts plain text from a document, writing it to out. It
// may return embedded child documents (archive entries, attachments)
// and may refine the document's metadata.
type Parser interface {
	Parse(ctx context.Context, d *doc.Document, out io.Writer) ([]*doc.Document, error)
}

// Config tunes the factory and its parsers.
type Config struct {
	// TempDir and MaxMemory govern caching of embedded children.
	TempDir   string
	MaxMemory int64

	// OCREnabled registers the tesseract parser for image types.
	OCREnabled   bool
	OCRLanguages []string
}

// Factory resolves parsers by content type.
type Factory struct {
	byType map[string]Parser
	log    logger.Logger
}

// NewFactory builds a factory with the default parser set.
func NewFactory(cfg Config, log logger.Logger) *Factory {
	if log == nil {
		log = logger.NewNop()
	}
	f := &Factory{
		byType: make(map[string]Parser),
		log:    log,
	}

	f.Register(TypePDF, &PDF{log: log})
	f.Register(TypeHTML, &HTML{})
	f.Register(TypeMD, &Markdown{})
	f.Register(TypeDOCX, &DOCX{})
	f.Register(TypeXLSX, &XLSX{})
	f.Register(TypeZip, &Zip{TempDir: cfg.TempDir, MaxMemory: cfg.MaxMemory})

	if cfg.OCREnabled {
		ocr := &OCR{Languages: cfg.OCRLanguages, log: log}
		for _, ct := range []string{"image/png", "image/jpeg", "image/tiff"} {
			f.Register(ct, ocr)
		}
	}
	return f
}

// Register maps a content type to a parser, replacing any previous
// registration.
func (f *Factory) Register(contentType string, p Parser) {
	f.byType[strings.ToLower(contentType)] = p
}

// Parser returns the parser for a content type, or nil when the
// content passes through unparsed.
func (f *Factory) Parser(reference, contentType string) Parser {
	p, ok := f.byType[strings.ToLower(contentType)]
	if !ok {
		f.log.Debug("no parser registered",
			logger.String("reference", reference),
			logger.String("contentType", contentType),
		)
		return nil
	}
	return p
}
