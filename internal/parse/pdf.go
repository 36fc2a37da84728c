package parse

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/pkg/logger"
)

// PDF extracts page text and document-info metadata.
type PDF struct {
	log logger.Logger
}

func (p *PDF) Parse(ctx context.Context, d *doc.Document, out io.Writer) ([]*doc.Document, error) {
	rc, err := d.Content().Reader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// pdf.NewReader needs io.ReaderAt plus a size.
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read pdf content: %w", err)
	}
	reader := bytes.NewReader(raw)
	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			if p.log != nil {
				p.log.Warn("failed to extract pdf page",
					logger.String("reference", d.Reference),
					logger.Int("page", i),
					logger.Error(err),
				)
			}
			continue
		}
		if _, err := io.WriteString(out, text); err != nil {
			return nil, err
		}
		if _, err := io.WriteString(out, "\n"); err != nil {
			return nil, err
		}
	}

	d.Meta.Set("pdf.pages", fmt.Sprintf("%d", numPages))
	if trailer := pdfReader.Trailer(); !trailer.IsNull() {
		if info := trailer.Key("Info"); !info.IsNull() {
			if title := info.Key("Title"); !title.IsNull() && title.String() != "" {
				d.Meta.SetIfEmpty("title", title.String())
			}
			if author := info.Key("Author"); !author.IsNull() && author.String() != "" {
				d.Meta.SetIfEmpty("author", author.String())
			}
		}
	}
	return nil, nil
}
