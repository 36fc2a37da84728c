package parse

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/fumiama/go-docx"

	"github.com/docforge/ingest/internal/doc"
)

// DOCX extracts paragraph text from Word documents.
type DOCX struct{}

func (p *DOCX) Parse(_ context.Context, d *doc.Document, out io.Writer) ([]*doc.Document, error) {
	rc, err := d.Content().Reader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// go-docx needs a ReaderAt plus a size.
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read docx content: %w", err)
	}
	parsed, err := docx.Parse(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if _, err := io.WriteString(out, text); err != nil {
			return nil, err
		}
		if _, err := io.WriteString(out, "\n"); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf bytes.Buffer
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}
