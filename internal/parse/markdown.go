package parse

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/docforge/ingest/internal/doc"
)

// Markdown extracts plain text from the goldmark AST, one block per
// line.
type Markdown struct{}

func (p *Markdown) Parse(_ context.Context, d *doc.Document, out io.Writer) ([]*doc.Document, error) {
	rc, err := d.Content().Reader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	src, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read markdown content: %w", err)
	}

	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(src))

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			d.Meta.SetIfEmpty("title", string(h.Text(src)))
		}
		t := markdownText(n, src)
		if t == "" {
			continue
		}
		if _, err := io.WriteString(out, t); err != nil {
			return nil, err
		}
		if _, err := io.WriteString(out, "\n\n"); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// markdownText collects the text content of a goldmark block node.
func markdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
			return string(bytes.TrimSpace(buf.Bytes()))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			if inner := markdownText(c, src); inner != "" {
				buf.WriteString(inner)
				buf.WriteByte('\n')
			}
		}
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}
