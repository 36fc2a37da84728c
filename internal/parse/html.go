package parse

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/internal/metadata"
)

// HTML extracts visible text, the <title>, and a declared charset.
type HTML struct{}

func (p *HTML) Parse(_ context.Context, d *doc.Document, out io.Writer) ([]*doc.Document, error) {
	rc, err := d.Content().Reader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	root, err := html.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	if title := findTitle(root); title != "" {
		d.Meta.SetIfEmpty("title", title)
	}
	if charset := findCharset(root); charset != "" {
		d.Meta.SetIfEmpty(metadata.KeyContentEncoding, charset)
	}

	var werr error
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if werr != nil {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if _, err := io.WriteString(out, t); err != nil {
					werr = err
					return
				}
				if _, err := io.WriteString(out, "\n"); err != nil {
					werr = err
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return nil, werr
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findCharset(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "meta" {
		for _, a := range n.Attr {
			if a.Key == "charset" {
				return a.Val
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if cs := findCharset(c); cs != "" {
			return cs
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
