// Package doc defines the unit of work flowing through the ingestion
// pipeline: a reference, a single live content handle and mutable
// metadata.
package doc

import (
	"fmt"

	"github.com/docforge/ingest/internal/content"
	"github.com/docforge/ingest/internal/metadata"
)

// RefSeparator joins a parent reference and a child name into the
// child's hierarchical reference.
const RefSeparator = "!"

// Document is one unit of work. It owns exactly one live content
// handle at a time; SetContent disposes the handle it replaces.
type Document struct {
	Reference       string
	ContentType     string
	ContentEncoding string
	ParentReference string

	Meta *metadata.Metadata

	content *content.Content
}

// New creates a document over c. A nil c is normalized to empty
// content so a document always has a readable content slot.
func New(reference string, c *content.Content) *Document {
	if c == nil {
		c = content.Empty()
	}
	return &Document{
		Reference: reference,
		Meta:      metadata.New(),
		content:   c,
	}
}

// ChildReference derives the hierarchical reference of a child of d.
func (d *Document) ChildReference(name string) string {
	return d.Reference + RefSeparator + name
}

// Content returns the live content handle. Never nil.
func (d *Document) Content() *content.Content {
	return d.content
}

// SetContent adopts c as the live content, disposing the previous
// handle. Passing nil installs empty content.
func (d *Document) SetContent(c *content.Content) error {
	if c == nil {
		c = content.Empty()
	}
	old := d.content
	d.content = c
	if old != nil && old != c {
		if err := old.Dispose(); err != nil {
			return fmt.Errorf("dispose replaced content: %w", err)
		}
	}
	return nil
}

// Dispose releases the live content handle.
func (d *Document) Dispose() error {
	return d.content.Dispose()
}
