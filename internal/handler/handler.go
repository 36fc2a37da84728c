// Package handler defines the pluggable document-processing contract:
// taggers, transformers, splitters and filters, plus the binding that
// attaches applies-to restrictions to a handler instance.
package handler

import (
	"context"
	"io"

	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/internal/metadata"
)

// Handler is one of Tagger, Transformer, Splitter or Filter. The chain
// executor dispatches on the concrete capability; anything else is
// logged as unsupported and skipped.
type Handler interface{}

// Tagger mutates document metadata only. The content reader it
// receives is a throwaway view; consuming it does not affect the
// document.
type Tagger interface {
	Tag(ctx context.Context, reference string, r io.Reader, meta *metadata.Metadata, parsed bool) error
}

// Transformer may rewrite document content by writing to w. When it
// writes nothing at all, the original content is kept.
type Transformer interface {
	Transform(ctx context.Context, reference string, r io.Reader, w io.Writer, meta *metadata.Metadata, parsed bool) error
}

// Splitter may produce child documents. Writing to w replaces the
// parent's content with whatever was written, even when that is
// nothing but an empty write.
type Splitter interface {
	Split(ctx context.Context, d *doc.Document, w io.Writer) ([]*doc.Document, error)
}

// OnMatch tells how a filter's match outcome combines in a chain.
type OnMatch int

const (
	// OnMatchExclude rejects the document as soon as the filter does
	// not accept it. This is the default.
	OnMatchExclude OnMatch = iota
	// OnMatchInclude never rejects on its own; the chain rejects at
	// the end only if include filters were present and none matched.
	OnMatchInclude
)

func (o OnMatch) String() string {
	if o == OnMatchInclude {
		return "include"
	}
	return "exclude"
}

// Filter decides whether a document passes the chain.
type Filter interface {
	Accept(ctx context.Context, reference string, r io.Reader, meta *metadata.Metadata, parsed bool) (bool, error)
	OnMatch() OnMatch
}
