package importer

import (
	"context"
	"fmt"

	"github.com/docforge/ingest/internal/content"
	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/internal/handler"
	"github.com/docforge/ingest/pkg/logger"
)

// executeHandlers runs one handler chain over a document, in order,
// and resolves the aggregate filter status.
//
// EXCLUDE-style filters short-circuit: the first non-accepting one
// rejects the document and nothing after it runs. INCLUDE-style
// filters are resolved at end of chain: if any were present and none
// matched, the chain rejects. Child documents produced by splitters
// are accumulated and handed back; they are not processed inline.
//
// On a hard error, children discovered so far are disposed and the
// error is returned for the caller's per-document boundary.
func (im *Importer) executeHandlers(ctx context.Context, d *doc.Document, chain []handler.Binding, parsed bool) (FilterStatus, []*doc.Document, error) {
	var children []*doc.Document
	fail := func(err error) (FilterStatus, []*doc.Document, error) {
		for _, c := range children {
			c.Dispose()
		}
		return FilterStatus{}, nil, err
	}

	hasInclude := false
	includeMatched := false

	for _, binding := range chain {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		if !binding.AppliesTo(d.Meta) {
			im.log.Debug("handler restriction not met, skipping",
				logger.String("reference", d.Reference),
				logger.String("handler", handler.Name(binding.Handler)),
			)
			continue
		}

		switch h := binding.Handler.(type) {
		case handler.Tagger:
			if err := im.runTagger(ctx, h, d, parsed); err != nil {
				return fail(err)
			}

		case handler.Transformer:
			if err := im.runTransformer(ctx, h, d, parsed); err != nil {
				return fail(err)
			}

		case handler.Splitter:
			kids, err := im.runSplitter(ctx, h, d)
			if err != nil {
				return fail(err)
			}
			children = append(children, kids...)

		case handler.Filter:
			accepted, err := im.runFilter(ctx, h, d, parsed)
			if err != nil {
				return fail(err)
			}
			if h.OnMatch() == handler.OnMatchInclude {
				hasInclude = true
				if accepted {
					includeMatched = true
				}
				continue
			}
			if !accepted {
				return FilterStatus{
					Status:      StatusRejected,
					Description: "rejected by filter: " + handler.Name(h),
				}, children, nil
			}

		default:
			im.log.Warn("unsupported handler type, skipping",
				logger.String("reference", d.Reference),
				logger.String("handler", handler.Name(binding.Handler)),
			)
		}
	}

	if hasInclude && !includeMatched {
		return FilterStatus{
			Status:      StatusRejected,
			Description: "no include filters matched",
		}, children, nil
	}
	return passStatus, children, nil
}

func (im *Importer) runTagger(ctx context.Context, h handler.Tagger, d *doc.Document, parsed bool) error {
	rc, err := d.Content().Reader()
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := h.Tag(ctx, d.Reference, rc, d.Meta, parsed); err != nil {
		return fmt.Errorf("tagger %s: %w", handler.Name(h), err)
	}
	return nil
}

func (im *Importer) runTransformer(ctx context.Context, h handler.Transformer, d *doc.Document, parsed bool) error {
	rc, err := d.Content().Reader()
	if err != nil {
		return err
	}
	sink := content.NewSink(im.maxMemory, im.tempDir)
	err = h.Transform(ctx, d.Reference, rc, sink, d.Meta, parsed)
	rc.Close()
	if err != nil {
		sink.Discard()
		return fmt.Errorf("transformer %s: %w", handler.Name(h), err)
	}
	// Untouched sink means the transformer chose to keep the
	// original content.
	if !sink.Touched() {
		return sink.Discard()
	}
	return im.adoptSink(d, sink)
}

func (im *Importer) runSplitter(ctx context.Context, h handler.Splitter, d *doc.Document) ([]*doc.Document, error) {
	sink := content.NewSink(im.maxMemory, im.tempDir)
	kids, err := h.Split(ctx, d, sink)
	if err != nil {
		sink.Discard()
		for _, k := range kids {
			k.Dispose()
		}
		return nil, fmt.Errorf("splitter %s: %w", handler.Name(h), err)
	}
	// Splitting is destructive to the parent by convention: any
	// write, even an empty one, replaces the parent content.
	if sink.Touched() {
		if err := im.adoptSink(d, sink); err != nil {
			for _, k := range kids {
				k.Dispose()
			}
			return nil, err
		}
	} else {
		sink.Discard()
	}
	return kids, nil
}

func (im *Importer) runFilter(ctx context.Context, h handler.Filter, d *doc.Document, parsed bool) (bool, error) {
	rc, err := d.Content().Reader()
	if err != nil {
		return false, err
	}
	defer rc.Close()
	accepted, err := h.Accept(ctx, d.Reference, rc, d.Meta, parsed)
	if err != nil {
		return false, fmt.Errorf("filter %s: %w", handler.Name(h), err)
	}
	return accepted, nil
}

// adoptSink finalizes a sink and installs the result as the
// document's content, disposing the previous handle.
func (im *Importer) adoptSink(d *doc.Document, sink *content.Sink) error {
	c, err := sink.Content()
	if err != nil {
		return err
	}
	if err := d.SetContent(c); err != nil {
		c.Dispose()
		return err
	}
	return nil
}
