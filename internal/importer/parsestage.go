package importer

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"github.com/docforge/ingest/internal/content"
	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/internal/metadata"
	"github.com/docforge/ingest/pkg/logger"
)

// parseDocument runs the external parser resolved for the document, if
// any. With no parser the content passes through unchanged. After a
// successful parse the document's content is always replaced: by the
// extracted text, or by explicit empty content when the parser wrote
// nothing, so stale binary bytes never masquerade as text.
func (im *Importer) parseDocument(ctx context.Context, d *doc.Document) ([]*doc.Document, error) {
	parser := im.parsers.Parser(d.Reference, d.ContentType)
	if parser == nil {
		return nil, nil
	}

	sink := content.NewSink(im.maxMemory, im.tempDir)
	children, err := parser.Parse(ctx, d, sink)
	if err != nil {
		sink.Discard()
		for _, c := range children {
			c.Dispose()
		}
		im.saveParseError(d, err)
		return nil, fmt.Errorf("parse %s (%s): %w", d.Reference, d.ContentType, err)
	}

	if sink.Touched() {
		if err := im.adoptSink(d, sink); err != nil {
			for _, c := range children {
				c.Dispose()
			}
			return nil, err
		}
	} else {
		sink.Discard()
		if err := d.SetContent(content.Empty()); err != nil {
			for _, c := range children {
				c.Dispose()
			}
			return nil, err
		}
	}

	// The parser may have discovered more specific values; adopt them
	// only when the document had none.
	if d.ContentEncoding == "" {
		d.ContentEncoding = d.Meta.Get(metadata.KeyContentEncoding)
	}
	if ct := d.Meta.Get(metadata.KeyContentType); d.ContentType == "" && ct != "" {
		d.ContentType = ct
	}
	return children, nil
}

// saveParseError persists three diagnostic artifacts for a failed
// parse: the error with a stack trace, the metadata snapshot, and the
// raw content. Dumping is best-effort; its own failures are logged and
// never replace the parse error.
func (im *Importer) saveParseError(d *doc.Document, parseErr error) {
	if im.errorDir == "" {
		return
	}
	if err := os.MkdirAll(im.errorDir, 0o755); err != nil {
		im.log.Error("cannot create parse-error directory",
			logger.String("dir", im.errorDir),
			logger.Error(err),
		)
		return
	}

	id := uuid.New().String()
	dump := func(name string, write func(io.Writer) error) {
		path := filepath.Join(im.errorDir, id+name)
		f, err := os.Create(path)
		if err == nil {
			err = write(f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}
		if err != nil {
			im.log.Error("cannot save parse-error artifact",
				logger.String("reference", d.Reference),
				logger.String("file", path),
				logger.Error(err),
			)
		}
	}

	dump("-error.txt", func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%v\n\n%s", parseErr, debug.Stack())
		return err
	})
	dump("-meta.txt", func(w io.Writer) error {
		_, err := io.WriteString(w, d.Meta.String())
		return err
	})
	dump("-content."+dumpExtension(d), func(w io.Writer) error {
		rc, err := d.Content().Reader()
		if err != nil {
			return err
		}
		defer rc.Close()
		_, err = io.Copy(w, rc)
		return err
	})

	im.log.Info("saved parse-error artifacts",
		logger.String("reference", d.Reference),
		logger.String("id", id),
	)
}

// dumpExtension infers a file extension from the reference, then the
// content type, defaulting to "unknown".
func dumpExtension(d *doc.Document) string {
	if ext := filepath.Ext(d.Reference); ext != "" {
		return strings.TrimPrefix(ext, ".")
	}
	if exts, err := mime.ExtensionsByType(d.ContentType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "unknown"
}
