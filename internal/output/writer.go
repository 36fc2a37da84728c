// Package output persists import response trees to object storage.
// Each accepted document becomes one object plus a sibling ".meta"
// object holding its status and metadata; rejected and errored nodes
// keep only the ".meta" record.
package output

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/docforge/ingest/internal/importer"
	"github.com/docforge/ingest/pkg/logger"
	"github.com/docforge/ingest/pkg/storage"
)

type Writer struct {
	store storage.Storage
	log   logger.Logger
}

func NewWriter(store storage.Storage, log logger.Logger) *Writer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Writer{store: store, log: log}
}

// Write persists the whole tree and returns the keys of the stored
// content objects, root first.
func (w *Writer) Write(ctx context.Context, resp *importer.Response) ([]string, error) {
	base := baseKey(resp.Reference)
	var keys []string
	if err := w.writeNode(ctx, resp, base, 0, 0, &keys); err != nil {
		return keys, err
	}
	return keys, nil
}

func (w *Writer) writeNode(ctx context.Context, resp *importer.Response, base string, depth, index int, keys *[]string) error {
	key := base
	if depth > 0 {
		// Nested outputs keep the parent's name with a position
		// suffix before the extension.
		key = insertSuffix(base, fmt.Sprintf("_%d-%d", depth, index))
	}

	if resp.Accepted() && resp.Doc != nil {
		rc, err := resp.Doc.Content().Reader()
		if err != nil {
			return fmt.Errorf("read content for %s: %w", resp.Reference, err)
		}
		_, err = w.store.Store(ctx, rc, key)
		rc.Close()
		if err != nil {
			return err
		}
		*keys = append(*keys, key)
		w.log.Info("stored document",
			logger.String("reference", resp.Reference),
			logger.String("key", key),
		)
	}

	if _, err := w.store.Store(ctx, strings.NewReader(metaRecord(resp)), key+".meta"); err != nil {
		return err
	}

	for i, nested := range resp.Nested {
		if err := w.writeNode(ctx, nested, key, depth+1, i, keys); err != nil {
			return err
		}
	}
	return nil
}

func metaRecord(resp *importer.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "status = %s\n", resp.Status)
	fmt.Fprintf(&b, "reference = %s\n", resp.Reference)
	if resp.Description != "" {
		fmt.Fprintf(&b, "description = %s\n", resp.Description)
	}
	if resp.Err != nil {
		fmt.Fprintf(&b, "error = %s\n", resp.Err.Error())
	}
	if resp.Doc != nil {
		io.WriteString(&b, resp.Doc.Meta.String())
	}
	return b.String()
}

// baseKey derives an object key from a document reference: the file
// name for path-like references, with child separators flattened.
func baseKey(reference string) string {
	name := filepath.Base(filepath.FromSlash(reference))
	name = strings.ReplaceAll(name, "!", "_")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "document"
	}
	return name
}

func insertSuffix(key, suffix string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + suffix + ext
}
