package parse

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/docforge/ingest/internal/content"
	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/internal/metadata"
)

// Zip turns every archive entry into an embedded child document. The
// children re-enter the pipeline as brand-new imports, so their
// content types are left for detection. The parent itself yields no
// text.
type Zip struct {
	TempDir   string
	MaxMemory int64
}

func (p *Zip) Parse(ctx context.Context, d *doc.Document, _ io.Writer) ([]*doc.Document, error) {
	rc, err := d.Content().Reader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	archive, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var children []*doc.Document
	for _, entry := range archive.File {
		if err := ctx.Err(); err != nil {
			disposeAll(children)
			return nil, err
		}
		if entry.FileInfo().IsDir() {
			continue
		}

		er, err := entry.Open()
		if err != nil {
			disposeAll(children)
			return nil, fmt.Errorf("open archive entry %q: %w", entry.Name, err)
		}
		c, err := content.FromReader(er, p.MaxMemory, p.TempDir)
		er.Close()
		if err != nil {
			disposeAll(children)
			return nil, fmt.Errorf("cache archive entry %q: %w", entry.Name, err)
		}

		child := doc.New(d.ChildReference(entry.Name), c)
		child.ParentReference = d.Reference
		child.Meta.Set(metadata.KeyParentReference, d.Reference)
		child.Meta.Set(metadata.KeyEmbeddedIndex, strconv.Itoa(len(children)))
		children = append(children, child)
	}
	return children, nil
}

func disposeAll(docs []*doc.Document) {
	for _, d := range docs {
		d.Dispose()
	}
}
