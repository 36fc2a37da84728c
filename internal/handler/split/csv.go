// Package split provides built-in child-producing handlers.
package split

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/docforge/ingest/internal/content"
	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/internal/metadata"
)

// CSV splits a CSV document into one child document per data row. The
// child's content is the raw row; with UseHeader set, the first row
// names metadata fields stamped on every child. The parent's content
// is left alone.
type CSV struct {
	Comma     rune
	UseHeader bool
}

func (s *CSV) Split(_ context.Context, d *doc.Document, _ io.Writer) ([]*doc.Document, error) {
	rc, err := d.Content().Reader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	if s.Comma != 0 {
		reader.Comma = s.Comma
	}
	reader.FieldsPerRecord = -1

	var header []string
	var children []*doc.Document
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row+1, err)
		}
		row++
		if s.UseHeader && header == nil {
			header = record
			continue
		}

		sep := ","
		if s.Comma != 0 {
			sep = string(s.Comma)
		}
		child := doc.New(
			d.ChildReference(fmt.Sprintf("row-%d", len(children)+1)),
			content.FromBytes([]byte(strings.Join(record, sep))),
		)
		child.ContentType = "text/plain"
		child.ParentReference = d.Reference
		for i, col := range header {
			if i < len(record) {
				child.Meta.Add(col, record[i])
			}
		}
		child.Meta.Set(metadata.KeyParentReference, d.Reference)
		children = append(children, child)
	}
	return children, nil
}

func (s *CSV) String() string {
	return "CsvSplitter"
}
