package parse

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/docforge/ingest/internal/doc"
)

// XLSX extracts cell text sheet by sheet, one row per line with cells
// separated by tabs.
type XLSX struct{}

func (p *XLSX) Parse(_ context.Context, d *doc.Document, out io.Writer) ([]*doc.Document, error) {
	rc, err := d.Content().Reader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	book, err := excelize.OpenReader(rc)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	d.Meta.Set("spreadsheet.sheets", sheets...)

	for _, sheet := range sheets {
		rows, err := book.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			line := strings.TrimRight(strings.Join(row, "\t"), "\t")
			if line == "" {
				continue
			}
			if _, err := io.WriteString(out, line); err != nil {
				return nil, err
			}
			if _, err := io.WriteString(out, "\n"); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}
