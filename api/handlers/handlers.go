// Package handlers exposes the ingestion pipeline over HTTP.
package handlers

import (
	"github.com/docforge/ingest/internal/importer"
	"github.com/docforge/ingest/internal/output"
	"github.com/docforge/ingest/pkg/logger"
)

type Handlers struct {
	Import *ImportHandler
}

func NewHandlers(im *importer.Importer, out *output.Writer, log logger.Logger) *Handlers {
	return &Handlers{
		Import: NewImportHandler(im, out, log),
	}
}
