// Package importer orchestrates the document ingestion pipeline:
// content-type detection, the pre-parse handler chain, parsing, the
// post-parse handler chain, and recursive processing of child
// documents into a response tree.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docforge/ingest/internal/content"
	"github.com/docforge/ingest/internal/detect"
	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/internal/handler"
	"github.com/docforge/ingest/internal/metadata"
	"github.com/docforge/ingest/internal/parse"
	"github.com/docforge/ingest/pkg/logger"
)

// DefaultMaxNestedDepth bounds recursion over embedded/split children.
// Deeply nested archives beyond it yield ERRORED nested responses
// instead of unbounded stack growth.
const DefaultMaxNestedDepth = 50

// Config assembles an Importer. Zero values select working defaults;
// handlers and post-processors are wired programmatically.
type Config struct {
	PreParseHandlers  []handler.Binding
	PostParseHandlers []handler.Binding

	// Parsers defaults to parse.NewFactory with this config's TempDir
	// and MaxMemory.
	Parsers *parse.Factory
	// Detector defaults to magic-byte sniffing.
	Detector detect.Detector

	PostProcessors []PostProcessor

	// TempDir receives spill files for cached content; empty means
	// the OS default.
	TempDir string
	// MaxMemory bounds in-memory content caching per handle.
	MaxMemory int64
	// ErrorDir, when set, receives parse-error artifacts.
	ErrorDir string
	// MaxNestedDepth bounds child recursion; 0 selects the default.
	MaxNestedDepth int
}

// Importer drives the pipeline. Safe for concurrent use as long as
// the configured handler instances are.
type Importer struct {
	pre            []handler.Binding
	post           []handler.Binding
	parsers        *parse.Factory
	detector       detect.Detector
	postProcessors []PostProcessor

	tempDir        string
	maxMemory      int64
	errorDir       string
	maxNestedDepth int

	log logger.Logger
}

func New(cfg Config, log logger.Logger) *Importer {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Parsers == nil {
		cfg.Parsers = parse.NewFactory(parse.Config{
			TempDir:   cfg.TempDir,
			MaxMemory: cfg.MaxMemory,
		}, log)
	}
	if cfg.Detector == nil {
		cfg.Detector = detect.NewDetector()
	}
	if cfg.MaxNestedDepth <= 0 {
		cfg.MaxNestedDepth = DefaultMaxNestedDepth
	}
	return &Importer{
		pre:            cfg.PreParseHandlers,
		post:           cfg.PostParseHandlers,
		parsers:        cfg.Parsers,
		detector:       cfg.Detector,
		postProcessors: cfg.PostProcessors,
		tempDir:        cfg.TempDir,
		maxMemory:      cfg.MaxMemory,
		errorDir:       cfg.ErrorDir,
		maxNestedDepth: cfg.MaxNestedDepth,
		log:            log,
	}
}

// Request describes one top-level import. Exactly one of Reader or
// FilePath supplies the content; FilePath also supplies the default
// reference.
type Request struct {
	Reader   io.Reader
	FilePath string

	// Reference overrides the default identity. Required with Reader.
	Reference string

	// Declared values; detected when blank.
	ContentType     string
	ContentEncoding string

	// Metadata seeds the document's metadata.
	Metadata *metadata.Metadata
}

// ImportFile imports a file from disk.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Response, error) {
	return im.Import(ctx, Request{FilePath: path})
}

// Import runs the full pipeline for one document and returns its
// response tree. Per-document failures surface as ERRORED responses;
// the returned error is reserved for unusable requests (no resolvable
// reference).
func (im *Importer) Import(ctx context.Context, req Request) (*Response, error) {
	ref := req.Reference
	if ref == "" && req.FilePath != "" {
		abs, err := filepath.Abs(req.FilePath)
		if err != nil {
			return nil, fmt.Errorf("resolve reference for %q: %w", req.FilePath, err)
		}
		ref = abs
	}
	if ref == "" {
		return nil, fmt.Errorf("import request has no reference")
	}

	d, err := im.newDocument(ref, req)
	if err != nil {
		return &Response{
			Reference:   ref,
			Status:      StatusError,
			Description: err.Error(),
			Err:         &Error{Reference: ref, Err: err},
		}, nil
	}

	resp := im.importDocument(ctx, d, 0)

	for _, pp := range im.postProcessors {
		if err := pp.Process(resp); err != nil {
			im.log.Error("response post-processor failed",
				logger.String("reference", ref),
				logger.Error(err),
			)
		}
	}
	return resp, nil
}

func (im *Importer) newDocument(ref string, req Request) (*doc.Document, error) {
	var c *content.Content
	switch {
	case req.Reader != nil:
		var err error
		c, err = content.FromReader(req.Reader, im.maxMemory, im.tempDir)
		if err != nil {
			return nil, err
		}
	case req.FilePath != "":
		f, err := os.Open(req.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		c, err = content.FromReader(f, im.maxMemory, im.tempDir)
		f.Close()
		if err != nil {
			return nil, err
		}
	default:
		c = content.Empty()
	}

	d := doc.New(ref, c)
	d.ContentType = req.ContentType
	d.ContentEncoding = req.ContentEncoding
	d.Meta.Merge(req.Metadata)
	return d, nil
}

// importDocument runs the per-document state machine:
// NEW -> PRE_PARSED -> PARSED -> POST_PARSED -> terminal status.
// Children discovered along the way re-enter the pipeline as
// brand-new imports; their outcomes nest under this response whatever
// this document's own status is. All failures stop at this boundary.
func (im *Importer) importDocument(ctx context.Context, d *doc.Document, depth int) *Response {
	resp := &Response{Reference: d.Reference}

	var children []*doc.Document
	status, err := im.runStages(ctx, d, &children)

	switch {
	case err != nil:
		resp.Status = StatusError
		resp.Description = err.Error()
		resp.Err = &Error{Reference: d.Reference, Err: err}
		d.Dispose()
		im.log.Error("document import failed",
			logger.String("reference", d.Reference),
			logger.Error(err),
		)
	case status.Rejected():
		resp.Status = StatusRejected
		resp.Description = status.Description
		d.Dispose()
		im.log.Info("document rejected",
			logger.String("reference", d.Reference),
			logger.String("reason", status.Description),
		)
	default:
		resp.Status = StatusSuccess
		resp.Doc = d
		im.log.Info("document imported",
			logger.String("reference", d.Reference),
			logger.String("contentType", d.ContentType),
			logger.Int("children", len(children)),
		)
	}

	for _, child := range children {
		if depth+1 > im.maxNestedDepth {
			child.Dispose()
			childErr := fmt.Errorf("max nested depth %d exceeded", im.maxNestedDepth)
			resp.Nested = append(resp.Nested, &Response{
				Reference:   child.Reference,
				Status:      StatusError,
				Description: childErr.Error(),
				Err:         &Error{Reference: child.Reference, Err: childErr},
			})
			continue
		}
		resp.Nested = append(resp.Nested, im.importDocument(ctx, child, depth+1))
	}
	return resp
}

// runStages performs detection, stamping, the pre-parse chain, the
// parse stage and the post-parse chain, accumulating children from
// every stage. Rejection short-circuits the remaining stages.
func (im *Importer) runStages(ctx context.Context, d *doc.Document, children *[]*doc.Document) (FilterStatus, error) {
	if err := ctx.Err(); err != nil {
		return FilterStatus{}, err
	}

	im.resolveContentType(d)
	im.stampMetadata(d)

	status, kids, err := im.executeHandlers(ctx, d, im.pre, false)
	*children = append(*children, kids...)
	if err != nil {
		return FilterStatus{}, err
	}
	if status.Rejected() {
		return status, nil
	}

	kids, err = im.parseDocument(ctx, d)
	*children = append(*children, kids...)
	if err != nil {
		return FilterStatus{}, err
	}

	status, kids, err = im.executeHandlers(ctx, d, im.post, true)
	*children = append(*children, kids...)
	if err != nil {
		return FilterStatus{}, err
	}
	if status.Rejected() {
		return status, nil
	}
	return passStatus, nil
}

// resolveContentType detects the content type when not declared.
// Detection failure degrades to a generic binary type; it never fails
// the import on its own.
func (im *Importer) resolveContentType(d *doc.Document) {
	if d.ContentType != "" {
		return
	}
	rc, err := d.Content().Reader()
	if err == nil {
		var ct string
		ct, err = im.detector.Detect(rc, d.Reference)
		rc.Close()
		if err == nil {
			d.ContentType = ct
			return
		}
	}
	im.log.Warn("content-type detection failed, defaulting",
		logger.String("reference", d.Reference),
		logger.String("default", detect.OctetStream),
		logger.Error(err),
	)
	d.ContentType = detect.OctetStream
}

func (im *Importer) stampMetadata(d *doc.Document) {
	d.Meta.Set(metadata.KeyReference, d.Reference)
	d.Meta.Set(metadata.KeyContentType, d.ContentType)
	if family := detect.Family(d.ContentType); family != "" {
		d.Meta.Set(metadata.KeyContentFamily, family)
	}
	if d.ContentEncoding != "" {
		d.Meta.Set(metadata.KeyContentEncoding, d.ContentEncoding)
	}
	if d.ParentReference != "" {
		d.Meta.SetIfEmpty(metadata.KeyParentReference, d.ParentReference)
	}
}
