package handlers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/docforge/ingest/internal/importer"
	"github.com/docforge/ingest/internal/output"
	"github.com/docforge/ingest/pkg/logger"
)

// batchConcurrency bounds parallel imports within one batch request.
const batchConcurrency = 4

type ImportHandler struct {
	importer *importer.Importer
	out      *output.Writer
	log      logger.Logger
}

// NewImportHandler wires the pipeline behind HTTP. out may be nil, in
// which case results are returned but not persisted.
func NewImportHandler(im *importer.Importer, out *output.Writer, log logger.Logger) *ImportHandler {
	return &ImportHandler{importer: im, out: out, log: log}
}

// ResponseView is the JSON shape of one node in a response tree.
type ResponseView struct {
	Reference   string              `json:"reference"`
	Status      string              `json:"status"`
	Description string              `json:"description,omitempty"`
	Error       string              `json:"error,omitempty"`
	ContentType string              `json:"contentType,omitempty"`
	Metadata    map[string][]string `json:"metadata,omitempty"`
	Nested      []ResponseView      `json:"nested,omitempty"`
}

type importResult struct {
	Document   ResponseView `json:"document"`
	StoredKeys []string     `json:"storedKeys,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// ImportDocument ingests one uploaded file through the full pipeline
// and returns its response tree.
func (h *ImportHandler) ImportDocument(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "invalid file upload", err)
		return
	}
	defer file.Close()

	reference := c.PostForm("reference")
	if reference == "" {
		reference = header.Filename
	}

	resp, err := h.importer.Import(c.Request.Context(), importer.Request{
		Reader:      file,
		Reference:   reference,
		ContentType: c.PostForm("contentType"),
	})
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "import request rejected", err)
		return
	}
	defer resp.Dispose()

	result, err := h.buildResult(c.Request.Context(), resp)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "failed to store results", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportBatch ingests several uploaded files concurrently. Each file
// gets its own response tree; one bad file does not fail the batch.
func (h *ImportHandler) ImportBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "invalid form data", err)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		h.handleError(c, http.StatusBadRequest, "no files provided", nil)
		return
	}

	results := make([]importResult, len(files))

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(batchConcurrency)
	for i, header := range files {
		g.Go(func() error {
			resp, err := h.importOne(ctx, header)
			if err != nil {
				return err
			}
			defer resp.Dispose()

			result, err := h.buildResult(ctx, resp)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.handleError(c, http.StatusInternalServerError, "batch import failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": results})
}

func (h *ImportHandler) importOne(ctx context.Context, header *multipart.FileHeader) (*importer.Response, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return h.importer.Import(ctx, importer.Request{
		Reader:    f,
		Reference: header.Filename,
	})
}

func (h *ImportHandler) buildResult(ctx context.Context, resp *importer.Response) (importResult, error) {
	result := importResult{Document: viewOf(resp)}
	if h.out != nil {
		keys, err := h.out.Write(ctx, resp)
		if err != nil {
			return importResult{}, err
		}
		result.StoredKeys = keys
	}
	return result, nil
}

func viewOf(resp *importer.Response) ResponseView {
	v := ResponseView{
		Reference:   resp.Reference,
		Status:      resp.Status.String(),
		Description: resp.Description,
	}
	if resp.Err != nil {
		v.Error = resp.Err.Error()
	}
	if resp.Doc != nil {
		v.ContentType = resp.Doc.ContentType
		meta := map[string][]string{}
		for _, key := range resp.Doc.Meta.Keys() {
			meta[key] = resp.Doc.Meta.Values(key)
		}
		v.Metadata = meta
	}
	for _, nested := range resp.Nested {
		v.Nested = append(v.Nested, viewOf(nested))
	}
	return v
}

func (h *ImportHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.log.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)
	resp := errorResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}
