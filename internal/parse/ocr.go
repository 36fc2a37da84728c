package parse

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/docforge/ingest/internal/doc"
	"github.com/docforge/ingest/pkg/logger"
)

// OCR extracts text from images with tesseract. Images are normalized
// first (grayscale, mild contrast and sharpening) which measurably
// helps recognition on scans.
type OCR struct {
	Languages []string

	log logger.Logger
}

func (p *OCR) Parse(ctx context.Context, d *doc.Document, out io.Writer) ([]*doc.Document, error) {
	rc, err := d.Content().Reader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, format, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	d.Meta.SetIfEmpty("image.format", format)

	prepared, err := preprocess(img)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()
	if len(p.Languages) > 0 {
		if err := client.SetLanguage(p.Languages...); err != nil {
			return nil, fmt.Errorf("set ocr languages: %w", err)
		}
	}
	if err := client.SetImageFromBytes(prepared); err != nil {
		return nil, fmt.Errorf("load image into tesseract: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	if p.log != nil {
		p.log.Debug("ocr extracted text",
			logger.String("reference", d.Reference),
			logger.Int("chars", len(text)),
		)
	}

	if _, err := io.WriteString(out, text); err != nil {
		return nil, err
	}
	return nil, nil
}

// preprocess normalizes an image for recognition and re-encodes it as
// PNG for tesseract.
func preprocess(img image.Image) ([]byte, error) {
	normalized := imaging.Grayscale(img)
	normalized = imaging.AdjustContrast(normalized, 10)
	normalized = imaging.Sharpen(normalized, 0.5)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, normalized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode preprocessed image: %w", err)
	}
	return buf.Bytes(), nil
}
