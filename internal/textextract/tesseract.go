package textextract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

// TesseractExtractor recovers document text by rendering each page and
// running local Tesseract OCR over the raster.
type TesseractExtractor struct {
	language     string
	renderDPI    float64
	preprocessor *Preprocessor
}

// NewTesseractExtractor creates a Tesseract-backed extractor.
func NewTesseractExtractor(language string, renderDPI float64) *TesseractExtractor {
	if language == "" {
		language = "eng"
	}
	if renderDPI <= 0 {
		renderDPI = 400
	}
	return &TesseractExtractor{
		language:     language,
		renderDPI:    renderDPI,
		preprocessor: NewPreprocessor(),
	}
}

func (t *TesseractExtractor) Name() string { return "tesseract" }

func (t *TesseractExtractor) Extract(ctx context.Context, doc []byte) (*ExtractionResult, error) {
	start := time.Now()

	pdfDoc, err := fitz.NewFromMemory(doc)
	if err != nil {
		return nil, domain.NewProcessingError("open", err)
	}
	defer pdfDoc.Close()

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(t.language); err != nil {
		return nil, domain.NewProcessingError("ocr", err)
	}

	result := &ExtractionResult{PageCount: pdfDoc.NumPage()}
	var full strings.Builder
	for n := 0; n < pdfDoc.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := pdfDoc.ImageDPI(n, t.renderDPI)
		if err != nil {
			return nil, domain.NewProcessingError("render", fmt.Errorf("page %d: %w", n+1, err))
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, t.preprocessor.Prepare(img)); err != nil {
			return nil, domain.NewProcessingError("encode", fmt.Errorf("page %d: %w", n+1, err))
		}
		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			return nil, domain.NewProcessingError("ocr", fmt.Errorf("page %d: %w", n+1, err))
		}

		text, err := client.Text()
		if err != nil {
			return nil, domain.NewProcessingError("ocr", fmt.Errorf("page %d: %w", n+1, err))
		}

		result.Pages = append(result.Pages, PageText{PageNumber: n + 1, Text: text})
		if full.Len() > 0 {
			full.WriteByte('\n')
		}
		full.WriteString(text)
	}

	result.Text = full.String()
	result.WordCount = len(strings.Fields(result.Text))
	result.Duration = time.Since(start)
	return result, nil
}
