package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"unicode"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

// OCREngine locates terms by rendering each page and running Tesseract
// over the raster. It is the only engine that works on scanned documents
// with no text layer.
type OCREngine struct {
	opts Options
}

func NewOCREngine(opts Options) *OCREngine {
	return &OCREngine{opts: opts.withDefaults()}
}

func (e *OCREngine) Info() EngineInfo {
	return EngineInfo{
		Name:        "ocr",
		Description: "raster OCR search, works on scanned documents without a text layer",
	}
}

type ocrWord struct {
	text string
	box  image.Rectangle
}

func (e *OCREngine) Locate(doc []byte, term domain.Term) ([]domain.TermOccurrence, error) {
	pdfDoc, err := fitz.NewFromMemory(doc)
	if err != nil {
		return nil, domain.NewProcessingError("open", err)
	}
	defer pdfDoc.Close()

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(e.opts.OCRLanguage); err != nil {
		return nil, domain.NewProcessingError("ocr", err)
	}

	tokens := strings.Fields(strings.ToLower(term.Text))

	var occurrences []domain.TermOccurrence
	for n := 0; n < pdfDoc.NumPage(); n++ {
		img, err := pdfDoc.ImageDPI(n, e.opts.RenderDPI)
		if err != nil {
			return nil, domain.NewProcessingError("render", fmt.Errorf("page %d: %w", n+1, err))
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, domain.NewProcessingError("encode", fmt.Errorf("page %d: %w", n+1, err))
		}
		if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
			return nil, domain.NewProcessingError("ocr", fmt.Errorf("page %d: %w", n+1, err))
		}

		boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
		if err != nil {
			return nil, domain.NewProcessingError("ocr", fmt.Errorf("page %d: %w", n+1, err))
		}

		words := make([]ocrWord, 0, len(boxes))
		for _, b := range boxes {
			text := trimPunct(strings.ToLower(b.Word))
			if text == "" {
				continue
			}
			words = append(words, ocrWord{text: text, box: b.Box})
		}

		for _, rect := range matchOCRWords(words, tokens) {
			pos, err := pixelsToPoints(rect, e.opts.RenderDPI)
			if err != nil {
				return nil, domain.NewProcessingError("locate", fmt.Errorf("page %d: %w", n+1, err))
			}
			occ, err := domain.NewTermOccurrence(term, pos, n+1)
			if err != nil {
				return nil, domain.NewProcessingError("locate", fmt.Errorf("page %d: %w", n+1, err))
			}
			occurrences = append(occurrences, occ)
		}
	}
	return dedupeOccurrences(occurrences), nil
}

func (e *OCREngine) Redact(doc []byte, occurrences []domain.TermOccurrence) ([]byte, error) {
	return rasterize(doc, occurrences, e.opts)
}

func (e *OCREngine) Validate(doc []byte) error {
	pdfDoc, err := fitz.NewFromMemory(doc)
	if err != nil {
		return domain.NewProcessingError("open", err)
	}
	defer pdfDoc.Close()
	if pdfDoc.NumPage() == 0 {
		return domain.NewProcessingError("open", fmt.Errorf("document has no pages"))
	}
	return nil
}

// matchOCRWords returns the union pixel rectangle of each run of OCR words
// matching the term tokens in order.
func matchOCRWords(words []ocrWord, tokens []string) []image.Rectangle {
	if len(tokens) == 0 {
		return nil
	}

	var rects []image.Rectangle
	for i := 0; i+len(tokens) <= len(words); i++ {
		matched := true
		for j, tok := range tokens {
			w := words[i+j].text
			if w != tok && !(len(tokens) == 1 && strings.Contains(w, tok)) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		rect := words[i].box
		for j := 1; j < len(tokens); j++ {
			rect = rect.Union(words[i+j].box)
		}
		rects = append(rects, rect)
	}
	return rects
}

func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
