package engine

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

// GlyphEngine locates terms by searching the glyph stream line by line.
// It is the fastest engine on PDFs with a clean text layer.
type GlyphEngine struct {
	opts Options
}

func NewGlyphEngine(opts Options) *GlyphEngine {
	return &GlyphEngine{opts: opts.withDefaults()}
}

func (e *GlyphEngine) Info() EngineInfo {
	return EngineInfo{
		Name:        "glyph",
		Description: "line-level glyph stream search, fastest on text-layer PDFs",
	}
}

func (e *GlyphEngine) Locate(doc []byte, term domain.Term) ([]domain.TermOccurrence, error) {
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, domain.NewProcessingError("open", err)
	}

	var occurrences []domain.TermOccurrence
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, ln := range extractLines(p.Content().Text, pageMediaBox(p)) {
			for _, box := range ln.findInLine(term.Text) {
				occ, err := domain.NewTermOccurrence(term, box, i)
				if err != nil {
					return nil, domain.NewProcessingError("locate", fmt.Errorf("page %d: %w", i, err))
				}
				occurrences = append(occurrences, occ)
			}
		}
	}
	return dedupeOccurrences(occurrences), nil
}

func (e *GlyphEngine) Redact(doc []byte, occurrences []domain.TermOccurrence) ([]byte, error) {
	return rasterize(doc, occurrences, e.opts)
}

func (e *GlyphEngine) Validate(doc []byte) error {
	return validateTextDocument(doc)
}

// validateTextDocument checks that the document's text layer parses and
// the page tree is not empty.
func validateTextDocument(doc []byte) error {
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return domain.NewProcessingError("open", err)
	}
	if r.NumPage() == 0 {
		return domain.NewProcessingError("open", fmt.Errorf("document has no pages"))
	}
	return nil
}

// pageMediaBox resolves the page's native bounding box, walking up to
// inherited attributes and falling back to US Letter when absent.
func pageMediaBox(p pdf.Page) mediaBox {
	v := p.V
	for !v.IsNull() {
		if mb := v.Key("MediaBox"); !mb.IsNull() && mb.Len() == 4 {
			return mediaBox{
				OriginX: mb.Index(0).Float64(),
				OriginY: mb.Index(1).Float64(),
				Width:   mb.Index(2).Float64() - mb.Index(0).Float64(),
				Height:  mb.Index(3).Float64() - mb.Index(1).Float64(),
			}
		}
		v = v.Key("Parent")
	}
	return mediaBox{Width: 612, Height: 792}
}
