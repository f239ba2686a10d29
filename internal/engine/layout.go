package engine

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

// LayoutEngine locates terms at word granularity. Single-word terms get a
// box covering only the matched substring of the word; multi-word terms
// are matched against consecutive words, with a column-aware fallback for
// terms broken across layout columns.
type LayoutEngine struct {
	opts Options
}

func NewLayoutEngine(opts Options) *LayoutEngine {
	return &LayoutEngine{opts: opts.withDefaults()}
}

func (e *LayoutEngine) Info() EngineInfo {
	return EngineInfo{
		Name:        "layout",
		Description: "word and column aware matching, tightest boxes on complex layouts",
	}
}

func (e *LayoutEngine) Locate(doc []byte, term domain.Term) ([]domain.TermOccurrence, error) {
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, domain.NewProcessingError("open", err)
	}

	tokens := strings.Fields(term.Text)

	var occurrences []domain.TermOccurrence
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		words := extractWords(p.Content().Text, pageMediaBox(p))

		var boxes []domain.Position
		if len(tokens) == 1 {
			boxes = matchSingleWord(words, term.Text)
		} else {
			boxes = matchConsecutive(words, tokens)
			if len(boxes) == 0 {
				boxes = matchColumns(words, term.Text)
			}
		}

		for _, box := range boxes {
			occ, err := domain.NewTermOccurrence(term, box, i)
			if err != nil {
				return nil, domain.NewProcessingError("locate", fmt.Errorf("page %d: %w", i, err))
			}
			occurrences = append(occurrences, occ)
		}
	}
	return dedupeOccurrences(occurrences), nil
}

func (e *LayoutEngine) Redact(doc []byte, occurrences []domain.TermOccurrence) ([]byte, error) {
	return rasterize(doc, occurrences, e.opts)
}

func (e *LayoutEngine) Validate(doc []byte) error {
	return validateTextDocument(doc)
}
