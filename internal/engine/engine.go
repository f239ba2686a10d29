// Package engine implements the redaction engines.
//
// Every engine reports term positions in a single coordinate convention:
// origin at the top-left corner of the page, y growing downward, units in
// PDF points (1/72 inch). Engines that work in other spaces (bottom-left
// origins, raster pixels) convert before returning positions.
package engine

import (
	"fmt"
	"sort"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

// Processor locates terms in a PDF document and produces a redacted copy.
type Processor interface {
	// Locate returns every occurrence of term in the document. A term
	// that appears nowhere yields an empty slice and a nil error.
	Locate(doc []byte, term domain.Term) ([]domain.TermOccurrence, error)
	// Redact renders each page to an image, paints the occurrence boxes
	// black and reassembles the result as a new PDF. The returned bytes
	// never alias the input document.
	Redact(doc []byte, occurrences []domain.TermOccurrence) ([]byte, error)
	// Validate reports whether the engine can open and process the
	// document. The document is never modified.
	Validate(doc []byte) error
	// Info describes the engine.
	Info() EngineInfo
}

// EngineInfo describes a redaction engine for listings and reports.
type EngineInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Options tunes the raster stage shared by all engines and the OCR
// engine's language model.
type Options struct {
	RenderDPI   float64
	JPEGQuality int
	OCRLanguage string
}

// DefaultOptions returns the standard raster settings.
func DefaultOptions() Options {
	return Options{RenderDPI: 200, JPEGQuality: 95, OCRLanguage: "eng"}
}

func (o Options) withDefaults() Options {
	if o.RenderDPI <= 0 {
		o.RenderDPI = 200
	}
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = 95
	}
	if o.OCRLanguage == "" {
		o.OCRLanguage = "eng"
	}
	return o
}

// Registry holds the fixed set of available engines. The set is closed:
// engines are registered at construction and never added afterwards.
type Registry struct {
	engines map[string]Processor
}

// NewRegistry builds the registry with all supported engines.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		engines: map[string]Processor{
			"glyph":  NewGlyphEngine(opts),
			"layout": NewLayoutEngine(opts),
			"ocr":    NewOCREngine(opts),
		},
	}
}

// Get returns the named engine.
func (r *Registry) Get(name string) (Processor, error) {
	p, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("unsupported engine %q (available: %v)", name, r.Names())
	}
	return p, nil
}

// Names lists the registered engine names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Infos lists the registered engine descriptions sorted by name.
func (r *Registry) Infos() []EngineInfo {
	infos := make([]EngineInfo, 0, len(r.engines))
	for _, name := range r.Names() {
		infos = append(infos, r.engines[name].Info())
	}
	return infos
}
