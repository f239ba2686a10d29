// Package domain holds the business entities for PDF redaction.
// Entities are pure values with no dependency on engines or storage.
package domain

import (
	"fmt"
	"strings"
)

// ProcessingStatus is the outcome of locating a single term.
type ProcessingStatus string

const (
	StatusFound    ProcessingStatus = "found"
	StatusNotFound ProcessingStatus = "not_found"
	StatusError    ProcessingStatus = "error"
)

// Term is a piece of text to be redacted. Matching is case-insensitive
// everywhere, so two terms differing only in case identify the same target.
type Term struct {
	Text string `json:"text"`
}

// NewTerm validates and creates a Term.
func NewTerm(text string) (Term, error) {
	if strings.TrimSpace(text) == "" {
		return Term{}, &ValidationError{Reason: "term text cannot be empty"}
	}
	return Term{Text: text}, nil
}

// Is reports whether the term designates the given text, case-insensitively.
func (t Term) Is(text string) bool {
	return strings.EqualFold(t.Text, text)
}

// Position is an axis-aligned rectangle in normalized document coordinates:
// origin at the top-left of the page, y increasing downward, units are PDF
// points at the document's native scale. Adapters convert from their engine's
// native convention before constructing a Position; the conversion never
// leaks past the adapter.
type Position struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// NewPosition validates and creates a Position.
func NewPosition(x0, y0, x1, y1 float64) (Position, error) {
	if x0 > x1 || y0 > y1 {
		return Position{}, fmt.Errorf("invalid position coordinates (%.2f,%.2f,%.2f,%.2f)", x0, y0, x1, y1)
	}
	return Position{X0: x0, Y0: y0, X1: x1, Y1: y1}, nil
}

// Width returns the horizontal extent of the rectangle.
func (p Position) Width() float64 { return p.X1 - p.X0 }

// Height returns the vertical extent of the rectangle.
func (p Position) Height() float64 { return p.Y1 - p.Y0 }

// TermOccurrence is one located instance of a term on a page.
type TermOccurrence struct {
	Term       Term     `json:"term"`
	Position   Position `json:"position"`
	PageNumber int      `json:"page_number"` // 1-based
}

// NewTermOccurrence validates and creates a TermOccurrence.
func NewTermOccurrence(term Term, pos Position, pageNumber int) (TermOccurrence, error) {
	if pageNumber < 1 {
		return TermOccurrence{}, fmt.Errorf("page number must be positive, got %d", pageNumber)
	}
	return TermOccurrence{Term: term, Position: pos, PageNumber: pageNumber}, nil
}

// Document is an opaque handle to document content, resolved by the storage
// layer. Documents are only ever read, never mutated in place.
type Document struct {
	Path string `json:"path"`
}

// NewDocument validates and creates a Document handle.
func NewDocument(path string) (Document, error) {
	if strings.TrimSpace(path) == "" {
		return Document{}, &ValidationError{Reason: "document path cannot be empty"}
	}
	return Document{Path: path}, nil
}

// TermResult is the per-term outcome of a redaction run.
type TermResult struct {
	Term        Term             `json:"term"`
	Status      ProcessingStatus `json:"status"`
	Occurrences []TermOccurrence `json:"occurrences"`
	Message     string           `json:"message"`
}

// OccurrencesCount returns the number of occurrences found for the term.
func (r TermResult) OccurrencesCount() int { return len(r.Occurrences) }

// WasFound reports whether the term was located at least once.
func (r TermResult) WasFound() bool {
	return r.Status == StatusFound && len(r.Occurrences) > 0
}

// ObfuscationResult is the overall outcome of a redaction run. It is built
// exclusively by the orchestrator's success/failure factories so that the
// aggregate counts always agree with the per-term results.
type ObfuscationResult struct {
	Success                    bool         `json:"success"`
	OutputDocument             *Document    `json:"output_document,omitempty"`
	TermResults                []TermResult `json:"term_results"`
	TotalTermsProcessed        int          `json:"total_terms_processed"`
	TotalOccurrencesObfuscated int          `json:"total_occurrences_obfuscated"`
	Message                    string       `json:"message"`
	Error                      string       `json:"error,omitempty"`
}

// HasErrors reports whether the run failed or carries an error message.
func (r ObfuscationResult) HasErrors() bool {
	return !r.Success || r.Error != ""
}

// FoundTermResults returns the subset of term results with occurrences.
func (r ObfuscationResult) FoundTermResults() []TermResult {
	var found []TermResult
	for _, tr := range r.TermResults {
		if tr.WasFound() {
			found = append(found, tr)
		}
	}
	return found
}

// QualityMetrics holds the three independent redaction-quality scores plus
// the weighted overall score, all in [0,1]. OverallScore is always derived
// from the other three; it is never set independently.
type QualityMetrics struct {
	CompletenessScore    float64        `json:"completeness_score"`
	PrecisionScore       float64        `json:"precision_score"`
	VisualIntegrityScore float64        `json:"visual_integrity_score"`
	OverallScore         float64        `json:"overall_score"`
	NonObfuscatedTerms   []string       `json:"non_obfuscated_terms"`
	FalsePositiveTerms   []string       `json:"false_positive_terms"`
	Details              map[string]any `json:"details,omitempty"`
}

// QualityReport is the immutable result of one quality evaluation.
type QualityReport struct {
	ID                     string         `json:"id"`
	OriginalDocumentPath   string         `json:"original_document_path"`
	ObfuscatedDocumentPath string         `json:"obfuscated_document_path"`
	TermsToObfuscate       []string       `json:"terms_to_obfuscate"`
	EngineUsed             string         `json:"engine_used"`
	Metrics                QualityMetrics `json:"metrics"`
	Timestamp              string         `json:"timestamp"`
}
