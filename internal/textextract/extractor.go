// Package textextract provides text extraction back-ends used by the
// quality evaluation: local Tesseract OCR and AI vision providers.
package textextract

import (
	"context"
	"time"
)

// ExtractionResult is the text recovered from one document.
type ExtractionResult struct {
	Text      string        `json:"text"`
	Pages     []PageText    `json:"pages"`
	PageCount int           `json:"page_count"`
	WordCount int           `json:"word_count"`
	Duration  time.Duration `json:"duration"`
}

// PageText is the text of a single page.
type PageText struct {
	PageNumber int    `json:"page_number"` // 1-based
	Text       string `json:"text"`
}

// TextExtractor recovers the readable text of a rendered document.
type TextExtractor interface {
	Extract(ctx context.Context, doc []byte) (*ExtractionResult, error)
	Name() string
}

// QualityAnnotation is an extractor's own assessment of a document,
// produced alongside the text by back-ends that support it.
type QualityAnnotation struct {
	TotalWords      int     `json:"total_words"`
	UniqueWords     int     `json:"unique_words"`
	DocumentType    string  `json:"document_type"`
	Language        string  `json:"language"`
	Summary         string  `json:"summary"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// AnnotatedExtractor is implemented by extractors that can also return a
// quality annotation for the document. Callers discover support with a
// type assertion; extraction itself never depends on it.
type AnnotatedExtractor interface {
	TextExtractor
	ExtractAnnotated(ctx context.Context, doc []byte) (*ExtractionResult, *QualityAnnotation, error)
}
