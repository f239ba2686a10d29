// Package redact orchestrates the redaction workflow: validation, term
// location, rasterization and persistence of the redacted document.
package redact

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/docshield/pdf-redaction-service/internal/domain"
	"github.com/docshield/pdf-redaction-service/internal/engine"
	"github.com/docshield/pdf-redaction-service/internal/models"
	"github.com/docshield/pdf-redaction-service/internal/storage"
)

// Request describes one redaction job.
type Request struct {
	SourcePath      string   `json:"source_path"`
	DestinationPath string   `json:"destination_path,omitempty"`
	Terms           []string `json:"terms"`
	Engine          string   `json:"engine,omitempty"`
}

// EngineRegistry resolves engine names to processors.
type EngineRegistry interface {
	Get(name string) (engine.Processor, error)
}

// Service runs redaction jobs against a storage backend.
type Service struct {
	storage       storage.FileStorage
	registry      EngineRegistry
	paths         models.PathsConfig
	defaultEngine string
}

func NewService(store storage.FileStorage, registry EngineRegistry, cfg *models.Config) *Service {
	return &Service{
		storage:       store,
		registry:      registry,
		paths:         cfg.Paths,
		defaultEngine: cfg.Engine.Default,
	}
}

// RedactDocument runs one job end to end. Failures of any kind are
// reported inside the result; the method never returns an error value.
func (s *Service) RedactDocument(ctx context.Context, req Request) domain.ObfuscationResult {
	engineName := req.Engine
	if engineName == "" {
		engineName = s.defaultEngine
	}

	if strings.TrimSpace(req.SourcePath) == "" {
		return failureResult("source document path is required", nil)
	}

	terms, err := parseTerms(req.Terms)
	if err != nil {
		return failureResult(err.Error(), nil)
	}

	processor, err := s.registry.Get(engineName)
	if err != nil {
		return failureResult(err.Error(), nil)
	}

	if !s.storage.Exists(ctx, req.SourcePath) {
		return failureResult(fmt.Sprintf("source document not found: %s", req.SourcePath), nil)
	}

	destination := req.DestinationPath
	if destination == "" {
		destination = s.defaultDestination(req.SourcePath)
	}
	if destination == req.SourcePath {
		return failureResult("destination must differ from the source document", nil)
	}

	docBytes, err := s.storage.Read(ctx, req.SourcePath)
	if err != nil {
		return failureResult(fmt.Sprintf("failed to read source document: %v", err), nil)
	}

	log.Printf("Redacting %s with engine %s (%d terms)", req.SourcePath, engineName, len(terms))

	var termResults []domain.TermResult
	var allOccurrences []domain.TermOccurrence
	for _, term := range terms {
		occurrences, err := processor.Locate(docBytes, term)
		if err != nil {
			termResults = append(termResults, domain.TermResult{
				Term:    term,
				Status:  domain.StatusError,
				Message: err.Error(),
			})
			continue
		}

		result := domain.TermResult{Term: term, Occurrences: occurrences}
		if len(occurrences) > 0 {
			result.Status = domain.StatusFound
		} else {
			result.Status = domain.StatusNotFound
		}
		termResults = append(termResults, result)
		allOccurrences = append(allOccurrences, occurrences...)
	}

	if len(allOccurrences) == 0 {
		for _, tr := range termResults {
			if tr.Status == domain.StatusError {
				return failureResult(fmt.Sprintf("term location failed: %s", tr.Message), termResults)
			}
		}
		return failureResult("no terms found in the document", termResults)
	}

	redacted, err := processor.Redact(docBytes, allOccurrences)
	if err != nil {
		return failureResult(fmt.Sprintf("redaction failed: %v", err), termResults)
	}

	if err := s.storage.Write(ctx, destination, redacted); err != nil {
		return failureResult(fmt.Sprintf("failed to write redacted document: %v", err), termResults)
	}

	outputDoc, err := domain.NewDocument(destination)
	if err != nil {
		return failureResult(err.Error(), termResults)
	}

	log.Printf("Redacted %d occurrence(s) of %d term(s) into %s",
		len(allOccurrences), len(terms), destination)

	return domain.ObfuscationResult{
		Success:                    true,
		OutputDocument:             &outputDoc,
		TermResults:                termResults,
		TotalTermsProcessed:        len(terms),
		TotalOccurrencesObfuscated: len(allOccurrences),
		Message:                    fmt.Sprintf("redacted %d occurrence(s) using %s", len(allOccurrences), engineName),
	}
}

// defaultDestination mirrors documents under the input directory into the
// output directory; anything else gets the redacted suffix next to the
// source.
func (s *Service) defaultDestination(source string) string {
	if s.paths.InputDir != "" && s.paths.OutputDir != "" {
		if rel, err := filepath.Rel(s.paths.InputDir, source); err == nil &&
			rel != "." && !strings.HasPrefix(rel, "..") {
			return filepath.Join(s.paths.OutputDir, rel)
		}
	}

	ext := filepath.Ext(source)
	stem := strings.TrimSuffix(source, ext)
	suffix := s.paths.OutputSuffix
	if suffix == "" {
		suffix = "_redacted.pdf"
	}
	return stem + suffix
}

func parseTerms(raw []string) ([]domain.Term, error) {
	var terms []domain.Term
	for _, text := range raw {
		if strings.TrimSpace(text) == "" {
			continue
		}
		term, err := domain.NewTerm(text)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("at least one non-empty term is required")
	}
	return terms, nil
}

func failureResult(message string, termResults []domain.TermResult) domain.ObfuscationResult {
	return domain.ObfuscationResult{
		Success:             false,
		TermResults:         termResults,
		TotalTermsProcessed: len(termResults),
		Message:             message,
		Error:               message,
	}
}
