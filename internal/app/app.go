// Package app wires configuration, storage, engines and evaluators into
// the two service entry points: redaction and quality evaluation.
package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/docshield/pdf-redaction-service/internal/domain"
	"github.com/docshield/pdf-redaction-service/internal/engine"
	"github.com/docshield/pdf-redaction-service/internal/models"
	"github.com/docshield/pdf-redaction-service/internal/quality"
	"github.com/docshield/pdf-redaction-service/internal/redact"
	"github.com/docshield/pdf-redaction-service/internal/storage"
	"github.com/docshield/pdf-redaction-service/internal/textextract"
)

// Application is the composed service.
type Application struct {
	config   *models.Config
	storage  storage.FileStorage
	registry *engine.Registry
	redactor *redact.Service
}

// New builds the application from its configuration.
func New(config *models.Config) (*Application, error) {
	store, err := buildStorage(config)
	if err != nil {
		return nil, err
	}

	registry := engine.NewRegistry(engine.Options{
		RenderDPI:   config.Engine.RenderDPI,
		JPEGQuality: config.Engine.JPEGQuality,
		OCRLanguage: config.Quality.Language,
	})

	return &Application{
		config:   config,
		storage:  store,
		registry: registry,
		redactor: redact.NewService(store, registry, config),
	}, nil
}

func buildStorage(config *models.Config) (storage.FileStorage, error) {
	switch config.Storage.Backend {
	case "", "local":
		return storage.NewLocalStorage(config.Storage.BaseDir), nil
	case "s3":
		return storage.NewMinIOStorage(storage.MinIOConfig{
			Endpoint:  config.Storage.MinIOEndpoint,
			AccessKey: config.Storage.MinIOAccessKey,
			SecretKey: config.Storage.MinIOSecretKey,
			Bucket:    config.Storage.MinIOBucket,
			UseSSL:    config.Storage.MinIOUseSSL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", config.Storage.Backend)
	}
}

// RedactDocument runs one redaction job. All failures are reported inside
// the result.
func (a *Application) RedactDocument(ctx context.Context, req redact.Request) domain.ObfuscationResult {
	return a.redactor.RedactDocument(ctx, req)
}

// Engines lists the available redaction engines.
func (a *Application) Engines() []engine.EngineInfo {
	return a.registry.Infos()
}

// ValidateDocument checks that the document exists and can be opened by
// the selected engine, without redacting anything.
func (a *Application) ValidateDocument(ctx context.Context, path, engineName string) error {
	if strings.TrimSpace(path) == "" {
		return &domain.ValidationError{Reason: "document path is required"}
	}
	if engineName == "" {
		engineName = a.config.Engine.Default
	}
	processor, err := a.registry.Get(engineName)
	if err != nil {
		return &domain.ValidationError{Reason: err.Error()}
	}
	if !a.storage.Exists(ctx, path) {
		return &domain.StorageError{Path: path, Err: fmt.Errorf("document not found")}
	}
	doc, err := a.storage.Read(ctx, path)
	if err != nil {
		return err
	}
	return processor.Validate(doc)
}

// EvaluateQuality extracts the text of both documents once and scores the
// redaction on completeness, precision and visual integrity.
func (a *Application) EvaluateQuality(ctx context.Context, originalPath, redactedPath string, terms []string, engineUsed string) (*domain.QualityReport, error) {
	if strings.TrimSpace(originalPath) == "" || strings.TrimSpace(redactedPath) == "" {
		return nil, &domain.ValidationError{Reason: "both document paths are required"}
	}
	if len(terms) == 0 {
		return nil, &domain.ValidationError{Reason: "at least one term is required"}
	}
	for _, path := range []string{originalPath, redactedPath} {
		if !a.storage.Exists(ctx, path) {
			return nil, &domain.StorageError{Path: path, Err: fmt.Errorf("document not found")}
		}
	}

	extractor, err := a.buildExtractor()
	if err != nil {
		return nil, err
	}

	originalDoc, err := a.storage.Read(ctx, originalPath)
	if err != nil {
		return nil, err
	}
	redactedDoc, err := a.storage.Read(ctx, redactedPath)
	if err != nil {
		return nil, err
	}

	log.Printf("Evaluating %s against %s with extractor %s", redactedPath, originalPath, extractor.Name())

	original, err := extractor.Extract(ctx, originalDoc)
	if err != nil {
		return nil, domain.NewProcessingError("extract original", err)
	}

	redacted, annotation, err := extractRedacted(ctx, extractor, redactedDoc)
	if err != nil {
		return nil, domain.NewProcessingError("extract redacted", err)
	}

	completeness := quality.EvaluateCompleteness(original.Text, redacted.Text, terms)
	precision := quality.EvaluatePrecision(original.Text, redacted.Text, terms)
	visual := quality.EvaluateVisualIntegrity(original.PageCount, redacted.PageCount)

	report := quality.BuildReport(originalPath, redactedPath, terms, engineUsed,
		completeness, precision, visual)
	report.Metrics.Details["extractor"] = extractor.Name()
	if annotation != nil {
		report.Metrics.Details["annotation"] = annotation
	}
	return report, nil
}

// extractRedacted uses the annotated path when the extractor offers it;
// an annotation failure never fails the evaluation.
func extractRedacted(ctx context.Context, extractor textextract.TextExtractor, doc []byte) (*textextract.ExtractionResult, *textextract.QualityAnnotation, error) {
	if annotated, ok := extractor.(textextract.AnnotatedExtractor); ok {
		result, annotation, err := annotated.ExtractAnnotated(ctx, doc)
		if err == nil {
			return result, annotation, nil
		}
		log.Printf("Annotation failed, falling back to plain extraction: %v", err)
	}
	result, err := extractor.Extract(ctx, doc)
	return result, nil, err
}

func (a *Application) buildExtractor() (textextract.TextExtractor, error) {
	switch a.config.Quality.Extractor {
	case "", "tesseract":
		return textextract.NewTesseractExtractor(a.config.Quality.Language, a.config.Quality.OCRDPI), nil
	case "openai":
		if a.config.AI.OpenAI.APIKey == "" {
			return nil, &domain.ValidationError{Reason: "OpenAI API key is not configured"}
		}
		provider := textextract.NewOpenAIProvider(
			a.config.AI.OpenAI.APIKey,
			a.config.AI.OpenAI.BaseURL,
			a.config.AI.OpenAI.Model,
		)
		return textextract.NewAIExtractor(provider, a.config.Engine.RenderDPI), nil
	case "gemini":
		if a.config.AI.Gemini.APIKey == "" {
			return nil, &domain.ValidationError{Reason: "Gemini API key is not configured"}
		}
		provider := textextract.NewGeminiProvider(a.config.AI.Gemini.APIKey, a.config.AI.Gemini.Model)
		return textextract.NewAIExtractor(provider, a.config.Engine.RenderDPI), nil
	default:
		return nil, fmt.Errorf("unsupported quality extractor %q", a.config.Quality.Extractor)
	}
}
