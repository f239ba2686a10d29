package quality

import (
	"time"

	"github.com/google/uuid"

	"github.com/docshield/pdf-redaction-service/internal/domain"
)

// BuildReport assembles the three evaluation results into a quality
// report. The overall score is always derived here so that report
// consumers never see inconsistent metrics.
func BuildReport(
	originalPath, redactedPath string,
	terms []string,
	engineUsed string,
	completeness CompletenessResult,
	precision PrecisionResult,
	visual VisualIntegrityResult,
) *domain.QualityReport {
	metrics := domain.QualityMetrics{
		CompletenessScore:    completeness.Score,
		PrecisionScore:       precision.Score,
		VisualIntegrityScore: visual.Score,
		OverallScore:         OverallScore(completeness.Score, precision.Score, visual.Score),
		NonObfuscatedTerms:   completeness.RemainingTerms,
		FalsePositiveTerms:   precision.FalsePositives,
		Details: map[string]any{
			"completeness":     completeness,
			"precision":        precision,
			"visual_integrity": visual,
		},
	}

	return &domain.QualityReport{
		ID:                     uuid.NewString(),
		OriginalDocumentPath:   originalPath,
		ObfuscatedDocumentPath: redactedPath,
		TermsToObfuscate:       terms,
		EngineUsed:             engineUsed,
		Metrics:                metrics,
		Timestamp:              time.Now().Format(time.RFC3339),
	}
}
