package quality

import (
	"strings"
	"testing"
)

func TestEvaluateCompleteness(t *testing.T) {
	original := "Contract between John Smith and Acme Corp, signed by John Smith."
	redacted := "Contract between [] and Acme Corp, signed by []."

	result := EvaluateCompleteness(original, redacted, []string{"John Smith", "Acme Corp", "unlisted"})
	if result.TotalTermsFound != 2 {
		t.Errorf("TotalTermsFound = %d, want 2", result.TotalTermsFound)
	}
	// "Acme Corp" survived, "John Smith" is gone.
	if result.Score != 0.5 {
		t.Errorf("Score = %v, want 0.5", result.Score)
	}
	if len(result.RemainingTerms) != 1 || result.RemainingTerms[0] != "Acme Corp" {
		t.Errorf("RemainingTerms = %v", result.RemainingTerms)
	}
}

func TestEvaluateCompletenessVacuous(t *testing.T) {
	result := EvaluateCompleteness("nothing to see here", "nothing to see here", []string{"absent"})
	if result.Score != 1.0 {
		t.Errorf("terms absent from the original should score 1.0, got %v", result.Score)
	}
	if result.TotalTermsFound != 0 {
		t.Errorf("TotalTermsFound = %d, want 0", result.TotalTermsFound)
	}
}

func TestEvaluateCompletenessCaseInsensitive(t *testing.T) {
	result := EvaluateCompleteness("CONFIDENTIAL report", "report", []string{"confidential"})
	if result.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", result.Score)
	}
}

func TestEvaluatePrecisionNoCollateralLoss(t *testing.T) {
	original := "Patient Jane Doe was admitted on Monday"
	redacted := "Patient was admitted on Monday"

	result := EvaluatePrecision(original, redacted, []string{"Jane Doe"})
	if result.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", result.Score)
	}
	if len(result.FalsePositives) != 0 {
		t.Errorf("FalsePositives = %v, want none", result.FalsePositives)
	}
	// Both tokens of the multi-word term are attributed to it.
	if len(result.TargetedTermsFound) != 2 {
		t.Errorf("TargetedTermsFound = %v, want 2 entries", result.TargetedTermsFound)
	}
}

func TestEvaluatePrecisionCountsFalsePositives(t *testing.T) {
	original := "one two three four five six seven eight nine ten"
	redacted := "one two three four five six seven"

	result := EvaluatePrecision(original, redacted, []string{"ten"})
	// "eight" and "nine" were lost without being targets: 1 - 2/10.
	if result.Score != 0.8 {
		t.Errorf("Score = %v, want 0.8", result.Score)
	}
	if len(result.FalsePositives) != 2 {
		t.Errorf("FalsePositives = %v, want 2", result.FalsePositives)
	}
}

func TestEvaluatePrecisionOrderInsensitive(t *testing.T) {
	// Same words, different OCR reading order: a multiset diff must see
	// no difference at all.
	original := "alpha beta gamma delta"
	redacted := "delta gamma beta alpha"

	result := EvaluatePrecision(original, redacted, nil)
	if result.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", result.Score)
	}
	if len(result.MissingWords) != 0 {
		t.Errorf("MissingWords = %v, want none", result.MissingWords)
	}
}

func TestEvaluatePrecisionMultisetNotSet(t *testing.T) {
	// The word "twice" appears twice in the original and once in the
	// redacted text; exactly one instance is missing.
	original := "twice twice other"
	redacted := "twice other"

	result := EvaluatePrecision(original, redacted, nil)
	if len(result.MissingWords) != 1 || result.MissingWords[0] != "twice" {
		t.Errorf("MissingWords = %v, want one instance of twice", result.MissingWords)
	}
}

func TestEvaluatePrecisionSubstringAttribution(t *testing.T) {
	// OCR splits "john.doe@example.com" at the painted box: fragments of
	// the term are not false positives.
	original := "contact john.doe@example.com for details"
	redacted := "contact for details"

	result := EvaluatePrecision(original, redacted, []string{"john.doe@example.com"})
	if len(result.FalsePositives) != 0 {
		t.Errorf("term fragments counted as false positives: %v", result.FalsePositives)
	}
	if result.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0", result.Score)
	}
}

func TestEvaluatePrecisionSupersetWordIsFalsePositive(t *testing.T) {
	// "does" contains the target "Doe" but is not a substring of it, so
	// losing it is collateral damage, not an intentional redaction.
	original := "Doe does the paperwork"
	redacted := "the paperwork"

	result := EvaluatePrecision(original, redacted, []string{"Doe"})
	if len(result.FalsePositives) != 1 || result.FalsePositives[0] != "does" {
		t.Errorf("FalsePositives = %v, want [does]", result.FalsePositives)
	}
	if len(result.TargetedTermsFound) != 1 || result.TargetedTermsFound[0] != "doe" {
		t.Errorf("TargetedTermsFound = %v, want [doe]", result.TargetedTermsFound)
	}
	if result.Score != 0.75 {
		t.Errorf("Score = %v, want 0.75", result.Score)
	}
}

func TestEvaluatePrecisionShortFragmentNotAttributed(t *testing.T) {
	// A single lost character is too short to attribute to a term.
	original := "x remains here"
	redacted := "remains here"

	result := EvaluatePrecision(original, redacted, []string{"exam"})
	if len(result.FalsePositives) != 1 {
		t.Errorf("one-rune fragment should be a false positive, got %v", result.FalsePositives)
	}
}

func TestEvaluatePrecisionPunctuationAndQuotes(t *testing.T) {
	// Curly apostrophes and edge punctuation come from OCR variance, not
	// from redaction.
	original := "it’s (important), really."
	redacted := "it's important really"

	result := EvaluatePrecision(original, redacted, nil)
	if result.Score != 1.0 {
		t.Errorf("Score = %v, want 1.0; missing: %v", result.Score, result.MissingWords)
	}
}

func TestEvaluatePrecisionAccentNormalization(t *testing.T) {
	result := EvaluatePrecision("résumé attached", "resume attached", nil)
	if result.Score != 1.0 {
		t.Errorf("accented and plain forms should match, got %v (missing %v)",
			result.Score, result.MissingWords)
	}
}

func TestEvaluatePrecisionVacuous(t *testing.T) {
	result := EvaluatePrecision("", "", nil)
	if result.Score != 1.0 {
		t.Errorf("empty original should score 1.0, got %v", result.Score)
	}
}

func TestEvaluateVisualIntegrity(t *testing.T) {
	match := EvaluateVisualIntegrity(3, 3)
	if match.Score != 1.0 || !match.PageCountMatch {
		t.Errorf("matching page counts should score 1.0, got %+v", match)
	}

	mismatch := EvaluateVisualIntegrity(3, 2)
	if mismatch.Score != 0.0 || mismatch.PageCountMatch {
		t.Errorf("page loss should score 0.0, got %+v", mismatch)
	}
}

func TestOverallScoreWeights(t *testing.T) {
	if got := OverallScore(1, 1, 1); got != 1.0 {
		t.Errorf("OverallScore(1,1,1) = %v", got)
	}
	// 0.8*0.45 + 0.9*0.45 + 1.0*0.10 = 0.865
	if got := OverallScore(0.8, 0.9, 1.0); got != 0.865 {
		t.Errorf("OverallScore = %v, want 0.865", got)
	}
	if got := OverallScore(0, 0, 0); got != 0.0 {
		t.Errorf("OverallScore(0,0,0) = %v", got)
	}
}

func TestRound3(t *testing.T) {
	if got := round3(0.8654999); got != 0.865 {
		t.Errorf("round3 = %v", got)
	}
	if got := round3(1.0/3.0); got != 0.333 {
		t.Errorf("round3 = %v", got)
	}
}

func TestBuildReport(t *testing.T) {
	completeness := EvaluateCompleteness("secret data", "data", []string{"secret"})
	precision := EvaluatePrecision("secret data", "data", []string{"secret"})
	visual := EvaluateVisualIntegrity(1, 1)

	report := BuildReport("a.pdf", "a_redacted.pdf", []string{"secret"}, "glyph",
		completeness, precision, visual)

	if report.ID == "" {
		t.Error("report should carry a unique ID")
	}
	if report.EngineUsed != "glyph" {
		t.Errorf("EngineUsed = %q", report.EngineUsed)
	}
	want := OverallScore(completeness.Score, precision.Score, visual.Score)
	if report.Metrics.OverallScore != want {
		t.Errorf("OverallScore = %v, want %v", report.Metrics.OverallScore, want)
	}
	if !strings.Contains(report.Timestamp, "T") {
		t.Errorf("timestamp %q is not RFC3339", report.Timestamp)
	}
}

func TestTokenize(t *testing.T) {
	words := tokenize("Hello, (World)! ... “quoted”")
	want := []string{"hello", "world", "quoted"}
	if len(words) != len(want) {
		t.Fatalf("tokenize = %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("tokenize[%d] = %q, want %q", i, words[i], want[i])
		}
	}
}
