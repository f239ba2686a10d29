package quality

import (
	"math"
	"sort"
	"strings"
)

// Completeness and precision dominate the overall score equally; visual
// integrity is a sanity check worth a tenth.
const (
	completenessWeight    = 0.45
	precisionWeight       = 0.45
	visualIntegrityWeight = 0.10
)

// CompletenessResult reports how many of the target terms actually
// disappeared from the redacted document.
type CompletenessResult struct {
	Score                  float64  `json:"score"`
	TotalTermsFound        int      `json:"total_terms_found"`
	SuccessfullyObfuscated int      `json:"successfully_obfuscated"`
	FoundTerms             []string `json:"found_terms"`
	RemainingTerms         []string `json:"remaining_terms"`
}

// EvaluateCompleteness checks each term for case-insensitive presence in
// both texts. Terms absent from the original are ignored; a document
// where no term was present at all scores a vacuous 1.0.
func EvaluateCompleteness(originalText, redactedText string, terms []string) CompletenessResult {
	found := findTermsInText(originalText, terms)
	remaining := findTermsInText(redactedText, terms)

	result := CompletenessResult{
		TotalTermsFound:        len(found),
		SuccessfullyObfuscated: len(found) - len(remaining),
		FoundTerms:             found,
		RemainingTerms:         remaining,
	}
	if len(found) == 0 {
		result.Score = 1.0
	} else {
		result.Score = float64(result.SuccessfullyObfuscated) / float64(len(found))
	}
	return result
}

func findTermsInText(text string, terms []string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			found = append(found, term)
		}
	}
	return found
}

// PrecisionResult reports how much text beyond the target terms was lost.
type PrecisionResult struct {
	Score              float64  `json:"score"`
	TotalOriginalWords int      `json:"total_original_words"`
	MissingWords       []string `json:"missing_words"`
	FalsePositives     []string `json:"false_positives"`
	TargetedTermsFound []string `json:"targeted_terms_found"`
}

// EvaluatePrecision diffs the word multisets of both texts. Both sides
// are tokenized and sorted first, so OCR reading-order differences do not
// count as lost words. Each missing word is then attributed either to a
// target term or counted as a false positive; the score is the fraction
// of original words that were not lost collaterally.
func EvaluatePrecision(originalText, redactedText string, terms []string) PrecisionResult {
	originalWords := tokenize(originalText)
	redactedWords := tokenize(redactedText)

	sort.Strings(originalWords)
	sort.Strings(redactedWords)

	// Multiset difference: every original word consumes at most one
	// instance from the redacted side.
	remaining := make(map[string]int, len(redactedWords))
	for _, w := range redactedWords {
		remaining[w]++
	}
	var missing []string
	for _, w := range originalWords {
		if remaining[w] > 0 {
			remaining[w]--
		} else {
			missing = append(missing, w)
		}
	}

	targets := make([]termTarget, 0, len(terms))
	for _, term := range terms {
		targets = append(targets, newTermTarget(term))
	}

	result := PrecisionResult{TotalOriginalWords: len(originalWords), MissingWords: missing}
	for _, w := range missing {
		if isObfuscationTarget(w, targets) {
			result.TargetedTermsFound = append(result.TargetedTermsFound, w)
		} else {
			result.FalsePositives = append(result.FalsePositives, w)
		}
	}

	if len(originalWords) == 0 {
		result.Score = 1.0
	} else {
		result.Score = round3(1 - float64(len(result.FalsePositives))/float64(len(originalWords)))
	}
	return result
}

type termTarget struct {
	term   string
	tokens []string
}

func newTermTarget(term string) termTarget {
	normalized := strings.ToLower(normalizeText(term))
	t := termTarget{term: normalized}
	if strings.Contains(normalized, " ") {
		for _, tok := range strings.Fields(normalized) {
			t.tokens = append(t.tokens, tok)
		}
	} else {
		t.tokens = []string{normalized}
	}
	return t
}

// isObfuscationTarget decides whether a missing word is explained by one
// of the target terms: an exact match, one token of a multi-word term, or
// a significant substring of the term (emails and compound names lose
// fragments when the box is painted).
func isObfuscationTarget(missingWord string, targets []termTarget) bool {
	normalized := normalizeText(missingWord)
	for _, t := range targets {
		if normalized == t.term {
			return true
		}
		if len(t.tokens) > 1 {
			for _, tok := range t.tokens {
				if normalized == tok {
					return true
				}
			}
			continue
		}
		if len([]rune(normalized)) >= 2 && strings.Contains(t.term, normalized) {
			return true
		}
	}
	return false
}

// VisualIntegrityResult reports whether the redacted document kept the
// original's structure.
type VisualIntegrityResult struct {
	Score          float64 `json:"score"`
	PageCountMatch bool    `json:"page_count_match"`
	OriginalPages  int     `json:"original_pages"`
	RedactedPages  int     `json:"redacted_pages"`
}

// EvaluateVisualIntegrity compares page counts. The flatten pipeline
// reassembles the document page by page, so a count mismatch means pages
// were lost or duplicated.
func EvaluateVisualIntegrity(originalPages, redactedPages int) VisualIntegrityResult {
	result := VisualIntegrityResult{
		OriginalPages:  originalPages,
		RedactedPages:  redactedPages,
		PageCountMatch: originalPages == redactedPages,
	}
	if result.PageCountMatch {
		result.Score = 1.0
	}
	return result
}

// OverallScore combines the three metrics with their fixed weights.
func OverallScore(completeness, precision, visualIntegrity float64) float64 {
	return round3(completeness*completenessWeight +
		precision*precisionWeight +
		visualIntegrity*visualIntegrityWeight)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
