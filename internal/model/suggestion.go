package model

// Suggestion is the organization recommendation for one file. It is
// produced exactly once per FileRecord, either from the inference
// backend or from the documented degradation path, and never mutated
// afterwards.
type Suggestion struct {
	SuggestedName      string   `json:"suggested_name"`
	SuggestedCategory  string   `json:"suggested_category"` // raw AI output, pre-normalization
	NormalizedCategory string   `json:"normalized_category"`
	Reasoning          string   `json:"reasoning"`
	SuggestedTags      []string `json:"suggested_tags"`
	Confidence         float64  `json:"confidence"`
}

// IsDegraded reports whether the suggestion came from the fallback path
// rather than a parsed inference response.
func (s *Suggestion) IsDegraded() bool {
	return s.Reasoning == DefaultReasoning
}

// DefaultReasoning is the reasoning string attached to every degraded
// suggestion. Callers rely on this exact value to detect fallbacks.
const DefaultReasoning = "Default suggestion (AI unavailable)"

// DefaultConfidence is the confidence score of a degraded suggestion.
const DefaultConfidence = 0.3
