package domain

// ClassificationSource identifies which layer of the categorization
// cascade produced a result.
type ClassificationSource string

const (
	SourceCache       ClassificationSource = "cache"
	SourceRules       ClassificationSource = "rules"
	SourceMLAPI       ClassificationSource = "ml_api"
	SourceLLMFallback ClassificationSource = "llm_fallback"
	SourceDefault     ClassificationSource = "default"
)

// ClassificationResult is the ephemeral outcome of classifying a
// transaction description. It is never persisted as its own entity.
type ClassificationResult struct {
	Category   string               `json:"category"`
	Confidence float64              `json:"confidence"` // in [0,1]
	Source     ClassificationSource `json:"source"`
}

// IsConclusive reports whether the result carries a usable category.
func (r ClassificationResult) IsConclusive() bool {
	return r.Category != "" && r.Source != SourceDefault
}
