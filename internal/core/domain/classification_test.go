package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
)

func TestClassificationResultIsConclusive(t *testing.T) {
	tests := []struct {
		name   string
		result domain.ClassificationResult
		want   bool
	}{
		{"cache hit", domain.ClassificationResult{Category: "Food & Dining", Confidence: 0.95, Source: domain.SourceCache}, true},
		{"rules hit", domain.ClassificationResult{Category: "Transport", Confidence: 0.8, Source: domain.SourceRules}, true},
		{"ml api hit", domain.ClassificationResult{Category: "Shopping", Confidence: 0.7, Source: domain.SourceMLAPI}, true},
		{"llm fallback hit", domain.ClassificationResult{Category: "Health", Confidence: 0.6, Source: domain.SourceLLMFallback}, true},
		{"default bucket", domain.ClassificationResult{Category: "Other", Confidence: 0, Source: domain.SourceDefault}, false},
		{"empty category", domain.ClassificationResult{Category: "", Source: domain.SourceRules}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.IsConclusive())
		})
	}
}
