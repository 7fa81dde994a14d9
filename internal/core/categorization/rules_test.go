package categorization_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/categorization"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
)

func TestRuleClassifierPredict(t *testing.T) {
	rc := categorization.NewRuleClassifier(nil)

	tests := []struct {
		name     string
		text     string
		category string
	}{
		{"spanish keyword", "pague la cena de anoche", "Food & Dining"},
		{"brand keyword", "uber al trabajo", "Transport"},
		{"case insensitive", "NETFLIX del mes", "Entertainment"},
		{"keyword with punctuation", "el arriendo, como siempre", "Housing"},
		{"salary keyword", "me llego la nomina", "Salary"},
		{"no keyword", "cosas varias del dia", ""},
		{"substring is not a word match", "taxista de confianza", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := rc.Predict(tt.text)
			assert.Equal(t, tt.category, result.Category)
			if tt.category != "" {
				assert.Equal(t, domain.SourceRules, result.Source)
				assert.InDelta(t, 0.9, result.Confidence, 0.0001)
			} else {
				assert.Zero(t, result.Confidence)
			}
		})
	}
}

func TestRuleClassifierCustomDictionary(t *testing.T) {
	rc := categorization.NewRuleClassifier(map[string]string{"gimnasio": "Health"})

	assert.Equal(t, "Health", rc.Predict("mensualidad del gimnasio").Category)
	// Built-in rules are replaced, not merged.
	assert.Empty(t, rc.Predict("uber al centro").Category)
}
