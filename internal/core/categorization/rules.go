package categorization

import (
	"strings"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
)

// ruleConfidence is the confidence assigned to keyword hits. Rules are
// either very right or not invoked at all.
const ruleConfidence = 0.9

// defaultKeywordRules maps keywords (lowercase, single words) to categories.
// Keywords cover the Spanish/English mix the assistant's users actually type.
var defaultKeywordRules = map[string]string{
	// Transport
	"uber": "Transport", "taxi": "Transport", "bus": "Transport",
	"gasolina": "Transport", "metro": "Transport", "didi": "Transport",
	"peaje": "Transport", "parqueadero": "Transport",

	// Food & dining
	"cena": "Food & Dining", "almuerzo": "Food & Dining", "desayuno": "Food & Dining",
	"restaurante": "Food & Dining", "cafe": "Food & Dining", "pizza": "Food & Dining",
	"hamburguesa": "Food & Dining", "domicilio": "Food & Dining", "rappi": "Food & Dining",

	// Groceries
	"mercado": "Groceries", "supermercado": "Groceries", "verduras": "Groceries",
	"fruver": "Groceries", "tienda": "Groceries",

	// Entertainment
	"netflix": "Entertainment", "spotify": "Entertainment", "cine": "Entertainment",
	"concierto": "Entertainment", "videojuego": "Entertainment",

	// Health
	"farmacia": "Health", "medico": "Health", "eps": "Health", "drogueria": "Health",

	// Utilities & housing
	"arriendo": "Housing", "luz": "Utilities", "agua": "Utilities",
	"internet": "Utilities", "celular": "Utilities", "gas": "Utilities",

	// Income-ish descriptions still get an expense-side bucket; the
	// transaction type decides the category namespace downstream.
	"salario": "Salary", "nomina": "Salary", "sueldo": "Salary",
}

// RuleClassifier is the deterministic keyword layer of the cascade.
type RuleClassifier struct {
	keywords map[string]string
}

// NewRuleClassifier builds a classifier over the given keyword dictionary,
// falling back to the built-in rules when nil.
func NewRuleClassifier(keywords map[string]string) *RuleClassifier {
	if keywords == nil {
		keywords = defaultKeywordRules
	}
	return &RuleClassifier{keywords: keywords}
}

// Predict scans the text for known keywords using word-boundary matching.
// The zero result is returned when no keyword fires.
func (r *RuleClassifier) Predict(text string) domain.ClassificationResult {
	for _, word := range strings.Fields(Normalize(text)) {
		word = strings.Trim(word, ".,;:!?¿¡()\"'")
		if category, ok := r.keywords[word]; ok {
			return domain.ClassificationResult{
				Category:   category,
				Confidence: ruleConfidence,
				Source:     domain.SourceRules,
			}
		}
	}
	return domain.ClassificationResult{}
}
