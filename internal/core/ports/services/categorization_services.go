package services

import (
	"context"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
)

// TransactionClassifier resolves a category for free text. Implementations
// must always return a usable result; transport failures degrade to a
// low-confidence default rather than an error.
type TransactionClassifier interface {
	Classify(ctx context.Context, text string) domain.ClassificationResult
}

// RemotePredictor wraps a single remote classification call (fast or deep
// model). Errors and timeouts are the caller's to recover from.
type RemotePredictor interface {
	Predict(ctx context.Context, text string) (domain.ClassificationResult, error)
}
