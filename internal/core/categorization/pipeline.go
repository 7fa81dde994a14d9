package categorization

import (
	"context"
	"log/slog"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
	portssvc "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/services"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/middleware"
)

// Confidence thresholds per layer. Rules are either very right or not
// invoked; the fast model is accepted above 0.7; the reasoning model is the
// last resort and accepted regardless of confidence.
const (
	RulesThreshold  = 0.8
	RemoteThreshold = 0.7
)

// Pipeline orchestrates the cascading classifier:
// cache -> rules -> remote fast -> remote reasoning -> default.
// Classify never fails; every input eventually receives a category.
type Pipeline struct {
	cache *ResultCache
	rules *RuleClassifier
	fast  portssvc.RemotePredictor
	deep  portssvc.RemotePredictor
}

// PipelineOption is a functional option for configuring the pipeline.
type PipelineOption func(*Pipeline)

// WithFastPredictor sets the ml_api layer.
func WithFastPredictor(p portssvc.RemotePredictor) PipelineOption {
	return func(pl *Pipeline) { pl.fast = p }
}

// WithReasoningPredictor sets the llm_fallback layer.
func WithReasoningPredictor(p portssvc.RemotePredictor) PipelineOption {
	return func(pl *Pipeline) { pl.deep = p }
}

// WithRules overrides the keyword dictionary.
func WithRules(rules *RuleClassifier) PipelineOption {
	return func(pl *Pipeline) { pl.rules = rules }
}

// NewPipeline creates a classification pipeline with a bounded cache.
// Remote layers are optional; a missing layer is simply skipped.
func NewPipeline(cacheCapacity int, options ...PipelineOption) (*Pipeline, error) {
	cache, err := NewResultCache(cacheCapacity)
	if err != nil {
		return nil, err
	}
	pl := &Pipeline{
		cache: cache,
		rules: NewRuleClassifier(nil),
	}
	for _, option := range options {
		option(pl)
	}
	return pl, nil
}

// Ensure Pipeline implements the classifier port.
var _ portssvc.TransactionClassifier = (*Pipeline)(nil)

// Classify resolves a category for the text, trying each layer only when
// the previous one is inconclusive. Accepted non-cache results are written
// back to the cache keyed by normalized text.
func (p *Pipeline) Classify(ctx context.Context, text string) domain.ClassificationResult {
	logger := middleware.GetLoggerFromCtx(ctx)
	key := Normalize(text)
	if key == "" {
		return defaultResult()
	}

	if cached, ok := p.cache.Get(key); ok {
		logger.Debug("Classification cache hit", slog.String("key", key))
		return domain.ClassificationResult{
			Category:   cached.Category,
			Confidence: cached.Confidence,
			Source:     domain.SourceCache,
		}
	}

	if result := p.rules.Predict(text); result.Confidence >= RulesThreshold {
		p.cache.Set(key, result)
		return result
	}

	if p.fast != nil {
		result, err := p.fast.Predict(ctx, text)
		switch {
		case err != nil:
			// Network and timeout errors are inconclusive, not fatal.
			logger.Warn("Fast classifier failed, falling through", slog.String("error", err.Error()))
		case result.Confidence >= RemoteThreshold:
			p.cache.Set(key, result)
			return result
		default:
			logger.Debug("Fast classifier below threshold",
				slog.String("category", result.Category),
				slog.Float64("confidence", result.Confidence))
		}
	}

	if p.deep != nil {
		result, err := p.deep.Predict(ctx, text)
		if err != nil {
			logger.Warn("Reasoning classifier failed, using default", slog.String("error", err.Error()))
		} else if result.Category != "" {
			// Last resort: accepted regardless of confidence.
			p.cache.Set(key, result)
			return result
		}
	}

	return defaultResult()
}

func defaultResult() domain.ClassificationResult {
	return domain.ClassificationResult{
		Category:   domain.DefaultCategoryName,
		Confidence: 0,
		Source:     domain.SourceDefault,
	}
}
