package categorization_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/categorization"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cena con amigos", categorization.Normalize("  Cena   CON amigos "))
	assert.Equal(t, "", categorization.Normalize("   "))
	assert.Equal(t, categorization.Normalize("Uber al aeropuerto"), categorization.Normalize("uber  al  AEROPUERTO"))
}

func TestResultCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache, err := categorization.NewResultCache(2)
	require.NoError(t, err)

	food := domain.ClassificationResult{Category: "Food & Dining", Confidence: 0.9, Source: domain.SourceRules}
	transport := domain.ClassificationResult{Category: "Transport", Confidence: 0.9, Source: domain.SourceRules}
	health := domain.ClassificationResult{Category: "Health", Confidence: 0.8, Source: domain.SourceMLAPI}

	cache.Set("cena", food)
	cache.Set("uber", transport)

	// Touch "cena" so "uber" is the eviction candidate.
	_, ok := cache.Get("cena")
	require.True(t, ok)

	cache.Set("farmacia", health)

	_, ok = cache.Get("uber")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = cache.Get("cena")
	assert.True(t, ok)
	_, ok = cache.Get("farmacia")
	assert.True(t, ok)
	assert.Equal(t, 2, cache.Len())
}

func TestResultCacheDefaultCapacity(t *testing.T) {
	cache, err := categorization.NewResultCache(0)
	require.NoError(t, err)
	cache.Set("x", domain.ClassificationResult{Category: "Other"})
	got, ok := cache.Get("x")
	require.True(t, ok)
	assert.Equal(t, "Other", got.Category)
}
