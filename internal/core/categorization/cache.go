package categorization

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/domain"
)

// DefaultCacheCapacity bounds the in-process classification cache.
const DefaultCacheCapacity = 1000

// Normalize canonicalizes free text for cache keying: lowercase, trimmed,
// inner whitespace collapsed. Equality is always on the normalized form.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// ResultCache is a bounded LRU map from normalized text to a prior
// classification result. It is process-local; a miss only costs an extra
// classification call, never a correctness violation.
type ResultCache struct {
	lru *lru.Cache[string, domain.ClassificationResult]
}

// NewResultCache creates a cache with the given capacity, falling back to
// DefaultCacheCapacity for non-positive values.
func NewResultCache(capacity int) (*ResultCache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c, err := lru.New[string, domain.ClassificationResult](capacity)
	if err != nil {
		return nil, err
	}
	return &ResultCache{lru: c}, nil
}

// Get returns the cached result for the normalized key and refreshes its
// recency.
func (c *ResultCache) Get(key string) (domain.ClassificationResult, bool) {
	return c.lru.Get(key)
}

// Set stores a result under the normalized key, evicting the least recently
// used entry once capacity is reached.
func (c *ResultCache) Set(key string, result domain.ClassificationResult) {
	c.lru.Add(key, result)
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}
