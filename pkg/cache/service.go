package cache

import "time"

// CacheService defines the behavior for caching mechanisms. The quote
// path uses it to hold the merchant's configuration snapshot between
// edits; invalidation is explicit, never implied by the engine.
type CacheService interface {
	// Get retrieves a value; the second return reports a hit.
	Get(key string) (interface{}, bool)

	// Set stores a value for the given duration.
	Set(key string, value interface{}, duration time.Duration)

	// Delete removes a value.
	Delete(key string)

	// Flush removes all items.
	Flush()
}
