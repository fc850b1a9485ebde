package cache

import "time"

// Cache stores serialized product listings keyed by category.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
}
