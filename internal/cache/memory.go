package cache

import (
	"sync"
	"time"
)

// MemoryCache is a process-local Cache, used when no redis is configured
// and in tests.
type MemoryCache struct {
	mutex   sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (m *MemoryCache) Get(key string) (string, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.value, true
}

func (m *MemoryCache) Set(key string, value string, ttl time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}
