package cache

import (
	"context"
	"sync"
	"time"

	"github.com/streetsmart-service/internal/domain/repository"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// sweepInterval - как часто Set вычищает протухшие ключи, которые никто не читает
const sweepInterval = time.Minute

// memoryCache - кеш в памяти процесса, используется по умолчанию
type memoryCache struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryCache() repository.CacheRepository {
	return newMemoryCache(time.Now)
}

func newMemoryCache(now func() time.Time) *memoryCache {
	return &memoryCache{
		entries:   make(map[string]memoryEntry),
		now:       now,
		nextSweep: now().Add(sweepInterval),
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, nil
	}

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set с ttl <= 0 хранит значение без срока годности
func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	now := c.now()
	entry := memoryEntry{value: stored}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	c.mu.Lock()
	if !now.Before(c.nextSweep) {
		c.purgeExpired(now)
		c.nextSweep = now.Add(sweepInterval)
	}
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// purgeExpired вызывается под c.mu
func (c *memoryCache) purgeExpired(now time.Time) {
	for key, entry := range c.entries {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}
