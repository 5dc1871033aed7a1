package transport

import (
	"sync"

	"github.com/gregjones/httpcache"
)

// Compile-time interface satisfaction check.
var _ httpcache.Cache = (*resettableCache)(nil)

// resettableCache is an in-memory httpcache.Cache that can be emptied
// atomically while requests are in flight.
type resettableCache struct {
	mu    sync.RWMutex
	inner *httpcache.MemoryCache
}

func newResettableCache() *resettableCache {
	return &resettableCache{inner: httpcache.NewMemoryCache()}
}

func (c *resettableCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner.Get(key)
}

func (c *resettableCache) Set(key string, responseBytes []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.inner.Set(key, responseBytes)
}

func (c *resettableCache) Delete(key string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.inner.Delete(key)
}

// Reset swaps in an empty cache.
func (c *resettableCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner = httpcache.NewMemoryCache()
}
