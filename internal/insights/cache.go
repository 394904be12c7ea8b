package insights

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
)

// Cache memoizes generated insight text by content hash, so identical
// summary payloads never trigger a second remote call. It holds no
// other state: callers own the cache and its lifetime.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewCache creates an empty insight cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Key derives the cache key of a payload: kind prefixing the SHA-256
// hash of its JSON form.
func Key(kind string, payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		// Payloads are plain structs; marshal cannot fail for them.
		data = []byte(err.Error())
	}
	sum := sha256.Sum256(data)
	return kind + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached text for key.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores text under key.
func (c *Cache) Set(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = text
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
