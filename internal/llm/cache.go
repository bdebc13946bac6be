package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type cacheEntry struct {
	expiry time.Time
	advice string
}

// adviceCache remembers generated advice per prompt so repeated requests over
// an unchanged ledger do not hit the provider again.
type adviceCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
	ttl     time.Duration
	mu      sync.RWMutex
}

func newAdviceCache(ttl time.Duration) *adviceCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &adviceCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(req Request) string {
	sum := sha256.Sum256([]byte(req.System + "\x00" + req.Prompt))
	return hex.EncodeToString(sum[:])
}

func (c *adviceCache) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expiry) {
		return "", false
	}
	return entry.advice, true
}

// set stores advice and evicts anything already expired.
func (c *adviceCache) set(key, advice string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiry) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{advice: advice, expiry: now.Add(c.ttl)}
}

func (c *adviceCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
