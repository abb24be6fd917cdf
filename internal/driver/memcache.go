package driver

import (
	"sync"

	"linkdiag/internal/diag"
)

// MemCache is a per-process cache of classification results, keyed by
// parser and content hash. Logs with identical content are classified once.
type MemCache struct {
	mu    sync.RWMutex
	byKey map[CacheKey][]diag.Diagnostic
}

// NewMemCache creates a MemCache with the given capacity hint.
func NewMemCache(capHint int) *MemCache {
	return &MemCache{byKey: make(map[CacheKey][]diag.Diagnostic, capHint)}
}

// Get returns the diagnostics stored under key. Callers must not modify them.
func (c *MemCache) Get(key CacheKey) ([]diag.Diagnostic, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	diags, ok := c.byKey[key]
	c.mu.RUnlock()
	return diags, ok
}

// Put stores diags under key, replacing any previous entry.
func (c *MemCache) Put(key CacheKey, diags []diag.Diagnostic) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.byKey[key] = diags
	c.mu.Unlock()
}

// Len returns the number of entries.
func (c *MemCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}
