package catalog

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

type cachedCase struct {
	version  string
	c        *domain.Case
	cachedAt time.Time
}

// caseCache is an LRU of normalized cases with a TTL. Cached cases are shared and must be
// treated as read-only.
type caseCache struct {
	lru *expirable.LRU[int64, *cachedCase]
}

func newCaseCache(size int, ttl time.Duration) *caseCache {
	return &caseCache{lru: expirable.NewLRU[int64, *cachedCase](size, nil, ttl)}
}

func (c *caseCache) Get(caseID int64) (*domain.Case, bool) {
	entry, ok := c.lru.Get(caseID)
	if !ok {
		return nil, false
	}
	if entry.version != CacheSchemaVersion {
		c.lru.Remove(caseID)
		return nil, false
	}
	return entry.c, true
}

func (c *caseCache) Set(cs *domain.Case) {
	c.lru.Add(cs.ID, &cachedCase{version: CacheSchemaVersion, c: cs, cachedAt: time.Now()})
}

func (c *caseCache) Invalidate(caseID int64) {
	c.lru.Remove(caseID)
}

func (c *caseCache) Clear() {
	c.lru.Purge()
}
