// Package cache holds the fingerprint-keyed cache of compiled
// statements. Fingerprints cover literal values, so cached text and
// argument lists are exact for the tree that produced them.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type CachedQuery struct {
	SQL  string
	Args []any
}

type QueryCache interface {
	Get(fingerprint uint64) (*CachedQuery, bool)
	Set(fingerprint uint64, q *CachedQuery)
	Len() int
}

type lruQueryCache struct {
	cache *lru.Cache[uint64, *CachedQuery]
}

// New creates an LRU-backed query cache. Size <= 0 falls back to 256.
func New(size int) QueryCache {
	if size <= 0 {
		size = 256
	}
	c, _ := lru.New[uint64, *CachedQuery](size)
	return &lruQueryCache{cache: c}
}

func (c *lruQueryCache) Get(fp uint64) (*CachedQuery, bool) {
	return c.cache.Get(fp)
}

func (c *lruQueryCache) Set(fp uint64, q *CachedQuery) {
	c.cache.Add(fp, q)
}

func (c *lruQueryCache) Len() int { return c.cache.Len() }
