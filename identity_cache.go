package modelkit

import (
	"time"

	"gorm.io/modelkit/internal/lru"
)

type lruIdentityCache struct {
	records *lru.LRU[string, *Record]
}

// NewIdentityCache returns an IdentityCache keeping at most size records, each for at most ttl.
// A zero ttl never expires records.
func NewIdentityCache(size int, ttl time.Duration) IdentityCache {
	return &lruIdentityCache{records: lru.NewLRU[string, *Record](size, nil, ttl)}
}

func (c *lruIdentityCache) Get(key string) (*Record, bool) {
	return c.records.Get(key)
}

func (c *lruIdentityCache) Add(key string, record *Record) {
	c.records.Add(key, record)
}

func (c *lruIdentityCache) Remove(key string) {
	c.records.Remove(key)
}

func (c *lruIdentityCache) Purge() {
	c.records.Purge()
}
