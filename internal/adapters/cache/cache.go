// Package cache provides the in-process announcement cache.
package cache

import (
	"github.com/jellydator/ttlcache/v3"

	"conferencecentral/internal/domain"
)

// Cache stores announcement strings without expiry; values are replaced or
// deleted by whoever recomputes them.
type Cache struct {
	items *ttlcache.Cache[string, string]
}

var _ domain.Cache = (*Cache)(nil)

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		items: ttlcache.New(
			ttlcache.WithTTL[string, string](ttlcache.NoTTL),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
}

func (c *Cache) Get(key string) (string, bool) {
	item := c.items.Get(key)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

func (c *Cache) Set(key, value string) {
	c.items.Set(key, value, ttlcache.NoTTL)
}

func (c *Cache) Delete(key string) {
	c.items.Delete(key)
}
