package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"conferencecentral/internal/domain"
)

func TestCache(t *testing.T) {
	c := New()

	_, ok := c.Get(domain.CacheKeyAnnouncement)
	assert.False(t, ok)

	c.Set(domain.CacheKeyAnnouncement, "first")
	c.Set(domain.CacheKeyAnnouncement, "second")
	v, ok := c.Get(domain.CacheKeyAnnouncement)
	assert.True(t, ok)
	assert.Equal(t, "second", v)

	c.Set(domain.CacheKeyFeaturedSpeaker, "Rob")
	c.Delete(domain.CacheKeyAnnouncement)
	_, ok = c.Get(domain.CacheKeyAnnouncement)
	assert.False(t, ok)
	v, _ = c.Get(domain.CacheKeyFeaturedSpeaker)
	assert.Equal(t, "Rob", v)
}
