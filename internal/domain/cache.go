package domain

// Cache keys for derived announcement strings.
const (
	CacheKeyAnnouncement    = "RECENT_ANNOUNCEMENTS"
	CacheKeyFeaturedSpeaker = "FEATURED_SPEAKER"
)

// Cache is a best-effort string cache. Readers may see stale or missing values.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}
