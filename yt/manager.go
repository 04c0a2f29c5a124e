package yt

import (
	"encoding/json"
	"time"

	"Testificate/redis_client"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// MetadataCache caches resolved tracks in Redis so repeated plays of the
// same video skip the provider round-trip.
type MetadataCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewMetadataCache creates a MetadataCache with the TTL from config. A nil
// Redis client disables caching.
func NewMetadataCache(rdb *redis.Client) *MetadataCache {
	return &MetadataCache{
		redis: rdb,
		ttl:   time.Duration(viper.GetInt("cache.youtube")) * time.Second,
	}
}

func (c *MetadataCache) Get(videoID string) (*Track, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	cached, err := c.redis.Get(redis_client.Ctx, "ytmeta:"+videoID).Result()
	if err != nil || cached == "" {
		return nil, false
	}
	var track Track
	if err := json.Unmarshal([]byte(cached), &track); err != nil {
		return nil, false
	}
	return &track, true
}

func (c *MetadataCache) Put(track *Track) {
	if c == nil || c.redis == nil || track == nil {
		return
	}
	data, err := json.Marshal(track)
	if err != nil {
		return
	}
	c.redis.Set(redis_client.Ctx, "ytmeta:"+track.ID, data, c.ttl)
}
