package redis_client

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var (
	RDB *redis.Client
	Ctx = context.Background()
)

// Init connects the shared Redis client from configuration. Must run after
// the configuration is loaded; a missing Redis just disables caching.
func Init() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.address"),
		Password: viper.GetString("redis.password"),
	})
}
