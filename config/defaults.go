package config

import (
	"os"

	"github.com/spf13/viper"
)

func initDefaults() {
	viper.SetDefault("discord.token", os.Getenv("discord_token"))
	viper.SetDefault("discord.webhook", os.Getenv("discord_webhook"))
	viper.SetDefault("prefix", "t!")

	viper.SetDefault("exaroton.token", os.Getenv("exaroton_token"))
	viper.SetDefault("exaroton.server.id", os.Getenv("exaroton_server_id"))
	viper.SetDefault("exaroton.api", "https://api.exaroton.com/v1")

	// Playback limits. Tunable from the environment, never hard-coded in the core.
	viper.SetDefault("music.maxduration", 900) // seconds
	viper.SetDefault("music.maxretries", 2)
	viper.SetDefault("music.retrybackoff", 2) // seconds between retries
	viper.SetDefault("music.advancedelay", 1) // seconds between tracks

	viper.SetDefault("stream.timeout", 15)     // seconds until a silent stream is abandoned
	viper.SetDefault("stream.strategygap", 1)  // seconds between acquisition strategies
	viper.SetDefault("youtube.cookies", os.Getenv("youtube_cookies"))

	viper.SetDefault("cache.youtube", 3600) // metadata TTL in seconds

	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")

	viper.SetDefault("http.port", 3000)

	viper.SetDefault("economy.daily", 250)
}
